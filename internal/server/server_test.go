package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenline365/pregreet/internal/briefing"
	"github.com/greenline365/pregreet/internal/model"
	"github.com/greenline365/pregreet/internal/resilience"
)

type builderFunc func(ctx context.Context, req briefing.Request) model.Briefing

func (f builderFunc) Build(ctx context.Context, req briefing.Request) model.Briefing {
	return f(ctx, req)
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func echoBuilder(got *briefing.Request) Builder {
	return builderFunc(func(_ context.Context, req briefing.Request) model.Briefing {
		*got = req
		return model.Briefing{
			Success:       true,
			CustomerPhone: req.CallerPhone,
			CallID:        req.CallID,
			CompanyName:   "Cool Breeze HVAC",
			TenantID:      model.StringPtr(req.TenantID),
		}
	})
}

func postJSON(t *testing.T, h http.Handler, body string, header http.Header) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/pre-greeting", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return rr, out
}

func TestPreGreeting(t *testing.T) {
	var got briefing.Request
	h := NewRouter(Deps{Briefings: echoBuilder(&got)})

	rr, out := postJSON(t, h,
		`{"caller_phone":"+12395550123","to_phone":"+12395550100","call_id":"call-1","zip_code":"33901"}`, nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")
	assert.Equal(t, briefing.Request{
		CallerPhone: "+12395550123",
		ToPhone:     "+12395550100",
		CallID:      "call-1",
		ZipCode:     "33901",
	}, got)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "call-1", out["call_id"])
}

func TestPreGreeting_TenantHeader(t *testing.T) {
	var got briefing.Request
	h := NewRouter(Deps{Briefings: echoBuilder(&got)})

	_, out := postJSON(t, h, `{"caller_phone":"1","call_id":"c"}`,
		http.Header{TenantHeader: []string{" t-9 "}})
	assert.Equal(t, "t-9", got.TenantID)
	assert.Equal(t, "t-9", out["tenant_id"])

	postJSON(t, h, `{"caller_phone":"1","tenant_id":"t-body"}`,
		http.Header{TenantHeader: []string{"t-9"}})
	assert.Equal(t, "t-body", got.TenantID, "body wins over header")
}

func TestPreGreeting_InvalidBody(t *testing.T) {
	h := NewRouter(Deps{Briefings: builderFunc(func(context.Context, briefing.Request) model.Briefing {
		t.Fatal("builder must not run for an invalid body")
		return model.Briefing{}
	})})

	rr, out := postJSON(t, h, `{"caller_phone":`, nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, false, out["success"])
	assert.Contains(t, out["error"], "decode request")
	assert.Equal(t, true, out["is_new_caller"])
	assert.Equal(t, float64(100), out["confidence_score"])
	assert.Equal(t, float64(50), out["relationship_score"])
	assert.Equal(t, "stranger", out["vibe_category"])
	assert.NotEmpty(t, out["call_id"])
}

func TestPreGreeting_NoBuilder(t *testing.T) {
	rr, out := postJSON(t, NewRouter(Deps{}), `{"caller_phone":"2395550123","call_id":"c-1"}`, nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "c-1", out["call_id"])
	assert.Equal(t, "2395550123", out["customer_phone"])
}

func TestPreGreeting_PanicRecovered(t *testing.T) {
	h := NewRouter(Deps{Briefings: builderFunc(func(context.Context, briefing.Request) model.Briefing {
		panic("unexpected")
	})})

	req := httptest.NewRequest(http.MethodPost, "/pre-greeting", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := NewRouter(Deps{})

	req := httptest.NewRequest(http.MethodOptions, "/pre-greeting", nil)
	req.Header.Set("Origin", "https://app.greenline365.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "content-type, x-tenant-id")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestCORS_RestrictedOrigins(t *testing.T) {
	var got briefing.Request
	h := NewRouter(Deps{Briefings: echoBuilder(&got), AllowedOrigins: []string{"https://app.greenline365.com"}})

	req := httptest.NewRequest(http.MethodPost, "/pre-greeting", strings.NewReader(`{}`))
	req.Header.Set("Origin", "https://evil.example")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodPost, "/pre-greeting", strings.NewReader(`{}`))
	req.Header.Set("Origin", "https://app.greenline365.com")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "https://app.greenline365.com", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealth(t *testing.T) {
	breakers := resilience.NewRegistry(resilience.DefaultBreakerConfig())
	breakers.Get("calcom")
	breakers.Get("openweather")

	h := NewRouter(Deps{
		Store:    pingerFunc(func(context.Context) error { return nil }),
		Breakers: breakers,
	})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var body healthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "ok", body.Store)
	assert.Equal(t, map[string]string{"calcom": "closed", "openweather": "closed"}, body.Breakers)
}

func TestHealth_StoreDown(t *testing.T) {
	h := NewRouter(Deps{Store: pingerFunc(func(context.Context) error { return errors.New("refused") })})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	var body healthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "unreachable", body.Store)
}

func TestHealth_NoStore(t *testing.T) {
	rr := httptest.NewRecorder()
	NewRouter(Deps{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "not configured")
}

func TestStart_GracefulShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	errCh := make(chan error, 1)
	go func() {
		errCh <- Start(ctx, NewRouter(Deps{}), port)
	}()

	var ready bool
	for i := 0; i < 50; i++ {
		resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/health", port))
		if err == nil {
			resp.Body.Close() //nolint:errcheck
			ready = resp.StatusCode == http.StatusOK
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.True(t, ready, "server did not become ready in time")

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}
