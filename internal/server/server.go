// Package server exposes the briefing builder over HTTP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/greenline365/pregreet/internal/briefing"
	"github.com/greenline365/pregreet/internal/model"
	"github.com/greenline365/pregreet/internal/resilience"
)

// TenantHeader selects the tenant when the body does not name one.
const TenantHeader = "X-Tenant-ID"

const (
	maxBodyBytes  = 64 << 10
	healthTimeout = 500 * time.Millisecond
)

// Builder builds a briefing. It must always return one.
type Builder interface {
	Build(ctx context.Context, req briefing.Request) model.Briefing
}

// Pinger checks a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the router's collaborators.
type Deps struct {
	Briefings      Builder
	Store          Pinger
	Breakers       *resilience.Registry
	AllowedOrigins []string
}

// NewRouter wires the HTTP routes.
func NewRouter(d Deps) http.Handler {
	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "X-Client-Info", "Apikey", "Content-Type", TenantHeader},
		MaxAge:         300,
	}))

	h := &handlers{deps: d, now: time.Now}
	r.Get("/health", h.health)
	r.Post("/pre-greeting", h.preGreeting)
	return r
}

type handlers struct {
	deps Deps
	now  func() time.Time
}

// preGreeting always answers 200 so the voice agent can greet the caller
// even when the briefing failed.
func (h *handlers) preGreeting(w http.ResponseWriter, r *http.Request) {
	var req briefing.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		callID := uuid.NewString()
		zap.L().Warn("server: invalid pre-greeting body",
			zap.String("call_id", callID),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		writeJSON(w, http.StatusOK, model.FailedBriefing(callID, "", eris.Wrap(err, "server: decode request"), h.now()))
		return
	}
	if req.TenantID == "" {
		req.TenantID = strings.TrimSpace(r.Header.Get(TenantHeader))
	}

	if h.deps.Briefings == nil {
		writeJSON(w, http.StatusOK, model.FailedBriefing(req.CallID, req.CallerPhone,
			eris.New("server: briefing service not configured"), h.now()))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Briefings.Build(r.Context(), req))
}

type healthResponse struct {
	Status   string            `json:"status"`
	Store    string            `json:"store"`
	Breakers map[string]string `json:"breakers,omitempty"`
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Store: "ok"}
	status := http.StatusOK

	switch {
	case h.deps.Store == nil:
		resp.Store = "not configured"
	default:
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := h.deps.Store.Ping(ctx); err != nil {
			zap.L().Warn("server: store ping failed", zap.Error(err))
			resp.Status, resp.Store = "degraded", "unreachable"
			status = http.StatusServiceUnavailable
		}
	}
	if h.deps.Breakers != nil {
		resp.Breakers = h.deps.Breakers.States()
	}
	writeJSON(w, status, resp)
}

// accessLog logs each request through the global zap logger.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("server: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}

// Start serves handler on port until ctx is cancelled, then shuts down
// gracefully.
func Start(ctx context.Context, handler http.Handler, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.L().Warn("server: shutdown", zap.Error(err))
		}
	}()

	zap.L().Info("starting server", zap.Int("port", port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server: listen")
	}
	return nil
}
