// Package calcom provides a client for the Cal.com v1 availability API.
package calcom

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/greenline365/pregreet/internal/resilience"
)

const providerName = "calcom"

// Client defines the Cal.com operations used before a call.
type Client interface {
	// Slots lists bookable slots for an event type within a window.
	Slots(ctx context.Context, req SlotsRequest) (*SlotsResponse, error)
}

// SlotsRequest is the window to query.
type SlotsRequest struct {
	EventTypeID string
	Start       time.Time
	End         time.Time
	TimeZone    string
}

// SlotsResponse maps a date (YYYY-MM-DD) to that day's slots.
type SlotsResponse struct {
	Slots map[string][]Slot `json:"slots"`
}

// Slot is one bookable start time.
type Slot struct {
	Time string `json:"time"`
}

// UnmarshalJSON accepts either {"time": "..."} or a bare time string.
func (s *Slot) UnmarshalJSON(b []byte) error {
	var bare string
	if err := json.Unmarshal(b, &bare); err == nil {
		s.Time = bare
		return nil
	}
	type plain Slot
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*s = Slot(p)
	return nil
}

// Times returns every slot start across all dates, unsorted.
func (r *SlotsResponse) Times() []string {
	if r == nil {
		return nil
	}
	var out []string
	for _, day := range r.Slots {
		for _, s := range day {
			if s.Time != "" {
				out = append(out, s.Time)
			}
		}
	}
	return out
}

// Option configures the Cal.com client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets the requests-per-second limit.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a new Cal.com client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://api.cal.com/v1",
		http: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(5, 5),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Slots(ctx context.Context, req SlotsRequest) (*SlotsResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "calcom: rate limit wait")
	}

	q := url.Values{}
	q.Set("apiKey", c.apiKey)
	q.Set("eventTypeId", req.EventTypeID)
	q.Set("startTime", req.Start.Format(time.RFC3339))
	q.Set("endTime", req.End.Format(time.RFC3339))
	if req.TimeZone != "" {
		q.Set("timeZone", req.TimeZone)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/slots?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "calcom: create request")
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "calcom: slots request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "calcom: read body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Wrap(resilience.NewStatusError(providerName, resp.StatusCode, body),
			"calcom: slots event type "+strconv.Quote(req.EventTypeID))
	}

	var out SlotsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, eris.Wrap(err, "calcom: decode slots")
	}
	return &out, nil
}
