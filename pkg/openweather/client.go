// Package openweather provides a client for the OpenWeather geocoding,
// current conditions, forecast and alerts endpoints.
package openweather

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

const providerName = "openweather"

// Client defines the OpenWeather operations used to build a weather context.
type Client interface {
	// GeocodeZip resolves a postal code to coordinates.
	GeocodeZip(ctx context.Context, zip, country string) (*Location, error)
	// Current returns current conditions in imperial units.
	Current(ctx context.Context, lat, lon float64) (*CurrentResponse, error)
	// Forecast returns the 5-day / 3-hour forecast in imperial units.
	Forecast(ctx context.Context, lat, lon float64) (*ForecastResponse, error)
	// Alerts returns active government weather alerts.
	Alerts(ctx context.Context, lat, lon float64) ([]Alert, error)
}

// Location is a geocoded postal code.
type Location struct {
	Zip     string  `json:"zip"`
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
}

// Condition describes one weather condition.
type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Main holds the numeric readings. Absent readings are nil.
type Main struct {
	Temp      *float64 `json:"temp"`
	FeelsLike *float64 `json:"feels_like"`
	Humidity  *float64 `json:"humidity"`
}

// CurrentResponse is the current conditions payload.
type CurrentResponse struct {
	Name    string      `json:"name"`
	Main    Main        `json:"main"`
	Weather []Condition `json:"weather"`
}

// ForecastPeriod is one 3-hour forecast step.
type ForecastPeriod struct {
	Dt      int64       `json:"dt"`
	Main    Main        `json:"main"`
	Weather []Condition `json:"weather"`
}

// Time returns the period start.
func (p ForecastPeriod) Time() time.Time {
	return time.Unix(p.Dt, 0)
}

// City is the forecast location. Timezone is the UTC offset in seconds.
type City struct {
	Name     string `json:"name"`
	Timezone int    `json:"timezone"`
}

// ForecastResponse is the forecast payload.
type ForecastResponse struct {
	List []ForecastPeriod `json:"list"`
	City City             `json:"city"`
}

// Alert is a government weather alert.
type Alert struct {
	SenderName  string   `json:"sender_name"`
	Event       string   `json:"event"`
	Start       int64    `json:"start"`
	End         int64    `json:"end"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Option configures the OpenWeather client.
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

// NewClient creates a new OpenWeather client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org",
		http: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(10, 10),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) GeocodeZip(ctx context.Context, zip, country string) (*Location, error) {
	if country == "" {
		country = "US"
	}
	q := url.Values{}
	q.Set("zip", zip+","+country)

	var out Location
	if err := c.get(ctx, "/geo/1.0/zip", q, &out); err != nil {
		return nil, eris.Wrapf(err, "openweather: geocode zip %s", zip)
	}
	return &out, nil
}

func (c *httpClient) Current(ctx context.Context, lat, lon float64) (*CurrentResponse, error) {
	q := coords(lat, lon)
	q.Set("units", "imperial")

	var out CurrentResponse
	if err := c.get(ctx, "/data/2.5/weather", q, &out); err != nil {
		return nil, eris.Wrap(err, "openweather: current conditions")
	}
	return &out, nil
}

func (c *httpClient) Forecast(ctx context.Context, lat, lon float64) (*ForecastResponse, error) {
	q := coords(lat, lon)
	q.Set("units", "imperial")

	var out ForecastResponse
	if err := c.get(ctx, "/data/2.5/forecast", q, &out); err != nil {
		return nil, eris.Wrap(err, "openweather: forecast")
	}
	return &out, nil
}

func (c *httpClient) Alerts(ctx context.Context, lat, lon float64) ([]Alert, error) {
	q := coords(lat, lon)
	q.Set("exclude", "minutely,hourly,daily")

	var out struct {
		Alerts []Alert `json:"alerts"`
	}
	if err := c.get(ctx, "/data/2.5/onecall", q, &out); err != nil {
		return nil, eris.Wrap(err, "openweather: alerts")
	}
	return out.Alerts, nil
}

func coords(lat, lon float64) url.Values {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	return q
}

func (c *httpClient) get(ctx context.Context, path string, q url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "rate limit wait")
	}

	q.Set("appid", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read body")
	}
	if resp.StatusCode != http.StatusOK {
		return resilience.NewStatusError(providerName, resp.StatusCode, body)
	}
	return eris.Wrap(json.Unmarshal(body, out), "decode response")
}
