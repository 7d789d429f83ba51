package visualcrossing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Niraj555-droid/Smart-Krishi-Advisor/internal/domain/alerts"
	apperrors "github.com/Niraj555-droid/Smart-Krishi-Advisor/pkg/errors"
)

const (
	defaultBaseURL = "https://weather.visualcrossing.com/VisualCrossingWebServices/rest/services/timeline"
	dateLayout     = "2006-01-02"
)

// BreakerConfig controls when the client stops calling a failing provider.
type BreakerConfig struct {
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
}

// Client fetches daily precipitation from the Visual Crossing timeline API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewClient builds an API client. An empty API key is accepted here and rejected per request.
func NewClient(baseURL, apiKey string, timeout time.Duration, breaker BreakerConfig, logger *slog.Logger) *Client {
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		endpoint = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if breaker.ConsecutiveFailures == 0 {
		breaker.ConsecutiveFailures = 5
	}
	if breaker.OpenTimeout <= 0 {
		breaker.OpenTimeout = 30 * time.Second
	}
	log := logger.With("component", "weather.visualcrossing")

	return &Client{
		baseURL: strings.TrimRight(endpoint, "/"),
		apiKey:  strings.TrimSpace(apiKey),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "visualcrossing",
			Timeout: breaker.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= breaker.ConsecutiveFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn("weather breaker state changed", "name", name, "from", from.String(), "to", to.String())
			},
			IsSuccessful: providerHealthy,
		}),
	}
}

// StatusError reports a non-2xx answer from the provider.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("weather request error: status=%d body=%s", e.StatusCode, e.Body)
}

// callerAbort marks a call cut short by the caller's own context.
type callerAbort struct {
	err error
}

func (e *callerAbort) Error() string { return e.err.Error() }
func (e *callerAbort) Unwrap() error { return e.err }

// providerHealthy decides which outcomes count against the breaker.
// Only 5xx, 429, transport failures and unreadable payloads do.
func providerHealthy(err error) bool {
	if err == nil {
		return true
	}
	var abort *callerAbort
	if errors.As(err, &abort) {
		return true
	}
	var status *StatusError
	if errors.As(err, &status) {
		return status.StatusCode < 500 && status.StatusCode != http.StatusTooManyRequests
	}
	return false
}

// FetchForecast returns one entry per day in provider order.
// Zero Start and End select the provider's default window.
// Every error carries the weather_error code.
func (c *Client) FetchForecast(ctx context.Context, query alerts.ForecastQuery) ([]alerts.ForecastDay, error) {
	if c.apiKey == "" {
		return nil, weatherError(errors.New("weather api key is not configured"))
	}
	location := strings.TrimSpace(query.Location)
	if location == "" {
		return nil, weatherError(errors.New("weather location is required"))
	}
	if query.Start.IsZero() != query.End.IsZero() {
		return nil, weatherError(errors.New("weather query needs both start and end dates"))
	}
	if !query.Start.IsZero() && query.Start.After(query.End) {
		return nil, weatherError(fmt.Errorf("weather query start %s is after end %s", query.Start.Format(dateLayout), query.End.Format(dateLayout)))
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		days, err := c.fetch(ctx, location, query)
		if err != nil && ctx.Err() != nil {
			return nil, &callerAbort{err: err}
		}
		return days, err
	})
	if err != nil {
		var abort *callerAbort
		if errors.As(err, &abort) {
			err = abort.err
		}
		return nil, weatherError(err)
	}
	return result.([]alerts.ForecastDay), nil
}

func weatherError(err error) error {
	return apperrors.Wrap(apperrors.CodeWeather, "visual crossing", err)
}

func (c *Client) fetch(ctx context.Context, location string, query alerts.ForecastQuery) ([]alerts.ForecastDay, error) {
	endpoint := c.endpoint(location, query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(payload))}
	}

	var raw timelineResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}
	return normalizeDays(raw.Days)
}

func (c *Client) endpoint(location string, query alerts.ForecastQuery) string {
	var b strings.Builder
	b.WriteString(c.baseURL)
	b.WriteString("/")
	b.WriteString(url.PathEscape(location))
	if !query.Start.IsZero() {
		b.WriteString("/")
		b.WriteString(query.Start.Format(dateLayout))
		b.WriteString("/")
		b.WriteString(query.End.Format(dateLayout))
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("unitGroup", "metric")
	params.Set("include", "days")
	params.Set("elements", "datetime,precip")
	b.WriteString("?")
	b.WriteString(params.Encode())
	return b.String()
}

type timelineResponse struct {
	Days []timelineDay `json:"days"`
}

type timelineDay struct {
	Datetime string   `json:"datetime"`
	Precip   *float64 `json:"precip"`
}

func normalizeDays(days []timelineDay) ([]alerts.ForecastDay, error) {
	out := make([]alerts.ForecastDay, 0, len(days))
	for _, d := range days {
		date, err := time.Parse(dateLayout, d.Datetime)
		if err != nil {
			return nil, fmt.Errorf("parse weather date %q: %w", d.Datetime, err)
		}
		precip := 0.0
		if d.Precip != nil && *d.Precip > 0 {
			precip = *d.Precip
		}
		out = append(out, alerts.ForecastDay{Date: date, PrecipitationMM: precip})
	}
	return out, nil
}
