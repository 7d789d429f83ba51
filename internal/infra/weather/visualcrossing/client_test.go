package visualcrossing

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"

	"github.com/Niraj555-droid/Smart-Krishi-Advisor/internal/domain/alerts"
	apperrors "github.com/Niraj555-droid/Smart-Krishi-Advisor/pkg/errors"
)

func TestFetchForecastWithWindow(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"days":[{"datetime":"2024-07-01","precip":0.2},{"datetime":"2024-07-02","precip":null},{"datetime":"2024-07-03","precip":-1}]}`)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, "secret")
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	days, err := client.FetchForecast(context.Background(), alerts.ForecastQuery{
		Location: "Pune, Maharashtra",
		Start:    start,
		End:      start.AddDate(0, 0, 14),
	})

	require.NoError(t, err)
	require.Equal(t, "/Pune%2C%20Maharashtra/2024-07-01/2024-07-15", gotPath)
	require.Contains(t, gotQuery, "key=secret")
	require.Contains(t, gotQuery, "unitGroup=metric")
	require.Contains(t, gotQuery, "include=days")
	require.Contains(t, gotQuery, "elements=datetime%2Cprecip")

	require.Len(t, days, 3)
	require.Equal(t, start, days[0].Date)
	require.Equal(t, 0.2, days[0].PrecipitationMM)
	require.Zero(t, days[1].PrecipitationMM)
	require.Zero(t, days[2].PrecipitationMM)
}

func TestFetchForecastDefaultWindow(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = io.WriteString(w, `{"days":[]}`)
	}))
	defer srv.Close()

	days, err := newTestClient(srv.URL, "secret").FetchForecast(context.Background(), alerts.ForecastQuery{Location: "Nashik"})
	require.NoError(t, err)
	require.Empty(t, days)
	require.Equal(t, "/Nashik", gotPath)
}

func TestFetchForecastRejectsBadQueries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	start := time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC)
	cases := map[string]struct {
		key   string
		query alerts.ForecastQuery
	}{
		"missing key":      {key: "", query: alerts.ForecastQuery{Location: "Pune"}},
		"missing location": {key: "k", query: alerts.ForecastQuery{Location: "  "}},
		"start after end":  {key: "k", query: alerts.ForecastQuery{Location: "Pune", Start: start, End: start.AddDate(0, 0, -1)}},
		"half open window": {key: "k", query: alerts.ForecastQuery{Location: "Pune", Start: start}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := newTestClient(srv.URL, tc.key).FetchForecast(context.Background(), tc.query)
			require.Error(t, err)
		})
	}
	require.Zero(t, atomic.LoadInt32(&calls))
}

func TestFetchForecastSurfacesProviderErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Invalid location", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, "secret").FetchForecast(context.Background(), alerts.ForecastQuery{Location: "Atlantis"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=400")
	require.Contains(t, err.Error(), "Invalid location")
	require.True(t, apperrors.IsCode(err, apperrors.CodeWeather))

	var status *StatusError
	require.ErrorAs(t, err, &status)
	require.Equal(t, http.StatusBadRequest, status.StatusCode)
}

func TestFetchForecastRejectsMalformedDates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"days":[{"datetime":"07/01/2024","precip":1}]}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, "secret").FetchForecast(context.Background(), alerts.ForecastQuery{Location: "Pune"})
	require.Error(t, err)
}

func TestFetchForecastBreakerOpensAfterFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", time.Second, BreakerConfig{ConsecutiveFailures: 2, OpenTimeout: time.Minute}, discardLogger())
	query := alerts.ForecastQuery{Location: "Pune"}
	for i := 0; i < 2; i++ {
		_, err := client.FetchForecast(context.Background(), query)
		require.Error(t, err)
	}

	_, err := client.FetchForecast(context.Background(), query)
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	require.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetchForecastBadLocationsKeepBreakerClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/Nowhere" {
			http.Error(w, "Bad API Request:Invalid location parameter value.", http.StatusBadRequest)
			return
		}
		_, _ = io.WriteString(w, `{"days":[{"datetime":"2024-07-01","precip":0}]}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", time.Second, BreakerConfig{ConsecutiveFailures: 2, OpenTimeout: time.Minute}, discardLogger())
	for i := 0; i < 5; i++ {
		_, err := client.FetchForecast(context.Background(), alerts.ForecastQuery{Location: "Nowhere"})
		require.Error(t, err)
		require.NotErrorIs(t, err, gobreaker.ErrOpenState)
	}

	days, err := client.FetchForecast(context.Background(), alerts.ForecastQuery{Location: "Pune"})
	require.NoError(t, err)
	require.Len(t, days, 1)
	require.Equal(t, gobreaker.StateClosed, client.breaker.State())
}

func TestFetchForecastRateLimitTripsBreaker(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", time.Second, BreakerConfig{ConsecutiveFailures: 2, OpenTimeout: time.Minute}, discardLogger())
	for i := 0; i < 3; i++ {
		_, _ = client.FetchForecast(context.Background(), alerts.ForecastQuery{Location: "Pune"})
	}
	require.Equal(t, int32(2), atomic.LoadInt32(&calls))
	require.Equal(t, gobreaker.StateOpen, client.breaker.State())
}

func TestFetchForecastClientTimeoutTripsBreaker(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-time.After(200 * time.Millisecond):
		}
	}))
	defer srv.Close()
	defer close(release)

	client := NewClient(srv.URL, "secret", 20*time.Millisecond, BreakerConfig{ConsecutiveFailures: 2, OpenTimeout: time.Minute}, discardLogger())
	for i := 0; i < 2; i++ {
		_, err := client.FetchForecast(context.Background(), alerts.ForecastQuery{Location: "Pune"})
		require.Error(t, err)
	}

	_, err := client.FetchForecast(context.Background(), alerts.ForecastQuery{Location: "Pune"})
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	require.Equal(t, gobreaker.StateOpen, client.breaker.State())
}

func TestFetchForecastCallerCancellationKeepsBreakerClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"days":[]}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", time.Second, BreakerConfig{ConsecutiveFailures: 2, OpenTimeout: time.Minute}, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 4; i++ {
		_, err := client.FetchForecast(ctx, alerts.ForecastQuery{Location: "Pune"})
		require.ErrorIs(t, err, context.Canceled)
	}

	_, err := client.FetchForecast(context.Background(), alerts.ForecastQuery{Location: "Pune"})
	require.NoError(t, err)
	require.Equal(t, gobreaker.StateClosed, client.breaker.State())
}

func newTestClient(baseURL, key string) *Client {
	return NewClient(baseURL, key, time.Second, BreakerConfig{}, discardLogger())
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
