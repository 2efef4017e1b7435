package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akorchev/weather-notify/internal/forecast"
)

func fastBackoff() BackoffConfig {
	return BackoffConfig{
		MaxRetries:      2,
		InitialInterval: time.Millisecond,
		MaxInterval:     time.Millisecond,
	}
}

func openWeatherPayload(day time.Time) map[string]interface{} {
	// Two samples on the target day plus one on the next to exercise the
	// day filter. Pop of 1.2 exceeds 1.0 and must clamp to 100%.
	list := []map[string]interface{}{
		{
			"dt":   day.Add(9 * time.Hour).Unix(),
			"main": map[string]interface{}{"temp": 17.5},
			"pop":  0.35,
		},
		{
			"dt":   day.Add(12 * time.Hour).Unix(),
			"main": map[string]interface{}{"temp": 21.0},
			"pop":  1.2,
		},
		{
			"dt":   day.Add(33 * time.Hour).Unix(),
			"main": map[string]interface{}{"temp": 19.0},
			"pop":  0.1,
		},
	}
	return map[string]interface{}{"list": list}
}

func TestOpenWeatherFetchSeries(t *testing.T) {
	day := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("units"); got != "metric" {
			t.Errorf("expected metric units, got %q", got)
		}
		if got := r.URL.Query().Get("appid"); got != "test-key" {
			t.Errorf("expected api key in query, got %q", got)
		}
		json.NewEncoder(w).Encode(openWeatherPayload(day))
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(srv.Client(), "test-key", time.UTC)
	p.baseURL = srv.URL

	series, err := p.FetchSeries(context.Background(), forecast.Location{City: "Brussels", Country: "BE"}, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if series.Source != forecast.SourcePrimary {
		t.Fatalf("expected primary source, got %s", series.Source)
	}
	if len(series.Samples) != 2 {
		t.Fatalf("expected 2 samples on the target day, got %d", len(series.Samples))
	}
	if series.Samples[0].RainPct != 35 {
		t.Fatalf("expected pop scaled to percent, got %v", series.Samples[0].RainPct)
	}
	if series.Samples[1].RainPct != 100 {
		t.Fatalf("expected pop clamped to 100, got %v", series.Samples[1].RainPct)
	}
	if series.Samples[1].TempC != 21.0 {
		t.Fatalf("unexpected temperature: %v", series.Samples[1].TempC)
	}
}

func TestOpenWeatherRequiresAPIKey(t *testing.T) {
	p := NewOpenWeatherProvider(http.DefaultClient, "", time.UTC)

	if _, err := p.FetchSeries(context.Background(), forecast.Location{City: "Brussels"}, time.Now()); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestOpenWeatherRetriesServerErrors(t *testing.T) {
	day := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(openWeatherPayload(day))
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(srv.Client(), "test-key", time.UTC)
	p.baseURL = srv.URL
	p.backoff = fastBackoff()

	series, err := p.FetchSeries(context.Background(), forecast.Location{City: "Brussels"}, day)
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
	if len(series.Samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(series.Samples))
	}
}

func TestOpenWeatherGivesUpAfterRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(srv.Client(), "test-key", time.UTC)
	p.baseURL = srv.URL
	p.backoff = fastBackoff()

	_, err := p.FetchSeries(context.Background(), forecast.Location{City: "Brussels"}, time.Now())
	if !errors.Is(err, errServerError) {
		t.Fatalf("expected server error after exhausting retries, got %v", err)
	}
}

func weatherAPIPayload() map[string]interface{} {
	hour := func(ts string, temp, rain float64) map[string]interface{} {
		return map[string]interface{}{"time": ts, "temp_c": temp, "chance_of_rain": rain}
	}
	return map[string]interface{}{
		"forecast": map[string]interface{}{
			"forecastday": []map[string]interface{}{
				{
					"date": "2026-08-25",
					"hour": []map[string]interface{}{
						hour("2026-08-25 12:00", 19, 5),
					},
				},
				{
					"date": "2026-08-26",
					"hour": []map[string]interface{}{
						hour("2026-08-26 09:00", 16.5, 10),
						hour("2026-08-26 10:00", 17.8, 20),
						hour("2026-08-26 11:00", 18.9, 130),
					},
				},
			},
		},
	}
}

func TestWeatherAPIFetchSeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("expected api key in query, got %q", got)
		}
		if got := r.URL.Query().Get("days"); got != "2" {
			t.Errorf("expected two-day request, got %q", got)
		}
		json.NewEncoder(w).Encode(weatherAPIPayload())
	}))
	defer srv.Close()

	p := NewWeatherAPIProvider(srv.Client(), "test-key", time.UTC)
	p.baseURL = srv.URL

	day := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
	series, err := p.FetchSeries(context.Background(), forecast.Location{City: "Brussels", Country: "BE"}, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if series.Source != forecast.SourceSecondary {
		t.Fatalf("expected secondary source, got %s", series.Source)
	}
	if len(series.Samples) != 3 {
		t.Fatalf("expected 3 hourly samples for the target day, got %d", len(series.Samples))
	}

	want := time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)
	if !series.Samples[0].Timestamp.Equal(want) {
		t.Fatalf("expected first sample at %s, got %s", want, series.Samples[0].Timestamp)
	}
	if series.Samples[0].TempC != 16.5 {
		t.Fatalf("unexpected temperature: %v", series.Samples[0].TempC)
	}
	if series.Samples[2].RainPct != 100 {
		t.Fatalf("expected rain probability clamped to 100, got %v", series.Samples[2].RainPct)
	}
}

func TestWeatherAPIUsesCoordinatesWhenAvailable(t *testing.T) {
	var gotQ string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQ = r.URL.Query().Get("q")
		json.NewEncoder(w).Encode(weatherAPIPayload())
	}))
	defer srv.Close()

	p := NewWeatherAPIProvider(srv.Client(), "test-key", time.UTC)
	p.baseURL = srv.URL

	lat, lon := 50.8503, 4.3517
	loc := forecast.Location{City: "Brussels", Country: "BE", Lat: &lat, Lon: &lon}

	if _, err := p.FetchSeries(context.Background(), loc, time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQ != "50.850300,4.351700" {
		t.Fatalf("expected coordinate query, got %q", gotQ)
	}
}

func TestWeatherAPIRejectsBadHourTimestamp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"forecast": map[string]interface{}{
				"forecastday": []map[string]interface{}{
					{
						"date": "2026-08-26",
						"hour": []map[string]interface{}{
							{"time": "not-a-time", "temp_c": 16.5, "chance_of_rain": 10},
						},
					},
				},
			},
		})
	}))
	defer srv.Close()

	p := NewWeatherAPIProvider(srv.Client(), "test-key", time.UTC)
	p.baseURL = srv.URL

	_, err := p.FetchSeries(context.Background(), forecast.Location{City: "Brussels"}, time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC))
	if err == nil {
		t.Fatal("expected error for unparsable hour timestamp")
	}
}
