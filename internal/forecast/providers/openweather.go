package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/akorchev/weather-notify/internal/forecast"
)

// OpenWeatherProvider fetches the 3-hourly forecast feed from OpenWeatherMap.
// It is the primary source of the fusion.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	backoff BackoffConfig
	circuit *gobreaker.CircuitBreaker
	tz      *time.Location
}

func NewOpenWeatherProvider(client *http.Client, apiKey string, tz *time.Location) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5/forecast",
		client:  client,
		backoff: defaultBackoff(),
		circuit: newBreaker("openweather"),
		tz:      tz,
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) Source() forecast.Source {
	return forecast.SourcePrimary
}

// FetchSeries returns all 3-hourly samples falling on the requested calendar
// day in the provider's timezone. Rain probability comes from the "pop"
// field, scaled to percent.
func (p *OpenWeatherProvider) FetchSeries(ctx context.Context, loc forecast.Location, day time.Time) (forecast.SourceSeries, error) {
	if p.apiKey == "" {
		return forecast.SourceSeries{}, fmt.Errorf("openweather api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")
		if loc.Lat != nil && loc.Lon != nil {
			values.Set("lat", fmt.Sprintf("%f", *loc.Lat))
			values.Set("lon", fmt.Sprintf("%f", *loc.Lon))
		} else {
			q := loc.City
			if loc.Country != "" {
				q = fmt.Sprintf("%s,%s", loc.City, loc.Country)
			}
			values.Set("q", q)
		}

		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", p.baseURL, values.Encode()), nil)
	}

	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				Temp float64 `json:"temp"`
			} `json:"main"`
			Pop float64 `json:"pop"`
		} `json:"list"`
	}

	if err := fetchJSON(ctx, p.client, p.backoff, p.circuit, buildRequest, &payload); err != nil {
		return forecast.SourceSeries{}, err
	}

	targetY, targetM, targetD := day.In(p.tz).Date()

	series := forecast.SourceSeries{Source: forecast.SourcePrimary}
	for _, item := range payload.List {
		ts := time.Unix(item.Dt, 0).In(p.tz)
		y, m, d := ts.Date()
		if y != targetY || m != targetM || d != targetD {
			continue
		}
		series.Samples = append(series.Samples, forecast.RawSample{
			Timestamp: ts,
			TempC:     item.Main.Temp,
			RainPct:   clampPct(item.Pop * 100),
		})
	}

	return series, nil
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
