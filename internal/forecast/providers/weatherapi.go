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

// WeatherAPIProvider fetches the hourly forecast feed from WeatherAPI.com.
// It is the secondary source of the fusion; its denser data gets subsampled
// onto the 3-hour grid by the normalizer.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	backoff BackoffConfig
	circuit *gobreaker.CircuitBreaker
	tz      *time.Location
}

func NewWeatherAPIProvider(client *http.Client, apiKey string, tz *time.Location) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1/forecast.json",
		client:  client,
		backoff: defaultBackoff(),
		circuit: newBreaker("weatherapi"),
		tz:      tz,
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) Source() forecast.Source {
	return forecast.SourceSecondary
}

// FetchSeries returns the hourly samples for the requested calendar day.
// WeatherAPI reports hour timestamps as local wall-clock strings, parsed in
// the provider's timezone.
func (p *WeatherAPIProvider) FetchSeries(ctx context.Context, loc forecast.Location, day time.Time) (forecast.SourceSeries, error) {
	if p.apiKey == "" {
		return forecast.SourceSeries{}, fmt.Errorf("weatherapi api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		values.Set("days", "2")
		values.Set("aqi", "no")
		values.Set("alerts", "no")
		if loc.Lat != nil && loc.Lon != nil {
			values.Set("q", fmt.Sprintf("%f,%f", *loc.Lat, *loc.Lon))
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
		Forecast struct {
			ForecastDay []struct {
				Date string `json:"date"`
				Hour []struct {
					Time         string  `json:"time"`
					TempC        float64 `json:"temp_c"`
					ChanceOfRain float64 `json:"chance_of_rain"`
				} `json:"hour"`
			} `json:"forecastday"`
		} `json:"forecast"`
	}

	if err := fetchJSON(ctx, p.client, p.backoff, p.circuit, buildRequest, &payload); err != nil {
		return forecast.SourceSeries{}, err
	}

	targetDate := day.In(p.tz).Format("2006-01-02")

	series := forecast.SourceSeries{Source: forecast.SourceSecondary}
	for _, fd := range payload.Forecast.ForecastDay {
		if fd.Date != targetDate {
			continue
		}
		for _, hour := range fd.Hour {
			ts, err := time.ParseInLocation("2006-01-02 15:04", hour.Time, p.tz)
			if err != nil {
				return forecast.SourceSeries{}, fmt.Errorf("parse hour timestamp %q: %w", hour.Time, err)
			}
			series.Samples = append(series.Samples, forecast.RawSample{
				Timestamp: ts,
				TempC:     hour.TempC,
				RainPct:   clampPct(hour.ChanceOfRain),
			})
		}
	}

	return series, nil
}
