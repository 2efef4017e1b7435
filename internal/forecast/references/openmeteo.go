package references

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/akorchev/weather-notify/internal/forecast"
)

// OpenMeteoSource corroborates the two-feed fusion with Open-Meteo's keyless
// hourly forecast, averaged over the daytime window.
type OpenMeteoSource struct {
	name    string
	baseURL string
	client  *http.Client
	tz      *time.Location
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoSource(client *http.Client, tz *time.Location) *OpenMeteoSource {
	return &OpenMeteoSource{
		name:    "open-meteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		client:  client,
		tz:      tz,
		circuit: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "openmeteo",
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     2 * time.Minute,
		}),
	}
}

func (s *OpenMeteoSource) Name() string {
	return s.name
}

// FetchReference returns one point: mean daytime temperature and rain
// probability for the requested day. Any failure maps to
// ErrReferenceUnavailable so the pipeline degrades instead of aborting.
func (s *OpenMeteoSource) FetchReference(ctx context.Context, loc forecast.Location, day time.Time) (forecast.ReferencePoint, error) {
	point := forecast.ReferencePoint{SourceName: s.name}

	if loc.Lat == nil || loc.Lon == nil {
		return point, fmt.Errorf("%w: open-meteo requires coordinates for %s", forecast.ErrReferenceUnavailable, loc.Key())
	}

	date := day.In(s.tz).Format("2006-01-02")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.requestURL(loc, date), nil)
	if err != nil {
		return point, fmt.Errorf("%w: %v", forecast.ErrReferenceUnavailable, err)
	}

	var payload struct {
		Hourly struct {
			Time                     []string  `json:"time"`
			Temperature              []float64 `json:"temperature_2m"`
			PrecipitationProbability []float64 `json:"precipitation_probability"`
		} `json:"hourly"`
	}

	result, err := s.circuit.Execute(func() (interface{}, error) {
		resp, err := s.client.Do(req)
		if err != nil {
			return nil, err
		}
		return resp, nil
	})
	if err != nil {
		return point, fmt.Errorf("%w: %v", forecast.ErrReferenceUnavailable, err)
	}
	resp := result.(*http.Response)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return point, fmt.Errorf("%w: open-meteo returned %s", forecast.ErrReferenceUnavailable, resp.Status)
	}
	if err := decodeJSON(resp, &payload); err != nil {
		return point, fmt.Errorf("%w: %v", forecast.ErrReferenceUnavailable, err)
	}

	win := forecast.DayWindow(day, s.tz)
	var tempSum, rainSum float64
	var tempN, rainN int
	for i, raw := range payload.Hourly.Time {
		ts, err := time.ParseInLocation("2006-01-02T15:04", raw, s.tz)
		if err != nil || ts.Before(win.Start) || ts.After(win.End) {
			continue
		}
		if i < len(payload.Hourly.Temperature) {
			tempSum += payload.Hourly.Temperature[i]
			tempN++
		}
		if i < len(payload.Hourly.PrecipitationProbability) {
			rainSum += payload.Hourly.PrecipitationProbability[i]
			rainN++
		}
	}

	if tempN == 0 && rainN == 0 {
		return point, fmt.Errorf("%w: open-meteo returned no daytime hours for %s", forecast.ErrReferenceUnavailable, date)
	}
	if tempN > 0 {
		temp := tempSum / float64(tempN)
		point.TempC = &temp
	}
	if rainN > 0 {
		rain := rainSum / float64(rainN)
		point.RainPct = &rain
	}
	return point, nil
}

func (s *OpenMeteoSource) requestURL(loc forecast.Location, date string) string {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", *loc.Lat))
	values.Set("longitude", fmt.Sprintf("%f", *loc.Lon))
	values.Set("hourly", "temperature_2m,precipitation_probability")
	values.Set("timezone", s.tz.String())
	values.Set("start_date", date)
	values.Set("end_date", date)
	return fmt.Sprintf("%s?%s", s.baseURL, values.Encode())
}
