package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelvins/geocoder"

	"github.com/akorchev/weather-notify/internal/forecast"
)

// AppConfig holds everything the daily run needs.
type AppConfig struct {
	OpenWeatherAPIKey string
	WeatherAPIKey     string

	PushoverToken   string
	PushoverUserKey string

	// Cities to process each run.
	Locations []forecast.Location

	// Timezone the fusion window is computed in.
	Timezone *time.Location

	// Per-city YR.no daily-table pages for the reference scraper.
	YRNoPages map[string]string

	// Tier boundaries for the alignment classifier.
	Thresholds forecast.Thresholds

	// Where record/chart artifacts are written.
	OutputDir string

	// Local time of day ("HH:MM") the scheduled run fires at.
	RunAt string

	// In-memory record store retention.
	StoreMaxHistory int
	StoreMaxAge     time.Duration

	HTTPTimeout time.Duration
	Port        string
}

const defaultCities = "Brussels,BE,50.8503,4.3517;Paris,FR,48.8566,2.3522"

var defaultYRNoPages = map[string]string{
	"brussels": "https://www.yr.no/en/forecast/daily-table/2-2800866/Belgium/Brussels-Capital/Brussels",
	"paris":    "https://www.yr.no/en/forecast/daily-table/2-2988507/France/%C3%8Ele-de-France/Paris",
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	cfg.PushoverToken = os.Getenv("PUSHOVER_API_TOKEN")
	cfg.PushoverUserKey = os.Getenv("PUSHOVER_USER_KEY")

	tzName := getenvDefault("WEATHER_TIMEZONE", "Europe/Paris")
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid WEATHER_TIMEZONE %q: %w", tzName, err)
	}
	cfg.Timezone = tz

	locs, err := parseLocations(getenvDefault("WEATHER_CITIES", defaultCities))
	if err != nil {
		return nil, err
	}
	if key := os.Getenv("GOOGLE_GEOCODER_API_KEY"); key != "" {
		geocoder.ApiKey = key
		fillCoordinates(locs)
	}
	cfg.Locations = locs

	cfg.YRNoPages = parsePages(os.Getenv("YRNO_PAGES"))

	cfg.Thresholds = loadThresholds()

	cfg.OutputDir = getenvDefault("OUTPUT_DIR", "out")
	cfg.RunAt = getenvDefault("RUN_AT", "18:00")

	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 14)
	maxAgeStr := getenvDefault("STORE_MAX_AGE", "336h") // two weeks of daily records
	maxAge, err := time.ParseDuration(maxAgeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_MAX_AGE: %w", err)
	}
	cfg.StoreMaxAge = maxAge

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "20s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

// parseLocations reads "City,CC[,lat,lon];City,CC[,lat,lon];...".
func parseLocations(raw string) ([]forecast.Location, error) {
	var locs []forecast.Location
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ",")
		if len(parts) != 2 && len(parts) != 4 {
			return nil, fmt.Errorf("invalid city entry %q: want City,CC or City,CC,lat,lon", entry)
		}

		loc := forecast.Location{
			City:    strings.TrimSpace(parts[0]),
			Country: strings.TrimSpace(parts[1]),
		}
		if loc.City == "" || loc.Country == "" {
			return nil, fmt.Errorf("invalid city entry %q: city and country are required", entry)
		}

		if len(parts) == 4 {
			lat, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid latitude in %q: %w", entry, err)
			}
			lon, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid longitude in %q: %w", entry, err)
			}
			loc.Lat = &lat
			loc.Lon = &lon
		}
		locs = append(locs, loc)
	}

	if len(locs) == 0 {
		return nil, fmt.Errorf("no cities configured")
	}
	return locs, nil
}

// fillCoordinates resolves missing coordinates through the Google geocoder.
// Failures only cost the coordinate-dependent reference source, so they log
// and move on.
func fillCoordinates(locs []forecast.Location) {
	for i := range locs {
		if locs[i].Lat != nil && locs[i].Lon != nil {
			continue
		}
		addr := geocoder.Address{
			City:    locs[i].City,
			Country: locs[i].Country,
		}
		result, err := geocoder.Geocoding(addr)
		if err != nil {
			log.Printf("config: geocoding %s failed: %v", locs[i].Key(), err)
			continue
		}
		lat, lon := result.Latitude, result.Longitude
		locs[i].Lat = &lat
		locs[i].Lon = &lon
	}
}

// parsePages reads "City=URL;City=URL" on top of the built-in defaults.
func parsePages(raw string) map[string]string {
	pages := make(map[string]string, len(defaultYRNoPages))
	for city, u := range defaultYRNoPages {
		pages[city] = u
	}
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		city, u, ok := strings.Cut(entry, "=")
		if !ok {
			log.Printf("config: skipping malformed YRNO_PAGES entry %q", entry)
			continue
		}
		pages[strings.ToLower(strings.TrimSpace(city))] = strings.TrimSpace(u)
	}
	return pages
}

func loadThresholds() forecast.Thresholds {
	th := forecast.DefaultThresholds()
	th.LowTempC = getenvFloat("ALIGN_LOW_TEMP_C", th.LowTempC)
	th.LowRainPP = getenvFloat("ALIGN_LOW_RAIN_PP", th.LowRainPP)
	th.MediumTempC = getenvFloat("ALIGN_MEDIUM_TEMP_C", th.MediumTempC)
	th.MediumRainPP = getenvFloat("ALIGN_MEDIUM_RAIN_PP", th.MediumRainPP)
	return th
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
