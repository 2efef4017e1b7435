package config

import (
	"testing"
)

func TestParseLocations(t *testing.T) {
	locs, err := parseLocations("Brussels,BE,50.8503,4.3517;Paris,FR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(locs) != 2 {
		t.Fatalf("expected 2 locations, got %d", len(locs))
	}

	if locs[0].City != "Brussels" || locs[0].Country != "BE" {
		t.Fatalf("unexpected first location: %+v", locs[0])
	}
	if locs[0].Lat == nil || *locs[0].Lat != 50.8503 {
		t.Fatalf("expected parsed latitude, got %+v", locs[0].Lat)
	}
	if locs[1].Lat != nil || locs[1].Lon != nil {
		t.Fatalf("coordinates should be optional: %+v", locs[1])
	}
}

func TestParseLocationsRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "Brussels", "Brussels,BE,50.8503", "Brussels,BE,abc,4.3"} {
		if _, err := parseLocations(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.Locations) != 2 {
		t.Fatalf("expected the two default cities, got %d", len(cfg.Locations))
	}
	if cfg.Timezone.String() != "Europe/Paris" {
		t.Fatalf("expected Europe/Paris default, got %s", cfg.Timezone)
	}
	if cfg.Thresholds.LowTempC != 1 || cfg.Thresholds.MediumRainPP != 25 {
		t.Fatalf("unexpected default thresholds: %+v", cfg.Thresholds)
	}
	if _, ok := cfg.YRNoPages["brussels"]; !ok {
		t.Fatal("default yr.no pages should include brussels")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("WEATHER_CITIES", "Ghent,BE")
	t.Setenv("WEATHER_TIMEZONE", "UTC")
	t.Setenv("ALIGN_LOW_TEMP_C", "2.5")
	t.Setenv("YRNO_PAGES", "Ghent=https://example.org/ghent")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.Locations) != 1 || cfg.Locations[0].City != "Ghent" {
		t.Fatalf("expected the configured city, got %+v", cfg.Locations)
	}
	if cfg.Timezone.String() != "UTC" {
		t.Fatalf("expected UTC, got %s", cfg.Timezone)
	}
	if cfg.Thresholds.LowTempC != 2.5 {
		t.Fatalf("expected threshold override 2.5, got %v", cfg.Thresholds.LowTempC)
	}
	if cfg.YRNoPages["ghent"] != "https://example.org/ghent" {
		t.Fatalf("expected yr.no page override, got %+v", cfg.YRNoPages)
	}
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	t.Setenv("WEATHER_TIMEZONE", "Mars/Olympus")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}
