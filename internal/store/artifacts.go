package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/akorchev/weather-notify/internal/forecast"
)

// FileArtifactStore writes the record/chart pair as files addressable by
// city and date: <dir>/<city>_<date>.json and <dir>/<city>_<date>.png.
type FileArtifactStore struct {
	dir string
}

// NewFileArtifactStore ensures the output directory exists.
func NewFileArtifactStore(dir string) (*FileArtifactStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir %s: %w", dir, err)
	}
	return &FileArtifactStore{dir: dir}, nil
}

// WriteChart persists the rendered PNG and returns its path.
func (s *FileArtifactStore) WriteChart(loc forecast.Location, day time.Time, png []byte) (string, error) {
	path := s.artifactPath(loc, day, "png")
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return "", fmt.Errorf("write chart %s: %w", path, err)
	}
	return path, nil
}

// WriteRecord persists the record as JSON and returns its path.
func (s *FileArtifactStore) WriteRecord(rec forecast.ForecastRecord) (string, error) {
	raw, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal record %s: %w", rec.Key(), err)
	}

	path := s.artifactPath(rec.Location, rec.Date, "json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write record %s: %w", path, err)
	}
	return path, nil
}

func (s *FileArtifactStore) artifactPath(loc forecast.Location, day time.Time, ext string) string {
	name := fmt.Sprintf("%s_%s.%s", citySlug(loc.City), day.Format("2006-01-02"), ext)
	return filepath.Join(s.dir, name)
}

func citySlug(city string) string {
	slug := strings.ToLower(strings.TrimSpace(city))
	return strings.ReplaceAll(slug, " ", "-")
}
