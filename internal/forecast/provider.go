package forecast

import (
	"context"
	"time"
)

// SeriesProvider abstracts one of the two forecast feeds (OpenWeatherMap,
// WeatherAPI). Implementations fetch and parse the wire format into a
// SourceSeries for the requested calendar day; the core never sees raw
// payloads.
type SeriesProvider interface {
	Name() string
	Source() Source
	FetchSeries(ctx context.Context, loc Location, day time.Time) (SourceSeries, error)
}

// ReferenceSource abstracts an independent corroborating forecast (scraped
// site or keyless API). Implementations return ErrReferenceUnavailable on
// any failure; the pipeline degrades the point to null rather than aborting.
type ReferenceSource interface {
	Name() string
	FetchReference(ctx context.Context, loc Location, day time.Time) (ReferencePoint, error)
}

// RecordStore is the contract the in-memory record store (and any future
// persistent store) must satisfy.
type RecordStore interface {
	SaveRecord(loc Location, rec ForecastRecord)
	Latest(loc Location) (ForecastRecord, error)
	Range(loc Location, from, to time.Time) ([]ForecastRecord, error)
}

// ChartRenderer turns the aligned series and summary into a raster image.
type ChartRenderer interface {
	Render(city string, slots []AlignedSlot, summary DaySummary) ([]byte, error)
}

// ArtifactStore persists the record/chart pair addressable by city and date.
type ArtifactStore interface {
	WriteChart(loc Location, day time.Time, png []byte) (string, error)
	WriteRecord(rec ForecastRecord) (string, error)
}
