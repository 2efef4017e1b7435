package forecast

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Service orchestrates the per-city fusion pipeline:
// normalize -> aggregate -> estimate -> corroborate -> {chart, record}.
type Service struct {
	primary    SeriesProvider
	secondary  SeriesProvider
	references []ReferenceSource
	store      RecordStore
	artifacts  ArtifactStore
	chart      ChartRenderer
	thresholds Thresholds
	tz         *time.Location
}

// ServiceDeps wires the collaborators into the pipeline.
type ServiceDeps struct {
	Primary    SeriesProvider
	Secondary  SeriesProvider
	References []ReferenceSource
	Store      RecordStore
	Artifacts  ArtifactStore
	Chart      ChartRenderer
	Thresholds Thresholds
	Timezone   *time.Location
}

// NewService creates a new Service.
func NewService(deps ServiceDeps) *Service {
	tz := deps.Timezone
	if tz == nil {
		tz = time.UTC
	}
	return &Service{
		primary:    deps.Primary,
		secondary:  deps.Secondary,
		references: deps.References,
		store:      deps.Store,
		artifacts:  deps.Artifacts,
		chart:      deps.Chart,
		thresholds: deps.Thresholds,
		tz:         tz,
	}
}

// RunDay executes the full pipeline for one city and day, persists the
// resulting record and chart, and returns the record. Any returned error is
// fatal to this city only; RunBatch isolates it from the rest of the batch.
func (s *Service) RunDay(ctx context.Context, loc Location, day time.Time) (ForecastRecord, error) {
	primary, secondary, err := s.fetchSeries(ctx, loc, day)
	if err != nil {
		return ForecastRecord{}, err
	}

	refs := s.fetchReferences(ctx, loc, day)

	win := DayWindow(day, s.tz)
	slots, err := AlignSeries(primary, secondary, win)
	if err != nil {
		return ForecastRecord{}, fmt.Errorf("align series for %s: %w", loc.Key(), err)
	}

	summary := Summarize(slots, win)
	uncertainty := EstimateUncertainty(slots, s.thresholds)
	summary.TempRangeC = uncertainty.TempRangeC
	summary.RainRangePP = uncertainty.RainRangePP

	verdict := Corroborate(summary, uncertainty, refs, s.thresholds)

	rec := ForecastRecord{
		ID:         uuid.NewString(),
		Location:   loc,
		Date:       midnight(win.Start),
		Summary:    summary,
		References: refs,
		Verdict:    verdict,
		CreatedAt:  time.Now().UTC(),
	}

	if s.chart != nil && s.artifacts != nil {
		png, err := s.chart.Render(loc.City, slots, summary)
		if err != nil {
			return ForecastRecord{}, fmt.Errorf("render chart for %s: %w", loc.Key(), err)
		}
		path, err := s.artifacts.WriteChart(loc, win.Start, png)
		if err != nil {
			return ForecastRecord{}, fmt.Errorf("write chart for %s: %w", loc.Key(), err)
		}
		rec.ChartPath = path
	}

	if s.artifacts != nil {
		if _, err := s.artifacts.WriteRecord(rec); err != nil {
			return ForecastRecord{}, fmt.Errorf("write record for %s: %w", loc.Key(), err)
		}
	}
	if s.store != nil {
		s.store.SaveRecord(loc, rec)
	}

	return rec, nil
}

// RunResult pairs one city's outcome with its error, if any.
type RunResult struct {
	Location Location
	Record   ForecastRecord
	Err      error
}

// RunBatch processes each city sequentially through the full pipeline. A
// failed city is logged and reported in its result; it never affects the
// other cities in the batch.
func (s *Service) RunBatch(ctx context.Context, locs []Location, day time.Time) []RunResult {
	results := make([]RunResult, 0, len(locs))
	for _, loc := range locs {
		rec, err := s.RunDay(ctx, loc, day)
		if err != nil {
			log.Printf("pipeline failed for %s: %v", loc.Key(), err)
		}
		results = append(results, RunResult{Location: loc, Record: rec, Err: err})
	}
	return results
}

// fetchSeries pulls both feeds concurrently; both must succeed, since fusion
// of a single feed is meaningless.
func (s *Service) fetchSeries(ctx context.Context, loc Location, day time.Time) (SourceSeries, SourceSeries, error) {
	if s.primary == nil || s.secondary == nil {
		return SourceSeries{}, SourceSeries{}, fmt.Errorf("both forecast providers must be configured")
	}

	var (
		wg         sync.WaitGroup
		prim, sec  SourceSeries
		pErr, sErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		prim, pErr = s.primary.FetchSeries(ctx, loc, day)
	}()
	go func() {
		defer wg.Done()
		sec, sErr = s.secondary.FetchSeries(ctx, loc, day)
	}()
	wg.Wait()

	if pErr != nil {
		return SourceSeries{}, SourceSeries{}, fmt.Errorf("fetch %s for %s: %w", s.primary.Name(), loc.Key(), pErr)
	}
	if sErr != nil {
		return SourceSeries{}, SourceSeries{}, fmt.Errorf("fetch %s for %s: %w", s.secondary.Name(), loc.Key(), sErr)
	}
	return prim, sec, nil
}

// fetchReferences consults every reference source concurrently. A failed
// source yields a null point for its name; scraping failure must never
// abort the pipeline.
func (s *Service) fetchReferences(ctx context.Context, loc Location, day time.Time) []ReferencePoint {
	if len(s.references) == 0 {
		return nil
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	points := make([]ReferencePoint, 0, len(s.references))

	for _, src := range s.references {
		src := src
		wg.Add(1)
		go func() {
			defer wg.Done()

			point, err := src.FetchReference(ctx, loc, day)
			if err != nil {
				log.Printf("reference %s unavailable for %s: %v", src.Name(), loc.Key(), err)
				point = ReferencePoint{SourceName: src.Name()}
			}

			mu.Lock()
			points = append(points, point)
			mu.Unlock()
		}()
	}
	wg.Wait()

	return points
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Latest delegates to the underlying store.
func (s *Service) Latest(loc Location) (ForecastRecord, error) {
	return s.store.Latest(loc)
}

// Range delegates to the underlying store.
func (s *Service) Range(loc Location, from, to time.Time) ([]ForecastRecord, error) {
	return s.store.Range(loc, from, to)
}
