package forecast

import (
	"fmt"
	"time"
)

// AlignSeries resamples the two source series onto the window's 3-hour grid.
//
// For each grid timestamp a source contributes its exactly-matching sample
// when one exists; denser feeds are subsampled this way, never interpolated.
// When no sample lands exactly on the grid point, the nearest earlier sample
// within the source's native interval stands in. If no sample qualifies the
// slot value stays nil for that source and is excluded from aggregation for
// that slot only.
//
// A source with zero samples inside the window yields ErrIncompleteWindow;
// a missing value at either anchor yields ErrMissingAnchor.
func AlignSeries(primary, secondary SourceSeries, win Window) ([]AlignedSlot, error) {
	pSamples, err := windowSamples(primary, win)
	if err != nil {
		return nil, err
	}
	sSamples, err := windowSamples(secondary, win)
	if err != nil {
		return nil, err
	}

	pInterval := nativeInterval(pSamples, win.Step)
	sInterval := nativeInterval(sSamples, win.Step)

	slots := make([]AlignedSlot, 0, len(win.Slots()))
	for _, ts := range win.Slots() {
		slots = append(slots, AlignedSlot{
			Timestamp: ts,
			Primary:   valueAt(pSamples, ts, pInterval),
			Secondary: valueAt(sSamples, ts, sInterval),
		})
	}

	noon, evening := win.Anchors()
	for _, slot := range slots {
		if !slot.Timestamp.Equal(noon) && !slot.Timestamp.Equal(evening) {
			continue
		}
		if slot.Primary == nil {
			return nil, fmt.Errorf("%s at %s: %w", primary.Source, slot.Timestamp.Format("15:04"), ErrMissingAnchor)
		}
		if slot.Secondary == nil {
			return nil, fmt.Errorf("%s at %s: %w", secondary.Source, slot.Timestamp.Format("15:04"), ErrMissingAnchor)
		}
	}

	return slots, nil
}

// windowSamples filters a series down to samples inside the window,
// preserving order.
func windowSamples(series SourceSeries, win Window) ([]RawSample, error) {
	var inside []RawSample
	for _, s := range series.Samples {
		if s.Timestamp.Before(win.Start) || s.Timestamp.After(win.End) {
			continue
		}
		inside = append(inside, s)
	}
	if len(inside) == 0 {
		return nil, fmt.Errorf("%s: %w", series.Source, ErrIncompleteWindow)
	}
	return inside, nil
}

// nativeInterval infers a series' sampling interval as the minimum positive
// gap between consecutive samples. A single-sample series falls back to the
// grid step.
func nativeInterval(samples []RawSample, fallback time.Duration) time.Duration {
	interval := fallback
	for i := 1; i < len(samples); i++ {
		gap := samples[i].Timestamp.Sub(samples[i-1].Timestamp)
		if gap > 0 && gap < interval {
			interval = gap
		}
	}
	return interval
}

// valueAt picks the sample for one grid timestamp: exact match first, then
// the nearest earlier sample no further back than the native interval.
func valueAt(samples []RawSample, ts time.Time, interval time.Duration) *SlotValue {
	var fallback *RawSample
	for i := range samples {
		s := &samples[i]
		if s.Timestamp.Equal(ts) {
			return &SlotValue{TempC: s.TempC, RainPct: s.RainPct}
		}
		if s.Timestamp.Before(ts) && ts.Sub(s.Timestamp) <= interval {
			if fallback == nil || s.Timestamp.After(fallback.Timestamp) {
				fallback = s
			}
		}
	}
	if fallback != nil {
		return &SlotValue{TempC: fallback.TempC, RainPct: fallback.RainPct}
	}
	return nil
}
