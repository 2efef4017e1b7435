package forecast

import (
	"fmt"
	"time"
)

// Source identifies one of the two forecast feeds being fused.
type Source string

const (
	SourcePrimary   Source = "openweathermap"
	SourceSecondary Source = "weatherapi"
)

// Location represents a logical place for which we fuse forecasts.
// City/Country must be provided; coordinates are optional and only
// required by sources that cannot resolve a city name themselves.
type Location struct {
	City    string   `json:"city"`
	Country string   `json:"country"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

// Key returns a canonical string key for indexing this location in stores.
func (l Location) Key() string {
	return l.City + ":" + l.Country
}

// RawSample is a single forecast point from one feed at its native interval.
type RawSample struct {
	Timestamp time.Time `json:"timestamp"`
	TempC     float64   `json:"temperatureC"`
	RainPct   float64   `json:"rainProbabilityPercent"`
}

// SourceSeries is the ordered sequence of raw samples one feed produced for
// a single city/day. Timestamps must be strictly increasing and fall on the
// target calendar day.
type SourceSeries struct {
	Source  Source      `json:"source"`
	Samples []RawSample `json:"samples"`
}

// SlotValue carries one source's contribution to an aligned slot.
type SlotValue struct {
	TempC   float64 `json:"temperatureC"`
	RainPct float64 `json:"rainProbabilityPercent"`
}

// AlignedSlot pairs both sources' values at one shared grid timestamp.
// A nil value means that source had no usable sample for the slot; such
// slots are tolerated everywhere except the window anchors.
type AlignedSlot struct {
	Timestamp time.Time  `json:"timestamp"`
	Primary   *SlotValue `json:"primary,omitempty"`
	Secondary *SlotValue `json:"secondary,omitempty"`
}

// Window is the fixed daytime interval forecasts are fused over.
type Window struct {
	Start time.Time     `json:"start"`
	End   time.Time     `json:"end"`
	Step  time.Duration `json:"-"`
}

const (
	windowStartHour = 9
	windowEndHour   = 21
	windowStepHours = 3
	anchorNoonHour  = 12
)

// DayWindow returns the fusion window for the given calendar day in tz:
// 09:00 through 21:00 local at a 3-hour step.
func DayWindow(day time.Time, tz *time.Location) Window {
	y, m, d := day.In(tz).Date()
	return Window{
		Start: time.Date(y, m, d, windowStartHour, 0, 0, 0, tz),
		End:   time.Date(y, m, d, windowEndHour, 0, 0, 0, tz),
		Step:  windowStepHours * time.Hour,
	}
}

// Slots enumerates the grid timestamps of the window, inclusive of both ends.
func (w Window) Slots() []time.Time {
	var slots []time.Time
	for t := w.Start; !t.After(w.End); t = t.Add(w.Step) {
		slots = append(slots, t)
	}
	return slots
}

// Anchors returns the noon and evening anchor timestamps. Both sources must
// contribute a value at each anchor for a fusion to be considered valid.
func (w Window) Anchors() (noon, evening time.Time) {
	y, m, d := w.Start.Date()
	noon = time.Date(y, m, d, anchorNoonHour, 0, 0, 0, w.Start.Location())
	return noon, w.End
}

// DaySummary is the canonical fused output for one city/day.
type DaySummary struct {
	AvgTempC    float64   `json:"avgTempC"`
	TempRangeC  float64   `json:"tempRangeC"`
	AvgRainPct  int       `json:"avgRainPercent"`
	RainRangePP float64   `json:"rainRangePP"`
	HighTempC   float64   `json:"highTempC"`
	LowTempC    float64   `json:"lowTempC"`
	WindowStart time.Time `json:"windowStart"`
	WindowEnd   time.Time `json:"windowEnd"`
}

// ReferencePoint is a forecast value obtained from an independent, non-API
// source. Either field may be nil when the source could not provide it;
// a point with both fields nil still records that the source was consulted.
type ReferencePoint struct {
	SourceName string   `json:"source"`
	TempC      *float64 `json:"temperatureC,omitempty"`
	RainPct    *float64 `json:"rainProbabilityPercent,omitempty"`
}

// Usable reports whether the point carries at least one value.
func (p ReferencePoint) Usable() bool {
	return p.TempC != nil || p.RainPct != nil
}

// Alignment is the categorical judgment of how well forecast sources agree.
type Alignment string

const (
	AlignmentFull      Alignment = "full"
	AlignmentPartial   Alignment = "partial"
	AlignmentDivergent Alignment = "divergent"
)

// AlignmentVerdict couples the category with a short human-readable
// rationale. The rationale is an output artifact only; nothing branches
// on it after it is produced.
type AlignmentVerdict struct {
	Alignment Alignment `json:"alignment"`
	Rationale string    `json:"rationale"`
}

// ForecastRecord is the unit handed to storage and the notifier. Created
// once per city per run and never mutated afterwards; the next day's run
// supersedes it.
type ForecastRecord struct {
	ID         string           `json:"id"`
	Location   Location         `json:"location"`
	Date       time.Time        `json:"date"`
	Summary    DaySummary       `json:"summary"`
	References []ReferencePoint `json:"references"`
	Verdict    AlignmentVerdict `json:"verdict"`
	ChartPath  string           `json:"chartPath,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// Key addresses the record's artifacts: "<city>:<country>@<date>".
func (r ForecastRecord) Key() string {
	return fmt.Sprintf("%s@%s", r.Location.Key(), r.Date.Format("2006-01-02"))
}
