package chart

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/akorchev/weather-notify/internal/forecast"
)

const (
	warmZoneFloorC = 24
	hotZoneFloorC  = 30
)

// Renderer composes the per-city comparison chart: one temperature line per
// source, the averaged line, a filled band between the source lines, rain
// probability per source on the secondary axis, static warm/hot zones
// beneath the data, and bold averaged-temperature annotations at the window
// anchors. Output is deterministic for identical input.
type Renderer struct {
	Width  int
	Height int
}

func NewRenderer() *Renderer {
	return &Renderer{Width: 800, Height: 400}
}

// Render produces the PNG for one city/day.
func (r *Renderer) Render(city string, slots []forecast.AlignedSlot, summary forecast.DaySummary) ([]byte, error) {
	if len(slots) < 2 {
		return nil, fmt.Errorf("need at least two slots to render a chart, got %d", len(slots))
	}

	var (
		primX, primTemp, primRain []float64
		secX, secTemp, secRain    []float64
		avgX, avgTemp             []float64
		bandX, bandUp, bandLow    []float64
		allX                      []float64
		ticks                     []chart.Tick
	)

	for _, slot := range slots {
		x := float64(slot.Timestamp.Unix())
		allX = append(allX, x)
		ticks = append(ticks, chart.Tick{Value: x, Label: strconv.Itoa(slot.Timestamp.Hour())})

		if slot.Primary != nil {
			primX = append(primX, x)
			primTemp = append(primTemp, slot.Primary.TempC)
			primRain = append(primRain, slot.Primary.RainPct)
		}
		if slot.Secondary != nil {
			secX = append(secX, x)
			secTemp = append(secTemp, slot.Secondary.TempC)
			secRain = append(secRain, slot.Secondary.RainPct)
		}

		switch {
		case slot.Primary != nil && slot.Secondary != nil:
			avgX = append(avgX, x)
			avgTemp = append(avgTemp, (slot.Primary.TempC+slot.Secondary.TempC)/2)
			bandX = append(bandX, x)
			bandUp = append(bandUp, math.Max(slot.Primary.TempC, slot.Secondary.TempC))
			bandLow = append(bandLow, math.Min(slot.Primary.TempC, slot.Secondary.TempC))
		case slot.Primary != nil:
			avgX = append(avgX, x)
			avgTemp = append(avgTemp, slot.Primary.TempC)
		case slot.Secondary != nil:
			avgX = append(avgX, x)
			avgTemp = append(avgTemp, slot.Secondary.TempC)
		}
	}

	if len(primX) < 2 || len(secX) < 2 {
		return nil, fmt.Errorf("each source needs at least two plotted points")
	}

	minY := math.Floor(summary.LowTempC) - 2
	maxY := math.Max(math.Ceil(summary.HighTempC)+2, hotZoneFloorC+2)

	series := []chart.Series{}
	// Zones first so the data band stays visually dominant.
	if warm := zoneSeries("warm zone", warmZoneFloorC, hotZoneFloorC, minY, maxY, allX, chart.ColorYellow.WithAlpha(40)); warm != nil {
		series = append(series, warm)
	}
	if hot := zoneSeries("hot zone", hotZoneFloorC, maxY, minY, maxY, allX, chart.ColorRed.WithAlpha(40)); hot != nil {
		series = append(series, hot)
	}
	if len(bandX) >= 2 {
		series = append(series, bandSeries{
			name:  "temperature spread",
			style: chart.Style{FillColor: chart.ColorRed.WithAlpha(70)},
			xs:    bandX,
			upper: bandUp,
			lower: bandLow,
		})
	}

	series = append(series,
		chart.ContinuousSeries{
			Name:    "Temp OWM",
			XValues: primX,
			YValues: primTemp,
			Style:   chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 2},
		},
		chart.ContinuousSeries{
			Name:    "Temp WeatherAPI",
			XValues: secX,
			YValues: secTemp,
			Style:   chart.Style{StrokeColor: chart.ColorOrange, StrokeWidth: 2, StrokeDashArray: []float64{5, 3}},
		},
		chart.ContinuousSeries{
			Name:    "Avg Temp",
			XValues: avgX,
			YValues: avgTemp,
			Style:   chart.Style{StrokeColor: chart.ColorBlack, StrokeWidth: 2, StrokeDashArray: []float64{2, 2}},
		},
		chart.ContinuousSeries{
			Name:    "Rain% OWM",
			XValues: primX,
			YValues: primRain,
			YAxis:   chart.YAxisSecondary,
			Style:   chart.Style{StrokeColor: chart.ColorCyan, StrokeWidth: 1.5, StrokeDashArray: []float64{4, 2}},
		},
		chart.ContinuousSeries{
			Name:    "Rain% WeatherAPI",
			XValues: secX,
			YValues: secRain,
			YAxis:   chart.YAxisSecondary,
			Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 1.5, StrokeDashArray: []float64{2, 2}},
		},
	)

	if ann := anchorAnnotations(slots); len(ann) > 0 {
		series = append(series, chart.AnnotationSeries{
			Annotations: ann,
			Style: chart.Style{
				FontSize:    12,
				FontColor:   chart.ColorBlack,
				StrokeColor: chart.ColorBlack,
				FillColor:   chart.ColorWhite,
			},
		})
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s Tomorrow – Day Forecast", city),
		Width:  r.Width,
		Height: r.Height,
		XAxis: chart.XAxis{
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  "Temperature (°C)",
			Range: &chart.ContinuousRange{Min: minY, Max: maxY},
		},
		YAxisSecondary: chart.YAxis{
			Name:  "Rain Probability (%)",
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		Series: series,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

// anchorAnnotations places the bold averaged-temperature labels at the noon
// and evening anchors.
func anchorAnnotations(slots []forecast.AlignedSlot) []chart.Value2 {
	if len(slots) == 0 {
		return nil
	}
	win := forecast.Window{Start: slots[0].Timestamp, End: slots[len(slots)-1].Timestamp}
	noon, evening := win.Anchors()

	var out []chart.Value2
	for _, slot := range slots {
		if !slot.Timestamp.Equal(noon) && !slot.Timestamp.Equal(evening) {
			continue
		}
		if slot.Primary == nil || slot.Secondary == nil {
			continue
		}
		avg := (slot.Primary.TempC + slot.Secondary.TempC) / 2
		out = append(out, chart.Value2{
			XValue: float64(slot.Timestamp.Unix()),
			YValue: avg,
			Label:  fmt.Sprintf("%.1f°C", avg),
		})
	}
	return out
}
