package chart

import (
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// bandSeries fills the area between an upper and a lower edge. Used for the
// continuous inter-source temperature spread and, with constant edges, for
// the static temperature zones.
type bandSeries struct {
	name  string
	style chart.Style
	xs    []float64
	upper []float64
	lower []float64
}

func (b bandSeries) GetName() string {
	return b.name
}

func (b bandSeries) GetStyle() chart.Style {
	return b.style
}

func (b bandSeries) GetYAxis() chart.YAxisType {
	return chart.YAxisPrimary
}

func (b bandSeries) Validate() error {
	if len(b.xs) < 2 || len(b.xs) != len(b.upper) || len(b.xs) != len(b.lower) {
		return fmt.Errorf("band series %s: mismatched point counts", b.name)
	}
	return nil
}

func (b bandSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	style := b.style.InheritFrom(defaults)
	r.SetFillColor(style.GetFillColor())

	for i, x := range b.xs {
		px := canvasBox.Left + xrange.Translate(x)
		py := canvasBox.Bottom - yrange.Translate(b.upper[i])
		if i == 0 {
			r.MoveTo(px, py)
		} else {
			r.LineTo(px, py)
		}
	}
	for i := len(b.xs) - 1; i >= 0; i-- {
		px := canvasBox.Left + xrange.Translate(b.xs[i])
		py := canvasBox.Bottom - yrange.Translate(b.lower[i])
		r.LineTo(px, py)
	}
	r.Close()
	r.Fill()
}

// zoneSeries builds a constant horizontal band clipped to the visible
// y-range, or nil when the zone falls entirely outside it.
func zoneSeries(name string, floor, ceil, minY, maxY float64, xs []float64, color drawing.Color) chart.Series {
	if len(xs) < 2 {
		return nil
	}
	if floor > maxY || ceil < minY {
		return nil
	}
	if floor < minY {
		floor = minY
	}
	if ceil > maxY {
		ceil = maxY
	}

	upper := make([]float64, len(xs))
	lower := make([]float64, len(xs))
	for i := range xs {
		upper[i] = ceil
		lower[i] = floor
	}
	return bandSeries{
		name:  name,
		style: chart.Style{FillColor: color},
		xs:    xs,
		upper: upper,
		lower: lower,
	}
}
