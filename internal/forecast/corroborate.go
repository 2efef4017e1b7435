package forecast

import (
	"fmt"
	"math"
	"strings"
)

// alignmentOrder runs from strongest to weakest agreement; corroboration
// moves the verdict at most one step along it.
var alignmentOrder = []Alignment{AlignmentFull, AlignmentPartial, AlignmentDivergent}

// tierAlignment maps the two-source disagreement tier to its baseline
// verdict. This is also the required fallback when every reference scrape
// failed: corroboration may refine the verdict but its absence never aborts
// the pipeline.
func tierAlignment(t Tier) Alignment {
	switch t {
	case TierLow:
		return AlignmentFull
	case TierMedium:
		return AlignmentPartial
	default:
		return AlignmentDivergent
	}
}

// Corroborate folds zero or more reference points into the two-source tier.
//
// Each usable reference is compared against the fused averages: it agrees
// when every value it carries lies within the low thresholds, and disagrees
// when any value exceeds the medium thresholds. A strict majority of usable
// references agreeing upgrades the verdict one step toward full; a strict
// majority disagreeing downgrades one step toward divergent; anything else
// leaves the tier's verdict standing. Failed references (both values nil)
// are excluded from the vote and only surface in the rationale.
func Corroborate(summary DaySummary, u Uncertainty, refs []ReferencePoint, th Thresholds) AlignmentVerdict {
	base := tierAlignment(u.Tier)

	var agreed, disagreed, failed []string
	for _, ref := range refs {
		if !ref.Usable() {
			failed = append(failed, ref.SourceName)
			continue
		}
		tempDev := deviation(ref.TempC, summary.AvgTempC)
		rainDev := deviation(ref.RainPct, float64(summary.AvgRainPct))
		switch {
		case th.beyondMedium(tempDev, rainDev):
			disagreed = append(disagreed, ref.SourceName)
		case th.withinLow(tempDev, rainDev):
			agreed = append(agreed, ref.SourceName)
		}
	}

	usable := len(refs) - len(failed)
	verdict := base
	switch {
	case usable > 0 && len(agreed)*2 > usable:
		verdict = stepToward(base, AlignmentFull)
	case usable > 0 && len(disagreed)*2 > usable:
		verdict = stepToward(base, AlignmentDivergent)
	}

	return AlignmentVerdict{
		Alignment: verdict,
		Rationale: buildRationale(u, base, verdict, agreed, disagreed, failed, usable),
	}
}

func deviation(v *float64, avg float64) *float64 {
	if v == nil {
		return nil
	}
	d := math.Abs(*v - avg)
	return &d
}

func stepToward(from, target Alignment) Alignment {
	fi := alignmentIndex(from)
	ti := alignmentIndex(target)
	switch {
	case fi < ti:
		return alignmentOrder[fi+1]
	case fi > ti:
		return alignmentOrder[fi-1]
	default:
		return from
	}
}

func alignmentIndex(a Alignment) int {
	for i, v := range alignmentOrder {
		if v == a {
			return i
		}
	}
	return 1
}

func buildRationale(u Uncertainty, base, verdict Alignment, agreed, disagreed, failed []string, usable int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "sources differ by up to %.1f°C and %.0fpp rain (%s disagreement)", u.TempRangeC, u.RainRangePP, u.Tier)

	if usable == 0 {
		if len(failed) > 0 {
			fmt.Fprintf(&b, "; no reference forecasts available (%s failed)", strings.Join(failed, ", "))
		} else {
			b.WriteString("; no reference forecasts consulted")
		}
	} else {
		if len(agreed) > 0 {
			fmt.Fprintf(&b, "; %s close to the fused forecast", strings.Join(agreed, ", "))
		}
		if len(disagreed) > 0 {
			fmt.Fprintf(&b, "; %s far from the fused forecast", strings.Join(disagreed, ", "))
		}
		if len(agreed) == 0 && len(disagreed) == 0 {
			b.WriteString("; references inconclusive")
		}
		if len(failed) > 0 {
			fmt.Fprintf(&b, "; %s unavailable", strings.Join(failed, ", "))
		}
	}

	if verdict != base {
		fmt.Fprintf(&b, "; verdict adjusted from %s to %s", base, verdict)
	} else {
		fmt.Fprintf(&b, "; verdict %s", verdict)
	}
	return b.String()
}
