package forecast

import "math"

// Tier is the numeric-threshold-derived disagreement level between the two
// feeds, the prior for the alignment verdict before reference corroboration.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// Thresholds bound each tier. They are deliberately configuration, not law:
// the original classifier's exact cut-offs are unknown, so these defaults
// reconstruct its behavior and can be overridden from the environment.
type Thresholds struct {
	LowTempC     float64
	LowRainPP    float64
	MediumTempC  float64
	MediumRainPP float64
}

// DefaultThresholds returns the standard tier boundaries: low within
// 1°C/10pp, medium within 3°C/25pp, high beyond.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LowTempC:     1,
		LowRainPP:    10,
		MediumTempC:  3,
		MediumRainPP: 25,
	}
}

// Uncertainty quantifies inter-source disagreement.
type Uncertainty struct {
	TempRangeC  float64
	RainRangePP float64
	Tier        Tier
}

// EstimateUncertainty measures the worst-case per-slot disagreement between
// the two sources and maps it onto a tier. The maximum is used rather than
// the mean so a single large divergence is not averaged away. Slots where
// either source is missing cannot witness disagreement and are skipped.
func EstimateUncertainty(slots []AlignedSlot, th Thresholds) Uncertainty {
	var tempRange, rainRange float64
	for _, slot := range slots {
		if slot.Primary == nil || slot.Secondary == nil {
			continue
		}
		if d := math.Abs(slot.Primary.TempC - slot.Secondary.TempC); d > tempRange {
			tempRange = d
		}
		if d := math.Abs(slot.Primary.RainPct - slot.Secondary.RainPct); d > rainRange {
			rainRange = d
		}
	}

	return Uncertainty{
		TempRangeC:  tempRange,
		RainRangePP: rainRange,
		Tier:        th.tier(tempRange, rainRange),
	}
}

func (t Thresholds) tier(tempRange, rainRange float64) Tier {
	switch {
	case tempRange <= t.LowTempC && rainRange <= t.LowRainPP:
		return TierLow
	case tempRange <= t.MediumTempC && rainRange <= t.MediumRainPP:
		return TierMedium
	default:
		return TierHigh
	}
}

// withinLow reports whether a deviation pair sits inside the low-tier
// boundaries. Nil components are unconstrained.
func (t Thresholds) withinLow(tempDev, rainDev *float64) bool {
	if tempDev != nil && *tempDev > t.LowTempC {
		return false
	}
	if rainDev != nil && *rainDev > t.LowRainPP {
		return false
	}
	return true
}

// beyondMedium reports whether any deviation component exceeds the
// medium-tier boundaries.
func (t Thresholds) beyondMedium(tempDev, rainDev *float64) bool {
	if tempDev != nil && *tempDev > t.MediumTempC {
		return true
	}
	if rainDev != nil && *rainDev > t.MediumRainPP {
		return true
	}
	return false
}
