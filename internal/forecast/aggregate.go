package forecast

import "math"

// Summarize computes the fused day profile from aligned slots. Pure function
// of its input; disagreement ranges are filled in separately by the
// uncertainty estimator.
//
// Average temperature is the mean of the per-slot average of the two
// sources. Slots with one source missing contribute that source's lone
// value; slots with neither source present are excluded entirely. High/low
// span all present per-source values rather than the averaged series, so a
// single source's spike survives into them. Average rain is rounded to the
// nearest whole percent.
func Summarize(slots []AlignedSlot, win Window) DaySummary {
	var (
		tempSum  float64
		rainSum  float64
		slotN    int
		high     = math.Inf(-1)
		low      = math.Inf(1)
		anyValue bool
	)

	for _, slot := range slots {
		var tSum, rSum float64
		var n int
		for _, v := range []*SlotValue{slot.Primary, slot.Secondary} {
			if v == nil {
				continue
			}
			tSum += v.TempC
			rSum += v.RainPct
			n++
			if v.TempC > high {
				high = v.TempC
			}
			if v.TempC < low {
				low = v.TempC
			}
			anyValue = true
		}
		if n == 0 {
			continue
		}
		tempSum += tSum / float64(n)
		rainSum += clampRain(rSum / float64(n))
		slotN++
	}

	summary := DaySummary{
		WindowStart: win.Start,
		WindowEnd:   win.End,
	}
	if !anyValue {
		return summary
	}

	summary.AvgTempC = tempSum / float64(slotN)
	summary.AvgRainPct = int(math.Round(rainSum / float64(slotN)))
	summary.HighTempC = high
	summary.LowTempC = low
	return summary
}

func clampRain(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
