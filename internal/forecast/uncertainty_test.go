package forecast

import (
	"testing"
)

func TestEstimateUncertaintyWorstCase(t *testing.T) {
	slots := []AlignedSlot{
		slotAt(9, v(20, 10), v(20.5, 12)),
		slotAt(12, v(21, 10), v(23.5, 40)),
		slotAt(15, v(22, 10), v(22, 11)),
	}

	u := EstimateUncertainty(slots, DefaultThresholds())
	if u.TempRangeC != 2.5 {
		t.Fatalf("expected worst-case temp range 2.5, got %v", u.TempRangeC)
	}
	if u.RainRangePP != 30 {
		t.Fatalf("expected worst-case rain range 30, got %v", u.RainRangePP)
	}
}

func TestEstimateUncertaintySkipsIncompleteSlots(t *testing.T) {
	slots := []AlignedSlot{
		slotAt(9, v(20, 10), v(20.2, 11)),
		slotAt(12, v(35, 90), nil), // cannot witness disagreement
	}

	u := EstimateUncertainty(slots, DefaultThresholds())
	if u.Tier != TierLow {
		t.Fatalf("one-source slot should not count as disagreement, got tier %s", u.Tier)
	}
}

func TestTierBoundaries(t *testing.T) {
	tests := []struct {
		name      string
		tempRange float64
		rainRange float64
		want      Tier
	}{
		{"tight agreement", 0.5, 2, TierLow},
		{"moderate disagreement", 2, 15, TierMedium},
		{"strong disagreement", 5, 40, TierHigh},
		{"rain alone forces high", 0.5, 40, TierHigh},
		{"temp alone forces medium", 2, 5, TierMedium},
		{"exactly on low boundary", 1, 10, TierLow},
		{"exactly on medium boundary", 3, 25, TierMedium},
	}

	th := DefaultThresholds()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := th.tier(tc.tempRange, tc.rainRange); got != tc.want {
				t.Fatalf("tier(%v, %v) = %s, want %s", tc.tempRange, tc.rainRange, got, tc.want)
			}
		})
	}
}

func TestTempRangeMonotonicity(t *testing.T) {
	base := []AlignedSlot{
		slotAt(9, v(21, 10), v(20.5, 12)),
		slotAt(12, v(23, 10), v(22, 20)),
		slotAt(15, v(22, 10), v(22, 11)),
	}
	baseRange := EstimateUncertainty(base, DefaultThresholds()).TempRangeC

	// Primary already sits at or above secondary everywhere, so raising it
	// widens the divergence; the worst-case range must never shrink.
	for i := range base {
		for _, bump := range []float64{0.5, 1, 3, 10} {
			raised := make([]AlignedSlot, len(base))
			copy(raised, base)

			val := *raised[i].Primary
			val.TempC += bump
			raised[i] = AlignedSlot{Timestamp: raised[i].Timestamp, Primary: &val, Secondary: raised[i].Secondary}

			got := EstimateUncertainty(raised, DefaultThresholds()).TempRangeC
			if got < baseRange {
				t.Fatalf("raising slot %d by %v shrank temp range from %v to %v", i, bump, baseRange, got)
			}
		}
	}
}
