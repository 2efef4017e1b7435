package forecast

import (
	"strings"
	"testing"
)

func fusedSummary() DaySummary {
	return DaySummary{AvgTempC: 20, AvgRainPct: 30}
}

func refPoint(name string, temp, rain *float64) ReferencePoint {
	return ReferencePoint{SourceName: name, TempC: temp, RainPct: rain}
}

func f(x float64) *float64 {
	return &x
}

func TestCorroborateNoReferences(t *testing.T) {
	tests := []struct {
		tier Tier
		want Alignment
	}{
		{TierLow, AlignmentFull},
		{TierMedium, AlignmentPartial},
		{TierHigh, AlignmentDivergent},
	}

	for _, tc := range tests {
		verdict := Corroborate(fusedSummary(), Uncertainty{Tier: tc.tier}, nil, DefaultThresholds())
		if verdict.Alignment != tc.want {
			t.Fatalf("tier %s without references: expected %s, got %s", tc.tier, tc.want, verdict.Alignment)
		}
		if verdict.Rationale == "" {
			t.Fatalf("tier %s: rationale must not be empty", tc.tier)
		}
	}
}

func TestCorroborateAllReferencesNull(t *testing.T) {
	refs := []ReferencePoint{
		refPoint("yr.no", nil, nil),
		refPoint("open-meteo", nil, nil),
	}

	verdict := Corroborate(fusedSummary(), Uncertainty{Tier: TierMedium}, refs, DefaultThresholds())
	if verdict.Alignment != AlignmentPartial {
		t.Fatalf("all-null references must leave the tier verdict standing, got %s", verdict.Alignment)
	}
	if !strings.Contains(verdict.Rationale, "yr.no") {
		t.Fatalf("rationale should name the failed sources: %q", verdict.Rationale)
	}
}

func TestCorroborateMajorityUpgrade(t *testing.T) {
	// Three references all within 1°C/10pp of the fused average.
	refs := []ReferencePoint{
		refPoint("yr.no", f(20.5), f(32)),
		refPoint("open-meteo", f(19.4), f(28)),
		refPoint("met-office", f(20.9), f(35)),
	}

	verdict := Corroborate(fusedSummary(), Uncertainty{Tier: TierMedium}, refs, DefaultThresholds())
	if verdict.Alignment != AlignmentFull {
		t.Fatalf("unanimous close references should upgrade partial to full, got %s", verdict.Alignment)
	}
}

func TestCorroborateMajorityDowngrade(t *testing.T) {
	refs := []ReferencePoint{
		refPoint("yr.no", f(26), f(30)),      // 6°C off
		refPoint("open-meteo", f(20), f(70)), // 40pp off
		refPoint("met-office", f(20.1), f(31)),
	}

	verdict := Corroborate(fusedSummary(), Uncertainty{Tier: TierMedium}, refs, DefaultThresholds())
	if verdict.Alignment != AlignmentDivergent {
		t.Fatalf("majority of far references should downgrade partial to divergent, got %s", verdict.Alignment)
	}
}

func TestCorroborateSplitReferencesTierStands(t *testing.T) {
	refs := []ReferencePoint{
		refPoint("yr.no", f(20.2), f(31)),    // agrees
		refPoint("open-meteo", f(27), f(80)), // disagrees
	}

	verdict := Corroborate(fusedSummary(), Uncertainty{Tier: TierMedium}, refs, DefaultThresholds())
	if verdict.Alignment != AlignmentPartial {
		t.Fatalf("split references should leave the tier verdict standing, got %s", verdict.Alignment)
	}
}

func TestCorroboratePartialNullFieldsStillVote(t *testing.T) {
	// Temperature-only references: the missing rain field is unconstrained.
	refs := []ReferencePoint{
		refPoint("yr.no", f(20.3), nil),
		refPoint("open-meteo", f(19.8), nil),
		refPoint("met-office", nil, nil), // failed scrape, excluded
	}

	verdict := Corroborate(fusedSummary(), Uncertainty{Tier: TierMedium}, refs, DefaultThresholds())
	if verdict.Alignment != AlignmentFull {
		t.Fatalf("majority of usable references agree; expected full, got %s", verdict.Alignment)
	}
	if !strings.Contains(verdict.Rationale, "met-office") {
		t.Fatalf("rationale should mention the unavailable source: %q", verdict.Rationale)
	}
}

func TestCorroborateUpgradeCappedAtFull(t *testing.T) {
	refs := []ReferencePoint{
		refPoint("yr.no", f(20), f(30)),
	}

	verdict := Corroborate(fusedSummary(), Uncertainty{Tier: TierLow}, refs, DefaultThresholds())
	if verdict.Alignment != AlignmentFull {
		t.Fatalf("upgrade from full must stay full, got %s", verdict.Alignment)
	}
}

func TestCorroborateDowngradeCappedAtDivergent(t *testing.T) {
	refs := []ReferencePoint{
		refPoint("yr.no", f(35), f(90)),
	}

	verdict := Corroborate(fusedSummary(), Uncertainty{Tier: TierHigh}, refs, DefaultThresholds())
	if verdict.Alignment != AlignmentDivergent {
		t.Fatalf("downgrade from divergent must stay divergent, got %s", verdict.Alignment)
	}
}
