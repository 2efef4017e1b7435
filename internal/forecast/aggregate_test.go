package forecast

import (
	"testing"
	"time"
)

func slotAt(hour int, primary, secondary *SlotValue) AlignedSlot {
	return AlignedSlot{
		Timestamp: time.Date(2026, 8, 26, hour, 0, 0, 0, time.UTC),
		Primary:   primary,
		Secondary: secondary,
	}
}

func v(temp, rain float64) *SlotValue {
	return &SlotValue{TempC: temp, RainPct: rain}
}

func TestSummarizeInvariants(t *testing.T) {
	slots := []AlignedSlot{
		slotAt(9, v(14, 0), v(15, 10)),
		slotAt(12, v(18, 20), v(20, 40)),
		slotAt(15, v(22, 60), v(19, 90)),
		slotAt(18, v(20, 30), v(18, 10)),
		slotAt(21, v(16, 0), v(15, 0)),
	}

	sum := Summarize(slots, testWindow())

	if sum.HighTempC < sum.AvgTempC || sum.AvgTempC < sum.LowTempC {
		t.Fatalf("expected high >= avg >= low, got %v >= %v >= %v", sum.HighTempC, sum.AvgTempC, sum.LowTempC)
	}
	if sum.AvgRainPct < 0 || sum.AvgRainPct > 100 {
		t.Fatalf("avg rain out of bounds: %d", sum.AvgRainPct)
	}
	if sum.HighTempC != 22 {
		t.Fatalf("expected high 22 from the secondary-free spike, got %v", sum.HighTempC)
	}
	if sum.LowTempC != 14 {
		t.Fatalf("expected low 14, got %v", sum.LowTempC)
	}
}

func TestSummarizeIdempotent(t *testing.T) {
	slots := []AlignedSlot{
		slotAt(9, v(14.3, 7), v(15.1, 12)),
		slotAt(12, v(18.8, 22), v(20.2, 41)),
		slotAt(21, v(16.4, 3), v(15.9, 1)),
	}

	first := Summarize(slots, testWindow())
	second := Summarize(slots, testWindow())
	if first != second {
		t.Fatalf("summaries differ across runs: %+v vs %+v", first, second)
	}
}

func TestSummarizeLoneValueStandsIn(t *testing.T) {
	slots := []AlignedSlot{
		slotAt(9, v(10, 0), v(20, 0)), // slot mean 15
		slotAt(12, v(30, 0), nil),     // lone value 30
	}

	sum := Summarize(slots, testWindow())
	if sum.AvgTempC != 22.5 {
		t.Fatalf("expected avg (15+30)/2 = 22.5, got %v", sum.AvgTempC)
	}
	if sum.HighTempC != 30 || sum.LowTempC != 10 {
		t.Fatalf("expected high/low 30/10, got %v/%v", sum.HighTempC, sum.LowTempC)
	}
}

func TestSummarizeEmptySlotExcluded(t *testing.T) {
	slots := []AlignedSlot{
		slotAt(9, v(10, 40), v(10, 60)),
		slotAt(12, nil, nil),
		slotAt(15, v(12, 0), v(12, 0)),
	}

	sum := Summarize(slots, testWindow())
	if sum.AvgTempC != 11 {
		t.Fatalf("empty slot should not dilute the average: expected 11, got %v", sum.AvgTempC)
	}
	if sum.AvgRainPct != 25 {
		t.Fatalf("expected avg rain 25, got %d", sum.AvgRainPct)
	}
}

func TestSummarizeRainRounding(t *testing.T) {
	slots := []AlignedSlot{
		slotAt(9, v(10, 10), v(10, 11)), // slot mean 10.5
	}

	sum := Summarize(slots, testWindow())
	if sum.AvgRainPct != 11 {
		t.Fatalf("expected rain rounded to 11, got %d", sum.AvgRainPct)
	}
}
