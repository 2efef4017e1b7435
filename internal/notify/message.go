package notify

import (
	"fmt"
	"strings"

	"github.com/akorchev/weather-notify/internal/forecast"
)

// conditionEmoji picks a rough condition glyph from the averaged rain
// probability.
func conditionEmoji(avgRainPct int) string {
	switch {
	case avgRainPct > 30:
		return "🌧️"
	case avgRainPct > 5:
		return "☁️"
	default:
		return "☀️"
	}
}

// BuildSummary formats the notification body for one record: emoji, averages
// with disagreement ranges, high/low, and the alignment verdict with its
// rationale. Non-full verdicts carry an uncertainty warning.
func BuildSummary(rec forecast.ForecastRecord) string {
	s := rec.Summary

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s Avg %.1f°C (%.0f°C range), %d%% rain (%.0fpp range)\n",
		rec.Location.City,
		conditionEmoji(s.AvgRainPct),
		s.AvgTempC, s.TempRangeC,
		s.AvgRainPct, s.RainRangePP,
	)
	fmt.Fprintf(&b, "High %.0f°C / Low %.0f°C\n", s.HighTempC, s.LowTempC)

	if rec.Verdict.Alignment != forecast.AlignmentFull {
		b.WriteString("⚠️ Forecast uncertain\n")
	}
	fmt.Fprintf(&b, "Alignment %s: %s", rec.Verdict.Alignment, rec.Verdict.Rationale)

	return strings.TrimSpace(b.String())
}
