package algo

import (
	"fmt"
	"strings"

	"github.com/huangsam/archivepulse/schema"
)

// Tier buckets a metric value for interpretation.
type Tier int

// Tiers, lowest first.
const (
	TierLow Tier = iota
	TierMedium
	TierHigh
)

// TierOf returns high above 0.7, medium above 0.3 and low otherwise.
func TierOf(value float64) Tier {
	switch {
	case value > 0.7:
		return TierHigh
	case value > 0.3:
		return TierMedium
	default:
		return TierLow
	}
}

// Metric names one of the interpreted series.
type Metric string

// Interpreted metrics.
const (
	MetricResilience Metric = "resilience"
	MetricFixity     Metric = "fixity"
	MetricChaos      Metric = "chaos"
)

var sentences = map[Metric][3]string{
	MetricResilience: {
		TierLow:    "The webpage has low resilience, indicating potential issues with archival preservation.",
		TierMedium: "The webpage has moderate resilience, suggesting room for improvement in archival preservation.",
		TierHigh:   "The webpage is highly resilient, indicating good archival preservation.",
	},
	MetricFixity: {
		TierLow:    "The webpage content is frequently changing or unstable.",
		TierMedium: "The webpage content shows moderate stability over time.",
		TierHigh:   "The webpage content is highly stable over time.",
	},
	MetricChaos: {
		TierLow:    "The webpage shows low variability in its HTTP status codes, indicating stability.",
		TierMedium: "The webpage shows moderate variability in its HTTP status codes.",
		TierHigh:   "The webpage shows high variability in its HTTP status codes, indicating potential instability.",
	},
}

// TrendWord describes the direction of a day-over-day delta.
func TrendWord(delta float64) string {
	switch {
	case delta > 0:
		return "increasing"
	case delta < 0:
		return "decreasing"
	default:
		return "stable"
	}
}

// Interpret returns the fixed sentence for a metric value followed by its trend.
func Interpret(metric Metric, value, delta float64) string {
	return fmt.Sprintf("%s The trend is %s.", sentences[metric][TierOf(value)], TrendWord(delta))
}

// PresentationGuide tells an assistant consuming the narrative how to relay it to a person.
const PresentationGuide = "These metrics are for the assistant's understanding only. Simplify the explanation " +
	"for the end user and describe in layman terms what they mean for the website's health and stability. " +
	"Do not use technical terms like fixity or chaos in the answer."

// Narrative renders the trend-analysis text block for a summary.
func Narrative(url string, s schema.TrendSummary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Trend Analysis for %s:\n\n", url)
	fmt.Fprintf(&sb, "1. Captures: %d total captures over %d days, with %d gaps.\n\n", s.Captures, s.Span, s.Gaps)
	fmt.Fprintf(&sb, "2. Resilience: %.5f (Trend: %.5f)\n%s\n\n", s.Resilience, s.ResilienceTrend, Interpret(MetricResilience, s.Resilience, s.ResilienceTrend))
	fmt.Fprintf(&sb, "3. Fixity: %.5f (Trend: %.5f)\n%s\n\n", s.Fixity, s.FixityTrend, Interpret(MetricFixity, s.Fixity, s.FixityTrend))
	fmt.Fprintf(&sb, "4. Chaos: %.5f (Trend: %.5f)\n%s\n\n", s.Chaos, s.ChaosTrend, Interpret(MetricChaos, s.Chaos, s.ChaosTrend))
	sb.WriteString("5. Status Distribution:\n")
	for i, class := range schema.KnownClasses {
		fmt.Fprintf(&sb, "- %s: %d", class, s.StatusDistribution[class])
		if i < len(schema.KnownClasses)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
