package algo

import (
	"testing"

	"github.com/huangsam/archivepulse/schema"
	"github.com/stretchr/testify/assert"
)

func TestTierOf(t *testing.T) {
	assert.Equal(t, TierHigh, TierOf(0.71))
	assert.Equal(t, TierMedium, TierOf(0.7))
	assert.Equal(t, TierMedium, TierOf(0.31))
	assert.Equal(t, TierLow, TierOf(0.3))
	assert.Equal(t, TierLow, TierOf(0))
}

func TestInterpret(t *testing.T) {
	assert.Equal(t,
		"The webpage is highly resilient, indicating good archival preservation. The trend is increasing.",
		Interpret(MetricResilience, 0.9, 0.01))
	assert.Equal(t,
		"The webpage content shows moderate stability over time. The trend is decreasing.",
		Interpret(MetricFixity, 0.5, -0.2))
	assert.Equal(t,
		"The webpage shows low variability in its HTTP status codes, indicating stability. The trend is stable.",
		Interpret(MetricChaos, 0.1, 0))
}

func TestNarrative(t *testing.T) {
	s := schema.TrendSummary{
		Captures:           12,
		Span:               30,
		Gaps:               20,
		Resilience:         0.8,
		ResilienceTrend:    0.001,
		Fixity:             0.4,
		FixityTrend:        -0.002,
		Chaos:              0.25,
		StatusDistribution: map[schema.StatusClass]int{"2xx": 10, "3xx": 1, "4xx": 1, "5xx": 0},
	}

	expected := `Trend Analysis for example.com:

1. Captures: 12 total captures over 30 days, with 20 gaps.

2. Resilience: 0.80000 (Trend: 0.00100)
The webpage is highly resilient, indicating good archival preservation. The trend is increasing.

3. Fixity: 0.40000 (Trend: -0.00200)
The webpage content shows moderate stability over time. The trend is decreasing.

4. Chaos: 0.25000 (Trend: 0.00000)
The webpage shows low variability in its HTTP status codes, indicating stability. The trend is stable.

5. Status Distribution:
- 2xx: 10
- 3xx: 1
- 4xx: 1
- 5xx: 0`
	assert.Equal(t, expected, Narrative("example.com", s))
}
