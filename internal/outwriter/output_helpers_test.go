package outwriter

import (
	"time"

	"github.com/huangsam/archivepulse/internal/contract"
	"github.com/huangsam/archivepulse/schema"
)

// sampleResult builds a three-day series with one synthesized day.
func sampleResult() *schema.TrendResult {
	first := schema.NewDailyRecord("2020-01-01")
	first.Count2xx = 3
	first.Count4xx = 1
	first.Representative = schema.Status2xx
	first.Timestamp = "20200101000000"
	first.Digest = "AAAAAAAA"
	first.Chaos = 0.25
	first.ChaosWindowed = 0.2
	first.Resilience = 0.55
	first.Fixity = 0.5
	first.Aggregated = true

	gap := schema.NewFilledRecord("2020-01-02", schema.Status2xx)
	gap.Resilience = 0.6
	gap.Fixity = 0.49
	gap.Chaos = 0.25

	last := schema.NewDailyRecord("2020-01-03")
	last.Count5xx = 2
	last.Representative = schema.Status5xx
	last.Timestamp = "20200103101010"
	last.Digest = "BBBBBBBB"
	last.Content = schema.ContentChanged
	last.Chaos = 0.4
	last.Resilience = 0.45
	last.Fixity = 0.38
	last.Aggregated = true

	var transitions schema.TransitionMatrix
	transitions.Add(schema.Status2xx, schema.Status2xx)
	transitions.Add(schema.Status2xx, schema.Status5xx)

	return &schema.TrendResult{
		URL:   "example.com",
		Query: "https://web.archive.org/cdx/search/cdx?url=example.com",
		Params: schema.TrendParams{
			FillLimit:  -1,
			FillPolicy: schema.FillIdentical,
			AsOf:       time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC),
		},
		Daily:       []schema.DailyRecord{first, gap, last},
		Transitions: transitions,
		Samples: schema.PeriodicSamples{
			Count:   6,
			Samples: map[schema.Period]int{schema.PeriodSecond: 6, schema.PeriodDay: 2, schema.PeriodYear: 1},
		},
		Summary: schema.TrendSummary{
			Captures:           2,
			Span:               2,
			Gaps:               1,
			Resilience:         0.45,
			ResilienceTrend:    -0.15,
			Fixity:             0.38,
			FixityTrend:        -0.11,
			Chaos:              0.4,
			ChaosTrend:         0.15,
			StatusDistribution: map[schema.StatusClass]int{schema.Status2xx: 2, schema.Status3xx: 0, schema.Status4xx: 0, schema.Status5xx: 1},
		},
		Narrative: "Trend analysis for example.com",
		Skipped:   1,
	}
}

func textConfig() *contract.Config {
	return &contract.Config{
		TargetURL:    "example.com",
		FillLimit:    -1,
		FillPolicy:   schema.FillIdentical,
		AsOf:         time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC),
		Output:       schema.TextOut,
		Precision:    2,
		ResultLimit:  30,
		Width:        80,
		CacheBackend: schema.NoneBackend,
	}
}
