package schema

import (
	"encoding/json"
	"slices"
	"time"
)

// AggregateOutput is everything produced by the one-pass aggregation of an index stream.
// It is the unit stored in the result cache.
type AggregateOutput struct {
	Records map[string]DailyRecord `json:"records"` // Maps YYYY-MM-DD to its finalized record
	Samples PeriodicSamples        `json:"samples"`
	Events  int                    `json:"events"`  // Parsed capture events
	Skipped int                    `json:"skipped"` // Malformed lines that were skipped
}

// Days returns the record keys in chronological order.
func (a *AggregateOutput) Days() []string {
	days := make([]string, 0, len(a.Records))
	for d := range a.Records {
		days = append(days, d)
	}
	slices.Sort(days)
	return days
}

// PeriodicSamples holds distinct-period counts per sampling granularity.
type PeriodicSamples struct {
	Count   int            `json:"count"`
	Samples map[Period]int `json:"samples"`
}

// PeriodSample is one row of the sampling density table.
type PeriodSample struct {
	Period  Period `json:"period"`
	Samples int    `json:"samples"`
}

// Rows returns the sample counts ordered finest first.
func (p PeriodicSamples) Rows() []PeriodSample {
	rows := make([]PeriodSample, 0, len(AllPeriods))
	for _, ap := range AllPeriods {
		rows = append(rows, PeriodSample{Period: ap.Period, Samples: p.Samples[ap.Period]})
	}
	return rows
}

// Transition is one cell of the transition matrix.
type Transition struct {
	Source StatusClass `json:"source"`
	Target StatusClass `json:"target"`
	Count  int         `json:"count"`
}

// TransitionMatrix counts day-to-day specimen transitions, indexed [source][target]
// in KnownClasses order.
type TransitionMatrix struct {
	Counts [4][4]int
}

func classIndex(s StatusClass) int {
	return slices.Index(KnownClasses, s)
}

// Add records one transition. Pairs involving an unknown class are rejected.
func (m *TransitionMatrix) Add(source, target StatusClass) bool {
	i, j := classIndex(source), classIndex(target)
	if i < 0 || j < 0 {
		return false
	}
	m.Counts[i][j]++
	return true
}

// Get returns the count for one transition.
func (m *TransitionMatrix) Get(source, target StatusClass) int {
	i, j := classIndex(source), classIndex(target)
	if i < 0 || j < 0 {
		return 0
	}
	return m.Counts[i][j]
}

// Cells flattens the matrix, grouped by target like the long-form table.
func (m *TransitionMatrix) Cells() []Transition {
	cells := make([]Transition, 0, 16)
	for j, target := range KnownClasses {
		for i, source := range KnownClasses {
			cells = append(cells, Transition{Source: source, Target: target, Count: m.Counts[i][j]})
		}
	}
	return cells
}

// MarshalJSON encodes the matrix in its long form.
func (m TransitionMatrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Cells())
}

// TrendSummary is the compact reduction of a daily series.
type TrendSummary struct {
	Captures           int                 `json:"captures"`
	Span               int                 `json:"span"`
	Gaps               int                 `json:"gaps"`
	Resilience         float64             `json:"resilience"`
	ResilienceTrend    float64             `json:"resilience_trend"`
	Fixity             float64             `json:"fixity"`
	FixityTrend        float64             `json:"fixity_trend"`
	Chaos              float64             `json:"chaos"`
	ChaosTrend         float64             `json:"chaos_trend"`
	StatusDistribution map[StatusClass]int `json:"status_distribution"`
}

// TrendParams are the per-run parameters that the fill and curve stages depend on.
type TrendParams struct {
	FillLimit  int                        `json:"fill"`
	FillPolicy FillPolicy                 `json:"policy"`
	SigParams  map[Category]SigmoidParams `json:"sigparams"`
	AsOf       time.Time                  `json:"as_of"`
}

// TrendResult is the full output of one pipeline run for a URL.
type TrendResult struct {
	URL         string           `json:"url"`
	Query       string           `json:"query"`
	Params      TrendParams      `json:"params"`
	Daily       []DailyRecord    `json:"-"`
	Transitions TransitionMatrix `json:"transitions"`
	Samples     PeriodicSamples  `json:"samples"`
	Summary     TrendSummary     `json:"summary"`
	Narrative   string           `json:"narrative"`
	Skipped     int              `json:"skipped_lines"`
}

// Views materializes every daily record for output.
func (t *TrendResult) Views() []DailyView {
	views := make([]DailyView, 0, len(t.Daily))
	for i := range t.Daily {
		views = append(views, t.Daily[i].View(t.URL))
	}
	return views
}
