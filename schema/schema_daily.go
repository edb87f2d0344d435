package schema

import "fmt"

// WaybackBase is the replay prefix used to build memento links.
const WaybackBase = "https://web.archive.org/web"

// DayLayout is the calendar-day key layout used across the pipeline.
const DayLayout = "2006-01-02"

// DailyRecord aggregates every capture of one calendar day.
// Derived values (Total, Specimen, Filled) are computed on read.
type DailyRecord struct {
	Day            string       `json:"day"`
	Count2xx       int          `json:"2xx"`
	Count3xx       int          `json:"3xx"`
	Count4xx       int          `json:"4xx"`
	Count5xx       int          `json:"5xx"`
	Representative StatusClass  `json:"specimen,omitempty"`
	Timestamp      string       `json:"datetime,omitempty"` // 14-digit timestamp of the representative capture
	Digest         string       `json:"digest,omitempty"`   // 8-character content fingerprint
	Content        ContentState `json:"content"`
	Chaos          float64      `json:"chaos"`
	ChaosWindowed  float64      `json:"chaos_windowed"`
	Resilience     float64      `json:"resilience"`
	Fixity         float64      `json:"fixity"`
	Aggregated     bool         `json:"aggregated"` // true when built from captures rather than synthesized
}

// NewDailyRecord returns an empty record for the given day.
func NewDailyRecord(day string) DailyRecord {
	return DailyRecord{Day: day, Content: ContentUnknown}
}

// NewFilledRecord returns a synthesized gap record carrying only a specimen.
func NewFilledRecord(day string, specimen StatusClass) DailyRecord {
	r := NewDailyRecord(day)
	r.Representative = specimen
	return r
}

// Total is the sum of the four class counters.
func (r *DailyRecord) Total() int {
	return r.Count2xx + r.Count3xx + r.Count4xx + r.Count5xx
}

// Specimen is the representative class, falling back to the first
// non-zero counter in priority order when none was selected.
func (r *DailyRecord) Specimen() StatusClass {
	if r.Representative != NoData {
		return r.Representative
	}
	switch {
	case r.Count2xx > 0:
		return Status2xx
	case r.Count4xx > 0:
		return Status4xx
	case r.Count5xx > 0:
		return Status5xx
	case r.Count3xx > 0:
		return Status3xx
	}
	return NoData
}

// Filled reports whether the record is a synthesized gap day.
func (r *DailyRecord) Filled() bool {
	return r.Specimen() != NoData && r.Total() == 0
}

// Count returns the counter for a class; unknown classes have none.
func (r *DailyRecord) Count(s StatusClass) int {
	switch s {
	case Status2xx:
		return r.Count2xx
	case Status3xx:
		return r.Count3xx
	case Status4xx:
		return r.Count4xx
	case Status5xx:
		return r.Count5xx
	default:
		return 0
	}
}

// Incr bumps the counter for a class. It returns false for classes that are counted nowhere.
func (r *DailyRecord) Incr(s StatusClass) bool {
	switch s {
	case Status2xx:
		r.Count2xx++
	case Status3xx:
		r.Count3xx++
	case Status4xx:
		r.Count4xx++
	case Status5xx:
		r.Count5xx++
	default:
		return false
	}
	return true
}

// MementoURL links the representative capture in the archive replay, or "#" without one.
func (r *DailyRecord) MementoURL(target string) string {
	if r.Timestamp == "" {
		return "#"
	}
	return fmt.Sprintf("%s/%s/%s", WaybackBase, r.Timestamp, target)
}

// DailyView is the presentation shape of a DailyRecord with derived fields materialized.
type DailyView struct {
	Day           string  `json:"day"`
	Datetime      string  `json:"datetime"`
	Count2xx      int     `json:"2xx"`
	Count3xx      int     `json:"3xx"`
	Count4xx      int     `json:"4xx"`
	Count5xx      int     `json:"5xx"`
	All           int     `json:"all"`
	Specimen      string  `json:"specimen"`
	Filled        bool    `json:"filled"`
	Digest        string  `json:"digest"`
	Content       string  `json:"content"`
	Resilience    float64 `json:"resilience"`
	Fixity        float64 `json:"fixity"`
	Chaos         float64 `json:"chaos"`
	ChaosWindowed float64 `json:"chaos_windowed"`
	URIM          string  `json:"urim"`
}

// View materializes the record for output, rendering absent values with the no-data marker.
func (r *DailyRecord) View(target string) DailyView {
	return DailyView{
		Day:           r.Day,
		Datetime:      orMarker(r.Timestamp),
		Count2xx:      r.Count2xx,
		Count3xx:      r.Count3xx,
		Count4xx:      r.Count4xx,
		Count5xx:      r.Count5xx,
		All:           r.Total(),
		Specimen:      r.Specimen().String(),
		Filled:        r.Filled(),
		Digest:        orMarker(r.Digest),
		Content:       string(r.Content),
		Resilience:    r.Resilience,
		Fixity:        r.Fixity,
		Chaos:         r.Chaos,
		ChaosWindowed: r.ChaosWindowed,
		URIM:          r.MementoURL(target),
	}
}

func orMarker(s string) string {
	if s == "" {
		return NoDataMarker
	}
	return s
}
