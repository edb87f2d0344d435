package schema

import "time"

// RunRecord represents a row from the archivepulse_runs table.
type RunRecord struct {
	RunID         int64
	TargetURL     string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalDays     int32
	ConfigParams  *string
}

// DailyRecordRow represents a row from the archivepulse_daily_records table.
type DailyRecordRow struct {
	RunID         int64
	Day           string
	Count2xx      int32
	Count3xx      int32
	Count4xx      int32
	Count5xx      int32
	Specimen      string
	Datetime      *string
	Digest        *string
	Content       string
	Chaos         float64
	ChaosWindowed float64
	Resilience    float64
	Fixity        float64
}

// NewDailyRecordRow flattens a record for the history store.
func NewDailyRecordRow(runID int64, r *DailyRecord) DailyRecordRow {
	row := DailyRecordRow{
		RunID:         runID,
		Day:           r.Day,
		Count2xx:      int32(r.Count2xx),
		Count3xx:      int32(r.Count3xx),
		Count4xx:      int32(r.Count4xx),
		Count5xx:      int32(r.Count5xx),
		Specimen:      r.Specimen().String(),
		Content:       string(r.Content),
		Chaos:         r.Chaos,
		ChaosWindowed: r.ChaosWindowed,
		Resilience:    r.Resilience,
		Fixity:        r.Fixity,
	}
	if r.Timestamp != "" {
		ts := r.Timestamp
		row.Datetime = &ts
	}
	if r.Digest != "" {
		d := r.Digest
		row.Digest = &d
	}
	return row
}
