package algo

import "github.com/huangsam/archivepulse/schema"

// TailDays returns the most recent 'limit' days of a chronological series.
// If limit is greater than the number of days, all days are returned.
func TailDays(daily []schema.DailyRecord, limit int) []schema.DailyRecord {
	if limit <= 0 || len(daily) <= limit {
		return daily
	}
	return daily[len(daily)-limit:]
}
