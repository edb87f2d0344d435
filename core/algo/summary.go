package algo

import "github.com/huangsam/archivepulse/schema"

// Summarize reduces a gapless daily series to its headline numbers.
func Summarize(daily []schema.DailyRecord) schema.TrendSummary {
	s := schema.TrendSummary{
		Span:               len(daily),
		StatusDistribution: make(map[schema.StatusClass]int, len(schema.KnownClasses)),
	}
	for _, class := range schema.KnownClasses {
		s.StatusDistribution[class] = 0
	}

	for i := range daily {
		r := &daily[i]
		total := r.Total()
		s.Captures += total
		if total == 0 {
			s.Gaps++
		}
		for _, class := range schema.KnownClasses {
			s.StatusDistribution[class] += r.Count(class)
		}
	}

	if n := len(daily); n > 0 {
		latest := daily[n-1]
		s.Resilience, s.Fixity, s.Chaos = latest.Resilience, latest.Fixity, latest.Chaos
		if n > 1 {
			prev := daily[n-2]
			s.ResilienceTrend = latest.Resilience - prev.Resilience
			s.FixityTrend = latest.Fixity - prev.Fixity
			s.ChaosTrend = latest.Chaos - prev.Chaos
		}
	}
	return s
}

// Transitions counts day-over-day specimen changes. Days without a known
// specimen are skipped and the last known day stays the source.
func Transitions(daily []schema.DailyRecord) schema.TransitionMatrix {
	var m schema.TransitionMatrix
	prev := schema.NoData
	for i := range daily {
		cur := daily[i].Specimen()
		if !cur.Known() {
			continue
		}
		if prev.Known() {
			m.Add(prev, cur)
		}
		prev = cur
	}
	return m
}
