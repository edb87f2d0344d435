// Package algo has the pure trend algorithms that run after aggregation.
package algo

import (
	"fmt"
	"slices"

	"github.com/huangsam/archivepulse/schema"
)

// pickFunc chooses the specimen for gap index i of g synthesized days
// between a left specimen l and a right specimen r.
type pickFunc func(i, g int, l, r schema.StatusClass) schema.StatusClass

var fillPolicies = map[schema.FillPolicy]pickFunc{
	schema.FillIdentical: func(_, _ int, l, r schema.StatusClass) schema.StatusClass {
		if l == r {
			return l
		}
		return schema.NoData
	},
	schema.FillClosest: func(i, g int, l, r schema.StatusClass) schema.StatusClass {
		if float64(i) < float64(g)/2 {
			return l
		}
		return r
	},
	schema.FillForward: func(_, _ int, l, _ schema.StatusClass) schema.StatusClass {
		return l
	},
	schema.FillBackward: func(_, _ int, _, r schema.StatusClass) schema.StatusClass {
		return r
	},
}

// Fill synthesizes specimen-only records for gaps between present days.
// A maxGap of -1 fills every gap and 0 disables filling. Present days are
// never overwritten and the input map is left untouched.
func Fill(records map[string]schema.DailyRecord, maxGap int, policy schema.FillPolicy) (map[string]schema.DailyRecord, error) {
	pick, ok := fillPolicies[policy]
	if !ok {
		return nil, fmt.Errorf("unknown fill policy '%s'", policy)
	}

	out := make(map[string]schema.DailyRecord, len(records))
	for d, r := range records {
		out[d] = r
	}
	if maxGap == 0 || len(records) < 2 {
		return out, nil
	}

	days := make([]string, 0, len(records))
	for d := range records {
		days = append(days, d)
	}
	slices.Sort(days)

	for k := 1; k < len(days); k++ {
		left, err := schema.ParseDay(days[k-1])
		if err != nil {
			return nil, err
		}
		right, err := schema.ParseDay(days[k])
		if err != nil {
			return nil, err
		}
		gap := schema.DaysBetween(left, right) - 1
		if gap <= 0 || (maxGap != -1 && gap > maxGap) {
			continue
		}

		lr, rr := records[days[k-1]], records[days[k]]
		lv, rv := lr.Specimen(), rr.Specimen()
		for i := range gap {
			specimen := pick(i, gap, lv, rv)
			if specimen == schema.NoData {
				continue
			}
			day := left.AddDate(0, 0, i+1).Format(schema.DayLayout)
			if _, present := out[day]; present {
				continue
			}
			out[day] = schema.NewFilledRecord(day, specimen)
		}
	}
	return out, nil
}
