package algo

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/huangsam/archivepulse/schema"
)

// sigmoid is the warm-up response for step x of a category run.
func sigmoid(x float64, p schema.SigmoidParams) float64 {
	return p.Spread / (1 + math.Exp(p.Shift-x/p.Slope))
}

// curveState follows one metric as it drifts toward the behavior of its current category.
type curveState struct {
	prev  schema.Category
	base  float64
	scale float64
	h     float64
	x     float64
}

func newCurveState(start schema.Category) *curveState {
	return &curveState{prev: start, base: 0.5, scale: 0.5, h: 0.5}
}

// step advances the curve by one day in category c.
func (s *curveState) step(c schema.Category, params map[schema.Category]schema.SigmoidParams) float64 {
	p := params[c]
	if c != s.prev {
		s.prev = c
		s.base = s.h
		if p.Spread < 0 {
			s.scale = s.base
		} else {
			s.scale = 1 - s.base
		}
		s.x = 0
	}
	s.x++
	s.h = s.base + s.scale*sigmoid(s.x, p)
	return s.h
}

// Curve walks every calendar day from the first record through asOf (or the
// last record, whichever is later) and returns the gapless series with
// resilience, fixity and carried chaos filled in.
func Curve(records map[string]schema.DailyRecord, params map[schema.Category]schema.SigmoidParams, asOf time.Time) ([]schema.DailyRecord, error) {
	if len(records) == 0 {
		return nil, nil
	}
	if err := schema.ValidateSigmoidParams(params); err != nil {
		return nil, err
	}

	days := make([]string, 0, len(records))
	for d := range records {
		days = append(days, d)
	}
	slices.Sort(days)

	first, err := schema.ParseDay(days[0])
	if err != nil {
		return nil, err
	}
	last, err := schema.ParseDay(days[len(days)-1])
	if err != nil {
		return nil, err
	}
	end := last
	asOf = time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	if asOf.After(end) {
		end = asOf
	}

	series := make([]schema.DailyRecord, 0, schema.DaysBetween(first, end)+1)
	resilience := newCurveState(schema.NoDataCategory)
	fixity := newCurveState(schema.UnknownCategory)
	var chaos, chaosWindowed float64

	for t := first; !t.After(end); t = t.AddDate(0, 0, 1) {
		day := t.Format(schema.DayLayout)
		r, ok := records[day]
		if !ok {
			r = schema.NewDailyRecord(day)
		}

		if r.Aggregated {
			chaos, chaosWindowed = r.Chaos, r.ChaosWindowed
		} else {
			r.Chaos, r.ChaosWindowed = chaos, chaosWindowed
		}

		r.Resilience = resilience.step(r.Specimen().Category(), params)
		r.Fixity = fixity.step(r.Content.Category(), params)
		if !finite(r.Resilience) || !finite(r.Fixity) {
			return nil, fmt.Errorf("%s: %w", day, schema.ErrNonFiniteCurve)
		}
		series = append(series, r)
	}
	return series, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
