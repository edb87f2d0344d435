package algo

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/huangsam/archivepulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, _ := schema.ParseDay(s)
	return t
}

func TestSigmoid(t *testing.T) {
	p := schema.SigmoidParams{Shift: 4, Slope: 1, Spread: 1}
	assert.InDelta(t, 0.5, sigmoid(4, p), 1e-12)
	assert.InDelta(t, 1/(1+math.Exp(3)), sigmoid(1, p), 1e-12)

	neg := schema.SigmoidParams{Shift: 5, Slope: 1, Spread: -1}
	assert.InDelta(t, -0.5, sigmoid(5, neg), 1e-12)
}

func TestCurveWalksThroughAsOf(t *testing.T) {
	in := records(present("2020-01-01", schema.Status2xx), present("2020-01-03", schema.Status2xx))
	series, err := Curve(in, schema.DefaultSigmoidParams(), day("2020-01-10"))
	require.NoError(t, err)

	require.Len(t, series, 10)
	for i, r := range series {
		assert.Equal(t, day("2020-01-01").AddDate(0, 0, i).Format(schema.DayLayout), r.Day)
	}
	assert.Equal(t, schema.NoData, series[1].Specimen())
	assert.Equal(t, schema.ContentUnknown, series[9].Content)
}

func TestCurveAsOfBeforeLastDay(t *testing.T) {
	in := records(present("2020-01-01", schema.Status2xx), present("2020-01-05", schema.Status2xx))
	series, err := Curve(in, schema.DefaultSigmoidParams(), day("2019-06-01"))
	require.NoError(t, err)
	assert.Len(t, series, 5)
}

func TestCurveFirstSteps(t *testing.T) {
	params := schema.DefaultSigmoidParams()
	in := records(present("2020-01-01", schema.Status2xx), present("2020-01-02", schema.Status2xx))
	series, err := Curve(in, params, day("2020-01-02"))
	require.NoError(t, err)

	p := params[schema.Category2xx]
	h1 := 0.5 + 0.5*sigmoid(1, p)
	h2 := 0.5 + 0.5*sigmoid(2, p)
	assert.InDelta(t, h1, series[0].Resilience, 1e-12)
	assert.InDelta(t, h2, series[1].Resilience, 1e-12)

	u := params[schema.UnknownCategory]
	assert.InDelta(t, 0.5+0.5*sigmoid(1, u), series[0].Fixity, 1e-12)
}

func TestCurveRebasesOnCategoryChange(t *testing.T) {
	params := schema.DefaultSigmoidParams()
	in := records(present("2020-01-01", schema.Status2xx), present("2020-01-02", schema.Status4xx))
	series, err := Curve(in, params, day("2020-01-02"))
	require.NoError(t, err)

	base := series[0].Resilience
	expected := base + base*sigmoid(1, params[schema.Category4xx])
	assert.InDelta(t, expected, series[1].Resilience, 1e-12)
	assert.Less(t, series[1].Resilience, base)
}

func TestCurveBoundedAndContinuous(t *testing.T) {
	classes := []schema.StatusClass{schema.Status2xx, schema.Status4xx, schema.Status3xx, schema.Status5xx}
	var rs []schema.DailyRecord
	start := day("2020-01-01")
	for i := 0; i < 120; i += 3 {
		r := present(start.AddDate(0, 0, i).Format(schema.DayLayout), classes[(i/3)%len(classes)])
		r.Content = []schema.ContentState{schema.ContentChanged, schema.ContentUnchanged, schema.ContentUnknown}[i%3]
		rs = append(rs, r)
	}
	series, err := Curve(records(rs...), schema.DefaultSigmoidParams(), start.AddDate(0, 0, 200))
	require.NoError(t, err)

	for i, r := range series {
		assert.GreaterOrEqual(t, r.Resilience, 0.0, r.Day)
		assert.LessOrEqual(t, r.Resilience, 1.0, r.Day)
		assert.GreaterOrEqual(t, r.Fixity, 0.0, r.Day)
		assert.LessOrEqual(t, r.Fixity, 1.0, r.Day)
		if i > 0 {
			assert.Less(t, math.Abs(r.Resilience-series[i-1].Resilience), 1.0, r.Day)
		}
	}
}

func TestCurveCarriesChaos(t *testing.T) {
	a := present("2020-01-01", schema.Status2xx)
	a.Chaos, a.ChaosWindowed = 0.25, 0.2
	b := present("2020-01-04", schema.Status2xx)
	b.Chaos, b.ChaosWindowed = 0.5, 0.4

	filled, err := Fill(records(a, b), -1, schema.FillForward)
	require.NoError(t, err)
	series, err := Curve(filled, schema.DefaultSigmoidParams(), day("2020-01-05"))
	require.NoError(t, err)

	require.Len(t, series, 5)
	assert.Equal(t, 0.25, series[1].Chaos)
	assert.Equal(t, 0.2, series[2].ChaosWindowed)
	assert.Equal(t, 0.5, series[3].Chaos)
	assert.Equal(t, 0.5, series[4].Chaos)
	assert.Equal(t, 0.4, series[4].ChaosWindowed)
}

func TestCurveErrors(t *testing.T) {
	in := records(present("2020-01-01", schema.Status2xx))

	series, err := Curve(nil, schema.DefaultSigmoidParams(), day("2020-01-01"))
	assert.NoError(t, err)
	assert.Empty(t, series)

	bad := schema.DefaultSigmoidParams()
	bad[schema.Category2xx] = schema.SigmoidParams{Shift: 1, Slope: 0, Spread: 1}
	_, err = Curve(in, bad, day("2020-01-01"))
	assert.Error(t, err)

	nan := schema.DefaultSigmoidParams()
	nan[schema.Category2xx] = schema.SigmoidParams{Shift: math.NaN(), Slope: 1, Spread: 1}
	_, err = Curve(in, nan, day("2020-01-01"))
	assert.True(t, errors.Is(err, schema.ErrNonFiniteCurve))
}
