package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/archivepulse/core/agg"
	"github.com/huangsam/archivepulse/internal/contract"
	"github.com/huangsam/archivepulse/internal/iocache"
	"github.com/huangsam/archivepulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixtureLines = []string{
	"20200101000000 200 AAAAAAAA11",
	"20200101060000 404 BBBBBBBB11",
	"20200104000000 200 AAAAAAAA22",
	"20200105000000 - AAAAAAAA22",
	"20200107000000 503 CCCCCCCC11",
}

func testConfig(fill int, policy schema.FillPolicy) *contract.Config {
	return &contract.Config{
		TargetURL:  "example.com",
		FillLimit:  fill,
		FillPolicy: policy,
		AsOf:       time.Date(2020, 1, 10, 0, 0, 0, 0, time.UTC),
		SigParams:  schema.DefaultSigmoidParams(),
	}
}

func mockClient(lines []string, err error) *contract.MockIndexClient {
	client := &contract.MockIndexClient{}
	client.On("Query", "example.com").Return("q?url=example.com")
	client.On("Lines", mock.Anything, "q?url=example.com").Return(lines, err)
	return client
}

func fixtureOutput(t *testing.T) *schema.AggregateOutput {
	t.Helper()
	seq := func(yield func(string, error) bool) {
		for _, l := range fixtureLines {
			if !yield(l, nil) {
				return
			}
		}
	}
	out, err := agg.Aggregate(seq, "example.com")
	require.NoError(t, err)
	return out
}

func TestBuildTrend(t *testing.T) {
	result, err := buildTrend(testConfig(0, schema.FillIdentical), "q", fixtureOutput(t))
	require.NoError(t, err)

	require.Len(t, result.Daily, 10)
	assert.Equal(t, "2020-01-01", result.Daily[0].Day)
	assert.Equal(t, "2020-01-10", result.Daily[9].Day)

	assert.Equal(t, 5, result.Summary.Captures)
	assert.Equal(t, 10, result.Summary.Span)
	assert.Equal(t, 6, result.Summary.Gaps)
	assert.Equal(t, 1, result.Summary.StatusDistribution[schema.Status4xx])

	assert.Equal(t, 2, result.Transitions.Get(schema.Status2xx, schema.Status2xx))
	assert.Equal(t, 1, result.Transitions.Get(schema.Status2xx, schema.Status5xx))
	assert.True(t, strings.HasPrefix(result.Narrative, "Trend Analysis for example.com:"))
	assert.Equal(t, "q", result.Query)
	assert.Equal(t, 5, result.Samples.Count)
}

func TestBuildTrendFillChangesOnlyDownstream(t *testing.T) {
	output := fixtureOutput(t)

	plain, err := buildTrend(testConfig(0, schema.FillIdentical), "q", output)
	require.NoError(t, err)
	filled, err := buildTrend(testConfig(-1, schema.FillForward), "q", output)
	require.NoError(t, err)

	assert.Equal(t, schema.NoData, plain.Daily[1].Specimen())
	assert.Equal(t, schema.Status2xx, filled.Daily[1].Specimen())
	assert.True(t, filled.Daily[1].Filled())
	assert.Equal(t, plain.Summary.Captures, filled.Summary.Captures)
	assert.Len(t, output.Records, 4, "aggregation output is not modified by fill")
}

func TestBuildTrendInvalidParams(t *testing.T) {
	cfg := testConfig(0, schema.FillIdentical)
	cfg.SigParams[schema.Category2xx] = schema.SigmoidParams{Slope: -1}
	_, err := buildTrend(cfg, "q", fixtureOutput(t))
	assert.Error(t, err)

	cfg = testConfig(0, "sideways")
	_, err = buildTrend(cfg, "q", fixtureOutput(t))
	assert.Error(t, err)
}

func TestRunTrendCoreRecordsHistory(t *testing.T) {
	client := mockClient(fixtureLines, nil)

	history := &iocache.MockHistoryStore{}
	history.On("BeginRun", "example.com", mock.AnythingOfType("time.Time"), mock.Anything).Return(int64(7), nil)
	history.On("RecordDaily", int64(7), mock.AnythingOfType("*schema.DailyRecord")).Return(nil).Times(10)
	history.On("EndRun", int64(7), mock.AnythingOfType("time.Time"), 10).Return(nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetAggregateStore").Return(nil)
	mgr.On("GetHistoryStore").Return(history)

	ctx := WithSuppressHeader(context.Background())
	result, err := runTrendCore(ctx, testConfig(0, schema.FillIdentical), client, mgr)
	require.NoError(t, err)
	assert.Len(t, result.Daily, 10)

	history.AssertExpectations(t)
	client.AssertExpectations(t)
}

func TestRunTrendCoreHistoryBeginFailure(t *testing.T) {
	client := mockClient(fixtureLines, nil)

	history := &iocache.MockHistoryStore{}
	history.On("BeginRun", "example.com", mock.Anything, mock.Anything).Return(int64(0), assert.AnError)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetAggregateStore").Return(nil)
	mgr.On("GetHistoryStore").Return(history)

	_, err := runTrendCore(WithSuppressHeader(context.Background()), testConfig(0, schema.FillIdentical), client, mgr)
	require.NoError(t, err)
	history.AssertNotCalled(t, "RecordDaily", mock.Anything, mock.Anything)
	history.AssertNotCalled(t, "EndRun", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunTrendCoreClosesRunOnFailure(t *testing.T) {
	tests := []struct {
		name   string
		client *contract.MockIndexClient
		policy schema.FillPolicy
	}{
		{"aggregation failure", mockClient(nil, &schema.RemoteIndexError{StatusCode: 503, URL: "q?url=example.com"}), schema.FillIdentical},
		{"trend failure", mockClient(fixtureLines, nil), "sideways"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history := &iocache.MockHistoryStore{}
			history.On("BeginRun", "example.com", mock.Anything, mock.Anything).Return(int64(3), nil)
			history.On("EndRun", int64(3), mock.AnythingOfType("time.Time"), 0).Return(nil)

			mgr := &iocache.MockCacheManager{}
			mgr.On("GetAggregateStore").Return(nil)
			mgr.On("GetHistoryStore").Return(history)

			_, err := runTrendCore(WithSuppressHeader(context.Background()), testConfig(0, tt.policy), tt.client, mgr)
			require.Error(t, err)
			history.AssertExpectations(t)
			history.AssertNotCalled(t, "RecordDaily", mock.Anything, mock.Anything)
		})
	}
}

func TestRunTrendCoreErrors(t *testing.T) {
	t.Run("empty index", func(t *testing.T) {
		_, err := runTrendCore(WithSuppressHeader(context.Background()), testConfig(0, schema.FillIdentical), mockClient(nil, nil), nil)
		var empty *schema.EmptyIndexError
		assert.True(t, errors.As(err, &empty))
	})

	t.Run("remote failure", func(t *testing.T) {
		remote := &schema.RemoteIndexError{StatusCode: 503, URL: "q?url=example.com"}
		_, err := runTrendCore(WithSuppressHeader(context.Background()), testConfig(0, schema.FillIdentical), mockClient(nil, remote), nil)
		assert.ErrorIs(t, err, remote)
	})
}

func TestGetTrendResultWithClient(t *testing.T) {
	result, duration, err := getTrendResultWithClient(WithSuppressHeader(context.Background()), testConfig(0, schema.FillIdentical), mockClient(fixtureLines, nil), nil)
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.GreaterOrEqual(t, duration, time.Duration(0))
}
