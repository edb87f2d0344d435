package telemetry

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRun(t *testing.T) {
	okBefore := testutil.ToFloat64(PipelineRuns.WithLabelValues(OutcomeOK))
	errBefore := testutil.ToFloat64(PipelineRuns.WithLabelValues(OutcomeError))

	ObserveRun(0.5, nil)
	ObserveRun(0.1, errors.New("boom"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(PipelineRuns.WithLabelValues(OutcomeOK)))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(PipelineRuns.WithLabelValues(OutcomeError)))
}

func TestWriteAndParse(t *testing.T) {
	LinesRead.Add(3)
	before := testutil.ToFloat64(LinesRead)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf))
	assert.Contains(t, buf.String(), "archivepulse_index_lines_read_total")

	families, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, before, Sum(families["archivepulse_index_lines_read_total"]))
	assert.Equal(t, 0.0, Sum(families["does_not_exist"]))
}

func TestSnapshot(t *testing.T) {
	ObserveRun(0.2, nil)
	families, err := Snapshot()
	require.NoError(t, err)

	runs := families["archivepulse_pipeline_runs_total"]
	require.NotNil(t, runs)
	total := testutil.ToFloat64(PipelineRuns.WithLabelValues(OutcomeOK)) + testutil.ToFloat64(PipelineRuns.WithLabelValues(OutcomeError))
	assert.Equal(t, total, Sum(runs))
	assert.GreaterOrEqual(t, Sum(families["archivepulse_pipeline_duration_seconds"]), 1.0)
}

func TestWriteFile(t *testing.T) {
	require.NoError(t, WriteFile(""))

	path := filepath.Join(t.TempDir(), "metrics.prom")
	CacheHits.Inc()
	require.NoError(t, WriteFile(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	families, err := Parse(f)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, Sum(families["archivepulse_cache_hits_total"]), 1.0)
}

func TestHandler(t *testing.T) {
	PagesFetched.Inc()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "archivepulse_index_pages_fetched_total")
}
