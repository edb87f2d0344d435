// Package telemetry holds the process-wide metrics registry for archivepulse.
package telemetry

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

const namespace = "archivepulse"

// Pipeline outcomes used as the "outcome" label.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Registry is the package registry that every archivepulse metric lives on.
var Registry = prometheus.NewRegistry()

// Metrics recorded across the pipeline.
var (
	PagesFetched = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "index_pages_fetched_total",
		Help:      "Index pages fetched from the remote endpoint.",
	})
	LinesRead = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "index_lines_read_total",
		Help:      "Index lines consumed by the aggregator.",
	})
	LinesSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "index_lines_skipped_total",
		Help:      "Malformed index lines skipped by the aggregator.",
	})
	CacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_hits_total",
		Help:      "Aggregation results served from the cache.",
	})
	CacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_misses_total",
		Help:      "Aggregation results computed because the cache had no fresh entry.",
	})
	PipelineRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pipeline_runs_total",
		Help:      "Trend pipeline runs by outcome.",
	}, []string{"outcome"})
	PipelineDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pipeline_duration_seconds",
		Help:      "Wall time of one trend pipeline run.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
	})
)

func init() {
	Registry.MustRegister(
		PagesFetched,
		LinesRead,
		LinesSkipped,
		CacheHits,
		CacheMisses,
		PipelineRuns,
		PipelineDuration,
	)
}

// ObserveRun records the outcome and duration of one pipeline run.
func ObserveRun(seconds float64, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	PipelineRuns.WithLabelValues(outcome).Inc()
	PipelineDuration.Observe(seconds)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Write encodes every gathered family as text exposition.
func Write(w io.Writer) error {
	families, err := Registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// WriteFile writes the registry to path. An empty path is a no-op.
func WriteFile(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metrics file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Write(f)
}

// Snapshot gathers the registry keyed by family name.
func Snapshot() (map[string]*dto.MetricFamily, error) {
	families, err := Registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}
	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}
	return byName, nil
}

// Parse decodes a text exposition back into metric families.
func Parse(r io.Reader) (map[string]*dto.MetricFamily, error) {
	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(r)
	if err != nil {
		return nil, fmt.Errorf("parse metrics: %w", err)
	}
	return families, nil
}

// Sum adds up all counter, gauge and untyped values in a family.
// Histograms contribute their sample count. A nil family sums to 0.
func Sum(mf *dto.MetricFamily) float64 {
	if mf == nil {
		return 0
	}
	var total float64
	for _, m := range mf.GetMetric() {
		switch {
		case m.Counter != nil:
			total += m.Counter.GetValue()
		case m.Gauge != nil:
			total += m.Gauge.GetValue()
		case m.Untyped != nil:
			total += m.Untyped.GetValue()
		case m.Histogram != nil:
			total += float64(m.Histogram.GetSampleCount())
		}
	}
	return total
}
