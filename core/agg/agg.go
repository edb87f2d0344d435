// Package agg has aggregation logic for archive index data.
package agg

import (
	"context"
	"errors"
	"iter"
	"strings"

	"github.com/huangsam/archivepulse/internal/contract"
	"github.com/huangsam/archivepulse/internal/telemetry"
	"github.com/huangsam/archivepulse/schema"
)

// digestLength is how many leading characters of a content digest are kept.
const digestLength = 8

// specimenPriority ranks status classes when picking a day's representative capture.
var specimenPriority = map[schema.StatusClass]int{
	schema.Status2xx: 4,
	schema.Status4xx: 3,
	schema.Status5xx: 2,
	schema.Status3xx: 1,
}

// Aggregator folds an ordered stream of capture lines into per-day records
// in a single pass.
type Aggregator struct {
	records      map[string]schema.DailyRecord
	digestStatus map[string]schema.StatusClass // full digest -> last seen class
	samples      *SampleCounter
	window       *RingWindow

	current         *schema.DailyRecord
	currentPriority int
	prevDigest      string             // fingerprint of the last finalized day
	prevClass       schema.StatusClass // starts as NoData like the window slots

	events       int // parsed capture events
	runs         int // runs of identical classes over all events
	windowedRuns int // runs that start inside the window
	skipped      int
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		records:      make(map[string]schema.DailyRecord),
		digestStatus: make(map[string]schema.StatusClass),
		samples:      NewSampleCounter(),
		window:       NewRingWindow(WindowSize),
	}
}

// Add consumes one raw index line. Blank lines are ignored. Lines that do not
// carry exactly timestamp, status and digest are counted as skipped and
// reported with a *schema.MalformedLineError.
func (a *Aggregator) Add(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	telemetry.LinesRead.Inc()
	if len(fields) != 3 {
		return a.skip(line, len(fields))
	}
	timestamp, status, digest := fields[0], fields[1], fields[2]

	day, ok := schema.DayKey(timestamp)
	if !ok {
		return a.skip(line, len(fields))
	}
	if a.current == nil || a.current.Day != day {
		if _, err := schema.ParseDay(day); err != nil {
			return a.skip(line, len(fields))
		}
	}

	a.samples.Observe(timestamp)
	class := a.resolveStatus(normalizeStatus(status), digest)
	short := digest[:min(digestLength, len(digest))]

	if a.current == nil || a.current.Day != day {
		a.startDay(day)
	}
	a.current.Incr(class)

	if pr := specimenPriority[class]; pr > a.currentPriority {
		a.current.Representative = class
		a.current.Timestamp = timestamp
		a.current.Digest = short
		a.current.Content = compareContent(short, a.prevDigest)
		a.currentPriority = pr
	}

	a.observeClass(class)
	return nil
}

// Finish finalizes the last open day and returns the aggregation.
func (a *Aggregator) Finish() *schema.AggregateOutput {
	if a.current != nil {
		a.finalizeDay()
		a.current = nil
	}
	return &schema.AggregateOutput{
		Records: a.records,
		Samples: a.samples.Result(),
		Events:  a.events,
		Skipped: a.skipped,
	}
}

func (a *Aggregator) skip(line string, fields int) error {
	a.skipped++
	telemetry.LinesSkipped.Inc()
	return &schema.MalformedLineError{Line: line, Fields: fields}
}

// resolveStatus fills an unknown status from the digest it was last seen with,
// and remembers the class of every known one.
func (a *Aggregator) resolveStatus(status, digest string) schema.StatusClass {
	if status == "-" {
		return a.digestStatus[digest]
	}
	class := schema.StatusClass(status)
	a.digestStatus[digest] = class
	return class
}

// startDay finalizes the open day and opens the record for day. A day seen again
// after another day resumes its earlier record.
func (a *Aggregator) startDay(day string) {
	if a.current != nil {
		a.finalizeDay()
	}
	r, ok := a.records[day]
	if !ok {
		r = schema.NewDailyRecord(day)
	}
	a.current = &r
	a.currentPriority = specimenPriority[r.Representative]
}

// finalizeDay snapshots the chaos ratios into the open day and stores it.
func (a *Aggregator) finalizeDay() {
	a.prevDigest = a.current.Digest
	if a.events > 0 {
		a.current.Chaos = float64(a.runs) / float64(a.events)
		a.current.ChaosWindowed = float64(a.windowedRuns) / float64(min(WindowSize, a.events))
	}
	a.current.Aggregated = true
	a.records[a.current.Day] = *a.current
}

// observeClass advances the run counters for one event.
func (a *Aggregator) observeClass(class schema.StatusClass) {
	a.events++
	if class != a.prevClass {
		a.prevClass = class
		a.runs++
		a.windowedRuns++
	}
	if a.window.Push(class) {
		a.windowedRuns--
	}
}

// normalizeStatus collapses codes between "200" and "599" into their class.
// The comparison is lexicographic, so anything else passes through unchanged.
func normalizeStatus(status string) string {
	if status >= "200" && status <= "599" {
		return status[:1] + "xx"
	}
	return status
}

// compareContent classifies a fingerprint against the previous day's.
func compareContent(digest, prevDigest string) schema.ContentState {
	switch {
	case prevDigest == "":
		return schema.ContentUnknown
	case digest == prevDigest:
		return schema.ContentUnchanged
	default:
		return schema.ContentChanged
	}
}

// Aggregate folds every line of the stream. Malformed lines are skipped; a stream
// error aborts. A stream without a single event is an *schema.EmptyIndexError.
func Aggregate(lines iter.Seq2[string, error], target string) (*schema.AggregateOutput, error) {
	a := NewAggregator()
	for line, err := range lines {
		if err != nil {
			return nil, err
		}
		if err := a.Add(line); err != nil {
			var malformed *schema.MalformedLineError
			if errors.As(err, &malformed) {
				continue
			}
			return nil, err
		}
	}
	out := a.Finish()
	if out.Events == 0 {
		return nil, &schema.EmptyIndexError{URL: target}
	}
	return out, nil
}

// aggregateIndex streams the index for the configured target through Aggregate.
func aggregateIndex(ctx context.Context, cfg *contract.Config, client contract.IndexClient, progress contract.ProgressFunc) (*schema.AggregateOutput, error) {
	query := client.Query(cfg.TargetURL)
	return Aggregate(client.Lines(ctx, query, progress), cfg.TargetURL)
}
