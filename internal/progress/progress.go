// Package progress defines the opaque callback interface long-running
// pipeline stages use to report percentage completion and running counters,
// generalizing the server's event/hook model into a single-run reporting
// channel for one pipeline invocation.
package progress

import "github.com/google/uuid"

// Stage names one of the three pipeline phases a report can belong to.
type Stage string

const (
	StageSampling   Stage = "sampling"
	StageOCR        Stage = "ocr"
	StageAssembling Stage = "assembling"
)

// Counters accumulates the running totals reported during a run and in its
// end-of-run summary.
type Counters struct {
	FramesProcessed int
	OCRSuccess      int
	OCRFail         int
	LowConfidence   int
	Events          int
	Clips           int
}

// Report is one progress notification. Percent is monotone non-decreasing
// within a Stage; RunID correlates every report emitted by one run() call.
type Report struct {
	RunID    string
	Stage    Stage
	Percent  float64
	Counters Counters
}

// NewRunID returns a fresh correlation id for one pipeline invocation.
func NewRunID() string { return uuid.NewString() }

// Sink receives progress reports. Implementations must not block the
// pipeline for long; slow sinks should buffer internally.
type Sink interface {
	Report(r Report)
}

// NopSink discards every report.
type NopSink struct{}

func (NopSink) Report(Report) {}

// RecordingSink accumulates every report it receives, in order. Intended
// for tests that assert on the reported sequence.
type RecordingSink struct {
	Reports []Report
}

func (s *RecordingSink) Report(r Report) {
	s.Reports = append(s.Reports, r)
}

// Last returns the most recently recorded report for a stage, or the zero
// Report and false if none was recorded.
func (s *RecordingSink) Last(stage Stage) (Report, bool) {
	for i := len(s.Reports) - 1; i >= 0; i-- {
		if s.Reports[i].Stage == stage {
			return s.Reports[i], true
		}
	}
	return Report{}, false
}
