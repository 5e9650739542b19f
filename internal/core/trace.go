// Per-run record of pipeline steps
package core

import (
	"time"

	"image-filter-tool/internal/filters"
)

// StepRecord describes one filter invocation
type StepRecord struct {
	Filter   string
	Kind     filters.Kind
	Duration time.Duration
	Success  bool
	Error    string
}

// Trace collects the steps of a single Process call
type Trace struct {
	Started time.Time
	Steps   []StepRecord
}

func newTrace() *Trace {
	return &Trace{Started: time.Now(), Steps: make([]StepRecord, 0)}
}

func (t *Trace) add(f filters.Filter, d time.Duration, err error) {
	rec := StepRecord{
		Filter:   f.Name(),
		Kind:     f.Kind(),
		Duration: d,
		Success:  err == nil,
	}
	if err != nil {
		rec.Error = err.Error()
	}
	t.Steps = append(t.Steps, rec)
}

// Total returns the summed duration of all recorded steps
func (t *Trace) Total() time.Duration {
	var total time.Duration
	for _, s := range t.Steps {
		total += s.Duration
	}
	return total
}

// Failed returns the failing step, if any
func (t *Trace) Failed() (StepRecord, bool) {
	for _, s := range t.Steps {
		if !s.Success {
			return s, true
		}
	}
	return StepRecord{}, false
}
