// Sequential filter pipeline with representation normalization between steps
package core

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"image-filter-tool/internal/filters"
)

// Processor applies an ordered chain of filters to an image.
// A Processor is not safe for concurrent use.
type Processor struct {
	filters []filters.Filter
	sink    filters.Recorder
	logger  logrus.FieldLogger
	trace   *Trace
}

// NewProcessor creates an empty chain reporting to sink. A nil sink or logger
// discards the corresponding output.
func NewProcessor(sink filters.Recorder, logger logrus.FieldLogger) *Processor {
	if sink == nil {
		sink = discardRecorder{}
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}

	return &Processor{
		filters: make([]filters.Filter, 0),
		sink:    sink,
		logger:  logger,
	}
}

// AddFilter builds a filter and appends it to the chain. On failure the chain is
// left unchanged. Failures reach error level through the sink only.
func (p *Processor) AddFilter(kind filters.Kind, params []string) error {
	p.logger.WithFields(logrus.Fields{
		"filter": kind.String(),
		"params": params,
	}).Debug("PIPELINE: Adding filter")

	f, err := filters.Build(kind, params)
	if err != nil {
		p.logger.WithError(err).WithFields(logrus.Fields{
			"filter": kind.String(),
			"params": params,
		}).Debug("PIPELINE: Filter rejected")
		p.sink.Record("ERROR: " + err.Error())
		return err
	}

	p.filters = append(p.filters, f)
	return nil
}

// AddSpecs appends every spec in order, stopping at the first invalid one
func (p *Processor) AddSpecs(specs []filters.Spec) error {
	for i, spec := range specs {
		if err := p.AddFilter(spec.Kind, spec.Params); err != nil {
			return fmt.Errorf("filter %d (%s): %w", i+1, spec.Kind, err)
		}
	}
	return nil
}

// Len returns the number of filters in the chain
func (p *Processor) Len() int {
	return len(p.filters)
}

// Kinds returns the kinds of the chained filters in order
func (p *Processor) Kinds() []filters.Kind {
	kinds := make([]filters.Kind, len(p.filters))
	for i, f := range p.filters {
		kinds[i] = f.Kind()
	}
	return kinds
}

// LastTrace returns the step records of the most recent Process call
func (p *Processor) LastTrace() *Trace {
	return p.trace
}

// Process runs every filter over img in order, normalizing it to CV_8UC3 before
// and after each one. The first failure aborts the chain; filters already applied
// are not rolled back.
func (p *Processor) Process(img *gocv.Mat) error {
	p.trace = newTrace()
	p.logger.WithField("step_count", len(p.filters)).Debug("PIPELINE: Processing sequential steps")

	for i, f := range p.filters {
		start := time.Now()

		if err := p.step(i, f, img); err != nil {
			p.trace.add(f, time.Since(start), err)
			p.logger.WithFields(logrus.Fields{
				"step":   i,
				"filter": f.Name(),
			}).WithError(err).Debug("PIPELINE: Sequential step failed")
			p.sink.Record("ERROR: Image processing failed - " + err.Error())
			return err
		}

		p.trace.add(f, time.Since(start), nil)
		p.sink.Record(f.Name() + " completed")
		p.logger.WithFields(logrus.Fields{
			"step":     i,
			"filter":   f.Name(),
			"duration": time.Since(start),
		}).Debug("PIPELINE: Step completed")
	}

	return nil
}

func (p *Processor) step(i int, f filters.Filter, img *gocv.Mat) error {
	if img == nil || img.Empty() {
		return filters.Processingf("empty image")
	}
	if err := ValidateImage(*img); err != nil {
		return err
	}

	normalizeInput(img)

	if err := f.Process(img); err != nil {
		return err
	}

	if img.Empty() {
		return filters.Processingf("filter produced empty image")
	}
	normalizeOutput(img)

	if img.Empty() {
		return filters.Processingf("filter produced empty image")
	}

	p.logger.WithFields(logrus.Fields{
		"step":     i,
		"filter":   f.Name(),
		"width":    img.Cols(),
		"height":   img.Rows(),
		"channels": img.Channels(),
	}).Debug("PIPELINE: Image normalized")
	return nil
}

type discardRecorder struct{}

func (discardRecorder) Record(string) {}
