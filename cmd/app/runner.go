package main

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"image-filter-tool/internal/config"
	"image-filter-tool/internal/core"
	imgio "image-filter-tool/internal/io"
	"image-filter-tool/internal/logging"
	"image-filter-tool/internal/metrics"
)

// runner executes one job: load, filter, save
type runner struct {
	job       *config.Job
	logger    *logrus.Logger
	codec     imgio.Codec
	processor *core.Processor
	metrics   *metrics.Evaluator
}

func newRunner(job *config.Job, logger *logrus.Logger) (*runner, error) {
	codec, err := imgio.NewCodec(job.Codec, logger)
	if err != nil {
		return nil, err
	}

	specs, err := job.Specs()
	if err != nil {
		return nil, err
	}

	processor := core.NewProcessor(logging.NewSink(logger), logger)
	if err := processor.AddSpecs(specs); err != nil {
		return nil, err
	}

	return &runner{
		job:       job,
		logger:    logger,
		codec:     codec,
		processor: processor,
		metrics:   metrics.NewEvaluator(),
	}, nil
}

func (r *runner) Run() error {
	r.logger.WithFields(logrus.Fields{
		"input":  r.job.Input,
		"output": r.job.Output,
	}).Info("Loading image")

	img, err := r.codec.Load(r.job.Input)
	if err != nil {
		r.logger.WithError(err).Error("Loading failed")
		return err
	}
	defer img.Close()

	source := img.Clone()
	defer source.Close()

	r.logger.WithField("filter_count", r.processor.Len()).Info("Applying filters")
	if err := r.processor.Process(&img); err != nil {
		return err
	}
	r.logSummary(source, img)

	r.logger.Info("Saving image")
	if err := r.codec.Save(r.job.Output, img); err != nil {
		r.logger.WithError(err).Error("Saving failed")
		return err
	}

	r.logger.Info("Processing completed successfully")
	return nil
}

func (r *runner) logSummary(source, result gocv.Mat) {
	fields := logrus.Fields{}
	if trace := r.processor.LastTrace(); trace != nil {
		fields["duration"] = trace.Total().String()
		for i, step := range trace.Steps {
			fields[fmt.Sprintf("step_%d_%s", i+1, step.Kind)] = step.Duration.String()
		}
	}
	for name, value := range r.metrics.CalculateAll(source, result) {
		// JSON cannot encode infinities; identical images have an infinite PSNR.
		if math.IsInf(value, 0) {
			fields[name] = "inf"
			continue
		}
		fields[name] = value
	}
	r.logger.WithFields(fields).Info("Filters applied")
}
