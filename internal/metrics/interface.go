// Quality metrics comparing a filtered image with its source
package metrics

import (
	"fmt"
	"sort"

	"gocv.io/x/gocv"
)

// Metric compares an original image with a processed one
type Metric interface {
	Calculate(original, processed gocv.Mat) (float64, error)
	Name() string
	Description() string
}

// Evaluator manages and calculates multiple metrics
type Evaluator struct {
	metrics map[string]Metric
}

// NewEvaluator creates an evaluator with the default metrics registered
func NewEvaluator() *Evaluator {
	e := &Evaluator{
		metrics: make(map[string]Metric),
	}
	e.Register("mse", NewMSE())
	e.Register("psnr", NewPSNR())
	e.Register("mean_shift", NewMeanShift())
	return e
}

func (e *Evaluator) Register(name string, metric Metric) {
	e.metrics[name] = metric
}

// Calculate computes a single metric by name
func (e *Evaluator) Calculate(name string, original, processed gocv.Mat) (float64, error) {
	metric, exists := e.metrics[name]
	if !exists {
		return 0, fmt.Errorf("metric not found: %s", name)
	}
	return metric.Calculate(original, processed)
}

// CalculateAll computes every registered metric, skipping the ones that fail
func (e *Evaluator) CalculateAll(original, processed gocv.Mat) map[string]float64 {
	results := make(map[string]float64)
	for name, metric := range e.metrics {
		if value, err := metric.Calculate(original, processed); err == nil {
			results[name] = value
		}
	}
	return results
}

// Names returns the registered metric names, sorted
func (e *Evaluator) Names() []string {
	names := make([]string, 0, len(e.metrics))
	for name := range e.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
