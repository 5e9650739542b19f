package gui

import (
	"fmt"
	"image"
	"math"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"
)

const (
	previewWidth  = 1200
	previewHeight = 900
)

// previewImage converts a Mat for display, shrinking it to fit the preview area
func previewImage(mat gocv.Mat) (image.Image, error) {
	if mat.Empty() {
		return nil, fmt.Errorf("nothing to preview")
	}

	img, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("convert preview: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= previewWidth && bounds.Dy() <= previewHeight {
		return img, nil
	}
	return imaging.Fit(img, previewWidth, previewHeight, imaging.Lanczos), nil
}

// formatMetrics renders metric values one per line, sorted by name
func formatMetrics(values map[string]float64) string {
	if len(values) == 0 {
		return "No metrics"
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte('\n')
		}
		value := values[name]
		if math.IsInf(value, 1) {
			fmt.Fprintf(&b, "%s: identical", name)
			continue
		}
		fmt.Fprintf(&b, "%s: %.3f", name, value)
	}
	return b.String()
}
