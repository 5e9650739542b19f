// Filters backed directly by OpenCV routines
package filters

import (
	"image"
	"math"

	"gocv.io/x/gocv"
)

const (
	defaultBlurKernel = 9
	defaultBlurSigma  = 13.0

	defaultEdgeThreshold1 = 80
	defaultEdgeThreshold2 = 300

	edgePreBlurKernel = 3
	edgePreBlurSigma  = 5.0
)

// GrayscaleFilter converts an image to single channel luma
type GrayscaleFilter struct{}

// NewGrayscaleFilter creates a new grayscale filter
func NewGrayscaleFilter() *GrayscaleFilter {
	return &GrayscaleFilter{}
}

func (g *GrayscaleFilter) Kind() Kind   { return Grayscale }
func (g *GrayscaleFilter) Name() string { return "GrayFilter" }

func (g *GrayscaleFilter) Process(img *gocv.Mat) error {
	if err := checkInput(img); err != nil {
		return err
	}
	if img.Channels() == 1 {
		return nil
	}

	gocv.CvtColor(*img, img, gocv.ColorBGRToGray)
	return nil
}

// BlurFilter implements Gaussian smoothing
type BlurFilter struct {
	kernelSize int
	sigma      float64
}

// NewBlurFilter creates a Gaussian blur with a square kernel
func NewBlurFilter(kernelSize int, sigma float64) (*BlurFilter, error) {
	if kernelSize <= 0 || kernelSize%2 == 0 {
		return nil, Configurationf("invalid kernel size %d for BlurFilter, make sure it's positive and odd", kernelSize)
	}
	if !(sigma > 0) || math.IsInf(sigma, 1) {
		return nil, Configurationf("invalid sigma %g for BlurFilter, make sure it's positive and finite", sigma)
	}

	return &BlurFilter{kernelSize: kernelSize, sigma: sigma}, nil
}

func (b *BlurFilter) Kind() Kind   { return Blur }
func (b *BlurFilter) Name() string { return "BlurFilter" }

// KernelSize returns the side of the square Gaussian kernel
func (b *BlurFilter) KernelSize() int { return b.kernelSize }

// Sigma returns the Gaussian standard deviation
func (b *BlurFilter) Sigma() float64 { return b.sigma }

func (b *BlurFilter) Process(img *gocv.Mat) error {
	if err := checkInput(img); err != nil {
		return err
	}

	gocv.GaussianBlur(*img, img, image.Pt(b.kernelSize, b.kernelSize), b.sigma, 0, gocv.BorderDefault)
	return nil
}

// EdgeFilter implements Canny edge detection on a lightly smoothed copy
type EdgeFilter struct {
	threshold1 int
	threshold2 int
}

// NewEdgeFilter creates an edge detector with the given hysteresis thresholds
func NewEdgeFilter(threshold1, threshold2 int) (*EdgeFilter, error) {
	if threshold1 < 0 || threshold2 < 0 {
		return nil, Configurationf("thresholds for EdgeFilter must be non-negative, got %d and %d", threshold1, threshold2)
	}
	if threshold1 >= threshold2 {
		return nil, Configurationf("threshold1 (%d) must be less than threshold2 (%d) for EdgeFilter", threshold1, threshold2)
	}

	return &EdgeFilter{threshold1: threshold1, threshold2: threshold2}, nil
}

func (e *EdgeFilter) Kind() Kind   { return Edge }
func (e *EdgeFilter) Name() string { return "CannyFilter" }

// Thresholds returns the lower and upper hysteresis thresholds
func (e *EdgeFilter) Thresholds() (int, int) { return e.threshold1, e.threshold2 }

func (e *EdgeFilter) Process(img *gocv.Mat) error {
	if err := checkInput(img); err != nil {
		return err
	}

	smoothed := gocv.NewMat()
	defer smoothed.Close()

	gocv.GaussianBlur(*img, &smoothed, image.Pt(edgePreBlurKernel, edgePreBlurKernel), edgePreBlurSigma, 0, gocv.BorderDefault)
	gocv.Canny(smoothed, img, float32(e.threshold1), float32(e.threshold2))
	return nil
}

func checkInput(img *gocv.Mat) error {
	if img == nil || img.Empty() {
		return Processingf("cannot process empty image")
	}
	return nil
}
