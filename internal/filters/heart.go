package filters

import (
	"math"

	"gocv.io/x/gocv"
)

const heartGlowKernel = 45

// Heart bands, from the far background up to the outline itself
const (
	BandOutside uint8 = iota
	BandGlow
	BandInnerEdge
	BandOutline
)

type heartBand struct {
	limit      float32    // upper bound of |curve value| for the band
	brightness float32    // luma multiplier
	colour     [3]float32 // RGB
	keep       float32    // share of the original channel mixed back in
}

var heartBands = [4]heartBand{
	BandOutside:   {brightness: 0.8, colour: [3]float32{0.49, 0.337, 0.749}, keep: 0.2},
	BandGlow:      {limit: 0.1, brightness: 0.9, colour: [3]float32{0.969, 0.345, 0.71}, keep: 0.1},
	BandInnerEdge: {limit: 0.03, brightness: 4, colour: [3]float32{0.98, 0.345, 0.525}},
	BandOutline:   {limit: 0.01, brightness: 5, colour: [3]float32{1, 1, 1}},
}

// HeartFilter draws a glowing heart outline over a violet-tinted image
type HeartFilter struct{}

// NewHeartFilter creates a new heart filter
func NewHeartFilter() *HeartFilter {
	return &HeartFilter{}
}

func (h *HeartFilter) Kind() Kind   { return Heart }
func (h *HeartFilter) Name() string { return "HeartFilter" }

func (h *HeartFilter) Process(img *gocv.Mat) error {
	work, err := newWorkingCopy(img)
	if err != nil {
		return err
	}
	defer work.Close()

	mask := HeartMask(work.cols, work.rows)

	work.each(func(x, y int, px []float32) {
		heartPixel(px, mask[y*work.cols+x])
	})
	work.glow(heartGlowKernel)
	work.writeBack(img)
	return nil
}

// heartPixel recolours one BGR pixel for the given band
func heartPixel(px []float32, band uint8) {
	hb := heartBands[band]
	boosted := luma(px) * hb.brightness

	r := boosted*hb.colour[0] + px[2]*hb.keep
	g := boosted*hb.colour[1] + px[1]*hb.keep
	b := boosted*hb.colour[2] + px[0]*hb.keep

	px[2] = clampHigh(r)
	px[1] = clampHigh(g)
	px[0] = clampHigh(b)
}

// HeartMask classifies every pixel of a width×height image into a heart band.
// The result is row-major and depends only on the dimensions.
func HeartMask(width, height int) []uint8 {
	mask := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			mask[y*width+x] = heartBandOf(heartCurve(x, y, width, height))
		}
	}
	return mask
}

// heartCurve evaluates the implicit heart x² + (1.25y - sqrt|x|)² - 1 at a pixel,
// with the image mapped onto [-1.5, 1.5] and flipped so the heart points down.
func heartCurve(x, y, width, height int) float32 {
	nx := (2*float32(x)/float32(width) - 1) * -1.5
	ny := (2*float32(y)/float32(height)-1)*-1.5 + 0.3

	a := 1.25*ny - float32(math.Sqrt(math.Abs(float64(nx))))
	return nx*nx + a*a - 1
}

func heartBandOf(value float32) uint8 {
	if value < 0 {
		value = -value
	}
	for band := BandOutline; band > BandOutside; band-- {
		if value <= heartBands[band].limit {
			return band
		}
	}
	return BandOutside
}
