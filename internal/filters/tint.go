// Colour-grading filters that tint every pixel and finish with a soft glow
package filters

import (
	"gocv.io/x/gocv"
)

const (
	tintGlowKernel = 25

	defaultTintRed   = 255
	defaultTintGreen = 192
	defaultTintBlue  = 203
)

// RoseBlushFilter warms reds and blues while pulling greens down
type RoseBlushFilter struct{}

// NewRoseBlushFilter creates a new rose blush filter
func NewRoseBlushFilter() *RoseBlushFilter {
	return &RoseBlushFilter{}
}

func (r *RoseBlushFilter) Kind() Kind   { return RoseBlush }
func (r *RoseBlushFilter) Name() string { return "RoseBlushFilter" }

func (r *RoseBlushFilter) Process(img *gocv.Mat) error {
	work, err := newWorkingCopy(img)
	if err != nil {
		return err
	}
	defer work.Close()

	work.each(func(_, _ int, px []float32) {
		roseBlush(px)
	})
	work.glow(tintGlowKernel)
	work.writeBack(img)
	return nil
}

func roseBlush(px []float32) {
	px[2] = clampHigh(px[2]*1.4 + 0.1)
	px[0] = clampHigh(px[0]*1.2 + 0.05)
	px[1] = clampLow(px[1]*0.7 - 0.05)
}

// SingleColourFilter renders the image as shades of one colour
type SingleColourFilter struct {
	red   int
	green int
	blue  int

	r, g, b float32
}

// NewSingleColourFilter creates a tint filter from 8-bit RGB components
func NewSingleColourFilter(red, green, blue int) (*SingleColourFilter, error) {
	for _, c := range []int{red, green, blue} {
		if c < 0 || c > 255 {
			return nil, Configurationf("RGB values must be in range 0-255 for SingleColourFilter, got (%d, %d, %d)", red, green, blue)
		}
	}

	return &SingleColourFilter{
		red:   red,
		green: green,
		blue:  blue,
		r:     float32(red) / 255,
		g:     float32(green) / 255,
		b:     float32(blue) / 255,
	}, nil
}

func (s *SingleColourFilter) Kind() Kind   { return SingleColour }
func (s *SingleColourFilter) Name() string { return "SingleColourFilter" }

// RGB returns the tint colour as 8-bit components
func (s *SingleColourFilter) RGB() (int, int, int) { return s.red, s.green, s.blue }

func (s *SingleColourFilter) Process(img *gocv.Mat) error {
	work, err := newWorkingCopy(img)
	if err != nil {
		return err
	}
	defer work.Close()

	work.each(func(_, _ int, px []float32) {
		s.tint(px)
	})
	work.glow(tintGlowKernel)
	work.writeBack(img)
	return nil
}

func (s *SingleColourFilter) tint(px []float32) {
	y := luma(px)
	px[2] = clampHigh(y * s.r)
	px[1] = clampHigh(y * s.g)
	px[0] = clampHigh(y * s.b)
}
