package filters

import (
	"gocv.io/x/gocv"
)

// Rainbow orientations
const (
	RainbowRows    = 'r'
	RainbowColumns = 'c'
)

const rainbowBoost = 1.2

// rainbowAnchors are RGB hues placed at equal steps along the gradient axis:
// red, orange, yellow, green, blue, magenta.
var rainbowAnchors = [6][3]float32{
	{1, 0, 0},
	{1, 0.5, 0},
	{1, 1, 0},
	{0, 1, 0},
	{0, 0, 1},
	{1, 0, 1},
}

// RainbowFilter recolours the image with a hue gradient along rows or columns
type RainbowFilter struct {
	orientation byte
}

// NewRainbowFilter creates a rainbow filter; orientation is 'r' or 'c'
func NewRainbowFilter(orientation byte) (*RainbowFilter, error) {
	if orientation != RainbowRows && orientation != RainbowColumns {
		return nil, Configurationf("RainbowFilter argument must be 'r' or 'c', got %q", orientation)
	}
	return &RainbowFilter{orientation: orientation}, nil
}

func (r *RainbowFilter) Kind() Kind   { return Rainbow }
func (r *RainbowFilter) Name() string { return "RainbowFilter" }

// Orientation returns 'r' for a gradient over rows or 'c' over columns
func (r *RainbowFilter) Orientation() byte { return r.orientation }

func (r *RainbowFilter) Process(img *gocv.Mat) error {
	work, err := newWorkingCopy(img)
	if err != nil {
		return err
	}
	defer work.Close()

	length := work.rows
	if r.orientation == RainbowColumns {
		length = work.cols
	}

	// One hue per position along the axis.
	hues := make([][3]float32, length)
	for pos := range hues {
		hues[pos] = rainbowHue(length, pos)
	}

	work.each(func(x, y int, px []float32) {
		hue := hues[y]
		if r.orientation == RainbowColumns {
			hue = hues[x]
		}

		boosted := luma(px) * rainbowBoost
		px[2] = clampHigh(boosted * hue[0])
		px[1] = clampHigh(boosted * hue[1])
		px[0] = clampHigh(boosted * hue[2])
	})
	work.writeBack(img)
	return nil
}

// rainbowMiddles places the six anchors at multiples of length/5.
func rainbowMiddles(length int) [6]int {
	var middles [6]int
	step := length / 5
	for i := range middles {
		middles[i] = step * i
	}
	return middles
}

// rainbowWeights returns the unnormalized cubic falloff of every anchor at pos.
// The base stays non-negative because pos < length and every middle is at most length.
func rainbowWeights(length, pos int) [6]float32 {
	var weights [6]float32
	for i, middle := range rainbowMiddles(length) {
		dist := middle - pos
		if dist < 0 {
			dist = -dist
		}
		base := float32(length - dist)
		weights[i] = base * base * base
	}
	return weights
}

// rainbowHue blends the anchors by their normalized weights, as RGB.
func rainbowHue(length, pos int) [3]float32 {
	var hue [3]float32
	var sum float32

	for i, w := range rainbowWeights(length, pos) {
		sum += w
		hue[0] += w * rainbowAnchors[i][0]
		hue[1] += w * rainbowAnchors[i][1]
		hue[2] += w * rainbowAnchors[i][2]
	}

	for c := range hue {
		hue[c] /= sum
	}
	return hue
}
