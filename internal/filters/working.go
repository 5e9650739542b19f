package filters

import (
	"image"

	"gocv.io/x/gocv"
)

// Blend weights shared by the colour-grading filters. They sum to 1.2 on purpose,
// which brightens the result slightly.
const (
	sharpWeight   = 0.85
	blurredWeight = 0.35
	glowSigma     = 8.0
)

// workingCopy is a CV_32FC3 BGR copy of an 8-bit image scaled to 0..1.
type workingCopy struct {
	mat  gocv.Mat
	pix  []float32
	rows int
	cols int
}

func newWorkingCopy(img *gocv.Mat) (*workingCopy, error) {
	if err := checkInput(img); err != nil {
		return nil, err
	}
	if img.Channels() != 3 {
		return nil, Processingf("expected a 3 channel image, got %d channels", img.Channels())
	}

	mat := gocv.NewMat()
	img.ConvertToWithParams(&mat, gocv.MatTypeCV32FC3, 1.0/255.0, 0)

	pix, err := mat.DataPtrFloat32()
	if err != nil {
		mat.Close()
		return nil, &Error{Kind: KindProcessing, Msg: "cannot access working copy pixels", Err: err}
	}

	return &workingCopy{mat: mat, pix: pix, rows: mat.Rows(), cols: mat.Cols()}, nil
}

// each visits every pixel in row-major order; px holds B, G, R.
func (w *workingCopy) each(fn func(x, y int, px []float32)) {
	for y := 0; y < w.rows; y++ {
		row := y * w.cols * 3
		for x := 0; x < w.cols; x++ {
			i := row + x*3
			fn(x, y, w.pix[i:i+3])
		}
	}
}

// glow blends the copy with its own Gaussian blur.
func (w *workingCopy) glow(kernelSize int) {
	blurred := gocv.NewMat()
	defer blurred.Close()

	gocv.GaussianBlur(w.mat, &blurred, image.Pt(kernelSize, kernelSize), glowSigma, 0, gocv.BorderDefault)
	gocv.AddWeighted(w.mat, sharpWeight, blurred, blurredWeight, 0, &w.mat)
}

// writeBack stores the copy into img as saturated CV_8UC3.
func (w *workingCopy) writeBack(img *gocv.Mat) {
	w.mat.ConvertToWithParams(img, gocv.MatTypeCV8UC3, 255, 0)
}

func (w *workingCopy) Close() {
	w.mat.Close()
}

func luma(px []float32) float32 {
	return 0.299*px[2] + 0.587*px[1] + 0.114*px[0]
}

func clampHigh(v float32) float32 {
	if v > 1 {
		return 1
	}
	return v
}

func clampLow(v float32) float32 {
	if v < 0 {
		return 0
	}
	return v
}
