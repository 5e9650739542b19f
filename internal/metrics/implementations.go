package metrics

import (
	"fmt"
	"math"

	"gocv.io/x/gocv"
)

// MSE is the mean squared difference of the luma planes
type MSE struct{}

func NewMSE() *MSE {
	return &MSE{}
}

func (m *MSE) Name() string        { return "MSE" }
func (m *MSE) Description() string { return "Mean squared error between luma planes" }

func (m *MSE) Calculate(original, processed gocv.Mat) (float64, error) {
	a, b, err := lumaPair(original, processed)
	if err != nil {
		return 0, err
	}

	sum := 0.0
	for i := range a {
		diff := float64(a[i]) - float64(b[i])
		sum += diff * diff
	}
	return sum / float64(len(a)), nil
}

// PSNR is the peak signal-to-noise ratio in dB; identical images give +Inf
type PSNR struct {
	mse *MSE
}

func NewPSNR() *PSNR {
	return &PSNR{mse: NewMSE()}
}

func (p *PSNR) Name() string        { return "PSNR" }
func (p *PSNR) Description() string { return "Peak Signal-to-Noise Ratio in dB" }

func (p *PSNR) Calculate(original, processed gocv.Mat) (float64, error) {
	mse, err := p.mse.Calculate(original, processed)
	if err != nil {
		return 0, err
	}
	if mse == 0 {
		return math.Inf(1), nil
	}

	const maxVal = 255.0
	return 20 * math.Log10(maxVal/math.Sqrt(mse)), nil
}

// MeanShift is the change of average luma, positive when the result is brighter
type MeanShift struct{}

func NewMeanShift() *MeanShift {
	return &MeanShift{}
}

func (m *MeanShift) Name() string        { return "Mean shift" }
func (m *MeanShift) Description() string { return "Average luma of the result minus the source" }

func (m *MeanShift) Calculate(original, processed gocv.Mat) (float64, error) {
	a, b, err := lumaPair(original, processed)
	if err != nil {
		return 0, err
	}

	var sa, sb float64
	for i := range a {
		sa += float64(a[i])
		sb += float64(b[i])
	}
	return (sb - sa) / float64(len(a)), nil
}

// lumaPair returns the 8-bit luma planes of two equally sized images.
func lumaPair(original, processed gocv.Mat) ([]byte, []byte, error) {
	if original.Empty() || processed.Empty() {
		return nil, nil, fmt.Errorf("empty images")
	}
	if original.Rows() != processed.Rows() || original.Cols() != processed.Cols() {
		return nil, nil, fmt.Errorf("image dimensions mismatch: %dx%d vs %dx%d",
			original.Cols(), original.Rows(), processed.Cols(), processed.Rows())
	}

	a, err := lumaBytes(original)
	if err != nil {
		return nil, nil, err
	}
	b, err := lumaBytes(processed)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func lumaBytes(input gocv.Mat) ([]byte, error) {
	gray := gocv.NewMat()
	defer gray.Close()

	switch input.Channels() {
	case 1:
		input.CopyTo(&gray)
	case 3:
		gocv.CvtColor(input, &gray, gocv.ColorBGRToGray)
	default:
		return nil, fmt.Errorf("unsupported channel count: %d", input.Channels())
	}

	if gray.Type() != gocv.MatTypeCV8UC1 {
		gray.ConvertTo(&gray, gocv.MatTypeCV8UC1)
	}
	return gray.ToBytes(), nil
}
