package core

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"image-filter-tool/internal/filters"
	"image-filter-tool/internal/logging"
)

type memoryRecorder struct {
	messages []string
}

func (m *memoryRecorder) Record(msg string) {
	m.messages = append(m.messages, msg)
}

// stubFilter lets tests observe and control what a filter sees and writes.
type stubFilter struct {
	calls    int
	seenType gocv.MatType
	apply    func(img *gocv.Mat) error
}

func (p *stubFilter) Kind() filters.Kind { return filters.Grayscale }
func (p *stubFilter) Name() string       { return "StubFilter" }

func (p *stubFilter) Process(img *gocv.Mat) error {
	p.calls++
	p.seenType = img.Type()
	if p.apply != nil {
		return p.apply(img)
	}
	return nil
}

func uniformBGR(rows, cols int, b, g, r float64) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(b, g, r, 0), rows, cols, gocv.MatTypeCV8UC3)
}

func newTestProcessor(t *testing.T, specs ...filters.Spec) (*Processor, *memoryRecorder) {
	t.Helper()
	rec := &memoryRecorder{}
	p := NewProcessor(rec, nil)
	require.NoError(t, p.AddSpecs(specs))
	return p, rec
}

func assertSameMat(t *testing.T, want, got gocv.Mat) {
	t.Helper()
	require.Equal(t, want.Type(), got.Type())
	require.Equal(t, want.Rows(), got.Rows())
	require.Equal(t, want.Cols(), got.Cols())
	assert.Equal(t, want.ToBytes(), got.ToBytes())
}

func TestGrayThenBlurOnFlatGray(t *testing.T) {
	p, rec := newTestProcessor(t,
		filters.Spec{Kind: filters.Grayscale},
		filters.Spec{Kind: filters.Blur, Params: []string{"3", "1.0"}},
	)

	img := uniformBGR(4, 4, 128, 128, 128)
	defer img.Close()

	require.NoError(t, p.Process(&img))
	require.Equal(t, gocv.MatTypeCV8UC3, img.Type())

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			px := img.GetVecbAt(y, x)
			assert.Equal(t, px[0], px[1])
			assert.Equal(t, px[1], px[2])
			assert.InDelta(t, 128, int(px[0]), 2)
		}
	}
	assert.Equal(t, []string{"GrayFilter completed", "BlurFilter completed"}, rec.messages)
}

func TestGrayscaleIsIdempotent(t *testing.T) {
	once, _ := newTestProcessor(t, filters.Spec{Kind: filters.Grayscale})
	twice, _ := newTestProcessor(t, filters.Spec{Kind: filters.Grayscale}, filters.Spec{Kind: filters.Grayscale})

	a := uniformBGR(5, 7, 30, 140, 220)
	defer a.Close()
	b := a.Clone()
	defer b.Close()

	require.NoError(t, once.Process(&a))
	require.NoError(t, twice.Process(&b))

	assert.Equal(t, 3, a.Channels())
	assertSameMat(t, a, b)
}

func TestEmptyImageFailsBeforeAnyFilter(t *testing.T) {
	rec := &memoryRecorder{}
	p := NewProcessor(rec, nil)
	stub := &stubFilter{}
	p.filters = append(p.filters, stub)

	img := gocv.NewMat()
	defer img.Close()

	err := p.Process(&img)
	require.ErrorIs(t, err, filters.ErrProcessing)
	assert.Contains(t, err.Error(), "empty image")
	assert.Zero(t, stub.calls)
	require.Len(t, rec.messages, 1)
	assert.True(t, strings.HasPrefix(rec.messages[0], "ERROR:"))
}

func TestEmptyChainLeavesImageUntouched(t *testing.T) {
	p := NewProcessor(nil, nil)

	img := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV8UC1)
	defer img.Close()

	require.NoError(t, p.Process(&img))
	assert.Equal(t, 1, img.Channels())
}

func TestSingleColourRedOnWhite(t *testing.T) {
	p, _ := newTestProcessor(t, filters.Spec{Kind: filters.SingleColour, Params: []string{"255", "0", "0"}})

	img := uniformBGR(8, 8, 255, 255, 255)
	defer img.Close()

	require.NoError(t, p.Process(&img))
	for y := 0; y < img.Rows(); y++ {
		for x := 0; x < img.Cols(); x++ {
			px := img.GetVecbAt(y, x)
			assert.GreaterOrEqual(t, px[2], px[1])
			assert.GreaterOrEqual(t, px[2], px[0])
		}
	}
}

func TestInputIsNormalizedBeforeEachFilter(t *testing.T) {
	p := NewProcessor(nil, nil)
	stub := &stubFilter{}
	p.filters = append(p.filters, stub)

	gray := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(90, 0, 0, 0), 4, 4, gocv.MatTypeCV8UC1)
	defer gray.Close()

	require.NoError(t, p.Process(&gray))
	assert.Equal(t, gocv.MatTypeCV8UC3, stub.seenType)
	px := gray.GetVecbAt(2, 2)
	assert.Equal(t, []uint8{90, 90, 90}, []uint8(px))
}

func TestFloatInputIsScaledBy255(t *testing.T) {
	p := NewProcessor(nil, nil)
	stub := &stubFilter{}
	p.filters = append(p.filters, stub)

	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0.5, 1, 0, 0), 2, 2, gocv.MatTypeCV32FC3)
	defer img.Close()

	require.NoError(t, p.Process(&img))
	assert.Equal(t, gocv.MatTypeCV8UC3, stub.seenType)
	px := img.GetVecbAt(0, 0)
	assert.InDelta(t, 128, int(px[0]), 1)
	assert.Equal(t, uint8(255), px[1])
	assert.Equal(t, uint8(0), px[2])
}

func TestFilterOutputIsNotRescaled(t *testing.T) {
	p := NewProcessor(nil, nil)
	p.filters = append(p.filters, &stubFilter{apply: func(img *gocv.Mat) error {
		out := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(200, 0.4, 300, 0), img.Rows(), img.Cols(), gocv.MatTypeCV32FC3)
		defer out.Close()
		out.CopyTo(img)
		return nil
	}})

	img := uniformBGR(2, 2, 1, 2, 3)
	defer img.Close()

	require.NoError(t, p.Process(&img))
	require.Equal(t, gocv.MatTypeCV8UC3, img.Type())
	px := img.GetVecbAt(1, 1)
	assert.Equal(t, []uint8{200, 0, 255}, []uint8(px))
}

func TestFailingFilterAbortsChain(t *testing.T) {
	rec := &memoryRecorder{}
	p := NewProcessor(rec, nil)

	first := &stubFilter{apply: func(img *gocv.Mat) error {
		gocv.CvtColor(*img, img, gocv.ColorBGRToGray)
		return nil
	}}
	failing := &stubFilter{apply: func(*gocv.Mat) error {
		return filters.Processingf("boom")
	}}
	last := &stubFilter{}
	p.filters = append(p.filters, first, failing, last)

	img := uniformBGR(3, 3, 10, 20, 30)
	defer img.Close()

	err := p.Process(&img)
	require.ErrorIs(t, err, filters.ErrProcessing)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, failing.calls)
	assert.Zero(t, last.calls)

	// The first filter's work is kept.
	px := img.GetVecbAt(0, 0)
	assert.Equal(t, px[0], px[2])

	assert.Equal(t, "ERROR: Image processing failed - boom", rec.messages[len(rec.messages)-1])

	failed, ok := p.LastTrace().Failed()
	require.True(t, ok)
	assert.Equal(t, "boom", failed.Error)
	assert.Len(t, p.LastTrace().Steps, 2)
}

func TestFilterProducingEmptyImage(t *testing.T) {
	p := NewProcessor(nil, nil)
	p.filters = append(p.filters, &stubFilter{apply: func(img *gocv.Mat) error {
		empty := gocv.NewMat()
		defer empty.Close()
		empty.CopyTo(img)
		return nil
	}})

	img := uniformBGR(3, 3, 1, 1, 1)
	defer img.Close()

	err := p.Process(&img)
	require.ErrorIs(t, err, filters.ErrProcessing)
	assert.Contains(t, err.Error(), "filter produced empty image")
}

func TestUnsupportedChannelCount(t *testing.T) {
	p, _ := newTestProcessor(t, filters.Spec{Kind: filters.Heart})

	img := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC4)
	defer img.Close()

	assert.ErrorIs(t, p.Process(&img), filters.ErrProcessing)
}

func TestAddFilterFailureLeavesChainUnchanged(t *testing.T) {
	rec := &memoryRecorder{}
	p := NewProcessor(rec, nil)
	require.NoError(t, p.AddFilter(filters.Heart, nil))

	err := p.AddFilter(filters.Blur, []string{"4", "1"})
	require.ErrorIs(t, err, filters.ErrConfiguration)
	assert.Equal(t, 1, p.Len())
	assert.Equal(t, []filters.Kind{filters.Heart}, p.Kinds())

	err = p.AddFilter(filters.Kind(99), nil)
	require.ErrorIs(t, err, filters.ErrConfiguration)
	assert.Equal(t, 1, p.Len())
}

func TestAddSpecsReportsPosition(t *testing.T) {
	p := NewProcessor(nil, nil)
	err := p.AddSpecs([]filters.Spec{
		{Kind: filters.Grayscale},
		{Kind: filters.Edge, Params: []string{"300", "80"}},
	})
	require.ErrorIs(t, err, filters.ErrConfiguration)
	assert.Contains(t, err.Error(), "filter 2 (edge)")
	assert.Equal(t, 1, p.Len())
}

func TestEveryFilterLeavesEightBitBGR(t *testing.T) {
	for _, kind := range filters.Kinds() {
		p, rec := newTestProcessor(t, filters.Spec{Kind: kind})

		img := uniformBGR(9, 13, 17, 128, 250)
		require.NoError(t, p.Process(&img), kind.String())
		assert.Equal(t, gocv.MatTypeCV8UC3, img.Type(), kind.String())
		assert.Equal(t, 9, img.Rows())
		assert.Equal(t, 13, img.Cols())
		assert.Len(t, rec.messages, 1)
		img.Close()

		trace := p.LastTrace()
		require.Len(t, trace.Steps, 1)
		assert.True(t, trace.Steps[0].Success)
		assert.Equal(t, kind, trace.Steps[0].Kind)
	}
}

func errorEntries(hook *logtest.Hook) int {
	n := 0
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.ErrorLevel {
			n++
		}
	}
	return n
}

func TestFailuresLoggedOnceWithLoggingSink(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	p := NewProcessor(logging.NewSink(logger), logger)

	require.Error(t, p.AddFilter(filters.Blur, []string{"4"}))
	assert.Equal(t, 1, errorEntries(hook))

	hook.Reset()
	p.filters = append(p.filters, &stubFilter{apply: func(*gocv.Mat) error {
		return filters.Processingf("boom")
	}})
	img := uniformBGR(4, 4, 1, 2, 3)
	defer img.Close()

	require.Error(t, p.Process(&img))
	assert.Equal(t, 1, errorEntries(hook))
}
