// Image container and representation helpers shared by the pipeline and the GUI
package core

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"gocv.io/x/gocv"

	"image-filter-tool/internal/filters"
)

// ImageData keeps a loaded image and the result of the filters applied to it so far
type ImageData struct {
	mu       sync.RWMutex
	original gocv.Mat
	current  gocv.Mat
	hasImage bool
	filepath string
	metadata ImageMetadata
}

// ImageMetadata contains image information
type ImageMetadata struct {
	Width    int
	Height   int
	Channels int
	Type     gocv.MatType
	Format   string
}

// NewImageData creates an empty thread-safe image container
func NewImageData() *ImageData {
	return &ImageData{
		original: gocv.NewMat(),
		current:  gocv.NewMat(),
	}
}

// SetOriginal stores a freshly loaded image and resets the current result to it
func (img *ImageData) SetOriginal(mat gocv.Mat, path string) error {
	if err := ValidateImage(mat); err != nil {
		return err
	}

	img.mu.Lock()
	defer img.mu.Unlock()

	img.original.Close()
	img.current.Close()

	img.original = mat.Clone()
	img.current = mat.Clone()
	img.hasImage = true
	img.filepath = path
	img.metadata = ImageMetadata{
		Width:    mat.Cols(),
		Height:   mat.Rows(),
		Channels: mat.Channels(),
		Type:     mat.Type(),
		Format:   formatFromPath(path),
	}
	return nil
}

// SetCurrent replaces the current result
func (img *ImageData) SetCurrent(mat gocv.Mat) error {
	img.mu.Lock()
	defer img.mu.Unlock()

	if !img.hasImage {
		return fmt.Errorf("no original image loaded")
	}
	if mat.Empty() {
		return fmt.Errorf("cannot set empty processed image")
	}

	img.current.Close()
	img.current = mat.Clone()
	return nil
}

// Original returns a copy of the loaded image
func (img *ImageData) Original() gocv.Mat {
	img.mu.RLock()
	defer img.mu.RUnlock()

	if !img.hasImage {
		return gocv.NewMat()
	}
	return img.original.Clone()
}

// Current returns a copy of the current result
func (img *ImageData) Current() gocv.Mat {
	img.mu.RLock()
	defer img.mu.RUnlock()

	if !img.hasImage {
		return gocv.NewMat()
	}
	return img.current.Clone()
}

func (img *ImageData) HasImage() bool {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.hasImage
}

func (img *ImageData) Metadata() ImageMetadata {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.metadata
}

func (img *ImageData) Filepath() string {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.filepath
}

// ResetToOriginal discards every filter applied since the image was loaded
func (img *ImageData) ResetToOriginal() error {
	img.mu.Lock()
	defer img.mu.Unlock()

	if !img.hasImage {
		return fmt.Errorf("no original image available")
	}

	img.current.Close()
	img.current = img.original.Clone()
	return nil
}

// Close releases both Mats
func (img *ImageData) Close() {
	img.mu.Lock()
	defer img.mu.Unlock()

	img.original.Close()
	img.current.Close()
	img.original = gocv.NewMat()
	img.current = gocv.NewMat()
	img.hasImage = false
	img.filepath = ""
	img.metadata = ImageMetadata{}
}

func formatFromPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "unknown"
	}
	return ext
}

// ValidateImage checks that a Mat is something the pipeline can work on
func ValidateImage(mat gocv.Mat) error {
	if mat.Empty() || mat.Cols() <= 0 || mat.Rows() <= 0 {
		return filters.Processingf("empty image")
	}

	if channels := mat.Channels(); channels != 1 && channels != 3 {
		return filters.Processingf("unsupported channel count: %d", channels)
	}
	return nil
}

// normalizeInput coerces img to CV_8UC3 before a filter runs. Non 8-bit data is
// assumed to be in 0..1 and is scaled by 255.
func normalizeInput(img *gocv.Mat) {
	expandGray(img)
	if img.Type() != gocv.MatTypeCV8UC3 {
		img.ConvertToWithParams(img, gocv.MatTypeCV8UC3, 255, 0)
	}
}

// normalizeOutput coerces img to CV_8UC3 after a filter ran. Filters already write
// full-range values, so the conversion does not rescale.
func normalizeOutput(img *gocv.Mat) {
	expandGray(img)
	if img.Type() != gocv.MatTypeCV8UC3 {
		img.ConvertTo(img, gocv.MatTypeCV8UC3)
	}
}

func expandGray(img *gocv.Mat) {
	if img.Channels() == 1 {
		gocv.CvtColor(*img, img, gocv.ColorGrayToBGR)
	}
}
