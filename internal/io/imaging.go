package io

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
	_ "golang.org/x/image/webp"
)

// ImagingLoader decodes and encodes in pure Go and converts to and from Mats.
// JPEG orientation tags are applied on load.
type ImagingLoader struct {
	logger logrus.FieldLogger
}

func NewImagingLoader(logger logrus.FieldLogger) *ImagingLoader {
	return &ImagingLoader{
		logger: logger.WithField("codec", CodecImaging),
	}
}

var imagingReadFormats = []string{".jpg", ".jpeg", ".png", ".gif", ".tif", ".tiff", ".bmp", ".webp"}

func (il *ImagingLoader) Load(path string) (gocv.Mat, error) {
	il.logger.WithField("filepath", path).Debug("Loading image")

	if !isSupportedImageFormat(path, imagingReadFormats) {
		return gocv.NewMat(), fmt.Errorf("unsupported image format: %s", path)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("cannot load image: %s: %w", path, err)
	}

	mat, err := matFromImage(img)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("cannot load image: %s: %w", path, err)
	}

	logLoaded(il.logger, path, mat)
	return mat, nil
}

// matFromImage converts a decoded image to a BGR Mat. The Mat is closed on
// every failure path.
func matFromImage(img image.Image) (gocv.Mat, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		mat.Close()
		return gocv.NewMat(), fmt.Errorf("convert to Mat: %w", err)
	}
	if mat.Empty() {
		mat.Close()
		return gocv.NewMat(), fmt.Errorf("image is empty")
	}
	return mat, nil
}

func (il *ImagingLoader) Save(path string, mat gocv.Mat) error {
	il.logger.WithField("filepath", path).Debug("Saving image")

	if mat.Empty() {
		return fmt.Errorf("image is empty")
	}

	if _, err := imaging.FormatFromFilename(path); err != nil {
		return fmt.Errorf("unsupported image format: %s", path)
	}

	img, err := mat.ToImage()
	if err != nil {
		return fmt.Errorf("cannot convert image for %s: %w", path, err)
	}

	if err := imaging.Save(img, path, imaging.JPEGQuality(95)); err != nil {
		return fmt.Errorf("cannot save image at path: %s: %w", path, err)
	}

	logSaved(il.logger, path, mat)
	return nil
}
