// Image loading and saving
package io

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// Codec reads image files into BGR Mats and writes Mats back to disk
type Codec interface {
	Load(path string) (gocv.Mat, error)
	Save(path string, mat gocv.Mat) error
}

// Codec names accepted by NewCodec
const (
	CodecOpenCV  = "opencv"
	CodecImaging = "imaging"
)

// NewCodec returns the codec registered under name; an empty name selects OpenCV
func NewCodec(name string, logger logrus.FieldLogger) (Codec, error) {
	switch strings.ToLower(name) {
	case "", CodecOpenCV:
		return NewImageLoader(logger), nil
	case CodecImaging:
		return NewImagingLoader(logger), nil
	}
	return nil, fmt.Errorf("unknown codec: %s", name)
}

// ImageLoader handles image file operations through OpenCV
type ImageLoader struct {
	logger logrus.FieldLogger
}

func NewImageLoader(logger logrus.FieldLogger) *ImageLoader {
	return &ImageLoader{
		logger: logger.WithField("codec", CodecOpenCV),
	}
}

func (il *ImageLoader) Load(path string) (gocv.Mat, error) {
	il.logger.WithField("filepath", path).Debug("Loading image")

	if !isSupportedImageFormat(path, openCVFormats) {
		return gocv.NewMat(), fmt.Errorf("unsupported image format: %s", path)
	}

	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		mat.Close()
		return gocv.NewMat(), fmt.Errorf("cannot load image: %s", path)
	}

	logLoaded(il.logger, path, mat)
	return mat, nil
}

func (il *ImageLoader) Save(path string, mat gocv.Mat) error {
	il.logger.WithField("filepath", path).Debug("Saving image")

	if mat.Empty() {
		return fmt.Errorf("image is empty")
	}

	if !isSupportedImageFormat(path, openCVFormats) {
		return fmt.Errorf("unsupported image format: %s", path)
	}

	if ok := gocv.IMWrite(path, mat); !ok {
		return fmt.Errorf("cannot save image at path: %s", path)
	}

	logSaved(il.logger, path, mat)
	return nil
}

var openCVFormats = []string{".jpg", ".jpeg", ".png", ".tiff", ".tif", ".bmp", ".webp"}

func isSupportedImageFormat(path string, formats []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range formats {
		if ext == format {
			return true
		}
	}
	return false
}

func logLoaded(logger logrus.FieldLogger, path string, mat gocv.Mat) {
	logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    mat.Cols(),
		"height":   mat.Rows(),
		"channels": mat.Channels(),
	}).Info("Image loaded successfully")
}

func logSaved(logger logrus.FieldLogger, path string, mat gocv.Mat) {
	logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    mat.Cols(),
		"height":   mat.Rows(),
		"channels": mat.Channels(),
	}).Info("Image saved successfully")
}
