// Desktop front end: load an image, tick filters, apply them and save the result
package gui

import (
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"image-filter-tool/internal/config"
	"image-filter-tool/internal/core"
	"image-filter-tool/internal/filters"
	imgio "image-filter-tool/internal/io"
	"image-filter-tool/internal/logging"
	"image-filter-tool/internal/metrics"
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp"}

// Application is the main window and the state behind it
type Application struct {
	app    fyne.App
	window fyne.Window
	logger *logrus.Logger

	imageData *core.ImageData
	codec     imgio.Codec
	evaluator *metrics.Evaluator

	panel        *FilterPanel
	preview      *canvas.Image
	status       *widget.Label
	metricsLabel *widget.Label

	loadBtn    *widget.Button
	processBtn *widget.Button
	resetBtn   *widget.Button
	saveBtn    *widget.Button

	mu   sync.Mutex
	busy bool
}

func NewApplication(app fyne.App, logger *logrus.Logger, codec imgio.Codec) *Application {
	window := app.NewWindow("Image Filters")
	window.Resize(fyne.NewSize(1400, 900))
	window.CenterOnScreen()

	a := &Application{
		app:       app,
		window:    window,
		logger:    logger,
		imageData: core.NewImageData(),
		codec:     codec,
		evaluator: metrics.NewEvaluator(),
		panel:     NewFilterPanel(),
	}
	a.setupLayout()
	a.setImageControls(false)
	return a
}

func (a *Application) setupLayout() {
	a.preview = &canvas.Image{FillMode: canvas.ImageFillContain}
	a.preview.SetMinSize(fyne.NewSize(800, 600))

	a.status = widget.NewLabel("Load an image to begin")
	a.status.Wrapping = fyne.TextWrapWord
	a.metricsLabel = widget.NewLabel("No metrics")

	a.loadBtn = widget.NewButton("Load image", a.openImage)
	a.processBtn = widget.NewButton("Apply filters", a.processCurrent)
	a.processBtn.Importance = widget.HighImportance
	a.resetBtn = widget.NewButton("Reset", a.reset)
	a.saveBtn = widget.NewButton("Save image", a.saveImage)

	jobButtons := container.NewGridWithColumns(2,
		widget.NewButton("Open job", a.openJob),
		widget.NewButton("Export job", a.exportJob),
	)

	left := container.NewVBox(
		widget.NewCard("Image", "", container.NewVBox(a.loadBtn, a.saveBtn)),
		widget.NewCard("Filters", "", a.panel.GetContainer()),
		container.NewGridWithColumns(2, a.processBtn, a.resetBtn),
		jobButtons,
	)

	right := container.NewVBox(
		widget.NewCard("Status", "", a.status),
		widget.NewCard("Quality", "", a.metricsLabel),
	)

	center := container.NewHSplit(container.NewPadded(a.preview), right)
	center.SetOffset(0.8)

	content := container.NewHSplit(container.NewVScroll(left), center)
	content.SetOffset(0.22)

	a.window.SetContent(content)
}

func (a *Application) ShowAndRun() {
	a.logger.Info("Showing main window")

	a.window.SetCloseIntercept(func() {
		a.logger.Info("Closing main window")
		a.imageData.Close()
		a.app.Quit()
	})

	a.window.ShowAndRun()
}

// LoadImageFromPath replaces the working image. Safe to call from any goroutine.
func (a *Application) LoadImageFromPath(path string) error {
	mat, err := a.codec.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	defer mat.Close()

	if err := a.imageData.SetOriginal(mat, path); err != nil {
		return fmt.Errorf("failed to set image: %w", err)
	}

	meta := a.imageData.Metadata()
	a.logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    meta.Width,
		"height":   meta.Height,
		"channels": meta.Channels,
	}).Info("Image loaded")

	fyne.Do(func() {
		a.refreshPreview()
		a.metricsLabel.SetText("No metrics")
		a.setImageControls(true)
		a.setStatus(fmt.Sprintf("Loaded %s (%dx%d)", path, meta.Width, meta.Height))
	})
	return nil
}

func (a *Application) openImage() {
	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			a.showError("File dialog error", err)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		if err := a.LoadImageFromPath(path); err != nil {
			a.showError("Load failed", err)
		}
	}, a.window)

	fileDialog.SetFilter(storage.NewExtensionFileFilter(imageExtensions))
	fileDialog.Show()
}

func (a *Application) saveImage() {
	if !a.imageData.HasImage() {
		a.showError("No image", fmt.Errorf("no image loaded to save"))
		return
	}

	fileDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			a.showError("File dialog error", err)
			return
		}
		if writer == nil {
			return
		}
		path := writer.URI().Path()
		// The codec writes by path.
		writer.Close()

		current := a.imageData.Current()
		defer current.Close()

		if err := a.codec.Save(path, current); err != nil {
			a.showError("Save failed", err)
			return
		}
		a.logger.WithField("filepath", path).Info("Image saved")
		a.setStatus("Saved " + path)
	}, a.window)

	fileDialog.SetFileName("filtered.png")
	fileDialog.SetFilter(storage.NewExtensionFileFilter(imageExtensions))
	fileDialog.Show()
}

func (a *Application) reset() {
	if err := a.imageData.ResetToOriginal(); err != nil {
		a.showError("Reset failed", err)
		return
	}
	a.refreshPreview()
	a.metricsLabel.SetText("No metrics")
	a.setStatus("Reset to original image")
}

// processCurrent applies the ticked chain to the current image in the
// background. Repeated runs accumulate.
func (a *Application) processCurrent() {
	if !a.imageData.HasImage() {
		a.showError("No image", fmt.Errorf("load an image first"))
		return
	}
	specs := a.panel.Specs()
	if len(specs) == 0 {
		a.showInfo("No filters", "Tick at least one filter to apply")
		return
	}

	a.mu.Lock()
	if a.busy {
		a.mu.Unlock()
		return
	}
	a.busy = true
	a.mu.Unlock()

	a.processBtn.Disable()
	a.setStatus("Processing...")

	go func() {
		values, err := a.apply(specs)

		a.mu.Lock()
		a.busy = false
		a.mu.Unlock()

		fyne.Do(func() {
			a.processBtn.Enable()
			if err != nil {
				a.showError("Processing failed", err)
				return
			}
			a.refreshPreview()
			a.metricsLabel.SetText(formatMetrics(values))
			a.setStatus(fmt.Sprintf("Applied %d filter(s)", len(specs)))
		})
	}()
}

// apply runs one Processor over a copy of the current image and stores the
// result only when every filter succeeded
func (a *Application) apply(specs []filters.Spec) (map[string]float64, error) {
	processor := core.NewProcessor(logging.Tee{logging.NewSink(a.logger), statusSink{a}}, a.logger)
	if err := processor.AddSpecs(specs); err != nil {
		return nil, err
	}

	img := a.imageData.Current()
	defer img.Close()

	if err := processor.Process(&img); err != nil {
		return nil, err
	}
	if err := a.imageData.SetCurrent(img); err != nil {
		return nil, err
	}

	original := a.imageData.Original()
	defer original.Close()
	return a.evaluator.CalculateAll(original, img), nil
}

func (a *Application) openJob() {
	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			a.showError("File dialog error", err)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		job, err := config.Load(path)
		if err != nil {
			a.showError("Invalid job file", err)
			return
		}
		specs, err := job.Specs()
		if err != nil {
			a.showError("Invalid job file", err)
			return
		}
		a.panel.SetSpecs(specs)
		a.logger.WithFields(logrus.Fields{
			"filepath":     path,
			"filter_count": len(specs),
		}).Info("Job loaded")

		if job.Input != "" {
			if err := a.LoadImageFromPath(job.Input); err != nil {
				a.showError("Load failed", err)
			}
		}
	}, a.window)

	fileDialog.SetFilter(storage.NewExtensionFileFilter([]string{".toml", ".yaml", ".yml"}))
	fileDialog.Show()
}

// exportJob writes the ticked chain and the loaded image path as a TOML job
func (a *Application) exportJob() {
	fileDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			a.showError("File dialog error", err)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()

		job := &config.Job{
			Input:   a.imageData.Filepath(),
			Filters: config.FilterConfigs(a.panel.Specs()),
		}
		data, err := config.EncodeTOML(job)
		if err != nil {
			a.showError("Export failed", err)
			return
		}
		if _, err := writer.Write(data); err != nil {
			a.showError("Export failed", err)
			return
		}
		a.setStatus("Exported job to " + writer.URI().Path())
	}, a.window)

	fileDialog.SetFileName("job.toml")
	fileDialog.Show()
}

func (a *Application) refreshPreview() {
	current := a.imageData.Current()
	defer current.Close()

	img, err := previewImage(current)
	if err != nil {
		a.logger.WithError(err).Debug("Preview cleared")
		a.preview.Image = nil
	} else {
		a.preview.Image = img
	}
	a.preview.Refresh()
}

func (a *Application) setImageControls(enabled bool) {
	for _, btn := range []*widget.Button{a.processBtn, a.resetBtn, a.saveBtn} {
		if enabled {
			btn.Enable()
		} else {
			btn.Disable()
		}
	}
}

func (a *Application) setStatus(message string) {
	a.status.SetText(message)
}

func (a *Application) showError(title string, err error) {
	a.logger.WithError(err).Error(title)
	dialog.ShowError(err, a.window)
	a.setStatus("Error: " + err.Error())
}

func (a *Application) showInfo(title, message string) {
	a.logger.WithField("message", message).Info(title)
	dialog.ShowInformation(title, message, a.window)
}

// statusSink mirrors pipeline events into the status label
type statusSink struct {
	a *Application
}

func (s statusSink) Record(msg string) {
	fyne.Do(func() {
		s.a.setStatus(msg)
	})
}
