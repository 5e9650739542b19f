// Image Filter Tool - Desktop Editor
// Author: Ervins Strauhmanis
// License: MIT
// Version: 1.0.0 - Filter Pipeline

// Command gui opens the desktop filter editor.
//
//	gui [-debug] [-codec opencv|imaging] [image]
package main

import (
	"flag"
	"fmt"
	"os"

	"fyne.io/fyne/v2/app"
	"github.com/sirupsen/logrus"

	"image-filter-tool/internal/gui"
	imgio "image-filter-tool/internal/io"
	"image-filter-tool/internal/logging"
)

const (
	AppName    = "image-filter-tool"
	AppVersion = "1.0.0"
)

func main() {
	debugMode := flag.Bool("debug", false, "Enable debug mode with verbose logging")
	codecName := flag.String("codec", "", "Image codec: opencv (default) or imaging")
	flag.Parse()

	logger := logging.New(*debugMode, os.Stdout)
	logger.WithFields(logrus.Fields{
		"version":    AppVersion,
		"debug_mode": *debugMode,
	}).Info("Starting " + AppName + " GUI")

	codec, err := imgio.NewCodec(*codecName, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Startup failed: %v\n", err)
		os.Exit(1)
	}

	fyneApp := app.NewWithID("com.imagefiltertool.gui")
	application := gui.NewApplication(fyneApp, logger, codec)

	if path := flag.Arg(0); path != "" {
		go func() {
			if err := application.LoadImageFromPath(path); err != nil {
				logger.WithError(err).Error("Failed to load initial image")
			}
		}()
	}

	application.ShowAndRun()
	logger.Info("Application shutdown complete")
}
