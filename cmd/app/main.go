// Image Filter Tool - Command Line
// Author: Ervins Strauhmanis
// License: MIT
// Version: 1.0.0 - Filter Pipeline

// Command app applies a chain of filters to an image file.
//
//	app [-debug] [-config job.toml] [-log file] [-codec opencv|imaging] <input> <output> --<filter> [params...] ...
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"image-filter-tool/internal/cli"
	"image-filter-tool/internal/config"
	"image-filter-tool/internal/filters"
	"image-filter-tool/internal/logging"
)

const (
	AppName    = "image-filter-tool"
	AppVersion = "1.0.0"
)

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return
	default:
		fmt.Fprintf(os.Stderr, "Processing failed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	flagArgs, chainArgs := splitArgs(args)

	fs := flag.NewFlagSet(AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	debugMode := fs.Bool("debug", false, "Enable debug mode with verbose logging")
	configPath := fs.String("config", "", "TOML or YAML job file")
	logFile := fs.String("log", "", "Write the processing log to this file instead of stdout")
	codecName := fs.String("codec", "", "Image codec: opencv (default) or imaging")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [flags] <input> <output> --<filter> [params...] ...\n\nFlags:\n", AppName)
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\n%s", cli.Usage())
	}

	if err := fs.Parse(flagArgs); err != nil {
		return err
	}

	job, err := buildJob(*configPath, append(fs.Args(), chainArgs...), config.Job{
		Codec: *codecName,
		Log:   config.LogConfig{Debug: *debugMode, File: *logFile},
	})
	if err != nil {
		return err
	}

	logger, closeLog, err := openLogger(job.Log, stdout)
	if err != nil {
		return err
	}
	defer closeLog()

	logger.WithFields(logrus.Fields{
		"version":    AppVersion,
		"debug_mode": job.Log.Debug,
	}).Info("Starting " + AppName)

	runner, err := newRunner(job, logger)
	if err != nil {
		logger.WithError(err).Error("Invalid configuration")
		return err
	}
	return runner.Run()
}

// splitArgs separates leading flags from the positional chain. Filter tokens such as
// "--blur" would otherwise be rejected by the flag package.
func splitArgs(args []string) ([]string, []string) {
	for i, arg := range args {
		if !strings.HasPrefix(arg, "--") || len(arg) < 3 {
			continue
		}
		if _, err := filters.ParseKind(arg[2:]); err == nil {
			return args[:i], args[i:]
		}
	}
	return args, nil
}

func buildJob(configPath string, positional []string, overrides config.Job) (*config.Job, error) {
	job := &config.Job{}
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		job = loaded
	}

	inv, err := cli.ParseArgs(positional, configPath == "")
	if err != nil {
		return nil, err
	}

	overrides.Input = inv.Input
	overrides.Output = inv.Output
	for _, spec := range inv.Filters {
		overrides.Filters = append(overrides.Filters, config.FilterConfig{Kind: spec.Kind.String(), Params: spec.Params})
	}
	job.Merge(overrides)

	if err := job.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}

func openLogger(cfg config.LogConfig, stdout io.Writer) (*logrus.Logger, func(), error) {
	if cfg.File == "" {
		return logging.New(cfg.Debug, stdout), func() {}, nil
	}

	fileLogger, err := logging.OpenFile(cfg.File, cfg.Debug)
	if err != nil {
		return nil, nil, err
	}
	return fileLogger.Logger, func() { fileLogger.Close() }, nil
}
