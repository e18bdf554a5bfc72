package main

import (
	"fmt"
	"os"

	"github.com/handiism/stylus-vinyl/internal/config"
	vhttp "github.com/handiism/stylus-vinyl/internal/http"
	"github.com/handiism/stylus-vinyl/internal/logging"
	"github.com/handiism/stylus-vinyl/internal/source"
	"github.com/handiism/stylus-vinyl/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	settings, err := config.Load(config.DefaultPath())
	if err != nil {
		return err
	}
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	if err := settings.ApplyEnv(); err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	logFile := settings.LogFile
	if logFile == "" {
		logFile = config.DefaultLogFile()
	}
	log, closeLog, err := logging.New(logging.Config{
		Level:  settings.LogLevel,
		Format: settings.LogFormat,
		File:   logFile,
	})
	if err != nil {
		return err
	}
	defer closeLog()

	sources, err := source.NewAll(settings.ToSourceSpecs(), vhttp.NewClient(settings.Timeout()))
	if err != nil {
		return err
	}
	return tui.Run(tui.Options{Settings: settings, Sources: sources, Logger: log})
}
