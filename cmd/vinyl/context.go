package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/handiism/stylus-vinyl/internal/config"
	"github.com/handiism/stylus-vinyl/internal/controller"
	vhttp "github.com/handiism/stylus-vinyl/internal/http"
	"github.com/handiism/stylus-vinyl/internal/logging"
	"github.com/handiism/stylus-vinyl/internal/model"
	"github.com/handiism/stylus-vinyl/internal/source"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// dotEnvFile is read from the working directory before the environment is
// applied.
const dotEnvFile = ".env"

type globalFlags struct {
	config     string
	source     string
	sourceType string
	verbose    bool
}

type commandContext struct {
	flags *globalFlags

	settingsOnce sync.Once
	settings     *config.Settings
	settingsErr  error

	closers []func() error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

// ensureSettings loads the settings once. Precedence, lowest first: file,
// .env, environment, flags.
func (c *commandContext) ensureSettings() (*config.Settings, error) {
	c.settingsOnce.Do(func() {
		c.settings, c.settingsErr = c.loadSettings()
	})
	return c.settings, c.settingsErr
}

func (c *commandContext) loadSettings() (*config.Settings, error) {
	path := strings.TrimSpace(c.flags.config)
	if path == "" {
		path = config.DefaultPath()
	}

	settings, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := config.LoadDotEnv(dotEnvFile); err != nil {
		return nil, fmt.Errorf("load %s: %w", dotEnvFile, err)
	}
	if err := settings.ApplyEnv(); err != nil {
		return nil, err
	}

	if loc := strings.TrimSpace(c.flags.source); loc != "" {
		settings.Sources = []config.SourceSettings{{Type: c.flags.sourceType, Location: loc}}
	}
	if c.flags.verbose {
		settings.LogLevel = logrus.DebugLevel.String()
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return settings, nil
}

// newLogger builds the command logger. Its file, if any, is closed by
// close when the command returns.
func (c *commandContext) newLogger(settings *config.Settings, out io.Writer) (*logrus.Logger, error) {
	log, closeLog, err := logging.New(logging.Config{
		Level:  settings.LogLevel,
		Format: settings.LogFormat,
		File:   settings.LogFile,
		Output: out,
	})
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, closeLog)
	return log, nil
}

func (c *commandContext) close() error {
	var errs []error
	for _, fn := range c.closers {
		errs = append(errs, fn())
	}
	c.closers = nil
	return errors.Join(errs...)
}

func (c *commandContext) sources(settings *config.Settings) ([]source.Source, error) {
	return source.NewAll(settings.ToSourceSpecs(), vhttp.NewClient(settings.Timeout()))
}

// loadCatalog fetches every source into a record controller. Progress
// lines go to the command's stderr.
func (c *commandContext) loadCatalog(cmd *cobra.Command) (*controller.Controller[model.Record], error) {
	settings, err := c.ensureSettings()
	if err != nil {
		return nil, err
	}

	log, err := c.newLogger(settings, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	sources, err := c.sources(settings)
	if err != nil {
		return nil, err
	}

	ctl := controller.New(settings, controller.Deps[model.Record]{
		Sources:     sources,
		Materialize: func(rec model.Record) model.Record { return rec },
		Logger:      log,
		OnProgress:  progressPrinter(cmd.ErrOrStderr(), c.flags.verbose),
	})
	if _, err := ctl.Load(cmd.Context()); err != nil {
		return nil, err
	}
	return ctl, nil
}

// collect grows the window until it holds limit records, or every record
// of the View when limit is not positive.
func collect(ctl *controller.Controller[model.Record], limit int) ([]model.Record, error) {
	for ctl.More() && (limit <= 0 || len(ctl.Items()) < limit) {
		if _, err := ctl.Dispatch(controller.Grow{}); err != nil {
			return nil, err
		}
	}
	items := ctl.Items()
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func progressPrinter(w io.Writer, verbose bool) func(controller.ProgressEvent) {
	return func(event controller.ProgressEvent) {
		if event.Level == controller.LevelVerbose && !verbose {
			return
		}

		prefix := ""
		switch event.Level {
		case controller.LevelError:
			prefix = "❌ "
		case controller.LevelWarning:
			prefix = "⚠️  "
		case controller.LevelSuccess:
			prefix = "✅ "
		case controller.LevelInfo:
			prefix = "ℹ️  "
		default:
			prefix = "   "
		}

		fmt.Fprintln(w, prefix+event.Message)
	}
}
