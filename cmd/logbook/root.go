package main

import (
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-logbook"
	"github.com/goliatone/go-logbook/internal/config"
	"github.com/goliatone/go-logbook/internal/logging"
	"github.com/goliatone/go-logbook/pkg/formstate"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
	getenv     func(string) string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{getenv: os.Getenv}

	root := &cobra.Command{
		Use:   "logbook",
		Short: "Pilot logbook flight entry form",
		Long: `Logbook records flights through a validated entry form.

The form can be served over HTTP, with live validation over a
websocket, or filled in the terminal. Entries are saved to the
configured endpoint, or kept in memory when none is set.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML config file")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format: console or json (default from config)")

	root.AddCommand(
		serveCmd(opts),
		newCmd(opts),
		schemaCmd(),
		versionCmd(),
	)
	return root
}

// load reads the configuration, applies the logging flags, and builds the
// logger.
func (o *rootOptions) load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.configPath, o.getenv)
	if err != nil {
		return nil, nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
	logger, err := logging.New(cfg.Log.Level, logging.Format(cfg.Log.Format))
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func engineFor(cfg *config.Config) (*formstate.Engine, error) {
	var layouts fs.FS
	if dir := strings.TrimSpace(cfg.Layout.Dir); dir != "" {
		layouts = os.DirFS(dir)
	}
	return logbook.NewEngine(layouts)
}
