package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-logbook"
	"github.com/goliatone/go-logbook/internal/logging"
	"github.com/goliatone/go-logbook/internal/server"
)

func serveCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the flight entry form over HTTP",
		Long: `Serve the flight entry form.

Each visit to /flights/new mounts a fresh form. Idle forms are
unmounted after server.formTTL.

Examples:
  logbook serve
  logbook serve --addr :9000
  LOGBOOK_SAVE_ENDPOINT=https://api.example/flights logbook serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from config)")
	return cmd
}

func runServe(ctx context.Context, opts *rootOptions, addr string) error {
	cfg, logger, err := opts.load()
	if err != nil {
		return err
	}
	defer logging.Sync(logger)

	if addr == "" {
		addr = cfg.Server.Addr
	}

	engine, err := engineFor(cfg)
	if err != nil {
		return err
	}
	saver, err := logbook.NewSaver(logbook.SaveOptions{
		Endpoint: cfg.Save.Endpoint,
		Token:    cfg.Save.Token,
		Timeout:  cfg.Save.Timeout,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	srv, err := server.New(
		server.WithEngine(engine),
		server.WithSaver(saver),
		server.WithLogger(logger),
		server.WithTheme(logbook.Theme(cfg.Theme.Name, cfg.Theme.Variant, cfg.Theme.Tokens)),
		server.WithFormTTL(cfg.Server.FormTTL),
		server.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		server.WithAllowedOrigins(cfg.Server.AllowedOrigins...),
	)
	if err != nil {
		return err
	}

	logger.Info("starting logbook",
		zap.String("version", version),
		zap.String("save_endpoint", cfg.Save.Endpoint),
	)
	return srv.Run(ctx, addr)
}
