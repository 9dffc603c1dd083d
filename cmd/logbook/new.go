package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-logbook"
	"github.com/goliatone/go-logbook/internal/logging"
	"github.com/goliatone/go-logbook/pkg/form"
	"github.com/goliatone/go-logbook/pkg/renderers/tui"
)

func newCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Fill in a flight entry in the terminal",
		Long: `Prompt for each field of a new flight entry, then save it.

Rejected entries can be corrected without re-entering valid fields.
The saved entry is printed in the chosen format.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(cmd.Context(), opts, format, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(tui.OutputFormatPrettyText), "Output format: json, form or pretty")
	return cmd
}

func runNew(ctx context.Context, opts *rootOptions, format string, stdout, stderr io.Writer) error {
	outputFormat, ok := tui.ParseOutputFormat(format)
	if !ok {
		return fmt.Errorf("unsupported output format %q", format)
	}

	cfg, logger, err := opts.load()
	if err != nil {
		return err
	}
	defer logging.Sync(logger)

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

	renderer, err := tui.New(tui.WithEngine(engine), tui.WithOutputFormat(outputFormat))
	if err != nil {
		return err
	}
	entry := form.New(
		form.WithID("terminal"),
		form.WithEngine(engine),
		form.WithSaver(saver),
		form.WithLogger(logger),
	)
	defer entry.Close()

	out, err := renderer.Run(ctx, engine.Definition(), entry)
	if errors.Is(err, tui.ErrAborted) {
		fmt.Fprintln(stderr, "Entry discarded.")
		return nil
	}
	if err != nil {
		return err
	}
	_, err = stdout.Write(out)
	return err
}
