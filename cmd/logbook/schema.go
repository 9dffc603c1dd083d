package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-logbook/pkg/openapi"
)

func schemaCmd() *cobra.Command {
	var (
		format    string
		serverURL string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the OpenAPI contract of the save endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := openapi.Document(
				openapi.WithContext(cmd.Context()),
				openapi.WithServerURL(serverURL),
			)
			if err != nil {
				return err
			}

			var data []byte
			switch strings.ToLower(format) {
			case "yaml", "yml":
				data, err = openapi.MarshalYAML(doc)
			case "json":
				data, err = openapi.MarshalJSON(doc)
			default:
				return fmt.Errorf("unsupported schema format %q", format)
			}
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Schema written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format: yaml or json")
	cmd.Flags().StringVar(&serverURL, "server-url", "", "Server URL to list in the document")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout if empty)")
	return cmd
}
