// Package cli provides the command line entry points. The bare command
// launches the GUI; the compress subcommand runs a single headless
// compression.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/christiandoxa/kompresin/internal/app"
)

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "kompresin",
		Short:         "Image and PDF compressor",
		Long:          "Kompresin compresses PNG, JPEG and PDF files, with a side-by-side comparison GUI and a headless mode.",
		Version:       app.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := app.NewApplication()
			if err != nil {
				return err
			}
			return application.Run()
		},
	}

	root.AddCommand(newCompressCommand())

	return root
}
