package main

import (
	"github.com/spf13/cobra"
)

type globalOptions struct {
	configPath string
	debug      bool
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "jsonapi-render",
		Short:         "Render JSON:API documents from variable bag files",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Configuration file path (.yaml, .yml or .toml)")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Pretty print output and log at debug level")

	rootCmd.AddCommand(newRenderCommand(opts))
	rootCmd.AddCommand(newReservedCommand())

	return rootCmd
}
