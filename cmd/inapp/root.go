package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	app := &AppContext{}

	cmd := &cobra.Command{
		Use:           "inapp",
		Short:         "Inapp parses, renders and previews in-app marketing messages",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := newAppContext(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			*app = *loaded
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to the YAML configuration file")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(newParseCmd(app))
	cmd.AddCommand(newRenderCmd(app))
	cmd.AddCommand(newPreviewCmd(app))
	cmd.AddCommand(newBridgeCmd(app))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
