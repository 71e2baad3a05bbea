package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/inapp/internal/parser"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "Inapp %s\ncommit: %s\nbuilt: %s\nmessaging API level: %d\n",
				version, commit, date, parser.DefaultMessagingAPILevel)
			return nil
		},
	}

	return cmd
}
