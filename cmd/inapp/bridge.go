package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/inapp/internal/bridge"
	"github.com/alexisbeaulieu97/inapp/internal/presentation"
)

func newBridgeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bridge <payload.json|-> <method> [arguments-json]",
		Short: "Send one web bridge call to a presented message",
		Long: fmt.Sprintf(`Bridge presents the message, posts a single call the way web content would
and prints the events it triggered followed by the JSON response.
Host values come from the host section of the configuration.

Methods: %s`, strings.Join(bridge.Methods(), ", ")),
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := app.LoadMessage(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			rawArgs := "{}"
			if len(args) == 3 {
				rawArgs = args[2]
			}

			out := cmd.OutOrStdout()
			printer := presentation.EventLog{Emit: func(line string) { fmt.Fprintln(out, line) }}
			controller := presentation.NewController(msg, presentation.Deps{
				Analytics: printer,
				Actions:   printer,
				OnDismiss: func(reason presentation.Reason) { fmt.Fprintf(out, "dismissed: %s\n", reason) },
				Logger:    app.Logger,
				Metrics:   app.Metrics,
			})
			if err := controller.Present(); err != nil {
				return err
			}

			b := bridge.New(msg, controller, app.Config.HostInfo(), bridge.Options{
				Logger:  app.Logger,
				Metrics: app.Metrics,
			})
			fmt.Fprintln(out, b.PostMessage(args[1], rawArgs))
			return nil
		},
	}

	return cmd
}
