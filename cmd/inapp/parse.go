package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/inapp/internal/message"
)

type componentSummary struct {
	Kind     string             `json:"kind"`
	ID       string             `json:"id,omitempty"`
	Text     string             `json:"text,omitempty"`
	URL      string             `json:"url,omitempty"`
	Action   string             `json:"action,omitempty"`
	Children []componentSummary `json:"children,omitempty"`
}

type messageSummary struct {
	Format           string             `json:"format"`
	TrackingID       string             `json:"trackingId,omitempty"`
	ImageFormat      bool               `json:"imageFormat"`
	CloseButton      bool               `json:"closeButton"`
	AutoCloseSeconds float64            `json:"autoCloseSeconds,omitempty"`
	Components       []componentSummary `json:"components"`
}

func newParseCmd(app *AppContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "parse <payload.json|->",
		Short: "Validate a message payload and describe its components",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := app.LoadMessage(args[0], cmd.InOrStdin())
			if err != nil {
				app.Logger.Error(err, "payload rejected")
				return err
			}

			summary := summarize(msg)
			if asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(summary)
			}
			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")

	return cmd
}

func summarize(msg *message.Message) messageSummary {
	summary := messageSummary{
		Format:      msg.Format.String(),
		TrackingID:  msg.TrackingID,
		ImageFormat: msg.IsImageFormat(),
		CloseButton: msg.CloseOptions.Button != nil,
		Components:  summarizeComponents(msg, msg.Root.Children),
	}
	if auto := msg.CloseOptions.Auto; auto != nil {
		summary.AutoCloseSeconds = auto.Delay.Seconds()
	}
	return summary
}

func summarizeComponents(msg *message.Message, components []message.Component) []componentSummary {
	out := make([]componentSummary, 0, len(components))
	for _, c := range components {
		entry := componentSummary{Kind: c.Kind().String()}
		if identified, ok := c.(message.Identified); ok {
			entry.ID = identified.ComponentID()
			entry.Text, _ = msg.Text(entry.ID)
			entry.URL, _ = msg.URL(entry.ID)
			if action, ok := msg.Action(entry.ID); ok {
				entry.Action = action.Name
			}
		}
		if columns, ok := c.(*message.Columns); ok {
			children := make([]message.Component, 0, len(columns.Children()))
			for _, child := range columns.Children() {
				children = append(children, child)
			}
			entry.Children = summarizeComponents(msg, children)
		}
		out = append(out, entry)
	}
	return out
}

func printSummary(w io.Writer, summary messageSummary) {
	fmt.Fprintf(w, "Format: %s\n", summary.Format)
	if summary.TrackingID != "" {
		fmt.Fprintf(w, "Tracking ID: %s\n", summary.TrackingID)
	}
	if summary.ImageFormat {
		fmt.Fprintln(w, "Image format: yes")
	}
	closeWith := []string{}
	if summary.CloseButton {
		closeWith = append(closeWith, "button")
	}
	if summary.AutoCloseSeconds > 0 {
		closeWith = append(closeWith, fmt.Sprintf("auto after %gs", summary.AutoCloseSeconds))
	}
	if len(closeWith) == 0 {
		closeWith = append(closeWith, "none")
	}
	fmt.Fprintf(w, "Close: %s\n", strings.Join(closeWith, ", "))
	fmt.Fprintln(w, "Components:")
	printComponents(w, summary.Components, 1)
}

func printComponents(w io.Writer, components []componentSummary, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, c := range components {
		line := indent + "- " + c.Kind
		if c.ID != "" {
			line += " #" + c.ID
		}
		if c.Text != "" {
			line += fmt.Sprintf(" %q", c.Text)
		}
		if c.URL != "" {
			line += " " + c.URL
		}
		if c.Action != "" {
			line += " -> " + c.Action
		}
		fmt.Fprintln(w, line)
		printComponents(w, c.Children, depth+1)
	}
}
