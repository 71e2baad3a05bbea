package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/inapp/internal/logger"
	"github.com/alexisbeaulieu97/inapp/internal/tui"
	"github.com/alexisbeaulieu97/inapp/internal/ui"
)

type previewOptions struct {
	metricsAddr string
	logFile     string
}

func newPreviewCmd(app *AppContext) *cobra.Command {
	opts := &previewOptions{}

	cmd := &cobra.Command{
		Use:   "preview <payload.json|->",
		Short: "Present a message interactively in the terminal",
		Long: `Preview presents the message in a full-screen terminal UI. Focus controls with tab,
tap them with enter and close the message with esc. Analytics events and host
actions are shown below the message.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := app.LoadMessage(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			log, closeLog, err := previewLogger(app, opts.logFile)
			if err != nil {
				return err
			}
			defer closeLog()

			addr := opts.metricsAddr
			if addr == "" {
				addr = app.Config.Metrics.Addr
			}
			if addr != "" {
				bound, stop, err := serveMetrics(app, addr)
				if err != nil {
					return err
				}
				defer stop()
				fmt.Fprintf(cmd.ErrOrStderr(), "serving metrics on http://%s/metrics\n", bound)
			}

			cols, rows, _ := terminalSize(cmd.OutOrStdout())
			model, err := tui.NewModel(tui.Options{
				Message: msg,
				Config:  app.Config,
				Painter: ui.NewPainter(ui.Options{}),
				Logger:  log,
				Metrics: app.Metrics,
				Width:   cols,
				Height:  rows,
			})
			if err != nil {
				return fmt.Errorf("failed to present message: %w", err)
			}
			defer model.Close()

			program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			final, err := program.Run()
			if err != nil {
				return fmt.Errorf("failed to run preview: %w", err)
			}

			if result, ok := final.(tui.Model); ok {
				printPreviewResult(cmd, result)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while previewing")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "Write logs to this file instead of discarding them")

	return cmd
}

// previewLogger keeps logs off the terminal the preview draws on.
func previewLogger(app *AppContext, path string) (*logger.Logger, func(), error) {
	if path == "" {
		return logger.Nop(), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	opts := app.Config.LoggerOptions()
	opts.Writer = f
	opts.HumanReadable = false
	opts.Component = "preview"
	log, err := logger.New(opts)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, func() { f.Close() }, nil
}

// serveMetrics exposes the Prometheus registry on /metrics and returns the bound address.
func serveMetrics(app *AppContext, addr string) (net.Addr, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", app.Metrics.Handler())
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Logger.Error(err, "metrics server stopped")
		}
	}()
	return listener.Addr(), func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}, nil
}

func printPreviewResult(cmd *cobra.Command, m tui.Model) {
	out := cmd.OutOrStdout()
	if m.Cancelled() {
		fmt.Fprintln(out, "Preview cancelled")
	} else if reason := m.Reason(); reason != "" {
		fmt.Fprintf(out, "Message dismissed: %s\n", reason)
	}
	for _, line := range m.Journal() {
		fmt.Fprintf(out, "  %s\n", line)
	}
}
