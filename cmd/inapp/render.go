package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/inapp/internal/images"
	"github.com/alexisbeaulieu97/inapp/internal/message"
	"github.com/alexisbeaulieu97/inapp/internal/render"
	"github.com/alexisbeaulieu97/inapp/internal/ui"
)

type renderOptions struct {
	width    int
	height   int
	plain    bool
	noImages bool
	timeout  time.Duration
}

func newRenderCmd(app *AppContext) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <payload.json|->",
		Short: "Draw one frame of a message",
		Long: `Render lays the message out for the terminal size (or --width/--height cells),
downloads its images and prints the resulting frame.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := app.LoadMessage(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			frame, err := renderFrame(cmd.Context(), app, msg, cmd.OutOrStdout(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), frame)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.width, "width", 0, "Frame width in cells (defaults to the terminal width)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "Frame height in cells (defaults to the terminal height)")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "Disable colors and text attributes")
	cmd.Flags().BoolVar(&opts.noImages, "no-images", false, "Skip image downloads")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Overall image download timeout (defaults to images.timeout)")

	return cmd
}

func renderFrame(ctx context.Context, app *AppContext, msg *message.Message, out io.Writer, opts *renderOptions) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cols, rows, tty := terminalSize(out)
	if opts.width > 0 {
		cols = opts.width
	}
	if opts.height > 0 {
		rows = opts.height
	}

	painter := ui.NewPainter(ui.Options{
		Renderer: lipgloss.NewRenderer(out),
		Plain:    opts.plain || !tty,
	})
	grid := painter.Grid()
	renderCtx := app.Config.RenderContext()
	renderCtx.Layout = grid.Layout()
	renderCtx.Viewport = grid.Viewport(cols, rows)
	tree := render.New(renderCtx, nil, app.Logger).Render(msg, nil)

	if !opts.noImages {
		timeout := opts.timeout
		if timeout <= 0 {
			timeout = app.Config.Images.Timeout
		}
		if err := loadImages(ctx, app, msg, tree, timeout); err != nil {
			return "", err
		}
	}

	return painter.Paint(tree, ui.State{}), nil
}

// loadImages downloads every image of msg and applies the results to tree before returning.
// A failed sole image of an image-format message is reported as an error.
func loadImages(ctx context.Context, app *AppContext, msg *message.Message, tree *render.Tree, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpOpts := app.Config.DownloaderOptions()
	httpOpts.Logger, httpOpts.Metrics = app.Logger, app.Metrics
	sessionOpts := app.Config.SessionOptions()
	sessionOpts.Logger = app.Logger

	queue := images.NewQueueDispatcher(len(msg.ImageComponents()))
	defer queue.Close()
	session := images.NewSession(images.NewHTTPDownloader(httpOpts), queue, sessionOpts)
	defer session.Close()

	var fatal error
	session.Load(ctx, msg, tree, func(err error) { fatal = err })
	session.Wait()
	queue.Drain()

	if fatal != nil {
		return fmt.Errorf("message cannot be displayed: %w", fatal)
	}
	return nil
}
