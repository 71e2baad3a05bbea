// Package images downloads and caches the pictures of a presented message.
//
// Downloads run on a bounded worker pool. Their completions are handed to a
// Dispatcher so the cache and the views are only touched from the goroutine that
// owns the UI.
package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/alexisbeaulieu97/inapp/internal/logger"
	"github.com/alexisbeaulieu97/inapp/internal/metrics"
	inapperrors "github.com/alexisbeaulieu97/inapp/pkg/errors"
)

const (
	// DefaultTimeout bounds a single download.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxBytes caps the size of a downloaded image.
	DefaultMaxBytes = 10 << 20
	// DefaultMaxPixels caps the decoded width times height of an image.
	DefaultMaxPixels = 4096 * 4096

	tracerName = "github.com/alexisbeaulieu97/inapp/internal/images"
)

// Downloader fetches and decodes one image.
type Downloader interface {
	Download(ctx context.Context, url string) (Result, error)
}

// HTTPOptions configures an HTTPDownloader.
type HTTPOptions struct {
	Client   *http.Client
	Timeout  time.Duration
	MaxBytes  int64
	MaxPixels int64
	Logger    *logger.Logger
	Metrics   *metrics.Recorder
}

// HTTPDownloader downloads images over HTTP.
type HTTPDownloader struct {
	client    *http.Client
	timeout   time.Duration
	maxBytes  int64
	maxPixels int64
	log       *logger.Logger
	metrics   *metrics.Recorder
	tracer    trace.Tracer
}

// NewHTTPDownloader creates an HTTPDownloader, filling unset options with defaults.
func NewHTTPDownloader(opts HTTPOptions) *HTTPDownloader {
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	maxPixels := opts.MaxPixels
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &HTTPDownloader{
		client:    client,
		timeout:   timeout,
		maxBytes:  maxBytes,
		maxPixels: maxPixels,
		log:       opts.Logger,
		metrics:   opts.Metrics,
		tracer:    otel.Tracer(tracerName),
	}
}

// Download implements Downloader. Failures are *errors.DisplayError values whose cause
// tells server failures, network failures and undecodable data apart.
func (d *HTTPDownloader) Download(ctx context.Context, url string) (Result, error) {
	ctx, span := d.tracer.Start(ctx, "images.download", trace.WithAttributes(attribute.String("url.full", url)))
	defer span.End()

	d.metrics.ImageDownloadStarted()
	start := time.Now()
	result, err := d.fetch(ctx, url)
	d.metrics.ImageDownloadFinished(time.Since(start), err)

	log := d.log.WithContext(ctx).With("url", url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, inapperrors.CauseOf(err).String())
		log.Error(err, "image download failed")
		return Result{}, err
	}

	span.SetAttributes(
		attribute.Int("image.width", result.Width),
		attribute.Int("image.height", result.Height),
		attribute.Bool("image.animated", result.Animated),
	)
	log.WithFields(map[string]any{
		"bytes":    len(result.Data),
		"animated": result.Animated,
		"elapsed":  time.Since(start).String(),
	}).Debug("image downloaded")
	return result, nil
}

func (d *HTTPDownloader) fetch(ctx context.Context, url string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, inapperrors.NewDisplayError(inapperrors.CauseClientNetwork, "", fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "image/*")

	resp, err := d.client.Do(req)
	if err != nil {
		return Result{}, inapperrors.NewDisplayError(inapperrors.CauseClientNetwork, "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, inapperrors.NewDisplayError(
			inapperrors.CauseServerFailure, "",
			fmt.Errorf("unexpected status %d", resp.StatusCode),
		)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, d.maxBytes+1))
	if err != nil {
		return Result{}, inapperrors.NewDisplayError(inapperrors.CauseClientNetwork, "", fmt.Errorf("read body: %w", err))
	}
	if int64(len(data)) > d.maxBytes {
		return Result{}, inapperrors.NewDisplayError(
			inapperrors.CauseInvalidImage, "",
			fmt.Errorf("image larger than %d bytes", d.maxBytes),
		)
	}

	return DecodeLimited(url, resp.Header.Get("Content-Type"), data, d.maxPixels)
}

// Decode builds a Result from raw image bytes within DefaultMaxPixels.
func Decode(url, contentType string, data []byte) (Result, error) {
	return DecodeLimited(url, contentType, data, DefaultMaxPixels)
}

// DecodeLimited builds a Result from raw image bytes. The header is read first and
// an image whose width times height exceeds maxPixels is rejected before any pixel
// is allocated. GIF data is kept as is and flagged animated; its first frame is decoded
// for hosts that cannot animate.
func DecodeLimited(url, contentType string, data []byte, maxPixels int64) (Result, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Result{}, inapperrors.NewDisplayError(inapperrors.CauseInvalidImage, "", fmt.Errorf("decode image header: %w", err))
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); maxPixels > 0 && pixels > maxPixels {
		return Result{}, inapperrors.NewDisplayError(
			inapperrors.CauseInvalidImage, "",
			fmt.Errorf("image is %dx%d, more than %d pixels", cfg.Width, cfg.Height, maxPixels),
		)
	}

	if IsGIF(data) {
		frame, err := gif.Decode(bytes.NewReader(data))
		if err != nil {
			return Result{}, inapperrors.NewDisplayError(inapperrors.CauseInvalidImage, "", fmt.Errorf("decode gif: %w", err))
		}
		if contentType == "" {
			contentType = "image/gif"
		}
		bounds := frame.Bounds()
		return Result{
			URL:         url,
			ContentType: contentType,
			Data:        data,
			Image:       frame,
			Animated:    true,
			Width:       bounds.Dx(),
			Height:      bounds.Dy(),
		}, nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Result{}, inapperrors.NewDisplayError(inapperrors.CauseInvalidImage, "", fmt.Errorf("decode image: %w", err))
	}
	if contentType == "" {
		contentType = "image/" + format
	}
	bounds := img.Bounds()
	return Result{
		URL:         url,
		ContentType: contentType,
		Data:        data,
		Image:       img,
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
	}, nil
}
