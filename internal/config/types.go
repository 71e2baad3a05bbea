package config

import (
	"maps"
	"time"

	"github.com/alexisbeaulieu97/inapp/internal/bridge"
	"github.com/alexisbeaulieu97/inapp/internal/images"
	"github.com/alexisbeaulieu97/inapp/internal/logger"
	"github.com/alexisbeaulieu97/inapp/internal/parser"
	"github.com/alexisbeaulieu97/inapp/internal/render"
	"github.com/alexisbeaulieu97/inapp/internal/style"
)

// Config represents the host environment a message is parsed and presented in.
type Config struct {
	Messaging MessagingConfig `yaml:"messaging"`
	Display   DisplayConfig   `yaml:"display"`
	Images    ImagesConfig    `yaml:"images"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Host      HostConfig      `yaml:"host"`
}

// MessagingConfig holds payload compatibility settings.
type MessagingConfig struct {
	APILevel int `yaml:"api_level" validate:"min=1,max=1000"`
}

// DisplayConfig describes the surface messages are rendered on.
type DisplayConfig struct {
	Appearance string         `yaml:"appearance" validate:"appearance"`
	Density    float64        `yaml:"density" validate:"gt=0,lte=8"`
	Viewport   ViewportConfig `yaml:"viewport"`
	Typefaces  TypefaceConfig `yaml:"typefaces,omitempty"`
}

// ViewportConfig is the drawable area in logical pixels.
type ViewportConfig struct {
	Width  float64 `yaml:"width" validate:"gt=0"`
	Height float64 `yaml:"height" validate:"gt=0"`
}

// TypefaceConfig names the host font families.
type TypefaceConfig struct {
	Regular string `yaml:"regular,omitempty"`
	Bold    string `yaml:"bold,omitempty"`
}

// ImagesConfig tunes the image download pipeline.
type ImagesConfig struct {
	Workers   int           `yaml:"workers" validate:"min=1,max=32"`
	Timeout   time.Duration `yaml:"timeout" validate:"gt=0"`
	MaxBytes  int64         `yaml:"max_bytes,omitempty" validate:"gte=0"`
	MaxPixels int64         `yaml:"max_pixels,omitempty" validate:"gte=0"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level         string `yaml:"level" validate:"loglevel"`
	HumanReadable bool   `yaml:"human_readable,omitempty"`
}

// MetricsConfig controls the Prometheus endpoint. An empty address disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr,omitempty" validate:"omitempty,hostname_port"`
}

// HostConfig provides the values web content can read through the bridge.
type HostConfig struct {
	InstallationID     string         `yaml:"installation_id,omitempty"`
	Language           string         `yaml:"language,omitempty" validate:"omitempty,bcp47_language_tag"`
	Region             string         `yaml:"region,omitempty" validate:"omitempty,iso3166_1_alpha2"`
	UserID             string         `yaml:"user_id,omitempty"`
	AttributionAllowed bool           `yaml:"attribution_allowed,omitempty"`
	AttributionID      string         `yaml:"attribution_id,omitempty"`
	CustomPayload      map[string]any `yaml:"custom_payload,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Messaging: MessagingConfig{APILevel: parser.DefaultMessagingAPILevel},
		Display: DisplayConfig{
			Appearance: style.AppearanceLight.String(),
			Density:    1,
			Viewport:   ViewportConfig{Width: 360, Height: 640},
		},
		Images: ImagesConfig{
			Workers:   images.DefaultWorkers,
			Timeout:   images.DefaultTimeout,
			MaxBytes:  images.DefaultMaxBytes,
			MaxPixels: images.DefaultMaxPixels,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Appearance returns the parsed display appearance, light when unset.
func (c *Config) Appearance() style.Appearance {
	appearance, err := style.ParseAppearance(c.Display.Appearance)
	if err != nil {
		return style.AppearanceLight
	}
	return appearance
}

// RenderContext builds the style inputs of a render call.
func (c *Config) RenderContext() render.Context {
	return render.Context{
		Appearance: c.Appearance(),
		Density:    c.Display.Density,
		Viewport:   render.Viewport{Width: c.Display.Viewport.Width, Height: c.Display.Viewport.Height},
		Typefaces:  render.Typefaces{Regular: c.Display.Typefaces.Regular, Bold: c.Display.Typefaces.Bold},
	}
}

// LoggerOptions maps the logging section onto logger options.
func (c *Config) LoggerOptions() logger.Options {
	return logger.Options{Level: c.Logging.Level, HumanReadable: c.Logging.HumanReadable}
}

// HostInfo returns the bridge getters backed by the host section.
func (c *Config) HostInfo() bridge.StaticHost {
	return bridge.StaticHost{
		Installation:       c.Host.InstallationID,
		Language:           c.Host.Language,
		Region:             c.Host.Region,
		UserID:             c.Host.UserID,
		AttributionAllowed: c.Host.AttributionAllowed,
		Attribution:        c.Host.AttributionID,
		Payload:            maps.Clone(c.Host.CustomPayload),
	}
}

// DownloaderOptions maps the images section onto the HTTP downloader.
func (c *Config) DownloaderOptions() images.HTTPOptions {
	return images.HTTPOptions{
		Timeout:   c.Images.Timeout,
		MaxBytes:  c.Images.MaxBytes,
		MaxPixels: c.Images.MaxPixels,
	}
}

// SessionOptions maps the images section onto an image session.
func (c *Config) SessionOptions() images.Options {
	return images.Options{Workers: c.Images.Workers}
}
