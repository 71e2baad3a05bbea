package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/inapp/internal/images"
	"github.com/alexisbeaulieu97/inapp/internal/style"
	inapperrors "github.com/alexisbeaulieu97/inapp/pkg/errors"
)

func TestGetValidator(t *testing.T) {
	t.Parallel()

	require.Same(t, GetValidator(), GetValidator())
}

func TestCustomRules(t *testing.T) {
	t.Parallel()

	v := GetValidator()
	tests := []struct {
		tag      string
		value    string
		expected bool
	}{
		{"appearance", "", true},
		{"appearance", "light", true},
		{"appearance", "DARK", true},
		{"appearance", "sepia", false},
		{"loglevel", "", true},
		{"loglevel", "debug", true},
		{"loglevel", "WARN", true},
		{"loglevel", "loud", false},
	}

	for _, tt := range tests {
		t.Run(tt.tag+"/"+tt.value, func(t *testing.T) {
			t.Parallel()
			err := v.Var(tt.value, tt.tag)
			assert.Equal(t, tt.expected, err == nil, "%s %q", tt.tag, tt.value)
		})
	}
}

func TestValidateCrossFieldRules(t *testing.T) {
	t.Parallel()

	require.Error(t, Validate(nil))
	require.NoError(t, Validate(Default()))

	boldOnly := Default()
	boldOnly.Display.Typefaces.Bold = "Inter Bold"
	var validationErr *inapperrors.ValidationError
	require.ErrorAs(t, Validate(boldOnly), &validationErr)
	require.Equal(t, "display.typefaces.regular", validationErr.Field)

	hiddenAttribution := Default()
	hiddenAttribution.Host.AttributionID = "ad-1"
	require.ErrorAs(t, Validate(hiddenAttribution), &validationErr)
	require.Equal(t, "host.attribution_id", validationErr.Field)

	tooManyWorkers := Default()
	tooManyWorkers.Images.Workers = 64
	require.ErrorAs(t, Validate(tooManyWorkers), &validationErr)
	require.Equal(t, "images.workers", validationErr.Field)

	negativePixels := Default()
	negativePixels.Images.MaxPixels = -1
	require.ErrorAs(t, Validate(negativePixels), &validationErr)
	require.Equal(t, "images.max_pixels", validationErr.Field)
}

func TestConversions(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Display.Appearance = "dark"
	cfg.Display.Density = 2
	cfg.Display.Typefaces = TypefaceConfig{Regular: "Inter", Bold: "Inter Bold"}
	cfg.Logging = LoggingConfig{Level: "debug", HumanReadable: true}
	cfg.Host = HostConfig{
		InstallationID: "install-1",
		Language:       "fr",
		CustomPayload:  map[string]any{"promo": "spring"},
	}

	rc := cfg.RenderContext()
	require.Equal(t, style.AppearanceDark, rc.Appearance)
	require.InDelta(t, 2.0, rc.Density, 1e-9)
	require.InDelta(t, 360.0, rc.Viewport.Width, 1e-9)
	require.Equal(t, "Inter Bold", rc.Typefaces.Bold)

	opts := cfg.LoggerOptions()
	require.Equal(t, "debug", opts.Level)
	require.True(t, opts.HumanReadable)

	host := cfg.HostInfo()
	id, ok := host.InstallationID()
	require.True(t, ok)
	require.Equal(t, "install-1", id)
	_, ok = host.CustomRegion()
	require.False(t, ok)

	payload, err := host.CustomPayload()
	require.NoError(t, err)
	payload["promo"] = "changed"
	require.Equal(t, "spring", cfg.Host.CustomPayload["promo"])

	require.Equal(t, cfg.Images.Timeout, cfg.DownloaderOptions().Timeout)
	require.Equal(t, int64(images.DefaultMaxPixels), cfg.DownloaderOptions().MaxPixels)
	require.Equal(t, 4, cfg.SessionOptions().Workers)
}
