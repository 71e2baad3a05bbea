package main

import (
	"bytes"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func pngServer(t *testing.T) *httptest.Server {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 4, 2))))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/hero.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(buf.Bytes())
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRenderCommand_DownloadsImages(t *testing.T) {
	t.Parallel()

	server := pngServer(t)
	payload := writePayload(t, modalPayload, server.URL+"/hero.png")

	stdout, err := executeCommand(t, "render", "--width", "40", "--height", "30", payload)
	require.NoError(t, err)

	require.Contains(t, stdout, "Spring sale")
	require.Contains(t, stdout, "image 4×2")
	require.Contains(t, stdout, "Shop")
	require.Contains(t, stdout, "Later")
	require.Contains(t, stdout, "✕")

	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	require.Len(t, lines, 30)
}

func TestRenderCommand_SkipsImages(t *testing.T) {
	t.Parallel()

	stdout, err := executeCommand(t, "render", "--width", "40", "--height", "30", "--no-images", writePayload(t, modalPayload, ""))
	require.NoError(t, err)
	require.Contains(t, stdout, "▢ image")
}

func TestRenderCommand_FailedImage(t *testing.T) {
	t.Parallel()

	server := pngServer(t)

	t.Run("decorative image", func(t *testing.T) {
		t.Parallel()
		payload := writePayload(t, modalPayload, server.URL+"/missing.png")
		stdout, err := executeCommand(t, "render", "--width", "40", "--height", "30", payload)
		require.NoError(t, err)
		require.Contains(t, stdout, "✗ image unavailable")
	})

	t.Run("sole image", func(t *testing.T) {
		t.Parallel()
		payload := writeFile(t, "payload.json", `{
  "format": "modal",
  "root": {"children": [{"type": "image", "id": "img", "height": "64px"}]},
  "urls": {"img": "`+server.URL+`/missing.png"}
}`)
		_, err := executeCommand(t, "render", "--width", "40", "--height", "30", payload)
		require.Error(t, err)
		require.Contains(t, err.Error(), "message cannot be displayed")
	})
}

func TestTerminalSizeFallsBackWithoutTerminal(t *testing.T) {
	t.Parallel()

	cols, rows, tty := terminalSize(&bytes.Buffer{})
	require.False(t, tty)
	require.Equal(t, defaultCols, cols)
	require.Equal(t, defaultRows, rows)
}
