package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const modalPayload = `{
  "format": "modal",
  "trackingId": "campaign-7",
  "root": {
    "children": [
      {"type": "text", "id": "title", "color": ["#111111FF"]},
      {"type": "image", "id": "hero", "height": "64px"},
      {"type": "columns", "ratios": [50, 50], "children": [
        {"type": "button", "id": "yes"},
        {"type": "button", "id": "no"}
      ]}
    ]
  },
  "texts": {"title": "Spring sale", "yes": "Shop", "no": "Later"},
  "urls": {"hero": "IMAGE_URL"},
  "actions": {"yes": {"action": "batch.deeplink", "params": {"l": "app://shop"}}},
  "closeOptions": {"button": {"color": ["#000000FF"]}, "auto": {"delay": 5, "color": ["#FF0000FF"]}}
}`

const webPayload = `{
  "format": "webview",
  "trackingId": "web-1",
  "root": {"children": [{"type": "webview", "id": "web"}]},
  "urls": {"web": "https://example.com/landing"}
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writePayload(t *testing.T, payload, imageURL string) string {
	t.Helper()
	if imageURL == "" {
		imageURL = "https://cdn.example.com/hero.png"
	}
	return writeFile(t, "payload.json", strings.ReplaceAll(payload, "IMAGE_URL", imageURL))
}

// executeCommand runs the root command and returns what it wrote to stdout.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	stdout := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), err
}
