package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBridgeCommand(t *testing.T) {
	t.Parallel()

	hostConfig := `host:
  installation_id: install-1
  language: fr
  region: FR
  custom_payload:
    plan: gold
    com.batch:
      internal: true
`

	tests := []struct {
		name  string
		args  []string
		lines []string
	}{
		{
			name:  "tracking id",
			args:  []string{"getTrackingID"},
			lines: []string{`{"result":"web-1"}`},
		},
		{
			name:  "host getter",
			args:  []string{"getInstallationID"},
			lines: []string{`{"result":"install-1"}`},
		},
		{
			name:  "missing host value",
			args:  []string{"getCustomUserID"},
			lines: []string{`{"result":null}`},
		},
		{
			name:  "custom payload",
			args:  []string{"getCustomPayload"},
			lines: []string{`{"result":"{\"plan\":\"gold\"}"}`},
		},
		{
			name: "dismiss",
			args: []string{"dismiss", `{"analyticsID": "close-cta"}`},
			lines: []string{
				"dismissed: web_action",
				"action: batch.dismiss map[]",
				`analytics: web click batch.dismiss id="close-cta"`,
				`{"result":"ok"}`,
			},
		},
		{
			name: "open deeplink",
			args: []string{"openDeeplink", `{"url": "https://example.com/shop?batchAnalyticsID=shop"}`},
			lines: []string{
				"dismissed: web_action",
				"action: batch.deeplink map[l:https://example.com/shop?batchAnalyticsID=shop li:true]",
				`analytics: web click batch.deeplink id="shop"`,
				`{"result":"ok"}`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := writeFile(t, "config.yaml", hostConfig)
			args := append([]string{"--config", cfg, "bridge", writePayload(t, webPayload, "")}, tt.args...)

			stdout, err := executeCommand(t, args...)
			require.NoError(t, err)
			require.Equal(t, tt.lines, strings.Split(strings.TrimSuffix(stdout, "\n"), "\n"))
		})
	}
}

func TestBridgeCommand_ErrorEnvelope(t *testing.T) {
	t.Parallel()

	stdout, err := executeCommand(t, "bridge", writePayload(t, webPayload, ""), "launchRockets")
	require.NoError(t, err)
	require.Contains(t, stdout, `"error"`)
	require.Contains(t, stdout, "Unimplemented native method 'launchRockets'")
}

func TestBridgeCommand_RequiresMethod(t *testing.T) {
	t.Parallel()

	_, err := executeCommand(t, "bridge", writePayload(t, webPayload, ""))
	require.Error(t, err)
}
