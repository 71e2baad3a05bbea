package bridge

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/inapp/internal/logger"
	"github.com/alexisbeaulieu97/inapp/internal/message"
	"github.com/alexisbeaulieu97/inapp/internal/metrics"
)

type mockListener struct {
	mock.Mock
}

func (m *mockListener) OnDismissAction(analyticsID string) {
	m.Called(analyticsID)
}

func (m *mockListener) OnOpenDeeplinkAction(url string, openInApp *bool, analyticsID string) {
	m.Called(url, openInApp, analyticsID)
}

func (m *mockListener) OnPerformAction(name string, args map[string]any, analyticsID string) {
	m.Called(name, args, analyticsID)
}

type failingHost struct {
	StaticHost
}

func (failingHost) CustomPayload() (map[string]any, error) {
	return nil, errors.New("corrupted")
}

func newBridge(t *testing.T, listener Listener, host HostInfo) *Bridge {
	t.Helper()
	msg := message.New(message.Params{TrackingID: "campaign-1"})
	return New(msg, listener, host, Options{Logger: logger.Nop(), Metrics: metrics.New()})
}

func boolPtr(v bool) *bool { return &v }

func TestPostMessageValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		args   string
		want   string
	}{
		{"empty method", "", "{}", `{"error":"Internal SDK error (-10): Invalid method"}`},
		{"blank method", "   ", "{}", `{"error":"Internal SDK error (-10): Invalid method"}`},
		{"unknown method", "foo", "{}", `{"error":"Unimplemented native method 'foo'. Is the native SDK too old?"}`},
		{"method names are exact", "Dismiss", "{}", `{"error":"Unimplemented native method 'Dismiss'. Is the native SDK too old?"}`},
		{"unknown before arguments", "foo", "", `{"error":"Unimplemented native method 'foo'. Is the native SDK too old?"}`},
		{"empty arguments", "dismiss", "", `{"error":"Internal SDK error (-11): Invalid arguments"}`},
		{"array arguments", "dismiss", "[]", `{"error":"Internal SDK error (-12): Invalid arguments"}`},
		{"null arguments", "dismiss", "null", `{"error":"Internal SDK error (-12): Invalid arguments"}`},
		{"malformed arguments", "dismiss", "{bad", `{"error":"Internal SDK error (-12): Invalid arguments"}`},
		{"trailing arguments", "dismiss", "{} {}", `{"error":"Internal SDK error (-12): Invalid arguments"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			listener := &mockListener{}
			got := newBridge(t, listener, nil).PostMessage(tt.method, tt.args)
			require.JSONEq(t, tt.want, got)
			listener.AssertNotCalled(t, "OnDismissAction", mock.Anything)
		})
	}
}

func TestDismiss(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args string
		id   string
	}{
		{"no analytics id", `{}`, ""},
		{"string id", `{"analyticsID":"close-btn"}`, "close-btn"},
		{"numeric id", `{"analyticsID":2}`, "2"},
		{"blank id kept", `{"analyticsID":" "}`, " "},
		{"boolean id", `{"analyticsID":true}`, "true"},
		{"null id", `{"analyticsID":null}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			listener := &mockListener{}
			listener.On("OnDismissAction", tt.id).Once()

			got := newBridge(t, listener, nil).PostMessage("dismiss", tt.args)
			require.JSONEq(t, `{"result":"ok"}`, got)
			listener.AssertExpectations(t)
		})
	}
}

func TestPerformAction(t *testing.T) {
	t.Parallel()

	listener := &mockListener{}
	b := newBridge(t, listener, nil)

	require.JSONEq(t, `{"error":"Internal SDK error (-21)"}`, b.PostMessage("performAction", `{}`))
	require.JSONEq(t, `{"error":"Internal SDK error (-21)"}`, b.PostMessage("performAction", `{"name":""}`))

	listener.On("OnPerformAction", "batch.test", map[string]any{"arg1": "value"}, "").Once()
	require.JSONEq(t, `{"result":"ok"}`, b.PostMessage("performAction", `{"name":"batch.test","args":{"arg1":"value"}}`))

	listener.On("OnPerformAction", "batch.test", map[string]any{}, "7").Once()
	require.JSONEq(t, `{"result":"ok"}`, b.PostMessage("performAction", `{"name":"batch.test","args":"oops","analyticsID":7}`))

	listener.AssertExpectations(t)
}

func TestOpenDeeplink(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		args      string
		openInApp *bool
		id        string
	}{
		{"defaults", `{"url":"https://a.b"}`, (*bool)(nil), ""},
		{"in app", `{"url":"https://a.b","openInApp":true,"analyticsID":"x"}`, boolPtr(true), "x"},
		{"string flag", `{"url":"https://a.b","openInApp":"false"}`, boolPtr(false), ""},
		{"bad flag ignored", `{"url":"https://a.b","openInApp":3}`, (*bool)(nil), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			listener := &mockListener{}
			listener.On("OnOpenDeeplinkAction", "https://a.b", tt.openInApp, tt.id).Once()

			require.JSONEq(t, `{"result":"ok"}`, newBridge(t, listener, nil).PostMessage("openDeeplink", tt.args))
			listener.AssertExpectations(t)
		})
	}

	listener := &mockListener{}
	b := newBridge(t, listener, nil)
	require.JSONEq(t, `{"error":"Internal SDK error (-21)"}`, b.PostMessage("openDeeplink", `{}`))
	require.JSONEq(t, `{"error":"Internal SDK error (-21)"}`, b.PostMessage("openDeeplink", `{"url":""}`))
}

func TestGetters(t *testing.T) {
	t.Parallel()

	host := StaticHost{
		Installation: "install-1",
		Language:     "fr",
		UserID:       "user-9",
		Payload: map[string]any{
			"promo":     "spring",
			"com.batch": map[string]any{"i": "internal"},
		},
	}
	b := newBridge(t, nil, host)

	tests := []struct {
		method string
		want   string
	}{
		{"getInstallationID", `{"result":"install-1"}`},
		{"getCustomLanguage", `{"result":"fr"}`},
		{"getCustomRegion", `{"result":null}`},
		{"getCustomUserID", `{"result":"user-9"}`},
		{"getTrackingID", `{"result":"campaign-1"}`},
		{"getAttributionID", `{"error":"Advertising ID unavailable: Disabled by config"}`},
	}
	for _, tt := range tests {
		require.JSONEq(t, tt.want, b.PostMessage(tt.method, `{}`), tt.method)
	}

	var envelope struct {
		Result string `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(b.PostMessage("getCustomPayload", `{}`)), &envelope))
	require.JSONEq(t, `{"promo":"spring"}`, envelope.Result)
	require.Contains(t, host.Payload, "com.batch")
}

func TestAttributionID(t *testing.T) {
	t.Parallel()

	allowed := newBridge(t, nil, StaticHost{AttributionAllowed: true, Attribution: "ad-1"})
	require.JSONEq(t, `{"result":"ad-1"}`, allowed.PostMessage("getAttributionID", `{}`))

	var envelope struct {
		Error string `json:"error"`
	}
	missing := newBridge(t, nil, StaticHost{AttributionAllowed: true})
	require.NoError(t, json.Unmarshal([]byte(missing.PostMessage("getAttributionID", `{}`)), &envelope))
	require.Contains(t, envelope.Error, "Couldn't fetch it from the system provider")
}

func TestGettersWithoutHost(t *testing.T) {
	t.Parallel()

	b := New(nil, nil, nil, Options{})
	require.JSONEq(t, `{"result":null}`, b.PostMessage("getInstallationID", `{}`))
	require.JSONEq(t, `{"result":"{}"}`, b.PostMessage("getCustomPayload", `{}`))
	require.JSONEq(t, `{"error":"Internal SDK error (-20)"}`, b.PostMessage("getTrackingID", `{}`))
	require.JSONEq(t, `{"result":"ok"}`, b.PostMessage("dismiss", `{}`))

	untracked := New(message.New(message.Params{}), nil, nil, Options{})
	require.JSONEq(t, `{"result":null}`, untracked.PostMessage("getTrackingID", `{}`))
}

func TestCustomPayloadFailure(t *testing.T) {
	t.Parallel()

	b := newBridge(t, nil, failingHost{})
	require.JSONEq(t, `{"error":"Internal SDK error (-23)"}`, b.PostMessage("getCustomPayload", `{}`))
}

func TestPanickingListenerIsContained(t *testing.T) {
	t.Parallel()

	listener := &mockListener{}
	listener.On("OnDismissAction", "").Panic("listener exploded")

	got := newBridge(t, listener, nil).PostMessage("dismiss", `{}`)
	require.JSONEq(t, `{"error":"Internal SDK error (-3)"}`, got)
}

func TestMethods(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{
		"dismiss", "getAttributionID", "getCustomLanguage", "getCustomPayload", "getCustomRegion",
		"getCustomUserID", "getInstallationID", "getTrackingID", "openDeeplink", "performAction",
	}, Methods())
}
