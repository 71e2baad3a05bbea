package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecorderCountsOutcomes(t *testing.T) {
	t.Parallel()

	rec := New()
	rec.PayloadParsed("modal", nil)
	rec.PayloadParsed("modal", nil)
	rec.PayloadParsed("", errors.New("boom"))

	require.Equal(t, 2.0, testutil.ToFloat64(rec.payloadsParsed.WithLabelValues("modal", OutcomeOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(rec.payloadsParsed.WithLabelValues("unknown", OutcomeError)))

	rec.ImageDownloadStarted()
	rec.ImageDownloadStarted()
	require.Equal(t, 2.0, testutil.ToFloat64(rec.imagesInFlight))
	rec.ImageDownloadFinished(20*time.Millisecond, nil)
	rec.ImageDownloadFinished(20*time.Millisecond, errors.New("404"))
	require.Equal(t, 0.0, testutil.ToFloat64(rec.imagesInFlight))
	require.Equal(t, 1.0, testutil.ToFloat64(rec.imageDownloads.WithLabelValues(OutcomeError)))

	rec.Dismissed("closed", time.Second)
	rec.BridgeCall("dismiss", nil)
	require.Equal(t, 1.0, testutil.ToFloat64(rec.dismissals.WithLabelValues("closed")))
	require.Equal(t, 1.0, testutil.ToFloat64(rec.bridgeCalls.WithLabelValues("dismiss", OutcomeOK)))
}

func TestRecorderHandlerExposesMetrics(t *testing.T) {
	t.Parallel()

	rec := New()
	rec.BridgeCall("performAction", errors.New("missing name"))

	server := httptest.NewServer(rec.Handler())
	defer server.Close()

	resp, err := server.Client().Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `inapp_bridge_calls_total{method="performAction",outcome="error"} 1`)
}

func TestNilRecorderIsSafe(t *testing.T) {
	t.Parallel()

	var rec *Recorder
	require.NotPanics(t, func() {
		rec.PayloadParsed("modal", nil)
		rec.ImageDownloadStarted()
		rec.ImageDownloadFinished(time.Second, nil)
		rec.Dismissed("closed", time.Second)
		rec.BridgeCall("dismiss", nil)
	})
	require.Nil(t, rec.Registry())

	w := httptest.NewRecorder()
	rec.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 404, w.Code)
}
