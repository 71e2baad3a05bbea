package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "inapp"

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Recorder owns the message pipeline's collectors. A nil *Recorder records nothing.
type Recorder struct {
	registry *prometheus.Registry

	payloadsParsed   *prometheus.CounterVec
	imageDownloads   *prometheus.CounterVec
	imageDuration    prometheus.Histogram
	imagesInFlight   prometheus.Gauge
	dismissals       *prometheus.CounterVec
	bridgeCalls      *prometheus.CounterVec
	presentationTime prometheus.Histogram
}

// New registers every collector on a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		payloadsParsed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payloads_parsed_total",
			Help:      "Total number of message payloads parsed",
		}, []string{"format", "outcome"}),
		imageDownloads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_downloads_total",
			Help:      "Total number of image downloads by outcome",
		}, []string{"outcome"}),
		imageDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "image_download_duration_seconds",
			Help:      "Duration of image downloads in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		imagesInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "image_downloads_in_flight",
			Help:      "Number of image downloads currently running",
		}),
		dismissals: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dismissals_total",
			Help:      "Total number of dismissed messages by reason",
		}, []string{"reason"}),
		bridgeCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bridge_calls_total",
			Help:      "Total number of web bridge calls by method and outcome",
		}, []string{"method", "outcome"}),
		presentationTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "presentation_duration_seconds",
			Help:      "Time between presentation and dismissal in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
	}
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}

// PayloadParsed counts a parse attempt. format is empty when it could not be decoded.
func (r *Recorder) PayloadParsed(format string, err error) {
	if r == nil {
		return
	}
	if format == "" {
		format = "unknown"
	}
	r.payloadsParsed.WithLabelValues(format, outcome(err)).Inc()
}

// ImageDownloadStarted tracks a download entering the worker pool.
func (r *Recorder) ImageDownloadStarted() {
	if r == nil {
		return
	}
	r.imagesInFlight.Inc()
}

// ImageDownloadFinished records a completed download.
func (r *Recorder) ImageDownloadFinished(elapsed time.Duration, err error) {
	if r == nil {
		return
	}
	r.imagesInFlight.Dec()
	r.imageDownloads.WithLabelValues(outcome(err)).Inc()
	r.imageDuration.Observe(elapsed.Seconds())
}

// Dismissed records the terminal transition of a presentation.
func (r *Recorder) Dismissed(reason string, shown time.Duration) {
	if r == nil {
		return
	}
	r.dismissals.WithLabelValues(reason).Inc()
	if shown > 0 {
		r.presentationTime.Observe(shown.Seconds())
	}
}

// BridgeCall records one web bridge dispatch.
func (r *Recorder) BridgeCall(method string, err error) {
	if r == nil {
		return
	}
	r.bridgeCalls.WithLabelValues(method, outcome(err)).Inc()
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the recorder's metrics in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
