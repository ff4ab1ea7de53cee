package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeOK         = "ok"
	OutcomeError      = "error"
	OutcomeSuperseded = "superseded"
	OutcomeBusy       = "busy"
)

// Metrics contains the Prometheus metrics for the transcoders
type Metrics struct {
	// Selection
	AssetsSelected *prometheus.CounterVec
	AssetsRejected prometheus.Counter

	// Transcodes
	Transcodes        *prometheus.CounterVec
	TranscodeDuration *prometheus.HistogramVec
	InputBytes        *prometheus.HistogramVec
	OutputBytes       *prometheus.HistogramVec
	InFlight          *prometheus.GaugeVec

	// Image
	JPEGQuality   prometheus.Histogram
	CeilingMissed prometheus.Counter

	// Audio
	EncoderSubmissions prometheus.Histogram

	// HTTP API
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		AssetsSelected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "media_assets_selected_total",
			Help: "Total number of assets accepted for processing",
		}, []string{"kind"}),
		AssetsRejected: f.NewCounter(prometheus.CounterOpts{
			Name: "media_assets_rejected_total",
			Help: "Total number of assets rejected as unsupported",
		}),

		Transcodes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "media_transcodes_total",
			Help: "Total number of transcode runs by kind and outcome",
		}, []string{"kind", "outcome"}),
		TranscodeDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "media_transcode_duration_seconds",
			Help:    "Time spent in a transcode run",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		}, []string{"kind"}),
		InputBytes: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "media_input_size_bytes",
			Help:    "Size of transcoded inputs in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10), // 1KB to ~256MB
		}, []string{"kind"}),
		OutputBytes: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "media_output_size_bytes",
			Help:    "Size of transcoded outputs in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
		}, []string{"kind"}),
		InFlight: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "media_transcodes_in_flight",
			Help: "Transcode runs currently executing",
		}, []string{"kind"}),

		JPEGQuality: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "media_image_jpeg_quality",
			Help:    "JPEG quality chosen by the byte ceiling search",
			Buckets: prometheus.LinearBuckets(30, 10, 7), // 30 to 90
		}),
		CeilingMissed: f.NewCounter(prometheus.CounterOpts{
			Name: "media_image_ceiling_missed_total",
			Help: "Images that stayed above the byte ceiling at the lowest quality",
		}),

		EncoderSubmissions: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "media_audio_encoder_submissions",
			Help:    "Sample blocks submitted to the MP3 encoder per run",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "media_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "media_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// ObserveTranscode records a finished run.
func (m *Metrics) ObserveTranscode(kind, outcome string, started time.Time, inBytes, outBytes int) {
	m.Transcodes.WithLabelValues(kind, outcome).Inc()
	if outcome == OutcomeBusy {
		return
	}
	m.TranscodeDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
	m.InputBytes.WithLabelValues(kind).Observe(float64(inBytes))
	if outcome == OutcomeOK {
		m.OutputBytes.WithLabelValues(kind).Observe(float64(outBytes))
	}
}
