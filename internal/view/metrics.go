package view

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Decode results recorded in Metrics.Decodes.
const (
	resultOK              = "ok"
	resultNotReady        = "not_ready"
	resultStartFailed     = "start_failed"
	resultTranscodeFailed = "transcode_failed"
	resultUnsupported     = "unsupported"
	resultUploadFailed    = "upload_failed"
)

// Metrics are the view's prometheus collectors.
type Metrics struct {
	Loads        prometheus.Counter
	FetchedBytes prometheus.Counter
	Decodes      *prometheus.CounterVec
	Textures     prometheus.Gauge
	Frames       prometheus.Counter
}

// NewMetrics creates collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Loads: factory.NewCounter(prometheus.CounterOpts{
			Name: "basisview_loads_total",
			Help: "Total number of container loads started",
		}),
		FetchedBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "basisview_fetched_bytes_total",
			Help: "Total container bytes fetched",
		}),
		Decodes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "basisview_decodes_total",
				Help: "Total number of decode and upload runs",
			},
			[]string{"format", "result"},
		),
		Textures: factory.NewGauge(prometheus.GaugeOpts{
			Name: "basisview_textures_live",
			Help: "Number of live GPU textures owned by views",
		}),
		Frames: factory.NewCounter(prometheus.CounterOpts{
			Name: "basisview_frames_total",
			Help: "Total number of frames drawn",
		}),
	}
}
