package observability

import (
	"sync"

	"github.com/danmuck/wirehdr/internal/protocol"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	frameDecodes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wirehdr",
			Subsystem: "frame",
			Name:      "decode_total",
			Help:      "Frames read, by resulting status.",
		},
		[]string{"status"},
	)
	frameEncodes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wirehdr",
			Subsystem: "frame",
			Name:      "encode_total",
			Help:      "Frames written, by resulting status.",
		},
		[]string{"status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(frameDecodes, frameEncodes)
	})
}

func RecordFrameDecode(status protocol.Status) {
	RegisterMetrics()
	frameDecodes.WithLabelValues(status.String()).Inc()
}

func RecordFrameEncode(status protocol.Status) {
	RegisterMetrics()
	frameEncodes.WithLabelValues(status.String()).Inc()
}
