package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	started  *prometheus.CounterVec
	messages *prometheus.CounterVec
	aborted  *prometheus.CounterVec
	active   prometheus.Gauge
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "streamd",
			Name:      "streams_started_total",
			Help:      "Streams started, by stream name.",
		}, []string{"stream"}),
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "streamd",
			Name:      "messages_written_total",
			Help:      "Messages written, by stream name and message type.",
		}, []string{"stream", "type"}),
		aborted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "streamd",
			Name:      "streams_aborted_total",
			Help:      "Streams which ended before their last message.",
		}, []string{"stream"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "streamd",
			Name:      "streams_active",
			Help:      "Streams currently being written.",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "streamd",
			Name:      "stream_duration_seconds",
			Help:      "Time from first to last byte of a stream.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"stream"}),
	}
	reg.MustRegister(m.started, m.messages, m.aborted, m.active, m.duration)
	return m
}
