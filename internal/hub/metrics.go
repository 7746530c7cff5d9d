package hub

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	sinkAttachTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sourced",
			Subsystem: "eventsource",
			Name:      "attach_total",
			Help:      "Sinks attached, by source.",
		},
		[]string{"source"},
	)
	sinkDetachTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sourced",
			Subsystem: "eventsource",
			Name:      "detach_total",
			Help:      "Sinks detached, by source.",
		},
		[]string{"source"},
	)
	sinkPrunedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sourced",
			Subsystem: "eventsource",
			Name:      "pruned_total",
			Help:      "Reclaimed sinks removed from the registry, by source.",
		},
		[]string{"source"},
	)
	broadcastsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sourced",
			Subsystem: "eventsource",
			Name:      "broadcasts_total",
			Help:      "Broadcasts by source and whether a sink handled the event.",
		},
		[]string{"source", "handled"},
	)
	deliveredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sourced",
			Subsystem: "eventsource",
			Name:      "delivered_total",
			Help:      "Sink invocations made by broadcasts, by source.",
		},
		[]string{"source"},
	)
	broadcastDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sourced",
			Subsystem: "eventsource",
			Name:      "broadcast_duration_seconds",
			Help:      "Broadcast latency in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
		[]string{"source"},
	)
)

func init() {
	prometheus.MustRegister(sinkAttachTotal, sinkDetachTotal, sinkPrunedTotal, broadcastsTotal, deliveredTotal, broadcastDuration)
}

// promObserver feeds eventsource activity into the package collectors.
type promObserver struct{}

func (promObserver) SinkAttached(source string) { sinkAttachTotal.WithLabelValues(source).Inc() }

func (promObserver) SinkDetached(source string) { sinkDetachTotal.WithLabelValues(source).Inc() }

func (promObserver) SinksPruned(source string, n int) {
	sinkPrunedTotal.WithLabelValues(source).Add(float64(n))
}

func (promObserver) Broadcast(source string, handled bool, delivered int, took time.Duration) {
	broadcastsTotal.WithLabelValues(source, strconv.FormatBool(handled)).Inc()
	deliveredTotal.WithLabelValues(source).Add(float64(delivered))
	broadcastDuration.WithLabelValues(source).Observe(took.Seconds())
}
