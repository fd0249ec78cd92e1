package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Runs       *prometheus.CounterVec
	DurationMS prometheus.Histogram
	Items      *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checkout_bot",
		Name:      "runs_total",
		Help:      "Total number of checkout runs.",
	}, []string{"status"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "checkout_bot",
		Name:      "run_duration_ms",
		Help:      "Checkout run duration in milliseconds.",
		Buckets:   []float64{1000, 5000, 10000, 30000, 60000, 120000, 300000},
	})
	items := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checkout_bot",
		Name:      "items_total",
		Help:      "Product lines processed, by add-to-cart outcome.",
	}, []string{"added"})

	reg.MustRegister(runs, duration, items)

	return &Metrics{Runs: runs, DurationMS: duration, Items: items}
}

func metricsHandler() http.Handler {
	return promhttp.Handler()
}
