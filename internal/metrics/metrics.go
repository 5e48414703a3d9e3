// Package metrics holds the Prometheus collectors of the todo service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todoapp_requests_total",
			Help: "Total number of todo API operations",
		},
		[]string{"operation", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "todoapp_request_duration_seconds",
			Help:    "Duration of todo API operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	todosCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "todoapp_todos_created_total",
			Help: "Total number of todos created",
		},
	)

	titleLength = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "todoapp_todo_title_length_bytes",
			Help:    "Length distribution of created todo titles",
			Buckets: []float64{10, 50, 100, 255},
		},
	)
)

// Observe records one finished operation. status is "success" or "error".
func Observe(operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	requestCount.WithLabelValues(operation, status).Inc()
	requestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func TodoCreated(title string) {
	todosCreated.Inc()
	titleLength.Observe(float64(len(title)))
}

func Handler() http.Handler {
	return promhttp.Handler()
}
