package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"sync"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_errors_total",
			Help: "Total number of logged errors and typed warnings.",
		},
		[]string{"type", "level"},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobboard_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	AuthAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_auth_attempts_total",
			Help: "Total number of login attempts by outcome.",
		},
		[]string{"outcome"},
	)
	ApplicationTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_application_transitions_total",
			Help: "Total number of application status changes by target status.",
		},
		[]string{"status"},
	)
	SweptApplications = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobboard_orphan_applications_swept_total",
			Help: "Total number of applications removed because their posting no longer exists.",
		},
	)
	UploadDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "jobboard_media_upload_duration_seconds",
			Help:       "Duration of uploads to the media store.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"folder"},
	)
)

var registerOnce sync.Once

func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ErrorsCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(AuthAttempts)
		prometheus.MustRegister(ApplicationTransitions)
		prometheus.MustRegister(SweptApplications)
		prometheus.MustRegister(UploadDuration)
	})
}

// Handler registers the collectors and returns the scrape handler.
func Handler() http.Handler {
	Register()
	return promhttp.Handler()
}
