package logger

import (
	"github.com/maxaizer/job-board/internal/metrics"
	log "github.com/sirupsen/logrus"
)

// prometheusHook counts every error entry, and warnings only when they carry an error type
// (throttled logins, skipped admin seed).
type prometheusHook struct{}

func (h *prometheusHook) Fire(entry *log.Entry) error {
	errorType, typed := entry.Data[ErrorTypeField].(string)

	if entry.Level == log.WarnLevel && !typed {
		return nil
	}
	if !typed {
		errorType = "unknown"
	}

	metrics.ErrorsCounter.WithLabelValues(errorType, entry.Level.String()).Inc()
	return nil
}

func (h *prometheusHook) Levels() []log.Level {
	return []log.Level{log.PanicLevel, log.FatalLevel, log.ErrorLevel, log.WarnLevel}
}

func addPrometheusHook() {
	metrics.Register()
	log.AddHook(&prometheusHook{})
}
