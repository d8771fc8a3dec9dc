package logger

import (
	"github.com/maxaizer/job-board/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"testing"
)

func Test_PrometheusHook_CountsErrorsAndTypedWarnings(t *testing.T) {
	hook := &prometheusHook{}
	counter := func(errorType, level string) float64 {
		return testutil.ToFloat64(metrics.ErrorsCounter.WithLabelValues(errorType, level))
	}

	dbErrors := counter(ErrorTypeDb, "error")
	unknownErrors := counter("unknown", "error")
	authWarnings := counter(ErrorTypeAuth, "warning")
	untypedWarnings := counter("unknown", "warning")

	entry := func(level log.Level, data log.Fields) *log.Entry {
		e := log.NewEntry(log.StandardLogger()).WithFields(data)
		e.Level = level
		return e
	}

	assert.NoError(t, hook.Fire(entry(log.ErrorLevel, log.Fields{ErrorTypeField: ErrorTypeDb})))
	assert.NoError(t, hook.Fire(entry(log.ErrorLevel, nil)))
	assert.NoError(t, hook.Fire(entry(log.WarnLevel, log.Fields{ErrorTypeField: ErrorTypeAuth})))
	assert.NoError(t, hook.Fire(entry(log.WarnLevel, nil)))

	assert.Equal(t, dbErrors+1, counter(ErrorTypeDb, "error"))
	assert.Equal(t, unknownErrors+1, counter("unknown", "error"))
	assert.Equal(t, authWarnings+1, counter(ErrorTypeAuth, "warning"))
	assert.Equal(t, untypedWarnings, counter("unknown", "warning"))
}
