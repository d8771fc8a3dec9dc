package loki

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type MockLogger struct{}

func (m *MockLogger) Error(msg string, args ...any) {
}

func Test_ConfigValidation(t *testing.T) {
	cfg := Config{}
	_, err := New(context.Background(), cfg, &MockLogger{})
	assert.Error(t, err)

	cfg.Url = "http://localhost:3100/loki/api/v1/push"
	pusher, err := New(context.Background(), cfg, &MockLogger{})
	require.NoError(t, err)
	defer pusher.Stop()

	assert.Equal(t, cfg.Url, pusher.config.Url)
	assert.Equal(t, 1000, pusher.config.BatchMaxSize)
	assert.Equal(t, 5*time.Second, pusher.config.BatchMaxWait)
	assert.Equal(t, map[string]string{}, pusher.config.Labels)
}

func Test_Stop_FlushesPendingEntriesGroupedByLevel(t *testing.T) {
	var mu sync.Mutex
	var received []pushRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gz, err := gzip.NewReader(r.Body)
		if !assert.NoError(t, err) {
			return
		}
		var req pushRequest
		assert.NoError(t, json.NewDecoder(gz).Decode(&req))
		mu.Lock()
		received = append(received, req)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	pusher, err := New(context.Background(), Config{
		Url:          server.URL,
		BatchMaxWait: time.Hour,
		Labels:       map[string]string{"app": "job-board"},
	}, &MockLogger{})
	require.NoError(t, err)

	require.NoError(t, pusher.Push(LogEntry{Level: "error", Message: "first"}))
	require.NoError(t, pusher.Push(LogEntry{Level: "info", Message: "second"}))
	require.NoError(t, pusher.Push(LogEntry{
		Level:     "error",
		Message:   "third",
		ErrorType: "http",
		Fields:    map[string]string{"route": "/api/v1/job/:id", "status": "500"},
	}))
	pusher.Stop()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	require.Len(t, received[0].Streams, 2)

	lines := map[string]int{}
	var routed []LogEntry
	for _, s := range received[0].Streams {
		assert.Equal(t, "job-board", s.Stream["app"])
		lines[s.Stream["level"]] += len(s.Values)
		for _, value := range s.Values {
			var entry LogEntry
			require.NoError(t, json.Unmarshal([]byte(value[1]), &entry))
			if entry.Fields != nil {
				routed = append(routed, entry)
			}
		}
	}
	require.Len(t, routed, 1)
	assert.Equal(t, "/api/v1/job/:id", routed[0].Fields["route"])
	assert.Equal(t, "http", routed[0].ErrorType)
	assert.Equal(t, 2, lines["error"])
	assert.Equal(t, 1, lines["info"])

	assert.ErrorIs(t, pusher.Push(LogEntry{Level: "info"}), ErrStopped)
}
