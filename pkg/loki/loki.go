// Package loki batches log lines and pushes them to a Grafana Loki endpoint.
package loki

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"
)

var ErrStopped = errors.New("loki pusher is stopped")

type Logger interface {
	Error(msg string, args ...any)
}

type Config struct {

	// TenantKey and TenantValue form an optional tenant header for multi-tenant setups.
	TenantKey   string
	TenantValue string

	// Url of the push endpoint, e.g. https://example-prod.grafana.net/loki/api/v1/push
	Url string `validate:"required,url"`

	// BatchMaxSize is the maximum number of log lines sent in one request
	BatchMaxSize int `validate:"gte=1"`

	// BatchMaxWait is the maximum time a line waits before being sent
	BatchMaxWait time.Duration `validate:"gte=1"`

	// Labels are attached to every stream; the level label is added per stream
	Labels map[string]string

	// Username and Password enable basic auth when both are set
	Username string
	Password string

	// HTTPClient overrides the default client, mostly for tests
	HTTPClient *http.Client `validate:"-"`
}

func (cfg *Config) setDefaults() {
	if cfg.BatchMaxSize == 0 {
		cfg.BatchMaxSize = 1000
	}
	if cfg.BatchMaxWait == 0 {
		cfg.BatchMaxWait = 5 * time.Second
	}
	if cfg.Labels == nil {
		cfg.Labels = map[string]string{}
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
}

type LogEntry struct {
	Level     string `json:"level"`
	Message   string `json:"msg"`
	Caller    string `json:"caller,omitempty"`
	ErrorType string `json:"error_type,omitempty"`

	// Fields carries request context such as route and status.
	Fields map[string]string `json:"fields,omitempty"`
}

type Pusher struct {
	config  Config
	ctx     context.Context
	cancel  context.CancelFunc
	entries chan LogEntry
	done    chan struct{}
	once    sync.Once
	// pending lines grouped by level so each level becomes its own stream
	pending map[string][][2]string
	size    int
	logger  Logger
}

type pushRequest struct {
	Streams []stream `json:"streams"`
}

type stream struct {
	Stream map[string]string `json:"stream"`
	Values [][2]string       `json:"values"`
}

func New(ctx context.Context, cfg Config, logger Logger) (*Pusher, error) {

	cfg.setDefaults()
	if err := validator.New().Struct(cfg); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	p := &Pusher{
		config:  cfg,
		ctx:     ctx,
		cancel:  cancel,
		entries: make(chan LogEntry, cfg.BatchMaxSize),
		done:    make(chan struct{}),
		pending: map[string][][2]string{},
		logger:  logger,
	}

	go p.run()
	return p, nil
}

// Push queues an entry; it never blocks once the pusher is stopped.
func (p *Pusher) Push(e LogEntry) error {
	if p.ctx.Err() != nil {
		return ErrStopped
	}
	select {
	case <-p.ctx.Done():
		return ErrStopped
	case p.entries <- e:
		return nil
	}
}

// Stop flushes what is pending and waits for the background loop to exit.
func (p *Pusher) Stop() {
	p.once.Do(func() {
		p.cancel()
		<-p.done
	})
}

func (p *Pusher) run() {
	ticker := time.NewTicker(p.config.BatchMaxWait)
	defer ticker.Stop()
	defer close(p.done)

	for {
		select {
		case <-p.ctx.Done():
			p.drain()
			p.flush(context.Background())
			return
		case entry := <-p.entries:
			p.add(entry)
			if p.size >= p.config.BatchMaxSize {
				p.flush(p.ctx)
			}
		case <-ticker.C:
			p.flush(p.ctx)
		}
	}
}

func (p *Pusher) drain() {
	for {
		select {
		case entry := <-p.entries:
			p.add(entry)
		default:
			return
		}
	}
}

func (p *Pusher) add(entry LogEntry) {
	line, err := json.Marshal(entry)
	if err != nil {
		return
	}
	timestamp := strconv.FormatInt(time.Now().UnixNano(), 10)
	p.pending[entry.Level] = append(p.pending[entry.Level], [2]string{timestamp, string(line)})
	p.size++
}

func (p *Pusher) flush(ctx context.Context) {
	if p.size == 0 {
		return
	}
	if err := p.send(ctx, p.buildRequest()); err != nil {
		p.logger.Error("failed to send logs", "error", err)
	}
	p.pending = map[string][][2]string{}
	p.size = 0
}

func (p *Pusher) buildRequest() pushRequest {
	req := pushRequest{Streams: make([]stream, 0, len(p.pending))}
	for level, values := range p.pending {
		labels := make(map[string]string, len(p.config.Labels)+1)
		for k, v := range p.config.Labels {
			labels[k] = v
		}
		labels["level"] = level
		req.Streams = append(req.Streams, stream{Stream: labels, Values: values})
	}
	return req
}

func (p *Pusher) send(ctx context.Context, payload pushRequest) error {
	buf := &bytes.Buffer{}
	gz := gzip.NewWriter(buf)

	if err := json.NewEncoder(gz).Encode(payload); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.Url, buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "gzip")
	if p.config.TenantKey != "" {
		req.Header.Set(p.config.TenantKey, p.config.TenantValue)
	}
	if p.config.Username != "" && p.config.Password != "" {
		req.SetBasicAuth(p.config.Username, p.config.Password)
	}

	resp, err := p.config.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("received unexpected response code from Loki: %s, body: %s", resp.Status, string(body))
	}

	return nil
}
