package media

import (
	"context"
	"fmt"
	"golang.org/x/time/rate"
	"io"
	"net/http"
	"time"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher streams stored files back from the media host.
type Fetcher struct {
	httpClient  HTTPClient
	rateLimiter *rate.Limiter
	timeout     time.Duration
}

func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{httpClient: &http.Client{}, timeout: timeout}
}

func (f *Fetcher) SetHTTPClient(client HTTPClient) {
	f.httpClient = client
}

func (f *Fetcher) SetRateLimit(maxRequestsPerSecond float32) {
	f.rateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerSecond), 1)
}

// Open starts the download. The timeout covers the whole transfer, so the caller
// must close the returned body.
func (f *Fetcher) Open(ctx context.Context, url string) (io.ReadCloser, error) {

	if f.rateLimiter != nil {
		if err := f.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("error creating request: %v", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("error sending request: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer cancel()
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("request failed with status %v, body: %v", resp.StatusCode, string(body))
	}

	return &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	defer c.cancel()
	return c.ReadCloser.Close()
}
