package judge

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// AcceptHTML is sent on requests against HTML pages; the judge sites serve
// bot-unfriendly defaults without it.
const AcceptHTML = "text/html,application/xhtml+xml"

// Fetcher performs GET requests against judge sites with a fixed User-Agent
// and a per-request timeout. It never retries; retry policy belongs to the
// caller.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

func NewFetcher(client *http.Client, userAgent string) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &Fetcher{client: client, userAgent: userAgent}
}

// Get fetches url and returns the response body. Non-2xx statuses and
// timeouts are returned as errors tagged with the underlying cause.
func (f *Fetcher) Get(ctx context.Context, url string, timeout time.Duration, accept string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", url, err)
	}
	return body, nil
}
