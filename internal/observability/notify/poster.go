package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout = 5 * time.Second
	retryStep      = 200 * time.Millisecond
	maxErrorBody   = 4 << 10
)

// Poster sends JSON documents to a webhook-style endpoint, retrying any
// transport error or non-2xx answer with a linear backoff.
type Poster struct {
	// Name prefixes errors, e.g. "slack webhook".
	Name       string
	URL        string
	RetryLimit int
	Client     *http.Client
}

// NewPoster fills a default client bounded by timeout.
func NewPoster(name, url string, timeout time.Duration, retryLimit int, client *http.Client) *Poster {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Poster{Name: name, URL: url, RetryLimit: max(retryLimit, 0), Client: client}
}

// PostJSON encodes doc once and posts it up to RetryLimit+1 times.
// The last attempt's error is returned; context cancellation ends retries early.
func (p *Poster) PostJSON(ctx context.Context, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", p.Name, err)
	}

	for attempt := 0; ; attempt++ {
		err = p.post(ctx, body)
		if err == nil || attempt >= p.RetryLimit {
			return err
		}

		timer := time.NewTimer(time.Duration(attempt+1) * retryStep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (p *Poster) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", p.Name, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", p.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	detail, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if readErr != nil {
		return fmt.Errorf("%s %s: read body: %w", p.Name, resp.Status, readErr)
	}
	return fmt.Errorf("%s %s: %s", p.Name, resp.Status, strings.TrimSpace(string(detail)))
}

// Fallback returns value unless it is blank.
func Fallback(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
