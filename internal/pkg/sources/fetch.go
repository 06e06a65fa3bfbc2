package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ougirez/rdatlas/internal/pkg/logger"
)

type FetcherOpts struct {
	Retries       uint64
	RetryInterval time.Duration
	Timeout       time.Duration
	Client        *http.Client
}

// Fetcher reads datasets from http(s) URLs or local paths. HTTP requests are
// retried on transport errors and 5xx answers.
type Fetcher struct {
	client   *http.Client
	retries  uint64
	interval time.Duration
	timeout  time.Duration
}

var _ PartFetcher = (*Fetcher)(nil)

func NewFetcher(opts FetcherOpts) *Fetcher {
	f := &Fetcher{
		client:   opts.Client,
		retries:  opts.Retries,
		interval: opts.RetryInterval,
		timeout:  opts.Timeout,
	}
	if f.client == nil {
		f.client = http.DefaultClient
	}
	if f.interval <= 0 {
		f.interval = 500 * time.Millisecond
	}
	return f
}

func (f *Fetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	if isRemote(location) {
		return f.fetchHTTP(ctx, location)
	}

	data, err := os.ReadFile(strings.TrimPrefix(location, "file://"))
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}
	return data, nil
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func (f *Fetcher) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	var body []byte
	attempt := 0
	err := backoff.Retry(
		func() error {
			attempt++
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return backoff.Permanent(fmt.Errorf("http.NewRequestWithContext: %w", err))
			}

			resp, err := f.client.Do(req)
			if err != nil {
				logger.Debugf(ctx, "fetch %s, attempt %d: %s", url, attempt, err.Error())
				return fmt.Errorf("client.Do: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				statusErr := fmt.Errorf("status code error: %d %s", resp.StatusCode, resp.Status)
				if resp.StatusCode < http.StatusInternalServerError && resp.StatusCode != http.StatusTooManyRequests {
					return backoff.Permanent(statusErr)
				}
				logger.Debugf(ctx, "fetch %s, attempt %d: %s", url, attempt, statusErr.Error())
				return statusErr
			}

			body, err = io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("io.ReadAll: %w", err)
			}
			return nil
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(f.interval), f.retries),
			ctx,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	return body, nil
}
