package binary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ZebulonRouseFrantzich/cask/internal/config"
)

const (
	// DefaultTimeout is the default per-attempt request timeout.
	DefaultTimeout = 5 * time.Minute
	// DefaultUserAgent is the User-Agent header sent with requests.
	DefaultUserAgent = "cask"
	// maxRedirects bounds redirect chains such as GitHub release assets.
	maxRedirects = 10
)

// errUnexpectedStatus marks a non-200 response inside the retry loop.
var errUnexpectedStatus = errors.New("unexpected status")

// Downloader fetches artifacts over HTTP.
type Downloader struct {
	client    *http.Client
	userAgent string
	retries   int
	backoff   time.Duration
	logger    config.Logger
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithRetries sets how many extra attempts follow a failed download.
func WithRetries(n int) DownloaderOption {
	return func(d *Downloader) { d.retries = n }
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(timeout time.Duration) DownloaderOption {
	return func(d *Downloader) { d.client.Timeout = timeout }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) DownloaderOption {
	return func(d *Downloader) { d.userAgent = ua }
}

// WithBackoff sets the delay before the first retry. It doubles per retry.
func WithBackoff(base time.Duration) DownloaderOption {
	return func(d *Downloader) { d.backoff = base }
}

// WithLogger sets the logger used for retry messages.
func WithLogger(l config.Logger) DownloaderOption {
	return func(d *Downloader) { d.logger = l }
}

// NewDownloader creates a downloader. Without options it makes one attempt
// per download.
func NewDownloader(opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		client: &http.Client{
			Timeout: DefaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent: DefaultUserAgent,
		backoff:   time.Second,
		logger:    config.NopLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DownloadToFile writes the body of url to destPath, creating parent
// directories. The file is written in place, so a failed transfer can leave
// a partial file behind. Non-200 responses fail with a *TransferError.
func (d *Downloader) DownloadToFile(ctx context.Context, url, destPath string) error {
	var lastErr error
	var status int

	attempts := 0
	for attempt := 0; attempt <= d.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if attempt > 0 {
			wait := d.backoff << uint(attempt-1)
			d.logger.Warn("retrying download", "url", url, "attempt", attempt+1, "wait", wait, "error", lastErr)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		attempts++
		status, lastErr = d.downloadOnce(ctx, url, destPath)
		if lastErr == nil {
			return nil
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
		var pathErr *os.PathError
		if errors.As(lastErr, &pathErr) {
			// Local filesystem problems do not improve with retries.
			return lastErr
		}
		if errors.Is(lastErr, errUnexpectedStatus) && !retryableStatus(status) {
			break
		}
	}

	if errors.Is(lastErr, errUnexpectedStatus) {
		lastErr = nil
	}
	return &TransferError{URL: url, StatusCode: status, Attempts: attempts, Err: lastErr}
}

// retryableStatus reports whether a failed response may succeed on a later
// attempt. Client errors are final except timeouts and rate limiting.
func retryableStatus(code int) bool {
	if code == http.StatusRequestTimeout || code == http.StatusTooManyRequests {
		return true
	}
	return code < 400 || code >= 500
}

// downloadOnce performs a single attempt. The status is non-zero only for
// non-200 responses.
func (d *Downloader) downloadOnce(ctx context.Context, url, destPath string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, errUnexpectedStatus
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return 0, err
	}

	out, err := os.Create(destPath)
	if err != nil {
		return 0, err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return 0, fmt.Errorf("copy response body: %w", err)
	}
	if err := out.Close(); err != nil {
		return 0, err
	}

	return 0, nil
}
