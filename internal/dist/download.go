package dist

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/rs/zerolog"
)

// Downloader performs single-attempt HTTP fetches. The retry policy
// lives in Manager so that a retry restarts the whole download-verify
// cycle rather than one request.
type Downloader struct {
	client    *http.Client
	userAgent string
	log       zerolog.Logger
}

// NewDownloader creates a new downloader.
func NewDownloader(log zerolog.Logger) *Downloader {
	return &Downloader{
		client: &http.Client{
			Timeout: DefaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// GitHub release downloads bounce through a CDN.
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent: DefaultUserAgent,
		log:       log,
	}
}

// statusError reports an HTTP failure status. Client errors are
// permanent; everything else is worth retrying.
type statusError struct {
	code int
	url  string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d fetching %s", e.code, e.url)
}

func (e *statusError) permanent() bool {
	return e.code >= 400 && e.code < 500
}

func (e *statusError) notFound() bool {
	return e.code == http.StatusNotFound
}

// Fetch downloads a URL into destPath. destPath is expected to be a
// private staging file owned by the caller; Fetch truncates it and
// never touches any shared path.
func (d *Downloader) Fetch(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	d.log.Debug().Str("url", url).Msg("fetching")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &statusError{code: resp.StatusCode, url: url}
	}

	out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open staging file: %w", err)
	}

	n, err := io.Copy(out, resp.Body)
	if err != nil {
		out.Close()
		return fmt.Errorf("copy response body: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close staging file: %w", err)
	}

	d.log.Debug().Str("url", url).Int64("bytes", n).Msg("fetched")
	return nil
}
