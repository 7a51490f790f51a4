// Package imagecache mirrors upstream icons into local directories. A file
// that already exists locally is never downloaded again.
package imagecache

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/hsrdle/datagen/internal/errors"
	"github.com/hsrdle/datagen/internal/httpclient"
	"github.com/hsrdle/datagen/internal/logger"
	"github.com/hsrdle/datagen/internal/observability/metrics"
)

// Outcome reports what EnsureCached did. It is informational only.
type Outcome int

const (
	// OutcomeCached means the destination already existed or another caller
	// holds the claim for it.
	OutcomeCached Outcome = iota
	// OutcomeDownloaded means the file was fetched and written.
	OutcomeDownloaded
	// OutcomeFailed means the fetch or the write failed and nothing was left behind.
	OutcomeFailed
	// OutcomeSkipped means there was no remote reference to fetch.
	OutcomeSkipped
)

// String returns the metrics label of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeCached:
		return metrics.OutcomeCached
	case OutcomeDownloaded:
		return metrics.OutcomeDownloaded
	case OutcomeFailed:
		return metrics.OutcomeFailed
	case OutcomeSkipped:
		return metrics.OutcomeSkipped
	default:
		return "unknown"
	}
}

// Fetcher downloads icons relative to a base URL. Safe for concurrent use.
type Fetcher struct {
	http    *httpclient.Client
	baseURL string
	claims  *cache.Cache
	metrics *metrics.ImageCacheMetrics
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithMetrics records outcomes and download sizes.
func WithMetrics(m *metrics.ImageCacheMetrics) Option {
	return func(f *Fetcher) { f.metrics = m }
}

// New returns a Fetcher resolving remote paths against baseURL.
func New(hc *httpclient.Client, baseURL string, opts ...Option) *Fetcher {
	f := &Fetcher{
		http:    hc,
		baseURL: strings.TrimRight(baseURL, "/"),
		// No janitor: claims live as long as the Fetcher.
		claims: cache.New(cache.NoExpiration, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// EnsureCached makes sure localPath holds the file at baseURL/remotePath.
// Failures are logged and reported through the Outcome, never returned.
func (f *Fetcher) EnsureCached(ctx context.Context, remotePath, localPath string) Outcome {
	outcome := f.ensure(ctx, remotePath, localPath)
	f.metrics.RecordOutcome(filepath.Base(filepath.Dir(localPath)), outcome.String())
	return outcome
}

func (f *Fetcher) ensure(ctx context.Context, remotePath, localPath string) Outcome {
	if remotePath == "" {
		return OutcomeSkipped
	}

	if _, err := os.Stat(localPath); err == nil {
		return OutcomeCached
	}

	// At most one in-flight or completed download per destination.
	if err := f.claims.Add(localPath, struct{}{}, cache.NoExpiration); err != nil {
		return OutcomeCached
	}

	url := f.baseURL + "/" + strings.TrimLeft(remotePath, "/")
	log := GetLogger().With(logger.String("url", url), logger.String("path", localPath))

	start := time.Now()
	written, err := f.download(ctx, url, localPath)
	if err != nil {
		// Release the claim so a later entry sharing this icon may retry.
		f.claims.Delete(localPath)
		log.Warn("failed to download image", logger.Error(err))
		return OutcomeFailed
	}

	f.metrics.ObserveDownload(written, time.Since(start).Seconds())
	log.Info("image downloaded", logger.Int64("bytes", written))
	return OutcomeDownloaded
}

// download streams url into a temporary file next to localPath and renames it
// into place once the copy completed.
func (f *Fetcher) download(ctx context.Context, url, localPath string) (int64, error) {
	resp, err := f.http.Get(ctx, url)
	if err != nil {
		return 0, errors.New(err).
			Component("imagecache").
			Category(errors.CategoryNetwork).
			NetworkContext(url, 0).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	if !httpclient.IsSuccess(resp.StatusCode) {
		return 0, errors.Newf("image request returned status %d", resp.StatusCode).
			Component("imagecache").
			Category(errors.CategoryImageFetch).
			Context("status_code", resp.StatusCode).
			Context("remote_path", url).
			Build()
	}

	dir, base := filepath.Split(localPath)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return 0, errors.New(err).
			Component("imagecache").
			Category(errors.CategoryImageCache).
			Context("operation", "create_temp").
			Build()
	}
	tmpName := tmp.Name()

	written, copyErr := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = os.Remove(tmpName)
		return 0, errors.New(copyErr).
			Component("imagecache").
			Category(errors.CategoryImageFetch).
			Context("operation", "stream_body").
			Context("bytes_written", written).
			Build()
	}

	if err := os.Rename(tmpName, localPath); err != nil {
		_ = os.Remove(tmpName)
		return 0, errors.New(err).
			Component("imagecache").
			Category(errors.CategoryImageCache).
			Context("operation", "rename").
			Build()
	}

	return written, nil
}
