// Package covers downloads book cover images and stores them resized as JPEG.
package covers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/lepinkainen/lumina/internal/book"
	"github.com/lepinkainen/lumina/internal/fileutil"
)

const (
	defaultMaxWidth          = 400
	defaultTimeout           = 30 * time.Second
	defaultRequestsPerSecond = 5
	defaultWorkers           = 4
	jpegQuality              = 85
)

// ErrNoCover is returned for a book without a cover URL.
var ErrNoCover = errors.New("book has no cover URL")

// HTTPDoer is the subset of *http.Client the downloader needs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Downloader saves covers into one directory.
type Downloader struct {
	client    HTTPDoer
	limiter   *rate.Limiter
	dir       string
	maxWidth  int
	overwrite bool
}

// Option is a functional option for configuring the Downloader.
type Option func(*Downloader)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client HTTPDoer) Option {
	return func(d *Downloader) {
		if client != nil {
			d.client = client
		}
	}
}

// WithMaxWidth sets the width images are shrunk to. Smaller images are kept as is.
func WithMaxWidth(width int) Option {
	return func(d *Downloader) {
		if width > 0 {
			d.maxWidth = width
		}
	}
}

// WithOverwrite re-downloads covers that already exist on disk.
func WithOverwrite(overwrite bool) Option {
	return func(d *Downloader) {
		d.overwrite = overwrite
	}
}

// WithRateLimit caps cover requests per second. Zero or less disables the limit.
func WithRateLimit(requestsPerSecond int) Option {
	return func(d *Downloader) {
		if requestsPerSecond <= 0 {
			d.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		d.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// NewDownloader creates a Downloader writing into dir.
func NewDownloader(dir string, opts ...Option) *Downloader {
	d := &Downloader{
		client:   &http.Client{Timeout: defaultTimeout},
		limiter:  rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), defaultRequestsPerSecond),
		dir:      dir,
		maxWidth: defaultMaxWidth,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Result describes one cover on disk.
type Result struct {
	BookID     string
	LocalPath  string
	Downloaded bool
}

// Filename is the cover file name for a book. The ID is part of the name
// because titles are not unique across custom and curated books.
func Filename(title, id string) string {
	if strings.TrimSpace(id) == "" {
		return fileutil.SanitizeFilename(title) + " - cover.jpg"
	}
	return fileutil.SanitizeFilename(title) + " - " + fileutil.SanitizeFilename(id) + " - cover.jpg"
}

// Download fetches the cover of b unless it is already on disk.
func (d *Downloader) Download(ctx context.Context, b book.Book) (Result, error) {
	if b.CoverURL == "" {
		return Result{BookID: b.ID}, ErrNoCover
	}

	result := Result{
		BookID:    b.ID,
		LocalPath: filepath.Join(d.dir, Filename(b.Title, b.ID)),
	}

	if fileutil.FileExists(result.LocalPath) && !d.overwrite {
		slog.Debug("Cover already exists, skipping download", "path", result.LocalPath)
		return result, nil
	}

	if err := d.limiter.Wait(ctx); err != nil {
		return result, fmt.Errorf("rate limit wait for %s: %w", b.ID, err)
	}

	if err := d.downloadAndResize(ctx, b.CoverURL, result.LocalPath); err != nil {
		return result, fmt.Errorf("cover for %s: %w", b.ID, err)
	}

	slog.Info("Downloaded cover", "id", b.ID, "path", result.LocalPath)
	result.Downloaded = true
	return result, nil
}

// DownloadAll fetches every cover with a few parallel workers, continuing
// past failures. Books without a cover URL are skipped. Results keep the
// order of books and the returned error joins every failure.
func (d *Downloader) DownloadAll(ctx context.Context, books []book.Book) ([]Result, error) {
	slots := make([]*Result, len(books))
	failures := make([]error, len(books))

	var g errgroup.Group
	g.SetLimit(defaultWorkers)
	for i, b := range books {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				failures[i] = err
				return nil
			}

			result, err := d.Download(ctx, b)
			switch {
			case errors.Is(err, ErrNoCover):
			case err != nil:
				slog.Warn("Cover download failed", "id", b.ID, "error", err)
				failures[i] = err
			default:
				slots[i] = &result
			}
			return nil
		})
	}
	_ = g.Wait()

	results := make([]Result, 0, len(books))
	for _, r := range slots {
		if r != nil {
			results = append(results, *r)
		}
	}
	return results, errors.Join(failures...)
}

func (d *Downloader) downloadAndResize(ctx context.Context, imageURL, savePath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d downloading %s", resp.StatusCode, imageURL)
	}

	img, err := imaging.Decode(resp.Body, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	if img.Bounds().Dx() > d.maxWidth {
		img = imaging.Resize(img, d.maxWidth, 0, imaging.Lanczos)
	}

	if err := os.MkdirAll(filepath.Dir(savePath), 0o755); err != nil {
		return err
	}
	return imaging.Save(img, savePath, imaging.JPEGQuality(jpegQuality))
}
