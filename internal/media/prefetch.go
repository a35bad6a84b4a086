// Package media warms story media into a local disk cache so opening the
// next story does not wait on the network. Strictly best effort: a failed
// download is logged and the story plays from its remote URL.
package media

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"glimpse/internal/logging"
)

// maxConcurrentDownloads limits parallel media fetches.
const maxConcurrentDownloads = 3

// downloadTimeout bounds each individual download.
const downloadTimeout = 20 * time.Second

// Prefetcher downloads media files into a cache directory.
type Prefetcher struct {
	dir    string
	client *http.Client
}

// NewPrefetcher creates a prefetcher writing into dir, which is created if
// missing.
func NewPrefetcher(dir string) (*Prefetcher, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create media cache dir: %w", err)
	}
	return &Prefetcher{
		dir:    dir,
		client: &http.Client{Timeout: downloadTimeout},
	}, nil
}

// Warm downloads the given URLs that are not already cached. Returns the
// number fetched; individual failures are logged, never returned.
func (p *Prefetcher) Warm(ctx context.Context, urls []string) int {
	var g errgroup.Group
	g.SetLimit(maxConcurrentDownloads)

	var fetched int64
	results := make([]bool, len(urls))
	for i, u := range urls {
		if u == "" {
			continue
		}
		if _, ok := p.Path(u); ok {
			continue
		}
		i, u := i, u
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if err := p.download(ctx, u); err != nil {
				logging.Debug("media prefetch failed", "url", u, "error", err)
				return nil // never fail the group
			}
			results[i] = true
			return nil
		})
	}
	_ = g.Wait()

	for _, ok := range results {
		if ok {
			fetched++
		}
	}
	return int(fetched)
}

// Path returns the cached file path for a URL if it has been downloaded.
func (p *Prefetcher) Path(url string) (string, bool) {
	path := filepath.Join(p.dir, cacheName(url))
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

func (p *Prefetcher) download(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	// Write to a temp file first so a partial download never looks cached.
	tmp, err := os.CreateTemp(p.dir, "dl-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(p.dir, cacheName(url)))
}

func cacheName(url string) string {
	h := sha256.Sum256([]byte(url))
	return hex.EncodeToString(h[:16])
}
