package covers

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/mrlokans/printingpress/internal/utils"
)

// Fetcher downloads a remote resource. The catalog client satisfies it, so
// cover downloads share its rate limit and retry policy.
type Fetcher interface {
	FetchBinary(ctx context.Context, resourceURL string) ([]byte, string, error)
}

// Cache keeps library book covers on local disk.
type Cache struct {
	cacheDir string
	fetcher  Fetcher
	group    singleflight.Group
}

// NewCache creates a cover cache rooted at cacheDir.
func NewCache(cacheDir string, fetcher Fetcher) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	return &Cache{
		cacheDir: cacheDir,
		fetcher:  fetcher,
	}, nil
}

// GetCover returns the path of the cached cover for a book, downloading it
// on first use. Returns an empty path when the book has no cover URL.
func (c *Cache) GetCover(ctx context.Context, bookID int, coverURL string) (string, error) {
	if coverURL == "" {
		return "", nil
	}

	cachePath := filepath.Join(c.cacheDir, c.coverFilename(bookID, coverURL))
	if _, err := os.Stat(cachePath); err == nil {
		return cachePath, nil
	}

	// Concurrent requests for the same cover share one download.
	_, err, _ := c.group.Do(cachePath, func() (interface{}, error) {
		if _, err := os.Stat(cachePath); err == nil {
			return nil, nil
		}
		return nil, c.fetchAndCache(ctx, coverURL, cachePath)
	})
	if err != nil {
		return "", err
	}

	return cachePath, nil
}

// InvalidateCover removes every cached cover for a book.
func (c *Cache) InvalidateCover(bookID int) error {
	pattern := filepath.Join(c.cacheDir, "cover_"+strconv.Itoa(bookID)+"_*")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return err
	}

	for _, match := range matches {
		if err := os.Remove(match); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return nil
}

// coverFilename keys a cover by book ID and URL hash, so a changed URL
// never serves a stale image.
func (c *Cache) coverFilename(bookID int, coverURL string) string {
	hash := sha256.Sum256([]byte(coverURL))
	return fmt.Sprintf("cover_%d_%x.jpg", bookID, hash[:8])
}

func (c *Cache) fetchAndCache(ctx context.Context, coverURL, cachePath string) error {
	data, _, err := c.fetcher.FetchBinary(ctx, coverURL)
	if err != nil {
		return fmt.Errorf("fetch cover: %w", err)
	}
	if len(data) == 0 {
		return fmt.Errorf("fetch cover: empty response from %s", coverURL)
	}

	return utils.WriteFileAtomic(cachePath, data, 0644)
}

// CacheDir returns the cache directory path.
func (c *Cache) CacheDir() string {
	return c.cacheDir
}
