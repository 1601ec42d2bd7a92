package converter

import (
	"context"
	"encoding/base64"
	"log"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

var (
	markdownImage = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)
	htmlImageSrc  = regexp.MustCompile(`(?i)(<img[^>]*src=["'])([^"']+)(["'])`)
)

// EmbedImages replaces image references with base64 data URLs. Relative
// references are resolved against baseURL before fetching. Images that fail
// to download keep their original URL; only context cancellation is
// returned as an error.
func (c *Converter) EmbedImages(ctx context.Context, markdown, baseURL string) (string, error) {
	if baseURL == "" || c.fetcher == nil {
		return markdown, nil
	}

	refs := collectImageRefs(markdown)
	if len(refs) == 0 {
		return markdown, nil
	}

	var (
		mu           sync.Mutex
		replacements = make(map[string]string, len(refs))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for _, ref := range refs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			absolute := resolveURL(baseURL, ref)
			data, contentType, err := c.fetcher.FetchBinary(gctx, absolute)
			if err != nil || len(data) == 0 {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				if err != nil {
					log.Printf("Warning: could not fetch image %s: %v", absolute, err)
				}
				return nil
			}
			if contentType == "" {
				contentType = guessContentType(absolute)
			}

			mu.Lock()
			replacements[ref] = "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return markdown, err
	}

	lookup := func(ref string) string {
		if replacement, ok := replacements[ref]; ok {
			return replacement
		}
		return ref
	}

	markdown = replaceAllSubmatchFunc(markdownImage, markdown, func(groups []string) string {
		return "![" + groups[1] + "](" + lookup(strings.TrimSpace(groups[2])) + ")"
	})
	markdown = replaceAllSubmatchFunc(htmlImageSrc, markdown, func(groups []string) string {
		return groups[1] + lookup(groups[2]) + groups[3]
	})

	return markdown, nil
}

// collectImageRefs returns the unique, non-data image URLs in markdown,
// from both ![alt](url) syntax and leftover <img src="..."> tags.
func collectImageRefs(markdown string) []string {
	seen := make(map[string]struct{})
	add := func(ref string) {
		ref = strings.TrimSpace(ref)
		if ref == "" || strings.HasPrefix(strings.ToLower(ref), "data:") {
			return
		}
		seen[ref] = struct{}{}
	}

	for _, m := range markdownImage.FindAllStringSubmatch(markdown, -1) {
		add(m[2])
	}
	for _, m := range htmlImageSrc.FindAllStringSubmatch(markdown, -1) {
		add(m[2])
	}

	refs := make([]string, 0, len(seen))
	for ref := range seen {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}

// resolveURL resolves ref against base, returning ref unchanged when either
// fails to parse.
func resolveURL(base, ref string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}

func guessContentType(resource string) string {
	lower := strings.ToLower(resource)
	switch {
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".jpg"), strings.HasSuffix(lower, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(lower, ".gif"):
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}
