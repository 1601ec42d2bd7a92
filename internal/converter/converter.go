// Package converter turns raw catalog content (plain text or HTML) into
// normalized Markdown.
//
// Conversion runs in four stages: Convert, EmbedImages, AbsolutizeLinks and
// ApplyFixes. All stages except EmbedImages are pure string transforms.
// The HTML path is a fixed sequence of pattern rewrites rather than a DOM
// parse, so anchor extraction and empty-heading rules follow the rewrite
// order exactly.
package converter

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrlokans/printingpress/internal/entities"
)

// htmlSniffLength is how many characters are searched for an <html tag.
const htmlSniffLength = 1000

// DefaultImageConcurrency is the number of image fetches run in parallel.
const DefaultImageConcurrency = 4

// ImageFetcher downloads binary resources referenced from the content.
type ImageFetcher interface {
	FetchBinary(ctx context.Context, url string) ([]byte, string, error)
}

// Converter runs the conversion stages for a single book.
type Converter struct {
	fetcher     ImageFetcher
	concurrency int
}

// New creates a Converter. A nil fetcher disables image embedding.
func New(fetcher ImageFetcher, concurrency int) *Converter {
	if concurrency <= 0 {
		concurrency = DefaultImageConcurrency
	}
	return &Converter{
		fetcher:     fetcher,
		concurrency: concurrency,
	}
}

// Convert converts raw content to Markdown and prepends the metadata header.
func (c *Converter) Convert(raw string, book entities.SourceBook) string {
	var body string
	if IsHTML(raw) {
		body = htmlToMarkdown(raw)
	} else {
		body = textToMarkdown(raw)
	}
	return metadataHeader(book) + body
}

// IsHTML reports whether content should be treated as HTML: it starts with
// a doctype declaration or has an <html tag near the beginning.
func IsHTML(content string) bool {
	trimmed := strings.TrimSpace(content)
	if len(trimmed) >= 9 && strings.EqualFold(trimmed[:9], "<!DOCTYPE") {
		return true
	}
	return strings.Contains(strings.ToLower(prefixRunes(content, htmlSniffLength)), "<html")
}

func metadataHeader(book entities.SourceBook) string {
	authors := "Unknown"
	if len(book.Authors) > 0 {
		authors = strings.Join(book.Authors, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", book.Title)
	fmt.Fprintf(&b, "**Author(s):** %s  \n", authors)
	fmt.Fprintf(&b, "**Gutenberg ID:** %d  \n", book.ID)
	fmt.Fprintf(&b, "**Languages:** %s  \n\n", strings.Join(book.Languages, ", "))
	b.WriteString("---\n\n")
	return b.String()
}

// prefixRunes returns at most n leading characters of s.
func prefixRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
