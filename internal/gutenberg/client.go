// Package gutenberg is a client for the Gutendex catalog API and the
// Project Gutenberg content it links to.
package gutenberg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/avast/retry-go/v4"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"

	"github.com/mrlokans/printingpress/internal/entities"
)

const (
	DefaultBaseURL   = "https://gutendex.com"
	DefaultUserAgent = "PrintingPress/1.0 (https://github.com/mrlokans/printingpress)"

	defaultTimeout    = 30 * time.Second
	defaultAttempts   = 3
	defaultRetryDelay = 500 * time.Millisecond

	// defaultMaxBodySize bounds a single downloaded resource.
	defaultMaxBodySize = 64 << 20
)

var (
	ErrNotFound     = errors.New("not found in catalog")
	ErrNoContent    = errors.New("no usable content available")
	ErrBodyTooLarge = errors.New("response body too large")
)

// Config configures a Client. Zero values fall back to defaults.
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64 // <= 0 disables rate limiting
	Attempts          uint
	RetryDelay        time.Duration
	UserAgent         string
	MaxBodySize       int64
}

// SearchPage is one page of catalog search results.
type SearchPage struct {
	Books    []entities.SourceBook `json:"books"`
	Count    int                   `json:"count"`
	Next     string                `json:"next,omitempty"`
	Previous string                `json:"previous,omitempty"`
}

// Content is a downloaded book body and the URL it was finally served from,
// used as the base for relative links and images.
type Content struct {
	Text        string
	SourceURL   string
	ContentType string
}

// Client talks to the catalog. Requests share one rate limiter; transient
// failures (network errors, 429 and 5xx responses) are retried.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	attempts   uint
	retryDelay time.Duration
	userAgent  string
	maxBody    int64
}

// NewClient creates a catalog client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = defaultAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = defaultMaxBodySize
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		limiter:    rate.NewLimiter(limit, 1),
		attempts:   cfg.Attempts,
		retryDelay: cfg.RetryDelay,
		userAgent:  cfg.UserAgent,
		maxBody:    cfg.MaxBodySize,
	}
}

// SearchBooks searches titles, authors and subjects. Page numbers start at 1.
func (c *Client) SearchBooks(ctx context.Context, query string, page int, languages []string) (*SearchPage, error) {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("search", query)
	params.Set("page", strconv.Itoa(page))
	if len(languages) > 0 {
		params.Set("languages", strings.Join(languages, ","))
	}

	resp, err := c.get(ctx, c.baseURL+"/books/?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}

	var raw gutendexPage
	if err := json.Unmarshal(resp.body, &raw); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	result := &SearchPage{
		Books: make([]entities.SourceBook, 0, len(raw.Results)),
		Count: raw.Count,
	}
	for _, item := range raw.Results {
		result.Books = append(result.Books, item.toSourceBook())
	}
	if raw.Next != nil {
		result.Next = *raw.Next
	}
	if raw.Previous != nil {
		result.Previous = *raw.Previous
	}
	return result, nil
}

// GetBook fetches one book's catalog record. ErrNotFound is returned for
// unknown IDs.
func (c *Client) GetBook(ctx context.Context, id int) (*entities.SourceBook, error) {
	resp, err := c.get(ctx, fmt.Sprintf("%s/books/%d/", c.baseURL, id))
	if err != nil {
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}

	var item gutendexBook
	if err := json.Unmarshal(resp.body, &item); err != nil {
		return nil, fmt.Errorf("decode book %d: %w", id, err)
	}

	book := item.toSourceBook()
	return &book, nil
}

// FetchContent downloads the book body from its preferred format URL,
// following redirects, and decodes it to UTF-8 using the declared charset.
// PDF bodies and books without a usable format yield ErrNoContent.
func (c *Client) FetchContent(ctx context.Context, book entities.SourceBook) (*Content, error) {
	contentURL := book.PreferredContentURL()
	if contentURL == "" {
		return nil, ErrNoContent
	}

	resp, err := c.get(ctx, contentURL)
	if err != nil {
		return nil, fmt.Errorf("fetch content: %w", err)
	}
	if strings.Contains(strings.ToLower(resp.contentType), "application/pdf") {
		return nil, fmt.Errorf("%w: pdf content is not supported", ErrNoContent)
	}

	text, err := decodeText(resp.body, resp.contentType)
	if err != nil {
		return nil, fmt.Errorf("fetch content: %w", err)
	}

	return &Content{
		Text:        text,
		SourceURL:   resp.finalURL,
		ContentType: resp.contentType,
	}, nil
}

// FetchBinary downloads a resource and returns its bytes and the reported
// content type, which may be empty.
func (c *Client) FetchBinary(ctx context.Context, resourceURL string) ([]byte, string, error) {
	resp, err := c.get(ctx, resourceURL)
	if err != nil {
		return nil, "", fmt.Errorf("fetch binary: %w", err)
	}
	return resp.body, resp.contentType, nil
}

// decodeText converts a text body to UTF-8. A declared charset wins; an
// undeclared body that is not valid UTF-8 is sniffed, falling back to
// windows-1252.
func decodeText(body []byte, contentType string) (string, error) {
	label := ""
	if _, params, err := mime.ParseMediaType(contentType); err == nil {
		label = params["charset"]
	}
	if label != "" {
		if enc, _ := charset.Lookup(label); enc == nil {
			label = ""
		}
	}

	var (
		reader io.Reader
		err    error
	)
	switch {
	case label != "":
		reader, err = charset.NewReaderLabel(label, bytes.NewReader(body))
	case utf8.Valid(body):
		return string(body), nil
	default:
		reader, err = charset.NewReader(bytes.NewReader(body), contentType)
	}
	if err != nil {
		return "", fmt.Errorf("decode body: %w", err)
	}

	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("decode body: %w", err)
	}
	return string(decoded), nil
}

type response struct {
	body        []byte
	contentType string
	finalURL    string
}

func (c *Client) get(ctx context.Context, rawURL string) (*response, error) {
	var result *response
	err := retry.Do(
		func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(err)
			}
			resp, err := c.fetch(ctx, rawURL)
			if err != nil {
				return err
			}
			result = resp
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.retryDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// fetch performs a single request. Errors that retrying cannot fix are
// marked unrecoverable.
func (c *Client) fetch(ctx context.Context, rawURL string) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, retry.Unrecoverable(ctx.Err())
		}
		return nil, fmt.Errorf("request %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, retry.Unrecoverable(fmt.Errorf("%w: %s", ErrNotFound, rawURL))
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, retry.Unrecoverable(fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, retry.Unrecoverable(fmt.Errorf("%w: %s exceeds %d bytes", ErrBodyTooLarge, rawURL, c.maxBody))
	}

	return &response{
		body:        body,
		contentType: resp.Header.Get("Content-Type"),
		finalURL:    resp.Request.URL.String(),
	}, nil
}

// Gutendex response structures

type gutendexPage struct {
	Count    int            `json:"count"`
	Next     *string        `json:"next"`
	Previous *string        `json:"previous"`
	Results  []gutendexBook `json:"results"`
}

type gutendexBook struct {
	ID            int               `json:"id"`
	Title         *string           `json:"title"`
	Authors       []gutendexPerson  `json:"authors"`
	Subjects      []string          `json:"subjects"`
	Languages     []string          `json:"languages"`
	DownloadCount int               `json:"download_count"`
	Formats       map[string]string `json:"formats"`
}

type gutendexPerson struct {
	Name      *string `json:"name"`
	BirthYear *int    `json:"birth_year"`
	DeathYear *int    `json:"death_year"`
}

func (b gutendexBook) toSourceBook() entities.SourceBook {
	title := "Unknown Title"
	if b.Title != nil {
		title = *b.Title
	}

	authors := make([]string, 0, len(b.Authors))
	for _, a := range b.Authors {
		name := "Unknown"
		if a.Name != nil {
			name = *a.Name
		}
		authors = append(authors, name)
	}

	subjects := b.Subjects
	if subjects == nil {
		subjects = []string{}
	}
	languages := b.Languages
	if languages == nil {
		languages = []string{}
	}
	formats := b.Formats
	if formats == nil {
		formats = map[string]string{}
	}

	return entities.SourceBook{
		ID:            b.ID,
		Title:         title,
		Authors:       authors,
		Subjects:      subjects,
		Languages:     languages,
		DownloadCount: b.DownloadCount,
		Formats:       formats,
	}
}
