package entities

// preferredContentFormats lists catalog MIME types in the order they are tried
// when picking a book's content URL.
var preferredContentFormats = []string{
	"text/plain; charset=utf-8",
	"text/plain",
	"text/html; charset=utf-8",
	"text/html",
	"application/pdf",
}

// coverFormat is the catalog MIME type under which a cover image is listed.
const coverFormat = "image/jpeg"

// SourceBook is a book as described by the external catalog.
type SourceBook struct {
	ID            int               `json:"id"`
	Title         string            `json:"title"`
	Authors       []string          `json:"authors"`
	Subjects      []string          `json:"subjects"`
	Languages     []string          `json:"languages"`
	DownloadCount int               `json:"download_count"`
	Formats       map[string]string `json:"formats"` // MIME type -> URL
}

// PreferredContentURL returns the URL of the best available text format,
// or an empty string when the catalog offers none of the known formats.
func (b SourceBook) PreferredContentURL() string {
	for _, format := range preferredContentFormats {
		if url, ok := b.Formats[format]; ok {
			return url
		}
	}
	return ""
}

// CoverURL returns the catalog cover image URL, if any.
func (b SourceBook) CoverURL() string {
	return b.Formats[coverFormat]
}
