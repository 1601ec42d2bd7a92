package entities

import "time"

// LibraryEntry is a fully converted book available for reading.
type LibraryEntry struct {
	ID           int       `json:"id"` // catalog ID
	Title        string    `json:"title"`
	Authors      []string  `json:"authors"`
	Subjects     []string  `json:"subjects"`
	Languages    []string  `json:"languages"`
	MarkdownPath string    `json:"markdown_path"` // relative to the books directory
	AddedAt      time.Time `json:"added_at"`
	WordCount    int       `json:"word_count"`
	CharCount    int       `json:"char_count"`
	CoverURL     string    `json:"cover_url,omitempty"`
}

// Bookmark stores the reading position within a book's markdown content.
type Bookmark struct {
	BookID       int       `json:"book_id"`
	TextPosition int       `json:"text_position"` // character offset into the content
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Label        string    `json:"label,omitempty"`
}

// SearchResult is a library entry with its combined and per-signal scores.
type SearchResult struct {
	Entry          LibraryEntry `json:"entry"`
	Score          float64      `json:"score"`
	SemanticScore  float64      `json:"semantic_score"`
	SubstringScore float64      `json:"substring_score"`
	PatternScore   float64      `json:"pattern_score"`
}
