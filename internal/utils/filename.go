package utils

import (
	"fmt"
	"regexp"
)

var (
	// Anything but letters, digits, underscores, whitespace and hyphens
	nonTitleChars = regexp.MustCompile(`[^\p{L}\p{N}\p{Mn}_\s\p{Zs}-]`)
	// Whitespace runs become a single underscore
	whitespaceRuns = regexp.MustCompile(`[\s\p{Zs}]+`)
)

// MaxTitleLength is the number of title characters kept in a book filename.
const MaxTitleLength = 50

// SanitizeTitle reduces a book title to a filesystem-safe fragment:
// punctuation is dropped, whitespace runs become underscores and the result
// is cut to MaxTitleLength characters.
func SanitizeTitle(title string) string {
	title = nonTitleChars.ReplaceAllString(title, "")
	title = whitespaceRuns.ReplaceAllString(title, "_")

	runes := []rune(title)
	if len(runes) > MaxTitleLength {
		title = string(runes[:MaxTitleLength])
	}
	return title
}

// BookFilename returns the markdown filename for a converted book,
// formatted as "{id}_{sanitizedTitle}.md".
func BookFilename(id int, title string) string {
	return fmt.Sprintf("%d_%s.md", id, SanitizeTitle(title))
}
