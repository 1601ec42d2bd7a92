package converter

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	ruleRun         = regexp.MustCompile(`[-_=]{3,}`)
	excessNewlines  = regexp.MustCompile(`\n{3,}`)
	splitBold       = regexp.MustCompile(`\*\*\s*\n+\s*([^*\n]+)\*\*`)
	splitItalic     = regexp.MustCompile(`\*\s*\n+\s*([^*\n]+)\*`)
	orphanBold      = regexp.MustCompile(`(?m)^\*\*\s*$`)
	orphanItalic    = regexp.MustCompile(`(?m)^\*\s*$`)
	headingNoBreak  = regexp.MustCompile(`(?m)(^#{1,6} .+)\n([^\n])`)
	typographyFixes = strings.NewReplacer(
		// OCR ligatures
		"ﬁ", "fi",
		"ﬂ", "fl",
		"ﬀ", "ff",
		"ﬃ", "ffi",
		"ﬄ", "ffl",
		// Curly quotes
		"“", `"`,
		"”", `"`,
		"‘", "'",
		"’", "'",
		// Dashes
		"—", "---",
		"–", "--",
	)
)

// ApplyFixes runs the cleanup passes over converted Markdown. Running it
// on output that has no remaining defects leaves that output unchanged.
func (c *Converter) ApplyFixes(markdown string) string {
	return ApplyFixes(markdown)
}

// ApplyFixes is the stateless form of Converter.ApplyFixes.
func ApplyFixes(markdown string) string {
	// Page-break rules
	markdown = ruleRun.ReplaceAllString(markdown, "")
	markdown = excessNewlines.ReplaceAllString(markdown, "\n\n")

	// Emphasis markers separated from their text by a line break
	markdown = splitBold.ReplaceAllString(markdown, "**${1}**")
	markdown = splitItalic.ReplaceAllString(markdown, "*${1}*")
	markdown = orphanBold.ReplaceAllString(markdown, "")
	markdown = orphanItalic.ReplaceAllString(markdown, "")

	markdown = headingNoBreak.ReplaceAllString(markdown, "${1}\n\n${2}")

	markdown = typographyFixes.Replace(markdown)

	lines := strings.Split(markdown, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
