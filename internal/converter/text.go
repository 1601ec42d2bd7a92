package converter

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var chapterHeading = regexp.MustCompile(`^(?i:CHAPTER|BOOK|PART|SECTION)\s+[IVXLCDM0-9]+`)

// Catalog boilerplate markers that wrap the actual book text.
var boilerplateMarkers = []string{
	"*** START OF",
	"*** END OF",
	"***START OF",
	"***END OF",
}

// textToMarkdown converts plain text: blank lines separate paragraphs,
// chapter-like lines become level-2 headings and short all-caps lines become
// level-3 headings.
func textToMarkdown(text string) string {
	var (
		result    []string
		paragraph []string
	)

	flush := func() {
		if len(paragraph) > 0 {
			result = append(result, strings.Join(paragraph, " "), "")
			paragraph = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if isBoilerplate(line) {
			continue
		}

		stripped := strings.TrimSpace(line)
		switch {
		case stripped == "":
			flush()
		case chapterHeading.MatchString(stripped):
			flush()
			result = append(result, "## "+stripped, "")
		case isAllCapsHeading(stripped):
			flush()
			result = append(result, "### "+titleCase(stripped), "")
		default:
			paragraph = append(paragraph, stripped)
		}
	}

	// Trailing paragraph gets no separator line.
	if len(paragraph) > 0 {
		result = append(result, strings.Join(paragraph, " "))
	}

	return strings.Join(result, "\n")
}

func isBoilerplate(line string) bool {
	for _, marker := range boilerplateMarkers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

func isAllCapsHeading(line string) bool {
	n := utf8.RuneCountInString(line)
	return n > 2 && n < 100 && isUpper(line)
}

// isUpper reports whether s has at least one cased letter and no lowercase
// ones.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsLower(r) || unicode.IsTitle(r):
			return false
		case unicode.IsUpper(r):
			cased = true
		}
	}
	return cased
}

// titleCase upper-cases the first letter of every run of cased letters and
// lower-cases the rest, so "THE LAST MAN'S TALE" becomes "The Last Man'S Tale".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevCased := false
	for _, r := range s {
		cased := unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
		switch {
		case cased && prevCased:
			b.WriteRune(unicode.ToLower(r))
		case cased:
			b.WriteRune(unicode.ToTitle(r))
		default:
			b.WriteRune(r)
		}
		prevCased = cased
	}
	return b.String()
}
