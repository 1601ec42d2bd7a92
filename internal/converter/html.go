package converter

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

var (
	doctypeTag   = regexp.MustCompile(`(?i)<!DOCTYPE[^>]*>`)
	htmlOpenTag  = regexp.MustCompile(`(?i)<html[^>]*>`)
	htmlCloseTag = regexp.MustCompile(`(?i)</html>`)
	headBlock    = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	bodyOpenTag  = regexp.MustCompile(`(?i)<body[^>]*>`)
	bodyCloseTag = regexp.MustCompile(`(?i)</body>`)

	headingIDAttr   = regexp.MustCompile(`(?i)id=["']([^"']+)["']`)
	headingAnchorID = regexp.MustCompile(`(?i)<a[^>]*id=["']([^"']+)["'][^>]*>`)

	paragraphTag = regexp.MustCompile(`(?is)<p\b[^>]*>(.*?)</p>`)
	lineBreakTag = regexp.MustCompile(`(?i)<br\s*/?>`)

	boldOpenTag   = regexp.MustCompile(`(?i)<(b|strong)\b[^>]*>`)
	italicOpenTag = regexp.MustCompile(`(?i)<(i|em)\b[^>]*>`)
	closingTags   = map[string]*regexp.Regexp{
		"b":      regexp.MustCompile(`(?i)</b>`),
		"strong": regexp.MustCompile(`(?i)</strong>`),
		"i":      regexp.MustCompile(`(?i)</i>`),
		"em":     regexp.MustCompile(`(?i)</em>`),
	}

	linkTag       = regexp.MustCompile(`(?is)<a\b[^>]*href=["']([^"']*)["'][^>]*>(.*?)</a>`)
	imageAltTag   = regexp.MustCompile(`(?i)<img[^>]*src=["']([^"']*)["'][^>]*alt=["']([^"']*)["'][^>]*/?>`)
	imageTag      = regexp.MustCompile(`(?i)<img[^>]*src=["']([^"']*)["'][^>]*/?>`)
	emptyAnchor   = regexp.MustCompile(`(?i)<a\b[^>]*(?:name|id)=["']([^"']+)["'][^>]*>(?:\s|<!--[^>]*-->)*</a>`)
	textAnchor    = regexp.MustCompile(`(?i)<a\b[^>]*(?:name|id)=["']([^"']+)["'][^>]*>([^<]+)</a>`)
	anyTag        = regexp.MustCompile(`<[^>]+>`)
	blankLineRuns = regexp.MustCompile(`\n{3,}`)

	headingTags = buildHeadingPatterns()
)

func buildHeadingPatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 6)
	for level := 1; level <= 6; level++ {
		patterns[level-1] = regexp.MustCompile(fmt.Sprintf(`(?is)<h%d([^>]*)>(.*?)</h%d>`, level, level))
	}
	return patterns
}

// htmlToMarkdown rewrites HTML into Markdown with an ordered series of
// pattern substitutions. Later rules see the output of earlier ones.
func htmlToMarkdown(content string) string {
	// Document structure
	content = doctypeTag.ReplaceAllString(content, "")
	content = htmlOpenTag.ReplaceAllString(content, "")
	content = htmlCloseTag.ReplaceAllString(content, "")
	content = headBlock.ReplaceAllString(content, "")
	content = bodyOpenTag.ReplaceAllString(content, "")
	content = bodyCloseTag.ReplaceAllString(content, "")

	for i, pattern := range headingTags {
		level := i + 1
		content = replaceAllSubmatchFunc(pattern, content, func(groups []string) string {
			return convertHeading(level, groups[1], groups[2])
		})
	}

	content = paragraphTag.ReplaceAllString(content, "${1}\n\n")
	content = lineBreakTag.ReplaceAllString(content, "\n")

	// Emphasis: trim inside the markers so "<b> x </b>" never splits across lines.
	content = replaceTagPairs(content, boldOpenTag, closingTags, func(inner string) string {
		return wrapNonEmpty(inner, "**")
	})
	content = replaceTagPairs(content, italicOpenTag, closingTags, func(inner string) string {
		return wrapNonEmpty(inner, "*")
	})

	content = linkTag.ReplaceAllString(content, "[${2}](${1})")

	content = imageAltTag.ReplaceAllString(content, "![${2}](${1})")
	content = imageTag.ReplaceAllString(content, "![image](${1})")

	// Link-target anchors, e.g. <a name="link2H_4_0001"></a> in table-of-contents markup.
	content = emptyAnchor.ReplaceAllString(content, "{#${1}}")
	content = replaceAllSubmatchFunc(textAnchor, content, func(groups []string) string {
		text := strings.TrimSpace(groups[2])
		if text == "" {
			return "{#" + groups[1] + "}"
		}
		return "{#" + groups[1] + "} " + text
	})

	content = anyTag.ReplaceAllString(content, "")
	content = html.UnescapeString(content)

	content = blankLineRuns.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}

// convertHeading renders one heading. The anchor comes from the heading's own
// id attribute, falling back to the id of an anchor nested inside it.
// Headings without text after tag stripping are dropped.
func convertHeading(level int, attrs, inner string) string {
	var anchor string
	if m := headingIDAttr.FindStringSubmatch(attrs); m != nil {
		anchor = m[1]
	} else if m := headingAnchorID.FindStringSubmatch(inner); m != nil {
		anchor = m[1]
	}

	text := strings.TrimSpace(anyTag.ReplaceAllString(inner, ""))
	if text == "" {
		return ""
	}

	hashes := strings.Repeat("#", level)
	if anchor != "" {
		return fmt.Sprintf("%s %s {#%s}\n\n", hashes, text, anchor)
	}
	return fmt.Sprintf("%s %s\n\n", hashes, text)
}

func wrapNonEmpty(inner, marker string) string {
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return ""
	}
	return marker + inner + marker
}
