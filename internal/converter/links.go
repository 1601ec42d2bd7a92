package converter

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var markdownLink = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

var absoluteURLPrefixes = []string{"http://", "https://", "data:", "#", "mailto:"}

// AbsolutizeLinks rewrites relative Markdown link targets (not images) to
// absolute URLs resolved against baseURL. Link text is left untouched, and
// targets that fail to resolve keep their original form.
func (c *Converter) AbsolutizeLinks(markdown, baseURL string) (string, error) {
	if baseURL == "" {
		return markdown, nil
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return markdown, fmt.Errorf("parse base url: %w", err)
	}

	var b strings.Builder
	b.Grow(len(markdown))
	last, pos := 0, 0
	for pos < len(markdown) {
		loc := markdownLink.FindStringSubmatchIndex(markdown[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]

		// Image syntax: retry from the next character so a link nested
		// after the "![" can still match.
		if start > 0 && markdown[start-1] == '!' {
			pos = start + 1
			continue
		}

		text := markdown[pos+loc[2] : pos+loc[3]]
		target := strings.TrimSpace(markdown[pos+loc[4] : pos+loc[5]])

		b.WriteString(markdown[last:start])
		if absolute, ok := absolutize(base, target); ok {
			b.WriteString("[" + text + "](" + absolute + ")")
		} else {
			b.WriteString(markdown[start:end])
		}
		last, pos = end, end
	}
	b.WriteString(markdown[last:])

	return b.String(), nil
}

func absolutize(base *url.URL, target string) (string, bool) {
	for _, prefix := range absoluteURLPrefixes {
		if strings.HasPrefix(target, prefix) {
			return "", false
		}
	}
	ref, err := url.Parse(target)
	if err != nil {
		return "", false
	}
	return base.ResolveReference(ref).String(), true
}
