package converter

import (
	"regexp"
	"strings"
)

// replaceAllSubmatchFunc works like Regexp.ReplaceAllStringFunc but hands
// the replacement function the full match and every capture group.
// Groups that did not participate in the match are empty strings.
func replaceAllSubmatchFunc(re *regexp.Regexp, s string, repl func(groups []string) string) string {
	matches := re.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])
		b.WriteString(repl(submatches(s, m)))
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

func submatches(s string, loc []int) []string {
	groups := make([]string, len(loc)/2)
	for i := range groups {
		if loc[2*i] >= 0 {
			groups[i] = s[loc[2*i]:loc[2*i+1]]
		}
	}
	return groups
}

// replaceTagPairs rewrites <name ...>inner</name> spans where name is one of
// the alternatives captured by open's first group. The closing tag must use
// the same name as the opening tag; an opening tag without a matching close
// is left untouched and scanning resumes one character later.
func replaceTagPairs(s string, open *regexp.Regexp, closers map[string]*regexp.Regexp, wrap func(inner string) string) string {
	var b strings.Builder
	b.Grow(len(s))
	pos := 0
	for pos < len(s) {
		loc := open.FindStringSubmatchIndex(s[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		name := strings.ToLower(s[pos+loc[2] : pos+loc[3]])

		closer, ok := closers[name]
		if !ok {
			b.WriteString(s[pos : start+1])
			pos = start + 1
			continue
		}
		closeLoc := closer.FindStringIndex(s[end:])
		if closeLoc == nil {
			b.WriteString(s[pos : start+1])
			pos = start + 1
			continue
		}

		b.WriteString(s[pos:start])
		b.WriteString(wrap(s[end : end+closeLoc[0]]))
		pos = end + closeLoc[1]
	}
	b.WriteString(s[pos:])
	return b.String()
}
