package search

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/mrlokans/printingpress/internal/entities"
)

const (
	semanticWeight  = 0.3
	substringWeight = 0.5
	patternWeight   = 0.2

	// minScore filters results that only matched noise.
	minScore = 0.01

	maxSubstringScore = 2.0
	maxPatternScore   = 1.5
)

// Search scores every library entry against the query and returns matches
// by descending score. A limit <= 0 returns every match. Blank queries
// return nothing.
func (idx *Index) Search(query string, limit int) []entities.SearchResult {
	if strings.TrimSpace(query) == "" {
		return []entities.SearchResult{}
	}

	q := newQuery(query)
	results := []entities.SearchResult{}
	for _, entry := range idx.library.GetLibrary() {
		result := idx.score(q, entry)
		if result.Score > minScore {
			results = append(results, result)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Score computes the combined and per-signal scores of one entry.
func (idx *Index) Score(query string, entry entities.LibraryEntry) entities.SearchResult {
	return idx.score(newQuery(query), entry)
}

// query holds the forms of a search string each signal needs, computed once
// per search.
type query struct {
	lower   string
	vector  termVector
	pattern *regexp.Regexp
}

func newQuery(raw string) query {
	return query{
		lower:   strings.ToLower(raw),
		vector:  buildTermVector(raw),
		pattern: compilePattern(raw),
	}
}

// compilePattern treats the query as a case-insensitive regular expression,
// falling back to a literal match when it does not compile.
func compilePattern(raw string) *regexp.Regexp {
	if re, err := regexp.Compile("(?i)" + raw); err == nil {
		return re
	}
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(raw))
}

func (idx *Index) score(q query, entry entities.LibraryEntry) entities.SearchResult {
	book, indexed := idx.lookup(entry.ID)

	var semantic float64
	if indexed {
		semantic = cosine(q.vector, book.vector)
	}
	substring := substringScore(q, entry, book, indexed)
	pattern := patternScore(q, entry, book, indexed)

	return entities.SearchResult{
		Entry:          entry,
		Score:          semanticWeight*semantic + substringWeight*substring + patternWeight*pattern,
		SemanticScore:  semantic,
		SubstringScore: substring,
		PatternScore:   pattern,
	}
}

func substringScore(q query, entry entities.LibraryEntry, book indexedBook, indexed bool) float64 {
	var score float64

	title := strings.ToLower(entry.Title)
	if strings.Contains(title, q.lower) {
		if q.lower == title {
			score += 1.0
		} else {
			score += 0.7 * float64(utf8.RuneCountInString(q.lower)) / float64(utf8.RuneCountInString(entry.Title))
		}
	}

	if anyContains(entry.Authors, q.lower) {
		score += 0.5
	}
	if anyContains(entry.Subjects, q.lower) {
		score += 0.3
	}

	if indexed {
		// Log scale keeps long books from dominating.
		if matches := strings.Count(book.content, q.lower); matches > 0 {
			score += 0.2 * math.Log(1+float64(matches))
		}
	}

	return math.Min(score, maxSubstringScore)
}

func patternScore(q query, entry entities.LibraryEntry, book indexedBook, indexed bool) float64 {
	var score float64

	if q.pattern.MatchString(entry.Title) {
		score += 0.8
	}
	for _, author := range entry.Authors {
		if q.pattern.MatchString(author) {
			score += 0.4
			break
		}
	}

	if indexed {
		if matches := len(q.pattern.FindAllStringIndex(book.content, -1)); matches > 0 {
			score += 0.3 * math.Log(1+float64(matches))
		}
	}

	return math.Min(score, maxPatternScore)
}

func anyContains(values []string, lowerQuery string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), lowerQuery) {
			return true
		}
	}
	return false
}
