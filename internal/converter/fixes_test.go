package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyFixes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"collapses blank lines", "Title\n\n\n\n\nBody", "Title\n\nBody"},
		{"removes rules", "-----\nText\n=====", "Text"},
		{"removes underscore rule", "Above\n\n______\n\nBelow", "Above\n\nBelow"},
		{"joins split bold", "**\nword**", "**word**"},
		{"joins split italic", "*\nsoft*", "*soft*"},
		{"drops orphan bold line", "Line one\n**\nLine two", "Line one\n\nLine two"},
		{"drops orphan italic line", "Line one\n*  \nLine two", "Line one\n\nLine two"},
		{"spaces heading from text", "# Title\nText", "# Title\n\nText"},
		{"ligatures", "ﬁne ﬂow oﬀ oﬃce waﬄe", "fine flow off office waffle"},
		{"quotes", "“quoted” ‘single’ it’s", `"quoted" 'single' it's`},
		{"dashes", "a—b c–d", "a---b c--d"},
		{"trailing whitespace", "line   \nnext\t", "line\nnext"},
		{"outer whitespace", "\n\n  body  \n\n", "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ApplyFixes(tt.input))
		})
	}
}

func TestApplyFixes_Idempotent(t *testing.T) {
	clean := "# Title {#top}\n\n**Author(s):** Someone\n\nSome *text* here.\n\n## Next\n\nMore text."
	assert.Equal(t, clean, ApplyFixes(clean))

	messy := "# T\nBody\n\n\n\n**\nbold**  \n"
	once := ApplyFixes(messy)
	assert.Equal(t, "# T\n\nBody\n\n**bold**", once)
	assert.Equal(t, once, ApplyFixes(once))
}

func TestConverter_ApplyFixesDelegates(t *testing.T) {
	c := New(nil, 0)
	assert.Equal(t, ApplyFixes("a\n\n\n\nb"), c.ApplyFixes("a\n\n\n\nb"))
}
