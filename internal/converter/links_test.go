package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://example.org/ebooks/123/content"

func TestAbsolutizeLinks(t *testing.T) {
	c := New(nil, 0)

	input := "[Notes](notes.html#n1) ![Img](pic.png) [Abs](https://x.org/a) " +
		"[Anchor](#top) [Mail](mailto:a@b.c) [Audio](../music/a.mp3) [Data](data:text/plain,hi)"

	result, err := c.AbsolutizeLinks(input, testBaseURL)
	require.NoError(t, err)

	expected := "[Notes](https://example.org/ebooks/123/notes.html#n1) ![Img](pic.png) [Abs](https://x.org/a) " +
		"[Anchor](#top) [Mail](mailto:a@b.c) [Audio](https://example.org/ebooks/music/a.mp3) [Data](data:text/plain,hi)"
	assert.Equal(t, expected, result)
}

func TestAbsolutizeLinks_TrimsTarget(t *testing.T) {
	c := New(nil, 0)

	result, err := c.AbsolutizeLinks("see [here]( chapter2.html )", testBaseURL)
	require.NoError(t, err)
	assert.Equal(t, "see [here](https://example.org/ebooks/123/chapter2.html)", result)
}

func TestAbsolutizeLinks_EmptyBase(t *testing.T) {
	c := New(nil, 0)
	input := "[Notes](notes.html)"

	result, err := c.AbsolutizeLinks(input, "")
	require.NoError(t, err)
	assert.Equal(t, input, result)
}

func TestAbsolutizeLinks_InvalidBase(t *testing.T) {
	c := New(nil, 0)
	input := "[Notes](notes.html)"

	result, err := c.AbsolutizeLinks(input, "http://[::1")
	assert.Error(t, err)
	assert.Equal(t, input, result)
}
