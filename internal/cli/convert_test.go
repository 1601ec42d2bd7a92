package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	calls []string
}

func (s *stubFetcher) FetchBinary(ctx context.Context, url string) ([]byte, string, error) {
	s.calls = append(s.calls, url)
	if strings.HasSuffix(url, "missing.png") {
		return nil, "", errors.New("404")
	}
	return []byte("PNG"), "image/png", nil
}

func TestConvertCommand_ParseFlags(t *testing.T) {
	t.Run("requires input and output", func(t *testing.T) {
		cmd := NewConvertCommand()
		assert.Error(t, cmd.ParseFlags([]string{"-in", "book.txt"}))
	})

	t.Run("embedding images needs a base URL", func(t *testing.T) {
		cmd := NewConvertCommand()
		err := cmd.ParseFlags([]string{"-in", "a.html", "-out", "a.md", "-embed-images"})
		assert.ErrorContains(t, err, "-base-url")
	})

	t.Run("parses all options", func(t *testing.T) {
		cmd := NewConvertCommand()
		require.NoError(t, cmd.ParseFlags([]string{
			"-in", "a.txt", "-out", "a.md", "-title", "Moby Dick", "-id", "2701",
			"-author", "Herman Melville", "-base-url", "https://example.org/", "-embed-images",
		}))
		assert.Equal(t, 2701, cmd.BookID)
		assert.Equal(t, "Herman Melville", cmd.Author)
		assert.True(t, cmd.EmbedImages)
	})
}

func TestConvertCommand_Text(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "moby-dick.txt")
	out := filepath.Join(dir, "out", "moby.md")
	require.NoError(t, os.WriteFile(in, []byte(
		"*** START OF THE PROJECT GUTENBERG EBOOK ***\n"+
			"CHAPTER 1. Loomings.\n\n"+
			"Call me Ishmael.\nSome years ago.\n"+
			"*** END OF THE PROJECT GUTENBERG EBOOK ***\n"), 0644))

	cmd := NewConvertCommand()
	require.NoError(t, cmd.ParseFlags([]string{"-in", in, "-out", out, "-author", "Herman Melville"}))
	require.NoError(t, cmd.Run())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	md := string(data)

	assert.Contains(t, md, "# moby-dick")
	assert.Contains(t, md, "Herman Melville")
	assert.Contains(t, md, "## CHAPTER 1. Loomings.")
	assert.Contains(t, md, "Call me Ishmael. Some years ago.")
	assert.NotContains(t, md, "PROJECT GUTENBERG")
}

func TestConvertCommand_HTMLWithImages(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "book.html")
	out := filepath.Join(dir, "book.md")
	require.NoError(t, os.WriteFile(in, []byte(`<!DOCTYPE html>
<html><head><title>x</title></head><body>
<h1 id="top">The Book</h1>
<p>See <a href="notes.html">the notes</a>.</p>
<p><img src="images/cover.png" alt="Cover"></p>
<p><img src="images/missing.png" alt="Gone"></p>
</body></html>`), 0644))

	fetcher := &stubFetcher{}
	cmd := NewConvertCommand()
	cmd.fetcher = fetcher
	require.NoError(t, cmd.ParseFlags([]string{
		"-in", in, "-out", out, "-title", "The Book",
		"-base-url", "https://example.org/ebooks/1/", "-embed-images",
	}))
	require.NoError(t, cmd.Run())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	md := string(data)

	assert.Contains(t, md, "# The Book {#top}")
	assert.Contains(t, md, "[the notes](https://example.org/ebooks/1/notes.html)")
	assert.Contains(t, md, "data:image/png;base64,")
	assert.Contains(t, md, "![Gone](images/missing.png)", "failed downloads keep their reference")
	assert.Len(t, fetcher.calls, 2)
}

func TestConvertCommand_MissingInput(t *testing.T) {
	cmd := &ConvertCommand{Input: filepath.Join(t.TempDir(), "nope.txt"), Output: "x.md"}
	assert.ErrorContains(t, cmd.Run(), "failed to read input")
}
