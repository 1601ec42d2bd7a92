package converter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrlokans/printingpress/internal/entities"
)

func testBook() entities.SourceBook {
	return entities.SourceBook{
		ID:        1342,
		Title:     "Pride and Prejudice",
		Authors:   []string{"Austen, Jane"},
		Languages: []string{"en"},
	}
}

func TestIsHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"doctype", "<!DOCTYPE html><p>x</p>", true},
		{"doctype after whitespace", "\n\n   <!DOCTYPE html PUBLIC>", true},
		{"lowercase doctype", "<!doctype html>", true},
		{"html tag", "<?xml version=\"1.0\"?>\n<html xmlns=\"x\">", true},
		{"uppercase html tag", "<HTML><BODY>x</BODY></HTML>", true},
		{"plain text", "CHAPTER I\n\nIt was a dark night.", false},
		{"html tag past sniff window", strings.Repeat("a", 1200) + "<html>", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsHTML(tt.input))
		})
	}
}

func TestConvert_MetadataHeader(t *testing.T) {
	c := New(nil, 0)

	result := c.Convert("Hello there.", testBook())

	expected := "# Pride and Prejudice\n\n" +
		"**Author(s):** Austen, Jane  \n" +
		"**Gutenberg ID:** 1342  \n" +
		"**Languages:** en  \n\n" +
		"---\n\n" +
		"Hello there."
	assert.Equal(t, expected, result)
}

func TestConvert_UnknownAuthor(t *testing.T) {
	c := New(nil, 0)
	book := testBook()
	book.Authors = nil
	book.Languages = []string{"en", "fr"}

	result := c.Convert("text", book)

	assert.Contains(t, result, "**Author(s):** Unknown  \n")
	assert.Contains(t, result, "**Languages:** en, fr  \n")
}

func TestConvert_DispatchesOnContentType(t *testing.T) {
	c := New(nil, 0)

	html := c.Convert("<html><body><h2 id=\"c1\">One</h2></body></html>", testBook())
	text := c.Convert("CHAPTER I\n\nBody text.", testBook())

	assert.Contains(t, html, "## One {#c1}")
	assert.Contains(t, text, "## CHAPTER I")
}
