package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mrlokans/printingpress/internal/converter"
	"github.com/mrlokans/printingpress/internal/entities"
	"github.com/mrlokans/printingpress/internal/gutenberg"
	"github.com/mrlokans/printingpress/internal/utils"
)

// ConvertCommand runs a local text or HTML file through every converter
// stage without touching the library.
type ConvertCommand struct {
	Input       string
	Output      string
	Title       string
	BookID      int
	Author      string
	BaseURL     string
	EmbedImages bool
	Timeout     time.Duration

	// fetcher overrides the catalog client for image downloads
	fetcher converter.ImageFetcher
}

func NewConvertCommand() *ConvertCommand {
	return &ConvertCommand{}
}

func (cmd *ConvertCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	fs.StringVar(&cmd.Input, "in", "", "Path to the source text or HTML file (required)")
	fs.StringVar(&cmd.Output, "out", "", "Path of the Markdown file to write (required)")
	fs.StringVar(&cmd.Title, "title", "", "Book title for the metadata header (default: input file name)")
	fs.IntVar(&cmd.BookID, "id", 0, "Catalog ID for the metadata header")
	fs.StringVar(&cmd.Author, "author", "", "Author name for the metadata header")
	fs.StringVar(&cmd.BaseURL, "base-url", "", "URL the content was downloaded from, used to resolve relative links and images")
	fs.BoolVar(&cmd.EmbedImages, "embed-images", false, "Download images and inline them as data URLs (requires -base-url)")
	fs.DurationVar(&cmd.Timeout, "timeout", 5*time.Minute, "Overall time limit for image downloads")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s convert [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Convert a local text or HTML book to Markdown.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s convert -in pg2701.txt -out moby.md -title \"Moby Dick\" -author \"Herman Melville\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s convert -in book.html -out book.md -base-url https://www.gutenberg.org/ebooks/2701.html.images -embed-images\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Input == "" || cmd.Output == "" {
		fs.Usage()
		return fmt.Errorf("both -in and -out are required")
	}
	if cmd.EmbedImages && cmd.BaseURL == "" {
		return fmt.Errorf("-embed-images requires -base-url")
	}

	return nil
}

func (cmd *ConvertCommand) Run() error {
	raw, err := os.ReadFile(cmd.Input)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	book := cmd.book()
	fetcher := cmd.fetcher
	if fetcher == nil {
		fetcher = gutenberg.NewClient(gutenberg.Config{})
	}
	conv := converter.New(fetcher, 0)

	ctx, cancel := context.WithTimeout(context.Background(), cmd.Timeout)
	defer cancel()

	markdown := conv.Convert(string(raw), book)
	if cmd.EmbedImages {
		embedded, err := conv.EmbedImages(ctx, markdown, cmd.BaseURL)
		if err != nil {
			return fmt.Errorf("failed to embed images: %w", err)
		}
		markdown = embedded
	}
	if cmd.BaseURL != "" {
		markdown, err = conv.AbsolutizeLinks(markdown, cmd.BaseURL)
		if err != nil {
			return fmt.Errorf("failed to absolutize links: %w", err)
		}
	}
	markdown = conv.ApplyFixes(markdown)

	if err := utils.WriteFileAtomic(cmd.Output, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	format := "text"
	if converter.IsHTML(string(raw)) {
		format = "HTML"
	}
	fmt.Printf("Converted %s (%s) to %s: %d words\n",
		cmd.Input, format, cmd.Output, len(strings.Fields(markdown)))
	return nil
}

func (cmd *ConvertCommand) book() entities.SourceBook {
	title := cmd.Title
	if title == "" {
		base := filepath.Base(cmd.Input)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	var authors []string
	if cmd.Author != "" {
		authors = []string{cmd.Author}
	}

	return entities.SourceBook{
		ID:      cmd.BookID,
		Title:   title,
		Authors: authors,
	}
}
