// Package generate builds search index collections from documentation
// sources, either Markdown pages or an already rendered HTML site.
package generate

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/docindex/docindex-mcp/internal/searchindex"
	"golang.org/x/sync/errgroup"
)

// PageParser turns one source page into search records. title, when not
// empty, overrides the page name found in the content.
type PageParser interface {
	ParsePage(file string, content []byte, title string) ([]searchindex.Record, error)
}

// Generator produces a collection from a set of source pages
type Generator struct {
	Config  *Config
	Sources fs.FS      // Defaults to os.DirFS(Config.Source)
	Parser  PageParser // Defaults to the parser for Config.Format
}

// New returns a Generator reading sources from disk
func New(cfg *Config) *Generator {
	return &Generator{Config: cfg}
}

// ParserFor returns the page parser for a source format
func ParserFor(format Format) (PageParser, error) {
	switch format {
	case FormatMarkdown:
		return MarkdownParser{}, nil
	case FormatHTML:
		return HTMLParser{}, nil
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

// Generate parses every page concurrently and assembles the records in
// navigation order, so the result does not depend on scheduling.
func (g *Generator) Generate(ctx context.Context) (*searchindex.Collection, error) {
	cfg := g.Config
	if cfg == nil {
		return nil, fmt.Errorf("generator has no config")
	}
	cfg.applyDefaults()

	sources := g.Sources
	if sources == nil {
		sources = os.DirFS(cfg.Source)
	}

	parser := g.Parser
	if parser == nil {
		var err error
		if parser, err = ParserFor(cfg.Format); err != nil {
			return nil, err
		}
	}

	pages := cfg.Pages
	if len(pages) == 0 {
		var err error
		if pages, err = DiscoverPages(sources, cfg.Format); err != nil {
			return nil, err
		}
	}

	results := make([][]searchindex.Record, len(pages))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.Workers)

	for i, page := range pages {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := fs.ReadFile(sources, page.File)
			if err != nil {
				return fmt.Errorf("failed to read page %s: %w", page.File, err)
			}
			records, err := parser.ParsePage(page.File, content, page.Title)
			if err != nil {
				return fmt.Errorf("failed to parse page %s: %w", page.File, err)
			}
			results[i] = records
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	c := &searchindex.Collection{
		Name:     cfg.Key,
		Variable: cfg.Variable,
	}
	for _, records := range results {
		c.Append(records...)
	}
	return c, nil
}
