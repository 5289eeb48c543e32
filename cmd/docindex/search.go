package main

import (
	"fmt"
	"strings"

	"github.com/docindex/docindex-mcp/internal/searchindex"
)

// snippetLen caps the text shown per result
const snippetLen = 120

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	category := searchindex.Category(c.Category)
	if category != "" && !category.Valid() {
		return fmt.Errorf("unknown category %q, expected one of %v", c.Category, searchindex.Categories)
	}

	collection, err := searchindex.DecodeFile(c.Artifact)
	if err != nil {
		return err
	}

	matches := searchindex.Search(collection, c.Query, searchindex.SearchOptions{
		Category: category,
		Page:     c.Page,
		Limit:    c.Limit,
	})

	if len(matches) == 0 {
		fmt.Fprintf(deps.Stdout, "No results for %q.\n", c.Query)
		return nil
	}

	for _, m := range matches {
		fmt.Fprintf(deps.Stdout, "[%d] %s  %s (%s)\n", m.Index, m.Record.Location, m.Record.Title, m.Record.Category)
		if text := snippet(m.Record.Text); text != "" {
			fmt.Fprintf(deps.Stdout, "    %s\n", text)
		}
	}
	return nil
}

// snippet flattens text onto one line and truncates it on a rune boundary
func snippet(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= snippetLen {
		return text
	}
	return string(runes[:snippetLen]) + "..."
}
