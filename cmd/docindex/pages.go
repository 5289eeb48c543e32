package main

import (
	"fmt"

	"github.com/docindex/docindex-mcp/internal/searchindex"
)

// Run executes the pages command.
func (c *PagesCmd) Run(deps *Dependencies) error {
	collection, err := searchindex.DecodeFile(c.Artifact)
	if err != nil {
		return err
	}

	pages := searchindex.Pages(collection)
	if len(pages) == 0 {
		fmt.Fprintln(deps.Stdout, "No pages found.")
		return nil
	}

	for _, p := range pages {
		fmt.Fprintf(deps.Stdout, "%s  %s  %d sections, %d paragraphs\n", p.Path, p.Name, len(p.Sections), p.Paragraphs)
		if c.Sections {
			for _, s := range p.Sections {
				fmt.Fprintf(deps.Stdout, "    # %s\n", s)
			}
		}
	}
	return nil
}
