package main

import (
	"fmt"

	"github.com/docindex/docindex-mcp/internal/searchindex"
)

// Run executes the fingerprint command.
func (c *FingerprintCmd) Run(deps *Dependencies) error {
	for _, path := range c.Artifacts {
		collection, err := searchindex.DecodeFile(path)
		if err != nil {
			return err
		}
		fingerprint, err := searchindex.Fingerprint(collection)
		if err != nil {
			return err
		}
		fmt.Fprintf(deps.Stdout, "%s  %s\n", fingerprint, path)
	}
	return nil
}
