package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/docindex/docindex-mcp/internal/generate"
	"github.com/docindex/docindex-mcp/internal/searchindex"
)

// ErrStale is returned by generate --check when the artifact on disk is out of date.
var ErrStale = errors.New("search index is out of date")

// Run executes the generate command.
func (c *GenerateCmd) Run(deps *Dependencies) error {
	cfg, err := generate.LoadConfig(c.Config)
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Set DOCINDEX_CONFIG or pass --config to use a different config file")
		return err
	}
	if c.Output != "" {
		cfg.Output = c.Output
	}

	collection, err := generate.New(cfg).Generate(deps.Ctx)
	if err != nil {
		return fmt.Errorf("failed to generate search index: %w", err)
	}
	if err := searchindex.Validate(collection); err != nil {
		return fmt.Errorf("generated search index is invalid: %w", err)
	}

	opts := searchindex.EncodeOptions{Bare: c.Bare}

	if c.Check {
		want, err := searchindex.EncodeBytes(collection, opts)
		if err != nil {
			return err
		}
		have, err := os.ReadFile(cfg.Output)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", cfg.Output, err)
		}
		if !bytes.Equal(have, want) {
			fmt.Fprintf(deps.Stderr, "%s differs from a fresh generation; run 'docindex generate'\n", cfg.Output)
			return ErrStale
		}
		fmt.Fprintf(deps.Stdout, "%s is up to date (%d records)\n", cfg.Output, collection.Len())
		return nil
	}

	if err := searchindex.WriteFile(cfg.Output, collection, opts); err != nil {
		return err
	}

	fingerprint, err := searchindex.Fingerprint(collection)
	if err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Wrote %d records to %s (fingerprint %s)\n", collection.Len(), cfg.Output, fingerprint)
	return nil
}
