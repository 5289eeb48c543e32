package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/docindex/docindex-mcp/internal/searchindex"
)

// Run executes the validate command.
func (c *ValidateCmd) Run(deps *Dependencies) error {
	raw, err := os.ReadFile(c.Artifact)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.Artifact, err)
	}

	var problems []searchindex.ValidationError
	collect := func(err error) error {
		var verrs *searchindex.ValidationErrors
		if errors.As(err, &verrs) {
			problems = append(problems, verrs.Errors...)
			return nil
		}
		return err
	}

	if err := searchindex.ValidateShape(raw); err != nil {
		if err := collect(err); err != nil {
			return fmt.Errorf("%s: %w", c.Artifact, err)
		}
	}

	collection, err := searchindex.DecodeBytes(raw)
	if err != nil {
		printProblems(deps, problems)
		return fmt.Errorf("%s: %w", c.Artifact, err)
	}
	if err := searchindex.Validate(collection); err != nil {
		if err := collect(err); err != nil {
			return err
		}
	}

	if len(problems) > 0 {
		printProblems(deps, problems)
		return fmt.Errorf("%s: %d validation error(s)", c.Artifact, len(problems))
	}

	fmt.Fprintf(deps.Stdout, "%s: valid (%d records)\n", c.Artifact, collection.Len())
	return nil
}

func printProblems(deps *Dependencies, problems []searchindex.ValidationError) {
	for _, p := range problems {
		fmt.Fprintf(deps.Stderr, "  %v\n", p)
	}
}
