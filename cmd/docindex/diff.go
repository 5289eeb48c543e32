package main

import (
	"errors"
	"fmt"

	"github.com/docindex/docindex-mcp/internal/searchindex"
)

// ErrDiffer is returned by diff when the artifacts hold different records.
var ErrDiffer = errors.New("search indexes differ")

// Run executes the diff command.
func (c *DiffCmd) Run(deps *Dependencies) error {
	oldIdx, err := searchindex.DecodeFile(c.Old)
	if err != nil {
		return err
	}
	newIdx, err := searchindex.DecodeFile(c.New)
	if err != nil {
		return err
	}

	changes := searchindex.Diff(oldIdx, newIdx)
	if oldIdx.Name != newIdx.Name {
		fmt.Fprintf(deps.Stdout, "key: %q -> %q\n", oldIdx.Name, newIdx.Name)
	}

	for _, ch := range changes {
		switch ch.Kind {
		case searchindex.ChangeAdded:
			fmt.Fprintf(deps.Stdout, "+ [%d] %s  %s\n", ch.Index, ch.New.Location, ch.New.Title)
		case searchindex.ChangeRemoved:
			fmt.Fprintf(deps.Stdout, "- [%d] %s  %s\n", ch.Index, ch.Old.Location, ch.Old.Title)
		case searchindex.ChangeModified:
			fmt.Fprintf(deps.Stdout, "~ [%d] %s  %s\n", ch.Index, ch.New.Location, ch.New.Title)
		}
	}

	if len(changes) == 0 && oldIdx.Name == newIdx.Name {
		fmt.Fprintf(deps.Stdout, "identical (%d records)\n", oldIdx.Len())
		return nil
	}
	return fmt.Errorf("%w: %d change(s)", ErrDiffer, len(changes))
}
