package tools

import (
	"io/fs"
)

// DataProvider defines the interface for accessing embedded data files.
// Tests swap in MockDataProvider so extraction can run without the real
// embedded artifact.
type DataProvider interface {
	// ReadFile reads the named file and returns its contents.
	// The name is relative to the data root (e.g., "data/search_index.js").
	ReadFile(name string) ([]byte, error)

	// ReadDir reads the named directory and returns its entries.
	ReadDir(name string) ([]fs.DirEntry, error)
}
