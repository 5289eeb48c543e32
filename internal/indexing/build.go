package indexing

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/docindex/docindex-mcp/internal/searchindex"
)

// Progress is called after every submitted batch
type Progress func(done, total int)

// IndexCollection adds every record of c to index in batches of BatchSize
func IndexCollection(index bleve.Index, c *searchindex.Collection, progress Progress) error {
	batch := index.NewBatch()

	for i, rec := range c.Records {
		if err := batch.Index(DocumentID(i), NewDocument(i, rec)); err != nil {
			return fmt.Errorf("failed to add record %d to batch: %w", i, err)
		}

		if (i+1)%BatchSize == 0 {
			if err := index.Batch(batch); err != nil {
				return fmt.Errorf("failed to index batch: %w", err)
			}
			batch = index.NewBatch()
			if progress != nil {
				progress(i+1, c.Len())
			}
		}
	}

	// Submit remaining
	if batch.Size() > 0 {
		if err := index.Batch(batch); err != nil {
			return fmt.Errorf("failed to index final batch: %w", err)
		}
	}
	if progress != nil {
		progress(c.Len(), c.Len())
	}
	return nil
}

// NewMemIndex builds an in-memory index of c
func NewMemIndex(c *searchindex.Collection) (bleve.Index, error) {
	index, err := bleve.NewMemOnly(NewMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create memory index: %w", err)
	}
	if err := IndexCollection(index, c, nil); err != nil {
		index.Close()
		return nil, err
	}
	return index, nil
}

// Build writes an on-disk index of c at indexPath. The index is built in a
// temporary sibling directory and renamed into place, so a crash never
// leaves a half-written index at indexPath.
func Build(indexPath string, c *searchindex.Collection, progress Progress) error {
	tempPath := indexPath + ".tmp"

	// Clean up any leftover temp index from previous crash
	os.RemoveAll(tempPath)

	if err := os.MkdirAll(filepath.Dir(indexPath), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	index, err := bleve.New(tempPath, NewMapping())
	if err != nil {
		return fmt.Errorf("failed to create temp index: %w", err)
	}

	if err := IndexCollection(index, c, progress); err != nil {
		index.Close()
		os.RemoveAll(tempPath)
		return err
	}

	if err := index.Close(); err != nil {
		os.RemoveAll(tempPath)
		return fmt.Errorf("failed to close temp index: %w", err)
	}

	if err := os.RemoveAll(indexPath); err != nil && !os.IsNotExist(err) {
		os.RemoveAll(tempPath)
		return fmt.Errorf("failed to remove old index: %w", err)
	}
	if err := os.Rename(tempPath, indexPath); err != nil {
		os.RemoveAll(tempPath)
		return fmt.Errorf("failed to rename temp index: %w", err)
	}

	return WriteVersion(indexPath)
}

// versionPath returns the version file beside indexPath
func versionPath(indexPath string) string {
	return filepath.Join(filepath.Dir(indexPath), VersionFile)
}

// WriteVersion records IndexSchemaVersion beside the index at indexPath
func WriteVersion(indexPath string) error {
	path := versionPath(indexPath)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create version directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(IndexSchemaVersion)), 0644); err != nil {
		return fmt.Errorf("failed to write version file: %w", err)
	}
	return nil
}

// ReadVersion returns the schema version of the index at indexPath, or 0
// when no version file exists
func ReadVersion(indexPath string) int {
	data, err := os.ReadFile(versionPath(indexPath))
	if err != nil {
		return 0 // No version file = v0 (old format)
	}
	version, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return version
}

// WriteFingerprint records the artifact fingerprint beside the index at indexPath
func WriteFingerprint(indexPath, fingerprint string) error {
	path := filepath.Join(filepath.Dir(indexPath), FingerprintFile)
	if err := os.WriteFile(path, []byte(fingerprint), 0644); err != nil {
		return fmt.Errorf("failed to write fingerprint file: %w", err)
	}
	return nil
}

// ReadFingerprint returns the artifact fingerprint recorded beside the index
// at indexPath, or "" when none was recorded
func ReadFingerprint(indexPath string) string {
	data, err := os.ReadFile(filepath.Join(filepath.Dir(indexPath), FingerprintFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Stats summarizes a collection for logging
type Stats struct {
	Records   int
	Sections  int
	Pages     int
	AvgTokens int
}

// Summarize computes Stats for c
func Summarize(c *searchindex.Collection) Stats {
	s := Stats{Records: c.Len(), Pages: len(searchindex.Pages(c))}
	total := 0
	for _, rec := range c.Records {
		if rec.Category == searchindex.CategorySection {
			s.Sections++
		}
		total += EstimateTokens(rec.Text)
	}
	if s.Records > 0 {
		s.AvgTokens = total / s.Records
	}
	return s
}
