package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/docindex/docindex-mcp/internal/indexing"
	"github.com/docindex/docindex-mcp/internal/searchindex"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <search-index-file> <index-dir>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s build/search_index.js search/index\n", os.Args[0])
		os.Exit(1)
	}

	artifactFile := os.Args[1]
	indexDir := os.Args[2]

	log.Printf("Documentation Search Indexer v%d", indexing.IndexSchemaVersion)
	log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	// Step 1: Decode artifact
	log.Printf("Reading search index: %s", artifactFile)
	c, err := searchindex.DecodeFile(artifactFile)
	if err != nil {
		log.Fatalf("Failed to read search index: %v", err)
	}

	// Step 2: Validate records
	if err := searchindex.Validate(c); err != nil {
		var verrs *searchindex.ValidationErrors
		if errors.As(err, &verrs) {
			for _, ve := range verrs.Errors {
				log.Printf("  ✗ %v", ve)
			}
			log.Fatalf("Search index has %d validation error(s)", len(verrs.Errors))
		}
		log.Fatalf("Failed to validate search index: %v", err)
	}

	fingerprint, err := searchindex.Fingerprint(c)
	if err != nil {
		log.Fatalf("Failed to fingerprint search index: %v", err)
	}

	stats := indexing.Summarize(c)
	log.Printf("✓ Read %d records (%d sections, %d pages, avg: %d tokens)",
		stats.Records, stats.Sections, stats.Pages, stats.AvgTokens)

	// Step 3: Build index in batches (writes the version file beside it)
	log.Printf("Creating search index: %s", indexDir)
	err = indexing.Build(indexDir, c, func(done, total int) {
		log.Printf("  Indexed %d/%d records...", done, total)
	})
	if err != nil {
		log.Fatalf("Failed to build index: %v", err)
	}
	log.Printf("✓ Indexed %d records successfully", stats.Records)
	log.Printf("✓ Index schema version: v%d", indexing.IndexSchemaVersion)

	// Step 4: Record which artifact the index was built from
	if err := indexing.WriteFingerprint(indexDir, fingerprint); err != nil {
		log.Printf("Warning: %v", err)
	}

	log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Printf("✓ Indexing complete!")
	log.Printf("")
	log.Printf("Index details:")
	log.Printf("  Location:      %s", indexDir)
	log.Printf("  Total records: %d", stats.Records)
	log.Printf("  Pages:         %d", stats.Pages)
	log.Printf("  Fingerprint:   %s", fingerprint)
	log.Printf("  Schema:        v%d", indexing.IndexSchemaVersion)
}
