package tools

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/docindex/docindex-mcp/internal/indexing"
	"github.com/docindex/docindex-mcp/internal/searchindex"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	artifactFile    = "docs/search_index.js"
	indexDir        = "search/index"
	defaultResults  = 10
	maxResults      = 20

	// DataDirEnv overrides the data directory
	DataDirEnv = "DOCINDEX_DATA_DIR"
)

var (
	dataDir string // Data directory for the artifact and search index
)

func init() {
	dataDir = resolveDataDir()
}

// resolveDataDir picks the data directory: the DOCINDEX_DATA_DIR override,
// then ~/.docindex-mcp, then ./data as a last resort
func resolveDataDir() string {
	if dir := os.Getenv(DataDirEnv); dir != "" {
		err := os.MkdirAll(dir, 0755)
		if err == nil {
			log.Printf("✓ Data directory: %s (%s)", dir, DataDirEnv)
			return dir
		}
		log.Printf("Warning: Could not create %s=%s: %v", DataDirEnv, dir, err)
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		userDataDir := filepath.Join(homeDir, ".docindex-mcp")
		if info, err := os.Stat(userDataDir); err == nil && info.IsDir() {
			log.Printf("✓ Data directory: %s (user home)", userDataDir)
			return userDataDir
		}

		if err := os.MkdirAll(userDataDir, 0755); err == nil {
			log.Printf("✓ Data directory created: %s", userDataDir)
			return userDataDir
		}
		log.Printf("Warning: Could not create user data directory at %s: %v", userDataDir, err)
	} else {
		log.Printf("Warning: Could not determine user home directory: %v", err)
	}

	fallback := filepath.Join(".", "data")
	log.Printf("⚠️  Data directory (fallback): %s", fallback)
	os.MkdirAll(fallback, 0755)
	return fallback
}

// SearchResult is one ranked record
type SearchResult struct {
	Location   string  `json:"location"`
	Page       string  `json:"page"`
	Title      string  `json:"title"`
	Text       string  `json:"text"`
	Category   string  `json:"category"`
	Position   int     `json:"position"`
	Breadcrumb string  `json:"breadcrumb,omitempty"`
	Score      float64 `json:"score"`
}

// SearchDocumentationInput defines input for search_documentation tool
type SearchDocumentationInput struct {
	Query      string `json:"query" jsonschema:"Search query for documentation"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"Maximum number of results (optional, defaults to 10, at most 20)"`
	Category   string `json:"category,omitempty" jsonschema:"Restrict to one record category: page or section (optional)"`
	Page       string `json:"page,omitempty" jsonschema:"Restrict to one page name, case-insensitive (optional)"`
}

// SearchDocumentationOutput defines output for search_documentation tool
type SearchDocumentationOutput struct {
	Results   []SearchResult `json:"results"`
	Query     string         `json:"query"`
	TotalHits int            `json:"total_hits"`
}

// RefreshDocumentationIndexInput defines input for refresh_documentation_index tool
type RefreshDocumentationIndexInput struct {
	Path  string `json:"path,omitempty" jsonschema:"Artifact to load (optional, defaults to the artifact in the data directory)"`
	Force bool   `json:"force,omitempty" jsonschema:"Rebuild even when the artifact is unchanged (optional, defaults to false)"`
}

// RefreshDocumentationIndexOutput defines output for refresh_documentation_index tool
type RefreshDocumentationIndexOutput struct {
	Updated        bool   `json:"updated"`
	Fingerprint    string `json:"fingerprint"`
	RecordsIndexed int    `json:"records_indexed"`
	Message        string `json:"message"`
}

// indexHolder manages concurrent access to the served documentation
type indexHolder struct {
	// current holds the active generation (atomic access for lock-free reads)
	current atomic.Pointer[docSet]

	// refreshMu prevents concurrent refresh operations
	// NOT used for searches - they are lock-free via atomic pointer
	refreshMu sync.Mutex

	// closing tracks background closes of replaced indexes
	closing sync.WaitGroup
}

var (
	indexMgr = &indexHolder{}
)

// InitializeDocSearch loads the artifact from the data directory (extracting
// the embedded one on first start) and opens or builds its search index
func InitializeDocSearch() error {
	// Shares refreshMu so concurrent first searches open the index only once
	indexMgr.refreshMu.Lock()
	defer indexMgr.refreshMu.Unlock()

	if indexMgr.current.Load() != nil {
		return nil // Already serving; refresh replaces the index
	}

	startTime := time.Now()
	log.Printf("Initializing documentation search...")

	log.Printf("Acquiring index lock...")
	lockStart := time.Now()
	if err := acquireLock(); err != nil {
		return fmt.Errorf("failed to acquire index lock: %w", err)
	}
	log.Printf("Lock acquired in %v", time.Since(lockStart).Round(time.Millisecond))

	c, err := loadArtifact()
	if err != nil {
		// A broken local artifact is replaced by the embedded one
		log.Printf("Warning: Local artifact unusable (%v), restoring embedded artifact...", err)
		if err := extractEmbeddedArtifacts(true); err != nil {
			return fmt.Errorf("failed to extract embedded artifact: %w", err)
		}
		if c, err = loadArtifact(); err != nil {
			return fmt.Errorf("embedded artifact is invalid: %w", err)
		}
	}

	fingerprint, err := searchindex.Fingerprint(c)
	if err != nil {
		return err
	}

	index, err := openOrBuildIndex(c, fingerprint)
	if err != nil {
		return err
	}

	indexMgr.publish(&docSet{index: index, collection: c, fingerprint: fingerprint})

	count, _ := index.DocCount()
	log.Printf("✓ Documentation search initialized (%d records, fingerprint %s) in %v",
		count, fingerprint, time.Since(startTime).Round(time.Millisecond))
	return nil
}

// loadArtifact decodes and validates the artifact in the data directory
func loadArtifact() (*searchindex.Collection, error) {
	artifactPath := filepath.Join(dataDir, artifactFile)
	if _, err := os.Stat(artifactPath); os.IsNotExist(err) {
		log.Printf("No local artifact found, extracting embedded documentation...")
		if err := extractEmbeddedArtifacts(false); err != nil {
			return nil, fmt.Errorf("failed to extract embedded artifact: %w", err)
		}
	}

	c, err := searchindex.DecodeFile(artifactPath)
	if err != nil {
		return nil, err
	}
	if err := searchindex.Validate(c); err != nil {
		return nil, fmt.Errorf("%s: %w", artifactPath, err)
	}
	return c, nil
}

// extractEmbeddedArtifacts copies the embedded artifacts into the data
// directory. Existing files are kept unless overwrite is set.
func extractEmbeddedArtifacts(overwrite bool) error {
	entries, err := defaultDataProvider.ReadDir(embeddedDir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", embeddedDir, err)
	}

	docsPath := filepath.Join(dataDir, filepath.Dir(artifactFile))
	if err := os.MkdirAll(docsPath, 0755); err != nil {
		return fmt.Errorf("failed to create docs directory: %w", err)
	}

	extracted := 0
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".js" {
			continue
		}

		localFile := filepath.Join(docsPath, entry.Name())
		if _, err := os.Stat(localFile); err == nil && !overwrite {
			continue
		}

		data, err := defaultDataProvider.ReadFile(path.Join(embeddedDir, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read embedded file %s: %w", entry.Name(), err)
		}
		if err := os.WriteFile(localFile, data, 0644); err != nil {
			return fmt.Errorf("failed to write file %s: %w", localFile, err)
		}
		extracted++
	}

	if _, err := os.Stat(filepath.Join(dataDir, artifactFile)); err != nil {
		return fmt.Errorf("no embedded %s", path.Base(artifactFile))
	}

	log.Printf("✓ %d embedded artifact(s) extracted to %s", extracted, docsPath)
	return nil
}

// openOrBuildIndex opens the on-disk index when it matches the current schema
// version and artifact fingerprint, otherwise rebuilds it
func openOrBuildIndex(c *searchindex.Collection, fingerprint string) (Index, error) {
	indexPath := filepath.Join(dataDir, indexDir)

	if _, err := os.Stat(indexPath); err == nil {
		version := indexing.ReadVersion(indexPath)
		switch {
		case version != indexing.IndexSchemaVersion:
			log.Printf("Index schema version mismatch (have: v%d, want: v%d), rebuilding...",
				version, indexing.IndexSchemaVersion)
		case indexing.ReadFingerprint(indexPath) != fingerprint:
			log.Printf("Index was built from a different artifact, rebuilding...")
		default:
			openStart := time.Now()
			index, err := bleve.Open(indexPath)
			if err == nil {
				log.Printf("Local index opened in %v", time.Since(openStart).Round(time.Millisecond))
				return index, nil
			}
			log.Printf("Warning: Local index corrupted (%v), rebuilding...", err)
		}
	}

	return buildIndex(c, fingerprint)
}

// buildIndex writes a fresh index for c and opens it
func buildIndex(c *searchindex.Collection, fingerprint string) (Index, error) {
	buildStart := time.Now()
	indexPath := filepath.Join(dataDir, indexDir)

	stats := indexing.Summarize(c)
	log.Printf("Indexing %d records (%d sections, %d pages, avg: %d tokens)...",
		stats.Records, stats.Sections, stats.Pages, stats.AvgTokens)

	err := indexing.Build(indexPath, c, func(done, total int) {
		log.Printf("Indexed %d/%d records...", done, total)
	})
	if err != nil {
		return nil, fmt.Errorf("indexing failed: %w", err)
	}
	if err := indexing.WriteFingerprint(indexPath, fingerprint); err != nil {
		log.Printf("Warning: %v", err)
	}

	index, err := bleve.Open(indexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open new index: %w", err)
	}
	log.Printf("✓ Index built in %v", time.Since(buildStart).Round(time.Millisecond))
	return index, nil
}

// publish atomically replaces the served generation. The previous index is
// closed in the background once its own in-flight reads drain.
func (h *indexHolder) publish(set *docSet) {
	old := h.current.Swap(set)
	if old == nil || old == set {
		return
	}
	drained := old.retire()
	if old.index == nil || old.index == set.index {
		return
	}

	h.closing.Add(1)
	go func() {
		defer h.closing.Done()

		waitStart := time.Now()
		<-drained
		log.Printf("Searches on old index completed, closing it (waited %v)...",
			time.Since(waitStart).Round(time.Millisecond))

		if err := old.index.Close(); err != nil {
			log.Printf("Warning: Error closing old index: %v", err)
		} else {
			log.Printf("✓ Old index closed successfully")
		}
	}()
}

// acquire enters the served generation, or returns nil when none is
// published. A generation retired between the load and the enter is skipped
// in favor of its successor.
func (h *indexHolder) acquire() *docSet {
	for {
		set := h.current.Load()
		if set == nil {
			return nil
		}
		if set.enter() {
			return set
		}
	}
}

// acquireDocSet returns the served generation, initializing it on first use.
// The caller must call release when done reading.
func acquireDocSet() (set *docSet, release func(), err error) {
	set = indexMgr.acquire()
	if set == nil {
		log.Printf("Doc index not initialized, initializing now...")
		if err := InitializeDocSearch(); err != nil {
			return nil, func() {}, fmt.Errorf("failed to initialize documentation index: %w", err)
		}
		if set = indexMgr.acquire(); set == nil {
			return nil, func() {}, errors.New("index still nil after initialization")
		}
	}
	return set, set.leave, nil
}

// refreshDocumentationIndex reloads the artifact at source (the data
// directory artifact when empty) and swaps in a new index. The rebuild is
// skipped when the artifact fingerprint is unchanged unless force is set.
func refreshDocumentationIndex(source string, force bool) (RefreshDocumentationIndexOutput, error) {
	startTime := time.Now()
	output := RefreshDocumentationIndexOutput{}

	// Serialize refresh operations (prevent concurrent refreshes)
	indexMgr.refreshMu.Lock()
	defer indexMgr.refreshMu.Unlock()

	log.Printf("Starting documentation refresh (force=%v)...", force)

	// Acquire inter-process lock for re-indexing (will wait if another process has it)
	if err := acquireLock(); err != nil {
		return output, fmt.Errorf("failed to acquire lock for refresh: %w", err)
	}
	// Note: Lock will be released by CloseDocSearch() when process exits

	artifactPath := filepath.Join(dataDir, artifactFile)
	if source == "" {
		source = artifactPath
	}

	c, err := searchindex.DecodeFile(source)
	if err != nil {
		return output, err
	}
	if err := searchindex.Validate(c); err != nil {
		return output, fmt.Errorf("refusing to index invalid artifact: %w", err)
	}

	fingerprint, err := searchindex.Fingerprint(c)
	if err != nil {
		return output, err
	}
	output.Fingerprint = fingerprint
	output.RecordsIndexed = c.Len()

	if current := indexMgr.current.Load(); current != nil && current.fingerprint == fingerprint && !force {
		output.Message = fmt.Sprintf("Artifact unchanged (fingerprint %s), index kept", fingerprint)
		log.Printf("%s", output.Message)
		return output, nil
	}

	if source != artifactPath {
		if err := searchindex.WriteFile(artifactPath, c, searchindex.EncodeOptions{}); err != nil {
			return output, fmt.Errorf("failed to store artifact: %w", err)
		}
	}

	index, err := buildIndex(c, fingerprint)
	if err != nil {
		return output, err
	}
	indexMgr.publish(&docSet{index: index, collection: c, fingerprint: fingerprint})

	output.Updated = true
	output.Message = fmt.Sprintf("Documentation refreshed, %d records indexed", c.Len())
	log.Printf("✓ Documentation refresh completed in %v", time.Since(startTime).Round(time.Millisecond))
	return output, nil
}

// SearchDocumentation runs a full-text search over the served documentation
func SearchDocumentation(ctx context.Context, req *mcp.CallToolRequest, input SearchDocumentationInput) (*mcp.CallToolResult, SearchDocumentationOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, SearchDocumentationOutput{}, errors.New("query is required")
	}

	category := searchindex.Category(input.Category)
	if category != "" && !category.Valid() {
		return nil, SearchDocumentationOutput{}, fmt.Errorf("unknown category %q, expected one of %v", input.Category, searchindex.Categories)
	}

	set, release, err := acquireDocSet()
	if err != nil {
		return nil, SearchDocumentationOutput{}, err
	}
	defer release()

	size := input.MaxResults
	if size <= 0 || size > maxResults {
		size = defaultResults
	}

	searchResults, err := set.index.Search(indexing.NewSearchRequest(indexing.Query{
		Text:     input.Query,
		Category: category,
		Page:     input.Page,
		Size:     size,
	}))
	if err != nil {
		return nil, SearchDocumentationOutput{}, fmt.Errorf("search failed: %w", err)
	}

	results := make([]SearchResult, 0, len(searchResults.Hits))
	for _, hit := range searchResults.Hits {
		doc := indexing.DocumentFromHit(hit)
		results = append(results, SearchResult{
			Location:   doc.Location,
			Page:       doc.Page,
			Title:      doc.Title,
			Text:       doc.Text,
			Category:   doc.Category,
			Position:   doc.Position,
			Breadcrumb: doc.Breadcrumb,
			Score:      hit.Score,
		})
	}

	output := SearchDocumentationOutput{
		Results:   results,
		Query:     input.Query,
		TotalHits: int(searchResults.Total),
	}
	return nil, output, nil
}

// RefreshDocumentationIndex reloads the artifact and rebuilds the index
func RefreshDocumentationIndex(ctx context.Context, req *mcp.CallToolRequest, input RefreshDocumentationIndexInput) (*mcp.CallToolResult, RefreshDocumentationIndexOutput, error) {
	output, err := refreshDocumentationIndex(input.Path, input.Force)
	if err != nil {
		return nil, output, fmt.Errorf("refresh failed: %w", err)
	}
	return nil, output, nil
}

// RegisterDocSearchTools registers documentation search tools
func RegisterDocSearchTools(server *mcp.Server) error {
	// Initialize doc search synchronously
	if err := InitializeDocSearch(); err != nil {
		log.Printf("Warning: Documentation search initialization failed: %v", err)
		log.Printf("Documentation search will attempt to initialize on first use")
	}

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "search_documentation",
			Description: "Full-text search over the documentation search index. Title matches rank above text matches. Optionally filter by category (page or section) and page name.",
		},
		SearchDocumentation,
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "refresh_documentation_index",
			Description: "Reload the search_index.js artifact (from a path or the data directory) and rebuild the search index. Skipped when the artifact is unchanged unless force is set.",
		},
		RefreshDocumentationIndex,
	)

	return nil
}

// CloseDocSearch closes the documentation search index and releases the lock
func CloseDocSearch() error {
	var closeErr error

	// Atomically swap to nil (prevents new searches)
	if set := indexMgr.current.Swap(nil); set != nil && set.index != nil {
		log.Printf("Waiting for in-flight searches to complete before closing...")
		<-set.retire()

		closeErr = set.index.Close()
		if closeErr != nil {
			log.Printf("Error closing doc index: %v", closeErr)
		} else {
			log.Printf("✓ Doc index closed successfully")
		}
	}

	indexMgr.closing.Wait()

	// Always attempt to release inter-process lock, even if close failed
	if err := releaseLock(); err != nil {
		log.Printf("Error releasing lock: %v", err)
		if closeErr == nil {
			closeErr = err
		}
	}

	return closeErr
}
