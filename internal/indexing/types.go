package indexing

import (
	"fmt"

	"github.com/docindex/docindex-mcp/internal/searchindex"
)

// Document is a search record as stored in the bleve index
type Document struct {
	Location   string   `json:"location"`
	Page       string   `json:"page"`
	Title      string   `json:"title"`
	Text       string   `json:"text"`
	Category   string   `json:"category"`
	Position   int      `json:"position"`              // Record index in the artifact
	Breadcrumb string   `json:"breadcrumb,omitempty"`  // "Page > Title"
	Keywords   []string `json:"keywords,omitempty"`    // Key terms extracted from title and text
	TokenCount int      `json:"token_count,omitempty"` // Estimated token count for monitoring
}

// DocumentID returns the bleve document id of the record at position.
// Locations are not unique (paragraph records share their page location),
// so ids are positional.
func DocumentID(position int) string {
	return fmt.Sprintf("rec_%05d", position)
}

// NewDocument converts a record into its indexed form
func NewDocument(position int, rec searchindex.Record) Document {
	doc := Document{
		Location: rec.Location,
		Page:     rec.Page,
		Title:    rec.Title,
		Text:     rec.Text,
		Category: string(rec.Category),
		Position: position,
	}
	EnrichMetadata(&doc)
	return doc
}

// Record converts the indexed form back into a search record
func (d Document) Record() searchindex.Record {
	return searchindex.Record{
		Location: d.Location,
		Page:     d.Page,
		Title:    d.Title,
		Text:     d.Text,
		Category: searchindex.Category(d.Category),
	}
}
