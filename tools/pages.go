package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/docindex/docindex-mcp/internal/searchindex"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ListPagesInput defines input for list_pages tool
type ListPagesInput struct{}

// ListPagesOutput defines output for list_pages tool
type ListPagesOutput struct {
	Pages        []searchindex.PageSummary `json:"pages"`
	TotalRecords int                       `json:"total_records"`
	Fingerprint  string                    `json:"fingerprint"`
}

// GetPageInput defines input for get_page tool
type GetPageInput struct {
	Page     string `json:"page" jsonschema:"Page name as returned by list_pages (case-insensitive)"`
	Category string `json:"category,omitempty" jsonschema:"Only return records of this category: page or section (optional)"`
}

// PageRecord is a record with its position in the artifact
type PageRecord struct {
	Position int                `json:"position"`
	Record   searchindex.Record `json:"record"`
}

// GetPageOutput defines output for get_page tool
type GetPageOutput struct {
	Page    string       `json:"page"`
	Records []PageRecord `json:"records"`
}

// ListPages lists the pages of the served documentation in document order
func ListPages(ctx context.Context, req *mcp.CallToolRequest, input ListPagesInput) (*mcp.CallToolResult, ListPagesOutput, error) {
	set, release, err := acquireDocSet()
	if err != nil {
		return nil, ListPagesOutput{}, err
	}
	defer release()

	return nil, ListPagesOutput{
		Pages:        searchindex.Pages(set.collection),
		TotalRecords: set.collection.Len(),
		Fingerprint:  set.fingerprint,
	}, nil
}

// GetPage returns every record of one page in document order
func GetPage(ctx context.Context, req *mcp.CallToolRequest, input GetPageInput) (*mcp.CallToolResult, GetPageOutput, error) {
	if input.Page == "" {
		return nil, GetPageOutput{}, errors.New("page is required")
	}
	category := searchindex.Category(input.Category)
	if category != "" && !category.Valid() {
		return nil, GetPageOutput{}, fmt.Errorf("unknown category %q, expected one of %v", input.Category, searchindex.Categories)
	}

	set, release, err := acquireDocSet()
	if err != nil {
		return nil, GetPageOutput{}, err
	}
	defer release()

	matches, err := searchindex.PageRecords(set.collection, input.Page)
	if err != nil {
		return nil, GetPageOutput{}, err
	}

	output := GetPageOutput{
		Page:    matches[0].Record.Page,
		Records: make([]PageRecord, 0, len(matches)),
	}
	for _, m := range matches {
		if category != "" && m.Record.Category != category {
			continue
		}
		output.Records = append(output.Records, PageRecord{Position: m.Index, Record: m.Record})
	}
	return nil, output, nil
}

// RegisterPageTools registers page inspection tools
func RegisterPageTools(server *mcp.Server) error {
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "list_pages",
			Description: "List the documentation pages in the search index with their section headings and paragraph counts, in document order.",
		},
		ListPages,
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "get_page",
			Description: "Return every search record of one documentation page in document order, optionally filtered by category.",
		},
		GetPage,
	)

	return nil
}
