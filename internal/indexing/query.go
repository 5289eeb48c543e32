package indexing

import (
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/docindex/docindex-mcp/internal/searchindex"
)

// Query describes a full-text search over indexed records
type Query struct {
	Text     string
	Category searchindex.Category // Exact filter, optional
	Page     string               // Exact filter ignoring case, optional
	Size     int
}

// NewSearchRequest builds the bleve request for q. Title matches weigh
// twice as much as text matches.
func NewSearchRequest(q Query) *bleve.SearchRequest {
	title := bleve.NewMatchQuery(q.Text)
	title.SetField("title")
	title.SetBoost(2)

	text := bleve.NewMatchQuery(q.Text)
	text.SetField("text")

	keywords := bleve.NewMatchQuery(q.Text)
	keywords.SetField("keywords")
	keywords.SetBoost(0.5)

	var match query.Query = bleve.NewDisjunctionQuery(title, text, keywords)

	filters := []query.Query{match}
	if q.Category != "" {
		tq := bleve.NewTermQuery(string(q.Category))
		tq.SetField("category")
		filters = append(filters, tq)
	}
	if q.Page != "" {
		tq := bleve.NewTermQuery(strings.ToLower(q.Page))
		tq.SetField("page")
		filters = append(filters, tq)
	}
	if len(filters) > 1 {
		match = bleve.NewConjunctionQuery(filters...)
	}

	req := bleve.NewSearchRequest(match)
	if q.Size > 0 {
		req.Size = q.Size
	}
	req.Fields = []string{"*"}
	return req
}

// DocumentFromHit rebuilds the stored document of a search hit
func DocumentFromHit(hit *search.DocumentMatch) Document {
	var doc Document

	if v, ok := hit.Fields["location"].(string); ok {
		doc.Location = v
	}
	if v, ok := hit.Fields["page"].(string); ok {
		doc.Page = v
	}
	if v, ok := hit.Fields["title"].(string); ok {
		doc.Title = v
	}
	if v, ok := hit.Fields["text"].(string); ok {
		doc.Text = v
	}
	if v, ok := hit.Fields["category"].(string); ok {
		doc.Category = v
	}
	if v, ok := hit.Fields["breadcrumb"].(string); ok {
		doc.Breadcrumb = v
	}
	if v, ok := hit.Fields["position"].(float64); ok {
		doc.Position = int(v)
	}
	if v, ok := hit.Fields["token_count"].(float64); ok {
		doc.TokenCount = int(v)
	}

	// Single-valued arrays come back as a plain string
	switch kws := hit.Fields["keywords"].(type) {
	case []interface{}:
		doc.Keywords = make([]string, 0, len(kws))
		for _, kw := range kws {
			if s, ok := kw.(string); ok {
				doc.Keywords = append(doc.Keywords, s)
			}
		}
	case string:
		doc.Keywords = []string{kws}
	}

	return doc
}
