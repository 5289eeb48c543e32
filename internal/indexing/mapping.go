package indexing

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/single"
	"github.com/blevesearch/bleve/v2/mapping"
)

// pageAnalyzer keeps a page name as one token, lowercased, so page filters
// match regardless of case
const pageAnalyzer = "page_keyword"

// NewMapping returns the bleve mapping for indexed records. Title, text and
// keywords are analyzed for full-text search; location, page and category
// are keywords usable as exact filters; page compares case-insensitively.
func NewMapping() mapping.IndexMapping {
	m := bleve.NewIndexMapping()
	err := m.AddCustomAnalyzer(pageAnalyzer, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     single.Name,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		// Only fails on unregistered components, all imported above
		panic(err)
	}

	text := bleve.NewTextFieldMapping()
	text.Analyzer = standard.Name

	filter := bleve.NewKeywordFieldMapping()
	filter.IncludeInAll = false

	stored := bleve.NewTextFieldMapping()
	stored.Index = false
	stored.IncludeInAll = false

	page := bleve.NewTextFieldMapping()
	page.Analyzer = pageAnalyzer
	page.IncludeInAll = false

	position := bleve.NewNumericFieldMapping()
	position.IncludeInAll = false

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("title", text)
	doc.AddFieldMappingsAt("text", text)
	doc.AddFieldMappingsAt("keywords", text)
	doc.AddFieldMappingsAt("location", filter)
	doc.AddFieldMappingsAt("page", page)
	doc.AddFieldMappingsAt("category", filter)
	doc.AddFieldMappingsAt("breadcrumb", stored)
	doc.AddFieldMappingsAt("position", position)
	doc.AddFieldMappingsAt("token_count", position)

	m.DefaultMapping = doc
	m.DefaultAnalyzer = standard.Name
	return m
}
