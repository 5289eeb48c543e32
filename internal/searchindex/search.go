package searchindex

import (
	"fmt"
	"strings"
)

// SearchOptions narrows a linear search
type SearchOptions struct {
	Category Category // Empty matches every category
	Page     string   // Empty matches every page; compared case-insensitively
	Limit    int      // Zero or negative means no limit
}

// Match is a record that satisfied a search, with its position in the collection
type Match struct {
	Index  int    `json:"index"`
	Record Record `json:"record"`
}

// Search performs the case-insensitive substring search a browser search
// widget runs over the index: every whitespace-separated term of query must
// occur in the record's title or text. Results keep document order.
func Search(c *Collection, query string, opts SearchOptions) []Match {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 || c == nil {
		return nil
	}

	var matches []Match
	for i, rec := range c.Records {
		if opts.Category != "" && rec.Category != opts.Category {
			continue
		}
		if opts.Page != "" && !strings.EqualFold(rec.Page, opts.Page) {
			continue
		}

		haystack := strings.ToLower(rec.Title + "\n" + rec.Text)
		if !containsAll(haystack, terms) {
			continue
		}

		matches = append(matches, Match{Index: i, Record: rec})
		if opts.Limit > 0 && len(matches) >= opts.Limit {
			break
		}
	}
	return matches
}

func containsAll(haystack string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}

// PageSummary describes one page of a collection
type PageSummary struct {
	Name       string   `json:"name"`
	Path       string   `json:"path"`
	Sections   []string `json:"sections"`
	Paragraphs int      `json:"paragraphs"`
}

// Pages lists the pages of c in order of first appearance
func Pages(c *Collection) []PageSummary {
	if c == nil {
		return nil
	}

	var pages []PageSummary
	index := make(map[string]int)
	for _, rec := range c.Records {
		i, ok := index[rec.Page]
		if !ok {
			path, _ := SplitLocation(rec.Location)
			pages = append(pages, PageSummary{Name: rec.Page, Path: path, Sections: []string{}})
			i = len(pages) - 1
			index[rec.Page] = i
		}

		switch rec.Category {
		case CategorySection:
			pages[i].Sections = append(pages[i].Sections, rec.Title)
		case CategoryPage:
			pages[i].Paragraphs++
		}
	}
	return pages
}

// PageRecords returns the records of one page in document order
func PageRecords(c *Collection, page string) ([]Match, error) {
	var out []Match
	for i, rec := range c.Records {
		if strings.EqualFold(rec.Page, page) {
			out = append(out, Match{Index: i, Record: rec})
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("page %q: %w", page, ErrNotFound)
	}
	return out, nil
}
