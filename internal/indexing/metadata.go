package indexing

import (
	"strings"
)

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"but": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "of": true, "as": true, "by": true, "is": true,
	"it": true, "be": true, "with": true, "from": true, "that": true,
	"we": true, "are": true, "this": true, "can": true,
}

// EstimateTokens estimates the token count for a text string
func EstimateTokens(text string) int {
	return len(text) / CharsPerToken
}

// ExtractKeywords extracts key terms from a title and the start of a text.
// Keywords keep their first-occurrence order so indexing is deterministic.
func ExtractKeywords(title, text string) []string {
	words := strings.Fields(strings.ToLower(title))

	// Add words from first 200 chars of text
	preview := text
	if len(text) > 200 {
		preview = text[:200]
	}
	words = append(words, strings.Fields(strings.ToLower(preview))...)

	seen := make(map[string]bool)
	keywords := make([]string, 0, MaxKeywords)
	for _, word := range words {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'))
		})
		if len(word) <= 2 || stopWords[word] || seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
		if len(keywords) == MaxKeywords {
			break
		}
	}

	return keywords
}

// Breadcrumb builds "Page > Title", collapsing the title when it repeats the page
func Breadcrumb(page, title string) string {
	var parts []string
	if page != "" {
		parts = append(parts, page)
	}
	if title != "" && title != page {
		parts = append(parts, title)
	}
	return strings.Join(parts, " > ")
}

// EnrichMetadata adds breadcrumb, keywords and token count to a document
func EnrichMetadata(doc *Document) {
	doc.Breadcrumb = Breadcrumb(doc.Page, doc.Title)
	doc.Keywords = ExtractKeywords(doc.Title, doc.Text)
	doc.TokenCount = EstimateTokens(doc.Text)
}
