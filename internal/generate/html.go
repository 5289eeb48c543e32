package generate

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/docindex/docindex-mcp/internal/searchindex"
)

const (
	headingSelector = "h1, h2, h3, h4, h5, h6"
	blockSelector   = "p, pre, ul, ol, blockquote, table"
)

// contentRoots are tried in order to find the rendered page body
var contentRoots = []string{"article#docs", "article", "main", "body"}

// HTMLParser reads pages of an already rendered documentation site.
// Headings keep the anchor ids the site generator assigned to them.
type HTMLParser struct{}

// ParsePage implements PageParser
func (HTMLParser) ParsePage(file string, content []byte, title string) ([]searchindex.Record, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	root := doc.Selection
	for _, sel := range contentRoots {
		if found := doc.Find(sel).First(); found.Length() > 0 {
			root = found
			break
		}
	}

	pageName := title
	if pageName == "" {
		pageName = CollapseSpace(root.Find("h1").First().Text())
	}
	if pageName == "" {
		pageName, _, _ = strings.Cut(CollapseSpace(doc.Find("title").First().Text()), " · ")
	}
	if pageName == "" {
		pageName = strings.TrimSuffix(path.Base(file), path.Ext(file))
	}

	pagePath := searchindex.PagePath(file)
	anchors := searchindex.NewAnchorSet()
	var records []searchindex.Record

	root.Find(headingSelector + ", " + blockSelector).Each(func(_ int, s *goquery.Selection) {
		// Nested blocks are covered by their outermost block
		if s.ParentsUntilSelection(root).Filter(blockSelector).Length() > 0 {
			return
		}

		if s.Is(headingSelector) {
			heading := CollapseSpace(s.Text())
			if heading == "" {
				return
			}
			records = append(records, searchindex.Record{
				Location: pagePath + "#" + headingAnchor(s, heading, anchors),
				Page:     pageName,
				Title:    heading,
				Category: searchindex.CategorySection,
			})
			return
		}

		text := blockText(s)
		if text == "" {
			return
		}
		records = append(records, searchindex.Record{
			Location: searchindex.PageLocation(file),
			Page:     pageName,
			Title:    pageName,
			Text:     text,
			Category: searchindex.CategoryPage,
		})
	})

	return records, nil
}

// headingAnchor prefers the id rendered on the heading or on an anchor inside it
func headingAnchor(s *goquery.Selection, heading string, anchors *searchindex.AnchorSet) string {
	id := s.AttrOr("id", "")
	if id == "" {
		id = s.Find("a[id]").First().AttrOr("id", "")
	}
	if id != "" && anchors.Reserve(id) {
		return id
	}
	return anchors.Next(heading)
}

func blockText(s *goquery.Selection) string {
	switch goquery.NodeName(s) {
	case "pre":
		return strings.TrimSpace(s.Text())
	case "ul", "ol":
		var items []string
		s.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
			if item := CollapseSpace(li.Text()); item != "" {
				items = append(items, item)
			}
		})
		return strings.Join(items, "\n")
	}
	return CollapseSpace(s.Text())
}
