package searchindex

import (
	"fmt"
	"path"
	"strings"
	"unicode"
)

// SplitLocation splits "introduction.html#Api-1" into its page path and anchor
func SplitLocation(loc string) (string, string) {
	page, anchor, _ := strings.Cut(loc, "#")
	return page, anchor
}

// PageLocation returns the page-level location used by paragraph records,
// e.g. "introduction.md" -> "introduction.html#"
func PageLocation(source string) string {
	return PagePath(source) + "#"
}

// PagePath maps a source file name to its rendered HTML path
func PagePath(source string) string {
	source = strings.TrimPrefix(path.Clean(strings.ReplaceAll(source, "\\", "/")), "./")
	ext := path.Ext(source)
	switch ext {
	case ".html":
		return source
	case "":
		return source + ".html"
	}
	return strings.TrimSuffix(source, ext) + ".html"
}

// Slugify turns a heading into an anchor slug: runs of whitespace become a
// single hyphen, and characters that cannot appear in a URL fragment are
// dropped. Parentheses and hyphens are kept.
// Example: "Correlated process (time-series)" -> "Correlated-process-(time-series)"
func Slugify(heading string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.TrimSpace(heading) {
		switch {
		case unicode.IsSpace(r):
			pendingDash = true
			continue
		case unicode.IsLetter(r), unicode.IsDigit(r), strings.ContainsRune("-_.()", r):
		default:
			continue
		}
		if pendingDash && b.Len() > 0 {
			b.WriteByte('-')
		}
		pendingDash = false
		b.WriteRune(r)
	}
	return b.String()
}

// AnchorSet hands out unique anchors within one page. Each slug gets a
// counter suffix starting at 1, so a heading repeated twice yields
// "Api-1" and "Api-2".
type AnchorSet struct {
	counts map[string]int
	used   map[string]bool
}

// NewAnchorSet creates an empty anchor set
func NewAnchorSet() *AnchorSet {
	return &AnchorSet{
		counts: make(map[string]int),
		used:   make(map[string]bool),
	}
}

// Next returns the next unused anchor for heading
func (s *AnchorSet) Next(heading string) string {
	slug := Slugify(heading)
	for {
		s.counts[slug]++
		anchor := fmt.Sprintf("%s-%d", slug, s.counts[slug])
		if !s.used[anchor] {
			s.used[anchor] = true
			return anchor
		}
	}
}

// Reserve marks an explicit anchor as used. It returns false when the anchor
// was already taken.
func (s *AnchorSet) Reserve(anchor string) bool {
	if s.used[anchor] {
		return false
	}
	s.used[anchor] = true
	return true
}
