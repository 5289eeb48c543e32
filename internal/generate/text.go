package generate

import "strings"

// texDropped are the characters removed from TeX before it is indexed, so
// "\frac{1}{n}" is searchable as "frac1n"
const texDropped = `\{}[],'/`

// StripTeX flattens TeX markup into searchable text
func StripTeX(tex string) string {
	return CollapseSpace(strings.Map(func(r rune) rune {
		if strings.ContainsRune(texDropped, r) {
			return -1
		}
		return r
	}, tex))
}

// CollapseSpace trims s and folds whitespace runs into single spaces
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
