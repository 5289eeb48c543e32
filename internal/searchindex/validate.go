package searchindex

import "strings"

// Validate checks every record of c and reports all violations at once.
// It returns nil when the collection is valid, otherwise a *ValidationErrors.
func Validate(c *Collection) error {
	verrs := &ValidationErrors{}

	if c == nil {
		verrs.add(CodeSchema, -1, "collection is nil")
		return verrs
	}
	if c.Name == "" {
		verrs.add(CodeSchema, -1, "collection key is empty")
	}

	sections := make(map[string]int)
	for i, rec := range c.Records {
		if strings.TrimSpace(rec.Location) == "" {
			verrs.add(CodeEmptyLocation, i, "location is empty")
		} else if !strings.Contains(rec.Location, "#") {
			verrs.add(CodeMalformedLocation, i, "location %q has no anchor separator", rec.Location)
		}

		if !rec.Category.Valid() {
			verrs.add(CodeUnknownCategory, i, "category %q is not one of %v", rec.Category, Categories)
			continue
		}

		if rec.Category != CategorySection {
			continue
		}
		if rec.Location == "" {
			continue
		}
		if first, seen := sections[rec.Location]; seen {
			verrs.add(CodeDuplicateSection, i, "section location %q already used by record %d", rec.Location, first)
		} else {
			sections[rec.Location] = i
		}
	}

	if len(verrs.Errors) == 0 {
		return nil
	}
	return verrs
}
