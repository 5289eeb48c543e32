package searchindex

// Category tags a record as either a whole-page paragraph or a section heading
type Category string

const (
	CategoryPage    Category = "page"
	CategorySection Category = "section"
)

// Categories lists the fixed category vocabulary
var Categories = []Category{CategoryPage, CategorySection}

// Valid reports whether c is part of the known vocabulary
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Record is one entry of a documentation search index
type Record struct {
	Location string   `json:"location"`
	Page     string   `json:"page"`
	Title    string   `json:"title"`
	Text     string   `json:"text"`
	Category Category `json:"category"`
}

// Collection is the ordered set of records stored under a single key
type Collection struct {
	Name     string   // Key of the array in the artifact, e.g. "docs"
	Variable string   // JavaScript variable the artifact assigns to; empty for bare JSON
	Records  []Record // Document order
}

// NewCollection returns an empty collection stored under DefaultKey and
// assigned to DefaultVariable
func NewCollection() *Collection {
	return &Collection{Name: DefaultKey, Variable: DefaultVariable}
}

// Len returns the number of records
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Records)
}

// Append adds records at the end of the collection
func (c *Collection) Append(records ...Record) {
	c.Records = append(c.Records, records...)
}
