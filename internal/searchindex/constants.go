package searchindex

const (
	// DefaultKey is the name of the single array-valued key in the artifact
	DefaultKey = "docs"

	// DefaultVariable is the JavaScript variable the artifact assigns to
	DefaultVariable = "documenterSearchIndex"
)
