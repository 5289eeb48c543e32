package indexing

// Indexing constants
const (
	// BatchSize is the number of records submitted to bleve per batch
	BatchSize = 100

	// CharsPerToken is the approximation for token estimation
	CharsPerToken = 4

	// MaxKeywords caps the keywords stored per record
	MaxKeywords = 10

	// IndexSchemaVersion increments when the indexed document layout changes
	// v1: records indexed as-is, v2: keyword fields plus position for document order,
	// v3: page lowercased for case-insensitive filtering
	IndexSchemaVersion = 3

	// VersionFile is written next to the index directory
	VersionFile = ".index_version"

	// FingerprintFile records the fingerprint of the artifact an index was built from
	FingerprintFile = ".fingerprint"
)
