package searchindex

// ChangeKind classifies a difference between two collections
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeRemoved  ChangeKind = "removed"
	ChangeModified ChangeKind = "modified"
)

// Change is one positional difference between two collections
type Change struct {
	Kind  ChangeKind `json:"kind"`
	Index int        `json:"index"`
	Old   *Record    `json:"old,omitempty"`
	New   *Record    `json:"new,omitempty"`
}

// Diff compares a and b record by record. Records beyond the shorter
// collection are reported as added or removed.
func Diff(a, b *Collection) []Change {
	var changes []Change

	n := max(a.Len(), b.Len())
	for i := 0; i < n; i++ {
		switch {
		case i >= a.Len():
			rec := b.Records[i]
			changes = append(changes, Change{Kind: ChangeAdded, Index: i, New: &rec})
		case i >= b.Len():
			rec := a.Records[i]
			changes = append(changes, Change{Kind: ChangeRemoved, Index: i, Old: &rec})
		case a.Records[i] != b.Records[i]:
			old, cur := a.Records[i], b.Records[i]
			changes = append(changes, Change{Kind: ChangeModified, Index: i, Old: &old, New: &cur})
		}
	}

	return changes
}

// Equal reports whether two collections hold the same key and records in the same order
func Equal(a, b *Collection) bool {
	if a.Len() != b.Len() {
		return false
	}
	if a != nil && b != nil && a.Name != b.Name {
		return false
	}
	return len(Diff(a, b)) == 0
}
