package searchindex

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint returns a stable hash of the collection key and records.
// Collections with equal fingerprints are structurally identical; the
// JavaScript variable name is not part of the hash.
func Fingerprint(c *Collection) (string, error) {
	data, err := EncodeBytes(c, EncodeOptions{Bare: true})
	if err != nil {
		return "", fmt.Errorf("failed to encode for fingerprint: %w", err)
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data)), nil
}
