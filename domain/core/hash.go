package core

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Short returns the first 12 hex characters, enough for log lines
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// DatasetHash fingerprints the cleaned content of a loaded dataset
type DatasetHash Hash

// String returns the string representation
func (h DatasetHash) String() string { return Hash(h).String() }

// Short returns the abbreviated fingerprint
func (h DatasetHash) Short() string { return Hash(h).Short() }

// ComputeDatasetHash fingerprints a dataset from its row renderings.
// Rows must already be in a stable order.
func ComputeDatasetHash(rows []string) DatasetHash {
	var data strings.Builder
	for _, row := range rows {
		data.WriteString(row)
		data.WriteByte('\n')
	}
	return DatasetHash(NewHash([]byte(data.String())))
}
