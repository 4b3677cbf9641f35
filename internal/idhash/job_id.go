package idhash

import (
	"crypto/rand"
	"fmt"

	"github.com/mr-tron/base58"
)

// jobIDBytes is the entropy per job identifier. 16 bytes encode to a
// 21-22 character base58 string.
const jobIDBytes = 16

// NewJobID returns a random, URL-safe job identifier in base58. Unlike
// run IDs, job IDs are opaque handles with no derivation from inputs.
func NewJobID() (string, error) {
	buf := make([]byte, jobIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("idhash: reading entropy: %w", err)
	}
	return base58.Encode(buf), nil
}
