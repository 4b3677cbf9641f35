package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeRunID computes a deterministic run_id using SHA256.
// Formula: SHA256(kind|params_json|horizon_months|seed)
// Returns hex-encoded hash (64 characters).
//
// Two runs with identical kind, canonical parameter JSON, horizon and seed
// therefore share an ID, which is what lets the run store deduplicate
// re-submissions.
func ComputeRunID(kind string, paramsJSON []byte, horizonMonths int, seed int64) string {
	data := fmt.Sprintf("%s|%s|%d|%d",
		kind,
		paramsJSON,
		horizonMonths,
		seed,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
