// Package cas computes the content hashes used to identify rendered
// documents.
package cas

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"regexp"

	"github.com/zeebo/blake3"
)

var (
	// ErrInvalidHash is returned when a hash string is not 64 lowercase hex characters.
	ErrInvalidHash = errors.New("invalid hash format")
	// ErrHashMismatch is returned by Verify when data does not hash to the expected values.
	ErrHashMismatch = errors.New("hash mismatch")
)

var hashPattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// HashResult contains both SHA-256 and BLAKE3 hashes of the same bytes.
type HashResult struct {
	SHA256 string `json:"sha256"`
	BLAKE3 string `json:"blake3"`
}

// Sum hashes data with both algorithms.
func Sum(data []byte) HashResult {
	return HashResult{
		SHA256: Hash(data),
		BLAKE3: Blake3Hash(data),
	}
}

// Hash computes the SHA-256 hash of data.
func Hash(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Blake3Hash computes the BLAKE3 hash of data.
func Blake3Hash(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}

// IsValidHash reports whether hash looks like a hex encoded 256-bit digest.
func IsValidHash(hash string) bool {
	return hashPattern.MatchString(hash)
}

// Short returns the first 12 characters of the SHA-256 hash.
func (r HashResult) Short() string {
	if len(r.SHA256) < 12 {
		return r.SHA256
	}
	return r.SHA256[:12]
}

// Verify checks data against both hashes in r.
func (r HashResult) Verify(data []byte) error {
	if !IsValidHash(r.SHA256) || !IsValidHash(r.BLAKE3) {
		return ErrInvalidHash
	}
	if got := Sum(data); got != r {
		return ErrHashMismatch
	}
	return nil
}
