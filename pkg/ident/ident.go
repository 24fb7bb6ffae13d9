package ident

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewUserID generates a new anonymous user identifier. The raw UUID never
// leaves the service; votes are keyed on the derived hex id.
func NewUserID() string {
	return HashUserID(uuid.NewString())
}

// SHA256Hex returns the hex-encoded SHA256 hash of the input string.
func SHA256Hex(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// IteratedSHA256 applies SHA256 iteratively n times to produce a derived hash.
func IteratedSHA256(input string, iterations int) string {
	data := []byte(input)
	for range iterations {
		h := sha256.Sum256(data)
		data = h[:]
	}
	return hex.EncodeToString(data)
}

// HashUserID derives the public user id from a locally generated UUID
// with 5000 iterations of SHA256, so session tokens and stored votes
// never contain the original value.
func HashUserID(localUUID string) string {
	return IteratedSHA256(localUUID, 5000)
}

// HashToken produces the storage key for a session token. Tokens are
// stored hashed so a leaked session store cannot be replayed.
func HashToken(token string) string {
	return SHA256Hex(token)
}
