package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashToken: only hashes of refresh tokens are stored in the database.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
