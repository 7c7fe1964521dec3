package token

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashLength is the number of hex characters Hash returns.
const HashLength = sha256.Size * 2

// Hash returns the lowercase hex SHA-256 digest of data.
func Hash(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

// Equal compares two digests in constant time. Use it whenever one side
// comes from an untrusted request.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
