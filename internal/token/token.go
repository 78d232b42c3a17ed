// Package token generates the opaque keys used for sessions and room
// lookup.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"time"
)

const saltBytes = 256

// Generate produces a fresh opaque token. The digest input mixes the
// current time at nanosecond resolution, a large random value, and the
// caller-supplied salt, so two calls can never collide in practice. The
// salt is a uniqueness input, not a secret.
func Generate(salt string) (string, error) {
	random := make([]byte, saltBytes)
	if _, err := rand.Read(random); err != nil {
		return "", err
	}

	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(time.Now().UnixNano()))

	h := sha256.New()
	h.Write(ts[:])
	h.Write(random)
	h.Write([]byte(salt))
	return hex.EncodeToString(h.Sum(nil)), nil
}
