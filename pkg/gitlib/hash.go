// Package gitlib wraps the small libgit2 surface gitseek needs: opening a
// repository, resolving references, walking the history of one path, and
// loading blob contents.
package gitlib

import (
	"encoding/hex"
	"errors"
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// HashSize is the size of a SHA-1 object id in bytes.
const HashSize = 20

// shortHashLen is the abbreviated length used in user-facing output.
const shortHashLen = 8

// ErrInvalidHash is returned when a hex string does not decode to an object id.
var ErrInvalidHash = errors.New("invalid object hash")

// Hash is a git object id.
type Hash [HashSize]byte

// ParseHash decodes a full 40-character hex object id.
func ParseHash(hexStr string) (Hash, error) {
	var hash Hash

	if len(hexStr) != HashSize*2 {
		return hash, fmt.Errorf("%w: %q", ErrInvalidHash, hexStr)
	}

	_, err := hex.Decode(hash[:], []byte(hexStr))
	if err != nil {
		return hash, fmt.Errorf("%w: %q", ErrInvalidHash, hexStr)
	}

	return hash, nil
}

// HashFromOid converts a libgit2 oid.
func HashFromOid(oid *git2go.Oid) Hash {
	var hash Hash
	copy(hash[:], oid[:])

	return hash
}

// ToOid converts the hash back to a libgit2 oid.
func (h Hash) ToOid() *git2go.Oid {
	oid := new(git2go.Oid)
	copy(oid[:], h[:])

	return oid
}

// String returns the full hex form.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Short returns the abbreviated hex form.
func (h Hash) Short() string {
	return h.String()[:shortHashLen]
}

// IsZero reports whether the hash is the zero id.
func (h Hash) IsZero() bool {
	return h == Hash{}
}
