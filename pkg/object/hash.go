package object

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/pjbgf/sha1cd"
)

const (
	// HashSize is the length of a raw SHA-1 digest in bytes.
	HashSize = 20
	// HashHexSize is the length of a hex-encoded digest.
	HashHexSize = 2 * HashSize
)

// Hash is a 40-character lowercase hex-encoded SHA-1 digest.
type Hash string

func (h Hash) String() string {
	return string(h)
}

// Short returns the first 7 characters of the hash.
func (h Hash) Short() string {
	if len(h) > 7 {
		return string(h[:7])
	}
	return string(h)
}

// Raw decodes the hash into its packed 20-byte form, the representation
// embedded inside tree bodies.
func (h Hash) Raw() ([HashSize]byte, error) {
	var out [HashSize]byte
	if err := h.Validate(); err != nil {
		return out, err
	}
	if _, err := hex.Decode(out[:], []byte(h)); err != nil {
		return out, fmt.Errorf("%w: %q", ErrInvalidDigest, string(h))
	}
	return out, nil
}

// Validate reports ErrInvalidDigest unless h is exactly 40 lowercase hex
// characters.
func (h Hash) Validate() error {
	if len(h) != HashHexSize {
		return fmt.Errorf("%w: %q: want %d hex characters, got %d", ErrInvalidDigest, string(h), HashHexSize, len(h))
	}
	for i := 0; i < len(h); i++ {
		c := h[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return fmt.Errorf("%w: %q: invalid character %q at %d", ErrInvalidDigest, string(h), c, i)
		}
	}
	return nil
}

// ParseHash validates a user-supplied hex digest. Upper-case hex is accepted
// and normalized to lower case.
func ParseHash(s string) (Hash, error) {
	h := Hash(strings.ToLower(strings.TrimSpace(s)))
	if err := h.Validate(); err != nil {
		return "", err
	}
	return h, nil
}

// HashFromRaw converts a packed 20-byte digest to its hex form.
func HashFromRaw(raw []byte) (Hash, error) {
	if len(raw) != HashSize {
		return "", fmt.Errorf("%w: raw digest is %d bytes, want %d", ErrInvalidDigest, len(raw), HashSize)
	}
	return Hash(hex.EncodeToString(raw)), nil
}

// envelopeHeader renders the "type len\0" prefix shared by hashing and
// storage. Changing it invalidates every stored object.
func envelopeHeader(objType ObjectType, n int) []byte {
	header := make([]byte, 0, len(objType)+1+20+1)
	header = append(header, objType...)
	header = append(header, ' ')
	header = strconv.AppendInt(header, int64(n), 10)
	return append(header, 0)
}

// HashObject computes the SHA-1 of the envelope "type len\0content", the
// same digest git assigns to the object.
func HashObject(objType ObjectType, data []byte) Hash {
	h := sha1cd.New()
	h.Write(envelopeHeader(objType, len(data)))
	h.Write(data)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}
