// Package id generates identifiers: sortable ULIDs and opaque random tokens.
package id

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"time"
)

// Crockford's Base32 alphabet without I, L, O and U.
const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewULID returns a 26-character ULID: 48 bits of milliseconds followed by
// 80 random bits. ULIDs sort lexicographically by creation time.
func NewULID() string {
	return ulidAt(time.Now())
}

func ulidAt(t time.Time) string {
	var raw [16]byte
	ms := uint64(t.UnixMilli())
	raw[0] = byte(ms >> 40)
	raw[1] = byte(ms >> 32)
	binary.BigEndian.PutUint32(raw[2:6], uint32(ms))
	if _, err := rand.Read(raw[6:]); err != nil {
		binary.BigEndian.PutUint64(raw[8:], uint64(t.UnixNano()))
	}

	// 128 bits are encoded as 26 groups of 5 bits; the first group holds only 3.
	var out [26]byte
	hi := binary.BigEndian.Uint64(raw[:8])
	lo := binary.BigEndian.Uint64(raw[8:])
	for i := 25; i >= 0; i-- {
		out[i] = crockford[lo&0x1F]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out[:])
}

// NewToken returns n random bytes encoded as unpadded base64url.
// It is used for values that must be unguessable, such as session tokens.
func NewToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
