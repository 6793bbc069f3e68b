// Package code implements the fixed-width binary code used to key ITQ-LSH
// hash buckets (spec.md §3). A Code packs up to 256 bits into four
// uint64 words instead of the heap-allocated ASCII string the reference
// implementation keys its tables with (spec.md §9 design notes); String
// and Parse convert to and from the ASCII '0'/'1' wire format required
// at (de)serialization boundaries.
package code

import (
	"fmt"
	"math/bits"
	"strings"
)

// MaxBits is the largest code width this package supports.
const MaxBits = 256

const words = MaxBits / 64

// Code is a fixed-width packed bitset. Bit i (0-based) lives in word
// i/64 at position i%64. Position i corresponds to the i-th component of
// the projected-and-rotated vector (spec.md §4.4) — there is no MSB/LSB
// reversal between bit index and string index.
type Code [words]uint64

// Set sets bit i to 1.
func (c *Code) Set(i int) {
	c[i/64] |= 1 << uint(i%64)
}

// Bit reports whether bit i is set.
func (c Code) Bit(i int) bool {
	return c[i/64]&(1<<uint(i%64)) != 0
}

// Flip toggles bit i and returns the resulting code (c is left
// unmodified).
func (c Code) Flip(i int) Code {
	out := c
	out[i/64] ^= 1 << uint(i%64)
	return out
}

// mask returns a Code with the low n bits set, used to zero out any
// stray bits above the configured width before hashing or comparing.
func mask(n int) Code {
	var m Code
	full := n / 64
	for i := 0; i < full; i++ {
		m[i] = ^uint64(0)
	}
	if rem := n % 64; rem > 0 {
		m[full] = (uint64(1) << uint(rem)) - 1
	}
	return m
}

// Masked clears every bit at or above position n.
func (c Code) Masked(n int) Code {
	m := mask(n)
	var out Code
	for i := range out {
		out[i] = c[i] & m[i]
	}
	return out
}

// HammingDistance returns the number of differing bits among the low n
// bits of a and b.
func HammingDistance(a, b Code, n int) int {
	m := mask(n)
	dist := 0
	for i := range a {
		dist += bits.OnesCount64((a[i] ^ b[i]) & m[i])
	}
	return dist
}

// String renders the low n bits as an ASCII '0'/'1' string, position i
// of the string corresponding to bit i of the code (spec.md §3/§6).
func (c Code) String(n int) string {
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		if c.Bit(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Parse decodes an ASCII '0'/'1' string into a Code. The string length
// becomes the code's bit width.
func Parse(s string) (Code, error) {
	if len(s) > MaxBits {
		return Code{}, fmt.Errorf("code: width %d exceeds maximum %d", len(s), MaxBits)
	}
	var c Code
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '1':
			c.Set(i)
		case '0':
			// already zero
		default:
			return Code{}, fmt.Errorf("code: invalid byte %q at position %d, want '0' or '1'", s[i], i)
		}
	}
	return c, nil
}

// FromBytes decodes a raw N-byte ASCII '0'/'1' buffer as read directly
// off the wire (spec.md §6), avoiding an intermediate string allocation.
func FromBytes(b []byte) (Code, error) {
	if len(b) > MaxBits {
		return Code{}, fmt.Errorf("code: width %d exceeds maximum %d", len(b), MaxBits)
	}
	var c Code
	for i, v := range b {
		switch v {
		case '1':
			c.Set(i)
		case '0':
		default:
			return Code{}, fmt.Errorf("code: invalid byte %q at position %d, want '0' or '1'", v, i)
		}
	}
	return c, nil
}

// Bytes renders the low n bits as raw ASCII '0'/'1' bytes, for writing
// directly to a shard/index file without an intermediate string.
func (c Code) Bytes(n int) []byte {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		if c.Bit(i) {
			out[i] = '1'
		} else {
			out[i] = '0'
		}
	}
	return out
}
