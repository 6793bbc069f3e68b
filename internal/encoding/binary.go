// Package encoding provides the little-endian binary primitives shared by
// the itq and shardstore packages for the on-disk formats described in
// the index file format (hash.param, hash.file.pos, bucket shard files).
package encoding

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
)

// ErrShortRead is returned when a read yields fewer bytes than requested.
var ErrShortRead = errors.New("encoding: short read")

// WriteU32 writes v as an unsigned 32-bit little-endian integer.
func WriteU32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// ReadU32 reads an unsigned 32-bit little-endian integer.
func ReadU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return 0, ErrShortRead
		}
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// WriteBytes writes raw bytes verbatim (used for fixed-width codes and
// shard-name prefixes, which are not length-prefixed on the wire).
func WriteBytes(w io.Writer, b []byte) error {
	_, err := w.Write(b)
	return err
}

// ReadBytes reads exactly n raw bytes.
func ReadBytes(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, ErrShortRead
		}
		return nil, err
	}
	return buf, nil
}

// WriteF32 writes a single IEEE-754 32-bit little-endian float.
func WriteF32(w io.Writer, v float32) error {
	return WriteU32(w, math.Float32bits(v))
}

// ReadF32 reads a single IEEE-754 32-bit little-endian float.
func ReadF32(r io.Reader) (float32, error) {
	bits, err := ReadU32(r)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// WriteF32Slice writes a slice of float32 values back to back.
func WriteF32Slice(w io.Writer, vals []float32) error {
	buf := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	_, err := w.Write(buf)
	return err
}

// ReadF32Slice reads n float32 values back to back.
func ReadF32Slice(r io.Reader, n int) ([]float32, error) {
	buf := make([]byte, 4*n)
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, ErrShortRead
		}
		return nil, err
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return out, nil
}

// HasNonFinite reports whether any element of v is NaN or +/-Inf.
func HasNonFinite(v []float32) bool {
	for _, x := range v {
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return true
		}
	}
	return false
}
