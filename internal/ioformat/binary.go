// Package ioformat implements the low-level binary and ASCII primitives
// shared by the grid and model file codecs (§6): little-endian fixed-width
// fields, length-prefixed UTF-8 strings, and the derived-class extension
// hook's typed helpers (§4.6).
//
// The framing style here — a magic token followed by a sequence of
// typed, self-describing fields read off a plain io.Reader — is grounded
// on the GRIB2 section reader in the retrieved reference pack
// (scorix/grib2, grib2/section/sec0.go and grib2/reader/reader.go), which
// reads a fixed magic, a version/discipline byte, and length fields
// directly off an io.Reader rather than through a generic record-framing
// library. GeoTess's own container format (magic + u32 version + fields)
// is a different, self-contained framing from ISO 8211 record/field
// framing, so it is implemented directly rather than through the
// teacher's ISO 8211 dependency (see DESIGN.md).
package ioformat

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Writer wraps an io.Writer with the little-endian typed-field helpers
// used by every section of the grid and model binary format.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

// Err returns the first error encountered by any Write* call.
func (w *Writer) Err() error { return w.err }

func (w *Writer) write(buf []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(buf)
}

// WriteMagic writes an ASCII magic token with no length prefix (§6 "Magic:
// ASCII ...").
func (w *Writer) WriteMagic(magic string) {
	w.write([]byte(magic))
}

// WriteU16 writes a little-endian uint16.
func (w *Writer) WriteU16(v uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	w.write(buf[:])
}

// WriteU32 writes a little-endian uint32.
func (w *Writer) WriteU32(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	w.write(buf[:])
}

// WriteU64 writes a little-endian uint64.
func (w *Writer) WriteU64(v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	w.write(buf[:])
}

// WriteI64 writes a little-endian int64.
func (w *Writer) WriteI64(v int64) { w.WriteU64(uint64(v)) }

// WriteF32 writes a little-endian IEEE-754 float32.
func (w *Writer) WriteF32(v float32) {
	w.WriteU32(math.Float32bits(v))
}

// WriteF64 writes a little-endian IEEE-754 float64.
func (w *Writer) WriteF64(v float64) {
	w.WriteU64(math.Float64bits(v))
}

// WriteU8 writes a single byte.
func (w *Writer) WriteU8(v uint8) {
	w.write([]byte{v})
}

// WriteString writes a u32 length prefix followed by the UTF-8 bytes of s
// (§6 "strings are UTF-8 with a u32 length prefix").
func (w *Writer) WriteString(s string) {
	w.WriteU32(uint32(len(s)))
	w.write([]byte(s))
}

// WriteStringMap writes a length-prefixed sequence of (key, value) string
// pairs, the nested-map helper promised to derived classes by the
// extension hook contract (§4.6 "typed helpers for ... nested maps").
func (w *Writer) WriteStringMap(m map[string]string) {
	w.WriteU32(uint32(len(m)))
	for k, v := range m {
		w.WriteString(k)
		w.WriteString(v)
	}
}

// Reader wraps an io.Reader with the matching typed-field helpers.
type Reader struct {
	r   io.Reader
	err error
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader { return &Reader{r: r} }

// Err returns the first error encountered by any Read* call. Once set, all
// further reads are no-ops returning zero values, matching the "inner
// loops must not allocate/panic on the error path" design guidance (§9) —
// callers check Err() once at the end of a record instead of after every
// field.
func (r *Reader) Err() error { return r.err }

func (r *Reader) read(buf []byte) {
	if r.err != nil {
		return
	}
	if _, err := io.ReadFull(r.r, buf); err != nil {
		r.err = err
	}
}

// ReadMagic reads len(want) bytes and compares them against want, setting
// Err to a descriptive mismatch error if they differ.
func (r *Reader) ReadMagic(want string) {
	buf := make([]byte, len(want))
	r.read(buf)
	if r.err != nil {
		return
	}
	if string(buf) != want {
		r.err = fmt.Errorf("bad magic: got %q, want %q", buf, want)
	}
}

// ReadU16 reads a little-endian uint16.
func (r *Reader) ReadU16() uint16 {
	var buf [2]byte
	r.read(buf[:])
	if r.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint16(buf[:])
}

// ReadU32 reads a little-endian uint32.
func (r *Reader) ReadU32() uint32 {
	var buf [4]byte
	r.read(buf[:])
	if r.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint32(buf[:])
}

// ReadU64 reads a little-endian uint64.
func (r *Reader) ReadU64() uint64 {
	var buf [8]byte
	r.read(buf[:])
	if r.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint64(buf[:])
}

// ReadI64 reads a little-endian int64.
func (r *Reader) ReadI64() int64 { return int64(r.ReadU64()) }

// ReadF32 reads a little-endian IEEE-754 float32.
func (r *Reader) ReadF32() float32 {
	return math.Float32frombits(r.ReadU32())
}

// ReadF64 reads a little-endian IEEE-754 float64.
func (r *Reader) ReadF64() float64 {
	return math.Float64frombits(r.ReadU64())
}

// ReadU8 reads a single byte.
func (r *Reader) ReadU8() uint8 {
	buf := [1]byte{}
	r.read(buf[:])
	return buf[0]
}

// maxString caps a single length-prefixed string to guard against a
// corrupt length field requesting a multi-gigabyte allocation (§7
// MalformedFile: "truncated payload").
const maxString = 1 << 28

// ReadString reads a u32 length prefix followed by that many UTF-8 bytes.
func (r *Reader) ReadString() string {
	n := r.ReadU32()
	if r.err != nil {
		return ""
	}
	if n > maxString {
		r.err = fmt.Errorf("string length %d exceeds sanity limit", n)
		return ""
	}
	buf := make([]byte, n)
	r.read(buf)
	if r.err != nil {
		return ""
	}
	return string(buf)
}

// ReadStringMap reads the nested-map format written by WriteStringMap.
func (r *Reader) ReadStringMap() map[string]string {
	n := r.ReadU32()
	if r.err != nil {
		return nil
	}
	m := make(map[string]string, n)
	for i := uint32(0); i < n; i++ {
		k := r.ReadString()
		v := r.ReadString()
		if r.err != nil {
			return nil
		}
		m[k] = v
	}
	return m
}
