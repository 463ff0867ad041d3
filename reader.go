// Copyright 2026 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffmeta

import (
	"encoding/binary"
	"io"
	"math"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// source is the shared backing store of one or more IndexedReader views.
type source interface {
	// slice returns n bytes starting at the absolute index i.
	// The returned slice must not be modified.
	slice(i int64, n int64) ([]byte, error)

	// available reports whether n bytes starting at i can be read.
	available(i int64, n int64) (bool, error)

	// size returns the total size, reading to the end of the stream if needed.
	size() (int64, error)
}

// IndexedReader is a random access, bounds checked and byte order aware
// view over a byte source.
//
// An IndexedReader is a small value. WithByteOrder and WithShiftedBaseOffset
// return new views sharing the same storage; no view is ever modified.
type IndexedReader struct {
	src   source
	order binary.ByteOrder
	base  int64
}

// NewByteReader creates a new big endian IndexedReader over b.
// The caller must not modify b while it is in use.
func NewByteReader(b []byte) IndexedReader {
	return IndexedReader{src: byteSource(b), order: binary.BigEndian}
}

// NewStreamReader creates a new big endian IndexedReader that lazily buffers r
// in fixed size chunks as the indexes it is asked for grow.
// Note that the returned reader and any views derived from it are not safe for
// concurrent use.
func NewStreamReader(r io.Reader) IndexedReader {
	return IndexedReader{src: &streamSource{r: r}, order: binary.BigEndian}
}

// ByteOrder returns the byte order used for multi byte reads.
func (r IndexedReader) ByteOrder() binary.ByteOrder {
	return r.order
}

// IsBigEndian reports whether the reader uses big endian (Motorola) byte order.
func (r IndexedReader) IsBigEndian() bool {
	return r.order == binary.BigEndian
}

// WithByteOrder returns a view of the same data using the given byte order.
func (r IndexedReader) WithByteOrder(order binary.ByteOrder) IndexedReader {
	r.order = order
	return r
}

// WithShiftedBaseOffset returns a view where index 0 maps to index shift
// in this reader.
func (r IndexedReader) WithShiftedBaseOffset(shift int64) IndexedReader {
	r.base += shift
	return r
}

// Length returns the number of bytes available from the base offset.
// For stream backed readers this reads the remainder of the stream.
func (r IndexedReader) Length() (int64, error) {
	n, err := r.src.size()
	if err != nil {
		return 0, err
	}
	return max(n-r.base, 0), nil
}

// IsValidIndex reports whether n bytes can be read starting at index.
// The error is only set on I/O failures.
func (r IndexedReader) IsValidIndex(index, n int64) (bool, error) {
	if index < 0 || n < 0 {
		return false, nil
	}
	return r.src.available(r.base+index, n)
}

// absolute returns the position of index in the backing source.
func (r IndexedReader) absolute(index int64) int64 {
	return r.base + index
}

func (r IndexedReader) bytesVolatile(index, n int64) ([]byte, error) {
	if index < 0 || n < 0 {
		return nil, &BoundsError{Index: index, Length: n}
	}
	b, err := r.src.slice(r.base+index, n)
	if be, ok := err.(*BoundsError); ok {
		return nil, &BoundsError{Index: index, Length: n, Available: max(be.Available-r.base, 0)}
	}
	return b, err
}

// Bytes returns a copy of the n bytes starting at index.
func (r IndexedReader) Bytes(index int64, n int) ([]byte, error) {
	b, err := r.bytesVolatile(index, int64(n))
	if err != nil {
		return nil, err
	}
	b2 := make([]byte, n)
	copy(b2, b)
	return b2, nil
}

// Uint8 reads an unsigned 8-bit integer at index.
func (r IndexedReader) Uint8(index int64) (uint8, error) {
	b, err := r.bytesVolatile(index, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Int8 reads a signed 8-bit integer at index.
func (r IndexedReader) Int8(index int64) (int8, error) {
	v, err := r.Uint8(index)
	return int8(v), err
}

// Uint16 reads an unsigned 16-bit integer at index.
func (r IndexedReader) Uint16(index int64) (uint16, error) {
	b, err := r.bytesVolatile(index, 2)
	if err != nil {
		return 0, err
	}
	return r.order.Uint16(b), nil
}

// Int16 reads a signed 16-bit integer at index.
func (r IndexedReader) Int16(index int64) (int16, error) {
	v, err := r.Uint16(index)
	return int16(v), err
}

// Uint32 reads an unsigned 32-bit integer at index.
func (r IndexedReader) Uint32(index int64) (uint32, error) {
	b, err := r.bytesVolatile(index, 4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(b), nil
}

// Int32 reads a signed 32-bit integer at index.
func (r IndexedReader) Int32(index int64) (int32, error) {
	v, err := r.Uint32(index)
	return int32(v), err
}

// Uint64 reads an unsigned 64-bit integer at index.
func (r IndexedReader) Uint64(index int64) (uint64, error) {
	b, err := r.bytesVolatile(index, 8)
	if err != nil {
		return 0, err
	}
	return r.order.Uint64(b), nil
}

// Int64 reads a signed 64-bit integer at index.
func (r IndexedReader) Int64(index int64) (int64, error) {
	v, err := r.Uint64(index)
	return int64(v), err
}

// Float32 reads an IEEE 754 single precision float at index.
func (r IndexedReader) Float32(index int64) (float32, error) {
	v, err := r.Uint32(index)
	return math.Float32frombits(v), err
}

// Float64 reads an IEEE 754 double precision float at index.
func (r IndexedReader) Float64(index int64) (float64, error) {
	v, err := r.Uint64(index)
	return math.Float64frombits(v), err
}

// String reads n bytes at index as a string.
// Byte sequences that are not valid UTF-8 are decoded as ISO-8859-1.
func (r IndexedReader) String(index int64, n int) (string, error) {
	b, err := r.bytesVolatile(index, int64(n))
	if err != nil {
		return "", err
	}
	return decodeText(b), nil
}

// NullTerminatedBytes reads up to maxLen bytes at index, stopping before the
// first NUL byte. The returned slice is a copy.
func (r IndexedReader) NullTerminatedBytes(index int64, maxLen int) ([]byte, error) {
	b, err := r.bytesVolatile(index, int64(maxLen))
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), cutNull(b)...), nil
}

// NullTerminatedString is like NullTerminatedBytes but returns a string.
func (r IndexedReader) NullTerminatedString(index int64, maxLen int) (string, error) {
	b, err := r.bytesVolatile(index, int64(maxLen))
	if err != nil {
		return "", err
	}
	return decodeText(cutNull(b)), nil
}

func cutNull(b []byte) []byte {
	for i, c := range b {
		if c == 0 {
			return b[:i]
		}
	}
	return b
}

func decodeText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}

func otherByteOrder(order binary.ByteOrder) binary.ByteOrder {
	if order == binary.BigEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

type byteSource []byte

func (b byteSource) slice(i, n int64) ([]byte, error) {
	if i < 0 || n < 0 || i+n > int64(len(b)) {
		return nil, &BoundsError{Index: i, Length: n, Available: int64(len(b))}
	}
	return b[i : i+n], nil
}

func (b byteSource) available(i, n int64) (bool, error) {
	return i >= 0 && n >= 0 && i+n <= int64(len(b)), nil
}

func (b byteSource) size() (int64, error) {
	return int64(len(b)), nil
}
