// Copyright 2026 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffmeta

import (
	"encoding/binary"
	"io"
	"math"
)

// seqState is the cursor shared between SequentialReader views.
type seqState struct {
	r   io.Reader
	pos int64
	buf [8]byte
}

// SequentialReader reads binary data from a monotonic cursor.
// Note that this is not thread safe.
type SequentialReader struct {
	s     *seqState
	order binary.ByteOrder
}

// NewSequentialReader creates a new SequentialReader reading from r.
func NewSequentialReader(r io.Reader, order binary.ByteOrder) *SequentialReader {
	return &SequentialReader{s: &seqState{r: r}, order: order}
}

// WithByteOrder returns a reader sharing the cursor with r using a different byte order.
func (r *SequentialReader) WithByteOrder(order binary.ByteOrder) *SequentialReader {
	return &SequentialReader{s: r.s, order: order}
}

// ByteOrder returns the byte order used for multi byte reads.
func (r *SequentialReader) ByteOrder() binary.ByteOrder {
	return r.order
}

// Position returns the number of bytes consumed so far.
func (r *SequentialReader) Position() int64 {
	return r.s.pos
}

// readN reads n bytes into the shared scratch buffer.
// The returned slice is only valid until the next read.
func (r *SequentialReader) readN(n int) ([]byte, error) {
	b := r.s.buf[:n]
	m, err := io.ReadFull(r.s.r, b)
	r.s.pos += int64(m)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Uint8 reads an unsigned 8-bit integer.
func (r *SequentialReader) Uint8() (uint8, error) {
	b, err := r.readN(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Int8 reads a signed 8-bit integer.
func (r *SequentialReader) Int8() (int8, error) {
	v, err := r.Uint8()
	return int8(v), err
}

// Uint16 reads an unsigned 16-bit integer.
func (r *SequentialReader) Uint16() (uint16, error) {
	b, err := r.readN(2)
	if err != nil {
		return 0, err
	}
	return r.order.Uint16(b), nil
}

// Int16 reads a signed 16-bit integer.
func (r *SequentialReader) Int16() (int16, error) {
	v, err := r.Uint16()
	return int16(v), err
}

// Uint32 reads an unsigned 32-bit integer.
func (r *SequentialReader) Uint32() (uint32, error) {
	b, err := r.readN(4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(b), nil
}

// Int32 reads a signed 32-bit integer.
func (r *SequentialReader) Int32() (int32, error) {
	v, err := r.Uint32()
	return int32(v), err
}

// Uint64 reads an unsigned 64-bit integer.
func (r *SequentialReader) Uint64() (uint64, error) {
	b, err := r.readN(8)
	if err != nil {
		return 0, err
	}
	return r.order.Uint64(b), nil
}

// Int64 reads a signed 64-bit integer.
func (r *SequentialReader) Int64() (int64, error) {
	v, err := r.Uint64()
	return int64(v), err
}

// Float32 reads an IEEE 754 single precision float.
func (r *SequentialReader) Float32() (float32, error) {
	v, err := r.Uint32()
	return math.Float32frombits(v), err
}

// Float64 reads an IEEE 754 double precision float.
func (r *SequentialReader) Float64() (float64, error) {
	v, err := r.Uint64()
	return math.Float64frombits(v), err
}

// Bytes reads the next n bytes into a new slice.
func (r *SequentialReader) Bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, &BoundsError{Index: r.s.pos, Length: int64(n)}
	}
	b := make([]byte, n)
	m, err := io.ReadFull(r.s.r, b)
	r.s.pos += int64(m)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// String reads the next n bytes as a string.
func (r *SequentialReader) String(n int) (string, error) {
	b, err := r.Bytes(n)
	if err != nil {
		return "", err
	}
	return decodeText(b), nil
}

// NullTerminatedString reads bytes until a NUL byte is consumed or maxLen
// bytes have been read. The NUL byte is not included in the result.
func (r *SequentialReader) NullTerminatedString(maxLen int) (string, error) {
	var b []byte
	for range maxLen {
		c, err := r.Uint8()
		if err != nil {
			return "", err
		}
		if c == 0 {
			break
		}
		b = append(b, c)
	}
	return decodeText(b), nil
}

// Skip advances the cursor by n bytes.
func (r *SequentialReader) Skip(n int64) error {
	if n < 0 {
		return &BoundsError{Index: r.s.pos, Length: n}
	}
	m, err := io.CopyN(io.Discard, r.s.r, n)
	r.s.pos += m
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
