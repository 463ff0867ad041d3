// Copyright 2026 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffmeta

import "fmt"

// FormatCode is the TIFF data type of a directory entry.
type FormatCode uint16

const (
	FormatUint8     FormatCode = 1
	FormatASCII     FormatCode = 2
	FormatUint16    FormatCode = 3
	FormatUint32    FormatCode = 4
	FormatRational  FormatCode = 5
	FormatInt8      FormatCode = 6
	FormatUndefined FormatCode = 7
	FormatInt16     FormatCode = 8
	FormatInt32     FormatCode = 9
	FormatSRational FormatCode = 10
	FormatFloat32   FormatCode = 11
	FormatFloat64   FormatCode = 12
)

// Size in bytes of each component.
var formatCodeSize = map[FormatCode]int64{
	FormatUint8:     1,
	FormatASCII:     1,
	FormatUint16:    2,
	FormatUint32:    4,
	FormatRational:  8,
	FormatInt8:      1,
	FormatUndefined: 1,
	FormatInt16:     2,
	FormatInt32:     4,
	FormatSRational: 8,
	FormatFloat32:   4,
	FormatFloat64:   8,
}

var formatCodeNames = map[FormatCode]string{
	FormatUint8:     "BYTE",
	FormatASCII:     "ASCII",
	FormatUint16:    "SHORT",
	FormatUint32:    "LONG",
	FormatRational:  "RATIONAL",
	FormatInt8:      "SBYTE",
	FormatUndefined: "UNDEFINED",
	FormatInt16:     "SSHORT",
	FormatInt32:     "SLONG",
	FormatSRational: "SRATIONAL",
	FormatFloat32:   "FLOAT",
	FormatFloat64:   "DOUBLE",
}

// ComponentSize returns the size in bytes of one component of this format
// and false if the format code is unknown.
func (f FormatCode) ComponentSize() (int64, bool) {
	n, ok := formatCodeSize[f]
	return n, ok
}

func (f FormatCode) String() string {
	if s, ok := formatCodeNames[f]; ok {
		return s
	}
	return fmt.Sprintf("FormatCode(%d)", uint16(f))
}

// decodeValue decodes count components of format f starting at offset.
// It never reads more than count times the component size of f.
//
// A count of 1 gives a scalar, anything else a slice. ASCII values are
// always strings and UNDEFINED values are always []byte.
func decodeValue(r IndexedReader, offset int64, f FormatCode, count int) (any, error) {
	size, ok := f.ComponentSize()
	if !ok {
		return nil, fmt.Errorf("invalid TIFF tag format code %d", f)
	}
	if count < 0 {
		return nil, fmt.Errorf("negative component count %d", count)
	}
	if ok, err := r.IsValidIndex(offset, size*int64(count)); err != nil || !ok {
		if err != nil {
			return nil, err
		}
		return nil, &BoundsError{Index: offset, Length: size * int64(count)}
	}

	switch f {
	case FormatASCII:
		return r.NullTerminatedString(offset, count)
	case FormatUndefined:
		return r.Bytes(offset, count)
	case FormatUint8:
		return decodeComponents(count, func(i int) (uint8, error) { return r.Uint8(offset + int64(i)) })
	case FormatInt8:
		return decodeComponents(count, func(i int) (int8, error) { return r.Int8(offset + int64(i)) })
	case FormatUint16:
		return decodeComponents(count, func(i int) (uint16, error) { return r.Uint16(offset + 2*int64(i)) })
	case FormatInt16:
		return decodeComponents(count, func(i int) (int16, error) { return r.Int16(offset + 2*int64(i)) })
	case FormatUint32:
		return decodeComponents(count, func(i int) (uint32, error) { return r.Uint32(offset + 4*int64(i)) })
	case FormatInt32:
		return decodeComponents(count, func(i int) (int32, error) { return r.Int32(offset + 4*int64(i)) })
	case FormatFloat32:
		return decodeComponents(count, func(i int) (float32, error) { return r.Float32(offset + 4*int64(i)) })
	case FormatFloat64:
		return decodeComponents(count, func(i int) (float64, error) { return r.Float64(offset + 8*int64(i)) })
	case FormatRational:
		return decodeComponents(count, func(i int) (Rat[uint32], error) {
			pos := offset + 8*int64(i)
			num, err := r.Uint32(pos)
			if err != nil {
				return nil, err
			}
			den, err := r.Uint32(pos + 4)
			if err != nil {
				return nil, err
			}
			return NewRat(num, den), nil
		})
	case FormatSRational:
		return decodeComponents(count, func(i int) (Rat[int32], error) {
			pos := offset + 8*int64(i)
			num, err := r.Int32(pos)
			if err != nil {
				return nil, err
			}
			den, err := r.Int32(pos + 4)
			if err != nil {
				return nil, err
			}
			return NewRat(num, den), nil
		})
	default:
		return nil, fmt.Errorf("invalid TIFF tag format code %d", f)
	}
}

func decodeComponents[T any](count int, read func(i int) (T, error)) (any, error) {
	if count == 1 {
		v, err := read(0)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
	values := make([]T, count)
	for i := range values {
		v, err := read(i)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
