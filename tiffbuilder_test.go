// Copyright 2026 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffmeta

import (
	"bytes"
	"encoding/binary"
	"math"

	qt "github.com/frankban/quicktest"
	"github.com/google/go-cmp/cmp"
)

var eq = qt.CmpEquals(
	cmp.Comparer(func(x, y Rat[uint32]) bool {
		return x.Num() == y.Num() && x.Den() == y.Den()
	}),
	cmp.Comparer(func(x, y Rat[int32]) bool {
		return x.Num() == y.Num() && x.Den() == y.Den()
	}),
	cmp.Comparer(func(x, y float64) bool {
		if x == y {
			return true
		}
		delta := math.Abs(x - y)
		mean := math.Abs(x+y) / 2.0
		return delta/mean < 0.00001
	}),
)

// tiffBuilder builds TIFF structures in memory.
// All positions are absolute positions in buf; the TIFF header is at 0.
type tiffBuilder struct {
	order binary.ByteOrder
	buf   []byte
}

func newTIFFBuilder(order binary.ByteOrder, magic uint16) *tiffBuilder {
	b := &tiffBuilder{order: order}
	if order == binary.LittleEndian {
		b.buf = []byte("II")
	} else {
		b.buf = []byte("MM")
	}
	b.buf = appendUint16(order, b.buf, magic)
	b.buf = appendUint32(order, b.buf, 0)
	return b
}

func (b *tiffBuilder) setFirstIFD(ifd *testIFD) {
	b.order.PutUint32(b.buf[4:], uint32(ifd.offset))
}

// appendData appends data on a word boundary and returns its position.
func (b *tiffBuilder) appendData(data []byte) int {
	if len(b.buf)%2 == 1 {
		b.buf = append(b.buf, 0)
	}
	pos := len(b.buf)
	b.buf = append(b.buf, data...)
	return pos
}

// newIFD reserves an IFD with room for n entries at the end of the buffer.
func (b *tiffBuilder) newIFD(n int) *testIFD {
	pos := b.appendData(make([]byte, 2+12*n+4))
	return b.ifdAt(pos, n, 0, b.order)
}

// ifdAt writes an IFD with n entries at pos, which must already be reserved.
// Offsets written by the IFD are relative to base.
func (b *tiffBuilder) ifdAt(pos, n, base int, order binary.ByteOrder) *testIFD {
	order.PutUint16(b.buf[pos:], uint16(n))
	return &testIFD{b: b, offset: pos, n: n, base: base, order: order}
}

func (b *tiffBuilder) bytes() []byte {
	return b.buf
}

type testIFD struct {
	b      *tiffBuilder
	offset int
	n      int
	i      int
	base   int
	order  binary.ByteOrder
}

// add writes the next entry and returns the position of its value.
func (ifd *testIFD) add(tag uint16, format FormatCode, count int, value []byte) int {
	if ifd.i >= ifd.n {
		panic("too many entries")
	}
	e := ifd.offset + 2 + 12*ifd.i
	ifd.i++
	ifd.order.PutUint16(ifd.b.buf[e:], tag)
	ifd.order.PutUint16(ifd.b.buf[e+2:], uint16(format))
	ifd.order.PutUint32(ifd.b.buf[e+4:], uint32(count))
	if len(value) <= 4 {
		copy(ifd.b.buf[e+8:e+12], value)
		return e + 8
	}
	pos := ifd.b.appendData(value)
	ifd.order.PutUint32(ifd.b.buf[e+8:], uint32(pos-ifd.base))
	return pos
}

func (ifd *testIFD) addUint16(tag uint16, v ...uint16) int {
	var b []byte
	for _, vv := range v {
		b = appendUint16(ifd.order, b, vv)
	}
	return ifd.add(tag, FormatUint16, len(v), b)
}

func (ifd *testIFD) addUint32(tag uint16, v ...uint32) int {
	var b []byte
	for _, vv := range v {
		b = appendUint32(ifd.order, b, vv)
	}
	return ifd.add(tag, FormatUint32, len(v), b)
}

// addRational adds num/den pairs.
func (ifd *testIFD) addRational(tag uint16, v ...uint32) int {
	var b []byte
	for _, vv := range v {
		b = appendUint32(ifd.order, b, vv)
	}
	return ifd.add(tag, FormatRational, len(v)/2, b)
}

func (ifd *testIFD) addASCII(tag uint16, s string) int {
	return ifd.add(tag, FormatASCII, len(s)+1, append([]byte(s), 0))
}

func (ifd *testIFD) addUndefined(tag uint16, b []byte) int {
	return ifd.add(tag, FormatUndefined, len(b), b)
}

func (ifd *testIFD) addPointer(tag uint16, target *testIFD) int {
	return ifd.addUint32(tag, uint32(target.offset-ifd.base))
}

func (ifd *testIFD) setNext(target *testIFD) {
	pos := ifd.offset + 2 + 12*ifd.n
	ifd.order.PutUint32(ifd.b.buf[pos:], uint32(target.offset-ifd.base))
}

func appendUint16(order binary.ByteOrder, b []byte, v uint16) []byte {
	var buf [2]byte
	order.PutUint16(buf[:], v)
	return append(b, buf[:]...)
}

func appendUint32(order binary.ByteOrder, b []byte, v uint32) []byte {
	var buf [4]byte
	order.PutUint32(buf[:], v)
	return append(b, buf[:]...)
}

func decodeBytes(c *qt.C, b []byte, opts Options) *Metadata {
	c.Helper()
	opts.R = bytes.NewReader(b)
	md, err := Decode(opts)
	c.Assert(err, qt.IsNil)
	return md
}

func directoryTypes(md *Metadata) []DirectoryType {
	var types []DirectoryType
	for _, d := range md.Directories {
		types = append(types, d.Type)
	}
	return types
}
