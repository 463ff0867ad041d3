// Copyright 2026 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffmeta

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"
)

var byteOrders = []binary.ByteOrder{binary.LittleEndian, binary.BigEndian}

func TestWalkSingleEntry(t *testing.T) {
	c := qt.New(t)

	b := newTIFFBuilder(binary.LittleEndian, magicTIFF)
	ifd0 := b.newIFD(1)
	ifd0.addUint16(tagOrientation, 1)
	b.setFirstIFD(ifd0)

	c.Assert(b.bytes(), qt.DeepEquals, []byte{
		'I', 'I', 0x2a, 0x00, 0x08, 0x00, 0x00, 0x00,
		0x01, 0x00,
		0x12, 0x01, 0x03, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	})

	md := decodeBytes(c, b.bytes(), Options{})
	c.Assert(md.Directories, qt.HasLen, 1)
	dir := md.Directories[0]
	c.Assert(dir.Type, qt.Equals, DirectoryIFD0)
	c.Assert(dir.Parent(), qt.IsNil)
	v, found := dir.Get(tagOrientation)
	c.Assert(found, qt.IsTrue)
	c.Assert(v, qt.Equals, uint16(1))
	c.Assert(dir.Len(), qt.Equals, 1)
	c.Assert(dir.HasErrors(), qt.IsFalse)
	c.Assert(md.Err(), qt.IsNil)
}

func TestWalkSubIFD(t *testing.T) {
	c := qt.New(t)

	for _, order := range byteOrders {
		c.Run(fmt.Sprint(order), func(c *qt.C) {
			b := newTIFFBuilder(order, magicTIFF)
			ifd0 := b.newIFD(2)
			exif := b.newIFD(1)
			ifd0.addUint16(tagOrientation, 6)
			ifd0.addPointer(tagExifIFDPointer, exif)
			exif.addUndefined(0x9000, []byte("0232"))
			b.setFirstIFD(ifd0)

			md := decodeBytes(c, b.bytes(), Options{})
			c.Assert(directoryTypes(md), qt.DeepEquals, []DirectoryType{DirectoryIFD0, DirectoryExifSubIFD})
			c.Assert(md.Directories[1].Parent(), qt.Equals, md.Directories[0])

			v, _ := md.Directories[1].Get(0x9000)
			c.Assert(v, qt.DeepEquals, []byte("0232"))

			// The pointer itself is not stored.
			c.Assert(md.Directories[0].Has(tagExifIFDPointer), qt.IsFalse)
			c.Assert(md.Orientation(), qt.Equals, 6)
			c.Assert(md.HasErrors(), qt.IsFalse)
		})
	}
}

func TestWalkInvalidFormatCode(t *testing.T) {
	c := qt.New(t)

	var warnings []string
	warnf := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	b := newTIFFBuilder(binary.BigEndian, magicTIFF)
	ifd0 := b.newIFD(3)
	ifd0.addASCII(tagMake, "Canon")
	ifd0.add(0x0110, FormatCode(13), 1, []byte{1, 2, 3, 4})
	ifd0.addUint16(tagOrientation, 1)
	b.setFirstIFD(ifd0)

	md := decodeBytes(c, b.bytes(), Options{Warnf: warnf})
	dir := md.First(DirectoryIFD0)
	c.Assert(dir.Has(0x0110), qt.IsFalse)
	c.Assert(dir.TagIDs(), qt.DeepEquals, []uint16{tagMake, tagOrientation})
	c.Assert(dir.Errors(), qt.DeepEquals, []string{"Invalid TIFF tag format code 13 for tag 0x0110"})
	c.Assert(warnings, qt.DeepEquals, []string{"IFD0: Invalid TIFF tag format code 13 for tag 0x0110"})
	c.Assert(md.Err(), qt.ErrorMatches, `(?s).*IFD0: Invalid TIFF tag format code 13 for tag 0x0110.*`)
	c.Assert(dir.Err(), qt.ErrorMatches, `IFD0: Invalid TIFF tag format code 13 for tag 0x0110`)
}

func TestWalkTooManyInvalidFormatCodes(t *testing.T) {
	c := qt.New(t)

	b := newTIFFBuilder(binary.LittleEndian, magicTIFF)
	ifd0 := b.newIFD(8)
	for i := range 6 {
		ifd0.add(uint16(0x1000+i), FormatCode(0), 1, nil)
	}
	ifd0.addUint16(tagOrientation, 1)
	ifd0.addUint16(tagImageWidth, 100)
	b.setFirstIFD(ifd0)

	md := decodeBytes(c, b.bytes(), Options{})
	dir := md.First(DirectoryIFD0)
	c.Assert(dir.Len(), qt.Equals, 0)
	errs := dir.Errors()
	c.Assert(errs, qt.HasLen, 7)
	c.Assert(errs[5], qt.Equals, "Invalid TIFF tag format code 0 for tag 0x1005")
	c.Assert(errs[6], qt.Equals, "Stopping processing as too many errors seen in TIFF IFD")
}

func TestWalkValueRoundTrip(t *testing.T) {
	c := qt.New(t)

	for _, order := range byteOrders {
		c.Run(fmt.Sprint(order), func(c *qt.C) {
			b := newTIFFBuilder(order, magicTIFF)
			ifd0 := b.newIFD(7)
			ifd0.addUint16(0x0100, 4000)
			ifd0.addUint16(0x0102, 8, 8, 8)
			ifd0.addUint32(0x0116, 1<<20)
			ifd0.addASCII(0x010e, "A sunrise over the sea")
			ifd0.addASCII(0x0131, "abc")
			ifd0.addRational(0x011a, 72, 1)
			ifd0.addRational(0x0001, 1, 2, 3, 4)
			b.setFirstIFD(ifd0)

			md := decodeBytes(c, b.bytes(), Options{})
			dir := md.First(DirectoryIFD0)
			c.Assert(dir.Errors(), qt.HasLen, 0)

			get := func(tagID uint16) any {
				v, found := dir.Get(tagID)
				c.Assert(found, qt.IsTrue, qt.Commentf("0x%04x", tagID))
				return v
			}

			c.Assert(get(0x0100), qt.Equals, uint16(4000))
			c.Assert(get(0x0102), qt.DeepEquals, []uint16{8, 8, 8})
			c.Assert(get(0x0116), qt.Equals, uint32(1<<20))
			c.Assert(get(0x010e), qt.Equals, "A sunrise over the sea")
			c.Assert(get(0x0131), qt.Equals, "abc")
			c.Assert(get(0x011a), eq, NewRat[uint32](72, 1))
			c.Assert(get(0x0001), eq, []Rat[uint32]{NewRat[uint32](1, 2), NewRat[uint32](3, 4)})

			s, ok := dir.StringValue(0x010e)
			c.Assert(ok, qt.IsTrue)
			c.Assert(s, qt.Equals, "A sunrise over the sea")
			ints, ok := dir.Ints(0x0102)
			c.Assert(ok, qt.IsTrue)
			c.Assert(ints, qt.DeepEquals, []int64{8, 8, 8})
			n, ok := dir.Int(0x011a)
			c.Assert(ok, qt.IsTrue)
			c.Assert(n, qt.Equals, int64(72))
			c.Assert(dir.TagName(0x011a), qt.Equals, "XResolution")
			c.Assert(dir.TagName(0x4242), qt.Equals, "UnknownTag_0x4242")
		})
	}
}

func TestWalkOutOfBounds(t *testing.T) {
	c := qt.New(t)

	b := newTIFFBuilder(binary.BigEndian, magicTIFF)
	ifd0 := b.newIFD(4)
	ifd0.addASCII(tagMake, "NIKON CORPORATION")
	// Points beyond the end of the data.
	ifd0.add(0x010e, FormatASCII, 100, binary.BigEndian.AppendUint32(nil, 0xffff))
	// Starts inside, ends outside.
	ifd0.add(0x0131, FormatUint8, 5000, binary.BigEndian.AppendUint32(nil, 8))
	ifd0.addUint16(tagOrientation, 3)
	b.setFirstIFD(ifd0)

	md := decodeBytes(c, b.bytes(), Options{})
	dir := md.First(DirectoryIFD0)
	c.Assert(dir.Has(0x010e), qt.IsFalse)
	c.Assert(dir.Has(0x0131), qt.IsFalse)
	c.Assert(dir.Errors(), qt.DeepEquals, []string{
		"Illegal TIFF tag pointer offset",
		"Illegal number of bytes for TIFF tag data: 5000",
	})
	cameraMake, _ := dir.StringValue(tagMake)
	c.Assert(cameraMake, qt.Equals, "NIKON CORPORATION")
	orientation, _ := dir.Int(tagOrientation)
	c.Assert(orientation, qt.Equals, int64(3))
}

func TestWalkCycles(t *testing.T) {
	c := qt.New(t)

	c.Run("Next IFD points to itself", func(c *qt.C) {
		b := newTIFFBuilder(binary.LittleEndian, magicTIFF)
		ifd0 := b.newIFD(1)
		ifd0.addUint16(tagOrientation, 1)
		ifd0.setNext(ifd0)
		b.setFirstIFD(ifd0)

		md := decodeBytes(c, b.bytes(), Options{})
		c.Assert(directoryTypes(md), qt.DeepEquals, []DirectoryType{DirectoryIFD0})
	})

	c.Run("Pointer tags back to visited IFDs", func(c *qt.C) {
		b := newTIFFBuilder(binary.LittleEndian, magicTIFF)
		ifd0 := b.newIFD(1)
		exif := b.newIFD(3)
		ifd0.addPointer(tagExifIFDPointer, exif)
		exif.addPointer(tagInteropIFDPointer, ifd0)
		exif.addPointer(tagSubIFDs, exif)
		exif.addUint16(0xa001, 1)
		b.setFirstIFD(ifd0)

		md := decodeBytes(c, b.bytes(), Options{})
		c.Assert(directoryTypes(md), qt.DeepEquals, []DirectoryType{DirectoryIFD0, DirectoryExifSubIFD})
		v, _ := md.Directories[1].Int(0xa001)
		c.Assert(v, qt.Equals, int64(1))
	})

	c.Run("Backwards next IFD", func(c *qt.C) {
		b := newTIFFBuilder(binary.BigEndian, magicTIFF)
		ifd1 := b.newIFD(1)
		ifd0 := b.newIFD(1)
		ifd1.addUint16(tagCompression, 6)
		ifd0.addUint16(tagOrientation, 1)
		ifd0.setNext(ifd1)
		b.setFirstIFD(ifd0)

		md := decodeBytes(c, b.bytes(), Options{})
		c.Assert(directoryTypes(md), qt.DeepEquals, []DirectoryType{DirectoryIFD0})
	})

	c.Run("Follower chain", func(c *qt.C) {
		b := newTIFFBuilder(binary.BigEndian, magicTIFF)
		ifd0 := b.newIFD(1)
		ifd1 := b.newIFD(1)
		ifd2 := b.newIFD(1)
		ifd0.addUint16(tagOrientation, 1)
		ifd1.addUint16(tagCompression, 6)
		ifd2.addUint16(tagCompression, 1)
		ifd0.setNext(ifd1)
		ifd1.setNext(ifd2)
		b.setFirstIFD(ifd0)

		md := decodeBytes(c, b.bytes(), Options{})
		// Only IFD0 has a follower.
		c.Assert(directoryTypes(md), qt.DeepEquals, []DirectoryType{DirectoryIFD0, DirectoryThumbnail})
		c.Assert(md.Directories[1].Parent(), qt.Equals, md.Directories[0])
	})
}

func TestWalkSwappedEntryCount(t *testing.T) {
	c := qt.New(t)

	b := newTIFFBuilder(binary.LittleEndian, magicTIFF)
	pos := b.appendData(make([]byte, 2+12+4))
	// Count and entries in the other byte order.
	ifd0 := b.ifdAt(pos, 1, 0, binary.BigEndian)
	ifd0.addUint16(tagOrientation, 8)
	b.setFirstIFD(ifd0)

	md := decodeBytes(c, b.bytes(), Options{})
	dir := md.First(DirectoryIFD0)
	c.Assert(dir.Errors(), qt.HasLen, 0)
	v, _ := dir.Get(tagOrientation)
	c.Assert(v, qt.Equals, uint16(8))
}

func TestWalkMultipleSubIFDs(t *testing.T) {
	c := qt.New(t)

	b := newTIFFBuilder(binary.LittleEndian, magicTIFF)
	ifd0 := b.newIFD(1)
	sub1 := b.newIFD(2)
	sub2 := b.newIFD(2)
	ifd0.addUint32(tagSubIFDs, uint32(sub1.offset), uint32(sub2.offset))
	sub1.addUint32(tagImageWidth, 6000)
	sub1.addUint32(tagImageHeight, 4000)
	sub2.addUint16(tagImageWidth, 160)
	sub2.addUint16(tagImageHeight, 120)
	b.setFirstIFD(ifd0)

	md := decodeBytes(c, b.bytes(), Options{})
	c.Assert(directoryTypes(md), qt.DeepEquals, []DirectoryType{DirectoryIFD0, DirectoryExifSubIFD, DirectoryExifSubIFD})
	c.Assert(md.All(DirectoryExifSubIFD), qt.HasLen, 2)

	cfg, ok := md.ImageConfig()
	c.Assert(ok, qt.IsTrue)
	c.Assert(cfg, qt.Equals, ImageConfig{Width: 6000, Height: 4000})
}

func TestWalkPointerErrors(t *testing.T) {
	c := qt.New(t)

	c.Run("Wrong byte count", func(c *qt.C) {
		b := newTIFFBuilder(binary.BigEndian, magicTIFF)
		ifd0 := b.newIFD(1)
		ifd0.addUint16(tagExifIFDPointer, 8)
		b.setFirstIFD(ifd0)

		md := decodeBytes(c, b.bytes(), Options{})
		c.Assert(directoryTypes(md), qt.DeepEquals, []DirectoryType{DirectoryIFD0})
		c.Assert(md.Directories[0].Errors(), qt.DeepEquals, []string{"Wrong byte count for IFD pointer tag 0x8769: 2 bytes for 1 components"})
	})

	c.Run("Outside data", func(c *qt.C) {
		b := newTIFFBuilder(binary.BigEndian, magicTIFF)
		ifd0 := b.newIFD(2)
		ifd0.addUint32(tagGPSInfoIFDPointer, 100000)
		ifd0.addUint16(tagOrientation, 1)
		b.setFirstIFD(ifd0)

		md := decodeBytes(c, b.bytes(), Options{})
		c.Assert(directoryTypes(md), qt.DeepEquals, []DirectoryType{DirectoryIFD0})
		c.Assert(md.Directories[0].Errors(), qt.DeepEquals, []string{"Ignored IFD marked to start outside data segment"})
		c.Assert(md.Directories[0].Has(tagOrientation), qt.IsTrue)
	})

	c.Run("Illegally sized IFD", func(c *qt.C) {
		b := newTIFFBuilder(binary.BigEndian, magicTIFF)
		ifd0 := b.newIFD(1)
		exif := b.newIFD(1)
		ifd0.addPointer(tagExifIFDPointer, exif)
		exif.addUint16(0xa001, 1)
		binary.BigEndian.PutUint16(b.buf[exif.offset:], 100)
		b.setFirstIFD(ifd0)

		md := decodeBytes(c, b.bytes(), Options{})
		c.Assert(directoryTypes(md), qt.DeepEquals, []DirectoryType{DirectoryIFD0, DirectoryExifSubIFD})
		c.Assert(md.Directories[1].Len(), qt.Equals, 0)
		c.Assert(md.Directories[1].Errors(), qt.DeepEquals, []string{"Illegally sized IFD"})
	})
}

func TestWalkHeader(t *testing.T) {
	c := qt.New(t)

	decodeErr := func(b []byte) error {
		_, err := Decode(Options{R: bytes.NewReader(b)})
		return err
	}

	valid := func(order binary.ByteOrder, magic uint16) []byte {
		b := newTIFFBuilder(order, magic)
		ifd0 := b.newIFD(1)
		ifd0.addUint16(tagOrientation, 1)
		b.setFirstIFD(ifd0)
		return b.bytes()
	}

	c.Run("Byte order marker", func(c *qt.C) {
		b := valid(binary.LittleEndian, magicTIFF)
		b[0], b[1] = 'X', 'X'
		err := decodeErr(b)
		c.Assert(IsInvalidFormat(err), qt.IsTrue)
		c.Assert(err, qt.ErrorMatches, ".*unclear distinction between Motorola/Intel byte ordering.*")
	})

	c.Run("Magic", func(c *qt.C) {
		err := decodeErr(valid(binary.LittleEndian, 0x002b))
		c.Assert(IsInvalidFormat(err), qt.IsTrue)
		c.Assert(err, qt.ErrorMatches, ".*unexpected TIFF marker: 0x002b")
	})

	c.Run("First IFD offset", func(c *qt.C) {
		b := valid(binary.BigEndian, magicTIFF)
		binary.BigEndian.PutUint32(b[4:], 10000)
		err := decodeErr(b)
		c.Assert(IsInvalidFormat(err), qt.IsTrue)
		var ife *InvalidFormatError
		c.Assert(errors.As(err, &ife), qt.IsTrue)
	})

	c.Run("Truncated", func(c *qt.C) {
		err := decodeErr([]byte("II*"))
		c.Assert(IsInvalidFormat(err), qt.IsTrue)
	})

	c.Run("No reader", func(c *qt.C) {
		_, err := Decode(Options{})
		c.Assert(err, qt.ErrorMatches, "no reader provided")
	})

	c.Run("Raw magics", func(c *qt.C) {
		for _, test := range []struct {
			magic uint16
			want  DirectoryType
		}{
			{magicTIFF, DirectoryIFD0},
			{magicOlympusRawOR, DirectoryIFD0},
			{magicOlympusRawSR, DirectoryIFD0},
			{magicPanasonicRaw, DirectoryPanasonicRawIFD0},
		} {
			md := decodeBytes(c, valid(binary.LittleEndian, test.magic), Options{})
			c.Assert(directoryTypes(md), qt.DeepEquals, []DirectoryType{test.want})
			c.Assert(md.Orientation(), qt.Equals, 1)
		}
	})

	c.Run("Header offset", func(c *qt.C) {
		b := newTIFFBuilder(binary.BigEndian, magicTIFF)
		ifd0 := b.newIFD(1)
		exif := b.newIFD(1)
		ifd0.addPointer(tagExifIFDPointer, exif)
		exif.addASCII(tagDateTimeOriginal, "2024:01:02 03:04:05")
		b.setFirstIFD(ifd0)

		data := append([]byte("Exif\x00\x00"), b.bytes()...)
		md := decodeBytes(c, data, Options{HeaderOffset: 6})
		c.Assert(directoryTypes(md), qt.DeepEquals, []DirectoryType{DirectoryIFD0, DirectoryExifSubIFD})
		s, _ := md.Directories[1].StringValue(tagDateTimeOriginal)
		c.Assert(s, qt.Equals, "2024:01:02 03:04:05")
	})
}

// followAllHandler follows every next IFD pointer and never custom processes.
type followAllHandler struct {
	failTag uint16
	err     error
	done    bool
}

func (h *followAllHandler) RootDirectory(magic uint16) (DirectoryType, error) {
	if magic != magicTIFF {
		return DirectoryUnknown, errors.New("not a TIFF")
	}
	return DirectoryIFD0, nil
}

func (h *followAllHandler) SubIFD(dir *Directory, tagID uint16) (DirectoryType, bool) {
	return DirectoryUnknown, false
}

func (h *followAllHandler) FollowerIFD(dir *Directory) (DirectoryType, bool) {
	return DirectoryUnknown, true
}

func (h *followAllHandler) CustomProcessTag(ctx *WalkContext, e Entry) (bool, error) {
	if h.failTag != 0 && e.TagID == h.failTag {
		return false, h.err
	}
	return false, nil
}

func (h *followAllHandler) Completed(r IndexedReader, headerOrigin int64) error {
	h.done = true
	return nil
}

func TestWalkCustomHandler(t *testing.T) {
	c := qt.New(t)

	b := newTIFFBuilder(binary.LittleEndian, magicTIFF)
	ifd0 := b.newIFD(1)
	ifd1 := b.newIFD(1)
	ifd2 := b.newIFD(1)
	ifd0.addUint16(tagImageWidth, 1)
	ifd1.addUint16(tagImageWidth, 2)
	ifd2.addUint16(tagImageWidth, 3)
	ifd0.setNext(ifd1)
	ifd1.setNext(ifd2)
	b.setFirstIFD(ifd0)

	c.Run("Pages", func(c *qt.C) {
		md := NewMetadata(nil)
		h := &followAllHandler{}
		c.Assert(Walk(NewByteReader(b.bytes()), 0, md, h), qt.IsNil)
		c.Assert(h.done, qt.IsTrue)
		c.Assert(md.Directories, qt.HasLen, 3)
		c.Assert(md.Directories[2].Parent(), qt.Equals, md.Directories[1])
		for i, d := range md.Directories {
			v, _ := d.Int(tagImageWidth)
			c.Assert(v, qt.Equals, int64(i+1))
		}
	})

	c.Run("Abort", func(c *qt.C) {
		md := NewMetadata(nil)
		failErr := errors.New("abort")
		h := &followAllHandler{failTag: tagImageWidth, err: failErr}
		c.Assert(Walk(NewByteReader(b.bytes()), 0, md, h), qt.Equals, failErr)
		c.Assert(h.done, qt.IsFalse)
	})

	c.Run("Bounds errors are recorded", func(c *qt.C) {
		md := NewMetadata(nil)
		h := &followAllHandler{failTag: tagImageWidth, err: &BoundsError{Index: 1, Length: 2, Available: 3}}
		c.Assert(Walk(NewByteReader(b.bytes()), 0, md, h), qt.IsNil)
		c.Assert(md.Directories, qt.HasLen, 3)
		c.Assert(md.Directories[0].Errors(), qt.HasLen, 1)
		c.Assert(md.Directories[0].Has(tagImageWidth), qt.IsFalse)
	})
}

func TestWalkNestingLimit(t *testing.T) {
	c := qt.New(t)

	b := newTIFFBuilder(binary.LittleEndian, magicTIFF)
	ifds := make([]*testIFD, maxIFDDepth+8)
	for i := range ifds {
		ifds[i] = b.newIFD(1)
	}
	for i, ifd := range ifds[:len(ifds)-1] {
		ifd.addPointer(tagSubIFDs, ifds[i+1])
	}
	ifds[len(ifds)-1].addUint16(tagOrientation, 1)
	b.setFirstIFD(ifds[0])

	md := decodeBytes(c, b.bytes(), Options{})
	c.Assert(md.Directories, qt.HasLen, maxIFDDepth)
	for i, dir := range md.Directories[:maxIFDDepth-1] {
		c.Assert(dir.Errors(), qt.HasLen, 0, qt.Commentf("%d", i))
	}
	deepest := md.Directories[maxIFDDepth-1]
	c.Assert(deepest.Errors(), qt.DeepEquals, []string{"Ignored IFD nested too deeply"})
	c.Assert(deepest.Has(tagOrientation), qt.IsFalse)
}
