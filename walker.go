// Copyright 2026 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffmeta

import (
	"encoding/binary"
	"math"
)

const (
	byteOrderBigEndian    = 0x4d4d
	byteOrderLittleEndian = 0x4949

	// Stop processing an IFD after this many invalid format codes.
	maxInvalidFormatCodes = 5
)

// Walk decodes the TIFF structure starting at headerOrigin in r into md,
// consulting h at each decision point.
//
// Only an untrusted header and I/O errors from r are returned as errors;
// everything else is recorded on the directory it concerns.
func Walk(r IndexedReader, headerOrigin int64, md *Metadata, h Handler) error {
	marker, err := r.Uint16(headerOrigin)
	if err != nil {
		return headerError(err)
	}
	var order binary.ByteOrder
	switch marker {
	case byteOrderBigEndian:
		order = binary.BigEndian
	case byteOrderLittleEndian:
		order = binary.LittleEndian
	default:
		return newInvalidFormatErrorf("unclear distinction between Motorola/Intel byte ordering: 0x%04x", marker)
	}
	r = r.WithByteOrder(order)

	magic, err := r.Uint16(headerOrigin + 2)
	if err != nil {
		return headerError(err)
	}
	typ, err := h.RootDirectory(magic)
	if err != nil {
		return newInvalidFormatError(err)
	}

	firstIFD, err := r.Uint32(headerOrigin + 4)
	if err != nil {
		return headerError(err)
	}
	ifdOffset := headerOrigin + int64(firstIFD)
	if ok, err := r.IsValidIndex(ifdOffset, 1); err != nil || !ok {
		if err != nil {
			return err
		}
		return newInvalidFormatErrorf("first IFD offset %d is beyond the end of the data", firstIFD)
	}

	w := &walker{
		md:      md,
		h:       h,
		visited: make(map[int64]bool),
	}
	if err := w.walkIFD(r, ifdOffset, headerOrigin, typ); err != nil {
		return err
	}

	return h.Completed(r, headerOrigin)
}

func headerError(err error) error {
	if isBoundsError(err) {
		return newInvalidFormatErrorf("unable to read TIFF header: %s", err)
	}
	return err
}

// Maximum depth of nested IFDs, the root included.
const maxIFDDepth = 32

// walker holds the state of one walk.
type walker struct {
	md *Metadata
	h  Handler

	// Absolute IFD start offsets seen in this walk.
	visited map[int64]bool

	// The directory being populated is the last element.
	stack []*Directory
}

func (w *walker) current() *Directory {
	if len(w.stack) == 0 {
		return nil
	}
	return w.stack[len(w.stack)-1]
}

// walkIFD creates a directory of type typ, processes the IFD at ifdOffset
// into it and pops it again.
func (w *walker) walkIFD(r IndexedReader, ifdOffset, headerOrigin int64, typ DirectoryType) error {
	if w.visited[r.absolute(ifdOffset)] {
		return nil
	}
	parent := w.current()
	if len(w.stack) >= maxIFDDepth {
		parent.AddError("Ignored IFD nested too deeply")
		return nil
	}
	if ok, err := r.IsValidIndex(ifdOffset, 2); err != nil || !ok {
		if err != nil {
			return err
		}
		if parent != nil {
			parent.AddError("Ignored IFD marked to start outside data segment")
		}
		return nil
	}

	w.stack = append(w.stack, w.md.AddDirectory(typ, parent))
	defer func() {
		w.stack = w.stack[:len(w.stack)-1]
	}()

	return w.processIFD(r, ifdOffset, headerOrigin)
}

// processIFD processes the IFD at ifdOffset into the current directory.
// Offsets stored in the IFD are relative to headerOrigin.
//
// An IFD is a 2 byte entry count, the entries and a 4 byte offset to the
// next IFD. An entry is 12 bytes:
//   - 2 bytes for the tag ID
//   - 2 bytes for the format code
//   - 4 bytes for the number of components of that format
//   - 4 bytes for the value itself, if it fits, otherwise for an offset to
//     where the value can be found; this could be the start of another IFD.
func (w *walker) processIFD(r IndexedReader, ifdOffset, headerOrigin int64) error {
	w.visited[r.absolute(ifdOffset)] = true
	dir := w.current()

	count, err := r.Uint16(ifdOffset)
	if err != nil {
		return w.entryError(err)
	}

	// Some files have the entry count in the other byte order.
	if count > 0xff && count&0xff == 0 {
		count >>= 8
		r = r.WithByteOrder(otherByteOrder(r.ByteOrder()))
	}

	ifdLen := 2 + 12*int64(count) + 4
	if ok, err := r.IsValidIndex(ifdOffset, ifdLen); err != nil || !ok {
		if err != nil {
			return err
		}
		dir.AddError("Illegally sized IFD")
		return nil
	}

	ctx := &WalkContext{w: w, r: r, headerOrigin: headerOrigin}

	var invalidFormatCodes int
	for i := range int64(count) {
		entryOffset := ifdOffset + 2 + 12*i

		e, status, err := w.readEntry(r, entryOffset, headerOrigin)
		if err != nil {
			return err
		}
		switch status {
		case entrySkip:
			continue
		case entryInvalidFormat:
			invalidFormatCodes++
			if invalidFormatCodes > maxInvalidFormatCodes {
				dir.AddError("Stopping processing as too many errors seen in TIFF IFD")
				return nil
			}
			continue
		}

		if typ, ok := w.h.SubIFD(dir, e.TagID); ok {
			switch {
			case e.ByteCount == 4*int64(e.Count):
				for j := range int64(e.Count) {
					pointer, err := r.Uint32(e.ValueOffset + 4*j)
					if err != nil {
						return w.entryError(err)
					}
					if err := w.walkIFD(r, headerOrigin+int64(pointer), headerOrigin, typ); err != nil {
						return err
					}
				}
				continue
			case e.Format == FormatUndefined:
				// An IFD stored inline; left to CustomProcessTag.
			default:
				dir.AddError("Wrong byte count for IFD pointer tag 0x%04X: %d bytes for %d components", e.TagID, e.ByteCount, e.Count)
				continue
			}
		}

		handled, err := w.h.CustomProcessTag(ctx, e)
		if err != nil {
			if err := w.entryError(err); err != nil {
				return err
			}
			continue
		}
		if handled {
			continue
		}

		v, err := decodeValue(r, e.ValueOffset, e.Format, e.Count)
		if err != nil {
			if err := w.entryError(err); err != nil {
				return err
			}
			continue
		}
		dir.Set(e.TagID, v)
	}

	next, err := r.Uint32(ifdOffset + 2 + 12*int64(count))
	if err != nil {
		return w.entryError(err)
	}
	if next == 0 {
		return nil
	}
	nextOffset := headerOrigin + int64(next)
	if ok, err := r.IsValidIndex(nextOffset, 1); err != nil || !ok {
		// Beyond the end of the data.
		return err
	}
	if nextOffset < ifdOffset {
		// Backwards pointers are not followed.
		return nil
	}
	if typ, ok := w.h.FollowerIFD(dir); ok {
		return w.walkIFD(r, nextOffset, headerOrigin, typ)
	}

	return nil
}

type entryStatus int

const (
	entryOK entryStatus = iota
	entrySkip
	entryInvalidFormat
)

// readEntry reads and validates the entry at entryOffset.
// If the entry can not be used, the reason has been recorded on the
// current directory.
func (w *walker) readEntry(r IndexedReader, entryOffset, headerOrigin int64) (Entry, entryStatus, error) {
	dir := w.current()
	skip := func(err error) (Entry, entryStatus, error) {
		return Entry{}, entrySkip, w.entryError(err)
	}

	var e Entry
	tagID, err := r.Uint16(entryOffset)
	if err != nil {
		return skip(err)
	}
	format, err := r.Uint16(entryOffset + 2)
	if err != nil {
		return skip(err)
	}
	e.TagID, e.Format = tagID, FormatCode(format)

	size, ok := e.Format.ComponentSize()
	if !ok {
		dir.AddError("Invalid TIFF tag format code %d for tag 0x%04X", format, e.TagID)
		return Entry{}, entryInvalidFormat, nil
	}

	count, err := r.Uint32(entryOffset + 4)
	if err != nil {
		return skip(err)
	}
	if count > math.MaxInt32 {
		dir.AddError("Negative TIFF tag component count")
		return skip(nil)
	}
	e.Count = int(count)
	e.ByteCount = int64(count) * size

	if e.ByteCount > 4 {
		offset, err := r.Uint32(entryOffset + 8)
		if err != nil {
			return skip(err)
		}
		e.ValueOffset = headerOrigin + int64(offset)
	} else {
		e.ValueOffset = entryOffset + 8
	}

	if ok, err := r.IsValidIndex(e.ValueOffset, 0); err != nil || !ok {
		if err == nil {
			dir.AddError("Illegal TIFF tag pointer offset")
		}
		return skip(err)
	}
	if ok, err := r.IsValidIndex(e.ValueOffset, e.ByteCount); err != nil || !ok {
		if err == nil {
			dir.AddError("Illegal number of bytes for TIFF tag data: %d", e.ByteCount)
		}
		return skip(err)
	}

	return e, entryOK, nil
}

// entryError records bounds errors on the current directory and returns
// any other error.
func (w *walker) entryError(err error) error {
	if err == nil {
		return nil
	}
	if isBoundsError(err) {
		if dir := w.current(); dir != nil {
			dir.AddError("%s", err)
		}
		return nil
	}
	return err
}

// WalkContext is the state a Handler can use to process a tag.
type WalkContext struct {
	w            *walker
	r            IndexedReader
	headerOrigin int64
}

// Directory returns the directory being populated.
func (c *WalkContext) Directory() *Directory {
	return c.w.current()
}

// Reader returns the reader of the current IFD, carrying its byte order.
func (c *WalkContext) Reader() IndexedReader {
	return c.r
}

// HeaderOrigin returns the offset that offsets in the current IFD are relative to.
func (c *WalkContext) HeaderOrigin() int64 {
	return c.headerOrigin
}

// Metadata returns the collection being populated.
func (c *WalkContext) Metadata() *Metadata {
	return c.w.md
}

// NewDirectory adds a directory of type typ below the current directory
// for data the handler decodes itself.
func (c *WalkContext) NewDirectory(typ DirectoryType) *Directory {
	return c.w.md.AddDirectory(typ, c.w.current())
}

// Visited reports whether the IFD at ifdOffset in r was already processed
// in this walk.
func (c *WalkContext) Visited(r IndexedReader, ifdOffset int64) bool {
	return c.w.visited[r.absolute(ifdOffset)]
}

// WalkIFD processes the IFD at ifdOffset in r into a new directory of type
// typ below the current directory. Offsets in that IFD are relative to
// headerOrigin. Already visited offsets are skipped.
func (c *WalkContext) WalkIFD(r IndexedReader, ifdOffset, headerOrigin int64, typ DirectoryType) error {
	return c.w.walkIFD(r, ifdOffset, headerOrigin, typ)
}
