// Copyright 2026 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffmeta

// processPrintIM decodes an Epson Print Image Matching block into dir.
//
// The block is a 16 byte header ("PrintIM", NUL, a 4 byte version, 2 unknown
// bytes and a 2 byte entry count) followed by 6 byte entries of a 2 byte
// tag and a 4 byte value.
func processPrintIM(r IndexedReader, offset, byteCount int64, dir *Directory) {
	if byteCount == 0 {
		dir.AddError("Empty PrintIM data")
		return
	}
	if byteCount <= 15 {
		dir.AddError("Bad PrintIM data")
		return
	}

	header, err := r.Bytes(offset, 12)
	if err != nil {
		dir.AddError("%s", err)
		return
	}
	if string(header[:7]) != "PrintIM" {
		dir.AddError("Invalid PrintIM header")
		return
	}

	num, err := r.Uint16(offset + 14)
	if err != nil {
		dir.AddError("%s", err)
		return
	}
	if byteCount < 16+int64(num)*6 {
		// Too big, the byte order may be wrong.
		r = r.WithByteOrder(otherByteOrder(r.ByteOrder()))
		if num, err = r.Uint16(offset + 14); err != nil {
			dir.AddError("%s", err)
			return
		}
		if byteCount < 16+int64(num)*6 {
			dir.AddError("Bad PrintIM size")
			return
		}
	}

	dir.Set(tagPrintIMVersion, string(header[8:12]))

	for n := range int64(num) {
		pos := offset + 16 + n*6
		tag, err := r.Uint16(pos)
		if err != nil {
			dir.AddError("%s", err)
			return
		}
		v, err := r.Uint32(pos + 2)
		if err != nil {
			dir.AddError("%s", err)
			return
		}
		dir.Set(tag, v)
	}
}
