// Copyright 2026 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffmeta

import (
	"bytes"
	"encoding/binary"
	"strings"
)

// Number of leading makernote bytes the rules may look at.
const makernoteSignatureLen = 20

// makernote is what the makernote rules match against.
type makernote struct {
	r            IndexedReader
	offset       int64 // start of the makernote data
	byteCount    int64
	headerOrigin int64

	// Camera make from IFD0.
	make string

	// The first bytes of the makernote, possibly fewer than makernoteSignatureLen.
	sig []byte
}

func (m *makernote) hasPrefix(prefix string) bool {
	return bytes.HasPrefix(m.sig, []byte(prefix))
}

func (m *makernote) hasPrefixFold(prefix string) bool {
	return len(m.sig) >= len(prefix) && strings.EqualFold(string(m.sig[:len(prefix)]), prefix)
}

func (m *makernote) makeHasPrefix(prefix string) bool {
	return strings.HasPrefix(strings.ToUpper(m.make), prefix)
}

func (m *makernote) makeEquals(s string) bool {
	return strings.EqualFold(m.make, s)
}

// sigByte returns the makernote byte at i, or -1 if there is none.
func (m *makernote) sigByte(i int) int {
	if i >= len(m.sig) {
		return -1
	}
	return int(m.sig[i])
}

type makernoteBase int

const (
	// Offsets are relative to the TIFF header.
	baseTIFFHeader makernoteBase = iota
	// Offsets are relative to the start of the makernote.
	baseMakernote
)

// makernoteLayout describes where a vendor IFD is and how to read it.
type makernoteLayout struct {
	typ DirectoryType

	// Start of the IFD relative to the makernote.
	ifdOffset int64

	base makernoteBase

	// Added to the makernote start when base is baseMakernote.
	baseShift int64

	// Forced byte order, nil to keep the current one.
	order binary.ByteOrder
}

// walk processes the IFD described by l. The byte order of the enclosing
// IFD is untouched; a forced order only applies to a derived reader.
func (m *makernote) walk(ctx *WalkContext, l makernoteLayout) error {
	r := readerWithOrder(m.r, l.order)
	ifdOffset, headerOrigin := m.offset+l.ifdOffset, m.headerOrigin
	if l.base == baseMakernote {
		// Offsets in the vendor IFD start at 0 at the new base.
		r = r.WithShiftedBaseOffset(m.offset + l.baseShift)
		ifdOffset, headerOrigin = l.ifdOffset-l.baseShift, 0
	}
	if ctx.Visited(r, ifdOffset) {
		ctx.Directory().AddError("Makernote IFD at offset %d already processed", m.offset+l.ifdOffset)
		return nil
	}
	return ctx.WalkIFD(r, ifdOffset, headerOrigin, l.typ)
}

// makernoteRule is one entry in the ordered makernote dispatch table.
type makernoteRule struct {
	name  string
	match func(m *makernote) bool

	// apply decodes the makernote. It returns false if the makernote
	// should be stored as an opaque value after all.
	apply func(ctx *WalkContext, m *makernote) (bool, error)
}

// ifdRule returns an apply func walking a single fixed layout.
func ifdRule(l makernoteLayout) func(ctx *WalkContext, m *makernote) (bool, error) {
	return func(ctx *WalkContext, m *makernote) (bool, error) {
		return true, m.walk(ctx, l)
	}
}

// makernoteRules are evaluated in order, first match wins.
// The base offset conventions are per vendor, as observed in sample files.
var makernoteRules = []makernoteRule{
	{
		name: "olympus",
		match: func(m *makernote) bool {
			return m.hasPrefix("OLYMP\x00") || m.hasPrefix("EPSON") || m.hasPrefix("AGFA")
		},
		apply: ifdRule(makernoteLayout{typ: DirectoryOlympus, ifdOffset: 8}),
	},
	{
		name:  "olympus2",
		match: func(m *makernote) bool { return m.hasPrefix("OLYMPUS\x00II") },
		apply: ifdRule(makernoteLayout{typ: DirectoryOlympus, ifdOffset: 12, base: baseMakernote}),
	},
	{
		name:  "omsystem",
		match: func(m *makernote) bool { return m.hasPrefix("OM SYSTEM\x00\x00\x00II") },
		apply: ifdRule(makernoteLayout{typ: DirectoryOlympus, ifdOffset: 16, base: baseMakernote}),
	},
	{
		name:  "minolta",
		match: func(m *makernote) bool { return m.makeHasPrefix("MINOLTA") },
		apply: ifdRule(makernoteLayout{typ: DirectoryOlympus}),
	},
	{
		name: "nikon",
		match: func(m *makernote) bool {
			return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(m.make)), "NIKON")
		},
		apply: applyNikon,
	},
	{
		name:  "sony",
		match: func(m *makernote) bool { return m.hasPrefix("SONY CAM") || m.hasPrefix("SONY DSC") },
		apply: ifdRule(makernoteLayout{typ: DirectorySonyType1, ifdOffset: 12}),
	},
	{
		name: "sonyraw",
		match: func(m *makernote) bool {
			return strings.HasPrefix(m.make, "SONY") && !(m.sigByte(0) == 1 && m.sigByte(1) == 0)
		},
		apply: ifdRule(makernoteLayout{typ: DirectorySonyType1}),
	},
	{
		name:  "semc",
		match: func(m *makernote) bool { return m.hasPrefix("SEMC MS\x00\x00\x00\x00\x00") },
		apply: ifdRule(makernoteLayout{typ: DirectorySonyType6, ifdOffset: 20, order: binary.BigEndian}),
	},
	{
		name:  "sigma",
		match: func(m *makernote) bool { return m.hasPrefix("SIGMA\x00\x00\x00") || m.hasPrefix("FOVEON\x00\x00") },
		apply: ifdRule(makernoteLayout{typ: DirectorySigma, ifdOffset: 10}),
	},
	{
		name:  "kodak",
		match: func(m *makernote) bool { return m.hasPrefix("KDK") },
		apply: applyKodak,
	},
	{
		name:  "canon",
		match: func(m *makernote) bool { return m.makeEquals("Canon") },
		apply: ifdRule(makernoteLayout{typ: DirectoryCanon}),
	},
	{
		name:  "casio",
		match: func(m *makernote) bool { return m.makeHasPrefix("CASIO") },
		apply: func(ctx *WalkContext, m *makernote) (bool, error) {
			if m.hasPrefix("QVC\x00\x00\x00") {
				return true, m.walk(ctx, makernoteLayout{typ: DirectoryCasioType2, ifdOffset: 6})
			}
			return true, m.walk(ctx, makernoteLayout{typ: DirectoryCasioType1})
		},
	},
	{
		name:  "fujifilm",
		match: func(m *makernote) bool { return m.hasPrefix("FUJIFILM") || m.makeEquals("Fujifilm") },
		apply: applyFujifilm,
	},
	{
		name:  "kyocera",
		match: func(m *makernote) bool { return m.hasPrefix("KYOCERA") },
		apply: ifdRule(makernoteLayout{typ: DirectoryKyocera, ifdOffset: 22}),
	},
	{
		name:  "leica",
		match: func(m *makernote) bool { return m.hasPrefix("LEICA") },
		apply: applyLeica,
	},
	{
		name:  "panasonic",
		match: func(m *makernote) bool { return m.hasPrefix("Panasonic\x00\x00\x00") },
		apply: ifdRule(makernoteLayout{typ: DirectoryPanasonic, ifdOffset: 12}),
	},
	{
		name:  "aoc",
		match: func(m *makernote) bool { return m.hasPrefix("AOC\x00") },
		apply: ifdRule(makernoteLayout{typ: DirectoryCasioType2, ifdOffset: 6, base: baseMakernote}),
	},
	{
		name:  "pentax",
		match: func(m *makernote) bool { return m.makeHasPrefix("PENTAX") || m.makeHasPrefix("ASAHI") },
		apply: ifdRule(makernoteLayout{typ: DirectoryPentax, base: baseMakernote}),
	},
	{
		name:  "sanyo",
		match: func(m *makernote) bool { return m.hasPrefix("SANYO\x00\x01\x00") },
		apply: ifdRule(makernoteLayout{typ: DirectorySanyo, ifdOffset: 8, base: baseMakernote}),
	},
	{
		name:  "ricoh",
		match: func(m *makernote) bool { return strings.HasPrefix(strings.ToLower(m.make), "ricoh") },
		apply: func(ctx *WalkContext, m *makernote) (bool, error) {
			// Text makernotes.
			if m.hasPrefix("Rv") || m.hasPrefix("Rev") {
				return false, nil
			}
			if m.hasPrefixFold("Ricoh") {
				return true, m.walk(ctx, makernoteLayout{typ: DirectoryRicoh, ifdOffset: 8, base: baseMakernote, order: binary.BigEndian})
			}
			return false, nil
		},
	},
	{
		name:  "apple",
		match: func(m *makernote) bool { return m.hasPrefix("Apple iOS\x00") },
		apply: ifdRule(makernoteLayout{typ: DirectoryApple, ifdOffset: 14, base: baseMakernote, order: binary.BigEndian}),
	},
	{
		name: "reconyx",
		match: func(m *makernote) bool {
			v, err := m.r.Uint16(m.offset)
			return err == nil && v == reconyxHyperFireMarker
		},
		apply: applyReconyxHyperFire,
	},
	{
		name:  "samsung",
		match: func(m *makernote) bool { return m.makeEquals("SAMSUNG") },
		apply: ifdRule(makernoteLayout{typ: DirectorySamsungType2}),
	},
	{
		name:  "dji",
		match: func(m *makernote) bool { return m.makeEquals("DJI") },
		apply: ifdRule(makernoteLayout{typ: DirectoryDJI}),
	},
	{
		name:  "flir",
		match: func(m *makernote) bool { return m.make == "FLIR Systems" },
		apply: ifdRule(makernoteLayout{typ: DirectoryFLIR}),
	},
}

func applyNikon(ctx *WalkContext, m *makernote) (bool, error) {
	if !m.hasPrefix("Nikon") {
		// No label, an IFD right at the start.
		return true, m.walk(ctx, makernoteLayout{typ: DirectoryNikonType2})
	}
	switch m.sigByte(6) {
	case 1:
		return true, m.walk(ctx, makernoteLayout{typ: DirectoryNikonType1, ifdOffset: 8})
	case 2:
		// "Nikon\0" + version, then a TIFF header of its own at +10.
		l := makernoteLayout{typ: DirectoryNikonType2, ifdOffset: 18, base: baseMakernote, baseShift: 10}
		switch marker, _ := m.r.Uint16(m.offset + 10); marker {
		case byteOrderBigEndian:
			l.order = binary.BigEndian
		case byteOrderLittleEndian:
			l.order = binary.LittleEndian
		}
		return true, m.walk(ctx, l)
	default:
		ctx.Directory().AddError("Unsupported Nikon makernote data ignored.")
		return true, nil
	}
}

func applyFujifilm(ctx *WalkContext, m *makernote) (bool, error) {
	r := m.r.WithByteOrder(binary.LittleEndian)
	ifdStart, err := r.Int32(m.offset + 8)
	if err != nil {
		return false, err
	}
	return true, m.walk(ctx, makernoteLayout{typ: DirectoryFujifilm, ifdOffset: int64(ifdStart), base: baseMakernote, order: binary.LittleEndian})
}

func applyLeica(ctx *WalkContext, m *makernote) (bool, error) {
	if m.hasPrefix("LEICA\x00") && m.sigByte(7) == 0 {
		switch m.sigByte(6) {
		case 1, 4, 5, 6, 7:
			return true, m.walk(ctx, makernoteLayout{typ: DirectoryLeicaType5, ifdOffset: 8, base: baseMakernote, order: binary.LittleEndian})
		}
	}
	switch m.make {
	case "Leica Camera AG":
		return true, m.walk(ctx, makernoteLayout{typ: DirectoryLeica, ifdOffset: 8, order: binary.LittleEndian})
	case "LEICA":
		// Panasonic made Leicas.
		return true, m.walk(ctx, makernoteLayout{typ: DirectoryPanasonic, ifdOffset: 8, order: binary.LittleEndian})
	}
	return false, nil
}

// processMakernote dispatches the makernote in e to the first matching rule.
// If no rule matches, the makernote is left to be stored as an opaque value.
func (h *ExifHandler) processMakernote(ctx *WalkContext, e Entry) (bool, error) {
	r := ctx.Reader()
	n := min(int64(makernoteSignatureLen), e.ByteCount)
	sig, err := r.Bytes(e.ValueOffset, int(n))
	if err != nil {
		return false, err
	}

	m := &makernote{
		r:            r,
		offset:       e.ValueOffset,
		byteCount:    e.ByteCount,
		headerOrigin: ctx.HeaderOrigin(),
		make:         h.cameraMake(),
		sig:          sig,
	}

	for _, rule := range makernoteRules {
		if rule.match(m) {
			return rule.apply(ctx, m)
		}
	}

	return false, nil
}
