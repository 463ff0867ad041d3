// Copyright 2026 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffmeta

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/text/encoding/unicode"
)

// Some vendors store a fixed record instead of an IFD.
// The tag ID of each field is its offset in the record.

type flatKind int

const (
	flatUint8 flatKind = iota
	flatInt8
	flatUint16
	flatInt16
	flatUint32
	flatString
	flatBytes
)

type flatField struct {
	offset uint16
	kind   flatKind
	n      int // for strings and bytes
}

func (f flatField) read(r IndexedReader, base int64) (any, error) {
	pos := base + int64(f.offset)
	switch f.kind {
	case flatUint8:
		return r.Uint8(pos)
	case flatInt8:
		return r.Int8(pos)
	case flatUint16:
		return r.Uint16(pos)
	case flatInt16:
		return r.Int16(pos)
	case flatUint32:
		return r.Uint32(pos)
	case flatString:
		return r.NullTerminatedString(pos, f.n)
	case flatBytes:
		return r.Bytes(pos, f.n)
	}
	return nil, fmt.Errorf("unknown field kind %d", f.kind)
}

var kodakFields = []flatField{
	{0, flatString, 8}, // Model
	{9, flatUint8, 0},
	{10, flatUint8, 0},
	{12, flatUint16, 0},
	{14, flatUint16, 0},
	{16, flatUint16, 0},
	{18, flatBytes, 2},
	{20, flatBytes, 4},
	{24, flatUint16, 0},
	{27, flatUint8, 0},
	{28, flatUint8, 0},
	{29, flatUint8, 0},
	{30, flatUint16, 0},
	{32, flatUint32, 0},
	{36, flatInt16, 0},
	{56, flatUint8, 0},
	{64, flatUint8, 0},
	{92, flatUint8, 0},
	{93, flatUint8, 0},
	{94, flatUint16, 0},
	{96, flatUint16, 0},
	{98, flatUint16, 0},
	{100, flatUint16, 0},
	{102, flatUint16, 0},
	{104, flatUint16, 0},
	{107, flatInt8, 0},
}

// applyKodak decodes the fixed Kodak record starting 8 bytes into the makernote.
// Fields read before an error are kept.
func applyKodak(ctx *WalkContext, m *makernote) (bool, error) {
	order := binary.ByteOrder(binary.LittleEndian)
	if m.hasPrefix("KDK INFO") {
		order = binary.BigEndian
	}
	r := m.r.WithByteOrder(order)
	dir := ctx.NewDirectory(DirectoryKodak)
	base := m.offset + 8

	for _, f := range kodakFields {
		v, err := f.read(r, base)
		if err != nil {
			if isBoundsError(err) {
				dir.AddError("Error processing Kodak makernote data: %s", err)
				return true, nil
			}
			return true, err
		}
		dir.Set(f.offset, v)
	}
	return true, nil
}

const (
	reconyxTagMakernoteVersion   = 0
	reconyxTagFirmwareVersion    = 2
	reconyxTagTriggerMode        = 12
	reconyxTagSequence           = 14
	reconyxTagEventNumber        = 18
	reconyxTagDateTimeOriginal   = 22
	reconyxTagMoonPhase          = 36
	reconyxTagAmbientTempF       = 38
	reconyxTagAmbientTemperature = 40
	reconyxTagSerialNumber       = 42
	reconyxTagContrast           = 72
	reconyxTagBrightness         = 74
	reconyxTagSharpness          = 76
	reconyxTagSaturation         = 78
	reconyxTagInfrared           = 80
	reconyxTagMotionSensitivity  = 82
	reconyxTagBatteryVoltage     = 84
	reconyxTagUserLabel          = 86
)

// applyReconyxHyperFire decodes the fixed Reconyx HyperFire record.
func applyReconyxHyperFire(ctx *WalkContext, m *makernote) (bool, error) {
	dir := ctx.NewDirectory(DirectoryReconyxHyperFire)
	d := &reconyxDecoder{r: m.r, base: m.offset}

	d.decode(dir)

	if d.err != nil {
		if isBoundsError(d.err) {
			dir.AddError("Error processing Reconyx HyperFire makernote data: %s", d.err)
			return true, nil
		}
		return true, d.err
	}
	return true, nil
}

// reconyxDecoder keeps the first error, all reads after it are no-ops.
type reconyxDecoder struct {
	r    IndexedReader
	base int64
	err  error
}

func (d *reconyxDecoder) u16(offset int64) uint16 {
	if d.err != nil {
		return 0
	}
	var v uint16
	v, d.err = d.r.Uint16(d.base + offset)
	return v
}

func (d *reconyxDecoder) i16(offset int64) int16 {
	return int16(d.u16(offset))
}

func (d *reconyxDecoder) bytes(offset int64, n int) []byte {
	if d.err != nil {
		return nil
	}
	var b []byte
	b, d.err = d.r.Bytes(d.base+offset, n)
	return b
}

func (d *reconyxDecoder) decode(dir *Directory) {
	set := func(tagID uint16, v any) {
		if d.err == nil {
			dir.Set(tagID, v)
		}
	}

	set(reconyxTagMakernoteVersion, d.u16(0))

	major, minor, revision := d.u16(2), d.u16(4), d.u16(6)
	buildYear, buildDate := d.u16(8), d.u16(10)
	if d.err != nil {
		return
	}
	// The build is stored as hex digits, e.g. 0x2011 0x0606 is 20110606.
	build := fmt.Sprintf("%04X%04X", buildYear, buildDate)
	if _, err := strconv.Atoi(build); err != nil {
		dir.AddError("Error processing Reconyx HyperFire makernote data: build '%s' is not in the expected format and will be omitted from Firmware Version.", build)
		set(reconyxTagFirmwareVersion, fmt.Sprintf("%d.%d.%d", major, minor, revision))
	} else {
		set(reconyxTagFirmwareVersion, fmt.Sprintf("%d.%d.%d.%s", major, minor, revision, build))
	}

	set(reconyxTagTriggerMode, string(rune(d.u16(12))))
	set(reconyxTagSequence, []uint16{d.u16(14), d.u16(16)})

	high, low := d.u16(18), d.u16(20)
	set(reconyxTagEventNumber, uint32(high)<<16+uint32(low))

	seconds, minutes, hour := int(d.u16(22)), int(d.u16(24)), int(d.u16(26))
	month, day, year := int(d.u16(28)), int(d.u16(30)), int(d.u16(32))
	if d.err != nil {
		return
	}
	if seconds < 60 && minutes < 60 && hour < 24 && month >= 1 && month < 13 && day >= 1 && day <= 31 && year >= 1 && year <= 9999 {
		t := time.Date(year, time.Month(month), day, hour, minutes, seconds, 0, time.UTC)
		set(reconyxTagDateTimeOriginal, t.Format(exifDateTimeLayout))
	} else {
		dir.AddError("Error processing Reconyx HyperFire makernote data: Date/Time Original %d-%d-%d %d:%d:%d is not a valid date/time.", year, month, day, hour, minutes, seconds)
	}

	set(reconyxTagMoonPhase, d.u16(36))
	set(reconyxTagAmbientTempF, d.i16(38))
	set(reconyxTagAmbientTemperature, d.i16(40))

	if serial := d.bytes(42, 28); d.err == nil {
		s, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(serial)
		if err != nil {
			dir.AddError("Error processing Reconyx HyperFire makernote data: %s", err)
		} else {
			set(reconyxTagSerialNumber, string(cutNull(s)))
		}
	}

	set(reconyxTagContrast, d.u16(72))
	set(reconyxTagBrightness, d.u16(74))
	set(reconyxTagSharpness, d.u16(76))
	set(reconyxTagSaturation, d.u16(78))
	set(reconyxTagInfrared, d.u16(80))
	set(reconyxTagMotionSensitivity, d.u16(82))
	set(reconyxTagBatteryVoltage, float64(d.u16(84))/1000)

	if d.err != nil {
		return
	}
	var label string
	label, d.err = d.r.NullTerminatedString(d.base+86, 44)
	set(reconyxTagUserLabel, label)
}
