// Copyright 2026 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffmeta

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

const (
	characterSetUTF8     = "UTF-8"
	characterSetISO88591 = "ISO-8859-1"

	iptcCodedCharacterSet = 1<<8 | 90
)

type iptcField struct {
	name       string
	repeatable bool
	format     string
}

// Source: https://exiftool.org/TagNames/IPTC.html
var iptcFields = map[uint16]iptcField{
	// Envelope record.
	1<<8 | 0:   {"EnvelopeRecordVersion", false, "short"},
	1<<8 | 5:   {"Destination", true, "string"},
	1<<8 | 20:  {"FileFormat", false, "short"},
	1<<8 | 22:  {"FileVersion", false, "short"},
	1<<8 | 30:  {"ServiceIdentifier", false, "string"},
	1<<8 | 40:  {"EnvelopeNumber", false, "string"},
	1<<8 | 50:  {"ProductID", true, "string"},
	1<<8 | 60:  {"EnvelopePriority", false, "string"},
	1<<8 | 70:  {"DateSent", false, "string"},
	1<<8 | 80:  {"TimeSent", false, "string"},
	1<<8 | 90:  {"CodedCharacterSet", false, "bytes"},
	1<<8 | 100: {"UniqueObjectName", false, "string"},

	// Application record.
	2<<8 | 0:   {"ApplicationRecordVersion", false, "short"},
	2<<8 | 5:   {"ObjectName", false, "string"},
	2<<8 | 7:   {"EditStatus", false, "string"},
	2<<8 | 10:  {"Urgency", false, "string"},
	2<<8 | 15:  {"Category", false, "string"},
	2<<8 | 20:  {"SupplementalCategories", true, "string"},
	2<<8 | 22:  {"FixtureIdentifier", false, "string"},
	2<<8 | 25:  {"Keywords", true, "string"},
	2<<8 | 26:  {"ContentLocationCode", true, "string"},
	2<<8 | 27:  {"ContentLocationName", true, "string"},
	2<<8 | 30:  {"ReleaseDate", false, "string"},
	2<<8 | 35:  {"ReleaseTime", false, "string"},
	2<<8 | 37:  {"ExpirationDate", false, "string"},
	2<<8 | 38:  {"ExpirationTime", false, "string"},
	2<<8 | 40:  {"SpecialInstructions", false, "string"},
	2<<8 | 42:  {"ActionAdvised", false, "string"},
	2<<8 | 45:  {"ReferenceService", true, "string"},
	2<<8 | 47:  {"ReferenceDate", true, "string"},
	2<<8 | 50:  {"ReferenceNumber", true, "string"},
	2<<8 | 55:  {"DateCreated", false, "string"},
	2<<8 | 60:  {"TimeCreated", false, "string"},
	2<<8 | 62:  {"DigitalCreationDate", false, "string"},
	2<<8 | 63:  {"DigitalCreationTime", false, "string"},
	2<<8 | 65:  {"OriginatingProgram", false, "string"},
	2<<8 | 70:  {"ProgramVersion", false, "string"},
	2<<8 | 75:  {"ObjectCycle", false, "string"},
	2<<8 | 80:  {"By-line", true, "string"},
	2<<8 | 85:  {"By-lineTitle", true, "string"},
	2<<8 | 90:  {"City", false, "string"},
	2<<8 | 92:  {"Sub-location", false, "string"},
	2<<8 | 95:  {"Province-State", false, "string"},
	2<<8 | 100: {"Country-PrimaryLocationCode", false, "string"},
	2<<8 | 101: {"Country-PrimaryLocationName", false, "string"},
	2<<8 | 103: {"OriginalTransmissionReference", false, "string"},
	2<<8 | 105: {"Headline", false, "string"},
	2<<8 | 110: {"Credit", false, "string"},
	2<<8 | 115: {"Source", false, "string"},
	2<<8 | 116: {"CopyrightNotice", false, "string"},
	2<<8 | 118: {"Contact", true, "string"},
	2<<8 | 120: {"Caption-Abstract", false, "string"},
	2<<8 | 122: {"Writer-Editor", true, "string"},
	2<<8 | 135: {"LanguageIdentifier", false, "string"},
}

var fieldsIPTC = func() map[uint16]string {
	m := make(map[uint16]string, len(iptcFields))
	for id, f := range iptcFields {
		m[id] = f.name
	}
	return m
}()

// decodeIPTC decodes the IPTC-IIM datasets in b into dir.
//
// Each dataset is a 0x1C marker, a record number, a dataset number
// and a big endian 2 byte size followed by the data. The tag ID of a dataset
// is its record number << 8 | dataset number.
func decodeIPTC(b []byte, dir *Directory) {
	r := NewSequentialReader(bytes.NewReader(b), binary.BigEndian)

	var charset string
	repeated := make(map[uint16][]string)

	for {
		marker, err := r.Uint8()
		if err != nil {
			if err != io.EOF {
				dir.AddError("Unable to read IPTC tag marker: %s", err)
			}
			break
		}
		if marker != iptcMarker {
			// Trailing padding is common.
			if marker != 0 {
				dir.AddError("Invalid IPTC tag marker at offset %d: 0x%02x", r.Position()-1, marker)
			}
			break
		}

		record, err1 := r.Uint8()
		dataset, err2 := r.Uint8()
		size, err3 := r.Uint16()
		if err := errors.Join(err1, err2, err3); err != nil {
			dir.AddError("IPTC data segment ended mid-way through tag descriptor")
			break
		}

		tagID := uint16(record)<<8 | uint16(dataset)
		data, err := r.Bytes(int(size))
		if err != nil {
			dir.AddError("Data for IPTC tag 0x%04x runs beyond end of IPTC segment", tagID)
			break
		}

		field, found := iptcFields[tagID]
		if !found {
			// Assume a non repeatable string.
			field = iptcField{name: fmt.Sprintf("%s%d", UnknownPrefix, dataset), format: "string"}
		}

		if tagID == iptcCodedCharacterSet {
			charset = resolveCodedCharacterSet(data)
			if charset == "" {
				dir.Set(tagID, data)
			} else {
				dir.Set(tagID, charset)
			}
			continue
		}

		switch field.format {
		case "short":
			if len(data) == 2 {
				dir.Set(tagID, binary.BigEndian.Uint16(data))
			} else {
				dir.Set(tagID, data)
			}
			continue
		case "bytes":
			dir.Set(tagID, data)
			continue
		}

		s := iptcString(data, charset)
		if field.repeatable {
			repeated[tagID] = append(repeated[tagID], s)
			dir.Set(tagID, repeated[tagID])
		} else {
			dir.Set(tagID, s)
		}
	}
}

func iptcString(b []byte, charset string) string {
	b = bytes.TrimRight(b, "\x00")
	switch charset {
	case characterSetISO88591:
		if s, err := charmap.ISO8859_1.NewDecoder().Bytes(b); err == nil {
			b = s
		}
		return strings.TrimSpace(string(b))
	case characterSetUTF8:
		return strings.TrimSpace(string(b))
	default:
		return strings.TrimSpace(decodeText(b))
	}
}

// resolveCodedCharacterSet resolves the coded character set from the IPTC data
// to be either UTF-8 or ISO-8859-1 or an empty string if it cannot be resolved.
func resolveCodedCharacterSet(b []byte) string {
	const (
		esc           = 0x1B
		percent       = 0x25
		latinCapitalG = 0x47
		dot           = 0x2E
		latinCapitalA = 0x41
		minus         = 0x2D
	)

	if len(b) > 2 && b[0] == esc && b[1] == percent && b[2] == latinCapitalG {
		return characterSetUTF8
	}

	if len(b) > 2 && b[0] == esc && b[1] == dot && b[2] == latinCapitalA {
		return characterSetISO88591
	}

	if len(b) > 4 && b[0] == esc && (b[1] == dot || b[2] == dot || b[3] == dot) && b[4] == latinCapitalA {
		return characterSetISO88591
	}

	if len(b) > 2 && b[0] == esc && b[1] == minus && b[2] == latinCapitalA {
		return characterSetISO88591
	}

	return ""
}
