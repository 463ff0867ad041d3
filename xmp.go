// Copyright 2026 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffmeta

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const xmpNamespaceExif = "http://ns.adobe.com/exif/1.0/"

var xmpSkipNamespaces = map[string]bool{
	"xmlns": true,
	"http://www.w3.org/1999/02/22-rdf-syntax-ns#": true,
	"http://purl.org/dc/elements/1.1/":            true,
}

type xmpmeta struct {
	XMLName xml.Name
	RDF     rdf `xml:"RDF"`
}

type rdf struct {
	XMLName      xml.Name
	Descriptions []rdfDescription `xml:"Description"`
}

// Only a common subset of XMP is decoded into properties.
// The full packet is always kept.
type rdfDescription struct {
	XMLName   xml.Name
	Attrs     []xml.Attr `xml:",any,attr"`
	Creator   seqList    `xml:"creator"`
	Publisher bagList    `xml:"publisher"`
	Subject   bagList    `xml:"subject"`
	Rights    altList    `xml:"rights"`

	GPSLatitude  string `xml:"GPSLatitude"`
	GPSLongitude string `xml:"GPSLongitude"`
}

type altList struct {
	XMLName xml.Name
	Alt     struct {
		Items []string `xml:"li"`
	} `xml:"Alt"`
}

type seqList struct {
	XMLName xml.Name
	Seq     struct {
		Items []string `xml:"li"`
	} `xml:"Seq"`
}

type bagList struct {
	XMLName xml.Name
	Bag     struct {
		Items []string `xml:"li"`
	} `xml:"Bag"`
}

// xmpKey returns the property key for a name in namespace,
// e.g. "http://ns.adobe.com/xap/1.0/CreatorTool".
func xmpKey(namespace, local string) string {
	return strings.TrimSuffix(namespace, "/") + "/" + firstUpper(local)
}

// decodeXMP stores the XMP packet in b in dir and decodes its
// rdf:Description elements into properties keyed by namespace and name.
func decodeXMP(b []byte, dir *Directory) {
	dir.Set(tagXMPPacket, string(b))

	var meta xmpmeta
	if err := xml.NewDecoder(bytes.NewReader(b)).Decode(&meta); err != nil {
		dir.AddError("Error processing XMP data: %s", err)
		return
	}

	for _, desc := range meta.RDF.Descriptions {
		for _, attr := range desc.Attrs {
			if xmpSkipNamespaces[attr.Name.Space] {
				continue
			}
			dir.SetProperty(xmpKey(attr.Name.Space, attr.Name.Local), attr.Value)
		}

		setXMPList(dir, desc.Creator.XMLName, desc.Creator.Seq.Items)
		setXMPList(dir, desc.Publisher.XMLName, desc.Publisher.Bag.Items)
		setXMPList(dir, desc.Subject.XMLName, desc.Subject.Bag.Items)
		setXMPList(dir, desc.Rights.XMLName, desc.Rights.Alt.Items)

		// GPS coordinates are typically in DMS format like "26,34.951N".
		if desc.GPSLatitude != "" {
			if lat, err := parseXMPGPSCoordinate(desc.GPSLatitude); err == nil {
				dir.SetProperty(xmpKey(xmpNamespaceExif, "GPSLatitude"), lat)
			} else {
				dir.AddError("Invalid XMP GPSLatitude %q: %s", desc.GPSLatitude, err)
			}
		}
		if desc.GPSLongitude != "" {
			if long, err := parseXMPGPSCoordinate(desc.GPSLongitude); err == nil {
				dir.SetProperty(xmpKey(xmpNamespaceExif, "GPSLongitude"), long)
			} else {
				dir.AddError("Invalid XMP GPSLongitude %q: %s", desc.GPSLongitude, err)
			}
		}
	}
}

func setXMPList(dir *Directory, name xml.Name, items []string) {
	if len(items) == 0 || name.Local == "" {
		return
	}
	// Single items are stored as plain strings.
	if len(items) == 1 {
		dir.SetProperty(xmpKey(name.Space, name.Local), items[0])
		return
	}
	dir.SetProperty(xmpKey(name.Space, name.Local), items)
}

func firstUpper(s string) string {
	if s == "" {
		return ""
	}
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[n:]
}

// parseXMPGPSCoordinate returns the decimal degrees of an XMP GPS value,
// "26,34.951N" (degrees and decimal minutes), "26.5825N" or "-80.2002".
// S and W give negative degrees.
func parseXMPGPSCoordinate(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty coordinate")
	}

	sign := 1.0
	if ref := unicode.ToUpper(rune(s[len(s)-1])); strings.ContainsRune("NSEW", ref) {
		if ref == 'S' || ref == 'W' {
			sign = -1
		}
		s = s[:len(s)-1]
	}

	deg, minutes, hasMinutes := strings.Cut(s, ",")
	d, err := strconv.ParseFloat(deg, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid degrees: %w", err)
	}
	if hasMinutes {
		m, err := strconv.ParseFloat(minutes, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid minutes: %w", err)
		}
		d += m / 60
	}

	return sign * d, nil
}
