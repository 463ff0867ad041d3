// Copyright 2026 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffmeta

import (
	"fmt"
	"math"
	"time"
)

// Layout of Exif date/time values without timezone.
const exifDateTimeLayout = "2006:01:02 15:04:05"

// ImageConfig holds the dimensions of the main image.
type ImageConfig struct {
	Width  int
	Height int
}

// ImageConfig returns the main image dimensions.
// A DefaultCropSize wins over the largest of the IFD0 and Exif SubIFD
// dimensions. The thumbnail IFD is never considered.
func (m *Metadata) ImageConfig() (ImageConfig, bool) {
	var best, crop ImageConfig

	consider := func(w, h int64) {
		if w > 0 && h > 0 && w*h > int64(best.Width)*int64(best.Height) {
			best = ImageConfig{Width: int(w), Height: int(h)}
		}
	}

	for _, d := range m.Directories {
		switch d.Type {
		case DirectoryIFD0, DirectoryPanasonicRawIFD0, DirectoryExifSubIFD:
		default:
			continue
		}
		w, ok1 := d.Int(tagImageWidth)
		h, ok2 := d.Int(tagImageHeight)
		if ok1 && ok2 {
			consider(w, h)
		}
		w, ok1 = d.Int(tagPixelXDimension)
		h, ok2 = d.Int(tagPixelYDimension)
		if ok1 && ok2 {
			consider(w, h)
		}
		if size, ok := d.Ints(tagDefaultCropSize); ok && len(size) == 2 && size[0] > 0 && size[1] > 0 {
			crop = ImageConfig{Width: int(size[0]), Height: int(size[1])}
		}
	}

	if crop.Width > 0 {
		return crop, true
	}
	return best, best.Width > 0
}

// Orientation returns the IFD0 Orientation, 1 if not set.
func (m *Metadata) Orientation() int {
	if root := m.rootDirectory(); root != nil {
		if v, ok := root.Int(tagOrientation); ok && v >= 1 && v <= 8 {
			return int(v)
		}
	}
	return 1
}

// DateTime returns the Exif DateTimeOriginal, falling back to the IFD0 DateTime.
// If an OffsetTimeOriginal or OffsetTime is set, it is used as the time zone,
// else the time is in time.Local.
// A zero time is returned if no date is found.
func (m *Metadata) DateTime() (time.Time, error) {
	var dateStr, offset string

	if exif := m.First(DirectoryExifSubIFD); exif != nil {
		if s, ok := exif.StringValue(tagDateTimeOriginal); ok {
			dateStr = s
			offset, _ = exif.StringValue(tagOffsetTimeOriginal)
		}
	}
	if dateStr == "" {
		if root := m.rootDirectory(); root != nil {
			dateStr, _ = root.StringValue(tagDateTime)
		}
		if exif := m.First(DirectoryExifSubIFD); exif != nil {
			offset, _ = exif.StringValue(tagOffsetTime)
		}
	}
	if dateStr == "" {
		return time.Time{}, nil
	}

	if offset != "" {
		if tm, err := time.Parse(exifDateTimeLayout+"-07:00", dateStr+offset); err == nil {
			return tm, nil
		}
	}

	tm, err := time.ParseInLocation(exifDateTimeLayout, dateStr, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q: %w", dateStr, err)
	}
	return tm, nil
}

// LatLong returns the GPS position in decimal degrees.
// It checks the GPS IFD first, then falls back to XMP.
func (m *Metadata) LatLong() (lat, long float64, found bool) {
	if lat, long, found = m.latLongFromGPS(); found {
		return
	}
	return m.latLongFromXMP()
}

func (m *Metadata) latLongFromGPS() (lat, long float64, found bool) {
	gps := m.First(DirectoryGPS)
	if gps == nil {
		return
	}
	latRats, ok1 := gps.Rats(tagGPSLatitude)
	longRats, ok2 := gps.Rats(tagGPSLongitude)
	if !ok1 || !ok2 {
		return
	}

	lat = dmsToDegrees(latRats)
	long = dmsToDegrees(longRats)

	if ns, _ := gps.StringValue(tagGPSLatitudeRef); ns == "S" {
		lat = -lat
	}
	if ew, _ := gps.StringValue(tagGPSLongitudeRef); ew == "W" {
		long = -long
	}

	if math.IsNaN(lat) || math.IsInf(lat, 0) {
		lat = 0
	}
	if math.IsNaN(long) || math.IsInf(long, 0) {
		long = 0
	}

	return lat, long, true
}

func (m *Metadata) latLongFromXMP() (lat, long float64, found bool) {
	xmp := m.First(DirectoryXMP)
	if xmp == nil {
		return
	}
	latv, ok1 := xmp.Property(xmpKey(xmpNamespaceExif, "GPSLatitude"))
	longv, ok2 := xmp.Property(xmpKey(xmpNamespaceExif, "GPSLongitude"))
	if !ok1 || !ok2 {
		return
	}
	lat, ok1 = xmpDegrees(latv)
	long, ok2 = xmpDegrees(longv)
	return lat, long, ok1 && ok2
}

// xmpDegrees handles coordinates stored as attributes, which are kept as strings.
func xmpDegrees(v any) (float64, bool) {
	switch vv := v.(type) {
	case float64:
		return vv, true
	case string:
		f, err := parseXMPGPSCoordinate(vv)
		return f, err == nil
	}
	return 0, false
}

// dmsToDegrees converts degrees, minutes and seconds to decimal degrees.
func dmsToDegrees(v []Rat[uint32]) float64 {
	var deg float64
	for i, r := range v {
		if i > 2 {
			break
		}
		if r.Den() == 0 {
			continue
		}
		deg += r.Float64() / math.Pow(60, float64(i))
	}
	return deg
}
