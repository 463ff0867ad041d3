// Copyright 2026 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffmeta

import "fmt"

// DirectoryType identifies the grammar a Directory was decoded with.
type DirectoryType int

const (
	DirectoryUnknown DirectoryType = iota

	// Exif and TIFF.
	DirectoryIFD0
	DirectoryPanasonicRawIFD0
	DirectoryExifSubIFD
	DirectoryGPS
	DirectoryInterop
	DirectoryThumbnail

	// Embedded blocks.
	DirectoryIPTC
	DirectoryXMP
	DirectoryPrintIM

	// Makernotes.
	DirectoryOlympus
	DirectoryOlympusEquipment
	DirectoryOlympusCameraSettings
	DirectoryOlympusRawDevelopment
	DirectoryOlympusRawDevelopment2
	DirectoryOlympusImageProcessing
	DirectoryOlympusFocusInfo
	DirectoryOlympusRawInfo
	DirectoryNikonType1
	DirectoryNikonType2
	DirectorySonyType1
	DirectorySonyType6
	DirectorySigma
	DirectoryKodak
	DirectoryCanon
	DirectoryCasioType1
	DirectoryCasioType2
	DirectoryFujifilm
	DirectoryKyocera
	DirectoryLeica
	DirectoryLeicaType5
	DirectoryPanasonic
	DirectoryPentax
	DirectorySanyo
	DirectoryRicoh
	DirectoryApple
	DirectoryReconyxHyperFire
	DirectorySamsungType2
	DirectoryDJI
	DirectoryFLIR
)

var directoryTypeNames = map[DirectoryType]string{
	DirectoryIFD0:                   "IFD0",
	DirectoryPanasonicRawIFD0:       "PanasonicRawIFD0",
	DirectoryExifSubIFD:             "ExifSubIFD",
	DirectoryGPS:                    "GPS",
	DirectoryInterop:                "Interop",
	DirectoryThumbnail:              "Thumbnail",
	DirectoryIPTC:                   "IPTC",
	DirectoryXMP:                    "XMP",
	DirectoryPrintIM:                "PrintIM",
	DirectoryOlympus:                "Olympus",
	DirectoryOlympusEquipment:       "Olympus/Equipment",
	DirectoryOlympusCameraSettings:  "Olympus/CameraSettings",
	DirectoryOlympusRawDevelopment:  "Olympus/RawDevelopment",
	DirectoryOlympusRawDevelopment2: "Olympus/RawDevelopment2",
	DirectoryOlympusImageProcessing: "Olympus/ImageProcessing",
	DirectoryOlympusFocusInfo:       "Olympus/FocusInfo",
	DirectoryOlympusRawInfo:         "Olympus/RawInfo",
	DirectoryNikonType1:             "NikonType1",
	DirectoryNikonType2:             "NikonType2",
	DirectorySonyType1:              "SonyType1",
	DirectorySonyType6:              "SonyType6",
	DirectorySigma:                  "Sigma",
	DirectoryKodak:                  "Kodak",
	DirectoryCanon:                  "Canon",
	DirectoryCasioType1:             "CasioType1",
	DirectoryCasioType2:             "CasioType2",
	DirectoryFujifilm:               "Fujifilm",
	DirectoryKyocera:                "Kyocera",
	DirectoryLeica:                  "Leica",
	DirectoryLeicaType5:             "LeicaType5",
	DirectoryPanasonic:              "Panasonic",
	DirectoryPentax:                 "Pentax",
	DirectorySanyo:                  "Sanyo",
	DirectoryRicoh:                  "Ricoh",
	DirectoryApple:                  "Apple",
	DirectoryReconyxHyperFire:       "ReconyxHyperFire",
	DirectorySamsungType2:           "SamsungType2",
	DirectoryDJI:                    "DJI",
	DirectoryFLIR:                   "FLIR",
}

func (t DirectoryType) String() string {
	if s, ok := directoryTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("DirectoryType(%d)", int(t))
}

// IsMakernote reports whether t is a vendor makernote directory.
func (t DirectoryType) IsMakernote() bool {
	return t >= DirectoryOlympus
}
