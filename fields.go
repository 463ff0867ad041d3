// Copyright 2026 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffmeta

const (
	tagImageWidth          = 0x0100
	tagImageHeight         = 0x0101
	tagCompression         = 0x0103
	tagMake                = 0x010f
	tagOrientation         = 0x0112
	tagDateTime            = 0x0132
	tagSubIFDs             = 0x014a
	tagThumbnailOffset     = 0x0201
	tagThumbnailLength     = 0x0202
	tagXMP                 = 0x02bc
	tagIPTCNAA             = 0x83bb
	tagExifIFDPointer      = 0x8769
	tagGPSInfoIFDPointer   = 0x8825
	tagDateTimeOriginal    = 0x9003
	tagOffsetTime          = 0x9010
	tagOffsetTimeOriginal  = 0x9011
	tagMakernote           = 0x927c
	tagPixelXDimension     = 0xa002
	tagPixelYDimension     = 0xa003
	tagInteropIFDPointer   = 0xa005
	tagPrintIM             = 0xc4a5
	tagDefaultCropSize     = 0xc620
	tagMakernotePrintIM    = 0x0e00
	tagGPSLatitudeRef      = 0x0001
	tagGPSLatitude         = 0x0002
	tagGPSLongitudeRef     = 0x0003
	tagGPSLongitude        = 0x0004
	tagPrintIMVersion      = 0x0000
	tagXMPPacket           = 0xffff
	tagOlympusEquipment    = 0x2010
	tagOlympusCameraSet    = 0x2020
	tagOlympusRawDev       = 0x2030
	tagOlympusRawDev2      = 0x2031
	tagOlympusImageProc    = 0x2040
	tagOlympusFocusInfo    = 0x2050
	tagOlympusRawInfo      = 0x3000
	tagOlympusMainInfo     = 0x4000
	iptcMarker             = 0x1c
	reconyxHyperFireMarker = 0xf101
)

// UnknownPrefix is used as prefix for unknown tags.
const UnknownPrefix = "UnknownTag_"

var (
	fieldsExif    = map[uint16]string{0xb: "ProcessingSoftware", 0xfe: "SubfileType", 0x100: "ImageWidth", 0x101: "ImageLength", 0x102: "BitsPerSample", 0x103: "Compression", 0x106: "PhotometricInterpretation", 0x10e: "ImageDescription", 0x10f: "Make", 0x110: "Model", 0x111: "StripOffsets", 0x112: "Orientation", 0x115: "SamplesPerPixel", 0x116: "RowsPerStrip", 0x117: "StripByteCounts", 0x11a: "XResolution", 0x11b: "YResolution", 0x11c: "PlanarConfiguration", 0x128: "ResolutionUnit", 0x131: "Software", 0x132: "DateTime", 0x13b: "Artist", 0x14a: "SubIFDs", 0x201: "ThumbnailOffset", 0x202: "ThumbnailLength", 0x212: "YCbCrSubSampling", 0x213: "YCbCrPositioning", 0x2bc: "ApplicationNotes", 0x8298: "Copyright", 0x829a: "ExposureTime", 0x829d: "FNumber", 0x83bb: "IPTC-NAA", 0x8769: "ExifOffset", 0x8822: "ExposureProgram", 0x8824: "SpectralSensitivity", 0x8825: "GPSInfo", 0x8827: "ISO", 0x8828: "OECF", 0x9000: "ExifVersion", 0x9003: "DateTimeOriginal", 0x9004: "CreateDate", 0x9010: "OffsetTime", 0x9011: "OffsetTimeOriginal", 0x9012: "OffsetTimeDigitized", 0x9101: "ComponentsConfiguration", 0x9102: "CompressedBitsPerPixel", 0x9201: "ShutterSpeedValue", 0x9202: "ApertureValue", 0x9203: "BrightnessValue", 0x9204: "ExposureCompensation", 0x9205: "MaxApertureValue", 0x9206: "SubjectDistance", 0x9207: "MeteringMode", 0x9208: "LightSource", 0x9209: "Flash", 0x920a: "FocalLength", 0x9214: "SubjectArea", 0x927c: "MakerNote", 0x9286: "UserComment", 0x9290: "SubSecTime", 0x9291: "SubSecTimeOriginal", 0x9292: "SubSecTimeDigitized", 0xa000: "FlashpixVersion", 0xa001: "ColorSpace", 0xa002: "ExifImageWidth", 0xa003: "ExifImageHeight", 0xa004: "RelatedSoundFile", 0xa005: "InteropOffset", 0xa20e: "FocalPlaneXResolution", 0xa20f: "FocalPlaneYResolution", 0xa210: "FocalPlaneResolutionUnit", 0xa217: "SensingMethod", 0xa300: "FileSource", 0xa301: "SceneType", 0xa302: "CFAPattern", 0xa401: "CustomRendered", 0xa402: "ExposureMode", 0xa403: "WhiteBalance", 0xa404: "DigitalZoomRatio", 0xa405: "FocalLengthIn35mmFormat", 0xa406: "SceneCaptureType", 0xa408: "Contrast", 0xa409: "Saturation", 0xa40a: "Sharpness", 0xa420: "ImageUniqueID", 0xa432: "LensInfo", 0xa433: "LensMake", 0xa434: "LensModel", 0xc4a5: "PrintIM", 0xc612: "DNGVersion", 0xc620: "DefaultCropSize"}
	fieldsGPS     = map[uint16]string{0x0: "GPSVersionID", 0x1: "GPSLatitudeRef", 0x2: "GPSLatitude", 0x3: "GPSLongitudeRef", 0x4: "GPSLongitude", 0x5: "GPSAltitudeRef", 0x6: "GPSAltitude", 0x7: "GPSTimeStamp", 0x8: "GPSSatellites", 0x9: "GPSStatus", 0xa: "GPSMeasureMode", 0xb: "GPSDOP", 0xc: "GPSSpeedRef", 0xd: "GPSSpeed", 0xe: "GPSTrackRef", 0xf: "GPSTrack", 0x10: "GPSImgDirectionRef", 0x11: "GPSImgDirection", 0x12: "GPSMapDatum", 0x13: "GPSDestLatitudeRef", 0x14: "GPSDestLatitude", 0x15: "GPSDestLongitudeRef", 0x16: "GPSDestLongitude", 0x17: "GPSDestBearingRef", 0x18: "GPSDestBearing", 0x19: "GPSDestDistanceRef", 0x1a: "GPSDestDistance", 0x1b: "GPSProcessingMethod", 0x1c: "GPSAreaInformation", 0x1d: "GPSDateStamp", 0x1e: "GPSDifferential"}
	fieldsInterop = map[uint16]string{0x1: "InteropIndex", 0x2: "InteropVersion"}

	fieldsPrintIM = map[uint16]string{tagPrintIMVersion: "PrintIMVersion"}
	fieldsXMP     = map[uint16]string{tagXMPPacket: "XMPPacket"}

	fieldsOlympus = map[uint16]string{0x0200: "SpecialMode", 0x0201: "Quality", 0x0204: "DigitalZoom", 0x0207: "CameraType", 0x0209: "CameraID", 0x0e00: "PrintIM", tagOlympusEquipment: "Equipment", tagOlympusCameraSet: "CameraSettings", tagOlympusRawDev: "RawDevelopment", tagOlympusRawDev2: "RawDevelopment2", tagOlympusImageProc: "ImageProcessing", tagOlympusFocusInfo: "FocusInfo", tagOlympusRawInfo: "RawInfo", tagOlympusMainInfo: "MainInfo"}

	fieldsKodak = map[uint16]string{0: "KodakModel", 9: "Quality", 10: "BurstMode", 12: "KodakImageWidth", 14: "KodakImageHeight", 16: "YearCreated", 18: "MonthDayCreated", 20: "TimeCreated", 24: "BurstMode2", 27: "ShutterMode", 28: "MeteringMode", 29: "SequenceNumber", 30: "FNumber", 32: "ExposureTime", 36: "ExposureCompensation", 56: "FocusMode", 64: "WhiteBalance", 92: "FlashMode", 93: "FlashFired", 94: "ISOSetting", 96: "ISO", 98: "TotalZoom", 100: "DateTimeStamp", 102: "ColorMode", 104: "DigitalZoom", 107: "Sharpness"}

	fieldsReconyxHyperFire = map[uint16]string{0: "MakernoteVersion", 2: "FirmwareVersion", 12: "TriggerMode", 14: "Sequence", 18: "EventNumber", 22: "DateTimeOriginal", 36: "MoonPhase", 38: "AmbientTemperatureFahrenheit", 40: "AmbientTemperature", 42: "SerialNumber", 72: "Contrast", 74: "Brightness", 76: "Sharpness", 78: "Saturation", 80: "InfraredIlluminator", 82: "MotionSensitivity", 84: "BatteryVoltage", 86: "UserLabel"}

	directoryFields = map[DirectoryType]map[uint16]string{
		DirectoryIFD0:             fieldsExif,
		DirectoryPanasonicRawIFD0: fieldsExif,
		DirectoryExifSubIFD:       fieldsExif,
		DirectoryThumbnail:        fieldsExif,
		DirectoryGPS:              fieldsGPS,
		DirectoryInterop:          fieldsInterop,
		DirectoryIPTC:             fieldsIPTC,
		DirectoryXMP:              fieldsXMP,
		DirectoryPrintIM:          fieldsPrintIM,
		DirectoryOlympus:          fieldsOlympus,
		DirectoryKodak:            fieldsKodak,
		DirectoryReconyxHyperFire: fieldsReconyxHyperFire,
	}
)
