// Copyright 2026 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffmeta

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	magicTIFF         = 0x002a
	magicOlympusRawOR = 0x4f52
	magicOlympusRawSR = 0x5352
	magicPanasonicRaw = 0x0055
)

var _ Handler = (*ExifHandler)(nil)

// ExifHandler is the Handler for Exif data and TIFF based RAW files.
type ExifHandler struct {
	md   *Metadata
	opts Options
}

// NewExifHandler creates a new ExifHandler adding directories to md.
func NewExifHandler(md *Metadata, opts Options) *ExifHandler {
	return &ExifHandler{md: md, opts: opts}
}

// RootDirectory accepts the standard TIFF magic, the Olympus RAW magics
// and the Panasonic RAW magic.
func (h *ExifHandler) RootDirectory(magic uint16) (DirectoryType, error) {
	switch magic {
	case magicTIFF, magicOlympusRawOR, magicOlympusRawSR:
		return DirectoryIFD0, nil
	case magicPanasonicRaw:
		return DirectoryPanasonicRawIFD0, nil
	default:
		return DirectoryUnknown, fmt.Errorf("unexpected TIFF marker: 0x%04x", magic)
	}
}

var olympusSubIFDs = map[uint16]DirectoryType{
	tagOlympusEquipment: DirectoryOlympusEquipment,
	tagOlympusCameraSet: DirectoryOlympusCameraSettings,
	tagOlympusRawDev:    DirectoryOlympusRawDevelopment,
	tagOlympusRawDev2:   DirectoryOlympusRawDevelopment2,
	tagOlympusImageProc: DirectoryOlympusImageProcessing,
	tagOlympusFocusInfo: DirectoryOlympusFocusInfo,
	tagOlympusRawInfo:   DirectoryOlympusRawInfo,
	tagOlympusMainInfo:  DirectoryOlympus,
}

func (h *ExifHandler) SubIFD(dir *Directory, tagID uint16) (DirectoryType, bool) {
	if tagID == tagSubIFDs {
		return DirectoryExifSubIFD, true
	}

	switch dir.Type {
	case DirectoryIFD0, DirectoryPanasonicRawIFD0:
		switch tagID {
		case tagExifIFDPointer:
			return DirectoryExifSubIFD, true
		case tagGPSInfoIFDPointer:
			return DirectoryGPS, true
		}
	case DirectoryExifSubIFD:
		if tagID == tagInteropIFDPointer {
			return DirectoryInterop, true
		}
	case DirectoryOlympus:
		if typ, found := olympusSubIFDs[tagID]; found {
			return typ, true
		}
	}

	return DirectoryUnknown, false
}

// FollowerIFD follows IFD0's next pointer to the thumbnail IFD (IFD1) only.
func (h *ExifHandler) FollowerIFD(dir *Directory) (DirectoryType, bool) {
	if dir.Type == DirectoryIFD0 {
		return DirectoryThumbnail, true
	}
	return DirectoryUnknown, false
}

func (h *ExifHandler) CustomProcessTag(ctx *WalkContext, e Entry) (bool, error) {
	dir := ctx.Directory()
	r := ctx.Reader()

	// Some padding entries have tag 0 and no data.
	if e.TagID == 0 && e.ByteCount == 0 && !dir.Has(0) {
		return true, nil
	}

	if e.TagID == tagMakernote && dir.Type == DirectoryExifSubIFD {
		return h.processMakernote(ctx, e)
	}

	if dir.Type == DirectoryIFD0 {
		switch e.TagID {
		case tagIPTCNAA:
			marker, err := r.Uint8(e.ValueOffset)
			if err != nil {
				return false, err
			}
			if marker != iptcMarker {
				return false, nil
			}
			b, err := r.Bytes(e.ValueOffset, int(e.ByteCount))
			if err != nil {
				return false, err
			}
			decodeIPTC(b, ctx.NewDirectory(DirectoryIPTC))
			return true, nil
		case tagXMP:
			b, err := r.Bytes(e.ValueOffset, int(e.ByteCount))
			if err != nil {
				return false, err
			}
			return true, h.processXMP(ctx, b)
		}
	}

	if isPrintIMTag(dir.Type, e.TagID) {
		processPrintIM(r, e.ValueOffset, e.ByteCount, ctx.NewDirectory(DirectoryPrintIM))
		return true, nil
	}

	if dir.Type == DirectoryOlympus {
		// Sub directories stored inline as UNDEFINED.
		if typ, found := olympusSubIFDs[e.TagID]; found {
			return true, ctx.WalkIFD(r, e.ValueOffset, ctx.HeaderOrigin(), typ)
		}
	}

	return false, nil
}

func (h *ExifHandler) processXMP(ctx *WalkContext, b []byte) error {
	if h.opts.HandleXMP != nil {
		if err := h.handleXMP(b); err != nil {
			if errors.Is(err, ErrStopWalking) {
				return err
			}
			ctx.Directory().AddError("Error processing XMP data: %s", err)
		}
		return nil
	}
	decodeXMP(b, ctx.NewDirectory(DirectoryXMP))
	return nil
}

func (h *ExifHandler) handleXMP(b []byte) error {
	r := bytes.NewReader(b)
	if err := h.opts.HandleXMP(r); err != nil {
		return err
	}
	// Read one more byte to make sure we're at EOF.
	var c [1]byte
	if _, err := r.Read(c[:]); err != io.EOF {
		return errors.New("expected EOF after XMP")
	}
	return nil
}

// Completed attaches the thumbnail bytes if StoreThumbnailBytes is set.
func (h *ExifHandler) Completed(r IndexedReader, headerOrigin int64) error {
	if !h.opts.StoreThumbnailBytes {
		return nil
	}
	thumb := h.md.First(DirectoryThumbnail)
	if thumb == nil || !thumb.Has(tagCompression) {
		return nil
	}
	offset, ok1 := thumb.Int(tagThumbnailOffset)
	length, ok2 := thumb.Int(tagThumbnailLength)
	if !ok1 || !ok2 {
		return nil
	}
	b, err := r.Bytes(headerOrigin+offset, int(length))
	if err != nil {
		if isBoundsError(err) {
			thumb.AddError("Invalid thumbnail data specification: %s", err)
			return nil
		}
		return err
	}
	thumb.setThumbnail(b)
	return nil
}

// cameraMake returns the Make tag from IFD0.
func (h *ExifHandler) cameraMake() string {
	root := h.md.rootDirectory()
	if root == nil {
		return ""
	}
	s, _ := root.StringValue(tagMake)
	return s
}

var printIMMakernotes = map[DirectoryType]bool{
	DirectoryCasioType2: true,
	DirectoryKyocera:    true,
	DirectoryNikonType2: true,
	DirectoryOlympus:    true,
	DirectoryPanasonic:  true,
	DirectoryPentax:     true,
	DirectoryRicoh:      true,
	DirectorySanyo:      true,
	DirectorySonyType1:  true,
}

func isPrintIMTag(typ DirectoryType, tagID uint16) bool {
	if tagID == tagPrintIM {
		return true
	}
	return tagID == tagMakernotePrintIM && printIMMakernotes[typ]
}

// readerWithOrder returns r in the given byte order, or r itself if order is nil.
func readerWithOrder(r IndexedReader, order binary.ByteOrder) IndexedReader {
	if order == nil {
		return r
	}
	return r.WithByteOrder(order)
}
