// Copyright 2026 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

// Package tiffmeta decodes the TIFF IFD structure used by Exif and most camera
// RAW formats, including vendor makernotes and embedded IPTC and XMP blocks.
package tiffmeta

import (
	"errors"
	"fmt"
	"io"
)

// Options contains the options for the Decode function.
type Options struct {
	// The Reader to read the TIFF structure from.
	// It does not need to be seekable; it is buffered as needed.
	R io.Reader

	// HeaderOffset is the position of the TIFF header in R.
	// All offsets in the TIFF structure are relative to this.
	HeaderOffset int64

	// If set, the bytes of the thumbnail referenced from IFD1 are attached
	// to the thumbnail directory.
	StoreThumbnailBytes bool

	// The default XMP handler is currently very simple:
	// It decodes the RDF.Description attributes and a few list elements
	// using Go's xml package into properties on an XMP directory.
	// If HandleXMP is set, the decoder will call this function for each XMP packet instead.
	// Note that r must be read completely.
	HandleXMP func(r io.Reader) error

	// Warnf will be called for each error recorded on a directory.
	Warnf func(string, ...any)
}

// Decode reads the TIFF structure in opts.R and returns the decoded directories.
//
// The returned error is only set when the TIFF header can not be trusted
// (see IsInvalidFormat) or when reading from opts.R fails; problems with
// individual entries are recorded on the directories, see Metadata.Err.
func Decode(opts Options) (md *Metadata, err error) {
	errFromRecover := func(r any) (err2 error) {
		if r == nil {
			return nil
		}
		if errp, ok := r.(error); ok {
			err2 = errp
		} else {
			err2 = fmt.Errorf("unknown panic: %v", r)
		}
		return
	}

	defer func() {
		err2 := errFromRecover(recover())
		if err == nil {
			err = err2
		}
		if errors.Is(err, ErrStopWalking) {
			err = nil
		}
	}()

	if opts.R == nil {
		return nil, fmt.Errorf("no reader provided")
	}
	if opts.Warnf == nil {
		opts.Warnf = func(string, ...any) {}
	}

	md = NewMetadata(opts.Warnf)
	h := NewExifHandler(md, opts)

	err = Walk(NewStreamReader(opts.R), opts.HeaderOffset, md, h)

	return
}
