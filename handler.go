// Copyright 2026 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffmeta

// Handler is the policy consulted by Walk at each decision point.
// ExifHandler is the Exif implementation.
type Handler interface {
	// RootDirectory validates the TIFF magic number and returns the type of
	// the first directory. A non nil error aborts the walk.
	RootDirectory(magic uint16) (DirectoryType, error)

	// SubIFD reports whether tagID in dir points to a nested IFD, and if so
	// the type of the directory to create for it.
	SubIFD(dir *Directory, tagID uint16) (DirectoryType, bool)

	// FollowerIFD reports whether dir's next-IFD pointer should be
	// followed, and if so the type of the directory to create for it.
	FollowerIFD(dir *Directory) (DirectoryType, bool)

	// CustomProcessTag gives the handler a chance to take full ownership
	// of an entry. If it returns true, the walker does not decode the value.
	// Bounds errors returned are recorded on the current directory; any
	// other error aborts the walk.
	CustomProcessTag(ctx *WalkContext, e Entry) (bool, error)

	// Completed is called once when the top level IFD chain is exhausted,
	// with the reader and header origin the walk started with.
	Completed(r IndexedReader, headerOrigin int64) error
}

// Entry is one 12 byte IFD entry.
type Entry struct {
	TagID  uint16
	Format FormatCode

	// Number of components of Format.
	Count int

	// Count times the component size.
	ByteCount int64

	// Where the value starts, relative to the current reader.
	// For values of 4 bytes or less this is inside the entry itself.
	ValueOffset int64
}
