// Copyright 2026 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffmeta

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Metadata is the ordered collection of directories produced by one walk.
type Metadata struct {
	Directories []*Directory

	warnf func(string, ...any)
}

// NewMetadata creates a new Metadata.
// If warnf is set, it will be called for every error recorded on a directory.
func NewMetadata(warnf func(string, ...any)) *Metadata {
	return &Metadata{warnf: warnf}
}

// AddDirectory creates a new directory of the given type and appends it.
func (m *Metadata) AddDirectory(typ DirectoryType, parent *Directory) *Directory {
	d := newDirectory(typ, parent, m.warnf)
	m.Directories = append(m.Directories, d)
	return d
}

// First returns the first directory of the given type, nil if none.
func (m *Metadata) First(typ DirectoryType) *Directory {
	for _, d := range m.Directories {
		if d.Type == typ {
			return d
		}
	}
	return nil
}

// All returns all directories of the given type.
func (m *Metadata) All(typ DirectoryType) []*Directory {
	var dirs []*Directory
	for _, d := range m.Directories {
		if d.Type == typ {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// HasErrors reports whether any directory has recorded errors.
func (m *Metadata) HasErrors() bool {
	for _, d := range m.Directories {
		if d.HasErrors() {
			return true
		}
	}
	return false
}

// Err returns the errors recorded on all directories as one error,
// or nil if there are none.
func (m *Metadata) Err() error {
	var result *multierror.Error
	for _, d := range m.Directories {
		for _, msg := range d.errs {
			result = multierror.Append(result, fmt.Errorf("%s: %s", d.Type, msg))
		}
	}
	return result.ErrorOrNil()
}

// rootDirectory returns the first IFD0 style directory.
func (m *Metadata) rootDirectory() *Directory {
	if d := m.First(DirectoryIFD0); d != nil {
		return d
	}
	return m.First(DirectoryPanasonicRawIFD0)
}
