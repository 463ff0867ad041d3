// Copyright 2026 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffmeta

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/hashicorp/go-multierror"
)

// Directory holds the decoded values of one IFD or embedded block.
//
// A Directory holds at most one value per tag ID; setting a tag
// again replaces the previous value.
type Directory struct {
	// Type is the grammar this directory was decoded with.
	Type DirectoryType

	parent *Directory
	values map[uint16]any
	order  []uint16
	errs   []string

	// String keyed properties, used by XMP.
	props map[string]any

	thumbnail []byte

	warnf func(string, ...any)
}

func newDirectory(typ DirectoryType, parent *Directory, warnf func(string, ...any)) *Directory {
	if warnf == nil {
		warnf = func(string, ...any) {}
	}
	return &Directory{
		Type:   typ,
		parent: parent,
		values: make(map[uint16]any),
		warnf:  warnf,
	}
}

// Parent returns the directory this directory was reached from, nil for a root.
func (d *Directory) Parent() *Directory {
	return d.parent
}

// Name returns the directory type's name.
func (d *Directory) Name() string {
	return d.Type.String()
}

// Set sets the value of tagID.
func (d *Directory) Set(tagID uint16, v any) {
	if _, found := d.values[tagID]; !found {
		d.order = append(d.order, tagID)
	}
	d.values[tagID] = v
}

// Get returns the value of tagID.
func (d *Directory) Get(tagID uint16) (any, bool) {
	v, found := d.values[tagID]
	return v, found
}

// Has reports whether tagID is set.
func (d *Directory) Has(tagID uint16) bool {
	_, found := d.values[tagID]
	return found
}

// Len returns the number of tags set.
func (d *Directory) Len() int {
	return len(d.values)
}

// TagIDs returns the tag IDs in the order they were first set.
func (d *Directory) TagIDs() []uint16 {
	return slices.Clone(d.order)
}

// TagName returns the name of tagID in this directory type, or a name
// prefixed with UnknownPrefix if it is not known.
func (d *Directory) TagName(tagID uint16) string {
	if name, found := directoryFields[d.Type][tagID]; found {
		return name
	}
	return fmt.Sprintf("%s0x%04x", UnknownPrefix, tagID)
}

// StringValue returns the value of tagID if it is a string.
func (d *Directory) StringValue(tagID uint16) (string, bool) {
	s, ok := d.values[tagID].(string)
	return s, ok
}

// Ints returns the value of tagID as integers.
// Rationals are truncated; nil and false is returned for non numeric values.
func (d *Directory) Ints(tagID uint16) ([]int64, bool) {
	v, found := d.values[tagID]
	if !found {
		return nil, false
	}
	switch vv := v.(type) {
	case uint8:
		return []int64{int64(vv)}, true
	case int8:
		return []int64{int64(vv)}, true
	case uint16:
		return []int64{int64(vv)}, true
	case int16:
		return []int64{int64(vv)}, true
	case uint32:
		return []int64{int64(vv)}, true
	case int32:
		return []int64{int64(vv)}, true
	case Rat[uint32]:
		return []int64{ratInt(vv)}, true
	case Rat[int32]:
		return []int64{ratInt(vv)}, true
	case []uint8:
		return toInt64s(vv), true
	case []int8:
		return toInt64s(vv), true
	case []uint16:
		return toInt64s(vv), true
	case []int16:
		return toInt64s(vv), true
	case []uint32:
		return toInt64s(vv), true
	case []int32:
		return toInt64s(vv), true
	case []Rat[uint32]:
		ints := make([]int64, len(vv))
		for i, r := range vv {
			ints[i] = ratInt(r)
		}
		return ints, true
	case []Rat[int32]:
		ints := make([]int64, len(vv))
		for i, r := range vv {
			ints[i] = ratInt(r)
		}
		return ints, true
	}
	return nil, false
}

// Int returns the first integer value of tagID.
func (d *Directory) Int(tagID uint16) (int64, bool) {
	ints, ok := d.Ints(tagID)
	if !ok || len(ints) == 0 {
		return 0, false
	}
	return ints[0], true
}

// Rats returns the value of tagID as unsigned rationals.
func (d *Directory) Rats(tagID uint16) ([]Rat[uint32], bool) {
	switch vv := d.values[tagID].(type) {
	case Rat[uint32]:
		return []Rat[uint32]{vv}, true
	case []Rat[uint32]:
		return vv, true
	}
	return nil, false
}

// SetProperty sets a string keyed value.
func (d *Directory) SetProperty(key string, v any) {
	if d.props == nil {
		d.props = make(map[string]any)
	}
	d.props[key] = v
}

// Property returns the string keyed value for key.
func (d *Directory) Property(key string) (any, bool) {
	v, found := d.props[key]
	return v, found
}

// Properties returns a copy of all string keyed values.
func (d *Directory) Properties() map[string]any {
	return maps.Clone(d.props)
}

// Thumbnail returns the thumbnail bytes attached when the walk completed, if any.
func (d *Directory) Thumbnail() []byte {
	return d.thumbnail
}

func (d *Directory) setThumbnail(b []byte) {
	d.thumbnail = b
}

// AddError records a non fatal error on this directory.
func (d *Directory) AddError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	d.errs = append(d.errs, msg)
	d.warnf("%s: %s", d.Type, msg)
}

// Errors returns the recorded non fatal errors.
func (d *Directory) Errors() []string {
	return slices.Clone(d.errs)
}

// HasErrors reports whether any errors were recorded.
func (d *Directory) HasErrors() bool {
	return len(d.errs) > 0
}

// Err returns the recorded errors as one error, or nil if there are none.
func (d *Directory) Err() error {
	var result *multierror.Error
	for _, msg := range d.errs {
		result = multierror.Append(result, errors.New(msg))
	}
	if result != nil {
		result.ErrorFormat = directoryErrorFormat(d.Type)
	}
	return result.ErrorOrNil()
}

func directoryErrorFormat(typ DirectoryType) multierror.ErrorFormatFunc {
	return func(errs []error) string {
		if len(errs) == 1 {
			return fmt.Sprintf("%s: %s", typ, errs[0])
		}
		s := fmt.Sprintf("%s: %d errors occurred:", typ, len(errs))
		for _, err := range errs {
			s += "\n\t* " + err.Error()
		}
		return s
	}
}

func ratInt[T int32 | uint32](r Rat[T]) int64 {
	if r.Den() == 0 {
		return 0
	}
	return int64(r.Num()) / int64(r.Den())
}

func toInt64s[T uint8 | int8 | uint16 | int16 | uint32 | int32](vv []T) []int64 {
	ints := make([]int64, len(vv))
	for i, v := range vv {
		ints[i] = int64(v)
	}
	return ints
}
