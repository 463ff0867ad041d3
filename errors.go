// Copyright 2026 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffmeta

import (
	"errors"
	"fmt"
)

var (
	// ErrStopWalking is a sentinel error to signal that the walk should stop.
	// A HandleXMP func may return it to end decoding early without an error.
	ErrStopWalking = errors.New("stop walking")

	errInvalidFormat = errors.New("tiffmeta: invalid format")
)

// InvalidFormatError is returned when the TIFF header can not be trusted,
// e.g. an unknown byte order marker or magic number.
type InvalidFormatError struct {
	Err error
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("%s: %s", errInvalidFormat, e.Err)
}

// Is reports whether target is the invalid format error.
func (e *InvalidFormatError) Is(target error) bool {
	return target == errInvalidFormat
}

func (e *InvalidFormatError) Unwrap() error {
	return e.Err
}

// IsInvalidFormat reports whether err is an invalid format error.
func IsInvalidFormat(err error) bool {
	return errors.Is(err, errInvalidFormat)
}

func newInvalidFormatError(err error) error {
	if err == nil || IsInvalidFormat(err) {
		return err
	}
	return &InvalidFormatError{Err: err}
}

func newInvalidFormatErrorf(format string, args ...any) error {
	return newInvalidFormatError(fmt.Errorf(format, args...))
}

// BoundsError is returned by the readers when a read would go outside the
// available data.
type BoundsError struct {
	// The requested index, relative to the reader's base offset.
	Index int64
	// The number of bytes requested.
	Length int64
	// The number of bytes available from the reader's base offset.
	// For stream backed readers this is the number of bytes available
	// when the read was attempted.
	Available int64
}

func (e *BoundsError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("attempt to read from buffer using a negative index (%d)", e.Index)
	}
	if e.Length < 0 {
		return fmt.Sprintf("number of requested bytes cannot be negative (%d)", e.Length)
	}
	return fmt.Sprintf("attempt to read from beyond end of data (requested index: %d, requested count: %d, available: %d)", e.Index, e.Length, e.Available)
}

func isBoundsError(err error) bool {
	var be *BoundsError
	return errors.As(err, &be)
}
