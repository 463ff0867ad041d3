// Copyright 2026 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffmeta

import (
	"encoding"
	"fmt"
	"strconv"
	"strings"
)

// Rat is a rational number as stored in a TIFF RATIONAL or SRATIONAL value.
// The numerator and denominator are kept exactly as read; a zero
// denominator is allowed.
type Rat[T int32 | uint32] interface {
	Num() T
	Den() T

	// Float64 returns the value as a float64.
	// A zero numerator is 0 regardless of the denominator.
	Float64() float64

	// Reciprocal returns the rational with numerator and denominator swapped.
	Reciprocal() Rat[T]

	// IsInteger reports whether the rational represents a whole number.
	IsInteger() bool

	// IsZero reports whether the numerator is zero.
	IsZero() bool

	// Simplified returns the rational with the greatest common divisor removed.
	Simplified() Rat[T]

	// String returns the string representation of the rational number.
	// If the denominator is 1, the string will be the numerator only.
	String() string
}

var (
	_ encoding.TextUnmarshaler = (*rat[int32])(nil)
	_ encoding.TextMarshaler   = rat[int32]{}
)

// rat is a lightweight, non normalizing version of math/big.Rat.
type rat[T int32 | uint32] struct {
	num T
	den T
}

// NewRat returns a new Rat with the given numerator and denominator.
// The values are not normalized.
func NewRat[T int32 | uint32](num, den T) Rat[T] {
	return &rat[T]{num: num, den: den}
}

// Num returns the numerator of the rational number.
func (r rat[T]) Num() T {
	return r.num
}

// Den returns the denominator of the rational number.
func (r rat[T]) Den() T {
	return r.den
}

func (r rat[T]) Float64() float64 {
	if r.num == 0 {
		return 0
	}
	return float64(r.num) / float64(r.den)
}

func (r rat[T]) Reciprocal() Rat[T] {
	return NewRat(r.den, r.num)
}

func (r rat[T]) IsInteger() bool {
	if r.den == 1 || (r.den != 0 && r.num%r.den == 0) {
		return true
	}
	return r.den == 0 && r.num == 0
}

func (r rat[T]) IsZero() bool {
	return r.num == 0
}

func (r rat[T]) Simplified() Rat[T] {
	num, den := r.num, r.den
	gcd := func(a, b T) T {
		for b != 0 {
			a, b = b, a%b
		}
		return a
	}
	if d := gcd(num, den); d != 0 && d != 1 {
		num, den = num/d, den/d
	}
	// Denominator must be positive.
	if den < 0 {
		num, den = -num, -den
	}
	return NewRat(num, den)
}

func (r rat[T]) String() string {
	if r.den == 1 {
		return fmt.Sprintf("%d", r.num)
	}
	return fmt.Sprintf("%d/%d", r.num, r.den)
}

// Format implements fmt.Formatter so %f and friends print the float value.
func (r rat[T]) Format(f fmt.State, verb rune) {
	switch verb {
	case 'e', 'E', 'f', 'F', 'g', 'G':
		fmt.Fprintf(f, fmt.FormatString(f, verb), r.Float64())
	default:
		fmt.Fprint(f, r.String())
	}
}

func (r *rat[T]) UnmarshalText(text []byte) error {
	s := string(text)
	if !strings.Contains(s, "/") {
		num, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse %q as a rational number: %w", s, err)
		}
		r.num = T(num)
		r.den = 1
		return nil
	}
	if _, err := fmt.Sscanf(s, "%d/%d", &r.num, &r.den); err != nil {
		return fmt.Errorf("failed to parse %q as a rational number: %w", s, err)
	}
	return nil
}

func (r rat[T]) MarshalText() (text []byte, err error) {
	return []byte(r.String()), nil
}
