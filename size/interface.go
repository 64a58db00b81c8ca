/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2022 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

// Package size provides a byte-count type with binary (1024-based) unit
// constants, human-readable formatting/parsing, and multi-format encoding
// (JSON, YAML, TOML, CBOR, binary) for use in configuration structs.
package size

import (
	"math"
	"sync/atomic"
)

// Size represents a number of bytes.
type Size uint64

const SizeNul Size = 0

const (
	SizeUnit Size = 1 << (10 * iota)
	SizeKilo
	SizeMega
	SizeGiga
	SizeTera
	SizePeta
	SizeExa
)

const (
	FormatRound0 = "%.0f"
	FormatRound1 = "%.1f"
	FormatRound2 = "%.2f"
	FormatRound3 = "%.3f"
)

var defaultUnit atomic.Int32

func init() {
	defaultUnit.Store('B')
}

// SetDefaultUnit sets the rune appended after the magnitude letter (K, M, G...)
// by Code when called with a zero rune. A zero/null rune resets it to 'B'.
func SetDefaultUnit(r rune) {
	if r == 0 {
		r = 'B'
	}
	defaultUnit.Store(r)
}

func getDefaultUnit() rune {
	return rune(defaultUnit.Load())
}

// ParseInt64 returns the Size matching the absolute value of i bytes.
func ParseInt64(i int64) Size {
	if i < 0 {
		i = -i
	}
	return Size(i)
}

// SizeFromInt64 is an alias of ParseInt64.
func SizeFromInt64(i int64) Size {
	return ParseInt64(i)
}

// ParseUint64 returns the Size matching i bytes.
func ParseUint64(i uint64) Size {
	return Size(i)
}

// ParseFloat64 returns the Size matching f bytes rounded down to a whole
// byte (math.Floor), then taken as an absolute value: -1024.9 gives 1025.
func ParseFloat64(f float64) Size {
	f = math.Floor(f)
	if f < 0 {
		f = -f
	}
	if f > math.MaxUint64 {
		return Size(math.MaxUint64)
	}
	return Size(f)
}

// SizeFromFloat64 is an alias of ParseFloat64.
func SizeFromFloat64(f float64) Size {
	return ParseFloat64(f)
}

func (s Size) Uint64() uint64 {
	return uint64(s)
}

func (s Size) Uint32() uint32 {
	if s > Size(math.MaxUint32) {
		return math.MaxUint32
	}
	return uint32(s)
}

func (s Size) Uint() uint {
	if uint64(s) > math.MaxUint32 && ^uint(0)>>32 == 0 {
		return math.MaxUint32
	}
	return uint(s)
}

func (s Size) Int64() int64 {
	if s > Size(math.MaxInt64) {
		return math.MaxInt64
	}
	return int64(s)
}

func (s Size) Int32() int32 {
	if s > Size(math.MaxInt32) {
		return math.MaxInt32
	}
	return int32(s)
}

func (s Size) Int() int {
	if uint64(s) > math.MaxInt {
		return math.MaxInt
	}
	return int(s)
}

func (s Size) Float64() float64 {
	return float64(s)
}

func (s Size) Float32() float32 {
	return float32(s)
}

// Floor truncates s down to the nearest multiple of the given unit.
func (s Size) Floor(unit Size) Size {
	if unit == 0 {
		return s
	}
	return s - s%unit
}

func (s Size) KiloBytes() uint64 {
	return uint64(s / SizeKilo)
}

func (s Size) MegaBytes() uint64 {
	return uint64(s / SizeMega)
}

func (s Size) GigaBytes() uint64 {
	return uint64(s / SizeGiga)
}

func (s Size) TeraBytes() uint64 {
	return uint64(s / SizeTera)
}

func (s Size) PetaBytes() uint64 {
	return uint64(s / SizePeta)
}

func (s Size) ExaBytes() uint64 {
	return uint64(s / SizeExa)
}
