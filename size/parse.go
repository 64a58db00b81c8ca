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

package size

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var reSize = regexp.MustCompile(`^\s*([+-]?[0-9]*\.?[0-9]+)\s*([A-Za-z]*)\s*$`)

var unitScale = map[string]Size{
	"":   SizeUnit,
	"B":  SizeUnit,
	"K":  SizeKilo,
	"KB": SizeKilo,
	"M":  SizeMega,
	"MB": SizeMega,
	"G":  SizeGiga,
	"GB": SizeGiga,
	"T":  SizeTera,
	"TB": SizeTera,
	"P":  SizePeta,
	"PB": SizePeta,
	"E":  SizeExa,
	"EB": SizeExa,
}

// Parse parses a human-readable size string (e.g. "5MB", "1.5 KB", "0") into
// a Size. Units are case-insensitive and the trailing "B" is optional.
// Surrounding whitespace and quotes are ignored and a leading "+" is accepted.
// A number without a unit is rejected unless it is zero; negative values,
// unknown units and results above math.MaxUint64 are rejected too.
func Parse(s string) (Size, error) {
	s = strings.Trim(strings.TrimSpace(s), `"'`)
	m := reSize.FindStringSubmatch(s)
	if m == nil {
		return SizeNul, fmt.Errorf("size: invalid size %q", s)
	}

	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return SizeNul, fmt.Errorf("size: invalid size %q: %w", s, err)
	} else if v < 0 {
		return SizeNul, fmt.Errorf("size: negative size %q", s)
	} else if m[2] == "" && v != 0 {
		return SizeNul, fmt.Errorf("size: missing unit in %q", s)
	}

	u, ok := unitScale[strings.ToUpper(m[2])]
	if !ok {
		return SizeNul, fmt.Errorf("size: unknown unit %q", m[2])
	} else if v*float64(u) >= math.MaxUint64 {
		return SizeNul, fmt.Errorf("size: %q overflows", s)
	}

	return ParseFloat64(v * float64(u)), nil
}

// ParseByte is Parse over a byte slice.
func ParseByte(p []byte) (Size, error) {
	return Parse(string(p))
}

// ParseSize is an alias of Parse.
//
// Deprecated: use Parse.
func ParseSize(s string) (Size, error) {
	return Parse(s)
}

// ParseByteAsSize is an alias of ParseByte.
//
// Deprecated: use ParseByte.
func ParseByteAsSize(p []byte) (Size, error) {
	return ParseByte(p)
}

// GetSize returns the Size parsed from s and true, or SizeNul and false when
// s does not parse.
//
// Deprecated: use Parse.
func GetSize(s string) (Size, bool) {
	v, err := Parse(s)
	return v, err == nil
}
