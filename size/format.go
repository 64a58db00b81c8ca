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

import "fmt"

// magnitude returns the largest unit this size fits in, its letter prefix
// ("", "K", "M", ...) and the unit Size value itself.
func (s Size) magnitude() (letter string, unit Size) {
	switch {
	case s >= SizeExa:
		return "E", SizeExa
	case s >= SizePeta:
		return "P", SizePeta
	case s >= SizeTera:
		return "T", SizeTera
	case s >= SizeGiga:
		return "G", SizeGiga
	case s >= SizeMega:
		return "M", SizeMega
	case s >= SizeKilo:
		return "K", SizeKilo
	default:
		return "", SizeUnit
	}
}

// Unit returns the human-readable unit suffix for s ("B", "KB", "MB", ...),
// using r as the trailing rune instead of the default one when r != 0.
func (s Size) Unit(r rune) string {
	letter, _ := s.magnitude()

	if r == 0 {
		r = getDefaultUnit()
	}

	return letter + string(r)
}

// Code is an alias of Unit(r) kept for parity with the teacher's size.Code
// naming; r == 0 uses the package default unit set by SetDefaultUnit.
func (s Size) Code(r rune) string {
	return s.Unit(r)
}

// Format renders s, scaled to its largest fitting unit, using f as the
// fmt verb applied to the scaled float64 value (e.g. size.FormatRound2).
func (s Size) Format(f string) string {
	_, unit := s.magnitude()
	return fmt.Sprintf(f, float64(s)/float64(unit))
}

// String renders s scaled to its largest fitting unit with two decimals,
// e.g. "5.00 MB".
func (s Size) String() string {
	return fmt.Sprintf("%s %s", s.Format(FormatRound2), s.Unit(0))
}
