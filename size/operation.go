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
)

// toFloat64 converts any of the basic numeric kinds into a float64, used so
// Add/Sub/Mul/Div can accept an untyped numeric literal or any integer/float
// variable without the caller doing the conversion.
func toFloat64(v interface{}) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	case Size:
		return float64(n)
	default:
		return 0
	}
}

// Mul multiplies s in place by v, rounding up (ceil) on a fractional result
// and saturating at math.MaxUint64 on overflow.
func (s *Size) Mul(v interface{}) {
	_ = s.MulErr(v)
}

// MulErr is Mul but reports an error (without reverting the saturated value)
// if the multiplication overflows math.MaxUint64.
func (s *Size) MulErr(v interface{}) error {
	f := toFloat64(v)
	if f < 0 {
		f = 0
	}

	res := math.Ceil(float64(*s) * f)

	if res > math.MaxUint64 || math.IsInf(res, 1) {
		*s = Size(math.MaxUint64)
		return fmt.Errorf("size: multiplication overflow")
	}

	*s = Size(res)
	return nil
}

// Div divides s in place by v, rounding up (ceil) on a fractional result.
// A zero or negative divisor leaves s unchanged.
func (s *Size) Div(v interface{}) {
	_ = s.DivErr(v)
}

// DivErr is Div but reports an error for a zero or negative divisor.
func (s *Size) DivErr(v interface{}) error {
	f := toFloat64(v)
	if f <= 0 {
		return fmt.Errorf("size: invalid diviser")
	}

	*s = Size(math.Ceil(float64(*s) / f))
	return nil
}

// Add adds v to s in place, saturating at math.MaxUint64 on overflow.
func (s *Size) Add(v interface{}) {
	_ = s.AddErr(v)
}

// AddErr is Add but reports an error if the addition overflows math.MaxUint64.
func (s *Size) AddErr(v interface{}) error {
	f := toFloat64(v)
	if f < 0 {
		f = 0
	}

	u, k := v.(uint64)
	if !k && f < math.MaxUint64 {
		u = uint64(f)
	}

	if (!k && f >= math.MaxUint64) || u > math.MaxUint64-uint64(*s) {
		*s = Size(math.MaxUint64)
		return fmt.Errorf("size: addition overflow")
	}

	*s += Size(u)
	return nil
}

// Sub subtracts v from s in place, saturating at zero on underflow.
func (s *Size) Sub(v interface{}) {
	_ = s.SubErr(v)
}

// SubErr is Sub but reports an error if v is larger than s (underflow).
func (s *Size) SubErr(v interface{}) error {
	f := toFloat64(v)
	if f < 0 {
		f = 0
	}

	if f >= math.MaxUint64 || uint64(math.Ceil(f)) > uint64(*s) {
		*s = SizeNul
		return fmt.Errorf("size: invalid substractor")
	}

	*s -= Size(math.Ceil(f))
	return nil
}
