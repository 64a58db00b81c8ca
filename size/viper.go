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
	"reflect"

	libmap "github.com/go-viper/mapstructure/v2"
)

// ViperDecoderHook returns a mapstructure decode hook that converts a
// human-readable size string or byte slice ("5MB"), or any integer or float
// kind, into a Size, for use with viper.DecodeHook when unmarshalling
// configuration.
func ViperDecoderHook() libmap.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if reflect.TypeOf(Size(0)) != to {
			return data, nil
		}

		if from.Kind() == reflect.String {
			str, ok := data.(string)
			if !ok {
				return data, nil
			}
			return Parse(str)
		}

		switch v := data.(type) {
		case []byte:
			return ParseByte(v)
		case int:
			return ParseInt64(int64(v)), nil
		case int8:
			return ParseInt64(int64(v)), nil
		case int16:
			return ParseInt64(int64(v)), nil
		case int32:
			return ParseInt64(int64(v)), nil
		case int64:
			return ParseInt64(v), nil
		case uint:
			return ParseUint64(uint64(v)), nil
		case uint8:
			return ParseUint64(uint64(v)), nil
		case uint16:
			return ParseUint64(uint64(v)), nil
		case uint32:
			return ParseUint64(uint64(v)), nil
		case uint64:
			return ParseUint64(v), nil
		case float32:
			return ParseFloat64(float64(v)), nil
		case float64:
			return ParseFloat64(v), nil
		default:
			return data, nil
		}
	}
}
