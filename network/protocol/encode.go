/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package protocol

import (
	"encoding/json"
	"fmt"
	"reflect"

	libmap "github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

func (p *NetworkProtocol) unmarshall(b []byte) error {
	v := Parse(string(b))
	if !v.IsValid() {
		return fmt.Errorf("network/protocol: %q is not a valid protocol", string(b))
	}
	*p = v
	return nil
}

func (p NetworkProtocol) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *NetworkProtocol) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return p.unmarshall([]byte(s))
}

func (p NetworkProtocol) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}

func (p *NetworkProtocol) UnmarshalYAML(value *yaml.Node) error {
	return p.unmarshall([]byte(value.Value))
}

func (p NetworkProtocol) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *NetworkProtocol) UnmarshalText(b []byte) error {
	return p.unmarshall(b)
}

// ViperDecoderHook converts a protocol string read from configuration into
// a NetworkProtocol, following the teacher's certificates/cipher pattern.
func ViperDecoderHook() libmap.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		var z NetworkProtocol

		if from.Kind() != reflect.String {
			return data, nil
		}

		t, ok := data.(string)
		if !ok {
			return data, nil
		}

		if reflect.TypeOf(z) != to {
			return data, nil
		}

		if e := z.unmarshall([]byte(t)); e != nil {
			return data, nil
		} else if z == NetworkEmpty {
			return data, nil
		} else {
			return z, nil
		}
	}
}
