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

package protocol_test

import (
	"encoding/json"
	"reflect"

	. "github.com/nabbar/aio/network/protocol"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gopkg.in/yaml.v3"
)

var _ = Describe("protocol", func() {
	It("parses known network strings case-insensitively", func() {
		Expect(Parse("tcp")).To(Equal(NetworkTCP))
		Expect(Parse("TCP4")).To(Equal(NetworkTCP4))
		Expect(Parse(" tcp6 ")).To(Equal(NetworkTCP6))
		Expect(Parse("udp")).To(Equal(NetworkEmpty))
		Expect(Parse("")).To(Equal(NetworkEmpty))
	})

	It("String/Code/Network agree and round-trip through Parse", func() {
		for _, p := range []NetworkProtocol{NetworkTCP, NetworkTCP4, NetworkTCP6} {
			Expect(p.Code()).To(Equal(p.String()))
			Expect(p.Network()).To(Equal(p.String()))
			Expect(Parse(p.String())).To(Equal(p))
			Expect(p.IsValid()).To(BeTrue())
		}
		Expect(NetworkEmpty.IsValid()).To(BeFalse())
		Expect(NetworkEmpty.String()).To(Equal(""))
	})

	It("Marshal/Unmarshal JSON/YAML/Text roundtrip", func() {
		p := NetworkTCP4

		b, err := json.Marshal(p)
		Expect(err).ToNot(HaveOccurred())
		var p2 NetworkProtocol
		Expect(json.Unmarshal(b, &p2)).To(Succeed())
		Expect(p2).To(Equal(p))

		b, err = yaml.Marshal(p)
		Expect(err).ToNot(HaveOccurred())
		var p3 NetworkProtocol
		Expect(yaml.Unmarshal(b, &p3)).To(Succeed())
		Expect(p3).To(Equal(p))

		txt, err := p.MarshalText()
		Expect(err).ToNot(HaveOccurred())
		var p4 NetworkProtocol
		Expect(p4.UnmarshalText(txt)).To(Succeed())
		Expect(p4).To(Equal(p))
	})

	It("rejects an invalid protocol string on unmarshal", func() {
		var p NetworkProtocol
		Expect(p.UnmarshalText([]byte("udp"))).To(HaveOccurred())
	})

	It("ViperDecoderHook converts valid strings and passes through others", func() {
		hook := ViperDecoderHook()
		protoType := reflect.TypeOf(NetworkProtocol(0))

		out, err := hook(reflect.TypeOf(""), protoType, "tcp6")
		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(Equal(NetworkTCP6))

		out, err = hook(reflect.TypeOf(""), protoType, "udp")
		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(Equal("udp"))

		out, err = hook(reflect.TypeOf(0), protoType, 42)
		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(Equal(42))
	})
})
