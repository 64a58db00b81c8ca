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

// String returns the dial/listen network string for p ("tcp", "tcp4",
// "tcp6"), or "" for NetworkEmpty / an undefined value.
func (p NetworkProtocol) String() string {
	switch p {
	case NetworkTCP:
		return "tcp"
	case NetworkTCP4:
		return "tcp4"
	case NetworkTCP6:
		return "tcp6"
	default:
		return ""
	}
}

// Code is an alias of String kept for parity with the teacher's Code/String
// pairing on other enum packages (certificates/cipher, certificates/curves).
func (p NetworkProtocol) Code() string {
	return p.String()
}

// Network is an alias of String: the string net.Dialer/net.Listen expect.
func (p NetworkProtocol) Network() string {
	return p.String()
}

// IsValid reports whether p is one of the defined TCP variants.
func (p NetworkProtocol) IsValid() bool {
	switch p {
	case NetworkTCP, NetworkTCP4, NetworkTCP6:
		return true
	default:
		return false
	}
}
