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

// Package protocol defines the closed set of network protocols this module
// dials and listens on: TCP and its address-family-pinned variants. UDP and
// Unix-socket variants are out of scope (see spec.md's Non-goals).
package protocol

import "strings"

// NetworkProtocol identifies the dial/listen network string passed to
// net.Dialer / net.Listen.
type NetworkProtocol uint8

const (
	NetworkEmpty NetworkProtocol = iota
	NetworkTCP
	NetworkTCP4
	NetworkTCP6
)

// Parse maps a case-insensitive network string ("tcp", "tcp4", "tcp6") to
// its NetworkProtocol value. An unrecognized string returns NetworkEmpty.
func Parse(s string) NetworkProtocol {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tcp":
		return NetworkTCP
	case "tcp4":
		return NetworkTCP4
	case "tcp6":
		return NetworkTCP6
	default:
		return NetworkEmpty
	}
}
