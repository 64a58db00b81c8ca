/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
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

package config

import "github.com/nabbar/aio/errors"

const (
	ErrValidation errors.CodeError = iota + errors.MinPkgSocketConfig
	ErrInvalidProtocol
	ErrInvalidAddress
	ErrInvalidTLSConfig
	ErrInvalidFraming
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrValidation)
	errors.RegisterIdFctMessage(ErrValidation, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UnknownError:
		return ""
	case ErrValidation:
		return "socket config: invalid configuration"
	case ErrInvalidProtocol:
		return "socket config: network protocol must be tcp, tcp4 or tcp6"
	case ErrInvalidAddress:
		return "socket config: invalid host:port address"
	case ErrInvalidTLSConfig:
		return "socket config: TLS enabled without a TLS configuration"
	case ErrInvalidFraming:
		return "socket config: framing enabled with no (or too many) delimiter bytes"
	}

	return ""
}
