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

package tcp

import "github.com/nabbar/aio/errors"

const (
	// ErrInvalidAddress reports a configuration whose listen address
	// failed validation.
	ErrInvalidAddress errors.CodeError = iota + errors.MinPkgSocketServer
	// ErrInvalidHandler reports a nil HandlerFunc passed to New.
	ErrInvalidHandler
	// ErrListen reports a failure binding/accepting on the listener.
	ErrListen
	// ErrAlreadyRunning reports a Listen call on a server already serving.
	ErrAlreadyRunning
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrInvalidAddress)
	errors.RegisterIdFctMessage(ErrInvalidAddress, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UnknownError:
		return ""
	case ErrInvalidAddress:
		return "tcp server: invalid listen configuration"
	case ErrInvalidHandler:
		return "tcp server: handler must not be nil"
	case ErrListen:
		return "tcp server: listen failed"
	case ErrAlreadyRunning:
		return "tcp server: already running"
	}

	return ""
}
