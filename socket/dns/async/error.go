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

package async

import "github.com/nabbar/aio/errors"

const (
	ErrStopped errors.CodeError = iota + errors.MinPkgSocketDNS + 20
	ErrNoNameservers
	// ErrBadRcode reports every nameserver in a Query's attempt consulted
	// answering with a non-success rcode.
	ErrBadRcode
)

var (
	errStopped       = ErrStopped.Error(nil)
	errNoNameservers = ErrNoNameservers.Error(nil)
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrStopped)
	errors.RegisterIdFctMessage(ErrStopped, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UnknownError:
		return ""
	case ErrStopped:
		return "dns async engine: stopped"
	case ErrNoNameservers:
		return "dns async engine: no nameservers configured"
	case ErrBadRcode:
		return "dns async engine: nameserver returned a non-success rcode"
	}

	return ""
}
