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

// Package socket defines the connection lifecycle shared by every transport
// under socket/client and socket/server: the ConnState machine, the
// Reader/Writer pair a HandlerFunc is given, and the registration callbacks
// (FuncError, FuncInfo) common to clients and servers alike.
package socket

import (
	"strings"
)

// DefaultBufferSize is the read/write buffer allocated per connection when
// none is configured.
const DefaultBufferSize = 32 * 1024

// EOL is the default line terminator used by the framing scanner when a
// caller doesn't supply its own delimiter set.
const EOL = '\n'

// DefaultMaxConns is the number of simultaneously open connections a Server
// accepts before a newly accepted connection is closed immediately, when no
// other limit is configured.
const DefaultMaxConns = 1024

// ConnState identifies a stage in a connection's lifecycle, reported to a
// registered FuncInfo for monitoring and logging.
type ConnState uint8

const (
	// ConnectionDial is reported by a Client before it dials out.
	ConnectionDial ConnState = iota
	// ConnectionNew is reported once a connection (dialed or accepted) is
	// established.
	ConnectionNew
	// ConnectionRead is reported while a HandlerFunc's incoming stream is
	// being read.
	ConnectionRead
	// ConnectionCloseRead is reported when the incoming stream half-closes.
	ConnectionCloseRead
	// ConnectionHandler is reported while the registered HandlerFunc runs.
	ConnectionHandler
	// ConnectionWrite is reported while the outgoing stream is written.
	ConnectionWrite
	// ConnectionCloseWrite is reported when the outgoing stream half-closes.
	ConnectionCloseWrite
	// ConnectionClose is reported once the connection is fully closed.
	ConnectionClose
)

// String renders the human-readable label used in log lines.
func (s ConnState) String() string {
	switch s {
	case ConnectionDial:
		return "Dial Connection"
	case ConnectionNew:
		return "New Connection"
	case ConnectionRead:
		return "Read Incoming Stream"
	case ConnectionCloseRead:
		return "Close Incoming Stream"
	case ConnectionHandler:
		return "Run HandlerFunc"
	case ConnectionWrite:
		return "Write Outgoing Steam"
	case ConnectionCloseWrite:
		return "Close Outgoing Stream"
	case ConnectionClose:
		return "Close Connection"
	default:
		return "unknown connection state"
	}
}

// expectedCloseSubstrings lists the net-package error texts that are a
// routine side effect of shutdown, not a failure worth surfacing.
var expectedCloseSubstrings = []string{
	"use of closed network connection",
	"broken pipe",
	"connection reset by peer",
	"EOF",
}

// ErrorFilter returns nil for errors that are an expected consequence of
// closing a connection (so a FuncError callback doesn't log shutdown noise),
// and returns every other error unchanged.
func ErrorFilter(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	for _, s := range expectedCloseSubstrings {
		if strings.Contains(msg, s) {
			return nil
		}
	}

	return err
}
