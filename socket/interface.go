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

package socket

import (
	"context"
	"crypto/tls"
	"io"
	"net"
)

// FuncError receives every non-nil error a Client or Server encounters
// outside the normal request flow (dial/accept/read/write failures).
// Callers are expected to run it through ErrorFilter before logging.
type FuncError func(errs ...error)

// FuncInfo is notified on every ConnState transition for a given
// connection, identified by its local/remote addresses.
type FuncInfo func(local net.Addr, remote net.Addr, state ConnState)

// Response receives the raw reply stream of a Client.Once call.
type Response func(reader io.Reader)

// UpdateConn customizes a freshly dialed/accepted net.Conn (buffer sizes,
// keep-alive, deadlines) before a Server or Client ever reads/writes it.
type UpdateConn func(conn net.Conn)

// Reader is the incoming half of a connection handed to a HandlerFunc.
// Closing it shuts down the read side only (ConnectionCloseRead), letting a
// half-duplex protocol keep writing after the peer is done sending.
type Reader io.ReadCloser

// Writer is the outgoing half of a connection handed to a HandlerFunc.
// Closing it shuts down the write side only (ConnectionCloseWrite).
type Writer io.WriteCloser

// HandlerFunc processes one connection. It is invoked once per accepted (or
// dialed) connection, in its own goroutine, and owns closing both request
// and response before returning.
type HandlerFunc func(request Reader, response Writer)

// Client is the contract shared by every client-side transport
// (socket/client/tcp and friends): dial, stream, and register callbacks.
type Client interface {
	io.Reader
	io.Writer
	io.Closer

	// Connect dials the configured address, honoring ctx for cancellation
	// and any configured dial timeout.
	Connect(ctx context.Context) error
	// IsConnected reports whether the client currently holds an open
	// connection.
	IsConnected() bool

	// Once dials (if needed), writes request, and invokes response with
	// the reply stream, then closes the connection. It is the one-shot
	// counterpart to Connect+Write+Read for simple request/response
	// protocols.
	Once(ctx context.Context, request io.Reader, response Response) error

	// SetTLS enables or disables TLS for subsequent Connect calls. config
	// may be nil to use the package default (InsecureSkipVerify false);
	// serverName overrides the SNI/verification hostname when set.
	SetTLS(enable bool, config *tls.Config, serverName string) error

	// RegisterFuncError installs the callback invoked on transport errors.
	RegisterFuncError(f FuncError)
	// RegisterFuncInfo installs the callback invoked on ConnState changes.
	RegisterFuncInfo(f FuncInfo)
}

// Server is the contract shared by every server-side transport
// (socket/server/tcp and friends): accept-loop and graceful shutdown.
type Server interface {
	// Listen runs the accept loop until ctx is canceled or Shutdown/Close
	// is called. Each accepted connection is dispatched to the configured
	// HandlerFunc in its own goroutine. Listen blocks until the loop
	// exits.
	Listen(ctx context.Context) error

	// Shutdown stops accepting new connections and waits (up to ctx's
	// deadline) for in-flight connections to finish.
	Shutdown(ctx context.Context) error

	// Close stops the accept loop and closes the listener and all open
	// connections immediately.
	Close() error

	// IsRunning reports whether Listen's accept loop is currently active.
	IsRunning() bool
	// IsGone reports whether the server has fully stopped (never started,
	// or Shutdown/Close has completed).
	IsGone() bool
	// Done is closed once the accept loop has fully exited.
	Done() <-chan struct{}

	// OpenConnections reports the number of connections currently being
	// served.
	OpenConnections() int64

	// RegisterFuncError installs the callback invoked on transport errors.
	RegisterFuncError(f FuncError)
	// RegisterFuncInfo installs the callback invoked on per-connection
	// ConnState changes.
	RegisterFuncInfo(f FuncInfo)
	// RegisterFuncInfoServer installs the callback invoked on
	// server-lifecycle events (listening, shutting down) that aren't tied
	// to one connection.
	RegisterFuncInfoServer(f func(msg string))
}
