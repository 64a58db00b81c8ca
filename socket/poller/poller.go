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

// Package poller is the readiness-multiplexing capability spec.md §4.1 asks
// the socket state machine to depend on (probe select/epoll/kevent/IOCP in
// preferred order, register a conn, wait for readiness) instead of calling
// net.Conn.Read/Write directly. socket/client/tcp and socket/server/tcp both
// Register every connection they own and call WaitReadable/WaitWritable on
// the returned Watch immediately before their next real Read/Write, so a
// future non-Go backend (io_uring, a userspace stack) can be substituted
// behind the Engine interface without touching either transport.
package poller

import (
	"context"
	"net"
	"sync"
	"syscall"
	"time"
)

// Watch is the registration handle returned by Engine.Register. Its
// WaitReadable/WaitWritable methods are meant to be called one at a time,
// immediately before the matching real Read or Write, not from a detached
// background loop: net.Conn itself only tolerates one outstanding reader and
// one outstanding writer, and a watch racing the real I/O call for the same
// direction would violate that.
type Watch interface {
	// WaitReadable blocks until the watched connection's read side is
	// ready for at least one byte, ctx is canceled, or the connection
	// errors out.
	WaitReadable(ctx context.Context) error
	// WaitWritable is WaitReadable's write-side counterpart.
	WaitWritable(ctx context.Context) error
	// Cancel stops the watch and unblocks any WaitReadable/WaitWritable
	// call in progress. Safe to call more than once.
	Cancel()
}

// Engine is the capability spec.md §4.1 asks the socket state machine to
// depend on instead of a concrete poll backend.
type Engine interface {
	// Register starts watching conn for read/write readiness.
	Register(conn net.Conn) (Watch, error)
}

// netpollEngine is the default Engine. The Go runtime's netpoller already
// performs the select/epoll/kevent/IOCP dispatch; this implementation
// exposes that same readiness signal through syscall.RawConn.Read/Write,
// whose callback only runs once the fd is actually ready -- the identical
// mechanism net.Conn's own blocking Read/Write rely on internally, and the
// one github.com/mdlayher/socket's Conn.rwT uses for cancelable raw I/O
// (see DESIGN.md).
type netpollEngine struct{}

// New returns the default Engine, backed by the Go runtime's netpoller.
func New() Engine {
	return &netpollEngine{}
}

func (e *netpollEngine) Register(conn net.Conn) (Watch, error) {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return nil, ErrUnsupportedConn.Error(nil)
	}

	rc, err := sc.SyscallConn()
	if err != nil {
		return nil, ErrUnsupportedConn.ErrorParent(err)
	}

	return &netpollWatch{conn: conn, rc: rc}, nil
}

type netpollWatch struct {
	conn net.Conn
	rc   syscall.RawConn

	mu       sync.Mutex
	canceled bool
}

func (w *netpollWatch) WaitReadable(ctx context.Context) error {
	return w.wait(ctx, w.rc.Read, w.conn.SetReadDeadline)
}

func (w *netpollWatch) WaitWritable(ctx context.Context) error {
	return w.wait(ctx, w.rc.Write, w.conn.SetWriteDeadline)
}

// wait runs poll, whose callback the runtime only invokes once the fd is
// ready in the requested direction. The callback itself performs no I/O: it
// just signals "stop waiting", leaving the real Read/Write that follows to
// consume the data.
func (w *netpollWatch) wait(ctx context.Context, poll func(func(uintptr) bool) error, setDeadline func(time.Time) error) error {
	w.mu.Lock()
	canceled := w.canceled
	w.mu.Unlock()
	if canceled {
		return ErrCanceled.Error(nil)
	}

	if dl, ok := ctx.Deadline(); ok {
		_ = setDeadline(dl)
		defer func() { _ = setDeadline(time.Time{}) }()
	}

	err := poll(func(fd uintptr) bool { return true })
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// Cancel marks the watch canceled and forces any in-flight wait to return
// by pushing both deadlines into the past; the connection is expected to be
// torn down right after.
func (w *netpollWatch) Cancel() {
	w.mu.Lock()
	if w.canceled {
		w.mu.Unlock()
		return
	}
	w.canceled = true
	w.mu.Unlock()

	past := time.Now().Add(-time.Second)
	_ = w.conn.SetReadDeadline(past)
	_ = w.conn.SetWriteDeadline(past)
}
