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

import (
	"context"
	"net"
	"time"

	"github.com/nabbar/aio/socket/framing"
	"github.com/nabbar/aio/socket/poller"
)

// connReader is the libsck.Reader half of an accepted connection: Read
// refreshes the idle deadline on every call, waits on watch (if any) for
// read readiness before every real Read, and Close half-closes the incoming
// stream on *net.TCPConn without tearing down the whole socket.
//
// When scanner is non-nil, Read returns one delimited segment per call
// instead of a raw chunk of the wire, via an internal framing.Reader wired
// in lazily on first use.
type connReader struct {
	conn    net.Conn
	timeout time.Duration
	ctx     context.Context
	watch   poller.Watch
	scanner *framing.Scanner
	onClose func()

	framed *framing.Reader
}

func (r *connReader) Read(p []byte) (int, error) {
	if r.scanner != nil {
		return r.readFramed(p)
	}
	return r.readRaw(p)
}

func (r *connReader) readRaw(p []byte) (int, error) {
	if r.timeout > 0 {
		_ = r.conn.SetReadDeadline(time.Now().Add(r.timeout))
	}
	if r.watch != nil {
		if err := r.watch.WaitReadable(r.waitCtx()); err != nil {
			return 0, err
		}
	}
	return r.conn.Read(p)
}

// readFramed copies one delimited segment into p, truncating it if p is
// shorter than the segment (matching bufio.Scanner's token-in-buffer
// contract: callers size p to MaxSegment to never lose bytes).
func (r *connReader) readFramed(p []byte) (int, error) {
	if r.framed == nil {
		r.framed = framing.NewReader(rawReaderFunc(r.readRaw), r.scanner)
	}
	seg, err := r.framed.ReadSegment()
	if err != nil {
		return 0, err
	}
	return copy(p, seg), nil
}

func (r *connReader) waitCtx() context.Context {
	if r.ctx != nil {
		return r.ctx
	}
	return context.Background()
}

func (r *connReader) Close() error {
	if r.onClose != nil {
		defer r.onClose()
	}
	if tc, ok := r.conn.(*net.TCPConn); ok {
		return tc.CloseRead()
	}
	return nil
}

// rawReaderFunc adapts readRaw's (int, error) signature to io.Reader so
// framing.Reader can pull straight from the poller-gated read path instead
// of conn.Read directly.
type rawReaderFunc func(p []byte) (int, error)

func (f rawReaderFunc) Read(p []byte) (int, error) { return f(p) }

// connWriter is the libsck.Writer half of an accepted connection.
type connWriter struct {
	conn    net.Conn
	timeout time.Duration
	ctx     context.Context
	watch   poller.Watch
	onClose func()
}

func (w *connWriter) Write(p []byte) (int, error) {
	if w.timeout > 0 {
		_ = w.conn.SetWriteDeadline(time.Now().Add(w.timeout))
	}
	if w.watch != nil {
		ctx := w.ctx
		if ctx == nil {
			ctx = context.Background()
		}
		if err := w.watch.WaitWritable(ctx); err != nil {
			return 0, err
		}
	}
	return w.conn.Write(p)
}

func (w *connWriter) Close() error {
	if w.onClose != nil {
		defer w.onClose()
	}
	if tc, ok := w.conn.(*net.TCPConn); ok {
		return tc.CloseWrite()
	}
	return nil
}
