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

// Package tcp is the TCP Server state machine (spec.md §4.6): bind, run an
// accept loop dispatching each connection to a HandlerFunc in its own
// goroutine, and support both graceful (Shutdown) and immediate (Close)
// termination. TLS is adapted in with tls.NewListener wrapping the raw
// net.Listener, driven by the same certificates.TLSConfig the client side
// uses.
package tcp

import (
	"context"
	"crypto/tls"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nabbar/aio/logger"
	libsck "github.com/nabbar/aio/socket"
	"github.com/nabbar/aio/socket/config"
	"github.com/nabbar/aio/socket/framing"
	"github.com/nabbar/aio/socket/gc"
	"github.com/nabbar/aio/socket/poller"
)

// gcSweepInterval is how often the accept loop reaps connections whose
// close grace period (socket/gc) has elapsed.
const gcSweepInterval = time.Second

const (
	stateIdle int32 = iota
	stateRunning
	stateStopped
)

// ServerTcp is the TCP-specific Server.
type ServerTcp interface {
	libsck.Server
}

type serverTCP struct {
	cfg        *config.Server
	updateConn libsck.UpdateConn
	handler    libsck.HandlerFunc

	engine  poller.Engine
	gc      *gc.Collector
	scanner *framing.Scanner

	mu    sync.Mutex
	ln    net.Listener
	state int32
	done  chan struct{}
	conns map[net.Conn]struct{}

	open int64
	wg   sync.WaitGroup

	fctError  libsck.FuncError
	fctInfo   libsck.FuncInfo
	fctServer func(msg string)
}

var _ ServerTcp = (*serverTCP)(nil)

// New returns a ServerTcp bound to cfg, dispatching every accepted
// connection to handler. upd may be nil; it is invoked on each raw net.Conn
// right after accept, before TLS and before the handler sees it.
func New(upd libsck.UpdateConn, handler libsck.HandlerFunc, cfg *config.Server) (ServerTcp, error) {
	if cfg == nil {
		return nil, ErrInvalidAddress.Error(nil)
	}
	if err := cfg.Validate(); err != nil {
		return nil, ErrInvalidAddress.ErrorParent(err)
	}
	if handler == nil {
		return nil, ErrInvalidHandler.Error(nil)
	}

	scanner, err := cfg.Framing.Scanner()
	if err != nil {
		return nil, ErrInvalidAddress.ErrorParent(err)
	}

	return &serverTCP{
		cfg:        cfg,
		updateConn: upd,
		handler:    handler,
		engine:     poller.New(),
		gc:         gc.New(),
		scanner:    scanner,
		done:       make(chan struct{}),
		conns:      make(map[net.Conn]struct{}),
	}, nil
}

func (s *serverTCP) RegisterFuncError(f libsck.FuncError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fctError = f
}

func (s *serverTCP) RegisterFuncInfo(f libsck.FuncInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fctInfo = f
}

func (s *serverTCP) RegisterFuncInfoServer(f func(msg string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fctServer = f
}

func (s *serverTCP) reportError(err error) {
	if err = libsck.ErrorFilter(err); err == nil {
		return
	}
	s.mu.Lock()
	f := s.fctError
	s.mu.Unlock()
	if f != nil {
		f(err)
	}
}

func (s *serverTCP) reportInfo(conn net.Conn, state libsck.ConnState) {
	s.mu.Lock()
	f := s.fctInfo
	s.mu.Unlock()
	if f == nil || conn == nil {
		return
	}
	f(conn.LocalAddr(), conn.RemoteAddr(), state)
}

func (s *serverTCP) reportServer(msg string) {
	s.mu.Lock()
	f := s.fctServer
	s.mu.Unlock()
	if f != nil {
		f(msg)
	}
}

func (s *serverTCP) IsRunning() bool {
	return atomic.LoadInt32(&s.state) == stateRunning
}

func (s *serverTCP) IsGone() bool {
	return atomic.LoadInt32(&s.state) != stateRunning
}

func (s *serverTCP) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func (s *serverTCP) OpenConnections() int64 {
	return atomic.LoadInt64(&s.open)
}

// Listen binds the configured address and runs the accept loop until ctx is
// canceled or Shutdown/Close is invoked, whichever happens first.
func (s *serverTCP) Listen(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&s.state, stateIdle, stateRunning) {
		if atomic.LoadInt32(&s.state) == stateRunning {
			return ErrAlreadyRunning.Error(nil)
		}
		atomic.StoreInt32(&s.state, stateRunning)
	}

	ln, err := libsck.ListenConfig().Listen(ctx, s.cfg.Network.Code(), s.cfg.Address)
	if err != nil {
		atomic.StoreInt32(&s.state, stateStopped)
		return ErrListen.ErrorParent(err)
	}

	if s.cfg.TLS.Enabled {
		sn := s.cfg.TLS.ServerName
		ln = tls.NewListener(ln, s.cfg.TLS.Config.TlsConfig(sn))
	}

	s.mu.Lock()
	s.ln = ln
	s.done = make(chan struct{})
	s.mu.Unlock()

	s.reportServer("listening on " + ln.Addr().String())

	stopCtx, stopCancel := context.WithCancel(context.Background())
	defer stopCancel()
	go func() {
		select {
		case <-ctx.Done():
			_ = s.Close()
		case <-stopCtx.Done():
		}
	}()

	sweepDone := make(chan struct{})
	defer close(sweepDone)
	go func() {
		t := time.NewTicker(gcSweepInterval)
		defer t.Stop()
		for {
			select {
			case now := <-t.C:
				s.gc.Sweep(now)
			case <-sweepDone:
				return
			}
		}
	}()

	for {
		conn, aerr := ln.Accept()
		if aerr != nil {
			break
		}
		s.track(conn)
		s.wg.Add(1)
		atomic.AddInt64(&s.open, 1)
		go s.serve(ctx, conn)
	}

	s.wg.Wait()

	s.mu.Lock()
	atomic.StoreInt32(&s.state, stateStopped)
	close(s.done)
	s.mu.Unlock()

	s.reportServer("stopped")
	return nil
}

func (s *serverTCP) track(conn net.Conn) {
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
}

func (s *serverTCP) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

func (s *serverTCP) serve(ctx context.Context, conn net.Conn) {
	defer func() {
		atomic.AddInt64(&s.open, -1)
		s.untrack(conn)
		s.wg.Done()
	}()

	if s.updateConn != nil {
		s.updateConn(conn)
	}

	id := libsck.NewConnID()
	logger.Log(logger.DEBUG, "conn %s: accepted from %s", id, conn.RemoteAddr())
	s.reportInfo(conn, libsck.ConnectionNew)

	watch, werr := s.engine.Register(conn)
	if werr != nil {
		logger.Log(logger.DEBUG, "conn %s: not watched by poller: %s", id, werr)
		watch = nil
	}

	timeout := s.cfg.GetIdleTimeout()
	r := &connReader{conn: conn, timeout: timeout, ctx: ctx, watch: watch, scanner: s.scanner, onClose: func() { s.reportInfo(conn, libsck.ConnectionCloseRead) }}
	w := &connWriter{conn: conn, timeout: timeout, ctx: ctx, watch: watch, onClose: func() { s.reportInfo(conn, libsck.ConnectionCloseWrite) }}

	s.reportInfo(conn, libsck.ConnectionRead)
	s.reportInfo(conn, libsck.ConnectionHandler)
	s.handler(r, w)

	s.reportInfo(conn, libsck.ConnectionClose)
	logger.Log(logger.DEBUG, "conn %s: closed", id)
	if watch != nil {
		watch.Cancel()
	}
	s.gc.Push(conn, func() {
		if err := conn.Close(); err != nil {
			s.reportError(err)
		}
	})
}

// Shutdown stops accepting new connections and waits for in-flight
// connections to finish, up to ctx's deadline.
func (s *serverTCP) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()

	if ln != nil {
		_ = ln.Close()
	}

	waitCh := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(waitCh)
	}()

	select {
	case <-waitCh:
		return nil
	case <-ctx.Done():
		_ = s.Close()
		return ctx.Err()
	}
}

// Close stops the accept loop and force-closes every open connection.
func (s *serverTCP) Close() error {
	s.mu.Lock()
	ln := s.ln
	conns := make([]net.Conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	var err error
	if ln != nil {
		err = ln.Close()
	}
	for _, c := range conns {
		_ = c.Close()
	}
	return err
}
