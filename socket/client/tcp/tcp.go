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

// Package tcp is the TCP Client state machine (spec.md §4.5): dial with an
// optional bind address, adapt to TLS via certificates.TLSConfig, and expose
// a Read/Write/Once surface shared with every other socket/client
// implementation through socket.Client. IPv6-preferred / IPv4-fallback
// dialing (spec.md's "happy eyeballs" requirement) is handled by
// socket.DialPreferIPv6 whenever the configured AddressFamily is
// config.FamilyAny (the default); a pinned family dials that network
// directly through net.Dialer instead. Every Read/Write waits on a
// socket/poller Watch for readiness first, and Close routes the real
// conn.Close through socket/gc instead of tearing the connection down
// synchronously.
package tcp

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/nabbar/aio/logger"
	libsck "github.com/nabbar/aio/socket"
	"github.com/nabbar/aio/socket/config"
	"github.com/nabbar/aio/socket/dns"
	"github.com/nabbar/aio/socket/dns/blocking"
	"github.com/nabbar/aio/socket/framing"
	"github.com/nabbar/aio/socket/gc"
	"github.com/nabbar/aio/socket/poller"
)

// gcSweepInterval is how often Close's self-terminating sweeper checks
// whether the grace period on the closed connection has elapsed. clientTCP
// has no long-running loop of its own to hang a persistent ticker off of,
// unlike socket/server/tcp's accept loop.
const gcSweepInterval = time.Second

// ClientTCP is the TCP-specific Client. It adds nothing to socket.Client
// today; the alias exists so callers can depend on a TCP-flavored name the
// way the rest of the socket/client tree does.
type ClientTCP interface {
	libsck.Client
}

type clientTCP struct {
	mu sync.Mutex

	address     string
	bindAddress string
	family      config.AddressFamily
	idleTimeout time.Duration
	updateConn  libsck.UpdateConn

	tlsEnabled    bool
	tlsConfig     *tls.Config
	tlsServerName string

	engine  poller.Engine
	gc      *gc.Collector
	scanner *framing.Scanner
	framed  *framing.Reader

	resolverOnce sync.Once
	resolver     dns.Resolver
	resolverErr  error

	conn  net.Conn
	watch poller.Watch
	id    string

	fctError libsck.FuncError
	fctInfo  libsck.FuncInfo
}

var _ ClientTCP = (*clientTCP)(nil)

func validateAddress(address string) error {
	if address == "" {
		return ErrAddress.Error(nil)
	}

	_, port, err := net.SplitHostPort(address)
	if err != nil {
		return ErrAddress.ErrorParent(err)
	}
	if port == "" {
		return ErrAddress.Error(nil)
	}

	p, err := strconv.Atoi(port)
	if err != nil || p < 0 || p > 65535 {
		return ErrAddress.ErrorParent(err)
	}

	return nil
}

// New returns a ClientTCP that dials address (host:port) on Connect.
func New(address string) (ClientTCP, error) {
	if err := validateAddress(address); err != nil {
		return nil, err
	}

	return &clientTCP{
		address:     address,
		idleTimeout: config.DefaultIdleTimeout.Time(),
		engine:      poller.New(),
		gc:          gc.New(),
	}, nil
}

// NewWithConfig returns a ClientTCP built from a validated socket/config
// Client, wiring its TLS material through certificates.TLSConfig and its
// address-family preference and framing toggle into the dial/read path.
func NewWithConfig(cfg *config.Client) (ClientTCP, error) {
	if cfg == nil {
		return nil, ErrAddress.Error(nil)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	scanner, err := cfg.Framing.Scanner()
	if err != nil {
		return nil, ErrAddress.ErrorParent(err)
	}

	c := &clientTCP{
		address:     cfg.Address,
		bindAddress: cfg.BindAddress,
		family:      cfg.Family,
		idleTimeout: cfg.GetIdleTimeout(),
		engine:      poller.New(),
		gc:          gc.New(),
		scanner:     scanner,
	}

	if cfg.TLS.Enabled {
		sn := cfg.TLS.ServerName
		if sn == "" {
			sn, _, _ = net.SplitHostPort(cfg.Address)
		}
		if err := c.SetTLS(true, cfg.TLS.Config.TlsConfig(sn), sn); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// RegisterUpdateConn installs the callback used to tune a freshly dialed
// net.Conn (buffer sizes, keep-alive) before it is used.
func (c *clientTCP) RegisterUpdateConn(f libsck.UpdateConn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateConn = f
}

func (c *clientTCP) RegisterFuncError(f libsck.FuncError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fctError = f
}

func (c *clientTCP) RegisterFuncInfo(f libsck.FuncInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fctInfo = f
}

func (c *clientTCP) SetTLS(enable bool, cfg *tls.Config, serverName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tlsEnabled = enable
	c.tlsConfig = cfg
	c.tlsServerName = serverName
	return nil
}

func (c *clientTCP) reportError(err error) {
	if err = libsck.ErrorFilter(err); err == nil {
		return
	}
	c.mu.Lock()
	f := c.fctError
	c.mu.Unlock()
	if f != nil {
		f(err)
	}
}

func (c *clientTCP) reportInfo(state libsck.ConnState) {
	c.mu.Lock()
	f := c.fctInfo
	conn := c.conn
	c.mu.Unlock()

	if f == nil {
		return
	}

	var local, remote net.Addr
	if conn != nil {
		local, remote = conn.LocalAddr(), conn.RemoteAddr()
	}
	f(local, remote, state)
}

// getResolver lazily builds the blocking.Engine used by the FamilyAny dial
// path, initializing it exactly once.
func (c *clientTCP) getResolver() (dns.Resolver, error) {
	c.resolverOnce.Do(func() {
		r := blocking.New(nil)
		if err := r.Init(); err != nil {
			c.resolverErr = err
			return
		}
		c.resolver = r
	})
	return c.resolver, c.resolverErr
}

func familyNetwork(f config.AddressFamily) string {
	switch f {
	case config.FamilyIPv4:
		return "tcp4"
	case config.FamilyIPv6:
		return "tcp6"
	default:
		return "tcp"
	}
}

func (c *clientTCP) dialDirect(ctx context.Context, network, bind string) (net.Conn, error) {
	c.mu.Lock()
	addr := c.address
	c.mu.Unlock()

	d := &net.Dialer{Timeout: 30 * time.Second}
	if bind != "" {
		if la, err := net.ResolveTCPAddr(network, bind); err == nil {
			d.LocalAddr = la
		}
	}
	conn, err := d.DialContext(ctx, network, addr)
	if err != nil {
		return nil, ErrDial.ErrorParent(err)
	}
	return conn, nil
}

func (c *clientTCP) dialPreferred(ctx context.Context, bind string) (net.Conn, error) {
	c.mu.Lock()
	addr := c.address
	c.mu.Unlock()

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, ErrDial.ErrorParent(err)
	}

	res, err := c.getResolver()
	if err != nil {
		return nil, ErrDial.ErrorParent(err)
	}

	conn, err := libsck.DialPreferIPv6(ctx, res, "tcp", host, port, bind)
	if err != nil {
		return nil, ErrDial.ErrorParent(err)
	}
	return conn, nil
}

func (c *clientTCP) dial(ctx context.Context) (net.Conn, error) {
	c.mu.Lock()
	bind := c.bindAddress
	family := c.family
	tlsEnabled := c.tlsEnabled
	tlsCfg := c.tlsConfig
	tlsServerName := c.tlsServerName
	update := c.updateConn
	c.mu.Unlock()

	var (
		conn net.Conn
		err  error
	)

	if family == config.FamilyAny {
		conn, err = c.dialPreferred(ctx, bind)
	} else {
		conn, err = c.dialDirect(ctx, familyNetwork(family), bind)
	}
	if err != nil {
		return nil, err
	}

	if update != nil {
		update(conn)
	}

	if tlsEnabled {
		cfg := tlsCfg
		if cfg == nil {
			cfg = &tls.Config{}
		}
		if cfg.ServerName == "" && tlsServerName != "" {
			cfg = cfg.Clone()
			cfg.ServerName = tlsServerName
		}
		tc := tls.Client(conn, cfg)
		if err = tc.HandshakeContext(ctx); err != nil {
			_ = conn.Close()
			return nil, ErrDial.ErrorParent(err)
		}
		return tc, nil
	}

	return conn, nil
}

// Connect dials the configured address, reporting ConnectionDial before and
// ConnectionNew after a successful handshake. The dialed connection is
// registered with the poller engine when it exposes a raw fd (a plain TCP
// conn does, a TLS-wrapped one does not); Read/Write silently skip the
// readiness wait when no Watch could be obtained.
func (c *clientTCP) Connect(ctx context.Context) error {
	c.reportInfo(libsck.ConnectionDial)

	conn, err := c.dial(ctx)
	if err != nil {
		c.reportError(err)
		return err
	}

	watch, werr := c.engine.Register(conn)
	if werr != nil {
		watch = nil
	}

	id := libsck.NewConnID()
	c.mu.Lock()
	c.conn = conn
	c.watch = watch
	c.id = id
	c.framed = nil
	c.mu.Unlock()

	logger.Log(logger.DEBUG, "conn %s: dialed %s", id, conn.RemoteAddr())
	c.reportInfo(libsck.ConnectionNew)
	return nil
}

func (c *clientTCP) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

func (c *clientTCP) waitCtx(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.Background(), func() {}
	}
	return context.WithTimeout(context.Background(), timeout)
}

func (c *clientTCP) readRaw(p []byte) (int, error) {
	c.mu.Lock()
	conn := c.conn
	watch := c.watch
	timeout := c.idleTimeout
	c.mu.Unlock()

	if conn == nil {
		return 0, ErrNotConnected.Error(nil)
	}

	if timeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(timeout))
	}

	if watch != nil {
		ctx, cancel := c.waitCtx(timeout)
		err := watch.WaitReadable(ctx)
		cancel()
		if err != nil {
			return 0, err
		}
	}

	n, err := conn.Read(p)
	if err != nil {
		c.reportError(err)
	}
	return n, err
}

// Read returns raw bytes from the wire, or one delimited segment at a time
// when the client was built with a framing.Scanner configured.
func (c *clientTCP) Read(p []byte) (int, error) {
	c.mu.Lock()
	scanner := c.scanner
	c.mu.Unlock()

	if scanner == nil {
		return c.readRaw(p)
	}

	c.mu.Lock()
	if c.framed == nil {
		c.framed = framing.NewReader(rawReaderFunc(c.readRaw), scanner)
	}
	framed := c.framed
	c.mu.Unlock()

	seg, err := framed.ReadSegment()
	if err != nil {
		return 0, err
	}
	return copy(p, seg), nil
}

// rawReaderFunc adapts readRaw's (int, error) signature to io.Reader so
// framing.Reader can pull straight from the poller-gated read path.
type rawReaderFunc func(p []byte) (int, error)

func (f rawReaderFunc) Read(p []byte) (int, error) { return f(p) }

func (c *clientTCP) Write(p []byte) (int, error) {
	c.mu.Lock()
	conn := c.conn
	watch := c.watch
	timeout := c.idleTimeout
	c.mu.Unlock()

	if conn == nil {
		return 0, ErrNotConnected.Error(nil)
	}

	if timeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(timeout))
	}

	if watch != nil {
		ctx, cancel := c.waitCtx(timeout)
		err := watch.WaitWritable(ctx)
		cancel()
		if err != nil {
			return 0, err
		}
	}

	n, err := conn.Write(p)
	if err != nil {
		c.reportError(err)
	}
	return n, err
}

// Close closes the current connection, if any. It is idempotent. The actual
// conn.Close call is routed through socket/gc so in-flight Read/Write
// goroutines get the collector's grace period to observe the canceled watch
// before the fd disappears underneath them.
func (c *clientTCP) Close() error {
	c.mu.Lock()
	conn := c.conn
	watch := c.watch
	id := c.id
	c.conn = nil
	c.watch = nil
	c.id = ""
	c.framed = nil
	c.mu.Unlock()

	if conn == nil {
		return nil
	}

	if watch != nil {
		watch.Cancel()
	}

	c.reportInfo(libsck.ConnectionClose)
	logger.Log(logger.DEBUG, "conn %s: closed", id)

	c.gc.Push(conn, func() {
		if err := conn.Close(); err != nil {
			c.reportError(err)
		}
	})
	c.sweepUntilDrained()

	return nil
}

// sweepUntilDrained reaps the just-pushed close once its grace period
// elapses. clientTCP has no persistent background loop to hang a sweeper
// off of, so Close spawns a short-lived one that exits as soon as the
// collector is empty.
func (c *clientTCP) sweepUntilDrained() {
	go func() {
		t := time.NewTicker(gcSweepInterval)
		defer t.Stop()
		for now := range t.C {
			c.gc.Sweep(now)
			if c.gc.Pending() == 0 {
				return
			}
		}
	}()
}

// Once dials (if not already connected), writes request in full, hands the
// reply stream to response, then closes the connection.
func (c *clientTCP) Once(ctx context.Context, request io.Reader, response libsck.Response) error {
	if !c.IsConnected() {
		if err := c.Connect(ctx); err != nil {
			return err
		}
	}
	defer func() { _ = c.Close() }()

	if request != nil {
		if _, err := io.Copy(c, request); err != nil {
			return err
		}
	}

	if response != nil {
		response(c)
	}
	return nil
}
