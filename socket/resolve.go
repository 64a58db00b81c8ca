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
	"net"

	"github.com/nabbar/aio/socket/dns"
)

// resolve blocks until res completes resolution of q or ctx is canceled,
// returning the addresses found.
func resolve(ctx context.Context, res dns.Resolver, q *dns.Query) ([]dns.Result, error) {
	done := make(chan struct{})
	var results []dns.Result
	var resErr error

	res.Add(q, func(q *dns.Query, err error) {
		results = q.Results()
		resErr = err
		close(done)
	})

	select {
	case <-done:
		return results, resErr
	case <-ctx.Done():
		res.Remove(q)
		return nil, ctx.Err()
	}
}

// DialPreferIPv6 dials host:port preferring an AAAA (IPv6) address, falling
// back to an A (IPv4) address only when the IPv6 dial attempt itself fails
// (not merely when no AAAA record exists). bind optionally pins the local
// endpoint, same as socket/client/tcp's BindAddress; pass "" to let the OS
// choose. This matches the happy-eyeballs fallback spec.md §4.5 asks for on
// platforms/resolvers where net.Dialer's own dual-stack racing isn't in play
// (e.g. a caller that resolved addresses itself via a dns.Resolver rather
// than net.Dialer's builtin resolution). socket/client/tcp uses this path
// whenever its config.Family is FamilyAny (the default).
func DialPreferIPv6(ctx context.Context, res dns.Resolver, network, host, port, bind string) (net.Conn, error) {
	q := dns.NewForward(host, dns.RecordA|dns.RecordAAAA)
	results, err := resolve(ctx, res, q)
	if err != nil {
		return nil, err
	}

	var v6, v4 []net.IP
	for _, r := range results {
		if r.IP == nil {
			continue
		}
		if r.IP.To4() == nil {
			v6 = append(v6, r.IP)
		} else {
			v4 = append(v4, r.IP)
		}
	}

	var dialer net.Dialer
	if bind != "" {
		if la, lerr := net.ResolveTCPAddr(network, bind); lerr == nil {
			dialer.LocalAddr = la
		}
	}
	var lastErr error

	for _, ip := range v6 {
		conn, derr := dialer.DialContext(ctx, network, net.JoinHostPort(ip.String(), port))
		if derr == nil {
			return conn, nil
		}
		lastErr = derr
	}

	for _, ip := range v4 {
		conn, derr := dialer.DialContext(ctx, network, net.JoinHostPort(ip.String(), port))
		if derr == nil {
			return conn, nil
		}
		lastErr = derr
	}

	if lastErr == nil {
		lastErr = ErrNotConnected.Error(nil)
	}
	return nil, lastErr
}
