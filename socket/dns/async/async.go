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

// Package async is the c-ares-style DNS engine (spec.md §4.4): it issues
// queries directly over the wire with github.com/miekg/dns instead of
// shelling out to the platform resolver. In the C original this engine
// hands the poll engine a set of transport sockets to watch via
// OVERRIDE_WANT_*; here that readiness plumbing is simply Go's own
// runtime network poller, driven from one goroutine per in-flight query
// rather than a hand-rolled fd-readiness callback (see DESIGN.md).
package async

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	mdns "github.com/miekg/dns"

	"github.com/nabbar/aio/socket/dns"
)

// Retransmit is the per-attempt timeout before the resolver channel retries
// against the next configured nameserver (spec.md §4.4's "timer watches the
// resolver's internal retransmission schedule").
const Retransmit = 2 * time.Second

// Attempts bounds how many nameservers are tried before a query fails.
const Attempts = 3

// Engine issues forward/reverse queries with a miekg/dns client against a
// fixed set of nameservers.
type Engine struct {
	Client      *mdns.Client
	Nameservers []string

	mu      sync.Mutex
	stopped bool
	removed map[*dns.Query]struct{}
	wg      sync.WaitGroup
}

var _ dns.Resolver = (*Engine)(nil)

// New returns an Engine querying the given nameservers (host:port, e.g.
// "8.8.8.8:53"). If nameservers is empty, the system's resolv.conf is read.
func New(nameservers ...string) *Engine {
	return &Engine{
		Client:      &mdns.Client{Timeout: Retransmit},
		Nameservers: nameservers,
		removed:     make(map[*dns.Query]struct{}),
	}
}

// Init loads /etc/resolv.conf's nameservers when none were supplied.
func (e *Engine) Init() error {
	if len(e.Nameservers) > 0 {
		return nil
	}

	cfg, err := mdns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || cfg == nil || len(cfg.Servers) == 0 {
		e.Nameservers = []string{"8.8.8.8:53", "1.1.1.1:53"}
		return nil
	}

	for _, s := range cfg.Servers {
		e.Nameservers = append(e.Nameservers, net.JoinHostPort(s, cfg.Port))
	}
	return nil
}

// Add resolves q against e.Nameservers in a dedicated goroutine, retrying
// across Attempts servers before reporting failure.
func (e *Engine) Add(q *dns.Query, cb dns.EventCallback) {
	q.MarkRunning()

	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		cb(q, errStopped)
		return
	}
	e.wg.Add(1)
	e.mu.Unlock()

	go func() {
		defer e.wg.Done()
		results, err := e.resolve(context.Background(), q)

		e.mu.Lock()
		_, cancelled := e.removed[q]
		delete(e.removed, q)
		e.mu.Unlock()
		if cancelled {
			return
		}

		q.Complete(results, err)
		cb(q, err)
	}()
}

// Remove marks q cancelled; its result is discarded when the in-flight
// goroutine observes the cancellation.
func (e *Engine) Remove(q *dns.Query) {
	e.mu.Lock()
	e.removed[q] = struct{}{}
	e.mu.Unlock()
}

// Stop waits for in-flight queries to finish and rejects further Add calls.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.stopped = true
	e.mu.Unlock()
	e.wg.Wait()
}

func (e *Engine) resolve(ctx context.Context, q *dns.Query) ([]dns.Result, error) {
	if q.Types.Has(dns.RecordPTR) {
		return e.resolvePTR(ctx, q)
	}
	return e.resolveForward(ctx, q)
}

func (e *Engine) resolveForward(ctx context.Context, q *dns.Query) ([]dns.Result, error) {
	var out []dns.Result
	var lastErr error

	var types []uint16
	if q.Types.Has(dns.RecordA) {
		types = append(types, mdns.TypeA)
	}
	if q.Types.Has(dns.RecordAAAA) || len(types) == 0 {
		types = append(types, mdns.TypeAAAA)
	}

	for _, t := range types {
		m := new(mdns.Msg)
		m.SetQuestion(mdns.Fqdn(q.Host), t)
		m.RecursionDesired = true

		r, err := e.exchange(ctx, m)
		if err != nil {
			lastErr = err
			continue
		}

		for _, rr := range r.Answer {
			switch v := rr.(type) {
			case *mdns.A:
				out = append(out, dns.Result{Type: dns.RecordA, IP: v.A})
			case *mdns.AAAA:
				out = append(out, dns.Result{Type: dns.RecordAAAA, IP: v.AAAA})
			}
		}
	}

	if len(out) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return out, nil
}

func (e *Engine) resolvePTR(ctx context.Context, q *dns.Query) ([]dns.Result, error) {
	name, err := mdns.ReverseAddr(q.Addr.String())
	if err != nil {
		return nil, err
	}

	m := new(mdns.Msg)
	m.SetQuestion(name, mdns.TypePTR)
	m.RecursionDesired = true

	r, err := e.exchange(ctx, m)
	if err != nil {
		return nil, err
	}

	var out []dns.Result
	for _, rr := range r.Answer {
		if v, ok := rr.(*mdns.PTR); ok {
			out = append(out, dns.Result{Type: dns.RecordPTR, Host: v.Ptr})
		}
	}
	return out, nil
}

// exchange tries each configured nameserver in turn, up to Attempts times,
// matching the c-ares-style retransmission-across-servers behavior.
func (e *Engine) exchange(ctx context.Context, m *mdns.Msg) (*mdns.Msg, error) {
	var lastErr error

	for i := 0; i < Attempts && i < len(e.Nameservers)*Attempts; i++ {
		ns := e.Nameservers[i%len(e.Nameservers)]

		r, _, err := e.Client.ExchangeContext(ctx, m, ns)
		if err != nil {
			lastErr = err
			continue
		}
		if r.Rcode != mdns.RcodeSuccess {
			lastErr = ErrBadRcode.ErrorParent(fmt.Errorf("server %s returned rcode %d", ns, r.Rcode))
			continue
		}
		return r, nil
	}

	if lastErr == nil {
		lastErr = errNoNameservers
	}
	return nil, lastErr
}
