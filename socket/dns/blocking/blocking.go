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

// Package blocking is the default DNS engine (spec.md §4.4): it runs
// net.Resolver lookups (which block on the platform's getaddrinfo) on a
// small auto-scaling worker pool instead of the caller's goroutine, so a
// slow or hung resolver never stalls the event-loop driver.
package blocking

import (
	"context"
	"net"
	"sync"
	"sync/atomic"

	"github.com/nabbar/aio/socket/dns"
)

// MaxWorkers is the worker-pool size cap (spec.md §4.4).
const MaxWorkers = 10

// ScaleThreshold: a new worker is spawned when pending/workers exceeds this.
const ScaleThreshold = 5

type job struct {
	q  *dns.Query
	cb dns.EventCallback
}

// Engine is the worker-pool-backed blocking Resolver.
type Engine struct {
	Resolver *net.Resolver

	mu      sync.Mutex
	queue   []job
	cond    *sync.Cond
	workers int
	pending int64
	stopped bool

	removed sync.Map // *dns.Query -> struct{}, queries cancelled before pickup
}

var _ dns.Resolver = (*Engine)(nil)

// New returns an Engine using net.DefaultResolver if r is nil.
func New(r *net.Resolver) *Engine {
	if r == nil {
		r = net.DefaultResolver
	}
	e := &Engine{Resolver: r}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// Init spawns the first worker. Additional workers are spawned on demand as
// the queue grows (spec.md §4.4's auto-scale rule).
func (e *Engine) Init() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.spawnWorkerLocked()
	return nil
}

func (e *Engine) spawnWorkerLocked() {
	if e.workers >= MaxWorkers {
		return
	}
	e.workers++
	go e.run()
}

// Add enqueues q for resolution, waking a worker and spawning an extra one
// if the backlog has grown past ScaleThreshold per worker.
func (e *Engine) Add(q *dns.Query, cb dns.EventCallback) {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		cb(q, errStopped)
		return
	}

	q.MarkRunning()
	e.queue = append(e.queue, job{q: q, cb: cb})
	atomic.AddInt64(&e.pending, 1)

	if e.workers == 0 {
		e.spawnWorkerLocked()
	} else if int(atomic.LoadInt64(&e.pending))/e.workers > ScaleThreshold {
		e.spawnWorkerLocked()
	}

	e.cond.Signal()
	e.mu.Unlock()
}

// Remove marks q cancelled; if its job hasn't been picked up yet the worker
// discards the result instead of invoking cb.
func (e *Engine) Remove(q *dns.Query) {
	e.removed.Store(q, struct{}{})
}

// Stop wakes every worker so it observes e.stopped and exits.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.stopped = true
	e.mu.Unlock()
	e.cond.Broadcast()
}

func (e *Engine) run() {
	for {
		e.mu.Lock()
		for len(e.queue) == 0 && !e.stopped {
			e.cond.Wait()
		}
		if e.stopped && len(e.queue) == 0 {
			e.workers--
			e.mu.Unlock()
			return
		}
		j := e.queue[0]
		e.queue = e.queue[1:]
		e.mu.Unlock()

		atomic.AddInt64(&e.pending, -1)
		e.resolve(j)
	}
}

func (e *Engine) resolve(j job) {
	if _, cancelled := e.removed.LoadAndDelete(j.q); cancelled {
		return
	}

	results, err := e.lookup(j.q)

	if _, cancelled := e.removed.LoadAndDelete(j.q); cancelled {
		return
	}

	j.cb(j.q, err)
	_ = results
}

func (e *Engine) lookup(q *dns.Query) ([]dns.Result, error) {
	ctx := context.Background()
	var out []dns.Result
	var err error

	switch {
	case q.Types.Has(dns.RecordPTR):
		var names []string
		names, err = e.Resolver.LookupAddr(ctx, q.Addr.String())
		if err == nil {
			for _, n := range names {
				out = append(out, dns.Result{Type: dns.RecordPTR, Host: n})
			}
		}
	default:
		var ips []net.IPAddr
		network := "ip"
		if q.Types.Has(dns.RecordA) && !q.Types.Has(dns.RecordAAAA) {
			network = "ip4"
		} else if q.Types.Has(dns.RecordAAAA) && !q.Types.Has(dns.RecordA) {
			network = "ip6"
		}
		ips, err = e.Resolver.LookupIPAddr(ctx, q.Host)
		if err == nil {
			for _, ip := range ips {
				t := dns.RecordA
				if ip.IP.To4() == nil {
					t = dns.RecordAAAA
				}
				if network == "ip4" && t != dns.RecordA {
					continue
				}
				if network == "ip6" && t != dns.RecordAAAA {
					continue
				}
				out = append(out, dns.Result{Type: t, IP: ip.IP})
			}
		}
	}

	q.Complete(out, err)
	return out, err
}
