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

// Package dns abstracts forward (A/AAAA) and reverse (PTR) hostname
// resolution behind a single Resolver contract (spec.md §4.4), so the
// socket state machine never blocks its own goroutine on getaddrinfo. Two
// implementations satisfy it: blocking (a worker-pool wrapper around
// net.Resolver) and async (github.com/miekg/dns driving queries directly).
package dns

import (
	"net"
	"sync"
)

// RecordType is a bitmask of the record kinds a Query asks for.
type RecordType uint8

const (
	RecordA RecordType = 1 << iota
	RecordAAAA
	RecordPTR
)

// Has reports whether t includes r.
func (t RecordType) Has(r RecordType) bool {
	return t&r != 0
}

// Result is one resolved record: either an address (forward query) or a
// hostname (reverse query), matching spec.md §3's typed-union Result.
type Result struct {
	Type RecordType
	IP   net.IP
	Host string
}

// Query is one in-flight (or completed) lookup. A Query is either a forward
// lookup keyed by Host, or a reverse lookup keyed by Addr.
type Query struct {
	mu sync.Mutex

	Host  string
	Addr  net.IP
	Types RecordType

	running bool
	results []Result
	err     error
}

// NewForward returns a Query resolving host for the record types in types.
func NewForward(host string, types RecordType) *Query {
	return &Query{Host: host, Types: types}
}

// NewReverse returns a Query resolving addr to a hostname (PTR).
func NewReverse(addr net.IP) *Query {
	return &Query{Addr: addr, Types: RecordPTR}
}

// Running reports whether the query is still in flight (spec.md §3's
// RUNNING flag).
func (q *Query) Running() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.running
}

// Results returns the records attached to q once it has completed.
func (q *Query) Results() []Result {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.results
}

// Err returns the failure reason if the query completed with an error.
func (q *Query) Err() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.err
}

// MarkRunning flags q as in flight. Called by a Resolver implementation
// when it picks the query up for resolution.
func (q *Query) MarkRunning() {
	q.mu.Lock()
	q.running = true
	q.mu.Unlock()
}

// Complete records the outcome of resolving q. Called by a Resolver
// implementation exactly once, before invoking its EventCallback.
func (q *Query) Complete(results []Result, err error) {
	q.mu.Lock()
	q.running = false
	q.results = results
	q.err = err
	q.mu.Unlock()
}

// EventCallback is invoked exactly once per Add'd Query that isn't Removed
// first, with either a non-empty result set or a non-nil error.
type EventCallback func(q *Query, err error)

// Resolver is the common contract both the blocking and async engines
// satisfy (spec.md §4.4).
type Resolver interface {
	// Init prepares the resolver (spawns workers, opens a resolver
	// channel). Called once before the first Add.
	Init() error
	// Add begins resolving q, eventually invoking cb exactly once. At most
	// one Add is outstanding per Query (spec.md §3 invariant iii).
	Add(q *Query, cb EventCallback)
	// Remove cancels q. If a result is already in flight when Remove is
	// called, it is discarded rather than delivered (spec.md §4.4).
	Remove(q *Query)
	// Stop releases resolver resources (worker pool, resolver channel).
	// No further Add calls are valid afterward.
	Stop()
}
