/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

// Package gc defers the final release of closed connection handles behind a
// grace period, so in-flight callers holding a reference (a log line still
// formatting, a handler still reading Context fields) don't race a reused
// handle. Pushed objects are freed in enqueue order once their grace period
// elapses.
package gc

import (
	"sync"
	"time"

	"github.com/nabbar/aio/duration"
)

// GracePeriod is the default delay between Push and the object becoming
// eligible for Sweep.
const GracePeriod = duration.Duration(60 * time.Second)

type entry struct {
	obj    any
	free   func()
	expiry time.Time
}

// Collector is a FIFO grace-period garbage collector.
type Collector struct {
	mu      sync.Mutex
	queue   []entry
	enabled bool
	grace   time.Duration
}

// New returns a Collector enabled by default, using GracePeriod as the delay
// between Push and eligibility for Sweep.
func New() *Collector {
	return &Collector{
		enabled: true,
		grace:   GracePeriod.Time(),
	}
}

// SetGracePeriod overrides the delay used for objects pushed afterward.
func (c *Collector) SetGracePeriod(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.grace = d
}

// Enable turns grace-period deferral on; Push starts queuing objects again.
func (c *Collector) Enable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = true
}

// Disable turns grace-period deferral off. Every subsequent Push invokes
// free immediately instead of queuing the object.
func (c *Collector) Disable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = false
}

// Push enqueues obj for release after the grace period elapses, or invokes
// free immediately if the collector is disabled. obj is retained only to
// keep it reachable (and out of a reused slot) until free runs; the
// collector never inspects it.
func (c *Collector) Push(obj any, free func()) {
	if free == nil {
		return
	}

	c.mu.Lock()
	if !c.enabled {
		c.mu.Unlock()
		free()
		return
	}

	c.queue = append(c.queue, entry{
		obj:    obj,
		free:   free,
		expiry: time.Now().Add(c.grace),
	})
	c.mu.Unlock()
}

// Sweep releases every queued object whose grace period has elapsed as of
// now, in the order they were pushed, and reports how many were released.
func (c *Collector) Sweep(now time.Time) int {
	c.mu.Lock()
	i := 0
	for i < len(c.queue) && !c.queue[i].expiry.After(now) {
		i++
	}
	due := c.queue[:i]
	c.queue = c.queue[i:]
	c.mu.Unlock()

	for _, e := range due {
		e.free()
	}

	return len(due)
}

// Pending returns the number of objects currently queued, awaiting Sweep.
func (c *Collector) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}
