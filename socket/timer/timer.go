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

// Package timer is a deadline-sorted timer wheel: a single min-heap shared
// by every Timer, swept periodically by the owning engine loop rather than
// backed by its own goroutine per timer.
package timer

import (
	"container/heap"
	"sync"
	"time"
)

// Timer is a single scheduled callback, one-shot or auto-reloading.
type Timer struct {
	mu       sync.Mutex
	deadline time.Time
	interval time.Duration
	callback func(*Timer)
	index    int
	queued   bool
	wheel    *Wheel
}

// SetTimeout reschedules t to fire once at deadline, clearing any pending
// auto-reload interval's effect on the *next* fire only (the interval
// itself is preserved and resumes after that fire).
func (t *Timer) SetTimeout(deadline time.Time) {
	t.mu.Lock()
	t.deadline = deadline
	t.mu.Unlock()
	t.wheel.reschedule(t)
}

// SetAutoReload sets the periodic re-arm interval. A zero interval clears
// auto-reload, so the timer's current cycle is the last one (the open
// question in spec.md §9 resolved toward this, the v2 semantics).
func (t *Timer) SetAutoReload(interval time.Duration) {
	t.mu.Lock()
	t.interval = interval
	t.mu.Unlock()
}

// SetCallback replaces the function invoked when t fires.
func (t *Timer) SetCallback(cb func(*Timer)) {
	t.mu.Lock()
	t.callback = cb
	t.mu.Unlock()
}

// Start enqueues t onto its Wheel if it isn't already queued.
func (t *Timer) Start() {
	t.wheel.start(t)
}

// Destroy removes t from its Wheel. Safe to call from within t's own
// callback during a Sweep.
func (t *Timer) Destroy() {
	t.wheel.remove(t)
}

// Deadline returns the next time t is due to fire.
func (t *Timer) Deadline() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.deadline
}

// Wheel is a deadline-ordered min-heap of Timers, swept by the caller
// (normally the engine loop) on a fixed cadence.
type Wheel struct {
	mu sync.Mutex
	h  timerHeap
}

// NewWheel returns an empty Wheel.
func NewWheel() *Wheel {
	return &Wheel{}
}

// Create returns a new Timer bound to w, not yet started, firing once at
// deadline unless SetAutoReload is used afterward.
func (w *Wheel) Create(deadline time.Time) *Timer {
	return &Timer{
		deadline: deadline,
		wheel:    w,
		index:    -1,
	}
}

func (w *Wheel) start(t *Timer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t.queued {
		return
	}
	t.queued = true
	heap.Push(&w.h, t)
}

func (w *Wheel) remove(t *Timer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !t.queued || t.index < 0 {
		t.queued = false
		return
	}
	heap.Remove(&w.h, t.index)
	t.queued = false
}

func (w *Wheel) reschedule(t *Timer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t.queued && t.index >= 0 {
		heap.Fix(&w.h, t.index)
	}
}

// Len returns the number of timers currently queued.
func (w *Wheel) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.h.Len()
}

// Sweep pops and invokes every timer whose deadline is due as of now,
// re-arming periodic timers by deadline+interval (never now+interval, so a
// slow callback never drifts the schedule), and reports how many fired.
func (w *Wheel) Sweep(now time.Time) int {
	var due []*Timer

	w.mu.Lock()
	for w.h.Len() > 0 && !w.h[0].deadline.After(now) {
		t := heap.Pop(&w.h).(*Timer)
		t.queued = false
		due = append(due, t)
	}
	w.mu.Unlock()

	for _, t := range due {
		t.mu.Lock()
		cb := t.callback
		interval := t.interval
		t.mu.Unlock()

		if cb != nil {
			cb(t)
		}

		if interval > 0 {
			t.mu.Lock()
			t.deadline = t.deadline.Add(interval)
			t.mu.Unlock()
			w.start(t)
		}
	}

	return len(due)
}

type timerHeap []*Timer

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	return h[i].deadline.Before(h[j].deadline)
}
func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*Timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}
