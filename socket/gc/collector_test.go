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

package gc_test

import (
	"time"

	. "github.com/nabbar/aio/socket/gc"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("gc.Collector", func() {
	It("defers Push until the grace period elapses", func() {
		c := New()
		c.SetGracePeriod(10 * time.Millisecond)

		freed := false
		c.Push("handle", func() { freed = true })

		Expect(c.Pending()).To(Equal(1))
		Expect(c.Sweep(time.Now())).To(Equal(0))
		Expect(freed).To(BeFalse())

		Expect(c.Sweep(time.Now().Add(20 * time.Millisecond))).To(Equal(1))
		Expect(freed).To(BeTrue())
		Expect(c.Pending()).To(Equal(0))
	})

	It("frees immediately when disabled", func() {
		c := New()
		c.Disable()

		freed := false
		c.Push("handle", func() { freed = true })

		Expect(freed).To(BeTrue())
		Expect(c.Pending()).To(Equal(0))
	})

	It("resumes queuing once re-enabled", func() {
		c := New()
		c.SetGracePeriod(time.Hour)
		c.Disable()
		c.Enable()

		freed := false
		c.Push("handle", func() { freed = true })

		Expect(freed).To(BeFalse())
		Expect(c.Pending()).To(Equal(1))
	})

	It("sweeps in FIFO enqueue order", func() {
		c := New()
		c.SetGracePeriod(time.Millisecond)

		var order []int
		c.Push(1, func() { order = append(order, 1) })
		c.Push(2, func() { order = append(order, 2) })
		c.Push(3, func() { order = append(order, 3) })

		Expect(c.Sweep(time.Now().Add(10 * time.Millisecond))).To(Equal(3))
		Expect(order).To(Equal([]int{1, 2, 3}))
	})

	It("ignores a nil free function", func() {
		c := New()
		Expect(func() { c.Push("handle", nil) }).ToNot(Panic())
		Expect(c.Pending()).To(Equal(0))
	})
})
