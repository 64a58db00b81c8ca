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

package framing

import (
	"io"

	"github.com/nabbar/aio/size"
)

// initialBufferSize is the buffer a Reader starts with; it grows in
// growthStep increments only when a single unterminated run outgrows it,
// per spec.md §5's 128-byte-then-1KiB-step policy.
const initialBufferSize = 128

// growthStep is the increment a Reader's buffer grows by once it's full and
// the accumulated run still has no delimiter in it.
var growthStep = size.SizeKilo.Int()

// Reader accumulates bytes read from an underlying io.Reader into a
// growable buffer and emits delimited segments as they complete, per
// spec.md §4.5/§5. It owns the buffer the Scanner it wraps only ever
// slices into.
type Reader struct {
	src     io.Reader
	scanner *Scanner
	buf     []byte
	filled  int
	pending [][]byte
}

// NewReader returns a Reader pulling from src and splitting on the
// delimiters scanner was built with.
func NewReader(src io.Reader, scanner *Scanner) *Reader {
	return &Reader{
		src:     src,
		scanner: scanner,
		buf:     make([]byte, initialBufferSize),
	}
}

// ReadSegment blocks until one delimited segment is available, the
// underlying reader is exhausted, or it returns an error. Segments are
// returned in arrival order; a single Read may yield several, queued and
// drained one per call. The returned slice is a copy, safe to retain.
func (r *Reader) ReadSegment() ([]byte, error) {
	for {
		if len(r.pending) > 0 {
			seg := r.pending[0]
			r.pending = r.pending[1:]
			return seg, nil
		}

		if r.filled > 0 {
			consumed := r.scanner.Scan(r.buf[:r.filled], func(s []byte) {
				r.pending = append(r.pending, append([]byte(nil), s...))
			})
			if consumed > 0 {
				copy(r.buf, r.buf[consumed:r.filled])
				r.filled -= consumed
			}
			if len(r.pending) > 0 {
				continue
			}
		}

		if r.filled == len(r.buf) {
			r.grow()
		}

		n, err := r.src.Read(r.buf[r.filled:])
		r.filled += n
		if err != nil {
			return nil, err
		}
	}
}

func (r *Reader) grow() {
	next := make([]byte, len(r.buf)+growthStep)
	copy(next, r.buf[:r.filled])
	r.buf = next
}
