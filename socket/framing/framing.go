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

// Package framing scans a byte stream for up to five single-byte delimiters
// and splits it into segments in place, without wrapping the source in a
// bufio.Reader: the socket read path already owns a growable buffer, so the
// scanner only ever slices into it.
package framing

// MaxSegment is the hard cap on an unterminated run of bytes (spec.md §4.5).
// Once a segment reaches this length without a delimiter, Scan forces its
// emission and discards bytes up to the next delimiter rather than growing
// the buffer without bound.
const MaxSegment = 1024

// MaxDelimiters is the number of distinct single-byte terminators a Scanner
// can be configured with at once.
const MaxDelimiters = 5

// Scanner splits incoming bytes on any of up to MaxDelimiters single-byte
// terminators. It is not safe for concurrent use; callers own one Scanner
// per socket, same as the read buffer it scans.
type Scanner struct {
	delims  [MaxDelimiters]byte
	ndelims int
	empty   bool
}

// New returns a Scanner for the given delimiter bytes (1 to MaxDelimiters of
// them). emitEmpty controls whether a zero-length segment between two
// adjacent delimiters (or at the start of the stream) is still emitted.
func New(emitEmpty bool, delims ...byte) (*Scanner, error) {
	if len(delims) == 0 {
		return nil, ErrNoDelimiter.Error(nil)
	}
	if len(delims) > MaxDelimiters {
		return nil, ErrTooManyDelimiters.Error(nil)
	}

	s := &Scanner{empty: emitEmpty, ndelims: len(delims)}
	copy(s.delims[:], delims)
	return s, nil
}

func (s *Scanner) isDelim(b byte) bool {
	for i := 0; i < s.ndelims; i++ {
		if s.delims[i] == b {
			return true
		}
	}
	return false
}

// Scan walks buf emitting one segment per delimiter found, and returns how
// many leading bytes were consumed. The caller compacts buf[consumed:] down
// to the front before the next read, per spec.md §4.5. Segments passed to
// emit alias buf and are only valid until Scan returns.
//
// A run of MaxSegment bytes with no delimiter is force-emitted (matching the
// "match any delimiter byte, emit segment, skip the delimiter" rule of
// spec.md §9, extended with the hard cap of §4.5): everything from there up
// to the next delimiter byte is discarded, and scanning resumes right after
// it.
func (s *Scanner) Scan(buf []byte, emit func([]byte)) (consumed int) {
	start := 0
	i := 0

	for i < len(buf) {
		b := buf[i]

		if s.isDelim(b) {
			seg := buf[start:i]
			if len(seg) > 0 || s.empty {
				emit(seg)
			}
			i++
			start = i
			continue
		}

		if i-start+1 >= MaxSegment {
			emit(buf[start : i+1])

			j := i + 1
			for j < len(buf) && !s.isDelim(buf[j]) {
				j++
			}
			if j >= len(buf) {
				return len(buf)
			}

			i = j + 1
			start = i
			continue
		}

		i++
	}

	return start
}
