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

package logger

import (
	"fmt"
	"sync/atomic"

	libatm "github.com/nabbar/aio/atomic"
	"github.com/sirupsen/logrus"
)

// maxLineLen is the hard cap on a single formatted log line, matching the
// socket package's own 1024-byte convenience-API buffer (spec.md §4.8-4.9).
const maxLineLen = 1024

// Sink receives every formatted line fanned out by Log/Printf.
type Sink func(level Level, line string)

var (
	sinks  = libatm.NewMapTyped[int32, Sink]()
	nextID int32
)

// RegisterSink adds s to the fan-out set. Sinks are never unregistered.
func RegisterSink(s Sink) {
	if s == nil {
		return
	}
	id := atomic.AddInt32(&nextID, 1)
	sinks.Store(id, s)
}

func truncate(line string) string {
	if len(line) <= maxLineLen {
		return line
	}
	return line[:maxLineLen]
}

// Log formats according to format/args, truncates to the 1024-byte cap, and
// fans the resulting line out to every registered sink.
func Log(level Level, format string, args ...interface{}) {
	line := truncate(fmt.Sprintf(format, args...))
	sinks.Range(func(_ int32, s Sink) bool {
		s(level, line)
		return true
	})
}

// Printf is an alias of Log at the ERROR level, matching the convenience
// naming used by socket.Printf for the write-path equivalent.
func Printf(format string, args ...interface{}) {
	Log(ERROR, format, args...)
}

// NewLogrusSink returns a Sink that writes through l at the level's mapped
// logrus severity, handing callers a structured logrus.Entry the way the
// teacher's logger hands a *logrus.Entry to downstream hooks.
func NewLogrusSink(l *logrus.Logger) Sink {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return func(level Level, line string) {
		l.WithField("level", level.String()).Log(level.Logrus(), line)
	}
}
