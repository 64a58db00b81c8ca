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

// Package logger is the engine's log fan-out: every registered sink receives
// every formatted line, at or above its own level, for the lifetime of the
// process. Sinks are never unregistered.
package logger

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Level is the severity of a logged line, ordered most to least severe.
type Level uint8

const (
	FATAL Level = iota
	ERROR
	WARNING
	DEBUG
)

// String returns the upper-case name of l ("FATAL", "ERROR", "WARNING",
// "DEBUG"), or "" for an undefined value.
func (l Level) String() string {
	switch l {
	case FATAL:
		return "FATAL"
	case ERROR:
		return "ERROR"
	case WARNING:
		return "WARNING"
	case DEBUG:
		return "DEBUG"
	default:
		return ""
	}
}

// Logrus maps l onto the equivalent logrus.Level.
func (l Level) Logrus() logrus.Level {
	switch l {
	case FATAL:
		return logrus.FatalLevel
	case ERROR:
		return logrus.ErrorLevel
	case WARNING:
		return logrus.WarnLevel
	case DEBUG:
		return logrus.DebugLevel
	default:
		return logrus.ErrorLevel
	}
}

// ParseLevel maps a case-insensitive level name back to a Level, defaulting
// to ERROR for an unrecognized value.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FATAL":
		return FATAL
	case "ERROR":
		return ERROR
	case "WARNING", "WARN":
		return WARNING
	case "DEBUG":
		return DEBUG
	default:
		return ERROR
	}
}
