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

package errors

const (
	MinPkgCertificate = 300
	MinPkgNetwork     = 2200

	// MinPkgLogger covers the log fan-out sink registry.
	MinPkgLogger = 2300

	// MinPkgSocket covers the socket state machine (connect/listen/accept,
	// framing, close/shutdown).
	MinPkgSocket = 3500
	// MinPkgSocketConfig covers socket/config validation errors.
	MinPkgSocketConfig = 3520
	// MinPkgSocketDNS covers the DNS engine (blocking worker pool and the
	// miekg/dns backed resolver).
	MinPkgSocketDNS = 3540
	// MinPkgSocketTimer covers the timer wheel.
	MinPkgSocketTimer = 3560
	// MinPkgSocketGC covers the grace-period garbage collector.
	MinPkgSocketGC = 3580
	// MinPkgSocketFraming covers the multi-delimiter line scanner.
	MinPkgSocketFraming = 3600
	// MinPkgSocketClient covers the TCP client dial/TLS/v6-v4-fallback state
	// machine.
	MinPkgSocketClient = 3620
	// MinPkgSocketServer covers the TCP server accept-loop/TLS/shutdown state
	// machine.
	MinPkgSocketServer = 3640
	// MinPkgEngine covers the event-loop driver (init order, run, stop).
	MinPkgEngine = 3660
	// MinPkgSocketPoller covers the readiness-multiplexing Engine wrapping
	// syscall.RawConn.
	MinPkgSocketPoller = 3680

	MinAvailable = 4000

	// MIN_AVAILABLE @Deprecated use MinAvailable constant
	MIN_AVAILABLE = MinAvailable
)
