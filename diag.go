// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cspchan

import (
	"log"
	"sync/atomic"
)

// Logger is the diagnostic sink §7 calls for: a place to report
// recoverable conditions the library chooses not to turn into errors or
// panics (using a closed channel, a saturated Pool). It is intentionally
// this small — every broker/queue-shaped package in this corpus that
// needs one defines its own narrow interface rather than pulling in a
// structured-logging dependency; see DESIGN.md.
type Logger interface {
	Warnf(format string, args ...any)
}

// stdLogger adapts the standard library's *log.Logger to Logger.
type stdLogger struct{ l *log.Logger }

func (s stdLogger) Warnf(format string, args ...any) { s.l.Printf(format, args...) }

var defaultLogger atomic.Pointer[Logger]

func init() {
	var l Logger = stdLogger{log.Default()}
	defaultLogger.Store(&l)
}

// SetLogger redirects the package's diagnostic output. A nil logger
// silences it. Safe to call concurrently with any other operation.
func SetLogger(l Logger) {
	if l == nil {
		l = noopLogger{}
	}
	defaultLogger.Store(&l)
}

type noopLogger struct{}

func (noopLogger) Warnf(string, ...any) {}

func warnf(format string, args ...any) {
	(*defaultLogger.Load()).Warnf(format, args...)
}
