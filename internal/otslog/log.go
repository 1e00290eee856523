// Package otslog is a disable-by-default package logger, used by the
// parser/serializer to emit the same kind of step-by-step trace output
// the original OpenTimestamps library produces via its `trace!` macro.
// Callers that don't call UseLogger get total silence.
package otslog

import (
	logpkg "github.com/echa/log"
)

// log is the package logger. Disabled until a caller opts in.
var log logpkg.Logger = logpkg.Log

func init() {
	DisableLog()
}

// DisableLog turns off all library log output.
func DisableLog() {
	log = logpkg.Disabled
}

// UseLogger installs logger as the package logger for otscodec,
// otsattest and otstimestamp.
func UseLogger(logger logpkg.Logger) {
	log = logger
}

// Tracef logs at trace level, used for per-step parse/serialize detail.
func Tracef(format string, args ...interface{}) {
	log.Tracef(format, args...)
}

// Debugf logs at debug level, used for envelope-level checks.
func Debugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}
