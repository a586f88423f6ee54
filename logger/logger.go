// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package logger

import (
	"github.com/sassoftware/viya-afm-xtract/tracer"
)

// LogLevel represents log severity
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

// LogFunc is a single logger function that handles all levels
type LogFunc func(level LogLevel, msg string, keyvals ...interface{})

func noop(level LogLevel, msg string, keyvals ...interface{}) {}

var logFunc LogFunc = noop

// SetLogger sets the global logger function
func SetLogger(f LogFunc) {
	if f != nil {
		logFunc = f
	}
}

// Reset restores the no-op logger.
func Reset() {
	logFunc = noop
}

// splitTrace removes a trailing bool from keyvals and reports it.
func splitTrace(keyvals []interface{}) ([]interface{}, bool) {
	if len(keyvals) > 0 && len(keyvals)%2 == 1 {
		if b, ok := keyvals[len(keyvals)-1].(bool); ok {
			return keyvals[:len(keyvals)-1], b
		}
	}
	return keyvals, false
}

// Debug logs a message at debug level
// If the last keyvals element is a bool and true, it is treated as trace flag
func Debug(msg string, keyvals ...interface{}) {
	keyvals, trace := splitTrace(keyvals)
	logFunc(DebugLevel, msg, keyvals...)

	if trace {
		tracer.Log(msg, keyvals...)
	}
}

// Info logs a message at info level
func Info(msg string, keyvals ...interface{}) {
	logFunc(InfoLevel, msg, keyvals...)
}

// Warn logs a message at warn level
func Warn(msg string, keyvals ...interface{}) {
	logFunc(WarnLevel, msg, keyvals...)
}

// Error logs a message at error level
func Error(msg string, keyvals ...interface{}) {
	logFunc(ErrorLevel, msg, keyvals...)
}
