// Copyright The Filesign Authors.
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log provides logging functionality to filesign. Callers who want
// signing and verification steps logged implement the log.Logger interface
// and attach it to the context with log.WithLogger. 3rd party loggers that
// satisfy log.Logger out of the box include
// github.com/uber-go/zap.SugaredLogger and
// github.com/sirupsen/logrus.Logger.
package log

import "context"

type contextKey int

// loggerKey is the associated key type for logger entry in context.
const loggerKey contextKey = iota

// Discard is a Logger that logs nothing. It is the default when no logger
// is attached to the context.
var Discard Logger = &discardLogger{}

// Logger is implemented by users and/or 3rd party loggers.
type Logger interface {
	// Debug logs a debug level message.
	Debug(args ...interface{})

	// Debugf logs a debug level message with format.
	Debugf(format string, args ...interface{})

	// Info logs an info level message.
	Info(args ...interface{})

	// Infof logs an info level message with format.
	Infof(format string, args ...interface{})

	// Warn logs a warn level message.
	Warn(args ...interface{})

	// Warnf logs a warn level message with format.
	Warnf(format string, args ...interface{})

	// Error logs an error level message.
	Error(args ...interface{})

	// Errorf logs an error level message with format.
	Errorf(format string, args ...interface{})
}

// WithLogger is used by callers to set the Logger in the context.
func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger retrieves the Logger from the context, or Discard when none is
// set.
func GetLogger(ctx context.Context) Logger {
	if logger, ok := ctx.Value(loggerKey).(Logger); ok {
		return logger
	}
	return Discard
}

type discardLogger struct{}

func (dl *discardLogger) Debug(args ...interface{}) {
}

func (dl *discardLogger) Debugf(format string, args ...interface{}) {
}

func (dl *discardLogger) Info(args ...interface{}) {
}

func (dl *discardLogger) Infof(format string, args ...interface{}) {
}

func (dl *discardLogger) Warn(args ...interface{}) {
}

func (dl *discardLogger) Warnf(format string, args ...interface{}) {
}

func (dl *discardLogger) Error(args ...interface{}) {
}

func (dl *discardLogger) Errorf(format string, args ...interface{}) {
}
