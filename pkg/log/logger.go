// Copyright 2021 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger describes a logger to be used in ifwitool.
type Logger interface {
	// Debugf logs a message only shown with increased verbosity.
	Debugf(format string, args ...interface{})

	// Infof logs an informational message.
	Infof(format string, args ...interface{})

	// Warnf logs an warning message.
	Warnf(format string, args ...interface{})

	// Errorf logs an error message.
	Errorf(format string, args ...interface{})

	// Fatalf logs a fatal message and immediately exits the application
	// with os.Exit.
	Fatalf(format string, args ...interface{})
}

// DefaultLogger is the logger used by default everywhere within ifwitool.
var DefaultLogger Logger

var defaultLogrus *logrus.Logger

func init() {
	defaultLogrus = logrus.New()
	defaultLogrus.SetOutput(os.Stderr)
	defaultLogrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	DefaultLogger = logWrapper{Logger: defaultLogrus}
	SetVerbosity(1)
}

// SetVerbosity maps the number of "-v" flags onto a log level of the
// default logger: 0 shows warnings and errors, 1 adds informational
// messages and 2 or more adds debug output.
func SetVerbosity(verbosity int) {
	switch {
	case verbosity <= 0:
		defaultLogrus.SetLevel(logrus.WarnLevel)
	case verbosity == 1:
		defaultLogrus.SetLevel(logrus.InfoLevel)
	default:
		defaultLogrus.SetLevel(logrus.DebugLevel)
	}
}

type logWrapper struct {
	Logger *logrus.Logger
}

// Debugf implements Logger.
func (logger logWrapper) Debugf(format string, args ...interface{}) {
	logger.Logger.Debugf(format, args...)
}

// Infof implements Logger.
func (logger logWrapper) Infof(format string, args ...interface{}) {
	logger.Logger.Infof(format, args...)
}

// Warnf implements Logger.
func (logger logWrapper) Warnf(format string, args ...interface{}) {
	logger.Logger.Warnf(format, args...)
}

// Errorf implements Logger.
func (logger logWrapper) Errorf(format string, args ...interface{}) {
	logger.Logger.Errorf(format, args...)
}

// Fatalf implements Logger.
func (logger logWrapper) Fatalf(format string, args ...interface{}) {
	logger.Logger.Fatalf(format, args...)
}

// Debugf logs a debug message.
func Debugf(format string, args ...interface{}) {
	DefaultLogger.Debugf(format, args...)
}

// Infof logs an informational message.
func Infof(format string, args ...interface{}) {
	DefaultLogger.Infof(format, args...)
}

// Warnf logs an warning message.
func Warnf(format string, args ...interface{}) {
	DefaultLogger.Warnf(format, args...)
}

// Errorf logs an error message.
func Errorf(format string, args ...interface{}) {
	DefaultLogger.Errorf(format, args...)
}

// Fatalf logs a fatal message and immediately exits the application
// with os.Exit (which is expected to be called by the DefaultLogger.Fatalf).
func Fatalf(format string, args ...interface{}) {
	DefaultLogger.Fatalf(format, args...)
}
