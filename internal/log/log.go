// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/apex/log"
)

var traceEnabled bool

// envLevels maps ZDRCTL_LOG values to Apex levels. Trace has no Apex
// equivalent, so it maps to debug and Tracef gates on traceEnabled.
var envLevels = map[string]log.Level{
	"trace": log.DebugLevel,
	"debug": log.DebugLevel,
	"info":  log.InfoLevel,
	"warn":  log.WarnLevel,
	"error": log.ErrorLevel,
	"fatal": log.FatalLevel,
}

// InitLogger sets up Apex with a custom handler and a log level from the
// ZDRCTL_LOG env variable.
func InitLogger() {
	envLevel := strings.ToLower(os.Getenv("ZDRCTL_LOG"))
	traceEnabled = envLevel == "trace"

	apexLevel, ok := envLevels[envLevel]
	if !ok {
		apexLevel = log.InfoLevel
	}
	log.SetHandler(&CustomHandler{})
	log.SetLevel(apexLevel)
}

// SetVerbosity applies the -v/-q flags on top of the env level. Verbose wins
// over quiet when both are given.
func SetVerbosity(verbose, quiet bool) {
	switch {
	case verbose:
		log.SetLevel(log.DebugLevel)
	case quiet:
		log.SetLevel(log.FatalLevel)
	}
}

// CustomHandler formats log messages and writes to stderr so report text on
// stdout stays clean.
type CustomHandler struct{}

var levelMarks = map[log.Level]string{
	log.DebugLevel: "D",
	log.InfoLevel:  "I",
	log.WarnLevel:  "W",
	log.ErrorLevel: "E",
	log.FatalLevel: "F",
}

// HandleLog implements the log.Handler interface.
func (h *CustomHandler) HandleLog(e *log.Entry) error {
	timestamp := time.Now().Format("2006-01-02 15:04:05")

	message := e.Message
	var level string
	if strings.HasPrefix(message, "TRACE: ") {
		level = "T"
		message = strings.TrimPrefix(message, "TRACE: ")
	} else if level = levelMarks[e.Level]; level == "" {
		level = "?"
	}

	fmt.Fprintf(os.Stderr, "%s %s %s\n", timestamp, level, message)
	return nil
}

// Tracef logs at Trace level (below Debug).
func Tracef(format string, args ...interface{}) {
	if traceEnabled {
		log.Debug("TRACE: " + fmt.Sprintf(format, args...))
	}
}

// Debugf logs at Debug level.
func Debugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// Infof logs at Info level.
func Infof(format string, args ...interface{}) {
	log.Infof(format, args...)
}

// Errorf logs at Error level.
func Errorf(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

// Debug logs at Debug level.
func Debug(msg string) {
	log.Debug(msg)
}

// Warnf logs at Warn level.
func Warnf(format string, args ...interface{}) {
	log.Warn(fmt.Sprintf(format, args...))
}

// WithError returns an entry with error.
func WithError(err error) *log.Entry {
	return log.WithError(err)
}
