// Package logger implements a small leveled logger in the verbosity-gated
// style used throughout the light client: callers guard expensive log
// statements with V(level) and only pay for formatting when that level is
// enabled.
package logger

import (
	"fmt"
	"log"
	"os"
	"sync/atomic"
)

// Level is a verbosity threshold. Higher values are more verbose.
type Level int32

const (
	Error Level = iota
	Warn
	Info
	Debug
)

var verbosity int32 = int32(Info)

// SetVerbosity sets the global verbosity threshold; any V(level) at or
// below it is enabled.
func SetVerbosity(l Level) {
	atomic.StoreInt32(&verbosity, int32(l))
}

var std = log.New(os.Stderr, "", log.LstdFlags)

// InfoLogger is returned by V and does nothing when its level is disabled.
type InfoLogger struct {
	enabled bool
	prefix  string
}

// V returns an InfoLogger that logs only if the given level is currently
// enabled.
func V(l Level) InfoLogger {
	return InfoLogger{enabled: int32(l) <= atomic.LoadInt32(&verbosity), prefix: levelPrefix(l)}
}

func levelPrefix(l Level) string {
	switch l {
	case Error:
		return "E"
	case Warn:
		return "W"
	case Info:
		return "I"
	default:
		return "D"
	}
}

func (g InfoLogger) Infof(format string, args ...interface{}) {
	if !g.enabled {
		return
	}
	std.Output(2, g.prefix+" "+fmt.Sprintf(format, args...))
}

func Infof(format string, args ...interface{})    { V(Info).Infof(format, args...) }
func Warningf(format string, args ...interface{}) { V(Warn).Infof(format, args...) }
func Errorf(format string, args ...interface{})   { V(Error).Infof(format, args...) }

// Fatalf logs at error level and terminates the process. Reserved for
// cmd/lightclientd's top-level invariant-violation handling; library
// packages must never call it themselves.
func Fatalf(format string, args ...interface{}) {
	std.Output(2, "F "+fmt.Sprintf(format, args...))
	os.Exit(1)
}
