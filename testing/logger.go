package testing

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/arloliu/vancouver/types"
)

// Entry is one recorded log call.
type Entry struct {
	Level  string
	Msg    string
	Fields []any
}

// Logger is a types.Logger that forwards every call to t.Logf and keeps it
// for later assertions.
type Logger struct {
	t *testing.T

	mu      sync.Mutex
	entries []Entry
}

var _ types.Logger = (*Logger)(nil)

// NewTestLogger creates a logger writing to the test log.
//
// Fatal marks the test as failed instead of exiting.
//
// Example:
//
//	logger := vtest.NewTestLogger(t)
//	cfg.ValidateWithWarnings(logger)
//	require.Empty(t, logger.Messages("warn"))
func NewTestLogger(t *testing.T) *Logger {
	return &Logger{t: t}
}

func (l *Logger) Debug(msg string, keysAndValues ...any) {
	l.log("debug", msg, keysAndValues)
}

func (l *Logger) Info(msg string, keysAndValues ...any) {
	l.log("info", msg, keysAndValues)
}

func (l *Logger) Warn(msg string, keysAndValues ...any) {
	l.log("warn", msg, keysAndValues)
}

func (l *Logger) Error(msg string, keysAndValues ...any) {
	l.log("error", msg, keysAndValues)
}

func (l *Logger) Fatal(msg string, keysAndValues ...any) {
	l.log("fatal", msg, keysAndValues)
	l.t.Errorf("fatal log: %s", msg)
}

// Entries returns a copy of every recorded call.
func (l *Logger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]Entry(nil), l.entries...)
}

// Messages returns the messages logged at level, in order.
func (l *Logger) Messages(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []string
	for _, e := range l.entries {
		if e.Level == level {
			out = append(out, e.Msg)
		}
	}

	return out
}

func (l *Logger) log(level, msg string, keysAndValues []any) {
	l.t.Helper()
	l.t.Logf("%s: %s %s", strings.ToUpper(level), msg, formatKeyValues(keysAndValues))

	l.mu.Lock()
	l.entries = append(l.entries, Entry{Level: level, Msg: msg, Fields: keysAndValues})
	l.mu.Unlock()
}

// formatKeyValues renders key/value pairs as k=v, marking a dangling key.
func formatKeyValues(keysAndValues []any) string {
	var b strings.Builder
	for i := 0; i < len(keysAndValues); i += 2 {
		if i > 0 {
			b.WriteByte(' ')
		}
		if i+1 < len(keysAndValues) {
			fmt.Fprintf(&b, "%v=%v", keysAndValues[i], keysAndValues[i+1])
		} else {
			fmt.Fprintf(&b, "%v=<missing>", keysAndValues[i])
		}
	}

	return b.String()
}
