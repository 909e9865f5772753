package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Leveled logger for the signup service.
// Lines look like: 2024-01-02T15:04:05Z [INFO] message key=value ...

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var (
	mu     sync.RWMutex
	logger *log.Logger = log.New(os.Stdout, "", 0)
	level  Level       = LevelInfo
)

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Unknown values fall back to info.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	level = ParseLevel(l)
}

func ParseLevel(l string) Level {
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	}
	return LevelInfo
}

// SetOutput redirects log lines, mainly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = log.New(w, "", 0)
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	}
	return "info"
}

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	return level.String()
}

func shouldLog(l Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return l >= level
}

func output(l Level, fields Fields, msg string) {
	mu.RLock()
	out := logger
	mu.RUnlock()
	out.Print(time.Now().UTC().Format(time.RFC3339) + " [" + strings.ToUpper(l.String()) + "] " + msg + fields.String())
}

// Fields are key/value pairs appended to a log line.
type Fields map[string]interface{}

func (f Fields) String() string {
	if len(f) == 0 {
		return ""
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		v := fmt.Sprint(f[k])
		if strings.ContainsAny(v, " \t\"=") {
			v = fmt.Sprintf("%q", v)
		}
		b.WriteString(" " + k + "=" + v)
	}
	return b.String()
}

// Entry is a logger bound to a set of fields.
type Entry struct {
	fields Fields
}

// With starts an Entry from alternating key/value arguments.
func With(kv ...interface{}) *Entry {
	return (&Entry{}).With(kv...)
}

// With returns a copy of e with more fields. A trailing key without a value is dropped.
func (e *Entry) With(kv ...interface{}) *Entry {
	f := make(Fields, len(e.fields)+len(kv)/2)
	for k, v := range e.fields {
		f[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		f[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return &Entry{fields: f}
}

func (e *Entry) logf(l Level, format string, v ...interface{}) {
	if !shouldLog(l) {
		return
	}
	output(l, e.fields, fmt.Sprintf(format, v...))
}

func (e *Entry) Debugf(format string, v ...interface{}) { e.logf(LevelDebug, format, v...) }
func (e *Entry) Infof(format string, v ...interface{})  { e.logf(LevelInfo, format, v...) }
func (e *Entry) Warnf(format string, v ...interface{})  { e.logf(LevelWarn, format, v...) }
func (e *Entry) Errorf(format string, v ...interface{}) { e.logf(LevelError, format, v...) }

var std = &Entry{}

func Debugf(format string, v ...interface{}) { std.logf(LevelDebug, format, v...) }
func Infof(format string, v ...interface{})  { std.logf(LevelInfo, format, v...) }
func Warnf(format string, v ...interface{})  { std.logf(LevelWarn, format, v...) }
func Errorf(format string, v ...interface{}) { std.logf(LevelError, format, v...) }

func Fatalf(format string, v ...interface{}) {
	output(LevelFatal, nil, fmt.Sprintf(format, v...))
	os.Exit(1)
}

func Debug(v string) { Debugf("%s", v) }
func Info(v string)  { Infof("%s", v) }
func Warn(v string)  { Warnf("%s", v) }
func Error(v string) { Errorf("%s", v) }
