package log

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// Logger is a named logger. Every line it emits carries a "[name>]" marker
// so output from the web server, the backend client and the renderers can be
// told apart with grep.
type Logger struct {
	name string
	std  *stdlog.Logger
}

// sink keeps atomic.Value storing a single concrete type when the output
// writer changes between *os.File and test buffers.
type sink struct {
	w io.Writer
}

var (
	globalDebug  atomic.Bool
	serviceDebug sync.Map // name -> *atomic.Bool
	loggers      sync.Map // name -> *Logger
	output       atomic.Value
)

func init() {
	output.Store(sink{w: os.Stderr})
}

// ForService returns the memoized logger for name. Names should be stable
// component identifiers such as "web", "plone" or "slate".
func ForService(name string) *Logger {
	if name == "" {
		name = "unknown"
	}
	if l, ok := loggers.Load(name); ok {
		return l.(*Logger)
	}
	w := output.Load().(sink).w
	l := &Logger{name: name, std: stdlog.New(w, "", stdlog.LstdFlags|stdlog.Lmicroseconds)}
	actual, _ := loggers.LoadOrStore(name, l)
	return actual.(*Logger)
}

// SetGlobalDebug turns debug output on or off for every logger.
func SetGlobalDebug(enabled bool) {
	globalDebug.Store(enabled)
}

// GlobalDebug reports whether debug output is enabled globally.
func GlobalDebug() bool {
	return globalDebug.Load()
}

// EnableDebugFor turns on debug output for a single component.
func EnableDebugFor(name string) {
	if name == "" {
		return
	}
	v, _ := serviceDebug.LoadOrStore(name, &atomic.Bool{})
	v.(*atomic.Bool).Store(true)
}

// DisableDebugFor turns off debug output for a single component.
func DisableDebugFor(name string) {
	if name == "" {
		return
	}
	if v, ok := serviceDebug.Load(name); ok {
		v.(*atomic.Bool).Store(false)
	}
}

// EnableDebugList enables debug output for a comma separated list of
// component names, as accepted by the PLONEVIEW_DEBUG environment variable.
func EnableDebugList(list string) {
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			EnableDebugFor(name)
		}
	}
}

// DebugEnabledFor reports whether debug output is on for name, either
// globally or specifically.
func DebugEnabledFor(name string) bool {
	if globalDebug.Load() {
		return true
	}
	if v, ok := serviceDebug.Load(name); ok {
		return v.(*atomic.Bool).Load()
	}
	return false
}

// SetOutput redirects all loggers, existing and future, to w.
func SetOutput(w io.Writer) {
	if w == nil {
		return
	}
	output.Store(sink{w: w})
	loggers.Range(func(_, v any) bool {
		v.(*Logger).std.SetOutput(w)
		return true
	})
}

// Name returns the component name of the logger.
func (l *Logger) Name() string {
	return l.name
}

func (l *Logger) emit(level, msg string) {
	if level != "" {
		level += " "
	}
	l.std.Println(level + "[" + l.name + ">] " + msg)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) {
	l.emit(LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf logs at warn level.
func (l *Logger) Warnf(format string, args ...any) {
	l.emit(LevelWarn, fmt.Sprintf(format, args...))
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) {
	l.emit(LevelError, fmt.Sprintf(format, args...))
}

// Debugf logs only when debug output is enabled for this logger.
func (l *Logger) Debugf(format string, args ...any) {
	if !DebugEnabledFor(l.name) {
		return
	}
	l.emit(LevelDebug, fmt.Sprintf(format, args...))
}

// StdLogger returns a standard library logger that writes through l at the
// given level. It is meant for http.Server.ErrorLog.
func (l *Logger) StdLogger(level string) *stdlog.Logger {
	return stdlog.New(levelWriter{l: l, level: level}, "", 0)
}

type levelWriter struct {
	l     *Logger
	level string
}

func (w levelWriter) Write(p []byte) (int, error) {
	w.l.emit(w.level, strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

const (
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
	LevelDebug = "DEBUG"
)
