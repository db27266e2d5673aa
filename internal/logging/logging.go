// Package logging writes one JSON object per line, the format every
// component of the service logs in.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Fields carries extra key/value pairs for a log entry.
type Fields map[string]any

// Logger emits JSON lines tagged with a component name.
type Logger struct {
	mu        *sync.Mutex
	w         io.Writer
	loc       *time.Location
	component string
}

// New returns a logger writing to stdout.
func New(loc *time.Location, component string) *Logger {
	return NewWithWriter(os.Stdout, loc, component)
}

// NewWithWriter returns a logger writing to w. A nil location means UTC.
func NewWithWriter(w io.Writer, loc *time.Location, component string) *Logger {
	if loc == nil {
		loc = time.UTC
	}
	return &Logger{mu: &sync.Mutex{}, w: w, loc: loc, component: component}
}

// With returns a logger sharing the writer under a different component.
func (l *Logger) With(component string) *Logger {
	return &Logger{mu: l.mu, w: l.w, loc: l.loc, component: component}
}

// Info logs an event at info level.
func (l *Logger) Info(event string, f Fields) {
	l.log("info", event, f)
}

// Warn logs an event at warn level.
func (l *Logger) Warn(event string, f Fields) {
	l.log("warn", event, f)
}

// Error logs an event at error level with the error message attached.
func (l *Logger) Error(event string, err error, f Fields) {
	if f == nil {
		f = Fields{}
	}
	if err != nil {
		f["error_message"] = err.Error()
	}
	l.log("error", event, f)
}

// Write emits a prebuilt entry. A missing level becomes "error" when
// status is "error" and "info" otherwise.
func (l *Logger) Write(data map[string]any) {
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}
	l.emit(data)
}

func (l *Logger) log(level, event string, f Fields) {
	data := make(map[string]any, len(f)+4)
	for k, v := range f {
		data[k] = v
	}
	data["level"] = level
	data["event"] = event
	l.emit(data)
}

func (l *Logger) emit(data map[string]any) {
	if l == nil {
		return
	}
	data["ts"] = time.Now().In(l.loc).Format(time.RFC3339Nano)
	if _, ok := data["component"]; !ok && l.component != "" {
		data["component"] = l.component
	}

	b, err := json.Marshal(data)
	if err != nil {
		b = []byte(fmt.Sprintf(`{"level":"error","event":"log_marshal_failed","error_message":%q}`, err.Error()))
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.w.Write(append(b, '\n'))
}

// Nop discards everything.
func Nop() *Logger {
	return NewWithWriter(io.Discard, time.UTC, "")
}
