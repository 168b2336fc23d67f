// Package logger records process lifecycle events of the interpreter as
// newline delimited JSON.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Event types.
const (
	EventStart  = "start"
	EventLaunch = "launch"
	EventWait   = "wait"
	EventReap   = "reap"
	EventKill   = "kill"
	EventMode   = "mode"
	EventExit   = "exit"
	EventError  = "error"
)

// Entry is a single recorded event.
type Entry struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	Type            string `json:"type"`
	PID             int    `json:"pid,omitempty"`
	Command         string `json:"command,omitempty"`
	Background      bool   `json:"background,omitempty"`
	Status          string `json:"status,omitempty"`
	ForegroundOnly  bool   `json:"foreground_only,omitempty"`
	Error           string `json:"error,omitempty"`
}

// LogRecorder stores entries in an external datastore.
type LogRecorder func(le *Entry) error

// Logger stamps and forwards events to its recorder.
type Logger struct {
	Record LogRecorder

	now func() time.Time
}

// NewJSONLinesLogRecorder creates a Logger that writes one JSON object per
// line to w.
func NewJSONLinesLogRecorder(w io.Writer) *Logger {
	return &Logger{
		Record: func(le *Entry) error {
			entry, err := json.Marshal(le)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

// Discard returns a Logger that drops every event.
func Discard() *Logger {
	return &Logger{Record: func(*Entry) error { return nil }}
}

func (l *Logger) record(le *Entry) {
	if l == nil || l.Record == nil {
		return
	}
	now := time.Now
	if l.now != nil {
		now = l.now
	}
	le.TimestampMicros = now().UnixNano() / int64(time.Microsecond)
	// Event logging never interrupts the interpreter.
	_ = l.Record(le)
}

func (l *Logger) Start(pid int) {
	l.record(&Entry{Type: EventStart, PID: pid})
}

func (l *Logger) Launch(pid int, command string, background bool) {
	l.record(&Entry{Type: EventLaunch, PID: pid, Command: command, Background: background})
}

func (l *Logger) Wait(pid int, status fmt.Stringer) {
	l.record(&Entry{Type: EventWait, PID: pid, Status: status.String()})
}

func (l *Logger) Reap(pid int, status fmt.Stringer) {
	l.record(&Entry{Type: EventReap, PID: pid, Status: status.String()})
}

func (l *Logger) Kill(pid int, err error) {
	le := &Entry{Type: EventKill, PID: pid}
	if err != nil {
		le.Error = err.Error()
	}
	l.record(le)
}

func (l *Logger) Mode(foregroundOnly bool) {
	l.record(&Entry{Type: EventMode, ForegroundOnly: foregroundOnly})
}

func (l *Logger) Exit(pid int) {
	l.record(&Entry{Type: EventExit, PID: pid})
}

// Error records a failure that was reported to the user.
func (l *Logger) Error(command string, err error) {
	l.record(&Entry{Type: EventError, Command: command, Error: err.Error()})
}

// ReadJSONLinesLog parses a log written by NewJSONLinesLogRecorder.
func ReadJSONLinesLog(r io.Reader, handler func(le *Entry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var le Entry
		if err := decoder.Decode(&le); err != nil {
			return err
		}
		handler(&le)
	}
	return nil
}
