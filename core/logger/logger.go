package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/josephlewis42/neoshell/core/ast"
	"github.com/josephlewis42/neoshell/core/vm"
)

// LogRecorder is a callback that stores events in an external datastore.
type LogRecorder func(le *LogEntry) error

// Logger captures execution events.
type Logger struct {
	Record LogRecorder

	// Now is the clock used to timestamp entries, time.Now if nil.
	Now func() time.Time
}

// NewJsonLinesLogRecorder creates a Logger that exports logs in newline
// delimited JSON object format.
func NewJsonLinesLogRecorder(w io.Writer) *Logger {
	return &Logger{
		Record: func(le *LogEntry) error {
			entry, err := le.MarshalJSON()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

// Discard creates a Logger that drops every event.
func Discard() *Logger {
	return &Logger{
		Record: func(*LogEntry) error { return nil },
	}
}

func (l *Logger) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

func (l *Logger) record(sessionID string, le *LogEntry) error {
	le.TimestampMicros = l.now().UnixMicro()
	le.SessionID = sessionID
	return l.Record(le)
}

// NewSession creates a logger with attached session ID.
func (l *Logger) NewSession() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: fmt.Sprintf("%d", rand.Uint64())}
}

// Sessionless creates a logger without a session ID.
func (l *Logger) Sessionless() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: ""}
}

// SessionLogger logs messages with a shared session ID. It traces the
// commands of a VM.
type SessionLogger struct {
	*Logger
	sessionID string
	err       error
}

var _ vm.Tracer = (*SessionLogger)(nil)

// SessionID returns the ID attached to every event.
func (l *SessionLogger) SessionID() string {
	return l.sessionID
}

// Record stores an event under the session.
func (l *SessionLogger) Record(le *LogEntry) error {
	err := l.record(l.sessionID, le)
	if err != nil && l.err == nil {
		l.err = err
	}
	return err
}

// Start records the start of the session.
func (l *SessionLogger) Start() error {
	return l.Record(&LogEntry{Type: EventSessionStart})
}

// End records the end of the session.
func (l *SessionLogger) End() error {
	return l.Record(&LogEntry{Type: EventSessionEnd})
}

// RunScript records that a script is about to run.
func (l *SessionLogger) RunScript(name string) error {
	return l.Record(&LogEntry{Type: EventRunScript, Script: name})
}

// TraceCommand records an executor call. Failures to record are kept and
// reported by Err.
func (l *SessionLogger) TraceCommand(phase ast.Time, name string, elapsed time.Duration, err error) {
	le := &LogEntry{
		Type:           EventCommand,
		Phase:          phase.String(),
		Command:        name,
		DurationMicros: elapsed.Microseconds(),
	}
	if err != nil {
		le.Error = err.Error()
	}
	l.Record(le)
}

// Err returns the first error encountered while recording.
func (l *SessionLogger) Err() error {
	return l.err
}

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var rawEntry json.RawMessage
		if err := decoder.Decode(&rawEntry); err != nil {
			return err
		}

		var logEntry LogEntry
		if err := logEntry.UnmarshalJSON(rawEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}
