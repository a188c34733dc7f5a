package logger

import (
	"encoding/json"
	"sort"
	"time"
)

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	Sessions int           `json:"sessions"`
	Scripts  StrCounter    `json:"scripts"`
	Commands CommandReport `json:"command_report"`
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{
		Commands: CommandReport{
			Errors: NewPathCounter("phase", "command", "error"),
		},
	}
}

// Update adds an entry to the report.
func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	switch le.Type {
	case EventSessionStart:
		r.Sessions++
	case EventRunScript:
		r.Scripts.Increment(le.Script)
	case EventCommand:
		r.Commands.update(le)
	case EventSessionEnd:
		// Ignore
	default:
		r.InvalidEntries.Increment(string(le.Type))
	}
}

type CommandReport struct {
	// Executions of each command, keyed by name.
	CommandNames StrCounter `json:"command_names"`
	// Executions in each phase.
	Phases StrCounter `json:"phases"`
	// Failures by phase, command and message.
	Errors *PathCounter `json:"errors"`
	// Total time spent in executors.
	TotalMicros int64 `json:"total_micros"`
}

func (r *CommandReport) update(le *LogEntry) {
	r.CommandNames.Increment(le.Command)
	r.Phases.Increment(le.Phase)
	r.TotalMicros += le.DurationMicros
	if le.Error != "" {
		if r.Errors == nil {
			r.Errors = NewPathCounter("phase", "command", "error")
		}
		r.Errors.Increment(le.Phase, le.Command, le.Error)
	}
}

// SessionReport groups events by session.
type SessionReport struct {
	// Map of sessionID -> session summary
	sessions map[string]*Session
}

// Session summarizes the events of one interpreter.
type Session struct {
	Started    time.Time `json:"started"`
	LogEntries int       `json:"log_entries"`
	Scripts    []string  `json:"scripts"`
	Commands   []string  `json:"commands"`
	Errors     []string  `json:"errors,omitempty"`
	Closed     bool      `json:"closed"`
}

func (s *Session) Update(le *LogEntry) {
	s.LogEntries++

	switch le.Type {
	case EventSessionStart:
		s.Started = time.UnixMicro(le.TimestampMicros).UTC()
	case EventRunScript:
		s.Scripts = append(s.Scripts, le.Script)
	case EventCommand:
		s.Commands = append(s.Commands, le.Phase+" "+le.Command)
		if le.Error != "" {
			s.Errors = append(s.Errors, le.Error)
		}
	case EventSessionEnd:
		s.Closed = true
	}
}

func (r *SessionReport) init() {
	if r.sessions == nil {
		r.sessions = make(map[string]*Session)
	}
}

// MarshalJSON implements a custom JSON marshaler.
func (r *SessionReport) MarshalJSON() ([]byte, error) {
	r.init()

	return json.Marshal(r.sessions)
}

func (r *SessionReport) Update(le *LogEntry) {
	r.init()

	if le.SessionID == "" {
		return
	}
	session, ok := r.sessions[le.SessionID]
	if !ok {
		session = &Session{}
		r.sessions[le.SessionID] = session
	}

	session.Update(le)
}

// Get returns the summary of a session.
func (r *SessionReport) Get(sessionID string) (*Session, bool) {
	r.init()

	s, ok := r.sessions[sessionID]
	return s, ok
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count of the given key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implements a custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts tuples of strings.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// Get returns the count of the given key.
func (ctr *PathCounter) Get(key ...string) int {
	return ctr.internal[toKey(key...)]
}

// MarshalJSON implements a custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	out := []Count{}
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
