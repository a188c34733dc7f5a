package logger

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// EventType identifies the kind of a LogEntry.
type EventType string

const (
	// EventSessionStart is recorded when an interpreter is created.
	EventSessionStart EventType = "session_start"
	// EventRunScript is recorded before a script is parsed.
	EventRunScript EventType = "run_script"
	// EventCommand is recorded after every executor call.
	EventCommand EventType = "command"
	// EventSessionEnd is recorded when an interpreter is closed.
	EventSessionEnd EventType = "session_end"
)

// LogEntry is a single event.
type LogEntry struct {
	TimestampMicros int64
	SessionID       string
	Type            EventType

	// Script is set for run_script events.
	Script string

	// Phase, Command, DurationMicros and Error are set for command events.
	Phase          string
	Command        string
	DurationMicros int64
	Error          string
}

// ToStruct converts the entry to its protobuf representation. Empty fields
// are omitted.
func (le *LogEntry) ToStruct() (*structpb.Struct, error) {
	fields := map[string]interface{}{
		"timestamp_micros": le.TimestampMicros,
		"type":             string(le.Type),
	}
	set := func(key, value string) {
		if value != "" {
			fields[key] = value
		}
	}
	set("session_id", le.SessionID)
	set("script", le.Script)
	set("phase", le.Phase)
	set("command", le.Command)
	set("error", le.Error)
	if le.Type == EventCommand {
		fields["duration_micros"] = le.DurationMicros
	}

	return structpb.NewStruct(fields)
}

// FromStruct fills the entry from its protobuf representation.
func (le *LogEntry) FromStruct(s *structpb.Struct) error {
	fields := s.GetFields()

	typ, ok := fields["type"]
	if !ok {
		return fmt.Errorf("log entry is missing a type")
	}
	le.Type = EventType(typ.GetStringValue())

	le.TimestampMicros = int64(fields["timestamp_micros"].GetNumberValue())
	le.SessionID = fields["session_id"].GetStringValue()
	le.Script = fields["script"].GetStringValue()
	le.Phase = fields["phase"].GetStringValue()
	le.Command = fields["command"].GetStringValue()
	le.DurationMicros = int64(fields["duration_micros"].GetNumberValue())
	le.Error = fields["error"].GetStringValue()
	return nil
}

// MarshalJSON implements json.Marshaler using the protojson encoding.
func (le *LogEntry) MarshalJSON() ([]byte, error) {
	s, err := le.ToStruct()
	if err != nil {
		return nil, err
	}
	return protojson.Marshal(s)
}

// UnmarshalJSON implements json.Unmarshaler using the protojson encoding.
func (le *LogEntry) UnmarshalJSON(data []byte) error {
	var s structpb.Struct
	if err := protojson.Unmarshal(data, &s); err != nil {
		return err
	}
	return le.FromStruct(&s)
}
