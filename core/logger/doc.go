// Package logger records structured execution events.
//
// Events are written as newline delimited JSON objects. Each object is a
// google.protobuf.Struct in its canonical protojson form, so the log can be
// consumed by anything that understands protobuf JSON.
package logger
