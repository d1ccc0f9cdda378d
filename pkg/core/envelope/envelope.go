// Package envelope attaches provenance to every payload the API returns.
//
// A payload is authoritative only when its meta source is SourceDatabase and
// generated is false. Nothing in this module ever builds a generated
// envelope: an empty read is reported as empty, not synthesized.
package envelope

import (
	"reflect"
	"time"
)

const (
	// SourceDatabase tags payloads computed from rows read from the
	// aggregation store.
	SourceDatabase = "database"
	// SourceError tags failure payloads.
	SourceError = "error"
)

// TimestampLayout is sortable ISO-8601 with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Now is the clock used for timestamps. Tests replace it.
var Now = func() time.Time { return time.Now().UTC() }

// Meta describes where a payload came from.
type Meta struct {
	Source    string   `json:"source"`
	Tables    []string `json:"tables"`
	RowCount  int      `json:"rowCount"`
	Generated bool     `json:"generated"`
	Timestamp string   `json:"timestamp"`
}

// Response is the JSON shape every endpoint returns.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Error   string `json:"error,omitempty"`
	Meta    Meta   `json:"meta"`
}

func timestamp() string {
	return Now().UTC().Format(TimestampLayout)
}

func tablesOrEmpty(tables []string) []string {
	if tables == nil {
		return []string{}
	}
	return tables
}

// Wrap marks data as read from the given tables. The payload is stored as is.
func Wrap(data any, tables ...string) Response {
	return Response{
		Success: true,
		Data:    data,
		Meta: Meta{
			Source:    SourceDatabase,
			Tables:    tablesOrEmpty(tables),
			RowCount:  RowCount(data),
			Generated: false,
			Timestamp: timestamp(),
		},
	}
}

// WrapEmpty reports that the tables were read and held nothing relevant.
func WrapEmpty(tables ...string) Response {
	return Response{
		Success: true,
		Data:    []any{},
		Meta: Meta{
			Source:    SourceDatabase,
			Tables:    tablesOrEmpty(tables),
			RowCount:  0,
			Generated: false,
			Timestamp: timestamp(),
		},
	}
}

// WrapError builds a failure payload.
func WrapError(message string) Response {
	return Response{
		Success: false,
		Data:    nil,
		Error:   message,
		Meta: Meta{
			Source:    SourceError,
			Tables:    []string{},
			Timestamp: timestamp(),
		},
	}
}

// RowCount is the length of a slice, array or map payload, 0 for nil and 1
// for any other value.
func RowCount(data any) int {
	if data == nil {
		return 0
	}
	v := reflect.ValueOf(data)
	switch v.Kind() {
	case reflect.Slice, reflect.Map:
		if v.IsNil() {
			return 0
		}
		return v.Len()
	case reflect.Array:
		return v.Len()
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return 0
		}
	}
	return 1
}

// IsAuthoritative reports whether a client may render the payload as real
// data.
func IsAuthoritative(r Response) bool {
	return r.Success && r.Meta.Source == SourceDatabase && !r.Meta.Generated
}
