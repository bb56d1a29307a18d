package postgres

import (
	"database/sql"
	"encoding/json"
	"time"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// nullTimePtr converts a *time.Time to a sql.NullTime.
func nullTimePtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// nullString converts a string to sql.NullString; empty string is null.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// jsonbBytes converts json.RawMessage to a []byte suitable for JSONB columns.
func jsonbBytes(m json.RawMessage) []byte {
	if len(m) == 0 {
		return nil
	}
	return []byte(m)
}

// jsonbValue marshals v for a JSONB column; nil and empty slices become NULL.
func jsonbValue(v any) []byte {
	switch t := v.(type) {
	case nil:
		return nil
	case []string:
		if len(t) == 0 {
			return nil
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}

// unmarshalStrings decodes a JSONB string array column; NULL yields nil.
func unmarshalStrings(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}
