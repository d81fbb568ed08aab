package storage

import (
	"database/sql"
	"time"
)

// DateLayout is the on-disk format for calendar dates.
const DateLayout = "2006-01-02"

// FormatTime encodes a timestamp as RFC3339 in UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTime decodes a timestamp written by FormatTime. Empty input yields the zero time.
func ParseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// FormatDate encodes a calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// NullDate encodes an optional date; the zero time maps to NULL.
func NullDate(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: FormatDate(t), Valid: true}
}

// ParseDate decodes a date column. NULL or malformed values yield the zero time.
func ParseDate(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(DateLayout, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

// NullString maps "" to NULL.
func NullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// NullInt maps 0 to NULL.
func NullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}

// BoolInt encodes a bool as 0/1 so the column stays INTEGER on every engine.
func BoolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
