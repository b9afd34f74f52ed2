package repository

import (
	"database/sql"
	"time"
)

// Timestamps are stored as RFC 3339 text in UTC.
const timeLayout = time.RFC3339

// scanTime reads an optional timestamp column. Unparseable text reads as
// NULL rather than failing the whole row.
func scanTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(timeLayout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func timeArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

func nowText() string { return time.Now().UTC().Format(timeLayout) }
