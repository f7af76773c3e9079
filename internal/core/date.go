package core

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Date is a calendar instant carried on entities (due dates, renewal dates...).
//
// The zero Date is the invalid date: it is what a missing or malformed value
// decodes to. Arithmetic helpers report invalid dates as not comparable
// instead of failing, so urgency classifiers can fall through to their least
// alarming bucket.
type Date struct {
	time.Time
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// NewDate creates a new Date from year, month, day at midnight UTC
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf wraps t as a UTC Date.
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	return Date{Time: t.UTC()}
}

// ParseDate parses the formats accepted on the wire. Unparsable input yields
// the invalid date; it never returns an error.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t.UTC()}
		}
	}
	return Date{}
}

// Valid reports whether the date holds a usable instant.
func (d Date) Valid() bool {
	return !d.IsZero()
}

// String returns the RFC3339 form (with fractional seconds when present), or
// "" for the invalid date.
func (d Date) String() string {
	if !d.Valid() {
		return ""
	}
	return d.UTC().Format(time.RFC3339Nano)
}

// MarshalJSON writes null for the invalid date.
func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON is lenient: null, empty, non-string or malformed values all
// decode to the invalid date.
func (d *Date) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*d = Date{}
		return nil
	}
	*d = ParseDate(s)
	return nil
}
