// Package model contains the entity shapes exchanged with the remote HR API.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ID is an opaque entity identifier. The remote API emits both numeric and
// string identifiers, so ID accepts either and always renders as a string.
type ID string

// UnmarshalJSON accepts a JSON string, a JSON number or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("id must be a string or number: %w", err)
		}
		*id = ID(n.String())
		return nil
	}
}

// String returns the identifier text.
func (id ID) String() string { return string(id) }

// dateLayouts are tried in order when decoding a Date.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Date is a calendar timestamp that tolerates the layouts the API uses.
// An empty string decodes to the zero Date.
type Date struct {
	time.Time
}

// NewDate wraps t.
func NewDate(t time.Time) *Date { return &Date{Time: t} }

// UnmarshalJSON parses RFC3339, a naive timestamp or a bare date.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("unrecognised date %s", strconv.Quote(s))
}

// MarshalJSON renders RFC3339, or null for the zero Date.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format(time.RFC3339))
}

// isSet reports whether an optional date carries a value.
func isSet(d *Date) bool { return d != nil && !d.IsZero() }

// SkillName is a skill label. The API sends skills either as plain strings
// or as {"id": ..., "name": ...} objects.
type SkillName string

// UnmarshalJSON accepts a string or an object with a name field.
func (s *SkillName) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*s = SkillName(obj.Name)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("skill must be a string or object: %w", err)
	}
	*s = SkillName(str)
	return nil
}
