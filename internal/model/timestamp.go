// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// timestampLayouts are the ISO 8601 forms a store may send. Layouts without
// a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Timestamp is a store-provided point in time. It keeps the text it was
// decoded from and writes it back unchanged; text that is not a recognised
// ISO 8601 form is kept as is instead of failing the whole response.
type Timestamp struct {
	raw    string
	t      time.Time
	parsed bool
	// literal marks a non-string JSON value kept verbatim in raw.
	literal bool
}

// At returns a timestamp for t rendered as RFC 3339.
func At(t time.Time) *Timestamp {
	return &Timestamp{raw: t.Format(time.RFC3339Nano), t: t, parsed: true}
}

// ParseTimestamp reads text in any of the accepted layouts. Unrecognised
// text yields a timestamp without a time.
func ParseTimestamp(text string) Timestamp {
	trimmed := strings.TrimSpace(text)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return Timestamp{raw: text, t: t, parsed: true}
		}
	}
	return Timestamp{raw: text}
}

// Time returns the parsed time. ok is false for a nil timestamp or text
// that could not be parsed.
func (ts *Timestamp) Time() (t time.Time, ok bool) {
	if ts == nil || !ts.parsed {
		return time.Time{}, false
	}
	return ts.t, true
}

// Equal reports whether ts was parsed and denotes the instant t.
func (ts *Timestamp) Equal(t time.Time) bool {
	got, ok := ts.Time()
	return ok && got.Equal(t)
}

// String returns the original text.
func (ts *Timestamp) String() string {
	if ts == nil {
		return ""
	}
	return ts.raw
}

// Compare orders parsed timestamps by instant. Unparsed ones sort before
// every parsed one and among themselves by their text.
func (ts Timestamp) Compare(o Timestamp) int {
	switch {
	case ts.parsed && o.parsed:
		return ts.t.Compare(o.t)
	case ts.parsed:
		return 1
	case o.parsed:
		return -1
	}
	return strings.Compare(ts.raw, o.raw)
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.literal {
		return []byte(ts.raw), nil
	}
	return json.Marshal(ts.raw)
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && (data[0] == '{' || data[0] == '[') {
		return fmt.Errorf("model: expected a timestamp, got %s", data)
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		// numbers and bools are kept as opaque text
		*ts = Timestamp{raw: string(data), literal: true}
		return nil
	}
	*ts = ParseTimestamp(text)
	return nil
}
