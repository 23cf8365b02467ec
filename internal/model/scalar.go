// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var numericText = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ScalarKind is the JSON kind a Scalar was decoded from.
type ScalarKind int

const (
	KindNull ScalarKind = iota
	KindBool
	KindNumber
	KindString
)

// Scalar is an opaque JSON scalar. The store decides whether a field such as
// year is a number or a string, so the client keeps whatever it received and
// writes it back unchanged.
type Scalar struct {
	kind ScalarKind
	text string
}

// String builds a string scalar.
func String(s string) Scalar { return Scalar{kind: KindString, text: s} }

// Number builds a numeric scalar.
func Number(n float64) Scalar {
	return Scalar{kind: KindNumber, text: strconv.FormatFloat(n, 'f', -1, 64)}
}

// Int builds a numeric scalar from an int.
func Int(n int) Scalar { return Scalar{kind: KindNumber, text: strconv.Itoa(n)} }

// Bool builds a boolean scalar.
func Bool(b bool) Scalar { return Scalar{kind: KindBool, text: strconv.FormatBool(b)} }

// ParseScalar interprets free text typed by a user: empty is null, numeric
// text is a number, true/false is a bool and everything else a string.
func ParseScalar(text string) Scalar {
	t := strings.TrimSpace(text)
	switch {
	case t == "":
		return Scalar{}
	case t == "true" || t == "false":
		return Scalar{kind: KindBool, text: t}
	}
	if numericText.MatchString(t) {
		if f, err := strconv.ParseFloat(t, 64); err == nil && !math.IsInf(f, 0) {
			if !json.Valid([]byte(t)) {
				t = strconv.FormatFloat(f, 'f', -1, 64)
			}
			return Scalar{kind: KindNumber, text: t}
		}
	}
	return String(text)
}

// Edit applies editor text to s. Unchanged text keeps the original kind, so
// a string year stays a string when only another field was edited.
func (s Scalar) Edit(text string) Scalar {
	if text == s.text {
		return s
	}
	return ParseScalar(text)
}

func (s Scalar) Kind() ScalarKind { return s.kind }
func (s Scalar) IsNull() bool     { return s.kind == KindNull }

// Float returns the numeric value for number scalars.
func (s Scalar) Float() (float64, bool) {
	if s.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(s.text, 64)
	return f, err == nil
}

// String renders the scalar the way an editor shows it; null renders empty.
func (s Scalar) String() string {
	return s.text
}

// Equal compares kind and value.
func (s Scalar) Equal(o Scalar) bool {
	if s.kind == KindNumber && o.kind == KindNumber {
		a, _ := s.Float()
		b, _ := o.Float()
		return a == b
	}
	return s.kind == o.kind && s.text == o.text
}

// Compare orders null < bool < number < string. Numbers compare by value,
// strings and bools lexically.
func (s Scalar) Compare(o Scalar) int {
	if s.kind != o.kind {
		return int(s.kind) - int(o.kind)
	}
	switch s.kind {
	case KindNull:
		return 0
	case KindNumber:
		a, _ := s.Float()
		b, _ := o.Float()
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	default:
		return strings.Compare(s.text, o.text)
	}
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	switch s.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool, KindNumber:
		return []byte(s.text), nil
	default:
		return json.Marshal(s.text)
	}
}

func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*s = Scalar{}
	case bytes.Equal(data, []byte("true")) || bytes.Equal(data, []byte("false")):
		*s = Scalar{kind: KindBool, text: string(data)}
	case data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = String(str)
	case data[0] == '{' || data[0] == '[':
		return fmt.Errorf("model: expected a scalar, got %s", data)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*s = Scalar{kind: KindNumber, text: n.String()}
	}
	return nil
}
