// Package updateset models update set records returned by the ServiceNow Table API.
package updateset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/conn-castle/snset/internal/messages"
)

// Value is a field value: either a plain string or a reference
// carrying both the raw value and its display string.
type Value struct {
	Raw       string
	Display   string
	Link      string
	Reference bool
}

// Text returns a plain string value.
func Text(s string) Value {
	return Value{Raw: s}
}

// Ref returns a reference value.
func Ref(raw string, display string) Value {
	return Value{Raw: raw, Display: display, Reference: true}
}

// String flattens v: references render as their display string.
func (v Value) String() string {
	if v.Reference {
		return v.Display
	}
	return v.Raw
}

type referenceJSON struct {
	Value        *string `json:"value"`
	DisplayValue *string `json:"display_value"`
	Link         string  `json:"link"`
}

// UnmarshalJSON accepts strings, null, scalars, and reference objects.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*v = Value{}
		return nil
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = Text(s)
		return nil
	case trimmed[0] == '{':
		var ref referenceJSON
		if err := json.Unmarshal(trimmed, &ref); err != nil {
			return err
		}
		out := Value{Link: ref.Link, Reference: true}
		if ref.Value != nil {
			out.Raw = *ref.Value
		}
		if ref.DisplayValue != nil {
			out.Display = *ref.DisplayValue
		}
		*v = out
		return nil
	case trimmed[0] == '[':
		return fmt.Errorf(messages.UpdateSetArrayValueFmt, trimmed)
	default:
		*v = Text(string(trimmed))
		return nil
	}
}

// Record is an update set keyed by field name. Fields keep the order the
// API returned them in.
type Record struct {
	fields []string
	values map[string]Value
}

// NewRecord builds a record from alternating field/value pairs.
func NewRecord(pairs ...any) Record {
	var r Record
	for i := 0; i+1 < len(pairs); i += 2 {
		field, _ := pairs[i].(string)
		switch val := pairs[i+1].(type) {
		case Value:
			r.Set(field, val)
		case string:
			r.Set(field, Text(val))
		default:
			r.Set(field, Text(fmt.Sprint(val)))
		}
	}
	return r
}

// Set stores value under field, appending field when it is new.
func (r *Record) Set(field string, value Value) {
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if _, ok := r.values[field]; !ok {
		r.fields = append(r.fields, field)
	}
	r.values[field] = value
}

// Get returns the value stored under field.
func (r Record) Get(field string) (Value, bool) {
	v, ok := r.values[field]
	return v, ok
}

// String returns the flattened value of field, or "" when absent.
func (r Record) String(field string) string {
	v, _ := r.Get(field)
	return v.String()
}

// Name returns the update set name.
func (r Record) Name() string {
	return r.String("name")
}

// Fields returns the field names in order.
func (r Record) Fields() []string {
	out := make([]string, len(r.fields))
	copy(out, r.fields)
	return out
}

// UnmarshalJSON decodes a JSON object, keeping key order.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf(messages.UpdateSetRecordNotObjectFmt, tok)
	}

	var out Record
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf(messages.UpdateSetRecordKeyFmt, keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var v Value
		if err := v.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf(messages.UpdateSetFieldFmt, key, err)
		}
		out.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = out
	return nil
}

// Names returns the name of each record, in order.
func Names(records []Record) []string {
	names := make([]string, 0, len(records))
	for _, r := range records {
		names = append(names, r.Name())
	}
	return names
}

// Normalize folds a name for case and whitespace insensitive comparison.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
