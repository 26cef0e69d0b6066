// Package types provides type definitions for structured data used throughout the resume-parser system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the shape carried by a Value.
type Kind int

// Value shapes observed in model output.
const (
	KindAbsent Kind = iota
	KindString
	KindList
	KindMapping
	// KindScalar holds a JSON number or boolean as its literal text.
	KindScalar
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMapping:
		return "mapping"
	case KindScalar:
		return "scalar"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a loosely-typed field as produced by the extraction model. The same
// logical field may arrive as a string, a list or a mapping depending on the
// schema variant, so it is kept as a tagged variant until normalization.
type Value struct {
	Kind    Kind
	Str     string
	Items   []Value
	Entries []Entry
}

// Entry is one key/value pair of a mapping Value. Mappings keep insertion order.
type Entry struct {
	Key   string
	Value Value
}

// String returns a string Value.
func String(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// Strings returns a list Value holding the given strings.
func Strings(ss ...string) Value {
	items := make([]Value, 0, len(ss))
	for _, s := range ss {
		items = append(items, String(s))
	}
	return Value{Kind: KindList, Items: items}
}

// List returns a list Value.
func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{Kind: KindList, Items: items}
}

// Mapping returns a mapping Value with entries in the given order.
func Mapping(entries ...Entry) Value {
	return Value{Kind: KindMapping, Entries: entries}
}

// IsZero reports whether the value is absent. It lets records omit missing
// fields when encoded.
func (v Value) IsZero() bool {
	return v.Kind == KindAbsent
}

// Get returns the value stored under key for mappings, or an absent Value.
func (v Value) Get(key string) Value {
	if v.Kind != KindMapping {
		return Value{}
	}
	for _, e := range v.Entries {
		if e.Key == key {
			return e.Value
		}
	}
	return Value{}
}

// Lookup returns the first present value among keys.
func (v Value) Lookup(keys ...string) Value {
	for _, key := range keys {
		if got := v.Get(key); got.Kind != KindAbsent {
			return got
		}
	}
	return Value{}
}

// Text flattens the value into a single line of text. Lists and mappings are
// joined with ", " after dropping empty parts; mapping keys are discarded.
func (v Value) Text() string {
	switch v.Kind {
	case KindString, KindScalar:
		return strings.TrimSpace(v.Str)
	case KindList:
		parts := make([]string, 0, len(v.Items))
		for _, item := range v.Items {
			if t := item.Text(); t != "" {
				parts = append(parts, t)
			}
		}
		return strings.Join(parts, ", ")
	case KindMapping:
		parts := make([]string, 0, len(v.Entries))
		for _, e := range v.Entries {
			if t := e.Value.Text(); t != "" {
				parts = append(parts, t)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// UnmarshalJSON decodes any JSON value, preserving mapping key order.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	decoded, err := decodeValue(dec)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			entries := []Entry{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("unexpected object key %v", keyTok)
				}
				item, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				entries = append(entries, Entry{Key: key, Value: item})
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Value{Kind: KindMapping, Entries: entries}, nil
		case '[':
			items := []Value{}
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Value{Kind: KindList, Items: items}, nil
		default:
			return Value{}, fmt.Errorf("unexpected delimiter %q", rune(t))
		}
	case string:
		return String(t), nil
	case json.Number:
		return Value{Kind: KindScalar, Str: t.String()}, nil
	case bool:
		return Value{Kind: KindScalar, Str: strconv.FormatBool(t)}, nil
	case nil:
		return Value{}, nil
	default:
		return Value{}, fmt.Errorf("unexpected JSON token %v", tok)
	}
}

// MarshalJSON encodes the value back into its original shape.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.Kind {
	case KindAbsent:
		buf.WriteString("null")
	case KindString:
		b, err := json.Marshal(v.Str)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindScalar:
		if json.Valid([]byte(v.Str)) {
			buf.WriteString(v.Str)
			return nil
		}
		b, err := json.Marshal(v.Str)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindList:
		buf.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMapping:
		buf.WriteByte('{')
		for i, e := range v.Entries {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(e.Key)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := e.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("cannot encode value of %s", v.Kind)
	}
	return nil
}
