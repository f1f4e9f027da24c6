// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package jsonpath models decoded upstream documents as a closed variant
// (Value) and extracts labeled text from them along key paths.
//
// Navigation never fails loudly: a missing key and a node of the wrong kind
// are the same "miss", so callers need one fallback instead of per-field
// guards.
package jsonpath

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	Null Kind = iota
	String
	Number
	Bool
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "bool"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Value is one node of a decoded JSON document. The zero Value is null.
// Values are immutable once built.
type Value struct {
	kind Kind
	text string // String payload, or the literal of a Number
	b    bool
	arr  []Value
	obj  map[string]Value
}

// Decode parses data into a Value. Numbers keep their literal form so that
// "4" renders as "4" and not "4.000000".
func Decode(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, fmt.Errorf("decoding document: %w", err)
	}
	return FromAny(raw), nil
}

// FromAny converts the output of encoding/json (or a hand-built literal) into
// a Value. Unsupported Go types collapse to null.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Value{}
	case Value:
		return t
	case string:
		return Value{kind: String, text: t}
	case json.Number:
		return Value{kind: Number, text: t.String()}
	case float64:
		return Value{kind: Number, text: strconv.FormatFloat(t, 'f', -1, 64)}
	case int:
		return Value{kind: Number, text: strconv.Itoa(t)}
	case int64:
		return Value{kind: Number, text: strconv.FormatInt(t, 10)}
	case bool:
		return Value{kind: Bool, b: t}
	case []any:
		arr := make([]Value, len(t))
		for i, e := range t {
			arr[i] = FromAny(e)
		}
		return Value{kind: Array, arr: arr}
	case map[string]any:
		obj := make(map[string]Value, len(t))
		for k, e := range t {
			obj[k] = FromAny(e)
		}
		return Value{kind: Object, obj: obj}
	default:
		return Value{}
	}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is JSON null.
func (v Value) IsNull() bool { return v.kind == Null }

// Field returns the member named key. ok is false when v is not an object or
// has no such member.
func (v Value) Field(key string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	f, ok := v.obj[key]
	return f, ok
}

// Lookup walks path from v, one object member per segment. An empty path
// returns v itself.
func (v Value) Lookup(path ...string) (Value, bool) {
	cur := v
	for _, seg := range path {
		next, ok := cur.Field(seg)
		if !ok {
			return Value{}, false
		}
		cur = next
	}
	return cur, true
}

// Index returns the i-th element of an array.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != Array || i < 0 || i >= len(v.arr) {
		return Value{}, false
	}
	return v.arr[i], true
}

// Items returns the elements of an array, or nil for any other kind.
func (v Value) Items() []Value {
	if v.kind != Array {
		return nil
	}
	return v.arr
}

// Len returns the number of elements or members; scalars have length 0.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.arr)
	case Object:
		return len(v.obj)
	default:
		return 0
	}
}

// Scalar returns the text form of a string, number or bool. ok is false for
// null, arrays and objects.
func (v Value) Scalar() (string, bool) {
	switch v.kind {
	case String, Number:
		return v.text, true
	case Bool:
		return strconv.FormatBool(v.b), true
	default:
		return "", false
	}
}

// Interface converts v back to plain Go values (map[string]any, []any,
// string, json.Number, bool, nil).
func (v Value) Interface() any {
	switch v.kind {
	case String:
		return v.text
	case Number:
		return json.Number(v.text)
	case Bool:
		return v.b
	case Array:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.Interface()
		}
		return out
	case Object:
		out := make(map[string]any, len(v.obj))
		for k, e := range v.obj {
			out[k] = e.Interface()
		}
		return out
	default:
		return nil
	}
}

// String renders scalars as their text and containers as compact JSON with
// sorted keys.
func (v Value) String() string {
	if s, ok := v.Scalar(); ok {
		return s
	}
	if v.kind == Null {
		return "null"
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v.Interface()); err != nil {
		return ""
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
