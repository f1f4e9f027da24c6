// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jsonpath

import (
	"strings"
)

const (
	// Separator sits between a label and its extracted value.
	Separator = "："

	valueSep    = "; "
	subfieldSep = "、"
)

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Rule describes how to render one field of a document: a label, the key
// path to the field, and optionally the members to collect from the object
// (or objects) found there. Fallback, when set, is tried if Path yields
// nothing.
type Rule struct {
	Label     string
	Path      []string
	Fallback  []string
	Subfields []string
}

// Path splits a dotted path such as "calList.adultSalePrice" into segments.
func Path(dotted string) []string {
	if dotted == "" {
		return nil
	}
	return strings.Split(dotted, ".")
}

// Empty returns the text Extract produces when label has no value.
func Empty(label string) string {
	return label + Separator
}

// IsEmpty reports whether line is the bare "label：" form for label.
func IsEmpty(line, label string) bool {
	return line == Empty(label)
}

// Apply extracts r from record.
func (r Rule) Apply(record Value) string {
	out := Extract(record, r.Label, r.Path, r.Subfields)
	if IsEmpty(out, r.Label) && len(r.Fallback) > 0 {
		return Extract(record, r.Label, r.Fallback, r.Subfields)
	}
	return out
}

// Extract renders "label：value" for the node at path in record.
//
// Without subfields the node must be a scalar or an array; array elements are
// rendered one by one. With subfields the node must be an object or an array
// of objects; for each object the listed members are joined with "、", and
// objects are joined with "; ". Null members, and string members equal to
// "null", are left out. Newlines inside values become single spaces.
//
// Extract never panics and never reports an error: anything it cannot
// render yields Empty(label).
func Extract(record Value, label string, path []string, subfields []string) (out string) {
	defer func() {
		if recover() != nil {
			out = Empty(label)
		}
	}()

	node, ok := record.Lookup(path...)
	if !ok {
		return Empty(label)
	}

	var values []string
	if len(subfields) == 0 {
		values, ok = terminalValues(node)
	} else {
		values, ok = subfieldValues(node, subfields)
	}
	if !ok {
		return Empty(label)
	}
	return label + Separator + strings.Join(values, valueSep)
}

func terminalValues(node Value) ([]string, bool) {
	switch node.Kind() {
	case Array:
		var values []string
		for _, e := range node.Items() {
			if e.IsNull() {
				continue
			}
			values = append(values, clean(e.String()))
		}
		return values, true
	case String, Number, Bool:
		s, _ := node.Scalar()
		return []string{clean(s)}, true
	default:
		return nil, false
	}
}

func subfieldValues(node Value, keys []string) ([]string, bool) {
	switch node.Kind() {
	case Object:
		group := collect(node, keys)
		if group == "" {
			return nil, true
		}
		return []string{group}, true
	case Array:
		var values []string
		for _, e := range node.Items() {
			if e.Kind() != Object {
				return nil, false
			}
			if group := collect(e, keys); group != "" {
				values = append(values, group)
			}
		}
		return values, true
	default:
		return nil, false
	}
}

// collect joins the present, non-null members of obj named by keys.
func collect(obj Value, keys []string) string {
	var parts []string
	for _, k := range keys {
		f, ok := obj.Field(k)
		if !ok || f.IsNull() {
			continue
		}
		s := f.String()
		if f.Kind() == String && s == "null" {
			continue
		}
		if s == "" {
			continue
		}
		parts = append(parts, clean(s))
	}
	return strings.Join(parts, subfieldSep)
}

func clean(s string) string {
	return newlines.Replace(s)
}
