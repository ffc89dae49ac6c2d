// Package translator fills translation gaps in i18n JSON resource files.
//
// This file defines Tree, the ordered JSON object that all resource files
// are parsed into. Key order from the source file is preserved through
// diffing, merging, and writing so rewritten files stay diff-friendly.
package translator

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Tree is a JSON object whose keys keep their file order.
// Values are one of: string, json.Number, bool, nil, []any, or *Tree.
type Tree struct {
	keys   []string
	values map[string]any
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{values: make(map[string]any)}
}

// ParseTree parses raw JSON bytes into a tree. The top-level value must be
// an object.
func ParseTree(data []byte) (*Tree, error) {
	t := NewTree()
	if err := t.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return t, nil
}

// Len returns the number of keys.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Keys returns the keys in file order.
func (t *Tree) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Get returns the value for key.
func (t *Tree) Get(key string) (any, bool) {
	if t == nil {
		return nil, false
	}
	v, ok := t.values[key]
	return v, ok
}

// Set stores a value, appending the key when it is new.
func (t *Tree) Set(key string, v any) {
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = v
}

// UnmarshalJSON decodes a JSON object token by token so key order survives.
func (t *Tree) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to parse resource: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("failed to parse resource: top-level value is not an object")
	}

	parsed, err := parseObject(dec)
	if err != nil {
		return err
	}
	*t = *parsed

	if dec.More() {
		return fmt.Errorf("failed to parse resource: trailing data after object")
	}
	return nil
}

// parseObject reads key/value pairs until the closing brace. The opening
// brace has already been consumed.
func parseObject(dec *json.Decoder) (*Tree, error) {
	t := NewTree()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to parse resource: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("failed to parse resource: object key is not a string")
		}
		v, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		t.Set(key, v)
	}
	// Consume the closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to parse resource: %w", err)
	}
	return t, nil
}

// parseValue reads one JSON value of any shape.
func parseValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to parse resource: %w", err)
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return parseObject(dec)
		case '[':
			var arr []any
			for dec.More() {
				elem, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, elem)
			}
			// Consume the closing ']'
			if _, err := dec.Token(); err != nil {
				return nil, fmt.Errorf("failed to parse resource: %w", err)
			}
			return arr, nil
		default:
			return nil, fmt.Errorf("failed to parse resource: unexpected delimiter %q", v.String())
		}
	default:
		// string, json.Number, bool, or nil
		return v, nil
	}
}

// MarshalJSON writes the object with keys in their stored order.
func (t *Tree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode renders the tree pretty-printed with two-space indentation and a
// trailing newline, the layout translation files are stored in.
func (t *Tree) Encode() ([]byte, error) {
	compact, err := t.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return nil, fmt.Errorf("failed to encode resource: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case *Tree:
		buf.WriteByte('{')
		for i, key := range val.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(key)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := writeValue(buf, val.values[key]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case json.Number:
		buf.WriteString(val.String())
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return err
		}
		buf.Write(b)
	}
	return nil
}

// DeepEqual reports structural equality of two values. Numbers compare by
// numeric value, objects by key set and per-key equality (order ignored).
func DeepEqual(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case json.Number:
		bv, ok := b.(json.Number)
		if !ok {
			return false
		}
		if av.String() == bv.String() {
			return true
		}
		af, aerr := av.Float64()
		bf, berr := bv.Float64()
		return aerr == nil && berr == nil && af == bf
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !DeepEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Tree:
		bv, ok := b.(*Tree)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, key := range av.keys {
			other, exists := bv.Get(key)
			if !exists || !DeepEqual(av.values[key], other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// isFalsy reports whether a value counts as "nothing there yet": absent,
// null, empty string, zero, false, or an empty object. Arrays are never
// falsy.
func isFalsy(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	case json.Number:
		f, err := val.Float64()
		return err == nil && f == 0
	case *Tree:
		return val.Len() == 0
	default:
		return false
	}
}

// cloneValue deep-copies a value so gap trees never alias their inputs.
func cloneValue(v any) any {
	switch val := v.(type) {
	case *Tree:
		out := NewTree()
		for _, key := range val.keys {
			out.Set(key, cloneValue(val.values[key]))
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = cloneValue(elem)
		}
		return out
	default:
		return val
	}
}

// Merge combines freshly translated content with the file's original
// content. Original values win on conflicts so existing translations are
// never clobbered; nested objects merge recursively. A falsy original or
// the missing marker is a placeholder, not a translation, so it loses to
// fresh content. Translated keys keep their order (which follows the base
// file), original-only keys append in their own order.
func Merge(translated, original *Tree) *Tree {
	out := NewTree()
	if translated != nil {
		for _, key := range translated.keys {
			tv := translated.values[key]
			ov, exists := original.Get(key)
			if !exists {
				out.Set(key, cloneValue(tv))
				continue
			}
			tt, tok := tv.(*Tree)
			ot, ook := ov.(*Tree)
			if tok && ook {
				out.Set(key, Merge(tt, ot))
				continue
			}
			if isFalsy(ov) || ov == MissingMarker {
				out.Set(key, cloneValue(tv))
				continue
			}
			out.Set(key, cloneValue(ov))
		}
	}
	if original != nil {
		for _, key := range original.keys {
			if _, seen := out.Get(key); !seen {
				out.Set(key, cloneValue(original.values[key]))
			}
		}
	}
	return out
}

// LeafPaths returns the dot-joined paths of every non-object value,
// in file order. Used by gap reporting.
func (t *Tree) LeafPaths() []string {
	var paths []string
	t.appendLeafPaths("", &paths)
	return paths
}

func (t *Tree) appendLeafPaths(prefix string, paths *[]string) {
	if t == nil {
		return
	}
	for _, key := range t.keys {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if sub, ok := t.values[key].(*Tree); ok {
			sub.appendLeafPaths(path, paths)
			continue
		}
		*paths = append(*paths, path)
	}
}

// CountLeaves returns the number of non-object values in the tree.
func (t *Tree) CountLeaves() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, key := range t.keys {
		if sub, ok := t.values[key].(*Tree); ok {
			n += sub.CountLeaves()
			continue
		}
		n++
	}
	return n
}
