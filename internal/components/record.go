package components

import (
	"bytes"

	"github.com/francoispqt/gojay"
	"gitlab.com/tozd/go/errors"
)

const componentsKey = "$Components"

// maxDepth bounds object nesting in a record.
const maxDepth = 32

type fieldKind int

const (
	kindRaw fieldKind = iota
	kindString
	kindObject
	kindObjects
)

type field struct {
	key  string
	kind fieldKind

	str     string
	obj     *Record
	objects records
	raw     gojay.EmbeddedJSON
}

// Record is a JSON object that keeps its keys in document order, so that a
// decoded sidecar record re-encodes with only the edited values changed.
// String values, nested objects and the $Components array are decoded;
// anything else is carried as raw JSON.
type Record struct {
	fields []*field
	depth  int
}

// DecodeRecord parses one JSON object.
func DecodeRecord(data []byte) (*Record, error) {
	r := &Record{}
	if err := gojay.UnmarshalJSONObject(data, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Encode renders r as compact JSON.
func (r *Record) Encode() ([]byte, error) {
	return gojay.MarshalJSONObject(r)
}

func (r *Record) find(key string) *field {
	if r == nil {
		return nil
	}
	for _, f := range r.fields {
		if f.key == key {
			return f
		}
	}
	return nil
}

// Get returns the string value of key.
func (r *Record) Get(key string) (string, bool) {
	f := r.find(key)
	if f == nil || f.kind != kindString {
		return "", false
	}
	return f.str, true
}

// Set stores a string value, in place when key exists and appended
// otherwise.
func (r *Record) Set(key, value string) {
	if f := r.find(key); f != nil {
		f.kind, f.str = kindString, value
		f.obj, f.objects, f.raw = nil, nil, nil
		return
	}
	r.fields = append(r.fields, &field{key: key, kind: kindString, str: value})
}

// Object returns the nested object stored under key.
func (r *Record) Object(key string) *Record {
	if f := r.find(key); f != nil && f.kind == kindObject {
		return f.obj
	}
	return nil
}

// Components returns the child components.
func (r *Record) Components() []*Record {
	if f := r.find(componentsKey); f != nil && f.kind == kindObjects {
		return f.objects
	}
	return nil
}

// Keys returns the keys in document order.
func (r *Record) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.key
	}
	return keys
}

func (r *Record) UnmarshalJSONObject(dec *gojay.Decoder, key string) error {
	var raw gojay.EmbeddedJSON
	if err := dec.EmbeddedJSON(&raw); err != nil {
		return err
	}
	trimmed := bytes.TrimSpace(raw)
	if !complete(trimmed) {
		return errors.Errorf("value of %q is missing or incomplete", key)
	}
	f := &field{key: key, raw: append(gojay.EmbeddedJSON(nil), trimmed...)}
	switch {
	case trimmed[0] == '"':
		if err := gojay.Unmarshal(trimmed, &f.str); err != nil {
			return err
		}
		f.kind, f.raw = kindString, nil
	case trimmed[0] == '{':
		if r.depth >= maxDepth {
			return errors.Errorf("value of %q is nested too deeply", key)
		}
		f.obj = &Record{depth: r.depth + 1}
		if err := gojay.UnmarshalJSONObject(trimmed, f.obj); err != nil {
			return err
		}
		f.kind, f.raw = kindObject, nil
	case trimmed[0] == '[' && key == componentsKey:
		if r.depth >= maxDepth {
			return errors.Errorf("value of %q is nested too deeply", key)
		}
		list := &recordList{depth: r.depth + 1}
		if err := gojay.UnmarshalJSONArray(trimmed, list); err != nil {
			return err
		}
		f.objects = list.items
		f.kind, f.raw = kindObjects, nil
	}
	r.fields = append(r.fields, f)
	return nil
}

func (r *Record) NKeys() int { return 0 }

func (r *Record) MarshalJSONObject(enc *gojay.Encoder) {
	for _, f := range r.fields {
		switch f.kind {
		case kindString:
			enc.StringKey(f.key, f.str)
		case kindObject:
			enc.ObjectKey(f.key, f.obj)
		case kindObjects:
			enc.ArrayKey(f.key, f.objects)
		default:
			enc.AddEmbeddedJSONKey(f.key, &f.raw)
		}
	}
}

func (r *Record) IsNil() bool { return r == nil }

// complete reports whether v is a whole JSON value as far as its delimiters
// go. A record cut off after a key yields an empty or unterminated value.
func complete(v []byte) bool {
	if len(v) == 0 {
		return false
	}
	switch v[0] {
	case '{':
		return len(v) >= 2 && v[len(v)-1] == '}'
	case '[':
		return len(v) >= 2 && v[len(v)-1] == ']'
	case '"':
		return len(v) >= 2 && v[len(v)-1] == '"'
	}
	return true
}

type records []*Record

// recordList decodes an array of records one level below its owner.
type recordList struct {
	depth int
	items records
}

func (l *recordList) UnmarshalJSONArray(dec *gojay.Decoder) error {
	r := &Record{depth: l.depth}
	if err := dec.Object(r); err != nil {
		return err
	}
	l.items = append(l.items, r)
	return nil
}

func (rs records) MarshalJSONArray(enc *gojay.Encoder) {
	for _, r := range rs {
		enc.AddObject(r)
	}
}

func (rs records) IsNil() bool { return false }
