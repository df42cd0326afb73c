// Package reshape rewrites census records into BigQuery-friendly shapes.
// Everything here is pure: bytes in, bytes out, no I/O besides the stream helpers
package reshape

import (
	"bytes"
	"encoding/json"
	stderrs "errors"
	"io"
)

var errNotObject = stderrs.New("not a JSON object")

// Member is one key/value pair of an Object, the value kept as raw JSON text
type Member struct {
	Key   string
	Value json.RawMessage
}

// Object is a JSON object that remembers key order. A repeated key keeps the position of
// its first occurrence and the value of its last
type Object struct {
	members []Member
	index   map[string]int
}

// ParseObject decodes b, which must hold exactly one JSON object
func ParseObject(b []byte) (*Object, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errNotObject
	}
	o := &Object{index: make(map[string]int)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errNotObject
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		o.Set(key, raw)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = stderrs.New("trailing data after object")
		}
		return nil, err
	}
	return o, nil
}

// Len returns the number of members
func (o *Object) Len() int { return len(o.members) }

// Members returns the members in order; the slice must not be modified
func (o *Object) Members() []Member { return o.members }

// Get returns the raw value stored under key
func (o *Object) Get(key string) (json.RawMessage, bool) {
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.members[i].Value, true
}

// Set replaces the value of an existing key in place or appends a new member
func (o *Object) Set(key string, v json.RawMessage) {
	if o.index == nil {
		o.index = make(map[string]int)
	}
	if i, ok := o.index[key]; ok {
		o.members[i].Value = v
		return
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, Member{Key: key, Value: v})
}

// MarshalJSON renders the object compactly in member order
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o.members {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(&buf, m.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := json.Compact(&buf, m.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeString appends s as a JSON string without HTML escaping
func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1) // Encode appends '\n'
	return nil
}

func quote(s string) json.RawMessage {
	var buf bytes.Buffer
	_ = writeString(&buf, s)
	return buf.Bytes()
}

func kind(v json.RawMessage) byte {
	v = bytes.TrimLeft(v, " \t\r\n")
	if len(v) == 0 {
		return 0
	}
	return v[0]
}

func isObject(v json.RawMessage) bool { return kind(v) == '{' }

func isNull(v json.RawMessage) bool { return bytes.Equal(bytes.TrimSpace(v), []byte("null")) }
