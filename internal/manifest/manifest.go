// Package manifest rewrites the URI fields of a collectible metadata document
// while passing every other field through untouched, in document order.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformed wraps JSON syntax errors and missing required structure.
var ErrMalformed = errors.New("malformed manifest")

type member struct {
	key string
	val any
}

// object keeps members in the order they were read. Setting an existing key
// replaces it in place; new keys are appended.
type object struct {
	members []member
}

func (o *object) get(key string) (any, bool) {
	for _, m := range o.members {
		if m.key == key {
			return m.val, true
		}
	}
	return nil, false
}

func (o *object) set(key string, val any) {
	for i := range o.members {
		if o.members[i].key == key {
			o.members[i].val = val
			return
		}
	}
	o.members = append(o.members, member{key: key, val: val})
}

func (o *object) del(key string) {
	for i := range o.members {
		if o.members[i].key == key {
			o.members = append(o.members[:i], o.members[i+1:]...)
			return
		}
	}
}

type Manifest struct {
	doc   *object
	files []*object
}

// Parse decodes b and checks that properties.files is an array of objects
// each carrying a string "type".
func Parse(b []byte) (*Manifest, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after document", ErrMalformed)
	}
	doc, ok := v.(*object)
	if !ok {
		return nil, fmt.Errorf("%w: document is not an object", ErrMalformed)
	}
	pv, _ := doc.get("properties")
	props, ok := pv.(*object)
	if !ok {
		return nil, fmt.Errorf("%w: missing properties object", ErrMalformed)
	}
	fv, _ := props.get("files")
	raw, ok := fv.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: properties.files is not an array", ErrMalformed)
	}
	files := make([]*object, len(raw))
	for i, f := range raw {
		entry, ok := f.(*object)
		if !ok {
			return nil, fmt.Errorf("%w: properties.files[%d] is not an object", ErrMalformed, i)
		}
		if t, _ := entry.get("type"); !isString(t) {
			return nil, fmt.Errorf("%w: properties.files[%d].type is not a string", ErrMalformed, i)
		}
		files[i] = entry
	}
	return &Manifest{doc: doc, files: files}, nil
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

// decodeValue reads one JSON value. Objects become *object, arrays []any,
// numbers json.Number.
func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	d, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch d {
	case '{':
		o := &object{}
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("object key %v is not a string", kt)
			}
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			o.set(key, v)
		}
		_, err = dec.Token()
		return o, err
	case '[':
		arr := []any{}
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		_, err = dec.Token()
		return arr, err
	default:
		return nil, fmt.Errorf("unexpected %v", d)
	}
}

func (m *Manifest) SetImage(uri string) { m.doc.set("image", uri) }

func (m *Manifest) SetAnimationURL(uri string) { m.doc.set("animation_url", uri) }

// RewriteFiles points every image/* entry at imageURI and every other entry
// at animationURI. Without an animation the non-image entries lose their uri.
func (m *Manifest) RewriteFiles(imageURI, animationURI string, hasAnimation bool) {
	for _, entry := range m.files {
		t, _ := entry.get("type")
		switch {
		case strings.HasPrefix(t.(string), "image/"):
			entry.set("uri", imageURI)
		case hasAnimation:
			entry.set("uri", animationURI)
		default:
			entry.del("uri")
		}
	}
}

// Bytes returns the compact UTF-8 encoding without HTML escaping.
func (m *Manifest) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, m.doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, v any) error {
	switch v := v.(type) {
	case *object:
		buf.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeScalar(buf, m.key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := encodeValue(buf, m.val); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, e := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeValue(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		return encodeScalar(buf, v)
	}
	return nil
}

func encodeScalar(buf *bytes.Buffer, v any) error {
	var sb bytes.Buffer
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(sb.Bytes(), []byte("\n")))
	return nil
}
