package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// DefaultIndent is the indentation used for pretty-printed output.
const DefaultIndent = "  "

// MarshalElements encodes elems as a JSON array. An empty indent yields
// compact output; otherwise every nesting level is indented by indent.
//
// Encoding is deterministic: the same elements always produce the same bytes.
func MarshalElements(elems []Element, indent string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, e := range elems {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := e.appendJSON(&buf); err != nil {
			return nil, fmt.Errorf("element %d (%s): %w", i, e, err)
		}
	}
	buf.WriteByte(']')

	if indent == "" {
		return buf.Bytes(), nil
	}
	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", indent); err != nil {
		return nil, fmt.Errorf("indent: %w", err)
	}
	return out.Bytes(), nil
}

// WriteJSON writes elems to w as a pretty-printed JSON array followed by a
// newline.
func WriteJSON(elems []Element, w io.Writer) error {
	data, err := MarshalElements(elems, DefaultIndent)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (e Element) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := e.appendJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler.
func (m Metadata) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := m.appendJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalObject encodes fields as a compact JSON object in field order.
func MarshalObject(fields []Field) ([]byte, error) {
	var buf bytes.Buffer
	if err := appendObject(&buf, fields); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e Element) appendJSON(buf *bytes.Buffer) error {
	if e.IsLink() {
		buf.WriteString(`{"link":[`)
		appendString(buf, e.Link[0])
		buf.WriteByte(',')
		appendString(buf, e.Link[1])
		buf.WriteString(`],"metadata":`)
	} else {
		buf.WriteString(`{"identifier":`)
		appendString(buf, e.Identifier)
		buf.WriteString(`,"metadata":`)
	}
	if err := e.Metadata.appendJSON(buf); err != nil {
		return err
	}
	buf.WriteByte('}')
	return nil
}

func (m Metadata) appendJSON(buf *bytes.Buffer) error {
	buf.WriteString(`{"type":`)
	appendString(buf, m.Type)
	for _, f := range m.Extra {
		buf.WriteByte(',')
		if err := appendField(buf, f); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func appendField(buf *bytes.Buffer, f Field) error {
	appendString(buf, f.Key)
	buf.WriteByte(':')
	switch v := f.Value.(type) {
	case nil:
		buf.WriteString("null")
	case string:
		appendString(buf, v)
	case []Field:
		return appendObject(buf, v)
	default:
		return fmt.Errorf("metadata %q: unsupported value type %T", f.Key, f.Value)
	}
	return nil
}

func appendObject(buf *bytes.Buffer, fields []Field) error {
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := appendField(buf, f); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

// appendString writes s as a JSON string without HTML escaping.
func appendString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s) // strings always encode
	buf.Truncate(buf.Len() - 1)
}

type wireElement struct {
	Identifier *string         `json:"identifier"`
	Link       []string        `json:"link"`
	Metadata   json.RawMessage `json:"metadata"`
}

// ReadJSON decodes a JSON array of elements from r.
//
// Each element must carry exactly one of "identifier" or "link" (a two-item
// array) plus a "metadata" object with a string "type". Metadata values may be
// strings, null, or nested objects of the same; field order is preserved.
func ReadJSON(r io.Reader) ([]Element, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	elems := make([]Element, 0, len(raw))
	for i, msg := range raw {
		e, err := decodeElement(msg)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		elems = append(elems, e)
	}
	return elems, nil
}

func decodeElement(msg json.RawMessage) (Element, error) {
	var w wireElement
	if err := json.Unmarshal(msg, &w); err != nil {
		return Element{}, err
	}
	if len(w.Metadata) == 0 {
		return Element{}, fmt.Errorf("missing metadata")
	}
	meta, err := decodeMetadata(w.Metadata)
	if err != nil {
		return Element{}, fmt.Errorf("metadata: %w", err)
	}

	switch {
	case w.Identifier != nil && w.Link == nil:
		return Element{Kind: KindNode, Identifier: *w.Identifier, Metadata: meta}, nil
	case w.Identifier == nil && w.Link != nil:
		if len(w.Link) != 2 {
			return Element{}, fmt.Errorf("link must have 2 endpoints, got %d", len(w.Link))
		}
		return Element{Kind: KindLink, Link: [2]string{w.Link[0], w.Link[1]}, Metadata: meta}, nil
	default:
		return Element{}, fmt.Errorf("element must have exactly one of identifier or link")
	}
}

func decodeMetadata(raw json.RawMessage) (Metadata, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return Metadata{}, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return Metadata{}, fmt.Errorf("expected object, got %v", tok)
	}
	fields, err := readObject(dec)
	if err != nil {
		return Metadata{}, err
	}

	var meta Metadata
	typeSeen := false
	for _, f := range fields {
		if f.Key == "type" {
			s, ok := f.Value.(string)
			if !ok {
				return Metadata{}, fmt.Errorf("type must be a string")
			}
			meta.Type = s
			typeSeen = true
			continue
		}
		meta.Extra = append(meta.Extra, f)
	}
	if !typeSeen {
		return Metadata{}, fmt.Errorf("missing type")
	}
	return meta, nil
}

// readObject reads key/value pairs up to and including the closing brace.
// The opening brace must already have been consumed.
func readObject(dec *json.Decoder) ([]Field, error) {
	fields := []Field{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected key, got %v", tok)
		}
		val, err := readValue(dec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		fields = append(fields, Field{Key: key, Value: val})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return fields, nil
}

func readValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case nil:
		return nil, nil
	case string:
		return v, nil
	case json.Delim:
		if v == '{' {
			return readObject(dec)
		}
	}
	return nil, fmt.Errorf("unsupported value %v", tok)
}
