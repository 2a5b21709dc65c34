package gateway

import (
	"bytes"
	"encoding/json"
)

// Shape tags the JSON top level of a response.
type Shape int

const (
	ShapeNull Shape = iota
	ShapeArray
	ShapeObject
	ShapeScalar
)

func (s Shape) String() string {
	switch s {
	case ShapeArray:
		return "array"
	case ShapeObject:
		return "object"
	case ShapeScalar:
		return "scalar"
	default:
		return "null"
	}
}

// Payload is a parsed response body.
type Payload struct {
	Method    string
	Path      string
	Status    int
	RequestID string
	Shape     Shape
	Raw       json.RawMessage
}

// OK reports a 2xx status.
func (p Payload) OK() bool { return p.Status >= 200 && p.Status < 300 }

// Decode unmarshals the body into v.
func (p Payload) Decode(v any) error {
	return json.Unmarshal(p.Raw, v)
}

// Elements returns the array elements, or nil when the body is not an array.
func (p Payload) Elements() []json.RawMessage {
	if p.Shape != ShapeArray {
		return nil
	}
	var out []json.RawMessage
	if err := json.Unmarshal(p.Raw, &out); err != nil {
		return nil
	}
	return out
}

// Items normalizes an object to a single-element list. Arrays yield their
// elements; scalars and null yield nothing. Endpoints answering either
// T or [T] go through here.
func (p Payload) Items() []json.RawMessage {
	switch p.Shape {
	case ShapeArray:
		return p.Elements()
	case ShapeObject:
		return []json.RawMessage{p.Raw}
	default:
		return nil
	}
}

func decodeRaw(raw json.RawMessage, v any) error {
	return json.Unmarshal(raw, v)
}

// parsePayload validates text as JSON and tags its shape.
func parsePayload(raw []byte) (Shape, json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return ShapeNull, nil, err
	}
	return shapeOf(trimmed), json.RawMessage(trimmed), nil
}

func shapeOf(b []byte) Shape {
	switch b[0] {
	case '[':
		return ShapeArray
	case '{':
		return ShapeObject
	case 'n':
		return ShapeNull
	default:
		return ShapeScalar
	}
}
