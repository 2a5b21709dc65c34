package gateway

import "fmt"

// DecodeList decodes a list endpoint. A top level that is not an array
// yields an empty list and no error; an array that does not decode as []T
// is an invalid response.
func DecodeList[T any](p Payload) ([]T, error) {
	if p.Shape != ShapeArray {
		return []T{}, nil
	}
	out := []T{}
	if err := p.Decode(&out); err != nil {
		return nil, InvalidResponse(p, fmt.Errorf("decode list: %w", err))
	}
	return out, nil
}

// DecodeOne decodes an endpoint answering T or [T], taking the first item.
// ok is false when the body carries no item.
func DecodeOne[T any](p Payload) (v T, ok bool, err error) {
	items := p.Items()
	if len(items) == 0 || shapeOf(items[0]) == ShapeNull {
		return v, false, nil
	}
	if err := decodeRaw(items[0], &v); err != nil {
		return v, false, InvalidResponse(p, fmt.Errorf("decode item: %w", err))
	}
	return v, true, nil
}
