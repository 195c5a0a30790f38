package guardrails

import (
	"encoding/json"
	"fmt"
	"io"
)

// DecodePayload reads a JSON object of field → value pairs into an ordered
// payload. The standard map decoding would lose declaration order, which
// the engine's result contract depends on, so fields are read from the
// token stream.
//
// Values may be numbers or strings; strings are sanitized and parsed by
// the engine during validation.
func DecodePayload(r io.Reader) ([]PayloadField, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("payload must be a JSON object, got %v", tok)
	}

	var fields []PayloadField
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to decode payload field name: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("payload field name must be a string, got %v", keyTok)
		}

		valTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to decode payload field %q: %w", name, err)
		}

		var value any
		switch v := valTok.(type) {
		case json.Number:
			f, err := v.Float64()
			if err != nil {
				return nil, fmt.Errorf("payload field %q is not a valid number: %w", name, err)
			}
			value = f
		case string:
			value = v
		default:
			return nil, fmt.Errorf("payload field %q must be a number or string, got %T", name, valTok)
		}

		fields = append(fields, PayloadField{Name: name, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}

	return fields, nil
}
