package ordered

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	j "github.com/goccy/go-json"
)

// DecodeJSON decodes a single JSON document from data. Integral numbers
// become int, other numbers float64. Duplicate object keys are an error.
func DecodeJSON(data []byte) (any, error) {
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	v, err := decodeJSONValue(dec, tok)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("ordered: trailing data after JSON document")
	}
	return v, nil
}

func decodeJSONValue(dec *j.Decoder, tok j.Token) (any, error) {
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			return decodeJSONObject(dec)
		case '[':
			return decodeJSONArray(dec)
		}
		return nil, fmt.Errorf("ordered: unexpected delimiter %q", rune(v))
	case string, bool, nil:
		return v, nil
	case j.Number:
		return jsonNumber(string(v))
	case float64:
		return v, nil
	}
	return nil, fmt.Errorf("ordered: unexpected JSON token %T", tok)
}

func decodeJSONObject(dec *j.Decoder) (any, error) {
	m := NewMap()
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, unexpected(err)
		}
		if d, ok := tok.(j.Delim); ok && d == '}' {
			return m, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("ordered: object key must be a string, got %T", tok)
		}
		if _, dup := m.Get(key); dup {
			return nil, &DuplicateKeyError{Key: key}
		}
		vt, err := dec.Token()
		if err != nil {
			return nil, unexpected(err)
		}
		v, err := decodeJSONValue(dec, vt)
		if err != nil {
			return nil, err
		}
		m.Set(key, v)
	}
}

func decodeJSONArray(dec *j.Decoder) (any, error) {
	arr := []any{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, unexpected(err)
		}
		if d, ok := tok.(j.Delim); ok && d == ']' {
			return arr, nil
		}
		v, err := decodeJSONValue(dec, tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}

func jsonNumber(s string) (any, error) {
	if i, err := strconv.Atoi(s); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("ordered: invalid number %q: %w", s, err)
	}
	return f, nil
}

func unexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
