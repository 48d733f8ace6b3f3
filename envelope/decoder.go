package envelope

import (
	"encoding/json"
	"fmt"

	"github.com/kbukum/todokit/validation"
)

// Decoder converts a response body into T.
type Decoder[T any] func(body []byte) (T, error)

type decodeOptions struct {
	validate bool
}

// DecodeOption configures JSON and JSONList.
type DecodeOption func(*decodeOptions)

// Validated runs struct-tag validation on every decoded value.
func Validated() DecodeOption {
	return func(o *decodeOptions) { o.validate = true }
}

// JSON decodes a single JSON value.
func JSON[T any](opts ...DecodeOption) Decoder[T] {
	o := applyOptions(opts)
	return func(body []byte) (T, error) {
		var v T
		if err := json.Unmarshal(body, &v); err != nil {
			return v, err
		}
		if o.validate {
			if err := validation.Validate(v); err != nil {
				return v, err
			}
		}
		return v, nil
	}
}

// JSONList decodes a JSON array element by element. Any element that fails
// to decode or validate fails the whole list.
func JSONList[T any](opts ...DecodeOption) Decoder[[]T] {
	elem := JSON[T](opts...)
	return func(body []byte) ([]T, error) {
		var raw []json.RawMessage
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, err
		}
		out := make([]T, 0, len(raw))
		for i, item := range raw {
			v, err := elem(item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out = append(out, v)
		}
		return out, nil
	}
}

func applyOptions(opts []DecodeOption) decodeOptions {
	var o decodeOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
