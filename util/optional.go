package util

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Optional holds a value that may be absent. The zero value is absent.
//
// Optional implements IsZero so that struct fields tagged `json:",omitzero"`
// are left out of the payload entirely when unset, rather than being sent as
// null. Decoding a JSON null yields an absent Optional.
//
// Optional is comparable whenever T is, which keeps entities that embed it
// usable with ==.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// None returns an absent Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// FromPtr returns Some(*p), or None when p is nil.
func FromPtr[T any](p *T) Optional[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

// IsSet reports whether a value is present.
func (o Optional[T]) IsSet() bool { return o.set }

// IsZero reports whether the Optional is absent.
func (o Optional[T]) IsZero() bool { return !o.set }

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) { return o.value, o.set }

// OrElse returns the value, or fallback when absent.
func (o Optional[T]) OrElse(fallback T) T {
	if o.set {
		return o.value
	}
	return fallback
}

// Ptr returns a pointer to a copy of the value, or nil when absent.
func (o Optional[T]) Ptr() *T {
	if !o.set {
		return nil
	}
	return Ptr(o.value)
}

// String implements fmt.Stringer.
func (o Optional[T]) String() string {
	if !o.set {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", o.value)
}

// MarshalJSON encodes the held value, or null when absent.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON decodes a value; null leaves the Optional absent.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
