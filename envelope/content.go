package envelope

import "fmt"

// Kind identifies which variant a Content holds.
type Kind int

const (
	// KindEmpty means there is no content.
	KindEmpty Kind = iota
	// KindTyped means the content is a decoded value.
	KindTyped
	// KindRaw means the content is the undecoded body text.
	KindRaw
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindTyped:
		return "typed"
	case KindRaw:
		return "raw"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Content is a tagged variant over Empty, Typed and Raw. The zero value is Empty.
type Content[T any] struct {
	kind  Kind
	value T
	raw   string
}

// Empty returns empty content.
func Empty[T any]() Content[T] {
	return Content[T]{kind: KindEmpty}
}

// Typed returns content holding v.
func Typed[T any](v T) Content[T] {
	return Content[T]{kind: KindTyped, value: v}
}

// Raw returns content holding the body text s.
func Raw[T any](s string) Content[T] {
	return Content[T]{kind: KindRaw, raw: s}
}

// Kind returns the variant held.
func (c Content[T]) Kind() Kind { return c.kind }

// IsEmpty reports whether the content is Empty.
func (c Content[T]) IsEmpty() bool { return c.kind == KindEmpty }

// IsTyped reports whether the content is Typed.
func (c Content[T]) IsTyped() bool { return c.kind == KindTyped }

// IsRaw reports whether the content is Raw.
func (c Content[T]) IsRaw() bool { return c.kind == KindRaw }

// Value returns the decoded value when the content is Typed.
func (c Content[T]) Value() (T, bool) {
	if c.kind != KindTyped {
		var zero T
		return zero, false
	}
	return c.value, true
}

// Text returns the body text when the content is Raw.
func (c Content[T]) Text() (string, bool) {
	if c.kind != KindRaw {
		return "", false
	}
	return c.raw, true
}

// String implements fmt.Stringer.
func (c Content[T]) String() string {
	switch c.kind {
	case KindTyped:
		return fmt.Sprintf("Typed(%+v)", c.value)
	case KindRaw:
		return fmt.Sprintf("Raw(%q)", c.raw)
	default:
		return "Empty"
	}
}
