package types

import (
	"bytes"
	"fmt"

	"github.com/matst80/campsite-finder/pkg/common/jsoncompat"
)

// Opt is a filter value that is either set or explicitly unset.
// The zero value is unset.
type Opt[T any] struct {
	value T
	set   bool
}

func Set[T any](v T) Opt[T] {
	o := Opt[T]{value: v, set: true}
	if e, ok := any(v).(emptier); ok && e.empty() {
		return Opt[T]{}
	}
	return o
}

func Unset[T any]() Opt[T] {
	return Opt[T]{}
}

func (o Opt[T]) IsSet() bool {
	return o.set
}

func (o Opt[T]) Get() (T, bool) {
	return o.value, o.set
}

// Value returns the zero value of T when unset.
func (o Opt[T]) Value() T {
	return o.value
}

func (o Opt[T]) Or(fallback T) T {
	if !o.set {
		return fallback
	}
	return o.value
}

func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return jsoncompat.Marshal(o.value)
}

func (o *Opt[T]) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*o = Opt[T]{}
		return nil
	}
	var v T
	if err := jsoncompat.Unmarshal(data, &v); err != nil {
		return err
	}
	if val, ok := any(v).(validator); ok {
		if err := val.Validate(); err != nil {
			return err
		}
	}
	*o = Set(v)
	return nil
}

// Field implementation

func (o *Opt[T]) IsDefault() bool {
	return !o.set
}

func (o *Opt[T]) Any() any {
	if !o.set {
		return nil
	}
	return o.value
}

func (o *Opt[T]) Canonical() string {
	if !o.set {
		return ""
	}
	return canonical(o.value)
}

func (o *Opt[T]) Decode(data []byte) error {
	return o.UnmarshalJSON(data)
}

func (o *Opt[T]) Reset() {
	*o = Opt[T]{}
}

type validator interface {
	Validate() error
}

type emptier interface {
	empty() bool
}

func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

// canonical never returns the empty string, which is reserved for unset.
func canonical(v any) string {
	b, err := jsoncompat.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}
	return string(b)
}
