package recall

import "encoding/json"

// Field is an optional input value that remembers whether its key was present
// in the request. A present key with a JSON null has Set true and a nil Value.
type Field[T any] struct {
	Set   bool
	Value *T
}

// Some returns a present Field holding v.
func Some[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: &v}
}

// Null returns a present Field that clears the stored value.
func Null[T any]() Field[T] {
	return Field[T]{Set: true}
}

// IsZero reports whether the key was absent, so `omitzero` drops it.
func (f Field[T]) IsZero() bool {
	return !f.Set
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if string(b) == "null" {
		f.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	f.Value = &v
	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*f.Value)
}
