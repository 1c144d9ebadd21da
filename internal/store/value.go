package store

import (
	"context"
	"encoding/json"
)

// Value is a typed singleton stored at a fixed path.
type Value[T any] struct {
	adapter *Adapter
	name    string
}

func NewValue[T any](adapter *Adapter, name string) *Value[T] {
	return &Value[T]{adapter: adapter, name: name}
}

// Get returns the stored value. ok is false when nothing is stored.
func (v *Value[T]) Get(ctx context.Context) (value T, ok bool, err error) {
	path := v.adapter.path(v.name)
	snap, err := v.adapter.get(ctx, path)
	if err != nil || !snap.Exists {
		return value, false, err
	}

	err = json.Unmarshal(snap.Value, &value)
	if err != nil {
		return value, false, &DecodeError{Path: path, Err: err}
	}
	return value, true, nil
}

// Set overwrites the stored value.
func (v *Value[T]) Set(ctx context.Context, value T) error {
	path := v.adapter.path(v.name)
	raw, err := json.Marshal(value)
	if err != nil {
		return &DecodeError{Path: path, Err: err}
	}
	return v.adapter.set(ctx, path, raw)
}

// Transact applies fn atomically. exists reports whether a value was stored;
// when it was not, fn receives the zero value.
func (v *Value[T]) Transact(ctx context.Context, fn func(value *T, exists bool) error) (T, error) {
	var zero T
	path := v.adapter.path(v.name)

	raw, err := v.adapter.transact(ctx, path, func(current json.RawMessage) (json.RawMessage, error) {
		var value T
		exists := !IsNull(current)
		if exists {
			err := json.Unmarshal(current, &value)
			if err != nil {
				return nil, &DecodeError{Path: path, Err: err}
			}
		}
		err := fn(&value, exists)
		if err != nil {
			return nil, err
		}
		return json.Marshal(value)
	})
	if err != nil {
		return zero, err
	}

	var value T
	err = json.Unmarshal(raw, &value)
	if err != nil {
		return zero, &DecodeError{Path: path, Err: err}
	}
	return value, nil
}
