package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Keyed is implemented by records whose identity is the storage key.
// The adapter calls SetKey after every decode; encoding clears it first so the
// key is never duplicated inside the stored value.
type Keyed interface {
	SetKey(key string)
}

// Collection is a typed view over the children of one path.
type Collection[T any, P interface {
	*T
	Keyed
}] struct {
	adapter *Adapter
	name    string
}

// NewCollection binds a collection name to a record type:
//
//	users := store.NewCollection[model.User](adapter, "users")
func NewCollection[T any, P interface {
	*T
	Keyed
}](adapter *Adapter, name string) *Collection[T, P] {
	return &Collection[T, P]{adapter: adapter, name: name}
}

func (c *Collection[T, P]) Name() string {
	return c.name
}

// List returns all records in storage order. An absent collection yields an empty slice.
func (c *Collection[T, P]) List(ctx context.Context) ([]T, error) {
	path := c.adapter.path(c.name)
	snap, err := c.adapter.get(ctx, path)
	if err != nil {
		return nil, err
	}

	children, err := snap.Children()
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	records := make([]T, 0, len(children))
	for _, child := range children {
		record, err := c.decode(child.Key, child.Value)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// ByID returns the record stored under id or ErrNotFound.
func (c *Collection[T, P]) ByID(ctx context.Context, id string) (T, error) {
	var zero T
	snap, err := c.adapter.get(ctx, c.adapter.path(c.name, id))
	if err != nil {
		return zero, err
	}
	if !snap.Exists {
		return zero, fmt.Errorf("%s/%s: %w", c.name, id, ErrNotFound)
	}
	return c.decode(id, snap.Value)
}

// Push stores a new record under a fresh time-ordered key and returns the key.
func (c *Collection[T, P]) Push(ctx context.Context, record T) (string, error) {
	path := c.adapter.path(c.name)
	raw, err := c.encode(record)
	if err != nil {
		return "", &DecodeError{Path: path, Err: err}
	}
	return c.adapter.push(ctx, path, raw)
}

// Update merges the given fields into the record stored under id.
func (c *Collection[T, P]) Update(ctx context.Context, id string, fields map[string]any) error {
	path := c.adapter.path(c.name, id)
	encoded := make(map[string]json.RawMessage, len(fields))
	for name, value := range fields {
		raw, err := json.Marshal(value)
		if err != nil {
			return &DecodeError{Path: path, Key: name, Err: err}
		}
		encoded[name] = raw
	}
	return c.adapter.update(ctx, path, encoded)
}

// Delete removes the record stored under id. Deleting an absent record succeeds.
func (c *Collection[T, P]) Delete(ctx context.Context, id string) error {
	return c.adapter.remove(ctx, c.adapter.path(c.name, id))
}

// Transact applies fn to the stored record atomically and returns the result.
// It fails with ErrNotFound when no record exists under id. An error returned
// by fn aborts the write and is returned as is.
func (c *Collection[T, P]) Transact(ctx context.Context, id string, fn func(record *T) error) (T, error) {
	var zero T
	path := c.adapter.path(c.name, id)

	raw, err := c.adapter.transact(ctx, path, func(current json.RawMessage) (json.RawMessage, error) {
		if IsNull(current) {
			return nil, fmt.Errorf("%s/%s: %w", c.name, id, ErrNotFound)
		}
		record, err := c.decode(id, current)
		if err != nil {
			return nil, err
		}
		err = fn(&record)
		if err != nil {
			return nil, err
		}
		next, err := c.encode(record)
		if err != nil {
			return nil, &DecodeError{Path: c.adapter.path(c.name), Key: id, Err: err}
		}
		return next, nil
	})
	if err != nil {
		return zero, err
	}
	return c.decode(id, raw)
}

func (c *Collection[T, P]) decode(key string, raw json.RawMessage) (T, error) {
	var record T
	err := json.Unmarshal(raw, &record)
	if err != nil {
		var zero T
		return zero, &DecodeError{Path: c.adapter.path(c.name), Key: key, Err: err}
	}
	P(&record).SetKey(key)
	return record, nil
}

func (c *Collection[T, P]) encode(record T) (json.RawMessage, error) {
	P(&record).SetKey("")
	return json.Marshal(record)
}
