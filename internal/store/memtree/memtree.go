// Package memtree is an in-process store.Tree kept as a nested JSON document.
// It backs development runs and tests.
package memtree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/studyboosters/backend/internal/store"
)

type Tree struct {
	mu   sync.Mutex
	data map[string]any

	// fail, when set, is returned by every operation. Used to simulate outages.
	fail error
}

func New() *Tree {
	return &Tree{data: map[string]any{}}
}

// Fail makes every following operation report err. Passing nil restores normal operation.
func (t *Tree) Fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fail = err
}

func (t *Tree) Get(path string, done func(store.Snapshot, error)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.fail != nil {
		err := t.fail
		t.complete(func() { done(store.Snapshot{}, err) })
		return
	}

	raw, err := t.read(path)
	t.complete(func() { done(store.NewSnapshot(raw), err) })
}

func (t *Tree) Push(path string, value json.RawMessage, done func(string, error)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.fail != nil {
		err := t.fail
		t.complete(func() { done("", err) })
		return
	}

	id, err := uuid.NewV7()
	if err != nil {
		t.complete(func() { done("", err) })
		return
	}
	key := id.String()

	err = t.write(store.Join(path, key), value)
	if err != nil {
		t.complete(func() { done("", err) })
		return
	}
	t.complete(func() { done(key, nil) })
}

func (t *Tree) Set(path string, value json.RawMessage, done func(error)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	err := t.fail
	if err == nil {
		err = t.write(path, value)
	}
	t.complete(func() { done(err) })
}

func (t *Tree) Update(path string, fields map[string]json.RawMessage, done func(error)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	err := t.fail
	if err == nil {
		for name, value := range fields {
			err = t.write(store.Join(path, name), value)
			if err != nil {
				break
			}
		}
	}
	t.complete(func() { done(err) })
}

func (t *Tree) Remove(path string, done func(error)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	err := t.fail
	if err == nil {
		err = t.write(path, nil)
	}
	t.complete(func() { done(err) })
}

func (t *Tree) Transact(path string, fn store.TransactFunc, done func(json.RawMessage, error)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.fail != nil {
		err := t.fail
		t.complete(func() { done(nil, err) })
		return
	}

	current, err := t.read(path)
	if err != nil {
		t.complete(func() { done(nil, err) })
		return
	}

	next, err := fn(current)
	if err != nil {
		t.complete(func() { done(nil, err) })
		return
	}

	err = t.write(path, next)
	if err != nil {
		t.complete(func() { done(nil, err) })
		return
	}

	stored, err := t.read(path)
	t.complete(func() { done(stored, err) })
}

// complete delivers a result off the caller's goroutine.
func (t *Tree) complete(fn func()) {
	go fn()
}

func (t *Tree) read(path string) (json.RawMessage, error) {
	var node any = t.data
	for _, seg := range store.Split(path) {
		obj, ok := node.(map[string]any)
		if !ok {
			return nil, nil
		}
		node, ok = obj[seg]
		if !ok {
			return nil, nil
		}
	}
	return json.Marshal(node)
}

// write replaces the node at path. A nil or null value removes it and prunes
// parents left empty.
func (t *Tree) write(path string, value json.RawMessage) error {
	segments := store.Split(path)

	var node any
	if !store.IsNull(value) {
		dec := json.NewDecoder(bytes.NewReader(value))
		dec.UseNumber()
		err := dec.Decode(&node)
		if err != nil {
			return fmt.Errorf("invalid value at %q: %w", path, err)
		}
	}

	if len(segments) == 0 {
		obj, ok := node.(map[string]any)
		if node != nil && !ok {
			return fmt.Errorf("root must be an object")
		}
		if obj == nil {
			obj = map[string]any{}
		}
		t.data = obj
		return nil
	}

	if node == nil {
		t.remove(t.data, segments)
		return nil
	}

	parent := t.data
	for _, seg := range segments[:len(segments)-1] {
		child, ok := parent[seg].(map[string]any)
		if !ok {
			child = map[string]any{}
			parent[seg] = child
		}
		parent = child
	}
	parent[segments[len(segments)-1]] = node
	return nil
}

func (t *Tree) remove(parent map[string]any, segments []string) {
	if len(segments) == 1 {
		delete(parent, segments[0])
		return
	}
	child, ok := parent[segments[0]].(map[string]any)
	if !ok {
		return
	}
	t.remove(child, segments[1:])
	if len(child) == 0 {
		delete(parent, segments[0])
	}
}
