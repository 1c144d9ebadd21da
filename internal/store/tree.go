package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Tree is an asynchronous hierarchical document store addressed by
// slash-separated paths. Every method returns immediately; the outcome is
// delivered exactly once to the completion callback, usually on another goroutine.
type Tree interface {
	Get(path string, done func(Snapshot, error))
	Push(path string, value json.RawMessage, done func(key string, err error))
	Set(path string, value json.RawMessage, done func(error))
	// Update merges fields into the node at path. Field names may themselves be paths.
	Update(path string, fields map[string]json.RawMessage, done func(error))
	Remove(path string, done func(error))
	// Transact runs an atomic read-modify-write on the node at path.
	Transact(path string, fn TransactFunc, done func(json.RawMessage, error))
}

// TransactFunc receives the current value (nil when absent) and returns the
// value to store. Returning nil removes the node; returning an error aborts.
type TransactFunc func(current json.RawMessage) (json.RawMessage, error)

// Snapshot is the value found at a path.
type Snapshot struct {
	Exists bool
	Value  json.RawMessage
}

// NewSnapshot builds a snapshot, treating empty and JSON null values as absent.
func NewSnapshot(value json.RawMessage) Snapshot {
	if IsNull(value) {
		return Snapshot{}
	}
	return Snapshot{Exists: true, Value: value}
}

// Child is one immediate child of an object node.
type Child struct {
	Key   string
	Value json.RawMessage
}

// Children splits an object snapshot into its children ordered by key.
func (s Snapshot) Children() ([]Child, error) {
	if !s.Exists {
		return nil, nil
	}

	var fields map[string]json.RawMessage
	err := json.Unmarshal(s.Value, &fields)
	if err != nil {
		return nil, fmt.Errorf("expected object: %w", err)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	children := make([]Child, 0, len(keys))
	for _, k := range keys {
		if IsNull(fields[k]) {
			continue
		}
		children = append(children, Child{Key: k, Value: fields[k]})
	}
	return children, nil
}

// IsNull reports whether raw holds no value.
func IsNull(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}

// Join builds a tree path from segments, skipping empty ones.
func Join(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

// Split breaks a tree path into its segments.
func Split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
