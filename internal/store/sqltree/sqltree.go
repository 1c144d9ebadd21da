// Package sqltree stores a document tree in a SQL table of leaf values.
// Objects are flattened so every scalar or array lives in its own row keyed by
// its full path; reads reassemble the requested subtree.
package sqltree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/studyboosters/backend/internal/store"
)

type node struct {
	Path  string `db:"path"`
	Value string `db:"value"`
}

type Tree struct {
	db *sqlx.DB
	// mu serializes writers within the process.
	mu sync.Mutex
}

func New(db *sqlx.DB) *Tree {
	return &Tree{db: db}
}

func (t *Tree) Get(path string, done func(store.Snapshot, error)) {
	go func() {
		raw, err := read(t.db, path)
		done(store.NewSnapshot(raw), err)
	}()
}

func (t *Tree) Push(path string, value json.RawMessage, done func(string, error)) {
	go func() {
		id, err := uuid.NewV7()
		if err != nil {
			done("", err)
			return
		}
		key := id.String()
		err = t.inTx(func(tx *sqlx.Tx) error {
			return write(tx, store.Join(path, key), value)
		})
		if err != nil {
			done("", err)
			return
		}
		done(key, nil)
	}()
}

func (t *Tree) Set(path string, value json.RawMessage, done func(error)) {
	go func() {
		done(t.inTx(func(tx *sqlx.Tx) error {
			return write(tx, path, value)
		}))
	}()
}

func (t *Tree) Update(path string, fields map[string]json.RawMessage, done func(error)) {
	go func() {
		done(t.inTx(func(tx *sqlx.Tx) error {
			for name, value := range fields {
				err := write(tx, store.Join(path, name), value)
				if err != nil {
					return err
				}
			}
			return nil
		}))
	}()
}

func (t *Tree) Remove(path string, done func(error)) {
	go func() {
		done(t.inTx(func(tx *sqlx.Tx) error {
			return write(tx, path, nil)
		}))
	}()
}

func (t *Tree) Transact(path string, fn store.TransactFunc, done func(json.RawMessage, error)) {
	go func() {
		var stored json.RawMessage
		err := t.inTx(func(tx *sqlx.Tx) error {
			current, err := read(tx, path)
			if err != nil {
				return err
			}
			next, err := fn(current)
			if err != nil {
				return err
			}
			err = write(tx, path, next)
			if err != nil {
				return err
			}
			stored, err = read(tx, path)
			return err
		})
		if err != nil {
			done(nil, err)
			return
		}
		done(stored, nil)
	}()
}

func (t *Tree) inTx(fn func(tx *sqlx.Tx) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	tx, err := t.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	err = fn(tx)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// read assembles the subtree at path, returning nil when nothing is stored.
func read(q sqlx.Queryer, path string) (json.RawMessage, error) {
	path = strings.Trim(path, "/")

	var rows []node
	var err error
	if path == "" {
		err = sqlx.Select(q, &rows, `SELECT path, value FROM nodes ORDER BY path`)
	} else {
		err = sqlx.Select(q, &rows,
			`SELECT path, value FROM nodes WHERE path = $1 OR substr(path, 1, length($2)) = $2 ORDER BY path`,
			path, path+"/")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	root := map[string]any{}
	for _, row := range rows {
		rel := strings.Trim(strings.TrimPrefix(row.Path, path), "/")
		if rel == "" {
			return json.RawMessage(row.Value), nil
		}
		insert(root, store.Split(rel), json.RawMessage(row.Value))
	}
	return json.Marshal(root)
}

func insert(obj map[string]any, segments []string, leaf json.RawMessage) {
	for _, seg := range segments[:len(segments)-1] {
		child, ok := obj[seg].(map[string]any)
		if !ok {
			child = map[string]any{}
			obj[seg] = child
		}
		obj = child
	}
	obj[segments[len(segments)-1]] = leaf
}

// write replaces the subtree at path with value. A nil or null value removes it.
func write(e sqlx.Execer, path string, value json.RawMessage) error {
	path = strings.Trim(path, "/")

	var err error
	if path == "" {
		_, err = e.Exec(`DELETE FROM nodes`)
	} else {
		_, err = e.Exec(`DELETE FROM nodes WHERE path = $1 OR substr(path, 1, length($2)) = $2`, path, path+"/")
	}
	if err != nil {
		return fmt.Errorf("failed to clear %q: %w", path, err)
	}

	// A leaf stored at an ancestor would shadow the new subtree.
	segments := store.Split(path)
	for i := 1; i < len(segments); i++ {
		_, err = e.Exec(`DELETE FROM nodes WHERE path = $1`, strings.Join(segments[:i], "/"))
		if err != nil {
			return fmt.Errorf("failed to clear ancestor of %q: %w", path, err)
		}
	}

	if store.IsNull(value) {
		return nil
	}

	leaves, err := flatten(path, value)
	if err != nil {
		return err
	}
	if path == "" {
		for _, leaf := range leaves {
			if leaf.Path == "" {
				return fmt.Errorf("root must be an object")
			}
		}
	}

	for _, leaf := range leaves {
		_, err = e.Exec(`INSERT INTO nodes (path, value) VALUES ($1, $2)`, leaf.Path, leaf.Value)
		if err != nil {
			return fmt.Errorf("failed to write %q: %w", leaf.Path, err)
		}
	}
	return nil
}

func flatten(path string, value json.RawMessage) ([]node, error) {
	dec := json.NewDecoder(bytes.NewReader(value))
	dec.UseNumber()
	var decoded any
	err := dec.Decode(&decoded)
	if err != nil {
		return nil, fmt.Errorf("invalid value at %q: %w", path, err)
	}

	var leaves []node
	err = collect(path, decoded, &leaves)
	return leaves, err
}

func collect(path string, value any, leaves *[]node) error {
	obj, ok := value.(map[string]any)
	if !ok {
		if value == nil {
			return nil
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return err
		}
		*leaves = append(*leaves, node{Path: path, Value: string(raw)})
		return nil
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		err := collect(store.Join(path, k), obj[k], leaves)
		if err != nil {
			return err
		}
	}
	return nil
}
