package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"
)

// DefaultRoot is the prefix every application path lives under.
const DefaultRoot = "study_boosters"

// Adapter turns the callback-driven Tree into blocking calls scoped to a root prefix.
// Each call issues exactly one tree operation and waits for its completion or
// for ctx to be cancelled. A context without deadline waits indefinitely.
type Adapter struct {
	tree Tree
	root string
}

func NewAdapter(tree Tree, root string) *Adapter {
	if root == "" {
		root = DefaultRoot
	}
	return &Adapter{tree: tree, root: root}
}

// Root returns the prefix under which all paths are resolved.
func (a *Adapter) Root() string {
	return a.root
}

func (a *Adapter) path(rel ...string) string {
	return Join(append([]string{a.root}, rel...)...)
}

type result[T any] struct {
	value T
	err   error
}

func await[T any](ctx context.Context, op, path string, issue func(done func(T, error))) (T, error) {
	var zero T
	start := time.Now()
	ch := make(chan result[T], 1)

	issue(func(v T, err error) {
		ch <- result[T]{value: v, err: err}
	})

	var r result[T]
	select {
	case r = <-ch:
	case <-ctx.Done():
		r = result[T]{err: ctx.Err()}
	}

	opDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if r.err == nil {
		opsTotal.WithLabelValues(op, "ok").Inc()
		return r.value, nil
	}

	var abort *abortError
	if errors.As(r.err, &abort) {
		opsTotal.WithLabelValues(op, "aborted").Inc()
		return zero, abort.err
	}

	opsTotal.WithLabelValues(op, "error").Inc()
	slog.Debug("store operation failed", "op", op, "path", path, "error", r.err)
	return zero, &StoreError{Op: op, Path: path, Err: r.err}
}

func awaitErr(ctx context.Context, op, path string, issue func(done func(error))) error {
	_, err := await(ctx, op, path, func(done func(struct{}, error)) {
		issue(func(err error) { done(struct{}{}, err) })
	})
	return err
}

func (a *Adapter) get(ctx context.Context, path string) (Snapshot, error) {
	return await(ctx, "get", path, func(done func(Snapshot, error)) {
		a.tree.Get(path, done)
	})
}

func (a *Adapter) push(ctx context.Context, path string, value json.RawMessage) (string, error) {
	return await(ctx, "push", path, func(done func(string, error)) {
		a.tree.Push(path, value, done)
	})
}

func (a *Adapter) set(ctx context.Context, path string, value json.RawMessage) error {
	return awaitErr(ctx, "set", path, func(done func(error)) {
		a.tree.Set(path, value, done)
	})
}

func (a *Adapter) update(ctx context.Context, path string, fields map[string]json.RawMessage) error {
	return awaitErr(ctx, "update", path, func(done func(error)) {
		a.tree.Update(path, fields, done)
	})
}

func (a *Adapter) remove(ctx context.Context, path string) error {
	return awaitErr(ctx, "remove", path, func(done func(error)) {
		a.tree.Remove(path, done)
	})
}

func (a *Adapter) transact(ctx context.Context, path string, fn TransactFunc) (json.RawMessage, error) {
	return await(ctx, "transact", path, func(done func(json.RawMessage, error)) {
		a.tree.Transact(path, func(current json.RawMessage) (json.RawMessage, error) {
			next, err := fn(current)
			if err != nil {
				return nil, &abortError{err: err}
			}
			return next, nil
		}, done)
	})
}

// Clear removes everything under the root. It is a maintenance operation and
// is not reachable from any request path.
func (a *Adapter) Clear(ctx context.Context) error {
	return a.remove(ctx, a.path())
}

// Raw returns the JSON stored at a path relative to the root, or nil when absent.
func (a *Adapter) Raw(ctx context.Context, rel string) (json.RawMessage, error) {
	snap, err := a.get(ctx, a.path(rel))
	if err != nil {
		return nil, err
	}
	if !snap.Exists {
		return nil, nil
	}
	return snap.Value, nil
}
