package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyboosters/backend/internal/store"
	"github.com/studyboosters/backend/internal/store/memtree"
)

type note struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
	Count int    `json:"count"`
}

func (n *note) SetKey(key string) { n.ID = key }

type flags struct {
	Enabled *bool  `json:"enabled"`
	Banner  string `json:"banner"`
}

// silentTree never completes any operation.
type silentTree struct{}

func (silentTree) Get(string, func(store.Snapshot, error))                         {}
func (silentTree) Push(string, json.RawMessage, func(string, error))               {}
func (silentTree) Set(string, json.RawMessage, func(error))                        {}
func (silentTree) Update(string, map[string]json.RawMessage, func(error))          {}
func (silentTree) Remove(string, func(error))                                      {}
func (silentTree) Transact(string, store.TransactFunc, func(json.RawMessage, error)) {}

func newNotes(t *testing.T) (*memtree.Tree, *store.Adapter, *store.Collection[note, *note]) {
	t.Helper()
	tree := memtree.New()
	adapter := store.NewAdapter(tree, "")
	return tree, adapter, store.NewCollection[note](adapter, "notes")
}

func setRaw(t *testing.T, tree store.Tree, path, value string) {
	t.Helper()
	errc := make(chan error, 1)
	tree.Set(path, json.RawMessage(value), func(err error) { errc <- err })
	require.NoError(t, <-errc)
}

func TestPushThenByID(t *testing.T) {
	_, adapter, notes := newNotes(t)
	ctx := context.Background()

	key, err := notes.Push(ctx, note{ID: "ignored", Title: "Notes1", Count: 3})
	require.NoError(t, err)
	require.NotEmpty(t, key)

	got, err := notes.ByID(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, key, got.ID)
	assert.Equal(t, "Notes1", got.Title)
	assert.Equal(t, 3, got.Count)

	raw, err := adapter.Raw(ctx, "notes/"+key)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"id"`)
}

func TestListAbsentCollectionIsEmpty(t *testing.T) {
	_, _, notes := newNotes(t)

	list, err := notes.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestListKeepsPushOrder(t *testing.T) {
	_, _, notes := newNotes(t)
	ctx := context.Background()

	var keys []string
	for _, title := range []string{"a", "b", "c", "d"} {
		key, err := notes.Push(ctx, note{Title: title})
		require.NoError(t, err)
		keys = append(keys, key)
	}

	list, err := notes.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	for i, n := range list {
		assert.Equal(t, keys[i], n.ID)
	}
	assert.Equal(t, "a", list[0].Title)
	assert.Equal(t, "d", list[3].Title)
}

func TestByIDMissing(t *testing.T) {
	_, _, notes := newNotes(t)

	_, err := notes.ByID(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteIsIdempotent(t *testing.T) {
	_, _, notes := newNotes(t)
	ctx := context.Background()

	key, err := notes.Push(ctx, note{Title: "x"})
	require.NoError(t, err)

	require.NoError(t, notes.Delete(ctx, key))
	require.NoError(t, notes.Delete(ctx, key))
	require.NoError(t, notes.Delete(ctx, "never-existed"))

	_, err = notes.ByID(ctx, key)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateMergesFields(t *testing.T) {
	_, _, notes := newNotes(t)
	ctx := context.Background()

	key, err := notes.Push(ctx, note{Title: "before", Count: 7})
	require.NoError(t, err)

	require.NoError(t, notes.Update(ctx, key, map[string]any{"title": "after"}))

	got, err := notes.ByID(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Title)
	assert.Equal(t, 7, got.Count)
}

func TestTransactIsAtomic(t *testing.T) {
	_, _, notes := newNotes(t)
	ctx := context.Background()

	key, err := notes.Push(ctx, note{Title: "counter"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := notes.Transact(ctx, key, func(n *note) error {
				n.Count++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := notes.ByID(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 50, got.Count)
}

func TestTransactMissingAndAbort(t *testing.T) {
	_, _, notes := newNotes(t)
	ctx := context.Background()

	_, err := notes.Transact(ctx, "missing", func(n *note) error { return nil })
	assert.ErrorIs(t, err, store.ErrNotFound)

	key, err := notes.Push(ctx, note{Title: "keep", Count: 1})
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = notes.Transact(ctx, key, func(n *note) error {
		n.Count = 99
		return boom
	})
	assert.Equal(t, boom, err)

	got, err := notes.ByID(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Count)
}

func TestValueGetSetTransact(t *testing.T) {
	tree := memtree.New()
	adapter := store.NewAdapter(tree, "")
	settings := store.NewValue[flags](adapter, "settings")
	ctx := context.Background()

	_, ok, err := settings.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	on := true
	require.NoError(t, settings.Set(ctx, flags{Enabled: &on, Banner: "hi"}))

	got, ok, err := settings.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, got.Enabled)
	assert.True(t, *got.Enabled)
	assert.Equal(t, "hi", got.Banner)

	flipped, err := settings.Transact(ctx, func(v *flags, exists bool) error {
		assert.True(t, exists)
		off := !*v.Enabled
		v.Enabled = &off
		return nil
	})
	require.NoError(t, err)
	assert.False(t, *flipped.Enabled)
	assert.Equal(t, "hi", flipped.Banner)
}

func TestDecodeError(t *testing.T) {
	tree, _, notes := newNotes(t)
	setRaw(t, tree, "study_boosters/notes/bad", `{"title": 5}`)

	_, err := notes.ByID(context.Background(), "bad")
	var decodeErr *store.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "bad", decodeErr.Key)

	_, err = notes.List(context.Background())
	assert.ErrorAs(t, err, &decodeErr)

	var storeErr *store.StoreError
	assert.False(t, errors.As(err, &storeErr))
}

func TestStoreError(t *testing.T) {
	tree, _, notes := newNotes(t)
	offline := errors.New("offline")
	tree.Fail(offline)

	_, err := notes.List(context.Background())
	var storeErr *store.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "get", storeErr.Op)
	assert.Equal(t, "study_boosters/notes", storeErr.Path)
	assert.ErrorIs(t, err, offline)

	_, err = notes.Push(context.Background(), note{Title: "x"})
	assert.ErrorIs(t, err, offline)

	tree.Fail(nil)
	_, err = notes.List(context.Background())
	assert.NoError(t, err)
}

func TestCancelledContext(t *testing.T) {
	adapter := store.NewAdapter(silentTree{}, "")
	notes := store.NewCollection[note](adapter, "notes")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := notes.List(ctx)
	var storeErr *store.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClear(t *testing.T) {
	_, adapter, notes := newNotes(t)
	ctx := context.Background()

	_, err := notes.Push(ctx, note{Title: "x"})
	require.NoError(t, err)

	require.NoError(t, adapter.Clear(ctx))

	list, err := notes.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSnapshotChildrenSkipsNulls(t *testing.T) {
	snap := store.NewSnapshot(json.RawMessage(`{"b": {"x": 1}, "a": null, "c": 2}`))
	children, err := snap.Children()
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "b", children[0].Key)
	assert.Equal(t, "c", children[1].Key)

	assert.False(t, store.NewSnapshot(json.RawMessage("null")).Exists)
	assert.Equal(t, "a/b/c", store.Join("a/", "", "/b", "c"))
}
