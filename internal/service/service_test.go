package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/studyboosters/backend/internal/model"
	"github.com/studyboosters/backend/internal/store"
	"github.com/studyboosters/backend/internal/store/memtree"
)

type testServices struct {
	tree     *memtree.Tree
	adapter  *store.Adapter
	activity *ActivityLogService
	settings *SettingsService
	tokens   *TokenService
	auth     *AuthService
	files    *FileService
	subjects *SubjectService
	doubts   *DoubtService
	mentors  *MentorService
}

func newTestServices(t *testing.T, payloads ...*memStorage) *testServices {
	t.Helper()

	tree := memtree.New()
	adapter := store.NewAdapter(tree, "")
	activity := NewActivityLogService(adapter)
	settings := NewSettingsService(adapter, activity)
	tokens := NewTokenService("test-secret", time.Hour, false)

	svc := &testServices{
		tree:     tree,
		adapter:  adapter,
		activity: activity,
		settings: settings,
		tokens:   tokens,
		auth:     NewAuthService(adapter, activity, tokens),
		subjects: NewSubjectService(adapter, activity),
		doubts:   NewDoubtService(adapter, activity),
		mentors:  NewMentorService(adapter, activity),
	}
	if len(payloads) > 0 {
		svc.files = NewFileService(adapter, activity, settings, payloads[0])
	} else {
		svc.files = NewFileService(adapter, activity, settings, nil)
	}
	return svc
}

func (s *testServices) logs(t *testing.T) []model.ActivityLog {
	t.Helper()
	logs, err := s.activity.List(context.Background())
	require.NoError(t, err)
	return logs
}

func (s *testServices) lastLog(t *testing.T) model.ActivityLog {
	t.Helper()
	logs := s.logs(t)
	require.NotEmpty(t, logs)
	return logs[len(logs)-1]
}

func (s *testServices) setRaw(t *testing.T, path, value string) {
	t.Helper()
	errc := make(chan error, 1)
	s.tree.Set(store.Join(store.DefaultRoot, path), json.RawMessage(value), func(err error) { errc <- err })
	require.NoError(t, <-errc)
}

func fixedClock(ts string) func() time.Time {
	return func() time.Time {
		t, err := time.ParseInLocation(model.TimestampLayout, ts, time.Local)
		if err != nil {
			panic(err)
		}
		return t
	}
}

// memStorage is an in-memory payload store.
type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}}
}

func (m *memStorage) Save(_ context.Context, key string, body io.Reader, _ string) error {
	var buf bytes.Buffer
	_, err := io.Copy(&buf, body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = buf.Bytes()
	return nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memStorage) URL(_ context.Context, key string) (string, error) {
	return fmt.Sprintf("https://objects.test/%s?signed=1", key), nil
}

func (m *memStorage) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}
