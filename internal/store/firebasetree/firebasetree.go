// Package firebasetree is a store.Tree backed by the Firebase Realtime Database.
package firebasetree

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"github.com/studyboosters/backend/internal/store"
	"google.golang.org/api/option"
)

const defaultTimeout = 30 * time.Second

type Config struct {
	DatabaseURL     string
	CredentialsFile string
	Timeout         time.Duration
}

type Tree struct {
	client  *db.Client
	timeout time.Duration
}

// New connects to the database. Credentials fall back to the application
// default credentials when no file is configured.
func New(ctx context.Context, cfg Config) (*Tree, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{DatabaseURL: cfg.DatabaseURL}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize realtime database client: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	slog.Info("firebase realtime database connected", "url", cfg.DatabaseURL)
	return &Tree{client: client, timeout: timeout}, nil
}

func (t *Tree) run(fn func(ctx context.Context)) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		defer cancel()
		fn(ctx)
	}()
}

func (t *Tree) Get(path string, done func(store.Snapshot, error)) {
	t.run(func(ctx context.Context) {
		var raw json.RawMessage
		err := t.client.NewRef(path).Get(ctx, &raw)
		if err != nil {
			done(store.Snapshot{}, err)
			return
		}
		done(store.NewSnapshot(raw), nil)
	})
}

func (t *Tree) Push(path string, value json.RawMessage, done func(string, error)) {
	t.run(func(ctx context.Context) {
		ref, err := t.client.NewRef(path).Push(ctx, value)
		if err != nil {
			done("", err)
			return
		}
		done(ref.Key, nil)
	})
}

func (t *Tree) Set(path string, value json.RawMessage, done func(error)) {
	t.run(func(ctx context.Context) {
		if store.IsNull(value) {
			done(t.client.NewRef(path).Delete(ctx))
			return
		}
		done(t.client.NewRef(path).Set(ctx, value))
	})
}

func (t *Tree) Update(path string, fields map[string]json.RawMessage, done func(error)) {
	t.run(func(ctx context.Context) {
		patch := make(map[string]any, len(fields))
		for name, value := range fields {
			patch[name] = value
		}
		done(t.client.NewRef(path).Update(ctx, patch))
	})
}

func (t *Tree) Remove(path string, done func(error)) {
	t.run(func(ctx context.Context) {
		done(t.client.NewRef(path).Delete(ctx))
	})
}

// Transact uses the database's compare-and-set transaction. fn may run more
// than once when the node changes concurrently; the last result is the one stored.
func (t *Tree) Transact(path string, fn store.TransactFunc, done func(json.RawMessage, error)) {
	t.run(func(ctx context.Context) {
		var stored json.RawMessage
		err := t.client.NewRef(path).Transaction(ctx, func(node db.TransactionNode) (any, error) {
			var current json.RawMessage
			err := node.Unmarshal(&current)
			if err != nil {
				return nil, err
			}
			next, err := fn(current)
			if err != nil {
				return nil, err
			}
			stored = next
			if store.IsNull(next) {
				return nil, nil
			}
			return next, nil
		})
		if err != nil {
			done(nil, err)
			return
		}
		done(stored, nil)
	})
}
