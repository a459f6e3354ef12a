package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is returned by Get when the key has no stored value.
var ErrNotFound = errors.New("key not found")

// Provider is a durable string key-value store. Each Set is atomic for its key;
// there are no multi-key transactions.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Key-value
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	ListKeys(ctx context.Context) ([]string, error)
	Clear(ctx context.Context) error

	// Utils
	GetConfigPath() string
}

// GetJSON decodes the value stored at key into v.
// It returns ErrNotFound (wrapped) when the key is missing.
func GetJSON(ctx context.Context, p Provider, key string, v any) error {
	raw, err := p.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return nil
}

// SetJSON encodes v and stores it at key.
func SetJSON(ctx context.Context, p Provider, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", key, err)
	}
	return p.Set(ctx, key, string(data))
}

// KeysWithPrefix lists the stored keys starting with prefix, sorted ascending.
func KeysWithPrefix(ctx context.Context, p Provider, prefix string) ([]string, error) {
	keys, err := p.ListKeys(ctx)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, k := range keys {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Migrator is implemented by the SQL-backed providers.
type Migrator interface {
	Migrate(logFn func(string)) (int, error)
	SchemaVersion() (current, latest int, err error)
}

// Copy writes every key of src into dst and returns how many were copied.
func Copy(ctx context.Context, dst, src Provider) (int, error) {
	keys, err := src.ListKeys(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list source keys: %w", err)
	}
	for i, k := range keys {
		v, err := src.Get(ctx, k)
		if err != nil {
			return i, fmt.Errorf("failed to read %s: %w", k, err)
		}
		if err := dst.Set(ctx, k, v); err != nil {
			return i, err
		}
	}
	return len(keys), nil
}
