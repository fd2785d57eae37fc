// Package session provides the session-scoped key/value stores that back the
// repository cache. Every backend replaces values wholesale on Set.
package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("session: key not found")

// Store is a minimal byte-oriented key/value store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend enumerates supported session stores.
type Backend string

const (
	// BackendMemory keeps values in-process; they vanish when the process exits.
	BackendMemory Backend = "memory"
	// BackendFile keeps one file per key under a per-user cache directory.
	BackendFile Backend = "file"
	// BackendRedis keeps values in Redis/KeyDB.
	BackendRedis Backend = "redis"
	// BackendBolt keeps values in a BoltDB file.
	BackendBolt Backend = "bolt"
)

// Config selects and configures a backend.
type Config struct {
	Backend  Backend     `yaml:"backend"`
	Dir      string      `yaml:"dir"`
	BoltPath string      `yaml:"bolt_path"`
	Redis    RedisConfig `yaml:"redis"`
}

// Open returns the store selected by cfg.Backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch Backend(strings.ToLower(string(cfg.Backend))) {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile, "":
		fs, err := NewFileStore(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return fs, nil
	case BackendRedis:
		return NewRedisStore(ctx, cfg.Redis)
	case BackendBolt:
		path := cfg.BoltPath
		if path == "" {
			dir, err := resolveDir(cfg.Dir)
			if err != nil {
				return nil, err
			}
			path = filepath.Join(dir, "session.db")
		}
		bs, err := NewBoltStore(path)
		if err != nil {
			return nil, err
		}
		return bs, nil
	default:
		return nil, fmt.Errorf("unknown session backend: %s", cfg.Backend)
	}
}
