package kv

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// File is a Store backed by a single JSON document on disk. Every Set
// rewrites the whole file, so readers never observe a partially written
// entry.
type File struct {
	mu     sync.RWMutex
	path   string
	values map[string]string
}

func NewFile(dataDir string) (*File, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	f := &File{
		path:   filepath.Join(dataDir, "kv.json"),
		values: map[string]string{},
	}
	if err := f.load(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			f.values = map[string]string{}
			return nil
		}
		return err
	}

	loaded := map[string]string{}
	if err := json.Unmarshal(b, &loaded); err != nil {
		return err
	}
	f.values = loaded
	return nil
}

func (f *File) saveLocked() error {
	b, err := json.MarshalIndent(f.values, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, b, 0o644)
}

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	v, ok := f.values[key]
	return v, ok, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, had := f.values[key]
	f.values[key] = value
	if err := f.saveLocked(); err != nil {
		// A failed Set must not take effect: readers keep seeing what
		// the file still holds.
		if had {
			f.values[key] = prev
		} else {
			delete(f.values, key)
		}
		return err
	}
	return nil
}
