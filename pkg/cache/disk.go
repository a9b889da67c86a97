// Copyright 2026 Gptizer. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DiskCache is a disk-based cache. Each entry is a small JSON file under
// path, fanned out by the first two characters of the key's hash part.
type DiskCache struct {
	path string
}

// NewDiskCache creates a new disk cache rooted at path.
func NewDiskCache(path string) (*DiskCache, error) {
	if path == "" {
		return nil, fmt.Errorf("disk cache path is empty")
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &DiskCache{
		path: path,
	}, nil
}

// Path returns the cache directory.
func (d *DiskCache) Path() string {
	return d.path
}

func (d *DiskCache) file(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid cache key %q", key)
	}
	shard := key
	if i := strings.LastIndexByte(key, '-'); i >= 0 && i+1 < len(key) {
		shard = key[i+1:]
	}
	if len(shard) > 2 {
		shard = shard[:2]
	}
	return filepath.Join(d.path, shard, key+".json"), nil
}

// Get retrieves a value from disk cache.
func (d *DiskCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := d.file(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		// Corrupt entries behave like misses and get rewritten.
		_ = os.Remove(p)
		return nil, ErrCacheMiss
	}
	if entry.Expired(time.Now()) {
		_ = os.Remove(p)
		return nil, ErrCacheMiss
	}
	return entry.Value, nil
}

// Set stores a value in disk cache.
func (d *DiskCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := d.file(key)
	if err != nil {
		return err
	}

	data, err := json.Marshal(&Entry{Key: key, Value: value, ExpiresAt: expiry(ttl)})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), ".entry-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), p)
}

// Delete removes a value from disk cache.
func (d *DiskCache) Delete(ctx context.Context, key string) error {
	p, err := d.file(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Clear removes all entries from disk cache.
func (d *DiskCache) Clear(ctx context.Context) error {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := os.RemoveAll(filepath.Join(d.path, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
