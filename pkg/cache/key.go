// Copyright 2026 Gptizer. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package cache

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// KeyGenerator generates cache keys.
type KeyGenerator struct {
	prefix string
}

// NewKeyGenerator creates a new key generator.
func NewKeyGenerator(prefix string) *KeyGenerator {
	if prefix == "" {
		prefix = "gptizer"
	}
	return &KeyGenerator{
		prefix: prefix,
	}
}

// Generate generates a cache key from inputs.
// Inputs are length-delimited so ("ab","c") and ("a","bc") differ.
func (kg *KeyGenerator) Generate(inputs ...string) string {
	h := blake3.New()
	var size [8]byte
	for _, input := range inputs {
		binary.LittleEndian.PutUint64(size[:], uint64(len(input)))
		_, _ = h.Write(size[:])
		_, _ = h.Write([]byte(input))
	}
	return kg.prefix + "-" + hex.EncodeToString(h.Sum(nil))
}

// GenerateForText generates a key for a token count of text under encoding.
func (kg *KeyGenerator) GenerateForText(encoding, text string) string {
	return kg.Generate(encoding, text)
}

// CacheError represents a cache error.
type CacheError struct {
	Code string
}

func (e *CacheError) Error() string {
	return e.Code
}

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = &CacheError{Code: "CACHE_MISS"}
