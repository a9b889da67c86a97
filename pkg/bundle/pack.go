// Copyright 2026 Gptizer. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package bundle

import (
	"fmt"

	"github.com/gptizer/gptizer/pkg/errors"
)

// DefaultCapacity is the token budget per bundle when none is configured.
const DefaultCapacity = 4096

// OversizedFunc is called once for every item that alone exceeds capacity.
// index is the position of the bundle that holds it.
type OversizedFunc func(index int, item Item)

// Pack splits items into bundles of at most capacity tokens each.
//
// Items are taken strictly left to right: a bundle is closed as soon as the
// next item would push it over capacity, and earlier bundles are never
// revisited. An item larger than capacity is never dropped; it gets a bundle
// of its own. No items yields no bundles.
func Pack(items []Item, capacity int) ([]Bundle, error) {
	return PackWithObserver(items, capacity, nil)
}

// PackWithObserver is Pack with a callback for oversized singletons.
func PackWithObserver(items []Item, capacity int, onOversized OversizedFunc) ([]Bundle, error) {
	if capacity <= 0 {
		return nil, errors.ConfigError(fmt.Sprintf("capacity must be positive, got %d", capacity), nil)
	}

	var bundles []Bundle
	var current []Item
	currentTokens := 0

	closeCurrent := func() {
		b := Bundle{Items: current}
		if onOversized != nil && b.Oversized(capacity) {
			onOversized(len(bundles), b.Items[0])
		}
		bundles = append(bundles, b)
		current = nil
		currentTokens = 0
	}

	for _, item := range items {
		if len(current) > 0 && currentTokens+item.Tokens > capacity {
			closeCurrent()
		}
		current = append(current, item)
		currentTokens += item.Tokens
	}

	if len(current) > 0 {
		closeCurrent()
	}

	return bundles, nil
}
