// Copyright 2026 Gptizer. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package bundle packs annotated source files into token-bounded bundles
// and frames each bundle with positional text.
package bundle

// Item is one annotated file ready for packing.
// Tokens must equal the counter's result on Text.
type Item struct {
	Path   string
	Text   string
	Tokens int
}

// Bundle is an ordered, non-empty run of items that fits the capacity,
// unless it is a single item that alone exceeds it.
type Bundle struct {
	Items []Item
}

// Tokens returns the summed token count of the bundle.
func (b Bundle) Tokens() int {
	total := 0
	for _, it := range b.Items {
		total += it.Tokens
	}
	return total
}

// Texts returns the member texts in order.
func (b Bundle) Texts() []string {
	texts := make([]string, len(b.Items))
	for i, it := range b.Items {
		texts[i] = it.Text
	}
	return texts
}

// Oversized reports whether b is a lone item larger than capacity.
func (b Bundle) Oversized(capacity int) bool {
	return len(b.Items) == 1 && b.Items[0].Tokens > capacity
}
