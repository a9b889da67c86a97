// Copyright 2026 Gptizer. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package bundle

import (
	"strconv"
	"strings"
)

// Placeholders understood by Messages.Next.
const (
	// IndexPlaceholder expands to the 1-based part number, e.g. "2".
	IndexPlaceholder = "{index}"
	// OrdinalPlaceholder expands to the English ordinal, e.g. "2nd".
	OrdinalPlaceholder = "{ordinal}"
)

// Messages are the positional announcements prepended to multi-part output.
type Messages struct {
	First string
	Next  string
	Last  string
}

// DefaultMessages returns the stock announcements.
func DefaultMessages() Messages {
	return Messages{
		First: "I will send you my codebase, and this is the first part",
		Next:  "This is the " + OrdinalPlaceholder + " part",
		Last:  "This is the last message",
	}
}

// Positional returns the announcement for bundle index of total,
// or "" when total is 1.
func (m Messages) Positional(index, total int) string {
	if total <= 1 {
		return ""
	}
	switch index {
	case 0:
		return m.First
	case total - 1:
		return m.Last
	default:
		n := index + 1
		return strings.NewReplacer(
			IndexPlaceholder, strconv.Itoa(n),
			OrdinalPlaceholder, Ordinal(n),
		).Replace(m.Next)
	}
}

// Ordinal formats n with its English suffix: 1st, 2nd, 3rd, 4th, 11th, 22nd.
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}

// Frame renders each bundle into its final text.
//
// Multi-part output gets a positional announcement on every bundle. The first
// bundle always carries tree right after the announcement, even when tree is
// empty. Segments are joined with a newline.
func Frame(bundles []Bundle, tree string, msgs Messages) []string {
	total := len(bundles)
	framed := make([]string, 0, total)

	for i, b := range bundles {
		segments := make([]string, 0, len(b.Items)+2)
		if total > 1 {
			segments = append(segments, msgs.Positional(i, total))
		}
		if i == 0 {
			segments = append(segments, tree)
		}
		segments = append(segments, b.Texts()...)
		framed = append(framed, strings.Join(segments, "\n"))
	}

	return framed
}
