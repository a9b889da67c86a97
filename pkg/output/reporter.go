// Copyright 2026 Gptizer. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/gptizer/gptizer/pkg/observability"
)

// NoFilesMessage is printed when the listing comes back empty.
const NoFilesMessage = "No files with supported extensions found in the specified directory."

// Reporter prints run results for a human.
type Reporter struct {
	out    io.Writer
	styled bool

	path  lipgloss.Style
	count lipgloss.Style
	warn  lipgloss.Style
	dim   lipgloss.Style
}

// NewReporter creates a Reporter. Output is styled only when out is a terminal.
func NewReporter(out io.Writer) *Reporter {
	styled := false
	if f, ok := out.(*os.File); ok {
		styled = term.IsTerminal(int(f.Fd()))
	}
	return newReporter(out, styled)
}

func newReporter(out io.Writer, styled bool) *Reporter {
	r := &Reporter{out: out, styled: styled}
	if styled {
		r.path = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
		r.count = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
		r.warn = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
		r.dim = lipgloss.NewStyle().Faint(true)
	}
	return r
}

func (r *Reporter) render(s lipgloss.Style, text string) string {
	if !r.styled {
		return text
	}
	return s.Render(text)
}

// Created reports one written bundle.
func (r *Reporter) Created(w Written) {
	fmt.Fprintf(r.out, "created %s with %s tokens.\n",
		r.render(r.path, w.Path),
		r.render(r.count, fmt.Sprint(w.Tokens)))
}

// Planned reports a bundle a dry run would have written.
func (r *Reporter) Planned(path string, tokens int) {
	fmt.Fprintf(r.out, "would create %s with %s tokens.\n",
		r.render(r.path, path),
		r.render(r.count, fmt.Sprint(tokens)))
}

// NoFiles reports an empty listing.
func (r *Reporter) NoFiles() {
	fmt.Fprintln(r.out, NoFilesMessage)
}

// Summary prints the run totals.
func (r *Reporter) Summary(s observability.Snapshot) {
	line := fmt.Sprintf("%d files, %s tokens, %d bundles, %s",
		s.Files, humanize.Comma(int64(s.Tokens)), s.Bundles, humanize.Bytes(uint64(s.Bytes)))
	if s.CacheHits+s.CacheMisses > 0 {
		line += fmt.Sprintf(", cache %d/%d", s.CacheHits, s.CacheHits+s.CacheMisses)
	}
	if s.Duration > 0 {
		line += fmt.Sprintf(" in %s", s.Duration.Round(1e6))
	}
	fmt.Fprintln(r.out, r.render(r.dim, line))

	if s.Oversized > 0 {
		fmt.Fprintln(r.out, r.render(r.warn,
			fmt.Sprintf("%d file(s) exceed the context length on their own and were written as single bundles.", s.Oversized)))
	}
}
