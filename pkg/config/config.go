// Copyright 2026 Gptizer. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package config provides configuration management for gptizer.
//
// Configuration Loading Order (later overrides earlier):
// 1. Defaults (hardcoded)
// 2. Global Config: $HOME/.gptizer/config.yaml
// 3. Project Config: <root>/.gptizer.yaml or <root>/.gptizer.toml
// 4. Explicit Config: --config <file>
// 5. Environment Variables: GPTIZER_*
// 6. Command-line flags
//
// A Config is treated as immutable once Validate has passed.
package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/gptizer/gptizer/pkg/bundle"
)

// Config represents the complete application configuration.
type Config struct {
	Bundle    BundleConfig    `yaml:"bundle" toml:"bundle" json:"bundle"`
	Messages  MessagesConfig  `yaml:"messages" toml:"messages" json:"messages"`
	Files     FilesConfig     `yaml:"files" toml:"files" json:"files"`
	Tokenizer TokenizerConfig `yaml:"tokenizer" toml:"tokenizer" json:"tokenizer"`
	Tree      TreeConfig      `yaml:"tree" toml:"tree" json:"tree"`
	Output    OutputConfig    `yaml:"output" toml:"output" json:"output"`
	Watch     WatchConfig     `yaml:"watch" toml:"watch" json:"watch"`
	Global    GlobalConfig    `yaml:"global" toml:"global" json:"global"`
}

// BundleConfig controls packing and annotation.
type BundleConfig struct {
	ContextLength int    `yaml:"context_length" toml:"context_length" json:"context_length" jsonschema:"minimum=1,description=Maximum tokens per output file"`
	CommentPrefix string `yaml:"comment_prefix" toml:"comment_prefix" json:"comment_prefix" jsonschema:"description=Comment marker written before each file path"`
}

// MessagesConfig holds the positional announcements.
// Next may use {index} (2) or {ordinal} (2nd).
type MessagesConfig struct {
	First string `yaml:"first" toml:"first" json:"first"`
	Next  string `yaml:"next" toml:"next" json:"next"`
	Last  string `yaml:"last" toml:"last" json:"last"`
}

// FilesConfig controls which files are bundled.
type FilesConfig struct {
	Extensions  []string `yaml:"extensions" toml:"extensions" json:"extensions" jsonschema:"description=File extensions to include with leading dot"`
	IgnoredDirs []string `yaml:"ignored_dirs" toml:"ignored_dirs" json:"ignored_dirs" jsonschema:"description=Directory names skipped at any depth"`
	Exclude     []string `yaml:"exclude" toml:"exclude" json:"exclude,omitempty" jsonschema:"description=Extra glob or prefix patterns to skip"`
	SkipHidden  bool     `yaml:"skip_hidden" toml:"skip_hidden" json:"skip_hidden"`
}

// TokenizerConfig selects the token counter.
type TokenizerConfig struct {
	Kind          string  `yaml:"kind" toml:"kind" json:"kind" jsonschema:"enum=tiktoken,enum=estimate"`
	Encoding      string  `yaml:"encoding" toml:"encoding" json:"encoding" jsonschema:"description=tiktoken encoding name"`
	CharsPerToken float64 `yaml:"chars_per_token" toml:"chars_per_token" json:"chars_per_token" jsonschema:"description=Ratio used by the estimate counter"`
	Cache         bool    `yaml:"cache" toml:"cache" json:"cache" jsonschema:"description=Cache token counts on disk between runs"`
}

// TreeConfig selects how the directory tree is rendered.
type TreeConfig struct {
	Mode string `yaml:"mode" toml:"mode" json:"mode" jsonschema:"enum=auto,enum=exec,enum=builtin,enum=none"`
}

// OutputConfig controls where bundles are written.
type OutputConfig struct {
	Dir    string `yaml:"dir" toml:"dir" json:"dir" jsonschema:"description=Output directory relative to the source root unless absolute"`
	Prefix string `yaml:"prefix" toml:"prefix" json:"prefix"`
	Clean  bool   `yaml:"clean" toml:"clean" json:"clean" jsonschema:"description=Remove stale numbered files from earlier runs"`
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" toml:"debounce" json:"debounce"`
}

// GlobalConfig contains global application settings.
type GlobalConfig struct {
	LogLevel string `yaml:"log_level" toml:"log_level" json:"log_level" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"` // debug, info, warn, error
	Workers  int    `yaml:"workers" toml:"workers" json:"workers" jsonschema:"minimum=1"`
	CacheDir string `yaml:"cache_dir" toml:"cache_dir" json:"cache_dir"`
}

// BundleMessages converts the messages section for the framer.
func (c *Config) BundleMessages() bundle.Messages {
	return bundle.Messages{
		First: c.Messages.First,
		Next:  c.Messages.Next,
		Last:  c.Messages.Last,
	}
}

// OutputDirFor resolves the output directory for a source root. A relative
// output.dir is taken relative to root.
func (c *Config) OutputDirFor(root string) string {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		absRoot = root
	}
	if filepath.IsAbs(c.Output.Dir) {
		return filepath.Clean(c.Output.Dir)
	}
	return filepath.Join(absRoot, c.Output.Dir)
}

// TreeIgnore returns the directory names the tree renderer leaves out: the
// ignored dirs plus the output directory when it lives under root.
func (c *Config) TreeIgnore(root string) []string {
	ignore := append([]string(nil), c.Files.IgnoredDirs...)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return ignore
	}
	out := c.OutputDirFor(absRoot)
	rel, err := filepath.Rel(absRoot, out)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ignore
	}

	name := filepath.Base(out)
	for _, dir := range ignore {
		if dir == name {
			return ignore
		}
	}
	return append(ignore, name)
}
