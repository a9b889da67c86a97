// Copyright 2026 Gptizer. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/gptizer/gptizer/pkg/errors"
)

const (
	// EnvPrefix is the prefix for all environment variables.
	EnvPrefix = "GPTIZER"
	// GlobalConfigDir is the global config directory name.
	GlobalConfigDir = ".gptizer"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
)

// projectConfigFiles are looked up in the source root, first match wins.
var projectConfigFiles = []string{
	".gptizer.yaml",
	".gptizer.yml",
	".gptizer.toml",
}

// Loader loads configuration from files and environment.
type Loader struct {
	projectRoot string
	explicit    string
	skipGlobal  bool
	getenv      func(string) string
}

// NewLoader creates a new config loader.
func NewLoader() *Loader {
	return &Loader{getenv: os.Getenv}
}

// WithProjectRoot sets the project root directory.
func (l *Loader) WithProjectRoot(root string) *Loader {
	l.projectRoot = root
	return l
}

// WithConfigFile adds an explicit config file applied after the project file.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.explicit = path
	return l
}

// WithEnv replaces the environment lookup, for tests.
func (l *Loader) WithEnv(getenv func(string) string) *Loader {
	l.getenv = getenv
	return l
}

// SkipGlobal skips loading global config.
func (l *Loader) SkipGlobal() *Loader {
	l.skipGlobal = true
	return l
}

// Load loads configuration with full precedence order:
// 1. Defaults
// 2. Global Config ($HOME/.gptizer/config.yaml)
// 3. Project Config (<root>/.gptizer.{yaml,yml,toml})
// 4. Explicit Config (WithConfigFile)
// 5. Environment Variables (GPTIZER_*)
//
// Missing optional files are skipped; malformed ones are errors.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if !l.skipGlobal {
		if err := l.applyOptional(cfg, GetDefaultConfigPath()); err != nil {
			return nil, err
		}
	}

	if path := l.projectConfigPath(); path != "" {
		if err := l.applyOptional(cfg, path); err != nil {
			return nil, err
		}
	}

	if l.explicit != "" {
		if err := decodeFile(cfg, l.explicit); err != nil {
			return nil, err
		}
	}

	if err := l.applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path on top of defaults.
func (l *Loader) LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := decodeFile(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) applyOptional(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return decodeFile(cfg, path)
}

// projectConfigPath returns the first project config file present in the root.
func (l *Loader) projectConfigPath() string {
	root := l.projectRoot
	if root == "" {
		root = "."
	}
	for _, name := range projectConfigFiles {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// decodeFile decodes path onto cfg, so keys absent from the file keep
// their current values. The format is chosen by extension.
func decodeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.ConfigError("failed to read config file", err).WithPath(path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return errors.ConfigError("failed to parse config file", err).WithPath(path)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return errors.ConfigError("failed to parse config file", err).WithPath(path)
		}
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
// Format: GPTIZER_SECTION__KEY=value, lists are comma separated.
func (l *Loader) applyEnvOverrides(cfg *Config) error {
	str := func(key string, dst *string) {
		if v := l.getenv(EnvPrefix + "_" + key); v != "" {
			*dst = v
		}
	}
	list := func(key string, dst *[]string) {
		if v := l.getenv(EnvPrefix + "_" + key); v != "" {
			*dst = splitList(v)
		}
	}
	integer := func(key string, dst *int) error {
		v := l.getenv(EnvPrefix + "_" + key)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.ConfigError(fmt.Sprintf("invalid integer in %s_%s", EnvPrefix, key), err)
		}
		*dst = n
		return nil
	}
	boolean := func(key string, dst *bool) error {
		v := l.getenv(EnvPrefix + "_" + key)
		if v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.ConfigError(fmt.Sprintf("invalid boolean in %s_%s", EnvPrefix, key), err)
		}
		*dst = b
		return nil
	}

	if err := integer("BUNDLE__CONTEXT_LENGTH", &cfg.Bundle.ContextLength); err != nil {
		return err
	}
	str("BUNDLE__COMMENT_PREFIX", &cfg.Bundle.CommentPrefix)

	list("FILES__EXTENSIONS", &cfg.Files.Extensions)
	list("FILES__IGNORED_DIRS", &cfg.Files.IgnoredDirs)
	list("FILES__EXCLUDE", &cfg.Files.Exclude)
	if err := boolean("FILES__SKIP_HIDDEN", &cfg.Files.SkipHidden); err != nil {
		return err
	}

	str("TOKENIZER__KIND", &cfg.Tokenizer.Kind)
	str("TOKENIZER__ENCODING", &cfg.Tokenizer.Encoding)
	if err := boolean("TOKENIZER__CACHE", &cfg.Tokenizer.Cache); err != nil {
		return err
	}

	str("TREE__MODE", &cfg.Tree.Mode)
	str("OUTPUT__DIR", &cfg.Output.Dir)
	str("OUTPUT__PREFIX", &cfg.Output.Prefix)

	if v := l.getenv(EnvPrefix + "_WATCH__DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.ConfigError("invalid duration in "+EnvPrefix+"_WATCH__DEBOUNCE", err)
		}
		cfg.Watch.Debounce = d
	}

	str("GLOBAL__LOG_LEVEL", &cfg.Global.LogLevel)
	str("GLOBAL__CACHE_DIR", &cfg.Global.CacheDir)
	return integer("GLOBAL__WORKERS", &cfg.Global.Workers)
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// GetEnvConfig returns all environment variables that start with GPTIZER_.
func GetEnvConfig() map[string]string {
	result := make(map[string]string)

	for _, env := range os.Environ() {
		if strings.HasPrefix(env, EnvPrefix+"_") {
			kv := strings.SplitN(env, "=", 2)
			if len(kv) == 2 {
				result[kv[0]] = kv[1]
			}
		}
	}

	return result
}
