// Copyright 2026 Gptizer. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/gptizer/gptizer/pkg/bundle"
)

// DefaultConfig returns the default configuration.
// These values are used when no config file is present.
func DefaultConfig() *Config {
	msgs := bundle.DefaultMessages()

	return &Config{
		Bundle: BundleConfig{
			ContextLength: bundle.DefaultCapacity,
			CommentPrefix: "//",
		},
		Messages: MessagesConfig{
			First: msgs.First,
			Next:  msgs.Next,
			Last:  msgs.Last,
		},
		Files: FilesConfig{
			Extensions:  DefaultExtensions(),
			IgnoredDirs: DefaultIgnoredDirs(),
			SkipHidden:  true,
		},
		Tokenizer: TokenizerConfig{
			Kind:          "tiktoken",
			Encoding:      "cl100k_base",
			CharsPerToken: 4.0,
			Cache:         false,
		},
		Tree: TreeConfig{
			Mode: "auto",
		},
		Output: OutputConfig{
			Dir:    "gptizer_op",
			Prefix: "op",
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
		Global: GlobalConfig{
			LogLevel: "info",
			Workers:  runtime.NumCPU(),
			CacheDir: GetDefaultCachePath(),
		},
	}
}

// DefaultExtensions returns the file extensions bundled by default.
func DefaultExtensions() []string {
	return []string{
		".js", ".ts", ".tsx", ".jsx", ".py", ".json", ".env", ".go",
		".java", ".rb", ".php", ".c", ".cpp", ".cs", ".swift", ".kt",
		".m", ".scala", ".rs", ".sh", ".bat", ".pl", ".ps1", ".erl",
		".exs", ".r", ".sql", ".md", ".txt",
	}
}

// DefaultIgnoredDirs returns directory names skipped by default.
func DefaultIgnoredDirs() []string {
	return []string{"node_modules", "dist", "build", ".venv", "venv", ".git"}
}

// GetDefaultCachePath returns the default cache directory path.
func GetDefaultCachePath() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "gptizer")
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, GlobalConfigDir, "cache")
}

// GetDefaultConfigPath returns the default global config file path.
func GetDefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, GlobalConfigDir, GlobalConfigFile)
}
