// Package config handles configuration loading and validation
package config

import (
	"fmt"
	"strings"

	"github.com/gptizer/gptizer/pkg/errors"
	"github.com/gptizer/gptizer/pkg/observability"
)

const (
	// MaxWorkers is the maximum allowed value for Global.Workers
	MaxWorkers = 256
)

var (
	tokenizerKinds = []string{"tiktoken", "estimate"}
	treeModes      = []string{"auto", "exec", "builtin", "none"}
)

// Validate validates the configuration. Every failure is an
// invalid configuration error; the pipeline must not run.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ConfigError("config is nil", nil)
	}

	if err := c.Bundle.Validate(); err != nil {
		return errors.ConfigError("bundle config", err)
	}
	if err := c.Messages.Validate(); err != nil {
		return errors.ConfigError("messages config", err)
	}
	if err := c.Files.Validate(); err != nil {
		return errors.ConfigError("files config", err)
	}
	if err := c.Tokenizer.Validate(); err != nil {
		return errors.ConfigError("tokenizer config", err)
	}
	if !oneOf(c.Tree.Mode, treeModes) {
		return errors.ConfigError("tree config", fmt.Errorf("mode must be one of %s, got %q", strings.Join(treeModes, ", "), c.Tree.Mode))
	}
	if err := c.Output.Validate(); err != nil {
		return errors.ConfigError("output config", err)
	}
	if c.Watch.Debounce < 0 {
		return errors.ConfigError("watch config", fmt.Errorf("debounce must not be negative"))
	}
	if err := c.Global.Validate(); err != nil {
		return errors.ConfigError("global config", err)
	}

	return nil
}

// Validate validates the bundle configuration
func (b *BundleConfig) Validate() error {
	if b.ContextLength <= 0 {
		return fmt.Errorf("context_length must be positive, got %d", b.ContextLength)
	}
	return nil
}

// Validate validates the messages configuration
func (m *MessagesConfig) Validate() error {
	if m.First == "" || m.Next == "" || m.Last == "" {
		return fmt.Errorf("first, next and last messages are required")
	}
	return nil
}

// Validate validates the files configuration
func (f *FilesConfig) Validate() error {
	if len(f.Extensions) == 0 {
		return fmt.Errorf("at least one extension is required")
	}
	for _, ext := range f.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	for _, dir := range f.IgnoredDirs {
		if strings.ContainsAny(dir, `/\`) {
			return fmt.Errorf("ignored_dirs entry %q must be a bare directory name", dir)
		}
	}
	return nil
}

// Validate validates the tokenizer configuration
func (t *TokenizerConfig) Validate() error {
	if !oneOf(t.Kind, tokenizerKinds) {
		return fmt.Errorf("kind must be one of %s, got %q", strings.Join(tokenizerKinds, ", "), t.Kind)
	}
	if t.Kind == "tiktoken" && t.Encoding == "" {
		return fmt.Errorf("encoding is required for the tiktoken counter")
	}
	if t.CharsPerToken < 0 {
		return fmt.Errorf("chars_per_token must not be negative")
	}
	return nil
}

// Validate validates the output configuration
func (o *OutputConfig) Validate() error {
	if o.Dir == "" {
		return fmt.Errorf("dir is required")
	}
	if o.Prefix == "" || strings.ContainsAny(o.Prefix, `/\`) {
		return fmt.Errorf("prefix must be a non-empty file name, got %q", o.Prefix)
	}
	return nil
}

// Validate validates the global configuration
func (g *GlobalConfig) Validate() error {
	if !observability.ValidLevel(g.LogLevel) {
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", g.LogLevel)
	}
	if g.Workers < 1 || g.Workers > MaxWorkers {
		return fmt.Errorf("workers must be between 1 and %d, got %d", MaxWorkers, g.Workers)
	}
	return nil
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
