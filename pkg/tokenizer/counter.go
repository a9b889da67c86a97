// Package tokenizer counts tokens the way the target model's tokenizer does.
//
// Everything downstream depends only on Counter, so tests can substitute a
// deterministic fake for the real tiktoken encoder.
package tokenizer

import (
	"fmt"
	"unicode/utf8"

	"github.com/gptizer/gptizer/pkg/cache"
	"github.com/gptizer/gptizer/pkg/config"
	"github.com/gptizer/gptizer/pkg/errors"
)

// DefaultCharsPerToken is the default character-to-token ratio.
// Approximately 4 characters equals 1 token for English text.
const DefaultCharsPerToken = 4.0

// Counter maps a text to its token count. It must be deterministic for
// identical input and safe for concurrent use.
type Counter interface {
	Count(text string) (int, error)
}

// Named is implemented by counters that can identify their encoding,
// which is what cache keys are scoped to.
type Named interface {
	Name() string
}

// NameOf returns c's name, or a generic one.
func NameOf(c Counter) string {
	if n, ok := c.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", c)
}

// Estimating uses a character-to-token ratio for estimation.
type Estimating struct {
	CharsPerToken float64
}

// NewEstimating creates an estimating counter.
// If charsPerToken is <= 0, the default ratio (4.0) is used.
func NewEstimating(charsPerToken float64) *Estimating {
	if charsPerToken <= 0 {
		charsPerToken = DefaultCharsPerToken
	}
	return &Estimating{CharsPerToken: charsPerToken}
}

// Count estimates the number of tokens in text, rounding to nearest.
func (e *Estimating) Count(text string) (int, error) {
	runes := utf8.RuneCountInString(text)
	return int(float64(runes)/e.CharsPerToken + 0.5), nil
}

// Name implements Named.
func (e *Estimating) Name() string {
	return fmt.Sprintf("estimate-%g", e.CharsPerToken)
}

// New builds the counter described by cfg. When cfg.Cache is set, counts
// are memoized on disk under cacheDir.
func New(cfg config.TokenizerConfig, cacheDir string) (Counter, error) {
	var c Counter
	switch cfg.Kind {
	case "estimate":
		c = NewEstimating(cfg.CharsPerToken)
	case "tiktoken", "":
		t, err := NewTiktoken(cfg.Encoding)
		if err != nil {
			return nil, err
		}
		c = t
	default:
		return nil, errors.ConfigError(fmt.Sprintf("unknown tokenizer kind %q", cfg.Kind), nil)
	}

	if !cfg.Cache {
		return c, nil
	}
	disk, err := cache.NewDiskCache(cacheDir)
	if err != nil {
		return nil, errors.ConfigError("open token cache", err).WithPath(cacheDir)
	}
	return NewCached(c, disk), nil
}
