package tokenizer

import (
	"context"
	"strconv"

	"github.com/gptizer/gptizer/pkg/cache"
)

// Cached memoizes another counter's results in a cache.Cache.
type Cached struct {
	inner Counter
	store cache.Cache
	keys  *cache.KeyGenerator
	name  string
	onHit func(hit bool)
	onErr func(err error)
}

// NewCached wraps inner with store.
func NewCached(inner Counter, store cache.Cache) *Cached {
	return &Cached{
		inner: inner,
		store: store,
		keys:  cache.NewKeyGenerator("tok"),
		name:  NameOf(inner),
	}
}

// OnLookup registers a callback told whether each lookup hit.
func (c *Cached) OnLookup(fn func(hit bool)) *Cached {
	c.onHit = fn
	return c
}

// OnStoreError registers a callback told about failed cache writes.
// The count itself still succeeds.
func (c *Cached) OnStoreError(fn func(err error)) *Cached {
	c.onErr = fn
	return c
}

// Count returns the cached count for text, computing and storing it on a miss.
// Cache failures fall through to the inner counter.
func (c *Cached) Count(text string) (int, error) {
	ctx := context.Background()
	key := c.keys.GenerateForText(c.name, text)

	if raw, err := c.store.Get(ctx, key); err == nil {
		if n, convErr := strconv.Atoi(string(raw)); convErr == nil {
			c.report(true)
			return n, nil
		}
	}
	c.report(false)

	n, err := c.inner.Count(text)
	if err != nil {
		return 0, err
	}
	if err := c.store.Set(ctx, key, []byte(strconv.Itoa(n)), 0); err != nil && c.onErr != nil {
		c.onErr(err)
	}
	return n, nil
}

// Name implements Named.
func (c *Cached) Name() string {
	return c.name
}

func (c *Cached) report(hit bool) {
	if c.onHit != nil {
		c.onHit(hit)
	}
}
