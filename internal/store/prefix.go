package store

import (
	"context"
	"time"
)

// WithPrefix wraps s so that every key is namespaced with prefix. Two
// applications sharing one backing table can use distinct prefixes to avoid
// key collisions. An empty prefix returns s unchanged.
func WithPrefix(s Store, prefix string) Store {
	if prefix == "" {
		return s
	}
	return &prefixed{inner: s, prefix: prefix}
}

type prefixed struct {
	inner  Store
	prefix string
}

func (p *prefixed) key(key string) string {
	return p.prefix + key
}

func (p *prefixed) GetInt(ctx context.Context, key string) (int64, error) {
	return p.inner.GetInt(ctx, p.key(key))
}

func (p *prefixed) SetInt(ctx context.Context, key string, value int64) error {
	return p.inner.SetInt(ctx, p.key(key), value)
}

func (p *prefixed) GetBool(ctx context.Context, key string) (bool, error) {
	return p.inner.GetBool(ctx, p.key(key))
}

func (p *prefixed) SetBool(ctx context.Context, key string, value bool) error {
	return p.inner.SetBool(ctx, p.key(key), value)
}

func (p *prefixed) GetTime(ctx context.Context, key string) (time.Time, bool, error) {
	return p.inner.GetTime(ctx, p.key(key))
}

func (p *prefixed) SetTime(ctx context.Context, key string, value time.Time) error {
	return p.inner.SetTime(ctx, p.key(key), value)
}

// IncrInt forwards the atomic increment when the wrapped store supports it.
func (p *prefixed) IncrInt(ctx context.Context, key string, delta int64) (int64, error) {
	return IncrInt(ctx, p.inner, p.key(key), delta)
}
