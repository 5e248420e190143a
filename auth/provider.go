// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ContextTokenProvider returns a valid context token for a conversation context.
type ContextTokenProvider interface {
	ContextToken(ctx context.Context, contextID string) (*ContextToken, error)
}

// TokenSource issues raw context tokens, typically by calling the platform.
type TokenSource interface {
	IssueToken(ctx context.Context, contextID string) (string, error)
}

// TokenSourceFunc adapts a function to [TokenSource].
type TokenSourceFunc func(ctx context.Context, contextID string) (string, error)

// IssueToken implements [TokenSource].
func (f TokenSourceFunc) IssueToken(ctx context.Context, contextID string) (string, error) {
	return f(ctx, contextID)
}

// DefaultRefreshSkew is how long before expiry a cached token is refreshed.
const DefaultRefreshSkew = 30 * time.Second

// CachingProvider is a [ContextTokenProvider] caching one token per context and
// refreshing it shortly before it expires. It is safe for concurrent use.
type CachingProvider struct {
	src  TokenSource
	skew time.Duration
	now  func() time.Time

	mu    sync.Mutex
	cache map[string]*ContextToken
}

var _ ContextTokenProvider = (*CachingProvider)(nil)

// ProviderOption configures a [CachingProvider].
type ProviderOption func(*CachingProvider)

// WithRefreshSkew sets how long before expiry a token is refreshed.
func WithRefreshSkew(d time.Duration) ProviderOption {
	return func(p *CachingProvider) {
		p.skew = d
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) ProviderOption {
	return func(p *CachingProvider) {
		p.now = now
	}
}

// NewCachingProvider returns a [CachingProvider] reading tokens from src.
func NewCachingProvider(src TokenSource, opts ...ProviderOption) *CachingProvider {
	p := &CachingProvider{
		src:   src,
		skew:  DefaultRefreshSkew,
		now:   time.Now,
		cache: make(map[string]*ContextToken),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ContextToken implements [ContextTokenProvider].
func (p *CachingProvider) ContextToken(ctx context.Context, contextID string) (*ContextToken, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if tok, ok := p.cache[contextID]; ok && !tok.ExpiresWithin(p.now(), p.skew) {
		return tok, nil
	}

	raw, err := p.src.IssueToken(ctx, contextID)
	if err != nil {
		return nil, fmt.Errorf("issue context token: %w", err)
	}
	tok, err := parseContextToken(raw, contextID, p.now())
	if err != nil {
		return nil, err
	}
	p.cache[contextID] = tok
	return tok, nil
}

// Invalidate drops the cached token for contextID.
func (p *CachingProvider) Invalidate(contextID string) {
	p.mu.Lock()
	delete(p.cache, contextID)
	p.mu.Unlock()
}
