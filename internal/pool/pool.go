// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package pool provides typed object pools for the request encoding path.
package pool

import (
	"bytes"
	"sync"
)

// maxBufferSize is the largest buffer capacity [Bytes] keeps for reuse. A
// request carrying a large file part would otherwise stay pinned in the pool.
const maxBufferSize = 64 << 10

// Resetter is implemented by pooled values that must be cleared before reuse.
type Resetter interface {
	Reset()
}

// Pool is a typed [sync.Pool]. Put resets values implementing [Resetter] and
// drops the values its keep func rejects.
type Pool[T any] struct {
	p    sync.Pool
	keep func(T) bool
}

// New returns a [Pool] creating values with fn. A nil keep retains every value.
func New[T any](fn func() T, keep func(T) bool) *Pool[T] {
	return &Pool[T]{
		p:    sync.Pool{New: func() any { return fn() }},
		keep: keep,
	}
}

// Get returns a pooled value, or a new one.
func (p *Pool[T]) Get() T {
	return p.p.Get().(T)
}

// Put returns x to the pool.
func (p *Pool[T]) Put(x T) {
	if p.keep != nil && !p.keep(x) {
		return
	}
	if r, ok := any(x).(Resetter); ok {
		r.Reset()
	}
	p.p.Put(x)
}

// Bytes pools the buffers JSON-RPC requests are encoded into.
var Bytes = New(
	func() *bytes.Buffer { return new(bytes.Buffer) },
	func(b *bytes.Buffer) bool { return b.Cap() <= maxBufferSize },
)
