// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package queue provides a bounded single-consumer queue connecting a stream
// reader goroutine to the goroutine processing its events.
package queue

import (
	"context"
	"errors"
	"sync"
)

// DefaultMaxQueueSize is the default maximum queue size.
const DefaultMaxQueueSize = 1024

var (
	// ErrQueueClosed is returned when enqueuing to a closed queue, and when
	// dequeuing from a queue closed without a cause once it is drained.
	ErrQueueClosed = errors.New("queue is closed")

	// ErrInvalidQueueSize is returned for a negative queue size.
	ErrInvalidQueueSize = errors.New("invalid queue size")
)

// Queue is a bounded FIFO queue. Enqueue blocks while the queue is full.
// After Close, buffered items are still delivered before the close cause.
type Queue[T any] struct {
	items   chan T
	maxSize int

	closeOnce sync.Once
	done      chan struct{}
	mu        sync.RWMutex
	cause     error
}

// New creates a queue holding up to maxSize items.
// If maxSize is 0, DefaultMaxQueueSize is used.
func New[T any](maxSize int) (*Queue[T], error) {
	if maxSize < 0 {
		return nil, ErrInvalidQueueSize
	}
	if maxSize == 0 {
		maxSize = DefaultMaxQueueSize
	}
	return &Queue[T]{
		items:   make(chan T, maxSize),
		maxSize: maxSize,
		done:    make(chan struct{}),
	}, nil
}

// Enqueue adds v to the queue, waiting for room. It returns ErrQueueClosed once
// the queue is closed.
func (q *Queue[T]) Enqueue(ctx context.Context, v T) error {
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-q.done:
		return ErrQueueClosed
	case q.items <- v:
		return nil
	}
}

// Dequeue returns the next item, waiting until one is available, the queue is
// closed and drained, or ctx is done. A drained queue returns its close cause.
func (q *Queue[T]) Dequeue(ctx context.Context) (T, error) {
	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case v := <-q.items:
		return v, nil
	case <-q.done:
		select {
		case v := <-q.items:
			return v, nil
		default:
			return zero, q.err()
		}
	}
}

// Close closes the queue. It is equivalent to CloseWithError(nil).
func (q *Queue[T]) Close() error {
	q.CloseWithError(nil)
	return nil
}

// CloseWithError closes the queue; once drained, Dequeue returns cause, or
// ErrQueueClosed when cause is nil. Only the first call has an effect.
func (q *Queue[T]) CloseWithError(cause error) {
	q.closeOnce.Do(func() {
		q.mu.Lock()
		q.cause = cause
		q.mu.Unlock()
		close(q.done)
	})
}

func (q *Queue[T]) err() error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.cause == nil {
		return ErrQueueClosed
	}
	return q.cause
}

// IsClosed returns true if the queue is closed.
func (q *Queue[T]) IsClosed() bool {
	select {
	case <-q.done:
		return true
	default:
		return false
	}
}

// Size returns the current number of items in the queue.
func (q *Queue[T]) Size() int {
	return len(q.items)
}

// Capacity returns the maximum capacity of the queue.
func (q *Queue[T]) Capacity() int {
	return q.maxSize
}
