// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/sse"

	a2a "github.com/go-a2a/a2a-chat"
	"github.com/go-a2a/a2a-chat/internal/queue"
)

// EventStream is the event stream of one message/stream request.
type EventStream interface {
	// Recv returns the next event in delivery order. It returns io.EOF once
	// the agent ended the stream.
	Recv(ctx context.Context) (a2a.StreamEvent, error)
	// Close stops reading the stream. Events not yet received are dropped.
	Close() error
}

type sseStream struct {
	q      *queue.Queue[a2a.StreamEvent]
	cancel context.CancelFunc
	once   sync.Once
}

var _ EventStream = (*sseStream)(nil)

// newSSEStream starts a goroutine decoding the SSE events of resp into a queue.
// The goroutine owns resp and releases it when the stream ends.
func (c *Client) newSSEStream(ctx context.Context, resp *protocol.Response) (EventStream, error) {
	r, err := sse.NewReader(resp)
	if err != nil {
		resp.CloseBodyStream()
		return nil, fmt.Errorf("create SSE reader: %w", err)
	}
	if c.sseBufSize > 0 {
		r.SetMaxBufferSize(c.sseBufSize)
	}
	q, err := queue.New[a2a.StreamEvent](c.queueSize)
	if err != nil {
		resp.CloseBodyStream()
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &sseStream{q: q, cancel: cancel}
	logger := c.logger

	go func() {
		defer resp.CloseBodyStream()

		err := r.ForEach(ctx, func(e *sse.Event) error {
			if len(e.Data) == 0 {
				return nil
			}
			ev, err := decodeEvent(e.Data)
			if err != nil {
				return err
			}
			return q.Enqueue(ctx, ev)
		})
		switch {
		case err == nil, errors.Is(err, io.EOF):
			q.CloseWithError(io.EOF)
		case errors.Is(err, queue.ErrQueueClosed), errors.Is(err, context.Canceled):
			// closed by the consumer
			q.CloseWithError(err)
		default:
			logger.DebugContext(ctx, "event stream ended", slog.Any("error", err))
			q.CloseWithError(err)
		}
	}()
	return s, nil
}

// Recv implements [EventStream].
func (s *sseStream) Recv(ctx context.Context) (a2a.StreamEvent, error) {
	return s.q.Dequeue(ctx)
}

// Close implements [EventStream].
func (s *sseStream) Close() error {
	s.once.Do(func() {
		s.q.Close()
		s.cancel()
	})
	return nil
}

// singleEventStream yields one event, then io.EOF.
type singleEventStream struct {
	mu sync.Mutex
	ev a2a.StreamEvent
}

func newSingleEventStream(ev a2a.StreamEvent) *singleEventStream {
	return &singleEventStream{ev: ev}
}

// Recv implements [EventStream].
func (s *singleEventStream) Recv(context.Context) (a2a.StreamEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ev == nil {
		return nil, io.EOF
	}
	ev := s.ev
	s.ev = nil
	return ev, nil
}

// Close implements [EventStream].
func (s *singleEventStream) Close() error {
	s.mu.Lock()
	s.ev = nil
	s.mu.Unlock()
	return nil
}
