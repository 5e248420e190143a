// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package chat drives conversations with a remote agent. A [Session] sends one
// user turn at a time and folds the resulting task events, in delivery order,
// into the agent's [content.Message].
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	a2a "github.com/go-a2a/a2a-chat"
	"github.com/go-a2a/a2a-chat/capability"
	"github.com/go-a2a/a2a-chat/client"
	"github.com/go-a2a/a2a-chat/extension"
)

var (
	// ErrRunInProgress is returned when a turn is started while another run
	// of the session is active.
	ErrRunInProgress = errors.New("run in progress")

	// ErrNoRunInProgress is returned when canceling a session without an
	// active run.
	ErrNoRunInProgress = errors.New("no run in progress")

	// ErrMissingContextID is returned when a turn is started without a context ID.
	ErrMissingContextID = errors.New("context ID cannot be empty")

	// ErrCanceled is returned by [Run.Wait] when the run was canceled locally or
	// by the agent.
	ErrCanceled = errors.New("run canceled")
)

// Transport sends turns to the remote agent.
type Transport interface {
	SendMessageStream(ctx context.Context, params *a2a.MessageSendParams) (client.EventStream, error)
	CancelTask(ctx context.Context, taskID string) (*a2a.Task, error)
}

var _ Transport = (*client.Client)(nil)

// Session is one conversation with an agent. At most one [Run] is active at a
// time. Session is safe for concurrent use.
type Session struct {
	transport  Transport
	demands    capability.Demands
	extractors extension.Extractors
	logger     *slog.Logger
	tracer     trace.Tracer

	mu      sync.Mutex
	run     *Run
	subs    []subscriber
	nextSub int
}

type subscriber struct {
	id int
	fn func(Batch)
}

// Option configures a [Session].
type Option func(*Session)

// WithDemands sets the demands the agent declared, usually built with
// [capability.DemandsFromCard].
func WithDemands(d capability.Demands) Option {
	return func(s *Session) {
		s.demands = d
	}
}

// WithExtractors sets the extension extractors applied to agent messages.
func WithExtractors(ex extension.Extractors) Option {
	return func(s *Session) {
		s.extractors = ex
	}
}

// WithLogger sets the [*slog.Logger] for the [Session].
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithTracer sets the [trace.Tracer] for the [Session].
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Session) {
		s.tracer = tracer
	}
}

// NewSession returns a [Session] sending turns through t.
func NewSession(t Transport, opts ...Option) *Session {
	s := &Session{
		transport:  t,
		extractors: extension.DefaultExtractors(),
		logger:     slog.Default(),
		tracer:     noop.NewTracerProvider().Tracer(""),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn to receive every [Batch] of parts applied to the
// active run's message. fn is called synchronously from the run goroutine and
// must not block; canceling the run from within fn deadlocks, since Cancel
// waits for the delivery in progress. The returned func removes the
// subscription.
func (s *Session) Subscribe(fn func(Batch)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.subs = slices.DeleteFunc(s.subs, func(sub subscriber) bool { return sub.id == id })
		s.mu.Unlock()
	}
}

// ChatOption configures a single turn.
type ChatOption func(*turnOptions)

type turnOptions struct {
	taskID string
}

// WithTaskID continues the task taskID, typically one waiting for input.
func WithTaskID(taskID string) ChatOption {
	return func(o *turnOptions) {
		o.taskID = taskID
	}
}

// Chat sends msg as the next turn of the conversation contextID and returns
// the [Run] consuming the agent's events. ctx bounds the whole run.
//
// Chat fails without contacting the agent when another run is active or
// when fulfillments cannot satisfy the declared demands.
func (s *Session) Chat(ctx context.Context, msg *a2a.Message, contextID string, fulfillments capability.Fulfillments, opts ...ChatOption) (*Run, error) {
	if msg == nil {
		return nil, fmt.Errorf("message cannot be nil")
	}
	if contextID == "" {
		return nil, ErrMissingContextID
	}
	var o turnOptions
	for _, opt := range opts {
		opt(&o)
	}

	ctx, span := s.tracer.Start(ctx, "chat.Run", trace.WithAttributes(
		attribute.String("a2a.context_id", contextID),
	))
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.run != nil {
		s.mu.Unlock()
		cancel()
		span.End()
		return nil, ErrRunInProgress
	}
	r := newRun(s, o.taskID, cancel, span)
	s.run = r
	s.mu.Unlock()

	out, err := s.outgoing(ctx, msg, contextID, o.taskID, fulfillments)
	if err != nil {
		r.finish(err)
		return nil, err
	}
	r.span.SetAttributes(attribute.String("a2a.message_id", out.MessageID))

	stream, err := s.transport.SendMessageStream(ctx, &a2a.MessageSendParams{Message: out})
	if err != nil {
		err = fmt.Errorf("send message: %w", err)
		r.finish(err)
		return nil, err
	}

	go r.loop(ctx, stream)
	return r, nil
}

// outgoing builds the message sent for a turn, with the fulfillment metadata
// merged into its metadata.
func (s *Session) outgoing(ctx context.Context, msg *a2a.Message, contextID, taskID string, f capability.Fulfillments) (*a2a.Message, error) {
	meta, err := f.Metadata(ctx, s.demands)
	if err != nil {
		return nil, err
	}

	out := *msg
	out.Kind = a2a.KindMessage
	if out.Role == "" {
		out.Role = a2a.RoleUser
	}
	if out.MessageID == "" {
		out.MessageID = uuid.NewString()
	}
	out.ContextID = contextID
	if taskID != "" {
		out.TaskID = taskID
	}
	if out.Metadata, err = mergeMetadata(msg.Metadata, meta); err != nil {
		return nil, err
	}
	return &out, nil
}

func mergeMetadata(base jsontext.Value, add map[string]any) (jsontext.Value, error) {
	if len(add) == 0 {
		return base, nil
	}
	merged := make(map[string]any, len(add))
	if len(base) > 0 {
		if err := json.Unmarshal(base, &merged); err != nil {
			return nil, fmt.Errorf("invalid message metadata: %w", err)
		}
	}
	for k, v := range add {
		merged[k] = v
	}
	data, err := json.Marshal(merged, json.Deterministic(true))
	if err != nil {
		return nil, fmt.Errorf("encode message metadata: %w", err)
	}
	return jsontext.Value(data), nil
}

// Active returns the active run, or nil.
func (s *Session) Active() *Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run
}

// Cancel cancels the active run. Parts received after Cancel are not applied
// and the run's message is marked aborted. The agent is then asked once to
// cancel the task; a failure to do so is logged and not returned.
func (s *Session) Cancel(ctx context.Context) error {
	return s.cancelRun(ctx, nil)
}

// cancelRun cancels the active run if it is want, or any active run when want
// is nil.
func (s *Session) cancelRun(ctx context.Context, want *Run) error {
	s.mu.Lock()
	r := s.run
	if r == nil || (want != nil && r != want) {
		s.mu.Unlock()
		return ErrNoRunInProgress
	}
	s.run = nil
	s.mu.Unlock()

	taskID := r.abort()
	if taskID == "" {
		s.logger.WarnContext(ctx, "run canceled before the agent assigned a task")
		return nil
	}
	if _, err := s.transport.CancelTask(ctx, taskID); err != nil {
		s.logger.WarnContext(ctx, "cancel task", slog.String("task_id", taskID), slog.Any("error", err))
	}
	return nil
}

// detach clears r as the active run.
func (s *Session) detach(r *Run) {
	s.mu.Lock()
	if s.run == r {
		s.run = nil
	}
	s.mu.Unlock()
}

func (s *Session) publish(b Batch) {
	s.mu.Lock()
	subs := slices.Clone(s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(b)
	}
}

