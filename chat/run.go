// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	a2a "github.com/go-a2a/a2a-chat"
	"github.com/go-a2a/a2a-chat/client"
	"github.com/go-a2a/a2a-chat/content"
	"github.com/go-a2a/a2a-chat/extension"
)

// Batch is the set of parts applied to the run's message by one event.
type Batch struct {
	TaskID string
	Parts  []content.Part
}

// ResultKind identifies what the agent is waiting for.
type ResultKind string

// Result kinds.
const (
	ResultInputRequired    ResultKind = "input-required"
	ResultFormRequired     ResultKind = "form-required"
	ResultApprovalRequired ResultKind = "approval-required"
	ResultAuthRequired     ResultKind = "auth-required"
	ResultOAuthRequired    ResultKind = "oauth-required"
	ResultSecretRequired   ResultKind = "secret-required"
)

// Result is a request from the agent that ends its turn until the user
// answers it. Only the fields matching Kind are set.
type Result struct {
	Kind   ResultKind
	TaskID string
	// Text is the agent's status message.
	Text string

	Form             *extension.FormRequest
	Approval         *extension.ApprovalRequest
	AuthorizationURL string
	Secrets          map[string]extension.SecretDemand
}

// TaskError is returned when the agent failed or rejected the task.
type TaskError struct {
	TaskID  string
	State   a2a.TaskState
	Message string
}

// Error implements [error].
func (e *TaskError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("task %s", e.State)
	}
	return fmt.Sprintf("task %s: %s", e.State, e.Message)
}

// Run is one turn in flight. Its methods are safe for concurrent use.
type Run struct {
	session *Session
	cancel  context.CancelFunc
	span    trace.Span
	done    chan struct{}
	once    sync.Once

	// deliver is held while a batch is published, so abort waits for an
	// in-flight delivery and no batch follows it.
	deliver sync.Mutex

	mu      sync.Mutex
	taskID  string
	msg     *content.Message
	results []Result
	aborted bool
	err     error
}

func newRun(s *Session, taskID string, cancel context.CancelFunc, span trace.Span) *Run {
	msg := content.NewMessage(a2a.RoleAgent)
	msg.TaskID = taskID
	return &Run{
		session: s,
		cancel:  cancel,
		span:    span,
		done:    make(chan struct{}),
		taskID:  taskID,
		msg:     msg,
	}
}

// TaskID returns the ID of the task the run belongs to. It is empty until the
// agent assigns one.
func (r *Run) TaskID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.taskID
}

// Message returns a snapshot of the agent message built so far.
func (r *Run) Message() *content.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.msg.Clone()
}

// Results returns the requests the agent made during the run, in order.
func (r *Run) Results() []Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.results)
}

// Done is closed when the run ends.
func (r *Run) Done() <-chan struct{} { return r.done }

// Wait waits for the run to end and returns the last [Result] the agent
// produced, or nil if it made no request. The error is a [*TaskError] when the
// agent failed the task and [ErrCanceled] when the run was canceled.
func (r *Run) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-r.done:
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	var last *Result
	if n := len(r.results); n > 0 {
		res := r.results[n-1]
		last = &res
	}
	return last, r.err
}

// Cancel cancels the run. See [Session.Cancel].
func (r *Run) Cancel(ctx context.Context) error {
	return r.session.cancelRun(ctx, r)
}

// abort stops applying events and returns the live task ID.
func (r *Run) abort() string {
	r.deliver.Lock()
	r.mu.Lock()
	r.aborted = true
	r.msg.Status = content.StatusAborted
	taskID := r.taskID
	r.mu.Unlock()
	r.deliver.Unlock()

	r.cancel()
	return taskID
}

func (r *Run) isAborted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.aborted
}

// loop consumes stream in delivery order. Each event is folded into the message
// before the next one is read.
func (r *Run) loop(ctx context.Context, stream client.EventStream) {
	defer stream.Close()

	for {
		ev, err := stream.Recv(ctx)
		if errors.Is(err, io.EOF) {
			r.finish(nil)
			return
		}
		if err != nil {
			if ctx.Err() != nil {
				err = ErrCanceled
			}
			r.finish(err)
			return
		}
		if err := r.apply(ctx, ev); err != nil {
			r.finish(err)
			return
		}
	}
}

// apply folds ev into the message and publishes the parts it added.
func (r *Run) apply(ctx context.Context, ev a2a.StreamEvent) error {
	logger := r.session.logger
	ex := r.session.extractors

	r.mu.Lock()
	if r.aborted {
		r.mu.Unlock()
		return nil
	}
	if id := ev.GetTaskID(); id != "" {
		r.taskID = id
		r.msg.TaskID = id
	}

	var (
		parts []content.Part
		err   error
	)
	switch ev := ev.(type) {
	case *a2a.Task:
		parts, err = r.applyStatus(ev.Status)
	case *a2a.Message:
		parts = r.msg.AppendChunk(ev, ex)
	case *a2a.TaskStatusUpdateEvent:
		parts, err = r.applyStatus(ev.Status)
	case *a2a.TaskArtifactUpdateEvent:
		var diag *content.Inconsistency
		parts, diag = r.msg.MergeArtifact(&ev.Artifact, ex)
		if diag != nil {
			logger.WarnContext(ctx, "artifact placeholder rebuilt",
				slog.String("task_id", r.taskID),
				slog.String("artifact_id", diag.ArtifactID),
				slog.String("reason", diag.Reason),
			)
		}
	default:
		logger.WarnContext(ctx, "unexpected event", slog.String("kind", string(ev.GetEventKind())))
	}
	taskID := r.taskID
	r.mu.Unlock()

	if err != nil {
		return err
	}
	if len(parts) == 0 {
		return nil
	}
	r.deliver.Lock()
	defer r.deliver.Unlock()
	if !r.isAborted() {
		r.session.publish(Batch{TaskID: taskID, Parts: parts})
	}
	return nil
}

// applyStatus folds a task status. r.mu must be held.
func (r *Run) applyStatus(st a2a.TaskStatus) ([]content.Part, error) {
	switch st.State {
	case a2a.TaskStateFailed, a2a.TaskStateRejected:
		return nil, &TaskError{TaskID: r.taskID, State: st.State, Message: st.Message.Text()}
	case a2a.TaskStateCanceled:
		return nil, ErrCanceled
	}

	parts := r.msg.AppendChunk(st.Message, r.session.extractors)

	var requests []content.Part
	switch st.State {
	case a2a.TaskStateInputRequired:
		r.msg.Status = content.StatusInputRequired
		requests = r.inputRequired(st.Message)
	case a2a.TaskStateAuthRequired:
		r.msg.Status = content.StatusInputRequired
		requests = r.authRequired(st.Message)
	case a2a.TaskStateCompleted:
		r.msg.Status = content.StatusCompleted
	case a2a.TaskStateSubmitted, a2a.TaskStateWorking:
		r.msg.Status = content.StatusInProgress
	}
	r.msg.Append(requests...)
	return append(parts, requests...), nil
}

// inputRequired records a result for the form and approval payloads of msg, or
// a plain input request when it carries neither. r.mu must be held.
func (r *Run) inputRequired(msg *a2a.Message) []content.Part {
	ex := r.session.extractors
	meta, text := statusPayload(msg)

	var parts []content.Part
	if ex.Form != nil {
		if form, ok := ex.Form.Extract(meta); ok {
			parts = append(parts, &content.FormRequestPart{ID: uuid.NewString(), Form: form})
			r.addResult(Result{Kind: ResultFormRequired, Text: text, Form: &form})
		}
	}
	if ex.Approval != nil {
		if req, ok := ex.Approval.Extract(meta); ok {
			parts = append(parts, &content.ApprovalRequestPart{ID: uuid.NewString(), Request: req})
			r.addResult(Result{Kind: ResultApprovalRequired, Text: text, Approval: &req})
		}
	}
	if len(parts) == 0 {
		r.addResult(Result{Kind: ResultInputRequired, Text: text})
	}
	return parts
}

// authRequired records a result for the OAuth and the secrets payload of msg,
// in that order. r.mu must be held.
func (r *Run) authRequired(msg *a2a.Message) []content.Part {
	ex := r.session.extractors
	meta, text := statusPayload(msg)

	var parts []content.Part
	if ex.OAuth != nil {
		if req, ok := ex.OAuth.Extract(meta); ok {
			parts = append(parts, &content.OAuthRequestPart{ID: uuid.NewString(), AuthorizationURL: req.AuthorizationEndpointURL})
			r.addResult(Result{Kind: ResultOAuthRequired, Text: text, AuthorizationURL: req.AuthorizationEndpointURL})
		}
	}
	if ex.Secrets != nil {
		if d, ok := ex.Secrets.Extract(meta); ok {
			parts = append(parts, &content.SecretRequestPart{ID: uuid.NewString(), Demands: d.SecretDemands})
			r.addResult(Result{Kind: ResultSecretRequired, Text: text, Secrets: d.SecretDemands})
		}
	}
	if len(parts) == 0 {
		r.addResult(Result{Kind: ResultAuthRequired, Text: text})
	}
	return parts
}

func (r *Run) addResult(res Result) {
	res.TaskID = r.taskID
	r.results = append(r.results, res)
}

func statusPayload(msg *a2a.Message) (jsontext.Value, string) {
	if msg == nil {
		return nil, ""
	}
	return msg.Metadata, msg.Text()
}

// finish ends the run with err.
func (r *Run) finish(err error) {
	r.once.Do(func() {
		r.mu.Lock()
		switch {
		case r.aborted, errors.Is(err, ErrCanceled):
			r.msg.Status = content.StatusAborted
			r.err = ErrCanceled
		case err != nil:
			r.msg.Status = content.StatusFailed
			r.msg.Err = err
			r.err = err
		case r.msg.Status == content.StatusInProgress:
			r.msg.Status = content.StatusCompleted
		}
		taskID := r.taskID
		r.mu.Unlock()

		r.span.SetAttributes(attribute.String("a2a.task_id", taskID))
		if err != nil && !errors.Is(err, ErrCanceled) && !errors.Is(err, context.Canceled) {
			r.span.RecordError(err)
			r.span.SetStatus(codes.Error, err.Error())
		}
		r.span.End()
		r.cancel()
		r.session.detach(r)
		close(r.done)
	})
}
