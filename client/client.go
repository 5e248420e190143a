// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package client talks to a remote A2A agent over JSON-RPC and server-sent
// events.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/go-json-experiment/json"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	a2a "github.com/go-a2a/a2a-chat"
	"github.com/go-a2a/a2a-chat/internal/queue"
)

const (
	mimeJSON        = "application/json"
	mimeEventStream = "text/event-stream"
)

// Client is an A2A client bound to one agent endpoint. It is safe for
// concurrent use.
type Client struct {
	url        string
	cli        *client.Client
	headers    map[string]string
	queueSize  int
	sseBufSize int
	logger     *slog.Logger
	tracer     trace.Tracer

	nextID atomic.Int64
}

// New returns a [Client] for the agent JSON-RPC endpoint at url.
func New(url string, opts ...Option) (*Client, error) {
	if url == "" {
		return nil, fmt.Errorf("agent url cannot be empty")
	}
	c := &Client{
		url:       url,
		headers:   make(map[string]string),
		queueSize: queue.DefaultMaxQueueSize,
		logger:    slog.Default(),
		tracer:    noop.NewTracerProvider().Tracer(""),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cli == nil {
		cli, err := client.NewClient(
			client.WithDialTimeout(consts.DefaultDialTimeout),
			client.WithResponseBodyStream(true),
		)
		if err != nil {
			return nil, fmt.Errorf("create hertz client: %w", err)
		}
		c.cli = cli
	}
	return c, nil
}

// URL returns the agent endpoint.
func (c *Client) URL() string { return c.url }

// AgentCard fetches the agent card from the well-known path below the endpoint.
func (c *Client) AgentCard(ctx context.Context) (*a2a.AgentCard, error) {
	ctx, span := c.tracer.Start(ctx, "a2a.AgentCard")
	defer span.End()

	target := strings.TrimRight(c.url, "/") + a2a.AgentCardWellKnownPath
	req := &protocol.Request{}
	resp := &protocol.Response{}
	defer resp.CloseBodyStream()

	req.SetMethod(consts.MethodGet)
	req.SetRequestURI(target)
	req.SetHeader("Accept", mimeJSON)
	c.setHeaders(req)

	if err := c.cli.Do(ctx, req, resp); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("fetch agent card: %w", err)
	}
	if err := checkStatus(resp, target); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var card a2a.AgentCard
	if err := json.Unmarshal(resp.Body(), &card); err != nil {
		return nil, NewDecodeError("agent card", err)
	}
	if err := card.Validate(); err != nil {
		return nil, fmt.Errorf("invalid agent card: %w", err)
	}
	return &card, nil
}

// SendMessageStream sends params with message/stream and returns the stream of
// task events. The stream ends with io.EOF; a JSON-RPC error delivered in the
// stream is returned as [*a2a.Error]. The caller must Close the stream.
func (c *Client) SendMessageStream(ctx context.Context, params *a2a.MessageSendParams) (EventStream, error) {
	if params == nil || params.Message == nil {
		return nil, fmt.Errorf("message cannot be nil")
	}
	if err := params.Message.Validate(); err != nil {
		return nil, fmt.Errorf("invalid message: %w", err)
	}

	ctx, span := c.tracer.Start(ctx, "a2a.SendMessageStream",
		trace.WithAttributes(attribute.String("a2a.context_id", params.Message.ContextID)))
	defer span.End()

	body, err := c.encodeRequest(a2a.MethodMessageStream, params)
	if err != nil {
		return nil, err
	}

	req := &protocol.Request{}
	resp := &protocol.Response{}
	req.SetMethod(consts.MethodPost)
	req.SetRequestURI(c.url)
	req.SetHeader("Accept", mimeEventStream)
	c.setHeaders(req)
	req.Header.SetContentTypeBytes([]byte(mimeJSON))
	req.SetBody(body)

	if err := c.cli.Do(ctx, req, resp); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("send %s: %w", a2a.MethodMessageStream, err)
	}
	if err := checkStatus(resp, c.url); err != nil {
		resp.CloseBodyStream()
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	ct := string(resp.Header.ContentType())
	switch {
	case strings.Contains(ct, mimeEventStream):
		return c.newSSEStream(ctx, resp)

	case strings.Contains(ct, mimeJSON):
		// the agent answered with a single JSON-RPC response, usually an error
		defer resp.CloseBodyStream()
		ev, err := decodeEvent(resp.Body())
		if err != nil {
			return nil, err
		}
		return newSingleEventStream(ev), nil

	default:
		resp.CloseBodyStream()
		return nil, fmt.Errorf("unexpected content-type %q, status-code: %d", ct, resp.StatusCode())
	}
}

// CancelTask asks the agent to cancel taskID.
func (c *Client) CancelTask(ctx context.Context, taskID string) (*a2a.Task, error) {
	if taskID == "" {
		return nil, fmt.Errorf("task ID cannot be empty")
	}

	ctx, span := c.tracer.Start(ctx, "a2a.CancelTask",
		trace.WithAttributes(attribute.String("a2a.task_id", taskID)))
	defer span.End()

	var task a2a.Task
	if err := c.call(ctx, a2a.MethodTasksCancel, &a2a.TaskIDParams{ID: taskID}, &task); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &task, nil
}

// call performs a unary JSON-RPC request and decodes its result into result.
func (c *Client) call(ctx context.Context, method string, params, result any) error {
	body, err := c.encodeRequest(method, params)
	if err != nil {
		return err
	}

	req := &protocol.Request{}
	resp := &protocol.Response{}
	defer resp.CloseBodyStream()

	req.SetMethod(consts.MethodPost)
	req.SetRequestURI(c.url)
	req.SetHeader("Accept", mimeJSON)
	c.setHeaders(req)
	req.Header.SetContentTypeBytes([]byte(mimeJSON))
	req.SetBody(body)

	if err := c.cli.Do(ctx, req, resp); err != nil {
		return fmt.Errorf("send %s: %w", method, err)
	}
	if err := checkStatus(resp, c.url); err != nil {
		return err
	}

	raw, err := decodeResult(resp.Body())
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return NewDecodeError(method+" result", err)
	}
	return nil
}

func (c *Client) setHeaders(req *protocol.Request) {
	for k, v := range c.headers {
		req.SetHeader(k, v)
	}
}

func checkStatus(resp *protocol.Response, url string) error {
	status := resp.StatusCode()
	if status >= 200 && status < 300 {
		return nil
	}
	return &HTTPError{StatusCode: status, URL: url, Body: string(resp.Body())}
}
