// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"log/slog"

	"github.com/cloudwego/hertz/pkg/app/client"
	"go.opentelemetry.io/otel/trace"
)

// Option represents an option for configuring the [Client].
type Option func(*Client)

// WithHertzClient sets the hertz client used for requests. The client must be
// created with [client.WithResponseBodyStream] enabled for streaming to be
// incremental.
func WithHertzClient(cli *client.Client) Option {
	return func(c *Client) {
		c.cli = cli
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithBearerToken authenticates every request with token.
func WithBearerToken(token string) Option {
	return WithHeader("Authorization", "Bearer "+token)
}

// WithQueueSize sets how many decoded events may wait for the consumer before
// the stream reader blocks.
func WithQueueSize(size int) Option {
	return func(c *Client) {
		c.queueSize = size
	}
}

// WithSSEBufferSize specifies the maximum buffer size used for a single SSE event.
// If size <= 0, the hertz default is used.
func WithSSEBufferSize(size int) Option {
	return func(c *Client) {
		c.sseBufSize = size
	}
}

// WithLogger sets the [*slog.Logger] for the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTracer sets the [trace.Tracer] for the [Client].
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) {
		c.tracer = tracer
	}
}
