// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"errors"
	"fmt"
)

// ErrEmptyResult is returned when a JSON-RPC response carries neither a result
// nor an error.
var ErrEmptyResult = errors.New("empty JSON-RPC result")

// HTTPError is returned when the agent answers with a non-2xx status.
type HTTPError struct {
	StatusCode int
	URL        string
	Body       string
}

// Error implements [error].
func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("unexpected status code %d from %s, body: %s", e.StatusCode, e.URL, e.Body)
}

// DecodeError is returned when a response or stream event cannot be decoded.
type DecodeError struct {
	Message string
	Err     error
}

// NewDecodeError returns a [*DecodeError].
func NewDecodeError(message string, err error) *DecodeError {
	return &DecodeError{Message: message, Err: err}
}

// Error implements [error].
func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("decode error: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
