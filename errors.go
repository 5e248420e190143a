// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"errors"
	"fmt"
)

// JSON-RPC and A2A error codes.
const (
	CodeParseError                   = -32700
	CodeInvalidRequest               = -32600
	CodeMethodNotFound               = -32601
	CodeInvalidParams                = -32602
	CodeInternalError                = -32603
	CodeTaskNotFound                 = -32001
	CodeTaskNotCancelable            = -32002
	CodePushNotificationNotSupported = -32003
	CodeUnsupportedOperation         = -32004
	CodeContentTypeNotSupported      = -32005
)

// Error is a JSON-RPC error object returned by the remote agent.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// NewError returns an [Error] with the given code and message.
func NewError(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Error implements [error].
func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// Is reports whether target is an [*Error] with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// A2A specific errors.
var (
	// ErrTaskNotFound is returned when the requested task ID was not found.
	ErrTaskNotFound = NewError(CodeTaskNotFound, "task not found")

	// ErrTaskNotCancelable is returned when the task cannot be canceled.
	ErrTaskNotCancelable = NewError(CodeTaskNotCancelable, "Task cannot be canceled")

	// ErrPushNotificationNotSupported is returned when push notifications are not supported.
	ErrPushNotificationNotSupported = NewError(CodePushNotificationNotSupported, "Push Notification is not supported")

	// ErrUnsupportedOperation is returned for an unsupported operation.
	ErrUnsupportedOperation = NewError(CodeUnsupportedOperation, "This operation is not supported")

	// ErrContentTypeNotSupported is returned when the content type is not supported.
	ErrContentTypeNotSupported = NewError(CodeContentTypeNotSupported, "Content type not supported")
)
