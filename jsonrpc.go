// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"encoding/json"
	"strconv"
)

// A2A RPC method names used by the chat client.
const (
	// MethodMessageStream sends a message and subscribes to the resulting task events.
	MethodMessageStream = "message/stream"
	// MethodTasksCancel is the method name for canceling a task.
	MethodTasksCancel = "tasks/cancel"
)

// JSONRPCVersion is the only JSON-RPC version spoken on the wire.
const JSONRPCVersion = "2.0"

// ID represents the unique identifier for JSON-RPC messages.
type ID struct {
	any
}

// NewID wraps a string or numeric request id.
func NewID[T ~string | ~int | ~int64 | ~float64](v T) ID {
	return ID{v}
}

// String returns the textual form of the id.
func (id ID) String() string {
	switch id := id.any.(type) {
	case nil:
		return ""
	case string:
		return id
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	case float64:
		return strconv.FormatFloat(id, 'f', 0, 64)
	default:
		panic("unreachable")
	}
}

// MarshalJSON implements [json.Marshaler].
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.any)
}

// UnmarshalJSON implements [json.Unmarshaler].
func (id *ID) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	id.any = v
	return nil
}

// Request is a JSON-RPC 2.0 request. Params is pre-encoded so the envelope codec
// does not need to understand the wire model.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      ID              `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// NewRequest returns a JSON-RPC 2.0 request.
func NewRequest(id ID, method string, params json.RawMessage) *Request {
	return &Request{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Method:  method,
		Params:  params,
	}
}

// Response is a JSON-RPC 2.0 response. Result and Error are mutually exclusive.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      ID              `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// MessageSendParams are the params of [MethodMessageStream].
type MessageSendParams struct {
	Message  *Message       `json:"message"`
	Metadata map[string]any `json:"metadata,omitzero"`
}

// TaskIDParams are the params of [MethodTasksCancel].
type TaskIDParams struct {
	ID       string         `json:"id"`
	Metadata map[string]any `json:"metadata,omitzero"`
}
