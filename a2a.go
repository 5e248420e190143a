// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package a2a provides the Agent-to-Agent (A2A) wire model consumed by the chat
// core: task states, messages, parts, artifacts, streaming events, the agent card
// and the JSON-RPC envelope used to carry them.
package a2a

// Version is the A2A protocol version spoken by this client.
const Version = "0.3.0"

// TaskState represents the state of a Task.
type TaskState string

const (
	// TaskStateSubmitted indicates the task has been submitted.
	TaskStateSubmitted TaskState = "submitted"

	// TaskStateWorking indicates the task is being worked on.
	TaskStateWorking TaskState = "working"

	// TaskStateInputRequired indicates the agent waits for more user input.
	TaskStateInputRequired TaskState = "input-required"

	// TaskStateAuthRequired indicates the agent waits for credentials.
	TaskStateAuthRequired TaskState = "auth-required"

	// TaskStateCompleted indicates the task has been completed.
	TaskStateCompleted TaskState = "completed"

	// TaskStateCanceled indicates the task has been canceled.
	TaskStateCanceled TaskState = "canceled"

	// TaskStateFailed indicates the task has failed.
	TaskStateFailed TaskState = "failed"

	// TaskStateRejected indicates the agent refused the task.
	TaskStateRejected TaskState = "rejected"

	// TaskStateUnknown is used when the state cannot be determined.
	TaskStateUnknown TaskState = "unknown"
)

// IsTerminal reports whether no further updates are expected for the state.
func (s TaskState) IsTerminal() bool {
	switch s {
	case TaskStateCompleted, TaskStateCanceled, TaskStateFailed, TaskStateRejected:
		return true
	default:
		return false
	}
}

// IsError reports whether the state carries an error cause in its status message.
func (s TaskState) IsError() bool {
	return s == TaskStateFailed || s == TaskStateRejected
}

// Role represents the role of a message sender.
type Role string

// Role constants for message senders.
const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// EventKind is the "kind" discriminator of objects on the wire.
type EventKind string

// Kind constants.
const (
	KindMessage        EventKind = "message"
	KindTask           EventKind = "task"
	KindStatusUpdate   EventKind = "status-update"
	KindArtifactUpdate EventKind = "artifact-update"
)
