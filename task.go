// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// TaskStatus is the status of a task at a point in time.
type TaskStatus struct {
	State     TaskState `json:"state"`
	Message   *Message  `json:"message,omitzero"`
	Timestamp string    `json:"timestamp,omitzero"`
}

// Task is the unit of work an agent performs for a client.
type Task struct {
	Kind      EventKind      `json:"kind"`
	ID        string         `json:"id"`
	ContextID string         `json:"contextId"`
	Status    TaskStatus     `json:"status"`
	Artifacts []*Artifact    `json:"artifacts,omitzero"`
	History   []*Message     `json:"history,omitzero"`
	Metadata  jsontext.Value `json:"metadata,omitzero"`
}

// GetTaskID implements [StreamEvent].
func (t *Task) GetTaskID() string { return t.ID }

// GetEventKind implements [StreamEvent].
func (t *Task) GetEventKind() EventKind { return KindTask }

// TaskStatusUpdateEvent is sent by the agent when the status of a task changes.
type TaskStatusUpdateEvent struct {
	Kind      EventKind      `json:"kind"`
	TaskID    string         `json:"taskId"`
	ContextID string         `json:"contextId"`
	Status    TaskStatus     `json:"status"`
	Final     bool           `json:"final,omitzero"`
	Metadata  jsontext.Value `json:"metadata,omitzero"`
}

// GetTaskID implements [StreamEvent].
func (e *TaskStatusUpdateEvent) GetTaskID() string { return e.TaskID }

// GetEventKind implements [StreamEvent].
func (e *TaskStatusUpdateEvent) GetEventKind() EventKind { return KindStatusUpdate }

// TaskArtifactUpdateEvent is sent by the agent when an artifact is produced or extended.
type TaskArtifactUpdateEvent struct {
	Kind      EventKind      `json:"kind"`
	TaskID    string         `json:"taskId"`
	ContextID string         `json:"contextId"`
	Artifact  Artifact       `json:"artifact"`
	Append    bool           `json:"append,omitzero"`
	LastChunk bool           `json:"lastChunk,omitzero"`
	Metadata  jsontext.Value `json:"metadata,omitzero"`
}

// GetTaskID implements [StreamEvent].
func (e *TaskArtifactUpdateEvent) GetTaskID() string { return e.TaskID }

// GetEventKind implements [StreamEvent].
func (e *TaskArtifactUpdateEvent) GetEventKind() EventKind { return KindArtifactUpdate }

// StreamEvent is one item of a message/stream response.
// It is implemented by [*Task], [*Message], [*TaskStatusUpdateEvent] and [*TaskArtifactUpdateEvent].
type StreamEvent interface {
	GetTaskID() string
	GetEventKind() EventKind
}

var (
	_ StreamEvent = (*Task)(nil)
	_ StreamEvent = (*Message)(nil)
	_ StreamEvent = (*TaskStatusUpdateEvent)(nil)
	_ StreamEvent = (*TaskArtifactUpdateEvent)(nil)
)

// UnmarshalStreamEvent decodes data into the concrete [StreamEvent] named by its "kind" field.
func UnmarshalStreamEvent(data []byte) (StreamEvent, error) {
	var probe struct {
		Kind EventKind `json:"kind"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event kind: %w", err)
	}

	var ev StreamEvent
	switch probe.Kind {
	case KindTask:
		ev = new(Task)
	case KindMessage:
		ev = new(Message)
	case KindStatusUpdate:
		ev = new(TaskStatusUpdateEvent)
	case KindArtifactUpdate:
		ev = new(TaskArtifactUpdateEvent)
	default:
		return nil, fmt.Errorf("unknown event kind: %q", probe.Kind)
	}

	if err := json.Unmarshal(data, ev); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s event: %w", probe.Kind, err)
	}
	return ev, nil
}
