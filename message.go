// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"fmt"
	"strings"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/uuid"
)

// PartKind is the discriminator of a wire Part.
type PartKind string

// Part kinds.
const (
	PartKindText PartKind = "text"
	PartKindFile PartKind = "file"
	PartKindData PartKind = "data"
)

// Part is a single segment of a message or an artifact.
type Part struct {
	Kind     PartKind       `json:"kind"`
	Text     string         `json:"text,omitzero"`
	File     *FileContent   `json:"file,omitzero"`
	Data     map[string]any `json:"data,omitzero"`
	Metadata jsontext.Value `json:"metadata,omitzero"`
}

// FileContent is a file carried either inline (Bytes, base64) or by URI.
type FileContent struct {
	Name     string `json:"name,omitzero"`
	MimeType string `json:"mimeType,omitzero"`
	Bytes    string `json:"bytes,omitzero"`
	URI      string `json:"uri,omitzero"`
}

// Validate ensures the Part is valid.
func (p Part) Validate() error {
	switch p.Kind {
	case PartKindText:
		return nil
	case PartKindFile:
		if p.File == nil {
			return fmt.Errorf("file part file cannot be nil")
		}
		if p.File.Bytes == "" && p.File.URI == "" {
			return fmt.Errorf("file part must carry bytes or uri")
		}
		return nil
	case PartKindData:
		if p.Data == nil {
			return fmt.Errorf("data part data cannot be nil")
		}
		return nil
	default:
		return fmt.Errorf("unknown part kind: %q", p.Kind)
	}
}

// NewTextPart returns a text Part.
func NewTextPart(text string) Part {
	return Part{Kind: PartKindText, Text: text}
}

// NewDataPart returns a data Part.
func NewDataPart(data map[string]any) Part {
	return Part{Kind: PartKindData, Data: data}
}

// Message is one turn of communication between a user and an agent.
type Message struct {
	Kind      EventKind      `json:"kind"`
	Role      Role           `json:"role"`
	Parts     []Part         `json:"parts"`
	MessageID string         `json:"messageId"`
	TaskID    string         `json:"taskId,omitzero"`
	ContextID string         `json:"contextId,omitzero"`
	Metadata  jsontext.Value `json:"metadata,omitzero"`
}

// Validate ensures the Message is valid.
func (m *Message) Validate() error {
	if m.Role != RoleAgent && m.Role != RoleUser {
		return fmt.Errorf("invalid message role: %q", m.Role)
	}
	if m.MessageID == "" {
		return fmt.Errorf("message ID cannot be empty")
	}
	for i, part := range m.Parts {
		if err := part.Validate(); err != nil {
			return fmt.Errorf("message part at index %d is invalid: %w", i, err)
		}
	}
	return nil
}

// Text joins the text of every text part of the message.
func (m *Message) Text() string {
	if m == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range m.Parts {
		if part.Kind == PartKindText {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// GetTaskID implements [StreamEvent].
func (m *Message) GetTaskID() string { return m.TaskID }

// GetEventKind implements [StreamEvent].
func (m *Message) GetEventKind() EventKind { return KindMessage }

// NewUserMessage creates a user message with a fresh message ID.
// taskID may be empty when the turn starts a new task.
func NewUserMessage(parts []Part, contextID, taskID string) *Message {
	return &Message{
		Kind:      KindMessage,
		Role:      RoleUser,
		Parts:     parts,
		MessageID: uuid.NewString(),
		TaskID:    taskID,
		ContextID: contextID,
	}
}

// NewUserTextMessage creates a user message holding a single text part.
func NewUserTextMessage(text, contextID, taskID string) *Message {
	return NewUserMessage([]Part{NewTextPart(text)}, contextID, taskID)
}
