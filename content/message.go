// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package content

import (
	"slices"

	a2a "github.com/go-a2a/a2a-chat"
	"github.com/go-a2a/a2a-chat/extension"
)

// Status is the client side status of a [Message].
type Status string

// Message statuses.
const (
	StatusInProgress    Status = "in-progress"
	StatusCompleted     Status = "completed"
	StatusInputRequired Status = "input-required"
	StatusAborted       Status = "aborted"
	StatusFailed        Status = "failed"
)

// Message is a chat message assembled from parts. It is not safe for
// concurrent use.
type Message struct {
	ID     string
	Role   a2a.Role
	TaskID string
	Parts  []Part
	Status Status
	Err    error
}

// NewMessage returns an empty in-progress message.
func NewMessage(role a2a.Role) *Message {
	return &Message{
		ID:     newID(),
		Role:   role,
		Status: StatusInProgress,
	}
}

// Append adds parts and re-sorts the message.
func (m *Message) Append(parts ...Part) {
	if len(parts) == 0 {
		return
	}
	m.Parts = SortParts(append(m.Parts, parts...))
}

// AppendChunk converts an agent message chunk against the current raw text and
// appends it. It returns the parts added.
func (m *Message) AppendChunk(msg *a2a.Message, ex extension.Extractors) []Part {
	parts := FromMessage(msg, ex, len(m.RawText()))
	m.Append(parts...)
	return parts
}

// MergeArtifact folds an artifact chunk into the message. It returns the parts
// received and a non-nil [*Inconsistency] when the message had to be repaired.
func (m *Message) MergeArtifact(a *a2a.Artifact, ex extension.Extractors) ([]Part, *Inconsistency) {
	base := 0
	if existing, ok := FindArtifact(m.Parts, a.ArtifactID); ok {
		base = len(RawText(existing.Parts))
	}
	u := FromArtifact(a, ex, base)
	var diag *Inconsistency
	m.Parts, diag = MergeArtifactUpdate(m.Parts, u)
	return u.Parts, diag
}

// RawText returns the concatenated text of the message.
func (m *Message) RawText() string { return RawText(m.Parts) }

// Content renders the message with every transform applied.
func (m *Message) Content() string { return RenderContent(m.Parts) }

// Finished reports whether the message will receive no more parts.
func (m *Message) Finished() bool {
	return m.Status != StatusInProgress
}

// Clone returns a copy of m that shares no part slice with it. Parts are
// treated as immutable and are shared.
func (m *Message) Clone() *Message {
	c := *m
	c.Parts = slices.Clone(m.Parts)
	return &c
}
