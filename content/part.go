// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package content assembles an agent message from the typed parts streamed by a
// task, keeps them in a deterministic order and renders them into text.
//
// Transform parts never carry visible content. They record a position in the
// raw text of the message, the concatenation of its text parts, and rewrite
// the rendered text at that position when the message is rendered.
package content

import (
	"github.com/google/uuid"

	"github.com/go-a2a/a2a-chat/extension"
)

// Kind is the tag of a [Part].
type Kind string

// Part kinds.
const (
	KindText             Kind = "text"
	KindFile             Kind = "file"
	KindData             Kind = "data"
	KindArtifact         Kind = "artifact"
	KindCitation         Kind = "citation"
	KindTrajectory       Kind = "trajectory"
	KindFormRequest      Kind = "form-request"
	KindOAuthRequest     Kind = "oauth-request"
	KindSecretRequest    Kind = "secret-request"
	KindApprovalRequest  Kind = "approval-request"
	KindApprovalResponse Kind = "approval-response"
	KindTransform        Kind = "transform"
)

// Part is a fragment of message content or a rewrite rule.
//
// The set of implementations is closed; switches over a Part handle every
// concrete type and panic on anything else.
type Part interface {
	Kind() Kind
	PartID() string

	isPart()
}

func newID() string { return uuid.NewString() }

// TextPart is plain agent or user text.
type TextPart struct {
	ID   string
	Text string
}

// FilePart references a file inline or by URI.
type FilePart struct {
	ID       string
	Name     string
	MimeType string
	URI      string
	Bytes    string
}

// DataPart is structured data.
type DataPart struct {
	ID   string
	Data map[string]any
}

// ArtifactPart is a named container built incrementally from artifact updates.
// Its sub-parts use their own raw text coordinates.
type ArtifactPart struct {
	ID          string
	ArtifactID  string
	Name        string
	Description string
	Parts       []Part
}

// Label returns the artifact name, or its id when unnamed.
func (a *ArtifactPart) Label() string {
	if a.Name != "" {
		return a.Name
	}
	return a.ArtifactID
}

// CitationPart links a range of raw text to a source. Number is assigned by
// [SortParts] and is shared by citations with the same URL and title.
type CitationPart struct {
	ID          string
	URL         string
	Title       string
	Description string
	StartIndex  *int
	EndIndex    *int
	Number      int
}

// TrajectoryPart is an intermediate step reported by the agent.
type TrajectoryPart struct {
	ID      string
	Title   string
	Content string
	GroupID string
}

// FormRequestPart asks the user to fill a form.
type FormRequestPart struct {
	ID   string
	Form extension.FormRequest
}

// OAuthRequestPart asks the user to authorize at AuthorizationURL.
type OAuthRequestPart struct {
	ID               string
	AuthorizationURL string
}

// SecretRequestPart asks the user for secrets.
type SecretRequestPart struct {
	ID      string
	Demands map[string]extension.SecretDemand
}

// ApprovalRequestPart asks the user to approve an action.
type ApprovalRequestPart struct {
	ID      string
	Request extension.ApprovalRequest
}

// ApprovalResponsePart records the user's decision on an approval request.
type ApprovalResponsePart struct {
	ID       string
	Response extension.ApprovalResponse
}

func (*TextPart) Kind() Kind             { return KindText }
func (*FilePart) Kind() Kind             { return KindFile }
func (*DataPart) Kind() Kind             { return KindData }
func (*ArtifactPart) Kind() Kind         { return KindArtifact }
func (*CitationPart) Kind() Kind         { return KindCitation }
func (*TrajectoryPart) Kind() Kind       { return KindTrajectory }
func (*FormRequestPart) Kind() Kind      { return KindFormRequest }
func (*OAuthRequestPart) Kind() Kind     { return KindOAuthRequest }
func (*SecretRequestPart) Kind() Kind    { return KindSecretRequest }
func (*ApprovalRequestPart) Kind() Kind  { return KindApprovalRequest }
func (*ApprovalResponsePart) Kind() Kind { return KindApprovalResponse }
func (*TransformPart) Kind() Kind        { return KindTransform }

func (p *TextPart) PartID() string             { return p.ID }
func (p *FilePart) PartID() string             { return p.ID }
func (p *DataPart) PartID() string             { return p.ID }
func (p *ArtifactPart) PartID() string         { return p.ID }
func (p *CitationPart) PartID() string         { return p.ID }
func (p *TrajectoryPart) PartID() string       { return p.ID }
func (p *FormRequestPart) PartID() string      { return p.ID }
func (p *OAuthRequestPart) PartID() string     { return p.ID }
func (p *SecretRequestPart) PartID() string    { return p.ID }
func (p *ApprovalRequestPart) PartID() string  { return p.ID }
func (p *ApprovalResponsePart) PartID() string { return p.ID }
func (p *TransformPart) PartID() string        { return p.ID }

func (*TextPart) isPart()             {}
func (*FilePart) isPart()             {}
func (*DataPart) isPart()             {}
func (*ArtifactPart) isPart()         {}
func (*CitationPart) isPart()         {}
func (*TrajectoryPart) isPart()       {}
func (*FormRequestPart) isPart()      {}
func (*OAuthRequestPart) isPart()     {}
func (*SecretRequestPart) isPart()    {}
func (*ApprovalRequestPart) isPart()  {}
func (*ApprovalResponsePart) isPart() {}
func (*TransformPart) isPart()        {}
