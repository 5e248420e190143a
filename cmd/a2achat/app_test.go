// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	a2a "github.com/go-a2a/a2a-chat"
	"github.com/go-a2a/a2a-chat/chat"
	"github.com/go-a2a/a2a-chat/content"
	"github.com/go-a2a/a2a-chat/extension"
)

func TestBuildTurn(t *testing.T) {
	t.Parallel()

	t.Run("new turn", func(t *testing.T) {
		t.Parallel()

		msg, turn, err := buildTurn("hello", nil)
		if err != nil {
			t.Fatalf("buildTurn() error = %v", err)
		}
		if got := msg.Text(); got != "hello" {
			t.Errorf("Text() = %q, want hello", got)
		}
		if turn.VolunteeredSecrets != nil {
			t.Errorf("VolunteeredSecrets = %v, want nil", turn.VolunteeredSecrets)
		}
	})

	t.Run("secrets", func(t *testing.T) {
		t.Parallel()

		pending := &chat.Result{Kind: chat.ResultSecretRequired, TaskID: "t1"}
		msg, turn, err := buildTurn("api=s3cr3t, other=x", pending)
		if err != nil {
			t.Fatalf("buildTurn() error = %v", err)
		}
		if diff := cmp.Diff(map[string]string{"api": "s3cr3t", "other": "x"}, turn.VolunteeredSecrets); diff != "" {
			t.Errorf("VolunteeredSecrets mismatch (-want +got):\n%s", diff)
		}
		if strings.Contains(msg.Text(), "s3cr3t") {
			t.Error("secret leaked into message text")
		}

		if _, _, err := buildTurn("no pairs here", pending); err == nil {
			t.Error("buildTurn() expected error without name=value pairs")
		}
	})

	t.Run("approval", func(t *testing.T) {
		t.Parallel()

		pending := &chat.Result{
			Kind:     chat.ResultApprovalRequired,
			Approval: &extension.ApprovalRequest{ID: "ap1", Action: "delete"},
		}
		tests := map[string]extension.ApprovalDecision{
			"y":       extension.ApprovalApprove,
			"Approve": extension.ApprovalApprove,
			"n":       extension.ApprovalReject,
			"maybe":   extension.ApprovalReject,
		}
		ex := extension.NewExtractor[extension.ApprovalResponse](extension.ApprovalURI, nil)
		for answer, want := range tests {
			msg, _, err := buildTurn(answer, pending)
			if err != nil {
				t.Fatalf("buildTurn(%q) error = %v", answer, err)
			}
			got, ok := ex.Extract(msg.Metadata)
			if !ok {
				t.Fatalf("buildTurn(%q) metadata lacks approval response", answer)
			}
			if diff := cmp.Diff(extension.ApprovalResponse{ID: "ap1", Decision: want}, got); diff != "" {
				t.Errorf("buildTurn(%q) mismatch (-want +got):\n%s", answer, diff)
			}
		}
	})
}

func TestParseEdit(t *testing.T) {
	t.Parallel()

	art := &content.ArtifactPart{
		ArtifactID: "a1",
		Parts:      []content.Part{&content.TextPart{ID: "p1", Text: "**bold** text"}},
	}

	msg, err := parseEdit("9:13 shout it", art)
	if err != nil {
		t.Fatalf("parseEdit() error = %v", err)
	}
	got, ok := extension.NewExtractor[extension.CanvasEditRequest](extension.CanvasURI, nil).Extract(msg.Metadata)
	if !ok {
		t.Fatal("metadata lacks canvas edit request")
	}
	want := extension.CanvasEditRequest{StartIndex: 9, EndIndex: 13, Description: "shout it", ArtifactID: "a1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseEdit() mismatch (-want +got):\n%s", diff)
	}

	for _, arg := range []string{"9:13", "x:13 go", "9-13 go", "9:99 go", "13:9 go"} {
		if _, err := parseEdit(arg, art); err == nil {
			t.Errorf("parseEdit(%q) expected error", arg)
		}
	}
	if _, err := parseEdit("0:1 go", nil); err == nil {
		t.Error("parseEdit() expected error without artifact")
	}

	accented := &content.ArtifactPart{
		ArtifactID: "a2",
		Parts:      []content.Part{&content.TextPart{ID: "p2", Text: "**gras** très"}},
	}
	if _, err := parseEdit("9:13 go", accented); err != nil {
		t.Errorf("parseEdit() over accented text error = %v", err)
	}
	if _, err := parseEdit("9:14 go", accented); err == nil {
		t.Error("parseEdit() accepted an end past the last character")
	}
}

func TestLastArtifact(t *testing.T) {
	t.Parallel()

	msg := content.NewMessage(a2a.RoleAgent)
	msg.Parts = []content.Part{
		&content.ArtifactPart{ID: "x", ArtifactID: "a1"},
		&content.TextPart{ID: "t", Text: "between"},
		&content.ArtifactPart{ID: "y", ArtifactID: "a2"},
	}
	if got := lastArtifact(msg); got == nil || got.ArtifactID != "a2" {
		t.Errorf("lastArtifact() = %+v, want a2", got)
	}
	if got := lastArtifact(nil); got != nil {
		t.Errorf("lastArtifact(nil) = %+v, want nil", got)
	}
}

func TestDescribeResult(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		res  *chat.Result
		want string
	}{
		"oauth": {
			res:  &chat.Result{Kind: chat.ResultOAuthRequired, AuthorizationURL: "https://auth"},
			want: "authorize at https://auth",
		},
		"secrets sorted": {
			res: &chat.Result{Kind: chat.ResultSecretRequired, Secrets: map[string]extension.SecretDemand{
				"b": {Name: "B"}, "a": {Name: "A"},
			}},
			want: "secrets requested (name=value): a, b",
		},
		"input text": {
			res:  &chat.Result{Kind: chat.ResultInputRequired, Text: "Which city?"},
			want: "Which city?",
		},
		"input empty": {
			res:  &chat.Result{Kind: chat.ResultInputRequired},
			want: "the agent is waiting for input",
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := describeResult(tt.res); got != tt.want {
				t.Errorf("describeResult() = %q, want %q", got, tt.want)
			}
		})
	}
}
