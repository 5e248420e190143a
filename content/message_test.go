// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package content

import (
	"testing"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/go-cmp/cmp"

	a2a "github.com/go-a2a/a2a-chat"
	"github.com/go-a2a/a2a-chat/extension"
)

func agentChunk(text string, meta string) *a2a.Message {
	msg := &a2a.Message{
		Kind:      a2a.KindMessage,
		Role:      a2a.RoleAgent,
		MessageID: "m",
		Parts:     []a2a.Part{a2a.NewTextPart(text)},
	}
	if meta != "" {
		msg.Metadata = jsontext.Value(meta)
	}
	return msg
}

func TestAppendChunkShiftsCitations(t *testing.T) {
	t.Parallel()

	ex := extension.DefaultExtractors()
	m := NewMessage(a2a.RoleAgent)

	m.AppendChunk(agentChunk("Hello ", ""), ex)
	m.AppendChunk(agentChunk("world", `{"`+extension.CitationURI+`":{"citations":[`+
		`{"url":"https://example.com","title":"Example","start_index":0,"end_index":5}]}}`), ex)

	var citation *CitationPart
	for _, p := range m.Parts {
		if c, ok := p.(*CitationPart); ok {
			citation = c
		}
	}
	if citation == nil {
		t.Fatal("citation part not found")
	}
	if *citation.StartIndex != 6 || *citation.EndIndex != 11 {
		t.Errorf("citation range = [%d,%d), want [6,11)", *citation.StartIndex, *citation.EndIndex)
	}
	if citation.Number != 1 {
		t.Errorf("citation Number = %d, want 1", citation.Number)
	}

	if got, want := m.Content(), "Hello [world](citation:1)"; got != want {
		t.Errorf("Content() = %q, want %q", got, want)
	}
}

func TestAppendChunkCitationsCountCodePoints(t *testing.T) {
	t.Parallel()

	ex := extension.DefaultExtractors()
	m := NewMessage(a2a.RoleAgent)

	m.AppendChunk(agentChunk("Héllo ", ""), ex)
	m.AppendChunk(agentChunk("wörld!", `{"`+extension.CitationURI+`":{"citations":[`+
		`{"url":"https://example.com","title":"Example","start_index":0,"end_index":5}]}}`), ex)

	for _, p := range m.Parts {
		if c, ok := p.(*CitationPart); ok && (*c.StartIndex != 7 || *c.EndIndex != 13) {
			t.Errorf("citation range = [%d,%d), want [7,13)", *c.StartIndex, *c.EndIndex)
		}
	}
	if got, want := m.Content(), "Héllo [wörld](citation:1)!"; got != want {
		t.Errorf("Content() = %q, want %q", got, want)
	}
}

func TestFromMessageParts(t *testing.T) {
	t.Parallel()

	msg := &a2a.Message{
		Role: a2a.RoleAgent,
		Parts: []a2a.Part{
			a2a.NewTextPart("text"),
			{Kind: a2a.PartKindFile, File: &a2a.FileContent{Name: "a.png", MimeType: "image/png", URI: "https://x/a.png"}},
			{Kind: a2a.PartKindFile},
			a2a.NewDataPart(map[string]any{"k": "v"}),
			{Kind: "video"},
		},
		Metadata: jsontext.Value(`{"` + extension.TrajectoryURI + `":{"title":"search","content":"looking up"}}`),
	}

	got := FromMessage(msg, extension.DefaultExtractors(), 0)
	want := []Kind{KindText, KindFile, KindData, KindTrajectory}
	if diff := cmp.Diff(want, kinds(got)); diff != "" {
		t.Errorf("FromMessage() kinds mismatch (-want +got):\n%s", diff)
	}
	if f := got[1].(*FilePart); f.Name != "a.png" || f.URI != "https://x/a.png" {
		t.Errorf("file part = %+v", f)
	}
	if tr := got[3].(*TrajectoryPart); tr.Title != "search" || tr.Content != "looking up" {
		t.Errorf("trajectory part = %+v", tr)
	}

	if got := FromMessage(nil, extension.DefaultExtractors(), 0); got != nil {
		t.Errorf("FromMessage(nil) = %v, want nil", got)
	}
	if got := FromMessage(msg, extension.Extractors{}, 0); len(got) != 3 {
		t.Errorf("FromMessage() without extractors returned %d parts, want 3", len(got))
	}
}

type event struct {
	chunk    *a2a.Message
	artifact *a2a.Artifact
}

func replay(events []event) string {
	ex := extension.DefaultExtractors()
	m := NewMessage(a2a.RoleAgent)
	for _, ev := range events {
		switch {
		case ev.chunk != nil:
			m.AppendChunk(ev.chunk, ex)
		case ev.artifact != nil:
			m.MergeArtifact(ev.artifact, ex)
		}
	}
	return m.Content()
}

func TestRenderContentDeterministic(t *testing.T) {
	t.Parallel()

	citations := `{"` + extension.CitationURI + `":{"citations":[` +
		`{"url":"https://a","title":"A","start_index":0,"end_index":3},` +
		`{"url":"https://b","title":"B","start_index":4,"end_index":8},` +
		`{"url":"https://a","title":"A","start_index":4,"end_index":8}]}}`
	events := []event{
		{chunk: agentChunk("Plan: ", "")},
		{artifact: &a2a.Artifact{ArtifactID: "a1", Name: "Draft", Parts: []a2a.Part{a2a.NewTextPart("first")}}},
		{chunk: agentChunk("The plan is ready.", citations)},
		{artifact: &a2a.Artifact{ArtifactID: "a1", Parts: []a2a.Part{a2a.NewTextPart(" second")}}},
		{chunk: agentChunk(" Bye.", "")},
	}

	first := replay(events)
	second := replay(events)
	if first != second {
		t.Fatalf("replay differs:\n%q\n%q", first, second)
	}

	want := "Plan: [Draft](artifact:a1)[The](citation:1) [plan](citation:1,2) is ready. Bye."
	if first != want {
		t.Errorf("Content() = %q, want %q", first, want)
	}
}

func TestMessageMergeArtifactBase(t *testing.T) {
	t.Parallel()

	ex := extension.DefaultExtractors()
	m := NewMessage(a2a.RoleAgent)
	m.MergeArtifact(&a2a.Artifact{ArtifactID: "a1", Parts: []a2a.Part{a2a.NewTextPart("Go is ")}}, ex)
	m.MergeArtifact(&a2a.Artifact{
		ArtifactID: "a1",
		Parts:      []a2a.Part{a2a.NewTextPart("fast")},
		Metadata: jsontext.Value(`{"` + extension.CitationURI + `":{"citations":[` +
			`{"url":"https://go.dev","title":"Go","start_index":0,"end_index":4}]}}`),
	}, ex)

	art, ok := FindArtifact(m.Parts, "a1")
	if !ok {
		t.Fatal("artifact not found")
	}
	if got, want := RenderContent(art.Parts), "Go is [fast](citation:1)"; got != want {
		t.Errorf("artifact content = %q, want %q", got, want)
	}
}

func TestMessageClone(t *testing.T) {
	t.Parallel()

	m := NewMessage(a2a.RoleAgent)
	m.Append(&TextPart{Text: "a"})
	c := m.Clone()
	m.Append(&TextPart{Text: "b"})

	if got := c.RawText(); got != "a" {
		t.Errorf("clone RawText() = %q, want %q", got, "a")
	}
	if c.Finished() {
		t.Error("in-progress clone reports finished")
	}
}
