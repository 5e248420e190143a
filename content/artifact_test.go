// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package content

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func placeholders(parts []Part) []*TransformPart {
	var out []*TransformPart
	for _, p := range parts {
		if t, ok := p.(*TransformPart); ok && t.Type == TransformArtifactPlaceholder {
			out = append(out, t)
		}
	}
	return out
}

func artifacts(parts []Part) []*ArtifactPart {
	var out []*ArtifactPart
	for _, p := range parts {
		if a, ok := p.(*ArtifactPart); ok {
			out = append(out, a)
		}
	}
	return out
}

func TestMergeArtifactUpdateGrowsPlaceholder(t *testing.T) {
	t.Parallel()

	parts := []Part{&TextPart{Text: "Intro: "}}

	parts, diag := MergeArtifactUpdate(parts, ArtifactUpdate{
		ArtifactID: "a1",
		Name:       "Report",
		Parts:      []Part{&TextPart{Text: "0123456789"}},
	})
	if diag != nil {
		t.Fatalf("unexpected inconsistency: %v", diag)
	}
	if n := len(artifacts(parts)); n != 1 {
		t.Fatalf("got %d artifact parts, want 1", n)
	}
	phs := placeholders(parts)
	if len(phs) != 1 {
		t.Fatalf("got %d placeholders, want 1", len(phs))
	}
	first := phs[0]
	if first.StartIndex != 7 || first.EndIndex-first.StartIndex != 10 {
		t.Errorf("placeholder range = [%d,%d), want 10 bytes from 7", first.StartIndex, first.EndIndex)
	}
	if got, want := RenderContent(parts), "Intro: [Report](artifact:a1)"; got != want {
		t.Errorf("RenderContent() = %q, want %q", got, want)
	}

	parts, diag = MergeArtifactUpdate(parts, ArtifactUpdate{
		ArtifactID: "a1",
		Parts:      []Part{&TextPart{Text: "abcde"}},
	})
	if diag != nil {
		t.Fatalf("unexpected inconsistency: %v", diag)
	}
	phs = placeholders(parts)
	if len(phs) != 1 || len(artifacts(parts)) != 1 {
		t.Fatalf("got %d placeholders and %d artifacts, want 1 and 1", len(phs), len(artifacts(parts)))
	}
	second := phs[0]
	if second.ID != first.ID {
		t.Errorf("placeholder replaced: ID %q, want %q", second.ID, first.ID)
	}
	if second.EndIndex-second.StartIndex != 15 {
		t.Errorf("placeholder covers %d bytes, want 15", second.EndIndex-second.StartIndex)
	}
	if got := RawText(parts); got != "Intro: 0123456789abcde" {
		t.Errorf("RawText() = %q", got)
	}
	if got, want := RenderContent(parts), "Intro: [Report](artifact:a1)"; got != want {
		t.Errorf("RenderContent() = %q, want %q", got, want)
	}
}

func TestMergeArtifactUpdateAfterTrailingText(t *testing.T) {
	t.Parallel()

	parts, _ := MergeArtifactUpdate([]Part{&TextPart{Text: "Intro: "}}, ArtifactUpdate{
		ArtifactID: "a1",
		Parts:      []Part{&TextPart{Text: "draft"}},
	})
	parts = SortParts(append(parts, &TextPart{Text: " Done."}))
	parts, _ = MergeArtifactUpdate(parts, ArtifactUpdate{
		ArtifactID: "a1",
		Parts:      []Part{&TextPart{Text: " v2"}},
	})

	if got, want := RenderContent(parts), "Intro: [a1](artifact:a1) Done."; got != want {
		t.Errorf("RenderContent() = %q, want %q", got, want)
	}
}

func TestMergeArtifactUpdateRepairsMissingPlaceholder(t *testing.T) {
	t.Parallel()

	start, end := 7, 10
	parts := []Part{
		&TextPart{Text: "Hi "},
		&ArtifactPart{ID: "p1", ArtifactID: "a1", Parts: []Part{&TextPart{Text: "abc"}}},
		&TextPart{Text: " see"},
		&CitationPart{ID: "c1", URL: "https://a", StartIndex: &start, EndIndex: &end},
		&TransformPart{ID: "g1", Type: TransformCitationGroup, StartIndex: 7, EndIndex: 10, Citations: []string{"c1"}},
	}

	got, diag := MergeArtifactUpdate(parts, ArtifactUpdate{
		ArtifactID: "a1",
		Parts:      []Part{&TextPart{Text: "de"}},
	})
	if diag == nil {
		t.Fatal("expected an inconsistency")
	}
	if diag.ArtifactID != "a1" {
		t.Errorf("Inconsistency.ArtifactID = %q, want a1", diag.ArtifactID)
	}

	phs := placeholders(got)
	if len(phs) != 1 {
		t.Fatalf("got %d placeholders, want 1", len(phs))
	}
	if phs[0].StartIndex != 3 || phs[0].EndIndex != 8 {
		t.Errorf("placeholder range = [%d,%d), want [3,8)", phs[0].StartIndex, phs[0].EndIndex)
	}
	if got, want := RenderContent(got), "Hi [a1](artifact:a1) [see](citation:1)"; got != want {
		t.Errorf("RenderContent() = %q, want %q", got, want)
	}
	for _, p := range got {
		if c, ok := p.(*CitationPart); ok && (*c.StartIndex != 9 || *c.EndIndex != 12) {
			t.Errorf("citation range = [%d,%d), want [9,12)", *c.StartIndex, *c.EndIndex)
		}
	}

	// the input is left untouched
	if a := parts[1].(*ArtifactPart); len(a.Parts) != 1 {
		t.Errorf("input artifact modified: %d parts", len(a.Parts))
	}
}

func TestMergeArtifactUpdateCitations(t *testing.T) {
	t.Parallel()

	u := ArtifactUpdate{
		ArtifactID: "a1",
		Parts: []Part{
			&TextPart{Text: "Go is fast"},
			&CitationPart{ID: "c1", URL: "https://go.dev", StartIndex: intp(0), EndIndex: intp(2)},
			NewCitationGroup(0, 2, "c1"),
		},
	}

	got, _ := MergeArtifactUpdate(nil, u)
	art, ok := FindArtifact(got, "a1")
	if !ok {
		t.Fatal("artifact not found")
	}

	if diff := cmp.Diff([]Kind{KindText, KindCitation, KindTransform}, kinds(art.Parts)); diff != "" {
		t.Errorf("artifact sub-parts mismatch (-want +got):\n%s", diff)
	}
	if got, want := RenderContent(art.Parts), "[Go](citation:1) is fast"; got != want {
		t.Errorf("RenderContent(artifact) = %q, want %q", got, want)
	}
	if got, want := RenderContent(got), "[a1](artifact:a1)"; got != want {
		t.Errorf("RenderContent(message) = %q, want %q", got, want)
	}
}
