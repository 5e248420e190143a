// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package content

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-a2a/a2a-chat/internal/runes"
)

// TransformType identifies the rewrite performed by a [TransformPart].
type TransformType string

// Transform types.
const (
	// TransformCitationGroup wraps a cited range in a citation link.
	TransformCitationGroup TransformType = "citation-group"
	// TransformArtifactPlaceholder replaces the text of an artifact with a link to it.
	TransformArtifactPlaceholder TransformType = "artifact-placeholder"
	// TransformCustom runs Fn.
	TransformCustom TransformType = "custom"
)

// TransformPart rewrites rendered content at a position recorded against the
// untransformed raw text.
//
// StartIndex and EndIndex are byte offsets into the raw text captured when the
// transform was created. Apply receives the sum of the length changes made by
// the transforms applied before it and shifts its range accordingly.
type TransformPart struct {
	ID         string
	Type       TransformType
	StartIndex int
	EndIndex   int

	// Citations holds the ids of the grouped citation parts and Numbers their
	// sequence numbers, resolved by SortParts.
	Citations []string
	Numbers   []int

	ArtifactID string
	Label      string

	// Fn implements a TransformCustom rewrite.
	Fn func(content string, offset int) string
}

// NewCitationGroup returns a transform linking raw[start:end] to the citations.
func NewCitationGroup(start, end int, citationIDs ...string) *TransformPart {
	return &TransformPart{
		ID:         newID(),
		Type:       TransformCitationGroup,
		StartIndex: start,
		EndIndex:   end,
		Citations:  citationIDs,
	}
}

// NewArtifactPlaceholder returns a transform replacing length bytes of raw text
// starting at start with a link to the artifact.
func NewArtifactPlaceholder(artifactID, label string, start, length int) *TransformPart {
	return &TransformPart{
		ID:         newID(),
		Type:       TransformArtifactPlaceholder,
		StartIndex: start,
		EndIndex:   start + length,
		ArtifactID: artifactID,
		Label:      label,
	}
}

// NewTransform returns a custom transform positioned at start.
func NewTransform(start int, fn func(content string, offset int) string) *TransformPart {
	return &TransformPart{
		ID:         newID(),
		Type:       TransformCustom,
		StartIndex: start,
		Fn:         fn,
	}
}

// Apply rewrites content. offset is the cumulative length change of the
// transforms applied before this one. A transform without a Type leaves
// content unchanged.
func (t *TransformPart) Apply(content string, offset int) string {
	switch t.Type {
	case "":
		return content

	case TransformCitationGroup:
		s, e := clampRange(content, t.StartIndex+offset, t.EndIndex+offset)
		return content[:s] + citationLink(content[s:e], t.citationRefs()) + content[e:]

	case TransformArtifactPlaceholder:
		s, e := clampRange(content, t.StartIndex+offset, t.EndIndex+offset)
		return content[:s] + ArtifactLink(t.Label, t.ArtifactID) + content[e:]

	case TransformCustom:
		if t.Fn == nil {
			return content
		}
		return t.Fn(content, offset)

	default:
		panic(fmt.Sprintf("content: unknown transform type %q", t.Type))
	}
}

func (t *TransformPart) citationRefs() []string {
	if len(t.Numbers) == 0 {
		return t.Citations
	}
	refs := make([]string, len(t.Numbers))
	for i, n := range t.Numbers {
		refs[i] = strconv.Itoa(n)
	}
	return refs
}

func citationLink(text string, refs []string) string {
	return "[" + text + "](citation:" + strings.Join(refs, ",") + ")"
}

// ArtifactLink returns the markdown reference rendered in place of an artifact.
func ArtifactLink(label, artifactID string) string {
	return "[" + label + "](artifact:" + artifactID + ")"
}

// clampRange bounds [s, e) to content and widens it to whole code points.
func clampRange(content string, s, e int) (int, int) {
	s = runes.Snap(content, s)
	e = min(max(e, s), len(content))
	if e < len(content) && e > s {
		if snapped := runes.Snap(content, e); snapped != e {
			_, size := utf8.DecodeRuneInString(content[snapped:])
			e = snapped + size
		}
	}
	return s, e
}

// RawText concatenates the text parts in array order. An artifact contributes
// the raw text of its own sub-parts at its position.
func RawText(parts []Part) string {
	var sb strings.Builder
	writeRaw(&sb, parts)
	return sb.String()
}

func writeRaw(sb *strings.Builder, parts []Part) {
	for _, p := range parts {
		switch p := p.(type) {
		case *TextPart:
			sb.WriteString(p.Text)
		case *ArtifactPart:
			writeRaw(sb, p.Parts)
		}
	}
}

// RenderContent sorts parts and folds every transform over their raw text.
func RenderContent(parts []Part) string {
	sorted := SortParts(parts)
	content := RawText(sorted)
	offset := 0
	for _, p := range sorted {
		t, ok := p.(*TransformPart)
		if !ok {
			continue
		}
		before := len(content)
		content = t.Apply(content, offset)
		offset += len(content) - before
	}
	return content
}
