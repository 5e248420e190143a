// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package content

import (
	"fmt"
	"slices"
)

// ArtifactUpdate carries the sub-parts received for an artifact in one event.
// Citation indices of Parts are relative to the artifact's own raw text.
type ArtifactUpdate struct {
	ArtifactID  string
	Name        string
	Description string
	Parts       []Part
}

// Inconsistency reports a message that broke the pairing between an artifact
// part and its placeholder transform. The merge repairs it.
type Inconsistency struct {
	ArtifactID string
	Reason     string
}

// String implements [fmt.Stringer].
func (i *Inconsistency) String() string {
	return fmt.Sprintf("artifact %s: %s", i.ArtifactID, i.Reason)
}

// MergeArtifactUpdate folds u into parts and returns the sorted result.
//
// The first update for an artifact appends an artifact part and a placeholder
// transform starting at the raw text length accumulated before the artifact.
// Later updates append to the artifact's sub-parts and stretch the placeholder
// over the whole artifact text; citations and transforms recorded after the
// artifact are moved by the number of bytes it grew. When the placeholder is
// missing a new one is built and the returned [*Inconsistency] describes the
// repair.
func MergeArtifactUpdate(parts []Part, u ArtifactUpdate) ([]Part, *Inconsistency) {
	out := slices.Clone(parts)

	idx := slices.IndexFunc(out, func(p Part) bool {
		a, ok := p.(*ArtifactPart)
		return ok && a.ArtifactID == u.ArtifactID
	})
	if idx < 0 {
		start := len(RawText(out))
		art := &ArtifactPart{
			ID:          newID(),
			ArtifactID:  u.ArtifactID,
			Name:        u.Name,
			Description: u.Description,
			Parts:       SortParts(u.Parts),
		}
		ph := NewArtifactPlaceholder(art.ArtifactID, art.Label(), start, len(RawText(art.Parts)))
		return SortParts(append(out, art, ph)), nil
	}

	art := *out[idx].(*ArtifactPart)
	oldLength := len(RawText(art.Parts))
	art.Parts = SortParts(append(slices.Clone(art.Parts), u.Parts...))
	if u.Name != "" {
		art.Name = u.Name
	}
	if u.Description != "" {
		art.Description = u.Description
	}
	out[idx] = &art
	length := len(RawText(art.Parts))

	phIdx := slices.IndexFunc(out, func(p Part) bool {
		t, ok := p.(*TransformPart)
		return ok && t.Type == TransformArtifactPlaceholder && t.ArtifactID == u.ArtifactID
	})
	if phIdx < 0 {
		start := len(RawText(out[:idx]))
		shiftAfter(out, start+oldLength, length-oldLength, "")
		ph := NewArtifactPlaceholder(art.ArtifactID, art.Label(), start, length)
		return SortParts(append(out, ph)), &Inconsistency{
			ArtifactID: u.ArtifactID,
			Reason:     "placeholder transform missing, rebuilt",
		}
	}

	ph := *out[phIdx].(*TransformPart)
	shiftAfter(out, ph.EndIndex, length-oldLength, ph.ID)
	ph.EndIndex = ph.StartIndex + length
	ph.Label = art.Label()
	out[phIdx] = &ph
	return SortParts(out), nil
}

// shiftAfter moves the top-level citations and transforms starting at or after
// pos by delta, skipping the transform identified by skipID.
func shiftAfter(parts []Part, pos, delta int, skipID string) {
	if delta == 0 {
		return
	}
	for i, p := range parts {
		switch p := p.(type) {
		case *TransformPart:
			if p.ID == skipID || p.StartIndex < pos {
				continue
			}
			t := *p
			t.StartIndex += delta
			t.EndIndex += delta
			parts[i] = &t
		case *CitationPart:
			if p.StartIndex == nil || *p.StartIndex < pos {
				continue
			}
			c := *p
			c.StartIndex = shift(p.StartIndex, delta)
			c.EndIndex = shift(p.EndIndex, delta)
			parts[i] = &c
		}
	}
}

// FindArtifact returns the artifact part for artifactID.
func FindArtifact(parts []Part, artifactID string) (*ArtifactPart, bool) {
	for _, p := range parts {
		if a, ok := p.(*ArtifactPart); ok && a.ArtifactID == artifactID {
			return a, true
		}
	}
	return nil, false
}
