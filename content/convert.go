// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package content

import (
	"strings"

	"github.com/go-json-experiment/json/jsontext"

	a2a "github.com/go-a2a/a2a-chat"
	"github.com/go-a2a/a2a-chat/extension"
	"github.com/go-a2a/a2a-chat/internal/runes"
)

// FromMessage converts an agent message chunk into parts.
//
// Citation indices in the message metadata count code points of the chunk's
// text. They are converted to byte offsets and shifted by base, the raw text
// length in bytes accumulated before the chunk.
func FromMessage(msg *a2a.Message, ex extension.Extractors, base int) []Part {
	if msg == nil {
		return nil
	}
	parts := FromWireParts(msg.Parts)
	parts = append(parts, fromMetadata(msg.Metadata, wireText(msg.Parts), ex, base)...)
	return parts
}

// FromArtifact converts an artifact chunk into an [ArtifactUpdate]. base is the
// raw text length of the artifact accumulated before the chunk.
func FromArtifact(a *a2a.Artifact, ex extension.Extractors, base int) ArtifactUpdate {
	parts := FromWireParts(a.Parts)
	parts = append(parts, fromMetadata(a.Metadata, wireText(a.Parts), ex, base)...)
	return ArtifactUpdate{
		ArtifactID:  a.ArtifactID,
		Name:        a.Name,
		Description: a.Description,
		Parts:       parts,
	}
}

// FromWireParts converts wire parts. Parts of unknown kind are dropped.
func FromWireParts(wire []a2a.Part) []Part {
	parts := make([]Part, 0, len(wire))
	for _, wp := range wire {
		switch wp.Kind {
		case a2a.PartKindText:
			parts = append(parts, &TextPart{ID: newID(), Text: wp.Text})
		case a2a.PartKindFile:
			if wp.File == nil {
				continue
			}
			parts = append(parts, &FilePart{
				ID:       newID(),
				Name:     wp.File.Name,
				MimeType: wp.File.MimeType,
				URI:      wp.File.URI,
				Bytes:    wp.File.Bytes,
			})
		case a2a.PartKindData:
			parts = append(parts, &DataPart{ID: newID(), Data: wp.Data})
		}
	}
	return parts
}

func wireText(wire []a2a.Part) string {
	var sb strings.Builder
	for _, wp := range wire {
		if wp.Kind == a2a.PartKindText {
			sb.WriteString(wp.Text)
		}
	}
	return sb.String()
}

func fromMetadata(meta jsontext.Value, text string, ex extension.Extractors, base int) []Part {
	if len(meta) == 0 {
		return nil
	}

	var parts []Part
	if ex.Citation != nil {
		if cm, ok := ex.Citation.Extract(meta); ok {
			parts = append(parts, citationParts(cm.Citations, text, base)...)
		}
	}
	if ex.Trajectory != nil {
		if tr, ok := ex.Trajectory.Extract(meta); ok {
			parts = append(parts, &TrajectoryPart{
				ID:      newID(),
				Title:   tr.Title,
				Content: tr.Content,
				GroupID: tr.GroupID,
			})
		}
	}
	return parts
}

// citationParts expands each citation into a citation part and, when its range
// is known, a citation-group transform over that range.
func citationParts(citations []extension.Citation, text string, base int) []Part {
	parts := make([]Part, 0, 2*len(citations))
	for _, c := range citations {
		cp := &CitationPart{
			ID:          newID(),
			URL:         c.URL,
			Title:       c.Title,
			Description: c.Description,
			StartIndex:  shift(byteOffset(text, c.StartIndex), base),
			EndIndex:    shift(byteOffset(text, c.EndIndex), base),
		}
		parts = append(parts, cp)
		if cp.StartIndex != nil && cp.EndIndex != nil {
			parts = append(parts, NewCitationGroup(*cp.StartIndex, *cp.EndIndex, cp.ID))
		}
	}
	return parts
}

func byteOffset(text string, i *int) *int {
	if i == nil {
		return nil
	}
	b := runes.ByteOffset(text, *i)
	return &b
}

func shift(i *int, base int) *int {
	if i == nil {
		return nil
	}
	v := *i + base
	return &v
}
