// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package content

import (
	"cmp"
	"fmt"
	"slices"
)

type citationKey struct {
	url   string
	title string
}

// SortParts returns parts in canonical order: every content part in encounter
// order, then citations sorted by StartIndex, then transforms sorted by
// StartIndex.
//
// Citations without a StartIndex sort last. Citations are numbered from 1 in
// sorted order and citations sharing a URL and title share a number.
// Citation-group transforms with the same StartIndex are merged into the first
// of them. SortParts does not modify parts and is idempotent.
func SortParts(parts []Part) []Part {
	var (
		others     []Part
		citations  []*CitationPart
		transforms []*TransformPart
	)
	for _, p := range parts {
		switch p := p.(type) {
		case *CitationPart:
			citations = append(citations, p)
		case *TransformPart:
			transforms = append(transforms, p)
		case *TextPart, *FilePart, *DataPart, *ArtifactPart, *TrajectoryPart,
			*FormRequestPart, *OAuthRequestPart, *SecretRequestPart,
			*ApprovalRequestPart, *ApprovalResponsePart:
			others = append(others, p)
		default:
			panic(fmt.Sprintf("content: unknown part type %T", p))
		}
	}

	slices.SortStableFunc(citations, func(a, b *CitationPart) int {
		return compareIndex(a.StartIndex, b.StartIndex)
	})

	numbers := make(map[citationKey]int, len(citations))
	byID := make(map[string]int, len(citations))
	out := make([]Part, 0, len(parts))
	out = append(out, others...)
	for _, c := range citations {
		key := citationKey{url: c.URL, title: c.Title}
		n, ok := numbers[key]
		if !ok {
			n = len(numbers) + 1
			numbers[key] = n
		}
		byID[c.ID] = n

		numbered := *c
		numbered.Number = n
		out = append(out, &numbered)
	}

	merged := mergeCitationGroups(transforms)
	slices.SortStableFunc(merged, func(a, b *TransformPart) int {
		return cmp.Compare(a.StartIndex, b.StartIndex)
	})
	for _, t := range merged {
		if t.Type == TransformCitationGroup {
			t.Numbers = groupNumbers(t.Citations, byID)
		}
		out = append(out, t)
	}
	return out
}

// compareIndex orders optional indices with nil treated as +∞.
func compareIndex(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return cmp.Compare(*a, *b)
	}
}

// mergeCitationGroups returns copies of transforms with citation groups sharing
// a StartIndex folded into the first one.
func mergeCitationGroups(transforms []*TransformPart) []*TransformPart {
	out := make([]*TransformPart, 0, len(transforms))
	groups := make(map[int]*TransformPart)
	for _, t := range transforms {
		if t.Type != TransformCitationGroup {
			c := *t
			out = append(out, &c)
			continue
		}
		if first, ok := groups[t.StartIndex]; ok {
			for _, id := range t.Citations {
				if !slices.Contains(first.Citations, id) {
					first.Citations = append(first.Citations, id)
				}
			}
			continue
		}
		c := *t
		c.Citations = slices.Clone(t.Citations)
		groups[t.StartIndex] = &c
		out = append(out, &c)
	}
	return out
}

func groupNumbers(citationIDs []string, byID map[string]int) []int {
	var nums []int
	for _, id := range citationIDs {
		if n, ok := byID[id]; ok && !slices.Contains(nums, n) {
			nums = append(nums, n)
		}
	}
	slices.Sort(nums)
	return nums
}
