// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package selection maps a text selection made in rendered markdown back to
// offsets in the markdown source. All offsets count code points.
//
// Rendered block elements are expected to carry the source offsets they were
// produced from, by default in the data-start and data-end attributes. Because
// markup present in the source is elided from the rendered text, the mapping
// snaps to the nearest occurrence of the selected text and is an
// approximation when that text recurs near the boundary.
package selection

import (
	"errors"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/go-a2a/a2a-chat/internal/runes"
)

// Default offset attributes.
const (
	DefaultStartAttr = "data-start"
	DefaultEndAttr   = "data-end"
)

var (
	// ErrPositionNotFound is returned when no boundary of the range lies below
	// an element carrying source offsets.
	ErrPositionNotFound = errors.New("position attributes not found")

	// ErrEmptySelection is returned when the range selects no text.
	ErrEmptySelection = errors.New("empty selection")
)

// Range is a boundary pair in a rendered node tree. As in the DOM, the offset
// of a text node boundary counts code points of its data and the offset of an
// element boundary counts its children.
type Range struct {
	StartContainer *html.Node
	StartOffset    int
	EndContainer   *html.Node
	EndOffset      int
}

// Result is the source span of a selection. StartIndex and EndIndex count code
// points of the source.
type Result struct {
	StartIndex int
	EndIndex   int
	Content    string
}

// Mapper maps selections to source offsets. A Mapper holds no mutable state
// and is safe for concurrent use.
type Mapper struct {
	startAttr string
	endAttr   string
}

// Option configures a [Mapper].
type Option func(*Mapper)

// WithAttributes sets the attribute names carrying the source offsets.
func WithAttributes(start, end string) Option {
	return func(m *Mapper) {
		m.startAttr = start
		m.endAttr = end
	}
}

// NewMapper returns a [Mapper].
func NewMapper(opts ...Option) *Mapper {
	m := &Mapper{
		startAttr: DefaultStartAttr,
		endAttr:   DefaultEndAttr,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var defaultMapper = NewMapper()

// Map maps r to source using the default attributes.
func Map(r Range, source string) (Result, error) {
	return defaultMapper.Map(r, source)
}

// span is an element carrying source offsets.
type span struct {
	node       *html.Node
	start, end int
}

// Map returns the span of source the selection r was rendered from.
func (m *Mapper) Map(r Range, source string) (Result, error) {
	if r.StartContainer == nil || r.EndContainer == nil {
		return Result{}, ErrEmptySelection
	}

	text, err := selectedText(r)
	if err != nil {
		return Result{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, ErrEmptySelection
	}

	startSpan, startOK := m.positioned(r.StartContainer)
	endSpan, endOK := m.positioned(r.EndContainer)
	switch {
	case !startOK && !endOK:
		return Result{}, ErrPositionNotFound
	case !startOK:
		startSpan = endSpan
	case !endOK:
		endSpan = startSpan
	}

	startSpan, endSpan = byteSpan(source, startSpan), byteSpan(source, endSpan)
	leading, trailing := firstLine(text), lastLine(text)

	startIndex := startSpan.start
	if startOK {
		if off, ok := textOffset(startSpan.node, r.StartContainer, r.StartOffset); ok {
			startIndex += off
		}
	}
	startIndex = clamp(startIndex, 0, len(source))
	spanEnd := clamp(max(startSpan.end, startIndex), 0, len(source))
	if i := strings.Index(source[startIndex:spanEnd], leading); i >= 0 {
		startIndex += i
	} else if i := strings.Index(source[clamp(startSpan.start, 0, startIndex):spanEnd], leading); i >= 0 {
		startIndex = clamp(startSpan.start, 0, startIndex) + i
	}

	bound := endSpan.end
	if endSpan.node == startSpan.node {
		bound = startSpan.end
	}
	bound = clamp(bound, startIndex, len(source))

	endIndex := startIndex + len(text)
	if i := strings.LastIndex(source[startIndex:bound], trailing); i >= 0 {
		endIndex = startIndex + i + len(trailing)
	}
	endIndex = clamp(endIndex, startIndex, len(source))

	return Result{
		StartIndex: runes.Offset(source, startIndex),
		EndIndex:   runes.Offset(source, endIndex),
		Content:    text,
	}, nil
}

// byteSpan converts the code point offsets of sp to byte offsets into source.
func byteSpan(source string, sp span) span {
	sp.start = runes.ByteOffset(source, sp.start)
	sp.end = runes.ByteOffset(source, sp.end)
	return sp
}

// positioned returns the nearest element at or above n carrying both offset
// attributes.
func (m *Mapper) positioned(n *html.Node) (span, bool) {
	for ; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		start, ok := intAttr(n, m.startAttr)
		if !ok {
			continue
		}
		end, ok := intAttr(n, m.endAttr)
		if !ok {
			continue
		}
		return span{node: n, start: start, end: end}, true
	}
	return span{}, false
}

func intAttr(n *html.Node, key string) (int, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			v, err := strconv.Atoi(strings.TrimSpace(a.Val))
			return v, err == nil
		}
	}
	return 0, false
}

// selectedText returns the text between the boundaries of r.
func selectedText(r Range) (string, error) {
	root := r.StartContainer
	for root.Parent != nil {
		root = root.Parent
	}

	start, ok := textOffset(root, r.StartContainer, r.StartOffset)
	if !ok {
		return "", ErrPositionNotFound
	}
	end, ok := textOffset(root, r.EndContainer, r.EndOffset)
	if !ok {
		return "", ErrPositionNotFound
	}
	if end <= start {
		return "", nil
	}

	all := textContent(root)
	return all[start:min(end, len(all))], nil
}

// textOffset returns the number of text bytes below root that precede the
// boundary (container, offset), offset counting code points of a text node. It reports false when container is not below
// root.
func textOffset(root, container *html.Node, offset int) (int, bool) {
	n := 0
	var walk func(*html.Node) bool
	walk = func(node *html.Node) bool {
		if node == container {
			if node.Type == html.TextNode {
				n += clamp(runes.ByteOffset(node.Data, offset), 0, len(node.Data))
				return true
			}
			i := 0
			for c := node.FirstChild; c != nil && i < offset; c = c.NextSibling {
				n += len(textContent(c))
				i++
			}
			return true
		}
		if node.Type == html.TextNode {
			n += len(node.Data)
			return false
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	return n, walk(root)
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
