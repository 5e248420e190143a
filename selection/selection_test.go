// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package selection

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parse(t *testing.T, s string) *html.Node {
	t.Helper()

	doc, err := html.Parse(strings.NewReader(s))
	require.NoError(t, err)
	return doc
}

func findText(n *html.Node, data string) *html.Node {
	if n.Type == html.TextNode && n.Data == data {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findText(c, data); found != nil {
			return found
		}
	}
	return nil
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func TestMapSkipsElidedMarkup(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<p data-start="0" data-end="13"><strong>bold</strong> text</p>`)
	txt := findText(doc, " text")
	require.NotNil(t, txt)

	got, err := Map(Range{StartContainer: txt, StartOffset: 1, EndContainer: txt, EndOffset: 5}, "**bold** text")
	require.NoError(t, err)
	assert.Equal(t, Result{StartIndex: 9, EndIndex: 13, Content: "text"}, got)
}

func TestMapCountsCodePoints(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<p data-start="0" data-end="14"><strong>café</strong> crème</p>`)
	txt := findText(doc, " crème")
	require.NotNil(t, txt)

	got, err := Map(Range{StartContainer: txt, StartOffset: 1, EndContainer: txt, EndOffset: 6}, "**café** crème")
	require.NoError(t, err)
	assert.Equal(t, Result{StartIndex: 9, EndIndex: 14, Content: "crème"}, got)
}

func TestMapElementBoundaries(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<p data-start="0" data-end="13"><strong>bold</strong> text</p>`)
	p := findElement(doc, "p")
	require.NotNil(t, p)

	got, err := Map(Range{StartContainer: p, StartOffset: 0, EndContainer: p, EndOffset: 1}, "**bold** text")
	require.NoError(t, err)
	assert.Equal(t, Result{StartIndex: 2, EndIndex: 6, Content: "bold"}, got)
}

func TestMapAcrossBlocks(t *testing.T) {
	t.Parallel()

	const source = "# Title\n\nHello *world*"
	doc := parse(t, "<h1 data-start=\"0\" data-end=\"7\">Title</h1>\n<p data-start=\"9\" data-end=\"22\">Hello <em>world</em></p>")
	title := findText(doc, "Title")
	hello := findText(doc, "Hello ")
	require.NotNil(t, title)
	require.NotNil(t, hello)

	got, err := Map(Range{StartContainer: title, StartOffset: 0, EndContainer: hello, EndOffset: 5}, source)
	require.NoError(t, err)
	assert.Equal(t, 2, got.StartIndex)
	assert.Equal(t, 14, got.EndIndex)
	assert.Equal(t, "Title\nHello", got.Content)
	assert.Equal(t, "Title\n\nHello", source[got.StartIndex:got.EndIndex])
}

func TestMapUntethered(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<p>plain words</p>`)
	txt := findText(doc, "plain words")
	require.NotNil(t, txt)

	_, err := Map(Range{StartContainer: txt, StartOffset: 0, EndContainer: txt, EndOffset: 5}, "plain words")
	assert.ErrorIs(t, err, ErrPositionNotFound)
}

func TestMapEmptySelection(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<p data-start="0" data-end="5">hello</p>`)
	txt := findText(doc, "hello")
	require.NotNil(t, txt)

	tests := map[string]Range{
		"collapsed":  {StartContainer: txt, StartOffset: 2, EndContainer: txt, EndOffset: 2},
		"reversed":   {StartContainer: txt, StartOffset: 4, EndContainer: txt, EndOffset: 1},
		"nil bounds": {},
	}
	for name, r := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := Map(r, "hello")
			assert.ErrorIs(t, err, ErrEmptySelection)
		})
	}
}

func TestMapperWithAttributes(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<li data-src-start="2" data-src-end="12">item <code>x</code></li>`)
	txt := findText(doc, "x")
	require.NotNil(t, txt)

	r := Range{StartContainer: txt, StartOffset: 0, EndContainer: txt, EndOffset: 1}

	_, err := Map(r, "- item `x`")
	assert.ErrorIs(t, err, ErrPositionNotFound)

	m := NewMapper(WithAttributes("data-src-start", "data-src-end"))
	got, err := m.Map(r, "- item `x`")
	require.NoError(t, err)
	assert.Equal(t, Result{StartIndex: 8, EndIndex: 9, Content: "x"}, got)
}
