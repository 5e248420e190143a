// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package runes converts between the code point offsets exchanged with agents
// and the byte offsets used to slice Go strings.
package runes

import "unicode/utf8"

// ByteOffset returns the byte offset of the n-th code point of s. Offsets past
// the end of s continue one byte per code point, so a span reaching beyond a
// chunk keeps its length.
func ByteOffset(s string, n int) int {
	if n <= 0 {
		return 0
	}
	i := 0
	for b := range s {
		if i == n {
			return b
		}
		i++
	}
	return len(s) + n - i
}

// Offset returns the number of code points of s before byte offset b. A b
// inside a multibyte sequence counts the code point it falls in as not yet
// reached.
func Offset(s string, b int) int {
	if b <= 0 {
		return 0
	}
	if b >= len(s) {
		return utf8.RuneCountInString(s) + b - len(s)
	}
	for b > 0 && !utf8.RuneStart(s[b]) {
		b--
	}
	return utf8.RuneCountInString(s[:b])
}

// Snap moves b back to the start of the code point containing it, clamped to
// [0, len(s)].
func Snap(s string, b int) int {
	b = min(max(b, 0), len(s))
	for b > 0 && b < len(s) && !utf8.RuneStart(s[b]) {
		b--
	}
	return b
}
