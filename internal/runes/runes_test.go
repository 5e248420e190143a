// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package runes

import (
	"testing"
)

func TestByteOffset(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		s    string
		n    int
		want int
	}{
		"ascii":          {s: "hello", n: 3, want: 3},
		"after accent":   {s: "café au lait", n: 4, want: 5},
		"before accent":  {s: "café", n: 3, want: 3},
		"cjk":            {s: "日本語", n: 2, want: 6},
		"end":            {s: "日本語", n: 3, want: 9},
		"past end":       {s: "né", n: 4, want: 5},
		"negative":       {s: "abc", n: -1, want: 0},
		"empty past end": {s: "", n: 2, want: 2},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := ByteOffset(tt.s, tt.n); got != tt.want {
				t.Errorf("ByteOffset(%q, %d) = %d, want %d", tt.s, tt.n, got, tt.want)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		s    string
		b    int
		want int
	}{
		"ascii":         {s: "hello", b: 2, want: 2},
		"after accent":  {s: "café au lait", b: 5, want: 4},
		"inside accent": {s: "café", b: 4, want: 3},
		"past end":      {s: "né", b: 5, want: 4},
		"zero":          {s: "né", b: 0, want: 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := Offset(tt.s, tt.b); got != tt.want {
				t.Errorf("Offset(%q, %d) = %d, want %d", tt.s, tt.b, got, tt.want)
			}
		})
	}
}

func TestSnap(t *testing.T) {
	t.Parallel()

	s := "café"
	for b, want := range map[int]int{-1: 0, 3: 3, 4: 3, 5: 5, 9: 5} {
		if got := Snap(s, b); got != want {
			t.Errorf("Snap(%q, %d) = %d, want %d", s, b, got, want)
		}
	}
}
