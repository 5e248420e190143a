// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package pool

import (
	"bytes"
	"testing"
)

func TestBytesPoolReset(t *testing.T) {
	t.Parallel()

	buf := Bytes.Get()
	buf.WriteString("payload")
	Bytes.Put(buf)

	buf = Bytes.Get()
	defer Bytes.Put(buf)
	if buf.Len() != 0 {
		t.Errorf("Len() = %d after Put, want 0", buf.Len())
	}
}

func TestBytesPoolDropsLargeBuffers(t *testing.T) {
	t.Parallel()

	large := bytes.NewBuffer(make([]byte, 0, 2*maxBufferSize))
	large.WriteString("kept")
	Bytes.Put(large)

	if large.Len() == 0 {
		t.Error("dropped buffer was reset")
	}
	buf := Bytes.Get()
	defer Bytes.Put(buf)
	if buf.Cap() > maxBufferSize {
		t.Errorf("Get() returned a buffer of capacity %d, want at most %d", buf.Cap(), maxBufferSize)
	}
}

type counter struct{ n int }

func (c *counter) Reset() { c.n = 0 }

func TestPoolResetter(t *testing.T) {
	t.Parallel()

	p := New(func() *counter { return &counter{} }, nil)
	c := p.Get()
	c.n = 3
	p.Put(c)
	if c.n != 0 {
		t.Errorf("Put did not reset: n = %d", c.n)
	}
}

func TestPoolKeep(t *testing.T) {
	t.Parallel()

	p := New(func() *counter { return &counter{} }, func(c *counter) bool { return c.n < 10 })
	c := &counter{n: 42}
	p.Put(c)
	if c.n != 42 {
		t.Errorf("rejected value was reset: n = %d", c.n)
	}
}
