// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

func signedToken(t *testing.T, exp time.Time, claims map[string]any) string {
	t.Helper()

	b := jwt.NewBuilder().Subject("user-1")
	if !exp.IsZero() {
		b = b.Expiration(exp)
	}
	for k, v := range claims {
		b = b.Claim(k, v)
	}
	tok, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256(), []byte("platform-secret")))
	if err != nil {
		t.Fatal(err)
	}
	return string(signed)
}

func TestParseContextToken(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := signedToken(t, exp, map[string]any{
		ClaimContextID: "ctx-1",
		ClaimScope:     "llm embeddings",
	})

	got, err := ParseContextToken(raw, "ctx-1")
	if err != nil {
		t.Fatalf("ParseContextToken() error = %v", err)
	}

	want := &ContextToken{
		Token:     raw,
		ExpiresAt: exp,
		ContextID: "ctx-1",
		Scopes:    []string{"llm", "embeddings"},
	}
	if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b time.Time) bool { return a.Equal(b) })); diff != "" {
		t.Errorf("ParseContextToken() mismatch (-want +got):\n%s", diff)
	}
	if !got.HasScope("llm") || got.HasScope("mcp") {
		t.Errorf("HasScope() wrong for scopes %v", got.Scopes)
	}
}

func TestParseContextTokenErrors(t *testing.T) {
	t.Parallel()

	t.Run("expired", func(t *testing.T) {
		t.Parallel()

		raw := signedToken(t, time.Now().Add(-time.Minute), nil)
		if _, err := ParseContextToken(raw, "ctx"); !errors.Is(err, ErrTokenExpired) {
			t.Errorf("ParseContextToken() error = %v, want ErrTokenExpired", err)
		}
	})

	t.Run("other context", func(t *testing.T) {
		t.Parallel()

		raw := signedToken(t, time.Now().Add(time.Hour), map[string]any{ClaimContextID: "ctx-2"})
		_, err := ParseContextToken(raw, "ctx-1")
		var mismatch *ContextMismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("ParseContextToken() error = %v, want *ContextMismatchError", err)
		}
		if mismatch.Got != "ctx-2" || mismatch.Want != "ctx-1" {
			t.Errorf("mismatch = %+v", mismatch)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		t.Parallel()

		if _, err := ParseContextToken("not-a-jwt", "ctx"); err == nil {
			t.Error("ParseContextToken() expected error")
		}
	})
}

func TestCachingProvider(t *testing.T) {
	t.Parallel()

	now := time.Now()
	var issued atomic.Int32
	src := TokenSourceFunc(func(ctx context.Context, contextID string) (string, error) {
		issued.Add(1)
		return signedToken(t, now.Add(time.Minute), map[string]any{ClaimContextID: contextID}), nil
	})

	clock := now
	p := NewCachingProvider(src, WithRefreshSkew(10*time.Second), WithClock(func() time.Time { return clock }))

	first, err := p.ContextToken(t.Context(), "ctx")
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.ContextToken(t.Context(), "ctx")
	if err != nil {
		t.Fatal(err)
	}
	if first != second || issued.Load() != 1 {
		t.Errorf("token not cached: issued %d times", issued.Load())
	}

	// inside the refresh window
	clock = now.Add(55 * time.Second)
	if _, err := p.ContextToken(t.Context(), "ctx"); err != nil {
		t.Fatal(err)
	}
	if issued.Load() != 2 {
		t.Errorf("token not refreshed: issued %d times", issued.Load())
	}

	p.Invalidate("ctx")
	clock = now
	if _, err := p.ContextToken(t.Context(), "ctx"); err != nil {
		t.Fatal(err)
	}
	if issued.Load() != 3 {
		t.Errorf("invalidate did not drop the token: issued %d times", issued.Load())
	}
}

func TestCachingProviderSourceError(t *testing.T) {
	t.Parallel()

	boom := errors.New("platform unavailable")
	p := NewCachingProvider(TokenSourceFunc(func(context.Context, string) (string, error) {
		return "", boom
	}))

	if _, err := p.ContextToken(t.Context(), "ctx"); !errors.Is(err, boom) {
		t.Errorf("ContextToken() error = %v, want %v", err, boom)
	}
}
