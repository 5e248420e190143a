// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package auth provides the short-lived context tokens handed to agents as
// credentials for platform services.
//
// A context token is a JWT issued by the platform for one conversation
// context. The client does not verify its signature, the issuing service and
// the services accepting it do; it only reads the claims it needs to decide
// when to refresh.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwt"
)

// Claim names read from a context token.
const (
	ClaimContextID = "context_id"
	ClaimScope     = "scope"
)

// ErrTokenExpired is returned for a context token past its expiry.
var ErrTokenExpired = errors.New("context token expired")

// ContextToken is a credential scoped to one conversation context.
type ContextToken struct {
	Token     string
	ExpiresAt time.Time
	ContextID string
	Scopes    []string
}

// ExpiresWithin reports whether the token expires within d of now. A token
// without an expiry never expires.
func (t *ContextToken) ExpiresWithin(now time.Time, d time.Duration) bool {
	if t.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(d).Before(t.ExpiresAt)
}

// HasScope reports whether the token grants scope.
func (t *ContextToken) HasScope(scope string) bool {
	for _, s := range t.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// ContextMismatchError is returned when a token is bound to another context.
type ContextMismatchError struct {
	Want string
	Got  string
}

// Error implements [error].
func (e *ContextMismatchError) Error() string {
	return fmt.Sprintf("context token bound to context %q, want %q", e.Got, e.Want)
}

// ParseContextToken parses raw and checks that it is unexpired and, when it
// carries a context_id claim, bound to contextID.
func ParseContextToken(raw, contextID string) (*ContextToken, error) {
	return parseContextToken(raw, contextID, time.Now())
}

func parseContextToken(raw, contextID string, now time.Time) (*ContextToken, error) {
	token, err := jwt.ParseInsecure([]byte(raw), jwt.WithValidate(false))
	if err != nil {
		return nil, fmt.Errorf("failed to parse context token: %w", err)
	}

	ct := &ContextToken{Token: raw}
	if exp, ok := token.Expiration(); ok {
		ct.ExpiresAt = exp
	}
	if ct.ExpiresWithin(now, 0) {
		return nil, ErrTokenExpired
	}

	var cid string
	if token.Has(ClaimContextID) {
		if err := token.Get(ClaimContextID, &cid); err != nil {
			return nil, fmt.Errorf("failed to read %s claim: %w", ClaimContextID, err)
		}
	}
	if cid != "" && contextID != "" && cid != contextID {
		return nil, &ContextMismatchError{Want: contextID, Got: cid}
	}
	ct.ContextID = cid

	if token.Has(ClaimScope) {
		var scope any
		if err := token.Get(ClaimScope, &scope); err != nil {
			return nil, fmt.Errorf("failed to read %s claim: %w", ClaimScope, err)
		}
		ct.Scopes = scopes(scope)
	}
	return ct, nil
}

// scopes accepts the space separated string form and the array form.
func scopes(v any) []string {
	switch v := v.(type) {
	case string:
		return strings.Fields(v)
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, s := range v {
			if s, ok := s.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
