// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package extension reads and writes A2A extension metadata.
//
// Extensions travel as entries of a message's metadata object keyed by the
// extension URI. An [Extractor] turns the raw entry into a typed payload, or
// reports that the entry is absent or does not validate.
package extension

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/tidwall/gjson"
)

const baseURI = "https://a2a-extensions.agentstack.beeai.dev"

// Extension URIs.
const (
	CitationURI   = baseURI + "/ui/citation/v1"
	TrajectoryURI = baseURI + "/ui/trajectory/v1"
	FormURI       = baseURI + "/ui/form/v1"
	ApprovalURI   = baseURI + "/ui/tool-call/v1"
	CanvasURI     = baseURI + "/ui/canvas/v1"
	SecretsURI    = baseURI + "/auth/secrets/v1"
	OAuthURI      = baseURI + "/auth/oauth/v1"
	LLMURI        = baseURI + "/services/llm/v1"
	EmbeddingURI  = baseURI + "/services/embedding/v1"
	MCPURI        = baseURI + "/services/mcp/v1"
)

// Extractor reads a typed extension payload out of message metadata.
type Extractor[T any] interface {
	// URI returns the extension URI the extractor reads.
	URI() string
	// Extract returns the payload stored under URI in metadata. The boolean is
	// false when the entry is missing or does not decode and validate.
	Extract(metadata jsontext.Value) (T, bool)
}

type jsonExtractor[T any] struct {
	uri      string
	validate func(*T) error
}

var _ Extractor[Trajectory] = (*jsonExtractor[Trajectory])(nil)

// NewExtractor returns an [Extractor] decoding the entry under uri as JSON.
// validate may be nil.
func NewExtractor[T any](uri string, validate func(*T) error) Extractor[T] {
	return &jsonExtractor[T]{uri: uri, validate: validate}
}

// URI implements [Extractor].
func (e *jsonExtractor[T]) URI() string { return e.uri }

// Extract implements [Extractor].
func (e *jsonExtractor[T]) Extract(metadata jsontext.Value) (T, bool) {
	var zero T
	raw, ok := lookup(metadata, e.uri)
	if !ok {
		return zero, false
	}
	v, ok := decode[T](raw)
	if !ok {
		return zero, false
	}
	if e.validate != nil {
		if err := e.validate(&v); err != nil {
			return zero, false
		}
	}
	return v, true
}

// Has reports whether metadata carries an entry for uri.
func Has(metadata jsontext.Value, uri string) bool {
	_, ok := lookup(metadata, uri)
	return ok
}

// Decode decodes a raw extension value, such as agent card extension params.
func Decode[T any](raw jsontext.Value) (T, bool) {
	return decode[T]([]byte(raw))
}

// Encode returns a metadata object holding v under uri.
func Encode(uri string, v any) (jsontext.Value, error) {
	data, err := json.Marshal(map[string]any{uri: v}, json.Deterministic(true))
	if err != nil {
		return nil, fmt.Errorf("encode %s metadata: %w", uri, err)
	}
	return jsontext.Value(data), nil
}

// lookup finds the top-level key uri. URIs contain path separators gjson would
// interpret, so keys are compared literally.
func lookup(metadata []byte, uri string) ([]byte, bool) {
	if len(metadata) == 0 || !gjson.ValidBytes(metadata) {
		return nil, false
	}
	root := gjson.ParseBytes(metadata)
	if !root.IsObject() {
		return nil, false
	}

	var found gjson.Result
	root.ForEach(func(key, value gjson.Result) bool {
		if key.String() == uri {
			found = value
			return false
		}
		return true
	})
	if !found.Exists() || found.Type == gjson.Null {
		return nil, false
	}
	return []byte(found.Raw), true
}

func decode[T any](raw []byte) (T, bool) {
	var v T
	if len(raw) == 0 {
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, false
	}
	return v, true
}
