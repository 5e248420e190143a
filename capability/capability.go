// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package capability negotiates the service demands an agent declares in its
// card into the fulfillments sent with every user turn.
package capability

import (
	"context"
	"fmt"
	"maps"
	"slices"

	a2a "github.com/go-a2a/a2a-chat"
	"github.com/go-a2a/a2a-chat/extension"
)

// Category is a kind of capability an agent can demand.
type Category string

// Categories.
const (
	LLM       Category = "llm"
	Embedding Category = "embedding"
	MCP       Category = "mcp"
	Secrets   Category = "secrets"
	OAuth     Category = "oauth"
)

// Categories lists every category in negotiation order.
var Categories = []Category{LLM, Embedding, MCP, Secrets, OAuth}

// URI returns the extension URI carrying the category.
func (c Category) URI() string {
	switch c {
	case LLM:
		return extension.LLMURI
	case Embedding:
		return extension.EmbeddingURI
	case MCP:
		return extension.MCPURI
	case Secrets:
		return extension.SecretsURI
	case OAuth:
		return extension.OAuthURI
	default:
		panic(fmt.Sprintf("capability: unknown category %q", string(c)))
	}
}

// FulfillmentsKey returns the metadata key holding the category's fulfillments.
func (c Category) FulfillmentsKey() string {
	if c == Secrets {
		return "secret_fulfillments"
	}
	return string(c) + "_fulfillments"
}

// Demands holds the demand slots declared by an agent, per category. A nil map
// means the agent did not declare the category.
type Demands struct {
	LLM       map[string]extension.LLMDemand
	Embedding map[string]extension.EmbeddingDemand
	MCP       map[string]extension.MCPDemand
	Secrets   map[string]extension.SecretDemand
	OAuth     map[string]extension.OAuthDemand
}

// Declared reports whether the agent declared c.
func (d Demands) Declared(c Category) bool {
	switch c {
	case LLM:
		return d.LLM != nil
	case Embedding:
		return d.Embedding != nil
	case MCP:
		return d.MCP != nil
	case Secrets:
		return d.Secrets != nil
	case OAuth:
		return d.OAuth != nil
	default:
		panic(fmt.Sprintf("capability: unknown category %q", string(c)))
	}
}

// DemandsFromCard reads the demand manifest from the extensions declared in
// card. Declarations that do not decode are ignored.
func DemandsFromCard(card *a2a.AgentCard) Demands {
	var d Demands
	if card == nil {
		return d
	}
	for _, ext := range card.Capabilities.Extensions {
		switch ext.URI {
		case extension.LLMURI:
			if v, ok := extension.Decode[extension.LLMDemands](ext.Params); ok {
				d.LLM = nonNil(v.LLMDemands)
			}
		case extension.EmbeddingURI:
			if v, ok := extension.Decode[extension.EmbeddingDemands](ext.Params); ok {
				d.Embedding = nonNil(v.EmbeddingDemands)
			}
		case extension.MCPURI:
			if v, ok := extension.Decode[extension.MCPDemands](ext.Params); ok {
				d.MCP = nonNil(v.MCPDemands)
			}
		case extension.SecretsURI:
			if v, ok := extension.Decode[extension.SecretDemands](ext.Params); ok {
				d.Secrets = nonNil(v.SecretDemands)
			}
		case extension.OAuthURI:
			if v, ok := extension.Decode[extension.OAuthDemands](ext.Params); ok {
				d.OAuth = nonNil(v.OAuthDemands)
			}
		}
	}
	return d
}

func nonNil[V any](m map[string]V) map[string]V {
	if m == nil {
		return map[string]V{}
	}
	return m
}

// Resolver resolves the demands of one category. Returning a nil map disables
// the category for the turn; it is then omitted from the request.
type Resolver[D, F any] func(ctx context.Context, demands map[string]D) (map[string]F, error)

// Fulfillments holds one resolver per category. A nil resolver disables an
// opt-in category (mcp, secrets, oauth); declared llm and embedding demands
// always need one.
type Fulfillments struct {
	LLM       Resolver[extension.LLMDemand, extension.ModelFulfillment]
	Embedding Resolver[extension.EmbeddingDemand, extension.ModelFulfillment]
	MCP       Resolver[extension.MCPDemand, extension.MCPFulfillment]
	Secrets   Resolver[extension.SecretDemand, extension.SecretFulfillment]
	OAuth     Resolver[extension.OAuthDemand, extension.OAuthFulfillment]
}

// Metadata resolves every category declared in demands, invoking each resolver
// once, and returns the outgoing message metadata:
//
//	{<extension uri>: {"<category>_fulfillments": {<slot>: <fulfillment>}}}
//
// The first resolver error aborts negotiation.
func (f Fulfillments) Metadata(ctx context.Context, demands Demands) (map[string]any, error) {
	out := make(map[string]any)
	if err := resolveRequired(ctx, out, LLM, f.LLM, demands.LLM); err != nil {
		return nil, err
	}
	if err := resolveRequired(ctx, out, Embedding, f.Embedding, demands.Embedding); err != nil {
		return nil, err
	}
	if err := resolveInto(ctx, out, MCP, f.MCP, demands.MCP); err != nil {
		return nil, err
	}
	if err := resolveInto(ctx, out, Secrets, f.Secrets, demands.Secrets); err != nil {
		return nil, err
	}
	if err := resolveInto(ctx, out, OAuth, f.OAuth, demands.OAuth); err != nil {
		return nil, err
	}
	return out, nil
}

// resolveRequired is resolveInto for a category that cannot be disabled once
// the agent declared slots for it.
func resolveRequired[D, F any](ctx context.Context, out map[string]any, c Category, resolve Resolver[D, F], demands map[string]D) error {
	if len(demands) == 0 {
		return resolveInto(ctx, out, c, resolve, demands)
	}
	missing := &MissingFulfillmentError{Category: c, Demand: slices.Min(slices.Collect(maps.Keys(demands)))}
	if resolve == nil {
		return missing
	}
	if err := resolveInto(ctx, out, c, resolve, demands); err != nil {
		return err
	}
	if _, ok := out[c.URI()]; !ok {
		return missing
	}
	return nil
}

func resolveInto[D, F any](ctx context.Context, out map[string]any, c Category, resolve Resolver[D, F], demands map[string]D) error {
	if demands == nil || resolve == nil {
		return nil
	}
	res, err := resolve(ctx, demands)
	if err != nil {
		return fmt.Errorf("resolve %s demands: %w", c, err)
	}
	if res == nil {
		return nil
	}
	out[c.URI()] = map[string]any{c.FulfillmentsKey(): res}
	return nil
}

// MissingFulfillmentError is returned when a required demand slot has no
// selected value.
type MissingFulfillmentError struct {
	Category Category
	Demand   string
}

// Error implements [error].
func (e *MissingFulfillmentError) Error() string {
	return fmt.Sprintf("selected provider for demand %s not found", e.Demand)
}
