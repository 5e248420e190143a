// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package capability

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/go-a2a/a2a-chat/auth"
	"github.com/go-a2a/a2a-chat/extension"
)

// MCPTransportStreamableHTTP is the only tool server transport offered.
const MCPTransportStreamableHTTP = "streamable_http"

// Selections are the user's choices per demand slot.
type Selections struct {
	// LLM and Embedding map a slot to a model id.
	LLM       map[string]string
	Embedding map[string]string
	// MCP maps a slot to a tool server URL.
	MCP map[string]string
}

// ModelMatcher picks a model for a slot the user made no selection for.
type ModelMatcher func(slot string, suggested []string) (string, bool)

// FirstSuggested picks the first model the agent suggests.
func FirstSuggested(_ string, suggested []string) (string, bool) {
	if len(suggested) == 0 {
		return "", false
	}
	return suggested[0], true
}

// FeatureFlags enable the optional categories.
type FeatureFlags struct {
	MCP   bool
	OAuth bool
}

// SecretStore keeps the secrets known for a session.
type SecretStore interface {
	Secrets(ctx context.Context) (map[string]string, error)
	StoreSecrets(ctx context.Context, secrets map[string]string) error
}

// MemorySecretStore is an in-memory [SecretStore]. It is safe for concurrent use.
type MemorySecretStore struct {
	mu      sync.Mutex
	secrets map[string]string
}

var _ SecretStore = (*MemorySecretStore)(nil)

// NewMemorySecretStore returns an empty [MemorySecretStore].
func NewMemorySecretStore() *MemorySecretStore {
	return &MemorySecretStore{secrets: make(map[string]string)}
}

// Secrets implements [SecretStore].
func (s *MemorySecretStore) Secrets(context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.secrets), nil
}

// StoreSecrets implements [SecretStore].
func (s *MemorySecretStore) StoreSecrets(_ context.Context, secrets map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	maps.Copy(s.secrets, secrets)
	return nil
}

// TurnOptions carries per-turn negotiation input.
type TurnOptions struct {
	// VolunteeredSecrets are secrets the user supplied with this turn. They
	// override stored secrets and are remembered for later turns.
	VolunteeredSecrets map[string]string
}

// Negotiator builds the [Fulfillments] for each turn of a session.
type Negotiator struct {
	tokens      auth.ContextTokenProvider
	apiBase     string
	selections  Selections
	match       ModelMatcher
	secrets     SecretStore
	flags       FeatureFlags
	redirectURI string
	logger      *slog.Logger
}

// Option configures a [Negotiator].
type Option func(*Negotiator)

// WithAPIBase sets the OpenAI compatible endpoint handed to agents for model slots.
func WithAPIBase(apiBase string) Option {
	return func(n *Negotiator) {
		n.apiBase = apiBase
	}
}

// WithSelections sets the user's slot selections.
func WithSelections(s Selections) Option {
	return func(n *Negotiator) {
		n.selections = s
	}
}

// WithModelMatcher sets the fallback for slots without a selection.
func WithModelMatcher(m ModelMatcher) Option {
	return func(n *Negotiator) {
		n.match = m
	}
}

// WithSecretStore sets the session secret store.
func WithSecretStore(s SecretStore) Option {
	return func(n *Negotiator) {
		n.secrets = s
	}
}

// WithFeatureFlags enables optional categories.
func WithFeatureFlags(f FeatureFlags) Option {
	return func(n *Negotiator) {
		n.flags = f
	}
}

// WithRedirectURI sets the OAuth redirect URI.
func WithRedirectURI(uri string) Option {
	return func(n *Negotiator) {
		n.redirectURI = uri
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Negotiator) {
		n.logger = logger
	}
}

// NewNegotiator returns a [Negotiator] authenticating model slots with tokens
// from tokens.
func NewNegotiator(tokens auth.ContextTokenProvider, opts ...Option) *Negotiator {
	n := &Negotiator{
		tokens:  tokens,
		match:   FirstSuggested,
		secrets: NewMemorySecretStore(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Fulfillments returns the resolvers for one turn in contextID. Volunteered
// secrets are stored before the resolvers are returned.
func (n *Negotiator) Fulfillments(ctx context.Context, contextID string, turn TurnOptions) (Fulfillments, error) {
	if len(turn.VolunteeredSecrets) > 0 {
		if err := n.secrets.StoreSecrets(ctx, turn.VolunteeredSecrets); err != nil {
			return Fulfillments{}, fmt.Errorf("store volunteered secrets: %w", err)
		}
	}

	f := Fulfillments{
		LLM: func(ctx context.Context, demands map[string]extension.LLMDemand) (map[string]extension.ModelFulfillment, error) {
			return resolveModels(ctx, n, LLM, contextID, demands, n.selections.LLM, func(d extension.LLMDemand) []string {
				return d.SuggestedModels
			})
		},
		Embedding: func(ctx context.Context, demands map[string]extension.EmbeddingDemand) (map[string]extension.ModelFulfillment, error) {
			return resolveModels(ctx, n, Embedding, contextID, demands, n.selections.Embedding, func(d extension.EmbeddingDemand) []string {
				return d.SuggestedModels
			})
		},
		Secrets: func(ctx context.Context, demands map[string]extension.SecretDemand) (map[string]extension.SecretFulfillment, error) {
			return n.resolveSecrets(ctx, demands, turn.VolunteeredSecrets)
		},
	}
	if n.flags.MCP {
		f.MCP = n.resolveMCP
	}
	if n.flags.OAuth {
		f.OAuth = n.resolveOAuth
	}
	return f, nil
}

// resolveModels requires every slot to resolve, either from the user's
// selection or the matcher, before fetching a context token.
func resolveModels[D any](ctx context.Context, n *Negotiator, c Category, contextID string, demands map[string]D, selected map[string]string, suggested func(D) []string) (map[string]extension.ModelFulfillment, error) {
	models := make(map[string]string, len(demands))
	for _, slot := range slices.Sorted(maps.Keys(demands)) {
		model, ok := selected[slot]
		if !ok || model == "" {
			model, ok = n.match(slot, suggested(demands[slot]))
		}
		if !ok || model == "" {
			return nil, &MissingFulfillmentError{Category: c, Demand: slot}
		}
		models[slot] = model
	}
	if len(models) == 0 {
		return map[string]extension.ModelFulfillment{}, nil
	}

	tok, err := n.tokens.ContextToken(ctx, contextID)
	if err != nil {
		return nil, fmt.Errorf("context token: %w", err)
	}

	out := make(map[string]extension.ModelFulfillment, len(models))
	for slot, model := range models {
		out[slot] = extension.ModelFulfillment{
			Identifier: slot,
			APIBase:    n.apiBase,
			APIKey:     tok.Token,
			APIModel:   model,
		}
	}
	return out, nil
}

// resolveSecrets omits slots without a known secret; the agent asks for them
// with an auth-required status.
func (n *Negotiator) resolveSecrets(ctx context.Context, demands map[string]extension.SecretDemand, volunteered map[string]string) (map[string]extension.SecretFulfillment, error) {
	known, err := n.secrets.Secrets(ctx)
	if err != nil {
		return nil, fmt.Errorf("load secrets: %w", err)
	}
	if known == nil {
		known = make(map[string]string)
	}
	maps.Copy(known, volunteered)

	out := make(map[string]extension.SecretFulfillment)
	for slot := range demands {
		if v, ok := known[slot]; ok {
			out[slot] = extension.SecretFulfillment{Secret: v}
			continue
		}
		n.logger.DebugContext(ctx, "secret demand unresolved", slog.String("slot", slot))
	}
	return out, nil
}

func (n *Negotiator) resolveMCP(_ context.Context, demands map[string]extension.MCPDemand) (map[string]extension.MCPFulfillment, error) {
	out := make(map[string]extension.MCPFulfillment)
	for slot := range demands {
		url, ok := n.selections.MCP[slot]
		if !ok || url == "" {
			continue
		}
		out[slot] = extension.MCPFulfillment{
			Transport: extension.MCPTransport{Type: MCPTransportStreamableHTTP, URL: url},
		}
	}
	return out, nil
}

func (n *Negotiator) resolveOAuth(_ context.Context, demands map[string]extension.OAuthDemand) (map[string]extension.OAuthFulfillment, error) {
	out := make(map[string]extension.OAuthFulfillment, len(demands))
	for slot := range demands {
		out[slot] = extension.OAuthFulfillment{RedirectURI: n.redirectURI}
	}
	return out, nil
}
