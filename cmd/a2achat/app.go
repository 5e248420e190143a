// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/glamour"
	hertzclient "github.com/cloudwego/hertz/pkg/app/client"
	"github.com/google/uuid"

	a2a "github.com/go-a2a/a2a-chat"
	"github.com/go-a2a/a2a-chat/auth"
	"github.com/go-a2a/a2a-chat/capability"
	"github.com/go-a2a/a2a-chat/chat"
	"github.com/go-a2a/a2a-chat/client"
	"github.com/go-a2a/a2a-chat/content"
	"github.com/go-a2a/a2a-chat/extension"
	"github.com/go-a2a/a2a-chat/internal/config"
	"github.com/go-a2a/a2a-chat/internal/runes"
	"github.com/go-a2a/a2a-chat/selection"
)

var errNoContextToken = errors.New("no context token configured, set A2ACHAT_CONTEXT_TOKEN")

// app wires the chat core to one agent.
type app struct {
	logger     *slog.Logger
	card       *a2a.AgentCard
	session    *chat.Session
	negotiator *capability.Negotiator
	contextID  string
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	hc, err := hertzclient.NewClient(
		hertzclient.WithDialTimeout(cfg.DialTimeout),
		hertzclient.WithResponseBodyStream(true),
	)
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}
	opts := []client.Option{
		client.WithHertzClient(hc),
		client.WithQueueSize(cfg.QueueSize),
		client.WithLogger(logger),
	}
	if cfg.BearerToken != "" {
		opts = append(opts, client.WithBearerToken(cfg.BearerToken))
	}
	c, err := client.New(cfg.AgentURL, opts...)
	if err != nil {
		return nil, err
	}

	card, err := c.AgentCard(ctx)
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "connected", slog.String("agent", card.Name), slog.String("version", card.Version))

	contextID := cfg.ContextID
	if contextID == "" {
		contextID = uuid.NewString()
	}

	tokens := auth.NewCachingProvider(staticTokenSource(cfg.ContextToken), auth.WithRefreshSkew(cfg.RefreshSkew))
	negotiator := capability.NewNegotiator(tokens,
		capability.WithAPIBase(cfg.APIBase),
		capability.WithSelections(capability.Selections{
			LLM:       cfg.LLMModels,
			Embedding: cfg.EmbeddingModels,
			MCP:       cfg.MCPServers,
		}),
		capability.WithFeatureFlags(capability.FeatureFlags{MCP: cfg.EnableMCP, OAuth: cfg.EnableOAuth}),
		capability.WithRedirectURI(cfg.RedirectURI),
		capability.WithLogger(logger),
	)

	return &app{
		logger:     logger,
		card:       card,
		session:    chat.NewSession(c, chat.WithDemands(capability.DemandsFromCard(card)), chat.WithLogger(logger)),
		negotiator: negotiator,
		contextID:  contextID,
	}, nil
}

func staticTokenSource(raw string) auth.TokenSource {
	return auth.TokenSourceFunc(func(context.Context, string) (string, error) {
		if raw == "" {
			return "", errNoContextToken
		}
		return raw, nil
	})
}

// send starts the turn answering pending, or a new turn when pending is nil.
func (a *app) send(ctx context.Context, text string, pending *chat.Result) (*chat.Run, error) {
	msg, turn, err := buildTurn(text, pending)
	if err != nil {
		return nil, err
	}
	var opts []chat.ChatOption
	if pending != nil && pending.TaskID != "" {
		opts = append(opts, chat.WithTaskID(pending.TaskID))
	}
	return a.sendMessage(ctx, msg, turn, opts...)
}

func (a *app) sendMessage(ctx context.Context, msg *a2a.Message, turn capability.TurnOptions, opts ...chat.ChatOption) (*chat.Run, error) {
	f, err := a.negotiator.Fulfillments(ctx, a.contextID, turn)
	if err != nil {
		return nil, err
	}
	return a.session.Chat(ctx, msg, a.contextID, f, opts...)
}

// buildTurn builds the user message for text. When the agent is waiting on
// pending, text is read as the answer to it.
func buildTurn(text string, pending *chat.Result) (*a2a.Message, capability.TurnOptions, error) {
	var turn capability.TurnOptions
	if pending == nil {
		return a2a.NewUserTextMessage(text, "", ""), turn, nil
	}

	switch pending.Kind {
	case chat.ResultSecretRequired:
		secrets := config.ParseMap(text)
		if len(secrets) == 0 {
			return nil, turn, fmt.Errorf("enter secrets as name=value pairs")
		}
		turn.VolunteeredSecrets = secrets
		return a2a.NewUserMessage(nil, "", ""), turn, nil

	case chat.ResultApprovalRequired:
		decision := extension.ApprovalReject
		switch strings.ToLower(strings.TrimSpace(text)) {
		case "y", "yes", "approve":
			decision = extension.ApprovalApprove
		}
		meta, err := extension.Encode(extension.ApprovalURI, extension.ApprovalResponse{
			ID:       pending.Approval.ID,
			Decision: decision,
		})
		if err != nil {
			return nil, turn, err
		}
		msg := a2a.NewUserTextMessage(string(decision), "", "")
		msg.Metadata = meta
		return msg, turn, nil

	default:
		return a2a.NewUserTextMessage(text, "", ""), turn, nil
	}
}

// parseEdit parses "<start>:<end> <instruction>" against the raw text of art.
// start and end count characters.
func parseEdit(arg string, art *content.ArtifactPart) (*a2a.Message, error) {
	if art == nil {
		return nil, errors.New("no artifact to edit")
	}
	span, instruction, ok := strings.Cut(strings.TrimSpace(arg), " ")
	if !ok || strings.TrimSpace(instruction) == "" {
		return nil, errors.New("usage: /edit <start>:<end> <instruction>")
	}
	from, to, ok := strings.Cut(span, ":")
	if !ok {
		return nil, errors.New("usage: /edit <start>:<end> <instruction>")
	}
	start, err := strconv.Atoi(from)
	if err != nil {
		return nil, fmt.Errorf("invalid start %q", from)
	}
	end, err := strconv.Atoi(to)
	if err != nil {
		return nil, fmt.Errorf("invalid end %q", to)
	}
	raw := content.RawText(art.Parts)
	if n := utf8.RuneCountInString(raw); start < 0 || end > n || start >= end {
		return nil, fmt.Errorf("range %d:%d outside artifact of %d characters", start, end, n)
	}
	sel := selection.Result{
		StartIndex: start,
		EndIndex:   end,
		Content:    raw[runes.ByteOffset(raw, start):runes.ByteOffset(raw, end)],
	}
	return chat.EditMessage(sel, strings.TrimSpace(instruction), art.ArtifactID)
}

// lastArtifact returns the last artifact of msg.
func lastArtifact(msg *content.Message) *content.ArtifactPart {
	if msg == nil {
		return nil
	}
	var last *content.ArtifactPart
	for _, p := range msg.Parts {
		if a, ok := p.(*content.ArtifactPart); ok {
			last = a
		}
	}
	return last
}

// ask sends prompt and prints the rendered answer to w.
func (a *app) ask(ctx context.Context, w io.Writer, prompt string, raw bool) error {
	run, err := a.send(ctx, prompt, nil)
	if err != nil {
		return err
	}
	res, err := run.Wait(ctx)
	if err != nil {
		return err
	}

	out := run.Message().Content()
	if !raw {
		rendered, err := glamour.Render(out, "auto")
		if err != nil {
			return fmt.Errorf("render answer: %w", err)
		}
		out = rendered
	}
	fmt.Fprintln(w, out)
	if res != nil {
		fmt.Fprintln(w, describeResult(res))
	}
	return nil
}

// describeResult returns a one-line prompt for what the agent waits for.
func describeResult(res *chat.Result) string {
	switch res.Kind {
	case chat.ResultFormRequired:
		names := make([]string, 0, len(res.Form.Fields))
		for _, f := range res.Form.Fields {
			names = append(names, f.ID)
		}
		return fmt.Sprintf("form %q requested: %s", res.Form.Title, strings.Join(names, ", "))
	case chat.ResultApprovalRequired:
		return fmt.Sprintf("approve %s? [y/N]", res.Approval.Action)
	case chat.ResultOAuthRequired:
		return "authorize at " + res.AuthorizationURL
	case chat.ResultSecretRequired:
		return "secrets requested (name=value): " + strings.Join(slices.Sorted(maps.Keys(res.Secrets)), ", ")
	default:
		if res.Text != "" {
			return res.Text
		}
		return "the agent is waiting for input"
	}
}
