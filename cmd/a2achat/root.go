// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/spf13/cobra"

	"github.com/go-a2a/a2a-chat/internal/config"
)

func newRootCmd() *cobra.Command {
	cfg := config.Load()

	cmd := &cobra.Command{
		Use:   "a2achat",
		Short: "Chat with an A2A agent",
		Long: `Chat with an A2A agent in the terminal.

Configuration is read from A2ACHAT_* environment variables and may be
overridden with flags.

Examples:
  a2achat --agent http://localhost:8000
  a2achat --llm primary=gpt-4.1-mini ask "Summarize the release notes"
  a2achat card`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger, closeLog, err := newLogger(cfg, io.Discard)
			if err != nil {
				return err
			}
			defer closeLog()

			a, err := newApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			return runTUI(cmd.Context(), a)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfg.AgentURL, "agent", cfg.AgentURL, "agent JSON-RPC endpoint")
	flags.StringVar(&cfg.ContextID, "context", cfg.ContextID, "conversation context ID (generated when empty)")
	flags.StringVar(&cfg.APIBase, "api-base", cfg.APIBase, "model API base offered to the agent")
	flags.StringToStringVar(&cfg.LLMModels, "llm", cfg.LLMModels, "LLM model per demand slot")
	flags.StringToStringVar(&cfg.EmbeddingModels, "embedding", cfg.EmbeddingModels, "embedding model per demand slot")
	flags.StringToStringVar(&cfg.MCPServers, "mcp", cfg.MCPServers, "MCP server URL per demand slot")
	flags.BoolVar(&cfg.EnableMCP, "enable-mcp", cfg.EnableMCP, "fulfill MCP demands")
	flags.BoolVar(&cfg.EnableOAuth, "enable-oauth", cfg.EnableOAuth, "fulfill OAuth demands")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "write logs to this file")

	cmd.AddCommand(newCardCmd(cfg), newAskCmd(cfg))
	return cmd
}

func newCardCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "card",
		Short: "Print the agent card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger, closeLog, err := newLogger(cfg, os.Stderr)
			if err != nil {
				return err
			}
			defer closeLog()

			a, err := newApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			return json.MarshalWrite(cmd.OutOrStdout(), a.card, jsontext.Multiline(true))
		},
	}
}

func newAskCmd(cfg *config.Config) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "ask <prompt>",
		Short: "Send one message and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger, closeLog, err := newLogger(cfg, os.Stderr)
			if err != nil {
				return err
			}
			defer closeLog()

			a, err := newApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			return a.ask(cmd.Context(), cmd.OutOrStdout(), strings.Join(args, " "), raw)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown without rendering")
	return cmd
}

// newLogger returns a logger writing to the configured log file, or to
// fallback when none is set.
func newLogger(cfg *config.Config, fallback io.Writer) (*slog.Logger, func(), error) {
	w, closeFn := fallback, func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closeFn = f, func() { f.Close() }
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.Level()}))
	return logger, closeFn, nil
}
