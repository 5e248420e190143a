// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"AGENT_URL", "LOG_LEVEL", "QUEUE_SIZE", "ENABLE_MCP", "LLM_MODELS", "TOKEN_REFRESH_SKEW"} {
		t.Setenv(Prefix+key, "")
	}

	cfg := Load()

	if cfg.AgentURL != "http://localhost:8000" {
		t.Errorf("AgentURL = %q, want default", cfg.AgentURL)
	}
	if cfg.RefreshSkew != 30*time.Second {
		t.Errorf("RefreshSkew = %v, want 30s", cfg.RefreshSkew)
	}
	if cfg.QueueSize != 1024 {
		t.Errorf("QueueSize = %d, want 1024", cfg.QueueSize)
	}
	if cfg.EnableMCP {
		t.Error("EnableMCP should default to false")
	}
	if len(cfg.LLMModels) != 0 {
		t.Errorf("LLMModels = %v, want empty", cfg.LLMModels)
	}
	if got := cfg.Level(); got != slog.LevelInfo {
		t.Errorf("Level() = %v, want info", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv(Prefix+"AGENT_URL", "https://agent.example")
	t.Setenv(Prefix+"LLM_MODELS", "primary=gpt-x, fast = gpt-mini,broken")
	t.Setenv(Prefix+"ENABLE_OAUTH", "yes")
	t.Setenv(Prefix+"QUEUE_SIZE", "16")
	t.Setenv(Prefix+"LOG_LEVEL", "debug")
	t.Setenv(Prefix+"DIAL_TIMEOUT", "not-a-duration")

	cfg := Load()

	if cfg.AgentURL != "https://agent.example" {
		t.Errorf("AgentURL = %q", cfg.AgentURL)
	}
	if diff := cmp.Diff(map[string]string{"primary": "gpt-x", "fast": "gpt-mini"}, cfg.LLMModels); diff != "" {
		t.Errorf("LLMModels mismatch (-want +got):\n%s", diff)
	}
	if !cfg.EnableOAuth {
		t.Error("EnableOAuth = false, want true")
	}
	if cfg.QueueSize != 16 {
		t.Errorf("QueueSize = %d, want 16", cfg.QueueSize)
	}
	if cfg.DialTimeout != 10*time.Second {
		t.Errorf("DialTimeout = %v, want default for invalid value", cfg.DialTimeout)
	}
	if got := cfg.Level(); got != slog.LevelDebug {
		t.Errorf("Level() = %v, want debug", got)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cfg     Config
		wantErr bool
	}{
		"valid": {
			cfg: Config{AgentURL: "http://localhost:8000", QueueSize: 1},
		},
		"missing url": {
			cfg:     Config{QueueSize: 1},
			wantErr: true,
		},
		"bad scheme": {
			cfg:     Config{AgentURL: "ftp://agent", QueueSize: 1},
			wantErr: true,
		},
		"zero queue": {
			cfg:     Config{AgentURL: "http://localhost:8000"},
			wantErr: true,
		},
		"mcp without servers": {
			cfg:     Config{AgentURL: "http://localhost:8000", QueueSize: 1, EnableMCP: true},
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
