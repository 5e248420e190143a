// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the a2achat configuration from A2ACHAT_* environment
// variables.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Prefix is the prefix of every environment variable read by [Load].
const Prefix = "A2ACHAT_"

// Config holds the a2achat configuration.
type Config struct {
	// Agent
	AgentURL    string `json:"agent_url"`
	BearerToken string `json:"-"`
	ContextID   string `json:"context_id"`

	// Context token issued by the platform for ContextID.
	ContextToken string        `json:"-"`
	RefreshSkew  time.Duration `json:"refresh_skew"`

	// Fulfillments
	APIBase         string            `json:"api_base"`
	LLMModels       map[string]string `json:"llm_models"`
	EmbeddingModels map[string]string `json:"embedding_models"`
	MCPServers      map[string]string `json:"mcp_servers"`
	RedirectURI     string            `json:"redirect_uri"`

	// Feature flags
	EnableMCP   bool `json:"enable_mcp"`
	EnableOAuth bool `json:"enable_oauth"`

	// Transport
	DialTimeout time.Duration `json:"dial_timeout"`
	QueueSize   int           `json:"queue_size"`

	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		AgentURL:    getEnv("AGENT_URL", "http://localhost:8000"),
		BearerToken: getEnv("BEARER_TOKEN", ""),
		ContextID:   getEnv("CONTEXT_ID", ""),

		ContextToken: getEnv("CONTEXT_TOKEN", ""),
		RefreshSkew:  getDurationEnv("TOKEN_REFRESH_SKEW", 30*time.Second),

		APIBase:         getEnv("API_BASE", ""),
		LLMModels:       getMapEnv("LLM_MODELS"),
		EmbeddingModels: getMapEnv("EMBEDDING_MODELS"),
		MCPServers:      getMapEnv("MCP_SERVERS"),
		RedirectURI:     getEnv("REDIRECT_URI", "http://localhost:8335/oauth/callback"),

		EnableMCP:   getBoolEnv("ENABLE_MCP", false),
		EnableOAuth: getBoolEnv("ENABLE_OAUTH", false),

		DialTimeout: getDurationEnv("DIAL_TIMEOUT", 10*time.Second),
		QueueSize:   getIntEnv("QUEUE_SIZE", 1024),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.AgentURL == "" {
		return fmt.Errorf("%sAGENT_URL is required", Prefix)
	}
	u, err := url.Parse(c.AgentURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid agent url %q", c.AgentURL)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("%sQUEUE_SIZE must be positive, got %d", Prefix, c.QueueSize)
	}
	if c.EnableMCP && len(c.MCPServers) == 0 {
		return fmt.Errorf("%sMCP_SERVERS is required when MCP is enabled", Prefix)
	}
	return nil
}

// Level returns the log level named by LogLevel, defaulting to info.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseMap parses a comma separated list of key=value pairs. Entries without a
// key or a value are skipped.
func ParseMap(s string) map[string]string {
	m := make(map[string]string)
	for entry := range strings.SplitSeq(s, ",") {
		k, v, ok := strings.Cut(entry, "=")
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if !ok || k == "" || v == "" {
			continue
		}
		m[k] = v
	}
	return m
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(Prefix + key); val != "" {
		return val
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if val := os.Getenv(Prefix + key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if val := os.Getenv(Prefix + key); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(Prefix + key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func getMapEnv(key string) map[string]string {
	return ParseMap(os.Getenv(Prefix + key))
}
