// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"fmt"

	"github.com/go-json-experiment/json/jsontext"
)

// AgentCard describes a remote agent and the capabilities it declares.
type AgentCard struct {
	Name         string            `json:"name"`
	URL          string            `json:"url"`
	Version      string            `json:"version,omitzero"`
	Description  string            `json:"description,omitzero"`
	Capabilities AgentCapabilities `json:"capabilities"`
}

// AgentCapabilities lists optional protocol features supported by the agent.
type AgentCapabilities struct {
	Streaming  bool             `json:"streaming,omitzero"`
	Extensions []AgentExtension `json:"extensions,omitzero"`
}

// AgentExtension declares support for a protocol extension. Params carries the
// extension specific declaration, e.g. the demands of a service extension.
type AgentExtension struct {
	URI         string         `json:"uri"`
	Description string         `json:"description,omitzero"`
	Required    bool           `json:"required,omitzero"`
	Params      jsontext.Value `json:"params,omitzero"`
}

// Validate ensures the AgentCard is valid.
func (c *AgentCard) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("agent card name cannot be empty")
	}
	if c.URL == "" {
		return fmt.Errorf("agent card URL cannot be empty")
	}
	return nil
}

// Extension returns the declared extension with the given URI.
func (c *AgentCard) Extension(uri string) (AgentExtension, bool) {
	for _, ext := range c.Capabilities.Extensions {
		if ext.URI == uri {
			return ext, true
		}
	}
	return AgentExtension{}, false
}
