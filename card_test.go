// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/google/go-cmp/cmp"
)

func TestAgentCardExtension(t *testing.T) {
	t.Parallel()

	data := `{"name":"writer","url":"http://localhost:8000","capabilities":{"streaming":true,"extensions":[` +
		`{"uri":"https://a2a-extensions.agentstack.beeai.dev/services/llm/v1","params":{"llm_demands":{"default":{}}}}]}}`

	var card AgentCard
	if err := json.Unmarshal([]byte(data), &card); err != nil {
		t.Fatal(err)
	}
	if err := card.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	ext, ok := card.Extension("https://a2a-extensions.agentstack.beeai.dev/services/llm/v1")
	if !ok {
		t.Fatal("Extension() not found")
	}
	if diff := cmp.Diff(`{"llm_demands":{"default":{}}}`, string(ext.Params)); diff != "" {
		t.Errorf("Params mismatch (-want +got):\n%s", diff)
	}
	if _, ok := card.Extension("urn:missing"); ok {
		t.Error("Extension() found an undeclared uri")
	}
}

func TestAgentCardValidate(t *testing.T) {
	t.Parallel()

	if err := (&AgentCard{URL: "http://x"}).Validate(); err == nil {
		t.Error("Validate() expected error for empty name")
	}
	if err := (&AgentCard{Name: "x"}).Validate(); err == nil {
		t.Error("Validate() expected error for empty url")
	}
}
