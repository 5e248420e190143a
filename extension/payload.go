// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package extension

// Citation links a range of agent text to a source. The indices count code
// points of the text of the message or artifact chunk carrying it.
type Citation struct {
	URL         string `json:"url,omitzero"`
	Title       string `json:"title,omitzero"`
	Description string `json:"description,omitzero"`
	StartIndex  *int   `json:"start_index,omitzero"`
	EndIndex    *int   `json:"end_index,omitzero"`
}

// CitationMetadata is the payload of [CitationURI].
type CitationMetadata struct {
	Citations []Citation `json:"citations"`
}

// Trajectory is an intermediate reasoning or tool step reported by the agent.
type Trajectory struct {
	Title   string `json:"title,omitzero"`
	Content string `json:"content,omitzero"`
	GroupID string `json:"group_id,omitzero"`
}

// FormField is one input of a [FormRequest].
type FormField struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Label       string `json:"label,omitzero"`
	Description string `json:"description,omitzero"`
	Required    bool   `json:"required,omitzero"`
	Default     any    `json:"default,omitzero"`
}

// FormRequest asks the user to fill a form before the task continues.
type FormRequest struct {
	ID          string      `json:"id,omitzero"`
	Title       string      `json:"title,omitzero"`
	Description string      `json:"description,omitzero"`
	Fields      []FormField `json:"fields"`
}

// SecretDemand describes a secret the agent needs.
type SecretDemand struct {
	Name        string `json:"name"`
	Description string `json:"description,omitzero"`
}

// SecretDemands is the payload of [SecretsURI], both in agent card params and
// in auth-required status messages.
type SecretDemands struct {
	SecretDemands map[string]SecretDemand `json:"secret_demands"`
}

// SecretFulfillment is the resolved value of a [SecretDemand].
type SecretFulfillment struct {
	Secret string `json:"secret"`
}

// OAuthRequest asks the user to authorize the agent at an external provider.
type OAuthRequest struct {
	AuthorizationEndpointURL string `json:"authorization_endpoint_url"`
}

// OAuthDemand declares an OAuth flow the agent may start.
type OAuthDemand struct {
	Description string `json:"description,omitzero"`
}

// OAuthDemands is the card declaration of [OAuthURI].
type OAuthDemands struct {
	OAuthDemands map[string]OAuthDemand `json:"oauth_demands"`
}

// OAuthFulfillment tells the agent where to send the user after authorization.
type OAuthFulfillment struct {
	RedirectURI string `json:"redirect_uri"`
}

// ApprovalRequest asks the user to approve an action, typically a tool call.
type ApprovalRequest struct {
	ID          string         `json:"id,omitzero"`
	Action      string         `json:"action"`
	Title       string         `json:"title,omitzero"`
	Description string         `json:"description,omitzero"`
	Input       map[string]any `json:"input,omitzero"`
}

// ApprovalDecision is the answer to an [ApprovalRequest].
type ApprovalDecision string

// Approval decisions.
const (
	ApprovalApprove ApprovalDecision = "approve"
	ApprovalReject  ApprovalDecision = "reject"
)

// ApprovalResponse is the user's answer to an [ApprovalRequest].
type ApprovalResponse struct {
	ID       string           `json:"id,omitzero"`
	Decision ApprovalDecision `json:"decision"`
}

// CanvasEditRequest asks the agent to rewrite a range of an artifact. The
// indices count code points of the artifact text.
type CanvasEditRequest struct {
	StartIndex  int    `json:"start_index"`
	EndIndex    int    `json:"end_index"`
	Description string `json:"description"`
	ArtifactID  string `json:"artifact_id"`
}

// LLMDemand is a language model slot declared by the agent.
type LLMDemand struct {
	Description     string   `json:"description,omitzero"`
	SuggestedModels []string `json:"suggested,omitzero"`
}

// LLMDemands is the card declaration of [LLMURI].
type LLMDemands struct {
	LLMDemands map[string]LLMDemand `json:"llm_demands"`
}

// EmbeddingDemand is an embedding model slot declared by the agent.
type EmbeddingDemand struct {
	Description     string   `json:"description,omitzero"`
	SuggestedModels []string `json:"suggested,omitzero"`
}

// EmbeddingDemands is the card declaration of [EmbeddingURI].
type EmbeddingDemands struct {
	EmbeddingDemands map[string]EmbeddingDemand `json:"embedding_demands"`
}

// ModelFulfillment is an OpenAI compatible endpoint serving one model.
// It answers both [LLMDemand] and [EmbeddingDemand] slots.
type ModelFulfillment struct {
	Identifier string `json:"identifier,omitzero"`
	APIBase    string `json:"api_base"`
	APIKey     string `json:"api_key"`
	APIModel   string `json:"api_model"`
}

// MCPDemand is a tool server slot declared by the agent.
type MCPDemand struct {
	Description string `json:"description,omitzero"`
}

// MCPDemands is the card declaration of [MCPURI].
type MCPDemands struct {
	MCPDemands map[string]MCPDemand `json:"mcp_demands"`
}

// MCPTransport locates a tool server.
type MCPTransport struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// MCPFulfillment is the resolved tool server for an [MCPDemand].
type MCPFulfillment struct {
	Transport MCPTransport `json:"transport"`
}
