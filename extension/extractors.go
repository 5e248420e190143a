// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package extension

import (
	"errors"
	"fmt"
)

// Extractors bundles the extractors applied to incoming agent messages.
type Extractors struct {
	Citation   Extractor[CitationMetadata]
	Trajectory Extractor[Trajectory]
	Form       Extractor[FormRequest]
	Approval   Extractor[ApprovalRequest]
	Secrets    Extractor[SecretDemands]
	OAuth      Extractor[OAuthRequest]
}

// DefaultExtractors returns JSON extractors for every extension with the
// default validation rules.
func DefaultExtractors() Extractors {
	return Extractors{
		Citation:   NewExtractor(CitationURI, validateCitations),
		Trajectory: NewExtractor(TrajectoryURI, validateTrajectory),
		Form:       NewExtractor(FormURI, validateForm),
		Approval:   NewExtractor(ApprovalURI, validateApproval),
		Secrets:    NewExtractor(SecretsURI, validateSecrets),
		OAuth:      NewExtractor(OAuthURI, validateOAuth),
	}
}

func validateCitations(m *CitationMetadata) error {
	for i, c := range m.Citations {
		if c.StartIndex != nil && *c.StartIndex < 0 {
			return fmt.Errorf("citation %d: negative start_index", i)
		}
		if c.StartIndex != nil && c.EndIndex != nil && *c.EndIndex < *c.StartIndex {
			return fmt.Errorf("citation %d: end_index before start_index", i)
		}
	}
	return nil
}

func validateTrajectory(t *Trajectory) error {
	if t.Title == "" && t.Content == "" {
		return errors.New("empty trajectory")
	}
	return nil
}

func validateForm(f *FormRequest) error {
	if len(f.Fields) == 0 {
		return errors.New("form has no fields")
	}
	for i, field := range f.Fields {
		if field.ID == "" {
			return fmt.Errorf("form field %d has no id", i)
		}
	}
	return nil
}

func validateApproval(a *ApprovalRequest) error {
	if a.Action == "" {
		return errors.New("approval request has no action")
	}
	return nil
}

func validateSecrets(s *SecretDemands) error {
	if len(s.SecretDemands) == 0 {
		return errors.New("no secret demands")
	}
	return nil
}

func validateOAuth(o *OAuthRequest) error {
	if o.AuthorizationEndpointURL == "" {
		return errors.New("missing authorization endpoint")
	}
	return nil
}
