// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import (
	a2a "github.com/go-a2a/a2a-chat"
	"github.com/go-a2a/a2a-chat/extension"
	"github.com/go-a2a/a2a-chat/selection"
)

// EditMessage returns a user turn asking the agent to apply instruction to the
// span sel of the artifact artifactID. The turn still needs to be sent with
// [Session.Chat].
func EditMessage(sel selection.Result, instruction, artifactID string) (*a2a.Message, error) {
	meta, err := extension.Encode(extension.CanvasURI, extension.CanvasEditRequest{
		StartIndex:  sel.StartIndex,
		EndIndex:    sel.EndIndex,
		Description: instruction,
		ArtifactID:  artifactID,
	})
	if err != nil {
		return nil, err
	}
	msg := a2a.NewUserTextMessage(instruction, "", "")
	msg.Metadata = meta
	return msg, nil
}
