// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	stdjson "encoding/json"
	"fmt"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/go-json-experiment/json"

	a2a "github.com/go-a2a/a2a-chat"
	"github.com/go-a2a/a2a-chat/internal/pool"
)

// encodeRequest encodes a JSON-RPC request. Params are encoded with the wire
// model codec; the envelope with sonic.
func (c *Client) encodeRequest(method string, params any) ([]byte, error) {
	buf := pool.Bytes.Get()
	defer pool.Bytes.Put(buf)

	if err := json.MarshalWrite(buf, params); err != nil {
		return nil, fmt.Errorf("marshaling %s params: %w", method, err)
	}

	id := a2a.NewID("req-" + strconv.FormatInt(c.nextID.Add(1), 10))
	req := a2a.NewRequest(id, method, stdjson.RawMessage(buf.Bytes()))
	data, err := sonic.ConfigFastest.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s request: %w", method, err)
	}
	return data, nil
}

// decodeResult returns the raw result of a JSON-RPC response, or its error.
func decodeResult(data []byte) ([]byte, error) {
	var resp a2a.Response
	if err := sonic.ConfigFastest.Unmarshal(data, &resp); err != nil {
		return nil, NewDecodeError("JSON-RPC response", err)
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	if len(resp.Result) == 0 || string(resp.Result) == "null" {
		return nil, ErrEmptyResult
	}
	return resp.Result, nil
}

// decodeEvent decodes the data of one SSE event into a stream event.
func decodeEvent(data []byte) (a2a.StreamEvent, error) {
	raw, err := decodeResult(data)
	if err != nil {
		return nil, err
	}
	ev, err := a2a.UnmarshalStreamEvent(raw)
	if err != nil {
		return nil, NewDecodeError("stream event", err)
	}
	return ev, nil
}
