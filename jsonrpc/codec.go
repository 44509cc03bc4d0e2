// Copyright 2026 The ovsdb-go Authors
// SPDX-License-Identifier: BSD-2-Clause

package jsonrpc

import "encoding/json"

// RequestFrame is the wire shape of an outbound call or of an inbound
// request/notification. A notification is an inbound RequestFrame whose ID
// is nil; on outbound calls ID is never nil.
type RequestFrame struct {
	ID     *string           `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// IsNotification reports whether the frame expects no reply.
func (f *RequestFrame) IsNotification() bool {
	return f.ID == nil
}

// ResponseFrame is the wire shape of a JSON-RPC 1.0 response. Exactly one of
// Result and Error is expected to be non-null; if both are non-null, Error
// wins (see Client.HandleResponse).
type ResponseFrame struct {
	ID     *string         `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  json.RawMessage `json:"error"`
}

// FrameKind identifies how an inbound frame should be routed once parsed.
type FrameKind int

const (
	// FrameInvalid means the frame carries neither a complete request shape
	// nor a complete response shape and must be logged and dropped.
	FrameInvalid FrameKind = iota
	// FrameRequest means the frame should be handed to the server engine.
	FrameRequest
	// FrameResponse means the frame should be handed to the client engine.
	FrameResponse
)

// Classify decides whether a parsed JSON object is a request/notification or
// a response, given only the set of top-level keys present (their values may
// be null). A frame carrying all five of id/method/params/result/error is
// classified as a request first, per spec: OVSDB never emits such a frame,
// but routing by shape must still be total.
func Classify(raw map[string]json.RawMessage) FrameKind {
	_, hasID := raw["id"]
	_, hasMethod := raw["method"]
	_, hasParams := raw["params"]
	if hasID && hasMethod && hasParams {
		return FrameRequest
	}
	_, hasResult := raw["result"]
	_, hasError := raw["error"]
	if hasID && hasResult && hasError {
		return FrameResponse
	}
	return FrameInvalid
}

func isJSONNull(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return true
	}
	return string(raw) == "null"
}
