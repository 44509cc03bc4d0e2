// Copyright 2026 The ovsdb-go Authors
// SPDX-License-Identifier: BSD-2-Clause

package jsonrpc

import (
	"encoding/json"
	"io"

	"github.com/juju/errors"
)

// Reader drives the byte-stream: it decodes concatenated JSON objects,
// classifies each one, and routes it to the bound Client or Server. It never
// executes user code itself — request/notification handling is always
// handed to the Pool, which is the only place user callbacks run.
//
// Per the "duplex identity crisis" design note, Reader routes purely by
// frame shape (Classify), never by whether a call happens to be pending:
// client call ids and server request ids are independent namespaces.
type Reader struct {
	dec    *json.Decoder
	client *Client
	server *Server
	pool   *Pool
}

// NewReader builds a Reader that decodes frames from r and dispatches them
// to client and server via pool.
func NewReader(r io.Reader, client *Client, server *Server, pool *Pool) *Reader {
	return &Reader{dec: json.NewDecoder(r), client: client, server: server, pool: pool}
}

// Run reads frames until the stream ends or a decode error occurs. It
// returns the terminal error (io.EOF on an orderly close).
func (rd *Reader) Run() error {
	for {
		var raw map[string]json.RawMessage
		if err := rd.dec.Decode(&raw); err != nil {
			return err
		}
		rd.dispatch(raw)
	}
}

func (rd *Reader) dispatch(raw map[string]json.RawMessage) {
	switch Classify(raw) {
	case FrameRequest:
		frame, err := decodeRequestFrame(raw)
		if err != nil {
			logger.Warningf("dropping malformed request frame: %v", err)
			return
		}
		if frame.IsNotification() {
			rd.pool.SubmitOrdered(notificationOrderKey(frame), func() {
				rd.server.HandleRequest(frame)
			})
		} else {
			rd.pool.Submit(func() { rd.server.HandleRequest(frame) })
		}
	case FrameResponse:
		frame, err := decodeResponseFrame(raw)
		if err != nil {
			logger.Warningf("dropping malformed response frame: %v", err)
			return
		}
		// Resolving a pending call's slot is engine bookkeeping, not user
		// code: it unblocks a Call() goroutine but runs no callback itself.
		rd.client.HandleResponse(frame)
	default:
		logger.Warningf("dropping frame missing id/method/params and id/result/error")
	}
}

// notificationOrderKey picks the ordering key a notification is serialised
// on. "update" notifications are keyed by monitor id, which is their first
// parameter, so that updates for one monitor are delivered in arrival order
// while different monitors may be delivered concurrently. Every other
// notification method is keyed by its method name.
func notificationOrderKey(frame *RequestFrame) string {
	if frame.Method == "update" && len(frame.Params) > 0 {
		var monitorID string
		if err := json.Unmarshal(frame.Params[0], &monitorID); err == nil {
			return "update:" + monitorID
		}
	}
	return frame.Method
}

func decodeRequestFrame(raw map[string]json.RawMessage) (*RequestFrame, error) {
	var f RequestFrame
	if err := assignField(raw, "id", &f.ID); err != nil {
		return nil, err
	}
	if err := assignField(raw, "method", &f.Method); err != nil {
		return nil, err
	}
	if err := assignField(raw, "params", &f.Params); err != nil {
		return nil, err
	}
	return &f, nil
}

func decodeResponseFrame(raw map[string]json.RawMessage) (*ResponseFrame, error) {
	var f ResponseFrame
	if err := assignField(raw, "id", &f.ID); err != nil {
		return nil, err
	}
	f.Result = raw["result"]
	f.Error = raw["error"]
	return &f, nil
}

func assignField(raw map[string]json.RawMessage, key string, dest any) error {
	v, ok := raw[key]
	if !ok {
		return errors.Errorf("frame missing %q", key)
	}
	if err := json.Unmarshal(v, dest); err != nil {
		return errors.Annotatef(err, "decoding %q", key)
	}
	return nil
}
