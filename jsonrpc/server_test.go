// Copyright 2026 The ovsdb-go Authors
// SPDX-License-Identifier: BSD-2-Clause

package jsonrpc

import (
	"encoding/json"
	"sync"
	"testing"
)

// fakeTransport records every value handed to Send for inspection by tests.
type fakeTransport struct {
	mu      sync.Mutex
	sent    []json.RawMessage
	sendCh  chan json.RawMessage
	sendErr error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{sendCh: make(chan json.RawMessage, 16)}
}

func (f *fakeTransport) Send(v any) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.sent = append(f.sent, b)
	f.mu.Unlock()
	f.sendCh <- b
	return nil
}

func (f *fakeTransport) Close() error { return nil }

func decodeEnvelope(t *testing.T, raw json.RawMessage) map[string]json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("decoding sent envelope: %v", err)
	}
	return m
}

func TestServerHandleRequestSuccess(t *testing.T) {
	transport := newFakeTransport()
	pool := newTestPool(t)
	srv := NewServer(transport, pool)
	srv.Handle("echo", func(params []json.RawMessage) (any, error) {
		return params, nil
	})

	id := "7"
	srv.HandleRequest(&RequestFrame{ID: &id, Method: "echo", Params: []json.RawMessage{[]byte(`"hi"`)}})

	sent := <-transport.sendCh
	env := decodeEnvelope(t, sent)
	if !isJSONNull(env["error"]) {
		t.Errorf("error field = %s, want null", env["error"])
	}
	var result []json.RawMessage
	if err := json.Unmarshal(env["result"], &result); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if len(result) != 1 || string(result[0]) != `"hi"` {
		t.Errorf("result = %v, want [\"hi\"]", result)
	}
}

func TestServerHandleRequestUnknownMethod(t *testing.T) {
	transport := newFakeTransport()
	pool := newTestPool(t)
	srv := NewServer(transport, pool)

	id := "1"
	srv.HandleRequest(&RequestFrame{ID: &id, Method: "no_such_method"})

	sent := <-transport.sendCh
	env := decodeEnvelope(t, sent)
	if isJSONNull(env["error"]) {
		t.Error("unknown method produced a null error field")
	}
}

func TestServerHandleNotificationNeverReplies(t *testing.T) {
	transport := newFakeTransport()
	pool := newTestPool(t)
	srv := NewServer(transport, pool)

	called := make(chan struct{})
	srv.Handle("update", func(params []json.RawMessage) (any, error) {
		close(called)
		return nil, nil
	})

	srv.HandleRequest(&RequestFrame{ID: nil, Method: "update", Params: []json.RawMessage{[]byte(`"mon1"`)}})

	<-called
	select {
	case sent := <-transport.sendCh:
		t.Fatalf("notification unexpectedly produced a reply: %s", sent)
	default:
	}
}

func TestServerShutdownClearsHandlers(t *testing.T) {
	transport := newFakeTransport()
	pool := newTestPool(t)
	srv := NewServer(transport, pool)
	srv.Handle("echo", func(params []json.RawMessage) (any, error) { return nil, nil })

	srv.Shutdown()

	id := "1"
	srv.HandleRequest(&RequestFrame{ID: &id, Method: "echo"})
	select {
	case sent := <-transport.sendCh:
		t.Fatalf("shut-down server replied: %s", sent)
	default:
	}
}
