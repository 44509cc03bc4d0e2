// Copyright 2026 The ovsdb-go Authors
// SPDX-License-Identifier: BSD-2-Clause

package jsonrpc

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
)

func TestClientCallSuccess(t *testing.T) {
	transport := newFakeTransport()
	pool := newTestPool(t)
	client := NewClient(transport, pool, testclock.NewClock(time.Now()), time.Minute)

	resultCh := make(chan error, 1)
	var dbs []string
	go func() {
		resultCh <- client.Call(context.Background(), "0", "list_dbs", &dbs)
	}()

	sent := <-transport.sendCh
	env := decodeEnvelope(t, sent)
	var id string
	if err := json.Unmarshal(env["id"], &id); err != nil {
		t.Fatalf("decoding id: %v", err)
	}

	client.HandleResponse(&ResponseFrame{ID: &id, Result: []byte(`["Open_vSwitch"]`)})

	if err := <-resultCh; err != nil {
		t.Fatalf("Call returned %v, want nil", err)
	}
	if len(dbs) != 1 || dbs[0] != "Open_vSwitch" {
		t.Errorf("decoded result = %v, want [Open_vSwitch]", dbs)
	}
}

func TestClientCallApplicationErrorWinsOverResult(t *testing.T) {
	transport := newFakeTransport()
	pool := newTestPool(t)
	client := NewClient(transport, pool, testclock.NewClock(time.Now()), time.Minute)

	resultCh := make(chan error, 1)
	go func() {
		resultCh <- client.Call(context.Background(), "0", "transact", nil)
	}()

	sent := <-transport.sendCh
	env := decodeEnvelope(t, sent)
	var id string
	_ = json.Unmarshal(env["id"], &id)

	client.HandleResponse(&ResponseFrame{ID: &id, Result: []byte(`[{"count":1}]`), Error: []byte(`"constraint violation"`)})

	err := <-resultCh
	if err == nil {
		t.Fatal("Call returned nil, want the application error")
	}
	if !IsKind(err, KindApplication) {
		t.Errorf("error kind = %v, want KindApplication", err)
	}
}

func TestClientCallTimeout(t *testing.T) {
	transport := newFakeTransport()
	pool := newTestPool(t)
	clk := testclock.NewClock(time.Now())
	client := NewClient(transport, pool, clk, 10*time.Millisecond)

	resultCh := make(chan error, 1)
	go func() {
		resultCh <- client.Call(context.Background(), "0", "echo", nil)
	}()

	<-transport.sendCh
	if err := clk.WaitAdvance(10*time.Millisecond, time.Second, 1); err != nil {
		t.Fatalf("WaitAdvance: %v", err)
	}

	select {
	case err := <-resultCh:
		if !IsKind(err, KindTimeout) {
			t.Errorf("error kind = %v, want KindTimeout", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Call never returned after the deadline fired")
	}
}

func TestClientShutdownResolvesPendingCalls(t *testing.T) {
	transport := newFakeTransport()
	pool := newTestPool(t)
	client := NewClient(transport, pool, testclock.NewClock(time.Now()), time.Minute)

	resultCh := make(chan error, 1)
	go func() {
		resultCh <- client.Call(context.Background(), "0", "echo", nil)
	}()
	<-transport.sendCh

	client.Shutdown()
	// A second Shutdown must be a no-op, not a panic or double resolve.
	client.Shutdown()

	select {
	case err := <-resultCh:
		if !IsKind(err, KindShutdown) {
			t.Errorf("error kind = %v, want KindShutdown", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Call never returned after Shutdown")
	}

	if err := client.Call(context.Background(), "1", "echo", nil); !errors.Is(err, ErrInactiveClient) {
		t.Errorf("Call after Shutdown = %v, want ErrInactiveClient", err)
	}
}

func TestClientHandleResponseUnknownIDDropped(t *testing.T) {
	transport := newFakeTransport()
	pool := newTestPool(t)
	client := NewClient(transport, pool, testclock.NewClock(time.Now()), time.Minute)

	// Must not panic: there is no pending call for "missing".
	id := "missing"
	client.HandleResponse(&ResponseFrame{ID: &id, Result: []byte(`null`)})

	if got := client.Pending(); got != 0 {
		t.Errorf("Pending() = %d, want 0", got)
	}
}
