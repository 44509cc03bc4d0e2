// Copyright 2026 The ovsdb-go Authors
// SPDX-License-Identifier: BSD-2-Clause

package jsonrpc

import (
	"encoding/json"
	"sync"

	"github.com/juju/clock"
)

// callResult is what resolves a pendingCall's slot: exactly one of result or
// err is meaningful.
type callResult struct {
	result json.RawMessage
	err    error
}

// pendingCall is the waiter half of an in-flight Call: a one-shot delivery
// slot plus the deadline timer armed for it. Exactly one of {response
// delivered, timeout fired, shutdown} ever resolves it, because only the
// first caller to remove it from the pendingTable is allowed to resolve it.
type pendingCall struct {
	id     string
	method string
	slot   chan *callResult
	timer  clock.Timer
}

func newPendingCall(id, method string) *pendingCall {
	return &pendingCall{id: id, method: method, slot: make(chan *callResult, 1)}
}

func (p *pendingCall) stopTimer() {
	if p.timer != nil {
		p.timer.Stop()
	}
}

func (p *pendingCall) resolve(res *callResult) {
	p.slot <- res
}

// pendingTable maps call id to its waiter. It is the single synchronisation
// point between the call site, the response path and the timeout path:
// removal is a compare-and-delete (a plain map lookup-then-delete guarded by
// a mutex) so that exactly one of them ever resolves a given call.
type pendingTable struct {
	mu      sync.Mutex
	entries map[string]*pendingCall
}

func newPendingTable() *pendingTable {
	return &pendingTable{entries: make(map[string]*pendingCall)}
}

func (t *pendingTable) add(p *pendingCall) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[p.id] = p
}

// take removes and returns the pending call for id. The boolean reports
// whether an entry was found; a false return means some other path (a
// previous response, a previous timeout, or a shutdown) already claimed it,
// or the id was never issued.
func (t *pendingTable) take(id string) (*pendingCall, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.entries[id]
	if ok {
		delete(t.entries, id)
	}
	return p, ok
}

// drain removes and returns every pending call, for use by Shutdown.
func (t *pendingTable) drain() []*pendingCall {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*pendingCall, 0, len(t.entries))
	for _, p := range t.entries {
		out = append(out, p)
	}
	t.entries = make(map[string]*pendingCall)
	return out
}

// Len reports the number of calls currently outstanding. Exposed for
// diagnostics and tests.
func (t *pendingTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
