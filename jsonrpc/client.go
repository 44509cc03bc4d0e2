// Copyright 2026 The ovsdb-go Authors
// SPDX-License-Identifier: BSD-2-Clause

package jsonrpc

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
)

var logger = loggo.GetLogger("ovsdb.jsonrpc")

// DefaultRPCTimeout is the per-call timeout used when a Client is built
// without an explicit override.
const DefaultRPCTimeout = 60 * time.Second

// Client is the JSON-RPC client engine: it emits requests, correlates them
// with responses via a pending-call table, enforces a per-call timeout, and
// supports shutdown. It never emits a response frame of its own; that is the
// server engine's job.
type Client struct {
	transport Transporter
	pool      *Pool
	clk       clock.Clock
	timeout   time.Duration

	pending *pendingTable
	active  int32
}

// NewClient builds a Client engine. pool is the shared worker pool whose
// Submit is used to run the deadline-timer callback off the reader path; clk
// defaults to clock.WallClock; timeout defaults to DefaultRPCTimeout.
func NewClient(transport Transporter, pool *Pool, clk clock.Clock, timeout time.Duration) *Client {
	if clk == nil {
		clk = clock.WallClock
	}
	if timeout <= 0 {
		timeout = DefaultRPCTimeout
	}
	return &Client{
		transport: transport,
		pool:      pool,
		clk:       clk,
		timeout:   timeout,
		pending:   newPendingTable(),
		active:    1,
	}
}

// Call emits method(params...) under call id id and blocks until the
// correlated response arrives, the per-call timeout fires, the client is
// shut down, or ctx is done. result, if non-nil, receives the decoded
// `result` field of a successful response.
func (c *Client) Call(ctx context.Context, id, method string, result any, params ...any) error {
	if atomic.LoadInt32(&c.active) == 0 {
		return ErrInactiveClient
	}

	raw := make([]json.RawMessage, len(params))
	for i, v := range params {
		b, err := json.Marshal(v)
		if err != nil {
			return errors.Annotatef(err, "encoding parameter %d for %q", i, method)
		}
		raw[i] = b
	}

	pc := newPendingCall(id, method)
	pc.timer = c.clk.AfterFunc(c.timeout, func() {
		c.pool.Submit(func() { c.fireTimeout(id, method) })
	})
	c.pending.add(pc)

	idCopy := id
	if err := c.transport.Send(&RequestFrame{ID: &idCopy, Method: method, Params: raw}); err != nil {
		if claimed, ok := c.pending.take(id); ok {
			claimed.stopTimer()
			claimed.resolve(&callResult{err: NewTransportError(err)})
		}
	}

	select {
	case res := <-pc.slot:
		return decodeResult(res, result)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func decodeResult(res *callResult, result any) error {
	if res.err != nil {
		return res.err
	}
	if result == nil || isJSONNull(res.result) {
		return nil
	}
	if err := json.Unmarshal(res.result, result); err != nil {
		return errors.Annotate(err, "decoding rpc result")
	}
	return nil
}

// fireTimeout is the deadline-timer callback, always run as a pool task
// (never directly from the clock implementation), per the engine's
// cooperative-dispatch rule.
func (c *Client) fireTimeout(id, method string) {
	pc, ok := c.pending.take(id)
	if !ok {
		// Response (or shutdown) already claimed this id; nothing to do.
		return
	}
	pc.resolve(&callResult{err: NewTimeoutError(method, id)})
}

// HandleResponse correlates an inbound response frame with its pending call
// and resolves it. An id with no live pending call (already timed out,
// already answered, or never issued) is logged and dropped.
func (c *Client) HandleResponse(frame *ResponseFrame) {
	if frame.ID == nil {
		logger.Warningf("dropping response frame with a null id")
		return
	}
	pc, ok := c.pending.take(*frame.ID)
	if !ok {
		logger.Debugf("dropping response for unknown or already-resolved call id %q", *frame.ID)
		return
	}
	pc.stopTimer()

	if !isJSONNull(frame.Error) {
		pc.resolve(&callResult{err: NewApplicationError(frame.Error)})
		return
	}
	pc.resolve(&callResult{result: frame.Result})
}

// Shutdown resolves every live pending call with a shutdown error and clears
// the table. Idempotent.
func (c *Client) Shutdown() {
	if !atomic.CompareAndSwapInt32(&c.active, 1, 0) {
		return
	}
	for _, pc := range c.pending.drain() {
		pc.stopTimer()
		pc.resolve(&callResult{err: NewShutdownError()})
	}
}

// Pending reports the number of calls currently outstanding. Exposed for
// diagnostics and tests.
func (c *Client) Pending() int { return c.pending.Len() }
