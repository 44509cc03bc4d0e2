// Copyright 2026 The ovsdb-go Authors
// SPDX-License-Identifier: BSD-2-Clause

// Package ovsdb implements the OVSDB method layer: typed wrappers for the
// list-databases, get-schema, transact, monitor/cancel and lock/steal/unlock
// operations, built on top of package jsonrpc's duplex engine, the inbound
// echo/update/locked/stolen handlers, and the monitor/lock callback registries that tie asynchronous server
// notifications back to the caller that armed them.
package ovsdb

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/juju/loggo/v2"

	"github.com/jobs77/ovsdb-client-library/jsonrpc"
)

var logger = loggo.GetLogger("ovsdb.client")

const (
	methodListDatabases = "list_dbs"
	methodGetSchema     = "get_schema"
	methodTransact      = "transact"
	methodMonitor       = "monitor"
	methodMonitorCancel = "monitor_cancel"
	methodLock          = "lock"
	methodSteal         = "steal"
	methodUnlock        = "unlock"
)

// Client is the OVSDB method surface bound to one live connection. It is
// safe for concurrent use by many callers.
type Client struct {
	rpc *jsonrpc.Client
	srv *jsonrpc.Server
	ids jsonrpc.IDGenerator

	// pool and transport are set by Bind once the connection is active;
	// Shutdown uses transport to tear down the byte-stream, which in turn
	// lets the connection's reader loop terminate and drain the pool.
	pool      *jsonrpc.Pool
	transport jsonrpc.Transporter

	info ConnectionInfo

	monitors *monitorRegistry
	locks    *lockRegistry

	active int32
}

// newClient builds a Client bound to the given engines and connection
// metadata, and binds the four inbound handlers (echo/update/locked/stolen)
// onto srv. Unexported: callers obtain a Client through Dial or Bind (see
// connect.go), which are responsible for sequencing the connection
// lifecycle correctly around it.
func newClient(rpc *jsonrpc.Client, srv *jsonrpc.Server, info ConnectionInfo) *Client {
	c := &Client{
		rpc:      rpc,
		srv:      srv,
		info:     info,
		monitors: newMonitorRegistry(),
		locks:    newLockRegistry(),
		active:   1,
	}
	c.bindHandlers()
	return c
}

func (c *Client) bindHandlers() {
	c.srv.Handle("echo", handleEcho)
	c.srv.Handle("update", c.handleUpdate)
	c.srv.Handle("locked", c.handleLocked)
	c.srv.Handle("stolen", c.handleStolen)
}

func (c *Client) isActive() bool { return atomic.LoadInt32(&c.active) == 1 }

func (c *Client) call(ctx context.Context, method string, result any, params ...any) error {
	if !c.isActive() {
		return jsonrpc.ErrInactiveClient
	}
	id := c.ids.Next()
	return c.rpc.Call(ctx, id, method, result, params...)
}

// ListDatabases returns the names of the databases the server manages.
func (c *Client) ListDatabases(ctx context.Context) ([]string, error) {
	var dbs []string
	if err := c.call(ctx, methodListDatabases, &dbs); err != nil {
		return nil, err
	}
	return dbs, nil
}

// GetSchema returns the schema of the named database.
func (c *Client) GetSchema(ctx context.Context, dbName string) (DatabaseSchema, error) {
	var schema DatabaseSchema
	if err := c.call(ctx, methodGetSchema, &schema, dbName); err != nil {
		return nil, err
	}
	return schema, nil
}

// Transact executes operations against the named database as a single
// transaction and returns one OperationResult per operation.
func (c *Client) Transact(ctx context.Context, dbName string, operations ...Operation) ([]OperationResult, error) {
	params := make([]any, 0, len(operations)+1)
	params = append(params, dbName)
	for _, op := range operations {
		params = append(params, op)
	}
	var results []OperationResult
	if err := c.call(ctx, methodTransact, &results, params...); err != nil {
		return nil, err
	}
	return results, nil
}

// Monitor arms a subscription for dbName under monitorID. cb is installed to
// receive subsequent update notifications for monitorID only once the
// server has acknowledged the subscription; if the call fails, no callback
// is installed.
func (c *Client) Monitor(ctx context.Context, dbName, monitorID string, requests MonitorRequests, cb MonitorCallback) (TableUpdates, error) {
	var updates TableUpdates
	if err := c.call(ctx, methodMonitor, &updates, dbName, monitorID, requests); err != nil {
		return nil, err
	}
	c.monitors.install(monitorID, cb)
	return updates, nil
}

// CancelMonitor tears down monitorID's subscription and, only once the
// server has acknowledged it, removes its callback.
func (c *Client) CancelMonitor(ctx context.Context, monitorID string) error {
	if err := c.call(ctx, methodMonitorCancel, nil, monitorID); err != nil {
		return err
	}
	c.monitors.remove(monitorID)
	return nil
}

// Lock requests the named lock. cb is installed to receive locked/stolen
// notifications for lockID only once the server has responded successfully
// (whether the lock was granted immediately or queued).
func (c *Client) Lock(ctx context.Context, lockID string, cb LockCallback) (LockResult, error) {
	var result LockResult
	if err := c.call(ctx, methodLock, &result, lockID); err != nil {
		return nil, err
	}
	c.locks.install(lockID, cb)
	return result, nil
}

// Steal forcibly takes over lockID. It installs no callback: the caller is
// assumed to already have one armed via a prior Lock.
func (c *Client) Steal(ctx context.Context, lockID string) (LockResult, error) {
	var result LockResult
	if err := c.call(ctx, methodSteal, &result, lockID); err != nil {
		return nil, err
	}
	return result, nil
}

// Unlock releases the named lock and, only once the server has acknowledged
// it, removes its callback.
func (c *Client) Unlock(ctx context.Context, lockID string) error {
	if err := c.call(ctx, methodUnlock, nil, lockID); err != nil {
		return err
	}
	c.locks.remove(lockID)
	return nil
}

// GetConnectionInfo returns the connection metadata captured at bind time.
func (c *Client) GetConnectionInfo() ConnectionInfo { return c.info }

// Shutdown tears down the client: the RPC engines are shut down (resolving
// every call still pending with a shutdown error) and both callback
// registries are cleared. Idempotent.
func (c *Client) Shutdown() {
	if !atomic.CompareAndSwapInt32(&c.active, 1, 0) {
		return
	}
	logger.Infof("shutting down ovsdb client %s", c.info)
	c.rpc.Shutdown()
	c.srv.Shutdown()
	c.monitors.clear()
	c.locks.clear()
	if c.transport != nil {
		_ = c.transport.Close()
	}
}

func (c *Client) String() string {
	return fmt.Sprintf("ovsdb.Client[%s active=%t]", c.info, c.isActive())
}
