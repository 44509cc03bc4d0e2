// Copyright 2026 The ovsdb-go Authors
// SPDX-License-Identifier: BSD-2-Clause

package ovsdb

// ConnectionCallback is notified of a client's connection lifecycle.
// Connected is invoked exactly once per Client; Disconnected at most once,
// and only after Connected.
type ConnectionCallback interface {
	Connected(client *Client)
	Disconnected(client *Client)
}

// MonitorCallback receives table updates for a monitor once it has been
// successfully armed with Client.Monitor.
type MonitorCallback interface {
	Update(updates TableUpdates)
}

// LockCallback receives lock state-change notifications for a lock once it
// has been successfully armed with Client.Lock.
type LockCallback interface {
	Locked()
	Stolen()
}

// ConnectionCallbackFuncs adapts two functions to a ConnectionCallback.
type ConnectionCallbackFuncs struct {
	OnConnected    func(client *Client)
	OnDisconnected func(client *Client)
}

func (f ConnectionCallbackFuncs) Connected(client *Client) {
	if f.OnConnected != nil {
		f.OnConnected(client)
	}
}

func (f ConnectionCallbackFuncs) Disconnected(client *Client) {
	if f.OnDisconnected != nil {
		f.OnDisconnected(client)
	}
}

// MonitorCallbackFunc adapts a function to a MonitorCallback.
type MonitorCallbackFunc func(updates TableUpdates)

func (f MonitorCallbackFunc) Update(updates TableUpdates) { f(updates) }

// LockCallbackFuncs adapts two functions to a LockCallback.
type LockCallbackFuncs struct {
	OnLocked func()
	OnStolen func()
}

func (f LockCallbackFuncs) Locked() {
	if f.OnLocked != nil {
		f.OnLocked()
	}
}

func (f LockCallbackFuncs) Stolen() {
	if f.OnStolen != nil {
		f.OnStolen()
	}
}
