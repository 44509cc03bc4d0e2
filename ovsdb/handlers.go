// Copyright 2026 The ovsdb-go Authors
// SPDX-License-Identifier: BSD-2-Clause

package ovsdb

import (
	"encoding/json"

	"github.com/juju/errors"
)

// handleEcho answers a peer's keepalive echo with its argument vector
// verbatim.
func handleEcho(params []json.RawMessage) (any, error) {
	return params, nil
}

// handleUpdate delivers a table-update notification to the monitor callback
// armed for its monitor id, if any is currently installed; an update for an
// unknown or no-longer-monitored id is dropped silently.
func (c *Client) handleUpdate(params []json.RawMessage) (any, error) {
	if len(params) < 2 {
		return nil, errors.Errorf("update: expected 2 params, got %d", len(params))
	}
	var monitorID string
	if err := json.Unmarshal(params[0], &monitorID); err != nil {
		return nil, errors.Annotate(err, "update: decoding monitor id")
	}
	cb, ok := c.monitors.get(monitorID)
	if !ok {
		logger.Debugf("dropping update for unknown monitor %q", monitorID)
		return nil, nil
	}
	cb.Update(TableUpdates(params[1]))
	return nil, nil
}

// handleLocked delivers a locked notification to the lock callback armed for
// its lock id, if any is currently installed.
func (c *Client) handleLocked(params []json.RawMessage) (any, error) {
	lockID, err := decodeLockID("locked", params)
	if err != nil {
		return nil, err
	}
	if cb, ok := c.locks.get(lockID); ok {
		cb.Locked()
	} else {
		logger.Debugf("dropping locked notification for unknown lock %q", lockID)
	}
	return nil, nil
}

// handleStolen delivers a stolen notification to the lock callback armed for
// its lock id, if any is currently installed.
func (c *Client) handleStolen(params []json.RawMessage) (any, error) {
	lockID, err := decodeLockID("stolen", params)
	if err != nil {
		return nil, err
	}
	if cb, ok := c.locks.get(lockID); ok {
		cb.Stolen()
	} else {
		logger.Debugf("dropping stolen notification for unknown lock %q", lockID)
	}
	return nil, nil
}

func decodeLockID(method string, params []json.RawMessage) (string, error) {
	if len(params) < 1 {
		return "", errors.Errorf("%s: expected 1 param, got %d", method, len(params))
	}
	var lockID string
	if err := json.Unmarshal(params[0], &lockID); err != nil {
		return "", errors.Annotatef(err, "%s: decoding lock id", method)
	}
	return lockID, nil
}
