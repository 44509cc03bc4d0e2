// Copyright 2026 The ovsdb-go Authors
// SPDX-License-Identifier: BSD-2-Clause

package ovsdb

import "encoding/json"

// DatabaseSchema, Operation, OperationResult, TableUpdates, MonitorRequests
// and LockResult are the OVSDB wire value types. Per spec they are treated
// as opaque serializable records: this package assembles and decodes them
// as generic JSON and never validates their shape beyond what the wire
// requires. Callers build Operation values by marshalling, e.g., a
// map[string]any with an "op" key, or unmarshal a DatabaseSchema/TableUpdates into their own
// richer type when they need one.
type (
	DatabaseSchema  = json.RawMessage
	Operation       = json.RawMessage
	OperationResult = json.RawMessage
	TableUpdates    = json.RawMessage
	MonitorRequests = json.RawMessage
	LockResult      = json.RawMessage
)
