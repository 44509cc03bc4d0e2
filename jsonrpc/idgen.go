// Copyright 2026 The ovsdb-go Authors
// SPDX-License-Identifier: BSD-2-Clause

package jsonrpc

import (
	"strconv"
	"sync/atomic"
)

// IDGenerator produces a unique string call id per outbound call, by
// monotonic increment of an integer, rendered in decimal. It is safe for
// concurrent use and never reuses a value for the lifetime of the process
// that owns it.
type IDGenerator struct {
	next uint64
}

// Next returns the next call id, starting at "0".
func (g *IDGenerator) Next() string {
	return strconv.FormatUint(atomic.AddUint64(&g.next, 1)-1, 10)
}
