// Copyright 2026 The ovsdb-go Authors
// SPDX-License-Identifier: BSD-2-Clause

package jsonrpc

// Transporter is the opaque send/close capability the engines use to reach
// the underlying byte-stream. The engines never inspect the medium: Send
// must serialise v to UTF-8 JSON and write it as one logical unit, and must
// be safe to call from any goroutine without the caller serialising its own
// sends — a conformant Transporter does that internally.
type Transporter interface {
	// Send serialises v to JSON and writes it to the byte-stream.
	Send(v any) error
	// Close closes the underlying byte-stream.
	Close() error
}
