// Copyright 2026 The ovsdb-go Authors
// SPDX-License-Identifier: BSD-2-Clause

// Package jsonrpc implements a duplex JSON-RPC 1.0 multiplexer: a client
// engine that correlates outbound calls with late-arriving responses, and a
// server engine that dispatches inbound requests and notifications to
// registered handlers. Both engines share a single byte-stream; routing
// between them is decided purely by frame shape (see Classify), never by
// whether a call happens to be outstanding.
//
// The package is transport-agnostic: it depends only on the Transporter
// capability (send/close) and never inspects the underlying connection.
package jsonrpc
