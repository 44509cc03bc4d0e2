// Copyright 2026 The ovsdb-go Authors
// SPDX-License-Identifier: BSD-2-Clause

package jsonrpc

import (
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/juju/errors"
)

// Kind categorises an error raised by the engines, mirroring the
// ErrorCoder-style error-code idiom used elsewhere in the RPC layer: a kind
// is attached to an error so callers can branch on it with IsKind without
// string matching.
type Kind string

const (
	// KindInactive is returned when an operation is issued before bind or
	// after shutdown.
	KindInactive Kind = "inactive-client"
	// KindTransport is returned when Transporter.Send or Close fails.
	KindTransport Kind = "transport"
	// KindApplication is returned when the peer's response carried a
	// non-null error field.
	KindApplication Kind = "rpc-application"
	// KindTimeout is returned when no response arrived within the
	// configured RPC timeout.
	KindTimeout Kind = "rpc-timeout"
	// KindShutdown is returned when the client was shut down with the call
	// still pending.
	KindShutdown Kind = "rpc-shutdown"
)

// kindError wraps a cause with a Kind, exposed as ErrorCode for parity with
// the RequestError.ErrorCode convention used by the teacher's RPC package.
type kindError struct {
	kind Kind
	err  error
}

func newKindError(kind Kind, err error) *kindError {
	return &kindError{kind: kind, err: err}
}

func (e *kindError) Error() string     { return e.err.Error() }
func (e *kindError) Unwrap() error     { return e.err }
func (e *kindError) ErrorCode() string { return string(e.kind) }

// IsKind reports whether err (or any error it wraps) carries the given Kind.
func IsKind(err error, kind Kind) bool {
	var ke *kindError
	if stderrors.As(err, &ke) {
		return ke.kind == kind
	}
	return false
}

// ErrInactiveClient is returned synchronously, without involving the
// pending-call table, by any public operation issued while the client is
// not active.
var ErrInactiveClient = newKindError(KindInactive, errors.New("ovsdb client is not active"))

// ApplicationError carries the raw, peer-supplied `error` payload of a
// JSON-RPC response. JSON-RPC 1.0 allows this field to be any JSON value;
// OVSDB servers send a string, but ApplicationError preserves the raw bytes
// so callers that need structure can re-decode them.
type ApplicationError struct {
	Raw json.RawMessage
}

func (e *ApplicationError) Error() string {
	var s string
	if err := json.Unmarshal(e.Raw, &s); err == nil {
		return s
	}
	return string(e.Raw)
}

// NewTimeoutError builds the error delivered to a Call's caller when its
// deadline fires before a response arrives.
func NewTimeoutError(method string, id string) error {
	return newKindError(KindTimeout, errors.Errorf("rpc call %q (id %s) timed out waiting for a response", method, id))
}

// NewShutdownError builds the error delivered to every call still pending
// when the client shuts down.
func NewShutdownError() error {
	return newKindError(KindShutdown, errors.New("client was shut down with the call still pending"))
}

// NewApplicationError builds the error delivered when a response's error
// field is non-null.
func NewApplicationError(raw json.RawMessage) error {
	return newKindError(KindApplication, &ApplicationError{Raw: raw})
}

// NewTransportError wraps a send/close failure from the underlying
// byte-stream.
func NewTransportError(err error) error {
	return newKindError(KindTransport, errors.Trace(err))
}

var _ fmt.Stringer = Kind("")

func (k Kind) String() string { return string(k) }
