// Copyright 2026 The ovsdb-go Authors
// SPDX-License-Identifier: BSD-2-Clause

package jsonrpc

import (
	"encoding/json"
	"sync"

	"github.com/juju/errors"
)

// HandlerFunc implements one named inbound method. It receives the frame's
// positional params verbatim; a successful return value of nil means the
// method has a void result (a request still gets a null-result reply, a
// notification gets none).
type HandlerFunc func(params []json.RawMessage) (any, error)

// Server is the JSON-RPC server engine: it dispatches inbound requests and
// notifications to named handlers, replying on the transport for requests
// and staying silent for notifications. Handler invocation always happens on
// the shared worker pool, never on the byte-stream reader.
type Server struct {
	transport Transporter
	pool      *Pool

	mu       sync.RWMutex
	handlers map[string]HandlerFunc
	active   bool
}

// NewServer builds a Server engine bound to transport and pool.
func NewServer(transport Transporter, pool *Pool) *Server {
	return &Server{
		transport: transport,
		pool:      pool,
		handlers:  make(map[string]HandlerFunc),
		active:    true,
	}
}

// Handle registers fn under method, replacing any existing registration.
func (s *Server) Handle(method string, fn HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method] = fn
}

// HandleRequest dispatches an inbound request or notification frame. It is
// always invoked from Pool.Submit/SubmitOrdered by the reader, never calls
// into user handler code synchronously relative to the reader's read loop.
func (s *Server) HandleRequest(frame *RequestFrame) {
	s.mu.RLock()
	fn, ok := s.handlers[frame.Method]
	active := s.active
	s.mu.RUnlock()

	if !active {
		return
	}
	if !ok {
		if !frame.IsNotification() {
			s.writeError(*frame.ID, errors.Errorf("no such method %q", frame.Method))
		} else {
			logger.Warningf("dropping notification for unknown method %q", frame.Method)
		}
		return
	}

	result, err := fn(frame.Params)
	if frame.IsNotification() {
		if err != nil {
			logger.Errorf("handler for notification %q failed: %v", frame.Method, err)
		}
		return
	}
	if err != nil {
		s.writeError(*frame.ID, err)
		return
	}
	s.writeResult(*frame.ID, result)
}

func (s *Server) writeResult(id string, result any) {
	idCopy := id
	body := struct {
		ID     *string `json:"id"`
		Result any     `json:"result"`
		Error  any     `json:"error"`
	}{ID: &idCopy, Result: result, Error: nil}
	if err := s.transport.Send(&body); err != nil {
		logger.Errorf("failed to write response for call %q: %v", id, err)
	}
}

func (s *Server) writeError(id string, cause error) {
	idCopy := id
	body := struct {
		ID     *string `json:"id"`
		Result any     `json:"result"`
		Error  any     `json:"error"`
	}{ID: &idCopy, Result: nil, Error: cause.Error()}
	if err := s.transport.Send(&body); err != nil {
		logger.Errorf("failed to write error response for call %q: %v", id, err)
	}
}

// Shutdown drops the handler registry. Idempotent.
func (s *Server) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
	s.handlers = make(map[string]HandlerFunc)
}
