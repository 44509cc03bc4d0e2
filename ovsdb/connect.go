// Copyright 2026 The ovsdb-go Authors
// SPDX-License-Identifier: BSD-2-Clause

package ovsdb

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"

	"github.com/jobs77/ovsdb-client-library/jsonrpc"
)

// DefaultRPCTimeout is the per-call timeout used when Config.RPCTimeout is
// left unset.
const DefaultRPCTimeout = jsonrpc.DefaultRPCTimeout

// ConnectionInfo is captured once, at bind time, and never changes for the
// life of a Client.
type ConnectionInfo struct {
	LocalAddress  string
	LocalPort     int
	RemoteAddress string
	RemotePort    int
	// RemotePeerCertificate is set iff TLS is in use and the peer presented
	// a certificate chain.
	RemotePeerCertificate *x509.Certificate
}

func (i ConnectionInfo) String() string {
	return fmt.Sprintf("%s:%d->%s:%d", i.LocalAddress, i.LocalPort, i.RemoteAddress, i.RemotePort)
}

// Config configures a Dial/Bind call. The zero value is valid; missing
// fields are filled with their defaults by withDefaults.
type Config struct {
	// RPCTimeout is the per-call timeout enforced by the client engine.
	// Defaults to jsonrpc.DefaultRPCTimeout (60s).
	RPCTimeout time.Duration
	// Clock is used for the RPC deadline timer. Defaults to clock.WallClock.
	Clock clock.Clock
	// MaxConcurrency bounds how many callbacks/handlers may run at once on
	// the shared worker pool. 0 means unbounded.
	MaxConcurrency int64
	// ConnectionCallback, if non-nil, is notified when the connection
	// becomes active and when it is torn down.
	ConnectionCallback ConnectionCallback
}

func (c Config) withDefaults() Config {
	if c.RPCTimeout <= 0 {
		c.RPCTimeout = jsonrpc.DefaultRPCTimeout
	}
	if c.Clock == nil {
		c.Clock = clock.WallClock
	}
	return c
}

// Dial opens network/addr (e.g. "tcp", "switch.example:6640"), optionally
// wrapping it in TLS, and blocks until the connection reaches the active
// state, returning a bound Client.
func Dial(ctx context.Context, network, addr string, tlsConfig *tls.Config, cfg Config) (*Client, error) {
	rawConn, err := (&net.Dialer{}).DialContext(ctx, network, addr)
	if err != nil {
		return nil, errors.Annotatef(err, "dialing %s %s", network, addr)
	}
	return Bind(ctx, rawConn, tlsConfig, cfg)
}

// Bind takes ownership of an already-open byte-stream (pending state),
// completes the TLS handshake if tlsConfig is non-nil, and transitions the
// connection to active: it constructs the JSON-RPC engines, binds the OVSDB
// method surface and inbound handlers to them, captures ConnectionInfo, and
// schedules the connection-established callback on the worker pool exactly
// once before returning.
func Bind(ctx context.Context, rawConn net.Conn, tlsConfig *tls.Config, cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()

	conn := rawConn
	var peerCert *x509.Certificate
	if tlsConfig != nil {
		tlsConn := tls.Client(rawConn, tlsConfig)
		// The pending->active transition happens once the handshake
		// completes regardless of outcome, mirroring the Netty
		// handshakeFuture listener in the original client: a failed
		// handshake still surfaces a connection (whose subsequent reads
		// will promptly fail) rather than blocking bind forever.
		if hsErr := tlsConn.HandshakeContext(ctx); hsErr != nil {
			logger.Warningf("tls handshake with %s failed: %v", rawConn.RemoteAddr(), hsErr)
		} else if certs := tlsConn.ConnectionState().PeerCertificates; len(certs) > 0 {
			peerCert = certs[0]
		}
		conn = tlsConn
	}

	info := newConnectionInfo(conn, peerCert)

	pool, err := jsonrpc.NewPool(cfg.MaxConcurrency)
	if err != nil {
		_ = conn.Close()
		return nil, errors.Trace(err)
	}

	transport := newConnTransport(conn)
	rpcClient := jsonrpc.NewClient(transport, pool, cfg.Clock, cfg.RPCTimeout)
	rpcServer := jsonrpc.NewServer(transport, pool)

	client := newClient(rpcClient, rpcServer, info)
	client.pool = pool
	client.transport = transport

	reader := jsonrpc.NewReader(conn, rpcClient, rpcServer, pool)
	go runConnection(reader, pool, client, cfg.ConnectionCallback)

	if cfg.ConnectionCallback != nil {
		pool.Submit(func() { cfg.ConnectionCallback.Connected(client) })
	}

	return client, nil
}

// runConnection owns the byte-stream reader for the life of the connection.
// When the reader returns — because the peer disconnected, a read error
// occurred, or Client.Shutdown closed the transport — the connection moves
// to closed: the client is shut down (idempotently), the disconnected
// callback is scheduled on the pool (never run inline on this, the former
// reader, goroutine), and only then is the pool drained.
func runConnection(reader *jsonrpc.Reader, pool *jsonrpc.Pool, client *Client, cb ConnectionCallback) {
	err := reader.Run()
	logger.Infof("ovsdb connection %s closed: %v", client.info, err)

	client.Shutdown()
	if cb != nil {
		pool.Submit(func() { cb.Disconnected(client) })
	}
	pool.Kill()
	_ = pool.Wait()
}

func newConnectionInfo(conn net.Conn, peerCert *x509.Certificate) ConnectionInfo {
	localAddr, localPort := splitHostPort(conn.LocalAddr())
	remoteAddr, remotePort := splitHostPort(conn.RemoteAddr())
	return ConnectionInfo{
		LocalAddress:          localAddr,
		LocalPort:             localPort,
		RemoteAddress:         remoteAddr,
		RemotePort:            remotePort,
		RemotePeerCertificate: peerCert,
	}
}

func splitHostPort(addr net.Addr) (string, int) {
	if addr == nil {
		return "", 0
	}
	if tcp, ok := addr.(*net.TCPAddr); ok {
		return tcp.IP.String(), tcp.Port
	}
	host, portStr, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String(), 0
	}
	port, _ := strconv.Atoi(portStr)
	return host, port
}

// connTransport implements jsonrpc.Transporter over a net.Conn, serialising
// concurrent sends the way api/diagnostic.go's trackedConn wraps a net.Conn
// for cross-cutting concerns: it never touches the framing itself, only
// wraps the raw connection.
type connTransport struct {
	mu   sync.Mutex
	conn net.Conn
	enc  *json.Encoder
}

func newConnTransport(conn net.Conn) *connTransport {
	return &connTransport{conn: conn, enc: json.NewEncoder(conn)}
}

func (t *connTransport) Send(v any) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enc.Encode(v)
}

func (t *connTransport) Close() error {
	return t.conn.Close()
}
