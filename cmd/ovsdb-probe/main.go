// Copyright 2026 The ovsdb-go Authors
// SPDX-License-Identifier: BSD-2-Clause

// Command ovsdb-probe dials an OVSDB server, lists its databases, fetches
// the schema of one, and optionally arms a monitor on it, printing each
// update it receives until interrupted. It exists to exercise the client
// package end to end against a real server.
package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/loggo/v2"

	"github.com/jobs77/ovsdb-client-library/ovsdb"
)

var logger = loggo.GetLogger("ovsdb.cmd.probe")

type args struct {
	addr       string
	database   string
	monitor    bool
	useTLS     bool
	rpcTimeout time.Duration
}

func parseArgs() args {
	var a args
	fs := gnuflag.NewFlagSet("ovsdb-probe", gnuflag.ExitOnError)
	fs.StringVar(&a.addr, "addr", "127.0.0.1:6640", "host:port of the OVSDB server")
	fs.StringVar(&a.database, "db", "Open_vSwitch", "database to fetch the schema of")
	fs.BoolVar(&a.monitor, "monitor", false, "arm a monitor on -db and print updates until interrupted")
	fs.BoolVar(&a.useTLS, "tls", false, "connect over TLS (insecure: skips server verification)")
	fs.DurationVar(&a.rpcTimeout, "rpc-timeout", ovsdb.DefaultRPCTimeout, "per-call RPC timeout")
	if err := fs.Parse(true, os.Args[1:]); err != nil {
		logger.Errorf("%v", err)
		os.Exit(2)
	}
	return a
}

func main() {
	a := parseArgs()
	if err := run(a.addr, a.database, a.monitor, a.useTLS, a.rpcTimeout); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(addr, database string, monitor, useTLS bool, timeout time.Duration) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var tlsConfig *tls.Config
	if useTLS {
		tlsConfig = &tls.Config{InsecureSkipVerify: true} // nolint: gosec -- probe tool, not a production client
	}

	connected := make(chan struct{}, 1)
	cfg := ovsdb.Config{
		RPCTimeout: timeout,
		ConnectionCallback: ovsdb.ConnectionCallbackFuncs{
			OnConnected: func(client *ovsdb.Client) {
				logger.Infof("connected: %s", client.GetConnectionInfo())
				connected <- struct{}{}
			},
			OnDisconnected: func(client *ovsdb.Client) {
				logger.Infof("disconnected: %s", client.GetConnectionInfo())
			},
		},
	}

	client, err := ovsdb.Dial(ctx, "tcp", addr, tlsConfig, cfg)
	if err != nil {
		return errors.Annotatef(err, "connecting to %s", addr)
	}
	defer client.Shutdown()

	select {
	case <-connected:
	case <-ctx.Done():
		return ctx.Err()
	}

	dbs, err := client.ListDatabases(ctx)
	if err != nil {
		return errors.Annotate(err, "listing databases")
	}
	fmt.Printf("databases: %v\n", dbs)

	schema, err := client.GetSchema(ctx, database)
	if err != nil {
		return errors.Annotatef(err, "fetching schema for %q", database)
	}
	fmt.Printf("schema for %s: %s\n", database, schema)

	if !monitor {
		return nil
	}

	monitorID := ovsdb.NewID()
	cb := ovsdb.MonitorCallbackFunc(func(updates ovsdb.TableUpdates) {
		fmt.Printf("update: %s\n", updates)
	})
	if _, err := client.Monitor(ctx, database, monitorID, ovsdb.MonitorRequests(`{}`), cb); err != nil {
		return errors.Annotate(err, "arming monitor")
	}
	logger.Infof("monitoring %s as %s; interrupt to stop", database, monitorID)

	<-ctx.Done()
	return client.CancelMonitor(context.Background(), monitorID)
}
