// Copyright 2026 The ovsdb-go Authors
// SPDX-License-Identifier: BSD-2-Clause

package ovsdb

import "github.com/google/uuid"

// NewID mints a fresh random identifier suitable for use as a monitor id or
// a lock id. OVSDB only requires that the caller choose a unique string;
// callers that already have a natural id (a table name, a resource name)
// are free to use that instead.
func NewID() string {
	return uuid.NewString()
}
