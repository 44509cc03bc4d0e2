// Copyright 2026 The ovsdb-go Authors
// SPDX-License-Identifier: BSD-2-Clause

package ovsdb

import "testing"

type countingMonitorCallback struct{ updates int }

func (c *countingMonitorCallback) Update(TableUpdates) { c.updates++ }

func TestMonitorRegistryInstallGetRemove(t *testing.T) {
	r := newMonitorRegistry()
	cb := &countingMonitorCallback{}

	if _, ok := r.get("mon1"); ok {
		t.Fatal("get on an empty registry reported a hit")
	}

	r.install("mon1", cb)
	got, ok := r.get("mon1")
	if !ok || got != cb {
		t.Fatalf("get after install = (%v, %v), want (%v, true)", got, ok, cb)
	}

	r.remove("mon1")
	if _, ok := r.get("mon1"); ok {
		t.Fatal("get after remove reported a hit")
	}
}

func TestMonitorRegistryClear(t *testing.T) {
	r := newMonitorRegistry()
	r.install("mon1", &countingMonitorCallback{})
	r.install("mon2", &countingMonitorCallback{})

	r.clear()

	if _, ok := r.get("mon1"); ok {
		t.Error("mon1 still present after clear")
	}
	if _, ok := r.get("mon2"); ok {
		t.Error("mon2 still present after clear")
	}
}

type countingLockCallback struct{ locked, stolen int }

func (c *countingLockCallback) Locked() { c.locked++ }
func (c *countingLockCallback) Stolen() { c.stolen++ }

func TestLockRegistryInstallGetRemove(t *testing.T) {
	r := newLockRegistry()
	cb := &countingLockCallback{}

	r.install("lock1", cb)
	got, ok := r.get("lock1")
	if !ok || got != cb {
		t.Fatalf("get after install = (%v, %v), want (%v, true)", got, ok, cb)
	}

	r.remove("lock1")
	if _, ok := r.get("lock1"); ok {
		t.Fatal("get after remove reported a hit")
	}
}

func TestLockRegistryClear(t *testing.T) {
	r := newLockRegistry()
	r.install("lock1", &countingLockCallback{})
	r.clear()
	if _, ok := r.get("lock1"); ok {
		t.Error("lock1 still present after clear")
	}
}
