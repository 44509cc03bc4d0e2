// Copyright 2026 The ovsdb-go Authors
// SPDX-License-Identifier: BSD-2-Clause

package jsonrpc

import (
	"sync"
	"testing"
	"time"
)

func newTestPool(t *testing.T) *Pool {
	t.Helper()
	p, err := NewPool(0)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	t.Cleanup(func() {
		p.Kill()
		_ = p.Wait()
	})
	return p
}

func TestPoolSubmitRuns(t *testing.T) {
	p := newTestPool(t)

	done := make(chan struct{})
	p.Submit(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Submit-ed task never ran")
	}
}

func TestPoolSubmitOrderedPreservesPerKeyOrder(t *testing.T) {
	p := newTestPool(t)

	const n = 50
	var mu sync.Mutex
	var gotA, gotB []int
	allDone := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2 * n)

	go func() {
		wg.Wait()
		close(allDone)
	}()

	for i := 0; i < n; i++ {
		i := i
		p.SubmitOrdered("keyA", func() {
			mu.Lock()
			gotA = append(gotA, i)
			mu.Unlock()
			wg.Done()
		})
		p.SubmitOrdered("keyB", func() {
			mu.Lock()
			gotB = append(gotB, i)
			mu.Unlock()
			wg.Done()
		})
	}

	select {
	case <-allDone:
	case <-time.After(5 * time.Second):
		t.Fatal("ordered submissions never all ran")
	}

	mu.Lock()
	defer mu.Unlock()
	for i := 0; i < n; i++ {
		if gotA[i] != i {
			t.Fatalf("keyA delivery order = %v, want strictly increasing", gotA)
		}
		if gotB[i] != i {
			t.Fatalf("keyB delivery order = %v, want strictly increasing", gotB)
		}
	}
}

func TestPoolKillStopsAcceptingOrderedWork(t *testing.T) {
	p, err := NewPool(0)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	p.Kill()
	if err := p.Wait(); err != nil {
		t.Fatalf("Wait() = %v, want nil", err)
	}

	select {
	case <-p.Dying():
	default:
		t.Error("Dying() channel not closed after Kill")
	}

	p.SubmitOrdered("after-kill", func() {})
	p.mu.Lock()
	queued := len(p.queues)
	p.mu.Unlock()
	if queued != 0 {
		t.Errorf("SubmitOrdered after Kill created %d ordered queue(s), want 0", queued)
	}
}
