// Copyright 2026 The ovsdb-go Authors
// SPDX-License-Identifier: BSD-2-Clause

package jsonrpc

import (
	"context"
	"sync"

	"github.com/juju/errors"
	"github.com/juju/worker/v4/catacomb"
	"golang.org/x/sync/semaphore"
)

// Pool is the shared worker pool every inbound callback runs on: connection
// established/disconnected, monitor updates, lock locked/stolen, and request
// handler invocations. The byte-stream reader only ever hands work to a
// Pool; it never executes user code itself, so a slow callback cannot stall
// response correlation or trigger spurious timeouts.
//
// Pool is itself a catacomb-supervised worker (it satisfies worker.Worker),
// following the pattern in internal/worker/watcherregistry: Kill requests
// shutdown, Wait blocks until every queued task has drained.
type Pool struct {
	catacomb catacomb.Catacomb
	sem      *semaphore.Weighted

	wg sync.WaitGroup

	mu     sync.Mutex
	queues map[string]*orderedQueue
}

// orderedQueue is the per-key backlog behind SubmitOrdered. It is an
// unbounded slice rather than a fixed-size channel so that a slow callback
// for one key never makes SubmitOrdered itself block: the reader goroutine
// that calls SubmitOrdered must never wait on user-callback backpressure.
type orderedQueue struct {
	mu     sync.Mutex
	items  []func()
	wake   chan struct{}
	warned bool
}

func newOrderedQueue() *orderedQueue {
	return &orderedQueue{wake: make(chan struct{}, 1)}
}

// push appends fn to the backlog and reports whether the caller should log a
// backpressure warning: true the first time the backlog reaches 1024 items.
func (q *orderedQueue) push(fn func()) (shouldWarn bool, depth int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, fn)
	depth = len(q.items)
	if depth >= 1024 && !q.warned {
		q.warned = true
		shouldWarn = true
	}
	return shouldWarn, depth
}

func (q *orderedQueue) pop() (func(), bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	fn := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return fn, true
}

func (q *orderedQueue) notify() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// NewPool starts a Pool bounding concurrent task execution to maxConcurrency
// at a time. maxConcurrency <= 0 means unbounded.
func NewPool(maxConcurrency int64) (*Pool, error) {
	var sem *semaphore.Weighted
	if maxConcurrency > 0 {
		sem = semaphore.NewWeighted(maxConcurrency)
	}
	p := &Pool{
		sem:    sem,
		queues: make(map[string]*orderedQueue),
	}
	if err := catacomb.Invoke(catacomb.Plan{
		Site: &p.catacomb,
		Work: p.loop,
	}); err != nil {
		return nil, errors.Trace(err)
	}
	return p, nil
}

func (p *Pool) loop() error {
	<-p.catacomb.Dying()
	return p.catacomb.ErrDying()
}

// Kill requests the pool to stop accepting new ordered-queue work. Tasks
// already running are allowed to finish; Wait blocks until they do.
func (p *Pool) Kill() { p.catacomb.Kill(nil) }

// Wait blocks until the pool has stopped and every submitted task has
// returned.
func (p *Pool) Wait() error {
	err := p.catacomb.Wait()
	p.wg.Wait()
	return err
}

// Dying returns a channel closed once Kill has been called.
func (p *Pool) Dying() <-chan struct{} { return p.catacomb.Dying() }

// Submit runs fn on the pool with no ordering relative to other Submit or
// SubmitOrdered calls.
func (p *Pool) Submit(fn func()) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.acquire()
		defer p.release()
		fn()
	}()
}

// SubmitOrdered runs fn on the pool, serialised with every other
// SubmitOrdered call sharing the same key: submissions for one key execute
// in the order they were submitted, which is what lets a monitor's update
// deliveries preserve wire arrival order. Distinct keys run independently of
// one another and may overlap. SubmitOrdered never blocks: a slow or
// backed-up callback for one key must not stall the reader goroutine that
// calls it, which would in turn risk spurious response timeouts.
func (p *Pool) SubmitOrdered(key string, fn func()) {
	select {
	case <-p.catacomb.Dying():
		return
	default:
	}
	q := p.queueFor(key)
	if shouldWarn, depth := q.push(fn); shouldWarn {
		logger.Warningf("ordered queue %q backed up to %d pending callbacks", key, depth)
	}
	q.notify()
}

func (p *Pool) queueFor(key string) *orderedQueue {
	p.mu.Lock()
	defer p.mu.Unlock()
	q, ok := p.queues[key]
	if ok {
		return q
	}
	q = newOrderedQueue()
	p.queues[key] = q
	p.wg.Add(1)
	go p.drain(q)
	return q
}

func (p *Pool) drain(q *orderedQueue) {
	defer p.wg.Done()
	for {
		fn, ok := q.pop()
		if !ok {
			select {
			case <-q.wake:
				continue
			case <-p.catacomb.Dying():
				return
			}
		}
		p.acquire()
		fn()
		p.release()
	}
}

func (p *Pool) acquire() {
	if p.sem == nil {
		return
	}
	_ = p.sem.Acquire(context.Background(), 1)
}

func (p *Pool) release() {
	if p.sem == nil {
		return
	}
	p.sem.Release(1)
}
