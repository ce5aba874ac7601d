// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cspchan

import (
	"math/rand"
	"sync"
)

// This file implements Select and NBSelect: non-deterministic multi-way
// choice among several channels' send/receive arms, mirroring the
// semantics of a Go select statement without a default case (Select) or
// with one (NBSelect).

// caseKind distinguishes a select arm's direction. Known only to this
// package; callers build arms with Recv/Send below.
type caseKind uint8

const (
	caseRecv caseKind = iota
	caseSend
)

// arm is one case of a pending select: a channel plus enough type-erased
// plumbing to commit the transaction once chosen. This is the direct Go
// analogue of the C API's parallel CspChan_t**/void** arrays collapsed
// into one slice of small interface values, kept type-safe by the
// generic Recv/Send constructors below instead of unsafe.Pointer.
type arm struct {
	kind caseKind
	gate gateway
}

// gateway is implemented by a *Chan[T] wrapper; it lets the select engine
// operate on channels of differing T without reflection.
type gateway interface {
	lock() bool // trylock; returns whether acquired
	unlock()
	// closedLocked and readyLocked require the channel's mu to already
	// be held (by lock() above) and leave it held on return.
	closedLocked() bool
	readyLocked(kind caseKind) bool
	// commitLocked performs the actual transfer once this arm has been
	// chosen and its mutex is held; it leaves the mutex unlocked and
	// performs the matching broadcast/signal, exactly like doselect.
	commitLocked(kind caseKind)
}

type chanGateway[T any] struct {
	c    *Chan[T]
	slot *T // where to store a received value, or nil for a send arm
	val  T  // the value to send, for a send arm
}

func (g *chanGateway[T]) lock() bool         { return g.c.mu.TryLock() }
func (g *chanGateway[T]) unlock()            { g.c.mu.Unlock() }
func (g *chanGateway[T]) closedLocked() bool { return g.c.closed }

func (g *chanGateway[T]) readyLocked(kind caseKind) bool {
	if g.c.unbuffered() {
		if g.c.rv.phase != phaseWaiting {
			return false
		}
		// A sender arm matches a channel whose waiting party is a
		// receiver, and vice versa.
		wantSender := kind == caseSend
		return g.c.rv.firstIsSender != wantSender
	}
	if kind == caseRecv {
		return !g.c.buf.empty()
	}
	return !g.c.buf.full()
}

func (g *chanGateway[T]) commitLocked(kind caseKind) {
	c := g.c
	if c.unbuffered() {
		if kind == caseSend {
			*c.rv.dataPtr = g.val
		} else {
			*g.slot = *c.rv.dataPtr
		}
		c.rv.phase = phaseHandoff
		c.mu.Unlock()
		c.observers.broadcast()
		c.condA.Signal()
		return
	}
	if kind == caseRecv {
		*g.slot = c.buf.dequeue()
		c.mu.Unlock()
		c.observers.broadcast()
		c.condA.Signal()
		return
	}
	c.buf.enqueue(g.val)
	c.mu.Unlock()
	c.observers.broadcast()
	c.condB.Signal()
}

// AnyChan is a receive arm of a Select call: a channel plus the place its
// received value will be stored.
type AnyChan struct {
	arm  arm
	cond func(sig *sync.Cond, attach bool)
}

// SendCase is a send arm of a Select call: a channel plus the value to
// send if this arm is chosen.
type SendCase struct {
	arm  arm
	cond func(sig *sync.Cond, attach bool)
}

// Recv builds a receive arm for Select/NBSelect. dst receives the value
// if this arm is chosen; its prior contents are irrelevant until then.
func Recv[T any](c *Chan[T], dst *T) AnyChan {
	g := &chanGateway[T]{c: c, slot: dst}
	return AnyChan{
		arm: arm{kind: caseRecv, gate: g},
		cond: func(sig *sync.Cond, attach bool) {
			if attach {
				c.observers.attach(sig)
			} else {
				c.observers.detach(sig)
			}
		},
	}
}

// Send builds a send arm for Select/NBSelect carrying value v.
func Send[T any](c *Chan[T], v T) SendCase {
	g := &chanGateway[T]{c: c, val: v}
	return SendCase{
		arm: arm{kind: caseSend, gate: g},
		cond: func(sig *sync.Cond, attach bool) {
			if attach {
				c.observers.attach(sig)
			} else {
				c.observers.detach(sig)
			}
		},
	}
}

// anyready scans every arm under a per-arm trylock (§4.5): a channel
// already being modified by someone else is skipped, not waited for —
// its operation will broadcast the observer set when it quiesces, waking
// this select back up. Returns the count of ready arms found, their
// indices in ready, or -1 if nothing is ready and every candidate was
// closed (progress is impossible).
func anyready(recv []AnyChan, send []SendCase, ready []bool) int {
	n, closedCount := 0, 0
	total := len(recv) + len(send)
	for i := 0; i < total; i++ {
		var a arm
		if i < len(recv) {
			a = recv[i].arm
		} else {
			a = send[i-len(recv)].arm
		}
		if !a.gate.lock() {
			// Either closed (closedLocked needs the lock, so a closed
			// channel is simply uncontended and we'll see it below) or
			// genuinely busy with a concurrent operation — either way
			// skip it; a busy channel will broadcast when it quiesces.
			ready[i] = false
			continue
		}
		if a.gate.closedLocked() {
			a.gate.unlock()
			ready[i] = false
			closedCount++
			continue
		}
		if a.gate.readyLocked(a.kind) {
			ready[i] = true
			n++
		} else {
			ready[i] = false
			a.gate.unlock()
		}
	}
	if n == 0 && closedCount == total {
		return -1
	}
	return n
}

// doselect commits to exactly one of the n ready arms, chosen uniformly
// at random, releasing every other ready arm's mutex first.
func doselect(n int, recv []AnyChan, send []SendCase, ready []bool) int {
	if n <= 0 {
		return -1
	}
	candidate := rand.Intn(n)
	total := len(recv) + len(send)
	chosen := -1
	for i := 0; i < total; i++ {
		if !ready[i] {
			continue
		}
		if candidate == 0 && chosen < 0 {
			chosen = i
		} else {
			var a arm
			if i < len(recv) {
				a = recv[i].arm
			} else {
				a = send[i-len(recv)].arm
			}
			a.gate.unlock()
		}
		candidate--
	}
	var a arm
	if chosen < len(recv) {
		a = recv[chosen].arm
	} else {
		a = send[chosen-len(recv)].arm
	}
	a.gate.commitLocked(a.kind)
	return chosen
}

// Select blocks until exactly one of the given receive or send arms can
// complete, performs that transaction, and returns its combined index
// (receivers are [0,len(recv)), senders are [len(recv),len(recv)+len(send))).
// It returns -1 only if every candidate channel is closed. An arm whose
// channel is closed is never chosen, even if that channel still holds
// buffered values.
func Select(recv []AnyChan, send []SendCase) int {
	var frameMu sync.Mutex
	frameCond := sync.NewCond(&frameMu)

	for i := range recv {
		recv[i].cond(frameCond, true)
	}
	for i := range send {
		send[i].cond(frameCond, true)
	}
	defer func() {
		for i := range recv {
			recv[i].cond(frameCond, false)
		}
		for i := range send {
			send[i].cond(frameCond, false)
		}
	}()

	ready := make([]bool, len(recv)+len(send))
	frameMu.Lock()
	defer frameMu.Unlock()
	for {
		n := anyready(recv, send, ready)
		if n != 0 {
			return doselect(n, recv, send, ready)
		}
		frameCond.Wait()
	}
}

// NBSelect behaves like Select but never blocks: it returns -1 immediately
// if no arm is ready rather than parking.
func NBSelect(recv []AnyChan, send []SendCase) int {
	ready := make([]bool, len(recv)+len(send))
	n := anyready(recv, send, ready)
	return doselect(n, recv, send, ready)
}
