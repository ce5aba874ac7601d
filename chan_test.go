// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cspchan

import (
	"sync"
	"testing"
	"time"
)

func TestBufferedEcho(t *testing.T) {
	c := Create[uint32](1)
	done := make(chan struct{})
	go func() {
		c.Send(0xDEADBEEF)
		close(done)
	}()
	v := c.Receive()
	<-done
	if v != 0xDEADBEEF {
		t.Fatalf("got %#x, want %#x", v, uint32(0xDEADBEEF))
	}
}

func TestCapacityOneIsAMailbox(t *testing.T) {
	c := Create[int](1)
	c.Send(1)

	secondSent := make(chan struct{})
	go func() {
		c.Send(2)
		close(secondSent)
	}()

	select {
	case <-secondSent:
		t.Fatal("second Send returned before the mailbox was drained")
	case <-time.After(50 * time.Millisecond):
	}

	if got := c.Receive(); got != 1 {
		t.Fatalf("first Receive: got %d, want 1", got)
	}
	<-secondSent
	if got := c.Receive(); got != 2 {
		t.Fatalf("second Receive: got %d, want 2", got)
	}
}

func TestRendezvous(t *testing.T) {
	c := Create[int](0)
	sendReturned := make(chan struct{})
	start := time.Now()
	go func() {
		Sleep(100 * time.Millisecond)
		c.Send(42)
		close(sendReturned)
	}()

	v := c.Receive()
	elapsed := time.Since(start)
	<-sendReturned

	if v != 42 {
		t.Fatalf("got %d, want 42", v)
	}
	if elapsed < 80*time.Millisecond {
		t.Fatalf("Receive returned too early: %v", elapsed)
	}
}

func TestCloseWakesReceivers(t *testing.T) {
	c := Create[int](4)
	got := make(chan int, 1)
	go func() {
		got <- c.Receive()
	}()

	time.Sleep(20 * time.Millisecond)
	start := time.Now()
	c.Close()

	select {
	case v := <-got:
		if v != 0 {
			t.Fatalf("got %d, want zero value", v)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("Receive did not wake up after Close")
	}
	if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
		t.Fatalf("Receive took too long to wake: %v", elapsed)
	}
}

func TestCloseDrainsBeforeZeroing(t *testing.T) {
	c := Create[int](4)
	c.Send(1)
	c.Send(2)
	c.Close()

	if v := c.Receive(); v != 1 {
		t.Fatalf("first drained value: got %d, want 1", v)
	}
	if v := c.Receive(); v != 2 {
		t.Fatalf("second drained value: got %d, want 2", v)
	}
	if v := c.Receive(); v != 0 {
		t.Fatalf("post-drain value: got %d, want 0", v)
	}
}

func TestSendOnClosedIsSilent(t *testing.T) {
	c := Create[int](1)
	c.Close()
	c.Send(99) // must not block, panic, or modify state

	if v := c.Receive(); v != 0 {
		t.Fatalf("got %d, want 0", v)
	}
}

func TestIsClosedNilHandle(t *testing.T) {
	var c *Chan[int]
	if !c.IsClosed() {
		t.Fatal("nil channel handle should report closed")
	}
}

func TestIsDisposedNilHandle(t *testing.T) {
	var c *Chan[int]
	if !c.IsDisposed() {
		t.Fatal("nil channel handle should report disposed")
	}
}

func TestIsClosedTransitionsOnce(t *testing.T) {
	c := Create[int](1)
	if c.IsClosed() {
		t.Fatal("freshly created channel reports closed")
	}
	c.Close()
	if !c.IsClosed() {
		t.Fatal("channel did not report closed after Close")
	}
	c.Close() // idempotent
	if !c.IsClosed() {
		t.Fatal("second Close flipped closed back")
	}
}

func TestDisposeThenUseBehavesLikeClosed(t *testing.T) {
	c := Create[int](0)
	if c.IsDisposed() {
		t.Fatal("freshly created channel reports disposed")
	}
	c.Dispose()
	if !c.IsDisposed() {
		t.Fatal("channel did not report disposed after Dispose")
	}

	done := make(chan struct{})
	go func() {
		c.Send(7) // must return immediately, not deadlock
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Send on disposed channel blocked")
	}

	if v := c.Receive(); v != 0 {
		t.Fatalf("Receive on disposed channel: got %d, want 0", v)
	}
}

func TestBufferedProducerConsumerOrdering(t *testing.T) {
	const n = 1000
	c := Create[int](8)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			c.Send(i)
		}
	}()
	for i := 0; i < n; i++ {
		if got := c.Receive(); got != i {
			t.Fatalf("item %d: got %d", i, got)
		}
	}
	wg.Wait()
}

func TestRingInvariantNeverExceedsCapacity(t *testing.T) {
	c := Create[int](4)
	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				c.Send(base*50 + i)
			}
		}(p)
	}
	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()

	seen := 0
	for seen < 200 {
		c.Receive()
		seen++
		c.mu.Lock()
		if c.buf.count < 0 || c.buf.count > c.capacity {
			c.mu.Unlock()
			t.Fatalf("ring invariant violated: count=%d capacity=%d", c.buf.count, c.capacity)
		}
		c.mu.Unlock()
	}
	<-done
}
