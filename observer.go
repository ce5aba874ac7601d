// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cspchan

import "sync"

// An observerSet is a channel's signal registry: the set of externally
// owned condition variables to notify when the channel's readiness
// changes. A select call attaches its own private cond to every candidate
// channel, parks on it, and re-polls on wake.
//
// 信号登记表: 一个 channel 的外部条件变量集合, 在 channel 就绪状态变化时收到通知。
// select 调用将自己的私有 cond 绑定到每一个候选 channel 上, 在其上挂起, 被唤醒后重新轮询。
//
// The registry never owns the condition variables it holds — they are
// weak references. The caller (typically a pending Select) guarantees the
// cond outlives its own registration.
type observerSet struct {
	mu   sync.Mutex
	sigs map[*sync.Cond]struct{}
}

// attach registers sig to be signalled on every future broadcast. Attaching
// the same sig to several channels at once is expected and must work —
// a single select call attaches one cond to every one of its candidates.
func (o *observerSet) attach(sig *sync.Cond) {
	o.mu.Lock()
	if o.sigs == nil {
		o.sigs = make(map[*sync.Cond]struct{}, 1)
	}
	o.sigs[sig] = struct{}{}
	o.mu.Unlock()
}

// detach removes sig from the registry. Silent if sig was never attached.
func (o *observerSet) detach(sig *sync.Cond) {
	o.mu.Lock()
	delete(o.sigs, sig)
	o.mu.Unlock()
}

// broadcast wakes every attached observer: one Signal per entry, not a
// Cond.Broadcast, since each registered cond belongs to exactly one
// waiter (the select frame) at a time. May be called with the channel's
// own primary mutex held or not; this mutex is always acquired strictly
// inner to it, never the reverse.
func (o *observerSet) broadcast() {
	o.mu.Lock()
	for sig := range o.sigs {
		sig.Signal()
	}
	o.mu.Unlock()
}
