package fibers

import (
	"sync"
	"sync/atomic"
)

type fiberDestination int

const (
	destinationNone fiberDestination = iota
	// destinationPool returns the previous fiber to the free pool.
	destinationPool
	// destinationWaiting leaves the previous fiber parked on a counter.
	destinationWaiting
)

type readyFiber struct {
	index  int
	stored *atomic.Bool
}

// TLS is the per-thread bookkeeping shared by whichever fiber currently runs
// on the thread. Only the running fiber touches the fiber indices; ready
// fibers may be added from any thread.
type TLS struct {
	thread      *Thread
	threadFiber Fiber

	currentFiberIndex        int
	previousFiberIndex       int
	previousFiberDestination fiberDestination
	previousFiberStored      *atomic.Bool

	readyMu     sync.Mutex
	readyFibers []readyFiber

	// core is the logical core jobs of this thread run on, -1 when unpinned.
	core int
}

func (t *TLS) reset() {
	t.threadFiber = Fiber{index: -1}
	t.currentFiberIndex = -1
	t.previousFiberIndex = -1
	t.previousFiberDestination = destinationNone
	t.previousFiberStored = nil
	t.core = -1
}

// Thread returns the thread owning this block.
func (t *TLS) Thread() *Thread {
	return t.thread
}

// CurrentFiberIndex is the pool index of the fiber running on the thread, -1
// before the thread entered its first fiber.
func (t *TLS) CurrentFiberIndex() int {
	return t.currentFiberIndex
}

// Pinned reports whether jobs of the thread are pinned to a core.
func (t *TLS) Pinned() bool {
	return t.core >= 0
}

// Core is the logical core jobs of the thread are pinned to, -1 when unpinned.
func (t *TLS) Core() int {
	return t.core
}

func (t *TLS) addReadyFiber(index int, stored *atomic.Bool) {
	t.readyMu.Lock()
	t.readyFibers = append(t.readyFibers, readyFiber{index: index, stored: stored})
	t.readyMu.Unlock()
}

// takeReadyFiber removes and returns the first ready fiber whose switch-out
// has completed.
func (t *TLS) takeReadyFiber() (int, bool) {
	t.readyMu.Lock()
	defer t.readyMu.Unlock()

	for i, rf := range t.readyFibers {
		if !rf.stored.Load() {
			continue
		}
		t.readyFibers = append(t.readyFibers[:i], t.readyFibers[i+1:]...)
		return rf.index, true
	}
	return 0, false
}

func (t *TLS) readyCount() int {
	t.readyMu.Lock()
	defer t.readyMu.Unlock()
	return len(t.readyFibers)
}
