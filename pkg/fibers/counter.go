package fibers

import (
	"sync"
	"sync/atomic"

	srvErrors "github.com/era-engine/fibers/pkg/errors"
)

// JobCounter is the join primitive a job decrements once it has executed.
// A waiter blocks until the value equals its target.
type JobCounter interface {
	Increment()
	Decrement()
	Value() uint32
	addWaitingFiber(w waitingFiber) bool
}

type waitingFiber struct {
	fiberIndex int
	target     uint32
	stored     *atomic.Bool
	tls        *TLS
}

func (w waitingFiber) resume() {
	w.tls.addReadyFiber(w.fiberIndex, w.stored)
}

// baseCounter serializes every value change with the waiter registry so that a
// transition to a target value is never missed by a concurrent registration.
type baseCounter struct {
	mu    sync.Mutex
	value atomic.Uint32
}

// Value returns the current count.
func (c *baseCounter) Value() uint32 {
	return c.value.Load()
}

// add must be called with mu held.
func (c *baseCounter) add(delta int) uint32 {
	cur := c.value.Load()
	if delta < 0 && cur == 0 {
		panic(srvErrors.NewMisuseError("Counter.Decrement", "counter is already zero"))
	}
	next := uint32(int64(cur) + int64(delta))
	c.value.Store(next)
	return next
}

// Counter is a JobCounter any number of fibers can wait on.
type Counter struct {
	baseCounter
	waiting []waitingFiber
}

// NewCounter returns a Counter at zero.
func NewCounter() *Counter {
	return &Counter{}
}

// Increment adds one and resumes the waiters whose target is reached.
func (c *Counter) Increment() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resumeWaiters(c.add(1))
}

// Decrement subtracts one and resumes the waiters whose target is reached.
// Decrementing a zero counter panics.
func (c *Counter) Decrement() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resumeWaiters(c.add(-1))
}

// Waiting returns the number of fibers currently parked on the counter.
func (c *Counter) Waiting() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiting)
}

func (c *Counter) addWaitingFiber(w waitingFiber) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.value.Load() == w.target {
		return true
	}
	c.waiting = append(c.waiting, w)
	return false
}

func (c *Counter) resumeWaiters(value uint32) {
	if len(c.waiting) == 0 {
		return
	}
	kept := c.waiting[:0]
	for _, w := range c.waiting {
		if w.target == value {
			w.resume()
			continue
		}
		kept = append(kept, w)
	}
	clear(c.waiting[len(kept):])
	c.waiting = kept
}

// TinyCounter is a JobCounter with room for a single waiter. It is meant for
// one-shot joins such as WaitForSingle and Queue steps.
type TinyCounter struct {
	baseCounter
	waiter    waitingFiber
	hasWaiter bool
}

// NewTinyCounter returns a TinyCounter at zero.
func NewTinyCounter() *TinyCounter {
	return &TinyCounter{}
}

// Increment adds one and resumes the waiter if its target is reached.
func (c *TinyCounter) Increment() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resumeWaiter(c.add(1))
}

// Decrement subtracts one and resumes the waiter if its target is reached.
func (c *TinyCounter) Decrement() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resumeWaiter(c.add(-1))
}

func (c *TinyCounter) addWaitingFiber(w waitingFiber) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.value.Load() == w.target {
		return true
	}
	if c.hasWaiter {
		panic(srvErrors.NewMisuseError("TinyCounter.Wait", "counter already has a waiter"))
	}
	c.waiter = w
	c.hasWaiter = true
	return false
}

func (c *TinyCounter) resumeWaiter(value uint32) {
	if !c.hasWaiter || c.waiter.target != value {
		return
	}
	w := c.waiter
	c.waiter = waitingFiber{}
	c.hasWaiter = false
	w.resume()
}
