package fibers

import (
	"context"
	"runtime"
	"sync/atomic"

	srvErrors "github.com/era-engine/fibers/pkg/errors"
)

// Fiber is a cooperative execution context backed by a goroutine. The goroutine
// only runs while it holds the baton: SwitchTo hands the baton to the target
// over its wake channel and parks until someone hands it back.
type Fiber struct {
	index       int
	callback    func(f *Fiber)
	wake        chan struct{}
	threadFiber bool

	returnFiber *Fiber
	userdata    any

	// stored is set once the fiber has fully switched out into a wait and can
	// safely be resumed by another thread.
	stored atomic.Bool
	// running is set while the fiber holds the baton.
	running atomic.Bool
	// pinnedCore is the core the backing OS thread is pinned to, plus one.
	pinnedCore int

	ctx context.Context
}

type fiberKey struct{}

// NewFiber returns a fiber object without an execution context. Pooled fibers
// use their pool index; thread fibers use -1.
func NewFiber(index int) *Fiber {
	return &Fiber{index: index}
}

// Index is the position of the fiber in the manager's pool, -1 for a thread
// fiber.
func (f *Fiber) Index() int {
	return f.index
}

// IsThreadFiber reports whether the fiber was made from a native goroutine.
func (f *Fiber) IsThreadFiber() bool {
	return f.threadFiber
}

// Userdata returns the value passed by the last SwitchTo into this fiber.
func (f *Fiber) Userdata() any {
	return f.userdata
}

// Create launches the backing goroutine. It stays parked until the first
// SwitchTo and then runs callback(f).
func (f *Fiber) Create(callback func(f *Fiber)) {
	if callback == nil {
		panic(srvErrors.NewMisuseError("Fiber.Create", "callback is nil"))
	}
	f.Destroy()

	f.callback = callback
	f.threadFiber = false
	wake := make(chan struct{}, 1)
	f.wake = wake

	go func() {
		if _, ok := <-wake; !ok {
			return
		}
		f.running.Store(true)
		f.callback(f)
	}()
}

// FromCurrentThread turns the calling goroutine into this fiber.
func (f *Fiber) FromCurrentThread() {
	f.Destroy()
	f.threadFiber = true
	f.wake = make(chan struct{}, 1)
	f.running.Store(true)
}

// SwitchTo records f as the return fiber of target, hands userdata to it and
// transfers control. It returns once something switches back into f.
func (f *Fiber) SwitchTo(target *Fiber, userdata any) {
	if target == nil || target.wake == nil {
		panic(srvErrors.NewMisuseError("Fiber.SwitchTo", "target fiber is not valid"))
	}
	own := f.wake
	if own == nil {
		panic(srvErrors.NewMisuseError("Fiber.SwitchTo", "switching from a fiber without context"))
	}

	target.returnFiber = f
	target.userdata = userdata
	f.running.Store(false)
	target.wake <- struct{}{}

	if _, ok := <-own; !ok {
		runtime.Goexit()
	}
	f.running.Store(true)
}

// SwitchBack transfers control to the fiber that last switched into f.
func (f *Fiber) SwitchBack() {
	if f.returnFiber == nil {
		panic(srvErrors.NewMisuseError("Fiber.SwitchBack", "no return fiber"))
	}
	f.SwitchTo(f.returnFiber, f.userdata)
}

// Destroy releases the backing goroutine. A goroutine parked inside SwitchTo
// exits without returning to its caller.
func (f *Fiber) Destroy() {
	if f.wake == nil {
		return
	}
	if !f.threadFiber {
		close(f.wake)
	}
	f.wake = nil
	f.returnFiber = nil
	f.running.Store(false)
}

func (f *Fiber) tls() *TLS {
	tls, _ := f.userdata.(*TLS)
	return tls
}

func fiberFromContext(ctx context.Context) *Fiber {
	if ctx == nil {
		return nil
	}
	f, _ := ctx.Value(fiberKey{}).(*Fiber)
	return f
}
