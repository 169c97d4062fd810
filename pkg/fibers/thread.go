package fibers

import (
	"runtime"
	"time"

	srvErrors "github.com/era-engine/fibers/pkg/errors"
)

// Thread is a goroutine locked to its own OS thread. It owns the TLS block the
// fibers running on it share.
type Thread struct {
	index    int
	id       int
	callback func(t *Thread)
	userdata any
	tls      TLS

	started chan struct{}
	ready   chan struct{}
	done    chan struct{}

	spawned bool
	adopted bool
}

// NewThread returns a thread that is neither spawned nor adopted.
func NewThread(index int) *Thread {
	t := &Thread{index: index}
	t.tls.thread = t
	t.tls.reset()
	return t
}

// Index is the position of the thread in the manager, 0 for the adopted one.
func (t *Thread) Index() int {
	return t.index
}

// ID is the kernel thread id, or 0 where the platform does not expose one.
func (t *Thread) ID() int {
	return t.id
}

// Userdata returns the value passed to Spawn.
func (t *Thread) Userdata() any {
	return t.userdata
}

// TLS returns the bookkeeping block shared by the fibers on this thread.
func (t *Thread) TLS() *TLS {
	return &t.tls
}

// Spawn starts the thread. The new thread parks until Spawn has finished
// publishing its state, then runs callback(t).
func (t *Thread) Spawn(callback func(t *Thread), userdata any) bool {
	if callback == nil {
		panic(srvErrors.NewMisuseError("Thread.Spawn", "callback is nil"))
	}
	if t.spawned || t.adopted {
		return false
	}

	t.callback = callback
	t.userdata = userdata
	t.started = make(chan struct{})
	t.ready = make(chan struct{})
	t.done = make(chan struct{})

	go t.run()

	<-t.started
	t.spawned = true
	close(t.ready)
	return true
}

func (t *Thread) run() {
	// the goroutine exits locked so the OS thread terminates with it
	runtime.LockOSThread()
	defer close(t.done)

	t.id = currentThreadID()
	close(t.started)
	<-t.ready

	t.callback(t)
}

// SetAffinity pins the thread to one logical core. It does nothing for a
// thread that has not been spawned or adopted.
func (t *Thread) SetAffinity(core int) error {
	if !t.spawned && !t.adopted {
		return nil
	}
	return setThreadAffinity(t.id, core)
}

// Join waits for the callback of a spawned thread to return.
func (t *Thread) Join() {
	if !t.spawned {
		return
	}
	<-t.done
}

// FromCurrentThread adopts the calling goroutine and locks it to its OS thread
// until Release.
func (t *Thread) FromCurrentThread() {
	runtime.LockOSThread()
	t.id = currentThreadID()
	t.adopted = true
}

// Release undoes FromCurrentThread.
func (t *Thread) Release() {
	if !t.adopted {
		return
	}
	t.adopted = false
	runtime.UnlockOSThread()
}

// SleepFor blocks the calling goroutine for d.
func (t *Thread) SleepFor(d time.Duration) {
	time.Sleep(d)
}
