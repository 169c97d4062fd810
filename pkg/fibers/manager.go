package fibers

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	srvErrors "github.com/era-engine/fibers/pkg/errors"
)

// MainFunc is the entry point run on a pooled fiber once the Manager started.
type MainFunc func(ctx context.Context, m *Manager, userdata any)

// findFreeFiberAttempts is the number of full pool scans before the pool is
// considered exhausted.
const findFreeFiberAttempts = 8

type Manager struct {
	id  uuid.UUID
	cfg Config
	log *zap.SugaredLogger

	fibers     []*Fiber
	idleFibers []atomic.Bool
	threads    []*Thread

	highPriorityQueue   *JobQueue
	normalPriorityQueue *JobQueue
	lowPriorityQueue    *JobQueue

	mainCtx    context.Context
	mainCancel context.CancelFunc

	running      atomic.Bool
	shuttingDown atomic.Bool
	once         sync.Once

	switches       atomic.Uint64
	jobsExecuted   atomic.Uint64
	resumedWaiters atomic.Uint64
}

// NewManager allocates the fiber pool, the priority queues and the threads.
// Nothing runs until Run is called.
func NewManager(cfg Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		id:                  uuid.New(),
		cfg:                 cfg,
		log:                 zap.S().Named("fiber_manager"),
		fibers:              make([]*Fiber, cfg.FiberPoolSize),
		idleFibers:          make([]atomic.Bool, cfg.FiberPoolSize),
		threads:             make([]*Thread, cfg.Threads()),
		highPriorityQueue:   NewJobQueue(cfg.QueueCapacity),
		normalPriorityQueue: NewJobQueue(cfg.QueueCapacity),
		lowPriorityQueue:    NewJobQueue(cfg.QueueCapacity),
		mainCtx:             ctx,
		mainCancel:          cancel,
	}

	for i := range m.fibers {
		f := NewFiber(i)
		f.ctx = context.WithValue(ctx, fiberKey{}, f)
		m.fibers[i] = f
		m.idleFibers[i].Store(true)
	}
	for i := range m.threads {
		m.threads[i] = NewThread(i)
	}

	return m, nil
}

// ID identifies the manager in logs and run reports.
func (m *Manager) ID() uuid.UUID {
	return m.id
}

// Config returns the configuration the manager was built with.
func (m *Manager) Config() Config {
	return m.cfg
}

// Context is canceled once Shutdown is called. Jobs receive a context derived
// from it.
func (m *Manager) Context() context.Context {
	return m.mainCtx
}

// IsShuttingDown reports whether Shutdown was called.
func (m *Manager) IsShuttingDown() bool {
	return m.shuttingDown.Load()
}

// Run adopts the calling goroutine as thread 0, spawns the worker threads and
// schedules main as a High priority job. It blocks until the Manager shuts
// down, then joins every thread and releases the fiber pool.
func (m *Manager) Run(main MainFunc, userdata any) error {
	if main == nil {
		return srvErrors.NewMisuseError("Manager.Run", "main callback is nil")
	}
	if !m.running.CompareAndSwap(false, true) {
		return fmt.Errorf("fiber manager %s already ran", m.id)
	}

	m.log.Infow("starting fiber manager", "id", m.id, "threads", len(m.threads), "fibers", len(m.fibers))

	for _, f := range m.fibers {
		f.Create(m.fiberCallbackWorker)
	}

	m.ScheduleJob(PriorityHigh, NewJobInfo(func(ctx context.Context) {
		main(ctx, m, userdata)
		if m.cfg.ShutdownAfterMain {
			m.Shutdown()
		}
	}, nil))

	mainThread := m.threads[0]
	mainThread.FromCurrentThread()
	defer mainThread.Release()

	for _, t := range m.threads[1:] {
		if !t.Spawn(m.threadCallbackWorker, m) {
			m.Shutdown()
			return fmt.Errorf("failed to spawn worker thread %d", t.Index())
		}
	}

	m.threadCallbackWorker(mainThread)

	for _, t := range m.threads[1:] {
		t.Join()
	}
	for _, f := range m.fibers {
		f.Destroy()
	}

	m.log.Infow("fiber manager stopped", "id", m.id, "jobs", m.jobsExecuted.Load(), "switches", m.switches.Load())
	return nil
}

// Shutdown stops every worker loop after its current job and cancels the
// context handed to jobs. It does not wait; Run returns once all threads
// have exited.
func (m *Manager) Shutdown() {
	m.once.Do(func() {
		m.log.Debugw("fiber manager shutting down", "id", m.id)
		m.shuttingDown.Store(true)
		m.mainCancel()
	})
}

func (m *Manager) threadCallbackWorker(t *Thread) {
	tls := t.TLS()

	if m.cfg.PinThreads {
		if cores := allowedCores(); len(cores) > 0 {
			tls.core = cores[t.Index()%len(cores)]
		}
	}

	tls.threadFiber.FromCurrentThread()
	tls.currentFiberIndex = m.findFreeFiber()
	m.switchFiber(&tls.threadFiber, m.fibers[tls.currentFiberIndex], tls)

	m.log.Debugw("worker thread exiting", "thread", t.Index(), "tid", t.ID())
}

// fiberCallbackWorker is the loop every pooled fiber runs. Each iteration
// takes a High job, else resumes a ready fiber of the current thread, else
// takes a Normal or Low job.
func (m *Manager) fiberCallbackWorker(f *Fiber) {
	if m.cfg.PinThreads {
		// never unlocked: the OS thread carries the affinity and ends with the fiber
		runtime.LockOSThread()
	}
	m.pinFiber(f)
	m.cleanupPreviousFiber(f.tls())

	bo := m.newIdleBackOff()
	for !m.shuttingDown.Load() {
		var job JobInfo
		switch {
		case m.highPriorityQueue.Dequeue(&job):
		case m.resumeReadyFiber(f):
			bo.Reset()
			continue
		case m.normalPriorityQueue.Dequeue(&job), m.lowPriorityQueue.Dequeue(&job):
		default:
			f.tls().thread.SleepFor(bo.NextBackOff())
			continue
		}

		bo.Reset()
		job.Execute(f.ctx)
		m.jobsExecuted.Add(1)
	}

	tls := f.tls()
	m.switchFiber(f, &tls.threadFiber, tls)
}

func (m *Manager) newIdleBackOff() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = m.cfg.IdleSleepMin
	bo.MaxInterval = m.cfg.IdleSleepMax
	bo.Multiplier = 2
	bo.RandomizationFactor = 0.2
	bo.Reset()
	return bo
}

func (m *Manager) switchFiber(from, to *Fiber, tls *TLS) {
	m.switches.Add(1)
	from.SwitchTo(to, tls)
	m.pinFiber(from)
}

// pinFiber moves the OS thread of a pooled fiber onto the core of the thread
// it now runs for. Goroutines are not bound to the OS thread of a Thread, so
// the fiber carrying the jobs is what gets pinned.
func (m *Manager) pinFiber(f *Fiber) {
	if !m.cfg.PinThreads || f.threadFiber {
		return
	}
	tls := f.tls()
	if tls == nil || tls.core < 0 || f.pinnedCore == tls.core+1 {
		return
	}
	if err := setThreadAffinity(currentThreadID(), tls.core); err != nil {
		m.log.Warnw("failed to pin fiber", "fiber", f.index, "thread", tls.thread.Index(), "core", tls.core, "error", err)
	}
	f.pinnedCore = tls.core + 1
}

// findFreeFiber claims an idle pooled fiber. Exhausting the pool is fatal.
func (m *Manager) findFreeFiber() int {
	for range findFreeFiberAttempts {
		for i := range m.idleFibers {
			if m.idleFibers[i].CompareAndSwap(true, false) {
				return i
			}
		}
		runtime.Gosched()
	}
	panic(srvErrors.NewFiberPoolExhaustedError(len(m.fibers)))
}

// cleanupPreviousFiber runs on the fiber that was just switched into and
// settles the fiber that was switched away from.
func (m *Manager) cleanupPreviousFiber(tls *TLS) {
	switch tls.previousFiberDestination {
	case destinationNone:
		return
	case destinationPool:
		m.idleFibers[tls.previousFiberIndex].Store(true)
	case destinationWaiting:
		tls.previousFiberStored.Store(true)
	}

	tls.previousFiberIndex = -1
	tls.previousFiberDestination = destinationNone
	tls.previousFiberStored = nil
}

// Stats returns a snapshot of the scheduler counters.
func (m *Manager) Stats() Stats {
	free := 0
	for i := range m.idleFibers {
		if m.idleFibers[i].Load() {
			free++
		}
	}
	return Stats{
		ID:             m.id.String(),
		Threads:        len(m.threads),
		FiberPoolSize:  len(m.fibers),
		FreeFibers:     free,
		Switches:       m.switches.Load(),
		JobsExecuted:   m.jobsExecuted.Load(),
		ResumedWaiters: m.resumedWaiters.Load(),
		QueuedHigh:     m.highPriorityQueue.Len(),
		QueuedNormal:   m.normalPriorityQueue.Len(),
		QueuedLow:      m.lowPriorityQueue.Len(),
		ShuttingDown:   m.shuttingDown.Load(),
	}
}
