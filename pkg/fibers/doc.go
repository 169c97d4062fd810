// Package fibers implements a cooperative fiber-based job scheduler.
//
// The Manager owns a fixed pool of fibers, a fixed set of worker threads and
// three bounded priority queues. Work is submitted with ScheduleJob (or the
// List and Queue helpers) and joined with WaitForCounter. Waiting never blocks
// an OS thread: the waiting fiber is parked and the thread switches to a free
// fiber that keeps pulling jobs.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────────┐
//	│                              Manager                                │
//	│                                                                     │
//	│  ┌──────────────┐      ┌──────────────┐      ┌──────────────┐       │
//	│  │  Thread 0    │      │  Thread 1    │      │  Thread N    │       │
//	│  │ (adopted)    │      │  TLS         │      │  TLS         │       │
//	│  │  TLS         │      │  ReadyFibers │      │  ReadyFibers │       │
//	│  └──────┬───────┘      └──────┬───────┘      └──────┬───────┘       │
//	│         │ runs one fiber      │                     │               │
//	│         ▼ at a time           ▼                     ▼               │
//	│  ┌─────────────────────────────────────────────────────────────┐    │
//	│  │                 Fiber pool (fixed size)                     │    │
//	│  │  [f0 running] [f1 parked] [f2 idle] [f3 running] ...        │    │
//	│  └─────────────────────────────────────────────────────────────┘    │
//	│         ▲                                                           │
//	│         │ fiberCallbackWorker                                       │
//	│  ┌──────┴──────┐  ┌─────────────┐  ┌────────────┐                   │
//	│  │ High queue  │  │Normal queue │  │ Low queue  │                   │
//	│  └─────────────┘  └─────────────┘  └────────────┘                   │
//	│         ▲                ▲                ▲                         │
//	│         └────────────────┼────────────────┘                         │
//	│                    ScheduleJob(prio, job)                           │
//	└─────────────────────────────────────────────────────────────────────┘
//
// # Core Components
//
// Fiber:
//   - A goroutine that only runs while it holds the baton
//   - SwitchTo hands the baton to another fiber and parks until handed back
//   - Pooled fibers are created once in Run and recycled, never per job
//
// Thread:
//   - A goroutine locked to its OS thread
//   - With PinThreads it owns a core: pooled fibers lock their own OS thread
//     and pin it to that core whenever they receive the baton on this thread
//   - Owns a TLS block: current fiber, previous fiber and ready fibers
//   - Its own goroutine becomes the "thread fiber" and stays parked until shutdown
//
// Counter / TinyCounter:
//   - Incremented when a job referencing it is scheduled
//   - Decremented once the job has executed
//   - Fibers wait until the value reaches a target
//
// JobQueue:
//   - Bounded MPMC ring per priority, FIFO within a priority
//   - Enqueue fails when full, which ScheduleJob treats as fatal
//
// # Worker Loop
//
// Every pooled fiber runs the same loop:
//
//	for !shuttingDown {
//	    if high.Dequeue(&job)          { job.Execute(); continue }
//	    if resumeReadyFiber()          { continue }
//	    if normal.Dequeue(&job) ||
//	       low.Dequeue(&job)           { job.Execute(); continue }
//	    sleep (exponential backoff)
//	}
//	switch to the thread fiber
//
// High priority jobs always come first and can starve the other queues.
// There is no aging.
//
// # Waiting
//
//	Fiber A (job)                 Thread T                  Fiber B (free)
//	    │                            │                           │
//	    │ WaitForCounter(c, 0)       │                           │
//	    │── c.value == 0? ──► return │                           │
//	    │── register waiter (T) ─────►                           │
//	    │   previous = A (Waiting)   │                           │
//	    │── SwitchTo(B) ─────────────┼──────────────────────────►│
//	    ·                            │        cleanupPreviousFiber
//	    ·                            │        A.stored = true    │
//	    ·       another thread: c.Decrement() → 0                │
//	    ·                            ◄── T.ReadyFibers += A ──── │
//	    ·                            │      resumeReadyFiber     │
//	    │◄───────────────────────────┼────── SwitchTo(A) ────────│
//	    │ cleanupPreviousFiber       │      (B back to pool)     │
//	    │ B released                 │                           │
//	    ▼ continues after WaitForCounter
//
// Registering a waiter and every change of the counter value happen under
// the counter's lock, so a decrement reaching the target either sees the
// waiter or the waiter sees the target. A ready fiber is only resumed once
// its stored flag is set, that is once it has completely switched out.
//
// A fiber finds itself through the context handed to its jobs: WaitForCounter
// must be called with the ctx of the running job, from the job's goroutine.
//
// # Failure Handling
//
// Capacity and misuse errors panic with the typed errors of pkg/errors:
//   - queue full: *errors.QueueFullError
//   - fiber pool exhausted: *errors.FiberPoolExhaustedError
//   - nil callbacks, invalid switches, waits outside a job: *errors.MisuseError
//
// A job that panics is logged and the panic propagates, terminating the
// process. Jobs cannot be canceled once dequeued.
//
// # Shutdown
//
// Shutdown sets a flag every worker loop checks between jobs and cancels the
// context jobs receive. Each thread's running fiber switches back to its
// thread fiber, the thread exits, Run joins the threads and releases every
// pooled fiber, including fibers still parked on a counter.
//
// # Usage Example
//
//	cfg := fibers.DefaultConfig()
//	cfg.NumThreads = 4
//	cfg.FiberPoolSize = 16
//
//	m, err := fibers.NewManager(cfg)
//	if err != nil {
//	    return err
//	}
//
//	var total atomic.Int64
//	err = m.Run(func(ctx context.Context, m *fibers.Manager, _ any) {
//	    list := fibers.NewList(m, fibers.PriorityNormal)
//	    for range 1000 {
//	        list.Add(func(ctx context.Context) { total.Add(1) })
//	    }
//	    list.Wait(ctx, 0)
//	}, nil)
package fibers
