package fibers

import (
	"context"

	srvErrors "github.com/era-engine/fibers/pkg/errors"
)

func (m *Manager) queueByPriority(prio JobPriority) *JobQueue {
	switch prio {
	case PriorityHigh:
		return m.highPriorityQueue
	case PriorityNormal:
		return m.normalPriorityQueue
	case PriorityLow:
		return m.lowPriorityQueue
	default:
		return nil
	}
}

// ScheduleJob enqueues job on the queue of prio. The job's counter is
// incremented before the job becomes visible to workers. A full queue is
// fatal: dropping the job would leave its counter unbalanced forever.
func (m *Manager) ScheduleJob(prio JobPriority, job JobInfo) {
	if !job.valid() {
		panic(srvErrors.NewMisuseError("Manager.ScheduleJob", "job has no function"))
	}
	queue := m.queueByPriority(prio)
	if queue == nil {
		panic(srvErrors.NewMisuseError("Manager.ScheduleJob", "unknown priority "+prio.String()))
	}

	if job.counter != nil {
		job.counter.Increment()
	}

	if !queue.Enqueue(job) {
		panic(srvErrors.NewQueueFullError(prio.String(), queue.Cap()))
	}
}

// Schedule is ScheduleJob for a bare function.
func (m *Manager) Schedule(prio JobPriority, fn JobFunc, counter JobCounter) {
	m.ScheduleJob(prio, NewJobInfo(fn, counter))
}

// WaitForCounter parks the fiber running ctx until counter equals target.
// The OS thread keeps executing other jobs meanwhile. A counter already at
// target returns without switching fibers.
func (m *Manager) WaitForCounter(ctx context.Context, counter JobCounter, target uint32) {
	if counter == nil || counter.Value() == target {
		return
	}

	f := fiberFromContext(ctx)
	if f == nil {
		panic(srvErrors.NewMisuseError("Manager.WaitForCounter", "not called from a job of this manager"))
	}
	// a ctx captured from another job names a fiber that is parked
	if !f.running.Load() {
		panic(srvErrors.NewMisuseError("Manager.WaitForCounter", "ctx does not belong to the running fiber"))
	}
	tls := f.tls()

	f.stored.Store(false)
	if counter.addWaitingFiber(waitingFiber{fiberIndex: f.index, target: target, stored: &f.stored, tls: tls}) {
		return
	}

	tls.previousFiberIndex = f.index
	tls.previousFiberDestination = destinationWaiting
	tls.previousFiberStored = &f.stored

	tls.currentFiberIndex = m.findFreeFiber()
	m.switchFiber(f, m.fibers[tls.currentFiberIndex], tls)

	// resumed, possibly by another fiber than the one we left for
	m.cleanupPreviousFiber(f.tls())
}

// WaitForSingle schedules fn and parks until it has executed.
func (m *Manager) WaitForSingle(ctx context.Context, prio JobPriority, fn JobFunc) {
	ctr := NewTinyCounter()
	m.ScheduleJob(prio, NewJobInfo(fn, ctr))
	m.WaitForCounter(ctx, ctr, 0)
}

// resumeReadyFiber switches into a fiber of the current thread whose wait
// has been satisfied. f goes back to the pool and returns from here only
// once it is handed out again, possibly on another thread.
func (m *Manager) resumeReadyFiber(f *Fiber) bool {
	tls := f.tls()
	index, ok := tls.takeReadyFiber()
	if !ok {
		return false
	}

	tls.previousFiberIndex = f.index
	tls.previousFiberDestination = destinationPool
	tls.currentFiberIndex = index
	m.resumedWaiters.Add(1)

	m.switchFiber(f, m.fibers[index], tls)

	m.cleanupPreviousFiber(f.tls())
	return true
}
