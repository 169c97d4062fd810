package fibers

import "context"

// List binds a batch of jobs to one Counter. Jobs are scheduled as soon as
// they are added and Wait joins on all of them.
type List struct {
	m               *Manager
	counter         *Counter
	defaultPriority JobPriority
}

// NewList returns an empty List scheduling on m.
func NewList(m *Manager, defaultPriority JobPriority) *List {
	return &List{
		m:               m,
		counter:         NewCounter(),
		defaultPriority: defaultPriority,
	}
}

// Add schedules fn at the default priority.
func (l *List) Add(fn JobFunc) {
	l.AddWithPriority(l.defaultPriority, fn)
}

// AddWithPriority schedules fn at prio.
func (l *List) AddWithPriority(prio JobPriority, fn JobFunc) {
	l.m.ScheduleJob(prio, NewJobInfo(fn, l.counter))
}

// Wait parks the calling fiber until the number of unfinished jobs equals
// target. Wait(ctx, 0) joins the whole batch.
func (l *List) Wait(ctx context.Context, target uint32) {
	l.m.WaitForCounter(ctx, l.counter, target)
}

// Pending is the number of added jobs that have not executed yet.
func (l *List) Pending() uint32 {
	return l.counter.Value()
}

// Counter returns the counter shared by the jobs of the list.
func (l *List) Counter() *Counter {
	return l.counter
}
