package fibers

import "context"

type queue[T any] []T

func (q *queue[T]) Len() int { return len(*q) }

func (q *queue[T]) Peek() T {
	return (*q)[0]
}

func (q *queue[T]) Pop() T {
	old := *q
	x := old[0]
	var zero T
	old[0] = zero
	*q = old[1:]
	return x
}

func (q *queue[T]) Push(t T) {
	*q = append(*q, t)
}

type queuedJob struct {
	prio JobPriority
	fn   JobFunc
}

// Queue runs its jobs strictly one after the other: each Step schedules the
// head job and parks until it has executed. A Queue belongs to the fiber
// driving it and is not safe for concurrent use.
type Queue struct {
	m               *Manager
	defaultPriority JobPriority
	jobs            queue[queuedJob]
	counter         TinyCounter
}

// NewQueue returns an empty Queue scheduling on m.
func NewQueue(m *Manager, defaultPriority JobPriority) *Queue {
	return &Queue{
		m:               m,
		defaultPriority: defaultPriority,
		jobs:            queue[queuedJob]{},
	}
}

// Add appends fn at the default priority.
func (q *Queue) Add(fn JobFunc) {
	q.AddWithPriority(q.defaultPriority, fn)
}

// AddWithPriority appends fn to run at prio when it reaches the head.
func (q *Queue) AddWithPriority(prio JobPriority, fn JobFunc) {
	// validate now rather than when the job reaches the head
	q.jobs.Push(queuedJob{prio: prio, fn: NewJobInfo(fn, nil).fn})
}

// Len is the number of jobs not yet stepped.
func (q *Queue) Len() int {
	return q.jobs.Len()
}

// Step runs the head job to completion and removes it. It returns false when
// the queue is empty.
func (q *Queue) Step(ctx context.Context) bool {
	if q.jobs.Len() == 0 {
		return false
	}

	next := q.jobs.Peek()
	q.m.ScheduleJob(next.prio, NewJobInfo(next.fn, &q.counter))
	q.m.WaitForCounter(ctx, &q.counter, 0)
	q.jobs.Pop()
	return true
}

// Execute steps until the queue is drained.
func (q *Queue) Execute(ctx context.Context) {
	for q.Step(ctx) {
	}
}
