package fibers

import (
	"runtime"
	"sync/atomic"
)

// JobQueue is a bounded multi-producer multi-consumer ring of JobInfo using
// per-slot sequence numbers. Enqueue never blocks and fails when full.
type JobQueue struct {
	_pad0   [64]byte
	mask    uint64
	_pad1   [64]byte
	enqueue atomic.Uint64
	_pad2   [64]byte
	dequeue atomic.Uint64
	_pad3   [64]byte
	cells   []jobCell
}

type jobCell struct {
	seq atomic.Uint64
	job JobInfo
}

// NewJobQueue creates a queue holding at least capacity jobs; the capacity is
// rounded up to a power of two.
func NewJobQueue(capacity int) *JobQueue {
	if capacity < 2 {
		capacity = 2
	}
	size := uint64(1)
	for size < uint64(capacity) {
		size <<= 1
	}
	q := &JobQueue{
		mask:  size - 1,
		cells: make([]jobCell, size),
	}
	for i := range q.cells {
		q.cells[i].seq.Store(uint64(i))
	}
	return q
}

// Enqueue appends job and reports false when the queue is full.
func (q *JobQueue) Enqueue(job JobInfo) bool {
	for {
		pos := q.enqueue.Load()
		c := &q.cells[pos&q.mask]
		dif := int64(c.seq.Load()) - int64(pos)
		switch {
		case dif == 0:
			if q.enqueue.CompareAndSwap(pos, pos+1) {
				c.job = job
				c.seq.Store(pos + 1)
				return true
			}
		case dif < 0:
			return false
		default:
			runtime.Gosched()
		}
	}
}

// Dequeue takes the oldest job into job and reports false when the queue is empty.
func (q *JobQueue) Dequeue(job *JobInfo) bool {
	for {
		pos := q.dequeue.Load()
		c := &q.cells[pos&q.mask]
		dif := int64(c.seq.Load()) - int64(pos+1)
		switch {
		case dif == 0:
			if q.dequeue.CompareAndSwap(pos, pos+1) {
				*job = c.job
				c.job = JobInfo{}
				c.seq.Store(pos + q.mask + 1)
				return true
			}
		case dif < 0:
			return false
		default:
			runtime.Gosched()
		}
	}
}

// Len is a snapshot of the number of queued jobs.
func (q *JobQueue) Len() int {
	deq := q.dequeue.Load()
	enq := q.enqueue.Load()
	if enq < deq {
		return 0
	}
	return int(enq - deq)
}

// Cap returns the capacity of the ring.
func (q *JobQueue) Cap() int {
	return len(q.cells)
}
