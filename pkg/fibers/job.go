package fibers

import (
	"context"
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"

	srvErrors "github.com/era-engine/fibers/pkg/errors"
)

type JobPriority int

const (
	PriorityHigh JobPriority = iota
	PriorityNormal
	PriorityLow
)

// String returns the lower-case name of the priority.
func (p JobPriority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityNormal:
		return "normal"
	case PriorityLow:
		return "low"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

// ParseJobPriority parses a name produced by String.
func ParseJobPriority(s string) (JobPriority, error) {
	switch s {
	case "high":
		return PriorityHigh, nil
	case "normal":
		return PriorityNormal, nil
	case "low":
		return PriorityLow, nil
	default:
		return 0, fmt.Errorf("invalid job priority: %s", s)
	}
}

// JobFunc is the body of a job. ctx belongs to the fiber executing the job
// and is what WaitForCounter uses to find it; it is canceled on shutdown.
type JobFunc func(ctx context.Context)

// JobInfo is a job descriptor stored by value in the priority queues.
type JobInfo struct {
	fn      JobFunc
	counter JobCounter
}

// NewJobInfo binds fn to counter, which may be nil. A nil fn panics.
func NewJobInfo(fn JobFunc, counter JobCounter) JobInfo {
	if fn == nil {
		panic(srvErrors.NewMisuseError("NewJobInfo", "job function is nil"))
	}
	return JobInfo{fn: fn, counter: counter}
}

// Counter returns the counter decremented once the job executed.
func (j JobInfo) Counter() JobCounter {
	return j.counter
}

// SetCounter replaces the job counter. It must be called before scheduling.
func (j *JobInfo) SetCounter(c JobCounter) {
	j.counter = c
}

func (j JobInfo) valid() bool {
	return j.fn != nil
}

// Execute runs the job and then decrements its counter. A panicking job is
// logged and the panic is propagated: the counter is left untouched.
func (j JobInfo) Execute(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.S().Named("fiber_manager").Errorw("job panicked", "panic", rec, "stack", string(debug.Stack()))
			panic(rec)
		}
	}()

	j.fn(ctx)
	if j.counter != nil {
		j.counter.Decrement()
	}
}
