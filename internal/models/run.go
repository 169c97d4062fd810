package models

import (
	"fmt"
	"time"
)

type RunStatus string

const (
	RunStatusCompleted RunStatus = "completed"
	// RunStatusCanceled - the run stopped before its last frame
	RunStatusCanceled RunStatus = "canceled"
)

func ParseRunStatus(s string) (RunStatus, error) {
	switch s {
	case "completed":
		return RunStatusCompleted, nil
	case "canceled":
		return RunStatusCanceled, nil
	default:
		return "", fmt.Errorf("invalid run status: %s", s)
	}
}

// RunReport summarizes one workload run executed on a fiber manager.
type RunReport struct {
	ID        string    `json:"id"`
	ManagerID string    `json:"managerId"`
	Status    RunStatus `json:"status"`
	StartedAt time.Time `json:"startedAt"`
	// Duration is the wall time between the first and the last frame.
	Duration time.Duration `json:"duration"`

	Frames         int    `json:"frames"`
	FramesRun      int    `json:"framesRun"`
	Substeps       int    `json:"substeps"`
	AssetChain     int    `json:"assetChain"`
	Threads        int    `json:"threads"`
	FiberPoolSize  int    `json:"fiberPoolSize"`
	MinFreeFibers  int    `json:"minFreeFibers"`
	JobsExecuted   uint64 `json:"jobsExecuted"`
	Switches       uint64 `json:"switches"`
	ResumedWaiters uint64 `json:"resumedWaiters"`
}

// FrameTime is the mean wall time of a completed frame.
func (r RunReport) FrameTime() time.Duration {
	if r.FramesRun == 0 {
		return 0
	}
	return r.Duration / time.Duration(r.FramesRun)
}
