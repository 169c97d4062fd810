package v1

import (
	"time"

	"github.com/era-engine/fibers/internal/models"
	"github.com/era-engine/fibers/internal/services"
	"github.com/era-engine/fibers/pkg/fibers"
)

// NewRunFromModel converts a models.RunReport to an API Run.
func NewRunFromModel(r models.RunReport) Run {
	return Run{
		Id:             r.ID,
		ManagerId:      r.ManagerID,
		Status:         RunStatus(r.Status),
		StartedAt:      r.StartedAt,
		DurationMs:     toMillis(r.Duration),
		FrameTimeMs:    toMillis(r.FrameTime()),
		Frames:         r.Frames,
		FramesRun:      r.FramesRun,
		Substeps:       r.Substeps,
		AssetChain:     r.AssetChain,
		Threads:        r.Threads,
		FiberPoolSize:  r.FiberPoolSize,
		MinFreeFibers:  r.MinFreeFibers,
		JobsExecuted:   r.JobsExecuted,
		Switches:       r.Switches,
		ResumedWaiters: r.ResumedWaiters,
	}
}

func NewStatsFromModel(s fibers.Stats) Stats {
	return Stats{
		Id:             s.ID,
		Threads:        s.Threads,
		FiberPoolSize:  s.FiberPoolSize,
		FreeFibers:     s.FreeFibers,
		Switches:       s.Switches,
		JobsExecuted:   s.JobsExecuted,
		ResumedWaiters: s.ResumedWaiters,
		Queued: Queued{
			High:   s.QueuedHigh,
			Normal: s.QueuedNormal,
			Low:    s.QueuedLow,
		},
		ShuttingDown: s.ShuttingDown,
	}
}

// Apply overrides the fields of defaults set in the request.
func (r RunRequest) Apply(defaults services.WorkloadParams) services.WorkloadParams {
	p := defaults
	if r.Frames != nil {
		p.Frames = *r.Frames
	}
	if r.Substeps != nil {
		p.Substeps = *r.Substeps
	}
	if r.AssetChain != nil {
		p.AssetChain = *r.AssetChain
	}
	if r.WorkUnits != nil {
		p.WorkUnits = *r.WorkUnits
	}
	return p
}

// ParseRunStatuses converts API status params to model statuses, skipping unknown values.
func ParseRunStatuses(statuses []RunStatus) []models.RunStatus {
	var result []models.RunStatus
	for _, s := range statuses {
		if st, err := models.ParseRunStatus(string(s)); err == nil {
			result = append(result, st)
		}
	}
	return result
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
