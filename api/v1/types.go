package v1

import "time"

// Run is a workload run report as returned by the API.
type Run struct {
	Id             string    `json:"id"`
	ManagerId      string    `json:"managerId"`
	Status         RunStatus `json:"status"`
	StartedAt      time.Time `json:"startedAt"`
	DurationMs     float64   `json:"durationMs"`
	FrameTimeMs    float64   `json:"frameTimeMs"`
	Frames         int       `json:"frames"`
	FramesRun      int       `json:"framesRun"`
	Substeps       int       `json:"substeps"`
	AssetChain     int       `json:"assetChain"`
	Threads        int       `json:"threads"`
	FiberPoolSize  int       `json:"fiberPoolSize"`
	MinFreeFibers  int       `json:"minFreeFibers"`
	JobsExecuted   uint64    `json:"jobsExecuted"`
	Switches       uint64    `json:"switches"`
	ResumedWaiters uint64    `json:"resumedWaiters"`
}

type RunStatus string

const (
	RunStatusCompleted RunStatus = "completed"
	RunStatusCanceled  RunStatus = "canceled"
)

type RunListResponse struct {
	Page      int   `json:"page"`
	PageCount int   `json:"pageCount"`
	Total     int   `json:"total"`
	Runs      []Run `json:"runs"`
}

// RunRequest starts a workload run. Omitted fields take the server defaults.
type RunRequest struct {
	Frames     *int `json:"frames,omitempty" binding:"omitempty,min=1"`
	Substeps   *int `json:"substeps,omitempty" binding:"omitempty,min=0"`
	AssetChain *int `json:"assetChain,omitempty" binding:"omitempty,min=0"`
	WorkUnits  *int `json:"workUnits,omitempty" binding:"omitempty,min=0"`
}

type ListRunsParams struct {
	Page     *int        `form:"page"`
	PageSize *int        `form:"pageSize"`
	MinJobs  *uint64     `form:"minJobs"`
	Status   []RunStatus `form:"status"`
}

// Stats is the live view of the serving fiber manager.
type Stats struct {
	Id             string `json:"id"`
	Threads        int    `json:"threads"`
	FiberPoolSize  int    `json:"fiberPoolSize"`
	FreeFibers     int    `json:"freeFibers"`
	Switches       uint64 `json:"switches"`
	JobsExecuted   uint64 `json:"jobsExecuted"`
	ResumedWaiters uint64 `json:"resumedWaiters"`
	Queued         Queued `json:"queued"`
	ShuttingDown   bool   `json:"shuttingDown"`
}

type Queued struct {
	High   int `json:"high"`
	Normal int `json:"normal"`
	Low    int `json:"low"`
}

type Error struct {
	Error string `json:"error"`
}
