package fibers

// Stats is a point-in-time view of a Manager. Queue depths are approximate
// while workers run.
type Stats struct {
	ID             string `json:"id"`
	Threads        int    `json:"threads"`
	FiberPoolSize  int    `json:"fiberPoolSize"`
	FreeFibers     int    `json:"freeFibers"`
	Switches       uint64 `json:"switches"`
	JobsExecuted   uint64 `json:"jobsExecuted"`
	ResumedWaiters uint64 `json:"resumedWaiters"`
	QueuedHigh     int    `json:"queuedHigh"`
	QueuedNormal   int    `json:"queuedNormal"`
	QueuedLow      int    `json:"queuedLow"`
	ShuttingDown   bool   `json:"shuttingDown"`
}
