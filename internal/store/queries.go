package store

const tableRuns = "runs"

var runColumns = []string{
	"id",
	"manager_id",
	"status",
	"started_at",
	"duration_ns",
	"frames",
	"frames_run",
	"substeps",
	"asset_chain",
	"threads",
	"fiber_pool_size",
	"min_free_fibers",
	"jobs_executed",
	"switches",
	"resumed_waiters",
}
