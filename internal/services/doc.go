// Package services implements the business logic layer of the fibers command.
//
// Services sit between the HTTP handlers or CLI commands and the fiber
// manager and store.
//
// # Service Dependency Graph
//
//	Handlers (HTTP endpoints)      CLI (fibers run)
//	    │                               │
//	    ▼                               ▼
//	WorkloadService ──► fibers.Manager (dedicated per Run, or long-lived for Submit)
//	    │
//	    └─────────────► Store (run reports)
//
// # WorkloadService
//
// WorkloadService runs a synthetic engine frame loop through the scheduler,
// using it the way engine subsystems do. Each frame:
//
//	┌───────────────────────────────────────────────────────────────┐
//	│ List (Normal)                                                 │
//	│   ├── render submit        High                               │
//	│   ├── physics substep 0    Normal                             │
//	│   ├── ...                                                     │
//	│   └── physics substep N    Normal                             │
//	│ Wait(ctx, 0)                                                  │
//	├───────────────────────────────────────────────────────────────┤
//	│ Queue (Low): asset 0 → asset 1 → ... → asset M, one at a time │
//	├───────────────────────────────────────────────────────────────┤
//	│ WaitForSingle(Normal): script update                          │
//	└───────────────────────────────────────────────────────────────┘
//
// Every job burns WorkUnits rounds of busy work and samples the number of
// free fibers, so the report shows how deep the pool was used.
//
// Run modes:
//   - Run(ctx, params): builds a Manager from the scheduler configuration,
//     runs the frames as its main callback and shuts it down afterwards.
//     Canceling ctx shuts the manager down; the run stops after the current
//     frame, or is abandoned when a frame was still waiting.
//   - Submit(params): schedules the frame loop as a Low job of the long-lived
//     manager set with WithManager and returns a Future. Future.Stop stops
//     the run after the current frame, the report is still delivered.
//     At most MaxInflightRuns submitted runs are in flight, since every run
//     parks a fiber while its frame waits. Further Submits resolve with
//     ManagerUnavailableError, as do runs cut off by a manager shutdown.
//
// Report fields:
//   - JobsExecuted counts the jobs of this run only
//   - Switches and ResumedWaiters are manager-wide deltas, so they include
//     concurrent runs on a shared manager
//   - MinFreeFibers is the lowest free fiber count seen by a job
//
// Reports are saved to the store once a run ends. ListRuns returns them
// newest first with the total count of matching runs for pagination.
//
// # Usage Example
//
//	srv := services.NewWorkloadService(cfg.Scheduler, store.NewStore(db))
//	report, err := srv.Run(ctx, services.NewWorkloadParams(cfg.Workload))
//	if err != nil {
//	    return err
//	}
//	fmt.Println(report.FrameTime())
package services
