// Package handlers implements the HTTP API layer of the fibers command.
//
// Handlers delegate to the WorkloadService and focus on parameter parsing,
// error mapping to HTTP status codes and model-to-API conversion.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     HTTP Request (Gin)                          │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Handler (this package)                     │
//	│  - Parameter parsing                                            │
//	│  - Error mapping to HTTP status codes                           │
//	│  - Model-to-API conversion (api/v1)                             │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│   WorkloadService ──► long-lived fibers.Manager, Store          │
//	└─────────────────────────────────────────────────────────────────┘
//
// # API Endpoints
//
//	┌────────┬────────────────┬──────────────────────────────────────────────┐
//	│ Method │ Endpoint       │ Description                                  │
//	├────────┼────────────────┼──────────────────────────────────────────────┤
//	│ GET    │ /health        │ Liveness (outside /api/v1)                   │
//	│ GET    │ /stats         │ Live counters of the serving fiber manager   │
//	│ GET    │ /runs          │ List run reports with filtering/pagination   │
//	│ GET    │ /runs/{id}     │ Get one run report                           │
//	│ POST   │ /runs          │ Run a workload and return its report         │
//	└────────┴────────────────┴──────────────────────────────────────────────┘
//
// # Stats Handler
//
// GET /stats:
//
//	{
//	    "id": "0b6f...",
//	    "threads": 5,
//	    "fiberPoolSize": 64,
//	    "freeFibers": 59,
//	    "switches": 120394,
//	    "jobsExecuted": 80211,
//	    "resumedWaiters": 2210,
//	    "queued": {"high": 0, "normal": 12, "low": 3},
//	    "shuttingDown": false
//	}
//
// Errors:
//   - 503 Service Unavailable: no manager is serving
//
// # Run Handlers
//
// GET /runs query parameters:
//
//	┌──────────┬──────────┬─────────────────────────────────────────┐
//	│ Parameter│ Type     │ Description                             │
//	├──────────┼──────────┼─────────────────────────────────────────┤
//	│ minJobs  │ uint64   │ Minimum executed jobs                   │
//	│ status   │ []string │ completed, canceled (OR logic)          │
//	│ page     │ int      │ Page number (default: 1)                │
//	│ pageSize │ int      │ Items per page (default: 20, max: 100)  │
//	└──────────┴──────────┴─────────────────────────────────────────┘
//
// POST /runs body, every field optional and defaulted from configuration:
//
//	{ "frames": 120, "substeps": 16, "assetChain": 4, "workUnits": 5000 }
//
// The request blocks until the run ends and answers 201 Created with the
// report. A client dropping the connection stops the run after the current
// frame; the canceled report is still saved.
//
// Errors:
//   - 400 Bad Request: invalid body or workload parameters
//   - 404 Not Found: unknown run id
//   - 503 Service Unavailable: the manager is shutting down, or as many runs
//     are in flight as its fiber pool can hold
package handlers
