// Package store persists workload run reports in DuckDB.
//
// # Architecture Overview
//
//	┌──────────────────────────────────────────────────────────────┐
//	│                           Store                              │
//	│                                                              │
//	│   ┌────────────────┐                                         │
//	│   │   RunStore     │── squirrel builders ──┐                 │
//	│   └────────────────┘                       ▼                 │
//	│                              ┌──────────────────────────┐    │
//	│                              │    QueryInterceptor      │    │
//	│                              │  (debug query logging)   │    │
//	│                              └────────────┬─────────────┘    │
//	│                                           ▼                  │
//	│                              ┌──────────────────────────┐    │
//	│                              │   *sql.DB (duckdb)       │    │
//	│                              └──────────────────────────┘    │
//	└──────────────────────────────────────────────────────────────┘
//
// # Opening the Database
//
//	db, err := store.NewDB(cfg.Store.DBPath)
//	if err != nil {
//	    return err
//	}
//	if err := migrations.Run(ctx, db); err != nil {
//	    return err
//	}
//	s := store.NewStore(db)
//	defer s.Close()
//
// ":memory:" opens an in-memory database. It lives as long as the *sql.DB.
//
// # Migrations
//
// SQL files under migrations/sql are embedded and applied in version order.
// Applied versions are recorded in schema_migrations, so Run is idempotent.
//
// # RunStore
//
// Schema:
//
//	runs (
//	    id VARCHAR PRIMARY KEY,
//	    manager_id VARCHAR,
//	    status VARCHAR,            -- completed | canceled
//	    started_at TIMESTAMP,
//	    duration_ns BIGINT,
//	    frames, frames_run, substeps, asset_chain INTEGER,
//	    threads, fiber_pool_size, min_free_fibers INTEGER,
//	    jobs_executed, switches, resumed_waiters BIGINT,
//	    created_at TIMESTAMP
//	)
//
// Methods:
//   - Save(ctx, report) → error (duplicate ids are rejected)
//   - Get(ctx, id) → *models.RunReport (ResourceNotFoundError when missing)
//   - List(ctx, opts...) → []models.RunReport
//   - Count(ctx, opts...) → int
//
// # List Options
//
// List and Count use the functional options pattern. Each ListOption modifies
// the squirrel.SelectBuilder:
//
//	runs, err := s.Runs().List(ctx,
//	    store.ByMinJobs(1000),
//	    store.ByStatus(models.RunStatusCompleted),
//	    store.WithDefaultSort(),
//	    store.WithLimit(20),
//	    store.WithOffset(0),
//	)
//
// Filtering Options:
//
//   - ByMinJobs(minJobs uint64)
//     SQL: WHERE jobs_executed >= minJobs
//
//   - ByStatus(statuses ...models.RunStatus)
//     SQL: WHERE status IN (...)
//
//   - ByManager(managerID string)
//     SQL: WHERE manager_id = managerID
//
// Pagination and Sorting:
//
//   - WithLimit(limit uint64), WithOffset(offset uint64)
//   - WithDefaultSort(): newest first, id as tie-breaker
//
// Sorting options must not be passed to Count.
//
// # QueryInterceptor
//
// All statements go through a QueryInterceptor that logs the query, its
// arguments, duration and error at debug level under the "store" logger.
package store
