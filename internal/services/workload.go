package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/era-engine/fibers/internal/config"
	"github.com/era-engine/fibers/internal/models"
	"github.com/era-engine/fibers/internal/store"
	srvErrors "github.com/era-engine/fibers/pkg/errors"
	"github.com/era-engine/fibers/pkg/fibers"
)

type WorkloadParams struct {
	Frames     int
	Substeps   int
	AssetChain int
	WorkUnits  int
}

func NewWorkloadParams(w config.Workload) WorkloadParams {
	return WorkloadParams{
		Frames:     w.Frames,
		Substeps:   w.Substeps,
		AssetChain: w.AssetChain,
		WorkUnits:  w.WorkUnits,
	}
}

func (p WorkloadParams) Validate() error {
	if p.Frames < 1 {
		return srvErrors.NewConfigurationError("frames", "must be positive")
	}
	if p.Substeps < 0 {
		return srvErrors.NewConfigurationError("substeps", "must not be negative")
	}
	if p.AssetChain < 0 {
		return srvErrors.NewConfigurationError("asset-chain", "must not be negative")
	}
	if p.WorkUnits < 0 {
		return srvErrors.NewConfigurationError("work-units", "must not be negative")
	}
	return nil
}

type RunListParams struct {
	MinJobs  uint64
	Statuses []models.RunStatus
	Limit    uint64
	Offset   uint64
}

type RunListResult struct {
	Runs  []models.RunReport
	Total int
}

// WorkloadService drives engine-shaped workloads through a fiber manager and
// keeps their reports.
type WorkloadService struct {
	schedCfg fibers.Config
	store    *store.Store
	manager  *fibers.Manager
	inflight *semaphore.Weighted
	log      *zap.SugaredLogger
}

func NewWorkloadService(schedCfg fibers.Config, st *store.Store) *WorkloadService {
	return &WorkloadService{
		schedCfg: schedCfg,
		store:    st,
		log:      zap.S().Named("workload_service"),
	}
}

// WithManager sets the long-lived manager used by Submit and Stats.
func (s *WorkloadService) WithManager(m *fibers.Manager) *WorkloadService {
	s.manager = m
	s.inflight = semaphore.NewWeighted(int64(MaxInflightRuns(m.Config())))
	return s
}

// MaxInflightRuns is the number of submitted runs a manager can hold at once.
// A run parks at most one fiber while its frame waits, and every thread needs
// a free fiber to switch into, so the pool minus the threads bounds it.
func MaxInflightRuns(cfg fibers.Config) int {
	return max(1, cfg.FiberPoolSize-cfg.Threads()-1)
}

// Run executes the workload on a dedicated manager built from the scheduler
// configuration and blocks until it is done. Canceling ctx stops the run
// after the current frame.
func (s *WorkloadService) Run(ctx context.Context, params WorkloadParams) (*models.RunReport, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := s.schedCfg
	cfg.ShutdownAfterMain = true
	m, err := fibers.NewManager(cfg)
	if err != nil {
		return nil, err
	}

	stop := context.AfterFunc(ctx, m.Shutdown)
	defer stop()

	var report *models.RunReport
	err = m.Run(func(jobCtx context.Context, m *fibers.Manager, _ any) {
		report = newWorkload(m, params).run(jobCtx)
	}, nil)
	if err != nil {
		return nil, err
	}
	if report == nil {
		// shut down while a frame was waiting, nothing to report
		return nil, fmt.Errorf("workload aborted: %w", context.Cause(ctx))
	}

	if err := s.save(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// Submit runs the workload as a Low priority job of the long-lived manager.
// The future resolves once the run completed or was stopped. It resolves with
// ManagerUnavailableError when too many runs are in flight or when the
// manager shuts down before the run could finish.
func (s *WorkloadService) Submit(params WorkloadParams) *models.Future[models.Result[*models.RunReport]] {
	c := make(chan models.Result[*models.RunReport], 1)
	ctx, cancel := context.WithCancel(context.Background())

	if err := params.Validate(); err != nil {
		c <- models.Result[*models.RunReport]{Err: err}
		return models.NewFuture(c, cancel)
	}
	if s.manager == nil || s.manager.IsShuttingDown() {
		c <- models.Result[*models.RunReport]{Err: srvErrors.NewManagerUnavailableError()}
		return models.NewFuture(c, cancel)
	}
	if !s.inflight.TryAcquire(1) {
		s.log.Debugw("rejecting run, too many in flight", "max", MaxInflightRuns(s.manager.Config()))
		c <- models.Result[*models.RunReport]{Err: srvErrors.NewManagerUnavailableError()}
		return models.NewFuture(c, cancel)
	}

	var once sync.Once
	resolve := func(result models.Result[*models.RunReport]) {
		once.Do(func() {
			c <- result
			s.inflight.Release(1)
		})
	}
	unavailable := models.Result[*models.RunReport]{Err: srvErrors.NewManagerUnavailableError()}

	// a job still queued at shutdown never runs
	var claimed atomic.Bool
	unwatch := context.AfterFunc(s.manager.Context(), func() {
		if claimed.CompareAndSwap(false, true) {
			resolve(unavailable)
		}
	})

	m := s.manager
	m.Schedule(fibers.PriorityLow, func(jobCtx context.Context) {
		if !claimed.CompareAndSwap(false, true) {
			return
		}
		unwatch()
		// runs when the fiber is abandoned at shutdown while the frame waits
		defer resolve(unavailable)

		runCtx, cancelRun := context.WithCancel(jobCtx)
		defer cancelRun()
		unregister := context.AfterFunc(ctx, cancelRun)
		defer unregister()

		report := newWorkload(m, params).run(runCtx)
		if err := s.save(context.Background(), report); err != nil {
			resolve(models.Result[*models.RunReport]{Err: err})
			return
		}
		resolve(models.Result[*models.RunReport]{Data: report})
	}, nil)

	return models.NewFuture(c, cancel)
}

// Stats returns the live counters of the long-lived manager.
func (s *WorkloadService) Stats() (fibers.Stats, error) {
	if s.manager == nil {
		return fibers.Stats{}, srvErrors.NewManagerUnavailableError()
	}
	return s.manager.Stats(), nil
}

func (s *WorkloadService) GetRun(ctx context.Context, id string) (*models.RunReport, error) {
	return s.store.Runs().Get(ctx, id)
}

func (s *WorkloadService) ListRuns(ctx context.Context, params RunListParams) (*RunListResult, error) {
	filters := []store.ListOption{
		store.ByMinJobs(params.MinJobs),
		store.ByStatus(params.Statuses...),
	}

	opts := append([]store.ListOption{}, filters...)
	opts = append(opts, store.WithDefaultSort())
	if params.Limit > 0 {
		opts = append(opts, store.WithLimit(params.Limit))
	}
	if params.Offset > 0 {
		opts = append(opts, store.WithOffset(params.Offset))
	}

	runs, err := s.store.Runs().List(ctx, opts...)
	if err != nil {
		return nil, err
	}

	total, err := s.store.Runs().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	return &RunListResult{Runs: runs, Total: total}, nil
}

func (s *WorkloadService) save(ctx context.Context, report *models.RunReport) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Runs().Save(context.WithoutCancel(ctx), report); err != nil {
		return fmt.Errorf("failed to save run %s: %w", report.ID, err)
	}
	s.log.Debugw("run saved", "id", report.ID, "status", report.Status, "frames", report.FramesRun)
	return nil
}

// workload is one run of the synthetic frame loop. Every job it schedules
// is counted in jobs so concurrent runs on a shared manager do not mix.
type workload struct {
	m      *fibers.Manager
	params WorkloadParams

	jobs    atomic.Uint64
	minFree atomic.Int64
	sink    atomic.Uint64
}

func newWorkload(m *fibers.Manager, params WorkloadParams) *workload {
	w := &workload{m: m, params: params}
	w.minFree.Store(int64(m.Config().FiberPoolSize))
	return w
}

func (w *workload) run(ctx context.Context) *models.RunReport {
	before := w.m.Stats()
	report := &models.RunReport{
		ID:            uuid.NewString(),
		ManagerID:     before.ID,
		Status:        models.RunStatusCompleted,
		StartedAt:     time.Now().UTC(),
		Frames:        w.params.Frames,
		Substeps:      w.params.Substeps,
		AssetChain:    w.params.AssetChain,
		Threads:       before.Threads,
		FiberPoolSize: before.FiberPoolSize,
	}

	start := time.Now()
	for frame := range w.params.Frames {
		if ctx.Err() != nil {
			report.Status = models.RunStatusCanceled
			break
		}
		w.frame(ctx, frame)
		report.FramesRun++
	}
	report.Duration = time.Since(start)

	after := w.m.Stats()
	report.JobsExecuted = w.jobs.Load()
	report.Switches = after.Switches - before.Switches
	report.ResumedWaiters = after.ResumedWaiters - before.ResumedWaiters
	report.MinFreeFibers = int(w.minFree.Load())

	zap.S().Named("workload_service").Infow("workload run finished",
		"id", report.ID, "status", report.Status, "frames", report.FramesRun,
		"jobs", report.JobsExecuted, "duration", report.Duration)
	return report
}

// frame schedules one engine frame: render submission and physics substeps
// joined together, then a strictly ordered asset chain, then a script update.
func (w *workload) frame(ctx context.Context, index int) {
	sim := fibers.NewList(w.m, fibers.PriorityNormal)
	sim.AddWithPriority(fibers.PriorityHigh, w.job(uint64(index)))
	for step := range w.params.Substeps {
		sim.Add(w.job(uint64(index*w.params.Substeps + step)))
	}
	sim.Wait(ctx, 0)

	if w.params.AssetChain > 0 {
		assets := fibers.NewQueue(w.m, fibers.PriorityLow)
		for step := range w.params.AssetChain {
			assets.Add(w.job(uint64(step)))
		}
		assets.Execute(ctx)
	}

	w.m.WaitForSingle(ctx, fibers.PriorityNormal, w.job(uint64(index)))
}

func (w *workload) job(seed uint64) fibers.JobFunc {
	return func(context.Context) {
		w.sink.Add(spin(seed, w.params.WorkUnits))
		w.sampleFreeFibers()
		w.jobs.Add(1)
	}
}

func (w *workload) sampleFreeFibers() {
	free := int64(w.m.Stats().FreeFibers)
	for {
		cur := w.minFree.Load()
		if free >= cur || w.minFree.CompareAndSwap(cur, free) {
			return
		}
	}
}

// spin burns units rounds of xorshift so jobs carry measurable work.
func spin(seed uint64, units int) uint64 {
	x := seed | 1
	for range units {
		x ^= x << 13
		x ^= x >> 7
		x ^= x << 17
	}
	return x
}
