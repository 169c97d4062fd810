package services_test

import (
	"context"
	"database/sql"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/era-engine/fibers/internal/models"
	"github.com/era-engine/fibers/internal/services"
	"github.com/era-engine/fibers/internal/store"
	"github.com/era-engine/fibers/internal/store/migrations"
	srvErrors "github.com/era-engine/fibers/pkg/errors"
	"github.com/era-engine/fibers/pkg/fibers"
)

func schedulerConfig() fibers.Config {
	cfg := fibers.DefaultConfig()
	cfg.NumThreads = 2
	cfg.FiberPoolSize = 16
	cfg.IdleSleepMax = 200 * time.Microsecond
	return cfg
}

var _ = Describe("WorkloadService", func() {
	var (
		ctx    context.Context
		db     *sql.DB
		st     *store.Store
		srv    *services.WorkloadService
		params services.WorkloadParams
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())
		Expect(migrations.Run(ctx, db)).To(Succeed())

		st = store.NewStore(db)
		srv = services.NewWorkloadService(schedulerConfig(), st)
		params = services.WorkloadParams{Frames: 5, Substeps: 4, AssetChain: 3, WorkUnits: 100}
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Context("Run", func() {
		// Given a workload of 5 frames
		// When it runs on a dedicated manager
		// Then every frame's jobs are executed and the report is saved
		It("should run every frame and save the report", func() {
			// Act
			report, err := srv.Run(ctx, params)

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Status).To(Equal(models.RunStatusCompleted))
			Expect(report.FramesRun).To(Equal(5))
			// render + substeps + asset chain + script, per frame
			Expect(report.JobsExecuted).To(Equal(uint64(5 * (1 + 4 + 3 + 1))))
			Expect(report.Threads).To(Equal(3))
			Expect(report.FiberPoolSize).To(Equal(16))
			Expect(report.MinFreeFibers).To(BeNumerically("<", 16))
			Expect(report.Switches).To(BeNumerically(">", 0))

			saved, err := srv.GetRun(ctx, report.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(saved.JobsExecuted).To(Equal(report.JobsExecuted))
		})

		It("should run a workload without substeps or assets", func() {
			report, err := srv.Run(ctx, services.WorkloadParams{Frames: 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(report.JobsExecuted).To(Equal(uint64(2 * 2)))
		})

		It("should reject invalid parameters", func() {
			_, err := srv.Run(ctx, services.WorkloadParams{Frames: 0})
			Expect(srvErrors.IsConfigurationError(err)).To(BeTrue())

			_, err = srv.Run(ctx, services.WorkloadParams{Frames: 1, Substeps: -1})
			Expect(srvErrors.IsConfigurationError(err)).To(BeTrue())
		})

		It("should not start when the context is already canceled", func() {
			canceled, cancel := context.WithCancel(ctx)
			cancel()

			_, err := srv.Run(canceled, params)
			Expect(err).To(MatchError(context.Canceled))
		})

		It("should reject an invalid scheduler configuration", func() {
			cfg := schedulerConfig()
			cfg.FiberPoolSize = 1

			_, err := services.NewWorkloadService(cfg, st).Run(ctx, params)
			Expect(srvErrors.IsConfigurationError(err)).To(BeTrue())
		})
	})

	Context("ListRuns", func() {
		It("should page through saved runs", func() {
			for range 3 {
				_, err := srv.Run(ctx, services.WorkloadParams{Frames: 1, Substeps: 1})
				Expect(err).NotTo(HaveOccurred())
			}

			result, err := srv.ListRuns(ctx, services.RunListParams{Limit: 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Runs).To(HaveLen(2))
			Expect(result.Total).To(Equal(3))

			result, err = srv.ListRuns(ctx, services.RunListParams{MinJobs: 1000})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Runs).To(BeEmpty())
			Expect(result.Total).To(BeZero())
		})

		It("should return not found for an unknown run", func() {
			_, err := srv.GetRun(ctx, "unknown")
			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
		})
	})

	Context("Submit", func() {
		It("should fail without a serving manager", func() {
			future := srv.Submit(params)

			var result models.Result[*models.RunReport]
			Eventually(future.C()).Should(Receive(&result))
			Expect(srvErrors.IsManagerUnavailableError(result.Err)).To(BeTrue())

			_, err := srv.Stats()
			Expect(srvErrors.IsManagerUnavailableError(err)).To(BeTrue())
		})

		// Given a long-lived manager serving the service
		// When a workload is submitted
		// Then the future resolves with the report and the manager keeps running
		It("should run on the serving manager", func() {
			// Arrange
			cfg := schedulerConfig()
			cfg.ShutdownAfterMain = false
			m, err := fibers.NewManager(cfg)
			Expect(err).NotTo(HaveOccurred())

			done := make(chan error, 1)
			go func() {
				done <- m.Run(func(context.Context, *fibers.Manager, any) {}, nil)
			}()
			defer func() {
				m.Shutdown()
				Eventually(done, 5*time.Second).Should(Receive(BeNil()))
			}()
			srv.WithManager(m)

			// Act
			future := srv.Submit(params)

			// Assert
			var result models.Result[*models.RunReport]
			Eventually(future.C(), 10*time.Second).Should(Receive(&result))
			Expect(result.Err).NotTo(HaveOccurred())
			Expect(result.Data.FramesRun).To(Equal(5))
			Expect(result.Data.ManagerID).To(Equal(m.ID().String()))

			stats, err := srv.Stats()
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.ShuttingDown).To(BeFalse())
			Expect(stats.JobsExecuted).To(BeNumerically(">=", result.Data.JobsExecuted))
		})

		It("should stop a submitted run after the current frame", func() {
			cfg := schedulerConfig()
			cfg.ShutdownAfterMain = false
			m, err := fibers.NewManager(cfg)
			Expect(err).NotTo(HaveOccurred())

			done := make(chan error, 1)
			go func() {
				done <- m.Run(func(context.Context, *fibers.Manager, any) {}, nil)
			}()
			defer func() {
				m.Shutdown()
				Eventually(done, 5*time.Second).Should(Receive(BeNil()))
			}()
			srv.WithManager(m)

			future := srv.Submit(services.WorkloadParams{Frames: 1_000_000, Substeps: 2, WorkUnits: 10})
			time.Sleep(20 * time.Millisecond)
			future.Stop()

			var result models.Result[*models.RunReport]
			Eventually(future.C(), 10*time.Second).Should(Receive(&result))
			Expect(result.Err).NotTo(HaveOccurred())
			Expect(result.Data.Status).To(Equal(models.RunStatusCanceled))
			Expect(result.Data.FramesRun).To(BeNumerically("<", 1_000_000))
		})

		// Given a serving manager whose fiber pool fits a bounded number of runs
		// When more runs are submitted than it can hold
		// Then the extra runs are rejected and the accepted ones keep running
		It("should reject runs beyond what the fiber pool can hold", func() {
			// Arrange
			cfg := schedulerConfig()
			cfg.ShutdownAfterMain = false
			m, err := fibers.NewManager(cfg)
			Expect(err).NotTo(HaveOccurred())

			done := make(chan error, 1)
			go func() {
				done <- m.Run(func(context.Context, *fibers.Manager, any) {}, nil)
			}()
			defer func() {
				m.Shutdown()
				Eventually(done, 5*time.Second).Should(Receive(BeNil()))
			}()
			srv.WithManager(m)

			limit := services.MaxInflightRuns(cfg)
			Expect(limit).To(Equal(16 - 3 - 1))

			// Act
			long := services.WorkloadParams{Frames: 1_000_000, Substeps: 2, AssetChain: 1, WorkUnits: 10}
			var accepted []*models.Future[models.Result[*models.RunReport]]
			rejected := 0
			for range limit + 8 {
				future := srv.Submit(long)
				select {
				case result := <-future.C():
					Expect(srvErrors.IsManagerUnavailableError(result.Err)).To(BeTrue())
					rejected++
				default:
					accepted = append(accepted, future)
				}
			}

			// Assert
			Expect(rejected).To(Equal(8))
			Expect(accepted).To(HaveLen(limit))

			// every accepted run parks a fiber at most, the pool never runs dry
			time.Sleep(50 * time.Millisecond)
			Expect(m.Stats().FreeFibers).To(BeNumerically(">=", 1))

			for _, future := range accepted {
				future.Stop()
			}
			for _, future := range accepted {
				var result models.Result[*models.RunReport]
				Eventually(future.C(), 10*time.Second).Should(Receive(&result))
				Expect(result.Err).NotTo(HaveOccurred())
				Expect(result.Data.Status).To(Equal(models.RunStatusCanceled))
			}

			// finished runs free their slots
			future := srv.Submit(services.WorkloadParams{Frames: 1})
			var result models.Result[*models.RunReport]
			Eventually(future.C(), 10*time.Second).Should(Receive(&result))
			Expect(result.Err).NotTo(HaveOccurred())
		})

		It("should resolve a run still queued when the manager shuts down", func() {
			// Arrange: the manager never runs, so the job stays queued
			cfg := schedulerConfig()
			cfg.ShutdownAfterMain = false
			m, err := fibers.NewManager(cfg)
			Expect(err).NotTo(HaveOccurred())
			srv.WithManager(m)

			future := srv.Submit(params)
			Consistently(future.C(), 50*time.Millisecond).ShouldNot(Receive())

			// Act
			m.Shutdown()

			// Assert
			var result models.Result[*models.RunReport]
			Eventually(future.C(), time.Second).Should(Receive(&result))
			Expect(srvErrors.IsManagerUnavailableError(result.Err)).To(BeTrue())
		})

		It("should resolve a running run when the manager shuts down", func() {
			cfg := schedulerConfig()
			cfg.ShutdownAfterMain = false
			m, err := fibers.NewManager(cfg)
			Expect(err).NotTo(HaveOccurred())

			done := make(chan error, 1)
			go func() {
				done <- m.Run(func(context.Context, *fibers.Manager, any) {}, nil)
			}()
			srv.WithManager(m)

			future := srv.Submit(services.WorkloadParams{Frames: 1_000_000, Substeps: 4, AssetChain: 2, WorkUnits: 10})
			time.Sleep(20 * time.Millisecond)

			m.Shutdown()
			Eventually(done, 5*time.Second).Should(Receive(BeNil()))

			// either the frame finished and the run was canceled, or its fiber was abandoned
			var result models.Result[*models.RunReport]
			Eventually(future.C(), 5*time.Second).Should(Receive(&result))
			if result.Err != nil {
				Expect(srvErrors.IsManagerUnavailableError(result.Err)).To(BeTrue())
			} else {
				Expect(result.Data.Status).To(Equal(models.RunStatusCanceled))
			}
		})
	})
})
