package handlers_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/era-engine/fibers/api/v1"
	"github.com/era-engine/fibers/internal/handlers"
	"github.com/era-engine/fibers/internal/models"
	"github.com/era-engine/fibers/internal/services"
	"github.com/era-engine/fibers/internal/store"
	"github.com/era-engine/fibers/internal/store/migrations"
	"github.com/era-engine/fibers/pkg/fibers"
)

var _ = Describe("Handlers", func() {
	var (
		ctx    context.Context
		db     *sql.DB
		st     *store.Store
		m      *fibers.Manager
		srv    *services.WorkloadService
		done   chan error
		router *gin.Engine
	)

	defaults := services.WorkloadParams{Frames: 3, Substeps: 2, AssetChain: 1, WorkUnits: 10}

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, path, nil)
		} else {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())
		Expect(migrations.Run(ctx, db)).To(Succeed())
		st = store.NewStore(db)

		cfg := fibers.DefaultConfig()
		cfg.NumThreads = 2
		cfg.FiberPoolSize = 16
		cfg.ShutdownAfterMain = false
		m, err = fibers.NewManager(cfg)
		Expect(err).NotTo(HaveOccurred())

		done = make(chan error, 1)
		go func() {
			done <- m.Run(func(context.Context, *fibers.Manager, any) {}, nil)
		}()

		srv = services.NewWorkloadService(cfg, st).WithManager(m)
		router = gin.New()
		router.GET("/health", handlers.Health)
		handlers.RegisterHandlers(router.Group("/api/v1"), handlers.New(srv, defaults))
	})

	AfterEach(func() {
		m.Shutdown()
		Eventually(done, 5*time.Second).Should(Receive(BeNil()))
		db.Close()
	})

	It("should answer health checks", func() {
		w := do(http.MethodGet, "/health", "")
		Expect(w.Code).To(Equal(http.StatusOK))
	})

	Context("GET /stats", func() {
		It("should return the serving manager counters", func() {
			w := do(http.MethodGet, "/api/v1/stats", "")
			Expect(w.Code).To(Equal(http.StatusOK))

			var stats v1.Stats
			Expect(json.Unmarshal(w.Body.Bytes(), &stats)).To(Succeed())
			Expect(stats.Id).To(Equal(m.ID().String()))
			Expect(stats.Threads).To(Equal(3))
			Expect(stats.FiberPoolSize).To(Equal(16))
			Expect(stats.ShuttingDown).To(BeFalse())
		})
	})

	Context("POST /runs", func() {
		// Given a serving manager
		// When a run is requested with an empty body
		// Then the configured defaults are used and the report is returned
		It("should run a workload with the defaults", func() {
			// Act
			w := do(http.MethodPost, "/api/v1/runs", "")

			// Assert
			Expect(w.Code).To(Equal(http.StatusCreated))
			var run v1.Run
			Expect(json.Unmarshal(w.Body.Bytes(), &run)).To(Succeed())
			Expect(run.Status).To(Equal(v1.RunStatusCompleted))
			Expect(run.FramesRun).To(Equal(3))
			Expect(run.JobsExecuted).To(Equal(uint64(3 * (1 + 2 + 1 + 1))))

			// the report is retrievable afterwards
			w = do(http.MethodGet, "/api/v1/runs/"+run.Id, "")
			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("should override defaults from the body", func() {
			w := do(http.MethodPost, "/api/v1/runs", `{"frames": 1, "substeps": 5}`)
			Expect(w.Code).To(Equal(http.StatusCreated))

			var run v1.Run
			Expect(json.Unmarshal(w.Body.Bytes(), &run)).To(Succeed())
			Expect(run.Frames).To(Equal(1))
			Expect(run.Substeps).To(Equal(5))
			Expect(run.AssetChain).To(Equal(1))
		})

		It("should reject invalid parameters", func() {
			w := do(http.MethodPost, "/api/v1/runs", `{"frames": 0}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))

			w = do(http.MethodPost, "/api/v1/runs", `{"frames": "many"}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		// Given a serving manager already holding as many runs as its fiber pool allows
		// When one more run is requested
		// Then it is rejected with 503 and the server keeps serving
		It("should answer 503 when too many runs are in flight", func() {
			// Arrange
			long := services.WorkloadParams{Frames: 1_000_000, Substeps: 2, WorkUnits: 10}
			var running []*models.Future[models.Result[*models.RunReport]]
			for range services.MaxInflightRuns(m.Config()) {
				running = append(running, srv.Submit(long))
			}
			defer func() {
				for _, future := range running {
					future.Stop()
					Eventually(future.C(), 10*time.Second).Should(Receive())
				}
			}()

			// Act
			w := do(http.MethodPost, "/api/v1/runs", "")

			// Assert
			Expect(w.Code).To(Equal(http.StatusServiceUnavailable))

			w = do(http.MethodGet, "/api/v1/stats", "")
			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("should answer 503 once the manager shuts down", func() {
			m.Shutdown()

			w := do(http.MethodPost, "/api/v1/runs", "")
			Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
		})
	})

	Context("GET /runs", func() {
		BeforeEach(func() {
			base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
			for i, jobs := range []uint64{10, 200, 3000} {
				Expect(st.Runs().Save(ctx, &models.RunReport{
					ID:           []string{"a", "b", "c"}[i],
					ManagerID:    "m",
					Status:       models.RunStatusCompleted,
					StartedAt:    base.Add(time.Duration(i) * time.Minute),
					Frames:       1,
					FramesRun:    1,
					JobsExecuted: jobs,
				})).To(Succeed())
			}
		})

		It("should list runs newest first", func() {
			w := do(http.MethodGet, "/api/v1/runs", "")
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp v1.RunListResponse
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Total).To(Equal(3))
			Expect(resp.PageCount).To(Equal(1))
			Expect(resp.Runs).To(HaveLen(3))
			Expect(resp.Runs[0].Id).To(Equal("c"))
		})

		It("should paginate and filter", func() {
			w := do(http.MethodGet, "/api/v1/runs?pageSize=1&page=2", "")
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp v1.RunListResponse
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Page).To(Equal(2))
			Expect(resp.PageCount).To(Equal(3))
			Expect(resp.Runs).To(HaveLen(1))
			Expect(resp.Runs[0].Id).To(Equal("b"))

			w = do(http.MethodGet, "/api/v1/runs?minJobs=100&status=completed", "")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Total).To(Equal(2))
		})

		It("should return 404 for an unknown run", func() {
			w := do(http.MethodGet, "/api/v1/runs/missing", "")
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})
})
