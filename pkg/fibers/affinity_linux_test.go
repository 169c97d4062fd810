//go:build linux

package fibers

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/sys/unix"
)

var _ = Describe("Thread pinning", func() {
	type sample struct {
		fiber  int
		tid    int
		core   int
		cpus   int
		onCore bool
		err    error
	}

	// Given a manager with PinThreads enabled
	// When jobs run on its worker threads
	// Then each job runs on an OS thread restricted to the core of its worker
	It("should run every job on the core of its worker thread", func() {
		if len(allowedCores()) == 0 {
			Skip("cpu affinity not available")
		}

		// Arrange
		cfg := DefaultConfig()
		cfg.NumThreads = 2
		cfg.FiberPoolSize = 8
		cfg.PinThreads = true
		cfg.IdleSleepMax = 200 * time.Microsecond
		m, err := NewManager(cfg)
		Expect(err).NotTo(HaveOccurred())

		var (
			mu      sync.Mutex
			samples []sample
		)

		// Act
		Expect(m.Run(func(ctx context.Context, m *Manager, _ any) {
			c := NewCounter()
			for range 50 {
				m.Schedule(PriorityNormal, func(ctx context.Context) {
					f := fiberFromContext(ctx)
					var set unix.CPUSet
					err := unix.SchedGetaffinity(0, &set)

					core := f.tls().Core()
					mu.Lock()
					samples = append(samples, sample{
						fiber:  f.Index(),
						tid:    unix.Gettid(),
						core:   core,
						cpus:   set.Count(),
						onCore: core >= 0 && set.IsSet(core),
						err:    err,
					})
					mu.Unlock()
					time.Sleep(100 * time.Microsecond)
				}, c)
			}
			m.WaitForCounter(ctx, c, 0)
		}, nil)).To(Succeed())

		// Assert
		threadIDs := map[int]bool{}
		for _, t := range m.threads {
			threadIDs[t.ID()] = true
		}

		Expect(samples).To(HaveLen(50))
		tidByFiber := map[int]int{}
		for _, s := range samples {
			Expect(s.err).NotTo(HaveOccurred())
			Expect(s.core).To(BeNumerically(">=", 0))
			Expect(s.cpus).To(Equal(1))
			Expect(s.onCore).To(BeTrue())
			// jobs run on the fiber's own OS thread, never on a worker's
			Expect(threadIDs).NotTo(HaveKey(s.tid))

			if tid, ok := tidByFiber[s.fiber]; ok {
				Expect(s.tid).To(Equal(tid))
			}
			tidByFiber[s.fiber] = s.tid
		}
	})

	It("should leave jobs unpinned by default", func() {
		m, err := NewManager(DefaultConfig())
		Expect(err).NotTo(HaveOccurred())

		core := 0
		Expect(m.Run(func(ctx context.Context, m *Manager, _ any) {
			core = fiberFromContext(ctx).tls().Core()
		}, nil)).To(Succeed())

		Expect(core).To(Equal(-1))
		for _, t := range m.threads {
			Expect(t.TLS().Pinned()).To(BeFalse())
		}
	})
})
