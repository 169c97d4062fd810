package fibers_test

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	srvErrors "github.com/era-engine/fibers/pkg/errors"
	"github.com/era-engine/fibers/pkg/fibers"
)

var _ = Describe("Queue", func() {
	It("should panic on a nil job", func() {
		m := newTestManager(0, 4)
		q := fibers.NewQueue(m, fibers.PriorityNormal)
		Expect(func() { q.Add(nil) }).To(PanicWith(BeAssignableToTypeOf(&srvErrors.MisuseError{})))
		Expect(q.Len()).To(BeZero())
	})

	It("should report false when stepping an empty queue", func() {
		m := newTestManager(0, 4)

		var stepped bool
		Expect(m.Run(func(ctx context.Context, m *fibers.Manager, _ any) {
			stepped = fibers.NewQueue(m, fibers.PriorityNormal).Step(ctx)
		}, nil)).To(Succeed())

		Expect(stepped).To(BeFalse())
	})

	// Given jobs of varying duration added to a Queue
	// When the queue is executed on several worker threads
	// Then every job starts only after its predecessor finished
	It("should run jobs strictly in insertion order", func() {
		m := newTestManager(3, 16)

		var mu sync.Mutex
		var events []string
		log := func(e string) {
			mu.Lock()
			events = append(events, e)
			mu.Unlock()
		}

		Expect(m.Run(func(ctx context.Context, m *fibers.Manager, _ any) {
			q := fibers.NewQueue(m, fibers.PriorityNormal)
			for i, d := range []time.Duration{5, 1, 3, 0, 2} {
				name := string(rune('a' + i))
				q.Add(func(context.Context) {
					log(name + "+")
					time.Sleep(d * time.Millisecond)
					log(name + "-")
				})
			}
			q.AddWithPriority(fibers.PriorityLow, func(context.Context) {
				log("f+")
				log("f-")
			})
			q.Execute(ctx)
		}, nil)).To(Succeed())

		Expect(events).To(Equal([]string{
			"a+", "a-", "b+", "b-", "c+", "c-", "d+", "d-", "e+", "e-", "f+", "f-",
		}))
	})

	It("should hand every borrowed fiber back to the pool", func() {
		m := newTestManager(2, 8)

		var before, after int
		Expect(m.Run(func(ctx context.Context, m *fibers.Manager, _ any) {
			q := fibers.NewQueue(m, fibers.PriorityHigh)
			for range 10 {
				q.Add(func(context.Context) {})
			}

			before = m.Stats().FreeFibers
			q.Execute(ctx)
			after = m.Stats().FreeFibers
		}, nil)).To(Succeed())

		Expect(after).To(Equal(before))
	})
})

var _ = Describe("List", func() {
	It("should join on a partial target", func() {
		m := newTestManager(2, 8)

		var pendingAtWait uint32
		Expect(m.Run(func(ctx context.Context, m *fibers.Manager, _ any) {
			list := fibers.NewList(m, fibers.PriorityNormal)
			release := fibers.NewCounter()
			release.Increment()

			list.Add(func(context.Context) {})
			list.Add(func(context.Context) {})
			list.AddWithPriority(fibers.PriorityLow, func(ctx context.Context) {
				m.WaitForCounter(ctx, release, 0)
			})

			list.Wait(ctx, 1)
			pendingAtWait = list.Pending()

			release.Decrement()
			list.Wait(ctx, 0)
		}, nil)).To(Succeed())

		Expect(pendingAtWait).To(Equal(uint32(1)))
	})

	It("should expose its counter", func() {
		m := newTestManager(0, 4)
		list := fibers.NewList(m, fibers.PriorityLow)
		list.Add(func(context.Context) {})

		Expect(list.Counter().Value()).To(Equal(uint32(1)))
		Expect(list.Pending()).To(Equal(uint32(1)))
		Expect(m.Stats().QueuedLow).To(Equal(1))
	})
})
