package tracing_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/sramsim/sim/timing"
	"github.com/sarchlab/sramsim/tracing"
)

var _ = Describe("BusyTimeTracer", func() {
	var (
		mockCtrl   *gomock.Controller
		timeTeller *MockTimeTeller
		t          *tracing.BusyTimeTracer
	)

	at := func(c timing.VTimeInCycle) {
		timeTeller.EXPECT().CurrentTime().Return(c)
	}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		timeTeller = NewMockTimeTeller(mockCtrl)

		t = tracing.NewBusyTimeTracer(timeTeller, nil)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should track busy time, one task", func() {
		at(10)
		t.StartTask(tracing.Task{ID: "1"})
		at(13)
		t.EndTask(tracing.Task{ID: "1"})

		Expect(t.BusyTime()).To(Equal(timing.VTimeInCycle(3)))
	})

	It("should track busy time, two tasks adjacent", func() {
		at(10)
		t.StartTask(tracing.Task{ID: "1"})
		at(13)
		t.EndTask(tracing.Task{ID: "1"})
		at(13)
		t.StartTask(tracing.Task{ID: "2"})
		at(16)
		t.EndTask(tracing.Task{ID: "2"})

		Expect(t.BusyTime()).To(Equal(timing.VTimeInCycle(6)))
	})

	It("should count overlapping tasks once", func() {
		at(10)
		t.StartTask(tracing.Task{ID: "1"})
		at(11)
		t.StartTask(tracing.Task{ID: "2"})
		at(13)
		t.EndTask(tracing.Task{ID: "1"})

		Expect(t.BusyTime()).To(BeZero())

		at(15)
		t.EndTask(tracing.Task{ID: "2"})

		Expect(t.BusyTime()).To(Equal(timing.VTimeInCycle(5)))
	})

	It("should skip filtered tasks", func() {
		t = tracing.NewBusyTimeTracer(timeTeller, func(task tracing.Task) bool {
			return task.What == "write"
		})

		t.StartTask(tracing.Task{ID: "1", What: "read"})
		at(13)
		t.EndTask(tracing.Task{ID: "1"})

		Expect(t.BusyTime()).To(BeZero())
	})

	It("should terminate all the tasks", func() {
		at(1)
		t.StartTask(tracing.Task{ID: "1"})
		at(4)
		t.StartTask(tracing.Task{ID: "2"})
		at(5)
		t.EndTask(tracing.Task{ID: "2"})
		at(8)
		t.StartTask(tracing.Task{ID: "3"})

		t.TerminateAllTasks(10)

		Expect(t.BusyTime()).To(Equal(timing.VTimeInCycle(9)))
	})
})
