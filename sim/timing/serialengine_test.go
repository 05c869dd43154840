package timing

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/sramsim/sim/hooking"
)

var _ = Describe("SerialEngine", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *SerialEngine
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewSerialEngine()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	makeEvent := func(
		t VTimeInCycle,
		handler Handler,
		secondary bool,
	) *MockEvent {
		evt := NewMockEvent(mockCtrl)
		evt.EXPECT().Time().Return(t).AnyTimes()
		evt.EXPECT().Handler().Return(handler).AnyTimes()
		evt.EXPECT().IsSecondary().Return(secondary).AnyTimes()

		return evt
	}

	It("should schedule events", func() {
		handler1 := NewMockHandler(mockCtrl)
		handler2 := NewMockHandler(mockCtrl)
		evt1 := makeEvent(4, handler1, false)
		evt2 := makeEvent(2, handler2, false)
		evt3 := makeEvent(3, handler1, false)
		evt4 := makeEvent(5, handler1, false)

		handleEvt2 := handler2.EXPECT().Handle(evt2).Do(func(e Event) {
			engine.Schedule(evt3)
			engine.Schedule(evt4)
		})
		handleEvt3 := handler1.EXPECT().Handle(evt3).After(handleEvt2)
		handleEvt1 := handler1.EXPECT().Handle(evt1).After(handleEvt3)
		handler1.EXPECT().Handle(evt4).After(handleEvt1)

		engine.Schedule(evt1)
		engine.Schedule(evt2)

		Expect(engine.Run()).To(Succeed())
		Expect(engine.CurrentTime()).To(Equal(VTimeInCycle(5)))
	})

	It("should consider secondary events", func() {
		handler1 := NewMockHandler(mockCtrl)
		handler2 := NewMockHandler(mockCtrl)
		handler3 := NewMockHandler(mockCtrl)
		evt1 := makeEvent(2, handler1, true)
		evt2 := makeEvent(2, handler2, false)
		evt3 := makeEvent(2, handler3, false)

		handleEvt2 := handler2.EXPECT().Handle(evt2)
		handleEvt3 := handler3.EXPECT().Handle(evt3)
		handler1.EXPECT().Handle(evt1).After(handleEvt2).After(handleEvt3)

		engine.Schedule(evt1)
		engine.Schedule(evt2)
		engine.Schedule(evt3)

		Expect(engine.Run()).To(Succeed())
	})

	It("should keep insertion order for events at the same cycle", func() {
		handler := NewMockHandler(mockCtrl)
		evt1 := makeEvent(7, handler, false)
		evt2 := makeEvent(7, handler, false)
		evt3 := makeEvent(7, handler, false)

		first := handler.EXPECT().Handle(evt1)
		second := handler.EXPECT().Handle(evt2).After(first)
		handler.EXPECT().Handle(evt3).After(second)

		engine.Schedule(evt1)
		engine.Schedule(evt2)
		engine.Schedule(evt3)

		Expect(engine.Run()).To(Succeed())
	})

	It("should only run events up to the given cycle", func() {
		handler := NewMockHandler(mockCtrl)
		early := makeEvent(5, handler, false)
		late := makeEvent(12, handler, false)

		handler.EXPECT().Handle(early)

		engine.Schedule(early)
		engine.Schedule(late)

		Expect(engine.RunUntil(10)).To(Succeed())
		Expect(engine.CurrentTime()).To(Equal(VTimeInCycle(10)))

		handler.EXPECT().Handle(late)
		Expect(engine.Run()).To(Succeed())
		Expect(engine.CurrentTime()).To(Equal(VTimeInCycle(12)))
	})

	It("should advance time even if no event is scheduled", func() {
		Expect(engine.RunUntil(42)).To(Succeed())
		Expect(engine.CurrentTime()).To(Equal(VTimeInCycle(42)))
	})

	It("should panic when running backward", func() {
		Expect(engine.RunUntil(3)).To(Succeed())
		Expect(func() { _ = engine.RunUntil(2) }).To(Panic())
	})

	It("should panic when scheduling an event in the past", func() {
		handler := NewMockHandler(mockCtrl)
		Expect(engine.RunUntil(10)).To(Succeed())

		evt := makeEvent(9, handler, false)
		Expect(func() { engine.Schedule(evt) }).To(Panic())
	})

	It("should return the error of a handler", func() {
		handler := NewMockHandler(mockCtrl)
		evt := makeEvent(1, handler, false)
		handler.EXPECT().Handle(evt).Return(errors.New("boom"))

		engine.Schedule(evt)

		Expect(engine.Run()).To(MatchError("boom"))
	})

	It("should invoke hooks before and after each event", func() {
		handler := NewMockHandler(mockCtrl)
		evt := makeEvent(1, handler, false)
		handler.EXPECT().Handle(evt)

		positions := []*hooking.HookPos{}
		engine.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
			Expect(ctx.Item).To(BeIdenticalTo(evt))
			positions = append(positions, ctx.Pos)
		}))

		engine.Schedule(evt)
		Expect(engine.Run()).To(Succeed())

		Expect(positions).To(Equal([]*hooking.HookPos{
			HookPosBeforeEvent, HookPosAfterEvent,
		}))
	})

	It("should pause and continue", func() {
		engine.Pause()
		Expect(engine.IsPaused()).To(BeTrue())

		engine.Pause()
		Expect(engine.IsPaused()).To(BeTrue())

		engine.Continue()
		Expect(engine.IsPaused()).To(BeFalse())
	})
})
