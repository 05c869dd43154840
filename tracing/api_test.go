package tracing_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/sramsim/sim/hooking"
	"github.com/sarchlab/sramsim/tracing"
)

type testDomain struct {
	*hooking.HookableBase
	name string
}

func (d *testDomain) Name() string {
	return d.name
}

var _ = Describe("Api", func() {
	var (
		domain *testDomain
		seen   []hooking.HookCtx
	)

	BeforeEach(func() {
		seen = nil
		domain = &testDomain{
			HookableBase: hooking.NewHookableBase(),
			name:         "SRAM",
		}
		domain.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
			seen = append(seen, ctx)
		}))
	})

	It("should notify start, step and end", func() {
		tracing.StartTask("1", "", domain, "sram", "write", nil)
		tracing.AddTaskStep("1", domain, "SENSE")
		tracing.EndTask("1", domain)

		Expect(seen).To(HaveLen(3))
		Expect(seen[0].Pos).To(BeIdenticalTo(tracing.HookPosTaskStart))
		Expect(seen[0].Item.(tracing.Task).Where).To(Equal("SRAM"))
		Expect(seen[1].Item.(tracing.Task).Steps[0].What).To(Equal("SENSE"))
		Expect(seen[2].Pos).To(BeIdenticalTo(tracing.HookPosTaskEnd))
	})

	It("should stay quiet without hooks", func() {
		quiet := &testDomain{HookableBase: hooking.NewHookableBase()}

		Expect(func() {
			tracing.StartTask("", "", quiet, "", "", nil)
		}).NotTo(Panic())
	})

	It("should panic if ID is not given", func() {
		Expect(func() {
			tracing.StartTask("", "123", domain, "kind", "what", nil)
		}).Should(Panic())
	})

	It("should panic if domain's name is empty", func() {
		domain.name = ""
		Expect(func() {
			tracing.StartTask("id", "123", domain, "kind", "what", nil)
		}).Should(Panic())
	})

	It("should panic if kind is empty", func() {
		Expect(func() {
			tracing.StartTask("id", "123", domain, "", "what", nil)
		}).Should(Panic())
	})

	It("should panic if what is empty", func() {
		Expect(func() {
			tracing.StartTask("id", "123", domain, "kind", "", nil)
		}).Should(Panic())
	})
})
