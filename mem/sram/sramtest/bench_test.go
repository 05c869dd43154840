package sramtest_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/sramsim/mem/sram"
	"github.com/sarchlab/sramsim/mem/sram/decoder"
	"github.com/sarchlab/sramsim/mem/sram/fsm"
	"github.com/sarchlab/sramsim/mem/sram/sramtest"
)

var _ = Describe("Bench", func() {
	var b *sramtest.Bench

	BeforeEach(func() {
		b = sramtest.New()
		Expect(b.Reset(5)).To(Succeed())
	})

	It("should reset to idle", func() {
		Expect(b.Now()).To(BeNumerically("==", 6))
		Expect(b.DUT.Register().Phase).To(Equal(fsm.Idle))
		Expect(b.DUT.Ready()).To(BeFalse())
	})

	It("should write and read back", func() {
		Expect(b.Write(0x000, 0xA)).To(Succeed())
		Expect(b.DUT.Peek(0x000)).To(Equal(uint8(0xA)))

		Expect(b.Expect(0x000, 0xA)).To(Succeed())
	})

	It("should take four cycles per isolated access", func() {
		start := b.Now()

		Expect(b.Write(0x123, 0x7)).To(Succeed())

		Expect(b.Now() - start).To(BeNumerically("==", 4))
		Expect(b.Pins().Enable).To(BeFalse())
		Expect(b.Pins().Addr).To(Equal(decoder.Address(0x123)))
	})

	It("should keep a write driven directly on the macro when idling", func() {
		b.DUT.SetPins(sram.WritePins(0x0F0, 0xB))
		Expect(b.Cycles(sramtest.AccessCycles)).To(Succeed())

		Expect(b.Idle(1)).To(Succeed())

		Expect(b.DUT.Peek(0x0F0)).To(Equal(uint8(0xB)))
		Expect(b.Pins().Addr).To(Equal(decoder.Address(0x0F0)))
		Expect(b.Pins().DataIn).To(Equal(uint8(0xB)))
		Expect(b.Pins().Enable).To(BeFalse())
	})

	It("should carry data_in driven on the macro into a read", func() {
		b.DUT.SetPins(sram.WritePins(0x0F1, 0x6))
		Expect(b.Cycles(sramtest.AccessCycles)).To(Succeed())

		_, err := b.Issue(sram.ReadPins(0x0F1))
		Expect(err).NotTo(HaveOccurred())
		Expect(b.Idle(1)).To(Succeed())

		Expect(b.DUT.Peek(0x0F1)).To(Equal(uint8(0x6)))
	})

	It("should report a mismatch", func() {
		Expect(b.Write(0x010, 0x3)).To(Succeed())

		err := b.Expect(0x010, 0x4)

		Expect(err).To(MatchError(sramtest.ErrMismatch))
	})

	It("should never get ready while held in reset", func() {
		b.SetPins(sram.Pins{Enable: true, ResetN: false})

		Expect(b.Cycles(sramtest.AccessCycles)).To(Succeed())

		Expect(b.DUT.Ready()).To(BeFalse())
		Expect(b.DUT.Register().Phase).To(Equal(fsm.Idle))
	})

	It("should not advance time for zero cycles", func() {
		now := b.Now()

		Expect(b.Cycles(0)).To(Succeed())

		Expect(b.Now()).To(Equal(now))
	})
})
