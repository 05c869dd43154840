package tracing_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/sramsim/mem/sram/sramtest"
	"github.com/sarchlab/sramsim/tracing"
)

var _ = Describe("WaveformTracer", func() {
	It("should record one row per edge", func() {
		mockCtrl := gomock.NewController(GinkgoT())
		defer mockCtrl.Finish()

		recorder := NewMockDataRecorder(mockCtrl)
		recorder.EXPECT().CreateTable(tracing.WaveformTableName, tracing.WaveformEntry{})

		var rows []tracing.WaveformEntry
		recorder.EXPECT().
			InsertData(tracing.WaveformTableName, gomock.Any()).
			Do(func(_ string, entry any) {
				rows = append(rows, entry.(tracing.WaveformEntry))
			}).
			Times(4)

		bench := sramtest.New()
		bench.DUT.Poke(0x3A7, 0x4)
		bench.DUT.AcceptHook(tracing.NewWaveformTracer(recorder))

		data, err := bench.Read(0x3A7)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal(uint8(0x4)))

		Expect(rows[0].Phase).To(Equal("PRECHARGE"))
		Expect(rows[0].Precharge).To(BeTrue())
		Expect(rows[0].Location).To(Equal("SRAM"))
		Expect(rows[1].State).To(Equal(uint8(2)))
		Expect(rows[1].RowSelect).To(Equal("0x0400000000000000"))
		Expect(rows[2].Ready).To(BeTrue())
		Expect(rows[2].DataOut).To(Equal(uint8(0x4)))
		Expect(rows[2].ColSelect).To(Equal("0x0080"))
		Expect(rows[3].Phase).To(Equal("IDLE"))
		Expect(rows[3].Enable).To(BeFalse())
		Expect(rows[3].Addr).To(Equal(uint16(0x3A7)))
	})
})
