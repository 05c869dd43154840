package sram_test

import (
	"bytes"
	"log"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/sramsim/mem/sram"
	"github.com/sarchlab/sramsim/mem/sram/sramtest"
)

var _ = Describe("SignalLogger", func() {
	It("should log one line per edge", func() {
		var buf bytes.Buffer
		bench := sramtest.New()
		bench.DUT.AcceptHook(sram.NewSignalLogger(log.New(&buf, "", 0)))

		Expect(bench.Reset(1)).To(Succeed())
		buf.Reset()

		bench.DUT.Poke(0x001, 0x5)
		_, err := bench.Read(0x001)
		Expect(err).NotTo(HaveOccurred())

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		Expect(lines).To(HaveLen(4))
		Expect(lines[0]).To(ContainSubstring("PRECH | pre=1 row=0 rd=0 wr=0 rdy=0"))
		Expect(lines[1]).To(ContainSubstring("DEVLP | pre=0 row=1 rd=0 wr=0 rdy=0"))
		Expect(lines[2]).To(ContainSubstring("SENSE | pre=0 row=1 rd=1 wr=0 rdy=1 | dout=0x5"))
		Expect(lines[3]).To(ContainSubstring("IDLE  | pre=0 row=0 rd=0 wr=0 rdy=0"))
	})
})
