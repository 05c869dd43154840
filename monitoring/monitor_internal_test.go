package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/sramsim/mem/sram"
	"github.com/sarchlab/sramsim/mem/sram/sramtest"
)

var _ = Describe("Monitor", func() {
	var (
		m     *Monitor
		bench *sramtest.Bench
	)

	get := func(url string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, url, nil)
		m.routes().ServeHTTP(rec, req)

		return rec
	}

	BeforeEach(func() {
		bench = sramtest.New()
		Expect(bench.Reset(1)).To(Succeed())

		m = NewMonitor()
		m.RegisterEngine(bench.Engine)
		m.RegisterComponent(bench.DUT)
	})

	It("should report the current cycle", func() {
		rec := get("/api/now")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(Equal(`{"now":2}`))
	})

	It("should list components", func() {
		rec := get("/api/list_components")

		Expect(rec.Body.String()).To(Equal(`["SRAM"]`))
	})

	It("should report the nets of a macro in sense", func() {
		bench.DUT.Poke(0x012, 0x7)
		_, err := bench.Issue(sram.ReadPins(0x012))
		Expect(err).NotTo(HaveOccurred())

		rec := get("/api/sram/SRAM/signals")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var rsp signalsRsp
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.Phase).To(Equal("SENSE"))
		Expect(rsp.State).To(Equal(uint8(3)))
		Expect(rsp.Ready).To(BeTrue())
		Expect(rsp.ReadEnable).To(BeTrue())
		Expect(rsp.DataOut).To(Equal(uint8(0x7)))
		Expect(rsp.Addr).To(Equal(uint16(0x012)))
		Expect(rsp.ColSelect).To(Equal("0x0004"))
	})

	It("should read a word", func() {
		Expect(bench.Write(0x3FF, 0xE)).To(Succeed())

		rec := get("/api/sram/SRAM/word/0x3FF")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(Equal(`{"addr":1023,"data":14}`))
	})

	It("should reject a bad address", func() {
		rec := get("/api/sram/SRAM/word/1024")

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("should dump the array", func() {
		bench.DUT.Poke(0x01F, 0xA)
		bench.DUT.Poke(0x010, 0x5)

		rec := get("/api/sram/SRAM/dump")

		var rows []string
		Expect(json.Unmarshal(rec.Body.Bytes(), &rows)).To(Succeed())
		Expect(rows).To(HaveLen(64))
		Expect(rows[0]).To(Equal("0000000000000000"))
		Expect(rows[1]).To(Equal("A000000000000005"))
	})

	It("should return 404 for unknown components", func() {
		Expect(get("/api/sram/DRAM/signals").Code).To(Equal(http.StatusNotFound))
		Expect(get("/api/component/DRAM").Code).To(Equal(http.StatusNotFound))
		Expect(get("/api/tick/DRAM").Code).To(Equal(http.StatusNotFound))
	})

	It("should wake a macro", func() {
		edges := bench.DUT.State.Edges

		Expect(get("/api/tick/SRAM").Code).To(Equal(http.StatusOK))
		Expect(bench.Cycles(1)).To(Succeed())

		Expect(bench.DUT.State.Edges).To(Equal(edges + 1))
	})

	It("should reject a malformed field request", func() {
		rec := get("/api/field/notjson")

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("should pause and continue the engine", func() {
		Expect(get("/api/pause").Code).To(Equal(http.StatusOK))
		Expect(get("/api/continue").Code).To(Equal(http.StatusOK))
	})

	It("should track progress bars", func() {
		bar := m.CreateProgressBar("script", 8)
		bar.IncrementInProgress(2)
		bar.MoveInProgressToFinished(1)

		var bars []map[string]any
		Expect(json.Unmarshal(get("/api/progress").Body.Bytes(), &bars)).To(Succeed())
		Expect(bars).To(HaveLen(1))
		Expect(bars[0]["name"]).To(Equal("script"))
		Expect(bars[0]["finished"]).To(BeNumerically("==", 1))
		Expect(bars[0]["in_progress"]).To(BeNumerically("==", 1))

		m.CompleteProgressBar(bar)
		Expect(get("/api/progress").Body.String()).To(Equal("[]"))
	})

	It("should not open a browser before the server starts", func() {
		Expect(m.OpenBrowser()).To(HaveOccurred())
	})
})
