package tracing_test

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/sramsim/datarecording"
	"github.com/sarchlab/sramsim/mem/sram"
	"github.com/sarchlab/sramsim/mem/sram/sramtest"
	"github.com/sarchlab/sramsim/tracing"
)

type violationRow struct {
	OpID     string
	Location string
	Kind     string
	Cycle    uint64
	Want     string
	Seen     string
}

type opRow struct {
	What       string
	Location   string
	StartCycle uint64
	EndCycle   uint64
	Detail     string
}

var _ = Describe("Tracers on SQLite", func() {
	var (
		db       *sql.DB
		recorder datarecording.DataRecorder
		reader   datarecording.DataReader
		bench    *sramtest.Bench
	)

	query := func(table string, sample any, orderBy string) []any {
		reader.MapTable(table, sample)

		rows, _, err := reader.Query(context.Background(), table,
			datarecording.QueryParams{OrderBy: orderBy})
		Expect(err).NotTo(HaveOccurred())

		return rows
	}

	BeforeEach(func() {
		var err error
		db, err = sql.Open("sqlite3", ":memory:")
		Expect(err).NotTo(HaveOccurred())
		db.SetMaxOpenConns(1)

		recorder = datarecording.NewWithDB(db)
		reader = datarecording.NewReaderWithDB(db)

		bench = sramtest.New()
		Expect(bench.Reset(2)).To(Succeed())
	})

	AfterEach(func() {
		db.Close()
	})

	It("should store the waveform", func() {
		bench.DUT.AcceptHook(tracing.NewWaveformTracer(recorder))

		Expect(bench.Write(0x2B4, 0x9)).To(Succeed())
		recorder.Flush()

		rows := query(tracing.WaveformTableName, tracing.WaveformEntry{}, "Cycle")
		Expect(rows).To(HaveLen(4))

		sense := rows[2].(*tracing.WaveformEntry)
		Expect(sense.Location).To(Equal("SRAM"))
		Expect(sense.Phase).To(Equal("SENSE"))
		Expect(sense.WriteEn).To(BeTrue())
		Expect(sense.Addr).To(Equal(uint16(0x2B4)))
		Expect(sense.DataIn).To(Equal(uint8(0x9)))
	})

	It("should store violations and accesses", func() {
		tracing.CollectTrace(bench.DUT,
			tracing.NewDBTracer(bench.Engine, recorder))
		bench.DUT.AcceptHook(
			tracing.NewViolationDetector().WithRecorder(recorder))

		_, err := bench.Issue(sram.WritePins(0x100, 0x9))
		Expect(err).NotTo(HaveOccurred())
		_, err = bench.Issue(sram.ReadPins(0x101))
		Expect(err).NotTo(HaveOccurred())
		Expect(bench.Idle(1)).To(Succeed())
		recorder.Flush()

		violations := query(tracing.ViolationTableName, violationRow{}, "Cycle")
		Expect(violations).To(HaveLen(1))

		v := violations[0].(*violationRow)
		Expect(v.Location).To(Equal("SRAM"))
		Expect(v.Kind).To(Equal(tracing.ViolationCorruptedWrite.String()))
		Expect(v.Want).To(Equal("write 0x100 0x9"))
		Expect(v.Seen).To(ContainSubstring("0x101"))

		ops := query(tracing.OpTableName, opRow{}, "StartCycle")
		Expect(ops).To(HaveLen(2))
		Expect(ops[0].(*opRow).Detail).To(Equal("write 0x100 0x9"))
		Expect(ops[1].(*opRow).Detail).To(Equal("read 0x101"))
	})
})
