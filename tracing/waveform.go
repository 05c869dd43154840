package tracing

import (
	"github.com/sarchlab/sramsim/datarecording"
	"github.com/sarchlab/sramsim/mem/sram"
	"github.com/sarchlab/sramsim/sim/hooking"
)

// WaveformTableName is the table WaveformTracer writes to.
const WaveformTableName = "sram_waveform"

// WaveformEntry is one row of the waveform table.
type WaveformEntry struct {
	Location  string
	Cycle     uint64
	State     uint8
	Phase     string
	Mode      string
	Enable    bool
	ReadNotWr bool
	ResetN    bool
	Addr      uint16
	DataIn    uint8
	Precharge bool
	RowEnable bool
	ReadEn    bool
	WriteEn   bool
	Ready     bool
	DataOut   uint8
	RowSelect string
	ColSelect string
	Bitline   string
	BitlineB  string
}

// MakeWaveformEntry flattens a sample into a table row.
func MakeWaveformEntry(where string, s sram.Sample) WaveformEntry {
	sig := s.Signals

	return WaveformEntry{
		Location:  where,
		Cycle:     uint64(s.Cycle),
		State:     uint8(sig.Phase),
		Phase:     sig.Phase.String(),
		Mode:      sig.Mode.String(),
		Enable:    s.Pins.Enable,
		ReadNotWr: s.Pins.ReadNotWrite,
		ResetN:    s.Pins.ResetN,
		Addr:      uint16(s.Pins.Addr),
		DataIn:    s.Pins.DataIn,
		Precharge: sig.PrechargeEnable,
		RowEnable: sig.RowEnable,
		ReadEn:    sig.ReadEnable,
		WriteEn:   sig.WriteEnable,
		Ready:     sig.Ready,
		DataOut:   sig.DataOut,
		RowSelect: sig.RowSelect.String(),
		ColSelect: sig.ColSelect.String(),
		Bitline:   sig.Bitline.String(),
		BitlineB:  sig.BitlineBar.String(),
	}
}

// WaveformTracer records every rising edge of the macros it is attached to.
type WaveformTracer struct {
	backend datarecording.DataRecorder
}

// NewWaveformTracer creates the waveform table and returns the tracer.
func NewWaveformTracer(recorder datarecording.DataRecorder) *WaveformTracer {
	recorder.CreateTable(WaveformTableName, WaveformEntry{})

	return &WaveformTracer{backend: recorder}
}

// Func records a sample.
func (t *WaveformTracer) Func(ctx hooking.HookCtx) {
	if ctx.Pos != sram.HookPosEdge {
		return
	}

	s, ok := ctx.Item.(sram.Sample)
	if !ok {
		return
	}

	where := ""
	if d, ok := ctx.Domain.(NamedHookable); ok {
		where = d.Name()
	}

	t.backend.InsertData(WaveformTableName, MakeWaveformEntry(where, s))
}
