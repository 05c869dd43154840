package sram

import (
	"github.com/sarchlab/sramsim/mem/sram/datapath"
	"github.com/sarchlab/sramsim/mem/sram/decoder"
	"github.com/sarchlab/sramsim/mem/sram/fsm"
	"github.com/sarchlab/sramsim/sim/hooking"
	"github.com/sarchlab/sramsim/sim/timing"
)

// HookPosEdge marks a rising edge. The hook item is a Sample.
var HookPosEdge = &hooking.HookPos{Name: "SRAM Edge"}

// HookPosCommit marks a write being stored. The hook item is a Commit.
var HookPosCommit = &hooking.HookPos{Name: "SRAM Commit"}

// Signals is a snapshot of the settled combinational nets of the macro.
type Signals struct {
	Phase fsm.Phase
	Mode  fsm.Mode

	fsm.Controls

	Strobes   decoder.CtrlSelect
	RowSelect decoder.RowSelect
	ColSelect decoder.ColSelect

	// Bitline and BitlineBar are the outputs of the write drivers.
	Bitline    datapath.Bus
	BitlineBar datapath.Bus

	// Bitlines is the resolved state of the array bitline pairs.
	Bitlines datapath.Pair

	DataOut uint8
}

// Sample describes one rising edge.
type Sample struct {
	Cycle timing.VTimeInCycle

	// Pins are the inputs sampled by the edge.
	Pins Pins

	From fsm.Register
	To   fsm.Register

	// Signals are settled after the edge.
	Signals Signals
}

// Commit describes a write stored into the array.
type Commit struct {
	Cycle timing.VTimeInCycle
	Addr  decoder.Address
	Data  uint8

	// Cells is the number of cells the write drivers overwrote.
	Cells int
}
