package sram

import "github.com/sarchlab/sramsim/mem/sram/fsm"

// State is the mutable runtime data of the macro, apart from the cells.
type State struct {
	Reg fsm.Register

	// Edges counts the rising edges the macro has seen.
	Edges uint64

	// Commits counts the writes stored into the array.
	Commits uint64
}
