// Package sram provides a cycle-accurate model of a 1024 x 4-bit SRAM macro.
//
// The macro is a ticking component. Each tick is one rising edge of the
// clock: the control FSM advances, a pending write is committed and the
// combinational datapath settles on the new state. Test benches drive the
// macro through SetPins and advance the engine clock.
package sram

import (
	"github.com/sarchlab/sramsim/mem/sram/array"
	"github.com/sarchlab/sramsim/mem/sram/datapath"
	"github.com/sarchlab/sramsim/mem/sram/decoder"
	"github.com/sarchlab/sramsim/mem/sram/fsm"
	"github.com/sarchlab/sramsim/sim/hooking"
	"github.com/sarchlab/sramsim/sim/timing"
)

// Comp is the SRAM macro.
type Comp struct {
	*timing.TickingComponent

	Spec  Spec
	State State

	array   *array.Array
	pins    Pins
	signals Signals
}

// SetPins changes the inputs. The new values are sampled by the next rising
// edge, and the combinational outputs settle right away.
func (c *Comp) SetPins(p Pins) {
	c.Lock()
	c.pins = p
	c.settle()
	c.Unlock()

	c.TickLater()
}

// Pins returns the current inputs.
func (c *Comp) Pins() Pins {
	c.Lock()
	defer c.Unlock()

	return c.pins
}

// Signals returns the settled combinational nets.
func (c *Comp) Signals() Signals {
	c.Lock()
	defer c.Unlock()

	return c.signals
}

// DataOut returns the data_out pins. They carry the selected word during the
// SENSE cycle of a read and 0 otherwise.
func (c *Comp) DataOut() uint8 {
	return c.Signals().DataOut
}

// Ready returns the ready pin.
func (c *Comp) Ready() bool {
	return c.Signals().Ready
}

// Register returns the FSM state.
func (c *Comp) Register() fsm.Register {
	c.Lock()
	defer c.Unlock()

	return c.State.Reg
}

// Peek reads a word from the array, bypassing the datapath.
func (c *Comp) Peek(addr decoder.Address) uint8 {
	c.Lock()
	defer c.Unlock()

	return c.array.Peek(addr)
}

// Poke writes a word into the array, bypassing the datapath.
func (c *Comp) Poke(addr decoder.Address, data uint8) {
	c.Lock()
	defer c.Unlock()

	c.array.Poke(addr, data)
	c.settle()
}

// Tick processes one rising edge.
func (c *Comp) Tick() bool {
	c.Lock()

	from := c.State.Reg
	pins := c.pins
	settled := c.signals

	t := fsm.Next(from, fsm.Inputs{
		Enable:       pins.Enable,
		ReadNotWrite: pins.ReadNotWrite,
		ResetN:       pins.ResetN,
	})

	var commit *Commit
	if t.Commit {
		commit = c.commit(settled)
	}

	c.State.Reg = t.Next
	c.State.Edges++
	c.settle()

	sample := Sample{
		Cycle:   c.CurrentTime(),
		Pins:    pins,
		From:    from,
		To:      t.Next,
		Signals: c.signals,
	}
	progress := c.Spec.FreeRunning || c.isBusy()

	c.Unlock()

	if commit != nil {
		c.InvokeHook(hooking.HookCtx{
			Domain: c,
			Pos:    HookPosCommit,
			Item:   *commit,
		})
	}

	c.InvokeHook(hooking.HookCtx{
		Domain: c,
		Pos:    HookPosEdge,
		Item:   sample,
	})

	return progress
}

// isBusy tells if the next edge can change the state.
func (c *Comp) isBusy() bool {
	if c.State.Reg.Phase != fsm.Idle {
		return true
	}

	return c.pins.Enable && c.pins.ResetN
}

// commit stores the write-driver bitlines of the SENSE cycle being left.
func (c *Comp) commit(s Signals) *Commit {
	cells := c.array.Commit(s.RowSelect, s.Bitline, s.BitlineBar)
	c.State.Commits++

	row, _ := s.RowSelect.Index()
	word, _ := s.ColSelect.Index()
	value, _ := s.Bitline.Bits()
	data := uint8(value>>(uint(word)*datapath.WordBits)) & datapath.WordMask

	return &Commit{
		Cycle: c.CurrentTime(),
		Addr:  decoder.MakeAddress(uint8(row), uint8(word)),
		Data:  data,
		Cells: cells,
	}
}

// settle recomputes the combinational nets from the register, the pins and
// the cells.
func (c *Comp) settle() {
	reg := c.State.Reg
	ctrl := fsm.Outputs(reg)

	s := Signals{
		Phase:    reg.Phase,
		Mode:     reg.Mode,
		Controls: ctrl,
		Strobes:  fsm.Strobes(reg),
	}

	s.RowSelect = decoder.Row(ctrl.RowEnable, c.pins.Addr.Row())
	s.ColSelect = decoder.Column(
		ctrl.ReadEnable || ctrl.WriteEnable, c.pins.Addr.Word())
	s.Bitline, s.BitlineBar = datapath.WriteDriver(
		ctrl.WriteEnable, s.ColSelect, c.pins.DataIn)

	switch {
	case ctrl.PrechargeEnable:
		s.Bitlines = datapath.Precharged()
	case ctrl.RowEnable:
		s.Bitlines = c.array.Develop(s.RowSelect).Override(
			datapath.Pair{BL: s.Bitline, BLB: s.BitlineBar})
	default:
		s.Bitlines = datapath.Pair{}
	}

	readSelect := s.ColSelect
	if !ctrl.ReadEnable {
		readSelect = 0
	}

	s.DataOut = datapath.ColumnMux(readSelect, s.Bitlines.Sense())

	c.signals = s
}
