// Package sramtest drives an SRAM macro the way a hardware test bench does:
// set the pins, let the clock run for some cycles, look at the outputs.
package sramtest

import (
	"errors"
	"fmt"

	"github.com/sarchlab/sramsim/mem/sram"
	"github.com/sarchlab/sramsim/mem/sram/decoder"
	"github.com/sarchlab/sramsim/sim/timing"
)

// AccessCycles is the number of rising edges from leaving IDLE to entering
// SENSE.
const AccessCycles = 3

// ErrNotReady is returned when ready is low after AccessCycles edges.
var ErrNotReady = errors.New("sramtest: ready not asserted")

// ErrMismatch is returned by Expect when data_out differs.
var ErrMismatch = errors.New("sramtest: data mismatch")

// A Bench clocks one macro with an engine.
type Bench struct {
	Engine timing.Engine
	DUT    *sram.Comp
}

// NewBench creates a bench around an existing macro.
func NewBench(engine timing.Engine, dut *sram.Comp) *Bench {
	return &Bench{
		Engine: engine,
		DUT:    dut,
	}
}

// New creates an engine and a macro with the default spec.
func New() *Bench {
	engine := timing.NewSerialEngine()
	dut := sram.MakeBuilder().
		WithEngine(engine).
		Build("SRAM")

	return NewBench(engine, dut)
}

// Now returns the current cycle.
func (b *Bench) Now() timing.VTimeInCycle {
	return b.Engine.CurrentTime()
}

// SetPins drives new values on the inputs.
func (b *Bench) SetPins(p sram.Pins) {
	b.DUT.SetPins(p)
}

// Pins returns the values on the input pins of the macro.
func (b *Bench) Pins() sram.Pins {
	return b.DUT.Pins()
}

// Cycles lets the clock run for n rising edges.
func (b *Bench) Cycles(n int) error {
	if n <= 0 {
		return nil
	}

	return b.Engine.RunUntil(b.Now() + timing.VTimeInCycle(n))
}

// Reset holds rst_n low for the given number of cycles with all other inputs
// low, then releases it.
func (b *Bench) Reset(cycles int) error {
	b.SetPins(sram.Pins{ResetN: false})
	if err := b.Cycles(cycles); err != nil {
		return err
	}

	b.SetPins(sram.IdlePins())

	return b.Cycles(1)
}

// Issue starts an access and runs until it reaches SENSE. Enable stays high,
// so the next Issue runs back-to-back. It returns data_out as seen during
// SENSE.
//
// A read leaves data_in as it was. A write still in SENSE commits from the
// pins seen by the edge that starts the read.
func (b *Bench) Issue(p sram.Pins) (uint8, error) {
	p.Enable = true
	p.ResetN = true
	if p.ReadNotWrite {
		p.DataIn = b.DUT.Pins().DataIn
	}

	b.SetPins(p)

	if err := b.Cycles(AccessCycles); err != nil {
		return 0, err
	}

	if !b.DUT.Ready() {
		return 0, fmt.Errorf("%w after %d cycles at %s",
			ErrNotReady, AccessCycles, p.Addr)
	}

	return b.DUT.DataOut(), nil
}

// Idle drops enable and runs n cycles. Address and data stay on the pins so
// that a write in SENSE commits what it was given.
func (b *Bench) Idle(n int) error {
	p := b.DUT.Pins()
	p.Enable = false
	b.SetPins(p)

	return b.Cycles(n)
}

// Write stores data at addr and returns the macro to IDLE.
func (b *Bench) Write(addr decoder.Address, data uint8) error {
	if _, err := b.Issue(sram.WritePins(addr, data)); err != nil {
		return err
	}

	return b.Idle(1)
}

// Read returns the word at addr and returns the macro to IDLE.
func (b *Bench) Read(addr decoder.Address) (uint8, error) {
	data, err := b.Issue(sram.ReadPins(addr))
	if err != nil {
		return 0, err
	}

	return data, b.Idle(1)
}

// Expect reads addr and compares the result with want.
func (b *Bench) Expect(addr decoder.Address, want uint8) error {
	got, err := b.Read(addr)
	if err != nil {
		return err
	}

	if got != want&0xF {
		return fmt.Errorf("%w at %s: got 0x%X, want 0x%X",
			ErrMismatch, addr, got, want&0xF)
	}

	return nil
}
