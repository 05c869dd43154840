// Package fsm implements the control state machine of the SRAM macro.
//
// Every access walks through PRECHARGE, DEVELOP and SENSE. The machine leaves
// IDLE on the first rising edge that sees enable high, and after SENSE either
// starts the next access right away or returns to IDLE. A write is committed
// on the edge that leaves SENSE.
package fsm

import "github.com/sarchlab/sramsim/mem/sram/decoder"

// Phase is the state of the control FSM.
type Phase uint8

// The phases, numbered as the macro encodes them.
const (
	Idle Phase = iota
	Precharge
	Develop
	Sense
)

// NumPhases is the number of phases.
const NumPhases = 4

func (p Phase) String() string {
	switch p {
	case Idle:
		return "IDLE"
	case Precharge:
		return "PRECHARGE"
	case Develop:
		return "DEVELOP"
	case Sense:
		return "SENSE"
	default:
		return "UNKNOWN"
	}
}

// ShortName returns the five-letter name used in cycle logs.
func (p Phase) ShortName() string {
	switch p {
	case Precharge:
		return "PRECH"
	case Develop:
		return "DEVLP"
	default:
		return p.String()
	}
}

// Mode is the operation latched when an access starts.
type Mode uint8

// The modes. ModeNone is only held while idle.
const (
	ModeNone Mode = iota
	ModeRead
	ModeWrite
)

func (m Mode) String() string {
	switch m {
	case ModeRead:
		return "read"
	case ModeWrite:
		return "write"
	default:
		return "none"
	}
}

// ModeOf converts the read-not-write pin into a mode.
func ModeOf(readNotWrite bool) Mode {
	if readNotWrite {
		return ModeRead
	}

	return ModeWrite
}

// Register is the clocked state of the FSM.
type Register struct {
	Phase Phase
	Mode  Mode
}

// ResetRegister is the state forced by reset.
func ResetRegister() Register {
	return Register{Phase: Idle, Mode: ModeNone}
}

// Inputs are the FSM inputs sampled at a rising edge. ResetN is active low.
type Inputs struct {
	Enable       bool
	ReadNotWrite bool
	ResetN       bool
}

// Transition is the result of one rising edge.
type Transition struct {
	Next Register

	// Commit is set when the edge stores the write data into the array.
	Commit bool
}

// Next computes the register after a rising edge. It is a total function.
func Next(r Register, in Inputs) Transition {
	if !in.ResetN {
		return Transition{Next: ResetRegister()}
	}

	switch r.Phase {
	case Idle:
		if in.Enable {
			return Transition{
				Next: Register{Phase: Precharge, Mode: ModeOf(in.ReadNotWrite)},
			}
		}

		return Transition{Next: ResetRegister()}
	case Precharge:
		return Transition{Next: Register{Phase: Develop, Mode: r.Mode}}
	case Develop:
		return Transition{Next: Register{Phase: Sense, Mode: r.Mode}}
	case Sense:
		t := Transition{Commit: r.Mode == ModeWrite}
		if in.Enable {
			t.Next = Register{Phase: Precharge, Mode: ModeOf(in.ReadNotWrite)}
		} else {
			t.Next = ResetRegister()
		}

		return t
	default:
		return Transition{Next: ResetRegister()}
	}
}

// Controls are the strobes the FSM drives into the datapath.
type Controls struct {
	PrechargeEnable bool
	RowEnable       bool
	ReadEnable      bool
	WriteEnable     bool
	Ready           bool
}

// Strobes decodes the register into the eight control lines. Line
// phase<<1|isWrite is high, so each phase owns a read and a write line.
func Strobes(r Register) decoder.CtrlSelect {
	code := uint8(r.Phase) << 1
	if r.Mode == ModeWrite {
		code |= 1
	}

	return decoder.Control(true, code)
}

// Outputs computes the control strobes of a register. The outputs depend on
// the register only.
func Outputs(r Register) Controls {
	s := Strobes(r)

	senseRead := s.Line(int(Sense)<<1) && r.Mode == ModeRead
	senseWrite := s.Line(int(Sense)<<1 | 1)

	return Controls{
		PrechargeEnable: s.Line(int(Precharge)<<1) || s.Line(int(Precharge)<<1|1),
		RowEnable: s.Line(int(Develop)<<1) || s.Line(int(Develop)<<1|1) ||
			senseRead || senseWrite,
		ReadEnable:  senseRead,
		WriteEnable: senseWrite,
		Ready:       senseRead || senseWrite,
	}
}
