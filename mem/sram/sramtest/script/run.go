package script

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/sarchlab/sramsim/mem/sram"
	"github.com/sarchlab/sramsim/mem/sram/decoder"
	"github.com/sarchlab/sramsim/mem/sram/sramtest"
)

// Failure is a read whose data differs from the expected value.
type Failure struct {
	Line int
	Addr decoder.Address
	Got  uint8
	Want uint8
}

func (f Failure) String() string {
	return fmt.Sprintf("line %d: read %s got 0x%X, want 0x%X",
		f.Line, f.Addr, f.Got, f.Want)
}

// Report summarizes a run.
type Report struct {
	Accesses int
	Cycles   uint64
	Failures []Failure
}

// Passed tells if every expectation held.
func (r Report) Passed() bool {
	return len(r.Failures) == 0
}

// Run executes the commands on the bench. Failed expectations are collected
// in the report. An error means the bench itself could not proceed.
func Run(b *sramtest.Bench, cmds []Command) (Report, error) {
	var report Report

	start := b.Now()
	pending := false

	for _, cmd := range cmds {
		var err error

		switch cmd.Op {
		case OpReset:
			err = b.Reset(cmd.Cycles)
		case OpIdle:
			err = b.Idle(cmd.Cycles)
		case OpWrite, OpRead:
			report.Accesses++
			err = runAccess(b, cmd, &report)
		}

		if err != nil {
			return report, errors.Wrapf(err, "line %d: %s", cmd.Line, cmd.Op)
		}

		pending = cmd.BackToBack && (cmd.Op == OpWrite || cmd.Op == OpRead)
	}

	if pending {
		if err := b.Idle(1); err != nil {
			return report, errors.Wrap(err, "finishing last access")
		}
	}

	report.Cycles = uint64(b.Now() - start)

	return report, nil
}

func runAccess(b *sramtest.Bench, cmd Command, report *Report) error {
	pins := sram.ReadPins(cmd.Addr)
	if cmd.Op == OpWrite {
		pins = sram.WritePins(cmd.Addr, cmd.Data)
	}

	got, err := b.Issue(pins)
	if err != nil {
		return err
	}

	if cmd.Op == OpRead && cmd.Expect && got != cmd.Data {
		report.Failures = append(report.Failures, Failure{
			Line: cmd.Line,
			Addr: cmd.Addr,
			Got:  got,
			Want: cmd.Data,
		})
	}

	if cmd.BackToBack {
		return nil
	}

	return b.Idle(1)
}
