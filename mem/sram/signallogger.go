package sram

import (
	"fmt"
	"log"

	"github.com/sarchlab/sramsim/sim/hooking"
)

// SignalLogger prints one line per rising edge with the FSM state and its
// control strobes.
type SignalLogger struct {
	*log.Logger
}

// NewSignalLogger returns a SignalLogger that writes to logger.
func NewSignalLogger(logger *log.Logger) *SignalLogger {
	return &SignalLogger{Logger: logger}
}

// Func writes the log line.
func (l *SignalLogger) Func(ctx hooking.HookCtx) {
	if ctx.Pos != HookPosEdge {
		return
	}

	s, ok := ctx.Item.(Sample)
	if !ok {
		return
	}

	l.Print(FormatSample(s))
}

// FormatSample renders a sample as a cycle-log line.
func FormatSample(s Sample) string {
	sig := s.Signals

	return fmt.Sprintf("Clk %3d | %-5s | pre=%d row=%d rd=%d wr=%d rdy=%d | dout=0x%X",
		s.Cycle, sig.Phase.ShortName(),
		bit(sig.PrechargeEnable), bit(sig.RowEnable),
		bit(sig.ReadEnable), bit(sig.WriteEnable), bit(sig.Ready),
		sig.DataOut)
}

func bit(b bool) int {
	if b {
		return 1
	}

	return 0
}
