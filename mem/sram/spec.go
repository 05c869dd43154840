package sram

import (
	"errors"
	"fmt"

	"github.com/sarchlab/sramsim/sim/timing"
)

// ErrInvalidSpec is returned by Spec.Validate.
var ErrInvalidSpec = errors.New("sram: invalid spec")

// Spec holds immutable configuration values for the macro.
type Spec struct {
	// Freq is the clock frequency. It only matters for reporting, since the
	// macro counts time in cycles.
	Freq timing.Freq

	// FreeRunning keeps the clock ticking while the macro is idle. By default
	// the clock is gated off until the pins change.
	FreeRunning bool

	// ResetCycles is how long a test bench holds rst_n low after power-up.
	ResetCycles int
}

// Defaults returns the configuration of the 50 MHz test clock.
func Defaults() Spec {
	return Spec{
		Freq:        50 * timing.MHz,
		FreeRunning: false,
		ResetCycles: 5,
	}
}

// Validate reports the first invalid field.
func (s Spec) Validate() error {
	if err := s.Freq.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSpec, err)
	}

	if s.ResetCycles < 0 {
		return fmt.Errorf("%w: reset cycles must be >= 0, got %d",
			ErrInvalidSpec, s.ResetCycles)
	}

	return nil
}
