package timing

import (
	"errors"
	"fmt"
	"time"
)

// Freq defines the type of frequency
type Freq float64

// Defines the unit of frequency
const (
	Hz  Freq = 1
	KHz Freq = 1e3
	MHz Freq = 1e6
	GHz Freq = 1e9
)

// ErrZeroFrequency is returned when a clock is configured without a
// frequency.
var ErrZeroFrequency = errors.New("timing: frequency must be positive")

// Validate reports whether the frequency can drive a clock.
func (f Freq) Validate() error {
	if f <= 0 {
		return fmt.Errorf("%w: got %g Hz", ErrZeroFrequency, float64(f))
	}

	return nil
}

// Period returns the time between two consecutive rising edges.
func (f Freq) Period() time.Duration {
	if f <= 0 {
		panic("frequency cannot be 0")
	}

	return time.Duration(float64(time.Second) / float64(f))
}

// Elapsed converts a cycle count into the wall-clock time the real hardware
// would have spent.
func (f Freq) Elapsed(cycles VTimeInCycle) time.Duration {
	return time.Duration(cycles) * f.Period()
}

// String prints the frequency with the largest fitting unit.
func (f Freq) String() string {
	switch {
	case f >= GHz:
		return fmt.Sprintf("%gGHz", float64(f/GHz))
	case f >= MHz:
		return fmt.Sprintf("%gMHz", float64(f/MHz))
	case f >= KHz:
		return fmt.Sprintf("%gKHz", float64(f/KHz))
	default:
		return fmt.Sprintf("%gHz", float64(f))
	}
}
