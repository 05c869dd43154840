// Package datapath models the column side of the SRAM macro: the tri-state
// bitline pairs, the write drivers and the column multiplexer.
package datapath

// Level is the state of a single bitline.
type Level uint8

// Bitline levels. HighZ means nothing drives the line.
const (
	HighZ Level = iota
	Driven0
	Driven1
)

// LevelOf converts a logic value into a driven level.
func LevelOf(b bool) Level {
	if b {
		return Driven1
	}

	return Driven0
}

// Bit returns the logic value of a driven line. The second return value is
// false for HighZ.
func (l Level) Bit() (bool, bool) {
	switch l {
	case Driven0:
		return false, true
	case Driven1:
		return true, true
	default:
		return false, false
	}
}

// Invert swaps the two driven levels and keeps HighZ.
func (l Level) Invert() Level {
	switch l {
	case Driven0:
		return Driven1
	case Driven1:
		return Driven0
	default:
		return HighZ
	}
}

func (l Level) String() string {
	switch l {
	case Driven0:
		return "0"
	case Driven1:
		return "1"
	default:
		return "z"
	}
}
