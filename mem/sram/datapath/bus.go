package datapath

import (
	"strings"

	"github.com/sarchlab/sramsim/mem/sram/decoder"
)

// Width of the column datapath.
const (
	NumColumns = decoder.NumWords * WordBits
	WordBits   = 4
	WordMask   = 1<<WordBits - 1
)

// Bus holds one level per column. Index i is column i.
type Bus [NumColumns]Level

// FloatingBus returns a bus on which no column is driven.
func FloatingBus() Bus {
	return Bus{}
}

// Uniform returns a bus with every column at the same level.
func Uniform(l Level) Bus {
	var b Bus
	for i := range b {
		b[i] = l
	}

	return b
}

// BusOf drives every column from a 64-bit value, bit i to column i.
func BusOf(v uint64) Bus {
	var b Bus
	for i := range b {
		b[i] = LevelOf(v&(1<<uint(i)) != 0)
	}

	return b
}

// Bits returns the driven value of the bus and a mask of the driven columns.
func (b Bus) Bits() (value, driven uint64) {
	for i, l := range b {
		bit, ok := l.Bit()
		if !ok {
			continue
		}

		driven |= 1 << uint(i)
		if bit {
			value |= 1 << uint(i)
		}
	}

	return value, driven
}

// CountHighZ counts the undriven columns.
func (b Bus) CountHighZ() int {
	n := 0
	for _, l := range b {
		if l == HighZ {
			n++
		}
	}

	return n
}

// Override returns b with every column driven on strong replacing the level
// of b.
func (b Bus) Override(strong Bus) Bus {
	for i, l := range strong {
		if l != HighZ {
			b[i] = l
		}
	}

	return b
}

// String prints the bus most significant column first, as a waveform viewer
// shows a vector with unknown bits.
func (b Bus) String() string {
	var sb strings.Builder

	sb.Grow(NumColumns)
	for i := NumColumns - 1; i >= 0; i-- {
		sb.WriteString(b[i].String())
	}

	return sb.String()
}
