package decoder

import (
	"fmt"
	"math/bits"
)

// RowSelect is the 64-line word-line vector. Bit i drives row i.
type RowSelect uint64

// ColSelect is the 16-line column-group vector. Bit i selects word i, which
// spans columns 4i to 4i+3.
type ColSelect uint16

// CtrlSelect is the 8-line output of the 3:8 control decoder.
type CtrlSelect uint8

func decode(enable bool, addr uint8, width uint) uint64 {
	if !enable {
		return 0
	}

	return 1 << (uint(addr) & (width - 1))
}

// Row decodes a 6-bit row address.
func Row(enable bool, addr uint8) RowSelect {
	return RowSelect(decode(enable, addr, NumRows))
}

// Column decodes a 4-bit word address.
func Column(enable bool, addr uint8) ColSelect {
	return ColSelect(decode(enable, addr, NumWords))
}

// Control decodes a 3-bit control code.
func Control(enable bool, addr uint8) CtrlSelect {
	return CtrlSelect(decode(enable, addr, NumCtrl))
}

// Index returns the selected row. It returns false if no row is selected.
func (s RowSelect) Index() (int, bool) {
	return index(uint64(s))
}

// IsOneHot tells if exactly one line is set.
func (s RowSelect) IsOneHot() bool {
	return bits.OnesCount64(uint64(s)) == 1
}

func (s RowSelect) String() string {
	return fmt.Sprintf("0x%016x", uint64(s))
}

// Index returns the selected word. It returns false if no word is selected.
func (s ColSelect) Index() (int, bool) {
	return index(uint64(s))
}

// IsOneHot tells if exactly one line is set.
func (s ColSelect) IsOneHot() bool {
	return bits.OnesCount16(uint16(s)) == 1
}

func (s ColSelect) String() string {
	return fmt.Sprintf("0x%04x", uint16(s))
}

// Line tells if output line i is high.
func (s CtrlSelect) Line(i int) bool {
	return s&(1<<uint(i)) != 0
}

// Index returns the selected line. It returns false if no line is selected.
func (s CtrlSelect) Index() (int, bool) {
	return index(uint64(s))
}

func (s CtrlSelect) String() string {
	return fmt.Sprintf("%08b", uint8(s))
}

func index(v uint64) (int, bool) {
	if v == 0 {
		return 0, false
	}

	return bits.TrailingZeros64(v), true
}
