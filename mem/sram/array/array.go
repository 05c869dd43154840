// Package array holds the bit cells of the SRAM macro.
//
// The array is organized as 64 rows of 64 cells. Cell i of a row sits on
// column i, so word w of a row occupies columns 4w to 4w+3 with bit b of the
// word on column 4w+b.
package array

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/sarchlab/sramsim/mem/sram/datapath"
	"github.com/sarchlab/sramsim/mem/sram/decoder"
)

// ErrRowOutOfRange is returned when a row index is not in [0, 64).
var ErrRowOutOfRange = errors.New("array: row out of range")

// An Array keeps the cells of the macro. The cells only change through
// Commit, or through the Poke back door used by test benches.
type Array struct {
	rows [decoder.NumRows]uint64
}

// New creates an array with all cells cleared.
func New() *Array {
	return new(Array)
}

// Row returns the 64 cells of a row.
func (a *Array) Row(row int) (uint64, error) {
	if row < 0 || row >= decoder.NumRows {
		return 0, fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}

	return a.rows[row], nil
}

// SetRow overwrites the 64 cells of a row.
func (a *Array) SetRow(row int, cells uint64) error {
	if row < 0 || row >= decoder.NumRows {
		return fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}

	a.rows[row] = cells

	return nil
}

// Develop returns the bitline pairs as driven by the row that sel asserts.
// With no word line asserted the cells are isolated and the bitlines float.
func (a *Array) Develop(sel decoder.RowSelect) datapath.Pair {
	row, ok := sel.Index()
	if !ok {
		return datapath.Pair{}
	}

	return datapath.Develop(a.rows[row])
}

// Commit stores the differential columns of the write-driver bitlines into
// the row that sel asserts. Columns that are not driven differentially keep
// their value. It returns the number of cells written.
func (a *Array) Commit(sel decoder.RowSelect, bl, blb datapath.Bus) int {
	row, ok := sel.Index()
	if !ok {
		return 0
	}

	value, mask := datapath.Pair{BL: bl, BLB: blb}.Differential()
	a.rows[row] = a.rows[row]&^mask | value

	return bits.OnesCount64(mask)
}

// Peek returns the word stored at addr without going through the datapath.
func (a *Array) Peek(addr decoder.Address) uint8 {
	cells := a.rows[addr.Row()]
	return uint8(cells>>(uint(addr.Word())*datapath.WordBits)) &
		datapath.WordMask
}

// Poke stores a word at addr without going through the datapath.
func (a *Array) Poke(addr decoder.Address, data uint8) {
	shift := uint(addr.Word()) * datapath.WordBits
	mask := uint64(datapath.WordMask) << shift
	row := addr.Row()

	a.rows[row] = a.rows[row]&^mask |
		uint64(data&datapath.WordMask)<<shift
}

// Snapshot returns a copy of all rows.
func (a *Array) Snapshot() [decoder.NumRows]uint64 {
	return a.rows
}
