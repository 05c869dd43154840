package datapath

import "github.com/sarchlab/sramsim/mem/sram/decoder"

// ColumnMux selects the 4-bit group of colData chosen by sel. The result is 0
// when no group is selected. Should sel carry more than one line, the lowest
// one wins.
func ColumnMux(sel decoder.ColSelect, colData uint64) uint8 {
	idx, ok := sel.Index()
	if !ok {
		return 0
	}

	return uint8(colData>>(uint(idx)*WordBits)) & WordMask
}

// WriteDriver drives the bitline pair of the selected column group
// differentially with dataIn. All other columns, and all columns when
// writeEnable is low, are left HighZ.
func WriteDriver(
	writeEnable bool,
	sel decoder.ColSelect,
	dataIn uint8,
) (bl, blb Bus) {
	if !writeEnable {
		return bl, blb
	}

	idx, ok := sel.Index()
	if !ok {
		return bl, blb
	}

	for b := 0; b < WordBits; b++ {
		col := idx*WordBits + b
		l := LevelOf(dataIn&(1<<uint(b)) != 0)
		bl[col] = l
		blb[col] = l.Invert()
	}

	return bl, blb
}
