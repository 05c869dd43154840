package datapath

// Pair is the full set of bitline pairs of the array.
type Pair struct {
	BL  Bus
	BLB Bus
}

// Precharged returns both lines of every column pulled high.
func Precharged() Pair {
	return Pair{BL: Uniform(Driven1), BLB: Uniform(Driven1)}
}

// Develop returns the pair as driven by the cells of one row. The true line
// follows the cell and the complement line its inverse.
func Develop(cells uint64) Pair {
	bl := BusOf(cells)
	blb := BusOf(^cells)

	return Pair{BL: bl, BLB: blb}
}

// Override returns p with every column that strong drives taken from strong.
// Write drivers overpower the cells this way.
func (p Pair) Override(strong Pair) Pair {
	return Pair{
		BL:  p.BL.Override(strong.BL),
		BLB: p.BLB.Override(strong.BLB),
	}
}

// IsDifferential tells if column col carries complementary driven levels.
func (p Pair) IsDifferential(col int) bool {
	bl, blb := p.BL[col], p.BLB[col]
	return bl != HighZ && blb != HighZ && bl == blb.Invert()
}

// Sense returns the value the sense amplifiers resolve. A column reads as 1
// only when its pair is differential with the true line high.
func (p Pair) Sense() uint64 {
	var v uint64

	for i := range p.BL {
		if p.IsDifferential(i) && p.BL[i] == Driven1 {
			v |= 1 << uint(i)
		}
	}

	return v
}

// Differential returns the value on the differential columns and the mask of
// those columns.
func (p Pair) Differential() (value, mask uint64) {
	for i := range p.BL {
		if !p.IsDifferential(i) {
			continue
		}

		mask |= 1 << uint(i)
		if p.BL[i] == Driven1 {
			value |= 1 << uint(i)
		}
	}

	return value, mask
}
