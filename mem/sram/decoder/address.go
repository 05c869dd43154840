package decoder

import "fmt"

// Geometry of the macro.
const (
	AddrBits = 10
	RowBits  = 6
	WordBits = 4
	CtrlBits = 3

	NumRows  = 1 << RowBits
	NumWords = 1 << WordBits
	NumCtrl  = 1 << CtrlBits

	// NumAddresses is the number of 4-bit words the macro stores.
	NumAddresses = 1 << AddrBits
)

// Address is the 10-bit word address. Bits 9:4 select the row and bits 3:0
// select the word within the row.
type Address uint16

// MakeAddress combines a row and a word index into an Address.
func MakeAddress(row, word uint8) Address {
	return Address(row&(NumRows-1))<<WordBits | Address(word&(NumWords-1))
}

// Row returns the row index, bits 9:4.
func (a Address) Row() uint8 {
	return uint8(a>>WordBits) & (NumRows - 1)
}

// Word returns the word index within the row, bits 3:0.
func (a Address) Word() uint8 {
	return uint8(a) & (NumWords - 1)
}

// Masked drops the bits above bit 9.
func (a Address) Masked() Address {
	return a & (NumAddresses - 1)
}

func (a Address) String() string {
	return fmt.Sprintf("0x%03X", uint16(a.Masked()))
}
