package sram

import "github.com/sarchlab/sramsim/mem/sram/decoder"

// Pins are the inputs of the macro. ResetN is active low.
type Pins struct {
	Enable       bool
	ReadNotWrite bool
	Addr         decoder.Address
	DataIn       uint8
	ResetN       bool
}

// IdlePins returns the pins of a macro out of reset and not enabled.
func IdlePins() Pins {
	return Pins{ResetN: true}
}

// ReadPins returns the pins that start a read of addr.
func ReadPins(addr decoder.Address) Pins {
	return Pins{Enable: true, ReadNotWrite: true, Addr: addr, ResetN: true}
}

// WritePins returns the pins that start a write of data to addr.
func WritePins(addr decoder.Address, data uint8) Pins {
	return Pins{Enable: true, Addr: addr, DataIn: data & 0xF, ResetN: true}
}

// Bit positions on the host chip pins.
const (
	uioDataMask   = 0x0F
	uioEnableBit  = 4
	uioReadBit    = 5
	uioAddrHiBit  = 6
	uoReadyBit    = 4
	uoDataOutMask = 0x0F
)

// PackPins maps the pins onto the 8-bit ui_in and uio_in buses of the host
// chip. ui_in carries addr[7:0]. uio_in carries addr[9:8] in bits 7:6,
// read-not-write in bit 5, enable in bit 4 and data_in in bits 3:0.
func PackPins(p Pins) (uiIn, uioIn uint8) {
	addr := p.Addr.Masked()
	uiIn = uint8(addr)

	uioIn = uint8(addr>>8) << uioAddrHiBit
	uioIn |= p.DataIn & uioDataMask
	if p.Enable {
		uioIn |= 1 << uioEnableBit
	}

	if p.ReadNotWrite {
		uioIn |= 1 << uioReadBit
	}

	return uiIn, uioIn
}

// UnpackPins reverses PackPins.
func UnpackPins(uiIn, uioIn uint8, resetN bool) Pins {
	return Pins{
		Enable:       uioIn&(1<<uioEnableBit) != 0,
		ReadNotWrite: uioIn&(1<<uioReadBit) != 0,
		Addr:         decoder.Address(uioIn>>uioAddrHiBit)<<8 | decoder.Address(uiIn),
		DataIn:       uioIn & uioDataMask,
		ResetN:       resetN,
	}
}

// PackOutputs builds uo_out: ready in bit 4 and data_out in bits 3:0.
func PackOutputs(dataOut uint8, ready bool) uint8 {
	out := dataOut & uoDataOutMask
	if ready {
		out |= 1 << uoReadyBit
	}

	return out
}

// UnpackOutputs splits uo_out into data_out and ready.
func UnpackOutputs(uoOut uint8) (dataOut uint8, ready bool) {
	return uoOut & uoDataOutMask, uoOut&(1<<uoReadyBit) != 0
}
