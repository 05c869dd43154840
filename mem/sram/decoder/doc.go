// Package decoder implements the one-hot address decoders of the SRAM macro:
// the 6:64 row decoder, the 4:16 column decoder and the 3:8 control decoder.
//
// All decoders are pure combinational functions. When the enable input is low
// every output line is low. When it is high exactly one line is high. The
// address is masked to the decoder width, so every input is legal.
package decoder
