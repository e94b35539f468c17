// Package bits provides bit access operations and binary decoding algorithms.
package bits

// BitReader reads n bits, most significant bit first. *bitio.Reader and
// *Reader implement it.
type BitReader interface {
	ReadBits(n uint8) (uint64, error)
}

// BitWriter writes the n least significant bits of x, most significant bit
// first. *bitio.Writer and *Writer implement it.
type BitWriter interface {
	WriteBits(x uint64, n uint8) error
}
