package bits

import (
	"io"

	"github.com/icza/bitio"
	"github.com/mewkiz/pkg/errutil"
)

// A Reader handles bit reading operations. It keeps track of the number of
// bits consumed from the underlying reader.
type Reader struct {
	// Underlying bit reader.
	br *bitio.Reader
	// Number of bits read so far.
	n uint64
}

// NewReader returns a new Reader that reads bits from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bitio.NewReader(r)}
}

// Read reads and returns the next n bits, at most 64.
func (br *Reader) Read(n uint) (x uint64, err error) {
	if n == 0 {
		return 0, nil
	}
	if n > 64 {
		return 0, errutil.Newf("bits.Reader.Read: invalid number of bits; n (%d) exceeds 64", n)
	}
	x, err = br.br.ReadBits(uint8(n))
	if err != nil {
		return 0, err
	}
	br.n += uint64(n)
	return x, nil
}

// ReadBits reads and returns the next n bits, at most 64.
func (br *Reader) ReadBits(n uint8) (uint64, error) {
	return br.Read(uint(n))
}

// Tell returns the number of bits read so far.
func (br *Reader) Tell() uint64 {
	return br.n
}

// Align skips the remaining bits of the current byte, if any.
func (br *Reader) Align() {
	skipped := br.br.Align()
	br.n += uint64(skipped)
}
