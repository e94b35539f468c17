package bits

import (
	"io"

	"github.com/icza/bitio"
	"github.com/mewkiz/pkg/errutil"
)

// A Writer handles bit writing operations. It keeps track of the number of
// bits written to the underlying writer.
type Writer struct {
	// Underlying bit writer.
	bw *bitio.Writer
	// Number of bits written so far.
	n uint64
}

// NewWriter returns a new Writer that writes bits to w. Call Close to flush
// pending bits; the underlying writer is left open.
func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bitio.NewWriter(w)}
}

// Write writes the n least significant bits of x, at most 64. Bits of x above
// position n are ignored.
func (bw *Writer) Write(x uint64, n uint) error {
	if n == 0 {
		return nil
	}
	if n > 64 {
		return errutil.Newf("bits.Writer.Write: invalid number of bits; n (%d) exceeds 64", n)
	}
	if n < 64 {
		x &= 1<<n - 1
	}
	if err := bw.bw.WriteBits(x, uint8(n)); err != nil {
		return errutil.Err(err)
	}
	bw.n += uint64(n)
	return nil
}

// WriteBits writes the n least significant bits of x, at most 64.
func (bw *Writer) WriteBits(x uint64, n uint8) error {
	return bw.Write(x, uint(n))
}

// Tell returns the number of bits written so far.
func (bw *Writer) Tell() uint64 {
	return bw.n
}

// Align pads the current byte with zero bits, if needed.
func (bw *Writer) Align() error {
	skipped, err := bw.bw.Align()
	if err != nil {
		return errutil.Err(err)
	}
	bw.n += uint64(skipped)
	return nil
}

// Close pads and flushes pending bits. It does not close the underlying
// writer.
func (bw *Writer) Close() error {
	if err := bw.Align(); err != nil {
		return err
	}
	if err := bw.bw.Close(); err != nil {
		return errutil.Err(err)
	}
	return nil
}
