// Package rice implements the partitioned Rice coding of FLAC residuals.
//
// The residuals of a subframe (the prediction errors following the warm-up
// samples) are split into 2^order partitions. Each partition is either Rice
// coded with its own Rice parameter, or escaped and stored as fixed-width two's
// complement integers.
//
// ref: https://www.xiph.org/flac/format.html#residual
package rice

import (
	"github.com/pkg/errors"
)

// BitReader reads n bits, most significant bit first. It returns io.EOF or
// io.ErrUnexpectedEOF when the stream is exhausted.
type BitReader interface {
	ReadBits(n uint8) (uint64, error)
}

// BitWriter writes the n least significant bits of x, most significant bit
// first.
type BitWriter interface {
	WriteBits(x uint64, n uint8) error
}

// Method specifies the residual coding method, i.e. the width of the Rice
// parameter of each partition.
type Method uint8

// Residual coding methods.
const (
	// Rice specifies partitioned Rice coding with a 4-bit Rice parameter.
	Rice Method = iota
	// Rice2 specifies partitioned Rice coding with a 5-bit Rice parameter.
	Rice2
)

// escapeBits is the width in bits of the raw sample size stored after the
// escape code of an escaped partition.
const escapeBits = 5

// partOrderBits is the width in bits of the partition order.
const partOrderBits = 4

// methodBits is the width in bits of the residual coding method.
const methodBits = 2

// ParamBits returns the width in bits of the Rice parameter.
func (m Method) ParamBits() uint8 {
	if m == Rice2 {
		return 5
	}
	return 4
}

// EscapeParam returns the Rice parameter value reserved as escape code; the
// all-ones bit pattern of the parameter width.
func (m Method) EscapeParam() uint {
	return 1<<m.ParamBits() - 1
}

// MaxParam returns the largest Rice parameter of the method.
func (m Method) MaxParam() uint {
	return m.EscapeParam() - 1
}

// String returns a string representation of the method.
func (m Method) String() string {
	switch m {
	case Rice:
		return "rice"
	case Rice2:
		return "rice2"
	}
	return "reserved"
}

// validate returns an error if m is not a known residual coding method.
func (m Method) validate() error {
	if m != Rice && m != Rice2 {
		return errors.Wrapf(ErrReservedMethod, "bit pattern %02b", uint8(m))
	}
	return nil
}
