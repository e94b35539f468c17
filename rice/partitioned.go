package rice

import (
	"github.com/mewkiz/flacfmt/internal/bits"
	"github.com/mewkiz/pkg/errutil"
	"github.com/pkg/errors"
)

// Partitioned is the header of a partitioned Rice coded residual section.
//
// ref: https://www.xiph.org/flac/format.html#partitioned_rice
// ref: https://www.xiph.org/flac/format.html#partitioned_rice2
type Partitioned struct {
	// Residual coding method; the width of the Rice parameters.
	Method Method
	// Partition order; the residuals are split into 2^Order partitions.
	Order int
	// Per-partition Rice parameters and raw sample sizes, with active order
	// Order.
	Contents *Contents
}

// IsEscaped reports whether the i:th partition is stored as raw two's
// complement integers.
func (pr *Partitioned) IsEscaped(i int) bool {
	param, _, err := pr.Contents.Partition(i)
	return err == nil && param == pr.Method.EscapeParam()
}

// check validates the header against its contents.
func (pr *Partitioned) check() error {
	if err := pr.Method.validate(); err != nil {
		return err
	}
	if pr.Contents == nil || pr.Contents.Len() == 0 {
		return errutil.Newf("rice: partitioned Rice header without contents")
	}
	if pr.Contents.Order() != pr.Order {
		return errutil.Newf("rice: partition order mismatch; header %d, contents %d", pr.Order, pr.Contents.Order())
	}
	return nil
}

// Write writes the partition order followed by the Rice partitions of the
// residuals to bw, using the parameters of pr.
//
// Rice partition format (pseudo code):
//
//	type RICE_PARTITION struct {
//	   param                  uint4 or uint5
//	   if param == escape {
//	      nbits               uint5
//	      residuals           [nsamples]intN  // two's complement, N = nbits
//	   } else {
//	      residuals           [nsamples]rice  // unary quotient, k = param low bits
//	   }
//	}
func Write(bw BitWriter, pr *Partitioned, residuals []int32, blockSize, predOrder int) error {
	if err := pr.check(); err != nil {
		return err
	}
	first, rest, err := Geometry(blockSize, predOrder, pr.Order)
	if err != nil {
		return err
	}
	if err := checkResidualCount(residuals, blockSize, predOrder); err != nil {
		return err
	}

	// 4 bits: Partition order.
	if err := bw.WriteBits(uint64(pr.Order), partOrderBits); err != nil {
		return errutil.Err(err)
	}

	paramBits := pr.Method.ParamBits()
	escape := pr.Method.EscapeParam()
	params, rawBits := pr.Contents.Params(), pr.Contents.RawBits()
	start := 0
	for i, param := range params {
		n := partitionLen(i, first, rest)
		part := residuals[start : start+n]
		start += n

		// (4 or 5) bits: Rice parameter.
		if param > escape {
			return errors.Wrapf(ErrParameterOutOfRange, "partition %d: parameter %d exceeds %d-bit width", i, param, paramBits)
		}
		if err := bw.WriteBits(uint64(param), paramBits); err != nil {
			return errutil.Err(err)
		}

		if param == escape {
			if err := writeEscaped(bw, part, rawBits[i]); err != nil {
				return errors.WithMessagef(err, "partition %d", i)
			}
			continue
		}

		// Encode the Rice residuals of the partition.
		for _, residual := range part {
			if err := writeRiceResidual(bw, param, residual); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeEscaped writes the raw sample size followed by the residuals of an
// escaped partition, stored as n-bit two's complement integers.
func writeEscaped(bw BitWriter, part []int32, n uint) error {
	if n >= 1<<escapeBits {
		return errors.Wrapf(ErrParameterOutOfRange, "raw sample size %d exceeds %d-bit width", n, escapeBits)
	}
	// 5 bits: raw sample size.
	if err := bw.WriteBits(uint64(n), escapeBits); err != nil {
		return errutil.Err(err)
	}
	if n == 0 {
		for _, residual := range part {
			if residual != 0 {
				return errors.Wrapf(ErrParameterOutOfRange, "residual %d does not fit in 0 bits", residual)
			}
		}
		return nil
	}
	mask := uint64(1)<<n - 1
	for _, residual := range part {
		if bits.Width(residual) > n {
			return errors.Wrapf(ErrParameterOutOfRange, "residual %d does not fit in %d bits", residual, n)
		}
		if err := bw.WriteBits(uint64(int64(residual))&mask, uint8(n)); err != nil {
			return errutil.Err(err)
		}
	}
	return nil
}

// writeRiceResidual writes a Rice coded residual (error signal) with Rice
// parameter k.
func writeRiceResidual(bw BitWriter, k uint, residual int32) error {
	// ZigZag encode.
	folded := bits.EncodeZigZag(residual)

	// Unfold into high and low bits.
	high := folded >> k
	low := uint64(folded) & (1<<k - 1)

	// Write unary encoded most significant bits.
	if err := bits.WriteUnary(bw, uint64(high)); err != nil {
		return errutil.Err(err)
	}

	// Write binary encoded least significant bits.
	if k > 0 {
		if err := bw.WriteBits(low, uint8(k)); err != nil {
			return errutil.Err(err)
		}
	}
	return nil
}

// Cost returns the exact number of bits Write emits for the residuals using
// the parameters of pr.
func Cost(pr *Partitioned, residuals []int32, blockSize, predOrder int) (uint64, error) {
	if err := pr.check(); err != nil {
		return 0, err
	}
	first, rest, err := Geometry(blockSize, predOrder, pr.Order)
	if err != nil {
		return 0, err
	}
	if err := checkResidualCount(residuals, blockSize, predOrder); err != nil {
		return 0, err
	}
	total := uint64(partOrderBits)
	paramBits := uint64(pr.Method.ParamBits())
	escape := pr.Method.EscapeParam()
	rawBits := pr.Contents.RawBits()
	start := 0
	for i, param := range pr.Contents.Params() {
		n := partitionLen(i, first, rest)
		part := residuals[start : start+n]
		start += n
		total += paramBits
		if param == escape {
			total += escapeBits + uint64(n)*uint64(rawBits[i])
			continue
		}
		total += riceCost(part, param)
	}
	return total, nil
}

// riceCost returns the number of bits required to Rice code the residuals with
// parameter k.
func riceCost(part []int32, k uint) uint64 {
	var sum uint64
	for _, residual := range part {
		sum += uint64(bits.EncodeZigZag(residual) >> k)
	}
	return sum + uint64(len(part))*uint64(1+k)
}
