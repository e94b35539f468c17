package rice

import (
	"math"

	"github.com/mewkiz/flacfmt/format"
	"github.com/mewkiz/flacfmt/internal/bits"
	"github.com/mewkiz/pkg/errutil"
	"github.com/pkg/errors"
)

// maxSearchParam is the largest Rice parameter considered by the parameter
// search, limited further by the parameter width of the method.
const maxSearchParam = 30

// A Coder encodes and decodes partitioned Rice residual sections. It owns the
// partition contents, which are reused between calls; the *Partitioned
// returned by a Coder is only valid until its next call.
//
// A Coder is not safe for concurrent use. Workers decoding frames in parallel
// each use their own Coder.
type Coder struct {
	// Rice parameters and raw sample sizes of the current residual section.
	contents Contents
}

// NewCoder returns a new Coder.
func NewCoder() *Coder {
	return &Coder{}
}

// Contents returns the partition contents owned by the coder.
func (c *Coder) Contents() *Contents {
	return &c.contents
}

// Analyze computes the Rice parameter of each of the 2^order partitions of the
// residuals of a subframe with blockSize samples and predOrder warm-up samples.
//
// For each partition, the Rice parameter k with the smallest encoded size is
// selected; ties are broken towards the smaller k. The partition is escaped if
// storing its residuals as raw two's complement integers, wide enough for the
// widest residual, is strictly smaller.
func (c *Coder) Analyze(residuals []int32, blockSize, predOrder, order int, m Method, p format.Profile) (*Partitioned, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	if err := format.ValidatePartitionOrder(order, p); err != nil {
		return nil, err
	}
	first, rest, err := Geometry(blockSize, predOrder, order)
	if err != nil {
		return nil, err
	}
	if err := checkResidualCount(residuals, blockSize, predOrder); err != nil {
		return nil, err
	}
	if err := c.contents.Reset(order); err != nil {
		return nil, err
	}
	nparts := 1 << uint(order)
	start := 0
	for i := 0; i < nparts; i++ {
		n := partitionLen(i, first, rest)
		param, rawBits := chooseParam(residuals[start:start+n], m)
		start += n
		if err := c.contents.SetPartition(i, param, rawBits); err != nil {
			return nil, err
		}
	}
	pr := &Partitioned{
		Method:   m,
		Order:    order,
		Contents: &c.contents,
	}
	return pr, nil
}

// chooseParam returns the Rice parameter of the partition and, for escaped
// partitions, the raw sample size.
func chooseParam(part []int32, m Method) (param, rawBits uint) {
	if len(part) == 0 {
		return 0, 0
	}
	maxK := m.MaxParam()
	if maxK > maxSearchParam {
		maxK = maxSearchParam
	}
	bestK := uint(0)
	bestCost := uint64(math.MaxUint64)
	for k := uint(0); k <= maxK; k++ {
		var sum uint64
		for _, residual := range part {
			sum += uint64(bits.EncodeZigZag(residual) >> k)
		}
		cost := sum + uint64(len(part))*uint64(1+k)
		if cost < bestCost {
			bestK, bestCost = k, cost
		}
		// Larger parameters only add bits once all quotients are zero.
		if sum == 0 {
			break
		}
	}

	// Escape policy.
	var width uint
	for _, residual := range part {
		if w := bits.Width(residual); w > width {
			width = w
		}
	}
	if width < 1<<escapeBits {
		rawCost := escapeBits + uint64(len(part))*uint64(width)
		if rawCost < bestCost {
			return m.EscapeParam(), width
		}
	}
	return bestK, 0
}

// Encode analyzes the residuals of a subframe with blockSize samples and
// predOrder warm-up samples using 2^order partitions, and writes the partition
// order and Rice partitions to bw.
func (c *Coder) Encode(bw BitWriter, residuals []int32, blockSize, predOrder, order int, m Method, p format.Profile) (*Partitioned, error) {
	pr, err := c.Analyze(residuals, blockSize, predOrder, order, m, p)
	if err != nil {
		return nil, err
	}
	if err := Write(bw, pr, residuals, blockSize, predOrder); err != nil {
		return nil, err
	}
	return pr, nil
}

// EncodeResidual writes the 2-bit residual coding method followed by the
// partitioned Rice coded residuals to bw.
//
// Residual coding method:
//
//	00: Rice coding with a 4-bit Rice parameter.
//	01: Rice coding with a 5-bit Rice parameter.
//	10: reserved.
//	11: reserved.
func (c *Coder) EncodeResidual(bw BitWriter, residuals []int32, blockSize, predOrder, order int, m Method, p format.Profile) (*Partitioned, error) {
	pr, err := c.Analyze(residuals, blockSize, predOrder, order, m, p)
	if err != nil {
		return nil, err
	}
	// 2 bits: Residual coding method.
	if err := bw.WriteBits(uint64(m), methodBits); err != nil {
		return nil, errutil.Err(err)
	}
	if err := Write(bw, pr, residuals, blockSize, predOrder); err != nil {
		return nil, err
	}
	return pr, nil
}

// Decode reads the partition order and Rice partitions of a subframe with
// blockSize samples and predOrder warm-up samples from br, and returns the
// decoded residuals. Partition orders outside the bounds of profile p are
// rejected.
func (c *Coder) Decode(br BitReader, blockSize, predOrder int, m Method, p format.Profile) ([]int32, *Partitioned, error) {
	if err := m.validate(); err != nil {
		return nil, nil, err
	}

	// 4 bits: Partition order.
	x, err := br.ReadBits(partOrderBits)
	if err != nil {
		return nil, nil, unexpected(err, "partition order")
	}
	order := int(x)
	if err := format.ValidatePartitionOrder(order, p); err != nil {
		return nil, nil, err
	}
	first, rest, err := Geometry(blockSize, predOrder, order)
	if err != nil {
		return nil, nil, err
	}
	if err := c.contents.Reset(order); err != nil {
		return nil, nil, err
	}

	// Parse Rice partitions; in total 2^order partitions.
	paramBits := m.ParamBits()
	escape := m.EscapeParam()
	residuals := make([]int32, 0, blockSize-predOrder)
	nparts := 1 << uint(order)
	for i := 0; i < nparts; i++ {
		n := partitionLen(i, first, rest)

		// (4 or 5) bits: Rice parameter.
		x, err := br.ReadBits(paramBits)
		if err != nil {
			return nil, nil, unexpected(err, "Rice parameter")
		}
		param := uint(x)

		if param == escape {
			// 1111 or 11111: Escape code, meaning the partition is in unencoded
			// binary form using n bits per sample; n follows as a 5-bit number.
			x, err := br.ReadBits(escapeBits)
			if err != nil {
				return nil, nil, unexpected(err, "raw sample size")
			}
			width := uint(x)
			if err := c.contents.SetPartition(i, param, width); err != nil {
				return nil, nil, err
			}
			for j := 0; j < n; j++ {
				var raw uint64
				if width > 0 {
					if raw, err = br.ReadBits(uint8(width)); err != nil {
						return nil, nil, unexpected(err, "escaped residual")
					}
				}
				// The residuals of escaped partitions are stored as signed two's
				// complement; e.g. with 3 bits per residual, -1 is 0b111.
				residuals = append(residuals, int32(bits.IntN(raw, width)))
			}
			continue
		}

		if param > m.MaxParam() {
			return nil, nil, errors.Wrapf(ErrParameterOutOfRange, "partition %d: parameter %d", i, param)
		}
		if err := c.contents.SetPartition(i, param, 0); err != nil {
			return nil, nil, err
		}

		// Decode the Rice encoded residuals of the partition.
		for j := 0; j < n; j++ {
			residual, err := readRiceResidual(br, param)
			if err != nil {
				return nil, nil, errors.WithMessagef(err, "partition %d", i)
			}
			residuals = append(residuals, residual)
		}
	}

	pr := &Partitioned{
		Method:   m,
		Order:    order,
		Contents: &c.contents,
	}
	return residuals, pr, nil
}

// DecodeResidual reads the 2-bit residual coding method followed by the
// partitioned Rice coded residuals from br.
func (c *Coder) DecodeResidual(br BitReader, blockSize, predOrder int, p format.Profile) ([]int32, *Partitioned, error) {
	// 2 bits: Residual coding method.
	x, err := br.ReadBits(methodBits)
	if err != nil {
		return nil, nil, unexpected(err, "residual coding method")
	}
	return c.Decode(br, blockSize, predOrder, Method(x), p)
}

// readRiceResidual decodes and returns a Rice encoded residual (error signal)
// with Rice parameter k.
func readRiceResidual(br BitReader, k uint) (int32, error) {
	// Read unary encoded most significant bits.
	high, err := bits.ReadUnary(br)
	if err != nil {
		return 0, unexpected(err, "Rice residual")
	}
	if high > math.MaxUint32>>k {
		return 0, errors.Wrapf(ErrParameterOutOfRange, "Rice quotient %d overflows 32 bits with parameter %d", high, k)
	}

	// Read binary encoded least significant bits.
	var low uint64
	if k > 0 {
		if low, err = br.ReadBits(uint8(k)); err != nil {
			return 0, unexpected(err, "Rice residual")
		}
	}
	folded := uint32(high<<k | low)

	// ZigZag decode.
	return bits.DecodeZigZag(folded), nil
}
