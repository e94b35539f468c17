package rice

import (
	"github.com/mewkiz/flacfmt/format"
	"github.com/pkg/errors"
)

// Geometry returns the number of residuals of the first partition and of each
// of the remaining partitions, for a subframe of blockSize samples of which the
// first predOrder are unencoded warm-up samples.
//
// The block size must be evenly divisible by the 2^order partitions, and the
// first partition, which is shortened by the warm-up samples, may not have a
// negative length.
func Geometry(blockSize, predOrder, order int) (first, rest int, err error) {
	if err := format.ValidatePartitionOrder(order, format.Full); err != nil {
		return 0, 0, err
	}
	if blockSize <= 0 || predOrder < 0 || predOrder > blockSize {
		return 0, 0, errors.Wrapf(ErrInvalidPartitionGeometry, "block size %d, predictor order %d", blockSize, predOrder)
	}
	nparts := 1 << uint(order)
	if blockSize%nparts != 0 {
		return 0, 0, errors.Wrapf(ErrInvalidPartitionGeometry, "block size %d not divisible into %d partitions", blockSize, nparts)
	}
	rest = blockSize >> uint(order)
	first = rest - predOrder
	if first < 0 {
		return 0, 0, errors.Wrapf(ErrInvalidPartitionGeometry, "partition size %d shorter than predictor order %d", rest, predOrder)
	}
	return first, rest, nil
}

// partitionLen returns the number of residuals in the i:th partition.
func partitionLen(i, first, rest int) int {
	if i == 0 {
		return first
	}
	return rest
}

// checkResidualCount returns an error if the number of residuals does not
// match the block size and predictor order.
func checkResidualCount(residuals []int32, blockSize, predOrder int) error {
	if want := blockSize - predOrder; len(residuals) != want {
		return errors.Wrapf(ErrInvalidPartitionGeometry, "residual count mismatch; expected %d, got %d", want, len(residuals))
	}
	return nil
}
