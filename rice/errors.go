package rice

import (
	"io"

	"github.com/pkg/errors"
)

// Errors returned by the partitioned Rice codec. Returned errors carry context
// and should be matched using errors.Is. Partition orders outside the bounds of
// a profile are reported as format.ErrOutOfRange.
var (
	// ErrInvalidPartitionGeometry reports a block size that is not evenly
	// divisible into partitions of the requested order, or a first partition
	// shorter than the predictor order.
	ErrInvalidPartitionGeometry = errors.New("invalid partition geometry")
	// ErrParameterOutOfRange reports a Rice parameter, raw sample size or coded
	// residual that cannot be represented; it indicates a corrupt stream.
	ErrParameterOutOfRange = errors.New("rice parameter out of range")
	// ErrTruncatedStream reports a bit reader exhausted in the middle of a
	// residual section.
	ErrTruncatedStream = errors.New("truncated stream")
	// ErrIndexOutOfRange reports access to a partition outside of the active
	// partition order of Contents.
	ErrIndexOutOfRange = errors.New("partition index out of range")
	// ErrReservedMethod reports a reserved residual coding method bit pattern.
	ErrReservedMethod = errors.New("reserved residual coding method")
)

// unexpected classifies an error returned by the bit reader. Exhausted input
// is reported as ErrTruncatedStream.
func unexpected(err error, what string) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errors.Wrapf(ErrTruncatedStream, "reading %s", what)
	}
	return errors.Wrapf(err, "reading %s", what)
}
