package rice

import (
	"github.com/mewkiz/flacfmt/format"
	"github.com/pkg/errors"
)

// Contents holds the Rice parameter and raw sample size of each partition of a
// residual section.
//
// The active partition order determines the number of partitions, 2^order.
// Storage is allocated for 2^CapacityByOrder partitions; the capacity only
// grows, so a Contents reused across subframes stops allocating once it has
// seen the largest partition order of a stream.
//
// The zero value is an empty Contents ready to use.
type Contents struct {
	// Rice parameter of each partition; backing storage of length
	// 2^capacityByOrder.
	params []uint
	// Raw sample size in bits-per-sample of each escaped partition, zero for
	// Rice coded partitions; same length as params.
	rawBits []uint
	// Active partition order.
	order int
	// Base 2 logarithm of the allocated storage length.
	capacityByOrder int
}

// NewContents returns a new Contents with storage for partitions of the given
// order, and the given active order.
func NewContents(order int) (*Contents, error) {
	c := &Contents{}
	if err := c.Reset(order); err != nil {
		return nil, err
	}
	return c, nil
}

// EnsureCapacity grows the storage to hold at least 2^order partitions. It
// reallocates only if order exceeds the current capacity, and never shrinks
// the storage. The active partition order is left unchanged.
func (c *Contents) EnsureCapacity(order int) error {
	if err := format.ValidatePartitionOrder(order, format.Full); err != nil {
		return err
	}
	if c.params != nil && order <= c.capacityByOrder {
		return nil
	}
	n := 1 << uint(order)
	params := make([]uint, n)
	rawBits := make([]uint, n)
	copy(params, c.params)
	copy(rawBits, c.rawBits)
	c.params, c.rawBits = params, rawBits
	c.capacityByOrder = order
	return nil
}

// Reset sets the active partition order, growing the storage if needed, and
// clears the parameters of the active partitions.
func (c *Contents) Reset(order int) error {
	if err := c.EnsureCapacity(order); err != nil {
		return err
	}
	c.order = order
	n := c.Len()
	for i := 0; i < n; i++ {
		c.params[i] = 0
		c.rawBits[i] = 0
	}
	return nil
}

// Order returns the active partition order.
func (c *Contents) Order() int {
	return c.order
}

// CapacityByOrder returns the base 2 logarithm of the number of partitions the
// storage can hold.
func (c *Contents) CapacityByOrder() int {
	return c.capacityByOrder
}

// Len returns the number of active partitions, 2^Order; zero if no storage has
// been allocated.
func (c *Contents) Len() int {
	if c.params == nil {
		return 0
	}
	return 1 << uint(c.order)
}

// SetPartition sets the Rice parameter and raw sample size of the i:th active
// partition. rawBits is zero for Rice coded partitions.
func (c *Contents) SetPartition(i int, param, rawBits uint) error {
	if err := c.checkIndex(i); err != nil {
		return err
	}
	c.params[i] = param
	c.rawBits[i] = rawBits
	return nil
}

// Partition returns the Rice parameter and raw sample size of the i:th active
// partition.
func (c *Contents) Partition(i int) (param, rawBits uint, err error) {
	if err := c.checkIndex(i); err != nil {
		return 0, 0, err
	}
	return c.params[i], c.rawBits[i], nil
}

// Params returns the Rice parameters of the active partitions. The returned
// slice aliases the storage of c and must not be modified.
func (c *Contents) Params() []uint {
	n := c.Len()
	return c.params[:n:n]
}

// RawBits returns the raw sample sizes of the active partitions. The returned
// slice aliases the storage of c and must not be modified.
func (c *Contents) RawBits() []uint {
	n := c.Len()
	return c.rawBits[:n:n]
}

// checkIndex returns ErrIndexOutOfRange if i is not an active partition.
func (c *Contents) checkIndex(i int) error {
	if n := c.Len(); i < 0 || i >= n {
		return errors.Wrapf(ErrIndexOutOfRange, "index %d, partition count %d", i, n)
	}
	return nil
}
