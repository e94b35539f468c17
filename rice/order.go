package rice

import (
	"github.com/mewkiz/flacfmt/format"
	"github.com/pkg/errors"
)

// ChooseOrder returns the partition order between minOrder and maxOrder, both
// inclusive, which Rice codes the residuals of a subframe with blockSize
// samples and predOrder warm-up samples in the fewest bits. Orders outside the
// bounds of profile p, or which do not evenly divide the block size, are
// skipped. Ties are broken towards the smaller order.
//
// The contents of the coder are overwritten; call Encode with the returned
// order to encode the residuals.
func (c *Coder) ChooseOrder(residuals []int32, blockSize, predOrder, minOrder, maxOrder int, m Method, p format.Profile) (order int, err error) {
	if minOrder < 0 {
		minOrder = 0
	}
	best := -1
	var bestCost uint64
	for o := minOrder; o <= maxOrder; o++ {
		if format.ValidatePartitionOrder(o, p) != nil {
			break
		}
		if _, _, err := Geometry(blockSize, predOrder, o); err != nil {
			continue
		}
		pr, err := c.Analyze(residuals, blockSize, predOrder, o, m, p)
		if err != nil {
			return 0, err
		}
		cost, err := Cost(pr, residuals, blockSize, predOrder)
		if err != nil {
			return 0, err
		}
		if best == -1 || cost < bestCost {
			best, bestCost = o, cost
		}
	}
	if best == -1 {
		return 0, errors.Wrapf(ErrInvalidPartitionGeometry, "no partition order in [%d, %d] fits block size %d with predictor order %d", minOrder, maxOrder, blockSize, predOrder)
	}
	return best, nil
}
