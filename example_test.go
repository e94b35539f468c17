package flacfmt_test

import (
	"fmt"
	"log"

	"github.com/mewkiz/flacfmt"
	"github.com/mewkiz/flacfmt/meta"
)

func ExampleCheckSubset() {
	// 8192 samples per block exceeds the Subset limit of 4608 for sample rates
	// of at most 48 kHz.
	info := &meta.StreamInfo{
		BlockSizeMin:  8192,
		BlockSizeMax:  8192,
		SampleRate:    44100,
		NChannels:     2,
		BitsPerSample: 16,
	}
	report, err := flacfmt.CheckSubset(flacfmt.Input{Info: info, PartitionOrders: []int{4, 9}})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(report.Class)
	for _, v := range report.Violations {
		fmt.Println(v)
	}
	// Output:
	// full format only
	// stream info: block size 8192 out of range [1, 4608] (subset)
	// partition order 1: partition order 9 out of range [0, 8] (subset)
}
