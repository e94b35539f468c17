package format

import (
	"github.com/mewkiz/pkg/errutil"
)

// Block size codes of the frame header.
//
//	0000      : reserved
//	0001      : 192 samples
//	0010-0101 : 576 * (2^(n-2)) samples, i.e. 576/1152/2304/4608
//	0110      : get 8 bit (blocksize-1) from end of header
//	0111      : get 16 bit (blocksize-1) from end of header
//	1000-1111 : 256 * (2^(n-8)) samples, i.e. 256/512/1024/2048/4096/8192/16384/32768
const (
	blockSizeCode8BitSuffix  = 0x6
	blockSizeCode16BitSuffix = 0x7
)

// BlockSizeCode returns the 4-bit frame header code of the block size n, and
// the number of bits used to store (n-1) after the frame header; zero for
// canonical block sizes.
func BlockSizeCode(n int) (code, suffixBits uint8, err error) {
	switch n {
	case 192:
		return 0x1, 0, nil
	case 576, 1152, 2304, 4608:
		return 0x2 + log2(n/576), 0, nil
	case 256, 512, 1024, 2048, 4096, 8192, 16384, 32768:
		return 0x8 + log2(n/256), 0, nil
	}
	switch {
	case n >= 1 && n <= 256:
		return blockSizeCode8BitSuffix, 8, nil
	case n >= 1 && n <= 65536:
		return blockSizeCode16BitSuffix, 16, nil
	}
	return 0, 0, errutil.Newf("format.BlockSizeCode: unable to encode block size %d", n)
}

// BlockSizeFromCode returns the block size of the 4-bit frame header code. For
// codes which store the block size after the frame header, n is zero and
// suffixBits specifies the width of the stored (n-1) value.
func BlockSizeFromCode(code uint8) (n int, suffixBits uint8, err error) {
	switch {
	case code == 0x0:
		return 0, 0, errutil.Newf("format.BlockSizeFromCode: reserved block size bit pattern (%04b)", code)
	case code == 0x1:
		return 192, 0, nil
	case code >= 0x2 && code <= 0x5:
		return 576 << (code - 0x2), 0, nil
	case code == blockSizeCode8BitSuffix:
		return 0, 8, nil
	case code == blockSizeCode16BitSuffix:
		return 0, 16, nil
	case code >= 0x8 && code <= 0xF:
		return 256 << (code - 0x8), 0, nil
	}
	return 0, 0, errutil.Newf("format.BlockSizeFromCode: invalid block size bit pattern (%b)", code)
}

// IsCanonicalBlockSize reports whether the block size n has a dedicated frame
// header code, i.e. it is not stored after the frame header.
func IsCanonicalBlockSize(n int) bool {
	_, suffixBits, err := BlockSizeCode(n)
	return err == nil && suffixBits == 0
}

// log2 returns the base 2 logarithm of the power of two x.
func log2(x int) uint8 {
	var n uint8
	for x > 1 {
		x >>= 1
		n++
	}
	return n
}

// Sample rate codes of the frame header.
//
//	0000 : get from STREAMINFO metadata block
//	0001 : 88.2kHz
//	0010 : 176.4kHz
//	0011 : 192kHz
//	0100 : 8kHz
//	0101 : 16kHz
//	0110 : 22.05kHz
//	0111 : 24kHz
//	1000 : 32kHz
//	1001 : 44.1kHz
//	1010 : 48kHz
//	1011 : 96kHz
//	1100 : get 8 bit sample rate (in kHz) from end of header
//	1101 : get 16 bit sample rate (in Hz) from end of header
//	1110 : get 16 bit sample rate (in tens of Hz) from end of header
//	1111 : invalid, to prevent sync-fooling string of 1s
var sampleRates = [...]uint32{
	0x1: 88200,
	0x2: 176400,
	0x3: 192000,
	0x4: 8000,
	0x5: 16000,
	0x6: 22050,
	0x7: 24000,
	0x8: 32000,
	0x9: 44100,
	0xA: 48000,
	0xB: 96000,
}

// SampleRateCode returns the 4-bit frame header code of the sample rate r in
// Hz, and the value and width in bits of the suffix stored after the frame
// header for uncommon sample rates. A zero sample rate maps to code 0000.
func SampleRateCode(r uint32) (code uint8, suffix uint64, suffixBits uint8, err error) {
	if r == 0 {
		return 0x0, 0, 0, nil
	}
	for c, rate := range sampleRates {
		if rate != 0 && rate == r {
			return uint8(c), 0, 0, nil
		}
	}
	switch {
	case r <= 255000 && r%1000 == 0:
		return 0xC, uint64(r / 1000), 8, nil
	case r <= 65535:
		return 0xD, uint64(r), 16, nil
	case r <= MaxSampleRate && r%10 == 0:
		return 0xE, uint64(r / 10), 16, nil
	}
	return 0, 0, 0, errutil.Newf("format.SampleRateCode: unable to encode sample rate %d", r)
}

// SampleRateFromCode returns the sample rate in Hz of the 4-bit frame header
// code. For codes which store the sample rate after the frame header, r is
// zero, suffixBits specifies the width of the stored value and unit the
// multiplier converting it to Hz.
func SampleRateFromCode(code uint8) (r uint32, suffixBits uint8, unit uint32, err error) {
	switch {
	case code == 0x0:
		// get from STREAMINFO metadata block.
		return 0, 0, 0, nil
	case code <= 0xB:
		return sampleRates[code], 0, 0, nil
	case code == 0xC:
		return 0, 8, 1000, nil
	case code == 0xD:
		return 0, 16, 1, nil
	case code == 0xE:
		return 0, 16, 10, nil
	}
	return 0, 0, 0, errutil.Newf("format.SampleRateFromCode: invalid sample rate bit pattern (%04b)", code)
}
