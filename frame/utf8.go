package frame

import (
	"github.com/mewkiz/flacfmt/internal/bits"
	"github.com/mewkiz/pkg/errutil"
	"github.com/pkg/errors"
)

const (
	tx = 0x80 // 1000 0000
	t2 = 0xC0 // 1100 0000
	t3 = 0xE0 // 1110 0000
	t4 = 0xF0 // 1111 0000
	t5 = 0xF8 // 1111 1000
	t6 = 0xFC // 1111 1100
	t7 = 0xFE // 1111 1110
	t8 = 0xFF // 1111 1111

	maskx = 0x3F // 0011 1111
	mask2 = 0x1F // 0001 1111
	mask3 = 0x0F // 0000 1111
	mask4 = 0x07 // 0000 0111
	mask5 = 0x03 // 0000 0011
	mask6 = 0x01 // 0000 0001

	rune1Max = 1<<7 - 1
	rune2Max = 1<<11 - 1
	rune3Max = 1<<16 - 1
	rune4Max = 1<<21 - 1
	rune5Max = 1<<26 - 1
	rune6Max = 1<<31 - 1
	rune7Max = 1<<36 - 1
)

// encodeUTF8 encodes x as a "UTF-8" coded number.
func encodeUTF8(bw bits.BitWriter, x uint64) error {
	// 1-byte, 7-bit sequence?
	if x <= rune1Max {
		if err := bw.WriteBits(x, 8); err != nil {
			return errutil.Err(err)
		}
		return nil
	}

	// get number of continuation bytes and store bits of c0.
	var (
		// number of continuation bytes.
		l int
		// bits of c0.
		c0 uint64
	)
	switch {
	case x <= rune2Max:
		// if c0 == 110xxxxx
		// total: 11 bits (5 + 6)
		l = 1
		c0 = t2 | (x>>6)&mask2
	case x <= rune3Max:
		// if c0 == 1110xxxx
		// total: 16 bits (4 + 6 + 6)
		l = 2
		c0 = t3 | (x>>(6*2))&mask3
	case x <= rune4Max:
		// if c0 == 11110xxx
		// total: 21 bits (3 + 6 + 6 + 6)
		l = 3
		c0 = t4 | (x>>(6*3))&mask4
	case x <= rune5Max:
		// if c0 == 111110xx
		// total: 26 bits (2 + 6 + 6 + 6 + 6)
		l = 4
		c0 = t5 | (x>>(6*4))&mask5
	case x <= rune6Max:
		// if c0 == 1111110x
		// total: 31 bits (1 + 6 + 6 + 6 + 6 + 6)
		l = 5
		c0 = t6 | (x>>(6*5))&mask6
	case x <= rune7Max:
		// if c0 == 11111110
		// total: 36 bits (0 + 6 + 6 + 6 + 6 + 6 + 6)
		l = 6
		c0 = t7
	default:
		return errutil.Newf("frame.encodeUTF8: unable to encode %d; exceeds 36 bits", x)
	}
	// Store bits of c0.
	if err := bw.WriteBits(c0, 8); err != nil {
		return errutil.Err(err)
	}

	// Store continuation bytes.
	for i := l - 1; i >= 0; i-- {
		c := tx | (x>>uint(6*i))&maskx
		if err := bw.WriteBits(c, 8); err != nil {
			return errutil.Err(err)
		}
	}
	return nil
}

// decodeUTF8 decodes a "UTF-8" coded number and returns it.
//
// ref: http://permalink.gmane.org/gmane.comp.audio.compression.flac.devel/3033
//
// Algorithm description:
//   - read one byte B0 from the stream
//   - if B0 = 0xxxxxxx then the read value is B0 -> end
//   - if B0 = 10xxxxxx, the encoding is invalid
//   - if B0 = 11xxxxxx, set L to the number of leading binary 1s minus 1:
//     B0 = 110xxxxx -> L = 1
//     B0 = 1110xxxx -> L = 2
//     B0 = 11110xxx -> L = 3
//     B0 = 111110xx -> L = 4
//     B0 = 1111110x -> L = 5
//     B0 = 11111110 -> L = 6
//   - assign the bits following the encoding (the x bits in the examples) to
//     a variable R with a magnitude of at least 36 bits
//   - loop from 1 to L
//   - left shift R 6 bits
//   - read B from the stream
//   - if B does not match 10xxxxxx, the encoding is invalid
//   - set R = R or <the lower 6 bits from B>
//   - the read value is R
func decodeUTF8(br bits.BitReader) (x uint64, err error) {
	c0, err := br.ReadBits(8)
	if err != nil {
		return 0, unexpected(err)
	}

	// 1-byte, 7-bit sequence?
	if c0 < tx {
		// if c0 == 0xxxxxxx
		// total: 7 bits (7)
		return c0, nil
	}

	// unexpected continuation byte?
	if c0 < t2 {
		// if c0 == 10xxxxxx
		return 0, errors.Wrapf(ErrReserved, "unexpected continuation byte 0x%02X of \"UTF-8\" coded number", c0)
	}

	// get number of continuation bytes and store bits from c0.
	var l int
	switch {
	case c0 < t3:
		// if c0 == 110xxxxx
		// total: 11 bits (5 + 6)
		l = 1
		x = c0 & mask2
	case c0 < t4:
		// if c0 == 1110xxxx
		// total: 16 bits (4 + 6 + 6)
		l = 2
		x = c0 & mask3
	case c0 < t5:
		// if c0 == 11110xxx
		// total: 21 bits (3 + 6 + 6 + 6)
		l = 3
		x = c0 & mask4
	case c0 < t6:
		// if c0 == 111110xx
		// total: 26 bits (2 + 6 + 6 + 6 + 6)
		l = 4
		x = c0 & mask5
	case c0 < t7:
		// if c0 == 1111110x
		// total: 31 bits (1 + 6 + 6 + 6 + 6 + 6)
		l = 5
		x = c0 & mask6
	case c0 < t8:
		// if c0 == 11111110
		// total: 36 bits (0 + 6 + 6 + 6 + 6 + 6 + 6)
		l = 6
		x = 0
	default:
		return 0, errors.Wrapf(ErrReserved, "invalid \"UTF-8\" coded number prefix 0x%02X", c0)
	}

	// store bits from continuation bytes.
	for i := 0; i < l; i++ {
		x <<= 6
		c, err := br.ReadBits(8)
		if err != nil {
			return 0, unexpected(err)
		}
		if c < tx || t2 <= c {
			// if c != 10xxxxxx
			return 0, errors.Wrapf(ErrReserved, "expected continuation byte of \"UTF-8\" coded number, got 0x%02X", c)
		}
		x |= c & maskx
	}

	// check if number representation is larger than necessary.
	switch l {
	case 1:
		if x <= rune1Max {
			return 0, errors.Wrapf(ErrReserved, "larger number representation than necessary; x (%d) stored in %d bytes", x, l+1)
		}
	case 2:
		if x <= rune2Max {
			return 0, errors.Wrapf(ErrReserved, "larger number representation than necessary; x (%d) stored in %d bytes", x, l+1)
		}
	case 3:
		if x <= rune3Max {
			return 0, errors.Wrapf(ErrReserved, "larger number representation than necessary; x (%d) stored in %d bytes", x, l+1)
		}
	case 4:
		if x <= rune4Max {
			return 0, errors.Wrapf(ErrReserved, "larger number representation than necessary; x (%d) stored in %d bytes", x, l+1)
		}
	case 5:
		if x <= rune5Max {
			return 0, errors.Wrapf(ErrReserved, "larger number representation than necessary; x (%d) stored in %d bytes", x, l+1)
		}
	case 6:
		if x <= rune6Max {
			return 0, errors.Wrapf(ErrReserved, "larger number representation than necessary; x (%d) stored in %d bytes", x, l+1)
		}
	}
	return x, nil
}
