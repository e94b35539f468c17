package frame

import (
	"bytes"
	"io"

	"github.com/mewkiz/flacfmt/format"
	"github.com/mewkiz/flacfmt/internal/bits"
	"github.com/mewkiz/flacfmt/internal/hashutil"
	"github.com/mewkiz/flacfmt/internal/hashutil/crc8"
	"github.com/mewkiz/pkg/errutil"
	"github.com/pkg/errors"
)

// SyncCode is the sync code of frame headers. Bit representation:
// 11111111111110.
const SyncCode = 0x3FFE

// Errors returned when parsing frame headers.
var (
	// ErrInvalidSync reports a frame header not starting with the sync code.
	ErrInvalidSync = errors.New("frame: invalid sync code")
	// ErrChecksumMismatch reports a frame header whose CRC-8 checksum does not
	// match its contents.
	ErrChecksumMismatch = errors.New("frame: CRC-8 checksum mismatch")
	// ErrReserved reports a reserved bit pattern in a frame header.
	ErrReserved = errors.New("frame: reserved bit pattern")
)

// Sample size codes of the frame header.
//
//	000 : get from STREAMINFO metadata block
//	001 : 8 bits per sample
//	010 : 12 bits per sample
//	011 : reserved
//	100 : 16 bits per sample
//	101 : 20 bits per sample
//	110 : 24 bits per sample
//	111 : 32 bits per sample
var bitsPerSampleFromCode = [...]uint8{
	0x0: 0,
	0x1: 8,
	0x2: 12,
	0x4: 16,
	0x5: 20,
	0x6: 24,
	0x7: 32,
}

// Encode writes the frame header to w, including the trailing CRC-8 checksum.
// Fields which cannot be represented in a frame header are reported as errors
// before anything is written.
func (hdr *Header) Encode(w io.Writer) error {
	// Buffer the header, as the CRC-8 covers everything before the checksum,
	// including the sync code.
	buf := &bytes.Buffer{}
	bw := bits.NewWriter(buf)

	blockSizeCode, nblockSizeSuffixBits, err := format.BlockSizeCode(int(hdr.BlockSize))
	if err != nil {
		return errors.WithStack(err)
	}
	sampleRateCode, sampleRateSuffix, nsampleRateSuffixBits, err := format.SampleRateCode(hdr.SampleRate)
	if err != nil {
		return errors.WithStack(err)
	}
	channelsCode, err := hdr.channelsCode()
	if err != nil {
		return err
	}
	bpsCode, err := hdr.bitsPerSampleCode()
	if err != nil {
		return err
	}

	//  Sync code: 11111111111110
	if err := bw.Write(SyncCode, 14); err != nil {
		return errutil.Err(err)
	}

	// Reserved: 0
	if err := bw.Write(0x0, 1); err != nil {
		return errutil.Err(err)
	}

	// Blocking strategy:
	//    0 : fixed-blocksize stream; frame header encodes the frame number
	//    1 : variable-blocksize stream; frame header encodes the sample number
	strategy := uint64(1)
	if hdr.HasFixedBlockSize {
		strategy = 0
	}
	if err := bw.Write(strategy, 1); err != nil {
		return errutil.Err(err)
	}

	// Block size in inter-channel samples.
	if err := bw.Write(uint64(blockSizeCode), 4); err != nil {
		return errutil.Err(err)
	}

	// Sample rate.
	if err := bw.Write(uint64(sampleRateCode), 4); err != nil {
		return errutil.Err(err)
	}

	// Channel assignment.
	//    0000-0111 : (number of independent channels)-1.
	//    1000 : left/side stereo
	//    1001 : right/side stereo
	//    1010 : mid/side stereo
	//    1011-1111 : reserved
	if err := bw.Write(channelsCode, 4); err != nil {
		return errutil.Err(err)
	}

	// Sample size in bits.
	if err := bw.Write(bpsCode, 3); err != nil {
		return errutil.Err(err)
	}

	// Reserved: 0
	if err := bw.Write(0x0, 1); err != nil {
		return errutil.Err(err)
	}

	//    if (variable blocksize)
	//       <8-56>:"UTF-8" coded sample number (decoded number is 36 bits)
	//    else
	//       <8-48>:"UTF-8" coded frame number (decoded number is 31 bits)
	if err := hdr.checkNum(); err != nil {
		return err
	}
	if err := encodeUTF8(bw, hdr.Num); err != nil {
		return errutil.Err(err)
	}

	// Write block size after the frame header (used for uncommon block sizes).
	if nblockSizeSuffixBits > 0 {
		// 0110 : get 8 bit (blocksize-1) from end of header
		// 0111 : get 16 bit (blocksize-1) from end of header
		if err := bw.Write(uint64(hdr.BlockSize-1), uint(nblockSizeSuffixBits)); err != nil {
			return errutil.Err(err)
		}
	}

	// Write sample rate after the frame header (used for uncommon sample rates).
	if nsampleRateSuffixBits > 0 {
		if err := bw.Write(sampleRateSuffix, uint(nsampleRateSuffixBits)); err != nil {
			return errutil.Err(err)
		}
	}

	// Flush pending writes.
	if err := bw.Close(); err != nil {
		return errutil.Err(err)
	}

	// CRC-8 (polynomial = x^8 + x^2 + x^1 + x^0, initialized with 0) of
	// everything before the crc, including the sync code.
	crc := crc8.ChecksumATM(buf.Bytes())
	buf.WriteByte(crc)
	if _, err := w.Write(buf.Bytes()); err != nil {
		return errutil.Err(err)
	}
	return nil
}

// channelsCode returns the 4-bit channel assignment code of the header.
func (hdr *Header) channelsCode() (uint64, error) {
	switch {
	case hdr.Channels <= ChannelsLRCLfeLsRsSlSr:
		return uint64(hdr.Channels.Count() - 1), nil
	case hdr.Channels <= ChannelsMidSide:
		return 0x8 + uint64(hdr.Channels-ChannelsLeftSide), nil
	}
	return 0, errors.Wrapf(ErrReserved, "channel assignment %d", hdr.Channels)
}

// bitsPerSampleCode returns the 3-bit sample size code of the header.
func (hdr *Header) bitsPerSampleCode() (uint64, error) {
	for code, bps := range bitsPerSampleFromCode {
		if bps == hdr.BitsPerSample && (bps != 0 || code == 0) {
			return uint64(code), nil
		}
	}
	return 0, errutil.Newf("frame.Header.Encode: unable to encode sample size %d", hdr.BitsPerSample)
}

// checkNum validates the frame or sample number of the header against the
// width of its field.
func (hdr *Header) checkNum() error {
	if hdr.HasFixedBlockSize && hdr.Num > maxFrameNum {
		return errors.WithStack(&format.RangeError{Field: "frame number", Value: int64(hdr.Num), Min: 0, Max: maxFrameNum, Profile: format.Full})
	}
	if hdr.Num > maxSampleNum {
		return errors.WithStack(&format.RangeError{Field: "sample number", Value: int64(hdr.Num), Min: 0, Max: maxSampleNum, Profile: format.Full})
	}
	return nil
}

// Largest frame number and sample number of frame headers.
const (
	maxFrameNum  = 1<<31 - 1
	maxSampleNum = 1<<36 - 1
)

// Parse reads and parses a frame header from r, and verifies its CRC-8
// checksum. The reader is not read past the end of the frame header.
//
// Frame header format (pseudo code):
//
//	type FRAME_HEADER struct {
//	   sync_code          uint14
//	   _                  uint1
//	   blocking_strategy  uint1
//	   block_size_spec    uint4
//	   sample_rate_spec   uint4
//	   channel_assignment uint4
//	   sample_size_spec   uint3
//	   _                  uint1
//	   if blocking_strategy == 1 {
//	      // "UTF-8" coded int, from 1 to 7 bytes.
//	      sample_num      uint36
//	   } else {
//	      // "UTF-8" coded int, from 1 to 6 bytes.
//	      frame_num       uint31
//	   }
//	   switch block_size_spec {
//	   case 0110:
//	      block_size      uint8  // block_size-1
//	   case 0111:
//	      block_size      uint16 // block_size-1
//	   }
//	   switch sample_rate_spec {
//	   case 1100:
//	      sample_rate     uint8  // sample rate in kHz.
//	   case 1101:
//	      sample_rate     uint16 // sample rate in Hz.
//	   case 1110:
//	      sample_rate     uint16 // sample rate in daHz (tens of Hz).
//	   }
//	   crc8               uint8
//	}
func Parse(r io.Reader) (*Header, error) {
	// Record the bytes of the header in a running CRC-8 hash.
	hr := &hashReader{r: r, h: crc8.NewATM()}
	br := bits.NewReader(hr)
	hdr := new(Header)

	// 14 bits: SyncCode.
	x, err := br.Read(14)
	if err != nil {
		if err == io.EOF {
			// End of stream at a frame boundary.
			return nil, io.EOF
		}
		return nil, unexpected(err)
	}
	if x != SyncCode {
		return nil, errors.Wrapf(ErrInvalidSync, "expected %014b, got %014b", SyncCode, x)
	}

	// 1 bit: Reserved.
	if x, err = br.Read(1); err != nil {
		return nil, unexpected(err)
	}
	if x != 0 {
		return nil, errors.Wrap(ErrReserved, "non-zero reserved value")
	}

	// 1 bit: HasFixedBlockSize.
	if x, err = br.Read(1); err != nil {
		return nil, unexpected(err)
	}
	hdr.HasFixedBlockSize = x == 0

	// 4 bits: BlockSize.
	if x, err = br.Read(4); err != nil {
		return nil, unexpected(err)
	}
	blockSize, nblockSizeSuffixBits, err := format.BlockSizeFromCode(uint8(x))
	if err != nil {
		return nil, errors.Wrap(ErrReserved, err.Error())
	}
	hdr.BlockSize = uint16(blockSize)

	// 4 bits: SampleRate.
	if x, err = br.Read(4); err != nil {
		return nil, unexpected(err)
	}
	sampleRate, nsampleRateSuffixBits, unit, err := format.SampleRateFromCode(uint8(x))
	if err != nil {
		return nil, errors.Wrap(ErrReserved, err.Error())
	}
	hdr.SampleRate = sampleRate

	// 4 bits: Channels.
	if x, err = br.Read(4); err != nil {
		return nil, unexpected(err)
	}
	switch {
	case x <= 0x7:
		hdr.Channels = Channels(x)
	case x <= 0xA:
		hdr.Channels = ChannelsLeftSide + Channels(x-0x8)
	default:
		// 1011-1111 : reserved
		return nil, errors.Wrapf(ErrReserved, "channel assignment bit pattern (%04b)", x)
	}

	// 3 bits: BitsPerSample.
	if x, err = br.Read(3); err != nil {
		return nil, unexpected(err)
	}
	if x == 0x3 {
		// 011 : reserved
		return nil, errors.Wrapf(ErrReserved, "sample size bit pattern (%03b)", x)
	}
	hdr.BitsPerSample = bitsPerSampleFromCode[x]

	// 1 bit: Reserved.
	if x, err = br.Read(1); err != nil {
		return nil, unexpected(err)
	}
	if x != 0 {
		return nil, errors.Wrap(ErrReserved, "non-zero reserved value")
	}

	//    if (variable blocksize)
	//       <8-56>:"UTF-8" coded sample number (decoded number is 36 bits)
	//    else
	//       <8-48>:"UTF-8" coded frame number (decoded number is 31 bits)
	if hdr.Num, err = decodeUTF8(br); err != nil {
		return nil, err
	}
	if err := hdr.checkNum(); err != nil {
		return nil, err
	}

	// Block size stored after the frame header.
	if nblockSizeSuffixBits > 0 {
		if x, err = br.Read(uint(nblockSizeSuffixBits)); err != nil {
			return nil, unexpected(err)
		}
		if x+1 > format.MaxBlockSize {
			// (blocksize-1) of 65535 does not fit the 16-bit block size fields
			// of StreamInfo.
			return nil, errors.WithStack(&format.RangeError{Field: "block size", Value: int64(x + 1), Min: 1, Max: format.MaxBlockSize, Profile: format.Full})
		}
		hdr.BlockSize = uint16(x + 1)
	}

	// Sample rate stored after the frame header.
	if nsampleRateSuffixBits > 0 {
		if x, err = br.Read(uint(nsampleRateSuffixBits)); err != nil {
			return nil, unexpected(err)
		}
		hdr.SampleRate = uint32(x) * unit
	}

	// Verify the CRC-8 of everything read so far, including the sync code.
	want := hr.h.Sum8()
	got, err := br.Read(8)
	if err != nil {
		return nil, unexpected(err)
	}
	if uint8(got) != want {
		return nil, errors.Wrapf(ErrChecksumMismatch, "expected 0x%02X, got 0x%02X", want, got)
	}
	return hdr, nil
}

// hashReader reads bytes from r and adds them to a running hash. It reads
// one byte at a time, so the bit reader wrapping it never reads ahead.
type hashReader struct {
	// Underlying reader.
	r io.Reader
	// Running hash of the bytes read.
	h hashutil.Hash8
	// Buffer of ReadByte.
	buf [1]byte
}

// Read reads up to len(p) bytes into p.
func (hr *hashReader) Read(p []byte) (int, error) {
	n, err := hr.r.Read(p)
	hr.h.Write(p[:n])
	return n, err
}

// ReadByte reads and returns the next byte.
func (hr *hashReader) ReadByte() (byte, error) {
	if _, err := io.ReadFull(hr, hr.buf[:]); err != nil {
		return 0, err
	}
	return hr.buf[0], nil
}

// unexpected returns io.ErrUnexpectedEOF if err is io.EOF, and returns err
// otherwise.
func unexpected(err error) error {
	if err == io.EOF {
		return errors.WithStack(io.ErrUnexpectedEOF)
	}
	return errors.WithStack(err)
}
