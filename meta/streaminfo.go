package meta

import (
	"io"

	"github.com/mewkiz/flacfmt/format"
	"github.com/mewkiz/flacfmt/internal/bits"
	"github.com/mewkiz/pkg/errutil"
	"github.com/pkg/errors"
)

// StreamInfo contains the basic properties of a FLAC audio stream, such as its
// sample rate and channel count. It is the only mandatory metadata block and
// must be present as the first metadata block of a FLAC stream.
//
// A StreamInfo is not modified after construction, and may be shared between
// workers validating or decoding frames of the same stream.
//
// ref: https://www.xiph.org/flac/format.html#metadata_block_streaminfo
type StreamInfo struct {
	// Minimum block size (in samples) used in the stream; between 16 and 65535
	// samples.
	BlockSizeMin uint16
	// Maximum block size (in samples) used in the stream; between 16 and 65535
	// samples.
	BlockSizeMax uint16
	// Minimum frame size in bytes; a 0 value implies unknown.
	FrameSizeMin uint32
	// Maximum frame size in bytes; a 0 value implies unknown.
	FrameSizeMax uint32
	// Sample rate in Hz; between 1 and 655350 Hz.
	SampleRate uint32
	// Number of channels; between 1 and 8 channels.
	NChannels uint8
	// Sample size in bits-per-sample; between 4 and 32 bits.
	BitsPerSample uint8
	// Total number of inter-channel samples in the stream. One second of 44.1
	// KHz audio will have 44100 samples regardless of the number of channels. A
	// 0 value implies unknown.
	NSamples uint64
	// MD5 checksum of the unencoded audio data.
	MD5sum [16]uint8
}

// Length in bits of the fields of a StreamInfo metadata block body.
const (
	blockSizeMinBits  = 16
	blockSizeMaxBits  = 16
	frameSizeMinBits  = 24
	frameSizeMaxBits  = 24
	sampleRateBits    = 20
	nchannelsBits     = 3
	bitsPerSampleBits = 5
	nsamplesBits      = 36
	md5sumBits        = 8 * 16
)

// StreamInfoLength is the length in bytes of a StreamInfo metadata block body.
const StreamInfoLength = (blockSizeMinBits + blockSizeMaxBits + frameSizeMinBits +
	frameSizeMaxBits + sampleRateBits + nchannelsBits + bitsPerSampleBits +
	nsamplesBits + md5sumBits) / 8

// Validate validates the stream properties under profile p. Under the Subset
// profile, the maximum block size must additionally satisfy the Subset block
// size rules at the sample rate of the stream.
func (si *StreamInfo) Validate(p format.Profile) error {
	if err := format.ValidateSampleRate(si.SampleRate, false); err != nil {
		return err
	}
	if err := format.ValidateChannels(int(si.NChannels)); err != nil {
		return err
	}
	if err := format.ValidateBitsPerSample(int(si.BitsPerSample)); err != nil {
		return err
	}
	if err := format.ValidateBlockSize(int(si.BlockSizeMin), format.Full, si.SampleRate); err != nil {
		return errors.WithMessage(err, "minimum")
	}
	if err := format.ValidateBlockSize(int(si.BlockSizeMax), p, si.SampleRate); err != nil {
		return errors.WithMessage(err, "maximum")
	}
	if si.BlockSizeMin > si.BlockSizeMax {
		return errors.WithStack(&format.RangeError{Field: "minimum block size", Value: int64(si.BlockSizeMin), Min: format.MinBlockSize, Max: int64(si.BlockSizeMax), Profile: format.Full, Reason: "exceeds maximum block size"})
	}
	if si.FrameSizeMin != 0 && si.FrameSizeMax != 0 && si.FrameSizeMin > si.FrameSizeMax {
		return errors.WithStack(&format.RangeError{Field: "minimum frame size", Value: int64(si.FrameSizeMin), Min: 0, Max: int64(si.FrameSizeMax), Profile: format.Full, Reason: "exceeds maximum frame size"})
	}
	if si.FrameSizeMax >= 1<<frameSizeMaxBits {
		return errors.WithStack(&format.RangeError{Field: "maximum frame size", Value: int64(si.FrameSizeMax), Min: 0, Max: 1<<frameSizeMaxBits - 1, Profile: format.Full})
	}
	if si.NSamples >= 1<<nsamplesBits {
		return errors.WithStack(&format.RangeError{Field: "sample count", Value: int64(si.NSamples), Min: 0, Max: 1<<nsamplesBits - 1, Profile: format.Full})
	}
	return nil
}

// ParseStreamInfo reads and parses the body of a StreamInfo metadata block
// from r.
//
// StreamInfo format (pseudo code):
//
//	type METADATA_BLOCK_STREAMINFO struct {
//	   block_size_min  uint16
//	   block_size_max  uint16
//	   frame_size_min  uint24
//	   frame_size_max  uint24
//	   sample_rate     uint20
//	   nchannels       uint3  // stored as (number of channels) - 1
//	   bits_per_sample uint5  // stored as (bits-per-sample) - 1
//	   nsamples        uint36
//	   md5sum          [16]uint8
//	}
func ParseStreamInfo(r io.Reader) (*StreamInfo, error) {
	br := bits.NewReader(r)
	fields := make([]uint64, 0, 8)
	for _, n := range []uint{blockSizeMinBits, blockSizeMaxBits, frameSizeMinBits, frameSizeMaxBits, sampleRateBits, nchannelsBits, bitsPerSampleBits, nsamplesBits} {
		x, err := br.Read(n)
		if err != nil {
			return nil, unexpected(err)
		}
		fields = append(fields, x)
	}
	si := &StreamInfo{
		BlockSizeMin:  uint16(fields[0]),
		BlockSizeMax:  uint16(fields[1]),
		FrameSizeMin:  uint32(fields[2]),
		FrameSizeMax:  uint32(fields[3]),
		SampleRate:    uint32(fields[4]),
		NChannels:     uint8(fields[5]) + 1,
		BitsPerSample: uint8(fields[6]) + 1,
		NSamples:      fields[7],
	}
	for i := range si.MD5sum {
		x, err := br.Read(8)
		if err != nil {
			return nil, unexpected(err)
		}
		si.MD5sum[i] = uint8(x)
	}
	return si, nil
}

// Encode writes the body of the StreamInfo metadata block to w. Fields are
// validated against the full format before anything is written.
func (si *StreamInfo) Encode(w io.Writer) error {
	if err := si.Validate(format.Full); err != nil {
		return err
	}
	bw := bits.NewWriter(w)

	// 16 bits: BlockSizeMin.
	if err := bw.Write(uint64(si.BlockSizeMin), blockSizeMinBits); err != nil {
		return errutil.Err(err)
	}

	// 16 bits: BlockSizeMax.
	if err := bw.Write(uint64(si.BlockSizeMax), blockSizeMaxBits); err != nil {
		return errutil.Err(err)
	}

	// 24 bits: FrameSizeMin.
	if err := bw.Write(uint64(si.FrameSizeMin), frameSizeMinBits); err != nil {
		return errutil.Err(err)
	}

	// 24 bits: FrameSizeMax.
	if err := bw.Write(uint64(si.FrameSizeMax), frameSizeMaxBits); err != nil {
		return errutil.Err(err)
	}

	// 20 bits: SampleRate.
	if err := bw.Write(uint64(si.SampleRate), sampleRateBits); err != nil {
		return errutil.Err(err)
	}

	// 3 bits: NChannels; stored as (number of channels) - 1.
	if err := bw.Write(uint64(si.NChannels-1), nchannelsBits); err != nil {
		return errutil.Err(err)
	}

	// 5 bits: BitsPerSample; stored as (bits-per-sample) - 1.
	if err := bw.Write(uint64(si.BitsPerSample-1), bitsPerSampleBits); err != nil {
		return errutil.Err(err)
	}

	// 36 bits: NSamples.
	if err := bw.Write(si.NSamples, nsamplesBits); err != nil {
		return errutil.Err(err)
	}

	// 16 bytes: MD5sum.
	for _, x := range si.MD5sum {
		if err := bw.Write(uint64(x), 8); err != nil {
			return errutil.Err(err)
		}
	}
	return bw.Close()
}
