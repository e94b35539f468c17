// Package frame implements access to the headers of FLAC audio frames, and
// their validation against the limits of the FLAC format.
//
// A brief introduction of the FLAC stream format [1] follows. Each audio frame
// starts with a frame header, which holds the basic properties of the frame,
// such as its block size, sample rate and channel assignment. The frame header
// is protected by a CRC-8 checksum.
//
// [1]: https://www.xiph.org/flac/format.html#frame_header
package frame

import (
	"fmt"

	"github.com/mewkiz/pkg/errutil"
)

// A Header contains the basic properties of an audio frame, such as its sample
// rate and channel count. To facilitate random access decoding each frame
// header starts with a sync-code. This allows the decoder to synchronize and
// locate the start of a frame header.
//
// A header is validated at most once; see Validator.
//
// ref: https://www.xiph.org/flac/format.html#frame_header
type Header struct {
	// Specifies if the block size is fixed or variable.
	HasFixedBlockSize bool
	// Block size in inter-channel samples, i.e. the number of audio samples in
	// each subframe.
	BlockSize uint16
	// Sample rate in Hz; a 0 value implies unknown, get sample rate from
	// StreamInfo.
	SampleRate uint32
	// Specifies the number of channels (subframes) that exist in the frame,
	// their order and possible inter-channel decorrelation.
	Channels Channels
	// Sample size in bits-per-sample; a 0 value implies unknown, get sample size
	// from StreamInfo.
	BitsPerSample uint8
	// Specifies the frame number if the block size is fixed, and the first
	// sample number in the frame otherwise. When using fixed block size, the
	// first sample number in the frame can be derived by multiplying the frame
	// number with the block size (in samples).
	Num uint64

	// Validation state of the header.
	state State
	// Violation which caused the header to be rejected.
	err error
}

// State returns the validation state of the header.
func (hdr *Header) State() State {
	return hdr.state
}

// State is the validation state of a frame header.
type State uint8

// Validation states.
const (
	// Unvalidated is the initial state of a frame header.
	Unvalidated State = iota
	// Validated is the terminal state of a header within the limits of the
	// format.
	Validated
	// Rejected is the terminal state of a header violating the limits of the
	// format. The frame is not to be decoded further.
	Rejected
)

// String returns a string representation of the validation state.
func (s State) String() string {
	switch s {
	case Unvalidated:
		return "unvalidated"
	case Validated:
		return "validated"
	case Rejected:
		return "rejected"
	}
	return fmt.Sprintf("<unknown State %d>", uint8(s))
}

// Channels specifies the number of channels (subframes) that exist in a frame,
// their order and possible inter-channel decorrelation.
type Channels uint8

// Channel assignments. The following abbreviations are used:
//
//	C:   center (directly in front)
//	R:   right (standard stereo)
//	Sr:  side right (directly to the right)
//	Rs:  right surround (back right)
//	Cs:  center surround (rear center)
//	Ls:  left surround (back left)
//	Sl:  side left (directly to the left)
//	L:   left (standard stereo)
//	Lfe: low-frequency effect (placed according to room acoustics)
//
// The first 6 channel constants follow the SMPTE/ITU-R channel order:
//
//	L R C Lfe Ls Rs
const (
	ChannelsMono           Channels = iota // 1 channel: mono.
	ChannelsLR                             // 2 channels: left, right.
	ChannelsLRC                            // 3 channels: left, right, center.
	ChannelsLRLsRs                         // 4 channels: left, right, left surround, right surround.
	ChannelsLRCLsRs                        // 5 channels: left, right, center, left surround, right surround.
	ChannelsLRCLfeLsRs                     // 6 channels: left, right, center, LFE, left surround, right surround.
	ChannelsLRCLfeCsSlSr                   // 7 channels: left, right, center, LFE, center surround, side left, side right.
	ChannelsLRCLfeLsRsSlSr                 // 8 channels: left, right, center, LFE, left surround, right surround, side left, side right.
	ChannelsLeftSide                       // 2 channels: left, side; using inter-channel decorrelation.
	ChannelsSideRight                      // 2 channels: side, right; using inter-channel decorrelation.
	ChannelsMidSide                        // 2 channels: mid, side; using inter-channel decorrelation.
)

// nChannels specifies the number of channels used by each channel assignment.
var nChannels = [...]int{
	ChannelsMono:           1,
	ChannelsLR:             2,
	ChannelsLRC:            3,
	ChannelsLRLsRs:         4,
	ChannelsLRCLsRs:        5,
	ChannelsLRCLfeLsRs:     6,
	ChannelsLRCLfeCsSlSr:   7,
	ChannelsLRCLfeLsRsSlSr: 8,
	ChannelsLeftSide:       2,
	ChannelsSideRight:      2,
	ChannelsMidSide:        2,
}

// Count returns the number of channels (subframes) used by the provided
// channel assignment, or 0 for reserved channel assignments.
func (channels Channels) Count() int {
	if int(channels) >= len(nChannels) {
		return 0
	}
	return nChannels[channels]
}

// ChannelsFromCount returns the channel assignment of nchannels independently
// coded channels.
func ChannelsFromCount(nchannels int) (Channels, error) {
	if nchannels < 1 || nchannels > 8 {
		return 0, errutil.Newf("frame.ChannelsFromCount: invalid number of channels; expected 1-8, got %d", nchannels)
	}
	return Channels(nchannels - 1), nil
}

// IsDecorrelated reports whether the channels use inter-channel decorrelation.
func (channels Channels) IsDecorrelated() bool {
	switch channels {
	case ChannelsLeftSide, ChannelsSideRight, ChannelsMidSide:
		return true
	}
	return false
}
