package frame

import (
	"github.com/mewkiz/flacfmt/format"
	"github.com/mewkiz/flacfmt/meta"
	"github.com/pkg/errors"
)

// A Validator validates frame headers against the limits of the FLAC format,
// and against the StreamInfo of the stream the frames belong to.
//
// A Validator holds no mutable state; frames of the same stream may be
// validated concurrently using a shared Validator, as long as each header is
// only accessed by one worker.
type Validator struct {
	// StreamInfo of the stream; headers inherit the sample rate and sample size
	// from it. May be nil, in which case inherited fields are rejected.
	Info *meta.StreamInfo
	// Profile the headers are validated against.
	Profile format.Profile
}

// Validate validates the frame header, and transitions it from Unvalidated to
// either Validated or Rejected. Both outcomes are terminal: validating a
// validated header returns nil, and validating a rejected header returns the
// violation which rejected it.
func (v *Validator) Validate(hdr *Header) error {
	switch hdr.state {
	case Validated:
		return nil
	case Rejected:
		return hdr.err
	}
	if err := v.validate(hdr); err != nil {
		hdr.state = Rejected
		hdr.err = err
		return err
	}
	hdr.state = Validated
	return nil
}

// validate returns the first violation of the frame header.
func (v *Validator) validate(hdr *Header) error {
	// Block size.
	if hdr.BlockSize < 1 {
		return errors.WithStack(&format.RangeError{Field: "block size", Value: int64(hdr.BlockSize), Min: 1, Max: format.MaxBlockSize, Profile: format.Full})
	}
	if v.Info != nil && v.Info.BlockSizeMax != 0 && hdr.BlockSize > v.Info.BlockSizeMax {
		return errors.WithStack(&format.RangeError{Field: "block size", Value: int64(hdr.BlockSize), Min: 1, Max: int64(v.Info.BlockSizeMax), Profile: format.Full, Reason: "exceeds maximum block size of StreamInfo"})
	}

	// Sample rate.
	if err := format.ValidateSampleRate(hdr.SampleRate, v.Info != nil); err != nil {
		return err
	}
	sampleRate := hdr.EffectiveSampleRate(v.Info)
	if v.Profile == format.Subset {
		if err := format.ValidateSubsetBlockSizeCap(int(hdr.BlockSize), sampleRate); err != nil {
			return err
		}
	}

	// Channels.
	nchannels := hdr.Channels.Count()
	if nchannels == 0 {
		return errors.Wrapf(ErrReserved, "channel assignment %d", hdr.Channels)
	}
	if err := format.ValidateChannels(nchannels); err != nil {
		return err
	}

	// Sample size.
	if hdr.BitsPerSample == 0 {
		if v.Info == nil {
			return errors.WithStack(&format.RangeError{Field: "bits-per-sample", Value: 0, Min: format.MinBitsPerSample, Max: format.MaxBitsPerSample, Profile: format.Full, Reason: "no StreamInfo to inherit from"})
		}
	} else if err := format.ValidateBitsPerSample(int(hdr.BitsPerSample)); err != nil {
		return err
	}

	// Frame or sample number.
	return hdr.checkNum()
}

// EffectiveSampleRate returns the sample rate of the frame in Hz, inherited
// from info if the frame header does not specify it. It returns 0 if the
// sample rate is unknown.
func (hdr *Header) EffectiveSampleRate(info *meta.StreamInfo) uint32 {
	if hdr.SampleRate == 0 && info != nil {
		return info.SampleRate
	}
	return hdr.SampleRate
}

// EffectiveBitsPerSample returns the sample size of the frame in
// bits-per-sample, inherited from info if the frame header does not specify
// it. It returns 0 if the sample size is unknown.
func (hdr *Header) EffectiveBitsPerSample(info *meta.StreamInfo) uint8 {
	if hdr.BitsPerSample == 0 && info != nil {
		return info.BitsPerSample
	}
	return hdr.BitsPerSample
}
