// Package format defines the numeric limits of the FLAC format and validators
// for stream and frame parameters.
//
// Each validator is parameterized by a Profile. The full format accepts every
// value the bitstream can represent, while the Subset profile restricts values
// to what streaming and hardware decoders are guaranteed to support.
//
// ref: https://www.xiph.org/flac/format.html#subset
package format

// Limits of the FLAC format.
const (
	// Minimum block size in inter-channel samples.
	MinBlockSize = 16
	// Maximum block size in inter-channel samples; the block size field of
	// StreamInfo is 16 bits wide.
	MaxBlockSize = 65535
	// Maximum block size of Subset streams with a sample rate of at most
	// 48 kHz.
	SubsetMaxBlockSize48kHz = 4608
	// Maximum block size of Subset streams.
	SubsetMaxBlockSize = 16384
	// Maximum number of channels.
	MaxChannels = 8
	// Minimum sample size in bits-per-sample.
	MinBitsPerSample = 4
	// Maximum sample size in bits-per-sample supported by the format.
	MaxBitsPerSample = 32
	// Maximum sample size in bits-per-sample supported by the reference
	// encoder and decoder.
	ReferenceCodecMaxBitsPerSample = 24
	// Maximum sample rate in Hz; the sample rate field of StreamInfo is 20 bits
	// wide, but the frame header can only express 655350 Hz.
	MaxSampleRate = 655350
	// Maximum order of FIR linear prediction.
	MaxLPCOrder = 32
	// Maximum order of FIR linear prediction of Subset streams with a sample
	// rate of at most 48 kHz.
	SubsetMaxLPCOrder48kHz = 12
	// Minimum and maximum quantized linear predictor coefficient precision in
	// bits.
	MinQLPCoeffPrecision = 5
	MaxQLPCoeffPrecision = 15
	// Maximum order of the fixed polynomial predictors.
	MaxFixedOrder = 4
	// Maximum partition order of the partitioned Rice residual coding method.
	MaxRicePartitionOrder = 15
	// Maximum partition order of Subset streams.
	SubsetMaxRicePartitionOrder = 8
	// Maximum metadata block type code; 127 is invalid to avoid confusion with
	// a frame sync code.
	MaxMetadataTypeCode = 126
)

// subsetRateThreshold is the sample rate in Hz at or below which the stricter
// Subset limits on block size and LPC order apply.
const subsetRateThreshold = 48000

// Profile specifies the set of constraints a stream is validated against.
type Profile uint8

// Profiles.
const (
	// Full accepts every value representable by the FLAC format.
	Full Profile = iota
	// Subset restricts streams to the interoperability profile required of
	// streaming and hardware decoders.
	Subset
)

// String returns a string representation of the profile.
func (p Profile) String() string {
	switch p {
	case Full:
		return "full format"
	case Subset:
		return "subset"
	}
	return "unknown profile"
}
