package format

// isLowRate reports whether the stricter Subset limits for sample rates of at
// most 48 kHz apply. An unknown (zero) sample rate is treated as low.
func isLowRate(sampleRate uint32) bool {
	return sampleRate <= subsetRateThreshold
}

// ValidateBlockSize validates the block size n, in inter-channel samples, of a
// stream with the given sample rate.
//
// The full format accepts block sizes between 16 and 65535. The Subset
// profile additionally requires n to have a canonical block size code in the
// frame header, and to be at most 4608 if the sample rate is at most 48 kHz
// (16384 otherwise).
func ValidateBlockSize(n int, p Profile, sampleRate uint32) error {
	if err := rangeCheck("block size", int64(n), MinBlockSize, MaxBlockSize, Full); err != nil {
		return err
	}
	if p != Subset {
		return nil
	}
	if err := ValidateSubsetBlockSizeCap(n, sampleRate); err != nil {
		return err
	}
	if !IsCanonicalBlockSize(n) {
		return wrapRange(&RangeError{Field: "block size", Value: int64(n), Min: MinBlockSize, Max: subsetBlockSizeMax(sampleRate), Profile: Subset, Reason: "no canonical block size code"})
	}
	return nil
}

// ValidateSubsetBlockSizeCap validates the upper bound of Subset block sizes,
// which depends on the sample rate. Unlike ValidateBlockSize, it does not
// require a canonical block size code, since the last frame of a stream is
// usually shorter than the nominal block size.
func ValidateSubsetBlockSizeCap(n int, sampleRate uint32) error {
	return rangeCheck("block size", int64(n), 1, subsetBlockSizeMax(sampleRate), Subset)
}

// subsetBlockSizeMax returns the maximum Subset block size at the given sample
// rate.
func subsetBlockSizeMax(sampleRate uint32) int64 {
	if isLowRate(sampleRate) {
		return SubsetMaxBlockSize48kHz
	}
	return SubsetMaxBlockSize
}

// ValidateChannels validates the channel count c.
func ValidateChannels(c int) error {
	return rangeCheck("channel count", int64(c), 1, MaxChannels, Full)
}

// ValidateBitsPerSample validates the sample size b in bits-per-sample. Sample
// sizes above 24 are legal but not supported by the reference codec; see
// ExceedsReferenceCodec.
func ValidateBitsPerSample(b int) error {
	return rangeCheck("bits-per-sample", int64(b), MinBitsPerSample, MaxBitsPerSample, Full)
}

// ExceedsReferenceCodec reports whether the sample size b exceeds what the
// reference encoder and decoder support. The condition is advisory.
func ExceedsReferenceCodec(b int) bool {
	return b > ReferenceCodecMaxBitsPerSample
}

// ValidateSampleRate validates the sample rate r in Hz. A zero sample rate is
// only legal if inherit is set, i.e. the sample rate is to be read from the
// StreamInfo metadata block.
func ValidateSampleRate(r uint32, inherit bool) error {
	if r == 0 && inherit {
		return nil
	}
	return rangeCheck("sample rate", int64(r), 1, MaxSampleRate, Full)
}

// ValidateLPCOrder validates the FIR linear prediction order o of a stream with
// the given sample rate. The Subset profile limits the order to 12 if the
// sample rate is at most 48 kHz.
func ValidateLPCOrder(o int, p Profile, sampleRate uint32) error {
	if err := rangeCheck("LPC order", int64(o), 0, MaxLPCOrder, Full); err != nil {
		return err
	}
	if p == Subset && isLowRate(sampleRate) {
		return rangeCheck("LPC order", int64(o), 0, SubsetMaxLPCOrder48kHz, Subset)
	}
	return nil
}

// ValidateFixedOrder validates the order o of a fixed polynomial predictor.
func ValidateFixedOrder(o int) error {
	return rangeCheck("fixed predictor order", int64(o), 0, MaxFixedOrder, Full)
}

// ValidateQLPCoeffPrecision validates the precision in bits of quantized
// linear predictor coefficients.
func ValidateQLPCoeffPrecision(prec int) error {
	return rangeCheck("QLP coefficient precision", int64(prec), MinQLPCoeffPrecision, MaxQLPCoeffPrecision, Full)
}

// ValidatePartitionOrder validates the Rice partition order o. The full format
// accepts orders 0 through 15, the Subset profile 0 through 8.
func ValidatePartitionOrder(o int, p Profile) error {
	if err := rangeCheck("partition order", int64(o), 0, MaxRicePartitionOrder, Full); err != nil {
		return err
	}
	if p == Subset {
		return rangeCheck("partition order", int64(o), 0, SubsetMaxRicePartitionOrder, Subset)
	}
	return nil
}

// ValidateSubsetSampleRate validates that the sample rate r in Hz of a Subset
// stream can be expressed in frame headers, so that decoders need not consult
// StreamInfo to obtain it.
func ValidateSubsetSampleRate(r uint32) error {
	if err := ValidateSampleRate(r, false); err != nil {
		return err
	}
	if _, _, _, err := SampleRateCode(r); err != nil {
		return wrapRange(&RangeError{Field: "sample rate", Value: int64(r), Min: 1, Max: MaxSampleRate, Profile: Subset, Reason: "not expressible in frame header"})
	}
	return nil
}
