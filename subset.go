package flacfmt

import (
	"fmt"
	"strings"

	"github.com/mewkiz/flacfmt/format"
	"github.com/mewkiz/flacfmt/frame"
	"github.com/mewkiz/flacfmt/meta"
	"github.com/mewkiz/pkg/errutil"
	"github.com/pkg/errors"
)

// ErrNotSubset is matched, through errors.Is, by the error of Report.Strict for
// streams which do not comply with the Subset profile.
var ErrNotSubset = errors.New("flacfmt: stream not subset compliant")

// Input holds the parameters of a stream to classify.
type Input struct {
	// StreamInfo of the stream.
	Info *meta.StreamInfo
	// Frame headers of the stream; may be empty.
	Headers []frame.Header
	// LPC orders used by the subframes of the stream; may be empty.
	LPCOrders []int
	// Rice partition orders used by the subframes of the stream; may be empty.
	PartitionOrders []int
}

// Classification specifies the profile a stream complies with.
type Classification uint8

// Classifications.
const (
	// FullFormatOnly streams are valid FLAC streams outside of the Subset.
	FullFormatOnly Classification = iota
	// SubsetCompliant streams comply with the Subset profile.
	SubsetCompliant
)

// String returns a string representation of the classification.
func (c Classification) String() string {
	switch c {
	case FullFormatOnly:
		return "full format only"
	case SubsetCompliant:
		return "subset compliant"
	}
	return fmt.Sprintf("<unknown Classification %d>", uint8(c))
}

// Field identifies the stream parameter of a violation.
type Field uint8

// Stream parameters.
const (
	FieldBlockSize Field = iota
	FieldSampleRate
	FieldLPCOrder
	FieldPartitionOrder
)

// String returns the name of the stream parameter.
func (f Field) String() string {
	switch f {
	case FieldBlockSize:
		return "block size"
	case FieldSampleRate:
		return "sample rate"
	case FieldLPCOrder:
		return "LPC order"
	case FieldPartitionOrder:
		return "partition order"
	}
	return fmt.Sprintf("<unknown Field %d>", uint8(f))
}

// A Violation reports a stream parameter which disqualifies Subset compliance.
type Violation struct {
	// Offending stream parameter.
	Field Field
	// Index of the offending frame header, LPC order or partition order of the
	// input, or -1 for StreamInfo.
	Index int
	// Violated limit; matches format.ErrOutOfRange.
	Err error
}

// String returns a human readable description of the violation.
func (v Violation) String() string {
	if v.Index < 0 {
		return fmt.Sprintf("stream info: %v", v.Err)
	}
	return fmt.Sprintf("%v %d: %v", v.Field, v.Index, v.Err)
}

// A Report is the outcome of CheckSubset.
type Report struct {
	// Profile the stream complies with.
	Class Classification
	// Parameters which disqualify Subset compliance, in input order.
	Violations []Violation
	// Conditions which are legal but not supported by the reference encoder and
	// decoder.
	Advisories []string
}

// Strict returns an error matching ErrNotSubset if the stream does not comply
// with the Subset profile, and nil otherwise. It is intended for decoders
// which only accept Subset streams.
func (r *Report) Strict() error {
	if r.Class == SubsetCompliant {
		return nil
	}
	var msgs []string
	for _, v := range r.Violations {
		msgs = append(msgs, v.String())
	}
	return errors.Wrap(ErrNotSubset, strings.Join(msgs, "; "))
}

// CheckSubset classifies the stream as either SubsetCompliant or
// FullFormatOnly, and reports every parameter which disqualifies Subset
// compliance. Subset violations never cause an error; the error is non-nil
// only if a parameter is illegal under the full format, in which case the
// stream is not a valid FLAC stream at all.
func CheckSubset(in Input) (Report, error) {
	if in.Info == nil {
		return Report{}, errutil.Newf("flacfmt.CheckSubset: missing StreamInfo")
	}
	info := in.Info
	if err := info.Validate(format.Full); err != nil {
		return Report{}, errors.WithMessage(err, "stream info")
	}
	var report Report
	if format.ExceedsReferenceCodec(int(info.BitsPerSample)) {
		report.Advisories = append(report.Advisories, fmt.Sprintf("%d bits-per-sample exceeds the %d bits-per-sample supported by the reference codec", info.BitsPerSample, format.ReferenceCodecMaxBitsPerSample))
	}
	violate := func(field Field, index int, err error) {
		report.Violations = append(report.Violations, Violation{Field: field, Index: index, Err: err})
	}

	// StreamInfo.
	if err := format.ValidateBlockSize(int(info.BlockSizeMax), format.Subset, info.SampleRate); err != nil {
		violate(FieldBlockSize, -1, err)
	}
	if err := format.ValidateSubsetSampleRate(info.SampleRate); err != nil {
		violate(FieldSampleRate, -1, err)
	}

	// Frame headers.
	full := &frame.Validator{Info: info, Profile: format.Full}
	for i := range in.Headers {
		// Validate an unvalidated copy; the validation state of the input is
		// left as is.
		src := &in.Headers[i]
		hdr := frame.Header{
			HasFixedBlockSize: src.HasFixedBlockSize,
			BlockSize:         src.BlockSize,
			SampleRate:        src.SampleRate,
			Channels:          src.Channels,
			BitsPerSample:     src.BitsPerSample,
			Num:               src.Num,
		}
		if err := full.Validate(&hdr); err != nil {
			return Report{}, errors.WithMessagef(err, "frame header %d", i)
		}
		sampleRate := hdr.EffectiveSampleRate(info)
		if err := format.ValidateSubsetBlockSizeCap(int(hdr.BlockSize), sampleRate); err != nil {
			violate(FieldBlockSize, i, err)
		}
		if hdr.SampleRate != 0 {
			if err := format.ValidateSubsetSampleRate(hdr.SampleRate); err != nil {
				violate(FieldSampleRate, i, err)
			}
		}
		if bps := hdr.EffectiveBitsPerSample(info); bps != info.BitsPerSample {
			report.Advisories = append(report.Advisories, fmt.Sprintf("frame header %d: %d bits-per-sample differs from the %d bits-per-sample of stream info", i, bps, info.BitsPerSample))
		}
	}

	// Subframes.
	for i, order := range in.LPCOrders {
		if err := format.ValidateLPCOrder(order, format.Full, info.SampleRate); err != nil {
			return Report{}, errors.WithMessagef(err, "subframe %d", i)
		}
		if err := format.ValidateLPCOrder(order, format.Subset, info.SampleRate); err != nil {
			violate(FieldLPCOrder, i, err)
		}
	}
	for i, order := range in.PartitionOrders {
		if err := format.ValidatePartitionOrder(order, format.Full); err != nil {
			return Report{}, errors.WithMessagef(err, "subframe %d", i)
		}
		if err := format.ValidatePartitionOrder(order, format.Subset); err != nil {
			violate(FieldPartitionOrder, i, err)
		}
	}

	if len(report.Violations) == 0 {
		report.Class = SubsetCompliant
	}
	return report, nil
}
