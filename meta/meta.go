// Package meta implements access to the StreamInfo metadata block of FLAC
// streams.
//
// ref: https://www.xiph.org/flac/format.html#format_overview
package meta

import (
	"fmt"
	"io"

	"github.com/mewkiz/flacfmt/format"
	"github.com/mewkiz/flacfmt/internal/bits"
	"github.com/mewkiz/pkg/errutil"
	"github.com/pkg/errors"
)

// Type represents the type of a metadata block.
type Type uint8

// Metadata block types.
const (
	TypeStreamInfo    Type = 0
	TypePadding       Type = 1
	TypeApplication   Type = 2
	TypeSeekTable     Type = 3
	TypeVorbisComment Type = 4
	TypeCueSheet      Type = 5
	TypePicture       Type = 6
)

// String returns the name of the metadata block type.
func (t Type) String() string {
	switch t {
	case TypeStreamInfo:
		return "stream info"
	case TypePadding:
		return "padding"
	case TypeApplication:
		return "application"
	case TypeSeekTable:
		return "seek table"
	case TypeVorbisComment:
		return "vorbis comment"
	case TypeCueSheet:
		return "cue sheet"
	case TypePicture:
		return "picture"
	}
	if t <= format.MaxMetadataTypeCode {
		return fmt.Sprintf("reserved (%d)", uint8(t))
	}
	return fmt.Sprintf("invalid (%d)", uint8(t))
}

// A Header contains type and length information about a metadata block.
//
// Metadata block header format (pseudo code):
//
//	type METADATA_BLOCK_HEADER struct {
//	   is_last    bool
//	   type       uint7
//	   length     uint24
//	}
//
// ref: https://www.xiph.org/flac/format.html#metadata_block_header
type Header struct {
	// Metadata block body type.
	Type Type
	// Length of body data in bytes.
	Length int64
	// IsLast specifies if the block is the last metadata block.
	IsLast bool
}

// Length in bits of the fields of a metadata block header.
const (
	isLastBits = 1
	typeBits   = 7
	lengthBits = 24
)

// ParseHeader reads and parses a metadata block header from r.
func ParseHeader(r io.Reader) (*Header, error) {
	br := bits.NewReader(r)

	// 1 bit: IsLast.
	x, err := br.Read(isLastBits)
	if err != nil {
		return nil, unexpected(err)
	}
	hdr := &Header{IsLast: x != 0}

	// 7 bits: Type.
	x, err = br.Read(typeBits)
	if err != nil {
		return nil, unexpected(err)
	}
	hdr.Type = Type(x)
	if err := validateType(hdr.Type); err != nil {
		return nil, err
	}

	// 24 bits: Length.
	x, err = br.Read(lengthBits)
	if err != nil {
		return nil, unexpected(err)
	}
	hdr.Length = int64(x)
	return hdr, nil
}

// Encode writes the metadata block header to w.
func (hdr *Header) Encode(w io.Writer) error {
	if err := validateType(hdr.Type); err != nil {
		return err
	}
	if hdr.Length < 0 || hdr.Length >= 1<<lengthBits {
		return errutil.Newf("meta.Header.Encode: block length %d exceeds %d bits", hdr.Length, lengthBits)
	}
	bw := bits.NewWriter(w)

	// 1 bit: IsLast.
	x := uint64(0)
	if hdr.IsLast {
		x = 1
	}
	if err := bw.Write(x, isLastBits); err != nil {
		return errutil.Err(err)
	}

	// 7 bits: Type.
	if err := bw.Write(uint64(hdr.Type), typeBits); err != nil {
		return errutil.Err(err)
	}

	// 24 bits: Length.
	if err := bw.Write(uint64(hdr.Length), lengthBits); err != nil {
		return errutil.Err(err)
	}
	return bw.Close()
}

// validateType returns an error if t is the invalid block type 127, which is
// reserved to avoid confusion with a frame sync code.
func validateType(t Type) error {
	if t > format.MaxMetadataTypeCode {
		return errors.WithStack(&format.RangeError{Field: "metadata block type", Value: int64(t), Min: 0, Max: format.MaxMetadataTypeCode, Profile: format.Full})
	}
	return nil
}

// ErrTruncated reports a metadata block cut short by the end of input.
var ErrTruncated = errors.New("meta: truncated metadata block")

// unexpected returns ErrTruncated if err is io.EOF or io.ErrUnexpectedEOF, and
// err otherwise.
func unexpected(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errors.WithStack(ErrTruncated)
	}
	return errutil.Err(err)
}
