package frame_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/kylelemons/godebug/pretty"
	"github.com/mewkiz/flacfmt/format"
	"github.com/mewkiz/flacfmt/frame"
	"github.com/pkg/errors"
)

func TestHeaderEncodeGolden(t *testing.T) {
	golden := []struct {
		hdr  frame.Header
		want []byte
	}{
		{
			hdr: frame.Header{
				HasFixedBlockSize: true,
				BlockSize:         4096,
				SampleRate:        44100,
				Channels:          frame.ChannelsLR,
				BitsPerSample:     16,
				Num:               0,
			},
			want: []byte{0xFF, 0xF8, 0xC9, 0x18, 0x00, 0xC2},
		},
		{
			hdr: frame.Header{
				HasFixedBlockSize: false,
				BlockSize:         1000,
				SampleRate:        22000,
				Channels:          frame.ChannelsMono,
				BitsPerSample:     0,
				Num:               40000,
			},
			want: []byte{0xFF, 0xF9, 0x7C, 0x00, 0xE9, 0xB1, 0x80, 0x03, 0xE7, 0x16, 0xC0},
		},
	}
	for _, g := range golden {
		buf := &bytes.Buffer{}
		if err := g.hdr.Encode(buf); err != nil {
			t.Errorf("unable to encode frame header %v; %v", g.hdr, err)
			continue
		}
		if got := buf.Bytes(); !bytes.Equal(got, g.want) {
			t.Errorf("content mismatch; expected % X, got % X", g.want, got)
		}
		hdr, err := frame.Parse(bytes.NewReader(g.want))
		if err != nil {
			t.Errorf("unable to parse frame header % X; %v", g.want, err)
			continue
		}
		if diff := pretty.Compare(g.hdr, *hdr); diff != "" {
			t.Errorf("frame header mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	blockSizes := []uint16{1, 16, 192, 255, 256, 257, 576, 1152, 4608, 4609, 8192, 32768, 65535}
	sampleRates := []uint32{0, 8000, 11025, 44100, 48000, 96000, 100000, 192000, 255000, 320000, 655350}
	channels := []frame.Channels{frame.ChannelsMono, frame.ChannelsLR, frame.ChannelsLRCLfeLsRsSlSr, frame.ChannelsLeftSide, frame.ChannelsSideRight, frame.ChannelsMidSide}
	bps := []uint8{0, 8, 12, 16, 20, 24, 32}
	nums := []uint64{0, 127, 128, 2047, 2048, 1<<16 - 1, 1 << 16, 1<<21 - 1, 1 << 21, 1<<26 - 1, 1 << 26, 1<<31 - 1, 1 << 31, 1<<36 - 1}
	i := 0
	for _, blockSize := range blockSizes {
		for _, sampleRate := range sampleRates {
			for _, num := range nums {
				fixed := num < 1<<31
				want := frame.Header{
					HasFixedBlockSize: fixed,
					BlockSize:         blockSize,
					SampleRate:        sampleRate,
					Channels:          channels[i%len(channels)],
					BitsPerSample:     bps[i%len(bps)],
					Num:               num,
				}
				i++
				buf := &bytes.Buffer{}
				if err := want.Encode(buf); err != nil {
					t.Errorf("unable to encode frame header %v; %v", want, err)
					continue
				}
				// Trailing data is left unread.
				buf.WriteString("rest")
				r := bytes.NewReader(buf.Bytes())
				got, err := frame.Parse(r)
				if err != nil {
					t.Errorf("unable to parse frame header %v; %v", want, err)
					continue
				}
				if diff := pretty.Compare(want, *got); diff != "" {
					t.Errorf("frame header mismatch (-want +got):\n%s", diff)
				}
				if r.Len() != len("rest") {
					t.Errorf("frame header %v: read past end of header; %d bytes left", want, r.Len())
				}
			}
		}
	}
}

func TestHeaderEncodeInvalid(t *testing.T) {
	golden := []struct {
		name string
		hdr  frame.Header
	}{
		{name: "zero block size", hdr: frame.Header{BlockSize: 0, SampleRate: 44100, BitsPerSample: 16}},
		{name: "unencodable sample rate", hdr: frame.Header{BlockSize: 4096, SampleRate: 655351, BitsPerSample: 16}},
		{name: "unencodable sample size", hdr: frame.Header{BlockSize: 4096, SampleRate: 44100, BitsPerSample: 17}},
		{name: "reserved channels", hdr: frame.Header{BlockSize: 4096, SampleRate: 44100, BitsPerSample: 16, Channels: frame.ChannelsMidSide + 1}},
		{name: "frame number overflow", hdr: frame.Header{HasFixedBlockSize: true, BlockSize: 4096, SampleRate: 44100, BitsPerSample: 16, Num: 1 << 31}},
		{name: "sample number overflow", hdr: frame.Header{BlockSize: 4096, SampleRate: 44100, BitsPerSample: 16, Num: 1 << 36}},
	}
	for _, g := range golden {
		buf := &bytes.Buffer{}
		if err := g.hdr.Encode(buf); err == nil {
			t.Errorf("%s: expected error, got nil", g.name)
		}
		if buf.Len() != 0 {
			t.Errorf("%s: expected nothing written, got % X", g.name, buf.Bytes())
		}
	}
}

func TestParseInvalid(t *testing.T) {
	valid := []byte{0xFF, 0xF8, 0xC9, 0x18, 0x00, 0xC2}
	golden := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{name: "empty", data: nil, wantErr: io.EOF},
		{name: "truncated", data: valid[:4], wantErr: io.ErrUnexpectedEOF},
		{name: "missing checksum", data: valid[:5], wantErr: io.ErrUnexpectedEOF},
		{name: "sync code", data: []byte{0xFF, 0xFC, 0xC9, 0x18, 0x00, 0xC2}, wantErr: frame.ErrInvalidSync},
		{name: "checksum", data: []byte{0xFF, 0xF8, 0xC9, 0x18, 0x00, 0xC3}, wantErr: frame.ErrChecksumMismatch},
		{name: "reserved bit", data: []byte{0xFF, 0xFA, 0xC9, 0x18, 0x00, 0x00}, wantErr: frame.ErrReserved},
		{name: "reserved block size", data: []byte{0xFF, 0xF8, 0x09, 0x18, 0x00, 0x00}, wantErr: frame.ErrReserved},
		{name: "invalid sample rate", data: []byte{0xFF, 0xF8, 0xCF, 0x18, 0x00, 0x00}, wantErr: frame.ErrReserved},
		{name: "reserved channels", data: []byte{0xFF, 0xF8, 0xC9, 0xB8, 0x00, 0x00}, wantErr: frame.ErrReserved},
		{name: "reserved sample size", data: []byte{0xFF, 0xF8, 0xC9, 0x16, 0x00, 0x00}, wantErr: frame.ErrReserved},
		{name: "overlong number", data: []byte{0xFF, 0xF8, 0xC9, 0x18, 0xC1, 0xBF, 0x00}, wantErr: frame.ErrReserved},
		{name: "continuation byte", data: []byte{0xFF, 0xF8, 0xC9, 0x18, 0x80, 0x00}, wantErr: frame.ErrReserved},
		// (blocksize-1) of 65535 in the 16-bit suffix.
		{name: "block size", data: []byte{0xFF, 0xF8, 0x79, 0x18, 0x00, 0xFF, 0xFF, 0x00}, wantErr: format.ErrOutOfRange},
	}
	for _, g := range golden {
		_, err := frame.Parse(bytes.NewReader(g.data))
		if !errors.Is(err, g.wantErr) {
			t.Errorf("%s: error mismatch; expected %v, got %v", g.name, g.wantErr, err)
		}
	}
}
