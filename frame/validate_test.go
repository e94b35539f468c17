package frame_test

import (
	"testing"

	"github.com/mewkiz/flacfmt/format"
	"github.com/mewkiz/flacfmt/frame"
	"github.com/mewkiz/flacfmt/meta"
	"github.com/pkg/errors"
)

// info is the StreamInfo of a CD quality stream.
var info = &meta.StreamInfo{
	BlockSizeMin:  4096,
	BlockSizeMax:  4096,
	SampleRate:    44100,
	NChannels:     2,
	BitsPerSample: 16,
}

func TestValidate(t *testing.T) {
	golden := []struct {
		name    string
		v       frame.Validator
		hdr     frame.Header
		wantErr error
	}{
		{
			name: "valid",
			v:    frame.Validator{Info: info, Profile: format.Subset},
			hdr:  frame.Header{HasFixedBlockSize: true, BlockSize: 4096, SampleRate: 44100, Channels: frame.ChannelsLR, BitsPerSample: 16},
		},
		{
			name: "inherited",
			v:    frame.Validator{Info: info, Profile: format.Subset},
			hdr:  frame.Header{HasFixedBlockSize: true, BlockSize: 4096, Channels: frame.ChannelsMidSide},
		},
		{
			name: "short last frame",
			v:    frame.Validator{Info: info, Profile: format.Subset},
			hdr:  frame.Header{HasFixedBlockSize: true, BlockSize: 1234, Channels: frame.ChannelsLR, Num: 17},
		},
		{
			name:    "exceeds StreamInfo",
			v:       frame.Validator{Info: info, Profile: format.Full},
			hdr:     frame.Header{BlockSize: 4097, Channels: frame.ChannelsLR},
			wantErr: format.ErrOutOfRange,
		},
		{
			name:    "zero block size",
			v:       frame.Validator{Info: info, Profile: format.Full},
			hdr:     frame.Header{BlockSize: 0, Channels: frame.ChannelsLR},
			wantErr: format.ErrOutOfRange,
		},
		{
			name: "full format block size",
			v:    frame.Validator{Profile: format.Full},
			hdr:  frame.Header{BlockSize: 8192, SampleRate: 44100, Channels: frame.ChannelsLR, BitsPerSample: 16},
		},
		{
			name:    "subset block size",
			v:       frame.Validator{Profile: format.Subset},
			hdr:     frame.Header{BlockSize: 8192, SampleRate: 44100, Channels: frame.ChannelsLR, BitsPerSample: 16},
			wantErr: format.ErrOutOfRange,
		},
		{
			name: "subset block size above 48 kHz",
			v:    frame.Validator{Profile: format.Subset},
			hdr:  frame.Header{BlockSize: 8192, SampleRate: 96000, Channels: frame.ChannelsLR, BitsPerSample: 24},
		},
		{
			name:    "inherited sample rate without StreamInfo",
			v:       frame.Validator{Profile: format.Full},
			hdr:     frame.Header{BlockSize: 4096, Channels: frame.ChannelsLR, BitsPerSample: 16},
			wantErr: format.ErrOutOfRange,
		},
		{
			name:    "inherited sample size without StreamInfo",
			v:       frame.Validator{Profile: format.Full},
			hdr:     frame.Header{BlockSize: 4096, SampleRate: 44100, Channels: frame.ChannelsLR},
			wantErr: format.ErrOutOfRange,
		},
		{
			name:    "sample rate",
			v:       frame.Validator{Info: info, Profile: format.Full},
			hdr:     frame.Header{BlockSize: 4096, SampleRate: 700000, Channels: frame.ChannelsLR},
			wantErr: format.ErrOutOfRange,
		},
		{
			name:    "sample size",
			v:       frame.Validator{Info: info, Profile: format.Full},
			hdr:     frame.Header{BlockSize: 4096, Channels: frame.ChannelsLR, BitsPerSample: 3},
			wantErr: format.ErrOutOfRange,
		},
		{
			name:    "reserved channels",
			v:       frame.Validator{Info: info, Profile: format.Full},
			hdr:     frame.Header{BlockSize: 4096, Channels: frame.ChannelsMidSide + 1},
			wantErr: frame.ErrReserved,
		},
		{
			name:    "frame number",
			v:       frame.Validator{Info: info, Profile: format.Full},
			hdr:     frame.Header{HasFixedBlockSize: true, BlockSize: 4096, Channels: frame.ChannelsLR, Num: 1 << 31},
			wantErr: format.ErrOutOfRange,
		},
	}
	for _, g := range golden {
		hdr := g.hdr
		if got := hdr.State(); got != frame.Unvalidated {
			t.Errorf("%s: initial state mismatch; expected %v, got %v", g.name, frame.Unvalidated, got)
		}
		err := g.v.Validate(&hdr)
		if g.wantErr == nil {
			if err != nil {
				t.Errorf("%s: unexpected error: %v", g.name, err)
			}
			if got := hdr.State(); got != frame.Validated {
				t.Errorf("%s: state mismatch; expected %v, got %v", g.name, frame.Validated, got)
			}
			continue
		}
		if !errors.Is(err, g.wantErr) {
			t.Errorf("%s: error mismatch; expected %v, got %v", g.name, g.wantErr, err)
		}
		if got := hdr.State(); got != frame.Rejected {
			t.Errorf("%s: state mismatch; expected %v, got %v", g.name, frame.Rejected, got)
		}
	}
}

func TestValidateTerminal(t *testing.T) {
	v := &frame.Validator{Info: info, Profile: format.Subset}
	hdr := &frame.Header{BlockSize: 8192, Channels: frame.ChannelsLR}
	err := v.Validate(hdr)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	// A rejected header stays rejected, even if revalidated by a validator
	// which would accept it.
	lenient := &frame.Validator{Profile: format.Full, Info: &meta.StreamInfo{BlockSizeMax: 8192, SampleRate: 44100, NChannels: 2, BitsPerSample: 16}}
	if got := lenient.Validate(hdr); got != err {
		t.Errorf("error mismatch on revalidation; expected %v, got %v", err, got)
	}
	if got := hdr.State(); got != frame.Rejected {
		t.Errorf("state mismatch; expected %v, got %v", frame.Rejected, got)
	}

	// A validated header stays validated.
	hdr = &frame.Header{BlockSize: 4096, Channels: frame.ChannelsLR}
	if err := v.Validate(hdr); err != nil {
		t.Fatal(err)
	}
	hdr.BlockSize = 8192
	if err := v.Validate(hdr); err != nil {
		t.Errorf("unexpected error on revalidation: %v", err)
	}
}

func TestStateString(t *testing.T) {
	golden := []struct {
		s    frame.State
		want string
	}{
		{s: frame.Unvalidated, want: "unvalidated"},
		{s: frame.Validated, want: "validated"},
		{s: frame.Rejected, want: "rejected"},
	}
	for _, g := range golden {
		if got := g.s.String(); got != g.want {
			t.Errorf("string mismatch; expected %q, got %q", g.want, got)
		}
	}
}

func TestEffective(t *testing.T) {
	hdr := &frame.Header{BlockSize: 4096, Channels: frame.ChannelsLR}
	if got := hdr.EffectiveSampleRate(info); got != 44100 {
		t.Errorf("sample rate mismatch; expected 44100, got %d", got)
	}
	if got := hdr.EffectiveBitsPerSample(info); got != 16 {
		t.Errorf("sample size mismatch; expected 16, got %d", got)
	}
	if got := hdr.EffectiveSampleRate(nil); got != 0 {
		t.Errorf("sample rate mismatch; expected 0, got %d", got)
	}
	hdr.SampleRate, hdr.BitsPerSample = 48000, 24
	if got := hdr.EffectiveSampleRate(info); got != 48000 {
		t.Errorf("sample rate mismatch; expected 48000, got %d", got)
	}
	if got := hdr.EffectiveBitsPerSample(info); got != 24 {
		t.Errorf("sample size mismatch; expected 24, got %d", got)
	}
}
