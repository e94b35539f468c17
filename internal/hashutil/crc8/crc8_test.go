package crc8_test

import (
	"testing"

	"github.com/mewkiz/flacfmt/internal/hashutil/crc8"
)

func TestChecksumATM(t *testing.T) {
	golden := []struct {
		data []byte
		want uint8
	}{
		{data: nil, want: 0x00},
		// CRC-8/SMBUS check value.
		{data: []byte("123456789"), want: 0xF4},
		{data: []byte{0x00}, want: 0x00},
		{data: []byte{0x01}, want: 0x07},
		{data: []byte{0x80}, want: 0x89},
	}
	for _, g := range golden {
		if got := crc8.ChecksumATM(g.data); got != g.want {
			t.Errorf("checksum mismatch of % X; expected 0x%02X, got 0x%02X", g.data, g.want, got)
		}
		h := crc8.NewATM()
		for i := range g.data {
			if _, err := h.Write(g.data[i : i+1]); err != nil {
				t.Fatal(err)
			}
		}
		if got := h.Sum8(); got != g.want {
			t.Errorf("streaming checksum mismatch of % X; expected 0x%02X, got 0x%02X", g.data, g.want, got)
		}
		if got := h.Sum(nil); len(got) != crc8.Size || got[0] != g.want {
			t.Errorf("Sum mismatch of % X; expected [%02X], got % X", g.data, g.want, got)
		}
	}
}
