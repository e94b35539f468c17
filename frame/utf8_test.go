package frame

import (
	"bytes"
	"testing"

	"github.com/mewkiz/flacfmt/internal/bits"
)

func TestUTF8RoundTrip(t *testing.T) {
	golden := []struct {
		x uint64
		n int
	}{
		{x: 0, n: 1},
		{x: rune1Max, n: 1},
		{x: rune1Max + 1, n: 2},
		{x: rune2Max, n: 2},
		{x: rune2Max + 1, n: 3},
		{x: rune3Max, n: 3},
		{x: rune3Max + 1, n: 4},
		{x: rune4Max, n: 4},
		{x: rune4Max + 1, n: 5},
		{x: rune5Max, n: 5},
		{x: rune5Max + 1, n: 6},
		{x: rune6Max, n: 6},
		{x: rune6Max + 1, n: 7},
		{x: rune7Max, n: 7},
	}
	for _, g := range golden {
		buf := &bytes.Buffer{}
		bw := bits.NewWriter(buf)
		if err := encodeUTF8(bw, g.x); err != nil {
			t.Errorf("unable to encode %d; %v", g.x, err)
			continue
		}
		if err := bw.Close(); err != nil {
			t.Fatal(err)
		}
		if buf.Len() != g.n {
			t.Errorf("length mismatch of %d; expected %d bytes, got %d", g.x, g.n, buf.Len())
		}
		got, err := decodeUTF8(bits.NewReader(buf))
		if err != nil {
			t.Errorf("unable to decode %d; %v", g.x, err)
			continue
		}
		if got != g.x {
			t.Errorf("result mismatch; expected %d, got %d", g.x, got)
		}
	}

	if err := encodeUTF8(bits.NewWriter(&bytes.Buffer{}), rune7Max+1); err == nil {
		t.Errorf("expected error encoding %d, got nil", uint64(rune7Max+1))
	}
}
