package bits

import (
	"bytes"
	"testing"
)

func TestWriterMasksHighBits(t *testing.T) {
	buf := &bytes.Buffer{}
	bw := NewWriter(buf)
	// Only the 4 low bits of 0xFA are written.
	if err := bw.Write(0xFA, 4); err != nil {
		t.Fatal(err)
	}
	if err := bw.Write(0x3, 4); err != nil {
		t.Fatal(err)
	}
	if bw.Tell() != 8 {
		t.Errorf("position mismatch; expected 8, got %d", bw.Tell())
	}
	if err := bw.Close(); err != nil {
		t.Fatal(err)
	}
	want := []byte{0xA3}
	if got := buf.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("content mismatch; expected % X, got % X", want, got)
	}
}

func TestWriterAlign(t *testing.T) {
	buf := &bytes.Buffer{}
	bw := NewWriter(buf)
	if err := bw.Write(0x1, 1); err != nil {
		t.Fatal(err)
	}
	if err := bw.Align(); err != nil {
		t.Fatal(err)
	}
	if bw.Tell() != 8 {
		t.Errorf("position mismatch; expected 8, got %d", bw.Tell())
	}
	if err := bw.Write(0xFFFF, 16); err != nil {
		t.Fatal(err)
	}
	if err := bw.Close(); err != nil {
		t.Fatal(err)
	}
	want := []byte{0x80, 0xFF, 0xFF}
	if got := buf.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("content mismatch; expected % X, got % X", want, got)
	}
}

func TestWriterReaderRoundTrip(t *testing.T) {
	golden := []struct {
		x uint64
		n uint
	}{
		{x: 0, n: 0},
		{x: 1, n: 1},
		{x: 0x1F, n: 5},
		{x: 0xDEADBEEF, n: 32},
		{x: 0x123456789, n: 36},
		{x: 0xFFFFFFFFFFFFFFFF, n: 64},
	}
	buf := &bytes.Buffer{}
	bw := NewWriter(buf)
	for _, g := range golden {
		if err := bw.Write(g.x, g.n); err != nil {
			t.Fatal(err)
		}
	}
	if err := bw.Close(); err != nil {
		t.Fatal(err)
	}
	br := NewReader(buf)
	for _, g := range golden {
		got, err := br.Read(g.n)
		if err != nil {
			t.Fatal(err)
		}
		if got != g.x {
			t.Errorf("value mismatch for %d bits; expected 0x%X, got 0x%X", g.n, g.x, got)
		}
	}
}
