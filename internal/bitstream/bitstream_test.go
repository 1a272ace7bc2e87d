package bitstream

import "testing"

func TestRoundTripAllWidths(t *testing.T) {
	for n := 1; n <= 32; n++ {
		max := uint64(1)<<uint(n) - 1
		samples := []uint32{0, uint32(max)}
		if n > 1 {
			samples = append(samples, uint32(max>>1), 1)
		}
		for _, v := range samples {
			w := NewWriter()
			if err := w.WriteBits(v, n); err != nil {
				t.Fatalf("n=%d v=%d: WriteBits: %v", n, v, err)
			}
			out := w.Finish()

			r := NewReader(out)
			got, err := r.ReadBits(n)
			if err != nil {
				t.Fatalf("n=%d v=%d: ReadBits: %v", n, v, err)
			}
			if got != v {
				t.Errorf("n=%d v=%d: round-trip got %d", n, v, got)
			}
		}
	}
}

func TestRoundTripMultipleFields(t *testing.T) {
	type field struct {
		value uint32
		width int
	}
	fields := []field{
		{0x1F, 5},
		{0, 3},
		{0xAA, 8},
		{1, 1},
		{0x3FF, 10},
		{7, 3},
	}

	w := NewWriter()
	for _, f := range fields {
		if err := w.WriteBits(f.value, f.width); err != nil {
			t.Fatalf("WriteBits(%d,%d): %v", f.value, f.width, err)
		}
	}
	out := w.Finish()

	r := NewReader(out)
	for i, f := range fields {
		got, err := r.ReadBits(f.width)
		if err != nil {
			t.Fatalf("field %d: ReadBits: %v", i, err)
		}
		if got != f.value {
			t.Errorf("field %d: want %d got %d", i, f.value, got)
		}
	}
}

func TestReadBytesIdentity(t *testing.T) {
	raw := []byte("JM\x00\x01rune")
	r := NewReader(raw)
	got, err := r.ReadBytes(len(raw))
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	for i := range raw {
		if got[i] != raw[i] {
			t.Errorf("byte %d: want %#x got %#x", i, raw[i], got[i])
		}
	}
}

func TestExhausted(t *testing.T) {
	r := NewReader([]byte{0x01})
	if _, err := r.ReadBits(16); err != ErrExhausted {
		t.Fatalf("want ErrExhausted, got %v", err)
	}
}

func TestInvalidWidth(t *testing.T) {
	r := NewReader([]byte{0x00, 0x00, 0x00, 0x00, 0x00})
	if _, err := r.ReadBits(0); err == nil {
		t.Fatal("want error for width 0")
	}
	if _, err := r.ReadBits(33); err == nil {
		t.Fatal("want error for width 33")
	}

	w := NewWriter()
	if err := w.WriteBits(0, 0); err == nil {
		t.Fatal("want error for width 0")
	}
	if err := w.WriteBits(0, 33); err == nil {
		t.Fatal("want error for width 33")
	}
}

func TestAlignByte(t *testing.T) {
	w := NewWriter()
	_ = w.WriteBits(0x5, 3)
	out := w.Finish()

	r := NewReader(out)
	if _, err := r.ReadBits(3); err != nil {
		t.Fatalf("ReadBits: %v", err)
	}
	if r.RemainingInByte() != 5 {
		t.Fatalf("want 5 bits remaining, got %d", r.RemainingInByte())
	}
	r.AlignByte()
	if r.RemainingInByte() != 0 {
		t.Fatalf("want 0 bits remaining after align, got %d", r.RemainingInByte())
	}
}

func TestRawReaderNoReversal(t *testing.T) {
	// With both reversals disabled, ReadBits(8) should return the raw byte
	// value unchanged.
	raw := []byte{0xB0}
	r := NewRawReader(raw, false, false)
	v, err := r.ReadBits(8)
	if err != nil {
		t.Fatalf("ReadBits: %v", err)
	}
	if v != 0xB0 {
		t.Fatalf("want 0xB0 got %#x", v)
	}
}

func TestKnownByteDecomposition(t *testing.T) {
	// 0xB0 = 1011_0000. Wire order (byte-reverse then value-reverse) reads
	// bits LSB-to-MSB of the original byte: 0,0,0,0,1,1,0,1.
	r := NewReader([]byte{0xB0})
	v3, err := r.ReadBits(3)
	if err != nil {
		t.Fatalf("ReadBits(3): %v", err)
	}
	if v3 != 0 {
		t.Fatalf("want 0 got %d", v3)
	}
	v4, err := r.ReadBits(4)
	if err != nil {
		t.Fatalf("ReadBits(4): %v", err)
	}
	if v4 != 6 {
		t.Fatalf("want 6 got %d", v4)
	}
	v1, err := r.ReadBits(1)
	if err != nil {
		t.Fatalf("ReadBits(1): %v", err)
	}
	if v1 != 1 {
		t.Fatalf("want 1 got %d", v1)
	}
}
