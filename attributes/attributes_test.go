package attributes

import "testing"

func TestEncodeDecodeEmpty(t *testing.T) {
	a := &Attributes{}
	buf := Encode(a)

	got, n, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("consumed %d, want %d", n, len(buf))
	}
	for f := Flag(0); f < numFlags; f++ {
		if got.Get(f) != 0 {
			t.Errorf("flag %s: want 0 got %d", f, got.Get(f))
		}
	}
}

func TestStrengthAndLevelScenario(t *testing.T) {
	// Spec §8 scenario 3: strength=50, level=12, all else zero.
	a := &Attributes{}
	a.Set(Strength, 50)
	a.Set(Level, 12)

	buf := Encode(a)
	if buf[0] != 'g' || buf[1] != 'f' {
		t.Fatalf("bad magic prefix: %v", buf[:2])
	}

	got, n, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("consumed %d, want %d", n, len(buf))
	}
	if got.Get(Strength) != 50 {
		t.Errorf("strength: want 50 got %d", got.Get(Strength))
	}
	if got.Get(Level) != 12 {
		t.Errorf("level: want 12 got %d", got.Get(Level))
	}
	for f := Flag(0); f < numFlags; f++ {
		if f == Strength || f == Level {
			continue
		}
		if got.Get(f) != 0 {
			t.Errorf("flag %s: want 0 got %d", f, got.Get(f))
		}
	}
}

func TestRoundTripAllFields(t *testing.T) {
	a := &Attributes{}
	for f := Flag(0); f < numFlags; f++ {
		a.Set(f, uint32(1<<uint(table[f].bits-1)))
	}
	buf := Encode(a)
	got, _, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for f := Flag(0); f < numFlags; f++ {
		if got.Get(f) != a.Get(f) {
			t.Errorf("flag %s: want %d got %d", f, a.Get(f), got.Get(f))
		}
	}
}

func TestScaledLifeDivisor(t *testing.T) {
	a := &Attributes{}
	a.Set(LifeCurrent, 256*45)
	if got := a.Scaled(LifeCurrent); got != 45.0 {
		t.Errorf("want 45.0 got %v", got)
	}
}

func TestDecodeRejectsTruncatedMagic(t *testing.T) {
	buf := Encode(&Attributes{})
	// Dropping the first byte leaves "f" and the body where "gf" is
	// expected, so the magic check must fail.
	if _, _, err := Decode(buf[1:]); err == nil {
		t.Fatal("want error decoding with truncated magic")
	}
}
