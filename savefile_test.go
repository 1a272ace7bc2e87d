package d2s

import (
	"bytes"
	"testing"

	"github.com/unkn0wn-root/d2s/attributes"
	"github.com/unkn0wn-root/d2s/itemlist"
)

func freshSave() *SaveFile {
	sf := &SaveFile{
		FileVersion:  96,
		ActiveWeapon: 0,
		CharClass:    0,
		CharLevel:    1,
		Reserved41:   [2]byte{0x10, 0x1E}, // 0x1E10 little-endian
		Attributes:   &attributes.Attributes{},
		Inventory:    &itemlist.ItemList{},
		Corpse:       &itemlist.ItemList{},
	}
	copy(sf.CharName[:], "Hero")
	sf.Attributes.Set(attributes.Strength, 50)
	sf.Attributes.Set(attributes.Level, 12)
	return sf
}

func TestRoundTripFreshSave(t *testing.T) {
	sf := freshSave()
	buf, err := Encode(sf)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	reEncoded, err := Encode(got)
	if err != nil {
		t.Fatalf("re-Encode: %v", err)
	}
	if !bytes.Equal(reEncoded, buf) {
		t.Fatalf("round trip mismatch:\n got  %x\n want %x", reEncoded, buf)
	}
}

func TestSizeFieldLaw(t *testing.T) {
	// P6: after Encode, the u32 at offset 8 equals the total output length.
	sf := freshSave()
	buf, err := Encode(sf)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	size := uint32(buf[8]) | uint32(buf[9])<<8 | uint32(buf[10])<<16 | uint32(buf[11])<<24
	if int(size) != len(buf) {
		t.Fatalf("file_size field %d, want %d", size, len(buf))
	}
}

func TestMercenaryAbsentStillHasMagic(t *testing.T) {
	sf := freshSave()
	sf.MercID = 0
	buf, err := Encode(sf)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.MercItems != nil {
		t.Fatalf("expected no mercenary items when merc_id == 0")
	}
}

func TestBadMagicRejected(t *testing.T) {
	sf := freshSave()
	buf, err := Encode(sf)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	buf[0] = 0x00
	if _, err := Decode(buf); err == nil {
		t.Fatal("want BadMagicError")
	}
}

func TestStrictChecksumRejectsCorruption(t *testing.T) {
	sf := freshSave()
	buf, err := Encode(sf)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	buf[20] ^= 0xFF // corrupt a char_name byte without re-patching checksum

	codec := New(Options{StrictChecksum: true})
	if _, err := codec.Decode(buf); err == nil {
		t.Fatal("want ChecksumMismatchError")
	}
}
