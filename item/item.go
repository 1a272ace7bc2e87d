// Package item implements the polymorphic, context-dependent bit-packed
// item record: a fixed header, an optional extended body gated by the
// "simple" flag, quality-dependent naming sub-schemas, and recursive
// socketed child items.
package item

import (
	"fmt"

	"github.com/unkn0wn-root/d2s/internal/bitstream"
	"github.com/unkn0wn-root/d2s/magicprops"
	"github.com/unkn0wn-root/d2s/static"
)

// Magic is the 2-byte ASCII header preceding every single item record —
// both top-level and socketed.
var Magic = [2]byte{'J', 'M'}

// BadMagicError reports a missing or incorrect item magic.
type BadMagicError struct{ Found []byte }

func (e *BadMagicError) Error() string {
	return fmt.Sprintf("item: bad magic: found %q", e.Found)
}

// InvalidQualityError reports a quality value outside the recognized set.
type InvalidQualityError struct{ Quality uint32 }

func (e *InvalidQualityError) Error() string {
	return fmt.Sprintf("item: invalid quality %d", e.Quality)
}

// Item is a single decoded item record, including any socketed children.
type Item struct {
	QuestItem  bool
	Identified bool
	Autofill   uint32
	Socketed   bool
	New        bool
	AutoEquip  uint32
	Ear        bool
	Starter    bool
	Simple     bool
	Ethereal   bool
	Personalized bool
	Runeword   bool

	Unknown uint32 // 15 opaque bits, preserved verbatim

	Parent   uint32
	Equipped uint32
	X        uint32
	Y        uint32
	Stored   uint32

	Code string // 3-character ASCII base item type

	SocketsFilled uint32
	SocketCount   uint32 // total socket slots; may exceed len(Sockets) on a partially-filled item

	// Extended body — zero-valued and meaningless when Simple is true.
	ID      uint32
	Level   uint32
	Quality static.Quality

	MultiPic      bool
	PicID         uint32
	ClassSpecific bool
	ClassInfo     uint32

	QualityInfo   uint32   // LOW or HIGH
	NameIDFirst   uint32   // MAGIC, SET, RARE/CRAFTED, UNIQUE
	NameIDLast    uint32   // MAGIC, RARE/CRAFTED
	MagicPrefixes [3]uint32 // RARE/CRAFTED, 0 = absent
	MagicSuffixes [3]uint32 // RARE/CRAFTED, 0 = absent

	RunewordID    uint32
	RunewordConst uint32 // "always seems to be 5" per source; preserved, not normalized

	PersonalizedName string

	TomeInfo uint32

	UnusualBit uint32 // meaning unknown; preserved verbatim

	Defense uint32

	DurabilityMax     uint32
	DurabilityCurrent uint32

	Quantity uint32

	SetListID uint32 // 5-bit index into static.SetListCount, quality SET only

	MagicalProps  magicprops.List
	SetProps      []magicprops.List
	RunewordProps magicprops.List

	Sockets []*Item
}

// HasDefense reports whether this item's code carries a defense field.
func (it *Item) HasDefense() bool { return static.HasDefense(it.Code) }

// HasDurability reports whether this item's code carries durability fields.
func (it *Item) HasDurability() bool { return static.HasDurability(it.Code) }

// HasQuantity reports whether this item's code carries a quantity field.
func (it *Item) HasQuantity() bool { return static.HasQuantity(it.Code) }

// IsTome reports whether this item's code is a recognized tome base item.
func (it *Item) IsTome() bool { return static.IsTome(it.Code) }

// Decode reads one item (header, optional extended body, and any socketed
// children) starting at the beginning of buf. It returns the item and the
// total number of bytes consumed, including every socketed child.
func Decode(buf []byte) (*Item, int, error) {
	if len(buf) < 2 || buf[0] != Magic[0] || buf[1] != Magic[1] {
		n := len(buf)
		if n > 2 {
			n = 2
		}
		return nil, 0, &BadMagicError{Found: buf[:n]}
	}

	r := bitstream.NewReader(buf[2:])
	it := &Item{}

	readBool := func(n int) (bool, error) {
		v, err := r.ReadBits(n)
		return v != 0, err
	}

	var err error
	if it.QuestItem, err = readBool(1); err != nil {
		return nil, 0, err
	}
	if _, err = r.ReadBits(3); err != nil {
		return nil, 0, err
	}
	if it.Identified, err = readBool(1); err != nil {
		return nil, 0, err
	}
	if _, err = r.ReadBits(5); err != nil {
		return nil, 0, err
	}
	if it.Autofill, err = r.ReadBits(1); err != nil {
		return nil, 0, err
	}
	if it.Socketed, err = readBool(1); err != nil {
		return nil, 0, err
	}
	if _, err = r.ReadBits(1); err != nil {
		return nil, 0, err
	}
	if it.New, err = readBool(1); err != nil {
		return nil, 0, err
	}
	if it.AutoEquip, err = r.ReadBits(2); err != nil {
		return nil, 0, err
	}
	if it.Ear, err = readBool(1); err != nil {
		return nil, 0, err
	}
	if it.Starter, err = readBool(1); err != nil {
		return nil, 0, err
	}
	if _, err = r.ReadBits(3); err != nil {
		return nil, 0, err
	}
	if it.Simple, err = readBool(1); err != nil {
		return nil, 0, err
	}
	if it.Ethereal, err = readBool(1); err != nil {
		return nil, 0, err
	}
	if _, err = r.ReadBits(1); err != nil { // reserved, always 1 on encode
		return nil, 0, err
	}
	if it.Personalized, err = readBool(1); err != nil {
		return nil, 0, err
	}
	if _, err = r.ReadBits(1); err != nil {
		return nil, 0, err
	}
	if it.Runeword, err = readBool(1); err != nil {
		return nil, 0, err
	}
	if it.Unknown, err = r.ReadBits(15); err != nil {
		return nil, 0, err
	}
	if it.Parent, err = r.ReadBits(3); err != nil {
		return nil, 0, err
	}
	if it.Equipped, err = r.ReadBits(4); err != nil {
		return nil, 0, err
	}
	if it.X, err = r.ReadBits(4); err != nil {
		return nil, 0, err
	}
	if it.Y, err = r.ReadBits(3); err != nil {
		return nil, 0, err
	}
	if _, err = r.ReadBits(1); err != nil {
		return nil, 0, err
	}
	if it.Stored, err = r.ReadBits(3); err != nil {
		return nil, 0, err
	}

	codeBytes, err := r.ReadBytes(4)
	if err != nil {
		return nil, 0, err
	}
	it.Code = string(codeBytes[:3])

	if it.SocketsFilled, err = r.ReadBits(3); err != nil {
		return nil, 0, err
	}

	if it.Simple {
		r.AlignByte()
		return it, 2 + r.BytePos(), nil
	}

	if it.ID, err = r.ReadBits(32); err != nil {
		return nil, 0, err
	}
	if it.Level, err = r.ReadBits(7); err != nil {
		return nil, 0, err
	}
	q, err := r.ReadBits(4)
	if err != nil {
		return nil, 0, err
	}
	it.Quality = static.Quality(q)
	if !it.Quality.Valid() {
		return nil, 0, &InvalidQualityError{Quality: q}
	}

	if it.MultiPic, err = readBool(1); err != nil {
		return nil, 0, err
	}
	if it.MultiPic {
		if it.PicID, err = r.ReadBits(3); err != nil {
			return nil, 0, err
		}
	}

	if it.ClassSpecific, err = readBool(1); err != nil {
		return nil, 0, err
	}
	if it.ClassSpecific {
		if it.ClassInfo, err = r.ReadBits(11); err != nil {
			return nil, 0, err
		}
	}

	switch it.Quality {
	case static.QualityLow, static.QualityHigh:
		if it.QualityInfo, err = r.ReadBits(3); err != nil {
			return nil, 0, err
		}
	case static.QualityMagic:
		if it.NameIDFirst, err = r.ReadBits(11); err != nil {
			return nil, 0, err
		}
		if it.NameIDLast, err = r.ReadBits(11); err != nil {
			return nil, 0, err
		}
	case static.QualitySet:
		if it.NameIDFirst, err = r.ReadBits(12); err != nil {
			return nil, 0, err
		}
	case static.QualityRare, static.QualityCrafted:
		if it.NameIDFirst, err = r.ReadBits(8); err != nil {
			return nil, 0, err
		}
		if it.NameIDLast, err = r.ReadBits(8); err != nil {
			return nil, 0, err
		}
		for i := 0; i < 3; i++ {
			hasPrefix, err := readBool(1)
			if err != nil {
				return nil, 0, err
			}
			if hasPrefix {
				if it.MagicPrefixes[i], err = r.ReadBits(11); err != nil {
					return nil, 0, err
				}
			}
			hasSuffix, err := readBool(1)
			if err != nil {
				return nil, 0, err
			}
			if hasSuffix {
				if it.MagicSuffixes[i], err = r.ReadBits(11); err != nil {
					return nil, 0, err
				}
			}
		}
	case static.QualityUnique:
		if it.NameIDFirst, err = r.ReadBits(12); err != nil {
			return nil, 0, err
		}
	}

	if it.Runeword {
		if it.RunewordID, err = r.ReadBits(12); err != nil {
			return nil, 0, err
		}
		if it.RunewordConst, err = r.ReadBits(4); err != nil {
			return nil, 0, err
		}
	}

	if it.Personalized {
		var name []rune
		for {
			c, err := r.ReadBits(7)
			if err != nil {
				return nil, 0, err
			}
			if c == 0 {
				break
			}
			name = append(name, rune(c))
		}
		it.PersonalizedName = string(name)
	}

	if it.IsTome() {
		if it.TomeInfo, err = r.ReadBits(5); err != nil {
			return nil, 0, err
		}
	}

	if it.UnusualBit, err = r.ReadBits(1); err != nil {
		return nil, 0, err
	}

	if it.HasDefense() {
		if it.Defense, err = r.ReadBits(11); err != nil {
			return nil, 0, err
		}
	}

	if it.HasDurability() {
		if it.DurabilityMax, err = r.ReadBits(8); err != nil {
			return nil, 0, err
		}
		if it.DurabilityMax > 0 {
			if it.DurabilityCurrent, err = r.ReadBits(8); err != nil {
				return nil, 0, err
			}
			if _, err = r.ReadBits(1); err != nil {
				return nil, 0, err
			}
		}
	}

	if it.HasQuantity() {
		if it.Quantity, err = r.ReadBits(9); err != nil {
			return nil, 0, err
		}
	}

	if it.Socketed {
		if it.SocketCount, err = r.ReadBits(4); err != nil {
			return nil, 0, err
		}
	}

	if it.Quality == static.QualitySet {
		if it.SetListID, err = r.ReadBits(5); err != nil {
			return nil, 0, err
		}
	}

	if it.MagicalProps, err = magicprops.Decode(r); err != nil {
		return nil, 0, err
	}

	if it.Quality == static.QualitySet {
		count := static.SetListCount(it.SetListID)
		it.SetProps = make([]magicprops.List, count)
		for i := 0; i < count; i++ {
			if it.SetProps[i], err = magicprops.Decode(r); err != nil {
				return nil, 0, err
			}
		}
	}

	if it.Runeword {
		if it.RunewordProps, err = magicprops.Decode(r); err != nil {
			return nil, 0, err
		}
	}

	r.AlignByte()
	consumed := 2 + r.BytePos()

	if it.Socketed {
		for i := uint32(0); i < it.SocketsFilled; i++ {
			child, n, err := Decode(buf[consumed:])
			if err != nil {
				return nil, 0, err
			}
			it.Sockets = append(it.Sockets, child)
			consumed += n
		}
	}

	return it, consumed, nil
}

// Encode writes the item (header, optional extended body, and any socketed
// children) in the same field order Decode reads them, producing bytes
// identical to the source of a decoded item.
func Encode(it *Item) []byte {
	w := bitstream.NewWriter()

	writeBool := func(b bool, n int) {
		v := uint32(0)
		if b {
			v = 1
		}
		_ = w.WriteBits(v, n)
	}

	writeBool(it.QuestItem, 1)
	_ = w.WriteBits(0, 3)
	writeBool(it.Identified, 1)
	_ = w.WriteBits(0, 5)
	_ = w.WriteBits(it.Autofill, 1)
	writeBool(it.Socketed, 1)
	_ = w.WriteBits(0, 1)
	writeBool(it.New, 1)
	_ = w.WriteBits(it.AutoEquip, 2)
	writeBool(it.Ear, 1)
	writeBool(it.Starter, 1)
	_ = w.WriteBits(0, 3)
	writeBool(it.Simple, 1)
	writeBool(it.Ethereal, 1)
	_ = w.WriteBits(1, 1)
	writeBool(it.Personalized, 1)
	_ = w.WriteBits(0, 1)
	writeBool(it.Runeword, 1)
	_ = w.WriteBits(it.Unknown, 15)
	_ = w.WriteBits(it.Parent, 3)
	_ = w.WriteBits(it.Equipped, 4)
	_ = w.WriteBits(it.X, 4)
	_ = w.WriteBits(it.Y, 3)
	_ = w.WriteBits(0, 1)
	_ = w.WriteBits(it.Stored, 3)

	code := it.Code
	for len(code) < 3 {
		code += "\x00"
	}
	_ = w.WriteBits(uint32(code[0]), 8)
	_ = w.WriteBits(uint32(code[1]), 8)
	_ = w.WriteBits(uint32(code[2]), 8)
	_ = w.WriteBits(' ', 8)

	_ = w.WriteBits(it.SocketsFilled, 3)

	if !it.Simple {
		_ = w.WriteBits(it.ID, 32)
		_ = w.WriteBits(it.Level, 7)
		_ = w.WriteBits(uint32(it.Quality), 4)
		writeBool(it.MultiPic, 1)
		if it.MultiPic {
			_ = w.WriteBits(it.PicID, 3)
		}
		writeBool(it.ClassSpecific, 1)
		if it.ClassSpecific {
			_ = w.WriteBits(it.ClassInfo, 11)
		}

		switch it.Quality {
		case static.QualityLow, static.QualityHigh:
			_ = w.WriteBits(it.QualityInfo, 3)
		case static.QualityMagic:
			_ = w.WriteBits(it.NameIDFirst, 11)
			_ = w.WriteBits(it.NameIDLast, 11)
		case static.QualitySet:
			_ = w.WriteBits(it.NameIDFirst, 12)
		case static.QualityRare, static.QualityCrafted:
			_ = w.WriteBits(it.NameIDFirst, 8)
			_ = w.WriteBits(it.NameIDLast, 8)
			for i := 0; i < 3; i++ {
				if it.MagicPrefixes[i] != 0 {
					_ = w.WriteBits(1, 1)
					_ = w.WriteBits(it.MagicPrefixes[i], 11)
				} else {
					_ = w.WriteBits(0, 1)
				}
				if it.MagicSuffixes[i] != 0 {
					_ = w.WriteBits(1, 1)
					_ = w.WriteBits(it.MagicSuffixes[i], 11)
				} else {
					_ = w.WriteBits(0, 1)
				}
			}
		case static.QualityUnique:
			_ = w.WriteBits(it.NameIDFirst, 12)
		}

		if it.Runeword {
			_ = w.WriteBits(it.RunewordID, 12)
			_ = w.WriteBits(it.RunewordConst, 4)
		}

		if it.Personalized {
			for _, c := range it.PersonalizedName {
				_ = w.WriteBits(uint32(c), 7)
			}
			_ = w.WriteBits(0, 7)
		}

		if it.IsTome() {
			_ = w.WriteBits(it.TomeInfo, 5)
		}

		_ = w.WriteBits(it.UnusualBit, 1)

		if it.HasDefense() {
			_ = w.WriteBits(it.Defense, 11)
		}

		if it.HasDurability() {
			_ = w.WriteBits(it.DurabilityMax, 8)
			if it.DurabilityMax > 0 {
				_ = w.WriteBits(it.DurabilityCurrent, 8)
				_ = w.WriteBits(0, 1)
			}
		}

		if it.HasQuantity() {
			_ = w.WriteBits(it.Quantity, 9)
		}

		if it.Socketed {
			_ = w.WriteBits(it.SocketCount, 4)
		}

		if it.Quality == static.QualitySet {
			_ = w.WriteBits(it.SetListID, 5)
		}

		_ = magicprops.Encode(w, it.MagicalProps)

		if it.Quality == static.QualitySet {
			for _, props := range it.SetProps {
				_ = magicprops.Encode(w, props)
			}
		}

		if it.Runeword {
			_ = magicprops.Encode(w, it.RunewordProps)
		}
	}

	body := w.Finish()
	out := make([]byte, 0, 2+len(body))
	out = append(out, Magic[0], Magic[1])
	out = append(out, body...)

	if !it.Simple {
		for _, child := range it.Sockets {
			out = append(out, Encode(child)...)
		}
	}
	return out
}
