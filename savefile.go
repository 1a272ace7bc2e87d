package d2s

import (
	"encoding/binary"

	"github.com/unkn0wn-root/d2s/attributes"
	"github.com/unkn0wn-root/d2s/internal/checksum"
	"github.com/unkn0wn-root/d2s/itemlist"
)

// Magic is the 4-byte header every save file starts with.
var Magic = [4]byte{0x55, 0xAA, 0x55, 0xAA}

var mercMagic = [2]byte{'j', 'f'}
var golemMagic = [2]byte{'k', 'f'}

// SaveFile is the fully decoded in-memory model of one .d2s character file.
// Opaque regions (quests, waypoints, npc intros, char skills, the assorted
// reserved blocks) are preserved as owned byte copies so mutating them never
// disturbs the buffer Decode was called with.
type SaveFile struct {
	FileVersion  uint32
	ActiveWeapon uint32
	CharName     [16]byte

	CharStatus      byte
	CharProgression byte
	Reserved38      [2]byte
	CharClass       int8
	Reserved41      [2]byte // always 0x1E10 on encode of a fresh model; preserved verbatim when decoded
	CharLevel       int8
	Reserved44      [4]byte
	LastPlayed      uint32
	Reserved52      [4]byte

	AssignedSkills      [64]byte
	SkillSlots          [4]uint32 // lmb, rmb, lmb_swap, rmb_swap
	CharMenuAppearance  [32]byte
	Difficulty          [3]byte
	MapID               uint32
	Reserved175         [2]byte

	MercDead   uint16
	MercID     uint32
	MercNameID uint16
	MercType   uint16
	MercExp    uint32

	Reserved191 [144]byte
	Quests      [298]byte
	Waypoints   [81]byte
	NPCIntros   [51]byte

	Attributes *attributes.Attributes
	CharSkills [32]byte

	Inventory *itemlist.ItemList
	Corpse    *itemlist.ItemList

	// MercItems is non-nil only when MercID != 0; the "jf" magic itself is
	// always present regardless (see end-to-end scenario 6).
	MercItems *itemlist.ItemList

	GolemMagicPresent bool
	HasGolem          bool

	// Trailer holds any bytes past the recognized structure, preserved
	// verbatim. Usually empty.
	Trailer []byte
}

type cursor struct {
	buf []byte
	pos int
}

func (c *cursor) need(where string, n int) error {
	if c.pos+n > len(c.buf) {
		return &TruncatedError{Where: where, Need: n, Have: len(c.buf) - c.pos}
	}
	return nil
}

func (c *cursor) take(where string, n int) ([]byte, error) {
	if err := c.need(where, n); err != nil {
		return nil, err
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *cursor) u16(where string) (uint16, error) {
	b, err := c.take(where, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *cursor) u32(where string) (uint32, error) {
	b, err := c.take(where, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) i8(where string) (int8, error) {
	b, err := c.take(where, 1)
	if err != nil {
		return 0, err
	}
	return int8(b[0]), nil
}

func (c *cursor) fixed(where string, dst []byte) error {
	b, err := c.take(where, len(dst))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

// Decode parses a raw .d2s buffer into a SaveFile using default (silent)
// logging and hooks. Equivalent to New(Options{}).Decode(buf).
func Decode(buf []byte) (*SaveFile, error) {
	return New(Options{}).Decode(buf)
}

// Encode serializes a SaveFile back to bytes, patching the file-size and
// checksum fields, using default (silent) logging and hooks. Equivalent to
// New(Options{}).Encode(sf).
func Encode(sf *SaveFile) ([]byte, error) {
	return New(Options{}).Encode(sf)
}

func (c *Codec) Decode(buf []byte) (*SaveFile, error) {
	if len(buf) < 4 || buf[0] != Magic[0] || buf[1] != Magic[1] || buf[2] != Magic[2] || buf[3] != Magic[3] {
		n := len(buf)
		if n > 4 {
			n = 4
		}
		return nil, &BadMagicError{Where: "save header", Expected: Magic[:], Found: append([]byte(nil), buf[:n]...)}
	}

	if c.strict {
		if !checksum.Verify(buf, checksum.Offset) {
			expected := checksum.Compute(buf, checksum.Offset)
			found := int32(binary.LittleEndian.Uint32(buf[checksum.Offset : checksum.Offset+checksum.Size]))
			return nil, &ChecksumMismatchError{Expected: expected, Found: found}
		}
	} else if !checksum.Verify(buf, checksum.Offset) {
		expected := checksum.Compute(buf, checksum.Offset)
		found := int32(binary.LittleEndian.Uint32(buf[checksum.Offset : checksum.Offset+checksum.Size]))
		c.hooks.ChecksumMismatch(expected, found)
		c.log.Warn("checksum mismatch", Fields{"expected": expected, "found": found})
	}

	cur := &cursor{buf: buf, pos: 4}
	sf := &SaveFile{}

	var err error
	if sf.FileVersion, err = cur.u32("file_version"); err != nil {
		return nil, err
	}
	if _, err = cur.u32("file_size"); err != nil { // re-derived on encode
		return nil, err
	}
	if _, err = cur.take("checksum", 4); err != nil { // re-derived on encode
		return nil, err
	}
	if sf.ActiveWeapon, err = cur.u32("active_weapon"); err != nil {
		return nil, err
	}
	if err = cur.fixed("char_name", sf.CharName[:]); err != nil {
		return nil, err
	}

	b, err := cur.take("char_status", 1)
	if err != nil {
		return nil, err
	}
	sf.CharStatus = b[0]
	if b, err = cur.take("char_progression", 1); err != nil {
		return nil, err
	}
	sf.CharProgression = b[0]
	if err = cur.fixed("reserved38", sf.Reserved38[:]); err != nil {
		return nil, err
	}
	if sf.CharClass, err = cur.i8("char_class"); err != nil {
		return nil, err
	}
	if err = cur.fixed("reserved41", sf.Reserved41[:]); err != nil {
		return nil, err
	}
	if sf.CharLevel, err = cur.i8("char_level"); err != nil {
		return nil, err
	}
	if err = cur.fixed("reserved44", sf.Reserved44[:]); err != nil {
		return nil, err
	}
	if sf.LastPlayed, err = cur.u32("last_played"); err != nil {
		return nil, err
	}
	if err = cur.fixed("reserved52", sf.Reserved52[:]); err != nil {
		return nil, err
	}
	if err = cur.fixed("assigned_skills", sf.AssignedSkills[:]); err != nil {
		return nil, err
	}
	for i := range sf.SkillSlots {
		if sf.SkillSlots[i], err = cur.u32("skill_slots"); err != nil {
			return nil, err
		}
	}
	if err = cur.fixed("char_menu_appearance", sf.CharMenuAppearance[:]); err != nil {
		return nil, err
	}
	if err = cur.fixed("difficulty", sf.Difficulty[:]); err != nil {
		return nil, err
	}
	if sf.MapID, err = cur.u32("map_id"); err != nil {
		return nil, err
	}
	if err = cur.fixed("reserved175", sf.Reserved175[:]); err != nil {
		return nil, err
	}
	if sf.MercDead, err = cur.u16("merc_dead"); err != nil {
		return nil, err
	}
	if sf.MercID, err = cur.u32("merc_id"); err != nil {
		return nil, err
	}
	if sf.MercNameID, err = cur.u16("merc_name_id"); err != nil {
		return nil, err
	}
	if sf.MercType, err = cur.u16("merc_type"); err != nil {
		return nil, err
	}
	if sf.MercExp, err = cur.u32("merc_exp"); err != nil {
		return nil, err
	}
	if err = cur.fixed("reserved191", sf.Reserved191[:]); err != nil {
		return nil, err
	}
	if err = cur.fixed("quests", sf.Quests[:]); err != nil {
		return nil, err
	}
	if err = cur.fixed("waypoints", sf.Waypoints[:]); err != nil {
		return nil, err
	}
	if err = cur.fixed("npc_intros", sf.NPCIntros[:]); err != nil {
		return nil, err
	}

	attrs, n, err := attributes.Decode(buf[cur.pos:])
	if err != nil {
		return nil, err
	}
	sf.Attributes = attrs
	cur.pos += n

	if err = cur.fixed("char_skills", sf.CharSkills[:]); err != nil {
		return nil, err
	}

	inv, n, err := itemlist.Decode(buf[cur.pos:], false)
	if err != nil {
		return nil, err
	}
	sf.Inventory = inv
	cur.pos += n

	corpse, n, err := itemlist.Decode(buf[cur.pos:], true)
	if err != nil {
		return nil, err
	}
	sf.Corpse = corpse
	cur.pos += n

	mm, err := cur.take("mercenary magic", 2)
	if err != nil {
		return nil, err
	}
	if mm[0] != mercMagic[0] || mm[1] != mercMagic[1] {
		return nil, &BadMagicError{Where: "mercenary magic", Expected: mercMagic[:], Found: append([]byte(nil), mm...)}
	}
	if sf.MercID != 0 {
		merc, n, err := itemlist.Decode(buf[cur.pos:], false)
		if err != nil {
			return nil, err
		}
		sf.MercItems = merc
		cur.pos += n
	} else {
		c.hooks.MercenaryAbsent()
	}

	if cur.pos+2 <= len(buf) && buf[cur.pos] == golemMagic[0] && buf[cur.pos+1] == golemMagic[1] {
		sf.GolemMagicPresent = true
		cur.pos += 2
		hb, err := cur.take("has_golem", 1)
		if err != nil {
			return nil, err
		}
		sf.HasGolem = hb[0] != 0
	} else {
		c.hooks.GolemAbsent()
	}

	sf.Trailer = append([]byte(nil), buf[cur.pos:]...)
	if len(sf.Trailer) > 0 {
		c.hooks.TrailerPreserved(len(sf.Trailer))
	}

	return sf, nil
}

func (c *Codec) Encode(sf *SaveFile) ([]byte, error) {
	out := make([]byte, 0, 2048)
	out = append(out, Magic[:]...)

	var u32buf [4]byte
	putU32 := func(v uint32) {
		binary.LittleEndian.PutUint32(u32buf[:], v)
		out = append(out, u32buf[:]...)
	}
	putU16 := func(v uint16) {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], v)
		out = append(out, b[:]...)
	}

	putU32(sf.FileVersion)
	putU32(0) // file_size placeholder, patched below
	out = append(out, 0, 0, 0, 0) // checksum placeholder, patched below
	putU32(sf.ActiveWeapon)
	out = append(out, sf.CharName[:]...)
	out = append(out, sf.CharStatus, sf.CharProgression)
	out = append(out, sf.Reserved38[:]...)
	out = append(out, byte(sf.CharClass))
	if sf.Reserved41 == ([2]byte{}) {
		out = append(out, 0x10, 0x1E) // 0x1E10 little-endian
	} else {
		out = append(out, sf.Reserved41[:]...)
	}
	out = append(out, byte(sf.CharLevel))
	out = append(out, sf.Reserved44[:]...)
	putU32(sf.LastPlayed)
	out = append(out, sf.Reserved52[:]...)
	out = append(out, sf.AssignedSkills[:]...)
	for _, v := range sf.SkillSlots {
		putU32(v)
	}
	out = append(out, sf.CharMenuAppearance[:]...)
	out = append(out, sf.Difficulty[:]...)
	putU32(sf.MapID)
	out = append(out, sf.Reserved175[:]...)
	putU16(sf.MercDead)
	putU32(sf.MercID)
	putU16(sf.MercNameID)
	putU16(sf.MercType)
	putU32(sf.MercExp)
	out = append(out, sf.Reserved191[:]...)
	out = append(out, sf.Quests[:]...)
	out = append(out, sf.Waypoints[:]...)
	out = append(out, sf.NPCIntros[:]...)
	out = append(out, attributes.Encode(sf.Attributes)...)
	out = append(out, sf.CharSkills[:]...)
	out = append(out, itemlist.Encode(sf.Inventory)...)
	out = append(out, itemlist.Encode(sf.Corpse)...)
	out = append(out, mercMagic[0], mercMagic[1])
	if sf.MercID != 0 {
		out = append(out, itemlist.Encode(sf.MercItems)...)
	}
	if sf.GolemMagicPresent {
		out = append(out, golemMagic[0], golemMagic[1])
		var hg byte
		if sf.HasGolem {
			hg = 1
		}
		out = append(out, hg)
	}
	out = append(out, sf.Trailer...)

	binary.LittleEndian.PutUint32(out[8:12], uint32(len(out)))

	oldChecksum := int32(binary.LittleEndian.Uint32(out[checksum.Offset : checksum.Offset+checksum.Size]))
	checksum.Patch(out, checksum.Offset)
	newChecksum := int32(binary.LittleEndian.Uint32(out[checksum.Offset : checksum.Offset+checksum.Size]))
	c.hooks.ChecksumPatched(oldChecksum, newChecksum)

	return out, nil
}
