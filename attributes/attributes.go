// Package attributes implements the character attribute block: a tagged,
// sentinel-terminated bit-packed stream of up to 16 named stats.
package attributes

import (
	"fmt"

	"github.com/unkn0wn-root/d2s/internal/bitstream"
)

// Magic is the 2-byte ASCII header preceding the bit-packed stream.
var Magic = [2]byte{'g', 'f'}

const sentinel = 0x1FF

// Flag identifies one of the 16 attribute slots.
type Flag int

const (
	Strength Flag = iota
	Energy
	Dexterity
	Vitality
	Stats
	Skills
	LifeCurrent
	LifeMax
	ManaCurrent
	ManaMax
	StaminaCurrent
	StaminaMax
	Level
	Experience
	Gold
	GoldStash

	numFlags
)

type entry struct {
	name    string
	bits    int
	divisor uint32 // 0 means "no divisor"
}

var table = [numFlags]entry{
	Strength:       {"strength", 10, 0},
	Energy:         {"energy", 10, 0},
	Dexterity:      {"dexterity", 10, 0},
	Vitality:       {"vitality", 10, 0},
	Stats:          {"stats", 10, 0},
	Skills:         {"skills", 8, 0},
	LifeCurrent:    {"life_current", 21, 256},
	LifeMax:        {"life_max", 21, 256},
	ManaCurrent:    {"mana_current", 21, 256},
	ManaMax:        {"mana_max", 21, 256},
	StaminaCurrent: {"stamina_current", 21, 256},
	StaminaMax:     {"stamina_max", 21, 256},
	Level:          {"level", 7, 0},
	Experience:     {"experience", 32, 0},
	Gold:           {"gold", 25, 0},
	GoldStash:      {"gold_stash", 25, 0},
}

// String returns the canonical name for a flag.
func (f Flag) String() string {
	if f < 0 || f >= numFlags {
		return "unknown"
	}
	return table[f].name
}

// UnknownAttributeError reports an attribute flag outside the 16-entry
// table and not the sentinel.
type UnknownAttributeError struct{ Flag uint32 }

func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("attributes: unknown flag %d", e.Flag)
}

// Attributes holds the 16 stats. Values with a divisor (the three
// current/max pairs) are stored as the raw, undivided integer read from the
// wire; Scaled returns the divided float for display.
type Attributes struct {
	values [numFlags]uint32
}

// Get returns the raw stored value for flag.
func (a *Attributes) Get(f Flag) uint32 { return a.values[f] }

// Set assigns the raw stored value for flag.
func (a *Attributes) Set(f Flag, v uint32) { a.values[f] = v }

// Scaled returns the display value for flag, dividing by its table divisor
// when one is defined (life/mana/stamina), or the raw integer otherwise.
func (a *Attributes) Scaled(f Flag) float64 {
	e := table[f]
	if e.divisor == 0 {
		return float64(a.values[f])
	}
	return float64(a.values[f]) / float64(e.divisor)
}

// Decode reads the "gf"-prefixed attribute block starting at the beginning
// of buf, returning the parsed Attributes and the number of bytes consumed.
func Decode(buf []byte) (*Attributes, int, error) {
	if len(buf) < 2 || buf[0] != Magic[0] || buf[1] != Magic[1] {
		return nil, 0, &BadMagicError{Expected: Magic, Found: buf[:min(2, len(buf))]}

	}

	r := bitstream.NewReader(buf[2:])
	a := &Attributes{}

	for {
		flag, err := r.ReadBits(9)
		if err != nil {
			return nil, 0, err
		}
		if flag == sentinel {
			break
		}
		if flag >= uint32(numFlags) {
			return nil, 0, &UnknownAttributeError{Flag: flag}
		}
		v, err := r.ReadBits(table[flag].bits)
		if err != nil {
			return nil, 0, err
		}
		a.values[flag] = v
	}
	r.AlignByte()
	return a, 2 + r.BytePos(), nil
}

// Encode writes only the nonzero attribute slots, in ascending flag order,
// followed by the sentinel and zero padding to a byte boundary, prefixed by
// the "gf" magic.
func Encode(a *Attributes) []byte {
	w := bitstream.NewWriter()
	for f := Flag(0); f < numFlags; f++ {
		v := a.values[f]
		if v == 0 {
			continue
		}
		_ = w.WriteBits(uint32(f), 9)
		_ = w.WriteBits(v, table[f].bits)
	}
	_ = w.WriteBits(sentinel, 9)
	body := w.Finish()

	out := make([]byte, 0, len(body)+2)
	out = append(out, Magic[0], Magic[1])
	out = append(out, body...)
	return out
}

// BadMagicError reports a magic-bytes mismatch.
type BadMagicError struct {
	Expected [2]byte
	Found    []byte
}

func (e *BadMagicError) Error() string {
	return fmt.Sprintf("attributes: bad magic: expected %q, found %q", e.Expected[:], e.Found)
}
