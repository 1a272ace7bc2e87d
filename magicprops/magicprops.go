// Package magicprops implements the tagged, sentinel-terminated list of
// item magical-property modifiers. Each record's shape (field widths and an
// optional bias) is determined by a 9-bit flag looked up in a static table.
package magicprops

import (
	"fmt"

	"github.com/unkn0wn-root/d2s/internal/bitstream"
)

const sentinel = 0x1FF

// Property is one decoded magical-property record. Values are logical
// (bias already applied, so a field may read negative) in the order the
// table declares their bit widths.
type Property struct {
	Flag   uint32
	Values []int32
}

// spec describes the wire shape of one flag: the bit width of each field,
// an optional bias subtracted on decode / added on encode, and a display
// template (unused by the codec itself, kept for parity with the source's
// per-property formatting).
type spec struct {
	lengths  []int
	bias     int32
	hasBias  bool
	template string
}

// table is a representative, documented subset of the official magical
// property table (see DESIGN.md): the source table is itself static string
// data, out of scope for the core per the specification. Register extends
// it, e.g. from an externally loaded complete table.
var table = map[uint32]spec{
	0:  {lengths: []int{8}, template: "+%d to Strength"},
	1:  {lengths: []int{8}, template: "+%d to Energy"},
	2:  {lengths: []int{8}, template: "+%d to Dexterity"},
	3:  {lengths: []int{8}, template: "+%d to Vitality"},
	7:  {lengths: []int{11}, bias: 0, template: "+%d to Life"},
	9:  {lengths: []int{11}, template: "+%d to Mana"},
	11: {lengths: []int{11}, template: "+%d to Maximum Stamina"},
	16: {lengths: []int{9}, bias: 0, template: "+%d Maximum Damage"},
	17: {lengths: []int{10}, template: "+%d Minimum Damage"},
	20: {lengths: []int{8}, template: "Enhanced Damage %d%%"},
	21: {lengths: []int{9}, template: "Enhanced Defense %d%%"},
	31: {lengths: []int{11}, template: "+%d Defense"},
	39: {lengths: []int{5}, bias: 50, hasBias: true, template: "All Resistances %d%%"},
	41: {lengths: []int{8}, bias: 50, hasBias: true, template: "Fire Resist %d%%"},
	43: {lengths: []int{8}, bias: 50, hasBias: true, template: "Cold Resist %d%%"},
	45: {lengths: []int{8}, bias: 50, hasBias: true, template: "Lightning Resist %d%%"},
	47: {lengths: []int{8}, bias: 50, hasBias: true, template: "Poison Resist %d%%"},
	48: {lengths: []int{7}, template: "Damage Taken Goes To Mana %d%%"},
	54: {lengths: []int{7}, template: "Life Stolen Per Hit %d%%"},
	57: {lengths: []int{7}, template: "Mana Stolen Per Hit %d%%"},
	80: {lengths: []int{3}, template: "+%d to Light Radius"},
	83: {lengths: []int{3, 6}, template: "+%d to %%s Skill Levels"},
	84: {lengths: []int{3, 6}, template: "+%d to %%s Skill Levels"},
	93: {lengths: []int{16}, bias: 32768, hasBias: true, template: "%d to Attack Rating"},
	97: {lengths: []int{7}, bias: 64, hasBias: true, template: "+%d to Minimum Damage"},
	99: {lengths: []int{16}, bias: 32768, hasBias: true, template: "%d% to Hit Chance"},
	151: {lengths: []int{9}, template: "Socketed (%d)"},
	188: {lengths: []int{3, 6}, template: "+%d to Summoning Skills"},
}

// Register adds or overrides the wire shape for a flag. bias is ignored
// unless hasBias is true, distinguishing a real zero bias from "no bias".
func Register(flag uint32, lengths []int, bias int32, hasBias bool, template string) {
	table[flag] = spec{lengths: append([]int(nil), lengths...), bias: bias, hasBias: hasBias, template: template}
}

// UnknownPropertyError reports a flag with no entry in the table.
type UnknownPropertyError struct{ Flag uint32 }

func (e *UnknownPropertyError) Error() string {
	return fmt.Sprintf("magicprops: unknown property flag %d", e.Flag)
}

// List is an ordered, sentinel-terminated sequence of properties.
type List []Property

// Decode reads properties from r until the sentinel flag, inline (no byte
// alignment before or after — callers embed this directly in a larger bit
// stream, per spec §4.4).
func Decode(r *bitstream.Reader) (List, error) {
	var out List
	for {
		flag, err := r.ReadBits(9)
		if err != nil {
			return nil, err
		}
		if flag == sentinel {
			return out, nil
		}
		sp, ok := table[flag]
		if !ok {
			return nil, &UnknownPropertyError{Flag: flag}
		}
		values := make([]int32, len(sp.lengths))
		for i, n := range sp.lengths {
			v, err := r.ReadBits(n)
			if err != nil {
				return nil, err
			}
			lv := int32(v)
			if sp.hasBias {
				lv -= sp.bias
			}
			values[i] = lv
		}
		out = append(out, Property{Flag: flag, Values: values})
	}
}

// Encode writes every property in the list followed by the 9-bit sentinel,
// again inline with no byte alignment.
func Encode(w *bitstream.Writer, list List) error {
	for _, p := range list {
		sp, ok := table[p.Flag]
		if !ok {
			return &UnknownPropertyError{Flag: p.Flag}
		}
		if err := w.WriteBits(p.Flag, 9); err != nil {
			return err
		}
		for i, n := range sp.lengths {
			v := p.Values[i]
			if sp.hasBias {
				v += sp.bias
			}
			if err := w.WriteBits(uint32(v), n); err != nil {
				return err
			}
		}
	}
	return w.WriteBits(sentinel, 9)
}
