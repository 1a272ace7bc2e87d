// Package itemlist implements the ItemList container: a "JM"-magic, 16-bit
// count header wrapping a sequence of items, with a special corpse-preamble
// framing used only by the character's corpse slot.
package itemlist

import (
	"encoding/binary"
	"fmt"

	"github.com/unkn0wn-root/d2s/item"
)

// Magic is the 2-byte ASCII header preceding the count field.
var Magic = [2]byte{'J', 'M'}

// BadMagicError reports a missing or incorrect container magic.
type BadMagicError struct{ Found []byte }

func (e *BadMagicError) Error() string {
	return fmt.Sprintf("itemlist: bad magic: found %q", e.Found)
}

// ItemList is an ordered sequence of top-level items (socketed children are
// reachable through each Item's Sockets field, not listed here directly).
// CorpsePreamble is nil unless this list represents the corpse slot and a
// corpse is actually present, in which case it holds the 12 opaque bytes
// that precede the nested real container.
type ItemList struct {
	CorpsePreamble []byte
	Items          []*item.Item
}

func readHeader(buf []byte) (count uint16, consumed int, err error) {
	if len(buf) < 4 || buf[0] != Magic[0] || buf[1] != Magic[1] {
		n := len(buf)
		if n > 2 {
			n = 2
		}
		return 0, 0, &BadMagicError{Found: buf[:n]}
	}
	count = binary.LittleEndian.Uint16(buf[2:4])
	return count, 4, nil
}

// Decode reads an ItemList starting at the beginning of buf. corpse selects
// the corpse-preamble framing: when true and the outer count reads as 1, the
// next 12 bytes are treated as opaque preamble and a nested header supplies
// the real item count. It returns the parsed list and the number of bytes
// consumed.
func Decode(buf []byte, corpse bool) (*ItemList, int, error) {
	count, consumed, err := readHeader(buf)
	if err != nil {
		return nil, 0, err
	}

	list := &ItemList{}

	if corpse && count == 1 {
		if len(buf) < consumed+12 {
			return nil, 0, fmt.Errorf("itemlist: truncated corpse preamble")
		}
		list.CorpsePreamble = append([]byte(nil), buf[consumed:consumed+12]...)
		consumed += 12

		innerCount, n, err := readHeader(buf[consumed:])
		if err != nil {
			return nil, 0, err
		}
		consumed += n
		count = innerCount
	}

	list.Items = make([]*item.Item, 0, count)
	for i := uint16(0); i < count; i++ {
		it, n, err := item.Decode(buf[consumed:])
		if err != nil {
			return nil, 0, err
		}
		list.Items = append(list.Items, it)
		consumed += n
	}

	return list, consumed, nil
}

// Encode writes the container header (preceded by the corpse preamble and a
// nested header, when CorpsePreamble is non-nil) followed by every item in
// order. The emitted count reflects only the top-level items in Items;
// socketed children are written as part of their parent's bytes and never
// counted here.
func Encode(list *ItemList) []byte {
	var out []byte

	if list.CorpsePreamble != nil {
		out = append(out, Magic[0], Magic[1])
		out = append(out, 1, 0) // outer count is always 1 when a corpse is present
		out = append(out, list.CorpsePreamble...)
	}

	out = append(out, Magic[0], Magic[1])
	countBytes := make([]byte, 2)
	binary.LittleEndian.PutUint16(countBytes, uint16(len(list.Items)))
	out = append(out, countBytes...)

	for _, it := range list.Items {
		out = append(out, item.Encode(it)...)
	}
	return out
}
