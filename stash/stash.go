// Package stash reads and writes the shared stash file (".d2i" by
// convention): a bare itemlist.ItemList with no save header, used to move
// items between characters outside of a .d2s file.
package stash

import (
	"os"

	"github.com/unkn0wn-root/d2s/itemlist"
)

// DefaultPath is used when callers don't specify their own location,
// mirroring the original tool's storage.d2i default.
const DefaultPath = "storage.d2i"

// Load reads a stash file from path and decodes it as a plain item list
// (no corpse preamble; a shared stash is never a corpse).
//
// A missing file is not an error: it returns an empty *itemlist.ItemList,
// matching the original behavior of only reading on open if the file
// already exists.
func Load(path string) (*itemlist.ItemList, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &itemlist.ItemList{}, nil
		}
		return nil, err
	}
	list, _, err := itemlist.Decode(buf, false)
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Save encodes list and writes it to path, overwriting any existing file.
func Save(path string, list *itemlist.ItemList) error {
	return os.WriteFile(path, itemlist.Encode(list), 0o644)
}
