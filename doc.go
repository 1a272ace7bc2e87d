// Package d2s decodes and re-encodes Diablo II single-player character save
// files (the expansion-era ".d2s" format): a fixed-layout header, a
// bit-packed attribute stream, the character's skills block, two item
// containers (inventory and corpse), an optional mercenary item container,
// and an optional golem marker.
//
// Components:
//   - attributes: the "gf"-magic, sentinel-terminated stat stream.
//   - item / itemlist: the bit-packed item record and its "JM"-magic
//     container, shared with the standalone .d2i stash format.
//   - internal/bitstream: the bit-granular reader/writer every tagged stream
//     above is built on.
//   - internal/checksum: the save file's signed-32 accumulating checksum.
//
// Decode reads a save into a SaveFile; Encode is its strict inverse,
// followed by a file-size patch and a checksum patch. A SaveFile produced by
// Decode and passed straight back to Encode with no field changes reproduces
// its source bytes exactly.
//
//	sf, err := d2s.Decode(raw)
//	sf.Attributes.Set(attributes.Level, 99)
//	out, err := d2s.Encode(sf)
package d2s
