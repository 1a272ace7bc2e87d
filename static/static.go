// Package static holds the small, process-wide lookup tables the item codec
// consults: item type classification, quality-dependent predicates, and the
// handful of 3-byte type codes that change how an item's extended body is
// shaped (tomes, stackables).
//
// These tables are explicitly out of scope for the core per the
// specification ("static lookup tables ... treated as opaque read-only
// dictionaries"); the full official tables live in the game's string data,
// not in this module. What ships here is a representative, correctly-keyed
// subset sufficient to exercise every branch of the item codec, open for a
// caller to extend at init time.
package static

// Quality is the 4-bit item rarity enumeration read from an item's extended
// header. Values follow the game's own encoding.
type Quality uint8

const (
	QualityLow      Quality = 1
	QualityNormal   Quality = 2
	QualityHigh     Quality = 3
	QualityMagic    Quality = 4
	QualitySet      Quality = 5
	QualityRare     Quality = 6
	QualityUnique   Quality = 7
	QualityCrafted  Quality = 8
)

// Valid reports whether q is a recognized quality value.
func (q Quality) Valid() bool {
	switch q {
	case QualityLow, QualityNormal, QualityHigh, QualityMagic, QualitySet, QualityRare, QualityUnique, QualityCrafted:
		return true
	}
	return false
}

// Type flags, combined as a bitmask per item code, mirroring get_type_id's
// role in the original implementation.
const (
	TypeArmor = 1 << iota
	TypeShield
	TypeWeapon
	TypeTome
)

// Parent location values for the item header's parent field.
const (
	ItemStored   = 0
	ItemEquipped = 1
	ItemBelt     = 2
	ItemSocketed = 6
)

// Stored-location values for the item header's stored field.
const (
	StoredInventory = 1
	StoredCube      = 4
	StoredStash     = 5
)

// typeFlags maps a 3-character item code to its TypeX bitmask. Unlisted
// codes get mask 0 — no defense or durability fields. Whether a code
// carries a quantity field is decided separately, by quantityCodes.
var typeFlags = map[string]int{
	// armor
	"cap": TypeArmor, "skp": TypeArmor, "hlm": TypeArmor, "qui": TypeArmor,
	"lea": TypeArmor, "hla": TypeArmor, "stu": TypeArmor, "rng": TypeArmor,
	// shields
	"buc": TypeShield, "sml": TypeShield, "lrg": TypeShield, "kit": TypeShield,
	"tow": TypeShield, "spk": TypeShield,
	// weapons
	"hax": TypeWeapon, "axe": TypeWeapon, "9ax": TypeWeapon, "wax": TypeWeapon,
	"dgr": TypeWeapon, "dir": TypeWeapon, "kri": TypeWeapon, "swo": TypeWeapon,
	"scm": TypeWeapon, "sbr": TypeWeapon, "crs": TypeWeapon, "bsd": TypeWeapon,
	"lsd": TypeWeapon, "wnd": TypeWeapon, "ywn": TypeWeapon, "bwn": TypeWeapon,
	"gis": TypeWeapon, "spe": TypeWeapon, "tri": TypeWeapon, "bro": TypeWeapon,
	"spt": TypeWeapon, "pik": TypeWeapon, "clb": TypeWeapon, "scp": TypeWeapon,
	"gsc": TypeWeapon, "wsp": TypeWeapon, "mac": TypeWeapon, "mst": TypeWeapon,
	"fla": TypeWeapon, "whm": TypeWeapon, "mau": TypeWeapon, "ssd": TypeWeapon,
	"nsd": TypeWeapon, "ssp": TypeWeapon, "bst": TypeWeapon,
	"sbw": TypeWeapon, "hbw": TypeWeapon, "lbw": TypeWeapon, "cbw": TypeWeapon,
	"sbb": TypeWeapon, "lbb": TypeWeapon, "swb": TypeWeapon, "lwb": TypeWeapon,
	// tomes
	"tbk": TypeTome, "ibk": TypeTome,
}

// RegisterType adds or overrides the type bitmask for a 3-character item
// code, for callers that need the full official table.
func RegisterType(code string, mask int) { typeFlags[code] = mask }

// TypeID returns the TypeX bitmask for code, or 0 if unknown.
func TypeID(code string) int { return typeFlags[code] }

// HasDefense reports whether an item of this code carries a defense field.
func HasDefense(code string) bool {
	m := TypeID(code)
	return m&(TypeArmor|TypeShield) != 0
}

// HasDurability reports whether an item of this code carries durability fields.
func HasDurability(code string) bool {
	m := TypeID(code)
	return m&(TypeArmor|TypeShield|TypeWeapon) != 0
}

// IsTome reports whether code is one of the recognized tome base items.
func IsTome(code string) bool { return TypeID(code) == TypeTome }

// quantityCodes is the representative subset of stackable/quantity-bearing
// item codes (potions, scrolls, keys, throwables).
var quantityCodes = map[string]bool{
	"tsc": true, "iwp": true, "key": true,
	"hp1": true, "hp2": true, "hp3": true, "hp4": true, "hp5": true,
	"mp1": true, "mp2": true, "mp3": true, "mp4": true, "mp5": true,
	"rvs": true, "rvl": true, "yps": true, "wms": true, "gps": true,
	"ops": true, "gpl": true, "thr": true, "aqv": true, "cqv": true,
}

// RegisterQuantity marks code as a quantity-bearing (stackable) item code.
func RegisterQuantity(code string) { quantityCodes[code] = true }

// HasQuantity reports whether an item of this code carries a quantity field.
func HasQuantity(code string) bool { return quantityCodes[code] }

// setListCounts maps a set item's 5-bit "set list id" to the number of
// trailing set-bonus MagicalProperties lists that follow it.
var setListCounts = map[uint32]int{
	0:  0,
	1:  1,
	3:  2,
	7:  3,
	15: 4,
	31: 5,
}

// SetListCount returns the number of set-bonus property lists for the given
// 5-bit set list id.
func SetListCount(id uint32) int { return setListCounts[id] }

// RegisterSetListCount overrides/extends the set-list-id -> count table.
func RegisterSetListCount(id uint32, count int) { setListCounts[id] = count }
