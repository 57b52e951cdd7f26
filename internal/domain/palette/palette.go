// Package palette assigns display colors to reservations without storing them.
package palette

import (
	"errors"
	"unicode/utf16"

	"github.com/cespare/xxhash/v2"
)

var ErrEmptyPalette = errors.New("palette: no colors configured")

type Color string

type Palette []Color

// Default is the pastel set used by calendar blocks.
var Default = Palette{
	"#FFE5E5",
	"#E5F4FF",
	"#E5FFE5",
	"#FFF5E5",
	"#F0E5FF",
	"#FFE5F5",
	"#E5FFFF",
	"#FFFEE5",
	"#F5E5FF",
	"#E5FFE0",
	"#FFE0E5",
	"#E0E5FF",
}

func ColorFor(reservationID, propertyID string) Color {
	return Default.ColorFor(reservationID, propertyID)
}

// ColorFor picks a palette entry for the reservation. The same pair of ids
// always yields the same color; distinct ids may collide.
func (p Palette) ColorFor(reservationID, propertyID string) Color {
	if len(p) == 0 {
		return ""
	}
	return p[p.Index(reservationID, propertyID)]
}

func (p Palette) Index(reservationID, propertyID string) int {
	if len(p) == 0 {
		return 0
	}
	h := Hash(reservationID, propertyID)
	if h < 0 {
		h = -h
	}
	return int(h % int64(len(p)))
}

// Hash combines a multiply-shift hash and djb2 over the UTF-16 units of the
// reservation id, salts the result with the property id and runs it through
// the murmur3 finalizer. XOR of the two rolling hashes keeps the low bit
// constant, so the finalizer is required for even palette sizes.
func Hash(reservationID, propertyID string) int64 {
	var shift int32
	djb := int32(5381)
	for _, unit := range utf16.Encode([]rune(reservationID)) {
		shift = shift*31 + int32(unit)
		djb = djb*33 + int32(unit)
	}
	mixed := uint32(shift^djb) + uint32(xxhash.Sum64String(propertyID))
	return int64(int32(fmix32(mixed)))
}

func fmix32(h uint32) uint32 {
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16
	return h
}

func (p Palette) Validate() error {
	if len(p) == 0 {
		return ErrEmptyPalette
	}
	return nil
}
