// Package amx exposes Intel Advanced Matrix Extensions tile hardware
// as an mma unit. Feature detection is real; the tile micro-op
// encodings are not wired up yet, so the instruction set is empty and
// every dispatch through this unit reports unsupported. That makes AMX
// machines visible in the registry without pretending to execute.
package amx

import (
	"github.com/jacquardml/weft/mma"
)

// Unit implements the mma.Unit interface for Intel AMX.
type Unit struct {
	available bool
	hasInt8   bool
	hasBF16   bool
	tiles     TileConfig
	isa       *mma.InstructionSet
}

// TileConfig represents AMX tile configuration
type TileConfig struct {
	NumTiles     int
	MaxRows      int
	MaxCols      int
	MaxTileBytes int
}

// New creates an AMX unit instance
func New() *Unit {
	u := &Unit{
		available: HasAMX(),
		hasInt8:   HasAMXInt8(),
		hasBF16:   HasAMXBF16(),
		isa:       mma.NewInstructionSet(),
	}

	if u.available {
		// AMX tile configuration for Sapphire Rapids
		u.tiles = TileConfig{
			NumTiles:     8,
			MaxRows:      16,
			MaxCols:      64, // For INT8
			MaxTileBytes: 1024,
		}
	}

	return u
}

// Name returns the unit name
func (u *Unit) Name() string {
	return "amx"
}

// Kind returns the unit kind
func (u *Unit) Kind() mma.UnitKind {
	return mma.UnitKindNative
}

// Available checks if AMX tiles exist on this machine
func (u *Unit) Available() bool {
	return u.available
}

// Capability summarizes the implemented instruction families. Empty
// until the tile paths land.
func (u *Unit) Capability() mma.Capability {
	return mma.Capability{
		Lanes:   mma.Lanes,
		MadKeys: u.isa.SupportedMads(),
	}
}

// Instructions returns the unit's micro-op set
func (u *Unit) Instructions() *mma.InstructionSet {
	return u.isa
}

// Tiles returns the detected tile configuration
func (u *Unit) Tiles() TileConfig {
	return u.tiles
}

// HasInt8 reports AMX INT8 tile support
func (u *Unit) HasInt8() bool {
	return u.hasInt8
}

// HasBF16 reports AMX BF16 tile support
func (u *Unit) HasBF16() bool {
	return u.hasBF16
}
