// Package weft configuration constants
package weft

import (
	"github.com/jacquardml/weft/mma"
)

// Cooperative group geometry
const (
	// LaneCount is the fixed width of the cooperative group that owns
	// a fragment. Every collective operation spans exactly this many
	// lanes.
	LaneCount = mma.Lanes
)

// Memory pool parameters
const (
	// Minimum allocation size to prevent fragmentation
	MinAllocationSize = 64

	// Memory alignment for allocations
	MemoryAlignment = 64

	// Free list size threshold for reuse
	FreeListThreshold = 100
)

// Environment variables
const (
	// ForceUnitEnv names a unit the device must select, bypassing the
	// capability ranking. Meant for tests and bring-up.
	ForceUnitEnv = "WEFT_FORCE_UNIT"
)

// Numerical constants
const (
	// Machine epsilon for float32
	Float32Epsilon = 1.192092896e-07

	// Machine epsilon for IEEE 754 binary16
	Float16Epsilon = 9.765625e-04
)
