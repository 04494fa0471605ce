// Package mma defines the instruction-set vocabulary for warp-level
// matrix multiply-accumulate units: the closed fragment and instruction
// tables, the micro-op signatures, and the unit registry.
package mma

import (
	"fmt"
)

// Lanes is the fixed width of the cooperative group that owns a
// fragment. Every unit distributes tiles across this many lanes.
const Lanes = 32

// UnitKind classifies how a unit executes its micro-ops.
type UnitKind int

const (
	UnitKindUnknown UnitKind = iota
	// UnitKindSoftware executes micro-ops in pure Go
	UnitKindSoftware
	// UnitKindNative drives a hardware matrix engine
	UnitKindNative
)

func (k UnitKind) String() string {
	switch k {
	case UnitKindSoftware:
		return "software"
	case UnitKindNative:
		return "native"
	default:
		return "unknown"
	}
}

// Capability summarizes what a unit can execute. The MadKeys slice is
// in stable table order and covers exactly the instructions the unit's
// set implements.
type Capability struct {
	Lanes   int
	MadKeys []MadKey
}

// Supports reports whether the capability includes the given
// multiply-accumulate instruction.
func (c Capability) Supports(k MadKey) bool {
	for _, have := range c.MadKeys {
		if have == k {
			return true
		}
	}
	return false
}

func (c Capability) String() string {
	return fmt.Sprintf("lanes=%d mads=%d", c.Lanes, len(c.MadKeys))
}

// Unit is one matrix multiply-accumulate engine.
type Unit interface {
	// Name returns the unit name used for registry lookup
	Name() string

	// Kind returns the unit kind
	Kind() UnitKind

	// Available checks if the unit can execute on this machine
	Available() bool

	// Capability summarizes the implemented instruction families
	Capability() Capability

	// Instructions returns the unit's micro-op set
	Instructions() *InstructionSet
}

// Registry manages available units. Populate it during setup; it is
// read-only after that.
type Registry struct {
	units map[string]Unit
	order []string
}

// NewRegistry creates an empty unit registry.
func NewRegistry() *Registry {
	return &Registry{
		units: make(map[string]Unit),
	}
}

// Register adds a unit to the registry.
func (r *Registry) Register(u Unit) error {
	if u == nil {
		return fmt.Errorf("mma: cannot register nil unit")
	}
	name := u.Name()
	if _, exists := r.units[name]; exists {
		return fmt.Errorf("mma: unit %s already registered", name)
	}
	r.units[name] = u
	r.order = append(r.order, name)
	return nil
}

// Get returns a unit by name.
func (r *Registry) Get(name string) (Unit, bool) {
	u, exists := r.units[name]
	return u, exists
}

// List returns all registered units in registration order.
func (r *Registry) List() []Unit {
	result := make([]Unit, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.units[name])
	}
	return result
}

// Best returns the available unit implementing the most instruction
// families. Ties go to native units, then to registration order.
// Returns nil if no unit is available.
func (r *Registry) Best() Unit {
	var best Unit
	bestMads := -1
	for _, name := range r.order {
		u := r.units[name]
		if !u.Available() {
			continue
		}
		mads := len(u.Instructions().SupportedMads())
		switch {
		case mads > bestMads:
			best, bestMads = u, mads
		case mads == bestMads && best != nil &&
			u.Kind() == UnitKindNative && best.Kind() != UnitKindNative:
			best = u
		}
	}
	return best
}
