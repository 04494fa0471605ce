package weft

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/jacquardml/weft/mma"
	"github.com/jacquardml/weft/mma/amx"
	"github.com/jacquardml/weft/mma/warp"
)

// Device binds one matrix unit to a memory pool and hands out
// cooperative groups. Open selects the best available unit; set
// WEFT_FORCE_UNIT to pin one by name instead.
type Device struct {
	unit   mma.Unit
	isa    *mma.InstructionSet
	memory *MemoryPool
}

// Open detects the known matrix units and returns a device bound to
// the available one with the widest instruction coverage.
func Open() (*Device, error) {
	reg := mma.NewRegistry()
	if err := reg.Register(amx.New()); err != nil {
		return nil, NewDeviceError("Open", err.Error())
	}
	if err := reg.Register(warp.New()); err != nil {
		return nil, NewDeviceError("Open", err.Error())
	}

	unit := reg.Best()
	if name := os.Getenv(ForceUnitEnv); name != "" {
		forced, ok := reg.Get(name)
		if !ok {
			return nil, NewDeviceError("Open", fmt.Sprintf("unknown unit %q", name))
		}
		if !forced.Available() {
			return nil, NewDeviceError("Open", fmt.Sprintf("unit %q not available", name))
		}
		unit = forced
	}
	if unit == nil {
		return nil, ErrNoUnit
	}

	names := make([]string, 0, 2)
	for _, u := range reg.List() {
		names = append(names, fmt.Sprintf("%s(%s,available=%t)", u.Name(), u.Kind(), u.Available()))
	}
	slog.Debug("weft: matrix units detected", "units", names, "selected", unit.Name())

	return newDevice(unit), nil
}

// newDevice binds a unit directly, without detection. Tests use it to
// pin stub units.
func newDevice(unit mma.Unit) *Device {
	return &Device{
		unit:   unit,
		isa:    unit.Instructions(),
		memory: NewMemoryPool(),
	}
}

// Unit returns the name of the selected unit.
func (d *Device) Unit() string {
	return d.unit.Name()
}

// Kind returns the kind of the selected unit.
func (d *Device) Kind() mma.UnitKind {
	return d.unit.Kind()
}

// Capability returns the typed capability summary of the selected
// unit.
func (d *Device) Capability() mma.Capability {
	return d.unit.Capability()
}

// Supports reports whether the selected unit implements the
// multiply-accumulate instruction for the given shape and types.
func (d *Device) Supports(m, n, k int, in, acc DType) bool {
	return d.isa.Mad(mma.MadKey{M: m, N: n, K: k, In: in, Acc: acc}) != nil
}

// Group returns a cooperative group handle on this device.
func (d *Device) Group() *Group {
	return &Group{dev: d}
}

// Malloc allocates device memory of the specified size in bytes in the
// global address space.
func (d *Device) Malloc(size int) (Ptr, error) {
	return d.memory.Allocate(size, SpaceGlobal)
}

// MallocIn allocates device memory in the given address space.
func (d *Device) MallocIn(space Space, size int) (Ptr, error) {
	return d.memory.Allocate(size, space)
}

// Free releases device memory allocated by Malloc.
// The memory may be retained in the pool for future allocations.
func (d *Device) Free(p Ptr) error {
	return d.memory.Free(p)
}

// MemStats returns the device pool's current and peak allocation.
func (d *Device) MemStats() (allocated, peak int64) {
	return d.memory.GetStats()
}

// Default device, opened on first use

var (
	defaultOnce sync.Once
	defaultDev  *Device
	defaultErr  error
)

// Default returns the process-wide device, opening it on first use.
func Default() (*Device, error) {
	defaultOnce.Do(func() {
		defaultDev, defaultErr = Open()
	})
	return defaultDev, defaultErr
}

// Malloc allocates from the default device.
func Malloc(size int) (Ptr, error) {
	d, err := Default()
	if err != nil {
		return Ptr{}, err
	}
	return d.Malloc(size)
}

// Free releases memory on the default device.
func Free(p Ptr) error {
	d, err := Default()
	if err != nil {
		return err
	}
	return d.Free(p)
}
