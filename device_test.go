package weft

import (
	"testing"

	"github.com/jacquardml/weft/mma"
	"github.com/jacquardml/weft/mma/amx"
)

func TestOpenSelectsWidestUnit(t *testing.T) {
	t.Setenv(ForceUnitEnv, "")

	dev, err := Open()
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	// The software unit implements the full tables, so it wins until a
	// native unit carries micro-ops.
	if dev.Unit() != "warp" {
		t.Errorf("expected warp, got %s", dev.Unit())
	}
	if dev.Kind() != mma.UnitKindSoftware {
		t.Errorf("expected software kind, got %v", dev.Kind())
	}
}

func TestOpenForcedUnit(t *testing.T) {
	t.Setenv(ForceUnitEnv, "warp")
	dev, err := Open()
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if dev.Unit() != "warp" {
		t.Errorf("expected warp, got %s", dev.Unit())
	}
}

func TestOpenForcedUnknownUnit(t *testing.T) {
	t.Setenv(ForceUnitEnv, "tpu")
	if _, err := Open(); err == nil {
		t.Fatal("expected unknown unit to fail")
	}
}

func TestOpenForcedUnavailableUnit(t *testing.T) {
	if amx.HasAMX() {
		t.Skip("amx available on this machine")
	}
	t.Setenv(ForceUnitEnv, "amx")
	if _, err := Open(); err == nil {
		t.Fatal("expected unavailable unit to fail")
	}
}

func TestDeviceCapability(t *testing.T) {
	dev := testDevice()

	c := dev.Capability()
	if c.Lanes != LaneCount {
		t.Errorf("expected %d lanes, got %d", LaneCount, c.Lanes)
	}
	if len(c.MadKeys) != 16 {
		t.Errorf("expected 16 instructions, got %d", len(c.MadKeys))
	}

	if !dev.Supports(16, 16, 16, F16, F32) {
		t.Error("m16n16k16 f16 into f32 should be supported")
	}
	if !dev.Supports(8, 8, 4, F64, F64) {
		t.Error("m8n8k4 f64 should be supported")
	}
	if dev.Supports(16, 16, 8, F16, F32) {
		t.Error("k8 shape should not be supported")
	}
	if dev.Supports(16, 16, 16, BF16, F16) {
		t.Error("bf16 into f16 should not be supported")
	}
}

func TestGroupHandle(t *testing.T) {
	dev := testDevice()
	g := dev.Group()
	if g.LaneCount() != 32 {
		t.Errorf("expected 32 lanes, got %d", g.LaneCount())
	}
	if g.Device() != dev {
		t.Error("group should reference its device")
	}
}

// idleUnit is available but implements no instructions, the shape of a
// native unit before its micro-ops land.
type idleUnit struct {
	isa *mma.InstructionSet
}

func newIdleUnit() *idleUnit {
	return &idleUnit{isa: mma.NewInstructionSet()}
}

func (u *idleUnit) Name() string       { return "idle" }
func (u *idleUnit) Kind() mma.UnitKind { return mma.UnitKindNative }
func (u *idleUnit) Available() bool    { return true }
func (u *idleUnit) Capability() mma.Capability {
	return mma.Capability{Lanes: mma.Lanes, MadKeys: u.isa.SupportedMads()}
}
func (u *idleUnit) Instructions() *mma.InstructionSet { return u.isa }

func TestUnsupportedDispatch(t *testing.T) {
	dev := newDevice(newIdleUnit())
	g := dev.Group()

	f, err := NewFragment(TileDesc{Type: F32, Role: RoleAccumulator, Rows: 16, Cols: 16, Layout: RowMajor})
	if err != nil {
		t.Fatalf("NewFragment failed: %v", err)
	}
	a, _ := NewFragment(TileDesc{Type: F16, Role: RoleA, Rows: 16, Cols: 16, Layout: RowMajor})
	b, _ := NewFragment(TileDesc{Type: F16, Role: RoleB, Rows: 16, Cols: 16, Layout: RowMajor})
	buf, err := dev.Malloc(16 * 16 * 4)
	if err != nil {
		t.Fatalf("Malloc failed: %v", err)
	}

	loadErr := g.Load(f, buf, 16)
	storeErr := g.Store(f, buf, 16)
	_, madErr := g.Mad(a, b, f)

	for _, err := range []error{loadErr, storeErr, madErr} {
		if !IsUnsupported(err) {
			t.Fatalf("expected unsupported error, got %v", err)
		}
	}

	// One uniform message regardless of the missing instruction family
	lm := loadErr.(*Error).Message
	sm := storeErr.(*Error).Message
	mm := madErr.(*Error).Message
	if lm != sm || sm != mm {
		t.Errorf("messages differ: %q / %q / %q", lm, sm, mm)
	}

	// Descriptor validation still runs on its own tier
	if _, _, err := Resolve(F16, RoleA, 16, 8); !IsDescriptorError(err) {
		t.Errorf("expected descriptor error, got %v", err)
	}
}

func TestDefaultDevice(t *testing.T) {
	t.Setenv(ForceUnitEnv, "")

	d1, err := Default()
	if err != nil {
		t.Fatalf("Default failed: %v", err)
	}
	d2, err := Default()
	if err != nil {
		t.Fatalf("Default failed: %v", err)
	}
	if d1 != d2 {
		t.Error("Default should return the same device")
	}

	p, err := Malloc(256)
	if err != nil {
		t.Fatalf("Malloc failed: %v", err)
	}
	if err := Free(p); err != nil {
		t.Fatalf("Free failed: %v", err)
	}
}

func TestDeviceMemStats(t *testing.T) {
	dev := testDevice()
	p, err := dev.Malloc(1000)
	if err != nil {
		t.Fatalf("Malloc failed: %v", err)
	}
	allocated, peak := dev.MemStats()
	if allocated <= 0 || peak < allocated {
		t.Errorf("implausible stats (%d, %d)", allocated, peak)
	}
	if err := dev.Free(p); err != nil {
		t.Fatalf("Free failed: %v", err)
	}
}

func TestMallocIn(t *testing.T) {
	dev := testDevice()
	p, err := dev.MallocIn(SpaceShared, 128)
	if err != nil {
		t.Fatalf("MallocIn failed: %v", err)
	}
	if p.Space() != SpaceShared {
		t.Errorf("expected shared space, got %s", p.Space())
	}
}
