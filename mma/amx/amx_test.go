package amx

import (
	"runtime"
	"testing"

	"github.com/jacquardml/weft/mma"
)

func TestUnitIdentity(t *testing.T) {
	u := New()
	if u.Name() != "amx" {
		t.Errorf("expected name amx, got %q", u.Name())
	}
	if u.Kind() != mma.UnitKindNative {
		t.Errorf("expected native kind, got %v", u.Kind())
	}
	if u.Capability().Lanes != mma.Lanes {
		t.Errorf("expected %d lanes, got %d", mma.Lanes, u.Capability().Lanes)
	}
}

func TestInstructionSetEmpty(t *testing.T) {
	u := New()
	if n := len(u.Capability().MadKeys); n != 0 {
		t.Errorf("expected no instructions, got %d", n)
	}
	if u.Instructions().Complete() {
		t.Error("empty set should not be complete")
	}
	for _, k := range mma.MadKeys() {
		if u.Instructions().Mad(k) != nil {
			t.Errorf("unexpected mad micro-op for %v", k)
		}
	}
	for _, k := range mma.FragKeys() {
		if u.Instructions().Load(k) != nil {
			t.Errorf("unexpected load micro-op for %v", k)
		}
	}
}

func TestDetectionOverride(t *testing.T) {
	if runtime.GOARCH != "amd64" {
		t.Skip("AMX detection override requires amd64")
	}

	tile, i8, bf16 := HasAMX(), HasAMXInt8(), HasAMXBF16()
	defer SetAMXSupport(tile, i8, bf16)

	SetAMXSupport(true, true, false)
	u := New()
	if !u.Available() {
		t.Error("expected unit to be available after override")
	}
	if !u.HasInt8() || u.HasBF16() {
		t.Error("feature flags did not follow override")
	}

	tiles := u.Tiles()
	if tiles.NumTiles != 8 || tiles.MaxRows != 16 || tiles.MaxTileBytes != 1024 {
		t.Errorf("unexpected tile config %+v", tiles)
	}

	SetAMXSupport(false, false, false)
	u = New()
	if u.Available() {
		t.Error("expected unit to be unavailable after override")
	}
	if cfg := u.Tiles(); cfg != (TileConfig{}) {
		t.Errorf("expected zero tile config, got %+v", cfg)
	}
}
