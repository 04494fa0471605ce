package weft

import (
	"math"
	"testing"
)

func TestFloat16SliceAccess(t *testing.T) {
	buf := make([]byte, 8)
	s := NewFloat16Slice(buf)
	if s.Len() != 4 {
		t.Errorf("expected 4 elements, got %d", s.Len())
	}

	s.SetFloat32(0, 1.5)
	if buf[0] != 0x00 || buf[1] != 0x3E {
		t.Errorf("expected little-endian 0x3E00, got % X", buf[:2])
	}
	if got := s.GetFloat32(0); got != 1.5 {
		t.Errorf("expected 1.5, got %v", got)
	}

	s.Set(3, Float16(0xC000))
	if got := s.GetFloat32(3); got != -2.0 {
		t.Errorf("expected -2, got %v", got)
	}
	if got := s.Get(3); got != Float16(0xC000) {
		t.Errorf("expected 0xC000, got 0x%04X", uint16(got))
	}
}

func TestFloat16SliceRounds(t *testing.T) {
	s := NewFloat16Slice(make([]byte, 2))
	s.SetFloat32(0, float32(math.Pi))
	want := FromFloat32(float32(math.Pi)).ToFloat32()
	if got := s.GetFloat32(0); got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestPtrFloat16View(t *testing.T) {
	dev := testDevice()
	p, err := dev.Malloc(16)
	if err != nil {
		t.Fatalf("Malloc failed: %v", err)
	}
	defer dev.Free(p)

	s := p.Float16()
	if s.Len() != 8 {
		t.Errorf("expected 8 elements, got %d", s.Len())
	}
	s.SetFloat32(2, 0.5)
	bs := p.Byte()
	if bs[4] != 0x00 || bs[5] != 0x38 {
		t.Errorf("view write not visible in bytes: % X", bs[4:6])
	}

	if (Ptr{}).Float16().Len() != 0 {
		t.Error("nil pointer should give an empty view")
	}
}
