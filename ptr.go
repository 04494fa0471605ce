package weft

import (
	"runtime"
	"sync"
	"unsafe"
)

// Space identifies the address space a pointer was declared in. The
// software unit treats every space as plain host memory; the tag rides
// along untouched so native units can specialize on it.
type Space int

const (
	SpaceGlobal Space = iota
	SpaceShared
	SpacePrivate
)

func (s Space) String() string {
	switch s {
	case SpaceGlobal:
		return "global"
	case SpaceShared:
		return "shared"
	case SpacePrivate:
		return "private"
	default:
		return "invalid"
	}
}

// Ptr references a span of device memory together with its declared
// address space. Tile loads and stores take Ptr operands; the typed
// slice views give the host direct access to the same bytes.
type Ptr struct {
	ptr    unsafe.Pointer
	size   int
	offset int
	space  Space
}

// MemoryPool manages device memory allocation with efficient reuse.
// It maintains a free list of previously allocated blocks to reduce
// allocation overhead and memory fragmentation.
type MemoryPool struct {
	mu         sync.Mutex
	allocated  map[uintptr]*allocation
	freeList   []*allocation
	totalAlloc int64
	peakAlloc  int64
}

type allocation struct {
	ptr  unsafe.Pointer
	size int
	used bool
}

// NewMemoryPool creates a new memory pool for efficient memory
// management. The pool tracks allocations and provides statistics on
// memory usage.
func NewMemoryPool() *MemoryPool {
	return &MemoryPool{
		allocated: make(map[uintptr]*allocation),
	}
}

// Allocate allocates memory from the pool. The returned pointer is
// tagged with the requested address space and aligned for SIMD use.
func (mp *MemoryPool) Allocate(size int, space Space) (Ptr, error) {
	if size <= 0 {
		return Ptr{}, ErrInvalidSize
	}

	mp.mu.Lock()
	defer mp.mu.Unlock()

	// Round up to alignment
	alignedSize := (size + MemoryAlignment - 1) &^ (MemoryAlignment - 1)

	// Try to reuse from free list
	for i, alloc := range mp.freeList {
		if alloc.size >= alignedSize {
			// Remove from free list
			mp.freeList = append(mp.freeList[:i], mp.freeList[i+1:]...)
			alloc.used = true

			mp.totalAlloc += int64(alloc.size)
			if mp.totalAlloc > mp.peakAlloc {
				mp.peakAlloc = mp.totalAlloc
			}

			return Ptr{
				ptr:   alloc.ptr,
				size:  size,
				space: space,
			}, nil
		}
	}

	// Allocate new memory
	// Use make to get properly aligned memory
	buf := make([]byte, alignedSize)
	ptr := unsafe.Pointer(&buf[0])

	// Prevent GC from collecting
	runtime.KeepAlive(buf)

	alloc := &allocation{
		ptr:  ptr,
		size: alignedSize,
		used: true,
	}

	mp.allocated[uintptr(ptr)] = alloc

	mp.totalAlloc += int64(alignedSize)
	if mp.totalAlloc > mp.peakAlloc {
		mp.peakAlloc = mp.totalAlloc
	}

	return Ptr{
		ptr:   ptr,
		size:  size,
		space: space,
	}, nil
}

// Free returns memory to the pool. Only base pointers can be freed;
// offset views report not found.
func (mp *MemoryPool) Free(p Ptr) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	alloc, ok := mp.allocated[uintptr(p.ptr)]
	if !ok {
		return NewMemoryError("Free", "pointer not found in allocation pool", nil)
	}

	if !alloc.used {
		return ErrDoubleFree
	}

	// Mark as free and add to free list
	alloc.used = false
	mp.freeList = append(mp.freeList, alloc)
	mp.totalAlloc -= int64(alloc.size)

	return nil
}

// GetStats returns memory pool statistics
func (mp *MemoryPool) GetStats() (allocated, peak int64) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.totalAlloc, mp.peakAlloc
}

// Ptr methods for convenience

// IsNil reports whether the pointer references no memory.
func (p Ptr) IsNil() bool {
	return p.ptr == nil
}

// Size returns the size in bytes of the memory region
func (p Ptr) Size() int {
	return p.size
}

// Space returns the declared address space
func (p Ptr) Space() Space {
	return p.space
}

// Raw returns the raw address of the region. Native units key their
// tile descriptors on it; the software unit never inspects it.
func (p Ptr) Raw() uintptr {
	return uintptr(p.ptr)
}

// Byte returns a byte slice view of the memory.
// The slice covers the entire region.
func (p Ptr) Byte() []byte {
	if p.ptr == nil {
		return nil
	}
	return (*[1 << 30]byte)(p.ptr)[:p.size:p.size]
}

// Float32 returns a float32 slice view of the memory.
// The slice can be used directly for reading and writing data.
func (p Ptr) Float32() []float32 {
	if p.ptr == nil {
		return nil
	}
	return (*[1 << 28]float32)(p.ptr)[: p.size/4 : p.size/4]
}

// Float64 returns a float64 slice view of the memory.
func (p Ptr) Float64() []float64 {
	if p.ptr == nil {
		return nil
	}
	return (*[1 << 27]float64)(p.ptr)[: p.size/8 : p.size/8]
}

// Int32 returns an int32 slice view of the memory.
func (p Ptr) Int32() []int32 {
	if p.ptr == nil {
		return nil
	}
	return (*[1 << 28]int32)(p.ptr)[: p.size/4 : p.size/4]
}

// Int8 returns an int8 slice view of the memory.
func (p Ptr) Int8() []int8 {
	if p.ptr == nil {
		return nil
	}
	return (*[1 << 30]int8)(p.ptr)[:p.size:p.size]
}

// Offset returns a new Ptr advanced by the given number of bytes.
// The returned Ptr shares the same underlying memory and keeps the
// address space tag.
func (p Ptr) Offset(bytes int) Ptr {
	return Ptr{
		ptr:    unsafe.Pointer(uintptr(p.ptr) + uintptr(bytes)),
		size:   p.size - bytes,
		offset: p.offset + bytes,
		space:  p.space,
	}
}

// OffsetElems returns a new Ptr advanced by n elements of type t.
func (p Ptr) OffsetElems(t DType, n int) Ptr {
	return p.Offset(n * t.Size())
}
