package nvm

import (
	"fmt"
	"io"
	"sync"
)

// MemFlash simulates a region of NOR-style flash: erased cells read 0xFF
// and programming can only clear bits. It implements Store.
type MemFlash struct {
	mu    sync.Mutex
	base  uint32
	cells []byte
}

// NewMemFlash returns an erased flash region of size bytes mapped at base.
func NewMemFlash(base uint32, size int) *MemFlash {
	m := &MemFlash{base: base, cells: make([]byte, size)}
	m.eraseLocked()
	return m
}

// NewMemFlashFromImage returns a flash region mapped at base holding a copy
// of image.
func NewMemFlashFromImage(base uint32, image []byte) *MemFlash {
	m := &MemFlash{base: base, cells: make([]byte, len(image))}
	copy(m.cells, image)
	return m
}

// Base returns the first mapped address.
func (m *MemFlash) Base() uint32 { return m.base }

// Size returns the mapped size in bytes.
func (m *MemFlash) Size() int { return len(m.cells) }

// ReadAt fills p starting at the absolute address addr.
func (m *MemFlash) ReadAt(p []byte, addr uint32) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	off := int64(addr) - int64(m.base)
	if off < 0 || off >= int64(len(m.cells)) {
		return 0, &RangeError{Addr: addr, Base: m.base, Size: len(m.cells)}
	}

	n := copy(p, m.cells[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// CanWrite reports whether the byte at addr can be programmed to value.
// A programmed bit cannot be set again without an erase, so the write is
// feasible only if value keeps every cleared bit cleared.
func (m *MemFlash) CanWrite(addr uint32, value byte) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	off := int64(addr) - int64(m.base)
	if off < 0 || off >= int64(len(m.cells)) {
		return false
	}
	return m.cells[off]&value == value
}

// Write programs data at addr. The physical AND behavior of flash is
// modeled: bits already cleared stay cleared regardless of the data. The
// hardware's completion busy-poll completes immediately here.
func (m *MemFlash) Write(addr uint32, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	off := int64(addr) - int64(m.base)
	if off < 0 || off+int64(len(data)) > int64(len(m.cells)) {
		return &RangeError{Addr: addr, Base: m.base, Size: len(m.cells)}
	}

	for i, v := range data {
		m.cells[off+int64(i)] &= v
	}
	return nil
}

// Erase resets every cell to 0xFF. This is the host tool's privilege; the
// provisioning core never calls it.
func (m *MemFlash) Erase() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eraseLocked()
}

func (m *MemFlash) eraseLocked() {
	for i := range m.cells {
		m.cells[i] = 0xFF
	}
}

// Snapshot returns a copy of the current cell contents, e.g. for writing
// an image file back to disk.
func (m *MemFlash) Snapshot() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]byte, len(m.cells))
	copy(out, m.cells)
	return out
}

// RangeError indicates an access outside the mapped flash region.
type RangeError struct {
	Addr uint32
	Base uint32
	Size int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("address 0x%X outside flash region [0x%X, 0x%X)",
		e.Addr, e.Base, int64(e.Base)+int64(e.Size))
}
