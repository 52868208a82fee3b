package mem

import (
	"encoding/binary"
	"fmt"
)

// Bytes implements a fixed size, little-endian, byte addressed memory region.
// Addresses are absolute: the first byte lives at Base.
type Bytes struct {
	Base uint
	buf  []byte
}

// LimitError indicates that a memory operation, like load or store, fell
// outside of a region.
type LimitError struct {
	Addr uint
	Op   string
}

func (lim LimitError) Error() string {
	return fmt.Sprintf("memory limit exceeded by %v @%v", lim.Op, lim.Addr)
}

// NewBytes allocates a region of size bytes starting at base, with every byte
// set to fill.
func NewBytes(base, size uint, fill byte) *Bytes {
	m := &Bytes{Base: base, buf: make([]byte, size)}
	if fill != 0 {
		for i := range m.buf {
			m.buf[i] = fill
		}
	}
	return m
}

// Size returns the number of bytes in the region.
func (m *Bytes) Size() uint { return uint(len(m.buf)) }

// End returns the address one past the last byte of the region.
func (m *Bytes) End() uint { return m.Base + uint(len(m.buf)) }

// Contains returns true if the n bytes starting at addr all lie within the
// region.
func (m *Bytes) Contains(addr, n uint) bool {
	return addr >= m.Base && addr+n <= m.End() && addr+n >= addr
}

func (m *Bytes) span(addr, n uint, op string) ([]byte, error) {
	if !m.Contains(addr, n) {
		return nil, LimitError{addr, op}
	}
	i := addr - m.Base
	return m.buf[i : i+n], nil
}

// Load8 returns the byte at addr.
func (m *Bytes) Load8(addr uint) (byte, error) {
	b, err := m.span(addr, 1, "load8")
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Load16 returns the little-endian half word at addr.
func (m *Bytes) Load16(addr uint) (uint16, error) {
	b, err := m.span(addr, 2, "load16")
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// Load32 returns the little-endian word at addr.
func (m *Bytes) Load32(addr uint) (uint32, error) {
	b, err := m.span(addr, 4, "load32")
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Stor8 stores one byte at addr.
func (m *Bytes) Stor8(addr uint, val byte) error {
	b, err := m.span(addr, 1, "stor8")
	if err != nil {
		return err
	}
	b[0] = val
	return nil
}

// Stor16 stores a little-endian half word at addr.
func (m *Bytes) Stor16(addr uint, val uint16) error {
	b, err := m.span(addr, 2, "stor16")
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(b, val)
	return nil
}

// Stor32 stores a little-endian word at addr.
func (m *Bytes) Stor32(addr uint, val uint32) error {
	b, err := m.span(addr, 4, "stor32")
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b, val)
	return nil
}

// Stor copies p into memory at addr; no partial store is done.
func (m *Bytes) Stor(addr uint, p ...byte) error {
	b, err := m.span(addr, uint(len(p)), "stor")
	if err != nil {
		return err
	}
	copy(b, p)
	return nil
}

// LoadInto reads len(buf) bytes starting at addr; no partial load is done.
func (m *Bytes) LoadInto(addr uint, buf []byte) error {
	b, err := m.span(addr, uint(len(buf)), "load")
	if err != nil {
		return err
	}
	copy(buf, b)
	return nil
}

// Fill sets every byte in [addr, end) to val.
func (m *Bytes) Fill(addr, end uint, val byte) error {
	if end < addr {
		return LimitError{end, "fill"}
	}
	b, err := m.span(addr, end-addr, "fill")
	if err != nil {
		return err
	}
	for i := range b {
		b[i] = val
	}
	return nil
}

// Slice returns the live bytes in [addr, end) without copying.
func (m *Bytes) Slice(addr, end uint) ([]byte, error) {
	if end < addr {
		return nil, LimitError{end, "slice"}
	}
	return m.span(addr, end-addr, "slice")
}
