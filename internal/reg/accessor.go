// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package reg

// Accessor programs a block of 16-bit PHY registers addressed by register
// number.
type Accessor interface {
	Set(r uint32, data, mask uint16)
	Poll(r uint32, val, mask uint32, timeout int) error
}

// Direct is a memory mapped register block where register r lives at
// Base + r*Shift.
type Direct struct {
	Bus   Bus
	Base  uintptr
	Shift uintptr
}

func (d Direct) Addr(r uint32) uintptr { return d.Base + uintptr(r)*d.Shift }

func (d Direct) Set(r uint32, data, mask uint16) {
	Set16(d.Bus, d.Addr(r), data, mask)
}

func (d Direct) Poll(r uint32, val, mask uint32, timeout int) error {
	return Poll(d.Bus, d.Addr(r), val, mask, timeout, W16)
}

// Indirect reaches registers through an address/data pair at Base and
// Base+4. Offset is added to each register number written to the address
// register.
type Indirect struct {
	Bus    Bus
	Base   uintptr
	Offset uint32
}

const (
	IndirectAddr uintptr = 0x0
	IndirectData uintptr = 0x4
)

func (ind Indirect) Select(r uint32) {
	Write32(ind.Bus, ind.Base+IndirectAddr, r+ind.Offset)
}

func (ind Indirect) Set(r uint32, data, mask uint16) {
	ind.Select(r)
	Set(ind.Bus, ind.Base+IndirectData, uint32(data), uint32(mask))
}

func (ind Indirect) Poll(r uint32, val, mask uint32, timeout int) error {
	ind.Select(r)
	return Poll(ind.Bus, ind.Base+IndirectData, val, mask, timeout, W32)
}
