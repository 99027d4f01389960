// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package reg

// Field is a contiguous run of register bits.
type Field struct {
	Shift, Width uint
}

// Bits returns the field of width bits starting at shift.
func Bits(shift, width uint) Field { return Field{shift, width} }

// Bit returns the single bit field at shift.
func Bit(shift uint) Field { return Field{shift, 1} }

func (f Field) Mask() uint32 { return ((1 << f.Width) - 1) << f.Shift }

// Is returns v positioned in the field; excess bits are dropped.
func (f Field) Is(v uint32) uint32 { return (v << f.Shift) & f.Mask() }

// Get extracts the field from a register value.
func (f Field) Get(r uint32) uint32 { return (r & f.Mask()) >> f.Shift }

// Set returns the register value r with the field replaced by v.
func (f Field) Set(r, v uint32) uint32 { return (r &^ f.Mask()) | f.Is(v) }

func (f Field) Mask16() uint16    { return uint16(f.Mask()) }
func (f Field) Is16(v uint) uint16 { return uint16(f.Is(uint32(v))) }
