// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package reg provides memory mapped register access for the COMPHY
// sequencers: read-modify-write, bounded polls, and settle delays.
package reg

import (
	"fmt"
	"time"

	"github.com/platinasystems/comphy/internal/dbg"
)

// Trace is raised by the comphy command's -v flag and verbose tests.
var Trace = dbg.NoOp

// Bus is a window of memory mapped registers.
type Bus interface {
	Read32(addr uintptr) uint32
	Write32(addr uintptr, v uint32)
	Read16(addr uintptr) uint16
	Write16(addr uintptr, v uint16)
}

// A Bus may also implement Delayer to replace wall clock settle delays,
// e.g. with a simulated clock.
type Delayer interface {
	Delay(d time.Duration)
}

type Width int

const (
	W16 Width = 16
	W32 Width = 32
)

// Set clears mask then sets data&mask in the 32-bit register at addr.
func Set(bus Bus, addr uintptr, data, mask uint32) {
	old := bus.Read32(addr)
	v := (old &^ mask) | (data & mask)
	Trace.Logf("%#08x: %#08x -> %#08x", addr, old, v)
	bus.Write32(addr, v)
}

// Set16 is Set for a 16-bit register.
func Set16(bus Bus, addr uintptr, data, mask uint16) {
	old := bus.Read16(addr)
	v := (old &^ mask) | (data & mask)
	Trace.Logf("%#08x: %#04x -> %#04x", addr, old, v)
	bus.Write16(addr, v)
}

// Write32 stores v without reading first.
func Write32(bus Bus, addr uintptr, v uint32) {
	Trace.Logf("%#08x: = %#08x", addr, v)
	bus.Write32(addr, v)
}

func Read(bus Bus, addr uintptr, width Width) uint32 {
	if width == W16 {
		return uint32(bus.Read16(addr))
	}
	return bus.Read32(addr)
}

// Delay waits d on the bus's clock.
func Delay(bus Bus, d time.Duration) {
	if delayer, ok := bus.(Delayer); ok {
		delayer.Delay(d)
		return
	}
	time.Sleep(d)
}

func Udelay(bus Bus, us int) { Delay(bus, time.Duration(us)*time.Microsecond) }
func Mdelay(bus Bus, ms int) { Delay(bus, time.Duration(ms)*time.Millisecond) }

// PollError reports the last masked value of a poll that expired.
type PollError struct {
	Addr      uintptr
	Got, Want uint32
	Mask      uint32
}

func (err *PollError) Error() string {
	return fmt.Sprintf("%#08x & %#x: %#x != %#x",
		err.Addr, err.Mask, err.Got, err.Want)
}

// Poll reads addr once per microsecond until the masked value equals val,
// at most timeout times. It returns nil as soon as the value matches,
// otherwise a *PollError with the last masked value.
func Poll(bus Bus, addr uintptr, val, mask uint32, timeout int,
	width Width) error {
	if timeout < 1 {
		timeout = 1
	}
	var data uint32
	for {
		Udelay(bus, 1)
		data = Read(bus, addr, width) & mask
		if data == val {
			return nil
		}
		timeout--
		if timeout == 0 {
			break
		}
	}
	Trace.Logf("%#08x: poll expired, %#x", addr, data)
	return &PollError{addr, data, val, mask}
}
