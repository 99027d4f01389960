// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package reg_test

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/platinasystems/comphy/internal/dbg"
	"github.com/platinasystems/comphy/internal/reg"
	"github.com/platinasystems/comphy/internal/reg/regtest"
	"github.com/platinasystems/comphy/internal/test"
)

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Verbose() {
		reg.Trace = dbg.Plain
	}
	os.Exit(m.Run())
}

func TestSet(t *testing.T) {
	assert := test.Assert{TB: t}
	bus := regtest.New()
	bus.Poke(0x100, 0xffff0000)
	reg.Set(bus, 0x100, 0x00ff00ff, 0x0f0f0f0f)
	assert.Hex(bus.Peek(0x100), 0xf0ff000f)

	bus.Poke(0x200, 0xa5a5)
	reg.Set16(bus, 0x200, 0x0000, 0x00ff)
	assert.Hex(bus.Peek(0x200), 0xa500)
	assert.Equal(len(bus.Writes()), 2)
}

func TestPollSucceedsAsSoonAsMatched(t *testing.T) {
	assert := test.Assert{TB: t}
	bus := regtest.New()
	bus.Script(0x10, 0, 0, 0x4, 0)
	assert.Nil(reg.Poll(bus, 0x10, 0x4, 0x4, 1000, reg.W32))
	assert.Equal(bus.Reads(0x10), 3)
	assert.Equal(bus.Delays, 3)
}

func TestPollBound(t *testing.T) {
	assert := test.Assert{TB: t}
	for _, timeout := range []int{1, 10, 1000} {
		bus := regtest.New()
		bus.Poke(0x10, 0x3)
		err := reg.Poll(bus, 0x10, 0x4, 0x5, timeout, reg.W16)
		perr, ok := err.(*reg.PollError)
		assert.True(ok)
		assert.Hex(perr.Got, 0x1)
		assert.Equal(bus.Reads(0x10), timeout)
		assert.Equal(bus.Delayed, time.Duration(timeout)*time.Microsecond)
	}
}

func TestPollMatchOnLastRead(t *testing.T) {
	assert := test.Assert{TB: t}
	bus := regtest.New()
	bus.Script(0x10, 0, 0, 1)
	assert.Nil(reg.Poll(bus, 0x10, 1, 1, 3, reg.W32))
}

func TestPollZeroedBitsExpire(t *testing.T) {
	bus := regtest.New()
	if err := reg.Poll(bus, 0x10, 0x8, 0x8, 5, reg.W32); err == nil {
		t.Fatal("expected expired poll when bits never set")
	}
}

func TestField(t *testing.T) {
	assert := test.Assert{TB: t}
	f := reg.Bits(7, 4)
	assert.Hex(f.Mask(), 0x780)
	assert.Hex(f.Is(0x1f), 0x780)
	assert.Hex(f.Get(0xfff), 0xf)
	assert.Hex(f.Set(0xffff, 0x2), 0xf97f)
	assert.Hex(uint32(reg.Bit(15).Mask16()), 0x8000)
}

func TestIndirect(t *testing.T) {
	assert := test.Assert{TB: t}
	bus := regtest.New()
	ind := reg.Indirect{Bus: bus, Base: 0x1000, Offset: 0x200}
	ind.Set(0x23, 0x0c00, 0x0c00)
	assert.Equal(bus.WritesTo(0x1000), []uint32{0x223})
	assert.Equal(bus.WritesTo(0x1004), []uint32{0x0c00})

	bus.Ready(0x1004, 0x4)
	assert.Nil(ind.Poll(0x183, 0x4, 0x4, 10))
	assert.Equal(bus.WritesTo(0x1000), []uint32{0x223, 0x383})
}

func TestDirect(t *testing.T) {
	assert := test.Assert{TB: t}
	bus := regtest.New()
	d := reg.Direct{Bus: bus, Base: 0x5c000, Shift: 2}
	d.Set(0x1c1, 0x3, 0xffff)
	assert.Hex(bus.Peek(0x5c000+0x1c1*2), 0x3)
	assert.Nil(d.Poll(0x1c1, 1, 1, 1))
}
