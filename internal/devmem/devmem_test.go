// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package devmem

import (
	"fmt"
	"testing"

	"github.com/platinasystems/comphy/internal/test"
)

const base = 0xf2441000

// heap backs a window with ordinary memory; it must not be Closed.
func heap() *Mem {
	return &Mem{windows: []window{{base, make([]byte, 16)}}}
}

func TestAccess(t *testing.T) {
	assert := test.Assert{TB: t}
	m := heap()
	m.Write32(base+4, 0xdeadbeef)
	assert.Hex(m.Read32(base+4), 0xdeadbeef)
	assert.Hex(uint32(m.Read16(base+4)), 0xbeef)
	assert.Hex(uint32(m.Read16(base+6)), 0xdead)

	m.Write16(base+10, 0x1234)
	assert.Hex(m.Read32(base+8), 0x12340000)
	assert.Hex(m.Read32(base), 0)
}

func TestUnmapped(t *testing.T) {
	assert := test.Assert{TB: t}
	m := heap()
	for _, pa := range []uintptr{base - 4, base + 14, base + 16} {
		func() {
			defer func() {
				r := recover()
				assert.True(r != nil)
				assert.Match(fmt.Sprint(r), "not mapped")
			}()
			m.Read32(pa)
		}()
	}
}

func TestOddWindows(t *testing.T) {
	_, err := Open(false, base)
	test.Assert{TB: t}.Error(err, "devmem: odd window list")
}
