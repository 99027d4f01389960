// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package cp110

import (
	"bytes"
	"strings"
	"testing"

	"github.com/platinasystems/comphy"
	"github.com/platinasystems/comphy/internal/reg/regtest"
	"github.com/platinasystems/comphy/internal/test"
)

// signal makes lane 2 see a receive signal with CDR lock.
func signal(bus *regtest.Spy) {
	bus.Ready(hp(2, hpipeLoopback), loopbackCdrLock.Mask())
}

func TestRxTrainingPrecheck(t *testing.T) {
	assert := test.Assert{TB: t}
	c, bus := newTest()
	bus.Poke(hp(2, hpipeSquelchFFE), squelchDetected.Mask())
	signal(bus)
	assert.Is(c.XFIRxTraining(2), comphy.InvalidConfiguration)

	c, _ = newTest()
	assert.Is(c.XFIRxTraining(2), comphy.InvalidConfiguration)
	assert.False(c.Training.IsTrained(0, 0, 2))
}

func TestRxTraining(t *testing.T) {
	assert := test.Assert{TB: t}
	c, bus := newTest()
	out := new(bytes.Buffer)
	c.Report = out
	signal(bus)
	bus.Poke(hp(2, hpipeInterrupt1), trainCompleteInt)
	bus.Poke(hp(2, hpipeAdaptedFFE), 0x3a00)
	bus.Poke(hp(2, hpipeDataPhaseOff), 0x40<<9)
	bus.Poke(hp(2, hpipeAdaptedDfeCoef1), 2<<12)

	assert.Nil(c.XFIRxTraining(2))
	assert.True(c.Training.IsTrained(0, 0, 2))
	p := c.XFI[2]
	assert.Equal(p.G1FFEResSel, 3)
	assert.Equal(p.G1FFECapSel, 0xa)
	assert.Equal(p.Align90, 0x40)
	assert.Equal(p.G1DFERes, 2)
	assert.Hex(bus.Peek(hp(2, hpipeG1Settings3))&0xff, 0xba)
	assert.Hex(align90OsPhEx.Get(bus.Peek(hp(2, hpipeRxClkAlign90))), 0x40)
	assert.Hex(bus.Peek(hp(2, hpipeTrxTrainCtrl0))&trxRxTrainEn.Mask(), 0)
	assert.True(strings.Contains(out.String(), "comphy2: training done"))

	// a trained lane is not brought up again
	bus.Reset()
	assert.Nil(c.PowerOn(2, comphy.Descriptor{Mode: comphy.XFI}))
	assert.Equal(len(bus.Writes()), 0)
}

func TestRxTrainingTimeout(t *testing.T) {
	assert := test.Assert{TB: t}
	c, bus := newTest()
	signal(bus)
	assert.Is(c.XFIRxTraining(2), comphy.Timeout)
	assert.Equal(bus.Reads(hp(2, hpipeInterrupt1)), rxTrainingTimeout)
	assert.Hex(bus.Peek(hp(2, hpipeTrxTrainCtrl0))&trxRxTrainEn.Mask(), 0)
	assert.False(c.Training.IsTrained(0, 0, 2))

	c, bus = newTest()
	signal(bus)
	bus.Poke(hp(2, hpipeInterrupt1), trainTimeoutInt)
	assert.Is(c.XFIRxTraining(2), comphy.Timeout)
	assert.Equal(bus.Reads(hp(2, hpipeInterrupt1)), 1)
}

func TestRxTrainingFailed(t *testing.T) {
	assert := test.Assert{TB: t}
	c, bus := newTest()
	signal(bus)
	bus.Poke(hp(2, hpipeInterrupt1), trainFailedInt)
	assert.Is(c.XFIRxTraining(2), comphy.TrainingFailed)
	assert.False(c.Training.IsTrained(0, 0, 2))
}

func TestSweepFFE(t *testing.T) {
	assert := test.Assert{TB: t}
	c, bus := newTest()
	signal(bus)
	bus.Ready(sd(2, sdStatus1), sdStatus1Comp.Mask())
	bus.OnRead(hp(2, hpipeSavedDfe), func(uint32) uint32 {
		ffe := int(ffeResSel.Get(bus.Peek(hp(2, hpipeG1Settings3))))
		d := ffe - 5
		if d < 0 {
			d = -d
		}
		return savedDfeF0D.Is(uint32(10 - d))
	})
	best, err := c.SweepFFE(2)
	assert.Nil(err)
	assert.Equal(best, 5)
	assert.Hex(ffeResSel.Get(bus.Peek(hp(2, hpipeG1Settings3))), 5)
	assert.Hex(bus.Peek(hp(2, hpipePhyTestControl))&phyTestEn.Mask(), 0)
}

func TestSweepFFEFailed(t *testing.T) {
	assert := test.Assert{TB: t}
	c, bus := newTest()
	signal(bus)
	bus.Ready(sd(2, sdStatus1), sdStatus1Comp.Mask()|sdStatus1Fail.Mask())
	_, err := c.SweepFFE(2)
	assert.Is(err, comphy.TrainingFailed)
}
