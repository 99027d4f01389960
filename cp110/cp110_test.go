// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package cp110

import (
	"flag"
	"os"
	"testing"

	"github.com/platinasystems/comphy"
	"github.com/platinasystems/comphy/internal/dbg"
	"github.com/platinasystems/comphy/internal/reg"
	"github.com/platinasystems/comphy/internal/reg/regtest"
	"github.com/platinasystems/comphy/internal/test"
)

const testBase = 0xf2441000

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Verbose() {
		reg.Trace = dbg.FileLine
	}
	os.Exit(m.Run())
}

func newTest() (*Controller, *regtest.Spy) {
	bus := regtest.New()
	return New(bus, testBase, new(comphy.TrainingState)), bus
}

func hp(lane int, off uintptr) uintptr {
	return hpipeAddr(pipeBase(testBase), lane) + off
}

func sd(lane int, off uintptr) uintptr {
	return sdAddr(pipeBase(testBase), lane) + off
}

// ready makes the SD PLLs and RX init of lane report done.
func ready(bus *regtest.Spy, lane int) {
	bus.Ready(sd(lane, sdStatus0), sdPLLTx|sdPLLRx|sdRxInit)
}

func TestCPIndex(t *testing.T) {
	assert := test.Assert{TB: t}
	for base, cp := range map[uintptr]int{
		0xf2441000: 0,
		0xf4441000: 1,
		0xf6441000: 2,
		0xd0018300: 0,
	} {
		assert.Equal(New(regtest.New(), base, nil).CP, cp)
	}
}

func TestPhySelector(t *testing.T) {
	assert := test.Assert{TB: t}
	for _, x := range []struct {
		lane int
		d    comphy.Descriptor
		v    uint32
	}{
		{0, comphy.Descriptor{Mode: comphy.SGMII}, phySelNetwork},
		{2, comphy.Descriptor{Mode: comphy.XFI}, phySelNetwork},
		{1, comphy.Descriptor{Mode: comphy.SATA}, phySelSATA},
		{3, comphy.Descriptor{Mode: comphy.RXAUI}, phySelLane3RXAUI},
		{3, comphy.Descriptor{Mode: comphy.SGMII}, phySelLane3SGMII},
		{4, comphy.Descriptor{Mode: comphy.SFI, Unit: 1}, phySelLane4Port1},
		{4, comphy.Descriptor{Mode: comphy.SFI}, phySelLane4Others},
		{4, comphy.Descriptor{Mode: comphy.RXAUI, Unit: 1},
			phySelLane4Others},
		{5, comphy.Descriptor{Mode: comphy.RXAUI}, phySelLane5RXAUI},
		{5, comphy.Descriptor{Mode: comphy.HSSGMII}, phySelLane5SGMII},
	} {
		c, bus := newTest()
		bus.Poke(testBase+selectorPipe, 0xffffff)
		assert.Nil(c.setPhySelector(x.lane, x.d))
		assert.Equal(c.phySelector(x.lane), x.v)
		assert.Equal(c.pipeSelector(x.lane), 0)
	}
}

func TestInvalidPhyRoute(t *testing.T) {
	assert := test.Assert{TB: t}
	for _, mode := range []comphy.Mode{
		comphy.Unset,
		comphy.PCIE,
		comphy.USB3,
		comphy.USB3H,
		comphy.USB3D,
		comphy.Unused,
	} {
		c, bus := newTest()
		bus.Poke(testBase+selectorPipe, 0x111111)
		err := c.setPhySelector(2, comphy.Descriptor{Mode: mode})
		assert.Is(err, comphy.InvalidConfiguration)
		assert.Equal(len(bus.Writes()), 0)
		assert.Equal(c.pipeSelector(2), 1)
	}
}

func TestInvalidPipeRoute(t *testing.T) {
	assert := test.Assert{TB: t}
	for _, x := range []struct {
		lane int
		mode comphy.Mode
	}{
		{0, comphy.USB3H},
		{5, comphy.USB3H},
		{0, comphy.USB3D},
		{2, comphy.USB3D},
		{3, comphy.USB3D},
		{5, comphy.USB3D},
	} {
		c, bus := newTest()
		bus.Poke(testBase+selectorPhy, 0x111111)
		err := c.PowerOn(x.lane, comphy.Descriptor{Mode: x.mode})
		assert.Is(err, comphy.InvalidConfiguration)
		assert.Equal(c.phySelector(x.lane), 0)
		assert.Equal(len(bus.WritesTo(testBase+selectorPipe)), 0)
	}
}

func TestUSB3(t *testing.T) {
	assert := test.Assert{TB: t}
	c, bus := newTest()
	bus.Ready(hp(1, hpipeLaneStatus1), hpipeLaneStatusPclkEn)
	assert.Nil(c.PowerOn(1, comphy.Descriptor{Mode: comphy.USB3D}))
	assert.Hex(bus.Peek(testBase+selectorPipe), pipeSelUSBD<<4)
	assert.Equal(c.GetMode(1), comphy.USB3D)
	assert.Hex(bus.Peek(hp(1, hpipeRstClkCtrl))&1, 0)

	c, bus = newTest()
	err := c.PowerOn(4, comphy.Descriptor{Mode: comphy.USB3H})
	assert.Is(err, comphy.Timeout)
	assert.Equal(bus.Reads(hp(4, hpipeLaneStatus1)), longPLLLockTimeout)
}

func TestUnsupportedMode(t *testing.T) {
	assert := test.Assert{TB: t}
	c, bus := newTest()
	for _, mode := range []comphy.Mode{comphy.Unset, comphy.USB3} {
		err := c.PowerOn(0, comphy.Descriptor{Mode: mode})
		assert.Is(err, comphy.InvalidConfiguration)
	}
	assert.Is(c.PowerOn(6, comphy.Descriptor{Mode: comphy.SGMII}),
		comphy.InvalidConfiguration)
	assert.Equal(len(bus.Writes()), 0)
}

func TestSATA(t *testing.T) {
	assert := test.Assert{TB: t}
	c, bus := newTest()
	c.SATA[1].Polarity = comphy.InvertTx
	assert.Nil(c.PowerOn(1, comphy.Descriptor{
		Mode:   comphy.SATA,
		Invert: comphy.InvertRx,
	}))
	assert.Equal(c.GetMode(1), comphy.SATA)
	assert.Hex(bus.Peek(hp(1, hpipeSyncPattern)), 0xc00)
	g1 := bus.Peek(hp(1, hpipeG1Set0))
	assert.Hex(setTxAmp.Get(g1), 0x8)
	assert.Hex(setTxEmph1.Get(g1), 0x1)
	assert.Hex(bus.Peek(sd(1, sdConfig2)), sd2SSCEnable.Mask())
	// soft reset is pulsed
	assert.Hex(bus.Peek(hp(1, hpipePwrCtr)), 0)
	assert.Equal(len(bus.WritesTo(hp(1, hpipePwrCtr))), 4)
}

func TestSGMII(t *testing.T) {
	assert := test.Assert{TB: t}
	c, bus := newTest()
	ready(bus, 0)
	assert.Nil(c.PowerOn(0, comphy.Descriptor{
		Mode:  comphy.SGMII,
		Speed: comphy.Speed1_25G,
	}))
	assert.Hex(bus.Peek(sd(0, sdConfig0)), 0x5b32)
	assert.Hex(bus.Peek(sd(0, sdConfig1)), 0x61)
	assert.Hex(bus.Peek(testBase+selectorPhy), phySelNetwork)
	assert.Equal(c.GetMode(0), comphy.SGMII)
}

func TestSGMIISpeed(t *testing.T) {
	assert := test.Assert{TB: t}
	c, bus := newTest()
	err := c.PowerOn(0, comphy.Descriptor{
		Mode:  comphy.SGMII,
		Speed: comphy.Speed10_3125G,
	})
	assert.Is(err, comphy.InvalidConfiguration)
	assert.Equal(len(bus.WritesTo(sd(0, sdConfig0))), 0)
}

func TestSGMIIPLLTimeout(t *testing.T) {
	assert := test.Assert{TB: t}
	c, bus := newTest()
	err := c.PowerOn(0, comphy.Descriptor{
		Mode:  comphy.HSSGMII,
		Speed: comphy.Speed3_125G,
	})
	assert.Is(err, comphy.Timeout)
	assert.Equal(bus.Reads(sd(0, sdStatus0)), pllLockTimeout)
	// RX init is not attempted
	assert.Hex(bus.Peek(sd(0, sdConfig1))&sd1RxInit.Mask(), 0)
}

func TestXFIRxInitTimeoutReleasesRF(t *testing.T) {
	assert := test.Assert{TB: t}
	c, bus := newTest()
	bus.Ready(sd(2, sdStatus0), sdPLLTx|sdPLLRx)
	err := c.PowerOn(2, comphy.Descriptor{
		Mode:  comphy.XFI,
		Speed: comphy.Speed10_3125G,
	})
	assert.Is(err, comphy.Timeout)
	v := bus.Peek(sd(2, sdConfig1))
	assert.Hex(v&sd1RFResetIn.Mask(), sd1RFResetIn.Mask())
	assert.Hex(v&sd1RxInit.Mask(), 0)
}

func TestXFI(t *testing.T) {
	assert := test.Assert{TB: t}
	c, bus := newTest()
	ready(bus, 2)
	assert.Nil(c.PowerOn(2, comphy.Descriptor{
		Mode:  comphy.XFI,
		Speed: comphy.SpeedDefault,
	}))
	g1 := bus.Peek(hp(2, hpipeG1Set0))
	assert.Hex(setTxAmp.Get(g1), 0x1c)
	assert.Hex(setTxEmph1.Get(g1), 0xe)
	assert.Hex(align90OsPhEx.Get(bus.Peek(hp(2, hpipeRxClkAlign90))), 0x5f)
	assert.Hex(miscICPForce.Get(bus.Peek(hp(2, hpipeMisc))), 1)

	c, bus = newTest()
	ready(bus, 2)
	assert.Nil(c.PowerOn(2, comphy.Descriptor{
		Mode:  comphy.SFI,
		Speed: comphy.Speed5_15625G,
	}))
	assert.Hex(setTxEmph1.Get(bus.Peek(hp(2, hpipeG1Set0))), 0x6)
	assert.Hex(miscICPForce.Get(bus.Peek(hp(2, hpipeMisc))), 0)
	assert.Equal(len(bus.WritesTo(hp(2, hpipeRxClkAlign90))), 0)
}

func TestXFIRefusals(t *testing.T) {
	assert := test.Assert{TB: t}
	c, bus := newTest()
	c.XFI[2].Valid = false
	err := c.PowerOn(2, comphy.Descriptor{
		Mode:  comphy.XFI,
		Speed: comphy.Speed10_3125G,
	})
	assert.Is(err, comphy.InvalidConfiguration)
	err = c.PowerOn(2, comphy.Descriptor{
		Mode:  comphy.XFI,
		Speed: comphy.Speed1_25G,
	})
	assert.Is(err, comphy.InvalidConfiguration)
	assert.Equal(len(bus.Writes()), 0)
}

func TestTrainedLaneIsKept(t *testing.T) {
	assert := test.Assert{TB: t}
	c, bus := newTest()
	c.Training.MarkTrained(0, 0, 2)
	d := comphy.Descriptor{Mode: comphy.XFI, Speed: comphy.Speed1_25G}
	assert.Nil(c.PowerOn(2, d))
	assert.Nil(c.PowerOff(2, d))
	assert.Nil(c.PowerOff(2, comphy.Descriptor{}))
	assert.Equal(len(bus.Writes()), 0)

	// other CPs are not trained
	c = New(bus, 0xf4441000, c.Training)
	assert.Nil(c.PowerOff(2, d))
	assert.True(len(bus.Writes()) > 0)
}

func TestRXAUI(t *testing.T) {
	assert := test.Assert{TB: t}
	c, bus := newTest()
	ready(bus, 4)
	assert.Nil(c.PowerOn(4, comphy.Descriptor{Mode: comphy.RXAUI}))
	assert.Hex(bus.Peek(testBase+sdCtrl1), sdCtrl1RXAUI1.Mask())
	assert.Hex(sd0MediaMode.Get(bus.Peek(sd(4, sdConfig0))), 1)
	assert.Hex(sd0GenRx.Get(bus.Peek(sd(4, sdConfig0))), genRXAUI)
	assert.Equal(c.GetMode(4), comphy.SGMII)

	c, bus = newTest()
	ready(bus, 5)
	assert.Nil(c.PowerOn(5, comphy.Descriptor{Mode: comphy.RXAUI}))
	assert.Equal(c.GetMode(5), comphy.RXAUI)
}

func TestAP(t *testing.T) {
	assert := test.Assert{TB: t}
	c, bus := newTest()
	assert.Nil(c.PowerOn(4, comphy.Descriptor{Mode: comphy.AP, Unit: 1}))
	assert.Equal(c.phySelector(4), phySelLane4Others)
	assert.Hex(bus.Peek(comphyAddr(testBase, 4)+phyCfg1), cfg1PwrUp.Mask())
}

func TestPowerOffIdempotent(t *testing.T) {
	assert := test.Assert{TB: t}
	c, bus := newTest()
	ready(bus, 0)
	d := comphy.Descriptor{Mode: comphy.SGMII, Speed: comphy.Speed1_25G}
	assert.Nil(c.PowerOn(0, d))
	bus.Poke(sysCtrlBase(testBase)+sysCtrlUnitSoftReset, 0xffffffff)

	assert.Nil(c.PowerOff(0, d))
	first := bus.Dump()
	assert.Equal(c.GetMode(0), comphy.Unused)
	assert.Hex(bus.Peek(sysCtrlBase(testBase)+sysCtrlUnitSoftReset),
		^uint32(pcieMacReset[0]))
	assert.Hex(bus.Peek(sd(0, sdConfig1)), 0)

	assert.Nil(c.PowerOff(0, d))
	assert.Equal(bus.Dump(), first)
}

func TestPowerOffKeepsPCIe(t *testing.T) {
	assert := test.Assert{TB: t}
	c, bus := newTest()
	bus.Poke(testBase+selectorPipe, pipeSelPCIE)
	assert.Nil(c.PowerOff(0, comphy.Descriptor{}))
	assert.Equal(len(bus.Writes()), 0)

	assert.Nil(c.PowerOff(0, comphy.Descriptor{Origin: comphy.Bootloader}))
	assert.Equal(c.GetMode(0), comphy.Unused)
}

func TestIsPLLLocked(t *testing.T) {
	assert := test.Assert{TB: t}
	c, bus := newTest()
	for _, mode := range []comphy.Mode{comphy.PCIE, comphy.USB3H,
		comphy.USB3D} {
		err := c.IsPLLLocked(0, comphy.Descriptor{Mode: mode})
		assert.Is(err, comphy.InvalidConfiguration)
	}
	bus.Ready(sd(1, sdStatus0), sdPLLTx)
	assert.Is(c.IsPLLLocked(1, comphy.Descriptor{Mode: comphy.SATA}),
		comphy.Timeout)
	bus.Ready(sd(1, sdStatus0), sdPLLTx|sdPLLRx)
	assert.Nil(c.IsPLLLocked(1, comphy.Descriptor{Mode: comphy.SATA}))
}

func TestDigitalReset(t *testing.T) {
	assert := test.Assert{TB: t}
	c, bus := newTest()
	bus.Poke(sd(3, sdConfig1), 0x61)
	assert.Nil(c.DigitalReset(3, comphy.SGMII, comphy.DigitalPowerOff))
	assert.Hex(bus.Peek(sd(3, sdConfig1)), 0x21)
	assert.Nil(c.DigitalReset(3, comphy.SGMII, comphy.DigitalPowerOn))
	assert.Hex(bus.Peek(sd(3, sdConfig1)), 0x61)

	bus.Reset()
	assert.Is(c.DigitalReset(3, comphy.SATA, comphy.DigitalPowerOff),
		comphy.InvalidConfiguration)
	assert.Equal(len(bus.Writes()), 0)
}

func TestSMC(t *testing.T) {
	assert := test.Assert{TB: t}
	c, bus := newTest()
	var smc comphy.SMC
	smc.Register(testBase, c)
	bus.Poke(sd(3, sdConfig1), 0x61)
	r := comphy.NewRequest(comphy.FnDigReset, 0, 3,
		comphy.Descriptor{Mode: comphy.SGMII}.Encode())
	r.Cmd = comphy.DigitalPowerOff
	status, err := smc.Call(r)
	assert.Nil(err)
	assert.Equal(status, 0)
	assert.Hex(bus.Peek(sd(3, sdConfig1)), 0x21)

	r = comphy.NewRequest(comphy.FnPowerOn, testBase, 6,
		comphy.Descriptor{Mode: comphy.SGMII}.Encode())
	status, _ = smc.Call(r)
	assert.Equal(status, -22)

	r = comphy.NewRequest(comphy.FnXFITrain, testBase, 2, 0)
	status, _ = smc.Call(r)
	assert.Equal(status, -22)
}
