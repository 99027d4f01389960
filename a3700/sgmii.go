// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package a3700

import (
	"fmt"

	"github.com/platinasystems/comphy"
	"github.com/platinasystems/comphy/internal/reg"
	"github.com/platinasystems/log"
)

// sgmiiSerdes is the SerDes window of a network lane: lane 0 shares the
// USB3/GbE1 PHY, lane 1 the PCIe/GbE0 PHY.
func (c *Controller) sgmiiSerdes(n int) reg.Direct {
	if n == 0 {
		return c.direct(usb3GBE1PHY)
	}
	return c.direct(sdAddr)
}

// sgmiiPhyInit loads the 40 MHz register image, patched for 3.125 Gbps
// unless is1G.
func sgmiiPhyInit(sd reg.Accessor, is1G bool) {
	fix := 0
	for addr := 0; addr < sgmiiTableLen; addr++ {
		val := sgmiiInit40M1G25[addr]
		if !is1G && fix < len(sgmiiFix40M3G125) &&
			int(sgmiiFix40M3G125[fix].addr) == addr {
			val = sgmiiFix40M3G125[fix].value
			fix++
		}
		sd.Set(uint32(addr), val, reg16BitMask)
	}
}

func (c *Controller) sgmiiPowerOn(n int, d comphy.Descriptor) error {
	if err := c.setPhySelector(n, d.Mode); err != nil {
		return err
	}
	sd := c.sgmiiSerdes(n)

	// Hold the PHY in reset with TX idle and everything powered down,
	// then release the reset.
	data := uint32(pinPuIvref | pinTxIdle | pinResetComphy)
	c.setCfg1(n, data, data|pinResetCore|pinPuPLL|pinPuRx|pinPuTx)
	c.setCfg1(n, 0, pinResetComphy)

	var gen uint32
	switch d.Mode {
	case comphy.SGMII:
		gen = sdSpeed1_25G
	case comphy.HSSGMII:
		gen = sdSpeed3_125G
	default:
		log.Print("err", "unsupported SGMII speed on comphy lane", n)
		return fmt.Errorf("comphy%d: %v: %w", n, d.Mode,
			comphy.InvalidConfiguration)
	}
	c.setCfg1(n, gen<<genRxSelShift|gen<<genTxSelShift,
		genRxSelMask|genTxSelMask)

	reg.Mdelay(c.Bus, sgmiiSettleMs)

	sd.Set(powerPLLCtrl, phyModeSGMII, phyModeMask)
	sd.Set(miscCtrl0, 0, phyRefClkSel)
	var refClk uint16 = refSerdes25MHz
	if c.is40MHz() {
		refClk = refSerdes50MHz
	}
	sd.Set(powerPLLCtrl, refClk, refFrefSelMask)
	sd.Set(digLoopbackEn, dataWidth10Bit, selDataWidthMask)

	// The reset values are correct for a 25 MHz reference.
	if c.is40MHz() {
		reg.Trace.Logf("comphy%d: %v 40MHz phy init", n, d.Mode)
		sgmiiPhyInit(sd, d.Mode != comphy.HSSGMII)
	}

	sd.Set(syncPattern, polarity(d.Invert), txdInvert|rxdInvert)

	pu := uint32(pinPuPLL | pinPuRx | pinPuTx)
	c.setCfg1(n, pu, pu)

	ready := uint32(phyPLLReadyTx | phyPLLReadyRx)
	if err := c.pollStatus(n, ready); err != nil {
		log.Print("err", "Failed to lock PLL for SGMII PHY ", n)
		return fmt.Errorf("comphy%d: SGMII PLL: %v: %w", n, err,
			comphy.Timeout)
	}

	c.setCfg1(n, 0, pinTxIdle)
	c.setCfg1(n, phyRxInit, phyRxInit)

	if err := c.pollStatus(n, ready); err != nil {
		log.Print("err", "Failed to lock PLL for SGMII PHY ", n)
		return fmt.Errorf("comphy%d: SGMII PLL: %v: %w", n, err,
			comphy.Timeout)
	}
	if err := c.pollStatus(n, phyRxInitDone); err != nil {
		log.Print("err", "Failed to init RX of SGMII PHY ", n)
		return fmt.Errorf("comphy%d: SGMII RX init: %v: %w", n, err,
			comphy.Timeout)
	}
	return nil
}
