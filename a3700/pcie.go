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

func (c *Controller) pciePowerOn(n int, d comphy.Descriptor) error {
	if err := c.setPhySelector(n, d.Mode); err != nil {
		return err
	}
	phy := c.direct(sdAddr)

	phy.Set(laneCfg1, useMaxPLLRateEn, useMaxPLLRateEn)
	phy.Set(clkSrcLo, cfgSel20B, cfgSel20B)
	phy.Set(miscCtrl1, selBitsPCIEForce, selBitsPCIEForce)
	phy.Set(pwrMgmTim1, pmRxdenWait1Unit|pmRxdlozWait12Unit,
		pmOscclkWaitMask|pmRxdenWaitMask|pmRxdlozWaitMask)
	phy.Set(idleSyncEn, idleSyncEnDefault|idleSyncEnable, reg16BitMask)
	phy.Set(miscCtrl0, miscCtrl0Default|clk500MEn|txdClk2xSel|
		clk100M125MEn, reg16BitMask)

	var refClk uint16 = refPCIEUSB3_25MHz
	if c.is40MHz() {
		refClk = refPCIEUSB3_40MHz
	}
	phy.Set(powerPLLCtrl, puAll|refClk|phyModePCIE, reg16BitMask)
	phy.Set(kvcoCalCtrl, speedPLLValue16|useMaxPLLRate, reg16BitMask)
	phy.Set(syncPattern, polarity(d.Invert), txdInvert|rxdInvert)

	data := uint16(modeCoreClkFreqSel | modePipeWidth32)
	phy.Set(rstClkCtrl, data, data|softReset|modeRefdivMask)

	reg.Udelay(c.Bus, pllSetDelayUs)

	if err := phy.Poll(laneStat1, txdclkPclkEn, txdclkPclkEn,
		pllLockTimeout); err != nil {
		log.Print("err", "Failed to lock PCIE PLL")
		return fmt.Errorf("comphy%d: PCIe PLL: %v: %w", n, err,
			comphy.Timeout)
	}
	return nil
}
