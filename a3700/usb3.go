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

// usb3PHY returns the lane's USB3 register accessor; lane 2 is indirect.
func (c *Controller) usb3PHY(n int) reg.Accessor {
	if n == 2 {
		return c.indirect(lane2RegOffset)
	}
	return c.direct(usb3GBE1PHY)
}

func (c *Controller) usb3PowerOn(n int, d comphy.Descriptor) error {
	if err := c.setPhySelector(n, d.Mode); err != nil {
		return err
	}
	phy := c.usb3PHY(n)

	// 3.5 dB de-emphasis
	phy.Set(laneCfg0, prdTxDeemph0,
		prdTxDeemph0|prdTxMarginMask|prdTxSwingMask|cfgTxAlignPosMask)
	phy.Set(laneCfg1, txDetRxMode|gen2TxDataDlyDeft|txElecIdleModeEn,
		prdTxDeemph1Mask|txDetRxMode|gen2TxDataDlyMask|txElecIdleModeEn)
	phy.Set(laneCfg4, spreadSpectrumEn, spreadSpectrumEn)
	phy.Set(testModeCtrl, modeMarginOverride, reg16BitMask)
	phy.Set(clkSrcLo, 0, modeClkSrc|bundlePeriodSel|bundlePeriodScale|
		bundleSampleCtrl|pllReadyDlyMask)
	phy.Set(gen2Set2, gs2TxSSCAmpValue20, gs2TxSSCAmpMask)
	phy.Set(gen3Set2, gs2VregMasIset60U,
		gs2TxSSCAmpMask|gs2VregMasIsetMask|gs2Rsvd6_0Mask)

	var refClk, rxdloz uint16 = refPCIEUSB3_25MHz, pmRxdlozWait7Unit
	if c.is40MHz() {
		refClk, rxdloz = refPCIEUSB3_40MHz, pmRxdlozWait12Unit
	}
	phy.Set(powerPLLCtrl, puAll|phyModeUSB3|refClk,
		puAll|pllLock|phyModeMask|refFrefSelMask)
	phy.Set(pwrMgmTim1, pmRxdenWait1Unit|rxdloz,
		pmOscclkWaitMask|pmRxdenWaitMask|pmRxdlozWaitMask)

	phy.Set(idleSyncEn, idleSyncEnDefault|idleSyncEnable, reg16BitMask)
	phy.Set(miscCtrl0, miscCtrl0Default|clk500MEn, reg16BitMask)
	phy.Set(digLoopbackEn, dataWidth20Bit, reg16BitMask)
	phy.Set(kvcoCalCtrl, speedPLLValue16|useMaxPLLRate, reg16BitMask)
	phy.Set(syncPattern, polarity(d.Invert), txdInvert|rxdInvert)
	phy.Set(syncMaskGen, phyGenMaxUSB3_5G, phyGenMaxMask)
	phy.Set(gen2Set3, gs3FFECapSelValue, gs3FFECapSelMask)

	// release soft reset
	phy.Set(rstClkCtrl, modeCoreClkFreqSel|modePipeWidth32|modeRefdivBy4,
		reg16BitMask)

	reg.Udelay(c.Bus, pllSetDelayUs)

	if err := phy.Poll(laneStat1, txdclkPclkEn, txdclkPclkEn,
		pllLockTimeout); err != nil {
		log.Print("err", "Failed to lock USB3 PLL")
		return fmt.Errorf("comphy%d: USB3 PLL: %v: %w", n, err,
			comphy.Timeout)
	}
	return nil
}
