// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package cp110

import (
	"github.com/platinasystems/comphy"
	"github.com/platinasystems/comphy/internal/reg"
	"github.com/platinasystems/log"
)

func (l *lane) usb3PowerOn() error {
	if err := l.c.setPipeSelector(l.n, l.d); err != nil {
		return err
	}

	l.cfg(phyCfg1, set(cfg1PwrUp, 1).and(cfg1PipeSelect, 1).
		and(cfg1PwrOnReset, 0).and(cfg1CoreRstn, 0).and(cfg1PhyMode, 1))
	l.cfg(phyCfg1, set(cfg1PwrOnReset, 1).and(cfg1CoreRstn, 1))
	l.mdelay(1)

	l.hp(hpipeRstClkCtrl, set(rstClkPipeRst, 1).and(rstClkFixedPclk, 0).
		and(rstClkPipeWidth, 0).and(rstClkCoreFreq, 0))
	l.hp(hpipeClkSrcLo, set(clkSrcLoPLLRdyDl, 2))
	l.hp(hpipeMisc, set(miscRefClkSel, 0))
	l.hp(hpipePwrPLL, set(pwrPLLRefFreq, 2).and(pwrPLLPhyMode, 5))
	l.hp(hpipeGlobalPMCtrl, set(globalPMRxDLozWait, 7))
	l.hp(hpipeInterface, set(interfaceGenMax, 1))
	l.hp(hpipeLoopback, set(loopbackSel, 1))
	l.hp(hpipeLaneConfig0, set(laneCfg0TxDeemph0, 1))
	l.hp(hpipeTstModeCtrl, set(tstModeMargin, 1))
	l.hp(hpipeLaneCfg4, set(laneCfg4DfeCtrl, 1).and(laneCfg4DfeOver, 1).
		and(laneCfg4SSCCtrl, 1))
	l.hp(hpipeG2Set2, set(g2TxSSCAmp, 0x1f))
	l.polarity(l.c.USB[l.n].Polarity)

	l.hp(hpipeRstClkCtrl, set(rstClkPipeRst, 0))

	err := reg.Poll(l.c.Bus, l.hpipe+hpipeLaneStatus1, hpipeLaneStatusPclkEn,
		hpipeLaneStatusPclkEn, longPLLLockTimeout, reg.W32)
	if err != nil {
		log.Print("err", "comphy", l.n, ": Failed to lock USB3 PLL")
		return l.errorf("USB3 PLL: %v: %w", err, comphy.Timeout)
	}
	return nil
}
