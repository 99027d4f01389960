// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package cp110

import (
	"github.com/platinasystems/comphy"
	"github.com/platinasystems/comphy/internal/reg"
)

func (l *lane) rxauiPowerOn() error {
	if err := l.c.setPhySelector(l.n, l.d); err != nil {
		return err
	}
	l.powerUp()

	switch l.n {
	case 2:
		reg.Set(l.c.Bus, l.c.Base+sdCtrl1, sdCtrl1RXAUI0.Is(1),
			sdCtrl1RXAUI0.Mask())
	case 4:
		reg.Set(l.c.Bus, l.c.Base+sdCtrl1, sdCtrl1RXAUI1.Is(1),
			sdCtrl1RXAUI1.Mask())
	}

	l.sdc(sdConfig0, set(sd0PuPLL, 0).and(sd0GenRx, genRXAUI).
		and(sd0GenTx, genRXAUI).and(sd0PuRx, 0).and(sd0PuTx, 0).
		and(sd0HalfBus, 0).and(sd0MediaMode, 1))
	l.resetSerdes()

	l.hp(hpipeMisc, set(miscRefClkSel, 0))
	l.hp(hpipePwrPLL, set(pwrPLLRefFreq, 1).and(pwrPLLPhyMode, 4))
	l.hp(hpipeLoopback, set(loopbackSel, 1))
	l.hp(hpipeRxControl1, set(rxCtrl1Clk2x, 1).and(rxCtrl1Clk8T, 1))
	l.hp(hpipePwrCtrDtl, set(dtlFloopEn, 0))
	l.sdc(sdConfig2, set(sd2PinDfeEn, 1))
	l.hp(hpipeDfeReg0, set(dfeResForce, 1))
	l.hp(hpipeG1Set0, set(setTxEmph1, 0xd))
	l.hp(hpipeG1Set1, set(setRxSelmupi, 1).and(setRxSelmupf, 1).
		and(setRxDfeEn, 1))
	l.hp(hpipeDfeF3F5, set(dfeF3F5En, 0).and(dfeF3F5Ctrl, 0))
	l.hp(hpipeG1Settings4, set(settingsDfeRes, 1))
	l.polarity(comphy.InvertNone)

	l.puPLLRxTx()
	err := l.pollPLL(longPLLLockTimeout)
	if rxErr := l.rxInit(); err == nil {
		err = rxErr
	}
	return err
}
