// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package cp110

import (
	"github.com/platinasystems/comphy"
	"github.com/platinasystems/log"
)

// SD generation selects.
const (
	genSGMII1_25G  = 0x6
	genSGMII3_125G = 0x8
	genXFI         = 0xe
	genRXAUI       = 0xb
)

func (l *lane) sgmiiPowerOn() error {
	if err := l.c.setPhySelector(l.n, l.d); err != nil {
		return err
	}
	l.powerUp()

	var gen uint32
	switch l.d.Speed {
	case comphy.Speed1_25G:
		gen = genSGMII1_25G
	case comphy.Speed3_125G:
		gen = genSGMII3_125G
	default:
		log.Print("err", "unsupported SGMII speed on comphy", l.n)
		return l.errorf("SGMII %v: %w", l.d.Speed,
			comphy.InvalidConfiguration)
	}
	l.sdc(sdConfig0, set(sd0PuPLL, 0).and(sd0GenRx, gen).and(sd0GenTx, gen).
		and(sd0PuRx, 0).and(sd0PuTx, 0).and(sd0HalfBus, 1))

	l.resetSerdes()

	l.cfg(phyCfg6, set(cfg6If40Sel, 0))
	l.hp(hpipeMisc, set(miscRefClkSel, 0))
	l.hp(hpipePwrPLL, set(pwrPLLRefFreq, 1).and(pwrPLLPhyMode, 4))
	l.hp(hpipeLoopback, set(loopbackSel, 1))
	l.hp(hpipeRxControl1, set(rxCtrl1Clk2x, 1).and(rxCtrl1Clk8T, 0))
	l.hp(hpipePwrCtrDtl, set(dtlFloopEn, 0))
	l.hp(hpipeG1Set0, set(setTxEmph1, 1))
	l.polarity(comphy.InvertNone)

	l.puPLLRxTx()
	if err := l.pollPLL(pllLockTimeout); err != nil {
		return err
	}
	return l.rxInit()
}
