// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package cp110

import (
	"github.com/platinasystems/comphy"
	"github.com/platinasystems/log"
)

// xfiPowerOn brings up a 5G or 10G network lane. A lane that completed RX
// training is left as trained.
func (l *lane) xfiPowerOn() error {
	if l.c.IsTrained(l.n) {
		return nil
	}
	var is5G bool
	switch l.d.Speed {
	case comphy.Speed5_15625G:
		is5G = true
	case comphy.Speed10_3125G, comphy.SpeedDefault:
	default:
		log.Print("err", "comphy", l.n, ": unsupported XFI speed ", l.d.Speed)
		return l.errorf("XFI %v: %w", l.d.Speed, comphy.InvalidConfiguration)
	}
	p := l.c.XFI[l.n]
	if !is5G && !p.Valid {
		log.Print("err", "comphy", l.n, ": no XFI calibration")
		return l.errorf("XFI calibration: %w", comphy.InvalidConfiguration)
	}

	if err := l.c.setPhySelector(l.n, l.d); err != nil {
		return err
	}
	l.powerUp()
	l.cfg(phyCfg6, set(cfg6If40Sel, 0))

	l.sdc(sdConfig0, set(sd0PuPLL, 0).and(sd0GenRx, genXFI).
		and(sd0GenTx, genXFI).and(sd0PuRx, 0).and(sd0PuTx, 0).
		and(sd0HalfBus, 0))
	l.resetSerdes()

	l.hp(hpipeMisc, set(miscICPForce, b2u(!is5G)).and(miscRefClkSel, 0))
	l.hp(hpipePwrPLL, set(pwrPLLRefFreq, 1).and(pwrPLLPhyMode, 4))
	l.hp(hpipeLoopback, set(loopbackSel, 1))
	l.hp(hpipeRxControl1, set(rxCtrl1Clk2x, 1).and(rxCtrl1Clk8T, 1))
	l.hp(hpipePwrCtrDtl, set(dtlFloopEn, 1))

	if is5G {
		l.hp(hpipeSpdDivForce, set(spdDivRx, 1).and(spdDivRxForce, 1).
			and(spdDivTx, 1).and(spdDivTxForce, 1))
	} else {
		l.hp(hpipeSpdDivForce, set(spdTxDigCkDiv, 1))
	}

	l.sdc(sdConfig2, set(sd2PinDfeEn, 1))
	l.hp(hpipeDfeReg0, set(dfeResForce, 1))

	if is5G {
		l.hp(hpipeG1Set0, set(setTxEmph1, 0x6))
	} else {
		l.hp(hpipeG1Set0, set(setTxAmp, uint32(p.G1Amp)).
			and(setTxEmph1, uint32(p.G1Emph)))
	}
	l.hp(hpipeG1Set2, set(g1TxEmph0, 0).and(g1TxEmph0En, 1))
	l.hp(hpipeTxReg1, set(txRegEmphRes, 3).and(txRegSlcEn, 0x3f))
	l.hp(hpipeCalReg1, set(calExtTxImp, 0xe).and(calExtTxImpEn, 1))
	l.hp(hpipeG1Settings5, set(settingsICP, 0))

	if is5G {
		l.hp(hpipeG1Set1, set(setRxDfeEn, 1).and(setRxSelmupi, 1).
			and(setRxSelmupf, 1))
	} else {
		l.hp(hpipeG1Set1, set(setRxDfeEn, 1).
			and(setRxSelmupi, uint32(p.G1RxSelmupi)).
			and(setRxSelmupf, uint32(p.G1RxSelmupf)).
			and(setRxSelmufi, uint32(p.G1RxSelmufi)).
			and(setRxSelmuff, uint32(p.G1RxSelmuff)).
			and(setRxDigckDiv, uint32(p.G1RxDigckDiv)))
	}

	l.hp(hpipeDfeF3F5, set(dfeF3F5En, 0).and(dfeF3F5Ctrl, 0))

	if is5G {
		l.hp(hpipeG1Settings4, set(settingsDfeRes, 1))
		l.hp(hpipeG1Settings3, set(ffeFbckSel, 1).and(ffeCapSel, 0xf).
			and(ffeResSel, 4).and(ffeSettingForce, 1))
	} else {
		l.hp(hpipeG1Settings4, set(settingsDfeRes, uint32(p.G1DFERes)))
		l.hp(hpipeG1Settings3, set(ffeFbckSel, 1).
			and(ffeCapSel, uint32(p.G1FFECapSel)).
			and(ffeResSel, uint32(p.G1FFEResSel)).
			and(ffeSettingForce, 1))
		l.hp(hpipeRxClkAlign90, set(align90OsPhEx, uint32(p.Align90)).
			and(align90ExtEn, 1))
	}

	// Connection training.
	l.hp(hpipeTxTrainCtrl5, set(rxTrainTimer, 0x13))
	l.hp(hpipeTxTrainCtrl0, set(txTrainP2PHold, 1))
	l.hp(hpipeTxPresetIndex, set(txPresetIndex, 2))
	l.hp(hpipeFrameDetect3, set(patternLockLostTimout, 0))
	l.hp(hpipeTxTrain, set(txTrain16BitAuto, 1).and(txTrainPatSel, 1))
	l.hp(hpipeFrameDetect0, set(trainPatNum, 0x88))
	l.hp(hpipeDme, set(dmeEthernet, 1))
	l.hp(hpipeVddCal0, set(vddCalContMode, 1))

	l.hp(hpipeSampler, set(samplerOsGain, 3).and(samplerEn, 1))
	l.hp(hpipeSampler, set(samplerEn, 0))
	l.hp(hpipeVddCalCtrl, set(vddSellvRxSampl, 0x1a))

	l.polarity(p.Polarity)

	l.puPLLRxTx()
	// Continue through RX init on a PLL timeout so the RF reset is
	// released; report the first failure.
	err := l.pollPLL(pllLockTimeout)
	if rxErr := l.rxInit(); err == nil {
		err = rxErr
	}
	return err
}
