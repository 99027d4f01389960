// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package cp110

import (
	"github.com/platinasystems/comphy"
	"github.com/platinasystems/comphy/internal/reg"
	"github.com/platinasystems/log"
)

// pcieClkDirOut reports whether sample at reset made the port drive its
// own reference clock.
func (c *Controller) pcieClkDirOut(lane int) bool {
	sar := c.Bus.Read32(dfxBase(c.Base) + sarStatus0)
	if lane == 4 || lane == 5 {
		return sar&pcie1ClkOutMask != 0
	}
	return sar&pcie0ClkOutMask != 0
}

// pciePowerOn brings up one lane of a PCIe port of d.Width lanes starting
// at lane 0. The last lane of the port releases the pipe reset for all of
// them and waits for each to lock.
func (l *lane) pciePowerOn() error {
	c := l.c
	width := l.d.Width
	if width == 0 {
		width = comphy.X1
	}

	if bit, found := pcieMacReset[l.n]; found {
		macResetLock.Lock()
		reg.Set(c.Bus, sysCtrlBase(c.Base)+sysCtrlUnitSoftReset, bit, bit)
		macResetLock.Unlock()
	}

	if err := c.setPipeSelector(l.n, l.d); err != nil {
		return err
	}

	clkDir := c.pcieClkDirOut(l.n)

	if l.n == 0 {
		switch width {
		case comphy.X4:
			reg.Set(c.Bus, c.Base+sdCtrl1, sdCtrl1PcieX4.Is(1),
				sdCtrl1PcieX4.Mask())
		case comphy.X2:
			reg.Set(c.Bus, c.Base+sdCtrl1, sdCtrl1PcieX2.Is(1),
				sdCtrl1PcieX2.Mask())
		}
	}

	if clkDir && l.d.ClkSrc && l.n == 5 {
		reg.Set(c.Bus, dfxBase(c.Base)+devGenCtrl12,
			devGenPcieClkSrc.Is(pcieClkSrcMux), devGenPcieClkSrc.Mask())
	}

	l.cfg(phyCfg1, set(cfg1PwrUp, 1).and(cfg1PipeSelect, 1).
		and(cfg1PwrOnReset, 0).and(cfg1CoreRstn, 0).and(cfg1PhyMode, 0))
	l.cfg(phyCfg1, set(cfg1PwrOnReset, 1).and(cfg1CoreRstn, 1))
	l.mdelay(1)

	l.hp(hpipeRstClkCtrl, set(rstClkPipeRst, 1).and(rstClkFixedPclk, 1).
		and(rstClkPipeWidth, 0).and(rstClkCoreFreq, 0))

	lo := set(clkSrcLoPLLRdyDl, 2)
	if width != comphy.X1 {
		lo = lo.and(clkSrcLoBundlePeriodSel, 1).
			and(clkSrcLoBundlePeriodScale, 1)
	}
	l.hp(hpipeClkSrcLo, lo)

	hi := set(clkSrcHiModePipe, 1)
	if width != comphy.X1 {
		hi = hi.and(clkSrcHiLaneStrt, 0).and(clkSrcHiLaneMaster, 0).
			and(clkSrcHiLaneBreak, 0)
		if l.n == 0 {
			hi = hi.and(clkSrcHiLaneStrt, 1).and(clkSrcHiLaneMaster, 1)
		}
		if l.n == int(width)-1 {
			hi = hi.and(clkSrcHiLaneBreak, 1)
		}
	}
	l.hp(hpipeClkSrcHi, hi)

	l.hp(hpipeLaneEqCfg1, set(eqUpdatePolarity, 1))
	l.hp(hpipeDfeCtrl28, set(dfeCtrl28Pipe4, 1))

	misc := set(miscTxdClk2x, 0).and(miscClk500En, 1).and(miscICPForce, 1)
	if clkDir {
		misc = misc.and(miscClk100M125M, 1).and(miscRefClkSel, 0)
	} else {
		misc = misc.and(miscRefClkSel, 1)
	}
	l.hp(hpipeMisc, misc)

	var refFreq uint32
	if clkDir {
		refFreq = 2
	}
	l.hp(hpipePwrPLL, set(pwrPLLRefFreq, refFreq).and(pwrPLLPhyMode, 3))

	if width != comphy.X1 {
		l.hp(hpipeLaneAlign, set(laneAlignOff, 0))
	}
	if clkDir {
		l.hp(hpipeGlobalPMCtrl, set(globalPMRxDLozWait, 7))
	}

	l.hp(hpipeInterface, set(interfaceGenMax, 2).and(interfaceDetBypass, 1).
		and(interfaceLinkTrain, 1))
	l.hp(hpipePcieReg0, set(pcieIdleSync, 1).and(pcieSelBits, 2))

	// Gen3 TX training.
	l.hp(hpipeTxTrainCtrl, set(txTrainCtrlG1, 1).and(txTrainCtrlGN1, 1).
		and(txTrainCtrlG0, 0))
	l.hp(hpipeTxTrain, set(txTrainChkInit, 0).and(txTrainCoePcie3, 1))
	l.hp(hpipeTxTrainCtrl11, set(txStatusCheckMode, 1).
		and(txNumOfPreset, 7).and(txSweepPresetEn, 1))
	l.hp(hpipeTxTrainCtrl5, set(txTrainStartSqEn, 1).
		and(txTrainStartFrmDt, 0).and(txTrainStartFrmLk, 0).
		and(txTrainWaitTimeEn, 1))
	l.hp(hpipeTxTrainCtrl0, set(txTrainP2PHold, 1))
	l.hp(hpipeTxTrainCtrl4, set(trxTrainTimer, 0x17))
	l.hp(hpipeTxTrainCtrl, set(txTrainCtrlG1, 0).and(txTrainCtrlGN1, 0).
		and(txTrainCtrlG0, 0))

	// Gen3 RX.
	l.hp(hpipePwrCtrDtl, set(dtlFloopEn, 0))
	l.hp(hpipeG3Settings4, set(settingsDfeRes, 3))
	l.hp(hpipeDfeReg0, set(dfeResForce, 0))
	l.hp(hpipeG3Set1, set(setRxSelmupi, 1).and(setRxSelmupf, 1).
		and(setSamplerInpairx, 0))
	l.hp(hpipeSampler, set(samplerEn, 1))
	l.udelay(5)
	l.hp(hpipeSampler, set(samplerEn, 0))
	l.hp(hpipeG3Settings3, set(ffeDegResLevel, 1).and(ffeLoadResLevel, 3))
	l.hp(hpipeFrameDetect3, set(patternLockLostTimout, 0))
	l.hp(hpipeCdrControl, set(cdrRxMaxDfeAdapt0, 0).
		and(cdrRxMaxDfeAdapt1, 0).and(cdrMaxDfeAdapt0, 0).
		and(cdrMaxDfeAdapt1, 1))
	l.hp(hpipeDfeControl, set(dfeTxMaxDfeAdapt, 0))
	l.hp(hpipeG2Set1, set(setRxSelmupi, 0).and(setRxSelmupf, 1).
		and(setRxSelmufi, 0))
	l.hp(hpipeG2Settings4, set(settingsDfeRes, 3))
	l.hp(hpipeLaneCfg4, set(laneCfg4DfeEnSel, 1))
	l.hp(hpipeVddCalCtrl, set(vddSellvRxSampl, 0x16))
	l.hp(hpipeG3Settings5, set(settingsICP, 4))
	l.hp(hpipeLaneEqRemote, set(eqFomDirnOverride, 1).
		and(eqFomOnlyMode, 1).and(eqFomPresetVector, 6))
	l.hp(hpipeLaneEqCfg2, set(eqBundleDis, 1))

	if width != comphy.X1 && l.n != int(width)-1 {
		return nil
	}
	return l.pcieRelease(width)
}

// pcieRelease takes the port's lanes out of pipe reset and waits for each
// PCLK.
func (l *lane) pcieRelease(width comphy.Width) error {
	c := l.c
	start, end := l.n, l.n+1
	if width != comphy.X1 {
		start, end = 0, int(width)
		portsMask := sdCtrl1Port01.Mask()
		if width == comphy.X4 {
			portsMask = sdCtrl1Port03.Mask()
		}
		reg.Set(c.Bus, c.Base+sdCtrl1, 0, portsMask)
		reg.Set(c.Bus, hpipeAddr(pipeBase(c.Base), 0)+hpipeRstClkCtrl,
			pcieRstClkCtrlAllOn, 0xffffffff)
		var ports uint32
		for i := start; i < end && i < len(sdCtrl1Port0_3); i++ {
			ports |= sdCtrl1Port0_3[i].Is(uint32(i))
		}
		reg.Set(c.Bus, c.Base+sdCtrl1, ports, portsMask)
	} else {
		l.hp(hpipeRstClkCtrl, set(rstClkPipeRst, 0))
	}

	var ret error
	for i := start; i < end; i++ {
		addr := hpipeAddr(pipeBase(c.Base), i) + hpipeLaneStatus1
		err := reg.Poll(c.Bus, addr, hpipeLaneStatusPclkEn,
			hpipeLaneStatusPclkEn, pllLockTimeout, reg.W32)
		if err != nil {
			log.Print("err", "comphy", i, ": Failed to lock PCIE PLL")
			if ret == nil {
				ret = l.errorf("PCIe lane %d PLL: %v: %w", i, err,
					comphy.Timeout)
			}
		}
	}
	return ret
}
