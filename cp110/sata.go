// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package cp110

func (l *lane) sataPowerOn() error {
	p := l.c.SATA[l.n]
	if err := l.c.setPhySelector(l.n, l.d); err != nil {
		return err
	}

	l.cfg(phyCfg1, set(cfg1PwrUp, 1).and(cfg1PipeSelect, 0).
		and(cfg1PwrOnReset, 0).and(cfg1CoreRstn, 0))
	l.cfg(phyCfg6, set(cfg6If40Sel, 1))

	l.sdc(sdConfig1, set(sd1ResetIn, 1).and(sd1ResetCore, 1))
	l.mdelay(1)

	l.hp(hpipeMisc, set(miscRefClkSel, 0))
	l.hp(hpipePwrPLL, set(pwrPLLRefFreq, 1).and(pwrPLLPhyMode, 0))
	l.hp(hpipeInterface, set(interfaceGenMax, 2))
	l.hp(hpipeLoopback, set(loopbackSel, 2))

	l.hp(hpipeG1Set1, set(setRxSelmupi, 0).and(setRxSelmupf, 1).
		and(setRxSelmufi, 0).and(setRxSelmuff, 3).and(setRxDigckDiv, 1))
	l.hp(hpipeG1Settings3, set(ffeCapSel, 0xf).and(ffeResSel, 2).
		and(ffeSettingForce, 1).and(ffeDegResLevel, 1).
		and(ffeLoadResLevel, 1))
	l.hp(hpipeG2Set1, set(setRxSelmupi, 0).and(setRxSelmupf, 1).
		and(setRxSelmufi, 0).and(setRxSelmuff, 3).and(setRxDigckDiv, 1))
	l.hp(hpipeG3Set1, set(setRxSelmupi, 2).and(setRxSelmupf, 2).
		and(setRxSelmufi, 3).and(setRxSelmuff, 3).and(setRxDfeEn, 1).
		and(setRxDigckDiv, 2).and(setSamplerInpairx, 0))

	l.hp(hpipePwrCtrDtl, set(dtlSqDetEn, 1).and(dtlSqPloopEn, 1).
		and(dtlFloopEn, 1).and(dtlClampingSel, 1).and(dtlIntpClkDiv, 1).
		and(dtlClkMode, 1).and(dtlClkModeFrc, 1))

	l.hp(hpipeSampler, set(samplerEn, 1))
	l.hp(hpipeSampler, set(samplerEn, 0))

	l.hp(hpipeVddCalCtrl, set(vddSellvRxSampl, 0x10))
	l.hp(hpipeDfeReg0, set(dfeResForce, 1))
	l.hp(hpipeDfeF3F5, set(dfeF3F5En, 0).and(dfeF3F5Ctrl, 0))
	l.hp(hpipeG3Settings3, set(ffeCapSel, 0xf).and(ffeResSel, 4).
		and(ffeSettingForce, 1).and(ffeDegResLevel, 1).
		and(ffeLoadResLevel, 3))
	l.hp(hpipeG3Settings4, set(settingsDfeRes, 1))

	l.hp(hpipePhaseControl, set(osPhOffset, 0x61).and(osPhForce, 1).
		and(osPhValid, 0))
	l.hp(hpipePhaseControl, set(osPhValid, 1))
	l.hp(hpipePhaseControl, set(osPhValid, 0))

	// TX amplitude and emphasis per generation.
	l.hp(hpipeG1Set0, set(setTxAmp, uint32(p.Amp[0])).and(setTxAmpAdj, 1).
		and(setTxEmph1, uint32(p.Emph[0])).and(setTxEmph1En, 1))
	l.hp(hpipeG2Set0, set(setTxAmp, uint32(p.Amp[1])).and(setTxAmpAdj, 1).
		and(setTxEmph1, uint32(p.Emph[1])).and(setTxEmph1En, 1))
	l.hp(hpipeG3Set0, set(setTxAmp, uint32(p.Amp[2])).and(setTxAmpAdj, 1).
		and(setTxEmph1, uint32(p.Emph[2])).and(setTxEmph1En, 1).
		and(setTxSlewRate, 4).and(setTxSlewEn, 0))

	l.polarity(p.Polarity)

	l.sdc(sdConfig2, set(sd2SSCEnable, 1))

	l.hp(hpipePwrCtr, set(pwrCtrRstDfe, 1))
	l.hp(hpipePwrCtr, set(pwrCtrRstDfe, 0))
	l.hp(hpipePwrCtr, set(pwrCtrSftRst, 1))
	l.hp(hpipePwrCtr, set(pwrCtrSftRst, 0))
	return nil
}
