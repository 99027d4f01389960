// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package cp110

import (
	"fmt"

	"github.com/platinasystems/comphy"
	"github.com/platinasystems/comphy/internal/reg"
	"github.com/platinasystems/log"
)

// rxPreTrain checks for a received signal and prepares the lane for
// adaptation.
func (l *lane) rxPreTrain() error {
	l.hp(hpipeSquelchFFE, set(squelchThreshIn, 0xc))
	l.hp(hpipeSqGlitchFilter, set(sqDeglitchP, 0xf).and(sqDeglitchN, 0xf).
		and(sqDeglitchEn, 1))
	l.hp(hpipeLoopback, set(loopbackCdrLckEn, 1))
	l.udelay(100)

	if squelchDetected.Get(l.c.Bus.Read32(l.hpipe+hpipeSquelchFFE)) != 0 {
		log.Print("err", "Squelsh is not detected, can't perform RX training")
		return l.errorf("squelch: %w", comphy.InvalidConfiguration)
	}
	if loopbackCdrLock.Get(l.c.Bus.Read32(l.hpipe+hpipeLoopback)) == 0 {
		log.Print("err", "CDR is not locked, can't perform RX training")
		return l.errorf("CDR: %w", comphy.InvalidConfiguration)
	}

	l.hp(hpipeDfeReg0, set(dfeResForce, 0))
	l.hp(hpipeG1Settings3, set(ffeCapSel, 0xf).and(ffeSettingForce, 1))
	return nil
}

// XFIRxTraining runs hardware receiver adaptation on a 10G lane then locks
// the adapted FFE, DFE, and phase into the lane. The result is reported in
// calibration table form and the lane is marked trained.
func (c *Controller) XFIRxTraining(n int) error {
	if n < 0 || n >= Lanes {
		return fmt.Errorf("comphy%d: no such lane: %w", n,
			comphy.InvalidConfiguration)
	}
	l := c.lane(n, comphy.Descriptor{Mode: comphy.XFI})
	if err := l.rxPreTrain(); err != nil {
		return err
	}

	l.hp(hpipeTrxTrainCtrl0, set(trxUpdateThenHold, 1).and(trxF0TEO, 1))
	l.hp(hpipeTrxTrainCtrl0, set(trxRxTrainEn, 1))
	defer l.hp(hpipeTrxTrainCtrl0, set(trxRxTrainEn, 0))

	const done = trainCompleteInt | trainFailedInt | trainTimeoutInt
	var status uint32
	expired := true
	for i := 0; i < rxTrainingTimeout; i++ {
		status = c.Bus.Read32(l.hpipe + hpipeInterrupt1)
		if status&done != 0 {
			expired = false
			break
		}
		l.mdelay(1)
	}
	reg.Trace.Logf("comphy%d: RX training interrupt %#x", n, status)
	switch {
	case expired || status&trainTimeoutInt != 0:
		log.Print("err", "comphy", n, ": RX training timeout")
		return l.errorf("RX training: %#x: %w", status, comphy.Timeout)
	case status&trainFailedInt != 0:
		log.Print("err", "comphy", n, ": RX training failed")
		return l.errorf("RX training: %#x: %w", status,
			comphy.TrainingFailed)
	}

	ffe := c.Bus.Read32(l.hpipe + hpipeAdaptedFFE)
	p := c.XFI[n]
	p.G1FFEResSel = uint8(adaptedFFERes.Get(ffe))
	p.G1FFECapSel = uint8(adaptedFFECap.Get(ffe))
	p.Align90 = uint8(adaptedOsPh.Get(c.Bus.Read32(l.hpipe +
		hpipeDataPhaseOff)))
	p.G1DFERes = uint8(adaptedDfeRes.Get(c.Bus.Read32(l.hpipe +
		hpipeAdaptedDfeCoef1)))
	p.Valid = true

	l.hp(hpipeG1Settings3, set(ffeCapSel, uint32(p.G1FFECapSel)).
		and(ffeResSel, uint32(p.G1FFEResSel)).and(ffeSettingForce, 1))
	l.hp(hpipeDfeReg0, set(dfeResForce, 1))
	l.hp(hpipeG1Settings4, set(settingsDfeRes, uint32(p.G1DFERes)))
	l.hp(hpipeRxClkAlign90, set(align90OsPhEx, uint32(p.Align90)).
		and(align90ExtEn, 1))

	c.XFI[n] = p
	fmt.Fprintf(c.report(),
		"comphy%d: training done, ap%d cp%d lane%d xfi_static_values %v\n",
		n, c.AP, c.CP, n, p)
	c.Training.MarkTrained(c.AP, c.CP, n)
	return nil
}

// testSingleFFE measures F0D with the given FFE resistor under a PRBS
// pattern.
func (l *lane) testSingleFFE(ffe uint32) (uint32, error) {
	c := l.c
	l.hp(hpipePhyTestControl, set(phyTestPatternSel, 0xe))
	l.hp(hpipePhyTestData, set(phyTestData, 0x64))
	l.hp(hpipePhyTestControl, set(phyTestEn, 1))
	l.mdelay(50)

	l.hp(hpipeG1Settings3, set(ffeResSel, ffe))
	l.sdc(sdStatus, set(sdStartRxTrain, 1))

	var status uint32
	expired := true
	for i := 0; i < rxTrainingTimeout; i++ {
		status = c.Bus.Read32(l.sd + sdStatus1)
		if sdStatus1Comp.Get(status) != 0 {
			expired = false
			break
		}
		l.mdelay(1)
	}

	var err error
	switch {
	case expired:
		err = l.errorf("FFE %d training: %w", ffe, comphy.Timeout)
	case sdStatus1Fail.Get(status) != 0:
		err = l.errorf("FFE %d training: %w", ffe, comphy.TrainingFailed)
	}
	l.sdc(sdStatus, set(sdStartRxTrain, 0))

	var f0d uint32
	if err == nil {
		f0d = savedDfeF0D.Get(c.Bus.Read32(l.hpipe + hpipeSavedDfe))
	}
	l.hp(hpipePhyTestControl, set(phyTestReset, 1).and(phyTestEn, 0))
	l.hp(hpipePhyTestControl, set(phyTestReset, 0))
	return f0d, err
}

// SweepFFE tries each FFE resistor setting, keeps the one with the best
// F0D, and returns it.
func (c *Controller) SweepFFE(n int) (uint32, error) {
	if n < 0 || n >= Lanes {
		return 0, fmt.Errorf("comphy%d: no such lane: %w", n,
			comphy.InvalidConfiguration)
	}
	l := c.lane(n, comphy.Descriptor{Mode: comphy.XFI})
	if err := l.rxPreTrain(); err != nil {
		return 0, err
	}
	var bestF0D, bestFFE uint32
	found := false
	for ffe := uint32(0); ffe < maxFFE; ffe++ {
		f0d, err := l.testSingleFFE(ffe)
		if err != nil {
			reg.Trace.Log(err)
			continue
		}
		if !found || f0d > bestF0D {
			bestF0D, bestFFE, found = f0d, ffe, true
		}
	}
	if !found {
		log.Print("err", "RX Training failed for comphy", n)
		return 0, l.errorf("FFE sweep: %w", comphy.TrainingFailed)
	}
	if _, err := l.testSingleFFE(bestFFE); err != nil {
		return 0, err
	}
	reg.Trace.Logf("comphy%d: best FFE %d, F0D %d", n, bestFFE, bestF0D)
	return bestFFE, nil
}
