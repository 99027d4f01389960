// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package cp110

import "github.com/platinasystems/comphy/internal/reg"

// Register windows relative to the comphy base.
func pipeBase(base uintptr) uintptr   { return (base &^ 0xffffff) + 0x120000 }
func sysCtrlBase(base uintptr) uintptr { return (base &^ 0xffffff) + 0x440000 }
func dfxBase(base uintptr) uintptr     { return (base &^ 0xffffff) + 0x400200 }

func sdAddr(pipe uintptr, lane int) uintptr {
	return pipe + 0x1000*uintptr(lane)
}

func hpipeAddr(pipe uintptr, lane int) uintptr {
	return pipe + 0x800 + 0x1000*uintptr(lane)
}

func comphyAddr(base uintptr, lane int) uintptr {
	return base + 0x28*uintptr(lane)
}

// System controller unit soft reset.
const sysCtrlUnitSoftReset = 0x268

var pcieMacReset = map[int]uint32{
	0: 1 << 13,
	4: 1 << 11,
	5: 1 << 12,
}

// DFX sample at reset and device general control.
const (
	sarStatus0      = 200
	devGenCtrl12    = 0x280
	pcieClkSrcMux   = 0x3
	pcie0ClkOutMask = 1 << 0
	pcie1ClkOutMask = 1 << 1
)

var devGenPcieClkSrc = reg.Bits(7, 2)

// Common selectors.
const (
	selectorPhy  = 0x140
	selectorPipe = 0x144
	sdCtrl1      = 0x148

	selectorFieldWidth = 4
	selectorMask       = 0xf
)

// PHY selector values.
const (
	phySelUnconnected = 0x0
	phySelNetwork     = 0x1 // lanes 0, 1, 2
	phySelLane3RXAUI  = 0x1
	phySelLane3SGMII  = 0x2
	phySelLane4Port1  = 0x1
	phySelLane4Others = 0x2
	phySelLane5SGMII  = 0x1
	phySelLane5RXAUI  = 0x2
	phySelSATA        = 0x4
)

// PIPE selector values.
const (
	pipeSelUnconnected = 0x0
	pipeSelUSBH        = 0x1
	pipeSelUSBD        = 0x2
	pipeSelPCIE        = 0x4
)

var (
	sdCtrl1Port0   = reg.Bits(0, 4)
	sdCtrl1Port1   = reg.Bits(4, 4)
	sdCtrl1Port2   = reg.Bits(8, 4)
	sdCtrl1Port3   = reg.Bits(12, 4)
	sdCtrl1Port01  = reg.Bits(0, 8)
	sdCtrl1Port03  = reg.Bits(0, 16)
	sdCtrl1PcieX4  = reg.Bit(24)
	sdCtrl1PcieX2  = reg.Bit(25)
	sdCtrl1RXAUI1  = reg.Bit(26)
	sdCtrl1RXAUI0  = reg.Bit(27)
	sdCtrl1Port0_3 = []reg.Field{sdCtrl1Port0, sdCtrl1Port1, sdCtrl1Port2,
		sdCtrl1Port3}
)

// Common PHY n configuration.
const (
	phyCfg1 = 0x0
	phyCfg6 = 0x14
)

var (
	cfg1PwrUp      = reg.Bit(1)
	cfg1PipeSelect = reg.Bit(2)
	cfg1PwrOnReset = reg.Bit(13)
	cfg1CoreRstn   = reg.Bit(14)
	cfg1PhyMode    = reg.Bit(15)
	cfg6If40Sel    = reg.Bit(18)
)

// SerDes external configuration.
const (
	sdConfig0 = 0x0
	sdConfig1 = 0x4
	sdConfig2 = 0x8
	sdStatus  = 0xc
	sdStatus0 = 0x18
	sdStatus1 = 0x1c
)

var (
	sd0PuPLL       = reg.Bit(1)
	sd0GenRx       = reg.Bits(3, 4)
	sd0GenTx       = reg.Bits(7, 4)
	sd0PuRx        = reg.Bit(11)
	sd0PuTx        = reg.Bit(12)
	sd0HalfBus     = reg.Bit(14)
	sd0MediaMode   = reg.Bit(15)
	sd1ResetIn     = reg.Bit(0)
	sd1RxInit      = reg.Bit(4)
	sd1ResetCore   = reg.Bit(5)
	sd1RFResetIn   = reg.Bit(6)
	sd2PinDfeEn    = reg.Bit(4)
	sd2SSCEnable   = reg.Bit(7)
	sdStartRxTrain = reg.Bit(7)
	sdStatus1Comp  = reg.Bit(0)
	sdStatus1Fail  = reg.Bit(1)
)

const (
	sdPLLTx  = 1 << 2
	sdPLLRx  = 1 << 3
	sdRxInit = 1 << 4
)

// HPIPE per lane registers.
const (
	hpipePwrPLL           = 0x004
	hpipeCalReg1          = 0x00c
	hpipeSquelchFFE       = 0x018
	hpipeDfeReg0          = 0x01c
	hpipeDfeF3F5          = 0x028
	hpipeG1Set0           = 0x034
	hpipeG1Set1           = 0x038
	hpipeG2Set0           = 0x03c
	hpipeG2Set1           = 0x040
	hpipeG2Set2           = 0x044
	hpipeG3Set0           = 0x048
	hpipeG3Set1           = 0x04c
	hpipeG1Set2           = 0x050
	hpipePhyTestData      = 0x06c
	hpipeTxReg1           = 0x074
	hpipeLoopback         = 0x08c
	hpipeSyncPattern      = 0x090
	hpipeInterface        = 0x094
	hpipeVddCal0          = 0x108
	hpipeVddCalCtrl       = 0x114
	hpipePcieReg0         = 0x120
	hpipeLaneAlign        = 0x124
	hpipeMisc             = 0x13c
	hpipePwrCtr           = 0x148
	hpipeSpdDivForce      = 0x154
	hpipePhaseControl     = 0x15c
	hpipeRxControl1       = 0x168
	hpipeSampler          = 0x16c
	hpipeRxClkAlign90     = 0x17c
	hpipePwrCtrDtl        = 0x184
	hpipeDataPhaseOff     = 0x1a0
	hpipeSqGlitchFilter   = 0x1c8
	hpipeFrameDetect0     = 0x214
	hpipeFrameDetect3     = 0x220
	hpipeDme              = 0x228
	hpipeTxTrainCtrl0     = 0x268
	hpipeTxTrainCtrl      = 0x26c
	hpipeTxTrainCtrl4     = 0x278
	hpipeTxTrainCtrl5     = 0x2a4
	hpipeInterrupt1       = 0x2ac
	hpipeTxTrain          = 0x31c
	hpipeSavedDfe         = 0x328
	hpipeCdrControl       = 0x418
	hpipeTrxTrainCtrl0    = 0x424
	hpipeTxTrainCtrl11    = 0x438
	hpipeG1Settings3      = 0x440
	hpipeG1Settings4      = 0x444
	hpipeG2Settings4      = 0x44c
	hpipeG3Settings3      = 0x450
	hpipeG3Settings4      = 0x454
	hpipeTxPresetIndex    = 0x468
	hpipeDfeControl       = 0x470
	hpipeDfeCtrl28        = 0x49c
	hpipeG1Settings5      = 0x538
	hpipeG3Settings5      = 0x548
	hpipePhyTestControl   = 0x54c
	hpipeAdaptedFFE       = 0x5f8
	hpipeAdaptedDfeCoef1  = 0x5fc
	hpipeLaneConfig0      = 0x600
	hpipeLaneStatus1      = 0x60c
	hpipeLaneCfg4         = 0x620
	hpipeLaneEqCfg1       = 0x6a0
	hpipeLaneEqCfg2       = 0x6a4
	hpipeLaneEqRemote     = 0x6f8
	hpipeRstClkCtrl       = 0x704
	hpipeTstModeCtrl      = 0x708
	hpipeClkSrcLo         = 0x70c
	hpipeClkSrcHi         = 0x710
	hpipeGlobalPMCtrl     = 0x740
	hpipeLaneStatusPclkEn = 1 << 0
)

var (
	pwrPLLRefFreq = reg.Bits(0, 5)
	pwrPLLPhyMode = reg.Bits(5, 3)

	calExtTxImp   = reg.Bits(10, 5)
	calExtTxImpEn = reg.Bit(15)

	squelchThreshIn = reg.Bits(8, 4)
	squelchDetected = reg.Bit(14)

	dfeResForce = reg.Bit(15)
	dfeF3F5En   = reg.Bit(14)
	dfeF3F5Ctrl = reg.Bit(15)

	// G1, G2, and G3 SET_0 share a layout.
	setTxAmp      = reg.Bits(1, 5)
	setTxAmpAdj   = reg.Bit(6)
	setTxEmph1    = reg.Bits(7, 4)
	setTxEmph1En  = reg.Bit(11)
	setTxSlewRate = reg.Bits(12, 3)
	setTxSlewEn   = reg.Bit(15)

	// G1, G2, and G3 SET_1 share a layout.
	setRxSelmupi      = reg.Bits(0, 3)
	setRxSelmupf      = reg.Bits(3, 3)
	setRxSelmufi      = reg.Bits(6, 2)
	setRxSelmuff      = reg.Bits(8, 2)
	setRxDfeEn        = reg.Bit(10)
	setRxDigckDiv     = reg.Bits(11, 2)
	setSamplerInpairx = reg.Bit(13)

	g1TxEmph0   = reg.Bits(1, 4)
	g1TxEmph0En = reg.Bit(5)
	g2TxSSCAmp  = reg.Bits(9, 7)

	phyTestData = reg.Bits(0, 16)

	txRegEmphRes = reg.Bits(8, 2)
	txRegSlcEn   = reg.Bits(10, 6)

	loopbackSel      = reg.Bits(1, 3)
	loopbackCdrLock  = reg.Bit(7)
	loopbackCdrLckEn = reg.Bit(8)

	syncTxdInv = reg.Bit(10)
	syncRxdInv = reg.Bit(11)

	interfaceGenMax    = reg.Bits(10, 2)
	interfaceDetBypass = reg.Bit(12)
	interfaceLinkTrain = reg.Bit(14)

	vddCalContMode  = reg.Bit(15)
	vddSellvRxSampl = reg.Bits(5, 5)

	pcieIdleSync = reg.Bit(12)
	pcieSelBits  = reg.Bits(13, 2)

	laneAlignOff = reg.Bit(12)

	miscClk100M125M = reg.Bit(4)
	miscICPForce    = reg.Bit(5)
	miscTxdClk2x    = reg.Bit(6)
	miscClk500En    = reg.Bit(7)
	miscRefClkSel   = reg.Bit(10)

	pwrCtrRstDfe = reg.Bit(0)
	pwrCtrSftRst = reg.Bit(10)

	spdDivRx      = reg.Bits(0, 2)
	spdDivRxForce = reg.Bit(3)
	spdTxDigCkDiv = reg.Bit(7)
	spdDivTx      = reg.Bits(9, 2)
	spdDivTxForce = reg.Bit(12)

	osPhOffset = reg.Bits(0, 7)
	osPhForce  = reg.Bit(7)
	osPhValid  = reg.Bit(8)

	rxCtrl1Clk2x = reg.Bit(11)
	rxCtrl1Clk8T = reg.Bit(12)

	samplerOsGain = reg.Bits(6, 2)
	samplerEn     = reg.Bit(12)

	align90ExtEn  = reg.Bit(8)
	align90OsPhEx = reg.Bits(9, 7)

	dtlSqDetEn     = reg.Bit(0)
	dtlSqPloopEn   = reg.Bit(1)
	dtlFloopEn     = reg.Bit(2)
	dtlClampingSel = reg.Bits(4, 3)
	dtlIntpClkDiv  = reg.Bit(10)
	dtlClkMode     = reg.Bits(12, 2)
	dtlClkModeFrc  = reg.Bit(14)

	adaptedOsPh = reg.Bits(9, 7)

	sqDeglitchP  = reg.Bits(0, 4)
	sqDeglitchN  = reg.Bits(4, 4)
	sqDeglitchEn = reg.Bit(8)

	trainPatNum           = reg.Bits(7, 9)
	patternLockLostTimout = reg.Bit(12)
	dmeEthernet           = reg.Bit(7)
	txTrainP2PHold        = reg.Bit(15)

	txTrainCtrlG1  = reg.Bit(0)
	txTrainCtrlGN1 = reg.Bit(1)
	txTrainCtrlG0  = reg.Bit(2)

	trxTrainTimer = reg.Bits(0, 10)

	rxTrainTimer      = reg.Bits(0, 10)
	txTrainStartSqEn  = reg.Bit(11)
	txTrainStartFrmDt = reg.Bit(12)
	txTrainStartFrmLk = reg.Bit(13)
	txTrainWaitTimeEn = reg.Bit(14)

	txTrainChkInit   = reg.Bit(4)
	txTrainCoePcie3  = reg.Bit(5)
	txTrain16BitAuto = reg.Bit(8)
	txTrainPatSel    = reg.Bit(9)

	savedDfeF0D = reg.Bits(10, 6)

	cdrRxMaxDfeAdapt0 = reg.Bits(14, 2)
	cdrRxMaxDfeAdapt1 = reg.Bits(12, 2)
	cdrMaxDfeAdapt0   = reg.Bits(9, 3)
	cdrMaxDfeAdapt1   = reg.Bits(6, 3)
	dfeTxMaxDfeAdapt  = reg.Bits(0, 4)

	trxTxTrainEn      = reg.Bit(0)
	trxRxTrainEn      = reg.Bit(1)
	trxUpdateThenHold = reg.Bit(6)
	trxF0TEO          = reg.Bit(14)

	txStatusCheckMode = reg.Bit(6)
	txNumOfPreset     = reg.Bits(10, 3)
	txSweepPresetEn   = reg.Bit(15)

	// G1 and G3 SETTINGS_3 share a layout.
	ffeCapSel       = reg.Bits(0, 4)
	ffeResSel       = reg.Bits(4, 3)
	ffeSettingForce = reg.Bit(7)
	ffeFbckSel      = reg.Bit(9)
	ffeDegResLevel  = reg.Bits(12, 2)
	ffeLoadResLevel = reg.Bits(14, 2)

	// G1, G2, and G3 SETTINGS_4 share a layout.
	settingsDfeRes = reg.Bits(8, 2)

	txPresetIndex = reg.Bits(0, 4)
	dfeCtrl28Pipe4 = reg.Bit(7)
	settingsICP    = reg.Bits(0, 4)

	phyTestPatternSel = reg.Bits(4, 4)
	phyTestReset      = reg.Bit(14)
	phyTestEn         = reg.Bit(15)

	adaptedFFERes = reg.Bits(12, 4)
	adaptedFFECap = reg.Bits(8, 4)
	adaptedDfeRes = reg.Bits(12, 2)

	laneCfg0TxDeemph0 = reg.Bit(0)

	laneCfg4DfeCtrl  = reg.Bits(0, 3)
	laneCfg4DfeEnSel = reg.Bit(3)
	laneCfg4DfeOver  = reg.Bit(6)
	laneCfg4SSCCtrl  = reg.Bit(7)

	eqUpdatePolarity = reg.Bit(12)
	eqBundleDis      = reg.Bit(14)

	eqFomDirnOverride = reg.Bit(0)
	eqFomOnlyMode     = reg.Bit(1)
	eqFomPresetVector = reg.Bits(2, 4)

	rstClkPipeRst   = reg.Bit(0)
	rstClkFixedPclk = reg.Bit(2)
	rstClkPipeWidth = reg.Bits(3, 2)
	rstClkCoreFreq  = reg.Bit(9)

	tstModeMargin = reg.Bit(2)

	clkSrcLoBundlePeriodSel   = reg.Bit(1)
	clkSrcLoBundlePeriodScale = reg.Bits(2, 2)
	clkSrcLoPLLRdyDl          = reg.Bits(5, 3)

	clkSrcHiLaneStrt   = reg.Bit(0)
	clkSrcHiLaneBreak  = reg.Bit(1)
	clkSrcHiLaneMaster = reg.Bit(2)
	clkSrcHiModePipe   = reg.Bit(7)

	globalPMRxDLozWait = reg.Bits(0, 8)
)

// RX training interrupt status.
const (
	trainFailedInt   = 1 << 0
	trainTimeoutInt  = 1 << 1
	trainCompleteInt = 1 << 2
)

// Timeouts, in poll iterations of 1us unless noted.
const (
	pllLockTimeout      = 1000
	rxInitTimeout       = 100
	longPLLLockTimeout  = 15000
	rxTrainingTimeout   = 500 // milliseconds
	maxFFE              = 8
	pcieRstClkCtrlAllOn = 0x24
)
