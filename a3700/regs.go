// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package a3700

// Internal register windows relative to the SoC register base.
const (
	RegsBase = 0xd0000000

	comphyRegBase = 0x18300
	indirectReg   = 0xe0178
	usb3GBE1PHY   = 0x5c000
	sdAddr        = 0x1f000
)

// Selector at comphyRegBase.
const (
	selectorPhy        = 0xfc
	selectorUSB3GBE1   = 1 << 0
	selectorPCIEGBE0   = 1 << 4
	selectorUSB3PHYSel = 1 << 8
)

// Lane 0 and 1 PHY input/output ports at comphyRegBase.
func phyCfg1(lane int) uintptr   { return uintptr((1-lane)*0x28 + 0x14) }
func phyStatus(lane int) uintptr { return uintptr((1-lane)*0x28 + 0x18) }

const (
	pinPuIvref     = 1 << 1
	pinResetCore   = 1 << 11
	pinResetComphy = 1 << 12
	pinPuPLL       = 1 << 16
	pinPuRx        = 1 << 17
	pinPuTx        = 1 << 18
	pinTxIdle      = 1 << 19
	genRxSelShift  = 22
	genRxSelMask   = 0xf << genRxSelShift
	genTxSelShift  = 26
	genTxSelMask   = 0xf << genTxSelShift
	phyRxInit      = 1 << 30

	sdSpeed1_25G  = 0x6
	sdSpeed3_125G = 0x8

	phyPLLReadyRx = 1 << 2
	phyPLLReadyTx = 1 << 3
	phyRxInitDone = 1 << 6
)

// Lane 2 register offset in the SATA host indirect window.
const lane2RegOffset = 0x200

// 16-bit PHY registers, by register number.
const (
	powerPLLCtrl   = 0x01
	kvcoCalCtrl    = 0x02
	reservedReg    = 0x0e
	digLoopbackEn  = 0x23
	syncPattern    = 0x24
	syncMaskGen    = 0x25
	isolationCtrl  = 0x26
	gen2Set2       = 0x3e
	gen3Set2       = 0x3f
	idleSyncEn     = 0x48
	miscCtrl0      = 0x4f
	miscCtrl1      = 0x73
	gen2Set3       = 0x112
	laneCfg0       = 0x180
	laneCfg1       = 0x181
	laneStat1      = 0x183
	laneCfg4       = 0x188
	rstClkCtrl     = 0x1c1
	testModeCtrl   = 0x1c2
	clkSrcLo       = 0x1c3
	pwrMgmTim1     = 0x1d0
	reg16BitMask   = 0xffff
	phyRegisterLen = 2
)

const (
	// powerPLLCtrl
	puIvref            = 1 << 15
	puPLL              = 1 << 14
	puRx               = 1 << 13
	puTx               = 1 << 12
	puTxIntp           = 1 << 11
	puDFE              = 1 << 10
	pllLock            = 1 << 8
	phyModeMask        = 0x7 << 5
	phyModeSATA        = 0x0 << 5
	phyModePCIE        = 0x3 << 5
	phyModeSGMII       = 0x4 << 5
	phyModeUSB3        = 0x5 << 5
	refFrefSelMask     = 0x1f
	refSerdes25MHz     = 0x1
	refSerdes40MHz     = 0x3
	refSerdes50MHz     = 0x4
	refPCIEUSB3_25MHz  = 0x2
	refPCIEUSB3_40MHz  = 0x3
	puAll              = puIvref | puPLL | puRx | puTx | puTxIntp | puDFE
	useMaxPLLRate      = 1 << 12 // kvcoCalCtrl
	speedPLLValue16    = 0x10
	phyctrlFrmPin      = 1 << 13 // reservedReg
	selDataWidthMask   = 0x3 << 10
	dataWidth10Bit     = 0x0 << 10
	dataWidth20Bit     = 0x1 << 10
	dataWidth40Bit     = 0x2 << 10
	pllReadyTx         = 1 << 2 // digLoopbackEn
	txdInvert          = 1 << 10
	rxdInvert          = 1 << 11
	phyGenMaxMask      = 0x3 << 10
	phyGenMaxUSB3_5G   = 0x1 << 10
	phyIsolateMode     = 1 << 15
	gs2TxSSCAmpMask    = 0x7f << 9
	gs2TxSSCAmpValue20 = 0x20 << 9
	gs2VregMasIsetMask = 0x3 << 7
	gs2VregMasIset60U  = 0x0 << 7
	gs2Rsvd6_0Mask     = 0x7f
	idleSyncEnable     = 1 << 12
	idleSyncEnDefault  = 0x60
	clk100M125MEn      = 1 << 4
	txdClk2xSel        = 1 << 6
	clk500MEn          = 1 << 7
	phyRefClkSel       = 1 << 10
	miscCtrl0Default   = 0xa00d
	selBitsPCIEForce   = 1 << 15
	gs3FFECapSelMask   = 0xf
	gs3FFECapSelValue  = 0xf
	prdTxDeemph0       = 1 << 0
	prdTxMarginMask    = 0x7 << 1
	prdTxSwingMask     = 1 << 4
	cfgTxAlignPosMask  = 0xf << 5
	prdTxDeemph1Mask   = 1 << 15
	useMaxPLLRateEn    = 1 << 9
	txDetRxMode        = 1 << 6
	gen2TxDataDlyMask  = 0x3 << 3
	gen2TxDataDlyDeft  = 0x2 << 3
	txElecIdleModeEn   = 1 << 0
	txdclkPclkEn       = 1 << 0
	spreadSpectrumEn   = 1 << 7
	softReset          = 1 << 0
	modePipeWidth32    = 1 << 3
	modeRefdivMask     = 0x3 << 4
	modeRefdivBy4      = 0x2 << 4
	modeCoreClkFreqSel = 1 << 9
	modeMarginOverride = 1 << 2
	modeClkSrc         = 1 << 0
	bundlePeriodSel    = 1 << 1
	bundlePeriodScale  = 0x3 << 2
	bundleSampleCtrl   = 1 << 4
	pllReadyDlyMask    = 0x7 << 5
	cfgSel20B          = 1 << 15
	pmOscclkWaitMask   = 0xf << 12
	pmRxdenWaitMask    = 0xf << 8
	pmRxdenWait1Unit   = 0x1 << 8
	pmRxdlozWaitMask   = 0xff
	pmRxdlozWait7Unit  = 0x7
	pmRxdlozWait12Unit = 0xc
)

const (
	pllSetDelayUs   = 55
	pllLockTimeout  = 1000
	sgmiiSettleMs   = 10
	sgmiiTableLen   = 512
	sgmiiRefClk40   = 40
	defaultRefClkMH = 25
)
