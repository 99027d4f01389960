// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package cp110

import (
	"fmt"

	"github.com/platinasystems/comphy"
)

// XFIParams are the analog settings of a 10G XFI/SFI lane. Valid false
// refuses 10G bring-up; run RX training and copy its report here.
type XFIParams struct {
	G1FFEResSel  uint8
	G1FFECapSel  uint8
	Align90      uint8
	G1DFERes     uint8
	G1Amp        uint8
	G1Emph       uint8
	G1RxSelmuff  uint8
	G1RxSelmufi  uint8
	G1RxSelmupf  uint8
	G1RxSelmupi  uint8
	G1RxDigckDiv uint8
	Polarity     comphy.Invert
	Valid        bool
}

func (p XFIParams) String() string {
	return fmt.Sprintf("{ffe_res %#x ffe_cap %#x align90 %#x dfe_res %#x "+
		"amp %#x emph %#x selmuff %#x selmufi %#x selmupf %#x "+
		"selmupi %#x digck %#x valid %v}",
		p.G1FFEResSel, p.G1FFECapSel, p.Align90, p.G1DFERes,
		p.G1Amp, p.G1Emph, p.G1RxSelmuff, p.G1RxSelmufi,
		p.G1RxSelmupf, p.G1RxSelmupi, p.G1RxDigckDiv, p.Valid)
}

// SATAParams are per generation TX amplitude and emphasis.
type SATAParams struct {
	Amp      [3]uint8
	Emph     [3]uint8
	Polarity comphy.Invert
}

type USBParams struct {
	Polarity comphy.Invert
}

var defaultXFI = XFIParams{
	G1FFEResSel:  0x4,
	G1FFECapSel:  0xf,
	Align90:      0x5f,
	G1DFERes:     0x1,
	G1Amp:        0x1c,
	G1Emph:       0xe,
	G1RxSelmuff:  0x1,
	G1RxSelmufi:  0x0,
	G1RxSelmupf:  0x2,
	G1RxSelmupi:  0x2,
	G1RxDigckDiv: 0x3,
	Valid:        true,
}

var defaultSATA = SATAParams{
	Amp:  [3]uint8{0x8, 0xa, 0x1e},
	Emph: [3]uint8{0x1, 0x2, 0xe},
}

func sixOf(p XFIParams) (t [Lanes]XFIParams) {
	for i := range t {
		t[i] = p
	}
	return
}

// Built-in tables, indexed by AP*CPNum+CP then lane.
var (
	xfiStaticValues = [comphy.APNum * comphy.CPNum][Lanes]XFIParams{
		sixOf(defaultXFI),
		sixOf(defaultXFI),
		sixOf(defaultXFI),
	}
	sataStaticValues = [comphy.APNum * comphy.CPNum][Lanes]SATAParams{
		{defaultSATA, defaultSATA, defaultSATA, defaultSATA,
			defaultSATA, defaultSATA},
		{defaultSATA, defaultSATA, defaultSATA, defaultSATA,
			defaultSATA, defaultSATA},
		{defaultSATA, defaultSATA, defaultSATA, defaultSATA,
			defaultSATA, defaultSATA},
	}
	usbStaticValues [comphy.APNum * comphy.CPNum][Lanes]USBParams
)
