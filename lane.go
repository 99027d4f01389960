// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package comphy configures Marvell COMPHY SerDes lanes.
//
// A lane is multiplexed to one protocol at a time and brought up by a
// controller for the SoC variant; see the a3700 and cp110 packages. Callers
// describe each request with a Descriptor, the packed 32-bit form of which
// is the firmware call ABI.
package comphy

import (
	"fmt"
	"strings"
)

type Mode uint8

const (
	Unset Mode = iota
	SATA
	SGMII
	HSSGMII
	USB3H
	USB3D
	PCIE
	RXAUI
	XFI
	SFI
	USB3
	AP
	nModes

	// Unused is returned by GetMode when no protocol is identifiable.
	// It has no descriptor encoding.
	Unused Mode = 0xff
)

// 2500BASE-X is programmed as HS-SGMII.
const Base2500X = HSSGMII

var modeNames = [...]string{
	Unset:   "unset",
	SATA:    "sata",
	SGMII:   "sgmii",
	HSSGMII: "2500base-x",
	USB3H:   "usb3h",
	USB3D:   "usb3d",
	PCIE:    "pcie",
	RXAUI:   "rxaui",
	XFI:     "xfi",
	SFI:     "sfi",
	USB3:    "usb3",
	AP:      "ap",
}

func (m Mode) String() string {
	if m < nModes {
		return modeNames[m]
	}
	if m == Unused {
		return "unused"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// ParseMode accepts the names printed by Mode.String and "hs-sgmii".
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(s)
	if s == "hs-sgmii" || s == "hs_sgmii" {
		return HSSGMII, nil
	}
	for m, name := range modeNames {
		if s == name {
			return Mode(m), nil
		}
	}
	return Unset, fmt.Errorf("%q: unknown mode: %w", s, InvalidConfiguration)
}

type Speed uint8

const (
	Speed1_25G     Speed = 0
	Speed2_5G      Speed = 1
	Speed3_125G    Speed = 2
	Speed5G        Speed = 3
	Speed5_15625G  Speed = 4
	Speed6G        Speed = 5
	Speed10_3125G  Speed = 6
	SpeedMax       Speed = 0x3f
	SpeedDefault         = SpeedMax
	speedFieldMask       = 0x3f
)

var speedNames = map[Speed]string{
	Speed1_25G:    "1.25G",
	Speed2_5G:     "2.5G",
	Speed3_125G:   "3.125G",
	Speed5G:       "5G",
	Speed5_15625G: "5.15625G",
	Speed6G:       "6G",
	Speed10_3125G: "10.3125G",
	SpeedMax:      "default",
}

func (s Speed) String() string {
	if name, found := speedNames[s]; found {
		return name
	}
	return fmt.Sprintf("speed(%d)", uint8(s))
}

func ParseSpeed(s string) (Speed, error) {
	for speed, name := range speedNames {
		if strings.EqualFold(s, name) {
			return speed, nil
		}
	}
	return SpeedDefault, fmt.Errorf("%q: unknown speed: %w", s,
		InvalidConfiguration)
}

// Width is the PCIe link width; only x1, x2, and x4 fit the 3-bit
// descriptor field.
type Width uint8

const (
	X1  Width = 0x01
	X2  Width = 0x02
	X4  Width = 0x04
	X8  Width = 0x08
	X12 Width = 0x0c
	X16 Width = 0x10
	X32 Width = 0x20
)

func (w Width) String() string { return fmt.Sprintf("x%d", uint8(w)) }

// Invert flags swap the lane polarity.
type Invert uint8

const (
	InvertTx Invert = 1 << iota
	InvertRx

	InvertNone Invert = 0
)

func (i Invert) String() string {
	switch i & (InvertTx | InvertRx) {
	case InvertTx:
		return "tx"
	case InvertRx:
		return "rx"
	case InvertTx | InvertRx:
		return "tx,rx"
	}
	return "none"
}

// Origin is the caller of a PCIe request. PCIe reset may only be toggled by
// the boot loader; OS requests for PCIe are ignored.
type Origin uint8

const (
	OS Origin = iota
	Bootloader
)

func (o Origin) String() string {
	if o == Bootloader {
		return "bootloader"
	}
	return "os"
}

// Descriptor layout, least significant bit first.
const (
	invertShift = 0
	invertMask  = 0x3
	speedShift  = 2
	unitShift   = 8
	unitMask    = 0xf
	modeShift   = 12
	modeMask    = 0x1f
	clkSrcShift = 17
	widthShift  = 18
	widthMask   = 0x7
	originShift = 21
)

// Descriptor is one lane request.
type Descriptor struct {
	Mode   Mode
	Unit   uint8
	Speed  Speed
	Invert Invert
	// ClkSrc selects the external PCIe reference clock.
	ClkSrc bool
	Width  Width
	Origin Origin
}

// Decode unpacks the firmware call form of a descriptor.
func Decode(v uint32) Descriptor {
	return Descriptor{
		Invert: Invert((v >> invertShift) & invertMask),
		Speed:  Speed((v >> speedShift) & speedFieldMask),
		Unit:   uint8((v >> unitShift) & unitMask),
		Mode:   Mode((v >> modeShift) & modeMask),
		ClkSrc: (v>>clkSrcShift)&1 != 0,
		Width:  Width((v >> widthShift) & widthMask),
		Origin: Origin((v >> originShift) & 1),
	}
}

// Encode packs the descriptor; fields wider than their slots are
// truncated.
func (d Descriptor) Encode() uint32 {
	v := (uint32(d.Invert) & invertMask) << invertShift
	v |= (uint32(d.Speed) & speedFieldMask) << speedShift
	v |= (uint32(d.Unit) & unitMask) << unitShift
	v |= (uint32(d.Mode) & modeMask) << modeShift
	if d.ClkSrc {
		v |= 1 << clkSrcShift
	}
	v |= (uint32(d.Width) & widthMask) << widthShift
	v |= (uint32(d.Origin) & 1) << originShift
	return v
}

func (d Descriptor) String() string {
	s := fmt.Sprint(d.Mode, " unit ", d.Unit, " speed ", d.Speed,
		" invert ", d.Invert)
	if d.Mode == PCIE {
		s += fmt.Sprint(" width ", d.Width, " origin ", d.Origin)
		if d.ClkSrc {
			s += " clk ext"
		}
	}
	return s
}
