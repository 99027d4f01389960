// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package a3700 sequences the three lane COMPHY of the Marvell ARMADA 3700.
//
// Lanes 0 and 1 are controlled by PHY input ports in the comphy block and
// programmed through directly mapped 16-bit SerDes registers. Lane 2 is
// reached through the indirect address/data pair of the SATA host, except
// for USB3 on lanes 0 and 2 which share the USB3/GbE1 window.
package a3700

import (
	"fmt"

	"github.com/platinasystems/comphy"
	"github.com/platinasystems/comphy/internal/reg"
	"github.com/platinasystems/log"
)

const Lanes = 3

type Controller struct {
	Bus reg.Bus
	// Regs is the SoC internal register base.
	Regs uintptr
	// RefClk is the crystal frequency in MHz, 25 or 40.
	RefClk int
}

func New(bus reg.Bus, regs uintptr, refClk int) *Controller {
	if refClk == 0 {
		refClk = defaultRefClkMH
	}
	return &Controller{Bus: bus, Regs: regs, RefClk: refClk}
}

func (c *Controller) Lanes() int { return Lanes }

func (c *Controller) String() string {
	return fmt.Sprintf("a3700 %#x %dMHz", c.Regs, c.RefClk)
}

// Base is the comphy block address.
func (c *Controller) Base() uintptr { return c.Regs + comphyRegBase }

func (c *Controller) is40MHz() bool { return c.RefClk == sgmiiRefClk40 }

func (c *Controller) indirect(offset uint32) reg.Indirect {
	return reg.Indirect{Bus: c.Bus, Base: c.Regs + indirectReg, Offset: offset}
}

func (c *Controller) direct(base uintptr) reg.Direct {
	return reg.Direct{Bus: c.Bus, Base: c.Regs + base, Shift: phyRegisterLen}
}

// setCfg1 is a read-modify-write of a lane's PHY input ports.
func (c *Controller) setCfg1(lane int, data, mask uint32) {
	reg.Set(c.Bus, c.Base()+phyCfg1(lane), data, mask)
}

func (c *Controller) pollStatus(lane int, bits uint32) error {
	return reg.Poll(c.Bus, c.Base()+phyStatus(lane), bits, bits,
		pllLockTimeout, reg.W32)
}

func polarity(invert comphy.Invert) uint16 {
	var data uint16
	if invert&comphy.InvertTx != 0 {
		data |= txdInvert
	}
	if invert&comphy.InvertRx != 0 {
		data |= rxdInvert
	}
	return data
}

func checkLane(n int) error {
	if n < 0 || n >= Lanes {
		return fmt.Errorf("comphy%d: no such lane: %w", n,
			comphy.InvalidConfiguration)
	}
	return nil
}

// PowerOn routes the lane and runs the bring-up sequence for d.Mode.
func (c *Controller) PowerOn(n int, d comphy.Descriptor) error {
	if err := checkLane(n); err != nil {
		return err
	}
	switch d.Mode {
	case comphy.SATA:
		return c.sataPowerOn(n, d)
	case comphy.SGMII, comphy.HSSGMII:
		return c.sgmiiPowerOn(n, d)
	case comphy.USB3, comphy.USB3H:
		return c.usb3PowerOn(n, d)
	case comphy.PCIE:
		return c.pciePowerOn(n, d)
	}
	log.Print("err", "comphy", n, ": unsupported comphy mode")
	return fmt.Errorf("comphy%d: %v: unsupported mode: %w", n, d.Mode,
		comphy.InvalidConfiguration)
}

// PowerOff tears down the lane. With d.Mode Unset, the mode is read back
// from the selector. USB3 is left to its MAC.
func (c *Controller) PowerOff(n int, d comphy.Descriptor) error {
	if err := checkLane(n); err != nil {
		return err
	}
	mode := d.Mode
	if mode == comphy.Unset {
		mode = c.GetMode(n)
	}
	switch mode {
	case comphy.SGMII, comphy.HSSGMII:
		c.setCfg1(n, pinResetCore|pinResetComphy,
			pinResetCore|pinResetComphy)
		return nil
	case comphy.USB3, comphy.USB3H:
		return nil
	case comphy.SATA:
		sata := c.indirect(lane2RegOffset)
		sata.Set(isolationCtrl, phyIsolateMode, phyIsolateMode)
		sata.Set(powerPLLCtrl, 0, puPLL|puRx|puTx)
		return nil
	}
	log.Print("warn", "comphy", n, ": power off is not implemented for ",
		mode)
	return fmt.Errorf("comphy%d: %v: %w", n, mode, comphy.NotImplemented)
}

// IsPLLLocked reports the SATA TX PLL; other modes have no check.
func (c *Controller) IsPLLLocked(n int, d comphy.Descriptor) error {
	if err := checkLane(n); err != nil {
		return err
	}
	if d.Mode != comphy.SATA {
		log.Printf("err", "comphy[%d] mode[%d] doesn't support PLL lock check",
			n, d.Mode)
		return fmt.Errorf("comphy%d: %v: no PLL status: %w", n, d.Mode,
			comphy.InvalidConfiguration)
	}
	if err := c.sataPollPLL(); err != nil {
		log.Print("err", "TX PLL is not locked")
		return fmt.Errorf("comphy%d: SATA PLL: %v: %w", n, err,
			comphy.Timeout)
	}
	return nil
}
