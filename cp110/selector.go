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

func selectorField(lane int) reg.Field {
	return reg.Bits(uint(lane*selectorFieldWidth), selectorFieldWidth)
}

func (c *Controller) phySelector(lane int) uint32 {
	return selectorField(lane).Get(c.Bus.Read32(c.Base + selectorPhy))
}

func (c *Controller) pipeSelector(lane int) uint32 {
	return selectorField(lane).Get(c.Bus.Read32(c.Base + selectorPipe))
}

// clrSelector zeroes the lane's field, writing only if it was routed.
func (c *Controller) clrSelector(off uintptr, lane int) {
	addr := c.Base + off
	f := selectorField(lane)
	if v := c.Bus.Read32(addr); f.Get(v) != 0 {
		reg.Write32(c.Bus, addr, f.Set(v, 0))
	}
}

func (c *Controller) clrPhySelector(lane int)  { c.clrSelector(selectorPhy, lane) }
func (c *Controller) clrPipeSelector(lane int) { c.clrSelector(selectorPipe, lane) }

// setPhySelector routes a serdes protocol. A PIPE or unknown mode is
// refused before any selector write.
func (c *Controller) setPhySelector(lane int, d comphy.Descriptor) error {
	switch d.Mode {
	case comphy.SATA, comphy.SGMII, comphy.HSSGMII, comphy.XFI, comphy.SFI,
		comphy.RXAUI, comphy.AP:
	default:
		return c.invalidPair(lane, d.Mode, "phy")
	}
	c.clrPipeSelector(lane)
	var v uint32
	switch {
	case d.Mode == comphy.SATA:
		v = phySelSATA
	case lane < 3:
		v = phySelNetwork
	case lane == 3:
		if d.Mode == comphy.RXAUI {
			v = phySelLane3RXAUI
		} else {
			v = phySelLane3SGMII
		}
	case lane == 4:
		switch d.Mode {
		case comphy.SGMII, comphy.HSSGMII, comphy.SFI:
			if d.Unit == 1 {
				v = phySelLane4Port1
			} else {
				v = phySelLane4Others
			}
		default:
			v = phySelLane4Others
		}
	case lane == 5:
		if d.Mode == comphy.RXAUI {
			v = phySelLane5RXAUI
		} else {
			v = phySelLane5SGMII
		}
	}
	reg.Set(c.Bus, c.Base+selectorPhy, selectorField(lane).Is(v),
		selectorField(lane).Mask())
	return nil
}

// setPipeSelector routes a PIPE protocol. An undefined pair still clears
// the PHY selector but leaves the PIPE selector untouched.
func (c *Controller) setPipeSelector(lane int, d comphy.Descriptor) error {
	c.clrPhySelector(lane)
	var v uint32
	switch d.Mode {
	case comphy.PCIE:
		v = pipeSelPCIE
	case comphy.USB3H:
		if lane == 0 || lane == 5 {
			return c.invalidPair(lane, d.Mode, "pipe")
		}
		v = pipeSelUSBH
	case comphy.USB3D:
		if lane != 1 && lane != 4 {
			return c.invalidPair(lane, d.Mode, "pipe")
		}
		v = pipeSelUSBD
	default:
		return c.invalidPair(lane, d.Mode, "pipe")
	}
	reg.Set(c.Bus, c.Base+selectorPipe, selectorField(lane).Is(v),
		selectorField(lane).Mask())
	return nil
}

func (c *Controller) invalidPair(lane int, mode comphy.Mode,
	space string) error {
	log.Printf("err", "COMPHY[%d] mode[%d] is invalid", lane, mode)
	return fmt.Errorf("comphy%d: %v: no %s route: %w", lane, mode, space,
		comphy.InvalidConfiguration)
}

// GetMode reads the lane protocol back from the selectors. Network lanes
// other than RXAUI read back as SGMII.
func (c *Controller) GetMode(lane int) comphy.Mode {
	if lane < 0 || lane >= Lanes {
		return comphy.Unused
	}
	switch c.pipeSelector(lane) {
	case pipeSelPCIE:
		return comphy.PCIE
	case pipeSelUSBH:
		return comphy.USB3H
	case pipeSelUSBD:
		return comphy.USB3D
	}
	switch phy := c.phySelector(lane); {
	case phy == phySelUnconnected:
		return comphy.Unused
	case phy == phySelSATA:
		return comphy.SATA
	case lane == 3 && phy == phySelLane3RXAUI,
		lane == 5 && phy == phySelLane5RXAUI:
		return comphy.RXAUI
	}
	return comphy.SGMII
}
