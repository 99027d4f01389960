// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package a3700

import (
	"fmt"

	"github.com/platinasystems/comphy"
	"github.com/platinasystems/comphy/internal/reg"
	"github.com/platinasystems/log"
)

// selectorFor returns the selector with lane routed to mode. The register
// is only written by setPhySelector after a valid pair.
func selectorFor(v uint32, lane int, mode comphy.Mode) (uint32, bool) {
	switch mode {
	case comphy.SATA:
		if lane == 2 {
			return v &^ selectorUSB3PHYSel, true
		}
	case comphy.SGMII, comphy.HSSGMII:
		switch lane {
		case 0:
			return v &^ selectorUSB3GBE1, true
		case 1:
			return v &^ selectorPCIEGBE0, true
		}
	case comphy.USB3H, comphy.USB3D, comphy.USB3:
		switch lane {
		case 2:
			return v | selectorUSB3PHYSel, true
		case 0:
			return v | selectorUSB3GBE1, true
		}
	case comphy.PCIE:
		if lane == 1 {
			return v | selectorPCIEGBE0, true
		}
	}
	return v, false
}

func (c *Controller) setPhySelector(lane int, mode comphy.Mode) error {
	addr := c.Base() + selectorPhy
	v, ok := selectorFor(c.Bus.Read32(addr), lane, mode)
	if !ok {
		log.Printf("err", "COMPHY[%d] mode[%d] is invalid", lane, mode)
		return fmt.Errorf("comphy%d: %v: invalid lane: %w", lane, mode,
			comphy.InvalidConfiguration)
	}
	reg.Write32(c.Bus, addr, v)
	return nil
}

// GetMode reads the lane protocol back from the selector. USB3H and USB3D
// read back as USB3, 2500BASE-X as SGMII.
func (c *Controller) GetMode(lane int) comphy.Mode {
	v := c.Bus.Read32(c.Base() + selectorPhy)
	switch lane {
	case 0:
		if v&selectorUSB3GBE1 != 0 {
			return comphy.USB3
		}
		return comphy.SGMII
	case 1:
		if v&selectorPCIEGBE0 != 0 {
			return comphy.PCIE
		}
		return comphy.SGMII
	case 2:
		if v&selectorUSB3PHYSel != 0 {
			return comphy.USB3
		}
		return comphy.SATA
	}
	return comphy.Unused
}
