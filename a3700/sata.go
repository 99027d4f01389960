// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package a3700

import (
	"fmt"

	"github.com/platinasystems/comphy"
	"github.com/platinasystems/comphy/internal/reg"
)

func (c *Controller) sataPowerOn(n int, d comphy.Descriptor) error {
	if err := c.setPhySelector(n, d.Mode); err != nil {
		return err
	}
	sata := c.indirect(lane2RegOffset)

	sata.Set(isolationCtrl, 0, phyIsolateMode)
	sata.Set(syncPattern, polarity(d.Invert), txdInvert|rxdInvert)
	sata.Set(digLoopbackEn, dataWidth40Bit, selDataWidthMask)

	var refClk uint16 = refSerdes25MHz
	if c.is40MHz() {
		refClk = refSerdes40MHz
	}
	sata.Set(powerPLLCtrl, refClk|phyModeSATA, refFrefSelMask|phyModeMask)
	sata.Set(kvcoCalCtrl, useMaxPLLRate, useMaxPLLRate)

	// The reserved register is outside the lane 2 window.
	c.indirect(0).Set(reservedReg, 0, phyctrlFrmPin)

	reg.Udelay(c.Bus, pllSetDelayUs)

	if err := c.sataPollPLL(); err != nil {
		return fmt.Errorf("comphy%d: SATA PLL: %v: %w", n, err,
			comphy.Timeout)
	}
	return nil
}

func (c *Controller) sataPollPLL() error {
	return c.indirect(lane2RegOffset).Poll(digLoopbackEn, pllReadyTx,
		pllReadyTx, pllLockTimeout)
}
