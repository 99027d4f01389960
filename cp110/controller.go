// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package cp110 sequences the six lane COMPHY of the Marvell CP110
// communication processor.
//
// Each lane has a common PHY configuration block, a SerDes external block
// (SD), and an HPIPE analog block, all 32-bit memory mapped registers
// derived from the comphy base.
package cp110

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/platinasystems/comphy"
	"github.com/platinasystems/comphy/internal/reg"
	"github.com/platinasystems/log"
)

const Lanes = 6

// First CP110 register window; each CP adds CPStride.
const (
	CP0Base  = 0xf2000000
	CPStride = 0x2000000
)

// The system controller MAC reset bits are shared by all CP110 units.
var macResetLock sync.Mutex

type Controller struct {
	Bus  reg.Bus
	Base uintptr

	// AP and CP index the calibration tables and training state.
	AP, CP int

	Training *comphy.TrainingState

	XFI  [Lanes]XFIParams
	SATA [Lanes]SATAParams
	USB  [Lanes]USBParams

	// Report receives RX training results; nil is os.Stdout.
	Report io.Writer
}

// New returns the controller at base with the built-in calibration for its
// AP/CP position.
func New(bus reg.Bus, base uintptr, ts *comphy.TrainingState) *Controller {
	c := &Controller{
		Bus:      bus,
		Base:     base,
		CP:       cpIndex(base),
		Training: ts,
	}
	c.XFI = xfiStaticValues[c.tableIndex()]
	c.SATA = sataStaticValues[c.tableIndex()]
	c.USB = usbStaticValues[c.tableIndex()]
	return c
}

func cpIndex(base uintptr) int {
	region := base &^ 0xffffff
	if region < CP0Base {
		return 0
	}
	cp := int((region - CP0Base) / CPStride)
	if cp >= comphy.CPNum {
		return 0
	}
	return cp
}

func (c *Controller) tableIndex() int { return c.AP*comphy.CPNum + c.CP }

func (c *Controller) Lanes() int { return Lanes }

func (c *Controller) String() string {
	return fmt.Sprintf("cp110 ap%d cp%d %#x", c.AP, c.CP, c.Base)
}

func (c *Controller) report() io.Writer {
	if c.Report != nil {
		return c.Report
	}
	return os.Stdout
}

// IsTrained reports whether RX training completed on the lane this boot.
func (c *Controller) IsTrained(lane int) bool {
	return c.Training.IsTrained(c.AP, c.CP, lane)
}

// lane holds the register windows of one lane for a sequence.
type lane struct {
	c      *Controller
	n      int
	d      comphy.Descriptor
	comphy uintptr
	sd     uintptr
	hpipe  uintptr
}

func (c *Controller) lane(n int, d comphy.Descriptor) *lane {
	pipe := pipeBase(c.Base)
	return &lane{
		c:      c,
		n:      n,
		d:      d,
		comphy: comphyAddr(c.Base, n),
		sd:     sdAddr(pipe, n),
		hpipe:  hpipeAddr(pipe, n),
	}
}

// bits accumulates field values for one read-modify-write.
type bits struct {
	data, mask uint32
}

func set(f reg.Field, v uint32) bits { return bits{}.and(f, v) }

func (b bits) and(f reg.Field, v uint32) bits {
	return bits{b.data | f.Is(v), b.mask | f.Mask()}
}

func (l *lane) set(addr uintptr, b bits) {
	reg.Set(l.c.Bus, addr, b.data, b.mask)
}

func (l *lane) hp(off uintptr, b bits)  { l.set(l.hpipe+off, b) }
func (l *lane) sdc(off uintptr, b bits) { l.set(l.sd+off, b) }
func (l *lane) cfg(off uintptr, b bits) { l.set(l.comphy+off, b) }

func (l *lane) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("comphy%d: "+format, append([]interface{}{l.n},
		args...)...)
}

func (l *lane) udelay(us int) { reg.Udelay(l.c.Bus, us) }
func (l *lane) mdelay(ms int) { reg.Mdelay(l.c.Bus, ms) }

// powerUp selects the serdes path of the common PHY.
func (l *lane) powerUp() {
	l.cfg(phyCfg1, set(cfg1PwrUp, 1).and(cfg1PipeSelect, 0))
}

// resetSerdes pulses the SD resets, leaving the RF reset asserted.
func (l *lane) resetSerdes() {
	l.sdc(sdConfig1, set(sd1ResetIn, 0).and(sd1ResetCore, 0).
		and(sd1RFResetIn, 0))
	l.sdc(sdConfig1, set(sd1ResetIn, 1).and(sd1ResetCore, 1))
	l.mdelay(1)
}

func (l *lane) puPLLRxTx() {
	l.sdc(sdConfig0, set(sd0PuPLL, 1).and(sd0PuRx, 1).and(sd0PuTx, 1))
}

// pollPLL waits for both SD PLLs, returning a wrapped Timeout naming the
// unlocked side.
func (l *lane) pollPLL(timeout int) error {
	mask := uint32(sdPLLRx | sdPLLTx)
	err := reg.Poll(l.c.Bus, l.sd+sdStatus0, mask, mask, timeout, reg.W32)
	if err == nil {
		return nil
	}
	var got uint32
	if pe, ok := err.(*reg.PollError); ok {
		got = pe.Got
	}
	if got&sdPLLRx == 0 {
		log.Print("err", "comphy", l.n, ": RX PLL is not locked")
	}
	if got&sdPLLTx == 0 {
		log.Print("err", "comphy", l.n, ": TX PLL is not locked")
	}
	return l.errorf("PLL lock: %v: %w", err, comphy.Timeout)
}

// rxInit starts RX init, waits for it, and releases the RF reset. The RF
// reset is released even after a timeout.
func (l *lane) rxInit() error {
	var ret error
	l.sdc(sdConfig1, set(sd1RxInit, 1))
	err := reg.Poll(l.c.Bus, l.sd+sdStatus0, sdRxInit, sdRxInit,
		rxInitTimeout, reg.W32)
	if err != nil {
		log.Print("err", "comphy", l.n, ": RX init failed")
		ret = l.errorf("RX init: %v: %w", err, comphy.Timeout)
	}
	l.sdc(sdConfig1, set(sd1RxInit, 0).and(sd1RFResetIn, 1))
	return ret
}

// polarity applies the calibration and descriptor inversion to the lane.
func (l *lane) polarity(invert comphy.Invert) {
	invert |= l.d.Invert
	l.hp(hpipeSyncPattern, set(syncTxdInv, b2u(invert&comphy.InvertTx != 0)).
		and(syncRxdInv, b2u(invert&comphy.InvertRx != 0)))
}

func b2u(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// PowerOn routes the lane and runs the bring-up sequence for d.Mode.
func (c *Controller) PowerOn(n int, d comphy.Descriptor) error {
	if n < 0 || n >= Lanes {
		return fmt.Errorf("comphy%d: no such lane: %w", n,
			comphy.InvalidConfiguration)
	}
	l := c.lane(n, d)
	switch d.Mode {
	case comphy.SATA:
		return l.sataPowerOn()
	case comphy.SGMII, comphy.HSSGMII:
		return l.sgmiiPowerOn()
	case comphy.XFI, comphy.SFI:
		return l.xfiPowerOn()
	case comphy.PCIE:
		// Only the boot loader may reset PCIe.
		if d.Origin != comphy.Bootloader {
			return nil
		}
		return l.pciePowerOn()
	case comphy.RXAUI:
		return l.rxauiPowerOn()
	case comphy.USB3H, comphy.USB3D:
		return l.usb3PowerOn()
	case comphy.AP:
		return l.apPowerOn()
	}
	log.Print("err", "comphy", n, ": unsupported comphy mode")
	return fmt.Errorf("comphy%d: %v: unsupported mode: %w", n, d.Mode,
		comphy.InvalidConfiguration)
}

// PowerOff tears the lane down and unroutes it. A PCIe lane is left alone
// for OS requests, as is a trained XFI/SFI lane.
func (c *Controller) PowerOff(n int, d comphy.Descriptor) error {
	if n < 0 || n >= Lanes {
		return fmt.Errorf("comphy%d: no such lane: %w", n,
			comphy.InvalidConfiguration)
	}
	mode := d.Mode
	if mode == comphy.Unset {
		mode = c.GetMode(n)
	}
	if d.Origin != comphy.Bootloader && c.pipeSelector(n) == pipeSelPCIE {
		return nil
	}
	if c.IsTrained(n) && (mode == comphy.XFI || mode == comphy.SFI ||
		d.Mode == comphy.Unset) {
		return nil
	}
	l := c.lane(n, d)
	l.sdc(sdConfig1, set(sd1ResetIn, 0).and(sd1ResetCore, 0).
		and(sd1RFResetIn, 0))
	if bit, found := pcieMacReset[n]; found {
		macResetLock.Lock()
		reg.Set(c.Bus, sysCtrlBase(c.Base)+sysCtrlUnitSoftReset, 0, bit)
		macResetLock.Unlock()
	}
	l.cfg(phyCfg1, set(cfg1PwrOnReset, 0).and(cfg1CoreRstn, 0))
	c.clrPhySelector(n)
	c.clrPipeSelector(n)
	return nil
}

// IsPLLLocked polls the SD PLL status of a serdes lane.
func (c *Controller) IsPLLLocked(n int, d comphy.Descriptor) error {
	if n < 0 || n >= Lanes {
		return fmt.Errorf("comphy%d: no such lane: %w", n,
			comphy.InvalidConfiguration)
	}
	switch d.Mode {
	case comphy.SATA, comphy.SGMII, comphy.HSSGMII, comphy.XFI,
		comphy.SFI, comphy.RXAUI, comphy.AP:
		return c.lane(n, d).pollPLL(pllLockTimeout)
	}
	return fmt.Errorf("comphy%d: %v: no PLL status: %w", n, d.Mode,
		comphy.InvalidConfiguration)
}

// DigitalReset toggles the SD RF reset of a network lane.
func (c *Controller) DigitalReset(n int, mode comphy.Mode,
	cmd comphy.ResetCommand) error {
	if n < 0 || n >= Lanes {
		return fmt.Errorf("comphy%d: no such lane: %w", n,
			comphy.InvalidConfiguration)
	}
	switch mode {
	case comphy.SGMII, comphy.HSSGMII, comphy.XFI, comphy.SFI,
		comphy.RXAUI:
	default:
		log.Print("err", "comphy", n, ": Digital PWR ON/OFF is not supported")
		return fmt.Errorf("comphy%d: %v: digital reset: %w", n, mode,
			comphy.InvalidConfiguration)
	}
	var v uint32 = 1
	if cmd == comphy.DigitalPowerOff {
		v = 0
	}
	c.lane(n, comphy.Descriptor{Mode: mode}).sdc(sdConfig1,
		set(sd1RFResetIn, v))
	return nil
}
