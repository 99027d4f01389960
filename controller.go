// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package comphy

import "errors"

// NotImplemented is wrapped by PowerOff for modes without a teardown
// sequence. Nothing was written; the firmware call status is success.
var NotImplemented = errors.New("power off is not implemented")

// Controller sequences the lanes of one COMPHY instance.
type Controller interface {
	// PowerOn routes the lane to d.Mode and brings it up.
	PowerOn(lane int, d Descriptor) error
	// PowerOff tears the lane down. With d.Mode Unset, the mode is read
	// back from the lane selector.
	PowerOff(lane int, d Descriptor) error
	// IsPLLLocked polls the lane's PLL lock status. Each SoC checks only
	// the modes it has a lock indication for (SATA on a3700, the serdes
	// modes on cp110); others are InvalidConfiguration.
	IsPLLLocked(lane int, d Descriptor) error
	// Lanes is the number of lanes in this instance.
	Lanes() int
}

// Trainer is a Controller that supports XFI/SFI receiver training.
type Trainer interface {
	XFIRxTraining(lane int) error
}

// ResetCommand is the DIG_RESET request.
type ResetCommand uint32

const (
	DigitalPowerOff ResetCommand = 1
	DigitalPowerOn  ResetCommand = 2
)

func (c ResetCommand) String() string {
	switch c {
	case DigitalPowerOff:
		return "off"
	case DigitalPowerOn:
		return "on"
	}
	return "unknown"
}

// DigitalResetter is a Controller that can toggle the SerDes digital reset
// of a network lane without repeating analog bring-up.
type DigitalResetter interface {
	DigitalReset(lane int, mode Mode, cmd ResetCommand) error
}

// ModeGetter is a Controller that can read back a lane's protocol.
type ModeGetter interface {
	GetMode(lane int) Mode
}
