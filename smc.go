// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package comphy

import (
	"errors"
	"fmt"

	"github.com/platinasystems/log"
	"github.com/satori/go.uuid"
)

// Function is a COMPHY firmware call id.
type Function uint32

const (
	FnPowerOn  Function = 0x82000001
	FnPowerOff Function = 0x82000002
	FnPLLLock  Function = 0x82000003
	FnXFITrain Function = 0x82000004
	FnDigReset Function = 0x82000005
)

func (fn Function) String() string {
	switch fn {
	case FnPowerOn:
		return "power-on"
	case FnPowerOff:
		return "power-off"
	case FnPLLLock:
		return "pll-lock"
	case FnXFITrain:
		return "xfi-train"
	case FnDigReset:
		return "dig-reset"
	}
	return fmt.Sprintf("fn(%#x)", uint32(fn))
}

// Request is one firmware call. Base selects the controller; zero means the
// SMC's first controller. Arg is the packed descriptor for POWER_ON,
// POWER_OFF, PLL_LOCK, and DIG_RESET.
type Request struct {
	ID   uuid.UUID
	Fn   Function
	Base uintptr
	Lane int
	Arg  uint32
	Cmd  ResetCommand
}

func (r Request) String() string {
	return fmt.Sprint(r.Fn, " base ", fmt.Sprintf("%#x", r.Base),
		" lane ", r.Lane, " arg ", fmt.Sprintf("%#x", r.Arg))
}

// Status is the firmware call return value for err. Teardown of a mode
// without a sequence returns success.
func Status(err error) int32 {
	if err == nil || errors.Is(err, NotImplemented) {
		return 0
	}
	var e Error
	if errors.As(err, &e) {
		return e.Errno()
	}
	return InvalidConfiguration.Errno()
}

// SMC routes firmware calls to the controllers of a board.
type SMC struct {
	bases       []uintptr
	controllers map[uintptr]Controller
}

// Register adds the controller at base. The first registered controller
// serves requests with a zero Base.
func (smc *SMC) Register(base uintptr, c Controller) {
	if smc.controllers == nil {
		smc.controllers = make(map[uintptr]Controller)
	}
	if _, found := smc.controllers[base]; !found {
		smc.bases = append(smc.bases, base)
	}
	smc.controllers[base] = c
}

func (smc *SMC) Controller(base uintptr) (Controller, error) {
	if base == 0 && len(smc.bases) > 0 {
		base = smc.bases[0]
	}
	c, found := smc.controllers[base]
	if !found {
		return nil, fmt.Errorf("comphy base %#x: no controller: %w",
			base, InvalidConfiguration)
	}
	return c, nil
}

// NewRequest returns a request with a fresh id.
func NewRequest(fn Function, base uintptr, lane int, arg uint32) Request {
	return Request{
		ID:   uuid.NewV4(),
		Fn:   fn,
		Base: base,
		Lane: lane,
		Arg:  arg,
	}
}

// Call performs the request, returning the firmware status and the
// underlying error for logging.
func (smc *SMC) Call(r Request) (int32, error) {
	err := smc.call(r)
	if err != nil && !errors.Is(err, NotImplemented) {
		log.Print("err", r.ID, " ", r.Fn, ": ", err)
	}
	return Status(err), err
}

func (smc *SMC) call(r Request) error {
	c, err := smc.Controller(r.Base)
	if err != nil {
		return err
	}
	if r.Lane < 0 || r.Lane >= c.Lanes() {
		return fmt.Errorf("comphy%d: lane out of range [0,%d): %w",
			r.Lane, c.Lanes(), InvalidConfiguration)
	}
	switch r.Fn {
	case FnPowerOn:
		return c.PowerOn(r.Lane, Decode(r.Arg))
	case FnPowerOff:
		return c.PowerOff(r.Lane, Decode(r.Arg))
	case FnPLLLock:
		return c.IsPLLLocked(r.Lane, Decode(r.Arg))
	case FnXFITrain:
		t, ok := c.(Trainer)
		if !ok {
			break
		}
		return t.XFIRxTraining(r.Lane)
	case FnDigReset:
		dr, ok := c.(DigitalResetter)
		if !ok {
			break
		}
		return dr.DigitalReset(r.Lane, Decode(r.Arg).Mode, r.Cmd)
	}
	return fmt.Errorf("%v: unsupported: %w", r.Fn, InvalidConfiguration)
}
