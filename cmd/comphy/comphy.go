// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package comphy provides the command that runs single COMPHY firmware
// calls on a live board.
package comphy

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/platinasystems/comphy"
	"github.com/platinasystems/comphy/board"
	"github.com/platinasystems/comphy/internal/dbg"
	"github.com/platinasystems/comphy/internal/devmem"
	"github.com/platinasystems/comphy/internal/reg"
	"github.com/platinasystems/comphy/lang"
	"github.com/platinasystems/flags"
	"github.com/platinasystems/parms"
)

// Bus is a register bus that must be released.
type Bus interface {
	reg.Bus
	io.Closer
}

type Command struct {
	// Open maps the controller windows; nil is /dev/mem.
	Open func(windows ...uintptr) (Bus, error)
	// Stdout is where results go; nil is os.Stdout.
	Stdout io.Writer
}

func (Command) String() string { return "comphy" }

func (Command) Usage() string {
	return "comphy [-v] [-os] [-dtb FILE] [-base ADDR] [-variant a3700|cp110] " +
		"[-ref MHZ] [-speed SPEED] [-width N] " +
		"on|off|pll|train|reset|decode LANE|DESCRIPTOR [MODE [on|off]]"
}

func (Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "configure a COMPHY SerDes lane",
	}
}

func (Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Issue one COMPHY firmware call for a lane and print its status:
	0 on success, -22 for an invalid configuration, -110 for a PLL or
	training timeout, and -5 for a training failure.

	on LANE [MODE]		route and power on the lane
	off LANE [MODE]		power off; MODE defaults to the routed mode
	pll LANE MODE		check PLL lock
	train LANE		XFI/SFI receiver training (cp110)
	reset LANE MODE on|off	toggle SerDes digital reset (cp110)
	decode DESCRIPTOR	print a packed descriptor

	Without MODE, on uses the lane in the -dtb board description.

OPTIONS
	-v	trace register writes
	-os	request from the OS; PCIe requests are then ignored
	-dtb FILE
		flattened device tree with the comphy nodes
	-base ADDR
		comphy block address; defaults to the first node or variant
	-variant a3700|cp110
		controller when there is no -dtb (cp110)
	-ref MHZ
		reference clock, 25 or 40
	-speed SPEED, -width N
		descriptor speed (e.g. 10.3125G) and PCIe width

EXAMPLES
	comphy -dtb /sys/firmware/fdt on 4
	comphy -base 0xf2441000 on 2 sgmii -speed 1.25G
	comphy decode 0x9018`,
	}
}

func (c Command) Main(args ...string) error {
	flag, args := flags.New(args, "-v", "-os")
	parm, args := parms.New(args, "-dtb", "-base", "-variant", "-ref",
		"-speed", "-width")

	if flag.ByName["-v"] {
		reg.Trace = dbg.Plain
		defer func() { reg.Trace = dbg.NoOp }()
	}
	w := c.Stdout
	if w == nil {
		w = os.Stdout
	}
	if len(args) < 2 {
		return fmt.Errorf("%s: missing operand", c.Usage())
	}
	verb, operand, args := args[0], args[1], args[2:]

	if verb == "decode" {
		v, err := strconv.ParseUint(operand, 0, 32)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, comphy.Decode(uint32(v)))
		return nil
	}

	cfg, err := config(parm.ByName)
	if err != nil {
		return err
	}
	lane, err := strconv.Atoi(operand)
	if err != nil {
		return fmt.Errorf("%s: lane: %v", operand, err)
	}

	open := c.Open
	if open == nil {
		open = func(windows ...uintptr) (Bus, error) {
			m, err := devmem.Open(true, windows...)
			if err != nil {
				return nil, err
			}
			return m, nil
		}
	}
	bus, err := open(cfg.Windows()...)
	if err != nil {
		return err
	}
	defer bus.Close()

	ctrl := cfg.Controller(bus, new(comphy.TrainingState))
	var smc comphy.SMC
	smc.Register(cfg.Base, ctrl)

	d, err := descriptor(cfg, lane, args, parm.ByName)
	if err != nil {
		return err
	}
	if flag.ByName["-os"] {
		d.Origin = comphy.OS
	} else {
		d.Origin = comphy.Bootloader
	}

	r := comphy.NewRequest(0, cfg.Base, lane, d.Encode())
	switch verb {
	case "on":
		r.Fn = comphy.FnPowerOn
	case "off":
		r.Fn = comphy.FnPowerOff
	case "pll":
		r.Fn = comphy.FnPLLLock
	case "train":
		r.Fn = comphy.FnXFITrain
	case "reset":
		r.Fn = comphy.FnDigReset
		if len(args) < 2 {
			return fmt.Errorf("reset: need MODE and on|off")
		}
		switch args[1] {
		case "on":
			r.Cmd = comphy.DigitalPowerOn
		case "off":
			r.Cmd = comphy.DigitalPowerOff
		default:
			return fmt.Errorf("reset: %q: not on or off", args[1])
		}
	default:
		return fmt.Errorf("%s: unknown operation", verb)
	}

	status, err := smc.Call(r)
	fmt.Fprintf(w, "%v lane %d %v: %d\n", cfg, lane, r.Fn, status)
	if status != 0 {
		return err
	}
	return nil
}

func config(parm map[string]string) (board.Config, error) {
	var cfg board.Config
	base := uintptr(0)
	if s := parm["-base"]; len(s) > 0 {
		v, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return cfg, fmt.Errorf("-base: %v", err)
		}
		base = uintptr(v)
	}
	if fn := parm["-dtb"]; len(fn) > 0 {
		configs, err := board.ReadFile(fn)
		if err != nil {
			return cfg, err
		}
		for _, x := range configs {
			if base == 0 || x.Base == base {
				return x, nil
			}
		}
		return cfg, fmt.Errorf("%s: no comphy at %#x: %w", fn, base,
			comphy.InvalidConfiguration)
	}
	variant := board.CP110
	if s := parm["-variant"]; len(s) > 0 {
		v, err := board.ParseVariant(s)
		if err != nil {
			return cfg, err
		}
		variant = v
	}
	cfg = board.Default(variant)
	if base != 0 {
		cfg.Base = base
	}
	if s := parm["-ref"]; len(s) > 0 {
		mhz, err := strconv.Atoi(s)
		if err != nil || (mhz != 25 && mhz != 40) {
			return cfg, fmt.Errorf("-ref %s: not 25 or 40", s)
		}
		cfg.RefClk = mhz
	}
	return cfg, nil
}

// descriptor is the board's lane description updated by the MODE operand
// and any -speed or -width.
func descriptor(cfg board.Config, lane int, args []string,
	parm map[string]string) (d comphy.Descriptor, err error) {
	d.Speed = comphy.SpeedDefault
	for _, l := range cfg.Lanes {
		if l.Index == lane {
			d = l.Descriptor
		}
	}
	if len(args) > 0 {
		if d.Mode, err = comphy.ParseMode(args[0]); err != nil {
			return d, err
		}
	}
	if s := parm["-speed"]; len(s) > 0 {
		if d.Speed, err = comphy.ParseSpeed(s); err != nil {
			return d, err
		}
	}
	if s := parm["-width"]; len(s) > 0 {
		w, err := strconv.Atoi(strings.TrimPrefix(s, "x"))
		if err != nil {
			return d, fmt.Errorf("-width: %v", err)
		}
		d.Width = comphy.Width(w)
	}
	return d, nil
}
