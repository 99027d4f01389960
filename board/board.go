// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package board describes the COMPHY instances of a board from its
// flattened device tree.
//
// Each instance is a node compatible with "marvell,comphy-a3700" or
// "marvell,comphy-cp110":
//
//	comphy@f2441000 {
//		compatible = "marvell,comphy-cp110";
//		reg = <0x0 0xf2441000 0x0 0x1000>;
//		marvell,ref-clk = <25>;
//		phy@4 {
//			phy-mode = "sfi";
//			phy-speed = "10.3125G";
//			phy-invert = <1>;
//			max-retries = <3>;
//			xfi-params = <4 0xf 0x5f 1 0x1c 0xe 1 0 2 2 3>;
//		};
//	};
//
// "phy-unit", "pcie-width", "pcie-clk-ext", "sata-amp", and "sata-emph"
// complete the lane properties.
package board

import (
	"fmt"
	"io/ioutil"
	"sort"
	"strconv"
	"strings"

	"github.com/platinasystems/comphy"
	"github.com/platinasystems/comphy/a3700"
	"github.com/platinasystems/comphy/cp110"
	"github.com/platinasystems/comphy/internal/reg"
	"github.com/platinasystems/fdt"
	"github.com/platinasystems/log"
)

type Variant int

const (
	A3700 Variant = iota + 1
	CP110
)

const (
	CompatibleA3700 = "marvell,comphy-a3700"
	CompatibleCP110 = "marvell,comphy-cp110"
)

func (v Variant) String() string {
	switch v {
	case A3700:
		return "a3700"
	case CP110:
		return "cp110"
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(s) {
	case "a3700", CompatibleA3700:
		return A3700, nil
	case "cp110", CompatibleCP110:
		return CP110, nil
	}
	return 0, fmt.Errorf("%q: unknown variant: %w", s,
		comphy.InvalidConfiguration)
}

type Lane struct {
	Index      int
	Descriptor comphy.Descriptor
	// Retries is the PowerOn attempt limit when PLL lock times out.
	Retries int
	// XFI and SATA replace the built-in CP110 calibration when set.
	XFI  *cp110.XFIParams
	SATA *cp110.SATAParams
}

type Config struct {
	Variant Variant
	// Base is the comphy block address; it keys SMC requests.
	Base   uintptr
	RefClk int
	Lanes  []Lane
}

// Default is a configuration without lanes.
func Default(v Variant) Config {
	switch v {
	case A3700:
		return Config{Variant: v, Base: a3700.RegsBase + 0x18300, RefClk: 25}
	default:
		return Config{Variant: CP110, Base: cp110.CP0Base + 0x441000,
			RefClk: 25}
	}
}

func (c Config) String() string {
	return fmt.Sprintf("%v@%#x", c.Variant, c.Base)
}

// Region is the base of the register region holding every window the
// controller touches.
func (c Config) Region() uintptr { return c.Base &^ 0xffffff }

// Windows lists base, size pairs to map for the controller.
func (c Config) Windows() []uintptr {
	if c.Variant == A3700 {
		return []uintptr{c.Region(), 0x100000}
	}
	return []uintptr{c.Region(), 0x1000000}
}

// Controller returns the variant's controller with any calibration
// overrides applied.
func (c Config) Controller(bus reg.Bus,
	ts *comphy.TrainingState) comphy.Controller {
	if c.Variant == A3700 {
		return a3700.New(bus, c.Region(), c.RefClk)
	}
	ctrl := cp110.New(bus, c.Base, ts)
	for _, l := range c.Lanes {
		if l.Index < 0 || l.Index >= cp110.Lanes {
			continue
		}
		if l.XFI != nil {
			ctrl.XFI[l.Index] = *l.XFI
		}
		if l.SATA != nil {
			ctrl.SATA[l.Index] = *l.SATA
		}
	}
	return ctrl
}

// PowerOn brings up each configured lane in turn, retrying PLL timeouts
// up to the lane's Retries. Failed lanes are logged and skipped; the
// error names them all.
func (c Config) PowerOn(ctrl comphy.Controller, origin comphy.Origin,
	stop <-chan struct{}) error {
	var failed []string
	for _, l := range c.Lanes {
		d := l.Descriptor
		d.Origin = origin
		r := comphy.Retry{Tries: l.Retries, Stop: stop}
		if err := r.PowerOn(ctrl, l.Index, d); err != nil {
			log.Print("err", c, ": ", err)
			failed = append(failed, strconv.Itoa(l.Index))
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%v: lanes %s failed", c,
			strings.Join(failed, ","))
	}
	return nil
}

// ReadFile parses a device tree blob file.
func ReadFile(fn string) ([]Config, error) {
	b, err := ioutil.ReadFile(fn)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

func Parse(blob []byte) (configs []Config, err error) {
	defer func() {
		// the fdt walker indexes the blob without bounds checks
		if r := recover(); r != nil {
			configs = nil
			err = fmt.Errorf("fdt: %v", r)
		}
	}()
	t := &fdt.Tree{}
	if err = t.Parse(blob); err != nil {
		return nil, err
	}
	if t.RootNode == nil {
		return nil, fmt.Errorf("fdt: no root node")
	}
	return FromTree(t)
}

// FromTree returns the comphy instances of t ordered by base address.
func FromTree(t *fdt.Tree) ([]Config, error) {
	var (
		configs []Config
		errs    []string
	)
	t.EachProperty("compatible", "marvell,comphy-",
		func(n *fdt.Node, name, value string) {
			c, err := nodeConfig(t, n)
			if err != nil {
				errs = append(errs, err.Error())
				return
			}
			configs = append(configs, c)
		})
	if len(errs) > 0 {
		sort.Strings(errs)
		return nil, fmt.Errorf("%s: %w", strings.Join(errs, "; "),
			comphy.InvalidConfiguration)
	}
	sort.Slice(configs, func(i, j int) bool {
		return configs[i].Base < configs[j].Base
	})
	return configs, nil
}

func nodeConfig(t *fdt.Tree, n *fdt.Node) (c Config, err error) {
	compatible := t.PropString(n.Properties["compatible"])
	if c.Variant, err = ParseVariant(compatible); err != nil {
		return c, fmt.Errorf("%s: %v", n.Name, err)
	}
	cells := t.PropUint32Slice(n.Properties["reg"])
	switch {
	case len(cells) >= 4:
		c.Base = uintptr(uint64(cells[0])<<32 | uint64(cells[1]))
	case len(cells) >= 1:
		c.Base = uintptr(cells[0])
	default:
		return c, fmt.Errorf("%s: no reg", n.Name)
	}
	c.RefClk = 25
	if b, found := n.Properties["marvell,ref-clk"]; found && len(b) >= 4 {
		c.RefClk = int(t.PropUint32(b))
	}
	if c.RefClk != 25 && c.RefClk != 40 {
		return c, fmt.Errorf("%s: %d MHz reference", n.Name, c.RefClk)
	}
	for _, child := range n.Children {
		if !strings.HasPrefix(child.Name, "phy@") {
			continue
		}
		l, err := laneConfig(t, child)
		if err != nil {
			return c, fmt.Errorf("%s/%s: %v", n.Name, child.Name, err)
		}
		c.Lanes = append(c.Lanes, l)
	}
	sort.Slice(c.Lanes, func(i, j int) bool {
		return c.Lanes[i].Index < c.Lanes[j].Index
	})
	return c, nil
}

var defaultSpeed = map[comphy.Mode]comphy.Speed{
	comphy.SGMII:   comphy.Speed1_25G,
	comphy.HSSGMII: comphy.Speed3_125G,
	comphy.SATA:    comphy.Speed6G,
	comphy.USB3H:   comphy.Speed5G,
	comphy.USB3D:   comphy.Speed5G,
	comphy.USB3:    comphy.Speed5G,
	comphy.PCIE:    comphy.Speed5G,
}

func laneConfig(t *fdt.Tree, n *fdt.Node) (l Lane, err error) {
	index, err := strconv.ParseUint(strings.TrimPrefix(n.Name, "phy@"), 16, 8)
	if err != nil {
		return l, err
	}
	l.Index = int(index)
	if l.Index >= comphy.MaxLaneNR {
		return l, fmt.Errorf("lane %d out of range", l.Index)
	}
	d := &l.Descriptor
	d.Speed = comphy.SpeedDefault
	u32 := func(name string) (uint32, bool) {
		b, found := n.Properties[name]
		if !found || len(b) < 4 {
			return 0, false
		}
		return t.PropUint32(b), true
	}
	if b, found := n.Properties["phy-mode"]; found {
		if d.Mode, err = comphy.ParseMode(t.PropString(b)); err != nil {
			return l, err
		}
	} else {
		return l, fmt.Errorf("no phy-mode")
	}
	if b, found := n.Properties["phy-speed"]; found {
		if d.Speed, err = comphy.ParseSpeed(t.PropString(b)); err != nil {
			return l, err
		}
	} else if speed, found := defaultSpeed[d.Mode]; found {
		d.Speed = speed
	}
	if v, found := u32("phy-unit"); found {
		d.Unit = uint8(v)
	}
	if v, found := u32("phy-invert"); found {
		d.Invert = comphy.Invert(v) & (comphy.InvertTx | comphy.InvertRx)
	}
	if v, found := u32("pcie-width"); found {
		switch w := comphy.Width(v); w {
		case comphy.X1, comphy.X2, comphy.X4:
			d.Width = w
		default:
			return l, fmt.Errorf("pcie-width %d", v)
		}
	}
	_, d.ClkSrc = n.Properties["pcie-clk-ext"]
	if v, found := u32("max-retries"); found {
		l.Retries = int(v)
	}
	if b, found := n.Properties["xfi-params"]; found {
		v := t.PropUint32Slice(b)
		if len(v) != 11 {
			return l, fmt.Errorf("xfi-params: %d cells", len(v))
		}
		l.XFI = &cp110.XFIParams{
			G1FFEResSel:  uint8(v[0]),
			G1FFECapSel:  uint8(v[1]),
			Align90:      uint8(v[2]),
			G1DFERes:     uint8(v[3]),
			G1Amp:        uint8(v[4]),
			G1Emph:       uint8(v[5]),
			G1RxSelmuff:  uint8(v[6]),
			G1RxSelmufi:  uint8(v[7]),
			G1RxSelmupf:  uint8(v[8]),
			G1RxSelmupi:  uint8(v[9]),
			G1RxDigckDiv: uint8(v[10]),
			Polarity:     d.Invert,
			Valid:        true,
		}
	}
	amp, hasAmp := n.Properties["sata-amp"]
	emph, hasEmph := n.Properties["sata-emph"]
	if hasAmp || hasEmph {
		a, e := t.PropUint32Slice(amp), t.PropUint32Slice(emph)
		if len(a) != 3 || len(e) != 3 {
			return l, fmt.Errorf("sata-amp and sata-emph need 3 cells")
		}
		l.SATA = &cp110.SATAParams{Polarity: d.Invert}
		for i := range l.SATA.Amp {
			l.SATA.Amp[i] = uint8(a[i])
			l.SATA.Emph[i] = uint8(e[i])
		}
	}
	return l, nil
}
