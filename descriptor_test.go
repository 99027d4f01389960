// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package comphy

import (
	"testing"

	. "gopkg.in/check.v1"
)

func Test(t *testing.T) { TestingT(t) }

type DescriptorSuite struct{}

var _ = Suite(&DescriptorSuite{})

func (s *DescriptorSuite) TestFields(c *C) {
	for _, x := range []struct {
		d Descriptor
		v uint32
	}{
		{Descriptor{Invert: InvertTx}, 0x1},
		{Descriptor{Invert: InvertTx | InvertRx}, 0x3},
		{Descriptor{Speed: Speed10_3125G}, 6 << 2},
		{Descriptor{Speed: SpeedMax}, 0x3f << 2},
		{Descriptor{Unit: 0xf}, 0xf << 8},
		{Descriptor{Mode: SATA}, 0x1 << 12},
		{Descriptor{Mode: AP}, 0xb << 12},
		{Descriptor{ClkSrc: true}, 1 << 17},
		{Descriptor{Width: X4}, 4 << 18},
		{Descriptor{Origin: Bootloader}, 1 << 21},
	} {
		c.Check(x.d.Encode(), Equals, x.v, Commentf("%v", x.d))
		c.Check(Decode(x.v), DeepEquals, x.d)
	}
}

func (s *DescriptorSuite) TestPCIeX2(c *C) {
	d := Descriptor{
		Mode:   PCIE,
		Width:  X2,
		ClkSrc: true,
		Origin: Bootloader,
		Speed:  Speed5G,
	}
	c.Assert(d.Encode(), Equals, uint32(0x2a600c))
	c.Assert(Decode(0x2a600c), DeepEquals, d)
}

func (s *DescriptorSuite) TestTruncation(c *C) {
	// x8 and wider have no encoding; only the low three bits survive.
	c.Assert(Descriptor{Width: X8}.Encode(), Equals, uint32(0))
	c.Assert(Descriptor{Unit: 0x13}.Encode(), Equals, uint32(0x3<<8))
	c.Assert(Decode(0xffffffff).Mode, Equals, Mode(0x1f))
}

func (s *DescriptorSuite) TestParse(c *C) {
	for _, name := range []string{"SATA", "xfi", "hs-sgmii", "2500base-x"} {
		m, err := ParseMode(name)
		c.Check(err, IsNil)
		c.Check(m, Not(Equals), Unset)
	}
	_, err := ParseMode("ethernet")
	c.Assert(err, ErrorMatches, `"ethernet": unknown mode: .*`)

	speed, err := ParseSpeed("10.3125g")
	c.Assert(err, IsNil)
	c.Assert(speed, Equals, Speed10_3125G)
}

func (s *DescriptorSuite) TestStrings(c *C) {
	c.Check(Unused.String(), Equals, "unused")
	c.Check(Mode(0x1e).String(), Equals, "mode(30)")
	c.Check(Descriptor{Mode: SGMII, Unit: 1}.String(), Equals,
		"sgmii unit 1 speed 1.25G invert none")
	c.Check(Descriptor{Mode: PCIE, Width: X4, ClkSrc: true}.String(),
		Equals, "pcie unit 0 speed 1.25G invert none width x4 origin os clk ext")
}
