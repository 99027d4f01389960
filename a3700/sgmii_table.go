// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package a3700

// sgmiiInit40M1G25 is the full SGMII PHY register image for a 40 MHz
// reference and 1.25 Gbps.
var sgmiiInit40M1G25 = [512]uint16{
	0x3110, 0xfd83, 0x6430, 0x412f, 0x82c0, 0x06fa, 0x4500, 0x6d26, // 0x000
	0xafc0, 0x8000, 0xc000, 0x0000, 0x2000, 0x49cc, 0x0bc9, 0x2a52, // 0x008
	0x0bd2, 0x0cde, 0x13d2, 0x0ce8, 0x1149, 0x10e0, 0x0000, 0x0000, // 0x010
	0x0000, 0x0000, 0x0000, 0x0001, 0x0000, 0x4134, 0x0d2d, 0xffff, // 0x018
	0xffe0, 0x4030, 0x1016, 0x0030, 0x0000, 0x0800, 0x0866, 0x0000, // 0x020
	0x0000, 0x0000, 0xffff, 0xffff, 0xffff, 0xffff, 0xffff, 0xffff, // 0x028
	0xffff, 0xffff, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x030
	0x0000, 0x0000, 0x000f, 0x6a62, 0x1988, 0x3100, 0x3100, 0x3100, // 0x038
	0x3100, 0xa708, 0x2430, 0x0830, 0x1030, 0x4610, 0xff00, 0xff00, // 0x040
	0x0060, 0x1000, 0x0400, 0x0040, 0x00f0, 0x0155, 0x1100, 0xa02a, // 0x048
	0x06fa, 0x0080, 0xb008, 0xe3ed, 0x5002, 0xb592, 0x7a80, 0x0001, // 0x050
	0x020a, 0x8820, 0x6014, 0x8054, 0xacaa, 0xfc88, 0x2a02, 0x45cf, // 0x058
	0x000f, 0x1817, 0x2860, 0x064f, 0x0000, 0x0204, 0x1800, 0x6000, // 0x060
	0x810f, 0x4f23, 0x4000, 0x4498, 0x0850, 0x0000, 0x000e, 0x1002, // 0x068
	0x9d3a, 0x3009, 0xd066, 0x0491, 0x0001, 0x6ab0, 0x0399, 0x3780, // 0x070
	0x0040, 0x5ac0, 0x4a80, 0x0000, 0x01df, 0x0000, 0x0007, 0x0000, // 0x078
	0x2d54, 0x00a1, 0x4000, 0x0100, 0xa20a, 0x0000, 0x0000, 0x0000, // 0x080
	0x0000, 0x0000, 0x0000, 0x7400, 0x0e81, 0x1000, 0x1242, 0x0210, // 0x088
	0x80df, 0x0f1f, 0x2f3f, 0x4f5f, 0x6f7f, 0x0f1f, 0x2f3f, 0x4f5f, // 0x090
	0x6f7f, 0x4bad, 0x0000, 0x0000, 0x0800, 0x0000, 0x2400, 0xb651, // 0x098
	0xc9e0, 0x4247, 0x0a24, 0x0000, 0xaf19, 0x1004, 0x0000, 0x0000, // 0x0a0
	0x0000, 0x0013, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x0a8
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x0b0
	0x0000, 0x0000, 0x0000, 0x0060, 0x0000, 0x0000, 0x0000, 0x0000, // 0x0b8
	0x0000, 0x0000, 0x3010, 0xfa00, 0x0000, 0x0000, 0x0000, 0x0003, // 0x0c0
	0x1618, 0x8200, 0x8000, 0x0400, 0x050f, 0x0000, 0x0000, 0x0000, // 0x0c8
	0x4c93, 0x0000, 0x1000, 0x1120, 0x0010, 0x1242, 0x1242, 0x1e00, // 0x0d0
	0x0000, 0x0000, 0x0000, 0x00f8, 0x0000, 0x0041, 0x0800, 0x0000, // 0x0d8
	0x82a0, 0x572e, 0x2490, 0x14a9, 0x4e00, 0x0000, 0x0803, 0x0541, // 0x0e0
	0x0c15, 0x0000, 0x0000, 0x0400, 0x2626, 0x0000, 0x0000, 0x4200, // 0x0e8
	0x0000, 0xaa55, 0x1020, 0x0000, 0x0000, 0x5010, 0x0000, 0x0000, // 0x0f0
	0x0000, 0x0000, 0x5000, 0x0000, 0x0000, 0x0000, 0x02f2, 0x0000, // 0x0f8
	0x101f, 0xfdc0, 0x4000, 0x8010, 0x0110, 0x0006, 0x0000, 0x0000, // 0x100
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x108
	0x04cf, 0x0000, 0x04cf, 0x0000, 0x04cf, 0x0000, 0x04c6, 0x0000, // 0x110
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x118
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x120
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x128
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x130
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x138
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x140
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x148
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x150
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x158
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x160
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x168
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x170
	0x0000, 0x0000, 0x0000, 0x00f0, 0x08a2, 0x3112, 0x0a14, 0x0000, // 0x178
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x180
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x188
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x190
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x198
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x1a0
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x1a8
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x1b0
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x1b8
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x1c0
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x1c8
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x1d0
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x1d8
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x1e0
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x1e8
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x1f0
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x1f8
}

type sgmiiFix struct {
	addr  uint16
	value uint16
}

// sgmiiFix40M3G125 replaces registers of sgmiiInit40M1G25 for 3.125 Gbps,
// in address order.
var sgmiiFix40M3G125 = []sgmiiFix{
	{0x005, 0x07cc}, {0x015, 0x0000}, {0x01b, 0x0000}, {0x01d, 0x0000},
	{0x01e, 0x0000}, {0x01f, 0x0000}, {0x020, 0x0000}, {0x021, 0x0030},
	{0x026, 0x0888}, {0x04d, 0x0152}, {0x04f, 0xa020}, {0x050, 0x07cc},
	{0x053, 0xe9ca}, {0x055, 0xbd97}, {0x071, 0x3015}, {0x076, 0x03aa},
	{0x07c, 0x0fdf}, {0x0c2, 0x3030}, {0x0c3, 0x8000}, {0x0e2, 0x5550},
	{0x0e3, 0x12a4}, {0x0e4, 0x7d00}, {0x0e6, 0x0c83}, {0x101, 0xfcc0},
	{0x104, 0x0c10},
}
