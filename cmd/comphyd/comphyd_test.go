// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package comphyd

import (
	"testing"

	"github.com/platinasystems/comphy"
	"github.com/platinasystems/comphy/board"
	"github.com/platinasystems/comphy/cmd"
	"github.com/platinasystems/comphy/internal/reg/regtest"
	"github.com/platinasystems/comphy/internal/test"
	"github.com/platinasystems/redis/rpc/args"
	"github.com/platinasystems/redis/rpc/reply"
)

type spyBus struct {
	*regtest.Spy
	closed int
}

func (b *spyBus) Close() error {
	b.closed++
	return nil
}

type published struct {
	n      int
	values map[string]string
}

func newInfo(t *testing.T) (*Info, *spyBus, *published) {
	pub := &published{values: make(map[string]string)}
	i := &Info{
		last: make(map[string]string),
		publish: func(key string, value interface{}) {
			pub.n++
			pub.values[key] = value.(string)
		},
	}
	bus := &spyBus{Spy: regtest.New()}
	// cp0 lane 2 SD PLL and RX init
	bus.Ready(0xf2122018, 0x1c)
	configs := []board.Config{
		{
			Variant: board.CP110,
			Base:    0xf2441000,
			RefClk:  25,
			Lanes: []board.Lane{
				{Index: 0, Descriptor: comphy.Descriptor{
					Mode:  comphy.PCIE,
					Width: comphy.X4,
				}},
				{Index: 2, Descriptor: comphy.Descriptor{
					Mode:  comphy.SGMII,
					Speed: comphy.Speed1_25G,
				}},
			},
		},
		board.Default(board.A3700),
	}
	err := i.start(configs, func(...uintptr) (Bus, error) {
		return bus, nil
	})
	test.Assert{TB: t}.Nil(err)
	return i, bus, pub
}

func hset(i *Info, field, value string) (reply.Hset, error) {
	var r reply.Hset
	err := i.Hset(args.Hset{Field: field, Value: []byte(value)}, &r)
	return r, err
}

func TestKind(t *testing.T) {
	test.Assert{TB: t}.True(cmd.WhatKind(new(Command)).IsDaemon())
}

func TestUpdate(t *testing.T) {
	assert := test.Assert{TB: t}
	i, bus, pub := newInfo(t)
	i.update()
	assert.Equal(pub.values["comphy.lane2.mode"], "sgmii")
	assert.Equal(pub.values["comphy.lane2.status"], "0")
	assert.Equal(pub.values["comphy.lane2.trained"], "false")
	assert.Equal(pub.values["comphy.lane0.status"], "0")
	assert.Equal(pub.values["comphy1.lane0.mode"], "sgmii")
	assert.Equal(pub.values["comphy1.lane2.mode"], "sata")
	_, found := pub.values["comphy.lane1.status"]
	assert.False(found)
	_, found = pub.values["comphy1.lane0.trained"]
	assert.False(found)

	n := pub.n
	i.update()
	assert.Equal(pub.n, n)

	i.release()
	assert.Equal(bus.closed, 2)
}

func TestHsetMode(t *testing.T) {
	assert := test.Assert{TB: t}
	i, _, pub := newInfo(t)
	r, err := hset(i, "comphy.lane2.mode", "2500base-x:3.125G\n")
	assert.Nil(err)
	assert.Equal(r, 1)
	assert.Equal(i.instances[0].desc[2].Mode, comphy.HSSGMII)
	assert.Equal(i.instances[0].desc[2].Speed, comphy.Speed3_125G)
	assert.Equal(pub.values["comphy.lane2.status"], "0")
	assert.True(len(pub.values["comphy.lane2.request"]) > 0)

	r, err = hset(i, "comphy.lane2.power", "off")
	assert.Nil(err)
	assert.Equal(r, 1)
}

func TestHsetErrors(t *testing.T) {
	assert := test.Assert{TB: t}
	i, _, pub := newInfo(t)

	_, err := hset(i, "comphy.lane9.power", "on")
	assert.Is(err, comphy.InvalidConfiguration)

	for field, value := range map[string]string{
		"comphy.lane2.power": "maybe",
		"comphy3.lane0.power": "on",
		"comphy.lane2.color":  "blue",
		"comphy.lanes":        "",
		"comphy.lane2.mode":   "ethernet",
		"comphy.lane2.train":  "no",
	} {
		r, err := hset(i, field, value)
		assert.True(err != nil)
		assert.Equal(r, 0)
	}

	_, err = hset(i, "comphy.lane2.train", "true")
	assert.True(err != nil)
	assert.True(pub.values["comphy.lane2.status"] != "0")

	_, err = hset(i, "comphy1.lane1.train", "true")
	assert.Is(err, comphy.InvalidConfiguration)

	// USB3 PLL never locks on lane 2
	_, err = hset(i, "comphy.lane2.mode", "usb3h")
	assert.Is(err, comphy.Timeout)
	assert.Equal(pub.values["comphy.lane2.status"], "-110")
	assert.Equal(i.instances[0].desc[2].Mode, comphy.SGMII)
}

func TestClose(t *testing.T) {
	assert := test.Assert{TB: t}
	c := new(Command)
	assert.Nil(c.Close())
	c.stop = make(chan struct{})
	assert.Nil(c.Close())
	assert.Nil(c.Close())
	_, open := <-c.stop
	assert.False(open)
}
