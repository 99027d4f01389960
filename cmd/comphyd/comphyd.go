// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package comphyd provides the daemon that brings up the board's COMPHY
// lanes and publishes their state to redis.
package comphyd

import (
	"fmt"
	"io"
	"net/rpc"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/platinasystems/atsock"
	"github.com/platinasystems/comphy"
	"github.com/platinasystems/comphy/board"
	"github.com/platinasystems/comphy/cmd"
	"github.com/platinasystems/comphy/internal/devmem"
	"github.com/platinasystems/comphy/internal/reg"
	"github.com/platinasystems/comphy/lang"
	"github.com/platinasystems/log"
	"github.com/platinasystems/redis"
	"github.com/platinasystems/redis/publisher"
	"github.com/platinasystems/redis/rpc/args"
	"github.com/platinasystems/redis/rpc/reply"
)

const (
	Name         = "comphyd"
	DefaultTree  = "/sys/firmware/fdt"
	pollInterval = 5 * time.Second
)

type Bus interface {
	reg.Bus
	io.Closer
}

type Command struct {
	Info
	// Tree is the device tree blob; empty is DefaultTree.
	Tree string
	// Open maps the controller windows; nil is /dev/mem.
	Open func(windows ...uintptr) (Bus, error)
}

type Info struct {
	mutex sync.Mutex
	rpc   *atsock.RpcServer
	pub   *publisher.Publisher
	stop  chan struct{}
	last  map[string]string

	// publish is pub.Print of "key: value" lines.
	publish func(key string, value interface{})

	smc       comphy.SMC
	training  comphy.TrainingState
	instances []*instance
}

// instance is one comphy block and its redis key prefix, "comphy." for the
// first and "comphyN." for the others.
type instance struct {
	prefix string
	cfg    board.Config
	bus    Bus
	ctrl   comphy.Controller
	desc   map[int]comphy.Descriptor
	status map[int]int32
}

func (*Command) String() string { return Name }

func (*Command) Usage() string { return Name }

func (*Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "COMPHY lane daemon, publishes to redis",
	}
}

func (*Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	comphyd powers on the lanes of each comphy node in the board device
	tree, then publishes, every five seconds,

		comphy.laneN.mode	routed protocol
		comphy.laneN.status	last firmware call status
		comphy.laneN.trained	XFI receiver training done
		comphy.laneN.request	id of the last call

	Lanes of the second and later nodes use comphy1., comphy2., ...

	These fields may be set with hset:

		comphy.laneN.mode MODE[:SPEED]	power off, then on in MODE
		comphy.laneN.power on|off
		comphy.laneN.train true`,
	}
}

func (*Command) Kind() cmd.Kind { return cmd.Daemon }

func (c *Command) Main(...string) error {
	err := redis.IsReady()
	if err != nil {
		return err
	}

	tree := c.Tree
	if len(tree) == 0 {
		tree = DefaultTree
	}
	configs, err := board.ReadFile(tree)
	if err != nil {
		return err
	}

	c.stop = make(chan struct{})
	c.last = make(map[string]string)

	if c.pub, err = publisher.New(); err != nil {
		return err
	}
	c.publish = func(key string, value interface{}) {
		c.pub.Print(key, ": ", value)
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
	if err = c.start(configs, open); err != nil {
		return err
	}
	defer c.release()

	if c.rpc, err = atsock.NewRpcServer(Name); err != nil {
		return err
	}

	rpc.Register(&c.Info)
	err = redis.Assign(redis.DefaultHash+":comphy", Name, "Info")
	if err != nil {
		return err
	}

	t := time.NewTicker(pollInterval)
	defer t.Stop()
	for {
		select {
		case <-c.stop:
			return nil
		case <-t.C:
			c.update()
		}
	}
}

func (c *Command) Close() error {
	if c.stop == nil {
		return nil
	}
	select {
	case <-c.stop:
	default:
		close(c.stop)
	}
	return nil
}

// start maps each block, registers its controller, and powers on the
// described lanes as the OS.
func (i *Info) start(configs []board.Config,
	open func(...uintptr) (Bus, error)) error {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	for n, cfg := range configs {
		bus, err := open(cfg.Windows()...)
		if err != nil {
			return err
		}
		x := &instance{
			prefix: "comphy.",
			cfg:    cfg,
			bus:    bus,
			ctrl:   cfg.Controller(bus, &i.training),
			desc:   make(map[int]comphy.Descriptor),
			status: make(map[int]int32),
		}
		if n > 0 {
			x.prefix = fmt.Sprint("comphy", n, ".")
		}
		i.instances = append(i.instances, x)
		i.smc.Register(cfg.Base, x.ctrl)
		for _, l := range cfg.Lanes {
			d := l.Descriptor
			d.Origin = comphy.OS
			x.desc[l.Index] = d
			r := comphy.Retry{Tries: l.Retries, Stop: i.stop}
			err := r.PowerOn(x.ctrl, l.Index, d)
			x.status[l.Index] = comphy.Status(err)
			if err != nil {
				log.Print("daemon", "err", cfg, ": ", err)
			}
		}
		log.Print("daemon", "info", cfg, ": ", len(cfg.Lanes), " lanes")
	}
	return nil
}

func (i *Info) release() {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	for _, x := range i.instances {
		x.bus.Close()
	}
	i.instances = nil
}

type trainer interface {
	IsTrained(lane int) bool
}

func (i *Info) set(key string, value interface{}) {
	s := fmt.Sprint(value)
	if i.last[key] != s {
		i.publish(key, s)
		i.last[key] = s
	}
}

// update publishes the changed lane fields.
func (i *Info) update() {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	for _, x := range i.instances {
		mg, _ := x.ctrl.(comphy.ModeGetter)
		tr, _ := x.ctrl.(trainer)
		for n := 0; n < x.ctrl.Lanes(); n++ {
			key := fmt.Sprint(x.prefix, "lane", n, ".")
			if mg != nil {
				i.set(key+"mode", mg.GetMode(n))
			}
			if status, found := x.status[n]; found {
				i.set(key+"status", status)
			}
			if tr != nil {
				i.set(key+"trained", tr.IsTrained(n))
			}
		}
	}
}

func (i *Info) Hset(args args.Hset, reply *reply.Hset) error {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	v := strings.TrimRight(string(args.Value), "\n")
	x, lane, field, err := i.parseField(args.Field)
	if err != nil {
		return err
	}
	d, found := x.desc[lane]
	if !found {
		d.Speed = comphy.SpeedDefault
	}
	d.Origin = comphy.OS

	type call struct {
		fn comphy.Function
		d  comphy.Descriptor
	}
	var calls []call
	switch field {
	case "mode":
		mode, speed := v, ""
		if colon := strings.Index(v, ":"); colon > 0 {
			mode, speed = v[:colon], v[colon+1:]
		}
		if d.Mode, err = comphy.ParseMode(mode); err != nil {
			return err
		}
		if len(speed) > 0 {
			if d.Speed, err = comphy.ParseSpeed(speed); err != nil {
				return err
			}
		}
		// the old mode is read back from the selector
		calls = []call{
			{comphy.FnPowerOff, comphy.Descriptor{Origin: comphy.OS}},
			{comphy.FnPowerOn, d},
		}
	case "power":
		switch v {
		case "on":
			calls = []call{{comphy.FnPowerOn, d}}
		case "off":
			calls = []call{{comphy.FnPowerOff, d}}
		default:
			return fmt.Errorf("%s: %q: not on or off", args.Field, v)
		}
	case "train":
		if t, err := strconv.ParseBool(v); err != nil || !t {
			return fmt.Errorf("%s: %q: not true", args.Field, v)
		}
		calls = []call{{comphy.FnXFITrain, d}}
	default:
		return fmt.Errorf("cannot hset: %s", args.Field)
	}

	key := fmt.Sprint(x.prefix, "lane", lane, ".")
	var status int32
	for _, c := range calls {
		r := comphy.NewRequest(c.fn, x.cfg.Base, lane, c.d.Encode())
		i.set(key+"request", r.ID)
		status, err = i.smc.Call(r)
		if status != 0 {
			break
		}
	}
	x.status[lane] = status
	i.set(key+"status", status)
	if status != 0 {
		return err
	}
	x.desc[lane] = d
	*reply = 1
	return nil
}

// parseField splits "comphy[N].laneL.FIELD".
func (i *Info) parseField(s string) (x *instance, lane int, field string,
	err error) {
	parts := strings.SplitN(s, ".", 3)
	if len(parts) != 3 || !strings.HasPrefix(parts[1], "lane") {
		err = fmt.Errorf("cannot hset: %s", s)
		return
	}
	for _, y := range i.instances {
		if y.prefix == parts[0]+"." {
			x = y
		}
	}
	if x == nil {
		err = fmt.Errorf("%s: no such comphy", s)
		return
	}
	lane, err = strconv.Atoi(strings.TrimPrefix(parts[1], "lane"))
	if err != nil || lane < 0 || lane >= x.ctrl.Lanes() {
		err = fmt.Errorf("%s: no such lane: %w", s,
			comphy.InvalidConfiguration)
		return
	}
	field = parts[2]
	return
}
