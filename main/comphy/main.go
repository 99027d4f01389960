// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// This is the comphy command and, when run as comphyd, its daemon.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/platinasystems/comphy/cmd"
	"github.com/platinasystems/comphy/cmd/comphy"
	"github.com/platinasystems/comphy/cmd/comphyd"
	"github.com/platinasystems/log"
)

type closer interface {
	Close() error
}

func main() {
	byName := make(map[string]cmd.Cmd)
	for _, v := range []cmd.Cmd{
		comphy.Command{},
		&comphyd.Command{},
	} {
		byName[v.String()] = v
	}

	args := os.Args
	name := filepath.Base(args[0])
	if _, found := byName[name]; !found && len(args) > 1 {
		name, args = args[1], args[1:]
	}
	v, found := byName[name]
	if !found {
		fmt.Fprintln(os.Stderr, "usage:")
		for _, v := range byName {
			fmt.Fprintln(os.Stderr, "\t", v.Usage())
		}
		os.Exit(1)
	}

	if cmd.WhatKind(v).IsDaemon() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGTERM, os.Interrupt)
		go func() {
			<-sig
			if c, ok := v.(closer); ok {
				c.Close()
			}
		}()
	}

	if err := v.Main(args[1:]...); err != nil {
		if cmd.WhatKind(v).IsDaemon() {
			log.Print("daemon", "err", v, ": ", err)
		} else {
			fmt.Fprintln(os.Stderr, v, ":", err)
		}
		os.Exit(1)
	}
}
