// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package regtest provides a simulated register bus that records every
// access.
package regtest

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

type Op struct {
	Write bool
	Width int
	Addr  uintptr
	Value uint32
}

func (op Op) String() string {
	rw := "r"
	if op.Write {
		rw = "w"
	}
	return fmt.Sprintf("%s%d %#08x %#x", rw, op.Width, op.Addr, op.Value)
}

// Spy is a sparse register memory. Unwritten registers read as zero unless
// a hook or Script supplies a value.
type Spy struct {
	mutex sync.Mutex
	mem   map[uintptr]uint32
	hooks map[uintptr]func(uint32) uint32

	// Log has every access in order.
	Log     []Op
	Delayed time.Duration
	Delays  int
}

func New() *Spy {
	return &Spy{
		mem:   make(map[uintptr]uint32),
		hooks: make(map[uintptr]func(uint32) uint32),
	}
}

// Poke stores v without logging.
func (s *Spy) Poke(addr uintptr, v uint32) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.mem[addr] = v
}

// Peek returns the stored value without logging or hooks.
func (s *Spy) Peek(addr uintptr) uint32 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.mem[addr]
}

// OnRead replaces reads of addr with f(stored value).
func (s *Spy) OnRead(addr uintptr, f func(uint32) uint32) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.hooks[addr] = f
}

// Ready makes addr always read with bits set.
func (s *Spy) Ready(addr uintptr, bits uint32) {
	s.OnRead(addr, func(v uint32) uint32 { return v | bits })
}

// Script makes successive reads of addr return values in turn, the last
// value repeating.
func (s *Spy) Script(addr uintptr, values ...uint32) {
	i := 0
	s.OnRead(addr, func(uint32) uint32 {
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v
	})
}

func (s *Spy) read(addr uintptr, width int) uint32 {
	s.mutex.Lock()
	v := s.mem[addr]
	f := s.hooks[addr]
	s.mutex.Unlock()
	if f != nil {
		v = f(v)
	}
	s.mutex.Lock()
	s.Log = append(s.Log, Op{false, width, addr, v})
	s.mutex.Unlock()
	return v
}

func (s *Spy) write(addr uintptr, width int, v uint32) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.mem[addr] = v
	s.Log = append(s.Log, Op{true, width, addr, v})
}

func (s *Spy) Read32(addr uintptr) uint32 { return s.read(addr, 32) }
func (s *Spy) Read16(addr uintptr) uint16 { return uint16(s.read(addr, 16)) }

func (s *Spy) Write32(addr uintptr, v uint32) { s.write(addr, 32, v) }
func (s *Spy) Write16(addr uintptr, v uint16) { s.write(addr, 16, uint32(v)) }

// Delay advances the simulated clock.
func (s *Spy) Delay(d time.Duration) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.Delays++
	s.Delayed += d
}

// Writes returns the logged writes.
func (s *Spy) Writes() []Op {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	var w []Op
	for _, op := range s.Log {
		if op.Write {
			w = append(w, op)
		}
	}
	return w
}

// WritesTo returns the values written to addr in order.
func (s *Spy) WritesTo(addr uintptr) []uint32 {
	var v []uint32
	for _, op := range s.Writes() {
		if op.Addr == addr {
			v = append(v, op.Value)
		}
	}
	return v
}

// Reads counts logged reads of addr.
func (s *Spy) Reads(addr uintptr) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	n := 0
	for _, op := range s.Log {
		if !op.Write && op.Addr == addr {
			n++
		}
	}
	return n
}

// Reset clears the log and the clock but keeps memory and hooks.
func (s *Spy) Reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.Log = s.Log[:0]
	s.Delays = 0
	s.Delayed = 0
}

// Snapshot copies the register memory.
func (s *Spy) Snapshot() map[uintptr]uint32 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	m := make(map[uintptr]uint32, len(s.mem))
	for k, v := range s.mem {
		m[k] = v
	}
	return m
}

// Dump formats the register memory in address order.
func (s *Spy) Dump() string {
	m := s.Snapshot()
	addrs := make([]uintptr, 0, len(m))
	for addr := range m {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	var out string
	for _, addr := range addrs {
		out += fmt.Sprintf("%#08x: %#08x\n", addr, m[addr])
	}
	return out
}
