// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package devmem maps physical register windows through /dev/mem.
package devmem

import (
	"fmt"
	"os"
	"sync"
	"syscall"
	"unsafe"

	"github.com/platinasystems/comphy/internal/iomem"
	"github.com/platinasystems/log"
)

const File = "/dev/mem"

type window struct {
	base uintptr
	mem  []byte
}

// Mem is a reg.Bus over the mapped windows. Accesses outside every window
// panic.
type Mem struct {
	mutex   sync.Mutex
	f       *os.File
	windows []window
}

// Open maps [base, base+size) for each pair in windows. With check, a
// window already claimed by a kernel driver in /proc/iomem is logged.
func Open(check bool, windows ...uintptr) (*Mem, error) {
	if len(windows)%2 != 0 {
		return nil, fmt.Errorf("devmem: odd window list")
	}
	f, err := os.OpenFile(File, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, err
	}
	m := &Mem{f: f}
	var claims iomem.Map
	if check {
		claims, err = iomem.ParseFile(iomem.File)
		if err != nil {
			log.Print("warn", err)
		}
	}
	pageMask := uintptr(os.Getpagesize() - 1)
	for i := 0; i < len(windows); i += 2 {
		base := windows[i] &^ pageMask
		size := (windows[i] + windows[i+1] - base + pageMask) &^ pageMask
		if r, found := claims.Claimed(base, base+size-1); found {
			log.Printf("warn", "%#x: claimed by %s", base, r.What)
		}
		mem, err := syscall.Mmap(int(f.Fd()), int64(base), int(size),
			syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
		if err != nil {
			m.Close()
			return nil, fmt.Errorf("devmem: mmap %#x: %v", base, err)
		}
		m.windows = append(m.windows, window{base, mem})
	}
	return m, nil
}

func (m *Mem) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for _, w := range m.windows {
		syscall.Munmap(w.mem)
	}
	m.windows = nil
	if m.f == nil {
		return nil
	}
	err := m.f.Close()
	m.f = nil
	return err
}

// addr is the process address of a mapped physical address. The windows
// are outside the Go heap.
func (m *Mem) addr(pa uintptr, size uintptr) uintptr {
	for _, w := range m.windows {
		if pa >= w.base && pa+size <= w.base+uintptr(len(w.mem)) {
			return uintptr(unsafe.Pointer(&w.mem[pa-w.base]))
		}
	}
	panic(fmt.Errorf("devmem: %#x: not mapped", pa))
}

func (m *Mem) Read32(pa uintptr) uint32 {
	return load32(m.addr(pa, 4))
}

func (m *Mem) Write32(pa uintptr, v uint32) {
	store32(m.addr(pa, 4), v)
	barrier()
}

func (m *Mem) Read16(pa uintptr) uint16 {
	return load16(m.addr(pa, 2))
}

func (m *Mem) Write16(pa uintptr, v uint16) {
	store16(m.addr(pa, 2), v)
	barrier()
}
