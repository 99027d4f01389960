// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// +build arm

package devmem

import (
	"unsafe"

	"github.com/platinasystems/memio"
)

// memio has no 16-bit arm accessors.
var (
	load32  = memio.LoadUint32
	store32 = memio.StoreUint32
	barrier = memio.MemoryBarrier
)

func load16(addr uintptr) uint16 {
	return *(*uint16)(unsafe.Pointer(addr))
}

func store16(addr uintptr, v uint16) {
	*(*uint16)(unsafe.Pointer(addr)) = v
}
