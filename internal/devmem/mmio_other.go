// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// +build !amd64,!arm

package devmem

import (
	"sync/atomic"
	"unsafe"
)

// memio has no accessors for this architecture, arm64 included.

func load32(addr uintptr) uint32 {
	return atomic.LoadUint32((*uint32)(unsafe.Pointer(addr)))
}

func store32(addr uintptr, v uint32) {
	atomic.StoreUint32((*uint32)(unsafe.Pointer(addr)), v)
}

// load16 and store16 access the halfword directly; the following barrier
// orders them.
func load16(addr uintptr) uint16 {
	return *(*uint16)(unsafe.Pointer(addr))
}

func store16(addr uintptr, v uint16) {
	*(*uint16)(unsafe.Pointer(addr)) = v
}

var fence uint32

// barrier is a full fence: an atomic read-modify-write.
func barrier() { atomic.AddUint32(&fence, 0) }
