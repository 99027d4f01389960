// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// +build amd64

package devmem

import "github.com/platinasystems/memio"

var (
	load32  = memio.LoadUint32
	store32 = memio.StoreUint32
	load16  = memio.LoadUint16
	store16 = memio.StoreUint16
	barrier = memio.MemoryBarrier
)
