// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package comphy

import (
	"errors"
	"fmt"
	"time"

	"github.com/jpillora/backoff"
	"github.com/platinasystems/log"
)

const DefaultRetries = 3

// Retry repeats PowerOn while it times out. Controllers never retry on
// their own; a board that needs a second PLL attempt asks for it here.
type Retry struct {
	// Tries is the maximum number of PowerOn calls; zero means
	// DefaultRetries.
	Tries int
	// Backoff paces the attempts; the zero value waits 100ms, doubling
	// up to 10s.
	Backoff backoff.Backoff
	// Stop, when closed, abandons remaining attempts.
	Stop <-chan struct{}
}

// PowerOn returns the first success or non-timeout error, otherwise the
// last timeout.
func (r *Retry) PowerOn(c Controller, lane int, d Descriptor) error {
	tries := r.Tries
	if tries <= 0 {
		tries = DefaultRetries
	}
	r.Backoff.Reset()
	var err error
	for try := 1; ; try++ {
		err = c.PowerOn(lane, d)
		if err == nil || !errors.Is(err, Timeout) || try >= tries {
			break
		}
		wait := r.Backoff.Duration()
		log.Print("comphy", lane, ": ", d.Mode, " try ", try, ": ", err,
			"; retrying in ", wait)
		select {
		case <-r.Stop:
			return fmt.Errorf("comphy%d: stopped after %d tries: %w",
				lane, try, err)
		case <-time.After(wait):
		}
	}
	return err
}
