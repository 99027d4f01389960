// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package cp110

// apPowerOn routes a lane to the AP MAC; the AP completes bring-up.
func (l *lane) apPowerOn() error {
	if err := l.c.setPhySelector(l.n, l.d); err != nil {
		return err
	}
	l.powerUp()
	return nil
}
