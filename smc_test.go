// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package comphy

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jpillora/backoff"
	"github.com/platinasystems/comphy/internal/test"
)

// fake records calls and fails PowerOn with the queued errors.
type fake struct {
	lanes  int
	calls  []string
	errs   []error
	resets []ResetCommand
}

func (f *fake) next() error {
	if len(f.errs) == 0 {
		return nil
	}
	err := f.errs[0]
	f.errs = f.errs[1:]
	return err
}

func (f *fake) PowerOn(lane int, d Descriptor) error {
	f.calls = append(f.calls, fmt.Sprint("on ", lane, " ", d.Mode))
	return f.next()
}

func (f *fake) PowerOff(lane int, d Descriptor) error {
	f.calls = append(f.calls, fmt.Sprint("off ", lane, " ", d.Mode))
	if d.Mode == PCIE {
		return fmt.Errorf("comphy%d: %w", lane, NotImplemented)
	}
	return nil
}

func (f *fake) IsPLLLocked(lane int, d Descriptor) error {
	f.calls = append(f.calls, fmt.Sprint("pll ", lane))
	return fmt.Errorf("comphy%d: %w", lane, Timeout)
}

func (f *fake) Lanes() int { return f.lanes }

type fakeTrainer struct{ fake }

func (f *fakeTrainer) XFIRxTraining(lane int) error {
	f.calls = append(f.calls, fmt.Sprint("train ", lane))
	return fmt.Errorf("comphy%d: %w", lane, TrainingFailed)
}

func (f *fakeTrainer) DigitalReset(lane int, mode Mode, cmd ResetCommand) error {
	f.calls = append(f.calls, fmt.Sprint("reset ", lane, " ", mode, " ", cmd))
	return nil
}

func TestStatus(t *testing.T) {
	assert := test.Assert{TB: t}
	for err, status := range map[error]int32{
		nil:                  0,
		InvalidConfiguration: -22,
		Timeout:              -110,
		TrainingFailed:       -5,
		NotImplemented:       0,
		errors.New("other"):  -22,
		fmt.Errorf("comphy1: sata: %w", Timeout): -110,
	} {
		assert.Equal(Status(err), status)
	}
}

func TestSMCRouting(t *testing.T) {
	assert := test.Assert{TB: t}
	a, b := &fake{lanes: 3}, &fakeTrainer{fake{lanes: 6}}
	var smc SMC
	smc.Register(0xd0018300, a)
	smc.Register(0xf2441000, b)

	status, err := smc.Call(NewRequest(FnPowerOn, 0, 2,
		Descriptor{Mode: SATA}.Encode()))
	assert.Nil(err)
	assert.Equal(status, 0)
	assert.Equal(a.calls, []string{"on 2 sata"})

	status, err = smc.Call(NewRequest(FnPowerOn, 0, 3, 0))
	assert.Is(err, InvalidConfiguration)
	assert.Equal(status, -22)
	assert.Equal(len(a.calls), 1)

	status, _ = smc.Call(NewRequest(FnPowerOn, 0xf0000000, 0, 0))
	assert.Equal(status, -22)

	status, _ = smc.Call(NewRequest(FnPowerOn, 0xf2441000, 5,
		Descriptor{Mode: XFI}.Encode()))
	assert.Equal(status, 0)

	status, _ = smc.Call(NewRequest(FnPLLLock, 0xf2441000, 5, 0))
	assert.Equal(status, -110)

	status, _ = smc.Call(NewRequest(FnXFITrain, 0xf2441000, 5, 0))
	assert.Equal(status, -5)

	status, _ = smc.Call(NewRequest(FnXFITrain, 0, 1, 0))
	assert.Equal(status, -22)

	r := NewRequest(FnDigReset, 0xf2441000, 4,
		Descriptor{Mode: SFI}.Encode())
	r.Cmd = DigitalPowerOff
	status, _ = smc.Call(r)
	assert.Equal(status, 0)

	status, err = smc.Call(NewRequest(FnPowerOff, 0xf2441000, 0,
		Descriptor{Mode: PCIE}.Encode()))
	assert.Is(err, NotImplemented)
	assert.Equal(status, 0)

	status, _ = smc.Call(NewRequest(Function(0x82000009), 0, 0, 0))
	assert.Equal(status, -22)

	assert.Equal(b.calls, []string{
		"on 5 xfi",
		"pll 5",
		"train 5",
		"reset 4 sfi off",
		"off 0 pcie",
	})
}

func TestRequestIDs(t *testing.T) {
	assert := test.Assert{TB: t}
	r1 := NewRequest(FnPowerOn, 0, 0, 0)
	r2 := NewRequest(FnPowerOn, 0, 0, 0)
	assert.False(r1.ID == r2.ID)
	assert.Equal(r1, "power-on base 0x0 lane 0 arg 0x0")
}

func fastRetry(tries int) *Retry {
	return &Retry{
		Tries:   tries,
		Backoff: backoff.Backoff{Min: time.Microsecond, Max: time.Millisecond},
	}
}

func TestRetry(t *testing.T) {
	assert := test.Assert{TB: t}
	d := Descriptor{Mode: SGMII}

	f := &fake{lanes: 3, errs: []error{
		fmt.Errorf("comphy0: %w", Timeout),
		fmt.Errorf("comphy0: %w", Timeout),
	}}
	assert.Nil(fastRetry(3).PowerOn(f, 0, d))
	assert.Equal(len(f.calls), 3)

	f = &fake{lanes: 3, errs: []error{
		fmt.Errorf("comphy0: %w", Timeout),
		fmt.Errorf("comphy0: %w", InvalidConfiguration),
		nil,
	}}
	assert.Is(fastRetry(3).PowerOn(f, 0, d), InvalidConfiguration)
	assert.Equal(len(f.calls), 2)

	f = &fake{lanes: 3, errs: []error{Timeout, Timeout, Timeout, Timeout}}
	assert.Is(fastRetry(2).PowerOn(f, 0, d), Timeout)
	assert.Equal(len(f.calls), 2)
}

func TestRetryStop(t *testing.T) {
	assert := test.Assert{TB: t}
	stop := make(chan struct{})
	close(stop)
	r := &Retry{
		Backoff: backoff.Backoff{Min: time.Hour, Max: time.Hour},
		Stop:    stop,
	}
	f := &fake{lanes: 3, errs: []error{Timeout, nil}}
	err := r.PowerOn(f, 1, Descriptor{Mode: SATA})
	assert.Is(err, Timeout)
	assert.Error(err, "comphy1: stopped after 1 tries: timeout")
	assert.Equal(len(f.calls), 1)
}

func TestTrainingState(t *testing.T) {
	assert := test.Assert{TB: t}
	var ts TrainingState
	assert.False(ts.IsTrained(0, 1, 4))
	ts.MarkTrained(0, 1, 4)
	assert.True(ts.IsTrained(0, 1, 4))
	assert.False(ts.IsTrained(0, 2, 4))

	ts.MarkTrained(1, 0, 0)
	ts.MarkTrained(0, CPNum, 0)
	ts.MarkTrained(0, 0, MaxLaneNR)
	assert.False(ts.IsTrained(1, 0, 0))
	assert.False(ts.IsTrained(0, 0, -1))

	var nilState *TrainingState
	nilState.MarkTrained(0, 0, 0)
	assert.False(nilState.IsTrained(0, 0, 0))
}
