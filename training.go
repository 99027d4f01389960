// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package comphy

import "sync"

const (
	APNum     = 1
	CPNum     = 3
	MaxLaneNR = 6
)

// TrainingState records the lanes whose XFI receiver training completed.
// It lives for the whole boot; there is no reset.
type TrainingState struct {
	mutex sync.Mutex
	done  [APNum][CPNum][MaxLaneNR]bool
}

func inRange(ap, cp, lane int) bool {
	return ap >= 0 && ap < APNum && cp >= 0 && cp < CPNum &&
		lane >= 0 && lane < MaxLaneNR
}

func (ts *TrainingState) IsTrained(ap, cp, lane int) bool {
	if ts == nil || !inRange(ap, cp, lane) {
		return false
	}
	ts.mutex.Lock()
	defer ts.mutex.Unlock()
	return ts.done[ap][cp][lane]
}

func (ts *TrainingState) MarkTrained(ap, cp, lane int) {
	if ts == nil || !inRange(ap, cp, lane) {
		return
	}
	ts.mutex.Lock()
	defer ts.mutex.Unlock()
	ts.done[ap][cp][lane] = true
}
