// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package comphy

// Error is the closed set of lane failures. Controllers wrap these with the
// lane and step, so test with errors.Is.
type Error int

const (
	// InvalidConfiguration is an undefined lane/mode pair, an
	// unsupported speed, or an invalid calibration entry.
	InvalidConfiguration Error = iota + 1
	// Timeout is an expired PLL, RX init, or training poll.
	Timeout
	// TrainingFailed is a failure reported by RX training hardware.
	TrainingFailed
)

func (e Error) Error() string {
	switch e {
	case InvalidConfiguration:
		return "invalid configuration"
	case Timeout:
		return "timeout"
	case TrainingFailed:
		return "training failed"
	}
	return "unknown error"
}

// Errno is the negative firmware call status for e.
func (e Error) Errno() int32 {
	switch e {
	case InvalidConfiguration:
		return -22 // EINVAL
	case Timeout:
		return -110 // ETIMEDOUT
	case TrainingFailed:
		return -5 // EIO
	}
	return -1
}
