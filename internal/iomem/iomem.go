// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package iomem parses /proc/iomem to find the physical ranges claimed by
// kernel drivers.
package iomem

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const File = "/proc/iomem"

type Range struct {
	Start, End uintptr
	// Depth is the nesting level given by the line's indentation.
	Depth int
	What  string
}

func (r Range) String() string {
	return fmt.Sprintf("%x-%x : %s", r.Start, r.End, r.What)
}

func (r Range) Contains(start, end uintptr) bool {
	return start >= r.Start && end <= r.End
}

type Map []Range

// Parse reads lines of the form "  f2000000-f3ffffff : name".
func Parse(r io.Reader) (Map, error) {
	var m Map
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.SplitN(line, ":", 2)
		if len(fields) != 2 {
			continue
		}
		var rng Range
		trimmed := strings.TrimLeft(fields[0], " ")
		rng.Depth = (len(fields[0]) - len(trimmed)) / 2
		_, err := fmt.Sscanf(trimmed, "%x-%x", &rng.Start, &rng.End)
		if err != nil {
			return m, fmt.Errorf("%q: %v", line, err)
		}
		rng.What = strings.TrimSpace(fields[1])
		m = append(m, rng)
	}
	return m, scanner.Err()
}

func ParseFile(fn string) (Map, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Claimed returns the deepest named range overlapping [start, end].
// An unprivileged read of /proc/iomem shows every range as zero; these
// never overlap a non-zero start.
func (m Map) Claimed(start, end uintptr) (Range, bool) {
	var found Range
	ok := false
	for _, r := range m {
		if r.End == 0 || start > r.End || end < r.Start {
			continue
		}
		if !ok || r.Depth > found.Depth {
			found, ok = r, true
		}
	}
	return found, ok
}
