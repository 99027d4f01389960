// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package test provides assertions for the comphy package tests.
package test

import (
	"errors"
	"fmt"
	"regexp"
	"testing"
)

// Assert wraps a testing.Test or Benchmark with several assertions.
type Assert struct {
	testing.TB
}

// Nil asserts that there is no error
func (assert Assert) Nil(err error) {
	assert.Helper()
	if err != nil {
		assert.Fatal(err)
	}
}

// Is asserts that err wraps target.
func (assert Assert) Is(err, target error) {
	assert.Helper()
	if !errors.Is(err, target) {
		assert.Fatalf("%v\n\tis not %v", err, target)
	}
}

// Error asserts that an error matches the given error, string, or regex
func (assert Assert) Error(err error, v interface{}) {
	assert.Helper()
	switch t := v.(type) {
	case error:
		if !errors.Is(err, t) {
			assert.Fatalf("expected %q", t.Error())
		}
	case string:
		if err == nil || err.Error() != t {
			assert.Fatalf("expected %q", t)
		}
	case *regexp.Regexp:
		if err == nil || !t.MatchString(err.Error()) {
			assert.Fatalf("expected %q", t.String())
		}
	default:
		assert.Fatal("can't match:", t)
	}
}

// Equal asserts that the formatted values are the same.
func (assert Assert) Equal(v, expect interface{}) {
	assert.Helper()
	s, e := fmt.Sprint(v), fmt.Sprint(expect)
	if s != e {
		assert.Fatalf("%q\n\t!= %q", s, e)
	}
}

// Hex asserts a register value.
func (assert Assert) Hex(v, expect uint32) {
	assert.Helper()
	if v != expect {
		assert.Fatalf("%#x != %#x", v, expect)
	}
}

// Match asserts string pattern match.
func (assert Assert) Match(s, pattern string) {
	assert.Helper()
	if !regexp.MustCompile(pattern).MatchString(s) {
		assert.Fatalf("%q\n\t!= @(%s)", s, pattern)
	}
}

// True asserts flag.
func (assert Assert) True(t bool) {
	assert.Helper()
	if !t {
		assert.Fatal("not true")
	}
}

// False is not True.
func (assert Assert) False(t bool) {
	assert.Helper()
	if t {
		assert.Fatal("not false")
	}
}
