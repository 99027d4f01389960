// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package dbg

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestStyles(t *testing.T) {
	buf := new(bytes.Buffer)
	Writer(buf)
	defer Writer(os.Stdout)

	NoOp.Log("hidden")
	if buf.Len() != 0 {
		t.Fatalf("NoOp wrote %q", buf.String())
	}

	Plain.Logf("%#x: %#x -> %#x", 0x10, 1, 2)
	if s := buf.String(); s != "0x10: 0x1 -> 0x2\n" {
		t.Fatalf("Plain: %q", s)
	}

	buf.Reset()
	FileLine.Log("here")
	if s := buf.String(); !strings.HasPrefix(s, "dbg/dbg_test.go:") {
		t.Fatalf("FileLine: %q", s)
	}
}

func TestLogReturnsError(t *testing.T) {
	errTest := errors.New("test")
	if err := NoOp.Log(errTest); err != errTest {
		t.Fatal("expected", errTest, "got", err)
	}
	if err := NoOp.Log("not an error"); err != nil {
		t.Fatal("unexpected", err)
	}
	if err := NoOp.Log(); err != nil {
		t.Fatal("unexpected", err)
	}
}
