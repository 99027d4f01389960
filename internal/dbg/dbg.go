// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

/*
Package dbg provides the stylized trace printer used for register access.

Usage:

	dbg.Style.Log(args...)
	dbg.Style.Logf(format, args...)

Where Style may be: NoOp, Plain, or FileLine.

Nothing is printed with NoOp style, no args, or a nil args[0].

If args[0] is an error, both Log and Logf return that error; otherwise, these
return nil, so a sequencer may

	return Trace.Log(err)

Packages keep a style variable that tests or the command line may raise,

	var Trace = dbg.NoOp

	func TestMain(m *testing.M) {
		flag.Parse()
		if testing.Verbose() {
			Trace = dbg.FileLine
		}
		os.Exit(m.Run())
	}
*/
package dbg

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
)

type Style int

const (
	NoOp     Style = iota
	Plain          // TEXT
	FileLine       // reg/reg.go:42: TEXT
	nStyles
)

var writer atomic.Value

// Atomic change of the os.Stdout default.
func Writer(w io.Writer) {
	writer.Store(w)
}

// Print style prefix, then args formated with fmt.Println.
func (style Style) Log(args ...interface{}) error {
	return style.log("", nil, args...)
}

// Print style prefix, then args formatted with fmt.Printf, and end with
// newline.
func (style Style) Logf(format string, args ...interface{}) error {
	return style.log(format, nil, args...)
}

func (style Style) String() string {
	if style < 0 || style >= nStyles {
		return fmt.Sprint(int(style))
	}
	return []string{
		"NoOp",
		"Plain",
		"FileLine",
	}[style]
}

// The unused arg is to work-around this vet false positive,
//	call has arguments but no formatting directives
func (style Style) log(format string, _ interface{}, args ...interface{}) error {
	const skip = 2
	if len(args) == 0 || args[0] == nil {
		return nil
	}
	err, ok := args[0].(error)
	if !ok {
		err = nil
	}
	if style == NoOp {
		return err
	}
	buf := new(bytes.Buffer)
	if style == FileLine {
		if _, file, line, ok := runtime.Caller(skip); ok {
			dir, base := filepath.Split(file)
			fmt.Fprint(buf, filepath.Join(filepath.Base(dir), base),
				":", line, ": ")
		}
	}
	if len(format) > 0 {
		fmt.Fprintf(buf, format, args...)
		fmt.Fprintln(buf)
	} else {
		fmt.Fprintln(buf, args...)
	}
	w, ok := writer.Load().(io.Writer)
	if !ok || w == nil {
		w = os.Stdout
	}
	w.Write(buf.Bytes())
	return err
}
