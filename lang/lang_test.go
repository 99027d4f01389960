// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package lang

import "testing"

var poweron = Alt{
	EnUS: "power on",
	FrFR: "mise sous tension",
	DeDE: "einschalten",
}

func Test(t *testing.T) {
	defer func() { Lang = "" }()
	for lang, expect := range poweron {
		Lang = lang
		if s := poweron.String(); s != expect {
			t.Fatalf("%q != %q", s, expect)
		}
	}
	Lang = JaJP
	if s := poweron.String(); s != poweron[EnUS] {
		t.Fatalf("fallback %q != %q", s, poweron[EnUS])
	}
}
