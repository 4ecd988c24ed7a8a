// Copyright (c) 2017 Euan Kemp
// Copyright (c) 2017 Daniel Oaks
// Copyright (c) 2026 The Oxygen Authors
// released under the MIT license

package irc

import (
	"fmt"
	"testing"
)

func TestCasefoldName(t *testing.T) {
	type nameTest struct {
		name   string
		folded string
	}
	testCases := []nameTest{
		{
			name:   "oxygen",
			folded: "oxygen",
		},
		{
			name:   "OXYGEN",
			folded: "oxygen",
		},
		{
			name:   "Oxy[gen]",
			folded: "oxy{gen}",
		},
		{
			name:   "back\\slash~",
			folded: "back|slash^",
		},
		{
			name:   "Ünicode",
			folded: "ünicode",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assertEqual(casefoldName(tt.name), tt.folded, t)
		})
	}
}

func TestNicksEqual(t *testing.T) {
	type pair struct {
		a, b  string
		equal bool
	}
	for i, tt := range []pair{
		{"oxygen", "OXYGEN", true},
		{"oxy[gen]", "OXY{GEN}", true},
		{"a|b", "A\\B", true},
		{"oxygen", "oxygen_", false},
		{"#room", "oxygen", false},
	} {
		t.Run(fmt.Sprintf("case %d", i), func(t *testing.T) {
			assertEqual(nicksEqual(tt.a, tt.b), tt.equal, t)
		})
	}
}
