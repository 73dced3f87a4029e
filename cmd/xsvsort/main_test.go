// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"errors"
	"testing"

	"github.com/SnellerInc/xsvsort"
	"github.com/SnellerInc/xsvsort/shuffle"
	"github.com/SnellerInc/xsvsort/sorting"
)

func TestHuman(t *testing.T) {
	for _, td := range []struct {
		size int64
		text string
	}{
		{6, "6"},
		{1023, "1023"},
		{1024, "1.000 KiB"},
		{(1*1024 + 60) * 1024, "1.059 MiB"},
		{256 << 20, "256.000 MiB"},
		{1024 * 1024 * 1024 * 1024, "1.000 TiB"},
	} {
		t.Run(td.text, func(t *testing.T) {
			text := human(td.size)
			if text != td.text {
				t.Fatalf("got %q, expected %q", text, td.text)
			}
		})
	}
}

func resetFlags() {
	dashN, dashnatural, dashtruncate, dashspreadsheet = false, false, false, false
	dashi, dashR, dashu, dashfaster, dashrandom = false, false, false, false, false
	dashseed = ""
}

func TestSortMode(t *testing.T) {
	defer resetFlags()
	c := new(xsvsort.Config)

	resetFlags()
	dashnatural, dashR, dashu = true, true, true
	m, err := sortMode(c)
	if err != nil {
		t.Fatal(err)
	}
	want := sorting.Mode{Order: sorting.Natural, Reverse: true, Unique: true}
	if m != want {
		t.Errorf("got %+v, want %+v", m, want)
	}

	resetFlags()
	dashN, dashspreadsheet = true, true
	if _, err := sortMode(c); err == nil {
		t.Error("two orders accepted")
	}

	resetFlags()
	dashrandom, dashseed = true, "17"
	c.RandomSource = "faster"
	m, err = sortMode(c)
	if err != nil {
		t.Fatal(err)
	}
	if m.Random == nil || m.Random.Source != shuffle.Faster || m.Random.Seed == nil || *m.Random.Seed != 17 {
		t.Errorf("got %+v", m.Random)
	}

	dashseed = "-1"
	if _, err := sortMode(c); err == nil {
		t.Error("negative seed accepted")
	}
	dashseed = ""
	c.RandomSource = "dice"
	if _, err := sortMode(c); !errors.Is(err, shuffle.ErrUnknownKind) {
		t.Errorf("got %v", err)
	}
}
