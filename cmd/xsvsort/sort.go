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
	"fmt"
	"strconv"

	"github.com/SnellerInc/xsvsort"
	"github.com/SnellerInc/xsvsort/shuffle"
	"github.com/SnellerInc/xsvsort/sorting"
	"github.com/SnellerInc/xsvsort/xsv"
)

// sortMode builds the sorting.Mode requested by the flags.
func sortMode(c *xsvsort.Config) (sorting.Mode, error) {
	m := sorting.Mode{
		IgnoreCase: dashi,
		Reverse:    dashR,
		Unique:     dashu,
		Faster:     dashfaster,
	}
	orders := 0
	for _, o := range []struct {
		set   bool
		order sorting.Order
	}{
		{dashN, sorting.Numeric},
		{dashnatural, sorting.Natural},
		{dashtruncate, sorting.NaturalTruncating},
		{dashspreadsheet, sorting.Spreadsheet},
	} {
		if o.set {
			m.Order = o.order
			orders++
		}
	}
	if orders > 1 {
		return m, fmt.Errorf("at most one of -N, -natural, -natural-truncate, -spreadsheet may be given")
	}
	if !dashrandom {
		return m, nil
	}
	kind, err := shuffle.ParseKind(c.RandomSource)
	if err != nil {
		return m, err
	}
	m.Random = &sorting.RandomMode{Source: kind}
	if dashseed != "" {
		seed, err := strconv.ParseUint(dashseed, 10, 64)
		if err != nil {
			return m, fmt.Errorf("-seed: %w", err)
		}
		m.Random.Seed = &seed
	}
	return m, nil
}

// entry point for 'xsvsort sort ...'
func sortTable(path string) {
	c := config()
	opts := tableOptions(c)
	mode, err := sortMode(c)
	if err != nil {
		exitf("%s", err)
	}

	in := input(path)
	defer in.Close()
	rd, err := xsv.NewReader(in, opts)
	if err != nil {
		exitf("%s", err)
	}
	records, err := sorting.ReadRecords(rd)
	if err != nil {
		exitf("%s", err)
	}
	sel := selection(rd.Header())
	records, err = sorting.Sort(records, sel, mode, runtimeParameters(c))
	if err != nil {
		exitf("%s", err)
	}

	out, done := output()
	defer done()
	w := xsv.NewWriter(out, opts.Separator)
	if h := rd.Header(); h != nil {
		if err := w.WriteRow(h); err != nil {
			exitf("writing output: %s", err)
		}
	}
	for i := range records {
		if err := w.WriteRow(records[i].Fields); err != nil {
			exitf("writing output: %s", err)
		}
	}
	if err := w.Flush(); err != nil {
		exitf("writing output: %s", err)
	}
}

func init() {
	addApplet(applet{
		name: "sort",
		help: "[-s cols] [-N|-natural|-natural-truncate|-spreadsheet] [-i] [-R] [-u] [-faster] [-random [-rng src] [-seed n]] <file>",
		desc: "sort a table in memory (- reads stdin)",
		run: func(args []string) bool {
			if len(args) != 2 {
				return false
			}
			sortTable(args[1])
			return true
		},
	})
}
