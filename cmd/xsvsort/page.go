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
	"github.com/SnellerInc/xsvsort/sorting"
)

// entry point for 'xsvsort page ...'
func page(path string) {
	c := config()
	opts := tableOptions(c)
	f := openIndexed(path, opts)
	defer f.Close()

	cols := selection(f.Header())
	if len(cols) != 1 {
		exitf("page: -s must name exactly one column")
	}
	if dashspreadsheet || dashtruncate || dashrandom || dashu {
		exitf("page: only -N, -natural, -i, -R and -faster apply")
	}
	single := sorting.SingleColumn{
		Numeric:    dashN,
		Natural:    dashnatural,
		Reverse:    dashR,
		IgnoreCase: dashi,
		Faster:     dashfaster,
		Limit:      sorting.Page(dashoffset, dashlimit),
	}
	positions, err := sorting.SortIndices(f, cols[0], single, runtimeParameters(c))
	if err != nil {
		exitf("%s", err)
	}
	positionRows(f, opts.Separator, positions)
}

func init() {
	addApplet(applet{
		name: "page",
		help: "-s col [-offset n] [-limit n] [-N|-natural] [-i] [-R] [-faster] <file>",
		desc: "print one page of an indexed table sorted by a column",
		run: func(args []string) bool {
			if len(args) != 2 {
				return false
			}
			page(args[1])
			return true
		},
	})
}
