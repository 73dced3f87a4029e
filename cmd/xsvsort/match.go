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
	"bufio"
	"strconv"

	"github.com/SnellerInc/xsvsort/sorting"
	"github.com/SnellerInc/xsvsort/xsv"
)

// entry point for 'xsvsort match ...'
func match(path string, values []string) {
	c := config()
	in := input(path)
	defer in.Close()
	rd, err := xsv.NewReader(in, tableOptions(c))
	if err != nil {
		exitf("%s", err)
	}
	cols := selection(rd.Header())
	if len(cols) != 1 {
		exitf("match: -s must name exactly one column")
	}
	want := make([][]byte, len(values))
	for i := range values {
		want[i] = []byte(values[i])
	}
	positions, err := sorting.MatchPositions(rd, cols[0], dashi, want)
	if err != nil {
		exitf("%s", err)
	}

	out, done := output()
	defer done()
	w := bufio.NewWriter(out)
	var buf []byte
	for _, pos := range positions {
		buf = strconv.AppendInt(buf[:0], int64(pos), 10)
		buf = append(buf, '\n')
		w.Write(buf)
	}
	if err := w.Flush(); err != nil {
		exitf("writing output: %s", err)
	}
}

func init() {
	addApplet(applet{
		name: "match",
		help: "-s col [-i] <file> <value>...",
		desc: "print the positions of the rows whose column holds one of the values",
		run: func(args []string) bool {
			if len(args) < 3 {
				return false
			}
			match(args[1], args[2:])
			return true
		},
	})
}
