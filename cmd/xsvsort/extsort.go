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
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/SnellerInc/xsvsort/extsort"
	"github.com/SnellerInc/xsvsort/xsv"
)

// entry point for 'xsvsort extsort ...'
func extsortTable(path string) {
	c := config()
	opts := tableOptions(c)
	f, err := xsv.Open(path, opts)
	if err != nil {
		exitf("%s", err)
	}
	defer f.Close()

	cols := selection(f.Header())
	if cols == nil {
		cols = make([]int, f.Width())
		for i := range cols {
			cols[i] = i
		}
	}
	eo := c.ExtsortOptions()
	eo.Reverse = dashR
	eo.Logger = logger()
	if dashv {
		logf("extsort: memory budget %s, %d jobs", human(eo.MemoryLimit), eo.Jobs)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	positions, err := extsort.RowPositions(ctx, f, cols, eo)
	if errors.Is(err, extsort.ErrNoIndex) {
		exitf("%s: %s; run %q first", path, err, "xsvsort index "+path)
	}
	if err != nil {
		exitf("%s", err)
	}
	positionRows(f, opts.Separator, positions)
}

func init() {
	addApplet(applet{
		name: "extsort",
		help: "[-s cols] [-R] [-tmp dir] [-mem size] [-compress algo] <file>",
		desc: "sort an indexed table by sort keys spilled to disk",
		run: func(args []string) bool {
			if len(args) != 2 {
				return false
			}
			extsortTable(args[1])
			return true
		},
	})
}
