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
	"github.com/SnellerInc/xsvsort/xsv"
)

func init() {
	addApplet(applet{
		name: "index",
		help: "<file>...",
		desc: "write the row index <file>" + xsv.IndexSuffix + " used by extsort and page",
		run: func(args []string) bool {
			if len(args) < 2 {
				return false
			}
			opts := tableOptions(config())
			for _, path := range args[1:] {
				idx, err := xsv.WriteIndexFile(path, opts)
				if err != nil {
					exitf("indexing %s: %s", path, err)
				}
				if dashv {
					logf("%s: %d rows", path, idx.Len())
				}
			}
			return true
		},
	})
}
