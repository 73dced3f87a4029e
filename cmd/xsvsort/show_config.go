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
	"os"
	"runtime/debug"

	"sigs.k8s.io/yaml"
)

// entry point for 'xsvsort show-config'
func showConfig() {
	c := config()
	buf, err := yaml.Marshal(c)
	if err != nil {
		exitf("%s", err)
	}
	os.Stdout.Write(buf)
	fmt.Printf("# effective jobs: %d\n", c.Jobs())
	fmt.Printf("# effective memory limit: %s\n", human(c.MemoryLimit()))
}

func init() {
	addApplet(applet{
		name: "show-config",
		desc: "print the settings in effect as a profile",
		run: func(args []string) bool {
			if len(args) != 1 {
				return false
			}
			showConfig()
			return true
		},
	})
	addApplet(applet{
		name: "version",
		run: func(args []string) bool {
			bi, ok := debug.ReadBuildInfo()
			if ok {
				fmt.Println(bi.Main.Version)
			} else {
				fmt.Println("version not available")
			}
			return true
		},
	})
}
