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

package xsvsort

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os/exec"
	"strings"
	"sync"
	"testing"

	"golang.org/x/exp/slices"
)

// TestImports checks that library packages
// do not pull in test or command line helpers.
func TestImports(t *testing.T) {
	lines, err := exec.Command("go", "list", "./...").CombinedOutput()
	if err != nil {
		t.Skipf("go list: %s", err)
	}
	type goPackage struct {
		Imports []string `json:"Imports"`
	}
	forbidden := []string{"testing", "flag"}
	failed := make(chan string, 1)
	var wg sync.WaitGroup
	s := bufio.NewScanner(bytes.NewReader(lines))
	for s.Scan() {
		pkgname := s.Text()
		if strings.Contains(pkgname, "/cmd/") {
			continue
		}
		wg.Add(1)
		go func(pkgname string) {
			defer wg.Done()
			desc, err := exec.Command("go", "list", "-json", pkgname).Output()
			if err != nil {
				failed <- pkgname + ": " + err.Error()
				return
			}
			var pkg goPackage
			if err := json.Unmarshal(desc, &pkg); err != nil {
				failed <- pkgname + ": " + err.Error()
				return
			}
			for _, imp := range forbidden {
				if slices.Contains(pkg.Imports, imp) {
					failed <- pkgname + " imports " + imp
					return
				}
			}
		}(pkgname)
	}
	go func() {
		wg.Wait()
		close(failed)
	}()
	for msg := range failed {
		t.Error(msg)
	}
}
