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

package xsv

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// ParseSelection parses a comma separated list of
// columns. Every item is a 1-based column number,
// an inclusive range "a-b" of column numbers, or a
// column name looked up in header. The result holds
// 0-based column indices in the order given.
func ParseSelection(list string, header [][]byte) ([]int, error) {
	if strings.TrimSpace(list) == "" {
		return nil, fmt.Errorf("%w: empty selection", ErrColumnRange)
	}
	var out []int
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if lo, hi, ok := strings.Cut(item, "-"); ok {
			a, errA := strconv.Atoi(lo)
			b, errB := strconv.Atoi(hi)
			if errA == nil && errB == nil {
				if a < 1 || b < 1 {
					return nil, fmt.Errorf("%w: %q", ErrColumnRange, item)
				}
				step := 1
				if b < a {
					step = -1
				}
				for c := a; ; c += step {
					out = append(out, c-1)
					if c == b {
						break
					}
				}
				continue
			}
		}
		if n, err := strconv.Atoi(item); err == nil {
			if n < 1 {
				return nil, fmt.Errorf("%w: %q", ErrColumnRange, item)
			}
			out = append(out, n-1)
			continue
		}
		found := false
		for i := range header {
			if bytes.Equal(header[i], []byte(item)) {
				out = append(out, i)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: no column named %q", ErrColumnRange, item)
		}
	}
	return out, nil
}
