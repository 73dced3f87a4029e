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

package sorting

import (
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"github.com/SnellerInc/xsvsort/ints"
)

// stableSort sorts data.items keeping equal
// items in their input order.
//
// The input is split into one chunk per thread.
// Chunks are sorted concurrently, then adjacent
// runs are merged in rounds, each round merging
// all its pairs concurrently.
func stableSort(data *sortData, rp *RuntimeParameters) {
	items := data.items
	less := func(a, b sortItem) bool {
		return data.less(&a, &b)
	}
	n := len(items)
	if rp.sequential(n) {
		slices.SortStableFunc(items, less)
		return
	}

	chunks := ints.Min(rp.Threads, n/(rp.QuicksortSplitThreshold/2+1)+1)
	width := (n + chunks - 1) / chunks

	var g errgroup.Group
	g.SetLimit(rp.Threads)
	for lo := 0; lo < n; lo += width {
		run := items[lo:ints.Min(lo+width, n)]
		g.Go(func() error {
			slices.SortStableFunc(run, less)
			return nil
		})
	}
	g.Wait()

	src, dst := items, make([]sortItem, n)
	for ; width < n; width *= 2 {
		for lo := 0; lo < n; lo += 2 * width {
			mid := ints.Min(lo+width, n)
			hi := ints.Min(lo+2*width, n)
			out, left, right := dst[lo:hi], src[lo:mid], src[mid:hi]
			g.Go(func() error {
				mergeRuns(data, out, left, right)
				return nil
			})
		}
		g.Wait()
		src, dst = dst, src
	}
	if &src[0] != &items[0] {
		copy(items, src)
	}
}

// mergeRuns merges two sorted runs into out,
// taking from left on ties.
func mergeRuns(data *sortData, out, left, right []sortItem) {
	i, j, k := 0, 0, 0
	for i < len(left) && j < len(right) {
		if data.less(&right[j], &left[i]) {
			out[k] = right[j]
			j++
		} else {
			out[k] = left[i]
			i++
		}
		k++
	}
	k += copy(out[k:], left[i:])
	copy(out[k:], right[j:])
}
