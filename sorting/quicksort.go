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

	"github.com/SnellerInc/xsvsort/compare"
)

// sortItem pairs a record with its prepared key.
type sortItem struct {
	key [][]byte
	rec Record
}

// sortData is the state shared by the tasks of one sort.
type sortData struct {
	items []sortItem
	cmp   compare.Func
	limit indicesRange
}

func (d *sortData) less(a, b *sortItem) bool {
	return d.cmp(a.key, b.key) < 0
}

// Implementation of a multithread quicksort

// Note: the prefix "qs" is derived from "quicksort"
type qsArguments struct {
	data        *sortData
	consumer    SortedDataConsumer
	mindistance int
}

func quickSort(data *sortData, pool ThreadPool, consumer SortedDataConsumer, mindistance int) {
	args := qsArguments{
		data:        data,
		consumer:    consumer,
		mindistance: mindistance,
	}

	pool.Enqueue(0, len(data.items)-1, qsThreadFunction, args)
}

func qsThreadFunction(left int, right int, args interface{}, pool ThreadPool) {
	arguments := args.(qsArguments)
	data := arguments.data

	distance := right - left + 1
	if distance < arguments.mindistance {
		qsSortSubrange(data, left, right)
		arguments.consumer.Notify(left, right)
		return
	}

	i, j := qsPartition(data, (left+right)/2, left, right)

	// a subrange outside of the limit is never
	// written, so its order does not matter
	if left <= j {
		if data.limit.disjoint(indicesRange{left, j}) {
			arguments.consumer.Notify(left, j)
		} else {
			pool.Enqueue(left, j, qsThreadFunction, args)
		}
	}

	if i <= right {
		if data.limit.disjoint(indicesRange{i, right}) {
			arguments.consumer.Notify(i, right)
		} else {
			pool.Enqueue(i, right, qsThreadFunction, args)
		}
	}

	// items between the partitions equal the pivot
	if j+1 <= i-1 {
		arguments.consumer.Notify(j+1, i-1)
	}
}

func qsPartition(data *sortData, pivotIndex, left, right int) (int, int) {
	// Take a snapshot of the pivot, as its slot may get
	// overwritten during partition.
	pivot := data.items[pivotIndex]
	items := data.items

	for left <= right {
		for data.less(&items[left], &pivot) {
			left++
		}

		for data.less(&pivot, &items[right]) {
			right--
		}

		if left <= right {
			items[left], items[right] = items[right], items[left]
			left++
			right--
		}
	}

	return left, right
}

func qsSortSubrange(data *sortData, left, right int) {
	slices.SortFunc(data.items[left:right+1], func(a, b sortItem) bool {
		return data.less(&a, &b)
	})
}
