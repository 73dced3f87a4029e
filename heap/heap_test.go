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

package heap

import (
	"math/rand"
	"testing"

	"golang.org/x/exp/slices"
)

func drain(h *Heap[int]) []int {
	var out []int
	for h.Len() > 0 {
		out = append(out, h.Pop())
	}
	return out
}

func TestHeap(t *testing.T) {
	less := func(x, y int) bool { return x < y }
	r := rand.New(rand.NewSource(1))

	h := New[int](nil, less)
	for i := 0; i < 1000; i++ {
		h.Push(r.Intn(500))
	}
	sorted := drain(h)
	if len(sorted) != 1000 || !slices.IsSorted(sorted) {
		t.Fatal("not sorted")
	}

	items := make([]int, 1000)
	for i := range items {
		items[i] = r.Int()
	}
	h = New(items, less)
	if sorted = drain(h); len(sorted) != 1000 || !slices.IsSorted(sorted) {
		t.Fatal("not sorted after New")
	}
}

func TestReplaceMin(t *testing.T) {
	less := func(x, y int) bool { return x < y }
	h := New([]int{5, 1, 3}, less)
	if h.Min() != 1 {
		t.Fatalf("Min: got %d", h.Min())
	}
	h.ReplaceMin(9)
	h.ReplaceMin(h.Min() + 10) // 3 becomes 13
	if got := drain(h); !slices.Equal(got, []int{5, 9, 13}) {
		t.Errorf("got %v", got)
	}
}
